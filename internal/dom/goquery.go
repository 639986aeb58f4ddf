package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type selectionNode struct {
	sel *goquery.Selection
}

// Wrap adapts the first element of sel. It returns nil for an empty selection.
func Wrap(sel *goquery.Selection) Node {
	if sel == nil || sel.Length() == 0 {
		return nil
	}

	return selectionNode{sel: sel.First()}
}

func wrapEach(sel *goquery.Selection) []Node {
	out := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, selectionNode{sel: s})
	})

	return out
}

func (n selectionNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n selectionNode) Children() []Node {
	return wrapEach(n.sel.Children())
}

func (n selectionNode) Find(selector string) (Node, bool) {
	found := n.sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}

	return selectionNode{sel: found}, true
}

func (n selectionNode) FindAll(selector string) []Node {
	return wrapEach(n.sel.Find(selector))
}

func (n selectionNode) Text() string {
	return n.sel.Text()
}

func (n selectionNode) HTML() (string, error) {
	return n.sel.Html()
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return doc, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(html string) (*goquery.Document, error) {
	return Parse(strings.NewReader(html))
}

// Select returns the first element in doc matching selector.
func Select(doc *goquery.Document, selector string) (Node, bool) {
	n := Wrap(doc.Find(selector))
	return n, n != nil
}
