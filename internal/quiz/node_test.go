package quiz

import (
	"strings"

	"github.com/brogergvhs/skillquiz/internal/dom"
)

// elem is a hand-built in-memory tree; only tag selectors and the
// heading group selector are understood.
type elem struct {
	tag      string
	attrs    map[string]string
	text     string
	htmlErr  error
	children []*elem
}

func el(tag string, attrs map[string]string, children ...*elem) *elem {
	return &elem{tag: tag, attrs: attrs, children: children}
}

func txt(tag, text string) *elem {
	return &elem{tag: tag, text: text}
}

func (e *elem) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *elem) Children() []dom.Node {
	out := make([]dom.Node, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

func (e *elem) matches(selector string) bool {
	for _, s := range strings.Split(selector, ",") {
		if strings.TrimSpace(s) == e.tag {
			return true
		}
	}
	return false
}

func (e *elem) walk(fn func(*elem)) {
	for _, c := range e.children {
		fn(c)
		c.walk(fn)
	}
}

func (e *elem) Find(selector string) (dom.Node, bool) {
	all := e.FindAll(selector)
	if len(all) == 0 {
		return nil, false
	}
	return all[0], true
}

func (e *elem) FindAll(selector string) []dom.Node {
	var out []dom.Node
	e.walk(func(c *elem) {
		if c.matches(selector) {
			out = append(out, c)
		}
	})
	return out
}

func (e *elem) Text() string {
	var b strings.Builder
	b.WriteString(e.text)
	for _, c := range e.children {
		b.WriteString(c.Text())
	}
	return b.String()
}

func (e *elem) HTML() (string, error) {
	return e.text, e.htmlErr
}

func heading(text string) *elem {
	return el("div", map[string]string{"class": HeadingClass}, txt("h4", text))
}

func highlight(code string) *elem {
	return el("div", map[string]string{"class": "highlight highlight-source-js"}, txt("pre", code))
}

func item(text string, checked bool) *elem {
	attrs := map[string]string{"type": "checkbox"}
	if checked {
		attrs["checked"] = ""
	}
	li := el("li", map[string]string{"class": "task-list-item"}, el("input", attrs))
	li.text = " " + text + " "
	return li
}

func tasks(items ...*elem) *elem {
	return el("ul", map[string]string{"class": ChecklistClass}, items...)
}

func container(children ...*elem) *elem {
	return el("article", nil, children...)
}
