// Package dom defines the read-only element capability the quiz
// extractor walks, and adapts goquery selections to it.
package dom

// Node is a single element in an already parsed or rendered document.
// Implementations never mutate the underlying tree.
type Node interface {
	// Attr returns the attribute value and whether it is present at all.
	Attr(name string) (string, bool)
	// Children returns the direct element children in document order.
	Children() []Node
	// Find returns the first descendant matching a CSS selector.
	Find(selector string) (Node, bool)
	// FindAll returns every descendant matching a CSS selector, in document order.
	FindAll(selector string) []Node
	// Text returns the rendered text content.
	Text() string
	// HTML returns the inner markup.
	HTML() (string, error)
}
