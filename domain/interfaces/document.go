package interfaces

// Document is the query capability the selector and page analysis code needs
// from a live or in-memory document
type Document interface {
	// Root returns the document element (<html>)
	Root() Element

	// QueryAll returns elements matching a CSS selector in document order.
	// A malformed selector returns an error.
	QueryAll(selector string) ([]Element, error)
}

// Element is a read-only view of one element node
type Element interface {
	// TagName returns the lower-case tag name
	TagName() string

	// Attr returns an attribute value and whether it is present
	Attr(name string) (string, bool)

	// Attributes returns all attributes in source order
	Attributes() map[string]string

	// Classes returns the class list
	Classes() []string

	// Parent returns the parent element, nil at the root
	Parent() Element

	// Children returns the element children
	Children() []Element

	// DirectText returns text of the element's own text nodes
	DirectText() string

	// TextContent returns the whole subtree text
	TextContent() string

	// Same reports whether both values refer to the same node
	Same(other Element) bool
}
