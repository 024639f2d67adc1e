// Package dom provides an in-memory document model backed by goquery, so
// selector synthesis and page classification run against a parsed HTML
// snapshot instead of a real browser.
package dom

import (
	"fmt"
	"io"
	"strings"

	"action_recorder/domain/entities"
	"action_recorder/domain/interfaces"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document wraps a parsed goquery document
type Document struct {
	doc *goquery.Document
}

// Parse - parses HTML from a reader
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString - parses an HTML string
func ParseString(source string) (*Document, error) {
	return Parse(strings.NewReader(source))
}

// Root - returns the <html> element
func (d *Document) Root() interfaces.Element {
	root := d.doc.Children().First()
	if root.Length() == 0 {
		return nil
	}
	return &Element{sel: root}
}

// QueryAll - returns all elements matching a CSS selector
func (d *Document) QueryAll(selector string) ([]interfaces.Element, error) {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	found := d.doc.FindMatcher(matcher)
	elements := make([]interfaces.Element, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &Element{sel: s})
	})
	return elements, nil
}

// QueryFirst - returns the first element matching a CSS selector, or nil
func (d *Document) QueryFirst(selector string) (interfaces.Element, error) {
	elements, err := d.QueryAll(selector)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, nil
	}
	return elements[0], nil
}

// Title - returns the document title
func (d *Document) Title() string {
	return entities.NormalizeText(d.doc.Find("title").First().Text())
}

// Element is a single element node
type Element struct {
	sel *goquery.Selection
}

func (e *Element) node() *html.Node {
	return e.sel.Get(0)
}

// TagName - returns the lower-case tag name
func (e *Element) TagName() string {
	return strings.ToLower(goquery.NodeName(e.sel))
}

// Attr - returns an attribute value
func (e *Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

// Attributes - returns all attributes
func (e *Element) Attributes() map[string]string {
	n := e.node()
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[a.Key] = a.Val
	}
	return attrs
}

// Classes - returns the class list
func (e *Element) Classes() []string {
	class, _ := e.sel.Attr("class")
	return strings.Fields(class)
}

// Parent - returns the parent element, nil at the root
func (e *Element) Parent() interfaces.Element {
	parent := e.sel.Parent()
	if parent.Length() == 0 {
		return nil
	}
	return &Element{sel: parent}
}

// Children - returns the element children
func (e *Element) Children() []interfaces.Element {
	children := e.sel.Children()
	result := make([]interfaces.Element, 0, children.Length())
	children.Each(func(_ int, s *goquery.Selection) {
		result = append(result, &Element{sel: s})
	})
	return result
}

// DirectText - returns text of the element's own text nodes
func (e *Element) DirectText() string {
	var sb strings.Builder
	for c := e.node().FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteByte(' ')
		}
	}
	return entities.NormalizeText(sb.String())
}

// TextContent - returns the subtree text
func (e *Element) TextContent() string {
	return entities.NormalizeText(e.sel.Text())
}

// Same - reports whether both elements are the same node
func (e *Element) Same(other interfaces.Element) bool {
	o, ok := other.(*Element)
	if !ok || o == nil {
		return false
	}
	return e.node() == o.node()
}

var _ interfaces.Document = (*Document)(nil)
var _ interfaces.Element = (*Element)(nil)
