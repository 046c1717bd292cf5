// Package dom is a small page model over golang.org/x/net/html.
//
// It covers what the preview renderers need from a browser DOM: look up an
// element by id, replace an element's children or the element itself, and
// serialize nodes back to markup. Nodes are plain *html.Node values so callers
// can use the html package directly where this API stops.
//
// Like the html package it builds on, dom does no locking.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNilNode is returned when a nil node is passed where one is required.
var ErrNilNode = errors.New("nil node")

// Document wraps a parsed HTML document node. A Document is not safe for
// concurrent mutation: it has a single writer, and readers must not overlap
// that writer.
type Document struct {
	root *html.Node
}

// NewDocument returns an empty document with html, head and body elements.
func NewDocument() *Document {
	// Parsing empty input cannot fail and yields the implied skeleton.
	root, _ := html.Parse(strings.NewReader(""))
	return &Document{root: root}
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html document: %w", err)
	}
	return &Document{root: root}, nil
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the body element, or nil if the document has none.
func (d *Document) Body() *html.Node {
	return findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Body
	})
}

// ElementByID returns the first element whose id attribute equals id, or nil.
func (d *Document) ElementByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	return findFirst(d.root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		v, ok := Attr(n, "id")
		return ok && v == id
	})
}

// Render writes the whole document.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("render html document: %w", err)
	}
	return nil
}

// String renders the document, returning "" if rendering fails.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every element below n (n included) with the given tag name.
func FindAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

// Element creates a detached element node.
func Element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// Text creates a detached text node. Its content is escaped on render.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// NewAttr builds an attribute value for Element.
func NewAttr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// RemoveAttr deletes attribute key from n if present.
func RemoveAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

// HasClass reports whether n's class attribute contains class.
func HasClass(n *html.Node, class string) bool {
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// SetContent replaces all children of n with children, detaching each new
// child from wherever it currently lives.
func SetContent(n *html.Node, children ...*html.Node) error {
	if n == nil {
		return ErrNilNode
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	for _, c := range children {
		if c == nil {
			continue
		}
		Detach(c)
		n.AppendChild(c)
	}
	return nil
}

// Replace puts repl where old is. It returns false, changing nothing, when old
// has no parent.
func Replace(old, repl *html.Node) bool {
	if old == nil || repl == nil || old.Parent == nil {
		return false
	}
	Detach(repl)
	old.Parent.InsertBefore(repl, old)
	old.Parent.RemoveChild(old)
	return true
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) (string, error) {
	if n == nil {
		return "", ErrNilNode
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render <%s> content: %w", n.Data, err)
		}
	}
	return buf.String(), nil
}

// OuterHTML renders n itself.
func OuterHTML(n *html.Node) (string, error) {
	if n == nil {
		return "", ErrNilNode
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("render <%s>: %w", n.Data, err)
	}
	return buf.String(), nil
}

// TextContent concatenates all text below n.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		for ch := c.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	if n != nil {
		walk(n)
	}
	return sb.String()
}
