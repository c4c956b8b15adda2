// Package content parses rich text into a character-indexed form the
// pagination pipeline can address by global rune offset: a document tree,
// a run list with prefix sums, block attribution, ruby span tracking, and
// range cloning into renderable fragments.
package content

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WritingMode selects the page flow direction.
type WritingMode int

const (
	// HorizontalTB flows lines top to bottom; pages consume height.
	HorizontalTB WritingMode = iota
	// VerticalRL flows columns right to left; pages consume width.
	VerticalRL
)

// Vertical reports whether text flows in vertical columns, meaning pages
// consume width rather than height.
func (m WritingMode) Vertical() bool { return m == VerticalRL }

func (m WritingMode) String() string {
	if m == VerticalRL {
		return "vertical-rl"
	}
	return "horizontal-tb"
}

// ParseWritingMode parses the CSS writing-mode keywords "vertical-rl" and
// "horizontal-tb", plus the short forms "vertical" and "horizontal".
func ParseWritingMode(s string) (WritingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertical-rl", "vertical":
		return VerticalRL, nil
	case "horizontal-tb", "horizontal":
		return HorizontalTB, nil
	}
	return HorizontalTB, fmt.Errorf("unknown writing mode %q", s)
}

// Document is a parsed content tree.
type Document struct {
	root  *html.Node
	body  *html.Node
	title string
}

// Parse parses HTML content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing content: %w", err)
	}

	doc := &Document{root: root}
	doc.body = findElement(root, atom.Body)
	if doc.body == nil {
		doc.body = root
	}
	if t := findElement(root, atom.Title); t != nil {
		doc.title = strings.TrimSpace(nodeText(t))
	}
	if doc.title == "" {
		if h := findElement(doc.body, atom.H1); h != nil {
			doc.title = strings.TrimSpace(nodeText(h))
		}
	}
	return doc, nil
}

// ParseString parses HTML content from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Title returns the document title: the <title> text when present,
// otherwise the first heading's text, otherwise "".
func (d *Document) Title() string { return d.title }

// Root returns the root of the parsed tree.
func (d *Document) Root() *html.Node { return d.root }

// Body returns the body element the indexer walks.
func (d *Document) Body() *html.Node { return d.body }

// findElement returns the first element with the given atom in a
// depth-first walk, or nil.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// nodeText concatenates the text descendants of a node.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
