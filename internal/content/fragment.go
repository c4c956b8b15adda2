package content

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RubyPair is one annotated stretch inside a fragment block: the covered
// base text and the annotation that rides it.
type RubyPair struct {
	Base       string
	Annotation string
}

// FragmentBlock summarizes one block's contribution to a fragment, in the
// form measurement backends consume.
type FragmentBlock struct {
	Kind      BlockKind
	Level     int
	Text      string
	Ruby      bool
	RubyPairs []RubyPair
}

// Fragment is a deep-cloned forest covering one character range: whole
// blocks where fully covered, partial blocks rebuilt with only the covered
// text, ruby annotations carried along with their covered bases.
type Fragment struct {
	nodes  []*html.Node
	blocks []FragmentBlock
	start  int
	chars  int
}

// CloneRange clones the minimal forest covering [start, start+n).
func (ix *Index) CloneRange(start, n int) (*Fragment, error) {
	if start < 0 || n < 0 || start+n > ix.Total {
		return nil, fmt.Errorf("cloning [%d, %d) of %d: %w", start, start+n, ix.Total, ErrRangeOutOfBounds)
	}
	f := &Fragment{start: start, chars: n}
	if n == 0 {
		return f, nil
	}
	for _, seg := range ix.Segments(start, start+n) {
		c := &blockCloner{ix: ix, blk: seg.Block, lo: seg.Start, hi: seg.End}
		node := c.clone()
		f.nodes = append(f.nodes, node)
		f.blocks = append(f.blocks, FragmentBlock{
			Kind:      seg.Block.Kind,
			Level:     seg.Block.Level,
			Text:      c.text.String(),
			Ruby:      c.ruby,
			RubyPairs: c.pairs,
		})
	}
	return f, nil
}

// Start returns the fragment's first global rune offset.
func (f *Fragment) Start() int { return f.start }

// Chars returns the fragment's rune count.
func (f *Fragment) Chars() int { return f.chars }

// Empty reports whether the fragment covers no text.
func (f *Fragment) Empty() bool { return f.chars == 0 }

// Blocks returns the per-block summaries in order.
func (f *Fragment) Blocks() []FragmentBlock { return f.blocks }

// Nodes returns the top-level cloned elements in order.
func (f *Fragment) Nodes() []*html.Node { return f.nodes }

// Text returns the fragment's base text, annotation text excluded.
func (f *Fragment) Text() string {
	var b strings.Builder
	for _, blk := range f.blocks {
		b.WriteString(blk.Text)
	}
	return b.String()
}

// Render serializes the fragment back to HTML.
func (f *Fragment) Render() (string, error) {
	var buf bytes.Buffer
	for _, n := range f.nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("rendering fragment: %w", err)
		}
	}
	return buf.String(), nil
}

// MarkContinued tags the trailing element as continuing onto the next
// page, and optionally as ending in a short line.
func (f *Fragment) MarkContinued(shortLine bool) {
	if len(f.nodes) == 0 {
		return
	}
	last := f.nodes[len(f.nodes)-1]
	last.Attr = append(last.Attr, html.Attribute{Key: "data-continued", Val: "true"})
	if shortLine {
		last.Attr = append(last.Attr, html.Attribute{Key: "data-short-line", Val: "true"})
	}
}

// blockCloner rebuilds one block element keeping only the text inside
// [lo, hi), accumulating the kept base text and ruby pairs as it goes.
type blockCloner struct {
	ix     *Index
	blk    *Block
	lo, hi int
	text   strings.Builder
	ruby   bool
	pairs  []RubyPair
}

func (c *blockCloner) clone() *html.Node {
	var root *html.Node
	if c.blk.Node != nil {
		root = shallowClone(c.blk.Node)
		for child := c.blk.Node.FirstChild; child != nil; child = child.NextSibling {
			c.cloneInto(child, root)
		}
	} else {
		// Text with no block ancestor renders inside a synthetic div.
		root = &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
		for _, run := range c.blk.Runs {
			c.cloneText(run, root)
		}
	}
	return root
}

// cloneInto clones orig under parent when it holds covered text, and
// reports whether it did.
func (c *blockCloner) cloneInto(orig *html.Node, parent *html.Node) bool {
	switch orig.Type {
	case html.TextNode:
		run := c.ix.runFor[orig]
		if run == nil || run.Block != c.blk {
			return false
		}
		return c.cloneText(run, parent)
	case html.ElementNode:
		switch orig.DataAtom {
		case atom.Rt, atom.Rp:
			// Annotation outside a ruby element has nothing to annotate.
			return false
		case atom.Ruby:
			node, kept := c.cloneRuby(orig)
			if kept {
				parent.AppendChild(node)
			}
			return kept
		}
		if c.ix.blockElem[orig] {
			// Nested blocks are cloned as their own segments.
			return false
		}
		clone := shallowClone(orig)
		kept := false
		for child := orig.FirstChild; child != nil; child = child.NextSibling {
			if c.cloneInto(child, clone) {
				kept = true
			}
		}
		if kept {
			parent.AppendChild(clone)
		}
		return kept
	}
	return false
}

// cloneText appends the covered slice of a run's text under parent.
func (c *blockCloner) cloneText(run *Run, parent *html.Node) bool {
	lo := run.Start
	if lo < c.lo {
		lo = c.lo
	}
	hi := run.End()
	if hi > c.hi {
		hi = c.hi
	}
	if lo >= hi {
		return false
	}
	part := string(run.runes[lo-run.Start : hi-run.Start])
	parent.AppendChild(&html.Node{Type: html.TextNode, Data: part})
	c.text.WriteString(part)
	return true
}

// cloneRuby clones a ruby element keeping covered base text together with
// the rt/rp annotation that follows it. An annotation is dropped when its
// base was not covered.
func (c *blockCloner) cloneRuby(orig *html.Node) (*html.Node, bool) {
	clone := shallowClone(orig)
	pending := false
	any := false
	baseFrom := 0
	for child := orig.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && (child.DataAtom == atom.Rt || child.DataAtom == atom.Rp) {
			if pending {
				clone.AppendChild(deepClone(child))
				if child.DataAtom == atom.Rt {
					c.pairs = append(c.pairs, RubyPair{
						Base:       c.text.String()[baseFrom:],
						Annotation: nodeText(child),
					})
					baseFrom = c.text.Len()
				}
			}
			continue
		}
		if !c.hasIndexedText(child) {
			continue
		}
		if !pending {
			baseFrom = c.text.Len()
		}
		kept := c.cloneInto(child, clone)
		pending = kept
		if kept {
			any = true
		}
	}
	if any {
		c.ruby = true
	}
	return clone, any
}

// hasIndexedText reports whether any indexed run of this block sits under n.
func (c *blockCloner) hasIndexedText(n *html.Node) bool {
	if n.Type == html.TextNode {
		run := c.ix.runFor[n]
		return run != nil && run.Block == c.blk
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if c.hasIndexedText(child) {
			return true
		}
	}
	return false
}

func shallowClone(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		clone.Attr = append([]html.Attribute(nil), n.Attr...)
	}
	return clone
}

func deepClone(n *html.Node) *html.Node {
	clone := shallowClone(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		clone.AppendChild(deepClone(child))
	}
	return clone
}
