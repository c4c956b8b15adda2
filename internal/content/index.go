package content

import (
	"errors"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrRangeOutOfBounds reports a requested character range outside the
// indexed content.
var ErrRangeOutOfBounds = errors.New("content: range out of bounds")

// BlockKind classifies the block-level element a run belongs to.
type BlockKind int

const (
	// KindParagraph is a <p> element.
	KindParagraph BlockKind = iota
	// KindHeading is an <h1>..<h6> element; Block.Level carries the rank.
	KindHeading
	// KindListItem is an <li> element.
	KindListItem
	// KindBlockquote is a <blockquote> element.
	KindBlockquote
	// KindDivision is a <div> element, or the implicit block wrapping text
	// that has no block-level ancestor.
	KindDivision
)

func (k BlockKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindListItem:
		return "listItem"
	case KindBlockquote:
		return "blockquote"
	}
	return "division"
}

// Run is one indexed text leaf: a text node attributed to its nearest
// block-level ancestor, addressed by global rune offset.
type Run struct {
	Node  *html.Node
	Text  string
	Start int
	Len   int
	Block *Block
	Ruby  bool

	runes []rune
}

// End returns the run's exclusive end offset.
func (r *Run) End() int { return r.Start + r.Len }

// Block is a maximal stretch of runs sharing one block-level element.
// A block element interrupted by a nested block yields one Block entry
// per contiguous stretch, so blocks always partition the indexed text.
type Block struct {
	Node  *html.Node
	Kind  BlockKind
	Level int
	Runs  []*Run
	Start int
	Len   int
	Ruby  bool
}

// End returns the block's exclusive end offset.
func (b *Block) End() int { return b.Start + b.Len }

// Text returns the block's indexed text.
func (b *Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Position addresses a point in the indexed text: a run and a rune offset
// within it.
type Position struct {
	Run    *Run
	Offset int
}

// Segment is the intersection of a character range with one block.
type Segment struct {
	Block *Block
	Start int
	End   int
	Chars int
}

// rubySpan is the base-text range of one ruby element.
type rubySpan struct {
	start, end int
}

// Index is the addressable form of a document: runs in document order,
// prefix rune counts, block partition, and ruby span table.
type Index struct {
	Doc    *Document
	Runs   []*Run
	Blocks []*Block
	Total  int

	prefix    []int
	rubySpans []rubySpan
	runFor    map[*html.Node]*Run
	blockElem map[*html.Node]bool
}

// NewIndex walks the document and builds its character index. Text inside
// ruby annotation elements (rt, rp) is excluded; ruby base text is indexed
// and flagged. Zero-length leaves are skipped, as is inter-block
// whitespace with no block ancestor.
func NewIndex(doc *Document) *Index {
	ix := &Index{
		Doc:       doc,
		runFor:    make(map[*html.Node]*Run),
		blockElem: make(map[*html.Node]bool),
	}
	w := &indexWalker{ix: ix}
	w.walk(doc.Body(), nil, false)

	ix.prefix = make([]int, len(ix.Runs)+1)
	for i, r := range ix.Runs {
		ix.prefix[i+1] = ix.prefix[i] + r.Len
	}
	ix.Total = ix.prefix[len(ix.Runs)]
	return ix
}

type indexWalker struct {
	ix *Index

	current   *Block
	rubyOpen  bool
	rubyStart int
}

func blockKindFor(n *html.Node) (BlockKind, int, bool) {
	switch n.DataAtom {
	case atom.P:
		return KindParagraph, 0, true
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return KindHeading, int(n.Data[1] - '0'), true
	case atom.Li:
		return KindListItem, 0, true
	case atom.Blockquote:
		return KindBlockquote, 0, true
	case atom.Div:
		return KindDivision, 0, true
	}
	return 0, 0, false
}

// walk visits n carrying the nearest open block element (nil at top
// level) and whether the subtree sits inside a ruby base.
func (w *indexWalker) walk(n *html.Node, blockNode *html.Node, inRuby bool) {
	switch n.Type {
	case html.TextNode:
		w.text(n, blockNode, inRuby)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Head, atom.Title, atom.Template:
			return
		case atom.Rt, atom.Rp:
			return
		case atom.Ruby:
			w.openRuby()
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				w.walk(c, blockNode, true)
			}
			w.closeRuby()
			return
		case atom.Rb:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				w.walk(c, blockNode, inRuby)
			}
			return
		}
		if _, _, ok := blockKindFor(n); ok {
			w.ix.blockElem[n] = true
			// Entering a block ends the enclosing stretch; leaving it ends
			// its own, so an interrupted outer block resumes as a fresh
			// entry and blocks stay a partition of the text.
			w.current = nil
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				w.walk(c, n, false)
			}
			w.current = nil
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, blockNode, inRuby)
	}
}

func (w *indexWalker) text(n *html.Node, blockNode *html.Node, inRuby bool) {
	if n.Data == "" {
		return
	}
	if strings.TrimSpace(n.Data) == "" {
		// Formatting whitespace: outside any block, or padding around
		// block boundaries inside a container. Whitespace between inline
		// siblings stays.
		if blockNode == nil || bordersBlock(n) {
			return
		}
	}

	blk := w.blockFor(blockNode)
	runes := []rune(n.Data)
	run := &Run{
		Node:  n,
		Text:  n.Data,
		Start: w.ix.Total,
		Len:   len(runes),
		Block: blk,
		Ruby:  inRuby,
		runes: runes,
	}
	w.ix.Total += run.Len
	w.ix.Runs = append(w.ix.Runs, run)
	w.ix.runFor[n] = run
	blk.Runs = append(blk.Runs, run)
	blk.Len += run.Len
	if inRuby {
		blk.Ruby = true
	}
}

// bordersBlock reports whether a text node touches a block-level sibling
// or the edge of its parent.
func bordersBlock(n *html.Node) bool {
	for _, sib := range []*html.Node{n.PrevSibling, n.NextSibling} {
		if sib == nil {
			return true
		}
		if sib.Type == html.ElementNode {
			if _, _, ok := blockKindFor(sib); ok {
				return true
			}
		}
	}
	return false
}

// blockFor returns the open Block entry for blockNode, starting a new
// entry when the element changed or text appeared outside any block.
func (w *indexWalker) blockFor(blockNode *html.Node) *Block {
	if w.current != nil && w.current.Node == blockNode {
		return w.current
	}
	blk := &Block{Node: blockNode, Kind: KindDivision, Start: w.ix.Total}
	if blockNode != nil {
		kind, level, _ := blockKindFor(blockNode)
		blk.Kind = kind
		blk.Level = level
	}
	w.ix.Blocks = append(w.ix.Blocks, blk)
	w.current = blk
	return blk
}

func (w *indexWalker) openRuby() {
	w.rubyOpen = true
	w.rubyStart = w.ix.Total
}

func (w *indexWalker) closeRuby() {
	if !w.rubyOpen {
		return
	}
	w.rubyOpen = false
	if w.ix.Total > w.rubyStart {
		w.ix.rubySpans = append(w.ix.rubySpans, rubySpan{w.rubyStart, w.ix.Total})
	}
}

// PositionFor maps a global rune offset to a run position in O(log n).
// Offsets clamp to [0, Total]. An offset on a run boundary resolves to the
// earliest run: the end of the preceding run, not the start of the next.
func (ix *Index) PositionFor(offset int) Position {
	if len(ix.Runs) == 0 {
		return Position{}
	}
	if offset < 0 {
		offset = 0
	}
	if offset > ix.Total {
		offset = ix.Total
	}
	if offset == 0 {
		return Position{Run: ix.Runs[0], Offset: 0}
	}
	i := sort.Search(len(ix.Runs), func(j int) bool {
		return ix.prefix[j+1] >= offset
	})
	return Position{Run: ix.Runs[i], Offset: offset - ix.prefix[i]}
}

// RunAt returns the run strictly containing offset, nil past the end.
func (ix *Index) RunAt(offset int) *Run {
	if offset < 0 || offset >= ix.Total {
		return nil
	}
	i := sort.Search(len(ix.Runs), func(j int) bool {
		return ix.prefix[j+1] > offset
	})
	return ix.Runs[i]
}

// RuneAt returns the rune at a global offset.
func (ix *Index) RuneAt(offset int) (rune, bool) {
	run := ix.RunAt(offset)
	if run == nil {
		return 0, false
	}
	return run.runes[offset-run.Start], true
}

// BlockAt returns the block containing offset, nil past the end.
func (ix *Index) BlockAt(offset int) *Block {
	run := ix.RunAt(offset)
	if run == nil {
		return nil
	}
	return run.Block
}

// Segments returns the block segments covering [start, end), split at
// block boundaries. Extents are the caller's concern; segments carry
// only range arithmetic.
func (ix *Index) Segments(start, end int) []Segment {
	if start < 0 {
		start = 0
	}
	if end > ix.Total {
		end = ix.Total
	}
	if start >= end {
		return nil
	}

	i := sort.Search(len(ix.Blocks), func(j int) bool {
		return ix.Blocks[j].End() > start
	})
	var segs []Segment
	for ; i < len(ix.Blocks) && ix.Blocks[i].Start < end; i++ {
		b := ix.Blocks[i]
		s := b.Start
		if s < start {
			s = start
		}
		e := b.End()
		if e > end {
			e = end
		}
		segs = append(segs, Segment{Block: b, Start: s, End: e, Chars: e - s})
	}
	return segs
}

// RubySpanAt returns the base-text range of the ruby element enclosing
// offset. ok is false when the offset is not inside ruby base text.
func (ix *Index) RubySpanAt(offset int) (start, end int, ok bool) {
	i := sort.Search(len(ix.rubySpans), func(j int) bool {
		return ix.rubySpans[j].end > offset
	})
	if i >= len(ix.rubySpans) || offset < ix.rubySpans[i].start {
		return 0, 0, false
	}
	return ix.rubySpans[i].start, ix.rubySpans[i].end, true
}
