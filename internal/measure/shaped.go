package measure

import (
	"bytes"
	"fmt"
	"math"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/gobunko/gobunko/internal/content"
	"github.com/gobunko/gobunko/internal/observe"
)

// Shaped measures with HarfBuzz shaping against a real font face: correct
// advances for proportional and composed text, top-to-bottom runs in
// vertical flow, and ruby overhang when an annotation outgrows its base.
type Shaped struct {
	face   *gofont.Face
	shaper shaping.HarfbuzzShaper
	mu     sync.Mutex
	log    observe.Logger
}

// NewShaped parses a TrueType/OpenType face and returns the shaping
// backend.
func NewShaped(fontData []byte, log observe.Logger) (*Shaped, error) {
	if log == nil {
		log = observe.NopLogger()
	}
	if len(fontData) == 0 {
		return nil, ErrNoFont
	}
	face, err := gofont.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("parsing measurement font: %w", err)
	}
	return &Shaped{face: face, log: log}, nil
}

// advance shapes one script-segmented string and returns its total
// advance along the writing direction, in the same unit as size.
func (s *Shaped) advance(str string, size float64, vertical bool) float64 {
	runes := []rune(str)
	if len(runes) == 0 || size <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	fixedSize := fixed.Int26_6(size * 64)
	for _, run := range segmentByScript(runes) {
		dir := scriptDirection(run.script)
		if vertical {
			dir = di.DirectionTTB
		}
		input := shaping.Input{
			Text:      runes,
			RunStart:  run.start,
			RunEnd:    run.end,
			Direction: dir,
			Face:      s.face,
			Size:      fixedSize,
			Script:    run.script,
			Language:  language.DefaultLanguage(),
		}
		output := s.shaper.Shape(input)
		for _, g := range output.Glyphs {
			if vertical {
				total += math.Abs(float64(g.YAdvance) / 64.0)
			} else {
				total += math.Abs(float64(g.XAdvance) / 64.0)
			}
		}
	}
	return total
}

// blockLineLength returns the rendered length of a block's text as one
// long line, with ruby overhang widening annotated stretches whose
// half-size annotation outgrows its base.
func (s *Shaped) blockLineLength(geom Geometry, blk content.FragmentBlock) float64 {
	vertical := geom.Mode.Vertical()
	length := s.advance(blk.Text, geom.FontSize, vertical)
	for _, pair := range blk.RubyPairs {
		base := s.advance(pair.Base, geom.FontSize, vertical)
		ann := s.advance(pair.Annotation, geom.FontSize*0.5, vertical)
		if ann > base {
			length += ann - base
		}
	}
	return length
}

func (s *Shaped) blockLines(geom Geometry, blk content.FragmentBlock) float64 {
	inline := geom.InlineExtent()
	if inline <= 0 {
		return 0
	}
	lines := math.Ceil(s.blockLineLength(geom, blk) / inline)
	if lines < 1 {
		lines = 1
	}
	return lines
}

func blockAsFragmentBlock(b *content.Block) content.FragmentBlock {
	return content.FragmentBlock{Kind: b.Kind, Level: b.Level, Text: b.Text(), Ruby: b.Ruby}
}

// BlockExtent measures a lone block along the writing axis.
func (s *Shaped) BlockExtent(f *Frame, b *content.Block) float64 {
	if f == nil || f.Released() || b == nil {
		return 0
	}
	geom := f.Geometry()
	pitch := geom.Pitch()
	if b.Ruby {
		pitch *= geom.rubyPitchFactor()
	}
	return s.blockLines(geom, blockAsFragmentBlock(b)) * pitch
}

// FrameExtent reports the available extent along the writing axis.
func (s *Shaped) FrameExtent(f *Frame) float64 {
	if f == nil || f.Released() {
		return 0
	}
	return f.Geometry().AxisExtent()
}

// Overflowing reports whether the current fragment exceeds the frame.
func (s *Shaped) Overflowing(f *Frame) bool {
	if f == nil || f.Released() || f.Fragment() == nil {
		return false
	}
	geom := f.Geometry()
	var total float64
	for _, blk := range f.Fragment().Blocks() {
		pitch := geom.Pitch()
		if blk.Ruby {
			pitch *= geom.rubyPitchFactor()
		}
		total += s.blockLines(geom, blk) * pitch
	}
	return total > geom.AxisExtent()+extentEpsilon
}

// TrailingLineFill reports the inline fill ratio of the fragment's last
// line.
func (s *Shaped) TrailingLineFill(f *Frame) float64 {
	if f == nil || f.Released() || f.Fragment() == nil {
		return 1.0
	}
	blocks := f.Fragment().Blocks()
	if len(blocks) == 0 {
		return 1.0
	}
	geom := f.Geometry()
	inline := geom.InlineExtent()
	if inline <= 0 {
		return 1.0
	}
	length := s.blockLineLength(geom, blocks[len(blocks)-1])
	if length <= 0 {
		return 1.0
	}
	rem := math.Mod(length, inline)
	if rem == 0 {
		return 1.0
	}
	return rem / inline
}

// CloneRange materializes a character range through the content index.
func (s *Shaped) CloneRange(ix *content.Index, start, n int) (*content.Fragment, error) {
	return ix.CloneRange(start, n)
}

// scriptRun is a maximal stretch of runes sharing one script.
type scriptRun struct {
	start, end int
	script     language.Script
}

// segmentByScript splits runes into script runs. Runes with no strong
// script, punctuation included, extend the run in progress.
func segmentByScript(runes []rune) []scriptRun {
	var runs []scriptRun
	current := language.Unknown
	from := 0
	for i, r := range runes {
		s := scriptFromRune(r)
		if s == language.Unknown || s == current {
			continue
		}
		if current != language.Unknown {
			runs = append(runs, scriptRun{start: from, end: i, script: current})
			from = i
		}
		current = s
	}
	if current == language.Unknown {
		current = language.Latin
	}
	runs = append(runs, scriptRun{start: from, end: len(runes), script: current})
	return runs
}

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew:
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Han, r):
		return language.Han
	case unicode.Is(unicode.Hiragana, r):
		return language.Hiragana
	case unicode.Is(unicode.Katakana, r):
		return language.Katakana
	case unicode.Is(unicode.Hangul, r):
		return language.Hangul
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	}
	return language.Unknown
}
