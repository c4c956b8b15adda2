package measure

import (
	"math"

	"github.com/gobunko/gobunko/internal/content"
	"github.com/gobunko/gobunko/internal/observe"
	"github.com/gobunko/gobunko/internal/text"
)

// Grid measures against an East Asian Width character grid: full-width
// runes take one em cell, half-width runes take half, every block starts
// a new line. Deterministic and font-free, it is the default backend.
type Grid struct {
	log observe.Logger
}

// NewGrid returns the grid backend. A nil logger falls back to the no-op
// logger.
func NewGrid(log observe.Logger) *Grid {
	if log == nil {
		log = observe.NopLogger()
	}
	return &Grid{log: log}
}

// capacityUnits returns how many grid units one line holds, in half-cell
// granularity.
func (g *Grid) capacityUnits(geom Geometry) float64 {
	half := geom.FontSize * 0.5
	if half <= 0 {
		return 0
	}
	return math.Floor(geom.InlineExtent()/half) * 0.5
}

// linesFor returns the line count of a block's text at the given capacity.
// A non-empty block occupies at least one line.
func linesFor(units, capacity float64) float64 {
	if capacity <= 0 {
		return 0
	}
	lines := math.Ceil(units / capacity)
	if lines < 1 {
		lines = 1
	}
	return lines
}

// BlockExtent measures a lone block along the writing axis.
func (g *Grid) BlockExtent(f *Frame, b *content.Block) float64 {
	if f == nil || f.Released() || b == nil {
		return 0
	}
	geom := f.Geometry()
	capacity := g.capacityUnits(geom)
	if capacity <= 0 {
		g.log.Warn("grid capacity is zero", observe.Float("fontSize", geom.FontSize))
		return 0
	}
	pitch := geom.Pitch()
	if b.Ruby {
		pitch *= geom.rubyPitchFactor()
	}
	return linesFor(text.StringUnits(b.Text()), capacity) * pitch
}

// FrameExtent reports the available extent along the writing axis.
func (g *Grid) FrameExtent(f *Frame) float64 {
	if f == nil || f.Released() {
		return 0
	}
	return f.Geometry().AxisExtent()
}

// Overflowing reports whether the current fragment exceeds the frame.
func (g *Grid) Overflowing(f *Frame) bool {
	if f == nil || f.Released() || f.Fragment() == nil {
		return false
	}
	geom := f.Geometry()
	capacity := g.capacityUnits(geom)
	if capacity <= 0 {
		return false
	}
	var total float64
	for _, blk := range f.Fragment().Blocks() {
		pitch := geom.Pitch()
		if blk.Ruby {
			pitch *= geom.rubyPitchFactor()
		}
		total += linesFor(text.StringUnits(blk.Text), capacity) * pitch
	}
	return total > geom.AxisExtent()+extentEpsilon
}

// TrailingLineFill reports the inline fill ratio of the fragment's last
// line. Degrades to a full line, which never looks like a widow.
func (g *Grid) TrailingLineFill(f *Frame) float64 {
	if f == nil || f.Released() || f.Fragment() == nil {
		return 1.0
	}
	blocks := f.Fragment().Blocks()
	if len(blocks) == 0 {
		return 1.0
	}
	capacity := g.capacityUnits(f.Geometry())
	if capacity <= 0 {
		return 1.0
	}
	units := text.StringUnits(blocks[len(blocks)-1].Text)
	if units <= 0 {
		return 1.0
	}
	rem := math.Mod(units, capacity)
	if rem == 0 {
		return 1.0
	}
	return rem / capacity
}

// CloneRange materializes a character range through the content index.
func (g *Grid) CloneRange(ix *content.Index, start, n int) (*content.Fragment, error) {
	return ix.CloneRange(start, n)
}

// extentEpsilon absorbs float accumulation noise in overflow comparisons.
const extentEpsilon = 1e-6
