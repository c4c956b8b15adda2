// Package measure is the layout measurement seam of the pagination
// pipeline. A Service answers geometry questions about content ranges
// rendered into a page frame; the Frame is the single mutable trial
// surface a pagination run probes. Backends differ in fidelity: an East
// Asian Width character grid, PDF font metrics, and HarfBuzz shaping.
package measure

import (
	"errors"
	"fmt"

	"github.com/gobunko/gobunko/internal/content"
)

// ErrReleased reports a measurement against a released frame.
var ErrReleased = errors.New("measure: frame released")

// ErrNoFont reports a backend constructed without a usable font.
var ErrNoFont = errors.New("measure: no usable font")

// Service answers the geometry probes pagination needs. Probes against a
// released or empty frame degrade rather than fail: Overflowing reports
// false, extents report zero, TrailingLineFill reports a full line.
type Service interface {
	// BlockExtent measures the extent of a lone block along the frame's
	// writing axis.
	BlockExtent(f *Frame, b *content.Block) float64
	// FrameExtent reports the frame's available extent along the writing
	// axis.
	FrameExtent(f *Frame) float64
	// Overflowing reports whether the frame's current fragment exceeds
	// the available extent.
	Overflowing(f *Frame) bool
	// TrailingLineFill reports the inline fill ratio, 0 through 1, of the
	// last rendered line of the frame's current fragment.
	TrailingLineFill(f *Frame) float64
	// CloneRange materializes a character range as a renderable fragment.
	CloneRange(ix *content.Index, start, n int) (*content.Fragment, error)
}

// Geometry fixes the page frame a run measures against.
type Geometry struct {
	Mode          content.WritingMode
	PageWidth     float64
	PageHeight    float64
	PaddingTop    float64
	PaddingRight  float64
	PaddingBottom float64
	PaddingLeft   float64
	FontSize      float64
	LineHeight    float64
	RubyPitch     float64
}

// Validate reports the first structural problem with the geometry.
func (g Geometry) Validate() error {
	if g.PageWidth <= 0 || g.PageHeight <= 0 {
		return fmt.Errorf("page size %gx%g is not positive", g.PageWidth, g.PageHeight)
	}
	if g.InnerWidth() <= 0 || g.InnerHeight() <= 0 {
		return fmt.Errorf("padding leaves no content area (%gx%g inner)", g.InnerWidth(), g.InnerHeight())
	}
	if g.FontSize <= 0 {
		return fmt.Errorf("font size %g is not positive", g.FontSize)
	}
	if g.LineHeight <= 0 {
		return fmt.Errorf("line height %g is not positive", g.LineHeight)
	}
	if g.Pitch() > g.AxisExtent() {
		return fmt.Errorf("a single line (%g) does not fit the writing axis (%g)", g.Pitch(), g.AxisExtent())
	}
	return nil
}

// InnerWidth returns the content width inside the padding.
func (g Geometry) InnerWidth() float64 {
	return g.PageWidth - g.PaddingLeft - g.PaddingRight
}

// InnerHeight returns the content height inside the padding.
func (g Geometry) InnerHeight() float64 {
	return g.PageHeight - g.PaddingTop - g.PaddingBottom
}

// AxisExtent returns the available extent along the writing axis: width
// for vertical flow, height for horizontal.
func (g Geometry) AxisExtent() float64 {
	if g.Mode.Vertical() {
		return g.InnerWidth()
	}
	return g.InnerHeight()
}

// InlineExtent returns the length available to one line: height for
// vertical flow, width for horizontal.
func (g Geometry) InlineExtent() float64 {
	if g.Mode.Vertical() {
		return g.InnerHeight()
	}
	return g.InnerWidth()
}

// Pitch returns the advance of one line along the writing axis.
func (g Geometry) Pitch() float64 { return g.FontSize * g.LineHeight }

// rubyPitchFactor defaults an unset RubyPitch to no extra advance.
func (g Geometry) rubyPitchFactor() float64 {
	if g.RubyPitch <= 0 {
		return 1.0
	}
	return g.RubyPitch
}

// Frame is the mutable trial surface of one pagination run. Exactly one
// frame exists per run; the run sets a candidate fragment, probes it, and
// finally releases the frame.
type Frame struct {
	geom     Geometry
	frag     *content.Fragment
	released bool
}

// NewFrame builds the trial surface for one run.
func NewFrame(geom Geometry) *Frame {
	return &Frame{geom: geom}
}

// Geometry returns the frame's geometry.
func (f *Frame) Geometry() Geometry { return f.geom }

// SetFragment replaces the frame's content with the next candidate range.
func (f *Frame) SetFragment(fr *content.Fragment) {
	if f.released {
		return
	}
	f.frag = fr
}

// Fragment returns the current candidate, nil when none is set.
func (f *Frame) Fragment() *content.Fragment {
	if f.released {
		return nil
	}
	return f.frag
}

// Release detaches the frame's content. Further measurements degrade to
// their failure values.
func (f *Frame) Release() {
	f.frag = nil
	f.released = true
}

// Released reports whether the frame has been released.
func (f *Frame) Released() bool { return f.released }
