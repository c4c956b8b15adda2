package api

import (
	"time"

	"github.com/gobunko/gobunko/internal/measure"
)

// Options represents the configuration of a Paginator
type Options struct {
	// Writing direction of the page flow
	Mode WritingMode

	// Page dimensions in points
	PageWidth  float64
	PageHeight float64
	// Gap between adjacent pages in the host's scroll plane
	PageGap float64

	// Page padding
	PaddingTop    float64
	PaddingRight  float64
	PaddingBottom float64
	PaddingLeft   float64

	// Type metrics
	FontSize   float64
	LineHeight float64
	// Pitch factor of lines carrying ruby; 1 keeps the base pitch
	RubyPitch float64

	// Measurement backend selection
	Backend Backend
	// Embedded font face for the pdfmetrics and shaped backends
	FontName string
	FontData []byte
	// Measurer overrides Backend with an injected service
	Measurer Service

	// Pagination run bounds
	TimeSlice time.Duration
	MaxPages  int
	Yield     YieldFunc
	Clock     func() time.Time

	// Page-turn visuals
	Effect             Effect
	TransitionDuration time.Duration

	// Resize settling time before repagination
	ResizeDebounce time.Duration

	// Page furniture
	HeaderContent FurnitureContent
	HeaderAlign   Align
	FooterContent FurnitureContent
	FooterAlign   Align
	NumberFormat  PageNumberFormat

	// Host callbacks
	OnPage        func(p PageInfo)
	OnProgress    func(built, estimatedTotal int)
	OnReady       func(count int)
	OnScroll      func(x, y float64, smooth bool)
	OnPageChanged func(index int)
	OnTransition  func(ev TransitionEvent)

	// Diagnostics
	Logger Logger
}

// Option is a function that modifies Options
type Option func(*Options)

// Backend selects the measurement backend
type Backend string

const (
	// BackendGrid measures on an East Asian Width character grid; exact
	// and deterministic, no font needed
	BackendGrid Backend = "grid"
	// BackendPDFMetrics measures horizontal lines with PDF font metrics
	BackendPDFMetrics Backend = "pdfmetrics"
	// BackendShaped measures with HarfBuzz shaping; needs a font face
	BackendShaped Backend = "shaped"
)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		// Default to vertical flow, the native direction of Japanese
		// book text
		Mode: VerticalRL,

		// Default to the bunko paperback trim (A6, 297.64 x 419.53
		// points)
		PageWidth:  PageSizeA6Width,
		PageHeight: PageSizeA6Height,
		PageGap:    12,

		// Default padding
		PaddingTop:    24,
		PaddingRight:  24,
		PaddingBottom: 24,
		PaddingLeft:   24,

		// Default type metrics
		FontSize:   14,
		LineHeight: 1.75,
		RubyPitch:  1.0,

		// Default measurement backend
		Backend: BackendGrid,

		// Default run bounds
		TimeSlice: 12 * time.Millisecond,
		MaxPages:  10000,

		// Default reading session
		Effect:             EffectNone,
		TransitionDuration: 300 * time.Millisecond,
		ResizeDebounce:     200 * time.Millisecond,

		// Default furniture: a centered page number underneath
		HeaderContent: FurnitureNone,
		HeaderAlign:   AlignCenter,
		FooterContent: FurniturePageNumber,
		FooterAlign:   AlignCenter,
		NumberFormat:  NumberCurrent,
	}
}

// WithWritingMode sets the writing direction
func WithWritingMode(m WritingMode) Option {
	return func(o *Options) {
		o.Mode = m
	}
}

// WithPageSize sets the page size
func WithPageSize(width, height float64) Option {
	return func(o *Options) {
		o.PageWidth = width
		o.PageHeight = height
	}
}

// WithPageGap sets the gap between adjacent pages
func WithPageGap(gap float64) Option {
	return func(o *Options) {
		o.PageGap = gap
	}
}

// WithPadding sets the page padding
func WithPadding(top, right, bottom, left float64) Option {
	return func(o *Options) {
		o.PaddingTop = top
		o.PaddingRight = right
		o.PaddingBottom = bottom
		o.PaddingLeft = left
	}
}

// WithFontSize sets the font size
func WithFontSize(size float64) Option {
	return func(o *Options) {
		o.FontSize = size
	}
}

// WithLineHeight sets the line height factor
func WithLineHeight(lh float64) Option {
	return func(o *Options) {
		o.LineHeight = lh
	}
}

// WithRubyPitch sets the pitch factor of lines carrying ruby
func WithRubyPitch(factor float64) Option {
	return func(o *Options) {
		o.RubyPitch = factor
	}
}

// WithBackend selects the measurement backend
func WithBackend(b Backend) Option {
	return func(o *Options) {
		o.Backend = b
	}
}

// WithFont sets the embedded font face used by the pdfmetrics and
// shaped backends
func WithFont(name string, data []byte) Option {
	return func(o *Options) {
		o.FontName = name
		o.FontData = data
	}
}

// WithMeasurer injects a measurement service, overriding the backend
// selection
func WithMeasurer(svc Service) Option {
	return func(o *Options) {
		o.Measurer = svc
	}
}

// WithTimeSlice bounds uninterrupted pagination work between yields
func WithTimeSlice(d time.Duration) Option {
	return func(o *Options) {
		o.TimeSlice = d
	}
}

// WithMaxPages caps the number of pages one run may produce
func WithMaxPages(n int) Option {
	return func(o *Options) {
		o.MaxPages = n
	}
}

// WithYield sets the function run at each slice boundary
func WithYield(fn YieldFunc) Option {
	return func(o *Options) {
		o.Yield = fn
	}
}

// WithClock sets the clock driving slice timing
func WithClock(fn func() time.Time) Option {
	return func(o *Options) {
		o.Clock = fn
	}
}

// WithTransitionEffect sets the page-turn visual
func WithTransitionEffect(e Effect) Option {
	return func(o *Options) {
		o.Effect = e
	}
}

// WithTransitionDuration sets the page-turn duration
func WithTransitionDuration(d time.Duration) Option {
	return func(o *Options) {
		o.TransitionDuration = d
	}
}

// WithResizeDebounce sets how long a new size must hold still before
// repagination
func WithResizeDebounce(d time.Duration) Option {
	return func(o *Options) {
		o.ResizeDebounce = d
	}
}

// WithHeaderContent sets what the header shows
func WithHeaderContent(content FurnitureContent) Option {
	return func(o *Options) {
		o.HeaderContent = content
	}
}

// WithHeaderAlign sets the header alignment
func WithHeaderAlign(a Align) Option {
	return func(o *Options) {
		o.HeaderAlign = a
	}
}

// WithFooterContent sets what the footer shows
func WithFooterContent(content FurnitureContent) Option {
	return func(o *Options) {
		o.FooterContent = content
	}
}

// WithFooterAlign sets the footer alignment
func WithFooterAlign(a Align) Option {
	return func(o *Options) {
		o.FooterAlign = a
	}
}

// WithPageNumberFormat sets how page numbers print
func WithPageNumberFormat(f PageNumberFormat) Option {
	return func(o *Options) {
		o.NumberFormat = f
	}
}

// WithOnPage sets the per-page callback
func WithOnPage(fn func(p PageInfo)) Option {
	return func(o *Options) {
		o.OnPage = fn
	}
}

// WithOnProgress sets the pagination progress callback
func WithOnProgress(fn func(built, estimatedTotal int)) Option {
	return func(o *Options) {
		o.OnProgress = fn
	}
}

// WithOnReady sets the run completion callback
func WithOnReady(fn func(count int)) Option {
	return func(o *Options) {
		o.OnReady = fn
	}
}

// WithOnScroll sets the viewport positioning callback
func WithOnScroll(fn func(x, y float64, smooth bool)) Option {
	return func(o *Options) {
		o.OnScroll = fn
	}
}

// WithOnPageChanged sets the current page callback
func WithOnPageChanged(fn func(index int)) Option {
	return func(o *Options) {
		o.OnPageChanged = fn
	}
}

// WithOnTransition sets the page-turn event callback
func WithOnTransition(fn func(ev TransitionEvent)) Option {
	return func(o *Options) {
		o.OnTransition = fn
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(log Logger) Option {
	return func(o *Options) {
		o.Logger = log
	}
}

// Standard page sizes in points (1/72 inch)
const (
	// A series
	PageSizeA4Width  = 595.28
	PageSizeA4Height = 841.89
	PageSizeA5Width  = 419.53
	PageSizeA5Height = 595.28
	PageSizeA6Width  = 297.64
	PageSizeA6Height = 419.53

	// Japanese book trims
	PageSizeB6Width       = 362.83
	PageSizeB6Height      = 515.91
	PageSizeShinshoWidth  = 291.97
	PageSizeShinshoHeight = 515.91
)

// WithPageSizeBunko sets the page size to the A6 bunko paperback trim
func WithPageSizeBunko() Option {
	return WithPageSize(PageSizeA6Width, PageSizeA6Height)
}

// WithPageSizeShinsho sets the page size to the shinsho trim
func WithPageSizeShinsho() Option {
	return WithPageSize(PageSizeShinshoWidth, PageSizeShinshoHeight)
}

// WithPageSizeB6 sets the page size to the B6 hardcover trim
func WithPageSizeB6() Option {
	return WithPageSize(PageSizeB6Width, PageSizeB6Height)
}

// geometry lowers the options onto the measurement geometry.
func (o Options) geometry() measure.Geometry {
	return measure.Geometry{
		Mode:          o.Mode,
		PageWidth:     o.PageWidth,
		PageHeight:    o.PageHeight,
		PaddingTop:    o.PaddingTop,
		PaddingRight:  o.PaddingRight,
		PaddingBottom: o.PaddingBottom,
		PaddingLeft:   o.PaddingLeft,
		FontSize:      o.FontSize,
		LineHeight:    o.LineHeight,
		RubyPitch:     o.RubyPitch,
	}
}
