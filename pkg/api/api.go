// Package api is the public surface of the gobunko pagination engine.
// A Paginator owns the whole reading pipeline for one document: content
// parsing and indexing, the measurement backend, time-sliced page
// production, and the reading session with navigation, input mapping,
// page-turn transitions and page furniture.
//
// The Paginator is single threaded. The host calls it from one
// goroutine, drives time through Update, and receives results through
// the callbacks configured in Options.
package api

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gobunko/gobunko/internal/content"
	"github.com/gobunko/gobunko/internal/controller"
	"github.com/gobunko/gobunko/internal/measure"
	"github.com/gobunko/gobunko/internal/observe"
	"github.com/gobunko/gobunko/internal/paginate"
)

// The concrete types live in internal packages; these aliases make the
// public surface self-contained.
type (
	// PageInfo describes one produced page.
	PageInfo = paginate.PageInfo
	// YieldFunc hands control back to the host at a slice boundary.
	YieldFunc = paginate.YieldFunc

	// WritingMode is the page flow direction.
	WritingMode = content.WritingMode

	// Service answers the geometry probes pagination needs.
	Service = measure.Service
	// Frame is the trial surface a pagination run measures against.
	Frame = measure.Frame
	// Geometry fixes the page frame a run measures against.
	Geometry = measure.Geometry
	// Index is the character-addressed view of a parsed document.
	Index = content.Index
	// Block is one indexed block-level element.
	Block = content.Block
	// Fragment is a renderable clone of a character range.
	Fragment = content.Fragment

	// Phase is the lifecycle state of the reading session.
	Phase = controller.Phase
	// Effect selects the page-turn visual.
	Effect = controller.Effect
	// TransitionEvent reports one page-turn step to the host.
	TransitionEvent = controller.TransitionEvent
	// TransitionPhase is the step within a page turn.
	TransitionPhase = controller.TransitionPhase
	// Key is a navigation key.
	Key = controller.Key
	// FurnitureContent selects what a header or footer shows.
	FurnitureContent = controller.FurnitureContent
	// Align positions a furniture line.
	Align = controller.Align
	// PageNumberFormat selects how page numbers print.
	PageNumberFormat = controller.PageNumberFormat
	// FurnitureLine is one resolved header or footer line.
	FurnitureLine = controller.FurnitureLine

	// Logger receives diagnostic events.
	Logger = observe.Logger
	// Field is one structured key/value on a log event.
	Field = observe.Field
	// Level is the minimum severity a text logger emits.
	Level = observe.Level
)

// Writing modes.
const (
	VerticalRL   = content.VerticalRL
	HorizontalTB = content.HorizontalTB
)

// Lifecycle phases.
const (
	PhaseIdle       = controller.PhaseIdle
	PhasePaginating = controller.PhasePaginating
	PhaseReady      = controller.PhaseReady
)

// Page-turn effects.
const (
	EffectNone  = controller.EffectNone
	EffectFade  = controller.EffectFade
	EffectBlur  = controller.EffectBlur
	EffectSlide = controller.EffectSlide
)

// Page-turn steps.
const (
	TransitionHide   = controller.TransitionHide
	TransitionSwap   = controller.TransitionSwap
	TransitionReveal = controller.TransitionReveal
	TransitionDone   = controller.TransitionDone
)

// Navigation keys.
const (
	KeyArrowLeft  = controller.KeyArrowLeft
	KeyArrowRight = controller.KeyArrowRight
	KeyArrowUp    = controller.KeyArrowUp
	KeyArrowDown  = controller.KeyArrowDown
	KeyPageUp     = controller.KeyPageUp
	KeyPageDown   = controller.KeyPageDown
	KeyHome       = controller.KeyHome
	KeySpace      = controller.KeySpace
)

// Furniture content kinds, alignments and number formats.
const (
	FurnitureNone       = controller.FurnitureNone
	FurnitureTitle      = controller.FurnitureTitle
	FurniturePageNumber = controller.FurniturePageNumber

	AlignLeft   = controller.AlignLeft
	AlignCenter = controller.AlignCenter
	AlignRight  = controller.AlignRight

	NumberCurrent      = controller.NumberCurrent
	NumberCurrentTotal = controller.NumberCurrentTotal
)

// Text logger severities.
const (
	LevelDebug = observe.LevelDebug
	LevelInfo  = observe.LevelInfo
	LevelWarn  = observe.LevelWarn
	LevelError = observe.LevelError
)

// Sentinel errors callers branch on.
var (
	ErrCancelled    = paginate.ErrCancelled
	ErrIterationCap = paginate.ErrIterationCap
	ErrDestroyed    = controller.ErrDestroyed
)

// Config string parsers, for flag and settings plumbing.
var (
	ParseWritingMode      = content.ParseWritingMode
	ParseEffect           = controller.ParseEffect
	ParseFurnitureContent = controller.ParseFurnitureContent
	ParseAlign            = controller.ParseAlign
	ParsePageNumberFormat = controller.ParsePageNumberFormat
)

// Logger constructors.
var (
	NopLogger     = observe.NopLogger
	NewTextLogger = observe.NewTextLogger
)

// Paginator is the main API for paginating rich text into fixed pages
type Paginator struct {
	options Options
	log     observe.Logger
	ctrl    *controller.Controller
}

// New creates a new Paginator with the given options applied over the
// defaults
func New(opts ...Option) (*Paginator, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return NewWithOptions(options)
}

// NewWithOptions creates a new Paginator with the specified options
func NewWithOptions(options Options) (*Paginator, error) {
	log := options.Logger
	if log == nil {
		log = observe.NopLogger()
	}

	svc, err := newService(options, log)
	if err != nil {
		return nil, err
	}

	cfg := controller.Config{
		Geometry:       options.geometry(),
		PageGap:        options.PageGap,
		TimeSlice:      options.TimeSlice,
		MaxPages:       options.MaxPages,
		Yield:          options.Yield,
		Clock:          options.Clock,
		Effect:         options.Effect,
		EffectDuration: options.TransitionDuration,
		HeaderContent:  options.HeaderContent,
		HeaderAlign:    options.HeaderAlign,
		FooterContent:  options.FooterContent,
		FooterAlign:    options.FooterAlign,
		NumberFormat:   options.NumberFormat,
		ResizeDebounce: options.ResizeDebounce,
		Logger:         log,
	}
	cbs := controller.Callbacks{
		OnScroll:      options.OnScroll,
		OnPageChanged: options.OnPageChanged,
		OnTransition:  options.OnTransition,
		OnReady:       options.OnReady,
		OnProgress:    options.OnProgress,
		OnPage:        options.OnPage,
	}
	ctrl, err := controller.New(svc, cfg, cbs)
	if err != nil {
		return nil, err
	}

	return &Paginator{
		options: options,
		log:     log,
		ctrl:    ctrl,
	}, nil
}

// newService builds the measurement backend the options select.
func newService(options Options, log observe.Logger) (measure.Service, error) {
	if options.Measurer != nil {
		return options.Measurer, nil
	}
	switch options.Backend {
	case BackendGrid, "":
		return measure.NewGrid(log), nil
	case BackendPDFMetrics:
		m := measure.NewPDFMetrics(log)
		if len(options.FontData) > 0 {
			name := options.FontName
			if name == "" {
				name = "embedded"
			}
			m.RegisterFont(name, options.FontData)
		}
		return m, nil
	case BackendShaped:
		return measure.NewShaped(options.FontData, log)
	}
	return nil, fmt.Errorf("unknown measurement backend %q", options.Backend)
}

// SetContentString loads an HTML document from a string. Any in-flight
// pagination run is superseded; the page list empties until the next
// Paginate.
func (p *Paginator) SetContentString(htmlContent string) error {
	doc, err := content.ParseString(htmlContent)
	if err != nil {
		return fmt.Errorf("failed to parse content: %w", err)
	}
	p.ctrl.SetContent(doc)
	return nil
}

// SetContent loads an HTML document from a reader
func (p *Paginator) SetContent(r io.Reader) error {
	doc, err := content.Parse(r)
	if err != nil {
		return fmt.Errorf("failed to parse content: %w", err)
	}
	p.ctrl.SetContent(doc)
	return nil
}

// SetContentFile loads an HTML document from a file
func (p *Paginator) SetContentFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read content file: %w", err)
	}
	return p.SetContentString(string(data))
}

// Paginate builds the page list for the loaded document. It blocks
// until the run completes, yielding to the host at time slice
// boundaries, and honors ctx cancellation; the pages built so far stay
// navigable when the run is cut short.
func (p *Paginator) Paginate(ctx context.Context) error {
	return p.ctrl.Repaginate(ctx)
}

// Repaginate rebuilds the page list from scratch, superseding any run
// in flight
func (p *Paginator) Repaginate(ctx context.Context) error {
	return p.ctrl.Repaginate(ctx)
}

// PaginateString loads an HTML document and paginates it in one call,
// returning the produced pages
func (p *Paginator) PaginateString(ctx context.Context, htmlContent string) ([]PageInfo, error) {
	if err := p.SetContentString(htmlContent); err != nil {
		return nil, err
	}
	if err := p.Paginate(ctx); err != nil {
		return nil, err
	}
	return p.Pages(), nil
}

// Phase returns the lifecycle state of the reading session
func (p *Paginator) Phase() Phase { return p.ctrl.Phase() }

// Pages returns the produced pages. The slice is shared; treat it as
// read only.
func (p *Paginator) Pages() []PageInfo { return p.ctrl.Pages() }

// PageCount returns the number of pages built so far
func (p *Paginator) PageCount() int { return p.ctrl.PageCount() }

// Page returns page i and whether it exists yet
func (p *Paginator) Page(i int) (PageInfo, bool) { return p.ctrl.Page(i) }

// CurrentPage returns the index of the page in view
func (p *Paginator) CurrentPage() int { return p.ctrl.CurrentPage() }

// EstimatedTotal returns the final page count when ready, or the
// running estimate while paginating
func (p *Paginator) EstimatedTotal() int { return p.ctrl.EstimatedTotal() }

// Capped reports whether the last run hit the page cap with content
// remaining
func (p *Paginator) Capped() bool { return p.ctrl.Capped() }

// Title returns the loaded document's title
func (p *Paginator) Title() string { return p.ctrl.Title() }

// Next advances to the next page
func (p *Paginator) Next() { p.ctrl.Next() }

// Previous goes back to the previous page
func (p *Paginator) Previous() { p.ctrl.Previous() }

// GoToFirst goes to the first page
func (p *Paginator) GoToFirst() { p.ctrl.GoToFirst() }

// GoToPage goes to page i, clamped to the page list. A target past the
// built prefix of a running pagination is remembered and applied as
// soon as the page exists.
func (p *Paginator) GoToPage(i int) { p.ctrl.GoToPage(i) }

// JumpToProgress goes to the page nearest the given reading ratio, 0
// through 1
func (p *Paginator) JumpToProgress(r float64) { p.ctrl.JumpToProgress(r) }

// Progress returns the reading ratio of the current page, 0 through 1
func (p *Paginator) Progress() float64 { return p.ctrl.Progress() }

// ScrollToPage positions the viewport on page i without navigation
// side effects
func (p *Paginator) ScrollToPage(i int, smooth bool) { p.ctrl.ScrollToPage(i, smooth) }

// Furniture resolves the header and footer lines for page i
func (p *Paginator) Furniture(i int) (header, footer FurnitureLine) { return p.ctrl.Furniture(i) }

// HandleKey maps a navigation key press for the current writing mode
// and reports whether it was consumed
func (p *Paginator) HandleKey(k Key) bool { return p.ctrl.HandleKey(k) }

// HandleWheel maps a wheel event and reports whether it was consumed
func (p *Paginator) HandleWheel(dx, dy float64) bool { return p.ctrl.HandleWheel(dx, dy) }

// HandlePointerDown records the start of a pointer gesture
func (p *Paginator) HandlePointerDown(x, y float64, now time.Time) {
	p.ctrl.HandlePointerDown(x, y, now)
}

// HandlePointerUp resolves a pointer gesture as a swipe or an edge tap
// and reports whether it navigated
func (p *Paginator) HandlePointerUp(x, y float64, now time.Time) bool {
	return p.ctrl.HandlePointerUp(x, y, now)
}

// SetModalOpen suppresses navigation input while a host modal is open
func (p *Paginator) SetModalOpen(open bool) { p.ctrl.SetModalOpen(open) }

// SetActive suppresses navigation input while the reader is not the
// active surface
func (p *Paginator) SetActive(active bool) { p.ctrl.SetActive(active) }

// Update advances host-driven time: page-turn transitions and the
// resize debounce. Call it once per host frame.
func (p *Paginator) Update(now time.Time) { p.ctrl.Update(now) }

// NotifyResize reports a new page size. The size must hold still for
// the resize debounce before it repaginates; the reading position is
// restored by progress ratio.
func (p *Paginator) NotifyResize(w, h float64, now time.Time) { p.ctrl.NotifyResize(w, h, now) }

// SetWritingMode switches the page flow direction and repaginates,
// restoring the reading position by progress ratio
func (p *Paginator) SetWritingMode(m WritingMode) error { return p.ctrl.SetWritingMode(m) }

// Destroy ends the session: it supersedes any run in flight and drops
// the page list. The Paginator must not be used afterwards.
func (p *Paginator) Destroy() { p.ctrl.Destroy() }
