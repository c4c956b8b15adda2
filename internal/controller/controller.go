// Package controller turns a page list into a reading session: it owns
// the pagination lifecycle, the current page, navigation and input
// mapping, page-turn transitions and page furniture. The controller is
// single threaded. The host drives time by calling Update and may call
// back into the controller from any callback; stale pagination runs are
// fenced off by a render token rather than by locking.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gobunko/gobunko/internal/content"
	"github.com/gobunko/gobunko/internal/measure"
	"github.com/gobunko/gobunko/internal/observe"
	"github.com/gobunko/gobunko/internal/paginate"
)

// ErrDestroyed is returned by operations on a controller after Destroy.
var ErrDestroyed = errors.New("controller: destroyed")

// Phase is the lifecycle state of the controller.
type Phase int

const (
	// PhaseIdle means no usable page list exists yet.
	PhaseIdle Phase = iota
	// PhasePaginating means a run is building pages; the built prefix
	// is already navigable.
	PhasePaginating
	// PhaseReady means the page list is complete.
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePaginating:
		return "paginating"
	case PhaseReady:
		return "ready"
	}
	return "unknown"
}

const (
	defaultResizeDebounce = 200 * time.Millisecond
	defaultEffectDuration = 300 * time.Millisecond
)

// Config carries the controller's fixed configuration. Geometry is
// required; everything else has a workable zero value.
type Config struct {
	Geometry measure.Geometry
	// PageGap is the space between adjacent pages in the host's scroll
	// plane, in the same unit as the geometry.
	PageGap float64

	// TimeSlice and MaxPages bound each pagination run; zero values
	// take the engine defaults.
	TimeSlice time.Duration
	MaxPages  int
	// Yield runs at every slice boundary, on the host's thread.
	Yield paginate.YieldFunc
	// Clock feeds the engine's slice timing; a test seam. Default
	// time.Now.
	Clock func() time.Time

	Effect         Effect
	EffectDuration time.Duration

	HeaderContent FurnitureContent
	HeaderAlign   Align
	FooterContent FurnitureContent
	FooterAlign   Align
	NumberFormat  PageNumberFormat

	// ResizeDebounce is how long a new size must hold still before it
	// triggers repagination.
	ResizeDebounce time.Duration

	Logger observe.Logger
}

func (c Config) withDefaults() Config {
	if c.ResizeDebounce <= 0 {
		c.ResizeDebounce = defaultResizeDebounce
	}
	if c.EffectDuration <= 0 {
		c.EffectDuration = defaultEffectDuration
	}
	if c.Logger == nil {
		c.Logger = observe.NopLogger()
	}
	return c
}

// Callbacks let the host render what the controller decides. All
// callbacks run synchronously on the calling thread and may call back
// into the controller.
type Callbacks struct {
	// OnScroll positions the host viewport at the given offset.
	OnScroll func(x, y float64, smooth bool)
	// OnPageChanged reports the new current page index.
	OnPageChanged func(index int)
	// OnTransition drives page-turn visuals.
	OnTransition func(ev TransitionEvent)
	// OnReady fires when a pagination run completes, with the final
	// page count.
	OnReady func(count int)
	// OnProgress reports built pages against the estimated total while
	// a run is in flight.
	OnProgress func(built, estimatedTotal int)
	// OnPage observes each page as it joins the navigable prefix.
	OnPage func(p paginate.PageInfo)
}

// Controller owns one reading session over one document.
type Controller struct {
	cfg Config
	cbs Callbacks
	log observe.Logger
	svc measure.Service

	ix    *content.Index
	title string

	phase     Phase
	destroyed bool
	token     uint64
	cancelRun context.CancelFunc

	pages     []paginate.PageInfo
	estimated int
	capped    bool

	current int
	// pending holds a navigation target past the built prefix; -1 when
	// none. It applies as soon as the page exists.
	pending int

	restoreProgress float64
	restorePending  bool

	modalOpen bool
	inactive  bool
	pointer   pointerState

	trans  *transition
	resize resizeState
}

type resizeState struct {
	pending  bool
	w, h     float64
	deadline time.Time
}

// New builds a controller around a measurement service. The geometry
// must be valid; nothing runs until SetContent and Repaginate.
func New(svc measure.Service, cfg Config, cbs Callbacks) (*Controller, error) {
	if svc == nil {
		return nil, errors.New("controller: nil measurement service")
	}
	cfg = cfg.withDefaults()
	if err := cfg.Geometry.Validate(); err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}
	return &Controller{
		cfg:     cfg,
		cbs:     cbs,
		log:     cfg.Logger,
		svc:     svc,
		pending: -1,
	}, nil
}

// SetContent replaces the document. Any in-flight run is superseded;
// the page list empties until the next Repaginate.
func (c *Controller) SetContent(doc *content.Document) {
	if c.destroyed {
		return
	}
	c.supersede()
	if doc == nil {
		c.ix = nil
		c.title = ""
	} else {
		c.ix = content.NewIndex(doc)
		c.title = doc.Title()
	}
	c.pages = nil
	c.current = 0
	c.pending = -1
	c.capped = false
	c.phase = PhaseIdle
}

// supersede invalidates any in-flight run: its remaining callbacks and
// its eventual result are dropped by the token check.
func (c *Controller) supersede() {
	if c.cancelRun != nil {
		c.cancelRun()
		c.cancelRun = nil
	}
	c.token++
	c.trans = nil
}

// Repaginate builds the page list from scratch. It blocks until the
// run completes, yielding to the host at slice boundaries; a nested
// call from a yield or callback supersedes this one, which then returns
// nil and leaves all state to the nested run.
func (c *Controller) Repaginate(ctx context.Context) error {
	if c.destroyed {
		return ErrDestroyed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := c.cfg.Geometry.Validate(); err != nil {
		return fmt.Errorf("controller: %w", err)
	}

	c.supersede()
	tok := c.token
	c.phase = PhasePaginating
	c.pages = nil
	c.estimated = 0
	c.capped = false

	if c.ix == nil || c.ix.Total == 0 {
		c.phase = PhaseReady
		c.current = 0
		c.pending = -1
		if c.cbs.OnReady != nil {
			c.cbs.OnReady(0)
		}
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancelRun = cancel

	opts := paginate.Options{
		TimeSlice: c.cfg.TimeSlice,
		MaxPages:  c.cfg.MaxPages,
		Yield:     c.cfg.Yield,
		Clock:     c.cfg.Clock,
		Logger:    c.log,
		OnPage: func(p paginate.PageInfo) {
			c.appendPage(tok, p)
		},
		OnProgress: func(built, estimated int) {
			c.reportProgress(tok, built, estimated)
		},
	}
	pages, err := paginate.NewEngine(c.ix, c.svc, c.cfg.Geometry, opts).Run(runCtx)
	cancel()

	if c.destroyed || tok != c.token {
		return nil
	}
	c.cancelRun = nil
	return c.completeRun(pages, err)
}

func (c *Controller) appendPage(tok uint64, p paginate.PageInfo) {
	if c.destroyed || tok != c.token {
		return
	}
	c.pages = append(c.pages, p)
	if c.cbs.OnPage != nil {
		c.cbs.OnPage(p)
		// The callback may have superseded this run.
		if c.destroyed || tok != c.token {
			return
		}
	}
	if c.pending >= 0 && c.pending < len(c.pages) {
		target := c.pending
		c.pending = -1
		c.scrollToPage(target, false)
	}
}

func (c *Controller) reportProgress(tok uint64, built, estimated int) {
	if c.destroyed || tok != c.token {
		return
	}
	c.estimated = estimated
	if c.cbs.OnProgress != nil {
		c.cbs.OnProgress(built, estimated)
	}
}

// completeRun settles phase, position and callbacks once a run owns the
// token to the end.
func (c *Controller) completeRun(pages []paginate.PageInfo, err error) error {
	c.pages = pages
	switch {
	case errors.Is(err, paginate.ErrCancelled):
		// The caller's context ended; keep the prefix navigable.
		if len(c.pages) > 0 {
			c.phase = PhaseReady
		} else {
			c.phase = PhaseIdle
		}
		c.settlePosition()
		return err
	case errors.Is(err, paginate.ErrIterationCap):
		c.capped = true
	case err != nil:
		c.phase = PhaseIdle
		return err
	}
	c.phase = PhaseReady
	c.settlePosition()
	if c.cbs.OnReady != nil {
		c.cbs.OnReady(len(c.pages))
	}
	return nil
}

// settlePosition applies deferred navigation after a run: a progress
// ratio to restore, a pending page target, or a clamp when the list
// shrank.
func (c *Controller) settlePosition() {
	count := len(c.pages)
	if c.restorePending {
		c.restorePending = false
		c.pending = -1
		c.jumpNow(c.restoreProgress)
		return
	}
	if c.pending >= 0 {
		target := c.pending
		c.pending = -1
		if count > 0 {
			c.scrollToPage(clampInt(target, 0, count-1), false)
		}
		return
	}
	if count == 0 {
		c.current = 0
		return
	}
	if c.current > count-1 {
		c.scrollToPage(count-1, false)
	}
}

// Update advances host-driven time: transition phases and the resize
// debounce. Call it once per host frame.
func (c *Controller) Update(now time.Time) {
	if c.destroyed {
		return
	}
	c.updateTransition(now)
	c.updateResize(now)
}

// NotifyResize records a new page size and arms the debounce. The
// repagination itself happens on the first Update past the deadline,
// preserving the reading position by progress ratio.
func (c *Controller) NotifyResize(w, h float64, now time.Time) {
	if c.destroyed {
		return
	}
	if w == c.cfg.Geometry.PageWidth && h == c.cfg.Geometry.PageHeight {
		c.resize = resizeState{}
		return
	}
	c.resize = resizeState{
		pending:  true,
		w:        w,
		h:        h,
		deadline: now.Add(c.cfg.ResizeDebounce),
	}
}

func (c *Controller) updateResize(now time.Time) {
	if !c.resize.pending || now.Before(c.resize.deadline) {
		return
	}
	w, h := c.resize.w, c.resize.h
	c.resize = resizeState{}
	if w <= 0 || h <= 0 {
		c.log.Warn("ignoring resize to empty page",
			observe.Float("width", w), observe.Float("height", h))
		return
	}
	if w == c.cfg.Geometry.PageWidth && h == c.cfg.Geometry.PageHeight {
		return
	}
	c.cfg.Geometry.PageWidth = w
	c.cfg.Geometry.PageHeight = h
	if err := c.repaginatePreservingProgress(); err != nil && !errors.Is(err, paginate.ErrCancelled) {
		c.log.Warn("repagination after resize failed", observe.Err(err))
	}
}

// SetWritingMode switches the flow direction and repaginates at once,
// preserving the reading position by progress ratio.
func (c *Controller) SetWritingMode(m content.WritingMode) error {
	if c.destroyed {
		return ErrDestroyed
	}
	if m == c.cfg.Geometry.Mode {
		return nil
	}
	c.cfg.Geometry.Mode = m
	return c.repaginatePreservingProgress()
}

// repaginatePreservingProgress reruns pagination under the host
// lifecycle (Destroy cancels it) rather than any caller context.
func (c *Controller) repaginatePreservingProgress() error {
	c.restoreProgress = c.Progress()
	c.restorePending = true
	return c.Repaginate(context.Background())
}

// Destroy cancels in-flight work and drops all state. Subsequent calls
// on the controller are no-ops.
func (c *Controller) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.supersede()
	c.resize = resizeState{}
	c.pointer = pointerState{}
	c.pages = nil
	c.pending = -1
	c.restorePending = false
	c.phase = PhaseIdle
}

// Phase reports the lifecycle state.
func (c *Controller) Phase() Phase { return c.phase }

// PageCount reports the number of pages built so far; during a run this
// is the navigable prefix.
func (c *Controller) PageCount() int { return len(c.pages) }

// Pages exposes the built page list. The slice is shared; callers must
// not modify it.
func (c *Controller) Pages() []paginate.PageInfo { return c.pages }

// Page returns one page by index.
func (c *Controller) Page(i int) (paginate.PageInfo, bool) {
	if i < 0 || i >= len(c.pages) {
		return paginate.PageInfo{}, false
	}
	return c.pages[i], true
}

// CurrentPage reports the current page index.
func (c *Controller) CurrentPage() int { return c.current }

// Title reports the document title used by page furniture.
func (c *Controller) Title() string { return c.title }

// EstimatedTotal reports the projected final page count while a run is
// in flight, and the actual count once Ready.
func (c *Controller) EstimatedTotal() int {
	if c.phase == PhaseReady {
		return len(c.pages)
	}
	return c.estimated
}

// Capped reports whether the last run stopped at the page cap.
func (c *Controller) Capped() bool { return c.capped }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
