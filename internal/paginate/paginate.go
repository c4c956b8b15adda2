// Package paginate splits indexed content into geometry-fitted pages:
// a three-stage fitting search per page, Japanese prohibition and ruby
// break adjustment, continuation marking, and a cooperative, cancellable
// production loop.
package paginate

import (
	"context"
	"errors"
	"time"

	"github.com/gobunko/gobunko/internal/content"
	"github.com/gobunko/gobunko/internal/measure"
	"github.com/gobunko/gobunko/internal/observe"
)

// ErrCancelled reports a run stopped by its context. Pages produced
// before the stop remain valid.
var ErrCancelled = errors.New("paginate: cancelled")

// ErrIterationCap reports a run stopped at its page cap. Pages produced
// before the stop remain valid.
var ErrIterationCap = errors.New("paginate: iteration cap reached")

// PageInfo describes one built page.
type PageInfo struct {
	Index     int
	Start     int
	Chars     int
	Fragment  *content.Fragment
	Continued bool
	ShortLine bool
}

// End returns the page's exclusive end offset.
func (p PageInfo) End() int { return p.Start + p.Chars }

// YieldFunc hands control back to the host at a time slice boundary.
// Returning an error stops the run as a cancellation.
type YieldFunc func(ctx context.Context) error

// Options tune a production run. Zero values take the defaults.
type Options struct {
	// TimeSlice bounds uninterrupted work between yields. Default 12ms.
	TimeSlice time.Duration
	// MaxPages caps the number of pages one run may produce. Default 10000.
	MaxPages int
	// Yield runs at each slice boundary. The default only checks the
	// context.
	Yield YieldFunc
	// OnPage observes each page as it is appended.
	OnPage func(PageInfo)
	// OnProgress observes the built count and the estimated total.
	OnProgress func(built, estimatedTotal int)
	// Logger receives diagnostics. Default silent.
	Logger observe.Logger
	// Clock is a test seam. Default time.Now.
	Clock func() time.Time
}

const (
	defaultTimeSlice = 12 * time.Millisecond
	defaultMaxPages  = 10000

	// firstPageSeed bounds the fitting seed of a page with no history.
	firstPageSeed = 1800
	// estimateSlack lets the block-size estimate overshoot the frame a
	// little before cutting off.
	estimateSlack = 1.05
	// searchMargin widens the binary search window around the seed.
	searchMargin = 0.25
	// growStepRatio sizes the first refinement step.
	growStepRatio = 0.12
	// maxShrinkSteps bounds the halving recovery from a bad estimate.
	maxShrinkSteps = 32
	// maxExtend and maxRetreat bound the prohibition adjustment reach.
	maxExtend  = 10
	maxRetreat = 80
	// shortLineRatio is the inline fill under which a trailing line reads
	// as a widow.
	shortLineRatio = 0.70
)

func (o Options) withDefaults() Options {
	if o.TimeSlice <= 0 {
		o.TimeSlice = defaultTimeSlice
	}
	if o.MaxPages <= 0 {
		o.MaxPages = defaultMaxPages
	}
	if o.Yield == nil {
		o.Yield = func(ctx context.Context) error { return ctx.Err() }
	}
	if o.Logger == nil {
		o.Logger = observe.NopLogger()
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// state is the working set of one production run. A fresh state is built
// per run; nothing persists across runs except the emitted pages.
type state struct {
	ctx  context.Context
	ix   *content.Index
	svc  measure.Service
	geom measure.Geometry

	frame        *measure.Frame
	cursor       int
	pages        []PageInfo
	lastTake     int
	blockExtents map[*content.Block]float64

	opts       Options
	sliceStart time.Time
}

func newState(ctx context.Context, ix *content.Index, svc measure.Service, geom measure.Geometry, opts Options) *state {
	return &state{
		ctx:          ctx,
		ix:           ix,
		svc:          svc,
		geom:         geom,
		frame:        measure.NewFrame(geom),
		blockExtents: make(map[*content.Block]float64),
		opts:         opts,
		sliceStart:   opts.Clock(),
	}
}

// cancelled maps a context stop to ErrCancelled.
func (s *state) cancelled() error {
	if s.ctx.Err() != nil {
		return ErrCancelled
	}
	return nil
}

func (s *state) sliceExpired() bool {
	return s.opts.Clock().Sub(s.sliceStart) >= s.opts.TimeSlice
}

// yieldNow returns control to the host and restarts the slice clock.
func (s *state) yieldNow() error {
	if err := s.cancelled(); err != nil {
		return err
	}
	if err := s.opts.Yield(s.ctx); err != nil {
		return ErrCancelled
	}
	if err := s.cancelled(); err != nil {
		return err
	}
	s.sliceStart = s.opts.Clock()
	return nil
}

// setRange materializes [start, start+n) on the trial frame.
func (s *state) setRange(start, n int) error {
	frag, err := s.svc.CloneRange(s.ix, start, n)
	if err != nil {
		return err
	}
	s.frame.SetFragment(frag)
	return nil
}

// fits probes whether [start, start+n) fits the frame. The probe honors
// the slice clock: when the slice is spent it yields and re-measures
// after control returns, since layout may have shifted meanwhile.
func (s *state) fits(start, n int) (bool, error) {
	if err := s.setRange(start, n); err != nil {
		return false, err
	}
	over := s.svc.Overflowing(s.frame)
	if s.sliceExpired() {
		if err := s.yieldNow(); err != nil {
			return false, err
		}
		over = s.svc.Overflowing(s.frame)
	}
	return !over, nil
}

// blockExtent measures a block's lone extent at most once per run.
func (s *state) blockExtent(b *content.Block) float64 {
	if v, ok := s.blockExtents[b]; ok {
		return v
	}
	v := s.svc.BlockExtent(s.frame, b)
	s.blockExtents[b] = v
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
