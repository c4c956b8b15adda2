package paginate

import (
	"context"
	"errors"

	"github.com/gobunko/gobunko/internal/content"
	"github.com/gobunko/gobunko/internal/measure"
	"github.com/gobunko/gobunko/internal/observe"
)

// Engine splits indexed content into pages for one geometry. An Engine
// may run any number of times; every Run starts from scratch, so the
// same input always produces the same pages.
type Engine struct {
	ix   *content.Index
	svc  measure.Service
	geom measure.Geometry
	opts Options
}

// NewEngine prepares an engine that paginates ix against geom, using
// svc for all measurement.
func NewEngine(ix *content.Index, svc measure.Service, geom measure.Geometry, opts Options) *Engine {
	return &Engine{ix: ix, svc: svc, geom: geom, opts: opts.withDefaults()}
}

// Run paginates the document from the beginning and returns the pages
// in reading order. Between pages it yields whenever the time slice is
// spent, and it stops with ErrCancelled, alongside the pages built so
// far, once the context ends. Measurement that fails structurally does
// not abort the run: the rest of the document comes back collapsed
// onto one final page.
func (e *Engine) Run(ctx context.Context) ([]PageInfo, error) {
	if err := e.geom.Validate(); err != nil {
		return nil, err
	}
	if e.ix == nil || e.ix.Total == 0 {
		return nil, nil
	}

	s := newState(ctx, e.ix, e.svc, e.geom, e.opts)
	defer s.frame.Release()

	for s.cursor < s.ix.Total {
		if len(s.pages) >= s.opts.MaxPages {
			s.opts.Logger.Warn("page cap reached with content remaining",
				observe.Int("pages", len(s.pages)),
				observe.Int("cursor", s.cursor),
				observe.Int("total", s.ix.Total))
			return s.pages, ErrIterationCap
		}
		if err := s.cancelled(); err != nil {
			return s.pages, err
		}

		take, err := s.buildPage()
		if err != nil {
			return s.finishAfterError(err)
		}
		take, err = s.adjustBreak(take)
		if err != nil {
			return s.finishAfterError(err)
		}

		frag, err := s.svc.CloneRange(s.ix, s.cursor, take)
		if err != nil {
			return s.finishAfterError(err)
		}
		s.frame.SetFragment(frag)

		p := PageInfo{
			Index:    len(s.pages),
			Start:    s.cursor,
			Chars:    take,
			Fragment: frag,
		}
		s.markContinuation(&p)
		s.pages = append(s.pages, p)
		s.lastTake = take
		s.cursor += take

		s.notify(p)

		if s.sliceExpired() {
			if err := s.yieldNow(); err != nil {
				return s.pages, err
			}
		}
	}
	return s.pages, nil
}

// finishAfterError resolves a mid-run failure. Cancellation surfaces
// to the caller with the prefix built so far; anything else collapses
// the rest of the document onto one final page and ends the run clean.
func (s *state) finishAfterError(err error) ([]PageInfo, error) {
	if errors.Is(err, ErrCancelled) {
		return s.pages, err
	}
	s.opts.Logger.Error("pagination failed, falling back to a single page",
		observe.Err(err),
		observe.Int("cursor", s.cursor),
		observe.Int("pages", len(s.pages)))

	remaining := s.ix.Total - s.cursor
	p := PageInfo{
		Index: len(s.pages),
		Start: s.cursor,
		Chars: remaining,
	}
	if frag, cloneErr := s.svc.CloneRange(s.ix, s.cursor, remaining); cloneErr == nil {
		p.Fragment = frag
	} else {
		s.opts.Logger.Error("fallback clone failed", observe.Err(cloneErr))
	}
	s.pages = append(s.pages, p)
	s.cursor = s.ix.Total
	s.notify(p)
	return s.pages, nil
}

func (s *state) notify(p PageInfo) {
	if s.opts.OnPage != nil {
		s.opts.OnPage(p)
	}
	if s.opts.OnProgress != nil {
		s.opts.OnProgress(len(s.pages), s.estimateTotal())
	}
}

// estimateTotal projects the final page count from the average take so
// far. Pages cover [0, cursor), so the average is cursor over pages.
func (s *state) estimateTotal() int {
	built := len(s.pages)
	if built == 0 {
		return 0
	}
	remaining := s.ix.Total - s.cursor
	if remaining <= 0 {
		return built
	}
	avg := s.cursor / built
	if avg < 1 {
		avg = 1
	}
	return built + (remaining+avg-1)/avg
}
