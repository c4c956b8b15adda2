package controller

import (
	"fmt"
	"time"
)

// Effect selects the page-turn visual.
type Effect int

const (
	EffectNone Effect = iota
	EffectFade
	EffectBlur
	EffectSlide
)

func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectFade:
		return "fade"
	case EffectBlur:
		return "blur"
	case EffectSlide:
		return "slide"
	}
	return "unknown"
}

// ParseEffect maps a config string to an Effect.
func ParseEffect(s string) (Effect, error) {
	switch s {
	case "", "none":
		return EffectNone, nil
	case "fade":
		return EffectFade, nil
	case "blur":
		return EffectBlur, nil
	case "slide":
		return EffectSlide, nil
	}
	return EffectNone, fmt.Errorf("controller: unknown effect %q", s)
}

// TransitionPhase orders the stages of one page turn.
type TransitionPhase int

const (
	// TransitionHide starts the effect over the outgoing page.
	TransitionHide TransitionPhase = iota
	// TransitionSwap fires right after the page jump; the viewport
	// already sits on the incoming page.
	TransitionSwap
	// TransitionReveal starts uncovering the incoming page.
	TransitionReveal
	// TransitionDone ends the effect.
	TransitionDone
)

func (p TransitionPhase) String() string {
	switch p {
	case TransitionHide:
		return "hide"
	case TransitionSwap:
		return "swap"
	case TransitionReveal:
		return "reveal"
	case TransitionDone:
		return "done"
	}
	return "unknown"
}

// TransitionEvent tells the host which visual stage to apply.
type TransitionEvent struct {
	Effect Effect
	Phase  TransitionPhase
	From   int
	To     int
}

// transition tracks one page turn across Update calls. The page jump
// happens at the half-duration mark: fade and blur swap while hidden,
// slide jumps at the mask peak.
type transition struct {
	effect   Effect
	from, to int
	started  time.Time
	swapped  bool
}

func (c *Controller) beginTransition(from, to int) {
	c.trans = &transition{effect: c.cfg.Effect, from: from, to: to}
}

// updateTransition advances the active page turn. The first Update
// anchors the timebase and emits the hide phase; the swap lands on the
// first Update past half duration; done lands past the full duration.
// Callbacks may start a new transition or navigate away, so ownership
// is re-checked after every emit.
func (c *Controller) updateTransition(now time.Time) {
	tr := c.trans
	if tr == nil {
		return
	}
	if tr.started.IsZero() {
		tr.started = now
		c.emitTransition(tr, TransitionHide)
		return
	}
	elapsed := now.Sub(tr.started)
	if !tr.swapped && elapsed >= c.cfg.EffectDuration/2 {
		if !c.swapNow(tr) {
			return
		}
	}
	if elapsed >= c.cfg.EffectDuration {
		if !tr.swapped && !c.swapNow(tr) {
			return
		}
		c.trans = nil
		c.emitTransition(tr, TransitionDone)
	}
}

// swapNow performs the page jump and the swap/reveal emits; it reports
// whether tr still owns the session afterwards.
func (c *Controller) swapNow(tr *transition) bool {
	tr.swapped = true
	c.scrollToPage(tr.to, false)
	if c.trans != tr {
		return false
	}
	c.emitTransition(tr, TransitionSwap)
	if c.trans != tr {
		return false
	}
	c.emitTransition(tr, TransitionReveal)
	return c.trans == tr
}

func (c *Controller) emitTransition(tr *transition, ph TransitionPhase) {
	if c.cbs.OnTransition != nil {
		c.cbs.OnTransition(TransitionEvent{
			Effect: tr.effect,
			Phase:  ph,
			From:   tr.from,
			To:     tr.to,
		})
	}
}
