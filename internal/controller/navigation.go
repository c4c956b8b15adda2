package controller

import "math"

// Next advances one page.
func (c *Controller) Next() { c.navigate(c.current + 1) }

// Previous retreats one page.
func (c *Controller) Previous() { c.navigate(c.current - 1) }

// GoToFirst returns to the first page.
func (c *Controller) GoToFirst() { c.navigate(0) }

// GoToPage moves to page i, clamped to the built range.
func (c *Controller) GoToPage(i int) { c.navigate(i) }

// JumpToProgress moves to the page nearest the given ratio through the
// book. The ratio is clamped to [0, 1]; with no pages it is a no-op.
func (c *Controller) JumpToProgress(r float64) {
	if c.destroyed {
		return
	}
	count := len(c.pages)
	if count == 0 {
		return
	}
	c.navigate(progressTarget(r, count))
}

// Progress reports how far through the book the current page sits, in
// [0, 1]. A book of one page or none reports 0.
func (c *Controller) Progress() float64 {
	count := len(c.pages)
	if count <= 1 {
		return 0
	}
	return float64(c.current) / float64(count-1)
}

// ScrollToPage is the physical primitive behind all navigation: it sets
// the index, emits the page's scroll offset and reports the change. No
// transition runs; smooth only asks the host to animate the scroll.
func (c *Controller) ScrollToPage(i int, smooth bool) {
	if c.destroyed {
		return
	}
	count := len(c.pages)
	if count == 0 {
		return
	}
	c.pending = -1
	c.scrollToPage(clampInt(i, 0, count-1), smooth)
}

// navigate resolves a target index against the current phase: targets
// past the built prefix wait in pending while paginating, a navigation
// during an animation snaps, and configured effects run otherwise.
func (c *Controller) navigate(i int) {
	if c.destroyed {
		return
	}
	count := len(c.pages)
	if c.phase == PhasePaginating && i >= count {
		c.pending = i
		return
	}
	if count == 0 {
		return
	}
	c.pending = -1
	i = clampInt(i, 0, count-1)
	if i == c.current {
		return
	}
	if c.trans != nil {
		c.trans = nil
		c.scrollToPage(i, false)
		return
	}
	if c.cfg.Effect != EffectNone && c.phase == PhaseReady {
		c.beginTransition(c.current, i)
		return
	}
	c.scrollToPage(i, false)
}

func (c *Controller) scrollToPage(i int, smooth bool) {
	c.current = i
	x, y := c.pageOffset(i)
	if c.cbs.OnScroll != nil {
		c.cbs.OnScroll(x, y, smooth)
	}
	if c.cbs.OnPageChanged != nil {
		c.cbs.OnPageChanged(i)
	}
}

// pageOffset maps a page index to the host scroll offset. Vertical
// pages run right to left, so the offset grows leftward.
func (c *Controller) pageOffset(i int) (x, y float64) {
	g := c.cfg.Geometry
	if g.Mode.Vertical() {
		return -float64(i) * (g.PageWidth + c.cfg.PageGap), 0
	}
	return 0, float64(i) * (g.PageHeight + c.cfg.PageGap)
}

// jumpNow repositions by progress ratio without transitions; used to
// restore the reading position after repagination.
func (c *Controller) jumpNow(r float64) {
	count := len(c.pages)
	if count == 0 {
		c.current = 0
		return
	}
	c.scrollToPage(progressTarget(r, count), false)
}

func progressTarget(r float64, count int) int {
	if r < 0 {
		r = 0
	} else if r > 1 {
		r = 1
	}
	return int(math.Round(r * float64(count-1)))
}
