package controller

import (
	"math"
	"time"
)

// Key identifies the navigation keys the controller understands. Hosts
// map their own key events onto these before calling HandleKey.
type Key int

const (
	KeyArrowLeft Key = iota
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeySpace
)

const (
	wheelDeadZone  = 4.0
	tapMaxTravel   = 10.0
	tapMaxDuration = 350 * time.Millisecond
	swipeMinTravel = 48.0
	swipeWindow    = 600 * time.Millisecond
	tapEdgeRatio   = 0.30
)

type pointerState struct {
	active bool
	x, y   float64
	at     time.Time
}

// SetModalOpen suppresses input handling while a host modal is open.
// Opening a modal drops any gesture in flight.
func (c *Controller) SetModalOpen(open bool) {
	c.modalOpen = open
	if open {
		c.pointer = pointerState{}
	}
}

// SetActive suppresses input handling while the view is inactive.
func (c *Controller) SetActive(active bool) {
	c.inactive = !active
	if !active {
		c.pointer = pointerState{}
	}
}

func (c *Controller) suppressed() bool {
	return c.destroyed || c.modalOpen || c.inactive
}

// HandleKey maps a key to navigation along the reading axis and reports
// whether it was consumed. Vertical pages flow leftward, so ArrowLeft
// advances there; horizontal pages advance downward and rightward.
func (c *Controller) HandleKey(k Key) bool {
	if c.suppressed() {
		return false
	}
	if c.cfg.Geometry.Mode.Vertical() {
		switch k {
		case KeyArrowLeft, KeyArrowDown, KeyPageDown, KeySpace:
			c.Next()
			return true
		case KeyArrowRight, KeyArrowUp, KeyPageUp:
			c.Previous()
			return true
		case KeyHome:
			c.GoToFirst()
			return true
		}
		return false
	}
	switch k {
	case KeyArrowRight, KeyArrowDown, KeyPageDown, KeySpace:
		c.Next()
		return true
	case KeyArrowLeft, KeyArrowUp, KeyPageUp:
		c.Previous()
		return true
	case KeyHome:
		c.GoToFirst()
		return true
	}
	return false
}

// HandleWheel maps a wheel delta to navigation. The dominant axis wins;
// deltas inside the dead zone are ignored. On vertical pages a leftward
// delta advances, on horizontal pages a downward one does.
func (c *Controller) HandleWheel(dx, dy float64) bool {
	if c.suppressed() {
		return false
	}
	ax, ay := math.Abs(dx), math.Abs(dy)
	if ax < wheelDeadZone && ay < wheelDeadZone {
		return false
	}
	if c.cfg.Geometry.Mode.Vertical() {
		if ax >= ay {
			if dx < 0 {
				c.Next()
			} else {
				c.Previous()
			}
		} else if dy > 0 {
			c.Next()
		} else {
			c.Previous()
		}
		return true
	}
	if ay >= ax {
		if dy > 0 {
			c.Next()
		} else {
			c.Previous()
		}
	} else if dx > 0 {
		c.Next()
	} else {
		c.Previous()
	}
	return true
}

// HandlePointerDown starts a gesture at page coordinates (x, y).
func (c *Controller) HandlePointerDown(x, y float64, now time.Time) {
	if c.suppressed() {
		return
	}
	c.pointer = pointerState{active: true, x: x, y: y, at: now}
}

// HandlePointerUp finishes a gesture and reports whether it navigated.
// A long drag along the reading axis within the gesture window is a
// swipe; a short, small-travel pair is a tap on the leading or trailing
// edge band. Everything else is ignored.
func (c *Controller) HandlePointerUp(x, y float64, now time.Time) bool {
	if c.suppressed() || !c.pointer.active {
		return false
	}
	start := c.pointer
	c.pointer = pointerState{}
	dx, dy := x-start.x, y-start.y
	dt := now.Sub(start.at)

	if c.swipe(dx, dy, dt) {
		return true
	}
	return c.tap(x, y, dx, dy, dt)
}

// swipe reads a drag toward the trailing edge as revealing the next
// page: rightward on vertical pages, upward on horizontal ones.
func (c *Controller) swipe(dx, dy float64, dt time.Duration) bool {
	if dt > swipeWindow {
		return false
	}
	ax, ay := math.Abs(dx), math.Abs(dy)
	if c.cfg.Geometry.Mode.Vertical() {
		if ax < swipeMinTravel || ax < ay {
			return false
		}
		if dx > 0 {
			c.Next()
		} else {
			c.Previous()
		}
		return true
	}
	if ay < swipeMinTravel || ay < ax {
		return false
	}
	if dy < 0 {
		c.Next()
	} else {
		c.Previous()
	}
	return true
}

// tap reads a touch in the leading edge band as advancing and one in
// the trailing band as retreating: left/right bands on vertical pages,
// bottom/top bands on horizontal ones. The middle band is left to the
// host.
func (c *Controller) tap(x, y, dx, dy float64, dt time.Duration) bool {
	if dt > tapMaxDuration || math.Hypot(dx, dy) > tapMaxTravel {
		return false
	}
	g := c.cfg.Geometry
	if g.Mode.Vertical() {
		if g.PageWidth <= 0 {
			return false
		}
		r := x / g.PageWidth
		switch {
		case r <= tapEdgeRatio:
			c.Next()
			return true
		case r >= 1-tapEdgeRatio:
			c.Previous()
			return true
		}
		return false
	}
	if g.PageHeight <= 0 {
		return false
	}
	r := y / g.PageHeight
	switch {
	case r >= 1-tapEdgeRatio:
		c.Next()
		return true
	case r <= tapEdgeRatio:
		c.Previous()
		return true
	}
	return false
}
