package paginate

import (
	"github.com/gobunko/gobunko/internal/text"
)

// adjustBreak nudges a geometrically maximal take onto a legal
// boundary. Line prohibition runs first, ruby atomicity second, then
// prohibition once more in case the ruby move exposed a new violation.
// A retreat that leaves the trailing line underfull mid-paragraph is
// reverted to the maximal fit.
func (s *state) adjustBreak(maxFit int) (int, error) {
	a, err := s.prohibitionPass(maxFit)
	if err != nil {
		return 0, err
	}
	a, err = s.rubyPass(a)
	if err != nil {
		return 0, err
	}
	a, err = s.prohibitionPass(a)
	if err != nil {
		return 0, err
	}

	if a < maxFit && s.breakMidBlock(a) {
		short, err := s.trailingShort(a)
		if err != nil {
			return 0, err
		}
		if short {
			a = maxFit
		}
	}
	return a, nil
}

// prohibitionPass repairs a break that would open the next page with a
// closer or end this page with an opener. Opening violations extend the
// page when room remains and retreat otherwise; a trailing opener moves
// back one rune.
func (s *state) prohibitionPass(a int) (int, error) {
	end := s.cursor + a
	if end < s.ix.Total {
		if r, ok := s.ix.RuneAt(end); ok && text.ProhibitedAtLineStart(r) {
			na, moved, err := s.extendPastProhibited(a)
			if err != nil {
				return 0, err
			}
			if !moved {
				na = s.retreatToLegal(a)
			}
			a = na
		}
	}
	if a > 1 {
		if r, ok := s.ix.RuneAt(s.cursor + a - 1); ok && text.ProhibitedAtLineEnd(r) {
			a--
		}
	}
	return a, nil
}

// extendPastProhibited tries to pull the prohibited run onto this page,
// one rune at a time up to maxExtend. The extension must land on a
// boundary that is itself legal and must still fit the frame.
func (s *state) extendPastProhibited(a int) (int, bool, error) {
	for d := 1; d <= maxExtend; d++ {
		na := a + d
		if s.cursor+na > s.ix.Total {
			break
		}
		if s.cursor+na < s.ix.Total {
			if r, ok := s.ix.RuneAt(s.cursor + na); ok && text.ProhibitedAtLineStart(r) {
				continue
			}
		}
		ok, err := s.fits(s.cursor, na)
		if err != nil {
			return 0, false, err
		}
		if !ok {
			// A longer take cannot fit either.
			return 0, false, nil
		}
		return na, true, nil
	}
	return 0, false, nil
}

// retreatToLegal walks the break backwards to the nearest boundary that
// violates neither prohibition class, up to maxRetreat runes. Smaller
// takes always fit, so no re-measure is needed. Returns a unchanged
// when no legal boundary is in range.
func (s *state) retreatToLegal(a int) int {
	for d := 1; d <= maxRetreat; d++ {
		na := a - d
		if na < 1 {
			break
		}
		head, okHead := s.ix.RuneAt(s.cursor + na)
		tail, okTail := s.ix.RuneAt(s.cursor + na - 1)
		if okHead && okTail &&
			!text.ProhibitedAtLineStart(head) && !text.ProhibitedAtLineEnd(tail) {
			return na
		}
	}
	return a
}

// rubyPass keeps an annotated run whole when the break falls strictly
// inside it: the run is pulled onto this page if it fits, pushed to the
// next otherwise. A run that opens the page and still cannot fit is
// split rather than yielding an empty page.
func (s *state) rubyPass(a int) (int, error) {
	end := s.cursor + a
	if end >= s.ix.Total {
		return a, nil
	}
	rs, re, ok := s.ix.RubySpanAt(end)
	if !ok || end == rs {
		// Breaking at the span head moves the whole run to the next
		// page already.
		return a, nil
	}
	grown := re - s.cursor
	fitsAll, err := s.fits(s.cursor, grown)
	if err != nil {
		return 0, err
	}
	if fitsAll {
		return grown, nil
	}
	if shrunk := rs - s.cursor; shrunk >= 1 {
		return shrunk, nil
	}
	return a, nil
}

// breakMidBlock reports whether the boundary after a runes cuts a block
// in two.
func (s *state) breakMidBlock(a int) bool {
	blk := s.ix.BlockAt(s.cursor + a - 1)
	return blk != nil && blk.End() > s.cursor+a
}

// trailingShort reports whether the page's last line falls below the
// short-line ratio.
func (s *state) trailingShort(a int) (bool, error) {
	if err := s.setRange(s.cursor, a); err != nil {
		return false, err
	}
	return s.svc.TrailingLineFill(s.frame) < shortLineRatio, nil
}
