package paginate

// buildPage finds the maximal rune count from the cursor that fits the
// frame. Three stages: a history seed, a block-size estimate that
// overrides it when sane, and a windowed binary search with incremental
// refinement. The result is at least 1: every page makes progress.
func (s *state) buildPage() (int, error) {
	remaining := s.ix.Total - s.cursor
	if remaining <= 0 {
		return 0, nil
	}
	if remaining == 1 {
		return 1, nil
	}

	seed := s.seed(remaining)
	if est := s.segmentEstimate(remaining); est > 0 {
		seed = est
	}

	lo := maxInt(1, int(float64(seed)*(1-searchMargin)))
	hi := minInt(remaining, int(float64(seed)*(1+searchMargin)))
	if hi < lo {
		hi = lo
	}

	best := 0
	for lo <= hi {
		mid := lo + (hi-lo)/2
		ok, err := s.fits(s.cursor, mid)
		if err != nil {
			return 0, err
		}
		if ok {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	if best == 0 {
		// The whole window overflowed: the estimate was far off.
		shrunk, err := s.shrinkToFit(maxInt(1, int(float64(seed)*(1-searchMargin))))
		if err != nil {
			return 0, err
		}
		best = shrunk
		if best <= 1 {
			return maxInt(1, best), nil
		}
	}

	return s.growToMax(best, remaining)
}

// seed proposes a rune count from run history: the larger of the last
// page and the running average, or a bounded guess on the first page.
func (s *state) seed(remaining int) int {
	if len(s.pages) == 0 {
		return minInt(remaining, firstPageSeed)
	}
	total := 0
	for _, p := range s.pages {
		total += p.Chars
	}
	seed := maxInt(s.lastTake, total/len(s.pages))
	seed = minInt(seed, remaining)
	return maxInt(seed, 1)
}

// segmentEstimate walks block segments from the cursor, prorating each
// block's lone extent by the covered share, until the accumulated size
// exceeds the frame with a little slack. Returns 0 when no estimate is
// available.
func (s *state) segmentEstimate(remaining int) int {
	budget := s.svc.FrameExtent(s.frame) * estimateSlack
	if budget <= 0 {
		return 0
	}

	count := 0
	var used float64
	for _, seg := range s.ix.Segments(s.cursor, s.ix.Total) {
		extent := s.blockExtent(seg.Block)
		share := extent
		if seg.Chars < seg.Block.Len && seg.Block.Len > 0 {
			share = extent * float64(seg.Chars) / float64(seg.Block.Len)
		}
		if used+share > budget {
			if seg.Block.Len > 0 && extent > 0 {
				perChar := extent / float64(seg.Block.Len)
				count += int((budget - used) / perChar)
			}
			break
		}
		used += share
		count += seg.Chars
	}
	return minInt(count, remaining)
}

// shrinkToFit halves a take that overflows until it fits, bounded, and
// settles on a single rune when nothing else works.
func (s *state) shrinkToFit(from int) (int, error) {
	take := from
	for i := 0; i < maxShrinkSteps; i++ {
		if take <= 1 {
			return 1, nil
		}
		ok, err := s.fits(s.cursor, take)
		if err != nil {
			return 0, err
		}
		if ok {
			return take, nil
		}
		take /= 2
	}
	return maxInt(1, take), nil
}

// growToMax expands a fitting take by accelerating steps, then narrows
// back onto the largest fit after the first overshoot.
func (s *state) growToMax(fit, remaining int) (int, error) {
	take := fit
	step := maxInt(1, int(float64(fit)*growStepRatio))
	for take < remaining {
		next := minInt(take+step, remaining)
		ok, err := s.fits(s.cursor, next)
		if err != nil {
			return 0, err
		}
		if !ok {
			return s.narrowBetween(take, next-1)
		}
		take = next
		step = maxInt(step*3/2, 1)
	}
	return take, nil
}

// narrowBetween binary-searches the largest fit in (fitKnown, upper].
func (s *state) narrowBetween(fitKnown, upper int) (int, error) {
	lo := fitKnown + 1
	hi := upper
	best := fitKnown
	for lo <= hi {
		mid := lo + (hi-lo)/2
		ok, err := s.fits(s.cursor, mid)
		if err != nil {
			return 0, err
		}
		if ok {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best, nil
}
