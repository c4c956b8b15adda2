package paginate

// markContinuation flags a page whose final block carries on past the
// page boundary, and records whether its trailing line sits under the
// short-line ratio so renderers can draw a continuation hint. The
// frame must already hold the page's fragment. Pages that end exactly
// on a block boundary stay unmarked: a short final line there is just
// the end of a paragraph.
func (s *state) markContinuation(p *PageInfo) {
	if p.End() >= s.ix.Total {
		return
	}
	blk := s.ix.BlockAt(p.End() - 1)
	if blk == nil || blk.End() <= p.End() {
		return
	}
	p.Continued = true
	if s.svc.TrailingLineFill(s.frame) < shortLineRatio {
		p.ShortLine = true
	}
	if p.Fragment != nil {
		p.Fragment.MarkContinued(p.ShortLine)
	}
}
