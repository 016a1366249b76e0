package snap

import (
	"math"

	"github.com/framewright/framewright/pkg/geom"
)

type axis int

const (
	xAxis axis = iota
	yAxis
)

func (a axis) lo(r geom.Rect) float64 {
	if a == xAxis {
		return r.Left()
	}
	return r.Top()
}

func (a axis) hi(r geom.Rect) float64 {
	if a == xAxis {
		return r.Right()
	}
	return r.Bottom()
}

func (a axis) size(r geom.Rect) float64 {
	if a == xAxis {
		return r.W
	}
	return r.H
}

// overlaps reports whether r and c share a band on the other axis.
func (a axis) overlaps(r, c geom.Rect) bool {
	if a == xAxis {
		return r.Top() < c.Bottom() && c.Top() < r.Bottom()
	}
	return r.Left() < c.Right() && c.Left() < r.Right()
}

// neighbours holds, for each side of a rect, the nearest candidate and the
// one beyond it. Missing entries are nil.
type neighbours struct {
	before, beforeNext *geom.Rect
	after, afterNext   *geom.Rect
}

func findNeighbours(rect geom.Rect, a axis, excludeID string, candidates []Candidate) neighbours {
	var n neighbours
	nearestBefore := func(limit float64, skip *geom.Rect) *geom.Rect {
		var best *geom.Rect
		for _, c := range candidates {
			r := c.Rect.Sanitize()
			if c.ID == excludeID || !a.overlaps(rect, r) || a.hi(r) > limit {
				continue
			}
			if skip != nil && r == *skip {
				continue
			}
			if best == nil || a.hi(r) > a.hi(*best) {
				best = &r
			}
		}
		return best
	}
	nearestAfter := func(limit float64, skip *geom.Rect) *geom.Rect {
		var best *geom.Rect
		for _, c := range candidates {
			r := c.Rect.Sanitize()
			if c.ID == excludeID || !a.overlaps(rect, r) || a.lo(r) < limit {
				continue
			}
			if skip != nil && r == *skip {
				continue
			}
			if best == nil || a.lo(r) < a.lo(*best) {
				best = &r
			}
		}
		return best
	}

	if n.before = nearestBefore(a.lo(rect), nil); n.before != nil {
		n.beforeNext = nearestBefore(a.lo(*n.before), n.before)
	}
	if n.after = nearestAfter(a.hi(rect), nil); n.after != nil {
		n.afterNext = nearestAfter(a.hi(*n.after), n.after)
	}
	return n
}

// distribute proposes the closest equal-spacing correction on axis a.
func distribute(rect geom.Rect, a axis, threshold float64, excludeID string, candidates []Candidate) *Snap {
	rect = rect.Sanitize()
	n := findNeighbours(rect, a, excludeID, candidates)
	size := a.size(rect)
	cur := a.lo(rect)

	var options []float64
	if n.before != nil && n.after != nil && a.lo(*n.after)-a.hi(*n.before) >= size {
		options = append(options, (a.hi(*n.before)+a.lo(*n.after)-size)/2)
	}
	if n.before != nil && n.beforeNext != nil {
		gap := a.lo(*n.before) - a.hi(*n.beforeNext)
		options = append(options, a.hi(*n.before)+gap)
	}
	if n.after != nil && n.afterNext != nil {
		gap := a.lo(*n.afterNext) - a.hi(*n.after)
		options = append(options, a.lo(*n.after)-gap-size)
	}

	var best *Snap
	bestDist := threshold
	for _, pos := range options {
		if d := math.Abs(pos - cur); d < bestDist {
			bestDist = d
			best = &Snap{Edge: EdgeDistribute, Position: pos, Delta: pos - cur}
		}
	}
	return best
}

// spacingGuides labels the gaps around rect that are equal to another gap.
func spacingGuides(rect geom.Rect, a axis, excludeID string, candidates []Candidate) []Guide {
	n := findNeighbours(rect, a, excludeID, candidates)

	type segment struct{ start, end float64 }
	var segs []segment
	add := func(s segment) {
		for _, have := range segs {
			if have == s {
				return
			}
		}
		segs = append(segs, s)
	}
	equal := func(x, y segment) bool { return math.Abs((x.end-x.start)-(y.end-y.start)) < 0.5 }

	var before, after, beforeNext, afterNext *segment
	if n.before != nil {
		before = &segment{a.hi(*n.before), a.lo(rect)}
		if n.beforeNext != nil {
			beforeNext = &segment{a.hi(*n.beforeNext), a.lo(*n.before)}
		}
	}
	if n.after != nil {
		after = &segment{a.hi(rect), a.lo(*n.after)}
		if n.afterNext != nil {
			afterNext = &segment{a.hi(*n.after), a.lo(*n.afterNext)}
		}
	}
	if before != nil && after != nil && equal(*before, *after) {
		add(*before)
		add(*after)
	}
	if before != nil && beforeNext != nil && equal(*before, *beforeNext) {
		add(*beforeNext)
		add(*before)
	}
	if after != nil && afterNext != nil && equal(*after, *afterNext) {
		add(*after)
		add(*afterNext)
	}

	orient, pos := Horizontal, rect.CenterY()
	if a == yAxis {
		orient, pos = Vertical, rect.CenterX()
	}
	out := make([]Guide, 0, len(segs))
	for _, s := range segs {
		out = append(out, Guide{
			Orientation: orient,
			Position:    pos,
			Start:       s.start,
			End:         s.end,
			Label:       label(s.end - s.start),
		})
	}
	return out
}
