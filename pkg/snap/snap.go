package snap

import (
	"math"
	"strconv"

	"github.com/framewright/framewright/pkg/geom"
)

// Edge names the alignment value a snap matched.
type Edge string

const (
	EdgeLeft       Edge = "left"
	EdgeRight      Edge = "right"
	EdgeCenterX    Edge = "centerX"
	EdgeTop        Edge = "top"
	EdgeBottom     Edge = "bottom"
	EdgeCenterY    Edge = "centerY"
	EdgeDistribute Edge = "distribute"
)

// Orientation is the direction of a guide line.
type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// DefaultThreshold is the snap distance in canvas pixels.
const DefaultThreshold = 5.0

// ReleaseTolerance is how close the final ghost edge must be to an active
// snap axis for [Release] to pull it on.
const ReleaseTolerance = 5.0

// Points are the candidate alignment values of a dragged node.
type Points struct {
	Left, Right, CenterX float64
	Top, Bottom, CenterY float64
}

// PointsOf returns the six alignment values of r.
func PointsOf(r geom.Rect) Points {
	r = r.Sanitize()
	return Points{
		Left: r.Left(), Right: r.Right(), CenterX: r.CenterX(),
		Top: r.Top(), Bottom: r.Bottom(), CenterY: r.CenterY(),
	}
}

// Candidate is a node the dragged node may align with.
type Candidate struct {
	ID   string
	Rect geom.Rect
}

// Snap is the decision for one axis.
type Snap struct {
	Edge     Edge    // matched edge type; EdgeDistribute for spacing snaps
	Position float64 // coordinate the snapped edge lands on
	Delta    float64 // offset to add to the node's position on this axis
	TargetID string  // candidate matched; empty for distribute snaps
}

// Distance returns |Delta|.
func (s *Snap) Distance() float64 { return math.Abs(s.Delta) }

// Guide describes one visual guide line.
type Guide struct {
	Orientation Orientation `json:"orientation"`
	Position    float64     `json:"position"`
	Start       float64     `json:"start"`
	End         float64     `json:"end"`
	Label       string      `json:"label,omitempty"`
}

// Result holds the independent vertical and horizontal snap decisions.
type Result struct {
	Vertical   *Snap // aligns x
	Horizontal *Snap // aligns y
	Guides     []Guide
}

// Snapped reports whether either axis snapped.
func (r Result) Snapped() bool { return r.Vertical != nil || r.Horizontal != nil }

// Apply returns rect moved by the snap deltas.
func (r Result) Apply(rect geom.Rect) geom.Rect {
	if r.Vertical != nil {
		rect.X += r.Vertical.Delta
	}
	if r.Horizontal != nil {
		rect.Y += r.Horizontal.Delta
	}
	return rect
}

// Engine finds snaps. The zero value is ready to use.
type Engine struct {
	// NoDistribute disables equal-spacing snaps.
	NoDistribute bool
}

type axisPoint struct {
	edge  Edge
	value float64
}

func (p Points) vertical() []axisPoint {
	return []axisPoint{{EdgeLeft, p.Left}, {EdgeRight, p.Right}, {EdgeCenterX, p.CenterX}}
}

func (p Points) horizontal() []axisPoint {
	return []axisPoint{{EdgeTop, p.Top}, {EdgeBottom, p.Bottom}, {EdgeCenterY, p.CenterY}}
}

func edgeValue(r geom.Rect, e Edge) float64 {
	switch e {
	case EdgeLeft:
		return r.Left()
	case EdgeRight:
		return r.Right()
	case EdgeCenterX:
		return r.CenterX()
	case EdgeTop:
		return r.Top()
	case EdgeBottom:
		return r.Bottom()
	case EdgeCenterY:
		return r.CenterY()
	}
	return 0
}

// FindNearestSnaps returns the closest same-type edge match under threshold
// on each axis, plus guides. The candidate with excludeID is skipped.
func (e Engine) FindNearestSnaps(p Points, threshold float64, excludeID string, candidates []Candidate) Result {
	threshold = geom.Num(threshold)
	var res Result
	if threshold <= 0 {
		return res
	}
	res.Vertical = nearest(p.vertical(), threshold, excludeID, candidates)
	res.Horizontal = nearest(p.horizontal(), threshold, excludeID, candidates)

	if !e.NoDistribute {
		rect := geom.Rect{X: p.Left, Y: p.Top, W: p.Right - p.Left, H: p.Bottom - p.Top}
		if d := distribute(rect, xAxis, threshold, excludeID, candidates); better(d, res.Vertical) {
			res.Vertical = d
		}
		if d := distribute(rect, yAxis, threshold, excludeID, candidates); better(d, res.Horizontal) {
			res.Horizontal = d
		}
	}

	rect := geom.Rect{X: p.Left, Y: p.Top, W: p.Right - p.Left, H: p.Bottom - p.Top}
	res.Guides = guides(res.Apply(rect), res, excludeID, candidates)
	return res
}

// better reports whether the distribute candidate d should replace the edge
// snap cur. Edge snaps win ties.
func better(d, cur *Snap) bool {
	if d == nil {
		return false
	}
	return cur == nil || d.Distance() < cur.Distance()
}

func nearest(points []axisPoint, threshold float64, excludeID string, candidates []Candidate) *Snap {
	var best *Snap
	bestDist := threshold
	for _, pt := range points {
		v := geom.Num(pt.value)
		for _, c := range candidates {
			if c.ID == excludeID {
				continue
			}
			target := edgeValue(c.Rect.Sanitize(), pt.edge)
			d := math.Abs(target - v)
			if d < bestDist {
				bestDist = d
				best = &Snap{Edge: pt.edge, Position: target, Delta: target - v, TargetID: c.ID}
			}
		}
	}
	return best
}

// Resolve snaps rect, then re-runs the search from the snapped position and
// lets that stable result decide the final position and guides.
func (e Engine) Resolve(rect geom.Rect, threshold float64, excludeID string, candidates []Candidate) (geom.Rect, Result) {
	rect = rect.Sanitize()
	first := e.FindNearestSnaps(PointsOf(rect), threshold, excludeID, candidates)
	if !first.Snapped() {
		return rect, first
	}
	snapped := first.Apply(rect)
	stable := e.FindNearestSnaps(PointsOf(snapped), threshold, excludeID, candidates)

	final := snapped
	res := Result{Vertical: first.Vertical, Horizontal: first.Horizontal}
	if stable.Vertical != nil {
		final.X += stable.Vertical.Delta
		res.Vertical = rebase(stable.Vertical, rect.X, final.X)
	}
	if stable.Horizontal != nil {
		final.Y += stable.Horizontal.Delta
		res.Horizontal = rebase(stable.Horizontal, rect.Y, final.Y)
	}
	res.Guides = guides(final, res, excludeID, candidates)
	return final, res
}

// rebase expresses a stable-pass snap relative to the original position.
func rebase(s *Snap, from, to float64) *Snap {
	c := *s
	c.Delta = to - from
	return &c
}

// Release pulls rect onto the active snap axes of res when the matching
// edge is within tolerance. It is applied once, to the final ghost
// position of a drag.
func Release(rect geom.Rect, res Result, tolerance float64) geom.Rect {
	rect = rect.Sanitize()
	if s := res.Vertical; s != nil {
		edge := s.Edge
		if edge == EdgeDistribute {
			edge = EdgeLeft
		}
		if d := s.Position - edgeValue(rect, edge); math.Abs(d) <= tolerance {
			rect.X += d
		}
	}
	if s := res.Horizontal; s != nil {
		edge := s.Edge
		if edge == EdgeDistribute {
			edge = EdgeTop
		}
		if d := s.Position - edgeValue(rect, edge); math.Abs(d) <= tolerance {
			rect.Y += d
		}
	}
	return rect
}

// guides builds the guide lines for the snapped rectangle.
func guides(rect geom.Rect, res Result, excludeID string, candidates []Candidate) []Guide {
	var out []Guide
	if s := res.Vertical; s != nil {
		if s.Edge == EdgeDistribute {
			out = append(out, spacingGuides(rect, xAxis, excludeID, candidates)...)
		} else if c, ok := find(candidates, s.TargetID); ok {
			out = append(out, Guide{
				Orientation: Vertical,
				Position:    s.Position,
				Start:       math.Min(rect.Top(), c.Top()),
				End:         math.Max(rect.Bottom(), c.Bottom()),
			})
		}
	}
	if s := res.Horizontal; s != nil {
		if s.Edge == EdgeDistribute {
			out = append(out, spacingGuides(rect, yAxis, excludeID, candidates)...)
		} else if c, ok := find(candidates, s.TargetID); ok {
			out = append(out, Guide{
				Orientation: Horizontal,
				Position:    s.Position,
				Start:       math.Min(rect.Left(), c.Left()),
				End:         math.Max(rect.Right(), c.Right()),
			})
		}
	}
	return out
}

func find(candidates []Candidate, id string) (geom.Rect, bool) {
	for _, c := range candidates {
		if c.ID == id {
			return c.Rect.Sanitize(), true
		}
	}
	return geom.Rect{}, false
}

func label(gap float64) string {
	return strconv.FormatFloat(math.Round(gap), 'f', -1, 64)
}
