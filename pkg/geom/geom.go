package geom

import "math"

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Rect is an axis-aligned rectangle given by its top-left corner and size.
// The zero value is an empty rectangle at the origin.
type Rect struct {
	X, Y, W, H float64
}

// Left returns the x coordinate of the left edge.
func (r Rect) Left() float64 { return r.X }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns the y coordinate of the top edge.
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the x coordinate of the vertical center line.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the y coordinate of the horizontal center line.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Center returns the center point.
func (r Rect) Center() Point { return Point{r.CenterX(), r.CenterY()} }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{r.X, r.Y} }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Intersects reports whether r and o overlap with a positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{r.X + dx, r.Y + dy, r.W, r.H}
}

// MoveTo returns r with its top-left corner at p.
func (r Rect) MoveTo(p Point) Rect {
	return Rect{p.X, p.Y, r.W, r.H}
}

// Union returns the smallest rectangle containing both r and o.
// An empty operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x := math.Min(r.X, o.X)
	y := math.Min(r.Y, o.Y)
	return Rect{x, y, math.Max(r.Right(), o.Right()) - x, math.Max(r.Bottom(), o.Bottom()) - y}
}

// Sanitize replaces non-finite components with 0 and clamps negative sizes to 0.
func (r Rect) Sanitize() Rect {
	r.X, r.Y, r.W, r.H = Num(r.X), Num(r.Y), Num(r.W), Num(r.H)
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}

// Num returns v, or 0 when v is NaN or infinite.
func Num(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// RotatedBounds returns the axis-aligned bounding box of r rotated by deg
// degrees around its center.
func RotatedBounds(r Rect, deg float64) Rect {
	if deg == 0 {
		return r
	}
	rad := deg * math.Pi / 180
	c, s := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
	w := r.W*c + r.H*s
	h := r.W*s + r.H*c
	cx, cy := r.CenterX(), r.CenterY()
	return Rect{cx - w/2, cy - h/2, w, h}
}

// UnrotatedRect recovers the layout box of size (w, h) whose rotated bounding
// box is bounds. Rotation keeps the center fixed, so only the size changes.
func UnrotatedRect(bounds Rect, w, h float64) Rect {
	cx, cy := bounds.CenterX(), bounds.CenterY()
	return Rect{cx - w/2, cy - h/2, w, h}
}

// Transform maps screen coordinates to canvas coordinates for a panned and
// zoomed canvas. Screen = Canvas*Zoom + Pan.
type Transform struct {
	PanX, PanY float64
	Zoom       float64
}

// Identity is the transform with no pan and a zoom of 1.
var Identity = Transform{Zoom: 1}

func (t Transform) zoom() float64 {
	if t.Zoom <= 0 || math.IsNaN(t.Zoom) {
		return 1
	}
	return t.Zoom
}

// ToCanvas converts a screen point into canvas space.
func (t Transform) ToCanvas(p Point) Point {
	z := t.zoom()
	return Point{(p.X - t.PanX) / z, (p.Y - t.PanY) / z}
}

// ToScreen converts a canvas point into screen space.
func (t Transform) ToScreen(p Point) Point {
	z := t.zoom()
	return Point{p.X*z + t.PanX, p.Y*z + t.PanY}
}

// RectToCanvas converts a screen-space rectangle into canvas space.
func (t Transform) RectToCanvas(r Rect) Rect {
	z := t.zoom()
	o := t.ToCanvas(r.Origin())
	return Rect{o.X, o.Y, r.W / z, r.H / z}
}
