package drag

import (
	"github.com/tanema/gween/ease"

	"github.com/framewright/framewright/pkg/geom"
)

// AutoScrollConfig sizes the edge bands and speed range of auto-scroll.
// The horizontal bands are wider than the vertical ones because side panels
// cover part of the canvas edges.
type AutoScrollConfig struct {
	EdgeX    float64 // width of the left/right bands, screen px
	EdgeY    float64 // height of the top/bottom bands, screen px
	MinSpeed float64 // px per frame at the inner edge of a band
	MaxSpeed float64 // px per frame at the canvas edge

	// Easing maps band proximity to speed. Defaults to ease.InQuad.
	Easing ease.TweenFunc
}

// SetDefaults fills zero fields.
func (c *AutoScrollConfig) SetDefaults() {
	if c.EdgeX <= 0 {
		c.EdgeX = 80
	}
	if c.EdgeY <= 0 {
		c.EdgeY = 50
	}
	if c.MinSpeed <= 0 {
		c.MinSpeed = 0.5
	}
	if c.MaxSpeed <= 0 {
		c.MaxSpeed = 4
	}
	if c.MaxSpeed < c.MinSpeed {
		c.MaxSpeed = c.MinSpeed
	}
	if c.Easing == nil {
		c.Easing = ease.InQuad
	}
}

// AutoScroller turns a pointer position into a scroll velocity.
type AutoScroller struct {
	cfg AutoScrollConfig
}

// NewAutoScroller creates an AutoScroller.
func NewAutoScroller(cfg AutoScrollConfig) *AutoScroller {
	cfg.SetDefaults()
	return &AutoScroller{cfg: cfg}
}

// Velocity returns the scroll velocity in px per frame for pointer p over
// the screen-space canvas view. Negative values scroll left or up. The
// result is zero outside the edge bands.
func (a *AutoScroller) Velocity(p geom.Point, view geom.Rect) geom.Point {
	view = view.Sanitize()
	if view.Empty() {
		return geom.Point{}
	}
	return geom.Point{
		X: a.axis(p.X-view.Left(), view.Right()-p.X, a.cfg.EdgeX),
		Y: a.axis(p.Y-view.Top(), view.Bottom()-p.Y, a.cfg.EdgeY),
	}
}

// axis computes the signed speed from the distances to the low and high
// edges of one axis.
func (a *AutoScroller) axis(toLow, toHigh, band float64) float64 {
	switch {
	case toLow < band && toLow <= toHigh:
		return -a.speed(toLow, band)
	case toHigh < band:
		return a.speed(toHigh, band)
	}
	return 0
}

func (a *AutoScroller) speed(dist, band float64) float64 {
	proximity := geom.Clamp(band-dist, 0, band)
	v := float64(a.cfg.Easing(float32(proximity), float32(a.cfg.MinSpeed), float32(a.cfg.MaxSpeed-a.cfg.MinSpeed), float32(band)))
	return geom.Clamp(v, a.cfg.MinSpeed, a.cfg.MaxSpeed)
}
