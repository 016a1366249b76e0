package geom

import (
	"math"
	"testing"
)

func TestRectEdges(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"left", r.Left(), 10},
		{"right", r.Right(), 110},
		{"top", r.Top(), 20},
		{"bottom", r.Bottom(), 70},
		{"centerX", r.CenterX(), 60},
		{"centerY", r.CenterY(), 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 10}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{5, 5}, true},
		{Point{0, 0}, true},
		{Point{10, 10}, true},
		{Point{11, 5}, false},
		{Point{5, -1}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{20, 5, 10, 10}
	got := a.Union(b)
	want := Rect{0, 0, 30, 15}
	if got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Errorf("empty.Union(b) = %v, want %v", got, b)
	}
}

func TestSanitize(t *testing.T) {
	r := Rect{X: math.NaN(), Y: math.Inf(1), W: -5, H: 3}.Sanitize()
	want := Rect{0, 0, 0, 3}
	if r != want {
		t.Errorf("Sanitize = %v, want %v", r, want)
	}
}

func TestRotatedBounds(t *testing.T) {
	r := Rect{0, 0, 100, 50}
	got := RotatedBounds(r, 90)
	if math.Abs(got.W-50) > 1e-9 || math.Abs(got.H-100) > 1e-9 {
		t.Errorf("RotatedBounds(90) size = %vx%v, want 50x100", got.W, got.H)
	}
	if got.Center() != r.Center() {
		t.Errorf("RotatedBounds moved center: %v != %v", got.Center(), r.Center())
	}

	back := UnrotatedRect(got, 100, 50)
	if math.Abs(back.X) > 1e-9 || math.Abs(back.Y) > 1e-9 {
		t.Errorf("UnrotatedRect origin = (%v,%v), want (0,0)", back.X, back.Y)
	}
}

func TestTransform(t *testing.T) {
	tr := Transform{PanX: 100, PanY: 50, Zoom: 2}
	p := tr.ToCanvas(Point{300, 250})
	if p != (Point{100, 100}) {
		t.Errorf("ToCanvas = %v, want {100 100}", p)
	}
	if s := tr.ToScreen(p); s != (Point{300, 250}) {
		t.Errorf("ToScreen = %v, want {300 250}", s)
	}

	zero := Transform{}
	if got := zero.ToCanvas(Point{5, 5}); got != (Point{5, 5}) {
		t.Errorf("zero transform ToCanvas = %v, want identity", got)
	}
}
