package drop

import (
	"testing"

	"github.com/framewright/framewright/pkg/geom"
	"github.com/framewright/framewright/pkg/node"
	"github.com/framewright/framewright/pkg/store"
)

func mustAppend(t *testing.T, s *store.Store, n node.Node, parent string) {
	t.Helper()
	if err := s.Append(n, parent); err != nil {
		t.Fatalf("Append(%s): %v", n.ID, err)
	}
}

// rowABC is a row frame p at (0,0,300,100) holding frames a, b, c of
// 100x100 side by side.
func rowABC(t *testing.T) (*store.Store, map[string]Measure) {
	t.Helper()
	s := store.New()
	mustAppend(t, s, node.Node{ID: "p", Type: node.TypeFrame, Style: node.Style{node.KeyFlexDirection: "row"}}, "")
	for _, id := range []string{"a", "b", "c"} {
		mustAppend(t, s, node.Node{ID: id, Type: node.TypeFrame}, "p")
	}
	rects := map[string]Measure{
		"p": {Rect: geom.Rect{X: 0, Y: 0, W: 300, H: 100}, Direction: Row},
		"a": {Rect: geom.Rect{X: 0, Y: 0, W: 100, H: 100}},
		"b": {Rect: geom.Rect{X: 100, Y: 0, W: 100, H: 100}},
		"c": {Rect: geom.Rect{X: 200, Y: 0, W: 100, H: 100}},
	}
	return s, rects
}

func TestResolveFlowRow(t *testing.T) {
	s, rects := rowABC(t)
	r := NewResolver(s, nil)

	tests := []struct {
		name   string
		x      float64
		target string
		pos    node.Position
	}{
		{"past b midpoint", 160, "b", node.After},
		{"before b midpoint", 120, "b", node.Before},
		{"c midpoint", 250, "c", node.After},
		{"over dragged a", 50, "b", node.Before},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(Input{Cursor: geom.Point{X: tt.x, Y: 50}, Rects: rects, Dragged: []string{"a"}})
			if got.TargetID != tt.target || got.Position != tt.pos {
				t.Errorf("Resolve = %s/%s, want %s/%s", got.TargetID, got.Position, tt.target, tt.pos)
			}
			if got.Container != "p" {
				t.Errorf("Container = %q, want p", got.Container)
			}
			if got.Canvas {
				t.Error("Canvas = true, want false")
			}
		})
	}
}

func TestResolveFlowLine(t *testing.T) {
	s, rects := rowABC(t)
	got := NewResolver(s, nil).Resolve(Input{Cursor: geom.Point{X: 160, Y: 50}, Rects: rects, Dragged: []string{"a"}})
	want := Line{From: geom.Point{X: 200, Y: 0}, To: geom.Point{X: 200, Y: 100}}
	if got.Line == nil || *got.Line != want {
		t.Errorf("Line = %+v, want %+v", got.Line, want)
	}
}

func TestResolveHysteresis(t *testing.T) {
	s, rects := rowABC(t)
	r := NewResolver(s, nil)
	prev := &Result{TargetID: "b", Position: node.After}

	tests := []struct {
		name string
		x    float64
		move float64
		want node.Position
	}{
		{"left of midline, no movement keeps after", 145, 0, node.After},
		{"left of midline, moving left", 145, -2, node.Before},
		{"right of midline, moving left", 155, -2, node.Before},
		{"outside band uses midline", 110, 3, node.Before},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(Input{
				Cursor:   geom.Point{X: tt.x, Y: 50},
				Rects:    rects,
				Dragged:  []string{"a"},
				Movement: geom.Point{X: tt.move},
				Previous: prev,
			})
			if got.TargetID != "b" || got.Position != tt.want {
				t.Errorf("Resolve = %s/%s, want b/%s", got.TargetID, got.Position, tt.want)
			}
		})
	}
}

func TestResolveColumnFromStyle(t *testing.T) {
	s := store.New()
	mustAppend(t, s, node.Node{ID: "p", Type: node.TypeFrame}, "")
	mustAppend(t, s, node.Node{ID: "x", Type: node.TypeText}, "p")
	mustAppend(t, s, node.Node{ID: "y", Type: node.TypeText}, "p")
	rects := map[string]Measure{
		"p": {Rect: geom.Rect{W: 100, H: 200}},
		"x": {Rect: geom.Rect{W: 100, H: 100}},
		"y": {Rect: geom.Rect{Y: 100, W: 100, H: 100}},
	}
	got := NewResolver(s, nil).Resolve(Input{Cursor: geom.Point{X: 90, Y: 120}, Rects: rects})
	if got.TargetID != "y" || got.Position != node.Before {
		t.Errorf("Resolve = %s/%s, want y/before", got.TargetID, got.Position)
	}
	if got.Line == nil || got.Line.From.Y != 100 || got.Line.To.Y != 100 {
		t.Errorf("Line = %+v, want horizontal at y=100", got.Line)
	}
}

func TestResolveMedia(t *testing.T) {
	s := store.New()
	mustAppend(t, s, node.Node{ID: "img", Type: node.TypeImage}, "")
	rects := map[string]Measure{"img": {Rect: geom.Rect{W: 100, H: 100}}}
	r := NewResolver(s, nil)

	got := r.Resolve(Input{Cursor: geom.Point{X: 50, Y: 50}, Rects: rects})
	if got.TargetID != "img" || got.Position != node.Inside {
		t.Errorf("center = %s/%s, want img/inside", got.TargetID, got.Position)
	}
	got = r.Resolve(Input{Cursor: geom.Point{X: 95, Y: 60}, Rects: rects})
	if got.TargetID != "img" || got.Position != node.After {
		t.Errorf("edge = %s/%s, want img/after", got.TargetID, got.Position)
	}
}

func TestResolveEmptyFrame(t *testing.T) {
	s := store.New()
	mustAppend(t, s, node.Node{ID: "f", Type: node.TypeFrame}, "")
	got := NewResolver(s, nil).Resolve(Input{
		Cursor: geom.Point{X: 10, Y: 10},
		Rects:  map[string]Measure{"f": {Rect: geom.Rect{W: 100, H: 100}}},
	})
	if got.TargetID != "f" || got.Position != node.Inside || got.Container != "f" {
		t.Errorf("Resolve = %+v, want f/inside", got)
	}
}

func TestResolveAbsoluteFrameInsideFrame(t *testing.T) {
	s := store.New()
	mustAppend(t, s, node.Node{ID: "p", Type: node.TypeFrame}, "")
	mustAppend(t, s, node.Node{ID: "x", Type: node.TypeText}, "p")
	mustAppend(t, s, node.Node{ID: "abs", Type: node.TypeFrame, Style: node.Style{node.KeyPosition: node.PositionAbsolute}}, "p")
	mustAppend(t, s, node.Node{ID: "drag", Type: node.TypeText}, "p")
	rects := map[string]Measure{
		"p":    {Rect: geom.Rect{W: 400, H: 400}, Direction: Column},
		"x":    {Rect: geom.Rect{W: 400, H: 100}},
		"abs":  {Rect: geom.Rect{X: 100, Y: 200, W: 200, H: 150}, Absolute: true},
		"drag": {Rect: geom.Rect{Y: 100, W: 400, H: 50}},
	}
	r := NewResolver(s, nil)

	got := r.Resolve(Input{Cursor: geom.Point{X: 200, Y: 275}, Rects: rects, Dragged: []string{"drag"}})
	if got.TargetID != "abs" || got.Position != node.Inside || got.Container != "abs" {
		t.Errorf("inside absolute frame = %+v, want abs/inside", got)
	}

	// outside the absolute frame the flow children still order
	got = r.Resolve(Input{Cursor: geom.Point{X: 20, Y: 80}, Rects: rects, Dragged: []string{"drag"}})
	if got.TargetID != "x" || got.Position != node.After || got.Container != "p" {
		t.Errorf("flow area = %+v, want x/after in p", got)
	}
}

func TestResolveNestedEmptyFrame(t *testing.T) {
	s := store.New()
	mustAppend(t, s, node.Node{ID: "p", Type: node.TypeFrame}, "")
	mustAppend(t, s, node.Node{ID: "x", Type: node.TypeText}, "p")
	mustAppend(t, s, node.Node{ID: "f", Type: node.TypeFrame}, "p")
	mustAppend(t, s, node.Node{ID: "q", Type: node.TypeFrame}, "")
	mustAppend(t, s, node.Node{ID: "y", Type: node.TypeText}, "q")
	rects := map[string]Measure{
		"p": {Rect: geom.Rect{W: 400, H: 500}, Direction: Column},
		"x": {Rect: geom.Rect{W: 400, H: 100}},
		"f": {Rect: geom.Rect{Y: 100, W: 400, H: 400}},
		"q": {Rect: geom.Rect{X: 500, W: 100, H: 100}, Direction: Column},
		"y": {Rect: geom.Rect{X: 500, W: 100, H: 50}},
	}
	r := NewResolver(s, nil)
	center := geom.Point{X: 200, Y: 300}

	tests := []struct {
		name    string
		dragged []string
		target  string
		pos     node.Position
	}{
		{"from another container", []string{"y"}, "f", node.Inside},
		{"from the canvas", []string{"q"}, "f", node.Inside},
		{"reordering its own container", []string{"x"}, "f", node.After},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(Input{Cursor: center, Rects: rects, Dragged: tt.dragged})
			if got.TargetID != tt.target || got.Position != tt.pos {
				t.Errorf("Resolve = %s/%s, want %s/%s", got.TargetID, got.Position, tt.target, tt.pos)
			}
		})
	}
}

func TestResolveRootSibling(t *testing.T) {
	s := store.New()
	mustAppend(t, s, node.Node{ID: "t", Type: node.TypeText}, "")
	rects := map[string]Measure{"t": {Rect: geom.Rect{W: 100, H: 100}}}
	r := NewResolver(s, nil)

	if got := r.Resolve(Input{Cursor: geom.Point{X: 10, Y: 10}, Rects: rects}); got.Position != node.Before {
		t.Errorf("top half = %s, want before", got.Position)
	}
	got := r.Resolve(Input{Cursor: geom.Point{X: 10, Y: 80}, Rects: rects})
	if got.Position != node.After || got.Line == nil || got.Line.From.Y != 100 {
		t.Errorf("bottom half = %+v, want after with line at 100", got)
	}
}

func TestResolveNoTarget(t *testing.T) {
	s, rects := rowABC(t)
	r := NewResolver(s, nil)

	if got := r.Resolve(Input{Cursor: geom.Point{X: 500, Y: 500}, Rects: rects}); !got.Canvas {
		t.Errorf("outside = %+v, want canvas", got)
	}
	if got := r.Resolve(Input{Cursor: geom.Point{X: 50, Y: 50}}); !got.Canvas {
		t.Errorf("no rects = %+v, want canvas", got)
	}
	if got := r.Resolve(Input{Cursor: geom.Point{X: 50, Y: 50}, Rects: rects, Dragged: []string{"p"}}); !got.Canvas {
		t.Errorf("dragging container = %+v, want canvas", got)
	}
}

func TestResolveIgnoresAbsoluteAndPlaceholders(t *testing.T) {
	s := store.New()
	mustAppend(t, s, node.Node{ID: "p", Type: node.TypeFrame}, "")
	mustAppend(t, s, node.Node{ID: "abs", Type: node.TypeText, Style: node.Style{node.KeyPosition: node.PositionAbsolute}}, "p")
	mustAppend(t, s, node.Node{ID: "ph", Type: node.TypePlaceholder}, "p")
	rects := map[string]Measure{
		"p":   {Rect: geom.Rect{W: 100, H: 300}},
		"abs": {Rect: geom.Rect{W: 100, H: 100}},
		"ph":  {Rect: geom.Rect{Y: 100, W: 100, H: 100}},
	}
	r := NewResolver(s, nil)

	// only absolute and placeholder children: the frame counts as empty
	got := r.Resolve(Input{Cursor: geom.Point{X: 50, Y: 50}, Rects: rects, Placeholders: []string{"ph"}})
	if got.TargetID != "p" || got.Position != node.Inside {
		t.Errorf("Resolve = %s/%s, want p/inside", got.TargetID, got.Position)
	}
}

func TestResolveDynamic(t *testing.T) {
	s := store.New()
	mustAppend(t, s, node.Node{ID: "d", Type: node.TypeFrame, IsDynamic: true, IsTopLevelDynamicNode: true, DynamicFamilyID: "fam"}, "")
	mustAppend(t, s, node.Node{ID: "x", Type: node.TypeText, IsDynamic: true, DynamicFamilyID: "fam"}, "d")
	rects := map[string]Measure{
		"d": {Rect: geom.Rect{W: 100, H: 100}, Direction: Column},
		"x": {Rect: geom.Rect{X: 10, Y: 10, W: 80, H: 40}},
	}
	r := NewResolver(s, nil)

	got := r.Resolve(Input{Cursor: geom.Point{X: 20, Y: 20}, Rects: rects})
	if got.TargetID != "d" || got.Position != node.Before {
		t.Errorf("locked = %s/%s, want d/before", got.TargetID, got.Position)
	}

	got = r.Resolve(Input{Cursor: geom.Point{X: 20, Y: 20}, Rects: rects, DynamicEditFamily: "fam"})
	if got.TargetID != "x" || got.Position != node.Before || got.Container != "d" {
		t.Errorf("edit mode = %+v, want x/before in d", got)
	}
}
