package editor

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framewright/framewright/pkg/config"
	"github.com/framewright/framewright/pkg/docstore"
	"github.com/framewright/framewright/pkg/drag"
	"github.com/framewright/framewright/pkg/drop"
	"github.com/framewright/framewright/pkg/geom"
	"github.com/framewright/framewright/pkg/node"
	"github.com/framewright/framewright/pkg/store"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen%d", n)
	}
}

// newEditor loads desktop (1440) and mobile (375) viewports, each with a
// row frame holding a, b and c.
func newEditor(t *testing.T, opts ...Option) *Editor {
	t.Helper()
	opts = append([]Option{
		WithIDGenerator(seqIDs()),
		WithDragOptions(drag.WithScheduler(&drag.ManualScheduler{})),
	}, opts...)
	e := New(config.Default(), opts...)
	t.Cleanup(e.Close)

	row := node.Style{node.KeyFlexDirection: "row"}
	nodes := []node.Node{
		{ID: "desktop", Type: node.TypeViewport, IsViewport: true, ViewportWidth: 1440},
		{ID: "mobile", Type: node.TypeViewport, IsViewport: true, ViewportWidth: 375},
		{ID: "d-p", ParentID: "desktop", SharedID: "p", Type: node.TypeFrame, Style: row},
		{ID: "d-a", ParentID: "d-p", SharedID: "a", Type: node.TypeFrame},
		{ID: "d-b", ParentID: "d-p", SharedID: "b", Type: node.TypeFrame},
		{ID: "d-c", ParentID: "d-p", SharedID: "c", Type: node.TypeFrame},
		{ID: "m-p", ParentID: "mobile", SharedID: "p", Type: node.TypeFrame, Style: row},
		{ID: "m-a", ParentID: "m-p", SharedID: "a", Type: node.TypeFrame},
		{ID: "m-b", ParentID: "m-p", SharedID: "b", Type: node.TypeFrame},
		{ID: "m-c", ParentID: "m-p", SharedID: "c", Type: node.TypeFrame},
	}
	require.NoError(t, e.LoadNodes(nodes))
	return e
}

func desktopLayout() drag.Layout {
	return drag.Layout{
		Transform: geom.Identity,
		Rects: map[string]drop.Measure{
			"desktop": {Rect: geom.Rect{W: 1440, H: 800}},
			"d-p":     {Rect: geom.Rect{W: 300, H: 100}, Direction: drop.Row},
			"d-a":     {Rect: geom.Rect{W: 100, H: 100}},
			"d-b":     {Rect: geom.Rect{X: 100, W: 100, H: 100}},
			"d-c":     {Rect: geom.Rect{X: 200, W: 100, H: 100}},
		},
	}
}

func TestAddPropagates(t *testing.T) {
	e := newEditor(t)
	s := e.Store()

	id, err := e.Add(node.Node{Type: node.TypeText}, "d-p", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"d-a", id, "d-b", "d-c"}, s.Children("d-p"))

	n, _ := s.Node(id)
	require.NotEmpty(t, n.SharedID)
	mid, ok := s.CounterpartIn(n.SharedID, "mobile")
	require.True(t, ok)
	assert.Equal(t, []string{"m-a", mid, "m-b", "m-c"}, s.Children("m-p"))
	assert.Equal(t, []string{"add"}, e.History().Labels())

	require.True(t, e.Undo())
	assert.False(t, s.Has(id))
	assert.False(t, s.Has(mid))
	assert.NoError(t, s.Validate())
}

func TestAddRejected(t *testing.T) {
	e := newEditor(t)
	_, err := e.Add(node.Node{ID: "d-a", Type: node.TypeText}, "d-p", -1)
	assert.ErrorIs(t, err, store.ErrDuplicateID)
	assert.Empty(t, e.History().Labels())
}

func TestUpdateStylePrimaryPropagates(t *testing.T) {
	e := newEditor(t)
	s := e.Store()

	require.NoError(t, e.UpdateStyle("d-b", node.Style{"color": "red"}))
	mb, _ := s.Node("m-b")
	assert.Equal(t, "red", mb.Style["color"])
	assert.Equal(t, []string{"style"}, e.History().Labels())

	require.True(t, e.Undo())
	db, _ := s.Node("d-b")
	mb, _ = s.Node("m-b")
	assert.Nil(t, db.Style["color"])
	assert.Nil(t, mb.Style["color"])
}

func TestUpdateStyleOverride(t *testing.T) {
	e := newEditor(t)
	s := e.Store()

	require.NoError(t, e.UpdateStyle("m-b", node.Style{"color": "blue"}))
	mb, _ := s.Node("m-b")
	db, _ := s.Node("d-b")
	assert.Equal(t, "blue", mb.Style["color"])
	assert.True(t, mb.Independent("color"))
	assert.Nil(t, db.Style["color"])

	require.NoError(t, e.UpdateStyle("d-b", node.Style{"color": "red", "width": "50%"}))
	mb, _ = s.Node("m-b")
	assert.Equal(t, "blue", mb.Style["color"])
	assert.Equal(t, "50%", mb.Style["width"])

	assert.ErrorIs(t, e.UpdateStyle("missing", node.Style{"color": "red"}), store.ErrNotFound)
}

func TestMovePropagates(t *testing.T) {
	e := newEditor(t)
	s := e.Store()

	require.NoError(t, e.Move("d-c", store.Target{ID: "d-a", Position: node.Before}))
	assert.Equal(t, []string{"d-c", "d-a", "d-b"}, s.Children("d-p"))
	assert.Equal(t, []string{"m-c", "m-a", "m-b"}, s.Children("m-p"))
	assert.Equal(t, []string{"move"}, e.History().Labels())

	assert.ErrorIs(t, e.Move("d-p", store.Target{ID: "d-a", Position: node.Inside}), store.ErrCycle)
	assert.Equal(t, []string{"move"}, e.History().Labels())
}

func TestDuplicateAndDelete(t *testing.T) {
	e := newEditor(t)
	s := e.Store()

	cp, err := e.Duplicate("d-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"d-a", cp, "d-b", "d-c"}, s.Children("d-p"))
	assert.Len(t, s.Children("m-p"), 4)

	require.NoError(t, e.Delete(cp))
	assert.Equal(t, []string{"d-a", "d-b", "d-c"}, s.Children("d-p"))
	assert.Equal(t, []string{"m-a", "m-b", "m-c"}, s.Children("m-p"))
	assert.NoError(t, s.Validate())
}

func TestDragCommitIsOneEntry(t *testing.T) {
	e := newEditor(t)
	s := e.Store()
	l := desktopLayout()

	require.NoError(t, e.BeginDrag([]string{"d-a"}, geom.Point{X: 50, Y: 50}, l))
	fb := e.DragMove(geom.Point{X: 160, Y: 50}, l)
	require.Equal(t, drag.StateDragging, fb.State)
	assert.Equal(t, "d-b", fb.Target.TargetID)

	res, err := e.EndDrag(geom.Point{X: 160, Y: 50}, l)
	require.NoError(t, err)
	assert.Equal(t, drag.ModeReorder, res.Mode)
	assert.Equal(t, []string{"d-b", "d-a", "d-c"}, s.Children("d-p"))
	assert.Equal(t, []string{"m-b", "m-a", "m-c"}, s.Children("m-p"))
	assert.Empty(t, s.Placeholders())
	assert.Equal(t, []string{"move"}, e.History().Labels())

	require.True(t, e.Undo())
	assert.Equal(t, []string{"d-a", "d-b", "d-c"}, s.Children("d-p"))
	assert.Equal(t, []string{"m-a", "m-b", "m-c"}, s.Children("m-p"))
}

func TestUndoCancelsDrag(t *testing.T) {
	e := newEditor(t)
	s := e.Store()
	l := desktopLayout()

	require.NoError(t, e.UpdateStyle("d-a", node.Style{"color": "red"}))
	require.NoError(t, e.BeginDrag([]string{"d-a"}, geom.Point{X: 50, Y: 50}, l))
	e.DragMove(geom.Point{X: 160, Y: 50}, l)
	require.Len(t, s.Placeholders(), 1)

	require.True(t, e.Undo())
	assert.False(t, e.Dragging())
	assert.Empty(t, s.Placeholders())
	da, _ := s.Node("d-a")
	assert.Nil(t, da.Style["color"])
	assert.Equal(t, []string{"d-a", "d-b", "d-c"}, s.Children("d-p"))
}

func TestDragClick(t *testing.T) {
	e := newEditor(t)
	l := desktopLayout()

	require.NoError(t, e.BeginDrag([]string{"d-b"}, geom.Point{X: 150, Y: 50}, l))
	res, err := e.EndDrag(geom.Point{X: 151, Y: 50}, l)
	require.NoError(t, err)
	assert.True(t, res.Clicked)
	assert.Empty(t, e.History().Labels())
}

func TestRecordingSession(t *testing.T) {
	e := newEditor(t)

	id := e.StartRecording()
	require.NoError(t, e.UpdateStyle("d-a", node.Style{"color": "red"}))
	require.NoError(t, e.Move("d-c", store.Target{ID: "d-a", Position: node.Before}))
	require.NoError(t, e.StopRecording(id))
	assert.Len(t, e.History().Labels(), 1)

	require.True(t, e.Undo())
	assert.Equal(t, []string{"d-a", "d-b", "d-c"}, e.Store().Children("d-p"))
	require.True(t, e.Redo())
	assert.Equal(t, []string{"d-c", "d-a", "d-b"}, e.Store().Children("d-p"))
}

func TestDynamicEdit(t *testing.T) {
	e := New(config.Default())
	t.Cleanup(e.Close)
	require.NoError(t, e.LoadNodes([]node.Node{
		{ID: "card", Type: node.TypeFrame, IsDynamic: true, IsTopLevelDynamicNode: true, DynamicFamilyID: "fam"},
		{ID: "title", ParentID: "card", Type: node.TypeText, IsDynamic: true, DynamicFamilyID: "fam"},
		{ID: "plain", Type: node.TypeFrame},
	}))

	assert.Equal(t, "card", e.ResolveTarget("title"))
	assert.Equal(t, "plain", e.ResolveTarget("plain"))
	assert.Equal(t, "missing", e.ResolveTarget("missing"))

	require.NoError(t, e.EnterDynamicEdit("fam"))
	assert.Equal(t, "fam", e.DynamicFamily())
	assert.Equal(t, "title", e.ResolveTarget("title"))

	assert.ErrorIs(t, e.EnterDynamicEdit("nope"), ErrUnknownFamily)
	assert.Equal(t, "fam", e.DynamicFamily())

	e.ExitDynamicEdit()
	assert.Equal(t, "card", e.ResolveTarget("title"))
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	docs := docstore.NewMemoryStore()
	e := newEditor(t, WithStore(docs))

	assert.ErrorIs(t, e.Save(ctx), ErrNoDocument)
	require.NoError(t, e.Save(ctx, "home"))
	assert.Equal(t, "home", e.DocumentID())

	other := New(config.Default(), WithStore(docs))
	t.Cleanup(other.Close)
	require.NoError(t, other.Load(ctx, "home"))
	assert.Equal(t, e.Nodes(), other.Nodes())
	assert.Empty(t, other.History().Labels())

	require.NoError(t, other.UpdateStyle("d-a", node.Style{"color": "red"}))
	require.NoError(t, other.Save(ctx))
	require.NoError(t, e.Load(ctx, "home"))
	da, _ := e.Store().Node("d-a")
	assert.Equal(t, "red", da.Style["color"])

	assert.ErrorIs(t, e.Load(ctx, "missing"), docstore.ErrNotFound)
}
