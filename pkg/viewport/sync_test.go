package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framewright/framewright/pkg/node"
	"github.com/framewright/framewright/pkg/store"
)

// newDoc builds desktop (1440) and mobile (375) viewports. Desktop holds
// frame d-hero with texts d-a and d-b; mobile holds their counterparts.
func newDoc(t *testing.T) *store.Store {
	t.Helper()
	s := store.New()
	nodes := []node.Node{
		{ID: "desktop", Type: node.TypeViewport, ViewportWidth: 1440},
		{ID: "mobile", Type: node.TypeViewport, ViewportWidth: 375},
		{ID: "d-hero", ParentID: "desktop", SharedID: "hero", Type: node.TypeFrame},
		{ID: "d-a", ParentID: "d-hero", SharedID: "a", Type: node.TypeText, Style: node.Style{"left": "100px"}},
		{ID: "d-b", ParentID: "d-hero", SharedID: "b", Type: node.TypeText},
		{ID: "m-hero", ParentID: "mobile", SharedID: "hero", Type: node.TypeFrame},
		{ID: "m-a", ParentID: "m-hero", SharedID: "a", Type: node.TypeText,
			Style: node.Style{"left": "100px"}, IndependentStyles: map[string]bool{"left": true}},
		{ID: "m-b", ParentID: "m-hero", SharedID: "b", Type: node.TypeText},
	}
	require.NoError(t, s.Load(nodes))
	return s
}

func style(t *testing.T, s *store.Store, id, key string) any {
	t.Helper()
	n, ok := s.Node(id)
	require.True(t, ok, "node %s", id)
	return n.Style[key]
}

func TestIndependentPropertyUntouched(t *testing.T) {
	s := newDoc(t)
	sy := NewSyncer(s, nil)

	require.NoError(t, s.UpdateStyle("d-a", node.Style{"left": "200px", "width": "50%"}))
	for range 3 {
		_, err := sy.SyncViewports()
		require.NoError(t, err)
	}
	assert.Equal(t, "100px", style(t, s, "m-a", "left"))
	assert.Equal(t, "50%", style(t, s, "m-a", "width"))
}

func TestStyleDeletionPropagates(t *testing.T) {
	s := newDoc(t)
	require.NoError(t, s.UpdateStyle("d-b", node.Style{"color": "red"}))
	sy := NewSyncer(s, nil)
	_, err := sy.SyncViewports()
	require.NoError(t, err)
	assert.Equal(t, "red", style(t, s, "m-b", "color"))

	require.NoError(t, s.UpdateStyle("d-b", node.Style{"color": nil}))
	st, err := sy.SyncViewports()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Updated)
	assert.Nil(t, style(t, s, "m-b", "color"))
}

func TestSyncIdempotent(t *testing.T) {
	s := newDoc(t)
	require.NoError(t, s.Append(node.Node{ID: "d-c", Type: node.TypeImage, Style: node.Style{"width": "40px"}}, "d-hero"))
	require.NoError(t, s.MoveNode("d-b", false, store.Target{ID: "d-a", Position: node.Before}))
	sy := NewSyncer(s, nil)

	first, err := sy.SyncViewports()
	require.NoError(t, err)
	assert.True(t, first.Changed())
	once := s.Snapshot()

	second, err := sy.SyncViewports()
	require.NoError(t, err)
	assert.False(t, second.Changed(), "second pass changed %+v", second)
	assert.Equal(t, once, s.Snapshot())
}

func TestCreateMissingCounterpart(t *testing.T) {
	s := newDoc(t)
	require.NoError(t, s.InsertAtIndex(node.Node{ID: "d-new", Type: node.TypeText}, 1, "d-hero"))

	st, err := NewSyncer(s, nil).SyncViewports()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Created)

	dn, _ := s.Node("d-new")
	require.NotEmpty(t, dn.SharedID, "source node got a shared id")
	mid, ok := s.CounterpartIn(dn.SharedID, "mobile")
	require.True(t, ok)
	assert.NotEqual(t, "d-new", mid)
	assert.Equal(t, []string{"m-a", mid, "m-b"}, s.Children("m-hero"))
	assert.NoError(t, s.Validate())
}

func TestRemovedInSourceRemovedInTarget(t *testing.T) {
	s := newDoc(t)
	require.NoError(t, s.RemoveLocal("d-b"))

	st, err := NewSyncer(s, nil).SyncViewports()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Removed)
	assert.False(t, s.Has("m-b"))
	assert.True(t, s.Has("m-a"))
}

func TestReorderAndReparent(t *testing.T) {
	s := newDoc(t)
	require.NoError(t, s.Append(node.Node{ID: "d-box", SharedID: "box", Type: node.TypeFrame}, "desktop"))
	require.NoError(t, s.MoveNode("d-a", false, store.Target{ID: "d-box", Position: node.Inside}))
	require.NoError(t, s.MoveNode("d-box", false, store.Target{ID: "d-hero", Position: node.Before}))

	_, err := NewSyncer(s, nil).SyncViewports()
	require.NoError(t, err)

	mbox, ok := s.CounterpartIn("box", "mobile")
	require.True(t, ok)
	assert.Equal(t, []string{mbox, "m-hero"}, s.Children("mobile"))
	assert.Equal(t, []string{"m-a"}, s.Children(mbox))
	assert.Equal(t, []string{"m-b"}, s.Children("m-hero"))
	assert.NoError(t, s.Validate())
}

func TestSyncFromNonPrimary(t *testing.T) {
	s := newDoc(t)
	require.NoError(t, s.Append(node.Node{ID: "m-x", Type: node.TypeText}, "m-hero"))
	require.NoError(t, s.UpdateStyle("m-b", node.Style{"height": "9px"}))

	_, err := NewSyncer(s, nil).SyncFromViewport("mobile")
	require.NoError(t, err)

	mx, _ := s.Node("m-x")
	dx, ok := s.CounterpartIn(mx.SharedID, "desktop")
	require.True(t, ok)
	assert.Equal(t, []string{"d-a", "d-b", dx}, s.Children("d-hero"))
	assert.Equal(t, "9px", style(t, s, "d-b", "height"))
	// m-a's left is independent on the source and is not pushed
	assert.Equal(t, "100px", style(t, s, "d-a", "left"))
}

func TestSyncOneEvent(t *testing.T) {
	s := newDoc(t)
	require.NoError(t, s.Append(node.Node{ID: "d-c", Type: node.TypeText}, "d-hero"))
	require.NoError(t, s.RemoveLocal("d-a"))

	var events []store.Event
	s.Subscribe(func(ev store.Event) { events = append(events, ev) })
	_, err := NewSyncer(s, nil).SyncViewports()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "sync", events[0].Label)
}

func TestSyncErrors(t *testing.T) {
	s := newDoc(t)
	_, err := NewSyncer(s, nil).SyncFromViewport("d-hero")
	assert.ErrorIs(t, err, ErrNotViewport)

	empty := store.New()
	st, err := NewSyncer(empty, nil).SyncViewports()
	assert.NoError(t, err)
	assert.False(t, st.Changed())
}

func TestThreeViewports(t *testing.T) {
	s := newDoc(t)
	require.NoError(t, s.Append(node.Node{ID: "tablet", Type: node.TypeViewport, ViewportWidth: 768}, ""))

	st, err := NewSyncer(s, nil).SyncViewports()
	require.NoError(t, err)
	assert.Equal(t, 3, st.Created)
	assert.Equal(t, []string{"desktop", "tablet", "mobile"}, s.Viewports())

	th, ok := s.CounterpartIn("hero", "tablet")
	require.True(t, ok)
	assert.Len(t, s.Children(th), 2)
}
