package drag

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/framewright/framewright/pkg/drop"
	"github.com/framewright/framewright/pkg/geom"
	"github.com/framewright/framewright/pkg/node"
	"github.com/framewright/framewright/pkg/observability"
	"github.com/framewright/framewright/pkg/snap"
	"github.com/framewright/framewright/pkg/store"
)

// State is the controller's position in the drag state machine.
type State int

const (
	StateIdle State = iota
	StatePending
	StateDragging
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDragging:
		return "dragging"
	}
	return "idle"
}

// Mode classifies what a drop would do at the current pointer position.
type Mode string

const (
	ModeNone            Mode = ""
	ModeReorder         Mode = "reorder"
	ModeFreeCanvas      Mode = "free-canvas"
	ModeAbsoluteInFrame Mode = "absolute-in-frame"
)

var (
	// ErrNotDragging is returned by Up when no press is active.
	ErrNotDragging = errors.New("no drag in progress")
	// ErrInvalidDrop is returned when the drop target is a dragged node or
	// one of its descendants.
	ErrInvalidDrop = errors.New("cannot drop a node into itself")
	// ErrNothingToDrag is returned by Down when no id can be dragged.
	ErrNothingToDrag = errors.New("nothing to drag")
)

// Layout is the geometry captured by the host before a tick. Rects are in
// canvas space; for rotated nodes they are the rotated bounding boxes.
// View is the canvas area on screen and drives auto-scroll.
type Layout struct {
	Rects     map[string]drop.Measure
	Transform geom.Transform
	View      geom.Rect
}

// Offset is what the controller remembers about one dragged node.
type Offset struct {
	Grab     geom.Point // cursor minus layout-box origin at drag start
	Relative geom.Point // layout-box origin minus the primary's
	Size     geom.Point // unrotated width and height
	Rotation float64
	Width    node.Length
	Height   node.Length
	Parent   string
	Index    int
}

// Feedback is the observable state after a tick.
type Feedback struct {
	State  State
	Mode   Mode
	Target drop.Result
	Guides []snap.Guide
	Ghosts map[string]geom.Rect // unrotated layout boxes, canvas space
	Scroll geom.Point           // auto-scroll velocity, px per frame
}

// Commit describes a finished press.
type Commit struct {
	IDs     []string
	Mode    Mode
	Target  drop.Result
	Clicked bool // released before the drag threshold
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default is the store's logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithScheduler replaces the auto-scroll frame scheduler.
func WithScheduler(s FrameScheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.sched = s
		}
	}
}

// WithScrollHandler sets the function that scrolls the canvas. It runs on
// the scheduler's goroutine and must not touch the store.
func WithScrollHandler(fn func(v geom.Point)) Option {
	return func(c *Controller) { c.onScroll = fn }
}

// Controller runs one drag at a time against a store. It is not safe for
// concurrent use, apart from the auto-scroll loop it starts itself.
type Controller struct {
	store    *store.Store
	resolver *drop.Resolver
	engine   snap.Engine
	cfg      Config
	logger   *log.Logger
	scroller *AutoScroller
	sched    FrameScheduler
	onScroll func(geom.Point)

	dynamicFamily string

	state   State
	mode    Mode
	primary string
	order   []string // dragged ids in tree order
	downAt  geom.Point
	started time.Time
	offsets map[string]Offset

	origParent string
	absParent  string // frame of an absolutely positioned primary

	cursor        geom.Point
	ghosts        map[string]geom.Rect
	target        drop.Result
	resolved      bool
	lastResolve   time.Time
	lastFlow      *drop.Result
	hasLeftParent bool
	placeholders  []string
	snapped       snap.Result

	mu       sync.Mutex
	velocity geom.Point
}

// NewController creates a controller.
func NewController(s *store.Store, r *drop.Resolver, e snap.Engine, cfg Config, opts ...Option) *Controller {
	cfg.SetDefaults()
	c := &Controller{
		store:    s,
		resolver: r,
		engine:   e,
		cfg:      cfg,
		logger:   s.Logger(),
		scroller: NewAutoScroller(cfg.AutoScroll),
		sched:    NewTickerScheduler(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Mode returns the current drop mode.
func (c *Controller) Mode() Mode { return c.mode }

// IDs returns the dragged ids in tree order.
func (c *Controller) IDs() []string { return slices.Clone(c.order) }

// Active reports whether a press or drag is in progress.
func (c *Controller) Active() bool { return c.state != StateIdle }

// SetDynamicEditFamily unlocks the children of one dynamic family as drop
// targets. An empty family locks them all.
func (c *Controller) SetDynamicEditFamily(family string) { c.dynamicFamily = family }

// Velocity returns the current auto-scroll velocity.
func (c *Controller) Velocity() geom.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.velocity
}

// ============================================================================
// Pointer events
// ============================================================================

// Down arms a drag of ids at screen point p. The first id is the primary:
// the ghost of every other node keeps its offset from the primary. Ids
// that are missing, locked, viewports or carried along by another selected
// ancestor are skipped. A press already in progress is cancelled.
func (c *Controller) Down(ids []string, p geom.Point, l Layout) error {
	if c.state != StateIdle {
		c.abort("restart")
	}
	var sel []string
	for _, id := range ids {
		n, ok := c.store.Node(id)
		if !ok || n.IsViewport || n.IsPlaceholder() || n.IsLocked || slices.Contains(sel, id) {
			continue
		}
		sel = append(sel, id)
	}
	var kept []string
	for _, id := range sel {
		if !slices.ContainsFunc(sel, func(o string) bool { return c.store.IsAncestor(o, id) }) {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		return ErrNothingToDrag
	}

	c.primary = kept[0]
	c.order = c.treeOrder(kept)
	c.downAt = p
	c.state = StatePending
	return nil
}

// Move processes a pointer move at screen point p.
func (c *Controller) Move(p geom.Point, l Layout) Feedback {
	switch c.state {
	case StateIdle:
		return Feedback{}
	case StatePending:
		if p.Dist(c.downAt) < c.cfg.Threshold {
			return Feedback{State: StatePending}
		}
		c.begin(l)
	}
	c.tick(p, l, false)
	return c.feedback()
}

// Up releases the pointer at p and commits the drop as one store batch.
// A press that never passed the threshold is reported as a click. All
// placeholders are gone when Up returns, whatever the outcome.
func (c *Controller) Up(p geom.Point, l Layout) (Commit, error) {
	switch c.state {
	case StateIdle:
		return Commit{}, ErrNotDragging
	case StatePending:
		ids := c.order
		c.reset()
		return Commit{IDs: ids, Clicked: true}, nil
	}

	c.tick(p, l, true)
	res := Commit{IDs: slices.Clone(c.order), Mode: c.mode, Target: c.target}
	err := c.commit(l)
	if err != nil {
		c.logger.Warn("drop rejected", "nodes", c.order, "mode", c.mode, "err", err)
	} else {
		c.logger.Debug("drop committed", "nodes", c.order, "mode", c.mode, "target", c.target.TargetID, "position", c.target.Position)
	}
	c.stopScroll()
	c.removePlaceholders()
	observability.Drag().OnDragEnd(res.IDs, string(res.Mode), c.cfg.Clock().Sub(c.started), err)
	c.reset()
	return res, err
}

// Cancel aborts the press or drag without committing.
func (c *Controller) Cancel() { c.abort("cancel") }

// Close aborts any drag and stops the auto-scroll scheduler. Call it when
// the canvas goes away.
func (c *Controller) Close() {
	c.abort("close")
	c.sched.Stop()
}

func (c *Controller) abort(reason string) {
	if c.state == StateIdle {
		return
	}
	dragging := c.state == StateDragging
	c.stopScroll()
	c.removePlaceholders()
	if dragging {
		c.logger.Debug("drag aborted", "nodes", c.order, "reason", reason)
		observability.Drag().OnDragCancel(c.order, reason)
	}
	c.reset()
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.mode = ModeNone
	c.primary = ""
	c.order = nil
	c.offsets = nil
	c.origParent = ""
	c.absParent = ""
	c.ghosts = nil
	c.target = drop.Result{}
	c.resolved = false
	c.lastResolve = time.Time{}
	c.lastFlow = nil
	c.hasLeftParent = false
	c.placeholders = nil
	c.snapped = snap.Result{}
}

// ============================================================================
// Ticks
// ============================================================================

// begin captures the drag geometry and places the placeholder chain at the
// original slot.
func (c *Controller) begin(l Layout) {
	c.started = c.cfg.Clock()
	grab := l.Transform.ToCanvas(c.downAt)
	c.cursor = grab

	boxes := make(map[string]geom.Rect, len(c.order))
	for _, id := range c.order {
		n, _ := c.store.Node(id)
		boxes[id] = layoutBox(n, l, grab)
	}
	origin := boxes[c.primary].Origin()
	c.offsets = make(map[string]Offset, len(c.order))
	for _, id := range c.order {
		n, _ := c.store.Node(id)
		box := boxes[id]
		c.offsets[id] = Offset{
			Grab:     grab.Sub(box.Origin()),
			Relative: box.Origin().Sub(origin),
			Size:     geom.Point{X: box.W, Y: box.H},
			Rotation: n.Rotation(),
			Width:    n.Style.Length(node.KeyWidth),
			Height:   n.Style.Length(node.KeyHeight),
			Parent:   n.ParentID,
			Index:    c.store.IndexOf(id),
		}
	}

	pn, _ := c.store.Node(c.primary)
	c.origParent = pn.ParentID
	if pn.IsAbsolute() && pn.ParentID != "" {
		if parent, ok := c.store.Node(pn.ParentID); ok && parent.Type == node.TypeFrame {
			c.absParent = parent.ID
		}
	}

	c.state = StateDragging
	switch {
	case c.absParent != "":
		c.mode = ModeAbsoluteInFrame
	case pn.ParentID == "":
		c.mode = ModeFreeCanvas
	default:
		c.mode = ModeReorder
		c.placePlaceholders(drop.Result{TargetID: c.primary, Position: node.Before, Container: pn.ParentID})
	}
	c.logger.Debug("drag started", "nodes", c.order, "mode", c.mode)
	observability.Drag().OnDragStart(c.order, string(c.mode))
}

// layoutBox returns the unrotated layout box of n. Without a captured rect
// the node is treated as a point at the grab position.
func layoutBox(n *node.Node, l Layout, grab geom.Point) geom.Rect {
	m, ok := l.Rects[n.ID]
	if !ok {
		return geom.Rect{X: grab.X, Y: grab.Y}
	}
	bounds := m.Rect.Sanitize()
	if n.Rotation() == 0 {
		return bounds
	}
	w, h := n.Style.Px(node.KeyWidth), n.Style.Px(node.KeyHeight)
	if w <= 0 || h <= 0 {
		return bounds
	}
	return geom.UnrotatedRect(bounds, w, h)
}

func (c *Controller) tick(p geom.Point, l Layout, force bool) {
	cursor := l.Transform.ToCanvas(p)
	cursor = geom.Point{X: geom.Num(cursor.X), Y: geom.Num(cursor.Y)}
	movement := cursor.Sub(c.cursor)
	c.cursor = cursor
	c.ghosts = c.ghostRects()

	c.setVelocity(c.scroller.Velocity(p, l.View))

	now := c.cfg.Clock()
	if force || !c.resolved || now.Sub(c.lastResolve) >= c.cfg.FrameInterval {
		c.lastResolve = now
		c.resolve(l, movement)
	}
	c.snapGhosts(l)
}

func (c *Controller) ghostRects() map[string]geom.Rect {
	base := c.cursor.Sub(c.offsets[c.primary].Grab)
	out := make(map[string]geom.Rect, len(c.order))
	for _, id := range c.order {
		off := c.offsets[id]
		o := base.Add(off.Relative)
		out[id] = geom.Rect{X: o.X, Y: o.Y, W: off.Size.X, H: off.Size.Y}
	}
	return out
}

func (c *Controller) resolve(l Layout, movement geom.Point) {
	var prev *drop.Result
	if c.resolved {
		t := c.target
		prev = &t
	}
	res := c.resolver.Resolve(drop.Input{
		Cursor:            c.cursor,
		Rects:             l.Rects,
		Dragged:           c.order,
		Placeholders:      c.placeholders,
		DynamicEditFamily: c.dynamicFamily,
		Movement:          movement,
		Previous:          prev,
	})
	c.resolved = true

	if c.absParent != "" {
		if m, ok := l.Rects[c.absParent]; ok && m.Rect.Sanitize().Contains(c.cursor) {
			c.mode = ModeAbsoluteInFrame
			c.target = drop.Result{TargetID: c.absParent, Position: node.Inside, Container: c.absParent}
			c.removePlaceholders()
			return
		}
	}

	// next to a canvas root the node stays free on the canvas
	if res.Canvas || res.Container == "" && res.Position != node.Inside {
		c.mode = ModeFreeCanvas
		c.target = res
		c.removePlaceholders()
		if c.origParent != "" {
			c.hasLeftParent = true
		}
		return
	}

	// back in the original container: restore the last flow slot
	if c.hasLeftParent && c.lastFlow != nil && res.Container == c.origParent {
		res = *c.lastFlow
	}
	c.hasLeftParent = false
	c.mode = ModeReorder
	c.target = res
	if c.mediaInside(res) {
		c.removePlaceholders()
		return
	}
	if c.placePlaceholders(res) {
		flow := res
		c.lastFlow = &flow
	}
}

func (c *Controller) mediaInside(t drop.Result) bool {
	if t.Position != node.Inside {
		return false
	}
	n, ok := c.store.Node(t.TargetID)
	return ok && n.Type.IsMedia()
}

// snapGhosts snaps the primary ghost in the free modes and shifts the
// whole group by the same delta.
func (c *Controller) snapGhosts(l Layout) {
	c.snapped = snap.Result{}
	var cands []snap.Candidate
	switch c.mode {
	case ModeFreeCanvas:
		for _, id := range c.store.Roots() {
			if m, ok := l.Rects[id]; ok && !c.dragged(id) {
				cands = append(cands, snap.Candidate{ID: id, Rect: m.Rect})
			}
		}
	case ModeAbsoluteInFrame:
		rects := make(map[string]geom.Rect, len(l.Rects))
		for id, m := range l.Rects {
			rects[id] = m.Rect
		}
		for _, cand := range snap.Relevant(c.store, c.primary, rects) {
			if !c.dragged(cand.ID) {
				cands = append(cands, cand)
			}
		}
	default:
		return
	}

	bounds := geom.RotatedBounds(c.ghosts[c.primary], c.offsets[c.primary].Rotation)
	snapped, res := c.engine.Resolve(bounds, c.cfg.SnapThreshold, c.primary, cands)
	c.snapped = res
	dx, dy := snapped.X-bounds.X, snapped.Y-bounds.Y
	if dx == 0 && dy == 0 {
		return
	}
	for id, g := range c.ghosts {
		c.ghosts[id] = g.Translate(dx, dy)
	}
}

func (c *Controller) feedback() Feedback {
	return Feedback{
		State:  c.state,
		Mode:   c.mode,
		Target: c.target,
		Guides: c.snapped.Guides,
		Ghosts: maps.Clone(c.ghosts),
		Scroll: c.Velocity(),
	}
}

func (c *Controller) dragged(id string) bool { return slices.Contains(c.order, id) }

func (c *Controller) treeOrder(ids []string) []string {
	pos := make(map[string]int, c.store.Len())
	for i, id := range c.store.Descendants("") {
		pos[id] = i
	}
	out := slices.Clone(ids)
	slices.SortStableFunc(out, func(a, b string) int { return cmp.Compare(pos[a], pos[b]) })
	return out
}

// ============================================================================
// Placeholders
// ============================================================================

// placePlaceholders moves the chain to t, creating missing links. The first
// placeholder lands at t, each following one right after its predecessor.
func (c *Controller) placePlaceholders(t drop.Result) bool {
	if t.TargetID == "" || !c.store.Has(t.TargetID) {
		return false
	}
	var err error
	c.store.Transient("placeholder", func() {
		for i, id := range c.order {
			tgt := store.Target{ID: t.TargetID, Position: t.Position}
			if i > 0 {
				tgt = store.Target{ID: c.placeholders[i-1], Position: node.After}
			}
			if i < len(c.placeholders) {
				if err = c.store.MoveNode(c.placeholders[i], false, tgt); err != nil {
					return
				}
				continue
			}
			ph := c.newPlaceholder(id)
			parent, index := c.slot(tgt)
			if err = c.store.InsertAtIndex(ph, index, parent); err != nil {
				return
			}
			c.placeholders = append(c.placeholders, ph.ID)
		}
	})
	if err != nil {
		c.logger.Debug("placeholder placement failed", "target", t.TargetID, "position", t.Position, "err", err)
		c.removePlaceholders()
		return false
	}
	return true
}

func (c *Controller) newPlaceholder(id string) node.Node {
	off := c.offsets[id]
	return node.Node{
		ID:   c.store.NewID(),
		Type: node.TypePlaceholder,
		Style: node.Style{
			node.KeyWidth:  node.Px(off.Size.X),
			node.KeyHeight: node.Px(off.Size.Y),
		},
	}
}

// slot converts a relative target into a parent and insertion index.
func (c *Controller) slot(t store.Target) (string, int) {
	if t.Position == node.Inside {
		return t.ID, -1
	}
	n, _ := c.store.Node(t.ID)
	i := c.store.IndexOf(t.ID)
	if t.Position == node.After {
		i++
	}
	return n.ParentID, i
}

// removePlaceholders removes the chain and any stray placeholder left in
// the store.
func (c *Controller) removePlaceholders() {
	ids := slices.Concat(c.placeholders, c.store.Placeholders())
	c.placeholders = nil
	if len(ids) == 0 {
		return
	}
	c.store.Transient("placeholder", func() {
		for _, id := range ids {
			if !c.store.Has(id) {
				continue
			}
			if err := c.store.RemoveLocal(id); err != nil {
				c.logger.Warn("placeholder removal failed", "node", id, "err", err)
			}
		}
	})
}

// anchor finds the surviving sibling next to the first placeholder, so the
// real nodes can land where the chain was once the placeholders are gone.
func (c *Controller) anchor() (store.Target, bool) {
	if len(c.placeholders) == 0 {
		return store.Target{}, false
	}
	ph, ok := c.store.Node(c.placeholders[0])
	if !ok {
		return store.Target{}, false
	}
	sibs := c.store.Children(ph.ParentID)
	at := c.store.IndexOf(ph.ID)
	for i := at - 1; i >= 0; i-- {
		if c.survives(sibs[i]) {
			return store.Target{ID: sibs[i], Position: node.After}, true
		}
	}
	for i := at + 1; i < len(sibs); i++ {
		if c.survives(sibs[i]) {
			return store.Target{ID: sibs[i], Position: node.Before}, true
		}
	}
	if ph.ParentID != "" {
		return store.Target{ID: ph.ParentID, Position: node.Inside}, true
	}
	return store.Target{}, false
}

func (c *Controller) survives(id string) bool {
	if c.dragged(id) || slices.Contains(c.placeholders, id) {
		return false
	}
	n, ok := c.store.Node(id)
	return ok && !n.IsPlaceholder()
}

// ============================================================================
// Commit
// ============================================================================

func (c *Controller) commit(l Layout) error {
	if t := c.target.TargetID; t != "" && c.mode == ModeReorder {
		for _, id := range c.order {
			if t == id || c.store.IsAncestor(id, t) {
				return fmt.Errorf("%w: %s", ErrInvalidDrop, t)
			}
		}
	}
	switch c.mode {
	case ModeReorder:
		return c.commitFlow()
	case ModeFreeCanvas:
		return c.commitCanvas()
	case ModeAbsoluteInFrame:
		return c.commitAbsolute(l)
	}
	return nil
}

func (c *Controller) commitFlow() error {
	if c.mediaInside(c.target) {
		return c.store.Batch("move", func() error {
			if err := c.store.ChangeType(c.target.TargetID, node.TypeFrame); err != nil {
				return err
			}
			return c.placeChain(store.Target{ID: c.target.TargetID, Position: node.Inside})
		})
	}

	anchor, ok := c.anchor()
	if !ok {
		if c.target.TargetID == "" {
			return nil
		}
		anchor = store.Target{ID: c.target.TargetID, Position: c.target.Position}
	}
	c.removePlaceholders()
	return c.store.Batch("move", func() error { return c.placeChain(anchor) })
}

// placeChain moves the first dragged node to first and every following one
// right after its predecessor, dropping absolute positioning.
func (c *Controller) placeChain(first store.Target) error {
	for i, id := range c.order {
		t := first
		if i > 0 {
			t = store.Target{ID: c.order[i-1], Position: node.After}
		}
		if err := c.store.MoveNode(id, true, t); err != nil {
			return err
		}
		n, _ := c.store.Node(id)
		patch := node.Style{}
		for _, k := range []string{node.KeyPosition, node.KeyLeft, node.KeyTop} {
			if _, ok := n.Style[k]; ok {
				patch[k] = nil
			}
		}
		if len(patch) > 0 {
			if err := c.store.UpdateStyle(id, patch); err != nil {
				return err
			}
		}
		if err := c.keepUnits(id); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) commitCanvas() error {
	dx, dy := c.releaseDelta()
	return c.store.Batch("move", func() error {
		for i, id := range c.order {
			g := c.ghosts[id].Translate(dx, dy)
			if err := c.toCanvas(i, id); err != nil {
				return err
			}
			if err := c.place(id, g.X, g.Y); err != nil {
				return err
			}
		}
		return nil
	})
}

// toCanvas makes the i-th dragged node a canvas root. Next to a root
// target the chain lands at that slot in drag order, otherwise at the end.
func (c *Controller) toCanvas(i int, id string) error {
	if t := c.target; !t.Canvas && t.TargetID != "" && c.store.Has(t.TargetID) {
		tgt := store.Target{ID: t.TargetID, Position: t.Position}
		if i > 0 {
			tgt = store.Target{ID: c.order[i-1], Position: node.After}
		}
		return c.store.MoveNode(id, true, tgt)
	}
	if n, _ := c.store.Node(id); n.ParentID != "" {
		return c.store.MoveToIndex(id, "", -1)
	}
	return nil
}

func (c *Controller) commitAbsolute(l Layout) error {
	m, ok := l.Rects[c.absParent]
	if !ok {
		return fmt.Errorf("%w: no layout for %s", store.ErrNotFound, c.absParent)
	}
	pr := m.Rect.Sanitize()
	dx, dy := c.releaseDelta()
	return c.store.Batch("move", func() error {
		for _, id := range c.order {
			g := c.ghosts[id].Translate(dx, dy)
			if n, _ := c.store.Node(id); n.ParentID != c.absParent {
				if err := c.store.MoveToIndex(id, c.absParent, -1); err != nil {
					return err
				}
			}
			if err := c.place(id, g.X-pr.X, g.Y-pr.Y); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Controller) place(id string, left, top float64) error {
	err := c.store.UpdateStyle(id, node.Style{
		node.KeyPosition: node.PositionAbsolute,
		node.KeyLeft:     node.Px(left),
		node.KeyTop:      node.Px(top),
	})
	if err != nil {
		return err
	}
	return c.keepUnits(id)
}

// releaseDelta applies the snap release tolerance to the primary ghost.
func (c *Controller) releaseDelta() (float64, float64) {
	b := geom.RotatedBounds(c.ghosts[c.primary], c.offsets[c.primary].Rotation)
	r := snap.Release(b, c.snapped, c.cfg.SnapRelease)
	return r.X - b.X, r.Y - b.Y
}

// keepUnits writes relative width and height as pixels once the node has
// left the container they were relative to.
func (c *Controller) keepUnits(id string) error {
	n, _ := c.store.Node(id)
	off := c.offsets[id]
	if n.ParentID == off.Parent {
		return nil
	}
	patch := node.Style{}
	if off.Width.Relative() {
		patch[node.KeyWidth] = node.Px(off.Size.X)
	}
	if off.Height.Relative() {
		patch[node.KeyHeight] = node.Px(off.Size.Y)
	}
	if len(patch) == 0 {
		return nil
	}
	return c.store.UpdateStyle(id, patch)
}

// ============================================================================
// Auto-scroll
// ============================================================================

func (c *Controller) setVelocity(v geom.Point) {
	c.mu.Lock()
	c.velocity = v
	c.mu.Unlock()
	if v != (geom.Point{}) && !c.sched.Running() {
		c.sched.Start(c.scrollFrame)
	}
}

func (c *Controller) scrollFrame() bool {
	v := c.Velocity()
	if v == (geom.Point{}) {
		return false
	}
	if c.onScroll != nil {
		c.onScroll(v)
	}
	return true
}

func (c *Controller) stopScroll() {
	c.mu.Lock()
	c.velocity = geom.Point{}
	c.mu.Unlock()
	c.sched.Stop()
}
