package drop

import (
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/framewright/framewright/pkg/geom"
	"github.com/framewright/framewright/pkg/node"
)

// MediaRadius is the fraction of min(width, height) around a media node's
// center that accepts an "inside" drop.
const MediaRadius = 0.4

// HysteresisBand is the fraction of a child's size around its midline in
// which the movement direction, not the midline, decides before/after.
const HysteresisBand = 0.15

// Direction is a container's computed layout axis.
type Direction string

const (
	Row    Direction = "row"
	Column Direction = "column"
)

// Measure is the captured layout of one node.
type Measure struct {
	Rect      geom.Rect
	Direction Direction // layout axis of the node's children; empty uses the style
	Absolute  bool      // computed position is absolute
}

// Line is the insertion indicator drawn between siblings.
type Line struct {
	From geom.Point `json:"from"`
	To   geom.Point `json:"to"`
}

// Input is everything one resolution needs.
type Input struct {
	Cursor geom.Point         // canvas space
	Rects  map[string]Measure // captured before any mutation of this tick

	Dragged      []string // excluded together with their descendants
	Placeholders []string // ignored

	DynamicEditFamily string     // family currently in dynamic edit mode
	Movement          geom.Point // cursor delta since the previous tick
	Previous          *Result
}

// Result is the resolved drop target. Canvas is true when nothing is
// targeted and the drop would land on the free canvas.
type Result struct {
	TargetID  string        `json:"targetId,omitempty"`
	Position  node.Position `json:"position,omitempty"`
	Line      *Line         `json:"line,omitempty"`
	Container string        `json:"container,omitempty"`
	Canvas    bool          `json:"canvas"`
}

// Tree is the read-only view of the node store the resolver needs.
type Tree interface {
	Node(id string) (*node.Node, bool)
	Children(parentID string) []string
	IsAncestor(ancestor, id string) bool
	TopLevelDynamic(id string) string
}

// Resolver resolves drop targets against a tree.
type Resolver struct {
	tree   Tree
	logger *log.Logger
}

// NewResolver creates a resolver. A nil logger uses the default logger.
func NewResolver(tree Tree, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{tree: tree, logger: logger}
}

var canvas = Result{Canvas: true}

// Resolve returns the drop target for in.
func (r *Resolver) Resolve(in Input) Result {
	in.Cursor = geom.Point{X: geom.Num(in.Cursor.X), Y: geom.Num(in.Cursor.Y)}
	hit := r.hitTest("", in)
	if hit == "" {
		return canvas
	}

	h, ok := r.tree.Node(hit)
	if !ok {
		r.logger.Debug("hit node vanished", "node", hit)
		return canvas
	}
	locked := false
	if r.lockedDynamic(h, in) {
		top := r.tree.TopLevelDynamic(hit)
		if r.excluded(top, in) {
			return canvas
		}
		if h, ok = r.tree.Node(top); !ok {
			return canvas
		}
		locked = true
	}

	if !locked && h.Type.IsMedia() {
		if m, ok := in.Rects[h.ID]; ok {
			rect := m.Rect.Sanitize()
			if in.Cursor.Dist(rect.Center()) <= MediaRadius*math.Min(rect.W, rect.H) {
				return Result{TargetID: h.ID, Position: node.Inside, Container: h.ID}
			}
		}
	}

	// Rule 2: deepest frame in the chain with flow children. A nested frame
	// without flow children takes the drop itself when it is absolutely
	// positioned or is not a slot of the container being reordered.
	origins := r.origins(in)
	first := true
	for cur := h; cur != nil; {
		if (!first || !locked) && r.acceptsChildren(cur, in) {
			if flow := r.flowChildren(cur.ID, in); len(flow) > 0 {
				return r.flowTarget(cur, flow, in)
			}
			if cur.ParentID != "" && (r.absolute(cur, in) || !origins[cur.ParentID]) {
				return Result{TargetID: cur.ID, Position: node.Inside, Container: cur.ID}
			}
		}
		first = false
		p, ok := r.tree.Node(cur.ParentID)
		if !ok {
			break
		}
		cur = p
	}

	// Rule 3: empty frame.
	if !locked && r.acceptsChildren(h, in) {
		return Result{TargetID: h.ID, Position: node.Inside, Container: h.ID}
	}
	if p, ok := r.tree.Node(h.ParentID); ok && r.acceptsChildren(p, in) {
		return Result{TargetID: p.ID, Position: node.Inside, Container: p.ID}
	}

	// Rule 4: canvas root sibling.
	if h.ParentID == "" {
		m, ok := in.Rects[h.ID]
		if !ok {
			return canvas
		}
		rect := m.Rect.Sanitize()
		if in.Cursor.Y < rect.CenterY() {
			return Result{TargetID: h.ID, Position: node.Before, Line: hLine(rect.Top(), rect)}
		}
		return Result{TargetID: h.ID, Position: node.After, Line: hLine(rect.Bottom(), rect)}
	}
	return canvas
}

// hitTest returns the deepest measured node containing the cursor. Later
// siblings paint on top and win.
func (r *Resolver) hitTest(parent string, in Input) string {
	kids := r.tree.Children(parent)
	for i := len(kids) - 1; i >= 0; i-- {
		id := kids[i]
		if r.excluded(id, in) {
			continue
		}
		m, measured := in.Rects[id]
		if measured && !m.Rect.Sanitize().Contains(in.Cursor) {
			continue
		}
		if deeper := r.hitTest(id, in); deeper != "" {
			return deeper
		}
		if measured {
			return id
		}
	}
	return ""
}

func (r *Resolver) excluded(id string, in Input) bool {
	if slices.Contains(in.Placeholders, id) {
		return true
	}
	for _, d := range in.Dragged {
		if d == id || r.tree.IsAncestor(d, id) {
			return true
		}
	}
	if n, ok := r.tree.Node(id); ok && n.IsPlaceholder() {
		return true
	}
	return false
}

// origins returns the current parents of the dragged nodes.
func (r *Resolver) origins(in Input) map[string]bool {
	out := make(map[string]bool, len(in.Dragged))
	for _, id := range in.Dragged {
		if n, ok := r.tree.Node(id); ok {
			out[n.ParentID] = true
		}
	}
	return out
}

func (r *Resolver) absolute(n *node.Node, in Input) bool {
	if m, ok := in.Rects[n.ID]; ok && m.Absolute {
		return true
	}
	return n.IsAbsolute()
}

func (r *Resolver) lockedDynamic(n *node.Node, in Input) bool {
	return n.IsDynamic && (in.DynamicEditFamily == "" || in.DynamicEditFamily != n.DynamicFamilyID)
}

func (r *Resolver) acceptsChildren(n *node.Node, in Input) bool {
	return n.Type.IsContainer() && !r.lockedDynamic(n, in)
}

// flowChildren returns the measured, non-absolute children of parent that
// take part in ordering.
func (r *Resolver) flowChildren(parent string, in Input) []string {
	var out []string
	for _, id := range r.tree.Children(parent) {
		if r.excluded(id, in) {
			continue
		}
		m, ok := in.Rects[id]
		if !ok || m.Absolute {
			continue
		}
		if n, ok := r.tree.Node(id); !ok || n.IsAbsolute() {
			continue
		}
		out = append(out, id)
	}
	return out
}

func (r *Resolver) flowTarget(container *node.Node, flow []string, in Input) Result {
	row := container.Row()
	if m, ok := in.Rects[container.ID]; ok && m.Direction != "" {
		row = m.Direction == Row
	}
	along := func(p geom.Point) float64 {
		if row {
			return p.X
		}
		return p.Y
	}
	span := func(rect geom.Rect) (float64, float64) {
		if row {
			return rect.Left(), rect.Right()
		}
		return rect.Top(), rect.Bottom()
	}

	pos := along(in.Cursor)
	result := func(id string, p node.Position) Result {
		rect := in.Rects[id].Rect.Sanitize()
		lo, hi := span(rect)
		at := hi
		if p == node.Before {
			at = lo
		}
		line := hLine(at, rect)
		if row {
			line = vLine(at, rect)
		}
		return Result{TargetID: id, Position: p, Line: line, Container: container.ID}
	}

	for _, id := range flow {
		lo, hi := span(in.Rects[id].Rect.Sanitize())
		if pos < lo {
			return result(id, node.Before)
		}
		if pos > hi {
			continue
		}
		mid := (lo + hi) / 2
		p := node.Before
		if pos >= mid {
			p = node.After
		}
		if prev := in.Previous; prev != nil && prev.TargetID == id && prev.Position != node.Inside &&
			math.Abs(pos-mid) < (hi-lo)*HysteresisBand {
			switch m := along(in.Movement); {
			case m > 0:
				p = node.After
			case m < 0:
				p = node.Before
			default:
				p = prev.Position
			}
		}
		return result(id, p)
	}
	return result(flow[len(flow)-1], node.After)
}

func hLine(y float64, rect geom.Rect) *Line {
	return &Line{From: geom.Point{X: rect.Left(), Y: y}, To: geom.Point{X: rect.Right(), Y: y}}
}

func vLine(x float64, rect geom.Rect) *Line {
	return &Line{From: geom.Point{X: x, Y: rect.Top()}, To: geom.Point{X: x, Y: rect.Bottom()}}
}
