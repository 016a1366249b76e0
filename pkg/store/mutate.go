package store

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/framewright/framewright/pkg/node"
)

// Target names where a moved node goes: before or after the target node,
// or appended inside it.
type Target struct {
	ID       string
	Position node.Position
}

// reject logs a refused mutation and returns err unchanged.
func (s *Store) reject(op, id string, err error) error {
	s.logger.Warn("mutation rejected", "op", op, "node", id, "err", err)
	return err
}

// InsertAtIndex inserts a copy of n as a child of parentID at index. An
// out-of-range index appends. Pass "" as parentID to create a root.
func (s *Store) InsertAtIndex(n node.Node, index int, parentID string) error {
	if err := s.validateInsert(&n, parentID); err != nil {
		return s.reject("insert", n.ID, err)
	}
	c := n.Clone()
	if c.Type == node.TypeViewport {
		c.IsViewport = true
	}
	if err := s.rawInsert(c, parentID, index); err != nil {
		return s.reject("insert", n.ID, err)
	}
	s.record(&insertChange{n: c.Clone(), parent: parentID, index: s.IndexOf(c.ID)}, false)
	return nil
}

// Append inserts n as the last child of parentID.
func (s *Store) Append(n node.Node, parentID string) error {
	return s.InsertAtIndex(n, -1, parentID)
}

func (s *Store) validateInsert(n *node.Node, parentID string) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if s.Has(n.ID) {
		return ErrDuplicateID
	}
	if !n.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, n.Type)
	}
	if n.IsViewport || n.Type == node.TypeViewport {
		if n.Type != node.TypeViewport {
			return fmt.Errorf("%w: viewport flag on %s node", ErrInvalidType, n.Type)
		}
		if parentID != "" {
			return ErrViewportMove
		}
		for _, vp := range s.Viewports() {
			if s.nodes[vp].ViewportWidth == n.ViewportWidth {
				return ErrDuplicateViewport
			}
		}
		return nil
	}
	if parentID != "" {
		p, ok := s.nodes[parentID]
		if !ok {
			return fmt.Errorf("%w: parent %s", ErrNotFound, parentID)
		}
		if !p.Type.IsContainer() {
			return fmt.Errorf("%w: %s cannot hold children", ErrInvalidTarget, p.Type)
		}
	}
	if n.SharedID != "" {
		if _, dup := s.CounterpartIn(n.SharedID, s.viewportOfParent(parentID)); dup {
			return ErrDuplicateShared
		}
	}
	return nil
}

func (s *Store) viewportOfParent(parentID string) string {
	if parentID == "" {
		return ""
	}
	return s.ViewportOf(parentID)
}

// MoveNode moves id relative to target. "inside" appends to the target's
// children; "before" and "after" splice into the target's sibling list.
//
// Moves that would create a cycle, nest or move a viewport, or duplicate a
// shared id inside a viewport are rejected: the error is logged and
// returned, and the tree is unchanged. The animate flag is passed through
// to subscribers.
func (s *Store) MoveNode(id string, animate bool, t Target) error {
	parent, index, err := s.resolveTarget(id, t)
	if err != nil {
		return s.reject("move", id, err)
	}
	return s.move(id, parent, index, animate)
}

// resolveTarget converts a relative target into a parent and a final index,
// accounting for the node's own removal from a shared sibling list.
func (s *Store) resolveTarget(id string, t Target) (string, int, error) {
	n, ok := s.nodes[id]
	if !ok {
		return "", 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	tn, ok := s.nodes[t.ID]
	if !ok {
		return "", 0, fmt.Errorf("%w: target %s", ErrNotFound, t.ID)
	}
	if id == t.ID {
		return "", 0, fmt.Errorf("%w: node targets itself", ErrInvalidTarget)
	}

	var parent string
	var index int
	switch t.Position {
	case node.Inside:
		parent = t.ID
		index = len(s.children[parent])
	case node.Before, node.After:
		parent = tn.ParentID
		index = slices.Index(s.children[parent], t.ID)
		if t.Position == node.After {
			index++
		}
	default:
		return "", 0, fmt.Errorf("%w: position %q", ErrInvalidTarget, t.Position)
	}

	if n.ParentID == parent {
		if cur := slices.Index(s.children[parent], id); cur >= 0 && cur < index {
			index--
		}
	}
	return parent, index, nil
}

// MoveToIndex moves id under parentID so that it ends at index among its
// new siblings. An out-of-range index appends.
func (s *Store) MoveToIndex(id, parentID string, index int) error {
	return s.move(id, parentID, index, false)
}

func (s *Store) move(id, parent string, index int, animate bool) error {
	if err := s.validateMove(id, parent); err != nil {
		return s.reject("move", id, err)
	}
	n := s.nodes[id]
	from := n.ParentID
	fromIndex := slices.Index(s.children[from], id)

	size := len(s.children[parent])
	if from == parent {
		size--
	}
	index = clampIndex(index, size)
	if from == parent && fromIndex == index {
		return nil
	}

	if err := s.rawMove(id, from, parent, index); err != nil {
		return s.reject("move", id, err)
	}
	s.record(&moveChange{id: id, fromParent: from, toParent: parent, fromIndex: fromIndex, toIndex: index}, animate)
	return nil
}

func (s *Store) validateMove(id, parent string) error {
	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if n.IsViewport {
		return ErrViewportMove
	}
	if parent == "" {
		return s.checkShared(id, "")
	}
	p, ok := s.nodes[parent]
	if !ok {
		return fmt.Errorf("%w: parent %s", ErrNotFound, parent)
	}
	if parent == id || s.IsAncestor(id, parent) {
		return ErrCycle
	}
	if !p.Type.IsContainer() {
		return fmt.Errorf("%w: %s cannot hold children", ErrInvalidTarget, p.Type)
	}
	return s.checkShared(id, s.ViewportOf(parent))
}

// checkShared verifies that moving the subtree of id into viewport vp does
// not put a shared id into vp twice.
func (s *Store) checkShared(id, vp string) error {
	if vp == "" || vp == s.ViewportOf(id) {
		return nil
	}
	sub := s.Subtree(id)
	for _, d := range sub {
		sid := s.nodes[d].SharedID
		if sid == "" {
			continue
		}
		if other, ok := s.CounterpartIn(sid, vp); ok && !slices.Contains(sub, other) {
			return ErrDuplicateShared
		}
	}
	return nil
}

// RemoveNode deletes id with all its descendants (bottom-up), then deletes
// the nodes sharing id's shared id in the other viewports together with
// their subtrees. All removals are delivered as one event.
func (s *Store) RemoveNode(id string) error {
	n, ok := s.nodes[id]
	if !ok {
		return s.reject("remove", id, fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	targets := []string{id}
	if n.SharedID != "" && s.ViewportOf(id) != "" {
		cps := s.Counterparts(id)
		for _, vp := range s.Viewports() {
			if cp, ok := cps[vp]; ok {
				targets = append(targets, cp)
			}
		}
	}
	return s.Batch("remove", func() error {
		for _, t := range targets {
			if !s.Has(t) {
				continue
			}
			if err := s.removeSubtree(t); err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveLocal deletes id and its descendants without touching counterparts
// in other viewports.
func (s *Store) RemoveLocal(id string) error {
	if !s.Has(id) {
		return s.reject("remove", id, fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	return s.Batch("remove", func() error { return s.removeSubtree(id) })
}

// removeSubtree removes children last-to-first and depth-first so that
// replaying the inverse restores every index.
func (s *Store) removeSubtree(id string) error {
	kids := slices.Clone(s.children[id])
	for i := len(kids) - 1; i >= 0; i-- {
		if err := s.removeSubtree(kids[i]); err != nil {
			return err
		}
	}
	n := s.nodes[id]
	index := s.IndexOf(id)
	parent := n.ParentID
	if err := s.rawRemove(id, parent); err != nil {
		return err
	}
	s.record(&removeChange{n: n.Clone(), parent: parent, index: index}, false)
	return nil
}

// UpdateStyle merges patch into the node's style. A nil value deletes the
// key. Patches that change nothing are not recorded.
func (s *Store) UpdateStyle(id string, patch node.Style) error {
	return s.Update(id, func(n *node.Node) {
		for k, v := range patch {
			if v == nil {
				delete(n.Style, k)
				continue
			}
			if n.Style == nil {
				n.Style = node.Style{}
			}
			n.Style[k] = v
		}
		if len(n.Style) == 0 {
			n.Style = nil
		}
	})
}

// SetIndependent flags or clears prop as an independent (non-synced)
// property of id.
func (s *Store) SetIndependent(id, prop string, independent bool) error {
	return s.Update(id, func(n *node.Node) {
		if independent {
			if n.IndependentStyles == nil {
				n.IndependentStyles = map[string]bool{}
			}
			n.IndependentStyles[prop] = true
			return
		}
		delete(n.IndependentStyles, prop)
	})
}

// ChangeType converts id to type t. Media nodes become frames when a node
// is dropped inside them.
func (s *Store) ChangeType(id string, t node.Type) error {
	if t == node.TypeViewport || !t.Valid() {
		return s.reject("change-type", id, fmt.Errorf("%w: %q", ErrInvalidType, t))
	}
	if n, ok := s.nodes[id]; ok && len(s.children[id]) > 0 && !t.IsContainer() && n.Type.IsContainer() {
		return s.reject("change-type", id, fmt.Errorf("%w: node has children", ErrInvalidTarget))
	}
	return s.Update(id, func(n *node.Node) { n.Type = t })
}

// Update applies fn to a copy of the node and records the result. Identity,
// parent and viewport status cannot be changed this way. Updates that
// change nothing are not recorded.
func (s *Store) Update(id string, fn func(*node.Node)) error {
	cur, ok := s.nodes[id]
	if !ok {
		return s.reject("update", id, fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	next := cur.Clone()
	fn(next)

	switch {
	case next.ID != cur.ID, next.ParentID != cur.ParentID, next.IsViewport != cur.IsViewport:
		return s.reject("update", id, ErrImmutableField)
	case !next.Type.Valid():
		return s.reject("update", id, fmt.Errorf("%w: %q", ErrInvalidType, next.Type))
	case next.SharedID != cur.SharedID && next.SharedID != "":
		if other, dup := s.CounterpartIn(next.SharedID, s.ViewportOf(id)); dup && other != id {
			return s.reject("update", id, ErrDuplicateShared)
		}
	}
	if reflect.DeepEqual(cur, next) {
		return nil
	}

	before := cur.Clone()
	if err := s.rawReplace(next); err != nil {
		return s.reject("update", id, err)
	}
	s.record(&replaceChange{before: before, after: next.Clone()}, false)
	return nil
}

// Duplicate copies the subtree of id, and the subtrees of its counterparts
// in the other viewports, with fresh identifiers. One mapping is used for
// the whole operation so the copies share a new shared id. Each copy is
// placed right after its original. The id of the copy of id is returned.
func (s *Store) Duplicate(id string) (string, error) {
	n, ok := s.nodes[id]
	if !ok {
		return "", s.reject("duplicate", id, fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	if n.IsViewport {
		return "", s.reject("duplicate", id, ErrViewportMove)
	}

	roots := []string{id}
	for _, vp := range s.Viewports() {
		if cp, ok := s.Counterparts(id)[vp]; ok {
			roots = append(roots, cp)
		}
	}

	var src []*node.Node
	for _, r := range roots {
		for _, d := range s.Subtree(r) {
			src = append(src, s.nodes[d])
		}
	}
	copies, mapping := node.Rekey(src, s.newID)

	err := s.Batch("duplicate", func() error {
		for _, c := range copies {
			parent := c.ParentID
			index := -1
			if orig, isRoot := rootOf(mapping, roots, c.ID); isRoot {
				parent = s.nodes[orig].ParentID
				index = s.IndexOf(orig) + 1
			}
			if err := s.InsertAtIndex(*c, index, parent); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return mapping[id], nil
}

// rootOf reports which duplicated root newID is the copy of.
func rootOf(mapping map[string]string, roots []string, newID string) (string, bool) {
	for _, r := range roots {
		if mapping[r] == newID {
			return r, true
		}
	}
	return "", false
}
