package store

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/framewright/framewright/pkg/node"
)

// ChangeKind identifies the primitive mutation a Change records.
type ChangeKind string

const (
	ChangeInsert  ChangeKind = "insert"
	ChangeRemove  ChangeKind = "remove"
	ChangeMove    ChangeKind = "move"
	ChangeReplace ChangeKind = "replace"
)

// Change is one recorded primitive mutation together with its inverse.
// Changes are produced by the store and replayed with [Store.Revert] and
// [Store.Reapply]; they cannot be constructed outside this package.
type Change interface {
	Kind() ChangeKind
	NodeID() string
	apply(s *Store) error
	revert(s *Store) error
}

type insertChange struct {
	n      *node.Node
	parent string
	index  int
}

func (c *insertChange) Kind() ChangeKind      { return ChangeInsert }
func (c *insertChange) NodeID() string        { return c.n.ID }
func (c *insertChange) apply(s *Store) error  { return s.rawInsert(c.n.Clone(), c.parent, c.index) }
func (c *insertChange) revert(s *Store) error { return s.rawRemove(c.n.ID, c.parent) }

type removeChange struct {
	n      *node.Node
	parent string
	index  int
}

func (c *removeChange) Kind() ChangeKind      { return ChangeRemove }
func (c *removeChange) NodeID() string        { return c.n.ID }
func (c *removeChange) apply(s *Store) error  { return s.rawRemove(c.n.ID, c.parent) }
func (c *removeChange) revert(s *Store) error { return s.rawInsert(c.n.Clone(), c.parent, c.index) }

type moveChange struct {
	id                    string
	fromParent, toParent  string
	fromIndex, toIndex    int
}

func (c *moveChange) Kind() ChangeKind { return ChangeMove }
func (c *moveChange) NodeID() string   { return c.id }
func (c *moveChange) apply(s *Store) error {
	return s.rawMove(c.id, c.fromParent, c.toParent, c.toIndex)
}
func (c *moveChange) revert(s *Store) error {
	return s.rawMove(c.id, c.toParent, c.fromParent, c.fromIndex)
}

type replaceChange struct {
	before, after *node.Node
}

func (c *replaceChange) Kind() ChangeKind      { return ChangeReplace }
func (c *replaceChange) NodeID() string        { return c.after.ID }
func (c *replaceChange) apply(s *Store) error  { return s.rawReplace(c.after.Clone()) }
func (c *replaceChange) revert(s *Store) error { return s.rawReplace(c.before.Clone()) }

// =============================================================================
// Raw primitives - no invariant checks beyond what replay needs
// =============================================================================

func (s *Store) rawInsert(n *node.Node, parent string, index int) error {
	if _, exists := s.nodes[n.ID]; exists {
		return fmt.Errorf("%w: insert %s: already exists", ErrDesync, n.ID)
	}
	if parent != "" && !s.Has(parent) {
		return fmt.Errorf("%w: insert %s: parent %s missing", ErrDesync, n.ID, parent)
	}
	n.ParentID = parent
	s.nodes[n.ID] = n
	s.children[parent] = slices.Insert(s.children[parent], clampIndex(index, len(s.children[parent])), n.ID)
	s.index(n)
	return nil
}

func (s *Store) rawRemove(id, parent string) error {
	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("%w: remove %s: missing", ErrDesync, id)
	}
	if n.ParentID != parent {
		return fmt.Errorf("%w: remove %s: parent is %q, want %q", ErrDesync, id, n.ParentID, parent)
	}
	if len(s.children[id]) > 0 {
		return fmt.Errorf("%w: remove %s: still has children", ErrDesync, id)
	}
	s.unindex(n)
	delete(s.nodes, id)
	delete(s.children, id)
	s.detach(id, parent)
	return nil
}

func (s *Store) rawMove(id, from, to string, index int) error {
	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("%w: move %s: missing", ErrDesync, id)
	}
	if n.ParentID != from {
		return fmt.Errorf("%w: move %s: parent is %q, want %q", ErrDesync, id, n.ParentID, from)
	}
	if to != "" && !s.Has(to) {
		return fmt.Errorf("%w: move %s: parent %s missing", ErrDesync, id, to)
	}
	s.detach(id, from)
	n.ParentID = to
	s.children[to] = slices.Insert(s.children[to], clampIndex(index, len(s.children[to])), id)
	return nil
}

func (s *Store) rawReplace(n *node.Node) error {
	cur, ok := s.nodes[n.ID]
	if !ok {
		return fmt.Errorf("%w: replace %s: missing", ErrDesync, n.ID)
	}
	n.ParentID = cur.ParentID
	s.unindex(cur)
	s.nodes[n.ID] = n
	s.index(n)
	return nil
}

func (s *Store) detach(id, parent string) {
	kids := slices.DeleteFunc(s.children[parent], func(c string) bool { return c == id })
	if len(kids) == 0 {
		delete(s.children, parent)
		return
	}
	s.children[parent] = kids
}

func clampIndex(i, n int) int {
	if i < 0 || i > n {
		return n
	}
	return i
}

// Compact merges consecutive replace changes of the same node into one and
// drops replaces that end where they started. Sessions use it so that a
// continuous slider drag becomes a single style change.
func Compact(changes []Change) []Change {
	out := make([]Change, 0, len(changes))
	for _, c := range changes {
		rc, ok := c.(*replaceChange)
		if ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*replaceChange); ok && prev.after.ID == rc.after.ID {
				out[len(out)-1] = &replaceChange{before: prev.before, after: rc.after}
				continue
			}
		}
		out = append(out, c)
	}
	return slices.DeleteFunc(out, func(c Change) bool {
		rc, ok := c.(*replaceChange)
		return ok && reflect.DeepEqual(rc.before, rc.after)
	})
}

// Removals reports whether every change in cs is a removal.
func Removals(cs []Change) bool {
	if len(cs) == 0 {
		return false
	}
	for _, c := range cs {
		if c.Kind() != ChangeRemove {
			return false
		}
	}
	return true
}
