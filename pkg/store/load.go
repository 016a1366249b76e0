package store

import (
	"errors"
	"fmt"

	"github.com/framewright/framewright/pkg/node"
)

// Load replaces the tree with nodes. Nodes are attached breadth-first from
// the roots; siblings keep their relative order in the input array. Any
// node whose parent chain does not lead to a root is reported as an
// orphan and nothing is loaded.
//
// Subscribers receive one event with Reset set; history treats it as a
// new baseline.
func (s *Store) Load(nodes []node.Node) error {
	if s.tx != nil || s.transient != nil {
		return ErrInBatch
	}

	byParent := make(map[string][]*node.Node)
	seen := make(map[string]bool, len(nodes))
	for i := range nodes {
		n := nodes[i].Clone()
		if n.ID == "" {
			return fmt.Errorf("load node %d: %w", i, ErrInvalidNodeID)
		}
		if seen[n.ID] {
			return fmt.Errorf("load %s: %w", n.ID, ErrDuplicateID)
		}
		if !n.Type.Valid() {
			return fmt.Errorf("load %s: %w: %q", n.ID, ErrInvalidType, n.Type)
		}
		if n.Type == node.TypeViewport {
			n.IsViewport = true
		}
		seen[n.ID] = true
		byParent[n.ParentID] = append(byParent[n.ParentID], n)
	}

	next := New(WithLogger(s.logger), WithIDGenerator(s.newID))
	queue := []string{""}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, n := range byParent[parent] {
			if err := next.validateInsert(n, parent); err != nil {
				return fmt.Errorf("load %s: %w", n.ID, err)
			}
			if err := next.rawInsert(n, parent, -1); err != nil {
				return fmt.Errorf("load %s: %w", n.ID, err)
			}
			queue = append(queue, n.ID)
		}
		delete(byParent, parent)
	}
	for parent, kids := range byParent {
		return fmt.Errorf("load %s: %w: parent %s not reachable", kids[0].ID, ErrOrphan, parent)
	}

	s.nodes = next.nodes
	s.children = next.children
	s.shared = next.shared
	s.families = next.families
	s.variants = next.variants
	s.emit(Event{Label: "load", Reset: true})
	return nil
}

// Validate re-checks the structural invariants of the whole tree and
// returns every violation found, joined.
func (s *Store) Validate() error {
	var errs []error
	widths := make(map[float64]string)
	sharedIn := make(map[[2]string]string)

	for id, n := range s.nodes {
		if n.ID != id {
			errs = append(errs, fmt.Errorf("%s: record id is %q", id, n.ID))
		}
		if !n.Type.Valid() {
			errs = append(errs, fmt.Errorf("%s: %w: %q", id, ErrInvalidType, n.Type))
		}
		if n.IsViewport != (n.Type == node.TypeViewport) {
			errs = append(errs, fmt.Errorf("%s: viewport flag does not match type %s", id, n.Type))
		}
		if n.IsViewport {
			if n.ParentID != "" {
				errs = append(errs, fmt.Errorf("%s: %w: viewport is nested", id, ErrViewportMove))
			}
			if other, dup := widths[n.ViewportWidth]; dup {
				errs = append(errs, fmt.Errorf("%s and %s: %w", id, other, ErrDuplicateViewport))
			}
			widths[n.ViewportWidth] = id
		}
		if n.ParentID != "" {
			p, ok := s.nodes[n.ParentID]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("%s: %w: parent %s missing", id, ErrOrphan, n.ParentID))
			case !p.Type.IsContainer():
				errs = append(errs, fmt.Errorf("%s: %w: parent is %s", id, ErrInvalidTarget, p.Type))
			}
		}
		if s.IndexOf(id) < 0 {
			errs = append(errs, fmt.Errorf("%s: missing from parent's child list", id))
		}
		if s.IsAncestor(id, id) {
			errs = append(errs, fmt.Errorf("%s: %w", id, ErrCycle))
		}
		if vp := s.ViewportOf(id); vp != "" && n.SharedID != "" {
			key := [2]string{vp, n.SharedID}
			if other, dup := sharedIn[key]; dup {
				errs = append(errs, fmt.Errorf("%s and %s: %w", id, other, ErrDuplicateShared))
			}
			sharedIn[key] = id
		}
	}
	return errors.Join(errs...)
}
