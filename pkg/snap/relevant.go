package snap

import (
	"github.com/framewright/framewright/pkg/geom"
	"github.com/framewright/framewright/pkg/node"
)

// Tree is the read-only view of the node store the engine needs.
type Tree interface {
	Node(id string) (*node.Node, bool)
	Children(parentID string) []string
}

// Relevant returns the snap candidates for dragging id. An absolutely
// positioned child of a frame snaps against its siblings and the parent
// frame; anything else snaps against the other canvas roots. Nodes without
// a captured rect are skipped. Order follows the tree, so results are
// deterministic.
func Relevant(tree Tree, id string, rects map[string]geom.Rect) []Candidate {
	n, ok := tree.Node(id)
	if !ok {
		return nil
	}

	var ids []string
	if n.IsAbsolute() && n.ParentID != "" {
		if p, ok := tree.Node(n.ParentID); ok && p.Type == node.TypeFrame {
			ids = append(ids, tree.Children(n.ParentID)...)
			ids = append(ids, n.ParentID)
		}
	}
	if ids == nil {
		ids = tree.Children("")
	}

	out := make([]Candidate, 0, len(ids))
	for _, cid := range ids {
		if cid == id {
			continue
		}
		if c, ok := tree.Node(cid); ok && c.IsPlaceholder() {
			continue
		}
		if r, ok := rects[cid]; ok {
			out = append(out, Candidate{ID: cid, Rect: r})
		}
	}
	return out
}
