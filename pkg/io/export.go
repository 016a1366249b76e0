package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/framewright/framewright/pkg/node"
	"github.com/framewright/framewright/pkg/store"
)

// Version is the document format version written by this package.
const Version = 1

// Document is the persisted form of a node tree.
type Document struct {
	Version int         `json:"version"`
	Nodes   []node.Node `json:"nodes"`
}

// Nodes returns the exportable nodes of s in tree order.
func Nodes(s *store.Store) []node.Node {
	all := s.Snapshot()
	out := all[:0]
	for _, n := range all {
		if !n.IsPlaceholder() {
			out = append(out, n)
		}
	}
	return out
}

// Encode marshals nodes into the versioned document form.
func Encode(nodes []node.Node) ([]byte, error) {
	if nodes == nil {
		nodes = []node.Node{}
	}
	data, err := json.Marshal(Document{Version: Version, Nodes: nodes})
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// WriteJSON encodes the tree of s as an indented document and writes it
// to w. This format can be re-imported with [ReadJSON].
func WriteJSON(s *store.Store, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Version: Version, Nodes: Nodes(s)}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the tree of s to a JSON file at path. The file is
// written to a temporary name first and renamed into place.
func ExportJSON(s *store.Store, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteJSON(s, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
