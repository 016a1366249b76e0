package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/framewright/framewright/pkg/node"
	"github.com/framewright/framewright/pkg/store"
)

// ErrUnsupportedVersion is returned for documents newer than [Version].
var ErrUnsupportedVersion = errors.New("unsupported document version")

// Decode parses a document or a bare node array. Nodes are returned in
// file order and are not validated.
func Decode(data []byte) ([]node.Node, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var nodes []node.Node
		if err := json.Unmarshal(data, &nodes); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return nodes, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	return doc.Nodes, nil
}

// ReadJSON decodes a document from r and loads it into a new store built
// with opts.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - The document version is newer than this package understands
//   - The node array breaks a tree invariant (duplicate ids, unknown
//     parents, nested viewports, duplicate shared ids in one viewport)
//
// Invariant errors wrap the store's sentinel errors. ReadJSON does not
// close r.
func ReadJSON(r io.Reader, opts ...store.Option) (*store.Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	nodes, err := Decode(data)
	if err != nil {
		return nil, err
	}
	s := store.New(opts...)
	if err := s.Load(nodes); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return s, nil
}

// ImportJSON reads a JSON file at path and returns the loaded store.
func ImportJSON(path string, opts ...store.Option) (*store.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f, opts...)
}
