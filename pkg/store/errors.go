package store

import "errors"

var (
	// ErrInvalidNodeID is returned when a node is inserted without an id.
	ErrInvalidNodeID = errors.New("node id must not be empty")

	// ErrDuplicateID is returned when a node id is already in use.
	ErrDuplicateID = errors.New("duplicate node id")

	// ErrNotFound is returned when a referenced node does not exist.
	ErrNotFound = errors.New("node not found")

	// ErrInvalidType is returned for a node type outside the closed set.
	ErrInvalidType = errors.New("invalid node type")

	// ErrInvalidTarget is returned when a target cannot hold the node, for
	// example "inside" a text node, a placeholder parent, or a node targeting
	// itself.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrCycle is returned when a move would make a node its own ancestor.
	ErrCycle = errors.New("move would create a cycle")

	// ErrViewportMove is returned when a viewport would be reparented or
	// nested inside another node.
	ErrViewportMove = errors.New("viewports cannot be nested or moved")

	// ErrDuplicateViewport is returned when a second viewport with the same
	// width is inserted.
	ErrDuplicateViewport = errors.New("viewport width already in use")

	// ErrDuplicateShared is returned when a shared id would appear twice
	// inside one viewport.
	ErrDuplicateShared = errors.New("shared id already present in viewport")

	// ErrImmutableField is returned when Update tries to change identity,
	// parent or viewport status.
	ErrImmutableField = errors.New("field cannot be changed with Update")

	// ErrDesync is returned when a recorded change no longer matches the
	// state it is replayed against.
	ErrDesync = errors.New("change does not match current state")

	// ErrInBatch is returned when history replay is attempted inside a batch.
	ErrInBatch = errors.New("cannot replay changes inside a batch")

	// ErrOrphan is returned by Load when a node references a missing parent
	// or sits on a parent cycle.
	ErrOrphan = errors.New("node is not reachable from a root")
)
