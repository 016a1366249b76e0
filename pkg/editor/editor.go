package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/framewright/framewright/pkg/config"
	"github.com/framewright/framewright/pkg/docstore"
	"github.com/framewright/framewright/pkg/drag"
	"github.com/framewright/framewright/pkg/drop"
	"github.com/framewright/framewright/pkg/geom"
	"github.com/framewright/framewright/pkg/history"
	fwio "github.com/framewright/framewright/pkg/io"
	"github.com/framewright/framewright/pkg/node"
	"github.com/framewright/framewright/pkg/store"
	"github.com/framewright/framewright/pkg/viewport"
)

var (
	// ErrNoDocument is returned by Save before any document was loaded.
	ErrNoDocument = errors.New("no document loaded")

	// ErrUnknownFamily is returned when entering edit mode for a dynamic
	// family without nodes.
	ErrUnknownFamily = errors.New("unknown dynamic family")
)

// Option configures an Editor.
type Option func(*settings)

type settings struct {
	logger   *log.Logger
	docs     docstore.Store
	storeOpt []store.Option
	dragOpt  []drag.Option
}

// WithLogger sets the logger shared by every component.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the document store used by Load and Save. The editor
// does not close it.
func WithStore(ds docstore.Store) Option {
	return func(s *settings) { s.docs = ds }
}

// WithIDGenerator sets the node id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *settings) { s.storeOpt = append(s.storeOpt, store.WithIDGenerator(gen)) }
}

// WithDragOptions passes options through to the drag controller.
func WithDragOptions(opts ...drag.Option) Option {
	return func(s *settings) { s.dragOpt = append(s.dragOpt, opts...) }
}

// Editor is one open document. It is not safe for concurrent use.
type Editor struct {
	logger   *log.Logger
	docs     docstore.Store
	docID    string
	store    *store.Store
	history  *history.History
	syncer   *viewport.Syncer
	resolver *drop.Resolver
	drag     *drag.Controller

	dynamicFamily string
	dragOrigin    string
}

// New creates an editor with an empty tree.
func New(cfg config.Config, opts ...Option) *Editor {
	st := settings{logger: log.Default()}
	for _, opt := range opts {
		opt(&st)
	}
	if st.docs == nil {
		st.docs = docstore.NewMemoryStore()
	}

	s := store.New(append([]store.Option{store.WithLogger(st.logger)}, st.storeOpt...)...)
	hopts := cfg.HistoryOptions()
	hopts.Logger = st.logger
	r := drop.NewResolver(s, st.logger)

	dragOpts := append([]drag.Option{drag.WithLogger(st.logger)}, st.dragOpt...)
	return &Editor{
		logger:   st.logger,
		docs:     st.docs,
		store:    s,
		history:  history.New(s, hopts),
		syncer:   viewport.NewSyncer(s, st.logger),
		resolver: r,
		drag:     drag.NewController(s, r, cfg.SnapEngine(), cfg.DragOptions(), dragOpts...),
	}
}

// Close aborts any drag and detaches the history. The document store is
// left open.
func (e *Editor) Close() {
	e.drag.Close()
	e.history.Close()
}

// Store returns the node store for read access. Mutating it directly
// bypasses viewport propagation.
func (e *Editor) Store() *store.Store { return e.store }

// History returns the undo/redo engine.
func (e *Editor) History() *history.History { return e.history }

// Resolver returns the drop resolver.
func (e *Editor) Resolver() *drop.Resolver { return e.resolver }

// Logger returns the editor's logger.
func (e *Editor) Logger() *log.Logger { return e.logger }

// DocumentID returns the id of the loaded document, if any.
func (e *Editor) DocumentID() string { return e.docID }

// ============================================================================
// Documents
// ============================================================================

// Load replaces the tree with the document id from the document store.
// History is cleared.
func (e *Editor) Load(ctx context.Context, id string) error {
	nodes, err := docstore.LoadNodes(ctx, e.docs, id)
	if err != nil {
		return err
	}
	if err := e.LoadNodes(nodes); err != nil {
		return fmt.Errorf("document %s: %w", id, err)
	}
	e.docID = id
	e.logger.Debug("document loaded", "id", id, "nodes", len(nodes), "backend", e.docs.Kind())
	return nil
}

// LoadNodes replaces the tree with nodes without touching the document
// store. History is cleared.
func (e *Editor) LoadNodes(nodes []node.Node) error {
	e.drag.Cancel()
	e.ExitDynamicEdit()
	return e.store.Load(nodes)
}

// Save writes the tree to the loaded document, or to id when given.
func (e *Editor) Save(ctx context.Context, id ...string) error {
	target := e.docID
	if len(id) > 0 && id[0] != "" {
		target = id[0]
	}
	if target == "" {
		return ErrNoDocument
	}
	if err := docstore.SaveNodes(ctx, e.docs, target, e.Nodes()); err != nil {
		return err
	}
	e.docID = target
	e.logger.Debug("document saved", "id", target, "backend", e.docs.Kind())
	return nil
}

// Nodes returns the persisted form of the tree: deep copies in tree order,
// placeholders excluded.
func (e *Editor) Nodes() []node.Node { return fwio.Nodes(e.store) }

// ============================================================================
// Edits
// ============================================================================

// Add inserts n under parentID at index (-1 appends) and propagates the
// new node to the other viewports. A missing id is generated.
func (e *Editor) Add(n node.Node, parentID string, index int) (string, error) {
	if n.ID == "" {
		n.ID = e.store.NewID()
	}
	err := e.store.Batch("add", func() error {
		if err := e.store.InsertAtIndex(n, index, parentID); err != nil {
			return err
		}
		return e.propagate(e.store.ViewportOf(n.ID))
	})
	if err != nil {
		return "", err
	}
	return n.ID, nil
}

// Move places id relative to target and propagates the new structure.
func (e *Editor) Move(id string, target store.Target) error {
	from := e.store.ViewportOf(id)
	return e.store.Batch("move", func() error {
		if err := e.store.MoveNode(id, true, target); err != nil {
			return err
		}
		return e.propagateMove(from, e.store.ViewportOf(id))
	})
}

// Delete removes id, its subtree and its counterparts in other viewports.
func (e *Editor) Delete(id string) error {
	return e.store.RemoveNode(id)
}

// Duplicate copies id and its counterparts and returns the copy's id.
func (e *Editor) Duplicate(id string) (string, error) {
	return e.store.Duplicate(id)
}

// UpdateStyle merges patch into id's style. In the primary viewport the
// change is propagated; in another viewport every patched property is
// flagged independent on id.
func (e *Editor) UpdateStyle(id string, patch node.Style) error {
	if !e.store.Has(id) {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	vp := e.store.ViewportOf(id)
	return e.store.Batch("style", func() error {
		if err := e.store.UpdateStyle(id, patch); err != nil {
			return err
		}
		switch {
		case vp == "" || vp == id:
			return nil
		case vp == e.store.PrimaryViewport():
			_, err := e.syncer.SyncFromViewport(vp)
			return err
		}
		for k := range patch {
			if err := e.store.SetIndependent(id, k, true); err != nil {
				return err
			}
		}
		return nil
	})
}

// Sync pushes the primary viewport onto all others.
func (e *Editor) Sync() (viewport.Stats, error) {
	return e.syncer.SyncViewports()
}

// SyncFrom pushes viewport vp onto all others.
func (e *Editor) SyncFrom(vp string) (viewport.Stats, error) {
	return e.syncer.SyncFromViewport(vp)
}

func (e *Editor) propagate(vp string) error {
	if vp == "" {
		return nil
	}
	_, err := e.syncer.SyncFromViewport(vp)
	return err
}

// propagateMove syncs from the destination viewport, or from the origin
// when the node left the viewports for the free canvas.
func (e *Editor) propagateMove(from, to string) error {
	if to != "" {
		return e.propagate(to)
	}
	return e.propagate(from)
}

// ============================================================================
// History
// ============================================================================

// Undo cancels any drag in progress and reverts the last entry.
func (e *Editor) Undo() bool {
	e.drag.Cancel()
	return e.history.Undo()
}

// Redo cancels any drag in progress and re-applies the next entry.
func (e *Editor) Redo() bool {
	e.drag.Cancel()
	return e.history.Redo()
}

// StartRecording opens a history session; see [history.History.StartRecording].
func (e *Editor) StartRecording() string { return e.history.StartRecording() }

// StopRecording closes the session id.
func (e *Editor) StopRecording(id string) error { return e.history.StopRecording(id) }

// ============================================================================
// Dynamic edit mode
// ============================================================================

// EnterDynamicEdit unlocks the children of family for selection and drops.
func (e *Editor) EnterDynamicEdit(family string) error {
	if len(e.store.Family(family)) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownFamily, family)
	}
	e.dynamicFamily = family
	e.drag.SetDynamicEditFamily(family)
	return nil
}

// ExitDynamicEdit locks all dynamic families again.
func (e *Editor) ExitDynamicEdit() {
	e.dynamicFamily = ""
	e.drag.SetDynamicEditFamily("")
}

// DynamicFamily returns the family in edit mode, or "".
func (e *Editor) DynamicFamily() string { return e.dynamicFamily }

// ResolveTarget maps a clicked node to the node an action applies to:
// the top-level node of its dynamic family unless that family is in edit
// mode.
func (e *Editor) ResolveTarget(id string) string {
	n, ok := e.store.Node(id)
	if !ok {
		return id
	}
	if e.dynamicFamily != "" && n.DynamicFamilyID == e.dynamicFamily {
		return id
	}
	return e.store.TopLevelDynamic(id)
}

// ============================================================================
// Drag
// ============================================================================

// BeginDrag arms a drag of ids at screen point p. Ids are resolved with
// ResolveTarget first.
func (e *Editor) BeginDrag(ids []string, p geom.Point, l drag.Layout) error {
	resolved := make([]string, 0, len(ids))
	for _, id := range ids {
		resolved = append(resolved, e.ResolveTarget(id))
	}
	if err := e.drag.Down(resolved, p, l); err != nil {
		return err
	}
	e.dragOrigin = ""
	if dragged := e.drag.IDs(); len(dragged) > 0 {
		e.dragOrigin = e.store.ViewportOf(dragged[0])
	}
	return nil
}

// DragMove forwards a pointer move.
func (e *Editor) DragMove(p geom.Point, l drag.Layout) drag.Feedback {
	return e.drag.Move(p, l)
}

// EndDrag commits the drop and propagates the result in one history entry.
// A failed propagation rolls the drop back.
func (e *Editor) EndDrag(p geom.Point, l drag.Layout) (drag.Commit, error) {
	var res drag.Commit
	err := e.store.Batch("move", func() error {
		var err error
		res, err = e.drag.Up(p, l)
		if err != nil || res.Clicked || len(res.IDs) == 0 {
			return err
		}
		return e.propagateMove(e.dragOrigin, e.store.ViewportOf(res.IDs[0]))
	})
	e.dragOrigin = ""
	return res, err
}

// CancelDrag aborts the drag without committing.
func (e *Editor) CancelDrag() {
	e.drag.Cancel()
	e.dragOrigin = ""
}

// Dragging reports whether a press or drag is in progress.
func (e *Editor) Dragging() bool { return e.drag.Active() }
