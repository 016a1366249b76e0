package history

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/framewright/framewright/pkg/observability"
	"github.com/framewright/framewright/pkg/store"
)

const (
	DefaultDepth          = 50
	DefaultCoalesceWindow = 50 * time.Millisecond
)

var (
	// ErrNoSession is returned by StopRecording when no session is running.
	ErrNoSession = errors.New("no recording session")

	// ErrSessionMismatch is returned by StopRecording when the id does not
	// match the running session. The session keeps running.
	ErrSessionMismatch = errors.New("recording session id mismatch")
)

// Options configures a History.
type Options struct {
	Depth          int
	CoalesceWindow time.Duration
	Clock          func() time.Time
	Logger         *log.Logger
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if o.Depth <= 0 {
		o.Depth = DefaultDepth
	}
	if o.CoalesceWindow <= 0 {
		o.CoalesceWindow = DefaultCoalesceWindow
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

type entry struct {
	label   string
	changes []store.Change
	at      time.Time
	removal bool
}

type session struct {
	id      string
	label   string
	changes []store.Change
}

// History is the undo/redo engine of one store. It is not safe for
// concurrent use.
type History struct {
	store  *store.Store
	opts   Options
	logger *log.Logger
	sub    store.Subscription

	past    []entry
	future  []entry
	session *session
	undoing bool
}

// New creates a History subscribed to s.
func New(s *store.Store, opts Options) *History {
	opts.SetDefaults()
	h := &History{store: s, opts: opts, logger: opts.Logger}
	h.sub = s.Subscribe(h.onEvent)
	return h
}

// Close unsubscribes from the store.
func (h *History) Close() { h.sub.Remove() }

func (h *History) onEvent(ev store.Event) {
	if ev.Reset {
		h.Clear()
		return
	}
	if ev.Transient || ev.Origin == store.OriginHistory || h.undoing || len(ev.Changes) == 0 {
		return
	}
	if h.session != nil {
		if h.session.label == "" {
			h.session.label = ev.Label
		}
		h.session.changes = append(h.session.changes, ev.Changes...)
		return
	}
	h.push(ev.Label, ev.Changes)
}

func (h *History) push(label string, changes []store.Change) {
	now := h.opts.Clock()
	removal := store.Removals(changes)
	h.future = nil

	if n := len(h.past); removal && n > 0 {
		last := &h.past[n-1]
		if last.removal && now.Sub(last.at) <= h.opts.CoalesceWindow {
			last.changes = append(last.changes, changes...)
			last.at = now
			observability.History().OnRecord(last.label, len(last.changes), true)
			return
		}
	}

	h.past = append(h.past, entry{label: label, changes: changes, at: now, removal: removal})
	if over := len(h.past) - h.opts.Depth; over > 0 {
		h.past = append(h.past[:0:0], h.past[over:]...)
	}
	observability.History().OnRecord(label, len(changes), false)
}

// SetStateWithHistory runs fn as one labelled batch; its changes become a
// single undo entry. A failing fn is rolled back and records nothing.
func (h *History) SetStateWithHistory(label string, fn func() error) error {
	return h.store.Batch(label, fn)
}

// Undo reverts the most recent entry and reports whether anything changed.
func (h *History) Undo() bool {
	h.finishSession()
	if len(h.past) == 0 {
		return false
	}
	e := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]

	if err := h.replay(e, true); err != nil {
		if errors.Is(err, store.ErrInBatch) {
			h.past = append(h.past, e)
		}
		return false
	}
	h.future = append(h.future, e)
	return true
}

// Redo re-applies the most recently undone entry.
func (h *History) Redo() bool {
	if h.session != nil || len(h.future) == 0 {
		return false
	}
	e := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]

	if err := h.replay(e, false); err != nil {
		if errors.Is(err, store.ErrInBatch) {
			h.future = append(h.future, e)
		}
		return false
	}
	e.removal = false // never coalesce into a redone entry
	h.past = append(h.past, e)
	return true
}

func (h *History) replay(e entry, undo bool) error {
	h.undoing = true
	var err error
	if undo {
		err = h.store.Revert(e.label, e.changes)
	} else {
		err = h.store.Reapply(e.label, e.changes)
	}
	h.undoing = false

	observability.History().OnReplay(e.label, undo, err)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrInBatch):
		h.logger.Warn("history replay inside a batch", "label", e.label, "undo", undo)
	default:
		h.logger.Warn("history entry dropped", "label", e.label, "undo", undo, "err", err)
	}
	return err
}

// StartRecording opens a session and returns its id. Calling it while a
// session is running returns the running session's id.
func (h *History) StartRecording() string {
	if h.session != nil {
		return h.session.id
	}
	h.session = &session{id: uuid.NewString()}
	return h.session.id
}

// StopRecording closes the session id and records everything it collected
// as one entry.
func (h *History) StopRecording(id string) error {
	if h.session == nil {
		return ErrNoSession
	}
	if h.session.id != id {
		return ErrSessionMismatch
	}
	h.finishSession()
	return nil
}

// Recording reports whether a session is running.
func (h *History) Recording() bool { return h.session != nil }

func (h *History) finishSession() {
	sess := h.session
	if sess == nil {
		return
	}
	h.session = nil
	if cs := store.Compact(sess.changes); len(cs) > 0 {
		h.push(sess.label, cs)
	}
}

// IsUndoing reports whether an undo or redo replay is in progress.
// Subscribers use it to avoid reacting to replayed changes as edits.
func (h *History) IsUndoing() bool { return h.undoing }

// CanUndo reports whether Undo has an entry to revert.
func (h *History) CanUndo() bool { return len(h.past) > 0 || (h.session != nil && len(h.session.changes) > 0) }

// CanRedo reports whether Redo has an entry to re-apply.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Labels returns the labels of the undo stack, oldest first.
func (h *History) Labels() []string {
	out := make([]string, len(h.past))
	for i, e := range h.past {
		out[i] = e.label
	}
	return out
}

// Clear drops both stacks and any running session.
func (h *History) Clear() {
	h.past = nil
	h.future = nil
	h.session = nil
}
