package store

import (
	"errors"
	"fmt"
	"slices"
)

// Origin tells subscribers who produced an event.
type Origin int

const (
	// OriginUser marks edits made through the mutation API.
	OriginUser Origin = iota
	// OriginHistory marks undo/redo replay.
	OriginHistory
)

// Event is the batched notification for one logical gesture.
type Event struct {
	Label   string
	Changes []Change
	Origin  Origin

	// Transient is set for changes that must never reach the undo stack
	// (drag placeholders).
	Transient bool

	// Animate is set when any move in the batch asked to be animated.
	Animate bool

	// Reset is set by Load: the whole tree was replaced.
	Reset bool
}

type tx struct {
	label   string
	changes []Change
	animate bool
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id int
	s  *Store
}

// Remove stops delivery to the subscriber. Removing twice is a no-op.
func (h Subscription) Remove() {
	if h.s == nil {
		return
	}
	h.s.subs = slices.DeleteFunc(h.s.subs, func(sub *subscriber) bool { return sub.id == h.id })
}

// Subscribe registers fn to receive one Event per committed batch.
// Subscribers run synchronously, in registration order, after the batch
// has been applied.
func (s *Store) Subscribe(fn func(Event)) Subscription {
	s.nextSub++
	s.subs = append(s.subs, &subscriber{id: s.nextSub, fn: fn})
	return Subscription{id: s.nextSub, s: s}
}

func (s *Store) emit(ev Event) {
	for _, sub := range slices.Clone(s.subs) {
		sub.fn(ev)
	}
}

// record routes a freshly applied change to the open transient scope, the
// open batch, or straight to subscribers.
func (s *Store) record(c Change, animate bool) {
	switch {
	case s.transient != nil:
		s.transient.changes = append(s.transient.changes, c)
	case s.tx != nil:
		s.tx.changes = append(s.tx.changes, c)
		s.tx.animate = s.tx.animate || animate
	default:
		s.emit(Event{Label: string(c.Kind()), Changes: []Change{c}, Animate: animate})
	}
}

// InBatch reports whether a batch is open.
func (s *Store) InBatch() bool { return s.tx != nil }

// Batch runs fn and delivers every change it makes as a single event.
// Nested batches fold into the outermost one. If fn returns an error, the
// changes made by this batch are reverted and the error is returned.
func (s *Store) Batch(label string, fn func() error) error {
	outer := s.tx == nil
	if outer {
		s.tx = &tx{label: label}
	}
	start := len(s.tx.changes)

	err := fn()
	if err != nil {
		s.rollback(s.tx.changes[start:])
		s.tx.changes = s.tx.changes[:start]
	}

	if outer {
		t := s.tx
		s.tx = nil
		if len(t.changes) > 0 {
			s.emit(Event{Label: t.label, Changes: t.changes, Animate: t.animate})
		}
	}
	return err
}

// Transient runs fn and delivers its changes as one event flagged
// Transient. Transient changes never join an enclosing batch.
func (s *Store) Transient(label string, fn func()) {
	if s.transient != nil {
		fn()
		return
	}
	s.transient = &tx{label: label}
	fn()
	t := s.transient
	s.transient = nil
	if len(t.changes) > 0 {
		s.emit(Event{Label: t.label, Changes: t.changes, Transient: true})
	}
}

func (s *Store) rollback(cs []Change) {
	for i := len(cs) - 1; i >= 0; i-- {
		if err := cs[i].revert(s); err != nil {
			s.logger.Error("rollback failed", "change", cs[i].Kind(), "node", cs[i].NodeID(), "err", err)
		}
	}
}

// Revert undoes cs (in reverse order) and emits one event with
// OriginHistory. If any change fails to revert, the already reverted ones
// are re-applied and an error wrapping ErrDesync is returned, leaving the
// tree as it was.
func (s *Store) Revert(label string, cs []Change) error {
	return s.replay(label, cs, true)
}

// Reapply re-applies cs in order and emits one event with OriginHistory.
// Failure handling mirrors Revert.
func (s *Store) Reapply(label string, cs []Change) error {
	return s.replay(label, cs, false)
}

func (s *Store) replay(label string, cs []Change, backward bool) error {
	if s.tx != nil || s.transient != nil {
		return ErrInBatch
	}
	done := make([]Change, 0, len(cs))
	step := func(c Change) error {
		if backward {
			return c.revert(s)
		}
		return c.apply(s)
	}
	undoStep := func(c Change) error {
		if backward {
			return c.apply(s)
		}
		return c.revert(s)
	}

	order := slices.Clone(cs)
	if backward {
		slices.Reverse(order)
	}
	for _, c := range order {
		if err := step(c); err != nil {
			for i := len(done) - 1; i >= 0; i-- {
				if uerr := undoStep(done[i]); uerr != nil {
					err = errors.Join(err, uerr)
				}
			}
			return fmt.Errorf("replay %s: %w", label, err)
		}
		done = append(done, c)
	}
	if len(done) > 0 {
		s.emit(Event{Label: label, Changes: done, Origin: OriginHistory})
	}
	return nil
}
