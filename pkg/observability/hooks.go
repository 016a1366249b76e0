// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about drags, history, viewport sync and
// document storage.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the editor packages
// never import a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDragHooks(&myDragHooks{})
//	    observability.SetHistoryHooks(&myHistoryHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Drag().OnDragStart(ids, "reorder")
//	// ... pointer moves ...
//	observability.Drag().OnDragEnd(ids, "reorder", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Drag Hooks
// =============================================================================

// DragHooks receives events from the drag controller.
type DragHooks interface {
	// OnDragStart is called when the pointer crosses the drag threshold.
	OnDragStart(ids []string, mode string)

	// OnDragEnd is called after a drop was committed or rejected.
	OnDragEnd(ids []string, mode string, duration time.Duration, err error)

	// OnDragCancel is called when a drag is aborted (Escape, teardown).
	OnDragCancel(ids []string, reason string)
}

// =============================================================================
// History Hooks
// =============================================================================

// HistoryHooks receives events from the undo/redo engine.
type HistoryHooks interface {
	// OnRecord is called when an entry is pushed onto the undo stack.
	OnRecord(label string, changes int, coalesced bool)

	// OnReplay is called after an undo (undo=true) or redo.
	OnReplay(label string, undo bool, err error)
}

// =============================================================================
// Sync Hooks
// =============================================================================

// SyncHooks receives events from the viewport sync engine.
type SyncHooks interface {
	// OnSync is called after a sync pass with the number of nodes created,
	// removed, moved and updated across all target viewports.
	OnSync(source string, created, removed, moved, updated int, duration time.Duration, err error)
}

// =============================================================================
// Document Store Hooks
// =============================================================================

// DocStoreHooks receives events from document storage backends.
type DocStoreHooks interface {
	// OnLoad records a document read. found is false for a missing document.
	OnLoad(ctx context.Context, backend, id string, found bool, duration time.Duration)

	// OnSave records a document write.
	OnSave(ctx context.Context, backend, id string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDragHooks is a no-op implementation of DragHooks.
type NoopDragHooks struct{}

func (NoopDragHooks) OnDragStart([]string, string)                     {}
func (NoopDragHooks) OnDragEnd([]string, string, time.Duration, error) {}
func (NoopDragHooks) OnDragCancel([]string, string)                    {}

// NoopHistoryHooks is a no-op implementation of HistoryHooks.
type NoopHistoryHooks struct{}

func (NoopHistoryHooks) OnRecord(string, int, bool)   {}
func (NoopHistoryHooks) OnReplay(string, bool, error) {}

// NoopSyncHooks is a no-op implementation of SyncHooks.
type NoopSyncHooks struct{}

func (NoopSyncHooks) OnSync(string, int, int, int, int, time.Duration, error) {}

// NoopDocStoreHooks is a no-op implementation of DocStoreHooks.
type NoopDocStoreHooks struct{}

func (NoopDocStoreHooks) OnLoad(context.Context, string, string, bool, time.Duration) {}
func (NoopDocStoreHooks) OnSave(context.Context, string, string, int, time.Duration, error) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	dragHooks     DragHooks     = NoopDragHooks{}
	historyHooks  HistoryHooks  = NoopHistoryHooks{}
	syncHooks     SyncHooks     = NoopSyncHooks{}
	docStoreHooks DocStoreHooks = NoopDocStoreHooks{}
	hooksMu       sync.RWMutex
)

// SetDragHooks registers custom drag hooks.
// This should be called once at application startup.
func SetDragHooks(h DragHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dragHooks = h
	}
}

// SetHistoryHooks registers custom history hooks.
func SetHistoryHooks(h HistoryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		historyHooks = h
	}
}

// SetSyncHooks registers custom sync hooks.
func SetSyncHooks(h SyncHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		syncHooks = h
	}
}

// SetDocStoreHooks registers custom document store hooks.
func SetDocStoreHooks(h DocStoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		docStoreHooks = h
	}
}

// Drag returns the registered drag hooks.
func Drag() DragHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dragHooks
}

// History returns the registered history hooks.
func History() HistoryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return historyHooks
}

// Sync returns the registered sync hooks.
func Sync() SyncHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return syncHooks
}

// DocStore returns the registered document store hooks.
func DocStore() DocStoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return docStoreHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	dragHooks = NoopDragHooks{}
	historyHooks = NoopHistoryHooks{}
	syncHooks = NoopSyncHooks{}
	docStoreHooks = NoopDocStoreHooks{}
}
