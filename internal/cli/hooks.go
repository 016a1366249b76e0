package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/framewright/framewright/pkg/observability"
)

// logHooks routes observability events to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.DragHooks     = logHooks{}
	_ observability.HistoryHooks  = logHooks{}
	_ observability.SyncHooks     = logHooks{}
	_ observability.DocStoreHooks = logHooks{}
)

// registerLogHooks installs logHooks for every event category.
func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("hooks")}
	observability.SetDragHooks(h)
	observability.SetHistoryHooks(h)
	observability.SetSyncHooks(h)
	observability.SetDocStoreHooks(h)
}

func (h logHooks) OnDragStart(ids []string, mode string) {
	h.logger.Debug("drag start", "ids", ids, "mode", mode)
}

func (h logHooks) OnDragEnd(ids []string, mode string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("drag rejected", "ids", ids, "mode", mode, "duration", d, "err", err)
		return
	}
	h.logger.Debug("drag end", "ids", ids, "mode", mode, "duration", d)
}

func (h logHooks) OnDragCancel(ids []string, reason string) {
	h.logger.Debug("drag cancel", "ids", ids, "reason", reason)
}

func (h logHooks) OnRecord(label string, changes int, coalesced bool) {
	h.logger.Debug("history record", "label", label, "changes", changes, "coalesced", coalesced)
}

func (h logHooks) OnReplay(label string, undo bool, err error) {
	op := "redo"
	if undo {
		op = "undo"
	}
	if err != nil {
		h.logger.Warn("history "+op+" failed", "label", label, "err", err)
		return
	}
	h.logger.Debug("history "+op, "label", label)
}

func (h logHooks) OnSync(source string, created, removed, moved, updated int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("viewport sync failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("viewport sync", "source", source,
		"created", created, "removed", removed, "moved", moved, "updated", updated, "duration", d)
}

func (h logHooks) OnLoad(_ context.Context, backend, id string, found bool, d time.Duration) {
	h.logger.Debug("document load", "backend", backend, "id", id, "found", found, "duration", d)
}

func (h logHooks) OnSave(_ context.Context, backend, id string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("document save failed", "backend", backend, "id", id, "err", err)
		return
	}
	h.logger.Debug("document save", "backend", backend, "id", id, "bytes", size, "duration", d)
}
