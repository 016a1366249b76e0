package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/framewright/framewright/pkg/editor"
	fwerrors "github.com/framewright/framewright/pkg/errors"
	"github.com/framewright/framewright/pkg/store"
	"github.com/framewright/framewright/pkg/viewport"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    fwerrors.Code `json:"code"`
	Message string        `json:"message"`
}

// classify attaches a code to core sentinel errors. Errors that already
// carry a code pass through.
func classify(err error) error {
	if fwerrors.GetCode(err) != "" {
		return err
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fwerrors.Wrap(fwerrors.ErrCodeNotFound, err, "node not found")
	case errors.Is(err, store.ErrInvalidNodeID), errors.Is(err, store.ErrInvalidType),
		errors.Is(err, editor.ErrNoDocument), errors.Is(err, editor.ErrUnknownFamily),
		errors.Is(err, viewport.ErrNotViewport):
		return fwerrors.Wrap(fwerrors.ErrCodeInvalidInput, err, "invalid request")
	case errors.Is(err, store.ErrDuplicateID), errors.Is(err, store.ErrCycle),
		errors.Is(err, store.ErrViewportMove), errors.Is(err, store.ErrDuplicateViewport),
		errors.Is(err, store.ErrDuplicateShared), errors.Is(err, store.ErrInvalidTarget),
		errors.Is(err, store.ErrImmutableField):
		return fwerrors.Wrap(fwerrors.ErrCodeConflict, err, "rejected")
	}
	return fwerrors.Wrap(fwerrors.ErrCodeInternal, err, "internal error")
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	err = classify(err)
	status := fwerrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    fwerrors.GetCode(err),
		Message: fwerrors.UserMessage(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
