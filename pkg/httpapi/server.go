package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/framewright/framewright/pkg/buildinfo"
	"github.com/framewright/framewright/pkg/editor"
	fwerrors "github.com/framewright/framewright/pkg/errors"
	"github.com/framewright/framewright/pkg/node"
	"github.com/framewright/framewright/pkg/store"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server exposes an editor over HTTP.
type Server struct {
	mu     sync.Mutex
	ed     *editor.Editor
	logger *log.Logger
	router chi.Router
}

// New creates a server for ed. A nil logger uses the editor's logger.
func New(ed *editor.Editor, logger *log.Logger) *Server {
	if logger == nil {
		logger = ed.Logger()
	}
	s := &Server{ed: ed, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/version", s.handleVersion)
	r.Route("/nodes", func(r chi.Router) {
		r.Get("/", s.handleListNodes)
		r.Post("/", s.handleAddNode)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(validID)
			r.Get("/", s.handleGetNode)
			r.Delete("/", s.handleDeleteNode)
			r.Get("/children", s.handleChildren)
			r.Post("/move", s.handleMoveNode)
			r.Patch("/style", s.handleUpdateStyle)
			r.Post("/duplicate", s.handleDuplicate)
		})
	})
	r.Post("/sync", s.handleSync)
	r.Post("/undo", s.handleUndo)
	r.Post("/redo", s.handleRedo)
	r.Post("/save", s.handleSave)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// ============================================================================
// Middleware
// ============================================================================

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func validID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fwerrors.ValidateNodeID(chi.URLParam(r, "id")); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
				Code:    fwerrors.GetCode(err),
				Message: fwerrors.UserMessage(err),
			}})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fwerrors.Wrap(fwerrors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

// ============================================================================
// Handlers
// ============================================================================

type addRequest struct {
	Node     node.Node `json:"node"`
	ParentID string    `json:"parentId"`
	Index    *int      `json:"index"`
}

type moveRequest struct {
	TargetID string        `json:"targetId"`
	Position node.Position `json:"position"`
}

type idResponse struct {
	ID string `json:"id"`
}

type changedResponse struct {
	Changed bool `json:"changed"`
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleListNodes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	nodes := s.ed.Nodes()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"nodes": nodes})
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	n, ok := s.ed.Store().Node(id)
	var out node.Node
	if ok {
		out = *n.Clone()
	}
	s.mu.Unlock()
	if !ok || out.IsPlaceholder() {
		s.writeError(w, r, fmt.Errorf("%w: %s", store.ErrNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleChildren(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	ok := s.ed.Store().Has(id)
	kids := append([]string{}, s.ed.Store().Children(id)...)
	s.mu.Unlock()
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: %s", store.ErrNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"children": kids})
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Node.IsPlaceholder() {
		s.writeError(w, r, fwerrors.New(fwerrors.ErrCodeInvalidInput, "placeholders cannot be added"))
		return
	}
	if req.Node.ID != "" {
		if err := fwerrors.ValidateNodeID(req.Node.ID); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	index := -1
	if req.Index != nil {
		index = *req.Index
	}

	s.mu.Lock()
	id, err := s.ed.Add(req.Node, req.ParentID, index)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleMoveNode(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !req.Position.Valid() {
		s.writeError(w, r, fwerrors.New(fwerrors.ErrCodeInvalidInput, "invalid position %q", req.Position))
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	err := s.ed.Move(id, store.Target{ID: req.TargetID, Position: req.Position})
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateStyle(w http.ResponseWriter, r *http.Request) {
	var patch node.Style
	if err := decode(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	err := s.ed.UpdateStyle(id, patch)
	var out node.Node
	if err == nil {
		n, _ := s.ed.Store().Node(id)
		out = *n.Clone()
	}
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.ed.Delete(chi.URLParam(r, "id"))
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDuplicate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	id, err := s.ed.Duplicate(chi.URLParam(r, "id"))
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats, err := s.ed.Sync()
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	changed := s.ed.Undo()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, changedResponse{Changed: changed})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	changed := s.ed.Redo()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, changedResponse{Changed: changed})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	doc := r.URL.Query().Get("document")
	if doc != "" {
		if err := fwerrors.ValidateDocumentID(doc); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	s.mu.Lock()
	err := s.ed.Save(r.Context(), doc)
	id := s.ed.DocumentID()
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"document": id})
}
