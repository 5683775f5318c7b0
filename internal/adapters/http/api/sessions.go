package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	service "github.com/okian/fightlab/internal/app"
	"github.com/okian/fightlab/internal/domain/model"
)

// SessionDependencies defines the interface for session operations.
type SessionDependencies interface {
	CreateSession(ctx context.Context, kind service.Kind) (service.SessionView, error)
	SelectFile(ctx context.Context, id string, file model.SubmissionFile) error
	BeginUpload(ctx context.Context, id string) error
	Resubmit(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Session(ctx context.Context, id string) (service.SessionView, error)
	Events(ctx context.Context, id string, after uint64) ([]service.EventView, error)
	CloseSession(ctx context.Context, id string) error
}

// SessionHandler handles pipeline session requests.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

type createSessionRequest struct {
	Kind string `json:"kind"`
}

type eventsResponse struct {
	Events []service.EventView `json:"events"`
}

// HandleCreate handles POST /v1/sessions requests.
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	kind, err := service.ParseKind(req.Kind)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	view, err := h.deps.CreateSession(r.Context(), kind)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// HandleGet handles GET /v1/sessions/{id} requests.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.writeView(w, r, chi.URLParam(r, "id"))
}

// HandleDelete handles DELETE /v1/sessions/{id} requests.
func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.CloseSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSelectFile handles POST /v1/sessions/{id}/file requests.
func (h *SessionHandler) HandleSelectFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var file model.SubmissionFile
	if err := decodeJSON(w, r, &file); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.deps.SelectFile(r.Context(), id, file); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeView(w, r, id)
}

// HandleUpload handles POST /v1/sessions/{id}/upload requests.
func (h *SessionHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.deps.BeginUpload)
}

// HandleResubmit handles POST /v1/sessions/{id}/resubmit requests.
func (h *SessionHandler) HandleResubmit(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.deps.Resubmit)
}

// HandleCancel handles POST /v1/sessions/{id}/cancel requests.
func (h *SessionHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.deps.Cancel)
}

// HandleEvents handles GET /v1/sessions/{id}/events?after=N requests.
func (h *SessionHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	var after uint64
	if raw := r.URL.Query().Get("after"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeServiceError(w, r, fmt.Errorf("%w: after must be a non-negative integer", ErrBadRequest))
			return
		}
		after = n
	}
	evs, err := h.deps.Events(r.Context(), chi.URLParam(r, "id"), after)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: evs})
}

func (h *SessionHandler) command(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) error) {
	id := chi.URLParam(r, "id")
	if err := fn(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.writeView(w, r, id)
}

func (h *SessionHandler) writeView(w http.ResponseWriter, r *http.Request, id string) {
	view, err := h.deps.Session(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
