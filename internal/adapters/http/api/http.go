// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider
	RiskDependencies
	SessionDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	riskHandler    *RiskHandler
	sessionHandler *SessionHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		riskHandler:    NewRiskHandler(deps),
		sessionHandler: NewSessionHandler(deps),
	}
}

// Routes builds the router serving every endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/risk/profile", s.riskHandler.HandleDefaultProfile)
		r.Post("/risk/predict", s.riskHandler.HandlePredict)

		r.Post("/sessions", s.sessionHandler.HandleCreate)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.sessionHandler.HandleGet)
			r.Delete("/", s.sessionHandler.HandleDelete)
			r.Post("/file", s.sessionHandler.HandleSelectFile)
			r.Post("/upload", s.sessionHandler.HandleUpload)
			r.Post("/resubmit", s.sessionHandler.HandleResubmit)
			r.Post("/cancel", s.sessionHandler.HandleCancel)
			r.Get("/events", s.sessionHandler.HandleEvents)
		})
	})
	return r
}

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// decodeJSON reads a size-capped JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: requestIDFromContext(r.Context())})
}

// writeServiceError maps err and writes it.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := mapError(err)
	writeError(w, r, status, code, err)
}
