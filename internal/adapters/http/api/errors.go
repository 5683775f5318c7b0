package api

import (
	"errors"
	"net/http"

	"github.com/okian/fightlab/internal/adapters/repository"
	service "github.com/okian/fightlab/internal/app"
	"github.com/okian/fightlab/internal/domain/media"
	"github.com/okian/fightlab/internal/domain/risk"
	"github.com/okian/fightlab/internal/pipeline"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBodyTooLarge = errors.New("request body too large")
)

// mapError translates a service error into a status code and an error code.
// Validation failures use the rejection reason as code.
func mapError(err error) (int, string) {
	var verr *media.ValidationError
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, verr.Reason
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "body_too_large"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, risk.ErrInvalidProfile):
		return http.StatusBadRequest, "invalid_profile"
	case errors.Is(err, service.ErrUnknownKind):
		return http.StatusBadRequest, "unknown_kind"
	case errors.Is(err, pipeline.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrCapacity):
		return http.StatusTooManyRequests, "capacity"
	case errors.Is(err, service.ErrNotStarted),
		errors.Is(err, pipeline.ErrClosed),
		errors.Is(err, pipeline.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
