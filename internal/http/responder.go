package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/liturgy-roster/internal/application"
	"github.com/example/liturgy-roster/internal/engine"
	"github.com/example/liturgy-roster/internal/roster"
)

var (
	errBadRequestBody = errors.New("invalid request body")
	errMissingID      = errors.New("missing resource identifier")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := err.Error(); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError translates the service error taxonomy into HTTP
// statuses: validation issues are 422, eligibility rejections and empty undo
// stacks are 409, lookups are 404, a missing snapshot backend is 503.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var vErr *application.ValidationError
	var eligErr *engine.EligibilityError
	switch {
	case errors.As(err, &vErr):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			Message: "validation failed",
			Errors:  vErr.FieldErrors,
		})
	case errors.As(err, &eligErr):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "NOT_ELIGIBLE",
			Message:   eligErr.Error(),
		})
	case errors.Is(err, engine.ErrSlotNotFound), errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: err.Error()})
	case errors.Is(err, roster.ErrNoHistory):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "nothing to undo"})
	case errors.Is(err, application.ErrNoSnapshotStore):
		r.writeJSON(ctx, w, http.StatusServiceUnavailable, errorResponse{Message: err.Error()})
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
