package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/liturgy-roster/internal/application"
	"github.com/example/liturgy-roster/internal/roster"
)

type seriesService interface {
	CreateRecurrence(input application.RecurrenceInput) (roster.Recurrence, error)
	DeleteRecurrence(id string) error
	ListRecurrences() []roster.Recurrence
	GenerateRecurrence(id string, input application.PeriodInput) ([]roster.Event, error)
	ListSeries() []roster.Series
	SetSeriesPool(id string, personIDs []string) (roster.Series, error)
	RebaseSeries(id, newStart string) (roster.Series, error)
	DeleteSeries(id string) error
}

type SeriesHandler struct {
	service   seriesService
	responder responder
}

func NewSeriesHandler(service seriesService, logger *slog.Logger) *SeriesHandler {
	return &SeriesHandler{service: service, responder: newResponder(logger)}
}

func (h *SeriesHandler) ListRecurrences(w http.ResponseWriter, r *http.Request) {
	recurrences := h.service.ListRecurrences()
	if recurrences == nil {
		recurrences = []roster.Recurrence{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, recurrences)
}

func (h *SeriesHandler) CreateRecurrence(w http.ResponseWriter, r *http.Request) {
	var input application.RecurrenceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	rec, err := h.service.CreateRecurrence(input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, rec)
}

func (h *SeriesHandler) DeleteRecurrence(w http.ResponseWriter, r *http.Request) {
	id, ok := ResourceIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	if err := h.service.DeleteRecurrence(id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type generateRequest struct {
	Month string `json:"month,omitempty"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

type generateResponse struct {
	Created []roster.Event `json:"created"`
}

func (h *SeriesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id, ok := ResourceIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	created, err := h.service.GenerateRecurrence(id, application.PeriodInput{Month: req.Month, From: req.From, To: req.To})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if created == nil {
		created = []roster.Event{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, generateResponse{Created: created})
}

func (h *SeriesHandler) ListSeries(w http.ResponseWriter, r *http.Request) {
	series := h.service.ListSeries()
	if series == nil {
		series = []roster.Series{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, series)
}

func (h *SeriesHandler) SetPool(w http.ResponseWriter, r *http.Request) {
	id, ok := ResourceIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	var req poolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	series, err := h.service.SetSeriesPool(id, req.PersonIDs)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, series)
}

type rebaseRequest struct {
	Start string `json:"start"`
}

func (h *SeriesHandler) Rebase(w http.ResponseWriter, r *http.Request) {
	id, ok := ResourceIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	var req rebaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	series, err := h.service.RebaseSeries(id, req.Start)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, series)
}

func (h *SeriesHandler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	id, ok := ResourceIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	if err := h.service.DeleteSeries(id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
