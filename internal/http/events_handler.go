package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/example/liturgy-roster/internal/application"
	"github.com/example/liturgy-roster/internal/roster"
)

type eventService interface {
	CreateEvent(input application.EventInput) (roster.Event, error)
	UpdateEvent(id string, update application.EventUpdate) (roster.Event, error)
	DeleteEvent(id string) error
	SetEventPool(id string, personIDs []string) (roster.Event, error)
	ListEvents(input application.PeriodInput) ([]roster.Event, error)
	Suggest(eventIdentifier, role string, topN int, seed *int64) ([]application.Suggestion, error)
}

type EventHandler struct {
	service   eventService
	responder responder
}

func NewEventHandler(service eventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{service: service, responder: newResponder(logger)}
}

// periodFromQuery maps the month/from/to query parameters onto a period
// selector shared by every period-scoped endpoint.
func periodFromQuery(query url.Values) application.PeriodInput {
	return application.PeriodInput{
		Month: query.Get("month"),
		From:  query.Get("from"),
		To:    query.Get("to"),
	}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(periodFromQuery(r.URL.Query()))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if events == nil {
		events = []roster.Event{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, events)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input application.EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	event, err := h.service.CreateEvent(input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ResourceIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	var update application.EventUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	event, err := h.service.UpdateEvent(id, update)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ResourceIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	if err := h.service.DeleteEvent(id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type poolRequest struct {
	PersonIDs []string `json:"person_ids"`
}

func (h *EventHandler) SetPool(w http.ResponseWriter, r *http.Request) {
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
	event, err := h.service.SetEventPool(id, req.PersonIDs)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, event)
}

// Suggestions ranks candidates for one slot. The role comes from the
// required role query parameter; top_n and seed are optional.
func (h *EventHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	id, ok := ResourceIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	query := r.URL.Query()
	role := query.Get("role")
	topN := parseIntDefault(query.Get("top_n"), 0)
	seed, err := parseSeed(query.Get("seed"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	suggestions, err := h.service.Suggest(id, role, topN, seed)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if suggestions == nil {
		suggestions = []application.Suggestion{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, suggestions)
}
