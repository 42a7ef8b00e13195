package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/liturgy-roster/internal/application"
	"github.com/example/liturgy-roster/internal/engine"
)

type rosterService interface {
	Recalculate(input application.PeriodInput, seed *int64) (engine.RecalculateResult, error)
	ResetAssignments(input application.PeriodInput) (int, error)
	Assign(eventIdentifier, role, personID string) error
	ClearAssignment(eventIdentifier, role string) error
	Swap(eventA, roleA, eventB, roleB string) error
	Schedule(input application.PeriodInput) ([]application.ScheduleRow, error)
	UnfilledSlots(input application.PeriodInput) ([]application.FreeSlot, error)
	CheckConflicts(input application.PeriodInput) ([]engine.Violation, error)
	Statistics(input application.PeriodInput) ([]engine.PersonStats, error)
	ExportCSV(input application.PeriodInput) ([]byte, error)
	ExportICS(input application.PeriodInput) ([]byte, error)
	Undo() (string, error)
	SaveState() error
	LoadState() error
}

type RosterHandler struct {
	service   rosterService
	responder responder
}

func NewRosterHandler(service rosterService, logger *slog.Logger) *RosterHandler {
	return &RosterHandler{service: service, responder: newResponder(logger)}
}

type scheduleRequest struct {
	Month string `json:"month,omitempty"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Seed  *int64 `json:"seed,omitempty"`
}

func (req scheduleRequest) period() application.PeriodInput {
	return application.PeriodInput{Month: req.Month, From: req.From, To: req.To}
}

type recalculateResponse struct {
	Filled  int              `json:"filled"`
	Skipped []engine.SlotRef `json:"skipped"`
}

func (h *RosterHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	result, err := h.service.Recalculate(req.period(), req.Seed)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	resp := recalculateResponse{Filled: result.Filled, Skipped: result.Skipped}
	if resp.Skipped == nil {
		resp.Skipped = []engine.SlotRef{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

type resetResponse struct {
	Removed int `json:"removed"`
}

func (h *RosterHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	removed, err := h.service.ResetAssignments(req.period())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resetResponse{Removed: removed})
}

type assignRequest struct {
	Event    string `json:"event"`
	Role     string `json:"role"`
	PersonID string `json:"person_id,omitempty"`
}

func (h *RosterHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := h.service.Assign(req.Event, req.Role, req.PersonID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *RosterHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := h.service.ClearAssignment(req.Event, req.Role); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type swapRequest struct {
	EventA string `json:"event_a"`
	RoleA  string `json:"role_a"`
	EventB string `json:"event_b"`
	RoleB  string `json:"role_b"`
}

func (h *RosterHandler) Swap(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := h.service.Swap(req.EventA, req.RoleA, req.EventB, req.RoleB); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *RosterHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Schedule(periodFromQuery(r.URL.Query()))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if rows == nil {
		rows = []application.ScheduleRow{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, rows)
}

func (h *RosterHandler) Unfilled(w http.ResponseWriter, r *http.Request) {
	slots, err := h.service.UnfilledSlots(periodFromQuery(r.URL.Query()))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if slots == nil {
		slots = []application.FreeSlot{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, slots)
}

func (h *RosterHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	violations, err := h.service.CheckConflicts(periodFromQuery(r.URL.Query()))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if violations == nil {
		violations = []engine.Violation{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, violations)
}

func (h *RosterHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(periodFromQuery(r.URL.Query()))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if stats == nil {
		stats = []engine.PersonStats{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, stats)
}

func (h *RosterHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportCSV(periodFromQuery(r.URL.Query()))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *RosterHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportICS(periodFromQuery(r.URL.Query()))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type undoResponse struct {
	Reverted string `json:"reverted"`
}

func (h *RosterHandler) Undo(w http.ResponseWriter, r *http.Request) {
	label, err := h.service.Undo()
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, undoResponse{Reverted: label})
}

func (h *RosterHandler) SaveState(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SaveState(); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *RosterHandler) LoadState(w http.ResponseWriter, r *http.Request) {
	if err := h.service.LoadState(); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// decodeOptionalBody decodes a JSON body when one is present; an empty body
// leaves dst at its zero value.
func decodeOptionalBody(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

// parseSeed reads an optional tie-break seed from a query parameter.
func parseSeed(value string) (*int64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		vErr := &application.ValidationError{}
		vErr.FieldErrors = map[string]string{"seed": "seed must be an integer"}
		return nil, vErr
	}
	return &parsed, nil
}
