package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/liturgy-roster/internal/application"
	"github.com/example/liturgy-roster/internal/roster"
)

type peopleService interface {
	CreatePerson(input application.PersonInput) (roster.Person, error)
	UpdatePerson(id string, update application.PersonUpdate) (roster.Person, error)
	DeletePerson(id string) error
	AddRoles(id string, codes []string) (roster.Person, error)
	RemoveRoles(id string, codes []string) (roster.Person, error)
	AddAvailabilityBlock(personID, start, end, note string) (roster.AvailabilityBlock, error)
	RemoveAvailabilityBlock(personID string, index int) error
	ListPeople() []roster.Person
	GetPerson(id string) (application.PersonDetail, error)
}

type PeopleHandler struct {
	service   peopleService
	responder responder
}

func NewPeopleHandler(service peopleService, logger *slog.Logger) *PeopleHandler {
	return &PeopleHandler{service: service, responder: newResponder(logger)}
}

func (h *PeopleHandler) List(w http.ResponseWriter, r *http.Request) {
	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.service.ListPeople())
}

func (h *PeopleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input application.PersonInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	person, err := h.service.CreatePerson(input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, person)
}

func (h *PeopleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ResourceIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	detail, err := h.service.GetPerson(id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, detail)
}

func (h *PeopleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ResourceIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	var update application.PersonUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	person, err := h.service.UpdatePerson(id, update)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, person)
}

func (h *PeopleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ResourceIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	if err := h.service.DeletePerson(id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type rolesRequest struct {
	Roles []string `json:"roles"`
}

func (h *PeopleHandler) AddRoles(w http.ResponseWriter, r *http.Request) {
	h.mutateRoles(w, r, h.service.AddRoles)
}

func (h *PeopleHandler) RemoveRoles(w http.ResponseWriter, r *http.Request) {
	h.mutateRoles(w, r, h.service.RemoveRoles)
}

func (h *PeopleHandler) mutateRoles(w http.ResponseWriter, r *http.Request, fn func(string, []string) (roster.Person, error)) {
	id, ok := ResourceIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	var req rolesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	person, err := fn(id, req.Roles)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, person)
}

type blockRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Note  string `json:"note,omitempty"`
}

func (h *PeopleHandler) AddBlock(w http.ResponseWriter, r *http.Request) {
	id, ok := ResourceIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	block, err := h.service.AddAvailabilityBlock(id, req.Start, req.End, req.Note)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, block)
}

// RemoveBlock deletes one availability block addressed by list index, as
// returned by Get.
func (h *PeopleHandler) RemoveBlock(w http.ResponseWriter, r *http.Request, indexPart string) {
	id, ok := ResourceIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	index, err := strconv.Atoi(strings.TrimSpace(indexPart))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	if err := h.service.RemoveAvailabilityBlock(id, index); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
