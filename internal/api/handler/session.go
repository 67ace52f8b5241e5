package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/quackbot/internal/api/response"
	"github.com/Rrens/quackbot/internal/catalog"
	"github.com/Rrens/quackbot/internal/chat"
	"github.com/Rrens/quackbot/internal/domain"
)

// SessionHandler handles chat session endpoints
type SessionHandler struct {
	controller *chat.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller *chat.Controller) *SessionHandler {
	return &SessionHandler{controller: controller}
}

type selectRequest struct {
	CompanyName string `json:"company_name" validate:"required"`
}

type phaseRequest struct {
	Phase string `json:"phase" validate:"required,oneof=phase1 phase2"`
}

type messageRequest struct {
	Text string `json:"text"`
	// Wait holds the request open until the reply is in the transcript
	Wait bool `json:"wait"`
}

type messageResult struct {
	UserMessage domain.Message  `json:"user_message"`
	Reply       *domain.Message `json:"reply,omitempty"`
}

type browseResult struct {
	State domain.BrowseState `json:"state"`
	Page  domain.PageView    `json:"page"`
}

// Create starts a General session
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.controller.Create()
	log.Info().Str("session_id", s.ID().String()).Msg("Session created")
	response.Created(w, s.Snapshot())
}

// Get returns a session snapshot
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	s, err := h.controller.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, s.Snapshot())
}

// Delete removes a session
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.controller.Delete(id); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}

// Select switches the session to a company topic
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var input selectRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	snapshot, err := h.controller.SelectCompany(id, input.CompanyName)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, snapshot)
}

// Reset switches the session back to General
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	snapshot, err := h.controller.ResetToGeneral(id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, snapshot)
}

// SetPhase selects the responder pipeline
func (h *SessionHandler) SetPhase(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var input phaseRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	snapshot, err := h.controller.SetPhase(id, input.Phase)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, snapshot)
}

// TogglePhase flips between phase1 and phase2
func (h *SessionHandler) TogglePhase(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	snapshot, err := h.controller.TogglePhase(id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, snapshot)
}

// Messages returns the transcript
func (h *SessionHandler) Messages(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	s, err := h.controller.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, s.Transcript())
}

// Send appends a user message and requests the reply. Blank text is ignored with 204.
func (h *SessionHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var input messageRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	pending, sent, err := h.controller.Send(id, input.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	if !sent {
		response.NoContent(w)
		return
	}

	result := messageResult{UserMessage: pending.UserMessage}
	if !input.Wait {
		response.Accepted(w, result)
		return
	}

	select {
	case <-pending.Done():
		if reply, ok := pending.Reply(); ok {
			result.Reply = &reply
		}
		response.OK(w, result)
	case <-r.Context().Done():
		// the reply still lands in the transcript
		response.Accepted(w, result)
	}
}

// View returns the session's current catalog page
func (h *SessionHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	state, page, err := h.controller.View(id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, browseResult{State: state, Page: page})
}

// Browse applies one browse action to the session
func (h *SessionHandler) Browse(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var action catalog.Action
	if !decodeAndValidate(w, r, &action) {
		return
	}

	state, page, err := h.controller.Browse(id, action)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, browseResult{State: state, Page: page})
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps controller errors onto status codes
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		response.NotFound(w, "session not found")
	case errors.Is(err, chat.ErrUnknownCompany):
		response.NotFound(w, err.Error())
	case errors.Is(err, domain.ErrInvalidPhase),
		errors.Is(err, catalog.ErrUnknownAction),
		errors.Is(err, catalog.ErrInvalidPage):
		response.BadRequest(w, err.Error())
	default:
		log.Error().Err(err).Msg("Unhandled session error")
		response.InternalError(w, "internal error")
	}
}
