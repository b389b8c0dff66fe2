package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"strayl-feedback/internal/model"
	"strayl-feedback/internal/service"
)

// SessionHandler exposes the wizard session endpoints.
type SessionHandler struct {
	formSvc *service.FormService
}

func NewSessionHandler(formSvc *service.FormService) *SessionHandler {
	return &SessionHandler{formSvc: formSvc}
}

// CreateSessionRequest is the request body for starting a wizard session
type CreateSessionRequest struct {
	Language string `json:"language"`
	Source   string `json:"source,omitempty"`
	ReturnTo string `json:"returnTo,omitempty"`
}

// SetAnswerRequest is the request body for upserting one answer
type SetAnswerRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// sessionView is the wizard state as the presentation layer sees it.
type sessionView struct {
	ID         string              `json:"id"`
	Step       int                 `json:"step"`
	TotalSteps int                 `json:"totalSteps"`
	Section    string              `json:"section,omitempty"`
	Answers    model.AnswerSet     `json:"answers,omitempty"`
	Missing    []string            `json:"missing,omitempty"`
	ShowErrors bool                `json:"showErrors"`
	Submitting bool                `json:"submitting"`
	Submitted  bool                `json:"submitted"`
	ScrollTop  bool                `json:"scrollTop,omitempty"`
	Result     *model.SubmitResult `json:"result,omitempty"`
}

func newSessionView(s *model.Session, scrollTop bool) sessionView {
	view := sessionView{
		ID:         s.ID,
		Step:       s.Step,
		TotalSteps: model.TotalSteps,
		Answers:    s.Answers,
		ShowErrors: s.ShowErrors,
		Submitting: s.Submitting,
		Submitted:  s.Submitted,
		ScrollTop:  scrollTop,
		Result:     s.Result,
	}
	if s.Step >= 0 && s.Step < len(model.Steps) {
		view.Section = model.Steps[s.Step].Section
	}
	if s.ShowErrors {
		view.Missing = s.MissingRequired(s.Step)
	}
	return view
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.formSvc.Create(r.Context(), req.Language, req.Source, req.ReturnTo)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, newSessionView(session, false))
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, err := h.formSvc.Get(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionView(session, false))
}

// SetAnswer handles PUT /v1/sessions/{id}/answers
func (h *SessionHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req SetAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	var value any
	if len(req.Value) > 0 {
		if err := json.Unmarshal(req.Value, &value); err != nil {
			writeError(w, http.StatusBadRequest, "invalid answer value")
			return
		}
	}

	session, err := h.formSvc.SetAnswer(r.Context(), id, req.Key, value)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionView(session, false))
}

// Advance handles POST /v1/sessions/{id}/advance
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, scrollTop, _, err := h.formSvc.Advance(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionView(session, scrollTop))
}

// Retreat handles POST /v1/sessions/{id}/retreat
func (h *SessionHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, scrollTop, err := h.formSvc.Retreat(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionView(session, scrollTop))
}

// Submit handles POST /v1/sessions/{id}/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, missing, err := h.formSvc.Submit(r.Context(), id, r.UserAgent())
	switch {
	case errors.Is(err, service.ErrStepIncomplete):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   "required answers missing",
			"missing": missing,
		})
		return
	case errors.Is(err, service.ErrAlreadySubmitted):
		// Terminal sessions keep their result; hand it back with the
		// conflict so the confirmation screen can still render.
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":  "session already submitted",
			"result": result,
		})
		return
	case err != nil:
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, "session already submitted")
	case errors.Is(err, service.ErrSubmitInFlight):
		writeError(w, http.StatusConflict, "submission in flight")
	case errors.Is(err, service.ErrInvalidAnswers):
		writeError(w, http.StatusBadRequest, "invalid answers")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
