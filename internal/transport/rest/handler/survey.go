package handler

import (
	"net/http"

	"strayl-feedback/internal/model"
)

// SurveyHandler serves the static wizard definition so the presentation
// layer renders steps and required markers from a single source.
type SurveyHandler struct{}

func NewSurveyHandler() *SurveyHandler {
	return &SurveyHandler{}
}

// Definition handles GET /v1/survey
func (h *SurveyHandler) Definition(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"totalSteps": model.TotalSteps,
		"steps":      model.Steps,
		"followUps":  model.FollowUps,
	})
}
