package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"strayl-feedback/internal/service"
)

// SubmissionHandler exposes read-back of persisted submissions.
type SubmissionHandler struct {
	submissionSvc *service.SubmissionService
}

func NewSubmissionHandler(submissionSvc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// Get handles GET /v1/submissions/{id}
func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	submission, err := h.submissionSvc.GetSubmission(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load submission")
		return
	}
	if submission == nil {
		writeError(w, http.StatusNotFound, "submission not found")
		return
	}

	writeJSON(w, http.StatusOK, submission)
}

// Stats handles GET /v1/submissions/stats
func (h *SubmissionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	count, err := h.submissionSvc.CountRecent(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count submissions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"submissions_24h": count})
}
