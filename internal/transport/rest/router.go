package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"strayl-feedback/internal/service"
	"strayl-feedback/internal/transport/rest/handler"
	"strayl-feedback/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	FormService       *service.FormService
	SubmissionService *service.SubmissionService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	surveyHandler := handler.NewSurveyHandler()
	sessionHandler := handler.NewSessionHandler(c.FormService)
	submissionHandler := handler.NewSubmissionHandler(c.SubmissionService)

	r.Use(corsMiddleware)
	r.Use(middleware.RequestLogging)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/survey", surveyHandler.Definition).Methods("GET", "OPTIONS")

	v1.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/answers", sessionHandler.SetAnswer).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/advance", sessionHandler.Advance).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/retreat", sessionHandler.Retreat).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/submit", sessionHandler.Submit).Methods("POST", "OPTIONS")

	v1.HandleFunc("/submissions/stats", submissionHandler.Stats).Methods("GET", "OPTIONS")
	v1.HandleFunc("/submissions/{id}", submissionHandler.Get).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
