// Package v1alpha1 exposes the job API over HTTP.
package v1alpha1

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	api "github.com/docscanhq/docscan/api/v1alpha1"
	"github.com/docscanhq/docscan/internal/service"
	"github.com/docscanhq/docscan/pkg/requestid"
)

type ServiceHandler struct {
	jobService *service.JobService
}

func NewServiceHandler(jobService *service.JobService) *ServiceHandler {
	return &ServiceHandler{jobService: jobService}
}

// Routes mounts all API endpoints on the router.
func (h *ServiceHandler) Routes(router chi.Router) {
	router.Route("/api", func(r chi.Router) {
		r.Post("/jobs", h.CreateJob)
		r.Get("/jobs", h.ListJobs)
		r.Get("/jobs/{id}", h.GetJob)
		r.Get("/info", h.GetInfo)
	})
	router.Get("/health", h.Health)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, api.Error{Message: message, RequestID: requestid.FromRequest(r)})
}
