package v1alpha1

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/docscanhq/docscan/internal/handlers/v1alpha1/mappers"
	"github.com/docscanhq/docscan/internal/service"
)

// CreateJob accepts a multipart document upload and registers a pending job.
// The file part is streamed to the spool, never buffered whole in memory.
func (h *ServiceHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	reader, err := r.MultipartReader()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read multipart form: %v", err))
		return
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read multipart form: %v", err))
			return
		}
		if part.FormName() != "file" {
			continue
		}

		record, err := h.jobService.CreateJob(r.Context(), part.FileName(), part)
		if err != nil {
			switch err.(type) {
			case *service.ErrInvalidUpload:
				writeError(w, r, http.StatusBadRequest, err.Error())
			default:
				zap.S().Named("job_handler").Errorw("failed to create job", "error", err)
				writeError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to create job: %v", err))
			}
			return
		}

		writeJSON(w, http.StatusCreated, mappers.JobToApi(record))
		return
	}

	writeError(w, r, http.StatusBadRequest, service.NewErrMissingUploadFile().Error())
}

// ListJobs returns every job, newest first.
func (h *ServiceHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobService.ListJobs(r.Context())
	if err != nil {
		zap.S().Named("job_handler").Errorw("failed to list jobs", "error", err)
		writeError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to list jobs: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, mappers.JobListToApi(jobs...))
}

// GetJob returns one job by id.
func (h *ServiceHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := h.jobService.GetJob(r.Context(), id)
	if err != nil {
		switch err.(type) {
		case *service.ErrJobNotFound:
			writeError(w, r, http.StatusNotFound, err.Error())
		default:
			zap.S().Named("job_handler").Errorw("failed to get job", "job_id", id, "error", err)
			writeError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to get job: %v", err))
		}
		return
	}

	writeJSON(w, http.StatusOK, mappers.JobToApi(job))
}
