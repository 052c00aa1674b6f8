package ingestion

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/impactboard/impactboard/internal/repository"

	"github.com/google/uuid"
)

// Handler exposes bulk upload and job polling as HTTP endpoints.
type Handler struct {
	service      *Service
	maxUploadMem int64
}

// NewHTTPHandler wraps the service with upload and status endpoints.
func NewHTTPHandler(service *Service, maxUploadMem int64) *Handler {
	if maxUploadMem <= 0 {
		maxUploadMem = 32 << 20
	}
	return &Handler{service: service, maxUploadMem: maxUploadMem}
}

// HandleUpload accepts a multipart CSV/XLSX upload and responds with
// the pending job record before any row is read.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadMem); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	job, err := h.service.Enqueue(r.Context(), header.Filename, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusAccepted, job)
}

// HandleJobStatus returns the job record for a polling client.
func (h *Handler) HandleJobStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid job id: %v", err), http.StatusBadRequest)
		return
	}

	job, err := h.service.JobStatus(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrImportJobNotFound) {
			http.Error(w, "import job not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
