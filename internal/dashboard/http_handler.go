package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/impactboard/impactboard/internal/domain"
)

// Handler exposes the dashboard read API.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a GET endpoint.
func NewHTTPHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleDashboard serves the aggregate plus one page of reports.
// Query parameters: from, to, month (YYYY-MM), ngo_id (substring),
// limit, offset.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := Query{
		Filter: domain.ReportFilter{
			From:  strings.TrimSpace(params.Get("from")),
			To:    strings.TrimSpace(params.Get("to")),
			Month: strings.TrimSpace(params.Get("month")),
			NGOID: params.Get("ngo_id"),
		},
	}

	var err error
	if query.Limit, err = parseIntParam(params.Get("limit")); err != nil {
		http.Error(w, fmt.Sprintf("invalid limit: %v", err), http.StatusBadRequest)
		return
	}
	if query.Offset, err = parseIntParam(params.Get("offset")); err != nil {
		http.Error(w, fmt.Sprintf("invalid offset: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.service.Fetch(r.Context(), query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
}

func parseIntParam(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
