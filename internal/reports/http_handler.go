package reports

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Handler exposes single-report submission as an HTTP endpoint.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a POST endpoint.
func NewHTTPHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submitPayload struct {
	NGOID           string      `json:"ngo_id"`
	Month           string      `json:"month"`
	PeopleHelped    json.Number `json:"people_helped"`
	EventsConducted json.Number `json:"events_conducted"`
	FundsUtilized   json.Number `json:"funds_utilized"`
}

// HandleSubmit validates and stores one report. Validation failures
// come back as 422 with the full message list.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	var payload submitPayload
	if err := decoder.Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	report, validationErrs, err := h.service.Submit(r.Context(), Submission{
		NGOID:           payload.NGOID,
		Month:           payload.Month,
		PeopleHelped:    payload.PeopleHelped.String(),
		EventsConducted: payload.EventsConducted.String(),
		FundsUtilized:   payload.FundsUtilized.String(),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(validationErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": validationErrs})
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
