package handlers

import (
	"net/http"

	"github.com/trekweb/trek_web_backend/internal/jobs"
)

// StoreStatusReporter exposes the last known store health.
type StoreStatusReporter interface {
	Status() jobs.StoreStatus
}

type HealthHandler struct {
	Monitor StoreStatusReporter
}

func NewHealthHandler(monitor StoreStatusReporter) *HealthHandler {
	return &HealthHandler{Monitor: monitor}
}

// HealthHandler handles GET /health
func (h *HealthHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := h.Monitor.Status()
	if !status.Up {
		writeJSON(w, http.StatusServiceUnavailable, Envelope{
			Success: false,
			Message: "Store unavailable",
			Data:    status,
		})
		return
	}
	writeSuccess(w, http.StatusOK, "OK", status)
}
