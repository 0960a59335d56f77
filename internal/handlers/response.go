package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/trekweb/trek_web_backend/internal/services"
	"github.com/trekweb/trek_web_backend/pkg/logger"
)

// Envelope is the response shape shared by every wishlist route.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response")
	}
}

func writeSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Unexpected errors pass their message through in the error field.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var ve *services.ValidationError
	var nf *services.NotFoundError

	switch {
	case errors.As(err, &ve):
		body := Envelope{Success: false, Message: ve.Message}
		if len(ve.Fields) > 0 {
			body.Errors = ve.Fields
		}
		writeJSON(w, http.StatusBadRequest, body)
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, Envelope{Success: false, Message: nf.Message})
	default:
		logger.Log.WithError(err).WithField("operation", op).Error("Wishlist operation failed")
		writeJSON(w, http.StatusInternalServerError, Envelope{
			Success: false,
			Message: "Internal server error",
			Error:   err.Error(),
		})
	}
}

// RegisterFallbacks answers unmatched paths and methods with the envelope.
// mux skips router.Use middleware for these, so mws are applied here in the
// same order.
func RegisterFallbacks(router *mux.Router, mws ...mux.MiddlewareFunc) {
	router.NotFoundHandler = chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, Envelope{Success: false, Message: "Route not found"})
	}), mws)
	router.MethodNotAllowedHandler = chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, Envelope{Success: false, Message: "Method not allowed"})
	}), mws)
}

func chain(h http.Handler, mws []mux.MiddlewareFunc) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
