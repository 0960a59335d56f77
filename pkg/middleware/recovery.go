package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/trekweb/trek_web_backend/pkg/logger"
)

// Recovery turns a handler panic into a 500 envelope.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				logger.Log.WithFields(logrus.Fields{
					"request_id": GetRequestID(r.Context()),
					"panic":      rv,
				}).Error("Recovered from panic")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"success":false,"message":"Internal server error"}` + "\n"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
