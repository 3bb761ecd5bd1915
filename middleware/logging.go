package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/logging"

	"github.com/google/uuid"
)

const requestIDKey contextKey = "request_id"

// RequestLogger tags every request with an id, reused from X-Request-ID when
// the client sends one, and logs the outcome under that id.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" || len(id) > 64 {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))

		logging.Logger.WithField("request_id", id).
			Infof("Event ID: HTTP_REQUEST, Description: %s %s -> %d (%s)", r.Method, r.URL.Path, sw.code, time.Since(start))
	})
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
