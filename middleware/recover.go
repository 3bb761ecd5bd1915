package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/PatrikF1/backend-ProjectPartner/logging"
)

// Recover turns a panicking handler into a 500 response. It must run inside
// RequestLogger so the request id is available.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logging.Logger.WithField("request_id", RequestID(r.Context())).
				Errorf("Event ID: PANIC_RECOVERED, Description: %s %s panicked: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
			writeMsg(w, http.StatusInternalServerError, "internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
