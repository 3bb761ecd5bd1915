package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/PatrikF1/backend-ProjectPartner/logging"
	"github.com/PatrikF1/backend-ProjectPartner/middleware"
	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/services"
)

// Bodies are small JSON documents; profile images are the largest at 2 MB.
const maxBodyBytes = 3 << 20

type msgResponse struct {
	Msg string `json:"msg"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
	}
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, msgResponse{Msg: msg})
}

// writeError turns a service error into its status and message. Anything
// else is logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logging.Logger.WithField("request_id", middleware.RequestID(r.Context()))
	serr, ok := services.AsError(err)
	if !ok {
		log.Errorf("Event ID: UNHANDLED_ERROR, Description: %s %s failed: %v", r.Method, r.URL.Path, err)
		writeMsg(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if serr.Code == services.ErrCodeInternal {
		log.Errorf("Event ID: INTERNAL_ERROR, Description: %s %s failed: %v", r.Method, r.URL.Path, serr)
	}
	writeMsg(w, serr.HttpStatus(), serr.Msg)
}

// decodeJSON reads the body into dst, rejecting unknown fields and trailing
// data. It writes the 400 itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			writeMsg(w, http.StatusBadRequest, "request body is required")
		case errors.As(err, &maxErr):
			writeMsg(w, http.StatusRequestEntityTooLarge, "request body is too large")
		default:
			writeMsg(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		}
		return false
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		writeMsg(w, http.StatusBadRequest, "invalid request body: unexpected data after JSON object")
		return false
	}
	return true
}

// currentUser is the caller resolved by the auth middleware.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeMsg(w, http.StatusUnauthorized, "access token is required")
	}
	return user, ok
}
