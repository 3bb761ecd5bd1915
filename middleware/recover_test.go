package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PatrikF1/backend-ProjectPartner/logging"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverWritesInternalError(t *testing.T) {
	hook := logtest.NewLocal(logging.Logger)
	defer hook.Reset()

	h := RequestLogger(Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("index out of range")
	})))
	req := httptest.NewRequest(http.MethodPost, "/api/projects/1/end", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "internal server error", body["msg"])

	var found bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && strings.Contains(e.Message, "PANIC_RECOVERED") {
			found = true
			assert.Equal(t, "req-42", e.Data["request_id"])
		}
	}
	assert.True(t, found)
}

func TestRecoverPassesThrough(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
