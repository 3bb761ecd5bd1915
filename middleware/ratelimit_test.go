package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PatrikF1/backend-ProjectPartner/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserRateLimiter(t *testing.T) {
	l := NewUserRateLimiter(2)
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))

	unlimited := NewUserRateLimiter(0)
	for i := 0; i < 100; i++ {
		assert.True(t, unlimited.Allow("a"))
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	l := NewUserRateLimiter(1)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	user := &models.User{ID: primitive.NewObjectID()}

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req = req.WithContext(WithUser(req.Context(), user))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}
