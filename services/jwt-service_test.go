package services

import (
	"testing"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	user := &models.User{ID: primitive.NewObjectID(), Email: "a@example.com", IsAdmin: true}

	token, err := svc.IssueToken(user)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestJWTRejects(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "a@example.com"}

	foreign, err := NewJWTService("other", time.Hour).IssueToken(user)
	require.NoError(t, err)
	expired, err := NewJWTService("secret", -time.Minute).IssueToken(user)
	require.NoError(t, err)

	svc := NewJWTService("secret", time.Hour)
	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      expired,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.VerifyToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
