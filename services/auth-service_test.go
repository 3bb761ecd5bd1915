package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(s Stores, adminKey string) (*AuthService, *JWTService) {
	tokens := NewJWTService("test-secret", time.Hour)
	return NewAuthService(s.Users, tokens, adminKey), tokens
}

func registerInput(email string) RegisterInput {
	return RegisterInput{
		Name:            "Ana",
		LastName:        "Anić",
		Email:           email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	auth, _ := newTestAuth(s, "")

	_, err := auth.Register(ctx, registerInput("ana@example.com"))
	require.NoError(t, err)

	_, err = auth.Register(ctx, registerInput("  ANA@example.com "))
	requireCode(t, err, ErrCodeConflict)

	users, err := s.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestStores(t)
	auth, _ := newTestAuth(s, "")

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing name", func(in *RegisterInput) { in.Name = " " }},
		{"passwords differ", func(in *RegisterInput) { in.ConfirmPassword = "other12" }},
		{"short password", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "abc", "abc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := registerInput("val@example.com")
			tt.mutate(&in)
			_, err := auth.Register(context.Background(), in)
			requireCode(t, err, ErrCodeInvalidRequest)
		})
	}
}

func TestRegisterAdminKey(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	auth, _ := newTestAuth(s, "let-me-in")

	in := registerInput("boss@example.com")
	in.AdminKey = "let-me-in"
	res, err := auth.Register(ctx, in)
	require.NoError(t, err)
	assert.True(t, res.User.IsAdmin)

	in = registerInput("guess@example.com")
	in.AdminKey = "wrong"
	res, err = auth.Register(ctx, in)
	require.NoError(t, err)
	assert.False(t, res.User.IsAdmin)
}

func TestLoginTokenIdentifiesUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	auth, tokens := newTestAuth(s, "")

	registered, err := auth.Register(ctx, registerInput("ana@example.com"))
	require.NoError(t, err)

	res, err := auth.Login(ctx, LoginInput{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	claims, err := tokens.VerifyToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID.Hex(), claims.UserID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	auth, _ := newTestAuth(s, "")

	_, err := auth.Register(ctx, registerInput("ana@example.com"))
	require.NoError(t, err)

	_, wrongPassword := auth.Login(ctx, LoginInput{Email: "ana@example.com", Password: "nope123"})
	_, unknownEmail := auth.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})

	requireCode(t, wrongPassword, ErrCodeUnauthorized)
	requireCode(t, unknownEmail, ErrCodeUnauthorized)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginComparesHashForUnknownEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(t)
	auth, _ := newTestAuth(s, "")
	_, err := auth.Register(ctx, registerInput("ana@example.com"))
	require.NoError(t, err)

	var hashes []string
	original := verifyPassword
	verifyPassword = func(hash, password string) error {
		hashes = append(hashes, hash)
		return original(hash, password)
	}
	t.Cleanup(func() { verifyPassword = original })

	_, err = auth.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	requireCode(t, err, ErrCodeUnauthorized)
	require.Len(t, hashes, 1)
	assert.Equal(t, missingUserHash(), hashes[0])
	assert.NotEmpty(t, hashes[0])

	_, err = auth.Login(ctx, LoginInput{Email: "ana@example.com", Password: "nope123"})
	requireCode(t, err, ErrCodeUnauthorized)
	assert.Len(t, hashes, 2)
}

func TestCreateAdmin(t *testing.T) {
	s := newTestStores(t)
	auth, _ := newTestAuth(s, "")

	user, err := auth.CreateAdmin(context.Background(), registerInput("root@example.com"))
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
}
