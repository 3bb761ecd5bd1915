package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/PatrikF1/backend-ProjectPartner/logging"
	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"
	"github.com/PatrikF1/backend-ProjectPartner/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const userContextKey contextKey = "user"

type TokenVerifier interface {
	VerifyToken(token string) (*services.Claims, error)
}

type UserLoader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Authenticator resolves the bearer token to a stored user on every request.
type Authenticator struct {
	tokens TokenVerifier
	users  UserLoader
}

func NewAuthenticator(tokens TokenVerifier, users UserLoader) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

func (a *Authenticator) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.resolve(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireAdmin only trusts the isAdmin flag of the stored user, never the
// token claims.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.resolve(w, r)
		if !ok {
			return
		}
		if !user.IsAdmin {
			logging.Logger.WithField("request_id", RequestID(r.Context())).
				Warnf("Event ID: AUTH_NOT_ADMIN, Description: User %s denied access to %s %s", user.ID.Hex(), r.Method, r.URL.Path)
			writeMsg(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (a *Authenticator) resolve(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	log := logging.Logger.WithField("request_id", RequestID(r.Context()))

	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		log.Warnf("Event ID: AUTH_MISSING_TOKEN, Description: Missing bearer token for %s %s", r.Method, r.URL.Path)
		writeMsg(w, http.StatusUnauthorized, "access token is required")
		return nil, false
	}

	claims, err := a.tokens.VerifyToken(token)
	if err != nil {
		log.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Invalid token for %s %s: %v", r.Method, r.URL.Path, err)
		writeMsg(w, http.StatusUnauthorized, "invalid token")
		return nil, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		log.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Token carries malformed user id for %s %s", r.Method, r.URL.Path)
		writeMsg(w, http.StatusUnauthorized, "invalid token")
		return nil, false
	}

	user, err := a.users.FindByID(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		log.Warnf("Event ID: AUTH_USER_NOT_FOUND, Description: Token user %s no longer exists", id.Hex())
		writeMsg(w, http.StatusNotFound, "user not found")
		return nil, false
	}
	if err != nil {
		log.Errorf("Event ID: AUTH_USER_LOAD_FAILED, Description: Failed to load user %s: %v", id.Hex(), err)
		writeMsg(w, http.StatusInternalServerError, "authentication check failed")
		return nil, false
	}
	return user, true
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the user resolved by the Authenticator.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok && user != nil
}
