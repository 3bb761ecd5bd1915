package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"

	"github.com/PatrikF1/backend-ProjectPartner/logging"
	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"
	"github.com/PatrikF1/backend-ProjectPartner/utils"
)

const invalidCredentials = "invalid credentials"

var verifyPassword = utils.VerifyPassword

// missingUserHash is compared against on unknown emails so that both login
// failures cost one bcrypt comparison.
var missingUserHash = sync.OnceValue(func() string {
	hash, err := utils.HashPassword("missing-user-placeholder")
	if err != nil {
		logging.Logger.Errorf("Event ID: DUMMY_HASH_FAILED, Description: %v", err)
	}
	return hash
})

type RegisterInput struct {
	Name            string `json:"name"`
	LastName        string `json:"lastname"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"c_password"`
	AdminKey        string `json:"adminKey"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	users    UserStore
	tokens   *JWTService
	adminKey string
}

// NewAuthService wires registration and login. An empty adminKey disables
// admin self-registration.
func NewAuthService(users UserStore, tokens *JWTService, adminKey string) *AuthService {
	return &AuthService{users: users, tokens: tokens, adminKey: adminKey}
}

// Register creates an account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	user, err := s.createUser(ctx, in, s.grantsAdmin(in.AdminKey))
	if err != nil {
		return nil, err
	}
	return s.signIn(user)
}

// CreateAdmin registers an administrator without an admin key. It backs the
// create-admin command.
func (s *AuthService) CreateAdmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.createUser(ctx, in, true)
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput, isAdmin bool) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.LastName == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, invalid("name, lastname, email, password and c_password are required")
	}
	if in.Password != in.ConfirmPassword {
		return nil, invalid("passwords do not match")
	}
	if len(in.Password) < utils.MinPasswordLength {
		return nil, invalid("password must be at least %d characters long", utils.MinPasswordLength)
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, conflict("user already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, internal("failed to check existing user", err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, internal("failed to hash password", err)
	}
	user := &models.User{
		Name:         in.Name,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	// The unique index catches a concurrent registration that passed the pre-check.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, conflict("user already exists")
		}
		return nil, internal("failed to create user", err)
	}
	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered (admin: %t)", user.ID.Hex(), user.IsAdmin)
	return user, nil
}

// Login answers unknown emails and wrong passwords identically.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, invalid("email and password are required")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = verifyPassword(missingUserHash(), in.Password)
			logging.Logger.Warnf("Event ID: LOGIN_UNKNOWN_EMAIL, Description: Login attempt for unknown email")
			return nil, newError(ErrCodeUnauthorized, invalidCredentials)
		}
		return nil, internal("failed to load user", err)
	}
	if err := verifyPassword(user.PasswordHash, in.Password); err != nil {
		logging.Logger.Warnf("Event ID: LOGIN_BAD_PASSWORD, Description: Wrong password for user %s", user.ID.Hex())
		return nil, newError(ErrCodeUnauthorized, invalidCredentials)
	}
	return s.signIn(user)
}

func (s *AuthService) signIn(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, internal("failed to issue token", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) grantsAdmin(key string) bool {
	if s.adminKey == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.adminKey), []byte(key)) == 1
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
