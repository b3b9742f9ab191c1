package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/nearby/api/internal/auth"
	"github.com/octobees/nearby/api/internal/entity"
	"github.com/octobees/nearby/api/internal/repository"
)

const minPasswordLength = 8

// AuthService coordinates credential validation and token issuance for the
// bundled development identity provider.
type AuthService struct {
	users repository.UsersRepository
	jwt   *auth.JWTManager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UsersRepository, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{users: users, jwt: jwtManager}
}

// Register creates an account and returns a token for it. Only the user and
// owner roles can be self-assigned; an empty role means user.
func (s *AuthService) Register(ctx context.Context, email, name, password, role string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	role = strings.TrimSpace(role)

	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password must not be empty", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	switch role {
	case "":
		role = entity.RoleUser
	case entity.RoleUser, entity.RoleOwner:
	default:
		return "", fmt.Errorf("%w: role %q cannot be self-assigned", ErrInvalidInput, role)
	}
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, email, name, string(hashed), role)
	if err != nil {
		if errors.Is(err, repository.ErrEmailDuplicate) {
			return "", ErrEmailAlreadyExists
		}
		return "", err
	}

	return s.jwt.GenerateToken(user.ID.String(), user.Email, user.Name, user.Role)
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password must not be empty", ErrInvalidInput)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Name, user.Role)
	if err != nil {
		return "", err
	}

	return token, nil
}

// TokenTTL reports the lifetime of issued tokens.
func (s *AuthService) TokenTTL() time.Duration {
	return s.jwt.TTL()
}
