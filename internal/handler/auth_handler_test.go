package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/nearby/api/internal/auth"
	"github.com/octobees/nearby/api/internal/entity"
	"github.com/octobees/nearby/api/internal/repository"
	"github.com/octobees/nearby/api/internal/service"
)

func newAuthHandler(t *testing.T, repo repository.UsersRepository) *AuthHandler {
	t.Helper()
	jwtManager := auth.NewJWTManager("test-secret", 0)
	return NewAuthHandler(service.NewAuthService(repo, jwtManager))
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("invalid payload", func(t *testing.T) {
		e := newEcho()
		req, rec := jsonRequest(t, http.MethodPost, "/auth/register", "{")
		c := e.NewContext(req, rec)

		if err := newAuthHandler(t, &stubUsersRepo{}).Register(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("validation", func(t *testing.T) {
		tests := map[string]map[string]string{
			"missing email":  {"password": "secret123"},
			"bad email":      {"email": "not-an-email", "password": "secret123"},
			"short password": {"email": "user@example.com", "password": "short"},
			"admin role":     {"email": "user@example.com", "password": "secret123", "role": "admin"},
		}
		for name, payload := range tests {
			t.Run(name, func(t *testing.T) {
				e := newEcho()
				req, rec := jsonRequest(t, http.MethodPost, "/auth/register", payload)
				c := e.NewContext(req, rec)

				_ = newAuthHandler(t, &stubUsersRepo{
					create: func(ctx context.Context, email, name, passwordHash, role string) (*entity.User, error) {
						t.Fatalf("create must not be called")
						return nil, nil
					},
				}).Register(c)
				if rec.Code != http.StatusBadRequest {
					t.Fatalf("expected 400, got %d", rec.Code)
				}
			})
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		e := newEcho()
		req, rec := jsonRequest(t, http.MethodPost, "/auth/register", map[string]string{"email": "user@example.com", "password": "secret123"})
		c := e.NewContext(req, rec)

		_ = newAuthHandler(t, &stubUsersRepo{
			create: func(ctx context.Context, email, name, passwordHash, role string) (*entity.User, error) {
				return nil, repository.ErrEmailDuplicate
			},
		}).Register(c)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		e := newEcho()
		req, rec := jsonRequest(t, http.MethodPost, "/auth/register", map[string]string{"email": "Owner@Example.com", "password": "secret123", "role": "owner"})
		c := e.NewContext(req, rec)

		var gotEmail, gotName, gotRole string
		_ = newAuthHandler(t, &stubUsersRepo{
			create: func(ctx context.Context, email, name, passwordHash, role string) (*entity.User, error) {
				gotEmail, gotName, gotRole = email, name, role
				return &entity.User{ID: uuid.New(), Email: email, Name: name, PasswordHash: passwordHash, Role: role}, nil
			},
		}).Register(c)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotEmail != "owner@example.com" || gotName != "owner" || gotRole != "owner" {
			t.Fatalf("unexpected account %q %q %q", gotEmail, gotName, gotRole)
		}
		payload := decode[struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		}](t, rec)
		if payload.Data.AccessToken == "" || payload.Data.TokenType != "Bearer" {
			t.Fatalf("unexpected token response %+v", payload.Data)
		}
	})
}

func TestAuthHandler_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	knownUser := func(ctx context.Context, email string) (*entity.User, error) {
		return &entity.User{ID: uuid.New(), Email: email, Name: "User", PasswordHash: string(hashed), Role: "user"}, nil
	}

	tests := map[string]struct {
		payload      any
		findByEmail  func(ctx context.Context, email string) (*entity.User, error)
		expectStatus int
	}{
		"invalid payload":     {payload: "{", expectStatus: http.StatusBadRequest},
		"missing password":    {payload: map[string]string{"email": "user@example.com"}, expectStatus: http.StatusBadRequest},
		"invalid credentials": {payload: map[string]string{"email": "user@example.com", "password": "wrong-pass"}, findByEmail: knownUser, expectStatus: http.StatusUnauthorized},
		"unknown user": {
			payload: map[string]string{"email": "ghost@example.com", "password": "secret123"},
			findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return nil, repository.ErrUserNotFound
			},
			expectStatus: http.StatusUnauthorized,
		},
		"unexpected error": {
			payload: map[string]string{"email": "user@example.com", "password": "secret123"},
			findByEmail: func(ctx context.Context, email string) (*entity.User, error) {
				return nil, errors.New("db down")
			},
			expectStatus: http.StatusInternalServerError,
		},
		"success": {payload: map[string]string{"email": "user@example.com", "password": "secret123"}, findByEmail: knownUser, expectStatus: http.StatusOK},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := newEcho()
			req, rec := jsonRequest(t, http.MethodPost, "/auth/login", tt.payload)
			c := e.NewContext(req, rec)

			_ = newAuthHandler(t, &stubUsersRepo{findByEmail: tt.findByEmail}).Login(c)
			if rec.Code != tt.expectStatus {
				t.Fatalf("expected %d, got %d: %s", tt.expectStatus, rec.Code, rec.Body.String())
			}
		})
	}
}
