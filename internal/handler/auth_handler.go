package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/nearby/api/internal/dto"
	"github.com/octobees/nearby/api/internal/service"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register requests.
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}

	token, err := h.authService.Register(c.Request().Context(), req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		return Fail(c, err)
	}

	return Success(c, http.StatusCreated, "registration successful", h.tokenResponse(token))
}

// Login handles POST /auth/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return Fail(c, err)
	}

	return Success(c, http.StatusOK, "login successful", h.tokenResponse(token))
}

func (h *AuthHandler) tokenResponse(token string) dto.LoginResponse {
	return dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.authService.TokenTTL().Seconds()),
	}
}
