package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nkosarev/bookstore-server/internal/logger"
	"github.com/nkosarev/bookstore-server/internal/model"
)

// AuthService is the registration surface consumed by the handler.
type AuthService interface {
	RegisterUser(ctx context.Context, username, email, password string) (int64, error)
	RegisterAdmin(ctx context.Context, username, email, password string) (int64, error)
	ConfirmEmail(ctx context.Context, token string) error
}

// Auth handles registration and email-confirmation requests.
type Auth struct {
	service AuthService
	logger  *logger.Logger
}

func NewAuth(service AuthService, logger *logger.Logger) *Auth {
	return &Auth{service: service, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID int64 `json:"id"`
}

// Register handles POST /api/auth/register.
func (h *Auth) Register(c echo.Context) error {
	return h.register(c, h.service.RegisterUser)
}

// RegisterAdmin handles POST /api/auth/register-admin.
func (h *Auth) RegisterAdmin(c echo.Context) error {
	return h.register(c, h.service.RegisterAdmin)
}

func (h *Auth) register(c echo.Context, fn func(context.Context, string, string, string) (int64, error)) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, model.NewInvalidArgument("invalid request body"))
	}

	id, err := fn(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: registration failed",
			"error", err.Error())
		return handleError(c, err)
	}

	return c.JSON(http.StatusCreated, registerResponse{ID: id})
}

// ConfirmEmail handles GET /api/auth/confirm-email?token=...
func (h *Auth) ConfirmEmail(c echo.Context) error {
	token := c.QueryParam("token")

	if err := h.service.ConfirmEmail(c.Request().Context(), token); err != nil {
		h.logger.Error("Auth handler: email confirmation failed",
			"error", err.Error())
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "email confirmed"})
}
