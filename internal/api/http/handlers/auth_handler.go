package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chamadopetro/chamado-service/internal/api/dto"
	"github.com/chamadopetro/chamado-service/internal/auth"
	"github.com/chamadopetro/chamado-service/internal/service"
	apperrors "github.com/chamadopetro/chamado-service/pkg/util"
)

// AuthHandler manages session endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	user, token, expiresAt, err := h.service.Login(c.Context(), req.Login, req.Senha)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      userResponse(user),
	})
}

// Logout POST /api/auth/logout. Revokes the presented token so later
// requests with it come back 401.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("não autenticado")
	}
	if err := h.service.Logout(c.Context(), principal.Token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "sessão encerrada"})
}

// Me GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("não autenticado")
	}
	return c.JSON(userResponse(principal.User))
}
