package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/chamadopetro/chamado-service/internal/api/dto"
	"github.com/chamadopetro/chamado-service/internal/domain"
	"github.com/chamadopetro/chamado-service/internal/service"
	apperrors "github.com/chamadopetro/chamado-service/pkg/util"
)

// UsersHandler manages user administration endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// ListUsers GET /api/users. search= switches to a name/login search.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	if term := strings.TrimSpace(c.Query("search")); term != "" {
		users, err := h.service.Search(c.Context(), term)
		if err != nil {
			return err
		}
		return c.JSON(userResponses(users))
	}

	limit, offset := parseLimitOffset(c)
	users, err := h.service.List(c.Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(userResponses(users))
}

// GetUser GET /api/users/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// CreateUser POST /api/users.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	req, err := parseUserRequest(c)
	if err != nil {
		return err
	}
	user, err := h.service.Create(c.Context(), userInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(userResponse(user))
}

// UpdateUser PUT /api/users/:id.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	req, err := parseUserRequest(c)
	if err != nil {
		return err
	}
	user, err := h.service.Update(c.Context(), c.Params("id"), userInput(req))
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// ToggleUserStatus PATCH /api/users/:id/toggle-status.
func (h *UsersHandler) ToggleUserStatus(c *fiber.Ctx) error {
	user, err := h.service.ToggleStatus(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// DeleteUser DELETE /api/users/:id.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UserStats GET /api/users/stats.
func (h *UsersHandler) UserStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func parseUserRequest(c *fiber.Ctx) (dto.UserRequest, error) {
	var req dto.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError("payload inválido", nil)
	}
	if req.ConfirmarSenha != "" && req.ConfirmarSenha != req.Senha {
		return req, apperrors.NewValidationError("as senhas não coincidem", map[string]any{
			"confirmarSenha": "deve ser igual à senha",
		})
	}
	return req, nil
}

func parseLimitOffset(c *fiber.Ctx) (int, int) {
	limit := 50
	offset := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

func userInput(req dto.UserRequest) service.UserInput {
	return service.UserInput{
		Nome:  req.Nome,
		Login: req.Login,
		Senha: req.Senha,
		Ativo: req.Ativo,
		Role:  req.Role,
	}
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           user.ID,
		Nome:         user.Nome,
		Login:        user.Login,
		Role:         string(user.Role),
		Ativo:        user.Ativo,
		CriadoEm:     user.CriadoEm,
		AtualizadoEm: user.AtualizadoEm,
		UltimoLogin:  user.UltimoLogin,
	}
}

func userResponses(users []domain.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}
	return out
}
