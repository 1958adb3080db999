package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/chamadopetro/chamado-service/internal/domain"
	"github.com/chamadopetro/chamado-service/internal/repository"
	apperrors "github.com/chamadopetro/chamado-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User  *domain.User
	Token string
}

// Middleware validates bearer tokens and loads the principal.
type Middleware struct {
	tokens   *TokenManager
	users    repository.UserRepository
	denylist *TokenDenylist
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, denylist *TokenDenylist) *Middleware {
	return &Middleware{tokens: tokens, users: users, denylist: denylist}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("cabeçalho de autorização ausente")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("cabeçalho de autorização inválido")
	}
	token := parts[1]

	if m.denylist.Revoked(c.Context(), token) {
		return apperrors.NewUnauthorized("sessão encerrada")
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewUnauthorized("token inválido")
	}

	user, err := m.users.GetByID(c.Context(), claims.Subject)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("usuário não encontrado")
		}
		return apperrors.MapError(err)
	}
	if !user.Ativo {
		return apperrors.NewUnauthorized("usuário inativo")
	}

	c.Locals(principalKey, &Principal{User: user, Token: token})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequireRole ensures the principal has one of the allowed roles. With no
// arguments it only requires authentication.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("autenticação necessária")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("permissão insuficiente")
		}
		return c.Next()
	}
}
