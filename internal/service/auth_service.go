package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/chamadopetro/chamado-service/internal/auth"
	"github.com/chamadopetro/chamado-service/internal/domain"
	"github.com/chamadopetro/chamado-service/internal/repository"
	apperrors "github.com/chamadopetro/chamado-service/pkg/util"
)

// AuthService coordinates login and logout flows.
type AuthService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	denylist *auth.TokenDenylist
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, denylist *auth.TokenDenylist) *AuthService {
	return &AuthService{users: users, tokens: tokens, denylist: denylist}
}

// TokenManager exposes the manager for the middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login verifies credentials and issues a bearer token. Inactive accounts
// cannot log in.
func (s *AuthService) Login(ctx context.Context, login, senha string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("credenciais inválidas")
		}
		return nil, "", time.Time{}, err
	}
	if !user.Ativo {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("usuário inativo")
	}
	if err := auth.ComparePassword(user.SenhaHash, senha); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("credenciais inválidas")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	_ = s.users.TouchLastLogin(ctx, user.ID)
	return user, token, expiresAt, nil
}

// Logout revokes the bearer token for the remainder of its lifetime. After
// this, any request carrying it gets 401 and the client gateway tears down
// its session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	ttl := s.tokens.TTL()
	if claims, err := s.tokens.ParseToken(token); err == nil && claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	return s.denylist.Revoke(ctx, token, ttl)
}
