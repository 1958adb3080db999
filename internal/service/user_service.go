package service

import (
	"context"
	"strings"

	"github.com/chamadopetro/chamado-service/internal/auth"
	"github.com/chamadopetro/chamado-service/internal/domain"
	"github.com/chamadopetro/chamado-service/internal/repository"
	apperrors "github.com/chamadopetro/chamado-service/pkg/util"
)

// UserService coordinates user administration.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// UserInput describes a create/update payload. Senha is write-only and
// optional on update.
type UserInput struct {
	Nome  string
	Login string
	Senha string
	Ativo *bool
	Role  string
}

// List returns users ordered by name.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.users.List(ctx, limit, offset)
}

// Search matches users by name or login, case-insensitively.
func (s *UserService) Search(ctx context.Context, term string) ([]domain.User, error) {
	return s.users.Search(ctx, term)
}

// Get fetches one user.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Create registers a new user with a unique login.
func (s *UserService) Create(ctx context.Context, input UserInput) (*domain.User, error) {
	nome := strings.TrimSpace(input.Nome)
	login := strings.TrimSpace(input.Login)
	if nome == "" || login == "" {
		return nil, apperrors.NewValidationError("nome e login são obrigatórios", nil)
	}
	if len(input.Senha) < auth.MinPasswordLength {
		return nil, apperrors.NewValidationError("senha deve ter no mínimo 6 caracteres", nil)
	}

	exists, err := s.users.ExistsByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("login já existe", map[string]any{"login": login})
	}

	hash, err := auth.HashPassword(input.Senha, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	role := domain.Role(input.Role)
	if role != domain.RoleAdmin && role != domain.RoleTecnico {
		role = domain.RoleUser
	}
	ativo := true
	if input.Ativo != nil {
		ativo = *input.Ativo
	}

	user := &domain.User{
		Nome:      nome,
		Login:     login,
		SenhaHash: hash,
		Role:      role,
		Ativo:     ativo,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update modifies a user. The password only changes when a new one is
// supplied.
func (s *UserService) Update(ctx context.Context, id string, input UserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	nome := strings.TrimSpace(input.Nome)
	login := strings.TrimSpace(input.Login)
	if nome == "" || login == "" {
		return nil, apperrors.NewValidationError("nome e login são obrigatórios", nil)
	}

	if login != user.Login {
		exists, err := s.users.ExistsByLogin(ctx, login)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.NewConflict("login já existe", map[string]any{"login": login})
		}
	}

	user.Nome = nome
	user.Login = login
	if senha := strings.TrimSpace(input.Senha); senha != "" {
		if len(senha) < auth.MinPasswordLength {
			return nil, apperrors.NewValidationError("senha deve ter no mínimo 6 caracteres", nil)
		}
		hash, err := auth.HashPassword(senha, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.SenhaHash = hash
	}
	if input.Ativo != nil {
		user.Ativo = *input.Ativo
	}
	if role := domain.Role(input.Role); role == domain.RoleAdmin || role == domain.RoleTecnico || role == domain.RoleUser {
		user.Role = role
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ToggleStatus flips the active flag.
func (s *UserService) ToggleStatus(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user.Ativo = !user.Ativo
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Delete removes a user permanently.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Stats returns the admin-view counters.
func (s *UserService) Stats(ctx context.Context) (repository.UserStats, error) {
	return s.users.Stats(ctx)
}
