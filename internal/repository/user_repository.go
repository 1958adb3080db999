package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chamadopetro/chamado-service/internal/domain"
)

// UserStats aggregates the counters shown in the user admin view.
type UserStats struct {
	Total    int64 `json:"totalUsers"`
	Ativos   int64 `json:"activeUsers"`
	Inativos int64 `json:"inactiveUsers"`
}

// UserRepository defines persistence access for helpdesk users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	ExistsByLogin(ctx context.Context, login string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Search(ctx context.Context, term string) ([]domain.User, error)
	Stats(ctx context.Context) (UserStats, error)
	ListTechnicianNames(ctx context.Context) ([]string, error)
	TouchLastLogin(ctx context.Context, id string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, nome, login, senha_hash, role, ativo, criado_em, atualizado_em, ultimo_login`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (nome, login, senha_hash, role, ativo)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, criado_em, atualizado_em`
	return r.pool.QueryRow(ctx, query,
		user.Nome,
		user.Login,
		user.SenhaHash,
		user.Role,
		user.Ativo,
	).Scan(&user.ID, &user.CriadoEm, &user.AtualizadoEm)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET nome=$1, login=$2, senha_hash=$3, role=$4, ativo=$5, atualizado_em=NOW()
        WHERE id=$6
        RETURNING atualizado_em`
	return r.pool.QueryRow(ctx, query,
		user.Nome,
		user.Login,
		user.SenhaHash,
		user.Role,
		user.Ativo,
		user.ID,
	).Scan(&user.AtualizadoEm)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE login=$1`, login)
}

func (r *userRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE login=$1)`, login).Scan(&exists)
	return exists, err
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Nome,
		&user.Login,
		&user.SenhaHash,
		&user.Role,
		&user.Ativo,
		&user.CriadoEm,
		&user.AtualizadoEm,
		&user.UltimoLogin,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY nome ASC`
	args := []any{}
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $1`
		if offset > 0 {
			args = append(args, offset)
			query += ` OFFSET $2`
		}
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) Search(ctx context.Context, term string) ([]domain.User, error) {
	const query = `
        SELECT ` + userColumns + ` FROM users
        WHERE LOWER(nome) LIKE $1 OR LOWER(login) LIKE $1
        ORDER BY nome ASC`
	rows, err := r.pool.Query(ctx, query, "%"+strings.ToLower(strings.TrimSpace(term))+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) Stats(ctx context.Context) (UserStats, error) {
	var stats UserStats
	err := r.pool.QueryRow(ctx, `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE ativo),
               COUNT(*) FILTER (WHERE NOT ativo)
        FROM users`).Scan(&stats.Total, &stats.Ativos, &stats.Inativos)
	return stats, err
}

func (r *userRepository) ListTechnicianNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT nome FROM users
        WHERE role=$1 AND ativo
        ORDER BY nome ASC`, domain.RoleTecnico)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET ultimo_login=NOW() WHERE id=$1`, id)
	return err
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Nome,
			&user.Login,
			&user.SenhaHash,
			&user.Role,
			&user.Ativo,
			&user.CriadoEm,
			&user.AtualizadoEm,
			&user.UltimoLogin,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
