package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chamadopetro/chamado-service/internal/domain"
)

// TicketFilter captures the listing query parameters. Nil fields are
// inactive; the predicates combine with AND.
type TicketFilter struct {
	Search      *string
	Status      *domain.Status
	Prioridade  *domain.Prioridade
	AtribuidoA  *string
	AbertoDesde *time.Time
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error)
	ExistsByTicketID(ctx context.Context, ticketID string) (bool, error)
	List(ctx context.Context) ([]domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_id, titulo, descricao, prioridade, status,
               aberto_por, email_aberto_por, atribuido_a, aberto_em, atualizado`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_id, titulo, descricao, prioridade, status, aberto_por, email_aberto_por, atribuido_a)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, aberto_em, atualizado`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketID,
		ticket.Titulo,
		ticket.Descricao,
		ticket.Prioridade,
		ticket.Status,
		ticket.AbertoPor,
		ticket.EmailAbertoPor,
		ticket.AtribuidoA,
	).Scan(&ticket.ID, &ticket.AbertoEm, &ticket.Atualizado)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET titulo=$1, descricao=$2, prioridade=$3, status=$4,
            aberto_por=$5, email_aberto_por=$6, atribuido_a=$7, atualizado=NOW()
        WHERE id=$8
        RETURNING atualizado`
	return r.pool.QueryRow(ctx, query,
		ticket.Titulo,
		ticket.Descricao,
		ticket.Prioridade,
		ticket.Status,
		ticket.AbertoPor,
		ticket.EmailAbertoPor,
		ticket.AtribuidoA,
		ticket.ID,
	).Scan(&ticket.Atualizado)
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
}

func (r *ticketRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE ticket_id=$1`, ticketID)
}

func (r *ticketRepository) ExistsByTicketID(ctx context.Context, ticketID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tickets WHERE ticket_id=$1)`, ticketID).Scan(&exists)
	return exists, err
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.TicketID,
		&ticket.Titulo,
		&ticket.Descricao,
		&ticket.Prioridade,
		&ticket.Status,
		&ticket.AbertoPor,
		&ticket.EmailAbertoPor,
		&ticket.AtribuidoA,
		&ticket.AbertoEm,
		&ticket.Atualizado,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	return r.ListWithFilter(ctx, TicketFilter{})
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Prioridade != nil {
		args = append(args, *filter.Prioridade)
		clauses = append(clauses, fmt.Sprintf("prioridade=$%d", len(args)))
	}
	if filter.AtribuidoA != nil {
		args = append(args, *filter.AtribuidoA)
		clauses = append(clauses, fmt.Sprintf("atribuido_a=$%d", len(args)))
	}
	if filter.AbertoDesde != nil {
		args = append(args, *filter.AbertoDesde)
		clauses = append(clauses, fmt.Sprintf("aberto_em >= $%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(titulo) LIKE %s OR LOWER(ticket_id) LIKE %s OR LOWER(aberto_por) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY aberto_em DESC", base, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.TicketID,
			&ticket.Titulo,
			&ticket.Descricao,
			&ticket.Prioridade,
			&ticket.Status,
			&ticket.AbertoPor,
			&ticket.EmailAbertoPor,
			&ticket.AtribuidoA,
			&ticket.AbertoEm,
			&ticket.Atualizado,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
