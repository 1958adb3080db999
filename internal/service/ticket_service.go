package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chamadopetro/chamado-service/internal/domain"
	"github.com/chamadopetro/chamado-service/internal/events"
	"github.com/chamadopetro/chamado-service/internal/importer"
	"github.com/chamadopetro/chamado-service/internal/query"
	"github.com/chamadopetro/chamado-service/internal/report"
	"github.com/chamadopetro/chamado-service/internal/repository"
	apperrors "github.com/chamadopetro/chamado-service/pkg/util"
)

// DefaultPageSize mirrors the listing views (8 rows per page).
const DefaultPageSize = 8

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, users repository.UserRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, users: users, dispatcher: dispatcher}
}

// TicketInput describes a create/update payload. Status accepts any known
// literal: the client intentionally does not constrain transitions.
type TicketInput struct {
	TicketID       string
	Titulo         string
	Descricao      string
	Prioridade     string
	Status         string
	AbertoPor      string
	EmailAbertoPor string
	AtribuidoA     string
}

func (in *TicketInput) validate() error {
	details := map[string]any{}
	if strings.TrimSpace(in.Titulo) == "" {
		details["titulo"] = "obrigatório"
	}
	if strings.TrimSpace(in.Descricao) == "" {
		details["descricao"] = "obrigatório"
	}
	if strings.TrimSpace(in.AbertoPor) == "" {
		details["abertoPor"] = "obrigatório"
	}
	if !domain.Prioridade(in.Prioridade).Valid() {
		details["prioridade"] = "valor desconhecido"
	}
	if in.Status != "" && !domain.Status(in.Status).Valid() {
		details["status"] = "valor desconhecido"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("campos obrigatórios ausentes ou inválidos", details)
	}
	return nil
}

// TicketList is one page of a filtered listing.
type TicketList struct {
	Items      []domain.Ticket
	Filtered   int
	Total      int
	Page       int
	TotalPages int
}

// ListActive returns the active-tickets view: resolved tickets are excluded
// unconditionally before the remaining filters and pagination apply.
func (s *TicketService) ListActive(ctx context.Context, state query.State, pageSize int) (*TicketList, error) {
	all, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	return paginateView(query.ActiveOnly(all), len(all), state, pageSize), nil
}

// Search applies the filter state over the whole collection, resolved
// tickets included, without pagination.
func (s *TicketService) Search(ctx context.Context, state query.State) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{}
	if term := strings.TrimSpace(state.Search); term != "" {
		filter.Search = &term
	}
	if state.Status != "" && state.Status != query.All {
		status := domain.Status(state.Status)
		filter.Status = &status
	}
	if state.Prioridade != "" && state.Prioridade != query.All {
		prioridade := domain.Prioridade(state.Prioridade)
		filter.Prioridade = &prioridade
	}
	if state.AtribuidoA != "" && state.AtribuidoA != query.All {
		tech := state.AtribuidoA
		filter.AtribuidoA = &tech
	}
	switch state.DateRange {
	case query.DateRangeWeek:
		since := time.Now().AddDate(0, 0, -7)
		filter.AbertoDesde = &since
	case query.DateRangeMonth:
		since := time.Now().AddDate(0, 0, -30)
		filter.AbertoDesde = &since
	case query.DateRangeQuarter:
		since := time.Now().AddDate(0, 0, -90)
		filter.AbertoDesde = &since
	}
	return s.tickets.ListWithFilter(ctx, filter)
}

// Get fetches a ticket by its server-assigned identifier.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// GetByTicketID fetches a ticket by its display code.
func (s *TicketService) GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// Create persists a new ticket. The display code is generated when absent
// and must be unique when supplied.
func (s *TicketService) Create(ctx context.Context, input TicketInput) (*domain.Ticket, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	ticketID := strings.TrimSpace(input.TicketID)
	if ticketID == "" {
		ticketID = domain.NewTicketID(time.Now())
	}
	exists, err := s.tickets.ExistsByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("código de chamado já existe", map[string]any{"ticketId": ticketID})
	}

	status := domain.Status(input.Status)
	if input.Status == "" {
		status = domain.StatusAguardandoUsuario
	}
	atribuidoA := strings.TrimSpace(input.AtribuidoA)
	if atribuidoA == "" {
		atribuidoA = domain.SemAtribuicao
	}

	ticket := &domain.Ticket{
		TicketID:       ticketID,
		Titulo:         strings.TrimSpace(input.Titulo),
		Descricao:      strings.TrimSpace(input.Descricao),
		Prioridade:     domain.Prioridade(input.Prioridade),
		Status:         status,
		AbertoPor:      strings.TrimSpace(input.AbertoPor),
		EmailAbertoPor: strings.TrimSpace(input.EmailAbertoPor),
		AtribuidoA:     atribuidoA,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Codigo:     ticket.TicketID,
			Titulo:     ticket.Titulo,
			Prioridade: ticket.Prioridade,
			AtribuidoA: ticket.AtribuidoA,
		},
	})
	return ticket, nil
}

// Update replaces the mutable fields of a ticket. Any status value may be
// written; the display code never changes.
func (s *TicketService) Update(ctx context.Context, id string, input TicketInput) (*domain.Ticket, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	oldStatus := ticket.Status
	ticket.Titulo = strings.TrimSpace(input.Titulo)
	ticket.Descricao = strings.TrimSpace(input.Descricao)
	ticket.Prioridade = domain.Prioridade(input.Prioridade)
	if input.Status != "" {
		ticket.Status = domain.Status(input.Status)
	}
	ticket.AbertoPor = strings.TrimSpace(input.AbertoPor)
	ticket.EmailAbertoPor = strings.TrimSpace(input.EmailAbertoPor)
	if atribuidoA := strings.TrimSpace(input.AtribuidoA); atribuidoA != "" {
		ticket.AtribuidoA = atribuidoA
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	eventType := events.EventTicketUpdated
	if oldStatus != ticket.Status {
		eventType = events.EventTicketStatusChanged
	}
	s.publish(ctx, events.Event{
		Type:     eventType,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			Codigo:    ticket.TicketID,
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
		},
	})
	return ticket, nil
}

// Delete removes a ticket permanently.
func (s *TicketService) Delete(ctx context.Context, id string) error {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		Payload:  events.TicketDeletedPayload{Codigo: ticket.TicketID},
	})
	return nil
}

// DashboardData is the landing-page payload.
type DashboardData struct {
	Metrics report.DashboardMetrics `json:"metrics"`
	Recent  []domain.Ticket         `json:"recentTickets"`
}

// Dashboard aggregates counters, charts and the five most recent active
// tickets.
func (s *TicketService) Dashboard(ctx context.Context) (*DashboardData, error) {
	all, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardData{
		Metrics: report.Dashboard(all),
		Recent:  query.Recent(all, 5),
	}, nil
}

// ResolvedReport is the reports-view payload: a filtered page of resolved
// tickets plus its counters.
type ResolvedReport struct {
	List    TicketList
	Metrics report.Metrics
}

// Report builds the resolved-tickets view for the given filter state.
func (s *TicketService) Report(ctx context.Context, state query.State, pageSize int) (*ResolvedReport, error) {
	all, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	resolved := report.ResolvedOnly(all)
	filtered := query.Filter(resolved, state, time.Now())
	list := paginate(filtered, state.Page, pageSize)
	list.Total = len(all)
	return &ResolvedReport{
		List:    *list,
		Metrics: report.Summarize(all, filtered),
	}, nil
}

// ExportResolvedCSV renders the filtered resolved tickets as the CSV
// attachment, returning the payload and its filename.
func (s *TicketService) ExportResolvedCSV(ctx context.Context, state query.State) ([]byte, string, error) {
	all, err := s.tickets.List(ctx)
	if err != nil {
		return nil, "", err
	}
	filtered := query.Filter(report.ResolvedOnly(all), state, time.Now())
	payload, err := report.CSV(filtered)
	if err != nil {
		return nil, "", err
	}
	return payload, report.Filename(time.Now()), nil
}

// Import commits a whole delimited file, collecting per-line failures and
// duplicate display codes.
func (s *TicketService) Import(ctx context.Context, r io.Reader) *importer.Result {
	result := importer.New(s.tickets).Import(ctx, r)
	s.publish(ctx, events.Event{
		Type: events.EventTicketsImported,
		Payload: events.TicketsImportedPayload{
			Success:    result.Success,
			Errors:     len(result.Errors),
			Duplicates: len(result.Duplicates),
		},
	})
	return result
}

// Technicians lists the fixed roster of assignable technician names.
func (s *TicketService) Technicians(ctx context.Context) ([]string, error) {
	return s.users.ListTechnicianNames(ctx)
}

func paginateView(active []domain.Ticket, total int, state query.State, pageSize int) *TicketList {
	filtered := query.Filter(active, state, time.Now())
	list := paginate(filtered, state.Page, pageSize)
	list.Total = total
	return list
}

func paginate(filtered []domain.Ticket, page, pageSize int) *TicketList {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	result := query.Paginate(filtered, page, pageSize)
	return &TicketList{
		Items:      result.Items,
		Filtered:   len(filtered),
		Page:       page,
		TotalPages: result.TotalPages,
	}
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
