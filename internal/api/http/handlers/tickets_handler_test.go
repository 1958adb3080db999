package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/chamadopetro/chamado-service/internal/api/dto"
	"github.com/chamadopetro/chamado-service/internal/domain"
	"github.com/chamadopetro/chamado-service/internal/repository"
	"github.com/chamadopetro/chamado-service/internal/service"
)

type stubTicketRepo struct {
	byID map[string]domain.Ticket
	seq  int
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{byID: map[string]domain.Ticket{}}
}

func (r *stubTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("id-%d", r.seq)
	now := time.Now()
	ticket.AbertoEm = now
	ticket.Atualizado = now
	r.byID[ticket.ID] = *ticket
	return nil
}

func (r *stubTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.byID[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.Atualizado = time.Now()
	r.byID[ticket.ID] = *ticket
	return nil
}

func (r *stubTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *stubTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *stubTicketRepo) GetByTicketID(_ context.Context, ticketID string) (*domain.Ticket, error) {
	for _, ticket := range r.byID {
		if ticket.TicketID == ticketID {
			t := ticket
			return &t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubTicketRepo) ExistsByTicketID(_ context.Context, ticketID string) (bool, error) {
	_, err := r.GetByTicketID(context.Background(), ticketID)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (r *stubTicketRepo) List(_ context.Context) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0, len(r.byID))
	for _, ticket := range r.byID {
		out = append(out, ticket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AbertoEm.After(out[j].AbertoEm) })
	return out, nil
}

func (r *stubTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	all, _ := r.List(ctx)
	out := make([]domain.Ticket, 0, len(all))
	for _, ticket := range all {
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Prioridade != nil && ticket.Prioridade != *filter.Prioridade {
			continue
		}
		if filter.AtribuidoA != nil && ticket.AtribuidoA != *filter.AtribuidoA {
			continue
		}
		if filter.Search != nil {
			term := strings.ToLower(*filter.Search)
			if !strings.Contains(strings.ToLower(ticket.Titulo), term) &&
				!strings.Contains(strings.ToLower(ticket.TicketID), term) &&
				!strings.Contains(strings.ToLower(ticket.AbertoPor), term) {
				continue
			}
		}
		if filter.AbertoDesde != nil && ticket.AbertoEm.Before(*filter.AbertoDesde) {
			continue
		}
		out = append(out, ticket)
	}
	return out, nil
}

type stubUserRepo struct {
	technicians []string
}

func (r *stubUserRepo) Create(context.Context, *domain.User) error       { return nil }
func (r *stubUserRepo) Update(context.Context, *domain.User) error      { return nil }
func (r *stubUserRepo) Delete(context.Context, string) error            { return nil }
func (r *stubUserRepo) GetByID(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (r *stubUserRepo) GetByLogin(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}
func (r *stubUserRepo) ExistsByLogin(context.Context, string) (bool, error) { return false, nil }
func (r *stubUserRepo) List(context.Context, int, int) ([]domain.User, error) {
	return nil, nil
}
func (r *stubUserRepo) Search(context.Context, string) ([]domain.User, error) { return nil, nil }
func (r *stubUserRepo) Stats(context.Context) (repository.UserStats, error) {
	return repository.UserStats{}, nil
}
func (r *stubUserRepo) ListTechnicianNames(context.Context) ([]string, error) {
	return r.technicians, nil
}
func (r *stubUserRepo) TouchLastLogin(context.Context, string) error { return nil }

func newTestApp(repo *stubTicketRepo) *fiber.App {
	svc := service.NewTicketService(repo, &stubUserRepo{technicians: []string{"Carlos Eduardo Lima"}}, nil)
	handler := NewTicketsHandler(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			// Minimal stand-in for the error middleware.
			c.Status(http.StatusInternalServerError)
			return nil
		}
		return nil
	})

	tickets := app.Group("/api/tickets")
	tickets.Get("/dashboard/metrics", handler.Dashboard)
	tickets.Get("/technicians", handler.Technicians)
	tickets.Get("/priorities", handler.Priorities)
	tickets.Get("/reports/resolved.csv", handler.ExportReport)
	tickets.Post("/import/preview", handler.PreviewImport)
	tickets.Post("/import", handler.ImportTickets)
	tickets.Get("/", handler.ListTickets)
	tickets.Post("/", handler.CreateTicket)
	tickets.Get("/:id", handler.GetTicket)
	return app
}

func seedTicket(t *testing.T, repo *stubTicketRepo, ticketID string, status domain.Status) {
	t.Helper()
	err := repo.Create(context.Background(), &domain.Ticket{
		TicketID:   ticketID,
		Titulo:     "Chamado " + ticketID,
		Descricao:  "detalhes",
		Prioridade: domain.PrioridadeModerada,
		Status:     status,
		AbertoPor:  "Maria Souza",
		AtribuidoA: "Carlos Eduardo Lima",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestCreateThenFetchTicket(t *testing.T) {
	repo := newStubTicketRepo()
	app := newTestApp(repo)

	body, _ := json.Marshal(dto.TicketRequest{
		Titulo:     "Sem acesso ao e-mail",
		Descricao:  "Usuária não consegue autenticar",
		Prioridade: string(domain.PrioridadeAlta),
		AbertoPor:  "Maria Souza",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/tickets/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	var created dto.TicketResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || !strings.HasPrefix(created.TicketID, "INC") {
		t.Errorf("created = %+v", created)
	}
	if created.Status != string(domain.StatusAguardandoUsuario) {
		t.Errorf("default status = %q", created.Status)
	}
	if created.AtribuidoA != domain.SemAtribuicao {
		t.Errorf("default assignee = %q", created.AtribuidoA)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/tickets/"+created.ID, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fetch status = %d", resp.StatusCode)
	}
	var fetched dto.TicketResponse
	_ = json.NewDecoder(resp.Body).Decode(&fetched)
	if fetched.TicketID != created.TicketID {
		t.Errorf("fetched %q, created %q", fetched.TicketID, created.TicketID)
	}
}

func TestListActiveView(t *testing.T) {
	repo := newStubTicketRepo()
	seedTicket(t, repo, "INC0000100", domain.StatusEmAtendimento)
	seedTicket(t, repo, "INC0000101", domain.StatusResolvido)
	app := newTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/tickets/?view=active", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var list dto.TicketListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != 2 || list.Filtered != 1 || len(list.Items) != 1 {
		t.Errorf("list = %+v", list)
	}
	if list.Items[0].TicketID != "INC0000100" {
		t.Errorf("resolved ticket leaked into active view")
	}
}

func TestDashboardEndpoint(t *testing.T) {
	repo := newStubTicketRepo()
	seedTicket(t, repo, "INC0000200", domain.StatusEmAtendimento)
	seedTicket(t, repo, "INC0000201", domain.StatusResolvido)
	app := newTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/tickets/dashboard/metrics", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var payload struct {
		Metrics struct {
			TotalTickets    int64 `json:"totalTickets"`
			ResolvedTickets int64 `json:"resolvedTickets"`
		} `json:"metrics"`
		RecentTickets []dto.TicketResponse `json:"recentTickets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Metrics.TotalTickets != 2 || payload.Metrics.ResolvedTickets != 1 {
		t.Errorf("metrics = %+v", payload.Metrics)
	}
	if len(payload.RecentTickets) != 1 {
		t.Errorf("recent = %+v", payload.RecentTickets)
	}
}

func TestExportEndpoint(t *testing.T) {
	repo := newStubTicketRepo()
	seedTicket(t, repo, "INC0000300", domain.StatusResolvido)
	app := newTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/tickets/reports/resolved.csv", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "relatorio-chamados-resolvidos-") {
		t.Errorf("content disposition = %q", cd)
	}
	payload, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(payload), "INC0000300") {
		t.Errorf("export body = %q", payload)
	}
}

func TestTechniciansEndpoint(t *testing.T) {
	app := newTestApp(newStubTicketRepo())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/tickets/technicians", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var names []string
	_ = json.NewDecoder(resp.Body).Decode(&names)
	if len(names) != 1 || names[0] != "Carlos Eduardo Lima" {
		t.Errorf("technicians = %v", names)
	}
}

func multipartFile(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = part.Write([]byte(content))
	_ = writer.Close()
	return &buf, writer.FormDataContentType()
}

func TestImportEndpoint(t *testing.T) {
	repo := newStubTicketRepo()
	app := newTestApp(repo)

	content := "Prioridade,Número,Aberto(a) por,Aberto(a),Atribuído(a),Atualizado,Descrição resumida\n" +
		"Alta,INC0000400,João,2024-01-15,Tec,2024-01-15,Descrição do problema\n"
	buf, contentType := multipartFile(t, "chamados.csv", content)

	req := httptest.NewRequest(http.MethodPost, "/api/tickets/import", buf)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var result struct {
		Success    int      `json:"success"`
		Errors     []string `json:"errors"`
		Duplicates []string `json:"duplicates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Success != 1 || len(result.Errors) != 0 {
		t.Errorf("result = %+v", result)
	}
	if _, err := repo.GetByTicketID(context.Background(), "INC0000400"); err != nil {
		t.Errorf("imported ticket not persisted: %v", err)
	}
}

func TestImportRejectsUnknownExtension(t *testing.T) {
	app := newTestApp(newStubTicketRepo())
	buf, contentType := multipartFile(t, "chamados.pdf", "x")
	req := httptest.NewRequest(http.MethodPost, "/api/tickets/import", buf)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestPreviewEndpoint(t *testing.T) {
	app := newTestApp(newStubTicketRepo())
	buf, contentType := multipartFile(t, "chamados.csv", "a,1\nb,2\nc,3\nd,4\ne,5\nf,6")
	req := httptest.NewRequest(http.MethodPost, "/api/tickets/import/preview", buf)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var preview dto.ImportPreviewResponse
	if err := json.NewDecoder(resp.Body).Decode(&preview); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(preview.Rows) != 5 {
		t.Errorf("preview rows = %d, want 5", len(preview.Rows))
	}
}

func TestSearchEndpoint(t *testing.T) {
	repo := newStubTicketRepo()
	seedTicket(t, repo, "INC0000500", domain.StatusEmAtendimento)
	seedTicket(t, repo, "INC0000501", domain.StatusResolvido)
	app := newTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/tickets/?status="+
		strings.ReplaceAll(string(domain.StatusResolvido), " ", "%20"), nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var tickets []dto.TicketResponse
	if err := json.NewDecoder(resp.Body).Decode(&tickets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tickets) != 1 || tickets[0].TicketID != "INC0000501" {
		t.Errorf("search result = %+v", tickets)
	}
}
