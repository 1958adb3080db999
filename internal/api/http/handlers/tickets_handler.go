package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/chamadopetro/chamado-service/internal/api/dto"
	"github.com/chamadopetro/chamado-service/internal/domain"
	"github.com/chamadopetro/chamado-service/internal/importer"
	"github.com/chamadopetro/chamado-service/internal/query"
	"github.com/chamadopetro/chamado-service/internal/service"
	apperrors "github.com/chamadopetro/chamado-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /api/tickets.
//
// Without parameters the whole collection is returned as an array, matching
// the original contract. view=active switches to the paginated active-tickets
// listing; any filter parameter without a view triggers a server-side search.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	state := parseFilterState(c)

	if c.Query("view") == "active" {
		list, err := h.service.ListActive(c.Context(), state, parsePageSize(c))
		if err != nil {
			return err
		}
		return c.JSON(ticketListResponse(list))
	}

	tickets, err := h.service.Search(c.Context(), state)
	if err != nil {
		return err
	}
	return c.JSON(ticketResponses(tickets))
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(ticket))
}

// GetTicketByCode GET /api/tickets/ticket/:ticketId.
func (h *TicketsHandler) GetTicketByCode(c *fiber.Ctx) error {
	ticket, err := h.service.GetByTicketID(c.Context(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(ticket))
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	ticket, err := h.service.Create(c.Context(), ticketInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ticketResponse(ticket))
}

// UpdateTicket PUT /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	ticket, err := h.service.Update(c.Context(), c.Params("id"), ticketInput(req))
	if err != nil {
		return err
	}
	return c.JSON(ticketResponse(ticket))
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Dashboard GET /api/tickets/dashboard/metrics.
func (h *TicketsHandler) Dashboard(c *fiber.Ctx) error {
	data, err := h.service.Dashboard(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"metrics":       data.Metrics,
		"recentTickets": ticketResponses(data.Recent),
	})
}

// Technicians GET /api/tickets/technicians.
func (h *TicketsHandler) Technicians(c *fiber.Ctx) error {
	names, err := h.service.Technicians(c.Context())
	if err != nil {
		return err
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(names)
}

// Priorities GET /api/tickets/priorities.
func (h *TicketsHandler) Priorities(c *fiber.Ctx) error {
	priorities := domain.Prioridades()
	out := make([]string, 0, len(priorities))
	for _, p := range priorities {
		out = append(out, string(p))
	}
	return c.JSON(out)
}

// Statuses GET /api/tickets/statuses.
func (h *TicketsHandler) Statuses(c *fiber.Ctx) error {
	statuses := domain.Statuses()
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return c.JSON(out)
}

// Report GET /api/tickets/reports/resolved.
func (h *TicketsHandler) Report(c *fiber.Ctx) error {
	state := parseFilterState(c)
	rep, err := h.service.Report(c.Context(), state, parsePageSize(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"metrics": rep.Metrics,
		"page":    ticketListResponse(&rep.List),
	})
}

// ExportReport GET /api/tickets/reports/resolved.csv.
func (h *TicketsHandler) ExportReport(c *fiber.Ctx) error {
	state := parseFilterState(c)
	payload, filename, err := h.service.ExportResolvedCSV(c.Context(), state)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(payload)
}

// ImportTickets POST /api/tickets/import (multipart "file").
func (h *TicketsHandler) ImportTickets(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		result := importer.NewResult()
		result.AddError("Arquivo não pode estar vazio")
		return c.Status(http.StatusBadRequest).JSON(result)
	}
	if !supportedImportFile(file.Filename) {
		result := importer.NewResult()
		result.AddError("Formato de arquivo não suportado. Use CSV, XLSX ou TXT.")
		return c.Status(http.StatusBadRequest).JSON(result)
	}

	src, err := file.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer src.Close()

	return c.JSON(h.service.Import(c.Context(), src))
}

// PreviewImport POST /api/tickets/import/preview (multipart "file").
// Best-effort: returns the first lines of the file without committing.
func (h *TicketsHandler) PreviewImport(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("arquivo ausente", nil)
	}
	src, err := file.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer src.Close()

	raw, err := io.ReadAll(src)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	rows := importer.Preview(string(raw))
	resp := dto.ImportPreviewResponse{Rows: make([]dto.ImportPreviewRow, 0, len(rows))}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, dto.ImportPreviewRow{Line: row.Line, Data: row.Data})
	}
	return c.JSON(resp)
}

// ImportTemplate GET /api/tickets/import/template.csv.
func (h *TicketsHandler) ImportTemplate(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="template-importacao-chamados.csv"`)
	return c.Send(importer.TemplateCSV())
}

func supportedImportFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx", ".txt":
		return true
	}
	return false
}

func parseFilterState(c *fiber.Ctx) query.State {
	state := query.NewState()
	if search := c.Query("search"); search != "" {
		state.Search = search
	}
	if status := c.Query("status"); status != "" {
		state.Status = status
	}
	if prioridade := c.Query("prioridade"); prioridade != "" {
		state.Prioridade = prioridade
	}
	if atribuidoA := c.Query("atribuidoA"); atribuidoA != "" {
		state.AtribuidoA = atribuidoA
	}
	if dateRange := c.Query("dateRange"); dateRange != "" {
		state.DateRange = query.DateRange(dateRange)
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		state.Page = page
	}
	return state
}

func parsePageSize(c *fiber.Ctx) int {
	if size, err := strconv.Atoi(c.Query("pageSize")); err == nil && size > 0 {
		return size
	}
	return service.DefaultPageSize
}

func ticketInput(req dto.TicketRequest) service.TicketInput {
	return service.TicketInput{
		TicketID:       req.TicketID,
		Titulo:         req.Titulo,
		Descricao:      req.Descricao,
		Prioridade:     req.Prioridade,
		Status:         req.Status,
		AbertoPor:      req.AbertoPor,
		EmailAbertoPor: req.EmailAbertoPor,
		AtribuidoA:     req.AtribuidoA,
	}
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:             ticket.ID,
		TicketID:       ticket.TicketID,
		Titulo:         ticket.Titulo,
		Descricao:      ticket.Descricao,
		Prioridade:     string(ticket.Prioridade),
		Status:         string(ticket.Status),
		AbertoPor:      ticket.AbertoPor,
		EmailAbertoPor: ticket.EmailAbertoPor,
		AtribuidoA:     ticket.AtribuidoA,
		AbertoEm:       ticket.AbertoEm,
		Atualizado:     ticket.Atualizado,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	out := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, ticketResponse(&tickets[i]))
	}
	return out
}

func ticketListResponse(list *service.TicketList) dto.TicketListResponse {
	return dto.TicketListResponse{
		Items:      ticketResponses(list.Items),
		Filtered:   list.Filtered,
		Total:      list.Total,
		Page:       list.Page,
		TotalPages: list.TotalPages,
	}
}
