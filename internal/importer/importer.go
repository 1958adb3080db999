package importer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chamadopetro/chamado-service/internal/domain"
)

// Result is the import summary returned to the caller.
type Result struct {
	Success    int      `json:"success"`
	Errors     []string `json:"errors"`
	Duplicates []string `json:"duplicates"`
}

// NewResult returns a summary with non-nil slices so the JSON encoding is
// always arrays.
func NewResult() *Result {
	return &Result{Errors: []string{}, Duplicates: []string{}}
}

// AddError records a failed line.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddDuplicate records a display code that already exists.
func (r *Result) AddDuplicate(ticketID string) {
	r.Duplicates = append(r.Duplicates, ticketID)
}

// TicketStore is the persistence surface the importer needs.
type TicketStore interface {
	ExistsByTicketID(ctx context.Context, ticketID string) (bool, error)
	Create(ctx context.Context, ticket *domain.Ticket) error
}

// Importer commits a whole delimited file into the ticket store.
type Importer struct {
	store TicketStore
	now   func() time.Time
}

// New constructs an importer over the given store.
func New(store TicketStore) *Importer {
	return &Importer{store: store, now: time.Now}
}

// Import reads the file line by line, skips a header line and blank lines,
// parses and validates each row, rejects display codes already present, and
// persists the rest. Per-line failures are collected in the result instead
// of aborting the run.
func (imp *Importer) Import(ctx context.Context, r io.Reader) *Result {
	result := NewResult()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 0
	firstLine := true
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()

		if firstLine {
			firstLine = false
			if isHeaderLine(line) {
				continue
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		ticket, err := ParseLine(line, lineNumber, imp.now())
		if err != nil {
			result.AddError(fmt.Sprintf("Linha %d: %v", lineNumber, err))
			continue
		}

		exists, err := imp.store.ExistsByTicketID(ctx, ticket.TicketID)
		if err != nil {
			result.AddError(fmt.Sprintf("Linha %d: %v", lineNumber, err))
			continue
		}
		if exists {
			result.AddDuplicate(ticket.TicketID)
			continue
		}

		if err := imp.store.Create(ctx, ticket); err != nil {
			result.AddError(fmt.Sprintf("Linha %d: %v", lineNumber, err))
			continue
		}
		result.Success++
	}
	if err := scanner.Err(); err != nil {
		result.AddError(fmt.Sprintf("Erro ao processar arquivo: %v", err))
	}
	return result
}

// isHeaderLine recognizes header rows, both the template's and the ones
// exported by the upstream tool, so they are not imported as data.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "ticketid") ||
		strings.Contains(lower, "titulo") ||
		strings.Contains(lower, "código") ||
		strings.Contains(lower, "prioridade") ||
		strings.Contains(lower, "descrição resumida")
}

// ParseLine converts one delimited row into a ticket draft.
//
// Expected column order: Prioridade, Número, Aberto(a) por, Aberto(a),
// Atribuído(a), Atualizado, Descrição resumida. Opened/updated dates come
// from the clock, not the file. The title is derived from the first 50
// characters of the description.
func ParseLine(line string, lineNumber int, now time.Time) (*domain.Ticket, error) {
	fields := splitQuoted(line)
	if len(fields) < 6 {
		return nil, fmt.Errorf("linha deve conter pelo menos 6 campos: Prioridade, Número, Aberto(a) por, Aberto(a), Atribuído(a), Atualizado, Descrição resumida")
	}

	ticketID := strings.TrimSpace(fields[1])
	if ticketID == "" {
		return nil, fmt.Errorf("número do chamado não pode estar vazio")
	}
	abertoPor := strings.TrimSpace(fields[2])
	if abertoPor == "" {
		return nil, fmt.Errorf("campo 'Aberto(a) por' não pode estar vazio")
	}

	atribuidoA := strings.TrimSpace(fields[4])
	if atribuidoA == "" {
		atribuidoA = domain.SemAtribuicao
	}

	descricao := ""
	if len(fields) > 6 {
		descricao = strings.TrimSpace(fields[6])
	}
	if descricao == "" {
		return nil, fmt.Errorf("descrição resumida não pode estar vazia")
	}

	titulo := descricao
	if runes := []rune(titulo); len(runes) > 50 {
		titulo = string(runes[:50]) + "..."
	}

	return &domain.Ticket{
		TicketID:   ticketID,
		Titulo:     titulo,
		Descricao:  descricao,
		Prioridade: domain.NormalizePrioridade(fields[0]),
		Status:     domain.StatusEmAtendimento,
		AbertoPor:  abertoPor,
		AtribuidoA: atribuidoA,
		AbertoEm:   now,
		Atualizado: now,
	}, nil
}

// splitQuoted splits a line on commas while honoring double-quoted cells,
// unlike the naive preview split.
func splitQuoted(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false
	for _, c := range line {
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}
	fields = append(fields, current.String())
	return fields
}

// TemplateCSV is the downloadable import template, header plus two example
// rows.
func TemplateCSV() []byte {
	rows := []string{
		"Prioridade,Número,Aberto(a) por,Aberto(a),Atribuído(a),Atualizado,Descrição resumida",
		"Alta,INC2024001,João Silva,2024-01-15,Maria Santos,2024-01-15,Exemplo de chamado - Descrição detalhada do problema",
		"Crítica,INC2024002,Pedro Costa,2024-01-16,Ana Oliveira,2024-01-16,Outro exemplo - Outra descrição",
	}
	return []byte(strings.Join(rows, "\n"))
}
