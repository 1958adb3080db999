// Package report derives resolved-ticket subsets, rate metrics and the CSV
// export for the reports view, plus the dashboard aggregates.
package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/chamadopetro/chamado-service/internal/domain"
)

// CSVHeader is the literal header row of the resolved-tickets export.
var CSVHeader = []string{"Código", "Título", "Prioridade", "Responsável", "Aberto Por", "Data Abertura", "Data Resolução"}

// ResolvedOnly returns the tickets with terminal status, preserving order.
func ResolvedOnly(tickets []domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if tickets[i].Resolvido() {
			out = append(out, tickets[i])
		}
	}
	return out
}

// Metrics summarizes the reports view counters.
type Metrics struct {
	Total                 int `json:"total"`
	Resolved              int `json:"resolved"`
	Filtered              int `json:"filtered"`
	ResolutionRatePercent int `json:"resolutionRatePercent"`
}

// Summarize computes counters over the full collection and the currently
// filtered subset. The resolution rate is 0 when the collection is empty.
func Summarize(tickets, filtered []domain.Ticket) Metrics {
	resolved := len(ResolvedOnly(tickets))
	m := Metrics{
		Total:    len(tickets),
		Resolved: resolved,
		Filtered: len(filtered),
	}
	if m.Total > 0 {
		m.ResolutionRatePercent = int(math.Round(float64(resolved) / float64(m.Total) * 100))
	}
	return m
}

// FormatDate renders a timestamp the way the pt-BR UI shows dates.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// WriteCSV streams the export: header row, then one row per ticket in input
// order. Data Resolução is the last-updated date for resolved tickets and a
// "-" placeholder otherwise. Fields are RFC 4180 quoted, so titles containing
// commas survive the round trip.
func WriteCSV(w io.Writer, tickets []domain.Ticket) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for i := range tickets {
		t := &tickets[i]
		resolucao := "-"
		if t.Resolvido() {
			resolucao = FormatDate(t.Atualizado)
		}
		row := []string{
			t.TicketID,
			t.Titulo,
			string(t.Prioridade),
			t.AtribuidoA,
			t.AbertoPor,
			FormatDate(t.AbertoEm),
			resolucao,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV renders the export into memory.
func CSV(tickets []domain.Ticket) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tickets); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename names the downloadable attachment after the generation date, not
// the data range.
func Filename(now time.Time) string {
	return "relatorio-chamados-resolvidos-" + now.Format("2006-01-02") + ".csv"
}

var priorityColors = map[domain.Prioridade]string{
	domain.PrioridadeCritica:  "#ef4444",
	domain.PrioridadeAlta:     "#f97316",
	domain.PrioridadeModerada: "#eab308",
	domain.PrioridadeBaixa:    "#22c55e",
}

// NamedCount pairs a label with a ticket count.
type NamedCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Color string `json:"color,omitempty"`
}

// DashboardMetrics aggregates the landing-page counters and charts.
type DashboardMetrics struct {
	TotalTickets    int64        `json:"totalTickets"`
	OpenTickets     int64        `json:"openTickets"`
	ResolvedTickets int64        `json:"resolvedTickets"`
	PendingTickets  int64        `json:"pendingTickets"`
	TechnicianStats []NamedCount `json:"technicianStats"`
	PriorityStats   []NamedCount `json:"priorityStats"`
	StatusStats     []NamedCount `json:"statusStats"`
}

// Dashboard computes the full dashboard aggregate over the collection.
// Technicians are keyed by first name; priorities lose their rank prefix and
// carry the chart color.
func Dashboard(tickets []domain.Ticket) DashboardMetrics {
	m := DashboardMetrics{TotalTickets: int64(len(tickets))}
	byTech := map[string]int64{}
	byPriority := map[domain.Prioridade]int64{}
	byStatus := map[domain.Status]int64{}
	for i := range tickets {
		t := &tickets[i]
		switch t.Status {
		case domain.StatusResolvido:
			m.ResolvedTickets++
		case domain.StatusAguardandoUsuario:
			m.PendingTickets++
			m.OpenTickets++
		default:
			m.OpenTickets++
		}
		byTech[firstName(t.AtribuidoA)]++
		byPriority[t.Prioridade]++
		byStatus[t.Status]++
	}
	for name, count := range byTech {
		m.TechnicianStats = append(m.TechnicianStats, NamedCount{Name: name, Value: count})
	}
	sort.Slice(m.TechnicianStats, func(i, j int) bool {
		if m.TechnicianStats[i].Value != m.TechnicianStats[j].Value {
			return m.TechnicianStats[i].Value > m.TechnicianStats[j].Value
		}
		return m.TechnicianStats[i].Name < m.TechnicianStats[j].Name
	})
	for _, p := range domain.Prioridades() {
		if count := byPriority[p]; count > 0 {
			m.PriorityStats = append(m.PriorityStats, NamedCount{Name: p.Nome(), Value: count, Color: priorityColors[p]})
		}
	}
	for _, s := range domain.Statuses() {
		if count := byStatus[s]; count > 0 {
			m.StatusStats = append(m.StatusStats, NamedCount{Name: string(s), Value: count})
		}
	}
	return m
}

func firstName(full string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(full), " ")
	return name
}
