// Package query filters and paginates in-memory ticket collections.
//
// Every function is a pure function of its inputs: the UI layer recomputes
// results on every keystroke, so identical inputs must always yield
// identical output.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/chamadopetro/chamado-service/internal/domain"
)

// All disables an individual filter dimension.
const All = "all"

// DateRange selects how far back the opened-at filter reaches.
type DateRange string

const (
	DateRangeAll     DateRange = "all"
	DateRangeWeek    DateRange = "week"
	DateRangeMonth   DateRange = "month"
	DateRangeQuarter DateRange = "quarter"
)

func (d DateRange) days() int {
	switch d {
	case DateRangeWeek:
		return 7
	case DateRangeMonth:
		return 30
	case DateRangeQuarter:
		return 90
	default:
		return 0
	}
}

// State carries the filter selections of a listing view. The zero value is
// not useful; construct with NewState.
type State struct {
	Search     string
	Status     string // All or a domain.Status literal
	Prioridade string // All or a domain.Prioridade literal
	AtribuidoA string // All or a technician name
	DateRange  DateRange
	Page       int
}

// NewState returns the default selections: no filters, first page.
func NewState() State {
	return State{
		Status:     All,
		Prioridade: All,
		AtribuidoA: All,
		DateRange:  DateRangeAll,
		Page:       1,
	}
}

// Clear resets every selection to its default.
func (s *State) Clear() {
	*s = NewState()
}

// Matches evaluates the conjunction of all active predicates against one
// ticket. The search term matches case-insensitively against title, display
// code and requester name.
func (s State) Matches(t *domain.Ticket, now time.Time) bool {
	if term := strings.ToLower(strings.TrimSpace(s.Search)); term != "" {
		if !strings.Contains(strings.ToLower(t.Titulo), term) &&
			!strings.Contains(strings.ToLower(t.TicketID), term) &&
			!strings.Contains(strings.ToLower(t.AbertoPor), term) {
			return false
		}
	}
	if s.Status != "" && s.Status != All && string(t.Status) != s.Status {
		return false
	}
	if s.Prioridade != "" && s.Prioridade != All && string(t.Prioridade) != s.Prioridade {
		return false
	}
	if s.AtribuidoA != "" && s.AtribuidoA != All && t.AtribuidoA != s.AtribuidoA {
		return false
	}
	if days := s.DateRange.days(); days > 0 {
		cutoff := now.AddDate(0, 0, -days)
		if t.AbertoEm.Before(cutoff) {
			return false
		}
	}
	return true
}

// Filter returns the tickets satisfying every active predicate, preserving
// input order.
func Filter(tickets []domain.Ticket, state State, now time.Time) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if state.Matches(&tickets[i], now) {
			out = append(out, tickets[i])
		}
	}
	return out
}

// ActiveOnly drops resolved tickets. The active listing applies this before
// any other filter, regardless of the status selection.
func ActiveOnly(tickets []domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if !tickets[i].Resolvido() {
			out = append(out, tickets[i])
		}
	}
	return out
}

// Page is one window of a paginated collection.
type Page struct {
	Items      []domain.Ticket
	TotalPages int
}

// Paginate slices the collection into 1-based pages of at most pageSize
// items. Out-of-range pages yield empty items; clamping page numbers to
// [1, TotalPages] is the caller's responsibility.
func Paginate(tickets []domain.Ticket, page, pageSize int) Page {
	if pageSize <= 0 {
		return Page{Items: []domain.Ticket{}}
	}
	total := (len(tickets) + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(tickets) {
		return Page{Items: []domain.Ticket{}, TotalPages: total}
	}
	end := start + pageSize
	if end > len(tickets) {
		end = len(tickets)
	}
	return Page{Items: tickets[start:end], TotalPages: total}
}

// Recent returns the n most recently opened tickets that are still active,
// newest first. The dashboard shows the top five.
func Recent(tickets []domain.Ticket, n int) []domain.Ticket {
	active := ActiveOnly(tickets)
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].AbertoEm.After(active[j].AbertoEm)
	})
	if n >= 0 && len(active) > n {
		active = active[:n]
	}
	return active
}
