package domain

import (
	"fmt"
	"strings"
	"time"
)

// Prioridade enumerates ticket urgency. The literal carries an explicit
// rank prefix ("1" is the most urgent) so lexical ordering matches severity.
type Prioridade string

const (
	PrioridadeCritica  Prioridade = "1 - Crítica"
	PrioridadeAlta     Prioridade = "2 - Alta"
	PrioridadeModerada Prioridade = "3 - Moderada"
	PrioridadeBaixa    Prioridade = "4 - Baixa"
)

// Prioridades returns all priorities in severity order.
func Prioridades() []Prioridade {
	return []Prioridade{PrioridadeCritica, PrioridadeAlta, PrioridadeModerada, PrioridadeBaixa}
}

// Valid reports whether the value is a known priority literal.
func (p Prioridade) Valid() bool {
	switch p {
	case PrioridadeCritica, PrioridadeAlta, PrioridadeModerada, PrioridadeBaixa:
		return true
	}
	return false
}

// Nome returns the priority name without the rank prefix ("Crítica").
func (p Prioridade) Nome() string {
	if _, name, ok := strings.Cut(string(p), " - "); ok {
		return name
	}
	return string(p)
}

// Rank returns the numeric severity (1 = most urgent, 0 if unknown).
func (p Prioridade) Rank() int {
	if len(p) == 0 || p[0] < '1' || p[0] > '4' {
		return 0
	}
	return int(p[0] - '0')
}

// NormalizePrioridade maps loose spellings found in imported files onto a
// canonical priority. Unknown values fall back to Moderada.
func NormalizePrioridade(raw string) Prioridade {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "crítica", "critica", "critical", "1":
		return PrioridadeCritica
	case "alta", "high", "2":
		return PrioridadeAlta
	case "média", "media", "moderada", "medium", "3":
		return PrioridadeModerada
	case "baixa", "low", "4":
		return PrioridadeBaixa
	default:
		return PrioridadeModerada
	}
}

// Status enumerates ticket lifecycle states. Resolvido is terminal: resolved
// tickets leave the active list and only appear in reports.
type Status string

const (
	StatusAguardandoUsuario  Status = "Aguardando usuário"
	StatusEmAtendimento      Status = "Em atendimento"
	StatusProblemaConfirmado Status = "Problema confirmado"
	StatusResolvido          Status = "Resolvido"
)

// Statuses returns all lifecycle states.
func Statuses() []Status {
	return []Status{StatusAguardandoUsuario, StatusEmAtendimento, StatusProblemaConfirmado, StatusResolvido}
}

// Valid reports whether the value is a known status literal.
func (s Status) Valid() bool {
	switch s {
	case StatusAguardandoUsuario, StatusEmAtendimento, StatusProblemaConfirmado, StatusResolvido:
		return true
	}
	return false
}

// Terminal reports whether the status ends the ticket lifecycle.
func (s Status) Terminal() bool {
	return s == StatusResolvido
}

// NormalizeStatus maps loose spellings found in imported files onto a
// canonical status. Freshly imported tickets land in Em atendimento.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "em atendimento", "em_atendimento", "in progress", "progress":
		return StatusEmAtendimento
	case "aguardando usuário", "aguardando usuario", "aguardando_usuario", "waiting", "pending":
		return StatusAguardandoUsuario
	case "problema confirmado", "problema_confirmado", "confirmed":
		return StatusProblemaConfirmado
	case "resolvido", "resolved", "closed", "fechado":
		return StatusResolvido
	default:
		return StatusEmAtendimento
	}
}

// SemAtribuicao is the assignee placeholder for tickets without a technician.
const SemAtribuicao = "Não atribuído"

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID             string
	TicketID       string // business key, unique ("INC3221310")
	Titulo         string
	Descricao      string
	Prioridade     Prioridade
	Status         Status
	AbertoPor      string
	EmailAbertoPor string
	AtribuidoA     string
	AbertoEm       time.Time
	Atualizado     time.Time
}

// Resolvido reports whether the ticket reached the terminal status.
func (t *Ticket) Resolvido() bool {
	return t.Status == StatusResolvido
}

// NewTicketID derives a display code from the last seven digits of the
// timestamp, zero padded ("INC3221310").
func NewTicketID(now time.Time) string {
	return fmt.Sprintf("INC%07d", now.UnixMilli()%10000000)
}
