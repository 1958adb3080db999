package domain

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizePrioridade(t *testing.T) {
	cases := []struct {
		raw  string
		want Prioridade
	}{
		{"Crítica", PrioridadeCritica},
		{"critica", PrioridadeCritica},
		{"  ALTA  ", PrioridadeAlta},
		{"high", PrioridadeAlta},
		{"Média", PrioridadeModerada},
		{"medium", PrioridadeModerada},
		{"Baixa", PrioridadeBaixa},
		{"4", PrioridadeBaixa},
		{"whatever", PrioridadeModerada},
		{"", PrioridadeModerada},
	}
	for _, tc := range cases {
		if got := NormalizePrioridade(tc.raw); got != tc.want {
			t.Errorf("NormalizePrioridade(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"Resolvido", StatusResolvido},
		{"closed", StatusResolvido},
		{"Aguardando usuario", StatusAguardandoUsuario},
		{"Problema confirmado", StatusProblemaConfirmado},
		{"Em atendimento", StatusEmAtendimento},
		{"desconhecido", StatusEmAtendimento},
		{"", StatusEmAtendimento},
	}
	for _, tc := range cases {
		if got := NormalizeStatus(tc.raw); got != tc.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestPrioridadeNomeAndRank(t *testing.T) {
	if got := PrioridadeCritica.Nome(); got != "Crítica" {
		t.Errorf("Nome() = %q, want Crítica", got)
	}
	if got := PrioridadeBaixa.Rank(); got != 4 {
		t.Errorf("Rank() = %d, want 4", got)
	}
	if got := Prioridade("inválida").Rank(); got != 0 {
		t.Errorf("Rank() on unknown = %d, want 0", got)
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range Statuses() {
		if s.Terminal() != (s == StatusResolvido) {
			t.Errorf("Terminal() wrong for %q", s)
		}
	}
}

func TestNewTicketID(t *testing.T) {
	now := time.UnixMilli(1712345678901)
	id := NewTicketID(now)
	if !strings.HasPrefix(id, "INC") {
		t.Fatalf("ticket id %q missing INC prefix", id)
	}
	if len(id) != 10 {
		t.Fatalf("ticket id %q length = %d, want 10", id, len(id))
	}
	if id != "INC5678901" {
		t.Errorf("ticket id = %q, want INC5678901", id)
	}

	// Small timestamps must still be zero padded to seven digits.
	if got := NewTicketID(time.UnixMilli(42)); got != "INC0000042" {
		t.Errorf("ticket id = %q, want INC0000042", got)
	}
}
