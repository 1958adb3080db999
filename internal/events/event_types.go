package events

import (
	"time"

	"github.com/chamadopetro/chamado-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketUpdated       EventType = "ticket_updated"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventTicketsImported     EventType = "tickets_imported"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Codigo     string            `json:"codigo"`
	Titulo     string            `json:"titulo"`
	Prioridade domain.Prioridade `json:"prioridade"`
	AtribuidoA string            `json:"atribuidoA"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	Codigo    string        `json:"codigo"`
	OldStatus domain.Status `json:"oldStatus"`
	NewStatus domain.Status `json:"newStatus"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	Codigo string `json:"codigo"`
}

// TicketsImportedPayload payload.
type TicketsImportedPayload struct {
	Success    int `json:"success"`
	Errors     int `json:"errors"`
	Duplicates int `json:"duplicates"`
}
