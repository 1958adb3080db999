package dto

import (
	"time"
)

// TicketRequest is the create/update payload. Field names follow the
// frontend contract (camelCase, PT-BR).
type TicketRequest struct {
	TicketID       string `json:"ticketId"`
	Titulo         string `json:"titulo"`
	Descricao      string `json:"descricao"`
	Prioridade     string `json:"prioridade"`
	Status         string `json:"status"`
	AbertoPor      string `json:"abertoPor"`
	EmailAbertoPor string `json:"emailAbertoPor"`
	AtribuidoA     string `json:"atribuidoA"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID             string    `json:"id"`
	TicketID       string    `json:"ticketId"`
	Titulo         string    `json:"titulo"`
	Descricao      string    `json:"descricao"`
	Prioridade     string    `json:"prioridade"`
	Status         string    `json:"status"`
	AbertoPor      string    `json:"abertoPor"`
	EmailAbertoPor string    `json:"emailAbertoPor,omitempty"`
	AtribuidoA     string    `json:"atribuidoA"`
	AbertoEm       time.Time `json:"abertoEm"`
	Atualizado     time.Time `json:"atualizado"`
}

// TicketListResponse is one page of a filtered listing.
type TicketListResponse struct {
	Items      []TicketResponse `json:"items"`
	Filtered   int              `json:"filtered"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

// ImportPreviewResponse carries the bounded preview of an uploaded file.
type ImportPreviewResponse struct {
	Rows []ImportPreviewRow `json:"rows"`
}

// ImportPreviewRow is one previewed line.
type ImportPreviewRow struct {
	Line int      `json:"line"`
	Data []string `json:"data"`
}
