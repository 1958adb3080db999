package domain

import "time"

// Role classifies what a user may do in the helpdesk.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleUser    Role = "USER"
	RoleTecnico Role = "TECHNICIAN"
)

// Descricao returns the PT-BR display name for the role.
func (r Role) Descricao() string {
	switch r {
	case RoleAdmin:
		return "Administrador"
	case RoleTecnico:
		return "Técnico"
	default:
		return "Usuário"
	}
}

// User is the domain model for helpdesk operators and requesters.
// SenhaHash is write-only: it never leaves the service in responses.
type User struct {
	ID           string
	Nome         string
	Login        string // unique
	SenhaHash    string
	Role         Role
	Ativo        bool
	CriadoEm     time.Time
	AtualizadoEm time.Time
	UltimoLogin  *time.Time
}

// Tecnico reports whether the user can be assigned tickets.
func (u *User) Tecnico() bool {
	return u.Role == RoleTecnico || u.Role == RoleAdmin
}
