package dto

import "time"

// UserRequest is the create/update payload. Senha is write-only;
// ConfirmarSenha, when present, must match it.
type UserRequest struct {
	Nome           string `json:"nome"`
	Login          string `json:"login"`
	Senha          string `json:"senha,omitempty"`
	ConfirmarSenha string `json:"confirmarSenha,omitempty"`
	Ativo          *bool  `json:"ativo,omitempty"`
	Role           string `json:"role,omitempty"`
}

// UserResponse is the wire form of a user. The password never round-trips.
type UserResponse struct {
	ID           string     `json:"id"`
	Nome         string     `json:"nome"`
	Login        string     `json:"login"`
	Role         string     `json:"role"`
	Ativo        bool       `json:"ativo"`
	CriadoEm     time.Time  `json:"criadoEm"`
	AtualizadoEm time.Time  `json:"atualizadoEm"`
	UltimoLogin  *time.Time `json:"ultimoLogin,omitempty"`
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Login string `json:"login"`
	Senha string `json:"senha"`
}

// AuthResponse carries the issued token and its expiry.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}
