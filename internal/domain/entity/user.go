package entity

import "time"

// Roles válidos para User.
const (
	RoleUser    = "user"
	RoleManager = "store manager"
	RoleAdmin   = "admin"
)

// Estados de aprobación de una cuenta.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

// User representa una cuenta del sistema (cliente, gerente de tienda o administrador).
type User struct {
	ID           int64
	Username     string
	Email        string // opcional; destino de recordatorios y reportes
	PasswordHash string // bcrypt hash, nunca el password plano
	Role         string // user, store manager, admin
	Status       string // approved, pending, rejected
	LastActivity time.Time
	CreatedAt    time.Time
}

// IsApproved indica si la cuenta puede operar.
func (u *User) IsApproved() bool {
	return u != nil && u.Status == StatusApproved
}

// ValidRole informa si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}
