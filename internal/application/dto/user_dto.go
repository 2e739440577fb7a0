package dto

import "time"

// SignupRequest entrada para registro de usuario o gerente (password en texto, se hashea en use case).
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// LoginRequest entrada para cualquiera de los tres logins.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con el token de acceso.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	LastActivity time.Time `json:"last_activity"`
}

// ManagerAccountResponse elemento del listado de cuentas de gerente pendientes.
type ManagerAccountResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Status   string `json:"status"`
}
