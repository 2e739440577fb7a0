package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrUsernameTaken      = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidRequestType = errors.New("tipo de solicitud inválido")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrPendingApproval    = errors.New("cuenta pendiente de aprobación del administrador")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrAlreadyResolved    = errors.New("la solicitud ya fue resuelta")
	ErrSectionNotEmpty    = errors.New("la sección tiene productos asociados")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrExportNotReady     = errors.New("la exportación aún no ha finalizado")
	ErrExportFailed       = errors.New("la exportación falló")
)
