package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocery-api/internal/application/auth"
	"github.com/jhoicas/grocery-api/internal/application/dto"
	"github.com/jhoicas/grocery-api/pkg/jwt"
)

// Locals keys que deja el middleware de autenticación en Fiber.
const (
	LocalUsername = "username"
	LocalRole     = "role"
	LocalUserID   = "user_id"
)

// permitter es el contrato mínimo que necesita RequireRole. Lo implementa *auth.Gate.
type permitter interface {
	Permit(ctx context.Context, username string, roles ...string) (*auth.Identity, error)
}

// AuthMiddleware valida el Bearer Token JWT y deja el username y la pista de rol en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized(c, "token vacío")
		}
		username, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return unauthorized(c, "token inválido o expirado")
		}
		c.Locals(LocalUsername, username)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireRole vuelve a leer el rol y el estado del usuario en cada petición y verifica que el rol
// esté en allowedRoles. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 Unauthorized → usuario inexistente o no aprobado.
//   - 403 Forbidden    → rol fuera del conjunto permitido.
//
// Sin roles, cualquier usuario aprobado pasa.
func RequireRole(gate permitter, allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username := GetUsername(c)
		if username == "" {
			return unauthorized(c, "usuario no encontrado en el token")
		}
		id, err := gate.Permit(c.UserContext(), username, allowedRoles...)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalRole, id.Role)
		c.Locals(LocalUserID, id.UserID)
		return c.Next()
	}
}

// GetUsername devuelve el username del token (después de AuthMiddleware).
func GetUsername(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUsername).(string)
	return s
}

// GetRole devuelve el rol: la pista del token, o el rol actual después de RequireRole.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetUserID devuelve el ID del usuario resuelto por RequireRole (0 si no pasó por él).
func GetUserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalUserID).(int64)
	return id
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: msg})
}
