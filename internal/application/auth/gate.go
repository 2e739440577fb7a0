package auth

import (
	"context"
	"fmt"

	"github.com/jhoicas/grocery-api/internal/domain"
	"github.com/jhoicas/grocery-api/internal/domain/repository"
	"github.com/jhoicas/grocery-api/pkg/jwt"
)

// Identity es el llamador ya autorizado, con el rol leído de la base de datos.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

// Gate valida credenciales bearer y aplica el conjunto de roles permitido por operación.
// El rol del token es solo una pista: Permit siempre lo vuelve a derivar del UserRepository,
// así que una degradación o un rechazo surten efecto en la siguiente petición.
type Gate struct {
	users  repository.UserRepository
	secret string
}

// NewGate construye el gate.
func NewGate(users repository.UserRepository, secret string) *Gate {
	return &Gate{users: users, secret: secret}
}

// Authenticate verifica firma y expiración y devuelve el username del token.
func (g *Gate) Authenticate(token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}
	username, _, err := jwt.Parse(g.secret, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return username, nil
}

// Permit resuelve el rol actual de username y lo compara con roles (vacío = cualquier rol).
// Usuario inexistente o no aprobado → ErrUnauthorized; rol fuera del conjunto → ErrForbidden.
func (g *Gate) Permit(ctx context.Context, username string, roles ...string) (*Identity, error) {
	user, err := g.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsApproved() {
		return nil, domain.ErrUnauthorized
	}
	if len(roles) > 0 && !contains(roles, user.Role) {
		return nil, domain.ErrForbidden
	}
	return &Identity{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// Authorize combina Authenticate y Permit.
func (g *Gate) Authorize(ctx context.Context, token string, roles ...string) (*Identity, error) {
	username, err := g.Authenticate(token)
	if err != nil {
		return nil, err
	}
	return g.Permit(ctx, username, roles...)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
