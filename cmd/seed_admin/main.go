// seed_admin aprovisiona la cuenta de administrador fuera de banda. Si la cuenta ya existe se
// actualizan su contraseña y su email.
//
// Uso: ADMIN_USERNAME=admin ADMIN_PASSWORD=... go run ./cmd/seed_admin
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/grocery-api/internal/application/auth"
	"github.com/jhoicas/grocery-api/internal/infrastructure/postgres"
	"github.com/jhoicas/grocery-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.Admin.Password == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_PASSWORD es obligatorio")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Esquema: %v\n", err)
		os.Exit(1)
	}

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	created, err := authUC.ProvisionAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Aprovisionar admin: %v\n", err)
		os.Exit(1)
	}
	if created {
		fmt.Printf("Administrador %q creado\n", cfg.Admin.Username)
		return
	}
	fmt.Printf("Administrador %q actualizado\n", cfg.Admin.Username)
}
