package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-api/internal/application/auth"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/grocery-api/internal/interfaces/http"
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso contra el store
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(t *testing.T, allowedRoles ...string) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	for _, u := range []*entity.User{
		{Username: "root", Role: entity.RoleAdmin, Status: entity.StatusApproved},
		{Username: "mila", Role: entity.RoleManager, Status: entity.StatusApproved},
		{Username: "pedro", Role: entity.RoleManager, Status: entity.StatusPending},
		{Username: "ana", Role: entity.RoleUser, Status: entity.StatusApproved},
	} {
		require.NoError(t, store.Users().Create(context.Background(), u))
	}
	gate := auth.NewGate(store.Users(), testJWTSecret)

	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(gate, allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":       true,
				"role":     apphttp.GetRole(c),
				"username": apphttp.GetUsername(c),
				"user_id":  apphttp.GetUserID(c),
			})
		},
	)
	return app, store
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app, _ := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, tokenFor(t, "root", entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleAdmin, body["role"])
	assert.Equal(t, "root", body["username"])
	assert.EqualValues(t, 1, body["user_id"])
}

func TestRequireRole_GerenteAccedeRutaDeStaff(t *testing.T) {
	app, _ := buildTestApp(t, entity.RoleAdmin, entity.RoleManager)
	resp := doRequest(t, app, tokenFor(t, "mila", entity.RoleManager))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_ClienteBloqueadoEnRutaAdmin(t *testing.T) {
	app, _ := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, tokenFor(t, "ana", entity.RoleUser))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

// La pista de rol del token no concede nada: manda el rol guardado.
func TestRequireRole_RolFalsificadoEnElTokenNoSirve(t *testing.T) {
	app, _ := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, tokenFor(t, "ana", entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRole_DegradacionSurteEfectoEnLaSiguientePeticion(t *testing.T) {
	app, store := buildTestApp(t, entity.RoleManager)
	token := tokenFor(t, "mila", entity.RoleManager)

	resp := doRequest(t, app, token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	mila, err := store.Users().GetByUsername(context.Background(), "mila")
	require.NoError(t, err)
	require.NoError(t, store.Users().UpdateStatus(context.Background(), mila.ID, entity.StatusRejected))

	resp = doRequest(t, app, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_GerentePendienteNoPasa(t *testing.T) {
	app, _ := buildTestApp(t, entity.RoleManager)
	resp := doRequest(t, app, tokenFor(t, "pedro", entity.RoleManager))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_UsuarioInexistente(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := doRequest(t, app, tokenFor(t, "fantasma", entity.RoleUser))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app, _ := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "UNAUTHORIZED")
}

func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app, _ := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_EsquemaDistintoDeBearer(t *testing.T) {
	app, _ := buildTestApp(t, entity.RoleAdmin)
	resp := doRequest(t, app, "Basic cm9vdDpzZWNyZXQ=")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"username": apphttp.GetUsername(c),
			"role":     apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenFor(t, "mila", entity.RoleManager))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "mila", body["username"])
	assert.Equal(t, entity.RoleManager, body["role"])
}

func TestAuthMiddleware_SecretIncorrecto(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware("otro-secret-completamente-distinto"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenFor(t, "mila", entity.RoleManager))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
