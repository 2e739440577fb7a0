package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-api/internal/application/auth"
	"github.com/jhoicas/grocery-api/internal/application/dto"
	"github.com/jhoicas/grocery-api/internal/application/export"
	"github.com/jhoicas/grocery-api/internal/application/order"
	"github.com/jhoicas/grocery-api/internal/application/sectionrequest"
	"github.com/jhoicas/grocery-api/internal/application/usecase"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	"github.com/jhoicas/grocery-api/internal/infrastructure/csvexport"
	"github.com/jhoicas/grocery-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/grocery-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/grocery-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "grocery-api-test"
	testExpMin    = 60
	testPassword  = "secret123"
)

// inlineQueue procesa la exportación en el mismo goroutine que la encola.
type inlineQueue struct {
	uc   *export.UseCase
	hold bool
	jobs []string
}

func (q *inlineQueue) EnqueueExport(ctx context.Context, jobID string) error {
	q.jobs = append(q.jobs, jobID)
	if q.hold {
		return nil
	}
	return q.uc.Process(ctx, jobID)
}

type testServer struct {
	app   *fiber.App
	store *memory.Store
	auth  *auth.AuthUseCase
	queue *inlineQueue
}

// newTestServer arma la aplicación completa sobre el store en memoria, sin caché.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	catalog := usecase.NewCatalogUseCase(store.Sections(), store.Products(), nil, usecase.CatalogOptions{}, nil)
	queue := &inlineQueue{}
	exportUC := export.NewUseCase(store.ExportJobs(), store.Products(), queue, csvexport.NewWriter(t.TempDir()))
	queue.uc = exportUC

	app := apphttp.NewApp("grocery-api-test", apphttp.RouterDeps{
		AuthUC:           authUC,
		Gate:             auth.NewGate(store.Users(), testJWTSecret),
		SectionUC:        usecase.NewSectionUseCase(store.Sections(), catalog),
		CatalogUC:        catalog,
		ProductUC:        usecase.NewProductUseCase(store.Products(), store.Sections(), catalog),
		SectionRequestUC: sectionrequest.NewUseCase(store.SectionRequests(), store, catalog),
		OrderUC:          order.NewUseCase(store, store.Users(), store.Orders(), catalog, order.Options{}),
		ExportUC:         exportUC,
		JWTSecret:        testJWTSecret,
	})
	return &testServer{app: app, store: store, auth: authUC, queue: queue}
}

// customer registra un cliente aprobado y devuelve su header Authorization.
func (s *testServer) customer(t *testing.T, username string) string {
	t.Helper()
	_, err := s.auth.SignupUser(context.Background(), dto.SignupRequest{Username: username, Password: testPassword})
	require.NoError(t, err)
	return s.login(t, "/login", username)
}

// manager registra y aprueba un gerente.
func (s *testServer) manager(t *testing.T, username string) string {
	t.Helper()
	ctx := context.Background()
	out, err := s.auth.SignupManager(ctx, dto.SignupRequest{Username: username, Password: testPassword})
	require.NoError(t, err)
	require.NoError(t, s.auth.ApproveManager(ctx, out.ID))
	return s.login(t, "/manager/login", username)
}

func (s *testServer) admin(t *testing.T) string {
	t.Helper()
	_, err := s.auth.ProvisionAdmin(context.Background(), "admin", testPassword, "")
	require.NoError(t, err)
	return s.login(t, "/admin/login", "admin")
}

func (s *testServer) login(t *testing.T, path, username string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, path, "", dto.LoginRequest{Username: username, Password: testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	return "Bearer " + out.AccessToken
}

// do lanza la petición; body se serializa como JSON si no es nil.
func (s *testServer) do(t *testing.T, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body dto.ErrorResponse
	decode(t, resp, &body)
	return body.Code
}

func tokenFor(t *testing.T, username, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, username, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// seedSection crea una sección directamente en el store.
func (s *testServer) seedSection(t *testing.T, name string) *entity.Section {
	t.Helper()
	section := &entity.Section{Name: name}
	require.NoError(t, s.store.Sections().Create(context.Background(), section))
	return section
}
