package http_test

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocery-api/internal/application/dto"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
	apphttp "github.com/jhoicas/grocery-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Identidad
// ──────────────────────────────────────────────────────────────────────────────

func TestSignupYLogin_Cliente(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/signup/user", "", dto.SignupRequest{Username: "ana", Password: testPassword})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/signup/user", "", dto.SignupRequest{Username: "ana", Password: testPassword})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "USERNAME_TAKEN", errorCode(t, resp))

	resp = s.do(t, http.MethodPost, "/login", "", dto.LoginRequest{Username: "ana", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, resp))

	assert.NotEmpty(t, s.login(t, "/login", "ana"))
}

func TestSignup_CuerpoInvalido(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/signup/user", "", dto.SignupRequest{Username: "ana", Password: "123"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_GerentePendiente(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/signup/manager", "", dto.SignupRequest{Username: "mila", Password: testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/manager/login", "", dto.LoginRequest{Username: "mila", Password: testPassword})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "PENDING_APPROVAL", errorCode(t, resp))
}

func TestAprobacionDeGerente(t *testing.T) {
	s := newTestServer(t)
	admin := s.admin(t)
	resp := s.do(t, http.MethodPost, "/signup/manager", "", dto.SignupRequest{Username: "mila", Password: testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/manager-accounts/pending", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pending []dto.ManagerAccountResponse
	decode(t, resp, &pending)
	require.Len(t, pending, 1)

	resp = s.do(t, http.MethodPost, fmt.Sprintf("/admin/approve_manager/%d/approve", pending[0].ID), admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, s.login(t, "/manager/login", "mila"))

	resp = s.do(t, http.MethodPost, "/admin/approve_manager/999/approve", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodPost, fmt.Sprintf("/admin/approve_manager/%d/promote", pending[0].ID), admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización por ruta
// ──────────────────────────────────────────────────────────────────────────────

func TestRutas_ClienteEnRutaAdmin(t *testing.T) {
	s := newTestServer(t)
	user := s.customer(t, "ana")

	resp := s.do(t, http.MethodPost, "/api/sections/add", user, dto.SectionRequestBody{Name: "Dairy"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))

	resp = s.do(t, http.MethodGet, "/api/sections", "Bearer caducado", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRutas_ExportacionRestringidaAStaff(t *testing.T) {
	s := newTestServer(t)
	user := s.customer(t, "ana")
	resp := s.do(t, http.MethodPost, "/export-csv", user, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/download-csv", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalogo_SeccionesYProductos(t *testing.T) {
	s := newTestServer(t)
	admin := s.admin(t)
	manager := s.manager(t, "mila")
	user := s.customer(t, "ana")

	resp := s.do(t, http.MethodPost, "/api/sections/add", admin, dto.SectionRequestBody{Name: "Dairy"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var section dto.SectionResponse
	decode(t, resp, &section)

	price := decimal.RequireFromString("1.25")
	qty := 10
	resp = s.do(t, http.MethodPost, fmt.Sprintf("/api/sections/%d/add-product", section.ID), manager, dto.CreateProductRequest{
		Name: "Milk", UnitType: "litre", RatePerUnit: &price, QuantityAvailable: &qty,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.ProductCreatedResponse
	decode(t, resp, &created)
	assert.NotZero(t, created.ProductID)

	resp = s.do(t, http.MethodGet, "/api/sections", user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	var listing []dto.SectionWithProductsResponse
	decode(t, resp, &listing)
	require.Len(t, listing, 1)
	require.Len(t, listing[0].Products, 1)
	assert.Equal(t, "Milk", listing[0].Products[0].Name)

	resp = s.do(t, http.MethodDelete, fmt.Sprintf("/api/sections/%d", section.ID), admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "SECTION_NOT_EMPTY", errorCode(t, resp))

	newQty := 4
	resp = s.do(t, http.MethodPut, fmt.Sprintf("/api/products/%d", created.ProductID), manager, dto.UpdateProductRequest{QuantityAvailable: &newQty})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var product dto.ProductResponse
	decode(t, resp, &product)
	assert.Equal(t, 4, product.QuantityAvailable)

	resp = s.do(t, http.MethodGet, "/api/products/abc", manager, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/sections/999", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Solicitudes de sección
// ──────────────────────────────────────────────────────────────────────────────

func TestSolicitudes_FlujoCompleto(t *testing.T) {
	s := newTestServer(t)
	admin := s.admin(t)
	manager := s.manager(t, "mila")

	resp := s.do(t, http.MethodPost, "/api/section-requests", manager, dto.SubmitSectionRequest{RequestType: "create", SectionName: "Dairy"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var submitted dto.SectionRequestSubmittedResponse
	decode(t, resp, &submitted)
	assert.Equal(t, "Section request submitted successfully", submitted.Message)

	resp = s.do(t, http.MethodGet, "/api/section-requests", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pending []dto.SectionRequestResponse
	decode(t, resp, &pending)
	require.Len(t, pending, 1)

	approve := fmt.Sprintf("/api/section-requests/approve/%d", submitted.RequestID)
	resp = s.do(t, http.MethodPut, approve, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPut, approve, admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_RESOLVED", errorCode(t, resp))

	sections, err := s.store.Sections().List(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "Dairy", sections[0].Name)

	resp = s.do(t, http.MethodGet, "/api/section-requests/mine", manager, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []dto.SectionRequestResponse
	decode(t, resp, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, entity.RequestStatusApproved, mine[0].Status)
}

func TestSolicitudes_RechazoConMotivoYTipoInvalido(t *testing.T) {
	s := newTestServer(t)
	admin := s.admin(t)
	manager := s.manager(t, "mila")

	resp := s.do(t, http.MethodPost, "/api/section-requests", manager, dto.SubmitSectionRequest{RequestType: "merge", SectionName: "X"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	id := int64(7)
	resp = s.do(t, http.MethodPost, "/api/section-requests", manager, dto.SubmitSectionRequest{RequestType: "delete", SectionID: &id})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var submitted dto.SectionRequestSubmittedResponse
	decode(t, resp, &submitted)

	resp = s.do(t, http.MethodPut, fmt.Sprintf("/api/section-requests/approve/%d", submitted.RequestID), admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "la sección 7 no existe")

	resp = s.do(t, http.MethodPut, fmt.Sprintf("/api/section-requests/reject/%d", submitted.RequestID), admin, dto.RejectSectionRequest{Reason: "no existe"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := s.store.SectionRequests().GetByID(context.Background(), submitted.RequestID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusRejected, req.Status)
	assert.Equal(t, "no existe", req.RejectionReason)

	resp = s.do(t, http.MethodPut, "/api/section-requests/approve/1", manager, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras
// ──────────────────────────────────────────────────────────────────────────────

func TestCompra_YHistorial(t *testing.T) {
	s := newTestServer(t)
	user := s.customer(t, "ana")
	section := s.seedSection(t, "Dairy")
	product := &entity.Product{SectionID: section.ID, Name: "Milk", UnitType: "litre", RatePerUnit: decimal.RequireFromString("1.25"), QuantityAvailable: 10}
	require.NoError(t, s.store.Products().Create(context.Background(), product))

	resp := s.do(t, http.MethodPost, "/buy-items", user, dto.CheckoutRequest{
		Items: []dto.CartItem{{ProductID: product.ID, Quantity: 3}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, apphttp.CheckoutMessage, string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Order-ID"))

	got, err := s.store.Products().GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.QuantityAvailable)

	resp = s.do(t, http.MethodPost, "/buy-items", user, dto.CheckoutRequest{
		Items: []dto.CartItem{{ProductID: product.ID, Quantity: 1}, {ProductID: 999, Quantity: 1}},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/buy-items", user, dto.CheckoutRequest{
		Items: []dto.CartItem{{ProductID: product.ID, Quantity: 100}},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, resp))

	resp = s.do(t, http.MethodGet, "/api/user/order-history", user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []dto.OrderResponse
	decode(t, resp, &history)
	require.Len(t, history, 1, "las compras fallidas no dejan órdenes")
	assert.Equal(t, 3, history[0].Items[0].Quantity)
}

func TestCompra_SoloClientes(t *testing.T) {
	s := newTestServer(t)
	manager := s.manager(t, "mila")
	resp := s.do(t, http.MethodPost, "/buy-items", manager, dto.CheckoutRequest{Items: []dto.CartItem{{ProductID: 1, Quantity: 1}}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación CSV
// ──────────────────────────────────────────────────────────────────────────────

func TestExportacion_InicioEstadoYDescarga(t *testing.T) {
	s := newTestServer(t)
	manager := s.manager(t, "mila")
	section := s.seedSection(t, "Dairy")
	require.NoError(t, s.store.Products().Create(context.Background(), &entity.Product{
		SectionID: section.ID, Name: "Milk", UnitType: "litre", RatePerUnit: decimal.RequireFromString("1.25"), QuantityAvailable: 7,
	}))

	resp := s.do(t, http.MethodPost, "/export-csv", manager, nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var started dto.ExportStartedResponse
	decode(t, resp, &started)
	assert.Equal(t, "CSV Export Started", started.Message)

	resp = s.do(t, http.MethodGet, "/export-csv/"+started.JobID, manager, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status dto.ExportJobResponse
	decode(t, resp, &status)
	assert.Equal(t, entity.ExportStatusDone, status.Status)

	for _, path := range []string{"/download-csv/" + started.JobID, "/download-csv"} {
		resp = s.do(t, http.MethodGet, path, manager, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		records, err := csv.NewReader(resp.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, []string{"Milk", "7", "litre", "1.25"}, records[1])
	}
}

func TestExportacion_PendienteYDesconocida(t *testing.T) {
	s := newTestServer(t)
	s.queue.hold = true
	manager := s.manager(t, "mila")

	resp := s.do(t, http.MethodPost, "/export-csv", manager, nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var started dto.ExportStartedResponse
	decode(t, resp, &started)

	resp = s.do(t, http.MethodGet, "/download-csv/"+started.JobID, manager, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EXPORT_NOT_READY", errorCode(t, resp))

	resp = s.do(t, http.MethodGet, "/download-csv/no-es-un-uuid", manager, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/download-csv", manager, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "sin exportaciones terminadas")
}
