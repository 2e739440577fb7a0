package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocery-api/internal/application/auth"
	"github.com/jhoicas/grocery-api/internal/application/dto"
)

// AuthHandler maneja registro, login y la aprobación de cuentas de gerente.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// SignupUser godoc
// @Summary      Registrar cliente
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "username, password, email"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /signup/user [post]
func (h *AuthHandler) SignupUser(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if _, err := h.uc.SignupUser(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "User created successfully"})
}

// SignupManager godoc
// @Summary      Registrar gerente (queda pendiente de aprobación)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "username, password, email"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /signup/manager [post]
func (h *AuthHandler) SignupManager(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if _, err := h.uc.SignupManager(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Store manager signup request submitted, pending admin approval"})
}

// Login devuelve el handler de login para el rol del endpoint (/login, /manager/login, /admin/login).
//
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.LoginRequest
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
		out, err := h.uc.Login(c.UserContext(), role, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// ListPendingManagers godoc
// @Summary      Cuentas de gerente pendientes
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ManagerAccountResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/manager-accounts/pending [get]
func (h *AuthHandler) ListPendingManagers(c *fiber.Ctx) error {
	out, err := h.uc.ListPendingManagers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ResolveManager godoc
// @Summary      Aprobar o rechazar una cuenta de gerente
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id      path  int     true  "ID del gerente"
// @Param        action  path  string  true  "approve | reject"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /admin/approve_manager/{id}/{action} [post]
func (h *AuthHandler) ResolveManager(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	switch c.Params("action") {
	case "approve":
		if err := h.uc.ApproveManager(c.UserContext(), id); err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.MessageResponse{Message: "Store manager approved"})
	case "reject":
		if err := h.uc.RejectManager(c.UserContext(), id); err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.MessageResponse{Message: "Store manager rejected"})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: "acción debe ser approve o reject"})
	}
}

// paramID lee el parámetro :id como entero positivo.
func paramID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: "id inválido"})
}
