package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocery-api/internal/application/dto"
	"github.com/jhoicas/grocery-api/internal/application/sectionrequest"
)

// SectionRequestHandler flujo de solicitudes de cambio de sección.
type SectionRequestHandler struct {
	uc *sectionrequest.UseCase
}

// NewSectionRequestHandler construye el handler.
func NewSectionRequestHandler(uc *sectionrequest.UseCase) *SectionRequestHandler {
	return &SectionRequestHandler{uc: uc}
}

// Submit godoc
// @Summary      Proponer creación, edición o eliminación de una sección
// @Tags         section-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitSectionRequest  true  "request_type, section_id, section_name"
// @Success      201   {object}  dto.SectionRequestSubmittedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/section-requests [post]
func (h *SectionRequestHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitSectionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Submit(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPending godoc
// @Summary      Solicitudes pendientes
// @Tags         section-requests
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SectionRequestResponse
// @Router       /api/section-requests [get]
func (h *SectionRequestHandler) ListPending(c *fiber.Ctx) error {
	out, err := h.uc.ListPending(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListMine godoc
// @Summary      Solicitudes propias del gerente (todos los estados)
// @Tags         section-requests
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SectionRequestResponse
// @Router       /api/section-requests/mine [get]
func (h *SectionRequestHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListMine(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar solicitud y aplicar su efecto
// @Tags         section-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la solicitud"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/section-requests/approve/{id} [put]
func (h *SectionRequestHandler) Approve(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.uc.Approve(c.UserContext(), GetUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Section request approved"})
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Tags         section-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la solicitud"
// @Param        body  body  dto.RejectSectionRequest  false  "Motivo"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/section-requests/reject/{id} [put]
func (h *SectionRequestHandler) Reject(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.RejectSectionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	if err := h.uc.Reject(c.UserContext(), GetUserID(c), id, in.Reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Section request rejected"})
}
