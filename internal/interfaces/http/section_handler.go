package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocery-api/internal/application/dto"
	"github.com/jhoicas/grocery-api/internal/application/usecase"
)

// SectionHandler CRUD de secciones (admin) y listado del catálogo (cualquier rol).
type SectionHandler struct {
	sections *usecase.SectionUseCase
	catalog  *usecase.CatalogUseCase
}

// NewSectionHandler construye el handler.
func NewSectionHandler(sections *usecase.SectionUseCase, catalog *usecase.CatalogUseCase) *SectionHandler {
	return &SectionHandler{sections: sections, catalog: catalog}
}

// Add godoc
// @Summary      Crear sección
// @Tags         sections
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SectionRequestBody  true  "Nombre de la sección"
// @Success      201   {object}  dto.SectionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sections/add [post]
func (h *SectionHandler) Add(c *fiber.Ctx) error {
	var in dto.SectionRequestBody
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.sections.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Catálogo: secciones con sus productos
// @Description  Respuesta servida desde caché mientras no venza el TTL.
// @Tags         sections
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SectionWithProductsResponse
// @Router       /api/sections [get]
func (h *SectionHandler) List(c *fiber.Ctx) error {
	payload, err := h.catalog.ListSectionsWithProducts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}

// GetByID godoc
// @Summary      Obtener sección
// @Tags         sections
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la sección"
// @Success      200  {object}  dto.SectionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sections/{id} [get]
func (h *SectionHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.sections.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Renombrar sección
// @Tags         sections
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la sección"
// @Param        body  body  dto.SectionRequestBody  true  "Nuevo nombre"
// @Success      200   {object}  dto.SectionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sections/{id} [put]
func (h *SectionHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.SectionRequestBody
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.sections.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar sección vacía
// @Tags         sections
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la sección"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sections/{id} [delete]
func (h *SectionHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.sections.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Section deleted successfully"})
}
