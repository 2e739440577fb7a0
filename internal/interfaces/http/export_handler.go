package http

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocery-api/internal/application/export"
)

// ExportHandler exportación asíncrona del catálogo a CSV.
type ExportHandler struct {
	uc *export.UseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *export.UseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Start godoc
// @Summary      Iniciar exportación CSV
// @Tags         export
// @Security     Bearer
// @Produce      json
// @Success      202  {object}  dto.ExportStartedResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /export-csv [post]
func (h *ExportHandler) Start(c *fiber.Ctx) error {
	out, err := h.uc.Start(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(out)
}

// Status godoc
// @Summary      Estado de una exportación
// @Tags         export
// @Security     Bearer
// @Produce      json
// @Param        job_id  path  string  true  "ID del trabajo"
// @Success      200  {object}  dto.ExportJobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /export-csv/{job_id} [get]
func (h *ExportHandler) Status(c *fiber.Ctx) error {
	out, err := h.uc.Status(c.UserContext(), c.Params("job_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Download godoc
// @Summary      Descargar el CSV de un trabajo
// @Tags         export
// @Security     Bearer
// @Produce      text/csv
// @Param        job_id  path  string  true  "ID del trabajo"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /download-csv/{job_id} [get]
func (h *ExportHandler) Download(c *fiber.Ctx) error {
	path, err := h.uc.ArtifactPath(c.UserContext(), c.Params("job_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Download(path, filepath.Base(path))
}

// DownloadLatest godoc
// @Summary      Descargar el CSV más reciente
// @Tags         export
// @Security     Bearer
// @Produce      text/csv
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /download-csv [get]
func (h *ExportHandler) DownloadLatest(c *fiber.Ctx) error {
	path, err := h.uc.LatestArtifactPath(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.Download(path, filepath.Base(path))
}
