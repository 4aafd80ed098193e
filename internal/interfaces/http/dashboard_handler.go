package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/catalogo-api/internal/application/analytics"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
)

// DashboardHandler resumen del panel, estado del sistema y resincronización.
type DashboardHandler struct {
	uc     *appanalytics.DashboardUseCase
	status *appanalytics.StatusUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, status *appanalytics.StatusUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, status: status}
}

// GetSummary devuelve los conteos del panel.
// GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
		})
	}
	return c.JSON(summary)
}

// SystemStatus godoc
// @Summary      Conectividad del almacén remoto y estado de la caché
// @Tags         system
// @Produce      json
// @Success      200  {object}  dto.SystemStatus
// @Router       /api/system/status [get]
func (h *DashboardHandler) SystemStatus(c *fiber.Ctx) error {
	return c.JSON(h.status.Status(c.UserContext()))
}

// Refetch godoc
// @Summary      Recargar todas las colecciones
// @Tags         system
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SystemStatus
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/cache/refetch [post]
func (h *DashboardHandler) Refetch(c *fiber.Ctx) error {
	if err := h.status.RefetchAll(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.status.Status(c.UserContext()))
}

func isDeliveryError(err error) bool { return errors.Is(err, domain.ErrEmailDelivery) }
