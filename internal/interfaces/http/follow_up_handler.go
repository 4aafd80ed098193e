package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
)

// FollowUpHandler seguimientos de cotizaciones (panel).
type FollowUpHandler struct {
	uc *usecase.FollowUpUseCase
}

func NewFollowUpHandler(uc *usecase.FollowUpUseCase) *FollowUpHandler {
	return &FollowUpHandler{uc: uc}
}

// List godoc
// @Summary      Listar seguimientos
// @Tags         follow-ups
// @Security     Bearer
// @Produce      json
// @Param        quotation_id  query  string  false  "Filtrar por cotización"
// @Success      200  {array}  dto.FollowUpWithQuotation
// @Router       /api/follow-ups [get]
func (h *FollowUpHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.uc.List(c.Query("quotation_id")))
}

// Upcoming godoc
// @Summary      Seguimientos pendientes de los próximos 3 días
// @Tags         follow-ups
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.FollowUpWithQuotation
// @Router       /api/follow-ups/upcoming [get]
func (h *FollowUpHandler) Upcoming(c *fiber.Ctx) error {
	return c.JSON(h.uc.Upcoming())
}

// Create godoc
// @Summary      Programar seguimiento
// @Tags         follow-ups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFollowUpRequest  true  "Seguimiento"
// @Success      201   {object}  entity.FollowUp
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/follow-ups [post]
func (h *FollowUpHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFollowUpRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Add(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Complete godoc
// @Summary      Marcar seguimiento como realizado
// @Tags         follow-ups
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  entity.FollowUp
// @Router       /api/follow-ups/{id}/complete [patch]
func (h *FollowUpHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.Complete(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
