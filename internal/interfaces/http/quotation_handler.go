package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/ports"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
)

// QuotationHandler formulario público de cotización y buzón del panel.
type QuotationHandler struct {
	uc        *usecase.QuotationUseCase
	followUps *usecase.FollowUpUseCase
	metrics   *Metrics
}

func NewQuotationHandler(uc *usecase.QuotationUseCase, followUps *usecase.FollowUpUseCase, metrics *Metrics) *QuotationHandler {
	return &QuotationHandler{uc: uc, followUps: followUps, metrics: metrics}
}

// Submit godoc
// @Summary      Enviar solicitud de cotización
// @Description  Las líneas sin producto se descartan; debe quedar al menos una.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitQuotationRequest  true  "Formulario"
// @Success      201   {object}  entity.QuotationRequest
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/quotations [post]
func (h *QuotationHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitQuotationRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Submit(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar solicitudes de cotización
// @Tags         quotations
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | quoted | completed"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.QuotationListResponse
// @Router       /api/quotations [get]
func (h *QuotationHandler) List(c *fiber.Ctx) error {
	var q dto.QuotationListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	return c.JSON(h.uc.List(q))
}

// GetByID godoc
// @Summary      Obtener solicitud
// @Tags         quotations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  entity.QuotationRequest
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotations/{id} [get]
func (h *QuotationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Send godoc
// @Summary      Enviar cotización al cliente
// @Description  Envía el correo y, solo si el proveedor lo acepta, marca la solicitud como quoted.
// @Tags         quotations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID"
// @Param        body  body  dto.SendQuotationRequest  true  "Texto de la cotización"
// @Success      200   {object}  entity.QuotationRequest
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/quotations/{id}/send [post]
func (h *QuotationHandler) Send(c *fiber.Ctx) error {
	var in dto.SendQuotationRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.SendQuotation(c.UserContext(), c.Params("id"), in.QuotationText)
	if err != nil {
		if isDeliveryError(err) {
			h.metrics.RecordEmail(ports.TemplateQuotation, err)
		}
		return writeError(c, err)
	}
	h.metrics.RecordEmail(ports.TemplateQuotation, nil)
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado (quoted → completed)
// @Tags         quotations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true  "ID"
// @Param        body  body  dto.UpdateQuotationStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  entity.QuotationRequest
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotations/{id}/status [patch]
func (h *QuotationHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateQuotationStatusRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar solicitud y sus seguimientos
// @Tags         quotations
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Router       /api/quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PDF godoc
// @Summary      Descargar solicitud en PDF
// @Tags         quotations
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID"
// @Success      200  {file}  binary
// @Router       /api/quotations/{id}/pdf [get]
func (h *QuotationHandler) PDF(c *fiber.Ctx) error {
	b, name, err := h.uc.PDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(b)
}

// NeedingFollowUp godoc
// @Summary      Cotizaciones enviadas sin seguimiento reciente
// @Tags         follow-ups
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.QuotationRequest
// @Router       /api/quotations/needing-follow-up [get]
func (h *QuotationHandler) NeedingFollowUp(c *fiber.Ctx) error {
	return c.JSON(h.followUps.NeedingFollowUp())
}
