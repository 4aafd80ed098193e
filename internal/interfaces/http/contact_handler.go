package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/ports"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
)

// ContactHandler formulario de contacto.
type ContactHandler struct {
	uc      *usecase.ContactUseCase
	metrics *Metrics
}

func NewContactHandler(uc *usecase.ContactUseCase, metrics *Metrics) *ContactHandler {
	return &ContactHandler{uc: uc, metrics: metrics}
}

// Send godoc
// @Summary      Enviar mensaje de contacto
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ContactRequest  true  "Mensaje"
// @Success      202   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/contact [post]
func (h *ContactHandler) Send(c *fiber.Ctx) error {
	var in dto.ContactRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	err := h.uc.Send(c.UserContext(), in)
	if err != nil && !isDeliveryError(err) {
		return writeError(c, err)
	}
	h.metrics.RecordEmail(ports.TemplateContact, err)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.MessageResponse{Message: "mensaje enviado"})
}
