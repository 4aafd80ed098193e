package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
)

// VisitorHandler registro de visitantes (popup de bienvenida) y vista del panel.
type VisitorHandler struct {
	uc *usecase.VisitorUseCase
}

func NewVisitorHandler(uc *usecase.VisitorUseCase) *VisitorHandler {
	return &VisitorHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar visitante y sesión
// @Description  Un email ya registrado actualiza los datos y agrega una sesión nueva.
// @Tags         visitors
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterVisitorRequest  true  "Datos del visitante"
// @Success      201   {object}  dto.RegisterVisitorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/visitors [post]
func (h *VisitorHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterVisitorRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Register(c.UserContext(), in, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateSession godoc
// @Summary      Registrar duración de la visita
// @Tags         visitors
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la sesión"
// @Param        body  body  dto.UpdateSessionRequest  true  "Duración en segundos"
// @Success      200   {object}  entity.VisitorSession
// @Router       /api/visitors/sessions/{id} [patch]
func (h *VisitorHandler) UpdateSession(c *fiber.Ctx) error {
	var in dto.UpdateSessionRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateSessionDuration(c.UserContext(), c.Params("id"), in.VisitDuration)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Visitantes con sus sesiones
// @Tags         visitors
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Nombre, email o empresa"
// @Success      200  {array}  dto.VisitorWithSessions
// @Router       /api/visitors [get]
func (h *VisitorHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.uc.ListWithSessions(c.Query("search")))
}

// Analytics godoc
// @Summary      Indicadores de visitantes
// @Tags         visitors
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.VisitorAnalytics
// @Router       /api/visitors/analytics [get]
func (h *VisitorHandler) Analytics(c *fiber.Ctx) error {
	return c.JSON(h.uc.Analytics())
}

// Export godoc
// @Summary      Exportar visitantes a CSV
// @Tags         visitors
// @Security     Bearer
// @Produce      text/csv
// @Param        search  query  string  false  "Nombre, email o empresa"
// @Success      200  {file}  binary
// @Router       /api/visitors/export [get]
func (h *VisitorHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.uc.ExportCSV(&buf, c.Query("search")); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="visitantes-%s.csv"`, time.Now().Format("2006-01-02")))
	return c.Send(buf.Bytes())
}
