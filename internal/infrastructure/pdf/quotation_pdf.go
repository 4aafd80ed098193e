// Package pdf genera la versión imprimible de una solicitud de cotización.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + contacto  │  N° Solicitud + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre / Empresa / Email / Teléfono                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Producto | Cantidad | Especificaciones           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLES DEL PROYECTO                                       │
//	│  FOOTER: QR de referencia + estado                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/catalogo-api/internal/application/ports"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

var _ ports.QuotationPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var statusLabels = map[string]string{
	entity.QuotationPending:   "Pendiente",
	entity.QuotationQuoted:    "Cotizada",
	entity.QuotationCompleted: "Completada",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.QuotationPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. Las cantidades se formatean en español (1.000).
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.Spanish)}
}

// GenerateQuotationPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateQuotationPDF(
	ctx context.Context,
	q entity.QuotationRequest,
	company ports.CompanyInfo,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Solicitud de cotización", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(q, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(q))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.itemRows(q.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(projectRows(q.ProjectDetails)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(q, company))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y N° de solicitud + fecha (der).
func headerRow(q entity.QuotationRequest, company ports.CompanyInfo) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(company.Name, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   %s", nonEmpty(company.Phone, "—"), nonEmpty(company.Email, "—")), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
			text.New(nonEmpty(company.Address, ""), props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("SOLICITUD DE COTIZACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(reference(q.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+q.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos de quien solicita.
func customerRow(q entity.QuotationRequest) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(q.CustomerName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Empresa: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(q.Company, "—"),
				nonEmpty(q.Email, "—"),
				nonEmpty(q.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de productos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("#", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Cantidad", 2, align.Right),
		h("Especificaciones", 4, align.Left),
	)
}

// itemRows: una fila por línea solicitada.
func (g *MarotoPDFGenerator) itemRows(items []entity.QuoteItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Product, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(g.printer.Sprintf("%d", it.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(4).Add(text.New(nonEmpty(it.Specifications, "—"), props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1, Color: colorGray})),
		))
	}
	return result
}

func projectRows(details string) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("DETALLES DEL PROYECTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	details = strings.TrimSpace(details)
	if details == "" {
		details = "Sin detalles adicionales."
	}
	for _, chunk := range splitEvery(details, 110) {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 8, Top: 0.5}),
		)))
	}
	return rows
}

// footerRow: QR con la referencia para el equipo de ventas y estado actual.
func footerRow(q entity.QuotationRequest, company ports.CompanyInfo) core.Row {
	status := statusLabels[q.Status]
	if status == "" {
		status = q.Status
	}
	return row.New(36).Add(
		col.New(3).Add(code.NewQr(reference(q.ID), props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Estado: "+status, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 4, Left: 3, Color: colorPrimary,
			}),
			text.New(fmt.Sprintf("Documento generado por %s. No constituye una oferta con precios.", nonEmpty(company.Name, "la empresa")), props.Text{
				Size: 7, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// reference número corto y estable de la solicitud, ej: "COT-0190A3F2".
func reference(id string) string {
	short := strings.ReplaceAll(id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return "COT-" + strings.ToUpper(short)
}

// splitEvery divide s en trozos de max n runas.
func splitEvery(s string, n int) []string {
	var parts []string
	r := []rune(s)
	for len(r) > n {
		parts = append(parts, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
