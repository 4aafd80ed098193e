package ports

import (
	"context"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// CompanyInfo datos de la empresa que emite las cotizaciones.
type CompanyInfo struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// QuotationPDFGenerator genera la representación imprimible de una solicitud de cotización.
type QuotationPDFGenerator interface {
	GenerateQuotationPDF(ctx context.Context, q entity.QuotationRequest, company CompanyInfo) ([]byte, error)
}
