package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/ports"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

func TestGenerateQuotationPDF(t *testing.T) {
	q := entity.QuotationRequest{
		ID:           "0190a3f2-1111-7000-8000-000000000000",
		CustomerName: "Ana Pérez",
		Email:        "ana@obra.test",
		Phone:        "3001234567",
		Items: []entity.QuoteItem{
			{Product: "Tubo PVC 4\"", Quantity: 1200, Specifications: "presión 200 psi"},
			{Product: "Codo 90°", Quantity: 4},
		},
		Status:    entity.QuotationPending,
		CreatedAt: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	b, err := NewMarotoPDFGenerator().GenerateQuotationPDF(context.Background(), q, ports.CompanyInfo{Name: "Tuberías del Norte"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestGenerateQuotationPDF_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMarotoPDFGenerator().GenerateQuotationPDF(ctx, entity.QuotationRequest{}, ports.CompanyInfo{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "COT-0190A3F2", reference("0190a3f2-1111-7000"))
	assert.Equal(t, "COT-1", reference("1"))
	assert.Equal(t, []string{"ab", "cd", "é"}, splitEvery("abcdé", 2))
	assert.Equal(t, "12.000", NewMarotoPDFGenerator().printer.Sprintf("%d", 12000))
}
