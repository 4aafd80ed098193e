package dto

import (
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// QuoteItemRequest línea del formulario. Las líneas sin producto se descartan.
type QuoteItemRequest struct {
	Product        string `json:"product"`
	Quantity       int    `json:"quantity" validate:"min=0"`
	Specifications string `json:"specifications"`
}

// SubmitQuotationRequest formulario público de solicitud de cotización.
type SubmitQuotationRequest struct {
	CustomerName   string             `json:"customer_name" validate:"required,max=200"`
	Email          string             `json:"email" validate:"required,email"`
	Phone          string             `json:"phone" validate:"required,max=50"`
	Company        string             `json:"company" validate:"max=200"`
	Items          []QuoteItemRequest `json:"items" validate:"required,min=1,dive"`
	ProjectDetails string             `json:"project_details"`
	AcceptTerms    bool               `json:"accept_terms"`
}

// QuotationListQuery filtros del buzón de cotizaciones.
type QuotationListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending quoted completed"`
	PageRequest
}

// QuotationListResponse lista paginada de cotizaciones.
type QuotationListResponse struct {
	Items []entity.QuotationRequest `json:"items"`
	Page  PageResponse              `json:"page"`
}

// SendQuotationRequest texto de la cotización que se envía al cliente.
type SendQuotationRequest struct {
	QuotationText string `json:"quotation_text" validate:"required"`
}

// UpdateQuotationStatusRequest cambio de estado manual (quoted → completed).
type UpdateQuotationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending quoted completed"`
}

// CreateFollowUpRequest alta de un seguimiento.
type CreateFollowUpRequest struct {
	QuotationID  string    `json:"quotation_id" validate:"required"`
	Message      string    `json:"message" validate:"required"`
	FollowUpDate time.Time `json:"follow_up_date" validate:"required"`
}

// FollowUpWithQuotation seguimiento con los datos de su cotización (vista del panel).
type FollowUpWithQuotation struct {
	entity.FollowUp
	Quotation *entity.QuotationRequest `json:"quotation,omitempty"`
}
