package entity

import (
	"strings"
	"time"
)

// Estados válidos para QuotationRequest.
const (
	QuotationPending   = "pending"
	QuotationQuoted    = "quoted"
	QuotationCompleted = "completed"
)

// QuotationRequest solicitud de cotización enviada por un visitante anónimo.
type QuotationRequest struct {
	ID             string      `json:"id"`
	CustomerName   string      `json:"customer_name"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Company        string      `json:"company"`
	Items          []QuoteItem `json:"items"`
	ProjectDetails string      `json:"project_details"`
	Status         string      `json:"status"` // pending, quoted, completed
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// QuoteItem línea de una solicitud. Product es texto libre, no un ID de Product.
type QuoteItem struct {
	Product        string `json:"product"`
	Quantity       int    `json:"quantity"`
	Specifications string `json:"specifications"`
}

// Empty indica si la línea no tiene producto (se descarta antes de persistir).
func (i QuoteItem) Empty() bool {
	return strings.TrimSpace(i.Product) == ""
}

// QuotationPatch actualización parcial de una solicitud.
type QuotationPatch struct {
	Status         *string `json:"status,omitempty"`
	ProjectDetails *string `json:"project_details,omitempty"`
}

// ApplyTo copia sobre q los campos presentes en el patch.
func (pt QuotationPatch) ApplyTo(q *QuotationRequest) {
	if pt.Status != nil {
		q.Status = *pt.Status
	}
	if pt.ProjectDetails != nil {
		q.ProjectDetails = *pt.ProjectDetails
	}
}

// ValidQuotationStatus indica si s pertenece a la enumeración cerrada de estados.
func ValidQuotationStatus(s string) bool {
	switch s {
	case QuotationPending, QuotationQuoted, QuotationCompleted:
		return true
	}
	return false
}

// CanTransition indica si el estado puede pasar de from a to.
// Solo se avanza: pending → quoted → completed.
func CanTransition(from, to string) bool {
	switch from {
	case QuotationPending:
		return to == QuotationQuoted
	case QuotationQuoted:
		return to == QuotationCompleted
	}
	return false
}
