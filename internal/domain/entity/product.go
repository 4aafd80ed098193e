package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos para Product.
const (
	ProductActive   = "active"
	ProductInactive = "inactive"
)

// Product representa un artículo del catálogo público (tubería, accesorio, válvula...).
// Category referencia a Category por nombre (referencia débil, no se valida en memoria).
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Price          decimal.Decimal `json:"price"`
	Image          string          `json:"image"`
	Description    string          `json:"description"`
	Specifications []string        `json:"specifications"`
	Status         string          `json:"status"` // active, inactive
	Featured       bool            `json:"featured"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductPatch actualización parcial de un producto. nil = sin cambios.
type ProductPatch struct {
	Name           *string          `json:"name,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	Image          *string          `json:"image,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Specifications []string         `json:"specifications,omitempty"`
	Status         *string          `json:"status,omitempty"`
	Featured       *bool            `json:"featured,omitempty"`
}

// ApplyTo copia sobre p los campos presentes en el patch.
func (pt ProductPatch) ApplyTo(p *Product) {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.Category != nil {
		p.Category = *pt.Category
	}
	if pt.Price != nil {
		p.Price = *pt.Price
	}
	if pt.Image != nil {
		p.Image = *pt.Image
	}
	if pt.Description != nil {
		p.Description = *pt.Description
	}
	if pt.Specifications != nil {
		p.Specifications = append([]string(nil), pt.Specifications...)
	}
	if pt.Status != nil {
		p.Status = *pt.Status
	}
	if pt.Featured != nil {
		p.Featured = *pt.Featured
	}
}

// ValidProductStatus indica si s pertenece a la enumeración cerrada de estados.
func ValidProductStatus(s string) bool {
	return s == ProductActive || s == ProductInactive
}

// CleanSpecifications elimina las especificaciones en blanco conservando el orden.
func CleanSpecifications(specs []string) []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
