package entity

import "time"

// Category representa una categoría del catálogo. Name es único.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryPatch actualización parcial de una categoría.
type CategoryPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ApplyTo copia sobre c los campos presentes en el patch.
func (pt CategoryPatch) ApplyTo(c *Category) {
	if pt.Name != nil {
		c.Name = *pt.Name
	}
	if pt.Description != nil {
		c.Description = *pt.Description
	}
}
