package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Category       string          `json:"category" validate:"required,max=100"`
	Price          decimal.Decimal `json:"price"`
	Image          string          `json:"image" validate:"max=500"`
	Description    string          `json:"description"`
	Specifications []string        `json:"specifications" validate:"required,min=1"`
	Status         string          `json:"status" validate:"omitempty,oneof=active inactive"`
	Featured       bool            `json:"featured"`
}

// UpdateProductRequest entrada para actualizar un producto. Campos nil no cambian.
type UpdateProductRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category       *string          `json:"category" validate:"omitempty,min=1,max=100"`
	Price          *decimal.Decimal `json:"price"`
	Image          *string          `json:"image" validate:"omitempty,max=500"`
	Description    *string          `json:"description"`
	Specifications []string         `json:"specifications"`
	Status         *string          `json:"status" validate:"omitempty,oneof=active inactive"`
	Featured       *bool            `json:"featured"`
}

// ProductFilter filtros del catálogo público.
type ProductFilter struct {
	Category        string `query:"category"`
	Search          string `query:"search"`
	Featured        bool   `query:"featured"`
	IncludeInactive bool   `query:"include_inactive"`
	PageRequest
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []entity.Product `json:"items"`
	Page  PageResponse     `json:"page"`
}

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description"`
}
