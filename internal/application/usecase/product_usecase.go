package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-api/internal/application/cache"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// ProductStore colección de productos.
type ProductStore = cache.Store[entity.Product, entity.ProductPatch]

// ProductUseCase casos de uso del catálogo: listado público y CRUD del panel.
type ProductUseCase struct {
	products ProductStore
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products ProductStore) *ProductUseCase {
	return &ProductUseCase{products: products}
}

// List filtra y pagina el catálogo. Sin IncludeInactive solo devuelve productos activos.
func (uc *ProductUseCase) List(f dto.ProductFilter) dto.ProductListResponse {
	f.DefaultPage()
	search := strings.TrimSpace(f.Search)
	list := uc.products.Filter(func(p entity.Product) bool {
		if !f.IncludeInactive && p.Status != entity.ProductActive {
			return false
		}
		if f.Featured && !p.Featured {
			return false
		}
		if f.Category != "" && !sameText(p.Category, f.Category) {
			return false
		}
		if search != "" && !containsFold(p.Name, search) && !containsFold(p.Description, search) && !containsFold(p.Category, search) {
			return false
		}
		return true
	})
	from, to := f.Window(len(list))
	return dto.ProductListResponse{
		Items: list[from:to],
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: len(list)},
	}
}

// Get obtiene un producto. Un producto inactivo solo es visible con includeInactive.
func (uc *ProductUseCase) Get(id string, includeInactive bool) (entity.Product, error) {
	p, ok := uc.products.Find(id)
	if !ok || (!includeInactive && p.Status != entity.ProductActive) {
		return entity.Product{}, domain.ErrNotFound
	}
	return p, nil
}

// Create valida y da de alta un producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (entity.Product, error) {
	if blank(in.Name) || blank(in.Category) {
		return entity.Product{}, fmt.Errorf("%w: nombre y categoría son obligatorios", domain.ErrInvalidInput)
	}
	if in.Price.LessThan(decimal.Zero) {
		return entity.Product{}, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	specs := entity.CleanSpecifications(in.Specifications)
	if len(specs) == 0 {
		return entity.Product{}, fmt.Errorf("%w: se requiere al menos una especificación", domain.ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = entity.ProductActive
	}
	if !entity.ValidProductStatus(status) {
		return entity.Product{}, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}

	p := entity.Product{
		Name:           strings.TrimSpace(in.Name),
		Category:       strings.TrimSpace(in.Category),
		Price:          in.Price.Round(2),
		Image:          strings.TrimSpace(in.Image),
		Description:    strings.TrimSpace(in.Description),
		Specifications: specs,
		Status:         status,
		Featured:       in.Featured,
	}
	return uc.products.Add(ctx, p)
}

// Update aplica una actualización parcial. domain.ErrNotFound si el producto no existe.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (entity.Product, error) {
	if _, ok := uc.products.Find(id); !ok {
		return entity.Product{}, domain.ErrNotFound
	}
	patch := entity.ProductPatch{
		Image:       in.Image,
		Description: in.Description,
		Featured:    in.Featured,
	}
	if in.Name != nil {
		if blank(*in.Name) {
			return entity.Product{}, fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrInvalidInput)
		}
		name := strings.TrimSpace(*in.Name)
		patch.Name = &name
	}
	if in.Category != nil {
		if blank(*in.Category) {
			return entity.Product{}, fmt.Errorf("%w: la categoría no puede quedar vacía", domain.ErrInvalidInput)
		}
		category := strings.TrimSpace(*in.Category)
		patch.Category = &category
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return entity.Product{}, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
		}
		price := in.Price.Round(2)
		patch.Price = &price
	}
	if in.Specifications != nil {
		specs := entity.CleanSpecifications(in.Specifications)
		if len(specs) == 0 {
			return entity.Product{}, fmt.Errorf("%w: se requiere al menos una especificación", domain.ErrInvalidInput)
		}
		patch.Specifications = specs
	}
	if in.Status != nil {
		if !entity.ValidProductStatus(*in.Status) {
			return entity.Product{}, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, *in.Status)
		}
		patch.Status = in.Status
	}

	p, found, err := uc.products.Update(ctx, id, patch)
	if err != nil {
		return entity.Product{}, err
	}
	if !found {
		return entity.Product{}, domain.ErrNotFound
	}
	return p, nil
}

// Delete elimina un producto. domain.ErrNotFound si no existe.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if _, ok := uc.products.Find(id); !ok {
		return domain.ErrNotFound
	}
	return uc.products.Remove(ctx, id)
}
