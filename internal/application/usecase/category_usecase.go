package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/catalogo-api/internal/application/cache"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// CategoryStore colección de categorías.
type CategoryStore = cache.Store[entity.Category, entity.CategoryPatch]

// CategoryUseCase listado y alta de categorías. El nombre es único sin distinguir mayúsculas.
type CategoryUseCase struct {
	categories CategoryStore
}

func NewCategoryUseCase(categories CategoryStore) *CategoryUseCase {
	return &CategoryUseCase{categories: categories}
}

// List devuelve las categorías ordenadas por nombre.
func (uc *CategoryUseCase) List() []entity.Category {
	list := uc.categories.Items()
	fold := cases.Fold()
	sort.SliceStable(list, func(i, j int) bool {
		return fold.String(list[i].Name) < fold.String(list[j].Name)
	})
	return list
}

func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (entity.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return entity.Category{}, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	dup := uc.categories.Filter(func(c entity.Category) bool { return sameText(c.Name, name) })
	if len(dup) > 0 {
		return entity.Category{}, fmt.Errorf("%w: la categoría %q ya existe", domain.ErrDuplicate, name)
	}
	return uc.categories.Add(ctx, entity.Category{Name: name, Description: strings.TrimSpace(in.Description)})
}
