package repository

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// CategoryRepository puerto remoto para Category (orden: name ASC).
type CategoryRepository = RemoteStore[entity.Category, entity.CategoryPatch]
