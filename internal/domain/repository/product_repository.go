package repository

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// ProductRepository puerto remoto para Product (orden: created_at DESC).
type ProductRepository = RemoteStore[entity.Product, entity.ProductPatch]
