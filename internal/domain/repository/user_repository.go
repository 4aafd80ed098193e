package repository

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// AdminUserRepository puerto remoto para AdminUser.
type AdminUserRepository = RemoteStore[entity.AdminUser, entity.AdminUserPatch]
