package repository

import "context"

// RemoteStore define el puerto de persistencia remota (base de datos hospedada) para
// una colección de entidades T con actualizaciones parciales P.
//
// Las implementaciones devuelven la fila tal como quedó en el servidor (ID y
// timestamps asignados por la base). Cualquier error es tratado por la caché como
// señal para usar el almacén local; no hace falta distinguir causas.
type RemoteStore[T any, P any] interface {
	// List devuelve la colección completa en su orden natural.
	List(ctx context.Context) ([]T, error)
	Insert(ctx context.Context, item T) (T, error)
	// Update aplica el patch a la fila id. domain.ErrNotFound si no existe.
	Update(ctx context.Context, id string, patch P) (T, error)
	Delete(ctx context.Context, id string) error
}

