package repository

import "context"

// SnapshotStore define el puerto del almacén local durable: una clave por colección,
// cuyo valor es el snapshot JSON completo de esa colección.
type SnapshotStore interface {
	// Get devuelve el valor de key; ok=false si la clave no existe.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}
