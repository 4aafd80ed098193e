// Package localstore contiene los drivers del almacén local de respaldo: un
// valor JSON por colección, durable entre reinicios.
package localstore

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// Open construye el driver indicado: bolt (por defecto), sqlite o memory.
func Open(driver, path string, log zerolog.Logger) (repository.SnapshotStore, error) {
	switch driver {
	case "", "bolt":
		return NewBoltStore(path, log)
	case "sqlite":
		return NewSQLiteStore(path, log)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("driver de almacén local desconocido: %q", driver)
	}
}
