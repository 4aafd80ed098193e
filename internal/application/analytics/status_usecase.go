package analytics

import (
	"context"

	"github.com/jhoicas/catalogo-api/internal/application/cache"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

// RemoteHealth verificación del almacén remoto. nil = no configurado.
type RemoteHealth interface {
	Ping(ctx context.Context) error
	Tables(ctx context.Context) (map[string]bool, error)
}

// CollectionInfo vista mínima de una colección para el reporte de estado.
type CollectionInfo interface {
	Name() string
	Len() int
	Loading() bool
}

// StatusUseCase estado de conexión con el remoto y de cada colección.
type StatusUseCase struct {
	remote      RemoteHealth
	localDriver string
	collections []CollectionInfo
	refetchers  []cache.Refetcher
}

func NewStatusUseCase(remote RemoteHealth, localDriver string, collections []CollectionInfo, refetchers []cache.Refetcher) *StatusUseCase {
	return &StatusUseCase{remote: remote, localDriver: localDriver, collections: collections, refetchers: refetchers}
}

// Status nunca falla: los errores del remoto se informan en RemoteError.
func (uc *StatusUseCase) Status(ctx context.Context) dto.SystemStatus {
	st := dto.SystemStatus{
		RemoteConfigured: uc.remote != nil,
		LocalDriver:      uc.localDriver,
		Collections:      make([]dto.CollectionStatus, 0, len(uc.collections)),
	}
	for _, c := range uc.collections {
		st.Collections = append(st.Collections, dto.CollectionStatus{Name: c.Name(), Items: c.Len(), Loading: c.Loading()})
	}
	if uc.remote == nil {
		return st
	}
	if err := uc.remote.Ping(ctx); err != nil {
		st.RemoteError = err.Error()
		return st
	}
	st.RemoteConnected = true
	tables, err := uc.remote.Tables(ctx)
	if err != nil {
		st.RemoteError = err.Error()
		return st
	}
	st.Tables = tables
	return st
}

// RefetchAll recarga todas las colecciones (botón "sincronizar" del panel).
func (uc *StatusUseCase) RefetchAll(ctx context.Context) error {
	return cache.RefetchAll(ctx, uc.refetchers...)
}
