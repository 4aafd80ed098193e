package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Refetcher lo implementa toda Collection; permite recargar colecciones heterogéneas.
type Refetcher interface {
	Name() string
	Refetch(ctx context.Context) error
}

// RefetchAll recarga cada colección en orden y acumula los errores del almacén local.
func RefetchAll(ctx context.Context, targets ...Refetcher) error {
	var errs []error
	for _, t := range targets {
		if err := t.Refetch(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Resyncer ejecuta RefetchAll periódicamente según una expresión cron, para que un
// remoto recuperado se vuelva a usar sin reiniciar el proceso.
type Resyncer struct {
	cron    *cron.Cron
	targets []Refetcher
	log     zerolog.Logger
	timeout time.Duration
}

// NewResyncer valida spec (formato estándar de 5 campos o descriptores como "@every 5m").
func NewResyncer(spec string, timeout time.Duration, log zerolog.Logger, targets ...Refetcher) (*Resyncer, error) {
	r := &Resyncer{
		cron:    cron.New(),
		targets: targets,
		log:     log,
		timeout: timeout,
	}
	if r.timeout <= 0 {
		r.timeout = time.Minute
	}
	if _, err := r.cron.AddFunc(spec, r.run); err != nil {
		return nil, fmt.Errorf("CACHE_RESYNC_SPEC inválido %q: %w", spec, err)
	}
	return r, nil
}

func (r *Resyncer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	start := time.Now()
	if err := RefetchAll(ctx, r.targets...); err != nil {
		r.log.Error().Err(err).Msg("resincronización de caché con errores")
		return
	}
	r.log.Debug().Dur("duracion", time.Since(start)).Msg("caché resincronizada")
}

// Start inicia el planificador en segundo plano.
func (r *Resyncer) Start() { r.cron.Start() }

// Stop detiene el planificador y espera a que termine la ejecución en curso.
func (r *Resyncer) Stop() {
	<-r.cron.Stop().Done()
}
