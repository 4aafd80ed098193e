// Package cache implementa las colecciones local-first: cada operación intenta
// primero el almacén remoto y, ante cualquier fallo, resuelve contra el
// snapshot local. Los errores del remoto nunca llegan al llamador; solo los del
// almacén local.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

const defaultRemoteTimeout = 8 * time.Second

// Options dependencias opcionales de una Collection.
type Options struct {
	Timeout time.Duration // por llamada remota; 0 = 8s
	Logger  zerolog.Logger
	Metrics *Metrics
	Now     func() time.Time
	NewID   func() string // IDs locales; por defecto UUIDv7 (ordenables por tiempo)
}

// Collection lista en memoria de entidades T sincronizada con un RemoteStore
// opcional y un SnapshotStore local. Segura para uso concurrente.
type Collection[T any, P any] struct {
	desc    Descriptor[T, P]
	remote  repository.RemoteStore[T, P]
	local   repository.SnapshotStore
	log     zerolog.Logger
	metrics *Metrics
	timeout time.Duration
	now     func() time.Time
	newID   func() string

	mu      sync.Mutex
	items   []T
	loading int
	seq     uint64 // se incrementa en cada refetch y mutación; descarta respuestas viejas
	version uint64 // última versión de snapshot escrita o leída por este proceso
	loaded  bool
}

// NewCollection construye la colección. remote nil = almacén remoto no configurado.
func NewCollection[T any, P any](
	desc Descriptor[T, P],
	remote repository.RemoteStore[T, P],
	local repository.SnapshotStore,
	opts Options,
) *Collection[T, P] {
	c := &Collection[T, P]{
		desc:    desc,
		remote:  remote,
		local:   local,
		log:     opts.Logger.With().Str("collection", desc.Name).Logger(),
		metrics: opts.Metrics,
		timeout: opts.Timeout,
		now:     opts.Now,
		newID:   opts.NewID,
	}
	if c.timeout <= 0 {
		c.timeout = defaultRemoteTimeout
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = newLocalID
	}
	return c
}

func newLocalID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Name nombre de la colección.
func (c *Collection[T, P]) Name() string { return c.desc.Name }

// Items devuelve una copia de la lista actual.
func (c *Collection[T, P]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len cantidad de elementos en memoria.
func (c *Collection[T, P]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Loading es true solo mientras hay un Refetch en curso.
func (c *Collection[T, P]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading > 0
}

// Find busca por ID en la lista en memoria.
func (c *Collection[T, P]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Filter devuelve los elementos que cumplen pred, en el orden de la lista.
func (c *Collection[T, P]) Filter(pred func(T) bool) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, 0)
	for _, it := range c.items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// Refetch recarga la lista: remoto primero; si falla, snapshot local; si no hay
// snapshot, la semilla (que se persiste). Si mientras tanto empezó otro refetch o
// hubo una mutación, el resultado se descarta.
func (c *Collection[T, P]) Refetch(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	mySeq := c.seq
	c.loading++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading--
		c.mu.Unlock()
	}()

	rows, remoteErr := c.remoteList(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if mySeq != c.seq {
		c.log.Debug().Uint64("seq", mySeq).Msg("refetch descartado: respuesta obsoleta")
		return nil
	}

	if remoteErr == nil {
		if rows == nil {
			rows = []T{}
		}
		c.items = rows
		c.loaded = true
		if err := c.writeSnapshotLocked(ctx); err != nil {
			c.log.Warn().Err(err).Msg("no se pudo reflejar el listado remoto en el almacén local")
		}
		return nil
	}

	c.fallback("refetch", remoteErr)
	return c.loadLocalLocked(ctx)
}

// loadLocalLocked carga el snapshot local o, si no existe, la semilla (que se persiste).
func (c *Collection[T, P]) loadLocalLocked(ctx context.Context) error {
	snap, ok, err := c.readSnapshotLocked(ctx)
	if err != nil {
		return fmt.Errorf("cache %s: leer almacén local: %w", c.desc.Name, err)
	}
	if ok {
		c.items = snap
		c.loaded = true
		return nil
	}

	var seeded []T
	if c.desc.Seed != nil {
		seeded = c.desc.Seed(c.now())
	}
	if seeded == nil {
		seeded = []T{}
	}
	prev := c.items
	c.items = seeded
	if err := c.writeSnapshotLocked(ctx); err != nil {
		c.items = prev
		return fmt.Errorf("cache %s: guardar semilla: %w", c.desc.Name, err)
	}
	c.loaded = true
	c.log.Info().Int("items", len(seeded)).Msg("almacén local inicializado con la semilla")
	return nil
}

// ensureLoadedLocked evita que una mutación sin remoto sobrescriba un snapshot
// que esta colección todavía no leyó.
func (c *Collection[T, P]) ensureLoadedLocked(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	return c.loadLocalLocked(ctx)
}

// mirrorLoadLocked carga el snapshot antes de reflejar una escritura remota exitosa
// en una colección que aún no se listó. Un fallo solo se registra.
func (c *Collection[T, P]) mirrorLoadLocked(ctx context.Context) {
	if err := c.ensureLoadedLocked(ctx); err != nil {
		c.log.Warn().Err(err).Msg("no se pudo cargar el almacén local")
	}
}

// Add inserta item. Con remoto devuelve la fila asignada por el servidor; sin él,
// asigna ID y timestamps locales. La entidad queda al inicio de la lista, una sola vez.
func (c *Collection[T, P]) Add(ctx context.Context, item T) (T, error) {
	row, remoteErr := c.remoteInsert(ctx, item)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++

	if remoteErr == nil {
		c.mirrorLoadLocked(ctx)
		c.items = c.prependLocked(row)
		if err := c.writeSnapshotLocked(ctx); err != nil {
			c.log.Warn().Err(err).Str("id", c.desc.ID(row)).Msg("no se pudo reflejar el alta en el almacén local")
		}
		return row, nil
	}

	c.fallback("add", remoteErr)

	var zero T
	if err := c.ensureLoadedLocked(ctx); err != nil {
		return zero, err
	}
	c.desc.Stamp(&item, c.newID(), c.now())
	prev := c.items
	c.items = c.prependLocked(item)
	if err := c.writeSnapshotLocked(ctx); err != nil {
		c.items = prev
		return zero, fmt.Errorf("cache %s: guardar alta local: %w", c.desc.Name, err)
	}
	return item, nil
}

// Update aplica patch al elemento id. found=false (sin error) si el ID no existe.
func (c *Collection[T, P]) Update(ctx context.Context, id string, patch P) (T, bool, error) {
	row, remoteErr := c.remoteUpdate(ctx, id, patch)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++

	if remoteErr == nil {
		c.mirrorLoadLocked(ctx)
		next := make([]T, len(c.items))
		copy(next, c.items)
		if i := c.indexLocked(id); i >= 0 {
			next[i] = row
			c.items = next
		} else {
			c.items = c.prependLocked(row)
		}
		if err := c.writeSnapshotLocked(ctx); err != nil {
			c.log.Warn().Err(err).Str("id", id).Msg("no se pudo reflejar la actualización en el almacén local")
		}
		return row, true, nil
	}

	c.fallback("update", remoteErr)

	var zero T
	if err := c.ensureLoadedLocked(ctx); err != nil {
		return zero, false, err
	}
	i := c.indexLocked(id)
	if i < 0 {
		return zero, false, nil
	}
	updated := c.items[i]
	c.desc.Merge(&updated, patch, c.now())

	prev := c.items
	next := make([]T, len(c.items))
	copy(next, c.items)
	next[i] = updated
	c.items = next
	if err := c.writeSnapshotLocked(ctx); err != nil {
		c.items = prev
		return zero, true, fmt.Errorf("cache %s: guardar actualización local: %w", c.desc.Name, err)
	}
	return updated, true, nil
}

// Remove elimina id. Un ID inexistente no es error.
func (c *Collection[T, P]) Remove(ctx context.Context, id string) error {
	remoteErr := c.remoteDelete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++

	if remoteErr == nil {
		c.mirrorLoadLocked(ctx)
		c.items = c.withoutLocked(id)
		if err := c.writeSnapshotLocked(ctx); err != nil {
			c.log.Warn().Err(err).Str("id", id).Msg("no se pudo reflejar la baja en el almacén local")
		}
		return nil
	}

	c.fallback("remove", remoteErr)

	if err := c.ensureLoadedLocked(ctx); err != nil {
		return err
	}
	prev := c.items
	c.items = c.withoutLocked(id)
	if err := c.writeSnapshotLocked(ctx); err != nil {
		c.items = prev
		return fmt.Errorf("cache %s: guardar baja local: %w", c.desc.Name, err)
	}
	return nil
}

// ── remoto ────────────────────────────────────────────────────────────────────

func (c *Collection[T, P]) remoteList(ctx context.Context) ([]T, error) {
	if c.remote == nil {
		return nil, domain.ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.remote.List(ctx)
}

func (c *Collection[T, P]) remoteInsert(ctx context.Context, item T) (T, error) {
	if c.remote == nil {
		var zero T
		return zero, domain.ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.remote.Insert(ctx, item)
}

func (c *Collection[T, P]) remoteUpdate(ctx context.Context, id string, patch P) (T, error) {
	if c.remote == nil {
		var zero T
		return zero, domain.ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.remote.Update(ctx, id, patch)
}

func (c *Collection[T, P]) remoteDelete(ctx context.Context, id string) error {
	if c.remote == nil {
		return domain.ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.remote.Delete(ctx, id)
}

func (c *Collection[T, P]) fallback(op string, err error) {
	c.metrics.fallback(c.desc.Name, op)
	if errors.Is(err, domain.ErrNotConfigured) {
		c.log.Debug().Str("op", op).Msg("remoto no configurado, usando almacén local")
		return
	}
	c.log.Warn().Err(err).Str("op", op).Msg("remoto no disponible, usando almacén local")
}

// ── local (requieren c.mu) ────────────────────────────────────────────────────

func (c *Collection[T, P]) readSnapshotLocked(ctx context.Context) ([]T, bool, error) {
	data, ok, err := c.local.Get(ctx, c.desc.LocalKey)
	if err != nil || !ok {
		return nil, ok, err
	}
	snap, err := decodeSnapshot[T](data)
	if err != nil {
		return nil, false, err
	}
	if c.version != 0 && snap.Version != c.version {
		c.log.Warn().Uint64("esperada", c.version).Uint64("encontrada", snap.Version).
			Msg("snapshot modificado por otro proceso; se adopta el contenido guardado")
	}
	c.version = snap.Version
	if snap.Items == nil {
		snap.Items = []T{}
	}
	return snap.Items, true, nil
}

func (c *Collection[T, P]) writeSnapshotLocked(ctx context.Context) error {
	current, ok, err := c.local.Get(ctx, c.desc.LocalKey)
	if err != nil {
		return err
	}
	stored := uint64(0)
	if ok {
		stored = snapshotVersion(current)
	}
	if c.version != 0 && stored != c.version {
		c.log.Warn().Uint64("esperada", c.version).Uint64("encontrada", stored).
			Msg("snapshot modificado por otro proceso; se sobrescribe (gana la última escritura)")
	}
	next := stored + 1
	if c.version >= next {
		next = c.version + 1
	}
	data, err := encodeSnapshot(next, c.now(), c.items)
	if err != nil {
		return err
	}
	if err := c.local.Put(ctx, c.desc.LocalKey, data); err != nil {
		return err
	}
	c.version = next
	return nil
}

func (c *Collection[T, P]) indexLocked(id string) int {
	for i, it := range c.items {
		if c.desc.ID(it) == id {
			return i
		}
	}
	return -1
}

// prependLocked devuelve una lista nueva con item al inicio y sin otras entradas con su ID.
func (c *Collection[T, P]) prependLocked(item T) []T {
	id := c.desc.ID(item)
	next := make([]T, 0, len(c.items)+1)
	next = append(next, item)
	for _, it := range c.items {
		if c.desc.ID(it) != id {
			next = append(next, it)
		}
	}
	return next
}

func (c *Collection[T, P]) withoutLocked(id string) []T {
	next := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if c.desc.ID(it) != id {
			next = append(next, it)
		}
	}
	return next
}
