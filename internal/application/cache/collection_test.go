package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/localstore"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

var errRemoteDown = errors.New("connection refused")

// fakeProducts simula la tabla products del remoto.
type fakeProducts struct {
	mu     sync.Mutex
	rows   []entity.Product
	err    error
	listFn func(ctx context.Context) ([]entity.Product, error)
	nextID int
}

func (f *fakeProducts) setDown(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeProducts) List(ctx context.Context) ([]entity.Product, error) {
	f.mu.Lock()
	fn, err := f.listFn, f.err
	rows := append([]entity.Product(nil), f.rows...)
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (f *fakeProducts) Insert(_ context.Context, p entity.Product) (entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return entity.Product{}, f.err
	}
	f.nextID++
	p.ID = fmt.Sprintf("r-%d", f.nextID)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.rows = append([]entity.Product{p}, f.rows...)
	return p, nil
}

func (f *fakeProducts) Update(_ context.Context, id string, pt entity.ProductPatch) (entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return entity.Product{}, f.err
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			pt.ApplyTo(&f.rows[i])
			return f.rows[i], nil
		}
	}
	return entity.Product{}, domain.ErrNotFound
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	out := f.rows[:0]
	for _, r := range f.rows {
		if r.ID != id {
			out = append(out, r)
		}
	}
	f.rows = out
	return nil
}

// brokenStore falla en cada escritura.
type brokenStore struct{ *localstore.MemoryStore }

func (brokenStore) Put(context.Context, string, []byte) error { return errors.New("disco lleno") }

func newProducts(remote repository.ProductRepository, local repository.SnapshotStore) *Collection[entity.Product, entity.ProductPatch] {
	return NewCollection(ProductDescriptor(), remote, local, Options{Logger: zerolog.Nop()})
}

func countID(items []entity.Product, id string) int {
	n := 0
	for _, p := range items {
		if p.ID == id {
			n++
		}
	}
	return n
}

func newProduct(name string) entity.Product {
	return entity.Product{
		Name:           name,
		Category:       "Valves",
		Price:          decimal.RequireFromString("10.50"),
		Specifications: []string{"25mm"},
		Status:         entity.ProductActive,
	}
}

// ── Semilla ──────────────────────────────────────────────────────────────────

func TestRefetch_SinRemotoSiembraYEsEstable(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemoryStore()

	c := newProducts(nil, store)
	require.NoError(t, c.Refetch(ctx))
	first := c.Items()
	require.Len(t, first, 8, "la primera carga debe sembrar el catálogo inicial")
	assert.False(t, c.Loading())

	// Otra instancia sobre el mismo almacén lee lo persistido, no vuelve a sembrar con otra hora.
	c2 := newProducts(nil, store)
	require.NoError(t, c2.Refetch(ctx))
	second := c2.Items()
	require.Len(t, second, 8)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.True(t, first[i].Price.Equal(second[i].Price))
		assert.True(t, first[i].CreatedAt.Equal(second[i].CreatedAt))
	}
}

func TestRefetch_ArregloPlanoLegado(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, KeyProducts, []byte(`[{"id":"x","name":"Codo","category":"Pipe Fittings","price":"3.5","specifications":["90°"],"status":"active"}]`)))

	c := newProducts(nil, store)
	require.NoError(t, c.Refetch(ctx))
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Codo", items[0].Name)
}

// ── Alta ─────────────────────────────────────────────────────────────────────

func TestAdd_VisibleUnaSolaVez(t *testing.T) {
	ctx := context.Background()

	t.Run("remoto caído", func(t *testing.T) {
		remote := &fakeProducts{err: errRemoteDown}
		c := newProducts(remote, localstore.NewMemoryStore())
		require.NoError(t, c.Refetch(ctx))

		added, err := c.Add(ctx, newProduct("Válvula"))
		require.NoError(t, err)
		assert.NotEmpty(t, added.ID, "debe asignarse un ID local")
		assert.False(t, added.CreatedAt.IsZero())

		require.NoError(t, c.Refetch(ctx))
		assert.Equal(t, 1, countID(c.Items(), added.ID))
	})

	t.Run("remoto disponible", func(t *testing.T) {
		remote := &fakeProducts{}
		c := newProducts(remote, localstore.NewMemoryStore())
		require.NoError(t, c.Refetch(ctx))

		added, err := c.Add(ctx, newProduct("Válvula"))
		require.NoError(t, err)
		assert.Equal(t, "r-1", added.ID, "con remoto se usa el ID del servidor")
		assert.Equal(t, added.ID, c.Items()[0].ID, "el alta queda al inicio")

		require.NoError(t, c.Refetch(ctx))
		assert.Equal(t, 1, countID(c.Items(), added.ID))
	})
}

func TestAdd_FalloLocalSeReporta(t *testing.T) {
	ctx := context.Background()
	c := newProducts(nil, brokenStore{localstore.NewMemoryStore()})

	_, err := c.Add(ctx, newProduct("Válvula"))
	assert.Error(t, err, "sin remoto, un fallo del almacén local debe llegar al llamador")
	assert.Empty(t, c.Items(), "la lista en memoria no debe quedar con el alta fallida")
}

// ── Actualización ────────────────────────────────────────────────────────────

func TestUpdate_AplicaSoloCamposDelPatch(t *testing.T) {
	ctx := context.Background()
	c := newProducts(nil, localstore.NewMemoryStore())
	require.NoError(t, c.Refetch(ctx))

	before, ok := c.Find("3")
	require.True(t, ok)

	name := "Ball Valve 32mm"
	price := decimal.RequireFromString("29.99")
	updated, found, err := c.Update(ctx, "3", entity.ProductPatch{Name: &name, Price: &price})
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, name, updated.Name)
	assert.True(t, price.Equal(updated.Price))
	assert.Equal(t, before.Category, updated.Category)
	assert.Equal(t, before.Description, updated.Description)
	assert.Equal(t, before.Specifications, updated.Specifications)
	assert.Equal(t, before.Featured, updated.Featured)
	assert.True(t, updated.UpdatedAt.After(before.UpdatedAt) || updated.UpdatedAt.Equal(before.UpdatedAt))

	// Persistido: otra instancia lo ve.
	c2 := newProducts(nil, c.local)
	require.NoError(t, c2.Refetch(ctx))
	got, ok := c2.Find("3")
	require.True(t, ok)
	assert.Equal(t, name, got.Name)
}

func TestUpdate_IDInexistenteNoEsError(t *testing.T) {
	ctx := context.Background()
	c := newProducts(nil, localstore.NewMemoryStore())
	require.NoError(t, c.Refetch(ctx))

	name := "x"
	_, found, err := c.Update(ctx, "no-existe", entity.ProductPatch{Name: &name})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Len(t, c.Items(), 8)
}

// ── Baja ─────────────────────────────────────────────────────────────────────

func TestRemove_NoReapareceTrasFallback(t *testing.T) {
	ctx := context.Background()
	remote := &fakeProducts{}
	c := newProducts(remote, localstore.NewMemoryStore())
	require.NoError(t, c.Refetch(ctx))

	a, err := c.Add(ctx, newProduct("A"))
	require.NoError(t, err)
	b, err := c.Add(ctx, newProduct("B"))
	require.NoError(t, err)

	require.NoError(t, c.Remove(ctx, a.ID))

	// El remoto cae: la lectura sale del snapshot, que ya refleja la baja.
	remote.setDown(errRemoteDown)
	require.NoError(t, c.Refetch(ctx))
	assert.Equal(t, 0, countID(c.Items(), a.ID))
	assert.Equal(t, 1, countID(c.Items(), b.ID))
}

func TestQuotations_AltaYBajaSinRemotoDejaSnapshotVacio(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemoryStore()
	c := NewCollection(QuotationDescriptor(), nil, store, Options{Logger: zerolog.Nop()})

	q, err := c.Add(ctx, entity.QuotationRequest{
		CustomerName: "Ana",
		Email:        "ana@example.com",
		Items:        []entity.QuoteItem{{Product: "Valve", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.QuotationPending, q.Status)

	require.NoError(t, c.Remove(ctx, q.ID))

	raw, ok, err := store.Get(ctx, KeyQuotations)
	require.NoError(t, err)
	require.True(t, ok)
	snap, err := decodeSnapshot[entity.QuotationRequest](raw)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

// ── Concurrencia y tiempos ───────────────────────────────────────────────────

func TestRefetch_DescartaRespuestaObsoleta(t *testing.T) {
	ctx := context.Background()
	old := []entity.Product{{ID: "old", Name: "Viejo"}}
	fresh := []entity.Product{{ID: "new", Name: "Nuevo"}}

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex
	remote := &fakeProducts{}
	remote.listFn = func(context.Context) ([]entity.Product, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(entered)
			<-release
			return old, nil
		}
		return fresh, nil
	}

	c := newProducts(remote, localstore.NewMemoryStore())

	done := make(chan error, 1)
	go func() { done <- c.Refetch(ctx) }()
	<-entered
	assert.True(t, c.Loading(), "loading debe ser true mientras hay un refetch en curso")

	require.NoError(t, c.Refetch(ctx))
	close(release)
	require.NoError(t, <-done)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "new", items[0].ID, "la respuesta del refetch anterior no debe pisar la más reciente")
	assert.False(t, c.Loading())
}

func TestRefetch_TimeoutRemotoUsaLocalYCuentaFallback(t *testing.T) {
	ctx := context.Background()
	remote := &fakeProducts{}
	remote.listFn = func(ctx context.Context) ([]entity.Product, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	metrics := NewMetrics(prometheus.NewRegistry())
	c := NewCollection(ProductDescriptor(), repository.ProductRepository(remote), localstore.NewMemoryStore(), Options{
		Logger:  zerolog.Nop(),
		Timeout: 20 * time.Millisecond,
		Metrics: metrics,
	})

	require.NoError(t, c.Refetch(ctx))
	assert.Len(t, c.Items(), 8)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.fallbacks.WithLabelValues("products", "refetch")))
}

func TestConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	c := NewCollection(QuotationDescriptor(), nil, localstore.NewMemoryStore(), Options{Logger: zerolog.Nop()})
	require.NoError(t, c.Refetch(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Add(ctx, entity.QuotationRequest{CustomerName: fmt.Sprintf("c%d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Len(t, c.Items(), 20)

	c2 := NewCollection(QuotationDescriptor(), nil, c.local, Options{Logger: zerolog.Nop()})
	require.NoError(t, c2.Refetch(ctx))
	assert.Len(t, c2.Items(), 20, "el snapshot debe contener todas las altas concurrentes")
}

// ── Resincronización ─────────────────────────────────────────────────────────

type stubRefetcher struct {
	name string
	err  error
	n    int
}

func (s *stubRefetcher) Name() string { return s.name }
func (s *stubRefetcher) Refetch(context.Context) error {
	s.n++
	return s.err
}

func TestRefetchAll_AcumulaErrores(t *testing.T) {
	a := &stubRefetcher{name: "a"}
	b := &stubRefetcher{name: "b", err: errors.New("disco")}
	err := RefetchAll(context.Background(), a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b: disco")
	assert.Equal(t, 1, a.n)
	assert.Equal(t, 1, b.n)
}

func TestNewResyncer_ExpresionInvalida(t *testing.T) {
	_, err := NewResyncer("cada rato", time.Second, zerolog.Nop())
	assert.Error(t, err)

	r, err := NewResyncer("@every 1h", time.Second, zerolog.Nop(), &stubRefetcher{name: "a"})
	require.NoError(t, err)
	r.Start()
	r.Stop()
}
