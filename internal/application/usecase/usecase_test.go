package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/cache"
	"github.com/jhoicas/catalogo-api/internal/application/ports"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/localstore"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

var testCompany = ports.CompanyInfo{
	Name:    "Tuberías del Norte",
	Email:   "ventas@tuberias.test",
	Phone:   "+57 300 000 0000",
	Address: "Calle 1 # 2-3",
}

// clock reloj manual compartido por colecciones y casos de uso.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []ports.MailMessage
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg ports.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakePDF struct{}

func (fakePDF) GenerateQuotationPDF(_ context.Context, q entity.QuotationRequest, _ ports.CompanyInfo) ([]byte, error) {
	return []byte("%PDF-" + q.ID), nil
}

var errSMTPDown = errors.New("smtp: connection refused")

// stores colecciones sin remoto sobre un almacén en memoria, ya cargadas.
type stores struct {
	clock      *clock
	products   *cache.Collection[entity.Product, entity.ProductPatch]
	categories *cache.Collection[entity.Category, entity.CategoryPatch]
	quotations *cache.Collection[entity.QuotationRequest, entity.QuotationPatch]
	followUps  *cache.Collection[entity.FollowUp, entity.FollowUpPatch]
	visitors   *cache.Collection[entity.Visitor, entity.VisitorPatch]
	sessions   *cache.Collection[entity.VisitorSession, entity.SessionPatch]
}

func newStores(t *testing.T) *stores {
	t.Helper()
	clk := &clock{now: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	local := localstore.NewMemoryStore()
	opts := cache.Options{Logger: zerolog.Nop(), Now: clk.Now}

	s := &stores{
		clock:      clk,
		products:   cache.NewCollection(cache.ProductDescriptor(), nil, local, opts),
		categories: cache.NewCollection(cache.CategoryDescriptor(), nil, local, opts),
		quotations: cache.NewCollection(cache.QuotationDescriptor(), nil, local, opts),
		followUps:  cache.NewCollection(cache.FollowUpDescriptor(), nil, local, opts),
		visitors:   cache.NewCollection(cache.VisitorDescriptor(), nil, local, opts),
		sessions:   cache.NewCollection(cache.SessionDescriptor(), nil, local, opts),
	}
	require.NoError(t, cache.RefetchAll(context.Background(),
		s.products, s.categories, s.quotations, s.followUps, s.visitors, s.sessions))
	return s
}
