package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/catalogo-api/internal/application/analytics"
	"github.com/jhoicas/catalogo-api/internal/application/auth"
	"github.com/jhoicas/catalogo-api/internal/application/cache"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/ports"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/localstore"
	apphttp "github.com/jhoicas/catalogo-api/internal/interfaces/http"
)

type stubMailer struct {
	mu   sync.Mutex
	sent []ports.MailMessage
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg ports.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubPDF struct{}

func (stubPDF) GenerateQuotationPDF(_ context.Context, q entity.QuotationRequest, _ ports.CompanyInfo) ([]byte, error) {
	return []byte("%PDF-1.4 " + q.ID), nil
}

// testServer API completa sobre colecciones en memoria sin almacén remoto.
type testServer struct {
	app    *fiber.App
	mailer *stubMailer
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	local := localstore.NewMemoryStore()
	opts := cache.Options{Logger: zerolog.Nop()}

	seed, err := auth.BootstrapAdmin(testUsername, "s3cret-pass", "admin@tuberias.test")
	require.NoError(t, err)

	products := cache.NewCollection(cache.ProductDescriptor(), nil, local, opts)
	categories := cache.NewCollection(cache.CategoryDescriptor(), nil, local, opts)
	quotations := cache.NewCollection(cache.QuotationDescriptor(), nil, local, opts)
	followUps := cache.NewCollection(cache.FollowUpDescriptor(), nil, local, opts)
	visitors := cache.NewCollection(cache.VisitorDescriptor(), nil, local, opts)
	sessions := cache.NewCollection(cache.SessionDescriptor(), nil, local, opts)
	users := cache.NewCollection(cache.AdminUserDescriptor(seed), nil, local, opts)
	refetchers := []cache.Refetcher{products, categories, quotations, followUps, visitors, sessions, users}
	require.NoError(t, cache.RefetchAll(ctx, refetchers...))

	mailer := &stubMailer{}
	company := ports.CompanyInfo{Name: "Tuberías del Norte", Email: "ventas@tuberias.test"}
	followUpUC := usecase.NewFollowUpUseCase(followUps, quotations)
	visitorUC := usecase.NewVisitorUseCase(visitors, sessions)

	reg := prometheus.NewRegistry()
	metrics := apphttp.NewMetrics(reg, reg)
	app := apphttp.NewApp(apphttp.AppConfig{Name: "catalogo-api-test"}, metrics)
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(products),
		CategoryUC:  usecase.NewCategoryUseCase(categories),
		QuotationUC: usecase.NewQuotationUseCase(quotations, followUps, mailer, stubPDF{}, company, zerolog.Nop()),
		FollowUpUC:  followUpUC,
		VisitorUC:   visitorUC,
		ContactUC:   usecase.NewContactUseCase(mailer, company, zerolog.Nop()),
		AuthUC:      auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}, zerolog.Nop()),
		DashboardUC: appanalytics.NewDashboardUseCase(products, quotations, followUpUC, visitorUC),
		StatusUC: appanalytics.NewStatusUseCase(nil, "memory",
			[]appanalytics.CollectionInfo{products, categories, quotations, followUps, visitors, sessions, users},
			refetchers),
		Metrics:   metrics,
		JWTSecret: testJWTSecret,
		AppName:   "catalogo-api-test",
	})

	s := &testServer{app: app, mailer: mailer}
	var login dto.LoginResponse
	resp := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": testUsername, "password": "s3cret-pass"}, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &login)
	s.token = login.Token
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, authenticated bool) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func quoteForm() map[string]interface{} {
	return map[string]interface{}{
		"customer_name": "Ana Gómez",
		"email":         "ana@obra.test",
		"phone":         "3001234567",
		"company":       "Obras SAS",
		"accept_terms":  true,
		"items": []map[string]interface{}{
			{"product": "PVC Pipe 4\"", "quantity": 10, "specifications": "SDR 21"},
			{"product": "", "quantity": 0},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_PublicList(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/products", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list dto.ProductListResponse
	decode(t, resp, &list)
	assert.Len(t, list.Items, 8)
	for _, p := range list.Items {
		assert.Equal(t, entity.ProductActive, p.Status)
	}
}

func TestProducts_WriteRequiresToken(t *testing.T) {
	s := newTestServer(t)
	body := map[string]interface{}{"name": "Codo 90°", "category": "Pipe Fittings", "price": "2500", "specifications": []string{"PVC"}}

	resp := s.do(t, http.MethodPost, "/api/products", body, false)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/products", body, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created entity.Product
	decode(t, resp, &created)
	assert.NotEmpty(t, created.ID)

	resp = s.do(t, http.MethodDelete, "/api/products/"+created.ID, nil, true)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/products/"+created.ID, nil, false)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_CreateValidation(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/products", map[string]interface{}{"name": ""}, true)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "VALIDATION")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cotizaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestQuotation_SubmitSendComplete(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/quotations", quoteForm(), false)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var q entity.QuotationRequest
	decode(t, resp, &q)
	assert.Equal(t, entity.QuotationPending, q.Status)
	assert.Len(t, q.Items, 1, "la línea vacía se descarta")

	// el buzón es solo para el panel
	resp = s.do(t, http.MethodGet, "/api/quotations", nil, false)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/quotations/"+q.ID+"/send", map[string]string{"quotation_text": "Total: $250.000"}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &q)
	assert.Equal(t, entity.QuotationQuoted, q.Status)
	require.Len(t, s.mailer.sent, 1)
	assert.Equal(t, "ana@obra.test", s.mailer.sent[0].To)

	resp = s.do(t, http.MethodPatch, "/api/quotations/"+q.ID+"/status", map[string]string{"status": "pending"}, true)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodPatch, "/api/quotations/"+q.ID+"/status", map[string]string{"status": "completed"}, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &q)
	assert.Equal(t, entity.QuotationCompleted, q.Status)
}

func TestQuotation_EmailFailureKeepsPending(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/quotations", quoteForm(), false)
	var q entity.QuotationRequest
	decode(t, resp, &q)

	s.mailer.err = errors.New("emailjs: 400")
	resp = s.do(t, http.MethodPost, "/api/quotations/"+q.ID+"/send", map[string]string{"quotation_text": "Total"}, true)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/quotations/"+q.ID, nil, true)
	decode(t, resp, &q)
	assert.Equal(t, entity.QuotationPending, q.Status)
}

func TestQuotation_SubmitWithoutItems(t *testing.T) {
	s := newTestServer(t)
	form := quoteForm()
	form["items"] = []map[string]interface{}{{"product": " ", "quantity": 1}}

	resp := s.do(t, http.MethodPost, "/api/quotations", form, false)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQuotation_PDF(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/quotations", quoteForm(), false)
	var q entity.QuotationRequest
	decode(t, resp, &q)

	resp = s.do(t, http.MethodGet, "/api/quotations/"+q.ID+"/pdf", nil, true)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "cotizacion-"+q.ID[:8])
}

func TestFollowUps_CreateAndComplete(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/quotations", quoteForm(), false)
	var q entity.QuotationRequest
	decode(t, resp, &q)

	body := map[string]string{"quotation_id": q.ID, "message": "Llamar al cliente", "follow_up_date": "2099-01-01T10:00:00Z"}
	resp = s.do(t, http.MethodPost, "/api/follow-ups", body, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var f entity.FollowUp
	decode(t, resp, &f)

	resp = s.do(t, http.MethodPatch, "/api/follow-ups/"+f.ID+"/complete", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &f)
	assert.True(t, f.Completed)

	var list []dto.FollowUpWithQuotation
	resp = s.do(t, http.MethodGet, "/api/follow-ups?quotation_id="+q.ID, nil, true)
	decode(t, resp, &list)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Quotation)
	assert.Equal(t, q.ID, list[0].Quotation.ID)

	body["quotation_id"] = "no-existe"
	resp = s.do(t, http.MethodPost, "/api/follow-ups", body, true)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Visitantes y contacto
// ──────────────────────────────────────────────────────────────────────────────

func TestVisitors_RegisterTwiceSameEmail(t *testing.T) {
	s := newTestServer(t)
	for _, email := range []string{"luis@obra.test", "LUIS@obra.test"} {
		resp := s.do(t, http.MethodPost, "/api/visitors", map[string]string{"name": "Luis", "email": email}, false)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var list []dto.VisitorWithSessions
	resp := s.do(t, http.MethodGet, "/api/visitors", nil, true)
	decode(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].TotalVisits)

	resp = s.do(t, http.MethodGet, "/api/visitors/export", nil, true)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv"))
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "luis@obra.test")
}

func TestContact_Send(t *testing.T) {
	s := newTestServer(t)
	body := map[string]string{"name": "Marta", "email": "marta@x.test", "message": "¿Tienen válvulas de 2\"?"}

	resp := s.do(t, http.MethodPost, "/api/contact", body, false)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Len(t, s.mailer.sent, 1)
	assert.Equal(t, ports.TemplateContact, s.mailer.sent[0].Template)

	delete(body, "message")
	resp = s.do(t, http.MethodPost, "/api/contact", body, false)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sistema
// ──────────────────────────────────────────────────────────────────────────────

func TestSystem_StatusAndMetrics(t *testing.T) {
	s := newTestServer(t)

	var st dto.SystemStatus
	resp := s.do(t, http.MethodGet, "/api/system/status", nil, false)
	decode(t, resp, &st)
	assert.False(t, st.RemoteConfigured)
	assert.Equal(t, "memory", st.LocalDriver)
	assert.Len(t, st.Collections, 7)

	resp = s.do(t, http.MethodPost, "/api/cache/refetch", nil, true)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/metrics", nil, false)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "catalogo_http_requests_total")
}

func TestDashboard_Summary(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/quotations", quoteForm(), false)
	resp.Body.Close()

	var sum dto.DashboardSummaryDTO
	resp = s.do(t, http.MethodGet, "/api/dashboard/summary", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &sum)
	assert.Equal(t, 8, sum.TotalProducts)
	assert.Equal(t, 1, sum.PendingQuotations)
}

func TestAuth_MeAndBadLogin(t *testing.T) {
	s := newTestServer(t)

	var me dto.AdminUserResponse
	resp := s.do(t, http.MethodGet, "/api/auth/me", nil, true)
	decode(t, resp, &me)
	assert.Equal(t, testUsername, me.Username)

	resp = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": testUsername, "password": "mala"}, false)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
