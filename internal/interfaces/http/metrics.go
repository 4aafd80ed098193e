package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics métricas HTTP y de negocio del API.
type Metrics struct {
	gatherer          prometheus.Gatherer
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	activeConnections prometheus.Gauge
	emailsTotal       *prometheus.CounterVec
}

// NewMetrics registra las métricas en reg (nil = registro por defecto).
func NewMetrics(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	m := &Metrics{
		gatherer: gatherer,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalogo_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalogo_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalogo_http_active_requests",
			Help: "Number of in-flight HTTP requests",
		}),
		emailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalogo_emails_total",
			Help: "Outbound emails by template and result",
		}, []string{"template", "result"}),
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration, m.activeConnections, m.emailsTotal)
	return m
}

// Middleware mide cada request. La etiqueta path es la ruta registrada (/api/products/:id),
// no la URL, para no crear una serie por ID.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.activeConnections.Inc()
		defer m.activeConnections.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		m.requestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone /metrics en formato Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}

// RecordEmail cuenta un envío de correo. Nil-safe.
func (m *Metrics) RecordEmail(template string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.emailsTotal.WithLabelValues(template, result).Inc()
}
