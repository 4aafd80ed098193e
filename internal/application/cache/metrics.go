package cache

import "github.com/prometheus/client_golang/prometheus"

// Metrics contadores de la capa de caché.
type Metrics struct {
	fallbacks *prometheus.CounterVec
}

// NewMetrics registra los contadores en reg. Con reg nil usa el registro por defecto.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalogo_cache_fallback_total",
			Help: "Operaciones resueltas contra el almacén local por fallo o ausencia del remoto.",
		}, []string{"collection", "operation"}),
	}
	reg.MustRegister(m.fallbacks)
	return m
}

func (m *Metrics) fallback(collection, op string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(collection, op).Inc()
}
