package dto

import (
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// RegisterVisitorRequest registro desde el popup de bienvenida. IP y User-Agent se toman del request.
type RegisterVisitorRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"max=50"`
	Company     string `json:"company" validate:"max=200"`
	Address     string `json:"address" validate:"max=300"`
	SessionID   string `json:"session_id" validate:"max=100"`
	PageVisited string `json:"page_visited" validate:"max=500"`
	Referrer    string `json:"referrer" validate:"max=500"`
}

// RegisterVisitorResponse visitante (nuevo o existente) y la sesión creada.
type RegisterVisitorResponse struct {
	Visitor entity.Visitor        `json:"visitor"`
	Session entity.VisitorSession `json:"session"`
}

// UpdateSessionRequest duración de la visita en segundos.
type UpdateSessionRequest struct {
	VisitDuration int `json:"visit_duration" validate:"min=0"`
}

// VisitorWithSessions visitante con sus sesiones (más recientes primero).
type VisitorWithSessions struct {
	entity.Visitor
	Sessions    []entity.VisitorSession `json:"visitor_sessions"`
	TotalVisits int                     `json:"total_visits"`
	LastVisit   *time.Time              `json:"last_visit,omitempty"`
}

// VisitorAnalytics indicadores del registro de visitantes.
type VisitorAnalytics struct {
	TotalVisitors             int     `json:"total_visitors"`
	NewVisitorsToday          int     `json:"new_visitors_today"`
	TotalSessions             int     `json:"total_sessions"`
	AverageSessionsPerVisitor float64 `json:"average_sessions_per_visitor"`
}

// VisitorCSVRow fila de la exportación CSV.
type VisitorCSVRow struct {
	Name        string `csv:"name"`
	Email       string `csv:"email"`
	Phone       string `csv:"phone"`
	Company     string `csv:"company"`
	Address     string `csv:"address"`
	TotalVisits int    `csv:"total_visits"`
	LastVisit   string `csv:"last_visit"`
	CreatedAt   string `csv:"registered_at"`
}

// ContactRequest formulario de contacto.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Company string `json:"company" validate:"max=200"`
	Message string `json:"message" validate:"required"`
}
