package entity

import "time"

// Visitor representa un visitante registrado (tabla customers). Email es la clave natural.
type Visitor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VisitorPatch actualización parcial de un visitante (re-registro).
type VisitorPatch struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
	Address *string `json:"address,omitempty"`
}

// ApplyTo copia sobre v los campos presentes en el patch.
func (pt VisitorPatch) ApplyTo(v *Visitor) {
	if pt.Name != nil {
		v.Name = *pt.Name
	}
	if pt.Phone != nil {
		v.Phone = *pt.Phone
	}
	if pt.Company != nil {
		v.Company = *pt.Company
	}
	if pt.Address != nil {
		v.Address = *pt.Address
	}
}

// VisitorSession una visita de un Visitor (uno a muchos).
type VisitorSession struct {
	ID            string    `json:"id"`
	VisitorID     string    `json:"customer_id"`
	SessionID     string    `json:"session_id"`
	IPAddress     string    `json:"ip_address"`
	UserAgent     string    `json:"user_agent"`
	PageVisited   string    `json:"page_visited"`
	Referrer      string    `json:"referrer"`
	VisitDuration int       `json:"visit_duration"` // segundos
	CreatedAt     time.Time `json:"created_at"`
}

// SessionPatch actualización parcial de una sesión.
type SessionPatch struct {
	VisitDuration *int `json:"visit_duration,omitempty"`
}

// ApplyTo copia sobre s los campos presentes en el patch.
func (pt SessionPatch) ApplyTo(s *VisitorSession) {
	if pt.VisitDuration != nil {
		s.VisitDuration = *pt.VisitDuration
	}
}
