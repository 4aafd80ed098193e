package entity

import "time"

// FollowUp recordatorio de seguimiento asociado a una QuotationRequest.
// Lo crea el administrador; nunca expira solo.
type FollowUp struct {
	ID           string    `json:"id"`
	QuotationID  string    `json:"quotation_id"`
	Message      string    `json:"message"`
	FollowUpDate time.Time `json:"follow_up_date"`
	Completed    bool      `json:"completed"`
	CreatedAt    time.Time `json:"created_at"`
}

// FollowUpPatch actualización parcial de un seguimiento.
type FollowUpPatch struct {
	Message      *string    `json:"message,omitempty"`
	FollowUpDate *time.Time `json:"follow_up_date,omitempty"`
	Completed    *bool      `json:"completed,omitempty"`
}

// ApplyTo copia sobre f los campos presentes en el patch.
func (pt FollowUpPatch) ApplyTo(f *FollowUp) {
	if pt.Message != nil {
		f.Message = *pt.Message
	}
	if pt.FollowUpDate != nil {
		f.FollowUpDate = *pt.FollowUpDate
	}
	if pt.Completed != nil {
		f.Completed = *pt.Completed
	}
}
