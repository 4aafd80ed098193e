package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

const (
	upcomingWindow  = 3 * 24 * time.Hour // seguimientos próximos: dentro de 3 días
	followUpStaleAt = 7 * 24 * time.Hour // cotizaciones sin seguimiento en los últimos 7 días
)

// FollowUpUseCase recordatorios de seguimiento sobre cotizaciones.
type FollowUpUseCase struct {
	followUps  FollowUpStore
	quotations QuotationStore
	now        func() time.Time
}

func NewFollowUpUseCase(followUps FollowUpStore, quotations QuotationStore) *FollowUpUseCase {
	return &FollowUpUseCase{followUps: followUps, quotations: quotations, now: time.Now}
}

// Add programa un seguimiento. La cotización debe existir.
func (uc *FollowUpUseCase) Add(ctx context.Context, in dto.CreateFollowUpRequest) (entity.FollowUp, error) {
	if blank(in.Message) || in.FollowUpDate.IsZero() {
		return entity.FollowUp{}, fmt.Errorf("%w: mensaje y fecha son obligatorios", domain.ErrInvalidInput)
	}
	if _, ok := uc.quotations.Find(in.QuotationID); !ok {
		return entity.FollowUp{}, fmt.Errorf("cotización %s: %w", in.QuotationID, domain.ErrNotFound)
	}
	return uc.followUps.Add(ctx, entity.FollowUp{
		QuotationID:  in.QuotationID,
		Message:      strings.TrimSpace(in.Message),
		FollowUpDate: in.FollowUpDate,
	})
}

// Complete marca un seguimiento como realizado.
func (uc *FollowUpUseCase) Complete(ctx context.Context, id string) (entity.FollowUp, error) {
	done := true
	f, found, err := uc.followUps.Update(ctx, id, entity.FollowUpPatch{Completed: &done})
	if err != nil {
		return entity.FollowUp{}, err
	}
	if !found {
		return entity.FollowUp{}, domain.ErrNotFound
	}
	return f, nil
}

// List devuelve los seguimientos por fecha ascendente; quotationID vacío = todos.
func (uc *FollowUpUseCase) List(quotationID string) []dto.FollowUpWithQuotation {
	list := uc.followUps.Filter(func(f entity.FollowUp) bool {
		return quotationID == "" || f.QuotationID == quotationID
	})
	return uc.withQuotations(list)
}

// Upcoming seguimientos pendientes con fecha en los próximos 3 días (incluye vencidos).
func (uc *FollowUpUseCase) Upcoming() []dto.FollowUpWithQuotation {
	limit := uc.now().Add(upcomingWindow)
	list := uc.followUps.Filter(func(f entity.FollowUp) bool {
		return !f.Completed && !f.FollowUpDate.After(limit)
	})
	return uc.withQuotations(list)
}

// NeedingFollowUp cotizaciones en estado quoted sin ningún seguimiento creado en los últimos 7 días.
func (uc *FollowUpUseCase) NeedingFollowUp() []entity.QuotationRequest {
	since := uc.now().Add(-followUpStaleAt)
	recent := make(map[string]bool)
	for _, f := range uc.followUps.Items() {
		if !f.CreatedAt.Before(since) {
			recent[f.QuotationID] = true
		}
	}
	return uc.quotations.Filter(func(q entity.QuotationRequest) bool {
		return q.Status == entity.QuotationQuoted && !recent[q.ID]
	})
}

func (uc *FollowUpUseCase) withQuotations(list []entity.FollowUp) []dto.FollowUpWithQuotation {
	sort.SliceStable(list, func(i, j int) bool { return list[i].FollowUpDate.Before(list[j].FollowUpDate) })
	out := make([]dto.FollowUpWithQuotation, 0, len(list))
	for _, f := range list {
		item := dto.FollowUpWithQuotation{FollowUp: f}
		if q, ok := uc.quotations.Find(f.QuotationID); ok {
			item.Quotation = &q
		}
		out = append(out, item)
	}
	return out
}
