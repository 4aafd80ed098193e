// Package analytics contiene el resumen del panel de administración y el
// estado de conectividad del sistema.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

const dashboardRecentQuotations = 5 // número de cotizaciones en el widget del dashboard

// DashboardUseCase genera el resumen del panel a partir de las colecciones en memoria.
type DashboardUseCase struct {
	products   usecase.ProductStore
	quotations usecase.QuotationStore
	followUps  *usecase.FollowUpUseCase
	visitors   *usecase.VisitorUseCase
	now        func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	products usecase.ProductStore,
	quotations usecase.QuotationStore,
	followUps *usecase.FollowUpUseCase,
	visitors *usecase.VisitorUseCase,
) *DashboardUseCase {
	return &DashboardUseCase{
		products:   products,
		quotations: quotations,
		followUps:  followUps,
		visitors:   visitors,
		now:        time.Now,
	}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Tres cálculos en paralelo:
//  1. conteos de productos
//  2. conteos de cotizaciones + recientes
//  3. seguimientos y visitantes
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type productCounts struct{ total, active, featured int }
	type quotationCounts struct {
		pending, quoted, completed int
		recent                     []entity.QuotationRequest
	}
	type engagement struct {
		upcoming, needing int
		visitors          dto.VisitorAnalytics
	}

	productsCh := make(chan productCounts, 1)
	quotationsCh := make(chan quotationCounts, 1)
	engagementCh := make(chan engagement, 1)

	go func() {
		var c productCounts
		for _, p := range uc.products.Items() {
			c.total++
			if p.Status == entity.ProductActive {
				c.active++
			}
			if p.Featured {
				c.featured++
			}
		}
		productsCh <- c
	}()
	go func() {
		var c quotationCounts
		list := uc.quotations.Items()
		for _, q := range list {
			switch q.Status {
			case entity.QuotationPending:
				c.pending++
			case entity.QuotationQuoted:
				c.quoted++
			case entity.QuotationCompleted:
				c.completed++
			}
		}
		if len(list) > dashboardRecentQuotations {
			list = list[:dashboardRecentQuotations]
		}
		c.recent = list
		quotationsCh <- c
	}()
	go func() {
		engagementCh <- engagement{
			upcoming: len(uc.followUps.Upcoming()),
			needing:  len(uc.followUps.NeedingFollowUp()),
			visitors: uc.visitors.Analytics(),
		}
	}()

	var (
		products   productCounts
		quotations quotationCounts
		eng        engagement
	)
	for i := 0; i < 3; i++ {
		select {
		case products = <-productsCh:
		case quotations = <-quotationsCh:
		case eng = <-engagementCh:
		case <-ctx.Done():
			return nil, fmt.Errorf("dashboard: %w", ctx.Err())
		}
	}

	return &dto.DashboardSummaryDTO{
		TotalProducts:       products.total,
		ActiveProducts:      products.active,
		FeaturedProducts:    products.featured,
		PendingQuotations:   quotations.pending,
		QuotedQuotations:    quotations.quoted,
		CompletedQuotations: quotations.completed,
		UpcomingFollowUps:   eng.upcoming,
		NeedingFollowUp:     eng.needing,
		Visitors:            eng.visitors,
		RecentQuotations:    quotations.recent,
		DateLabel:           monthLabel(uc.now()),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
