package usecase

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/jhoicas/catalogo-api/internal/application/cache"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// VisitorStore colección de visitantes.
type VisitorStore = cache.Store[entity.Visitor, entity.VisitorPatch]

// SessionStore colección de sesiones de visitantes.
type SessionStore = cache.Store[entity.VisitorSession, entity.SessionPatch]

const csvDateLayout = "2006-01-02 15:04"

// VisitorUseCase registro de visitantes (popup de bienvenida) y sus sesiones.
type VisitorUseCase struct {
	visitors VisitorStore
	sessions SessionStore
	now      func() time.Time

	// serializa el upsert por email entre requests concurrentes
	registerMu sync.Mutex
}

func NewVisitorUseCase(visitors VisitorStore, sessions SessionStore) *VisitorUseCase {
	return &VisitorUseCase{visitors: visitors, sessions: sessions, now: time.Now}
}

// Register crea el visitante o actualiza sus datos si el email ya existe, y
// registra una sesión nueva. Un mismo email nunca genera dos visitantes.
func (uc *VisitorUseCase) Register(ctx context.Context, in dto.RegisterVisitorRequest, ip, userAgent string) (dto.RegisterVisitorResponse, error) {
	if blank(in.Name) {
		return dto.RegisterVisitorResponse{}, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if !validEmail(in.Email) {
		return dto.RegisterVisitorResponse{}, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	email := normalizeEmail(in.Email)

	uc.registerMu.Lock()
	defer uc.registerMu.Unlock()

	visitor, err := uc.upsertVisitor(ctx, email, in)
	if err != nil {
		return dto.RegisterVisitorResponse{}, err
	}

	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	session, err := uc.sessions.Add(ctx, entity.VisitorSession{
		VisitorID:   visitor.ID,
		SessionID:   sessionID,
		IPAddress:   ip,
		UserAgent:   userAgent,
		PageVisited: strings.TrimSpace(in.PageVisited),
		Referrer:    strings.TrimSpace(in.Referrer),
	})
	if err != nil {
		return dto.RegisterVisitorResponse{}, fmt.Errorf("registrar sesión: %w", err)
	}
	return dto.RegisterVisitorResponse{Visitor: visitor, Session: session}, nil
}

func (uc *VisitorUseCase) upsertVisitor(ctx context.Context, email string, in dto.RegisterVisitorRequest) (entity.Visitor, error) {
	existing := uc.visitors.Filter(func(v entity.Visitor) bool { return sameText(v.Email, email) })
	if len(existing) == 0 {
		return uc.visitors.Add(ctx, entity.Visitor{
			Name:    strings.TrimSpace(in.Name),
			Email:   email,
			Phone:   strings.TrimSpace(in.Phone),
			Company: strings.TrimSpace(in.Company),
			Address: strings.TrimSpace(in.Address),
		})
	}

	// los campos vacíos del formulario no pisan datos previos
	var patch entity.VisitorPatch
	name := strings.TrimSpace(in.Name)
	patch.Name = &name
	if s := strings.TrimSpace(in.Phone); s != "" {
		patch.Phone = &s
	}
	if s := strings.TrimSpace(in.Company); s != "" {
		patch.Company = &s
	}
	if s := strings.TrimSpace(in.Address); s != "" {
		patch.Address = &s
	}
	v, found, err := uc.visitors.Update(ctx, existing[0].ID, patch)
	if err != nil {
		return entity.Visitor{}, fmt.Errorf("actualizar visitante: %w", err)
	}
	if !found {
		return entity.Visitor{}, domain.ErrNotFound
	}
	return v, nil
}

// UpdateSessionDuration registra la duración (segundos) de una sesión.
func (uc *VisitorUseCase) UpdateSessionDuration(ctx context.Context, id string, seconds int) (entity.VisitorSession, error) {
	if seconds < 0 {
		return entity.VisitorSession{}, fmt.Errorf("%w: duración negativa", domain.ErrInvalidInput)
	}
	s, found, err := uc.sessions.Update(ctx, id, entity.SessionPatch{VisitDuration: &seconds})
	if err != nil {
		return entity.VisitorSession{}, err
	}
	if !found {
		return entity.VisitorSession{}, domain.ErrNotFound
	}
	return s, nil
}

// ListWithSessions visitantes (más recientes primero) con sus sesiones.
// search filtra por nombre, email o empresa.
func (uc *VisitorUseCase) ListWithSessions(search string) []dto.VisitorWithSessions {
	byVisitor := make(map[string][]entity.VisitorSession)
	for _, s := range uc.sessions.Items() {
		byVisitor[s.VisitorID] = append(byVisitor[s.VisitorID], s)
	}

	visitors := uc.visitors.Filter(func(v entity.Visitor) bool {
		return search == "" ||
			containsFold(v.Name, search) ||
			containsFold(v.Email, search) ||
			containsFold(v.Company, search)
	})
	sort.SliceStable(visitors, func(i, j int) bool { return visitors[i].CreatedAt.After(visitors[j].CreatedAt) })

	out := make([]dto.VisitorWithSessions, 0, len(visitors))
	for _, v := range visitors {
		sessions := byVisitor[v.ID]
		sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].CreatedAt.After(sessions[j].CreatedAt) })
		row := dto.VisitorWithSessions{Visitor: v, Sessions: sessions, TotalVisits: len(sessions)}
		if row.Sessions == nil {
			row.Sessions = []entity.VisitorSession{}
		}
		if len(sessions) > 0 {
			last := sessions[0].CreatedAt
			row.LastVisit = &last
		}
		out = append(out, row)
	}
	return out
}

// Analytics totales y promedio de sesiones por visitante (redondeado a 2 decimales).
func (uc *VisitorUseCase) Analytics() dto.VisitorAnalytics {
	visitors := uc.visitors.Items()
	sessions := uc.sessions.Items()

	now := uc.now()
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	a := dto.VisitorAnalytics{TotalVisitors: len(visitors), TotalSessions: len(sessions)}
	for _, v := range visitors {
		if !v.CreatedAt.Before(startOfDay) {
			a.NewVisitorsToday++
		}
	}
	if a.TotalVisitors > 0 {
		avg := float64(a.TotalSessions) / float64(a.TotalVisitors)
		a.AverageSessionsPerVisitor = math.Round(avg*100) / 100
	}
	return a
}

// ExportCSV escribe el listado de visitantes en CSV (con cabecera).
func (uc *VisitorUseCase) ExportCSV(w io.Writer, search string) error {
	list := uc.ListWithSessions(search)
	rows := make([]dto.VisitorCSVRow, 0, len(list))
	for _, v := range list {
		row := dto.VisitorCSVRow{
			Name:        v.Name,
			Email:       v.Email,
			Phone:       v.Phone,
			Company:     v.Company,
			Address:     v.Address,
			TotalVisits: v.TotalVisits,
			CreatedAt:   v.CreatedAt.Format(csvDateLayout),
		}
		if v.LastVisit != nil {
			row.LastVisit = v.LastVisit.Format(csvDateLayout)
		}
		rows = append(rows, row)
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("exportar visitantes: %w", err)
	}
	return nil
}
