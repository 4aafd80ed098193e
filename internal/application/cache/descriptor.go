package cache

import (
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// Claves del almacén local, una por colección.
const (
	KeyProducts   = "catalog-products"
	KeyCategories = "catalog-categories"
	KeyQuotations = "quotation-requests"
	KeyFollowUps  = "quotation-follow-ups"
	KeyVisitors   = "visitors"
	KeySessions   = "visitor-sessions"
	KeyAdminUsers = "admin-users"
)

// Descriptor describe cómo una Collection maneja su tipo de entidad T con patch P.
type Descriptor[T any, P any] struct {
	Name     string // etiqueta para logs y métricas
	LocalKey string

	// Seed produce el contenido inicial cuando el almacén local no tiene la clave. nil = vacío.
	Seed func(now time.Time) []T
	ID   func(T) string
	// Stamp asigna el ID local (si falta) y los timestamps de un alta sin remoto.
	Stamp func(item *T, id string, now time.Time)
	// Merge aplica un patch sobre una copia local y actualiza updated_at.
	Merge func(item *T, patch P, now time.Time)
}

// ProductDescriptor colección de productos del catálogo.
func ProductDescriptor() Descriptor[entity.Product, entity.ProductPatch] {
	return Descriptor[entity.Product, entity.ProductPatch]{
		Name:     "products",
		LocalKey: KeyProducts,
		Seed:     SeedProducts,
		ID:       func(p entity.Product) string { return p.ID },
		Stamp: func(p *entity.Product, id string, now time.Time) {
			if p.ID == "" {
				p.ID = id
			}
			if p.Status == "" {
				p.Status = entity.ProductActive
			}
			p.CreatedAt, p.UpdatedAt = now, now
		},
		Merge: func(p *entity.Product, pt entity.ProductPatch, now time.Time) {
			pt.ApplyTo(p)
			p.UpdatedAt = now
		},
	}
}

// CategoryDescriptor colección de categorías.
func CategoryDescriptor() Descriptor[entity.Category, entity.CategoryPatch] {
	return Descriptor[entity.Category, entity.CategoryPatch]{
		Name:     "categories",
		LocalKey: KeyCategories,
		Seed:     SeedCategories,
		ID:       func(c entity.Category) string { return c.ID },
		Stamp: func(c *entity.Category, id string, now time.Time) {
			if c.ID == "" {
				c.ID = id
			}
			c.CreatedAt = now
		},
		Merge: func(c *entity.Category, pt entity.CategoryPatch, _ time.Time) {
			pt.ApplyTo(c)
		},
	}
}

// QuotationDescriptor colección de solicitudes de cotización.
func QuotationDescriptor() Descriptor[entity.QuotationRequest, entity.QuotationPatch] {
	return Descriptor[entity.QuotationRequest, entity.QuotationPatch]{
		Name:     "quotations",
		LocalKey: KeyQuotations,
		ID:       func(q entity.QuotationRequest) string { return q.ID },
		Stamp: func(q *entity.QuotationRequest, id string, now time.Time) {
			if q.ID == "" {
				q.ID = id
			}
			if q.Status == "" {
				q.Status = entity.QuotationPending
			}
			q.CreatedAt, q.UpdatedAt = now, now
		},
		Merge: func(q *entity.QuotationRequest, pt entity.QuotationPatch, now time.Time) {
			pt.ApplyTo(q)
			q.UpdatedAt = now
		},
	}
}

// FollowUpDescriptor colección de seguimientos.
func FollowUpDescriptor() Descriptor[entity.FollowUp, entity.FollowUpPatch] {
	return Descriptor[entity.FollowUp, entity.FollowUpPatch]{
		Name:     "follow_ups",
		LocalKey: KeyFollowUps,
		ID:       func(f entity.FollowUp) string { return f.ID },
		Stamp: func(f *entity.FollowUp, id string, now time.Time) {
			if f.ID == "" {
				f.ID = id
			}
			f.CreatedAt = now
		},
		Merge: func(f *entity.FollowUp, pt entity.FollowUpPatch, _ time.Time) {
			pt.ApplyTo(f)
		},
	}
}

// VisitorDescriptor colección de visitantes (tabla customers).
func VisitorDescriptor() Descriptor[entity.Visitor, entity.VisitorPatch] {
	return Descriptor[entity.Visitor, entity.VisitorPatch]{
		Name:     "visitors",
		LocalKey: KeyVisitors,
		ID:       func(v entity.Visitor) string { return v.ID },
		Stamp: func(v *entity.Visitor, id string, now time.Time) {
			if v.ID == "" {
				v.ID = id
			}
			v.CreatedAt, v.UpdatedAt = now, now
		},
		Merge: func(v *entity.Visitor, pt entity.VisitorPatch, now time.Time) {
			pt.ApplyTo(v)
			v.UpdatedAt = now
		},
	}
}

// SessionDescriptor colección de sesiones de visitantes.
func SessionDescriptor() Descriptor[entity.VisitorSession, entity.SessionPatch] {
	return Descriptor[entity.VisitorSession, entity.SessionPatch]{
		Name:     "visitor_sessions",
		LocalKey: KeySessions,
		ID:       func(s entity.VisitorSession) string { return s.ID },
		Stamp: func(s *entity.VisitorSession, id string, now time.Time) {
			if s.ID == "" {
				s.ID = id
			}
			s.CreatedAt = now
		},
		Merge: func(s *entity.VisitorSession, pt entity.SessionPatch, _ time.Time) {
			pt.ApplyTo(s)
		},
	}
}

// AdminUserDescriptor colección de usuarios del panel. seed puede ser nil (sin admin inicial).
func AdminUserDescriptor(seed func(now time.Time) []entity.AdminUser) Descriptor[entity.AdminUser, entity.AdminUserPatch] {
	return Descriptor[entity.AdminUser, entity.AdminUserPatch]{
		Name:     "admin_users",
		LocalKey: KeyAdminUsers,
		Seed:     seed,
		ID:       func(u entity.AdminUser) string { return u.ID },
		Stamp: func(u *entity.AdminUser, id string, now time.Time) {
			if u.ID == "" {
				u.ID = id
			}
			u.CreatedAt, u.UpdatedAt = now, now
		},
		Merge: func(u *entity.AdminUser, pt entity.AdminUserPatch, now time.Time) {
			pt.ApplyTo(u)
			u.UpdatedAt = now
		},
	}
}
