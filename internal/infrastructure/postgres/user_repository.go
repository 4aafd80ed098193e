package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

var _ repository.AdminUserRepository = (*AdminUserRepo)(nil)

const adminUserSelect = `
	SELECT id, username, COALESCE(email, ''), COALESCE(full_name, ''), password_hash, role,
	       is_active, last_login, created_at, updated_at
	FROM admin_users`

const adminUserReturning = `
	RETURNING id, username, COALESCE(email, ''), COALESCE(full_name, ''), password_hash, role,
	          is_active, last_login, created_at, updated_at`

// AdminUserRepo implementación del puerto AdminUserRepository sobre PostgreSQL.
type AdminUserRepo struct {
	q Querier
}

// NewAdminUserRepository construye el adaptador de persistencia para usuarios del panel.
func NewAdminUserRepository(q Querier) *AdminUserRepo {
	return &AdminUserRepo{q: q}
}

func scanAdminUser(row pgx.Row) (entity.AdminUser, error) {
	var u entity.AdminUser
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash, &u.Role,
		&u.Active, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *AdminUserRepo) List(ctx context.Context) ([]entity.AdminUser, error) {
	rows, err := r.q.Query(ctx, adminUserSelect+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list admin_users: %w", err)
	}
	return collect(rows, "admin_user", scanAdminUser)
}

func (r *AdminUserRepo) Insert(ctx context.Context, u entity.AdminUser) (entity.AdminUser, error) {
	role := u.Role
	if role == "" {
		role = entity.RoleAdmin
	}
	row, err := scanAdminUser(r.q.QueryRow(ctx, `
		INSERT INTO admin_users (username, email, full_name, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)`+adminUserReturning,
		u.Username, nullIfEmpty(u.Email), nullIfEmpty(u.FullName), u.PasswordHash, role, u.Active,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return entity.AdminUser{}, domain.ErrDuplicate
		}
		return entity.AdminUser{}, fmt.Errorf("insert admin_user: %w", err)
	}
	return row, nil
}

func (r *AdminUserRepo) Update(ctx context.Context, id string, patch entity.AdminUserPatch) (entity.AdminUser, error) {
	return patchRow(ctx, r.q, "admin_user", adminUserSelect, id, scanAdminUser, patch.ApplyTo,
		func(ctx context.Context, tx pgx.Tx, u entity.AdminUser) (entity.AdminUser, error) {
			return scanAdminUser(tx.QueryRow(ctx, `
				UPDATE admin_users SET email = $2, full_name = $3, password_hash = $4, is_active = $5,
				       last_login = $6, updated_at = now()
				WHERE id = $1`+adminUserReturning,
				u.ID, nullIfEmpty(u.Email), nullIfEmpty(u.FullName), u.PasswordHash, u.Active, u.LastLogin,
			))
		})
}

func (r *AdminUserRepo) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.q, "admin_users", id)
}
