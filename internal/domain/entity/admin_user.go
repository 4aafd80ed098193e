package entity

import "time"

// Roles válidos para AdminUser.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// AdminUser usuario del panel de administración.
type AdminUser struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	PasswordHash string     `json:"password_hash"` // bcrypt
	Role         string     `json:"role"`
	Active       bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AdminUserPatch actualización parcial de un usuario administrador.
type AdminUserPatch struct {
	Email        *string    `json:"email,omitempty"`
	FullName     *string    `json:"full_name,omitempty"`
	PasswordHash *string    `json:"password_hash,omitempty"`
	Active       *bool      `json:"is_active,omitempty"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// ApplyTo copia sobre u los campos presentes en el patch.
func (pt AdminUserPatch) ApplyTo(u *AdminUser) {
	if pt.Email != nil {
		u.Email = *pt.Email
	}
	if pt.FullName != nil {
		u.FullName = *pt.FullName
	}
	if pt.PasswordHash != nil {
		u.PasswordHash = *pt.PasswordHash
	}
	if pt.Active != nil {
		u.Active = *pt.Active
	}
	if pt.LastLogin != nil {
		t := *pt.LastLogin
		u.LastLogin = &t
	}
}
