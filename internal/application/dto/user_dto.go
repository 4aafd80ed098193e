package dto

import (
	"time"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// LoginRequest credenciales del panel.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminUserResponse usuario del panel sin hash de contraseña.
type AdminUserResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      string     `json:"role"`
	Active    bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// ToAdminUserResponse oculta el hash.
func ToAdminUserResponse(u entity.AdminUser) AdminUserResponse {
	return AdminUserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		Active:    u.Active,
		LastLogin: u.LastLogin,
	}
}

// LoginResponse sesión del panel: {user, token, timestamp}. Timestamp en milisegundos Unix.
type LoginResponse struct {
	User      AdminUserResponse `json:"user"`
	Token     string            `json:"token"`
	Timestamp int64             `json:"timestamp"`
}

// ChangePasswordRequest cambio de contraseña del usuario autenticado.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}
