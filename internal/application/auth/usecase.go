package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"github.com/jhoicas/catalogo-api/internal/application/cache"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/pkg/jwt"
)

// DefaultSessionMinutes vigencia del token y de la sesión del panel (24 h).
const DefaultSessionMinutes = 24 * 60

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AdminUserStore colección de usuarios del panel.
type AdminUserStore = cache.Store[entity.AdminUser, entity.AdminUserPatch]

// AuthUseCase casos de uso de autenticación del panel: login, perfil y cambio de contraseña.
type AuthUseCase struct {
	users  AdminUserStore
	jwtCfg JWTConfig
	log    zerolog.Logger
	now    func() time.Time
	seed   func(now time.Time) []entity.AdminUser
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users AdminUserStore, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	if jwtCfg.ExpMinutes <= 0 {
		jwtCfg.ExpMinutes = DefaultSessionMinutes
	}
	return &AuthUseCase{users: users, jwtCfg: jwtCfg, log: log, now: time.Now}
}

// WithBootstrapAdmin fija la semilla que EnsureBootstrapAdmin usa cuando la colección queda vacía.
func (uc *AuthUseCase) WithBootstrapAdmin(seed func(now time.Time) []entity.AdminUser) *AuthUseCase {
	uc.seed = seed
	return uc
}

// EnsureBootstrapAdmin da de alta el administrador inicial si la colección está
// vacía. Cubre el arranque contra un Postgres sin usuarios: la semilla local solo
// se aplica cuando el remoto falla, y una recarga que devuelve [] la borra.
func (uc *AuthUseCase) EnsureBootstrapAdmin(ctx context.Context) error {
	if uc.seed == nil || len(uc.users.Items()) > 0 {
		return nil
	}
	for _, u := range uc.seed(uc.now()) {
		created, err := uc.users.Add(ctx, u)
		if err != nil {
			return fmt.Errorf("alta del administrador inicial: %w", err)
		}
		uc.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("administrador inicial creado")
	}
	return nil
}

// Login verifica usuario (o email) y contraseña, registra el último acceso y
// devuelve {user, token, timestamp}. Credenciales inválidas → ErrUnauthorized
// sin distinguir si el usuario existe.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, ok := uc.findByLogin(in.Username)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}

	now := uc.now()
	token, err := jwt.GenerateAt(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, now)
	if err != nil {
		return nil, fmt.Errorf("login: firmar token: %w", err)
	}

	// el sello de último acceso no bloquea el login
	if updated, found, err := uc.users.Update(ctx, user.ID, entity.AdminUserPatch{LastLogin: &now}); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo registrar last_login")
	} else if found {
		user = updated
	}

	return &dto.LoginResponse{
		User:      dto.ToAdminUserResponse(user),
		Token:     token,
		Timestamp: now.UnixMilli(),
	}, nil
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(userID string) (dto.AdminUserResponse, error) {
	u, ok := uc.users.Find(userID)
	if !ok {
		return dto.AdminUserResponse{}, domain.ErrUserNotFound
	}
	return dto.ToAdminUserResponse(u), nil
}

// ChangePassword verifica la contraseña actual y guarda el nuevo hash bcrypt.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	u, ok := uc.users.Find(userID)
	if !ok {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.ErrUnauthorized
	}
	if len(in.NewPassword) < 8 {
		return fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	h := string(hash)
	if _, found, err := uc.users.Update(ctx, userID, entity.AdminUserPatch{PasswordHash: &h}); err != nil {
		return err
	} else if !found {
		return domain.ErrUserNotFound
	}
	uc.log.Info().Str("user_id", userID).Msg("contraseña actualizada")
	return nil
}

func (uc *AuthUseCase) findByLogin(login string) (entity.AdminUser, bool) {
	fold := cases.Fold()
	key := fold.String(strings.TrimSpace(login))
	if key == "" {
		return entity.AdminUser{}, false
	}
	matches := uc.users.Filter(func(u entity.AdminUser) bool {
		return fold.String(u.Username) == key || (u.Email != "" && fold.String(u.Email) == key)
	})
	if len(matches) == 0 {
		return entity.AdminUser{}, false
	}
	return matches[0], true
}

// BootstrapAdmin devuelve la semilla de la colección de administradores a partir
// de ADMIN_USERNAME / ADMIN_PASSWORD. Sin contraseña no hay administrador inicial.
func BootstrapAdmin(username, password, email string) (func(now time.Time) []entity.AdminUser, error) {
	if password == "" {
		return nil, nil
	}
	if username == "" {
		username = "admin"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash de ADMIN_PASSWORD: %w", err)
	}
	return func(now time.Time) []entity.AdminUser {
		return []entity.AdminUser{{
			ID:           "admin-1",
			Username:     username,
			Email:        email,
			FullName:     "Administrator",
			PasswordHash: string(hash),
			Role:         entity.RoleAdmin,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}}
	}, nil
}
