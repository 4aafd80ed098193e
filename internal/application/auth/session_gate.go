package auth

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
)

// SessionKey clave del almacén local donde vive la sesión del panel.
const SessionKey = "admin-session"

// SessionTTL vigencia de una sesión guardada.
const SessionTTL = 24 * time.Hour

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SessionGate recuerda localmente la última sesión del panel ({user, token, timestamp}).
// Es solo una comodidad del cliente; la autorización real la hace el token.
type SessionGate struct {
	store repository.SnapshotStore
	now   func() time.Time
}

func NewSessionGate(store repository.SnapshotStore) *SessionGate {
	return &SessionGate{store: store, now: time.Now}
}

// Store guarda la sesión; si Timestamp viene en cero se usa el instante actual.
func (g *SessionGate) Store(ctx context.Context, s dto.LoginResponse) error {
	if s.Timestamp == 0 {
		s.Timestamp = g.now().UnixMilli()
	}
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("sesión: codificar: %w", err)
	}
	return g.store.Put(ctx, SessionKey, b)
}

// Current devuelve la sesión guardada si tiene menos de 24 h; en otro caso nil.
// Un valor ilegible se trata como ausente.
func (g *SessionGate) Current(ctx context.Context) (*dto.LoginResponse, error) {
	b, ok, err := g.store.Get(ctx, SessionKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var s dto.LoginResponse
	if err := json.Unmarshal(b, &s); err != nil || s.Token == "" {
		return nil, nil
	}
	if g.now().Sub(time.UnixMilli(s.Timestamp)) >= SessionTTL {
		return nil, nil
	}
	return &s, nil
}

// Clear cierra la sesión.
func (g *SessionGate) Clear(ctx context.Context) error {
	return g.store.Delete(ctx, SessionKey)
}
