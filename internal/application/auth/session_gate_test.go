package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/localstore"
)

func TestSessionGate_ExpiresAfter24h(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemoryStore()
	gate := NewSessionGate(store)

	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	gate.now = func() time.Time { return start }

	none, err := gate.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, gate.Store(ctx, dto.LoginResponse{
		User:  dto.AdminUserResponse{ID: "admin-1", Username: "admin"},
		Token: "tok",
	}))

	gate.now = func() time.Time { return start.Add(23*time.Hour + 59*time.Minute) }
	s, err := gate.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "admin", s.User.Username)
	assert.Equal(t, start.UnixMilli(), s.Timestamp)

	gate.now = func() time.Time { return start.Add(24 * time.Hour) }
	s, err = gate.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSessionGate_ClearLogsOut(t *testing.T) {
	ctx := context.Background()
	gate := NewSessionGate(localstore.NewMemoryStore())

	require.NoError(t, gate.Store(ctx, dto.LoginResponse{Token: "tok"}))
	s, err := gate.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)

	require.NoError(t, gate.Clear(ctx))
	s, err = gate.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSessionGate_CorruptValueIsAbsent(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, SessionKey, []byte("{not json")))

	s, err := NewSessionGate(store).Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}
