package bootstrap_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/internal/application/cache"
	"github.com/jhoicas/catalogo-api/internal/bootstrap"
	"github.com/jhoicas/catalogo-api/pkg/config"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

func loadConfig(t *testing.T, values map[string]string) *config.Config {
	t.Helper()
	v := viper.New()
	for k, val := range values {
		v.Set(k, val)
	}
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestNew_SinRemotoUsaAlmacenLocal(t *testing.T) {
	cfg := loadConfig(t, map[string]string{
		"LOCAL_STORE_DRIVER": "memory",
		"ADMIN_PASSWORD":     "s3cret-pass",
		"JWT_SECRET":         "secret",
	})
	ctx := context.Background()

	c, err := bootstrap.New(ctx, cfg, logger.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Pool)
	require.NoError(t, c.Refetch(ctx))
	assert.Equal(t, 8, c.Products.Len())
	assert.Equal(t, 1, c.AdminUsers.Len())

	st := c.StatusUC.Status(ctx)
	assert.False(t, st.RemoteConfigured)
	assert.Equal(t, "memory", st.LocalDriver)
	assert.Len(t, st.Collections, 7)
}

func TestNew_BoltPersisteEntreProcesos(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogo.db")
	cfg := loadConfig(t, map[string]string{"LOCAL_STORE_DRIVER": "bolt", "LOCAL_STORE_PATH": path})
	ctx := context.Background()

	c, err := bootstrap.New(ctx, cfg, logger.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, c.Refetch(ctx))
	first := c.Products.Items()[0]
	require.NoError(t, c.Products.Remove(ctx, first.ID))
	c.Close()

	c, err = bootstrap.New(ctx, cfg, logger.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Refetch(ctx))
	assert.Equal(t, 7, c.Products.Len())
	_, found := c.Products.Find(first.ID)
	assert.False(t, found)

	keys, err := c.Local.Keys(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, cache.KeyProducts)
}

func TestNew_ResyncInvalido(t *testing.T) {
	cfg := loadConfig(t, map[string]string{"LOCAL_STORE_DRIVER": "memory", "CACHE_RESYNC_SPEC": "cada rato"})
	_, err := bootstrap.New(context.Background(), cfg, logger.Nop(), prometheus.NewRegistry())
	assert.Error(t, err)
}

func TestNew_SMTPSinHost(t *testing.T) {
	cfg := loadConfig(t, map[string]string{"LOCAL_STORE_DRIVER": "memory", "MAIL_DRIVER": "smtp"})
	_, err := bootstrap.New(context.Background(), cfg, logger.Nop(), prometheus.NewRegistry())
	assert.Error(t, err)
}
