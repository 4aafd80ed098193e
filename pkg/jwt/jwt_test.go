package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-1", "admin", "admin", "catalogo-api", 60)
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "catalogo-api", claims.Issuer)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := jwt.GenerateAt(secret, "u-1", "admin", "admin", "x", 60, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = jwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-1", "admin", "admin", "x", 60)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u-1", "admin", "admin", "x", 60)
	assert.Error(t, err)
}
