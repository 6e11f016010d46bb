package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalYAML = `
database:
  url: "postgres://localhost/cipherhaven"
identity:
  base_url: "http://identity.local"
auth:
  jwt_secret: "secret"
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Redis.FlowTTL)
	assert.Equal(t, uint(3), cfg.SignUp.MetadataMaxAttempts)
	assert.Equal(t, "gemma2-9b-it", cfg.Generation.GroqModel)
	assert.Equal(t, "cipherhaven", cfg.NATS.SubjectPrefix)
	assert.Equal(t, 4, cfg.Generation.ImageCount)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "9090")

	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "gem-key", cfg.Generation.GeminiAPIKey)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_RequiresIdentityProvider(t *testing.T) {
	t.Setenv("IDENTITY_BASE_URL", "")
	_, err := Load(writeConfig(t, `
database:
  url: "postgres://localhost/cipherhaven"
auth:
  jwt_secret: "secret"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identity.base_url")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
