package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_DefaultsWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	c, err := LoadFrom("")
	require.NoError(t, err)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, 7*24*time.Hour, c.JWT.TTL())
	assert.Equal(t, 10, c.Auth.BcryptCost)
	assert.Empty(t, c.JWT.Secret)
	assert.Equal(t, "passthrough", c.Scoring.Provider)
	assert.Equal(t, int64(300), c.Limits.Concurrency)
}

func TestLoadFrom_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  http:
    port: 9090
jwt:
  secret: file-secret
  ttl_hours: 2
db:
  driver: postgres
  dsn: "host=localhost"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("APP_AUTH_ESCALATION_SECRET", "from-env")

	c, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, "file-secret", c.JWT.Secret)
	assert.Equal(t, 2*time.Hour, c.JWT.TTL())
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.Equal(t, "from-env", c.Auth.EscalationSecret)
}

func TestLoadFrom_MissingExplicitFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
