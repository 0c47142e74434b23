package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("CONFIG_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, "workhub-development", cfg.Database.TableName)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Contains(t, cfg.LoadedFrom, "defaults")
}

func TestEnvironmentOverridesFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.yaml")
	require.NoError(t, os.WriteFile(base, []byte("database:\n  tableName: from-file\nserver:\n  port: 9000\n"), 0o644))

	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("TABLE_NAME", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.TableName)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Contains(t, cfg.LoadedFrom, base)
}

func TestValidateRejectsMissingProdSecret(t *testing.T) {
	cfg := defaultConfig(Production)
	cfg.Security.EnableAuth = true
	cfg.Security.JWTSecret = ""
	require.Error(t, cfg.Validate())
}

func TestValidateGeneratesDevSecret(t *testing.T) {
	cfg := defaultConfig(Development)
	cfg.Security.EnableAuth = true
	require.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.Security.JWTSecret)
}

func TestValidateBounds(t *testing.T) {
	cfg := defaultConfig(Development)
	cfg.Server.Port = 0
	require.Error(t, cfg.Validate())

	cfg = defaultConfig(Development)
	cfg.Tracing.SampleRatio = 1.5
	require.Error(t, cfg.Validate())

	cfg = defaultConfig(Development)
	cfg.Database.TableName = ""
	require.Error(t, cfg.Validate())
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	assert.Equal(t, Production, getEnvironment())
	t.Setenv("ENVIRONMENT", "staging")
	assert.Equal(t, Staging, getEnvironment())
	t.Setenv("ENVIRONMENT", "")
	assert.Equal(t, Development, getEnvironment())
}

func TestDefaultTimeouts(t *testing.T) {
	cfg := defaultConfig(Production)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}
