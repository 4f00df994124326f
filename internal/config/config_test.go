package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "env: development\n"))
	require.NoError(t, err)

	assert.Equal(t, 2333, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Contains(t, cfg.DSN, "gate_core")
	assert.Contains(t, cfg.DSN, "parseTime=true")
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoadFull(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
port: 8080
env: prod
jwt_secret: super-secret
allowed_origins:
  - driftv8.xyz
  - "*.driftv8.xyz"
database:
  host: db.internal
  user: gate
  password: pw
  name: gate
redis:
  host: cache.internal
  db: 2
s3:
  bucket: gate-files
  region: us-east-1
  access_key_id: AKIA
  secret_access_key: shhh
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, []string{"driftv8.xyz", "*.driftv8.xyz"}, cfg.AllowedOrigins)
	assert.Contains(t, cfg.DSN, "gate:pw@tcp(db.internal:3306)/gate")
	assert.Equal(t, "redis://cache.internal:6379/2", cfg.RedisURL)
	assert.Equal(t, "gate-files", cfg.S3.Bucket)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "prot: 8080\n"))
	assert.Error(t, err)
}

func TestLoadRejectsBadPort(t *testing.T) {
	_, err := Load(writeConfig(t, "port: 70000\n"))
	assert.Error(t, err)
}
