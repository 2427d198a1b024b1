package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.Listen)
	assert.Equal(t, "data/leafscan.db", cfg.DatabasePath)
	assert.Equal(t, "model/model.gob", cfg.ModelPath)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, 172800, cfg.SessionMaxAge)
	// A volatile key is generated when none is configured
	assert.NotEmpty(t, cfg.SessionKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LEAFSCAN_SESSION_KEY", "super-secret")
	t.Setenv("LEAFSCAN_DATABASE_PATH", "/tmp/other.db")
	t.Setenv("LEAFSCAN_LISTEN", "127.0.0.1:8080")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "super-secret", cfg.SessionKey)
	assert.Equal(t, "/tmp/other.db", cfg.DatabasePath)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(
		"listen: 0.0.0.0:9999\nsession_key: file-key\nupload_dir: /srv/uploads\n",
	), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9999", cfg.Listen)
	assert.Equal(t, "file-key", cfg.SessionKey)
	assert.Equal(t, "/srv/uploads", cfg.UploadDir)
	// Unset values keep their defaults
	assert.Equal(t, "model/model.gob", cfg.ModelPath)
}
