package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7700, cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.BindToAddress)
	assert.Equal(t, "/var/lib/vpd", cfg.Workdir)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.VLCStartDelay))
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vpd.yaml")
	content := "port: 9100\nbind_to_address: 0.0.0.0\nworkdir: /tmp/vpd\nvlc_start_delay: 2s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.BindToAddress)
	assert.Equal(t, "/tmp/vpd", cfg.Workdir)
	assert.Equal(t, 2*time.Second, time.Duration(cfg.VLCStartDelay))
}

func TestPlaylistDir(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "/var/lib/vpd/playlists", cfg.PlaylistDir())
}
