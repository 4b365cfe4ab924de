package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundtrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")
	want := &Config{
		Version:     1,
		Provider:    "fortnite-pc",
		StorageDir:  "/var/lib/eric",
		UpdateCheck: true,
		Launch:      LaunchConfig{Environment: "Prod", Locale: "de-DE"},
	}

	require.NoError(t, WriteConfig(dir, want))

	got, err := ReadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestReadConfigFillsOldFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("version: 1\n"), 0o600))

	cfg, err := ReadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "epic", cfg.Provider)
	assert.Equal(t, "Prod", cfg.Launch.Environment)
	assert.Equal(t, "en-US", cfg.Launch.Locale)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "epic", cfg.Provider)
	assert.True(t, cfg.UpdateCheck)
	assert.Equal(t, "en-US", cfg.Launch.Locale)
}

func TestDefaultDirEnvOverride(t *testing.T) {
	t.Setenv("ERIC_CONFIG_DIR", "/custom/eric")
	assert.Equal(t, "/custom/eric", DefaultDir())
}

func TestStorage(t *testing.T) {
	t.Setenv("ERIC_CONFIG_DIR", "/custom/eric")

	cfg := DefaultConfig()
	assert.Equal(t, "/custom/eric", cfg.Storage())

	cfg.StorageDir = "/elsewhere"
	assert.Equal(t, "/elsewhere", cfg.Storage())
}
