package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderDefaults(t *testing.T) {
	l := NewLoaderWith(viper.New())
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Analysis.MinBloodPixels, cfg.Analysis.MinBloodPixels)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoaderReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hemoscan.yaml")
	content := []byte(`
log_level: debug
analysis:
  sample_stride: 4
  min_blood_pixels: 72
server:
  port: 9090
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	l := NewLoaderWith(viper.New())
	l.SetConfigFile(path)
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Analysis.SampleStride)
	assert.Equal(t, 72, cfg.Analysis.MinBloodPixels)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Untouched keys keep their defaults.
	assert.Equal(t, 12, cfg.Analysis.Cluster.CellSize)
}

func TestLoaderEnvOverride(t *testing.T) {
	t.Setenv("HEMOSCAN_LOG_LEVEL", "warn")
	l := NewLoaderWith(viper.New())
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoaderRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hemoscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: shouting\n"), 0o600))

	l := NewLoaderWith(viper.New())
	l.SetConfigFile(path)
	_, err := l.Load()
	assert.Error(t, err)
}

func TestLoaderRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hemoscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("::: not yaml"), 0o600))

	l := NewLoaderWith(viper.New())
	l.SetConfigFile(path)
	_, err := l.Load()
	assert.Error(t, err)
}
