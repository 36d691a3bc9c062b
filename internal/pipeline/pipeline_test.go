package pipeline

import (
	"testing"

	"github.com/MeKo-Tech/hemoscan/internal/classify"
	"github.com/MeKo-Tech/hemoscan/internal/cluster"
	"github.com/MeKo-Tech/hemoscan/internal/mask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 2, cfg.SampleStride)
	assert.Equal(t, uint8(128), cfg.MinAlpha)
	assert.Equal(t, 36, cfg.MinBloodPixels)
	assert.InDelta(t, 0.002, cfg.MinBloodRatio, 1e-9)
	assert.NotEmpty(t, cfg.BloodProfiles)
	assert.NotEmpty(t, cfg.ContentProfiles)
}

func TestBuilderOverrides(t *testing.T) {
	e := mask.Ellipse{CenterX: 0.4, CenterY: 0.5, RadiusX: 0.3, RadiusY: 0.3}
	p, err := NewBuilder().
		WithMask(e).
		WithSampleStride(3).
		WithBloodThresholds(50, 0.01).
		WithContentThresholds(0.05, 0.04).
		WithCluster(cluster.Config{CellSize: 16, CellThreshold: 2, MinTotal: 5}).
		Build()
	require.NoError(t, err)

	cfg := p.Config()
	assert.Equal(t, e, cfg.Mask)
	assert.Equal(t, 3, cfg.SampleStride)
	assert.Equal(t, 50, cfg.MinBloodPixels)
	assert.InDelta(t, 0.01, cfg.MinBloodRatio, 1e-9)
	assert.InDelta(t, 0.05, cfg.SampleType.MinUrineRatio, 1e-9)
	assert.InDelta(t, 0.04, cfg.SampleType.MinStoolRatio, 1e-9)
	assert.Equal(t, 16, cfg.Cluster.CellSize)
}

func TestBuilderIgnoresInvalidValues(t *testing.T) {
	p, err := NewBuilder().
		WithSampleStride(0).
		WithBloodThresholds(-1, -1).
		WithBloodProfiles(nil).
		Build()
	require.NoError(t, err)
	cfg := p.Config()
	assert.Equal(t, 2, cfg.SampleStride)
	assert.Equal(t, 36, cfg.MinBloodPixels)
	assert.NotEmpty(t, cfg.BloodProfiles)
}

func TestNewPipelineValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero stride", func(c *Config) { c.SampleStride = 0 }},
		{"no profiles", func(c *Config) { c.BloodProfiles = nil }},
		{"negative threshold", func(c *Config) { c.MinBloodPixels = -1 }},
		{"zero cluster cell", func(c *Config) { c.Cluster.CellSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := NewPipeline(cfg)
			assert.Error(t, err)
		})
	}
}

func TestWithProfileTables(t *testing.T) {
	profiles := []classify.Profile{{
		Name: "Test Red", Severity: 1,
		HueMin: 350, HueMax: 10, SatMin: 50, SatMax: 100, LightMin: 30, LightMax: 60,
		Display: "#FF0000", Shape: classify.ShapeCircle, Hatch: classify.HatchDiagonal,
	}}
	p, err := NewBuilder().WithBloodProfiles(profiles).Build()
	require.NoError(t, err)
	assert.Len(t, p.Config().BloodProfiles, 1)
	assert.Equal(t, "Test Red", p.Config().BloodProfiles[0].Name)
}
