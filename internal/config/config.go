// Package config holds the application configuration for all hemoscan
// commands and maps it onto the analysis pipeline.
package config

import (
	"fmt"

	"github.com/MeKo-Tech/hemoscan/internal/classify"
	"github.com/MeKo-Tech/hemoscan/internal/cluster"
	"github.com/MeKo-Tech/hemoscan/internal/correction"
	"github.com/MeKo-Tech/hemoscan/internal/mask"
	"github.com/MeKo-Tech/hemoscan/internal/pipeline"
	"github.com/MeKo-Tech/hemoscan/internal/sampletype"
)

// Config represents the complete configuration for the hemoscan application.
// It supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Analysis pipeline settings
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis" json:"analysis"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// AnalysisConfig contains the pipeline thresholds and region geometry.
type AnalysisConfig struct {
	Mask         mask.Ellipse                   `mapstructure:"mask" yaml:"mask" json:"mask"`
	WhiteBalance correction.WhiteBalanceConfig  `mapstructure:"white_balance" yaml:"white_balance" json:"white_balance"`
	Shade        correction.ShadeConfig         `mapstructure:"shade" yaml:"shade" json:"shade"`
	Corrector    correction.CorrectorConfig     `mapstructure:"corrector" yaml:"corrector" json:"corrector"`
	SampleType   sampletype.Config              `mapstructure:"sample_type" yaml:"sample_type" json:"sample_type"`
	Cluster      cluster.Config                 `mapstructure:"cluster" yaml:"cluster" json:"cluster"`

	// MaxWidth bounds the analyzed image width; larger photos are
	// downscaled before analysis. Zero disables resizing.
	MaxWidth int `mapstructure:"max_width" yaml:"max_width" json:"max_width"`

	SampleStride   int     `mapstructure:"sample_stride" yaml:"sample_stride" json:"sample_stride"`
	MinAlpha       int     `mapstructure:"min_alpha" yaml:"min_alpha" json:"min_alpha"`
	MinBloodPixels int     `mapstructure:"min_blood_pixels" yaml:"min_blood_pixels" json:"min_blood_pixels"`
	MinBloodRatio  float64 `mapstructure:"min_blood_ratio" yaml:"min_blood_ratio" json:"min_blood_ratio"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format     string `mapstructure:"format" yaml:"format" json:"format"`
	File       string `mapstructure:"file" yaml:"file" json:"file"`
	OverlayDir string `mapstructure:"overlay_dir" yaml:"overlay_dir" json:"overlay_dir"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	pc := pipeline.DefaultConfig()
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Analysis: AnalysisConfig{
			Mask:           pc.Mask,
			WhiteBalance:   pc.WhiteBalance,
			Shade:          pc.Shade,
			Corrector:      pc.Corrector,
			SampleType:     pc.SampleType,
			Cluster:        pc.Cluster,
			MaxWidth:       1280,
			SampleStride:   pc.SampleStride,
			MinAlpha:       int(pc.MinAlpha),
			MinBloodPixels: pc.MinBloodPixels,
			MinBloodRatio:  pc.MinBloodRatio,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     20,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
	}
}

// ToPipelineConfig maps the analysis section onto a pipeline configuration.
// The profile tables stay at their built-in defaults; they are replaced
// programmatically via the pipeline builder when needed.
func (c *Config) ToPipelineConfig() pipeline.Config {
	pc := pipeline.DefaultConfig()
	pc.Mask = c.Analysis.Mask
	pc.WhiteBalance = c.Analysis.WhiteBalance
	pc.Shade = c.Analysis.Shade
	pc.Corrector = c.Analysis.Corrector
	pc.SampleType = c.Analysis.SampleType
	pc.Cluster = c.Analysis.Cluster
	pc.SampleStride = c.Analysis.SampleStride
	pc.MinAlpha = uint8(c.Analysis.MinAlpha)
	pc.MinBloodPixels = c.Analysis.MinBloodPixels
	pc.MinBloodRatio = c.Analysis.MinBloodRatio
	pc.BloodProfiles = classify.DefaultBloodProfiles()
	pc.ContentProfiles = classify.DefaultContentProfiles()
	return pc
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}
	switch c.Output.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("invalid output format: %q", c.Output.Format)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("invalid max upload size: %d MB", c.Server.MaxUploadMB)
	}
	if c.Analysis.MaxWidth < 0 {
		return fmt.Errorf("invalid max width: %d", c.Analysis.MaxWidth)
	}
	if c.Analysis.SampleStride < 1 {
		return fmt.Errorf("invalid sample stride: %d", c.Analysis.SampleStride)
	}
	if c.Analysis.MinAlpha < 0 || c.Analysis.MinAlpha > 255 {
		return fmt.Errorf("invalid min alpha: %d", c.Analysis.MinAlpha)
	}
	return nil
}
