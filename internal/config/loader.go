package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "hemoscan"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "HEMOSCAN"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader backed by the global viper
// instance so cobra flag bindings take effect.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// NewLoaderWith creates a loader over a dedicated viper instance (tests).
func NewLoaderWith(v *viper.Viper) *Loader {
	return &Loader{v: v}
}

// Load loads configuration from files, environment variables and defaults,
// in ascending precedence: defaults, config file, env vars, bound flags.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")

	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// SetConfigFile points the loader at an explicit config file path.
func (l *Loader) SetConfigFile(path string) {
	if path != "" {
		l.v.SetConfigFile(path)
	}
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
		l.v.AddConfigPath(filepath.Join(home, ".config", "hemoscan"))
	}
	l.v.AddConfigPath("/etc/hemoscan")
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
}

func (l *Loader) setDefaults() {
	def := DefaultConfig()

	l.v.SetDefault("log_level", def.LogLevel)
	l.v.SetDefault("verbose", def.Verbose)

	l.v.SetDefault("analysis.max_width", def.Analysis.MaxWidth)
	l.v.SetDefault("analysis.sample_stride", def.Analysis.SampleStride)
	l.v.SetDefault("analysis.min_alpha", def.Analysis.MinAlpha)
	l.v.SetDefault("analysis.min_blood_pixels", def.Analysis.MinBloodPixels)
	l.v.SetDefault("analysis.min_blood_ratio", def.Analysis.MinBloodRatio)

	l.v.SetDefault("analysis.mask.center_x", def.Analysis.Mask.CenterX)
	l.v.SetDefault("analysis.mask.center_y", def.Analysis.Mask.CenterY)
	l.v.SetDefault("analysis.mask.radius_x", def.Analysis.Mask.RadiusX)
	l.v.SetDefault("analysis.mask.radius_y", def.Analysis.Mask.RadiusY)

	l.v.SetDefault("analysis.white_balance.target_ambient", def.Analysis.WhiteBalance.TargetAmbient)
	l.v.SetDefault("analysis.white_balance.target_flash", def.Analysis.WhiteBalance.TargetFlash)
	l.v.SetDefault("analysis.white_balance.gain_min", def.Analysis.WhiteBalance.GainMin)
	l.v.SetDefault("analysis.white_balance.gain_max", def.Analysis.WhiteBalance.GainMax)
	l.v.SetDefault("analysis.white_balance.sample_stride", def.Analysis.WhiteBalance.SampleStride)
	l.v.SetDefault("analysis.white_balance.bright_percentile", def.Analysis.WhiteBalance.BrightPercentile)
	l.v.SetDefault("analysis.white_balance.min_channel", def.Analysis.WhiteBalance.MinChannel)
	l.v.SetDefault("analysis.white_balance.min_samples", def.Analysis.WhiteBalance.MinSamples)

	l.v.SetDefault("analysis.shade.grid_size", def.Analysis.Shade.GridSize)
	l.v.SetDefault("analysis.shade.sample_stride", def.Analysis.Shade.SampleStride)
	l.v.SetDefault("analysis.shade.default_luminance", def.Analysis.Shade.DefaultLuminance)

	l.v.SetDefault("analysis.corrector.factor_min", def.Analysis.Corrector.FactorMin)
	l.v.SetDefault("analysis.corrector.factor_max", def.Analysis.Corrector.FactorMax)

	l.v.SetDefault("analysis.sample_type.min_urine_ratio", def.Analysis.SampleType.MinUrineRatio)
	l.v.SetDefault("analysis.sample_type.min_stool_ratio", def.Analysis.SampleType.MinStoolRatio)

	l.v.SetDefault("analysis.cluster.cell_size", def.Analysis.Cluster.CellSize)
	l.v.SetDefault("analysis.cluster.cell_threshold", def.Analysis.Cluster.CellThreshold)
	l.v.SetDefault("analysis.cluster.min_total", def.Analysis.Cluster.MinTotal)

	l.v.SetDefault("output.format", def.Output.Format)
	l.v.SetDefault("output.file", def.Output.File)
	l.v.SetDefault("output.overlay_dir", def.Output.OverlayDir)

	l.v.SetDefault("server.host", def.Server.Host)
	l.v.SetDefault("server.port", def.Server.Port)
	l.v.SetDefault("server.cors_origin", def.Server.CORSOrigin)
	l.v.SetDefault("server.max_upload_mb", def.Server.MaxUploadMB)
	l.v.SetDefault("server.timeout_sec", def.Server.TimeoutSec)
	l.v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)
}
