// Package pipeline orchestrates the bowl-photo analysis: masking,
// photometric correction, color classification, clustering and sample
// typing, in one deterministic pass over a decoded pixel buffer.
package pipeline

import (
	"errors"

	"github.com/MeKo-Tech/hemoscan/internal/classify"
	"github.com/MeKo-Tech/hemoscan/internal/cluster"
	"github.com/MeKo-Tech/hemoscan/internal/correction"
	"github.com/MeKo-Tech/hemoscan/internal/mask"
	"github.com/MeKo-Tech/hemoscan/internal/sampletype"
)

// Config holds configuration for the analysis pipeline and its components.
type Config struct {
	Mask         mask.Ellipse
	WhiteBalance correction.WhiteBalanceConfig
	Shade        correction.ShadeConfig
	Corrector    correction.CorrectorConfig
	SampleType   sampletype.Config
	Cluster      cluster.Config

	// SampleStride steps over every n-th row and column during the scan.
	SampleStride int
	// MinAlpha marks pixels below it as transparent/invalid.
	MinAlpha uint8
	// MinBloodPixels and MinBloodRatio form the evidentiary floor: below
	// either, the run reports zero findings even if some pixels matched.
	MinBloodPixels int
	MinBloodRatio  float64

	// Ordered classification tables; first match wins.
	BloodProfiles   []classify.Profile
	ContentProfiles []classify.ContentProfile
}

// DefaultConfig returns a default pipeline config with component defaults.
func DefaultConfig() Config {
	return Config{
		Mask:            mask.DefaultEllipse(),
		WhiteBalance:    correction.DefaultWhiteBalanceConfig(),
		Shade:           correction.DefaultShadeConfig(),
		Corrector:       correction.DefaultCorrectorConfig(),
		SampleType:      sampletype.DefaultConfig(),
		Cluster:         cluster.DefaultConfig(),
		SampleStride:    2,
		MinAlpha:        128,
		MinBloodPixels:  36,
		MinBloodRatio:   0.002,
		BloodProfiles:   classify.DefaultBloodProfiles(),
		ContentProfiles: classify.DefaultContentProfiles(),
	}
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg Config
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithMask overrides the bowl region ellipse.
func (b *Builder) WithMask(e mask.Ellipse) *Builder {
	b.cfg.Mask = e
	return b
}

// WithWhiteBalance overrides the white-balance estimation parameters.
func (b *Builder) WithWhiteBalance(cfg correction.WhiteBalanceConfig) *Builder {
	b.cfg.WhiteBalance = cfg
	return b
}

// WithShade overrides the shade-grid parameters.
func (b *Builder) WithShade(cfg correction.ShadeConfig) *Builder {
	b.cfg.Shade = cfg
	return b
}

// WithSampleStride sets the pixel sampling stride.
func (b *Builder) WithSampleStride(stride int) *Builder {
	if stride > 0 {
		b.cfg.SampleStride = stride
	}
	return b
}

// WithBloodThresholds sets the evidentiary floor for findings.
func (b *Builder) WithBloodThresholds(minPixels int, minRatio float64) *Builder {
	if minPixels >= 0 {
		b.cfg.MinBloodPixels = minPixels
	}
	if minRatio >= 0 {
		b.cfg.MinBloodRatio = minRatio
	}
	return b
}

// WithContentThresholds sets the sample-type ratio floors.
func (b *Builder) WithContentThresholds(minUrine, minStool float64) *Builder {
	if minUrine >= 0 {
		b.cfg.SampleType.MinUrineRatio = minUrine
	}
	if minStool >= 0 {
		b.cfg.SampleType.MinStoolRatio = minStool
	}
	return b
}

// WithCluster overrides the clustering parameters.
func (b *Builder) WithCluster(cfg cluster.Config) *Builder {
	b.cfg.Cluster = cfg
	return b
}

// WithBloodProfiles replaces the ordered blood-profile table.
func (b *Builder) WithBloodProfiles(profiles []classify.Profile) *Builder {
	if len(profiles) > 0 {
		b.cfg.BloodProfiles = profiles
	}
	return b
}

// WithContentProfiles replaces the ordered content-profile table.
func (b *Builder) WithContentProfiles(profiles []classify.ContentProfile) *Builder {
	if len(profiles) > 0 {
		b.cfg.ContentProfiles = profiles
	}
	return b
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// Build validates the configuration and constructs the pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	return NewPipeline(b.cfg)
}

// Pipeline analyzes single still photos. It holds only immutable
// configuration; each Analyze call is independent and side-effect free.
type Pipeline struct {
	cfg        Config
	classifier *classify.Classifier
	content    *classify.ContentClassifier
	engine     *cluster.Engine
}

// NewPipeline creates a pipeline from the given configuration.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:        cfg,
		classifier: classify.NewClassifier(cfg.BloodProfiles),
		content:    classify.NewContentClassifier(cfg.ContentProfiles),
		engine:     cluster.NewEngine(cfg.Cluster, len(cfg.BloodProfiles)),
	}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

func validateConfig(cfg Config) error {
	if cfg.SampleStride < 1 {
		return errors.New("sample stride must be at least 1")
	}
	if len(cfg.BloodProfiles) == 0 {
		return errors.New("blood profile table is empty")
	}
	if cfg.MinBloodPixels < 0 || cfg.MinBloodRatio < 0 {
		return errors.New("blood thresholds must be non-negative")
	}
	if cfg.Cluster.CellSize < 1 {
		return errors.New("cluster cell size must be at least 1")
	}
	return nil
}
