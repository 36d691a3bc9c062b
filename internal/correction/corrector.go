package correction

import (
	"github.com/MeKo-Tech/hemoscan/internal/utils"
)

// CorrectorConfig clamps the local shade factor. A single global gain cannot
// fix spatially-varying shadow without distorting lit regions, so the local
// factor is bounded instead of trusted outright.
type CorrectorConfig struct {
	FactorMin float64 `mapstructure:"factor_min" yaml:"factor_min" json:"factor_min"`
	FactorMax float64 `mapstructure:"factor_max" yaml:"factor_max" json:"factor_max"`
}

// DefaultCorrectorConfig returns the standard shade-factor clamp.
func DefaultCorrectorConfig() CorrectorConfig {
	return CorrectorConfig{FactorMin: 0.7, FactorMax: 1.5}
}

// Corrector maps raw pixels to corrected RGB by applying white-balance gains
// followed by the local shade factor.
type Corrector struct {
	gains Gains
	grid  *ShadeGrid
	cfg   CorrectorConfig
}

// NewCorrector combines the per-image gains and shade grid.
func NewCorrector(gains Gains, grid *ShadeGrid, cfg CorrectorConfig) *Corrector {
	return &Corrector{gains: gains, grid: grid, cfg: cfg}
}

// Correct returns the corrected channel values for the raw pixel at (x, y).
func (c *Corrector) Correct(x, y int, r, g, b uint8) (uint8, uint8, uint8) {
	factor := 1.0
	if c.grid != nil {
		cell := c.grid.CellAverage(x, y)
		if cell > 0 {
			factor = utils.ClampFloat(c.grid.GlobalAverage()/cell, c.cfg.FactorMin, c.cfg.FactorMax)
		}
	}
	cr := utils.ClampFloat(float64(r)*c.gains.R*factor, 0, 255)
	cg := utils.ClampFloat(float64(g)*c.gains.G*factor, 0, 255)
	cb := utils.ClampFloat(float64(b)*c.gains.B*factor, 0, 255)
	return uint8(cr), uint8(cg), uint8(cb)
}
