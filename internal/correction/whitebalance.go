package correction

import (
	"sort"

	"github.com/MeKo-Tech/hemoscan/internal/mempool"
	"github.com/MeKo-Tech/hemoscan/internal/utils"
)

// WhiteBalanceConfig controls gain estimation from bright porcelain pixels.
type WhiteBalanceConfig struct {
	// TargetAmbient is the neutral-white target under ambient light.
	TargetAmbient float64 `mapstructure:"target_ambient" yaml:"target_ambient" json:"target_ambient"`
	// TargetFlash is the neutral-white target when the flash fired. Flash
	// drives porcelain brighter, so the neutral point sits higher to avoid
	// over-correction.
	TargetFlash float64 `mapstructure:"target_flash" yaml:"target_flash" json:"target_flash"`
	// GainMin and GainMax clamp the per-channel gains.
	GainMin float64 `mapstructure:"gain_min" yaml:"gain_min" json:"gain_min"`
	GainMax float64 `mapstructure:"gain_max" yaml:"gain_max" json:"gain_max"`
	// SampleStride selects every n-th pixel in scan order.
	SampleStride int `mapstructure:"sample_stride" yaml:"sample_stride" json:"sample_stride"`
	// BrightPercentile is the luminance percentile defining "bright".
	BrightPercentile float64 `mapstructure:"bright_percentile" yaml:"bright_percentile" json:"bright_percentile"`
	// MinChannel excludes colored or dark objects from the white estimate.
	MinChannel uint8 `mapstructure:"min_channel" yaml:"min_channel" json:"min_channel"`
	// MinSamples is the evidence floor below which identity gains are used.
	MinSamples int `mapstructure:"min_samples" yaml:"min_samples" json:"min_samples"`
}

// DefaultWhiteBalanceConfig returns the standard estimation parameters.
func DefaultWhiteBalanceConfig() WhiteBalanceConfig {
	return WhiteBalanceConfig{
		TargetAmbient:    240,
		TargetFlash:      250,
		GainMin:          0.6,
		GainMax:          1.6,
		SampleStride:     4,
		BrightPercentile: 0.85,
		MinChannel:       140,
		MinSamples:       20,
	}
}

// Gains holds per-channel multiplicative white-balance corrections.
type Gains struct {
	R float64
	G float64
	B float64
}

// IdentityGains is the no-op correction used when too little white evidence
// exists. Degraded mode, not an error: real photos can legitimately contain
// no bright porcelain.
func IdentityGains() Gains { return Gains{R: 1, G: 1, B: 1} }

// EstimateGains computes per-channel gains that map the image's porcelain
// white onto the configured neutral target.
func EstimateGains(buf *utils.PixelBuffer, flashOn bool, cfg WhiteBalanceConfig) Gains {
	stride := cfg.SampleStride
	if stride < 1 {
		stride = 1
	}
	n := buf.Width * buf.Height
	if n == 0 {
		return IdentityGains()
	}

	sampleCount := (n + stride - 1) / stride
	lums := mempool.GetFloat64(sampleCount)
	defer mempool.PutFloat64(lums)

	k := 0
	for i := 0; i < n; i += stride {
		p := i * 4
		lums[k] = Luminance(float64(buf.Pix[p]), float64(buf.Pix[p+1]), float64(buf.Pix[p+2]))
		k++
	}
	threshold := percentile(lums[:k], cfg.BrightPercentile)

	var rs, gs, bs []float64
	for i := 0; i < n; i += stride {
		p := i * 4
		r, g, b := buf.Pix[p], buf.Pix[p+1], buf.Pix[p+2]
		if r < cfg.MinChannel || g < cfg.MinChannel || b < cfg.MinChannel {
			continue
		}
		if Luminance(float64(r), float64(g), float64(b)) < threshold {
			continue
		}
		rs = append(rs, float64(r))
		gs = append(gs, float64(g))
		bs = append(bs, float64(b))
	}

	if len(rs) < cfg.MinSamples {
		return IdentityGains()
	}

	target := cfg.TargetAmbient
	if flashOn {
		target = cfg.TargetFlash
	}
	return Gains{
		R: clampGain(target/median(rs), cfg),
		G: clampGain(target/median(gs), cfg),
		B: clampGain(target/median(bs), cfg),
	}
}

func clampGain(g float64, cfg WhiteBalanceConfig) float64 {
	return utils.ClampFloat(g, cfg.GainMin, cfg.GainMax)
}

// percentile returns the value at fraction p of the sorted samples.
// The input slice is sorted in place.
func percentile(vals []float64, p float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)
	idx := int(p * float64(len(vals)-1))
	return vals[utils.ClampInt(idx, 0, len(vals)-1)]
}

// median is robust against outliers such as blood or water in the bright set.
// The input slice is sorted in place.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid]
	}
	return (vals[mid-1] + vals[mid]) / 2
}
