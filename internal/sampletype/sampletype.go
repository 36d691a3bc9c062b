// Package sampletype turns content-profile tallies into a urine/stool verdict.
package sampletype

// Verdict is the sample-type classification for one analyzed photo.
type Verdict string

const (
	VerdictUnknown Verdict = "unknown"
	VerdictUrine   Verdict = "urine"
	VerdictStool   Verdict = "stool"
	VerdictBoth    Verdict = "both"
)

// Config holds the evidentiary floors for the content ratios. The gate keeps
// a handful of incidentally-matching pixels from producing a confident
// verdict.
type Config struct {
	MinUrineRatio float64 `mapstructure:"min_urine_ratio" yaml:"min_urine_ratio" json:"min_urine_ratio"`
	MinStoolRatio float64 `mapstructure:"min_stool_ratio" yaml:"min_stool_ratio" json:"min_stool_ratio"`
}

// DefaultConfig returns the standard ratio floors.
func DefaultConfig() Config {
	return Config{MinUrineRatio: 0.02, MinStoolRatio: 0.02}
}

// Tally accumulates content matches over the in-mask sampled pixels.
type Tally struct {
	Urine   int
	Stool   int
	Samples int // all in-mask sampled pixels, matched or not
}

// UrineRatio returns the fraction of in-mask samples matching urine
// profiles, or 0 when nothing was sampled.
func (t Tally) UrineRatio() float64 {
	if t.Samples == 0 {
		return 0
	}
	return float64(t.Urine) / float64(t.Samples)
}

// StoolRatio returns the fraction of in-mask samples matching stool
// profiles, or 0 when nothing was sampled.
func (t Tally) StoolRatio() float64 {
	if t.Samples == 0 {
		return 0
	}
	return float64(t.Stool) / float64(t.Samples)
}

// Classify maps a tally to a verdict: both kinds over their floors give
// "both", one gives that kind, neither gives "unknown".
func Classify(t Tally, cfg Config) Verdict {
	urine := t.UrineRatio() >= cfg.MinUrineRatio
	stool := t.StoolRatio() >= cfg.MinStoolRatio
	switch {
	case urine && stool:
		return VerdictBoth
	case urine:
		return VerdictUrine
	case stool:
		return VerdictStool
	default:
		return VerdictUnknown
	}
}
