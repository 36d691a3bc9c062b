package pipeline

import (
	"github.com/MeKo-Tech/hemoscan/internal/classify"
	"github.com/MeKo-Tech/hemoscan/internal/sampletype"
	"github.com/MeKo-Tech/hemoscan/internal/utils"
)

// Finding is one reported blood region: a bounding box, the dominant
// profile's metadata, and the matched-pixel evidence behind it.
type Finding struct {
	Box        utils.Box
	Profile    classify.Profile
	PixelCount int
}

// Result is the immutable outcome of analyzing one photo. It is recomputed
// fully on every run; nothing persists between invocations.
type Result struct {
	Width  int
	Height int

	Findings []Finding

	// BloodPixelCount is the number of in-mask sampled pixels matching any
	// blood profile; BloodRatio relates it to all in-mask samples.
	BloodPixelCount int
	BloodRatio      float64

	ContentTally sampletype.Tally
	SampleType   sampletype.Verdict
}

// HasFindings reports whether any blood region survived the evidence gates.
func (r *Result) HasFindings() bool { return len(r.Findings) > 0 }

// MaxSeverity returns the highest severity tier among findings, 0 if none.
func (r *Result) MaxSeverity() int {
	maxSev := 0
	for _, f := range r.Findings {
		if f.Profile.Severity > maxSev {
			maxSev = f.Profile.Severity
		}
	}
	return maxSev
}
