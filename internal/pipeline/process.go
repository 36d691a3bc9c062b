package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/hemoscan/internal/classify"
	"github.com/MeKo-Tech/hemoscan/internal/cluster"
	"github.com/MeKo-Tech/hemoscan/internal/common"
	"github.com/MeKo-Tech/hemoscan/internal/correction"
	"github.com/MeKo-Tech/hemoscan/internal/sampletype"
	"github.com/MeKo-Tech/hemoscan/internal/utils"
)

// Analyze runs the full pipeline over one decoded photo. The result depends
// only on the buffer contents and the flash flag; repeated calls with the
// same input produce identical results.
func (p *Pipeline) Analyze(buf *utils.PixelBuffer, flashOn bool) (*Result, error) {
	if err := buf.Validate(); err != nil {
		return &Result{}, fmt.Errorf("analyze: %w", err)
	}

	t := common.NewNamedTimer("white_balance")
	gains := correction.EstimateGains(buf, flashOn, p.cfg.WhiteBalance)
	t.StopAndLog()

	t = common.NewNamedTimer("shade_grid")
	grid := correction.BuildShadeGrid(buf, gains, p.cfg.Shade)
	t.StopAndLog()

	corrector := correction.NewCorrector(gains, grid, p.cfg.Corrector)

	t = common.NewNamedTimer("scan")
	matched, tally := p.scan(buf, corrector)
	t.StopAndLog()

	res := &Result{
		Width:           buf.Width,
		Height:          buf.Height,
		BloodPixelCount: len(matched),
		ContentTally:    tally,
	}
	if tally.Samples > 0 {
		res.BloodRatio = float64(len(matched)) / float64(tally.Samples)
	}

	// Evidentiary gate: isolated matches below the floor are noise, not
	// findings.
	if res.BloodPixelCount >= p.cfg.MinBloodPixels && res.BloodRatio >= p.cfg.MinBloodRatio {
		t = common.NewNamedTimer("cluster")
		for _, c := range p.engine.Cluster(matched, buf.Width, buf.Height) {
			res.Findings = append(res.Findings, Finding{
				Box:        c.Box,
				Profile:    p.cfg.BloodProfiles[c.Profile],
				PixelCount: c.PixelCount,
			})
		}
		t.StopAndLog()
	}

	res.SampleType = sampletype.Classify(tally, p.cfg.SampleType)

	slog.Debug("analysis complete",
		"width", buf.Width, "height", buf.Height,
		"flash", flashOn,
		"blood_pixels", res.BloodPixelCount,
		"blood_ratio", res.BloodRatio,
		"findings", len(res.Findings),
		"sample_type", res.SampleType)
	return res, nil
}

// scan iterates the strided pixel sample, restricted to the bowl mask, and
// routes corrected pixels through both classifiers.
func (p *Pipeline) scan(buf *utils.PixelBuffer, corrector *correction.Corrector) ([]cluster.MatchedPixel, sampletype.Tally) {
	var matched []cluster.MatchedPixel
	var tally sampletype.Tally

	stride := p.cfg.SampleStride
	for y := 0; y < buf.Height; y += stride {
		for x := 0; x < buf.Width; x += stride {
			r, g, b, a := buf.RGBA(x, y)
			if a < p.cfg.MinAlpha {
				continue
			}
			if !p.cfg.Mask.Contains(x, y, buf.Width, buf.Height) {
				continue
			}
			tally.Samples++

			cr, cg, cb := corrector.Correct(x, y, r, g, b)
			if idx := p.classifier.Match(cr, cg, cb); idx >= 0 {
				matched = append(matched, cluster.MatchedPixel{X: x, Y: y, Profile: idx})
			}
			if kind, ok := p.content.Match(cr, cg, cb); ok {
				switch kind {
				case classify.ContentUrine:
					tally.Urine++
				case classify.ContentStool:
					tally.Stool++
				}
			}
		}
	}
	return matched, tally
}
