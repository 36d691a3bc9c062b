package pipeline

import (
	"image/color"
	"testing"

	"github.com/MeKo-Tech/hemoscan/internal/sampletype"
	"github.com/MeKo-Tech/hemoscan/internal/testutil"
	"github.com/MeKo-Tech/hemoscan/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	freshBlood  = color.RGBA{R: 180, G: 30, B: 30, A: 255}
	urineYellow = color.RGBA{R: 210, G: 180, B: 80, A: 255}
	stoolBrown  = color.RGBA{R: 100, G: 60, B: 30, A: 255}
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := NewBuilder().Build()
	require.NoError(t, err)
	return p
}

func TestAnalyzeCleanBowl(t *testing.T) {
	p := newTestPipeline(t)
	buf := testutil.ToBuffer(testutil.GenerateBowlImage(testutil.DefaultBowlImageConfig()))

	res, err := p.Analyze(buf, false)
	require.NoError(t, err)
	assert.Empty(t, res.Findings)
	assert.Zero(t, res.BloodPixelCount)
	assert.Equal(t, sampletype.VerdictUnknown, res.SampleType)
	assert.Positive(t, res.ContentTally.Samples)
}

func TestAnalyzeUniformGray(t *testing.T) {
	p := newTestPipeline(t)
	img := testutil.UniformImage(testutil.MediumSize, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	res, err := p.Analyze(testutil.ToBuffer(img), false)
	require.NoError(t, err)
	assert.Empty(t, res.Findings)
	assert.Equal(t, sampletype.VerdictUnknown, res.SampleType)
	assert.Zero(t, res.MaxSeverity())
}

func TestAnalyzeBrightRedPatch(t *testing.T) {
	cfg := testutil.DefaultBowlImageConfig()
	img := testutil.GenerateBowlImage(cfg)
	cx, cy := testutil.BowlCenter(cfg)
	testutil.DrawPatch(img, cx-15, cy-15, 30, 30, freshBlood)

	p := newTestPipeline(t)
	res, err := p.Analyze(testutil.ToBuffer(img), false)
	require.NoError(t, err)

	require.Len(t, res.Findings, 1)
	f := res.Findings[0]
	assert.Equal(t, "Bright Red", f.Profile.Name)
	assert.Equal(t, 1, f.Profile.Severity)
	assert.GreaterOrEqual(t, res.BloodPixelCount, 36)

	// The box covers the patch within one cluster cell of slack.
	slack := float64(p.Config().Cluster.CellSize)
	assert.LessOrEqual(t, f.Box.MinX, float64(cx-15)+slack)
	assert.LessOrEqual(t, f.Box.MinY, float64(cy-15)+slack)
	assert.GreaterOrEqual(t, f.Box.MaxX, float64(cx+15)-slack)
	assert.GreaterOrEqual(t, f.Box.MaxY, float64(cy+15)-slack)
	require.NoError(t, ValidateFindings(res))
}

func TestAnalyzeDeterministic(t *testing.T) {
	cfg := testutil.DefaultBowlImageConfig()
	img := testutil.GenerateBowlImage(cfg)
	cx, cy := testutil.BowlCenter(cfg)
	testutil.DrawPatch(img, cx-15, cy-15, 30, 30, freshBlood)
	buf := testutil.ToBuffer(img)

	p := newTestPipeline(t)
	for _, flash := range []bool{false, true} {
		first, err := p.Analyze(buf, flash)
		require.NoError(t, err)
		second, err := p.Analyze(buf, flash)
		require.NoError(t, err)
		assert.Equal(t, first, second, "flash=%v", flash)
	}
}

func TestAnalyzeIgnoresMatchesOutsideMask(t *testing.T) {
	cfg := testutil.DefaultBowlImageConfig()
	img := testutil.GenerateBowlImage(cfg)
	// A blood-colored patch on the floor, fully outside the ellipse.
	testutil.DrawPatch(img, 2, 2, 40, 40, freshBlood)

	p := newTestPipeline(t)
	res, err := p.Analyze(testutil.ToBuffer(img), false)
	require.NoError(t, err)
	assert.Zero(t, res.BloodPixelCount)
	assert.Empty(t, res.Findings)
}

func TestAnalyzeGatesBelowEvidenceFloor(t *testing.T) {
	cfg := testutil.DefaultBowlImageConfig()
	img := testutil.GenerateBowlImage(cfg)
	cx, cy := testutil.BowlCenter(cfg)
	// 8x8 patch: sampled matches stay under MinBloodPixels.
	testutil.DrawPatch(img, cx-4, cy-4, 8, 8, freshBlood)

	p := newTestPipeline(t)
	res, err := p.Analyze(testutil.ToBuffer(img), false)
	require.NoError(t, err)
	assert.Positive(t, res.BloodPixelCount)
	assert.Less(t, res.BloodPixelCount, p.Config().MinBloodPixels)
	assert.Empty(t, res.Findings)
}

func TestAnalyzeSeparatedPatchesGiveTwoFindings(t *testing.T) {
	cfg := testutil.DefaultBowlImageConfig()
	img := testutil.GenerateBowlImage(cfg)
	testutil.DrawPatch(img, 100, 140, 24, 24, freshBlood)
	testutil.DrawPatch(img, 200, 220, 24, 24, freshBlood)

	p := newTestPipeline(t)
	res, err := p.Analyze(testutil.ToBuffer(img), false)
	require.NoError(t, err)
	assert.Len(t, res.Findings, 2)
}

func TestAnalyzeSkipsTransparentPixels(t *testing.T) {
	cfg := testutil.DefaultBowlImageConfig()
	img := testutil.GenerateBowlImage(cfg)
	cx, cy := testutil.BowlCenter(cfg)
	testutil.DrawPatch(img, cx-15, cy-15, 30, 30, freshBlood)
	buf := testutil.ToBuffer(img)

	// Make the patch transparent; its matches must disappear.
	for y := cy - 15; y < cy+15; y++ {
		for x := cx - 15; x < cx+15; x++ {
			buf.Pix[(y*buf.Width+x)*4+3] = 0
		}
	}
	p := newTestPipeline(t)
	res, err := p.Analyze(buf, false)
	require.NoError(t, err)
	assert.Zero(t, res.BloodPixelCount)
	assert.Empty(t, res.Findings)
}

func TestAnalyzeUrineVerdict(t *testing.T) {
	cfg := testutil.DefaultBowlImageConfig()
	img := testutil.GenerateBowlImage(cfg)
	testutil.DrawPatch(img, 120, 140, 80, 80, urineYellow)

	p := newTestPipeline(t)
	res, err := p.Analyze(testutil.ToBuffer(img), false)
	require.NoError(t, err)
	assert.Equal(t, sampletype.VerdictUrine, res.SampleType)
	assert.Empty(t, res.Findings)
}

func TestAnalyzeStoolVerdict(t *testing.T) {
	cfg := testutil.DefaultBowlImageConfig()
	img := testutil.GenerateBowlImage(cfg)
	testutil.DrawPatch(img, 120, 140, 80, 80, stoolBrown)

	p := newTestPipeline(t)
	res, err := p.Analyze(testutil.ToBuffer(img), false)
	require.NoError(t, err)
	assert.Equal(t, sampletype.VerdictStool, res.SampleType)
}

func TestAnalyzeBothVerdict(t *testing.T) {
	cfg := testutil.DefaultBowlImageConfig()
	img := testutil.GenerateBowlImage(cfg)
	testutil.DrawPatch(img, 110, 130, 60, 60, urineYellow)
	testutil.DrawPatch(img, 180, 210, 60, 60, stoolBrown)

	p := newTestPipeline(t)
	res, err := p.Analyze(testutil.ToBuffer(img), false)
	require.NoError(t, err)
	assert.Equal(t, sampletype.VerdictBoth, res.SampleType)
}

func TestAnalyzeInvalidBuffer(t *testing.T) {
	p := newTestPipeline(t)
	tests := []struct {
		name string
		buf  *utils.PixelBuffer
	}{
		{"zero dimensions", &utils.PixelBuffer{}},
		{"length mismatch", &utils.PixelBuffer{Width: 4, Height: 4, Pix: make([]byte, 10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Analyze(tt.buf, false)
			require.Error(t, err)
			assert.ErrorIs(t, err, utils.ErrInvalidBuffer)
			assert.Empty(t, res.Findings)
		})
	}
}
