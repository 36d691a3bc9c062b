package correction

import (
	"math"
	"testing"

	"github.com/MeKo-Tech/hemoscan/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformBuffer(w, h int, r, g, b uint8) *utils.PixelBuffer {
	pix := make([]byte, 4*w*h)
	for i := 0; i < w*h; i++ {
		pix[i*4] = r
		pix[i*4+1] = g
		pix[i*4+2] = b
		pix[i*4+3] = 255
	}
	return &utils.PixelBuffer{Width: w, Height: h, Pix: pix}
}

func TestEstimateGainsNeutralWhite(t *testing.T) {
	buf := uniformBuffer(64, 64, 255, 255, 255)
	g := EstimateGains(buf, false, DefaultWhiteBalanceConfig())

	want := 240.0 / 255.0
	assert.InDelta(t, want, g.R, 1e-9)
	assert.InDelta(t, want, g.G, 1e-9)
	assert.InDelta(t, want, g.B, 1e-9)
}

func TestEstimateGainsFlashTargetIsHigher(t *testing.T) {
	buf := uniformBuffer(64, 64, 230, 230, 230)
	ambient := EstimateGains(buf, false, DefaultWhiteBalanceConfig())
	flash := EstimateGains(buf, true, DefaultWhiteBalanceConfig())
	assert.Greater(t, flash.R, ambient.R)
	assert.InDelta(t, 250.0/230.0, flash.G, 1e-9)
}

func TestEstimateGainsCorrectsColorCast(t *testing.T) {
	// Bluish porcelain: blue channel reads high, so its gain must be lowest.
	buf := uniformBuffer(64, 64, 220, 230, 250)
	g := EstimateGains(buf, false, DefaultWhiteBalanceConfig())
	assert.Greater(t, g.R, g.G)
	assert.Greater(t, g.G, g.B)
	assert.InDelta(t, 240.0/250.0, g.B, 1e-9)
}

func TestEstimateGainsAllBlackIsIdentity(t *testing.T) {
	buf := uniformBuffer(64, 64, 0, 0, 0)
	g := EstimateGains(buf, false, DefaultWhiteBalanceConfig())
	assert.Equal(t, IdentityGains(), g)
}

func TestEstimateGainsInsufficientEvidenceIsIdentity(t *testing.T) {
	// 8x8 at stride 4 yields 16 samples, below the 20-sample floor.
	buf := uniformBuffer(8, 8, 255, 255, 255)
	g := EstimateGains(buf, false, DefaultWhiteBalanceConfig())
	assert.Equal(t, IdentityGains(), g)
}

func TestEstimateGainsClamped(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
	}{
		{"dim gray forces max clamp", 140, 140, 140},
		{"pure white", 255, 255, 255},
	}
	cfg := DefaultWhiteBalanceConfig()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := uniformBuffer(64, 64, tt.r, tt.g, tt.b)
			g := EstimateGains(buf, true, cfg)
			for _, v := range []float64{g.R, g.G, g.B} {
				require.False(t, math.IsNaN(v))
				assert.GreaterOrEqual(t, v, cfg.GainMin)
				assert.LessOrEqual(t, v, cfg.GainMax)
			}
		})
	}
}

func TestEstimateGainsEmptyBuffer(t *testing.T) {
	buf := &utils.PixelBuffer{Width: 0, Height: 0, Pix: nil}
	assert.Equal(t, IdentityGains(), EstimateGains(buf, false, DefaultWhiteBalanceConfig()))
}

func TestEstimateGainsMedianIgnoresOutliers(t *testing.T) {
	// Mostly clean porcelain with a red streak; the median must track the
	// porcelain, not the streak.
	buf := uniformBuffer(64, 64, 240, 240, 240)
	for i := 0; i < 64; i++ { // one red row
		p := i * 4
		buf.Pix[p] = 200
		buf.Pix[p+1] = 40
		buf.Pix[p+2] = 40
	}
	g := EstimateGains(buf, false, DefaultWhiteBalanceConfig())
	assert.InDelta(t, 1.0, g.R, 1e-9)
	assert.InDelta(t, 1.0, g.G, 1e-9)
	assert.InDelta(t, 1.0, g.B, 1e-9)
}

func TestPercentileAndMedian(t *testing.T) {
	assert.InDelta(t, 9, percentile([]float64{9, 1, 5, 3, 7}, 1.0), 1e-9)
	assert.InDelta(t, 1, percentile([]float64{9, 1, 5, 3, 7}, 0.0), 1e-9)
	assert.InDelta(t, 5, median([]float64{9, 1, 5}), 1e-9)
	assert.InDelta(t, 4, median([]float64{1, 3, 5, 9}), 1e-9)
	assert.InDelta(t, 0, median(nil), 1e-9)
}
