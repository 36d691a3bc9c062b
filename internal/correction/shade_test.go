package correction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShadeGridUniformImage(t *testing.T) {
	buf := uniformBuffer(64, 64, 200, 200, 200)
	g := BuildShadeGrid(buf, IdentityGains(), DefaultShadeConfig())

	assert.InDelta(t, 200, g.GlobalAverage(), 1e-9)
	assert.InDelta(t, 200, g.CellAverage(0, 0), 1e-9)
	assert.InDelta(t, 200, g.CellAverage(63, 63), 1e-9)
}

func TestShadeGridDetectsShadowedHalf(t *testing.T) {
	// Bright left half, dark right half.
	buf := uniformBuffer(64, 64, 220, 220, 220)
	for y := 0; y < 64; y++ {
		for x := 32; x < 64; x++ {
			p := (y*64 + x) * 4
			buf.Pix[p], buf.Pix[p+1], buf.Pix[p+2] = 80, 80, 80
		}
	}
	g := BuildShadeGrid(buf, IdentityGains(), DefaultShadeConfig())

	assert.InDelta(t, 220, g.CellAverage(5, 5), 1.0)
	assert.InDelta(t, 80, g.CellAverage(60, 5), 1.0)
	global := g.GlobalAverage()
	assert.Greater(t, global, 80.0)
	assert.Less(t, global, 220.0)
}

func TestShadeGridAppliesGains(t *testing.T) {
	buf := uniformBuffer(32, 32, 100, 100, 100)
	g := BuildShadeGrid(buf, Gains{R: 1.5, G: 1.5, B: 1.5}, DefaultShadeConfig())
	assert.InDelta(t, 150, g.GlobalAverage(), 1e-9)
}

func TestShadeGridEmptyCellDefaults(t *testing.T) {
	cfg := DefaultShadeConfig()
	g := &ShadeGrid{size: cfg.GridSize, width: 8, height: 8,
		cells: make([]shadeCell, cfg.GridSize*cfg.GridSize), defaultLum: cfg.DefaultLuminance}
	assert.InDelta(t, 128, g.CellAverage(0, 0), 1e-9)
	assert.InDelta(t, 128, g.GlobalAverage(), 1e-9)
}

func TestShadeGridSparseSamplingLeavesCellsEmpty(t *testing.T) {
	// A stride wider than the image samples only the first pixel per row
	// group; untouched cells must report the neutral default.
	buf := uniformBuffer(16, 16, 200, 200, 200)
	cfg := DefaultShadeConfig()
	cfg.SampleStride = 16 * 16 // single sample
	g := BuildShadeGrid(buf, IdentityGains(), cfg)
	assert.InDelta(t, 200, g.CellAverage(0, 0), 1e-9)
	assert.InDelta(t, 128, g.CellAverage(15, 15), 1e-9)
}
