package correction

import (
	"github.com/MeKo-Tech/hemoscan/internal/utils"
)

// ShadeConfig controls the local luminance map used for shadow compensation.
type ShadeConfig struct {
	// GridSize is the number of cells per axis.
	GridSize int `mapstructure:"grid_size" yaml:"grid_size" json:"grid_size"`
	// SampleStride selects every n-th pixel in scan order.
	SampleStride int `mapstructure:"sample_stride" yaml:"sample_stride" json:"sample_stride"`
	// DefaultLuminance is reported for cells with no samples.
	DefaultLuminance float64 `mapstructure:"default_luminance" yaml:"default_luminance" json:"default_luminance"`
}

// DefaultShadeConfig returns the standard 8×8 shade map parameters.
func DefaultShadeConfig() ShadeConfig {
	return ShadeConfig{
		GridSize:         8,
		SampleStride:     4,
		DefaultLuminance: 128,
	}
}

type shadeCell struct {
	sum   float64
	count int
}

// ShadeGrid is a coarse spatial map of post-white-balance luminance.
// It models shadows cast across the bowl so the corrector can brighten
// shadowed pixels without distorting lit ones.
type ShadeGrid struct {
	size       int
	width      int
	height     int
	cells      []shadeCell
	globalSum  float64
	globalN    int
	defaultLum float64
}

// BuildShadeGrid scans the buffer once, applying white-balance gains before
// accumulating per-cell and global luminance.
func BuildShadeGrid(buf *utils.PixelBuffer, gains Gains, cfg ShadeConfig) *ShadeGrid {
	size := cfg.GridSize
	if size < 1 {
		size = 1
	}
	stride := cfg.SampleStride
	if stride < 1 {
		stride = 1
	}
	g := &ShadeGrid{
		size:       size,
		width:      buf.Width,
		height:     buf.Height,
		cells:      make([]shadeCell, size*size),
		defaultLum: cfg.DefaultLuminance,
	}
	n := buf.Width * buf.Height
	for i := 0; i < n; i += stride {
		p := i * 4
		lum := Luminance(
			float64(buf.Pix[p])*gains.R,
			float64(buf.Pix[p+1])*gains.G,
			float64(buf.Pix[p+2])*gains.B,
		)
		x := i % buf.Width
		y := i / buf.Width
		c := &g.cells[g.cellIndex(x, y)]
		c.sum += lum
		c.count++
		g.globalSum += lum
		g.globalN++
	}
	return g
}

func (g *ShadeGrid) cellIndex(x, y int) int {
	cx := utils.ClampInt(x*g.size/g.width, 0, g.size-1)
	cy := utils.ClampInt(y*g.size/g.height, 0, g.size-1)
	return cy*g.size + cx
}

// CellAverage returns the average luminance of the cell containing pixel
// (x, y), or the neutral default for empty cells.
func (g *ShadeGrid) CellAverage(x, y int) float64 {
	c := g.cells[g.cellIndex(x, y)]
	if c.count == 0 {
		return g.defaultLum
	}
	return c.sum / float64(c.count)
}

// GlobalAverage returns the image-wide average luminance, or the neutral
// default when no pixels were sampled.
func (g *ShadeGrid) GlobalAverage() float64 {
	if g.globalN == 0 {
		return g.defaultLum
	}
	return g.globalSum / float64(g.globalN)
}
