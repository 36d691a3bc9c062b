// Package correction implements the two-stage photometric correction:
// a global white-balance gain estimated from bright porcelain pixels,
// followed by a local shade factor from a coarse luminance grid.
package correction

// Rec. 601 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Luminance returns the perceptual luminance of an 8-bit RGB triple.
func Luminance(r, g, b float64) float64 {
	return lumaR*r + lumaG*g + lumaB*b
}
