// Package classify maps corrected RGB pixels onto ordered color profiles:
// blood severity classes and urine/stool content classes.
package classify

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSL is a color in hue-saturation-lightness space. Hue is in degrees
// [0, 360); saturation and lightness are percentages [0, 100].
type HSL struct {
	H float64
	S float64
	L float64
}

// RGBToHSL converts 8-bit RGB channel values to HSL.
func RGBToHSL(r, g, b uint8) HSL {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()
	return HSL{H: h, S: s * 100, L: l * 100}
}
