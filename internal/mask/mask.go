// Package mask restricts analysis to the elliptical bowl region of a photo.
package mask

// Ellipse defines the analysis region as fractions of the image dimensions.
// Points outside it are ignored during classification, which suppresses
// false positives from the rim, floor and seat around the bowl.
type Ellipse struct {
	CenterX float64 `mapstructure:"center_x" yaml:"center_x" json:"center_x"`
	CenterY float64 `mapstructure:"center_y" yaml:"center_y" json:"center_y"`
	RadiusX float64 `mapstructure:"radius_x" yaml:"radius_x" json:"radius_x"`
	RadiusY float64 `mapstructure:"radius_y" yaml:"radius_y" json:"radius_y"`
}

// DefaultEllipse returns the bowl region used for typical framing: centered
// slightly below the image midpoint, covering most of the frame.
func DefaultEllipse() Ellipse {
	return Ellipse{
		CenterX: 0.50,
		CenterY: 0.56,
		RadiusX: 0.38,
		RadiusY: 0.44,
	}
}

// Contains reports whether pixel (x, y) of a width×height image lies inside
// the ellipse. Degenerate radii contain nothing.
func (e Ellipse) Contains(x, y, width, height int) bool {
	rx := e.RadiusX * float64(width)
	ry := e.RadiusY * float64(height)
	if rx <= 0 || ry <= 0 {
		return false
	}
	dx := (float64(x) - e.CenterX*float64(width)) / rx
	dy := (float64(y) - e.CenterY*float64(height)) / ry
	return dx*dx+dy*dy <= 1
}
