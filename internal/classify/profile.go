package classify

// Shape is a glyph drawn on overlays so severity never depends on color
// perception alone.
type Shape string

const (
	ShapeCircle   Shape = "circle"
	ShapeTriangle Shape = "triangle"
	ShapeDiamond  Shape = "diamond"
	ShapeSquare   Shape = "square"
)

// Hatch is a fill texture drawn inside finding boxes, the second redundant
// severity channel next to shape and text label.
type Hatch string

const (
	HatchNone     Hatch = "none"
	HatchDiagonal Hatch = "diagonal"
	HatchCross    Hatch = "cross"
	HatchDots     Hatch = "dots"
	HatchSolid    Hatch = "solid"
)

// Profile is a named blood-severity color class in HSL space.
//
// Hue ranges may wrap across 360°: HueMin > HueMax means
// "hue ≥ HueMin OR hue ≤ HueMax". Saturation and lightness ranges are
// percentages. Profiles live in an ordered table; the first match wins,
// so declaration order encodes precedence among overlapping ranges.
type Profile struct {
	Name     string  `json:"name" yaml:"name"`
	Severity int     `json:"severity" yaml:"severity"`
	HueMin   float64 `json:"hue_min" yaml:"hue_min"`
	HueMax   float64 `json:"hue_max" yaml:"hue_max"`
	SatMin   float64 `json:"sat_min" yaml:"sat_min"`
	SatMax   float64 `json:"sat_max" yaml:"sat_max"`
	LightMin float64 `json:"light_min" yaml:"light_min"`
	LightMax float64 `json:"light_max" yaml:"light_max"`
	Display  string  `json:"display" yaml:"display"` // hex color for overlays
	Shape    Shape   `json:"shape" yaml:"shape"`
	Hatch    Hatch   `json:"hatch" yaml:"hatch"`
}

// Matches reports whether the HSL value falls inside all three ranges.
func (p Profile) Matches(c HSL) bool {
	if c.L < p.LightMin || c.L > p.LightMax {
		return false
	}
	if c.S < p.SatMin || c.S > p.SatMax {
		return false
	}
	return hueInRange(c.H, p.HueMin, p.HueMax)
}

// ContentKind distinguishes the sample-type color classes.
type ContentKind string

const (
	ContentUrine ContentKind = "urine"
	ContentStool ContentKind = "stool"
)

// ContentProfile is a color class used to recognize urine or stool coloring,
// independent of the blood profiles. Same range semantics as Profile.
type ContentProfile struct {
	Name     string      `json:"name" yaml:"name"`
	Kind     ContentKind `json:"kind" yaml:"kind"`
	HueMin   float64     `json:"hue_min" yaml:"hue_min"`
	HueMax   float64     `json:"hue_max" yaml:"hue_max"`
	SatMin   float64     `json:"sat_min" yaml:"sat_min"`
	SatMax   float64     `json:"sat_max" yaml:"sat_max"`
	LightMin float64     `json:"light_min" yaml:"light_min"`
	LightMax float64     `json:"light_max" yaml:"light_max"`
}

// Matches reports whether the HSL value falls inside all three ranges.
func (p ContentProfile) Matches(c HSL) bool {
	if c.L < p.LightMin || c.L > p.LightMax {
		return false
	}
	if c.S < p.SatMin || c.S > p.SatMax {
		return false
	}
	return hueInRange(c.H, p.HueMin, p.HueMax)
}

func hueInRange(h, lo, hi float64) bool {
	if lo > hi { // wraps across 360
		return h >= lo || h <= hi
	}
	return h >= lo && h <= hi
}
