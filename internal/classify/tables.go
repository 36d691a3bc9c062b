package classify

// DefaultBloodProfiles is the ordered severity table, brightest first.
// Order is part of the contract: bright red must be tested before the
// darker classes whose ranges it partially overlaps.
func DefaultBloodProfiles() []Profile {
	return []Profile{
		{
			Name:     "Bright Red",
			Severity: 1,
			HueMin:   340, HueMax: 20, // wraps across 360
			SatMin: 45, SatMax: 100,
			LightMin: 30, LightMax: 60,
			Display: "#D32F2F",
			Shape:   ShapeCircle,
			Hatch:   HatchDiagonal,
		},
		{
			Name:     "Dark Red",
			Severity: 2,
			HueMin:   330, HueMax: 15,
			SatMin: 30, SatMax: 100,
			LightMin: 15, LightMax: 30,
			Display: "#8B0000",
			Shape:   ShapeTriangle,
			Hatch:   HatchCross,
		},
		{
			Name:     "Maroon",
			Severity: 3,
			HueMin:   0, HueMax: 25,
			SatMin: 25, SatMax: 100,
			LightMin: 8, LightMax: 15,
			Display: "#5D1A1A",
			Shape:   ShapeDiamond,
			Hatch:   HatchDots,
		},
		{
			Name:     "Tarry Black",
			Severity: 4,
			HueMin:   0, HueMax: 360, // hue carries no signal this dark
			SatMin: 0, SatMax: 45,
			LightMin: 0, LightMax: 10,
			Display: "#1C1C1C",
			Shape:   ShapeSquare,
			Hatch:   HatchSolid,
		},
	}
}

// DefaultContentProfiles is the ordered urine/stool table. Amber urine is
// tested before stool brown; the two are split by lightness.
func DefaultContentProfiles() []ContentProfile {
	return []ContentProfile{
		{
			Name: "Urine Yellow",
			Kind: ContentUrine,
			HueMin: 40, HueMax: 65,
			SatMin: 25, SatMax: 100,
			LightMin: 40, LightMax: 85,
		},
		{
			Name: "Urine Amber",
			Kind: ContentUrine,
			HueMin: 30, HueMax: 45,
			SatMin: 40, SatMax: 100,
			LightMin: 40, LightMax: 70,
		},
		{
			Name: "Stool Brown",
			Kind: ContentStool,
			HueMin: 10, HueMax: 35,
			SatMin: 20, SatMax: 90,
			LightMin: 10, LightMax: 40,
		},
	}
}
