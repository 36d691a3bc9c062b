package classify

// Classifier evaluates the ordered blood-profile table top-down and
// returns the first match. Deterministic, pure, O(profiles) per pixel.
type Classifier struct {
	profiles []Profile
}

// NewClassifier creates a classifier over the given ordered profiles.
func NewClassifier(profiles []Profile) *Classifier {
	return &Classifier{profiles: profiles}
}

// Profiles returns the ordered profile table.
func (c *Classifier) Profiles() []Profile { return c.profiles }

// Match returns the index of the first profile matching the corrected RGB
// pixel, or -1 when none matches.
func (c *Classifier) Match(r, g, b uint8) int {
	return c.MatchHSL(RGBToHSL(r, g, b))
}

// MatchHSL returns the index of the first matching profile, or -1.
func (c *Classifier) MatchHSL(hsl HSL) int {
	for i, p := range c.profiles {
		if p.Matches(hsl) {
			return i
		}
	}
	return -1
}

// ContentClassifier evaluates the ordered content-profile table the same way.
type ContentClassifier struct {
	profiles []ContentProfile
}

// NewContentClassifier creates a classifier over the given content profiles.
func NewContentClassifier(profiles []ContentProfile) *ContentClassifier {
	return &ContentClassifier{profiles: profiles}
}

// Match returns the content kind of the first matching profile.
// The second return value is false when nothing matches.
func (c *ContentClassifier) Match(r, g, b uint8) (ContentKind, bool) {
	return c.MatchHSL(RGBToHSL(r, g, b))
}

// MatchHSL returns the content kind of the first matching profile.
func (c *ContentClassifier) MatchHSL(hsl HSL) (ContentKind, bool) {
	for _, p := range c.profiles {
		if p.Matches(hsl) {
			return p.Kind, true
		}
	}
	return "", false
}
