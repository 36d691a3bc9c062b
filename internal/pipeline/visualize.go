package pipeline

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/MeKo-Tech/hemoscan/internal/classify"
	"github.com/MeKo-Tech/hemoscan/internal/utils"
)

// RenderOverlay draws the findings over the photo and returns an RGBA copy.
// Each finding is encoded three ways at once: hatch texture, shape glyph and
// text label, so severity never depends on the box color alone.
func RenderOverlay(img image.Image, res *Result) *image.RGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	if res == nil {
		return dst
	}
	for _, f := range res.Findings {
		col := parseHexColor(f.Profile.Display)
		rect := f.Box.ToRect(dst.Bounds())
		utils.DrawRect(dst, rect, col, 2)
		drawHatch(dst, rect, f.Profile.Hatch, col)
		drawShape(dst, rect, f.Profile.Shape, col)
		drawLabel(dst, rect, f.Profile.Name)
	}
	return dst
}

// parseHexColor parses "#RRGGBB"; malformed values fall back to opaque red.
func parseHexColor(s string) color.RGBA {
	fallback := color.RGBA{R: 211, G: 47, B: 47, A: 255}
	if len(s) != 7 || s[0] != '#' {
		return fallback
	}
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexNibble(s[1+2*i])
		lo, ok2 := hexNibble(s[2+2*i])
		if !ok1 || !ok2 {
			return fallback
		}
		v[i] = hi<<4 | lo
	}
	return color.RGBA{R: v[0], G: v[1], B: v[2], A: 255}
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// drawHatch fills the box interior with the profile's texture. Spacing keeps
// the underlying photo visible.
func drawHatch(dst *image.RGBA, rect image.Rectangle, hatch classify.Hatch, col color.Color) {
	inner := rect.Inset(3)
	if inner.Empty() {
		return
	}
	const spacing = 6
	switch hatch {
	case classify.HatchDiagonal:
		drawDiagonals(dst, inner, col, spacing, false)
	case classify.HatchCross:
		drawDiagonals(dst, inner, col, spacing, false)
		drawDiagonals(dst, inner, col, spacing, true)
	case classify.HatchDots:
		for y := inner.Min.Y; y < inner.Max.Y; y += spacing {
			for x := inner.Min.X; x < inner.Max.X; x += spacing {
				dst.Set(x, y, col)
				dst.Set(x+1, y, col)
			}
		}
	case classify.HatchSolid:
		// Checkerboard fill: dense enough to read as solid, sparse enough
		// to leave the photo visible.
		for y := inner.Min.Y; y < inner.Max.Y; y++ {
			for x := inner.Min.X + y%2; x < inner.Max.X; x += 2 {
				dst.Set(x, y, col)
			}
		}
	case classify.HatchNone:
	}
}

func drawDiagonals(dst *image.RGBA, rect image.Rectangle, col color.Color, spacing int, flip bool) {
	w, h := rect.Dx(), rect.Dy()
	for off := -h; off < w; off += spacing {
		for y := 0; y < h; y++ {
			x := off + y
			if flip {
				x = off + (h - 1 - y)
			}
			if x >= 0 && x < w {
				dst.Set(rect.Min.X+x, rect.Min.Y+y, col)
			}
		}
	}
}

// drawShape puts the severity glyph just outside the box's top-left corner,
// or inside it when the box touches the image edge.
func drawShape(dst *image.RGBA, rect image.Rectangle, shape classify.Shape, col color.Color) {
	const size = 9
	cx := rect.Min.X + size/2 + 1
	cy := rect.Min.Y - size/2 - 2
	if cy-size/2 < dst.Bounds().Min.Y {
		cy = rect.Min.Y + size/2 + 1
	}
	half := size / 2
	switch shape {
	case classify.ShapeCircle:
		utils.FillEllipse(dst, float64(cx), float64(cy), float64(half), float64(half), col)
	case classify.ShapeSquare:
		fillRect(dst, image.Rect(cx-half, cy-half, cx+half+1, cy+half+1), col)
	case classify.ShapeTriangle:
		for dy := -half; dy <= half; dy++ {
			span := (dy + half) * half / size
			for dx := -span; dx <= span; dx++ {
				setInBounds(dst, cx+dx, cy+dy, col)
			}
		}
	case classify.ShapeDiamond:
		for dy := -half; dy <= half; dy++ {
			span := half - abs(dy)
			for dx := -span; dx <= span; dx++ {
				setInBounds(dst, cx+dx, cy+dy, col)
			}
		}
	}
}

// drawLabel prints the profile name above the box with a dark backing strip
// for contrast.
func drawLabel(dst *image.RGBA, rect image.Rectangle, label string) {
	face := basicfont.Face7x13
	textW := font.MeasureString(face, label).Ceil()
	textH := face.Metrics().Height.Ceil()

	x := rect.Min.X + 12
	y := rect.Min.Y - 4
	if y-textH < dst.Bounds().Min.Y {
		y = rect.Min.Y + textH + 2
	}
	bg := image.Rect(x-2, y-textH+2, x+textW+2, y+3)
	fillRect(dst, bg, color.RGBA{A: 200})

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)
}

func fillRect(dst *image.RGBA, rect image.Rectangle, col color.Color) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.Set(x, y, col)
		}
	}
}

func setInBounds(dst *image.RGBA, x, y int, col color.Color) {
	if image.Pt(x, y).In(dst.Bounds()) {
		dst.Set(x, y, col)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
