// Package testutil generates synthetic bowl photos for tests.
package testutil

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/MeKo-Tech/hemoscan/internal/mask"
	"github.com/MeKo-Tech/hemoscan/internal/utils"
)

// ImageSize represents common test image dimensions.
type ImageSize struct {
	Width  int
	Height int
}

var (
	SmallSize  = ImageSize{160, 160}
	MediumSize = ImageSize{320, 320}
	LargeSize  = ImageSize{640, 640}
)

// BowlImageConfig holds configuration for generating synthetic bowl photos:
// a floor-colored frame with a porcelain ellipse matching the analysis mask.
type BowlImageConfig struct {
	Size      ImageSize
	Floor     color.RGBA
	Porcelain color.RGBA
	Mask      mask.Ellipse
}

// DefaultBowlImageConfig returns a neutral, evenly lit bowl scene.
func DefaultBowlImageConfig() BowlImageConfig {
	return BowlImageConfig{
		Size:      MediumSize,
		Floor:     color.RGBA{R: 180, G: 175, B: 165, A: 255},
		Porcelain: color.RGBA{R: 245, G: 243, B: 240, A: 255},
		Mask:      mask.DefaultEllipse(),
	}
}

// GenerateBowlImage creates a synthetic bowl photo from the configuration.
func GenerateBowlImage(cfg BowlImageConfig) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Size.Width, cfg.Size.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{cfg.Floor}, image.Point{}, draw.Src)

	w, h := float64(cfg.Size.Width), float64(cfg.Size.Height)
	utils.FillEllipse(img,
		cfg.Mask.CenterX*w, cfg.Mask.CenterY*h,
		cfg.Mask.RadiusX*w, cfg.Mask.RadiusY*h,
		cfg.Porcelain)
	return img
}

// DrawPatch fills a rectangular patch, clipped to the image.
func DrawPatch(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	rect := image.Rect(x, y, x+w, y+h).Intersect(img.Bounds())
	draw.Draw(img, rect, &image.Uniform{c}, image.Point{}, draw.Src)
}

// UniformImage creates a single-color image.
func UniformImage(size ImageSize, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

// ToBuffer converts an image into the pipeline's pixel-buffer form.
func ToBuffer(img *image.RGBA) *utils.PixelBuffer {
	return utils.NewPixelBufferFromImage(img)
}

// BowlCenter returns the pixel coordinates of the mask center.
func BowlCenter(cfg BowlImageConfig) (int, int) {
	return int(cfg.Mask.CenterX * float64(cfg.Size.Width)),
		int(cfg.Mask.CenterY * float64(cfg.Size.Height))
}
