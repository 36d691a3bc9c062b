package utils

import (
	"image"

	"github.com/disintegration/imaging"
)

// NormalizeSize downscales an image so its width does not exceed maxWidth,
// preserving the aspect ratio. Images at or below the limit are returned
// unchanged. A maxWidth of zero disables resizing.
func NormalizeSize(img image.Image, maxWidth int) image.Image {
	if img == nil || maxWidth <= 0 {
		return img
	}
	if img.Bounds().Dx() <= maxWidth {
		return img
	}
	return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
}
