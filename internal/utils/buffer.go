package utils

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
)

// SupportedImageExtensions lists supported file extensions for loading.
var SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// IsSupportedImage reports whether the path has a supported image extension.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedImageExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// PixelBuffer is a decoded still image as interleaved 8-bit RGBA.
// The analysis pipeline only reads it; ownership stays with the caller.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte // 4*Width*Height bytes, R,G,B,A per pixel
}

// ErrInvalidBuffer indicates a buffer whose dimensions and byte length disagree.
var ErrInvalidBuffer = errors.New("pixel buffer length does not match dimensions")

// Validate checks the buffer precondition: positive dimensions and a byte
// slice of exactly 4*Width*Height. This is the one condition the pipeline
// fails fast on instead of degrading.
func (p *PixelBuffer) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBuffer, p.Width, p.Height)
	}
	if len(p.Pix) != 4*p.Width*p.Height {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidBuffer, len(p.Pix), 4*p.Width*p.Height)
	}
	return nil
}

// RGBA returns the four channel values at (x, y). Coordinates must be in bounds.
func (p *PixelBuffer) RGBA(x, y int) (r, g, b, a uint8) {
	i := (y*p.Width + x) * 4
	return p.Pix[i], p.Pix[i+1], p.Pix[i+2], p.Pix[i+3]
}

// NewPixelBufferFromImage converts any image.Image into a PixelBuffer.
func NewPixelBufferFromImage(img image.Image) *PixelBuffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*w || !b.Min.Eq(image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return &PixelBuffer{Width: w, Height: h, Pix: rgba.Pix}
}

// LoadImage opens and decodes an image file.
func LoadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, errors.New("empty image path")
	}
	if !IsSupportedImage(path) {
		return nil, fmt.Errorf("unsupported image format: %s", filepath.Ext(path))
	}
	f, err := os.Open(path) //nolint:gosec // caller supplies the path
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

// LoadPixelBuffer opens and decodes an image file into a PixelBuffer.
func LoadPixelBuffer(path string) (*PixelBuffer, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return NewPixelBufferFromImage(img), nil
}

// ToImage copies the buffer into a fresh *image.RGBA.
func (p *PixelBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	copy(img.Pix, p.Pix)
	return img
}
