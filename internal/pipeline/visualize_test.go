package pipeline

import (
	"image"
	"image/color"
	"testing"

	"github.com/MeKo-Tech/hemoscan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOverlayDrawsBox(t *testing.T) {
	img := testutil.GenerateBowlImage(testutil.DefaultBowlImageConfig())
	res := sampleResult()

	out := RenderOverlay(img, res)
	require.NotNil(t, out)
	assert.Equal(t, img.Bounds().Size(), out.Bounds().Size())

	// Box edge pixels take the profile's display color (#D32F2F).
	f := res.Findings[0]
	r, g, b, _ := out.At(int(f.Box.MinX), int(f.Box.MinY)).RGBA()
	assert.Equal(t, uint32(0xD3)*0x101, r)
	assert.Equal(t, uint32(0x2F)*0x101, g)
	assert.Equal(t, uint32(0x2F)*0x101, b)
}

func TestRenderOverlayLeavesInputUntouched(t *testing.T) {
	img := testutil.GenerateBowlImage(testutil.DefaultBowlImageConfig())
	before := make([]byte, len(img.Pix))
	copy(before, img.Pix)

	_ = RenderOverlay(img, sampleResult())
	assert.Equal(t, before, img.Pix)
}

func TestRenderOverlayNilCases(t *testing.T) {
	assert.Nil(t, RenderOverlay(nil, sampleResult()))

	img := testutil.UniformImage(testutil.SmallSize, color.RGBA{R: 10, G: 10, B: 10, A: 255})
	out := RenderOverlay(img, nil)
	require.NotNil(t, out)
	assert.Equal(t, img.Bounds().Size(), out.Bounds().Size())
}

func TestRenderOverlayEmptyResult(t *testing.T) {
	img := testutil.GenerateBowlImage(testutil.DefaultBowlImageConfig())
	out := RenderOverlay(img, &Result{Width: 320, Height: 320})
	require.NotNil(t, out)
	// No findings: pixel-identical copy.
	assert.Equal(t, img.Pix, out.Pix)
}

func TestParseHexColor(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0x8B, A: 255}, parseHexColor("#8B0000"))
	assert.Equal(t, color.RGBA{R: 0x1C, G: 0x1C, B: 0x1C, A: 255}, parseHexColor("#1c1c1c"))
	// Malformed values fall back to the default red.
	fallback := parseHexColor("")
	assert.Equal(t, parseHexColor("nothex!"), fallback)
	assert.Equal(t, uint8(255), fallback.A)
}

func TestDrawShapeStaysInBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	res := &Result{Width: 40, Height: 40, Findings: sampleResult().Findings[:1]}
	// Finding box extends past this tiny image; drawing must not panic.
	assert.NotPanics(t, func() { _ = RenderOverlay(img, res) })
}
