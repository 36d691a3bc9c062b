package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBowlImage(t *testing.T) {
	cfg := DefaultBowlImageConfig()
	img := GenerateBowlImage(cfg)

	require.Equal(t, cfg.Size.Width, img.Bounds().Dx())
	require.Equal(t, cfg.Size.Height, img.Bounds().Dy())

	cx, cy := BowlCenter(cfg)
	r, g, b, _ := img.At(cx, cy).RGBA()
	assert.Equal(t, uint32(cfg.Porcelain.R)*0x101, r)
	assert.Equal(t, uint32(cfg.Porcelain.G)*0x101, g)
	assert.Equal(t, uint32(cfg.Porcelain.B)*0x101, b)

	r, _, _, _ = img.At(0, 0).RGBA()
	assert.Equal(t, uint32(cfg.Floor.R)*0x101, r)
}

func TestDrawPatchClipsToImage(t *testing.T) {
	cfg := DefaultBowlImageConfig()
	img := GenerateBowlImage(cfg)
	assert.NotPanics(t, func() {
		DrawPatch(img, cfg.Size.Width-5, cfg.Size.Height-5, 20, 20, cfg.Floor)
	})
}

func TestToBuffer(t *testing.T) {
	img := GenerateBowlImage(DefaultBowlImageConfig())
	buf := ToBuffer(img)
	require.NoError(t, buf.Validate())
	assert.Equal(t, img.Bounds().Dx(), buf.Width)
}
