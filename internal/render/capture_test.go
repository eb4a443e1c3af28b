package render

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestDownscale(t *testing.T) {
	img := solid(400, 200, color.RGBA{200, 10, 10, 255})

	assert.Same(t, img, Downscale(img, 0, 0))
	assert.Same(t, img, Downscale(img, 800, 600))

	out := Downscale(img, 100, 0)
	assert.Equal(t, image.Rect(0, 0, 100, 50), out.Bounds())

	out = Downscale(img, 100, 20)
	assert.Equal(t, image.Rect(0, 0, 40, 20), out.Bounds())

	r, _, _, _ := out.At(20, 10).RGBA()
	assert.InDelta(t, 200, r>>8, 2, "solid color survives resampling")
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, solid(64, 32, color.RGBA{0, 0, 255, 255}), 16))

	dec, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 8), dec.Bounds())

	assert.ErrorIs(t, EncodePNG(&buf, nil, 0), ErrNoFrame)
}

func TestGIFRecorder(t *testing.T) {
	rec := NewGIFRecorder(10, 32)
	var buf bytes.Buffer
	assert.ErrorIs(t, rec.Encode(&buf), ErrNoFrame)

	rec.Add(solid(64, 64, color.RGBA{255, 0, 0, 255}))
	rec.Add(nil)
	rec.Add(solid(64, 64, color.RGBA{0, 255, 0, 255}))
	require.Equal(t, 2, rec.Len())

	require.NoError(t, rec.Encode(&buf))
	anim, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 2)
	assert.Equal(t, []int{10, 10}, anim.Delay)
	assert.Equal(t, image.Rect(0, 0, 32, 32), anim.Image[0].Bounds())
}
