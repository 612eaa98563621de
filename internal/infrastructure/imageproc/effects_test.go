package imageproc

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func noisy(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		n := i / 4
		img.Pix[i] = uint8(n * 37)
		img.Pix[i+1] = uint8(n * 91)
		img.Pix[i+2] = uint8(n * 13)
		img.Pix[i+3] = 255
	}
	return img
}

func TestNegative_IsInvolution(t *testing.T) {
	src := noisy(17, 11)

	twice := negative(negative(src))

	assert.Equal(t, src.Pix, twice.Pix)
}

func TestPosterize_BoundsPalette(t *testing.T) {
	src := noisy(64, 64)

	out := posterize(src, 64)

	colors := map[color.NRGBA]struct{}{}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			colors[out.NRGBAAt(x, y)] = struct{}{}
		}
	}
	assert.LessOrEqual(t, len(colors), 64)
	assert.Equal(t, src.Bounds(), out.Bounds())
}

func TestPosterize_KeepsSmallPalettes(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	src.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{R: 255, A: 255})

	out := posterize(src, 64)

	assert.Equal(t, src.Pix, out.Pix)
}

func TestMedianCutPalette_Deterministic(t *testing.T) {
	src := noisy(32, 32)

	assert.Equal(t, medianCutPalette(src, 16), medianCutPalette(src, 16))
	assert.Len(t, medianCutPalette(src, 16), 16)
}

func TestBlend(t *testing.T) {
	assert.Equal(t, uint8(200), blend(0, 200, 1))
	assert.Equal(t, uint8(0), blend(0, 200, 0))
	assert.Equal(t, uint8(255), blend(0, 200, 2))
	assert.Equal(t, uint8(100), blend(100, 200, 0))
}

func TestGrayscale_SingleChannel(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	gray := grayscale(src)

	assert.Len(t, gray.Pix, 1)
	assert.Equal(t, uint8(76), gray.Pix[0])
}

func TestFlatten_DropsAlphaKeepsRGB(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 40})

	out := flatten(src)

	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, color.NRGBAModel.Convert(out.At(0, 0)))
}
