package imageproc

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/marcos-nsantos/photo-effects/internal/domain/valueobject"
)

var smoothKernel = [9]float64{
	1, 1, 1,
	1, 5, 1,
	1, 1, 1,
}

// grayscale converts to single channel luminance using ITU-R 601-2 weights.
func grayscale(img image.Image) *image.Gray {
	src := imaging.Clone(flatten(img))
	bounds := src.Bounds()
	dst := image.NewGray(bounds)

	for y := 0; y < bounds.Dy(); y++ {
		si := y * src.Stride
		di := y * dst.Stride
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b := uint32(src.Pix[si]), uint32(src.Pix[si+1]), uint32(src.Pix[si+2])
			dst.Pix[di] = uint8((r*19595 + g*38470 + b*7471 + 1<<15) >> 16)
			si += 4
			di++
		}
	}
	return dst
}

func negative(img image.Image) *image.NRGBA {
	return imaging.Invert(flatten(img))
}

// removeBackground makes every pixel whose RGB exactly equals target fully
// transparent. Colour values are left in place and near matches are kept.
func removeBackground(img image.Image, target valueobject.RGB) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		if dst.Pix[i] == target.R && dst.Pix[i+1] == target.G && dst.Pix[i+2] == target.B {
			dst.Pix[i+3] = 0
		}
	}
	return dst
}

func enhance(img image.Image, kind valueobject.EnhancementKind, factor float64) *image.NRGBA {
	switch kind {
	case valueobject.EnhanceBrightness:
		return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
			return color.NRGBA{
				R: blend(0, c.R, factor),
				G: blend(0, c.G, factor),
				B: blend(0, c.B, factor),
				A: c.A,
			}
		})
	case valueobject.EnhanceContrast:
		mean := meanLuminance(img)
		return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
			return color.NRGBA{
				R: blend(mean, c.R, factor),
				G: blend(mean, c.G, factor),
				B: blend(mean, c.B, factor),
				A: c.A,
			}
		})
	case valueobject.EnhanceSharpness:
		src := imaging.Clone(img)
		smooth := imaging.Convolve3x3(src, smoothKernel, &imaging.ConvolveOptions{Normalize: true})
		for i := 0; i+3 < len(src.Pix); i += 4 {
			for ch := 0; ch < 3; ch++ {
				src.Pix[i+ch] = blend(float64(smooth.Pix[i+ch]), src.Pix[i+ch], factor)
			}
		}
		return src
	default:
		return imaging.Clone(img)
	}
}

// blend interpolates from the degenerate value towards v. factor 1 returns v,
// 0 returns the degenerate value, and larger factors extrapolate.
func blend(degenerate float64, v uint8, factor float64) uint8 {
	out := degenerate + factor*(float64(v)-degenerate)
	return uint8(math.Max(0, math.Min(255, math.Round(out))))
}

func meanLuminance(img image.Image) float64 {
	gray := grayscale(img)
	if len(gray.Pix) == 0 {
		return 0
	}

	var sum uint64
	for _, v := range gray.Pix {
		sum += uint64(v)
	}
	return math.Floor(float64(sum)/float64(len(gray.Pix)) + 0.5)
}
