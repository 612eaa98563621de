package imageproc

import (
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/disintegration/imaging"
)

type colorCount struct {
	key   uint32
	rgb   [3]uint8
	count int
}

type colorBox struct {
	colors []colorCount
	total  int
}

func (b *colorBox) widestChannel() (int, int) {
	lo := [3]uint8{255, 255, 255}
	hi := [3]uint8{}
	for _, c := range b.colors {
		for ch := 0; ch < 3; ch++ {
			lo[ch] = min(lo[ch], c.rgb[ch])
			hi[ch] = max(hi[ch], c.rgb[ch])
		}
	}

	channel, span := 0, -1
	for ch := 0; ch < 3; ch++ {
		if s := int(hi[ch]) - int(lo[ch]); s > span {
			channel, span = ch, s
		}
	}
	return channel, span
}

func (b *colorBox) split() (*colorBox, *colorBox) {
	ch, _ := b.widestChannel()
	sort.SliceStable(b.colors, func(i, j int) bool {
		if b.colors[i].rgb[ch] != b.colors[j].rgb[ch] {
			return b.colors[i].rgb[ch] < b.colors[j].rgb[ch]
		}
		return b.colors[i].key < b.colors[j].key
	})

	half := b.total / 2
	cut, acc := 0, 0
	for cut < len(b.colors)-1 {
		acc += b.colors[cut].count
		cut++
		if acc >= half {
			break
		}
	}

	lower := &colorBox{colors: b.colors[:cut]}
	upper := &colorBox{colors: b.colors[cut:]}
	for _, c := range lower.colors {
		lower.total += c.count
	}
	upper.total = b.total - lower.total
	return lower, upper
}

func (b *colorBox) average() color.NRGBA {
	var r, g, bl int
	for _, c := range b.colors {
		r += int(c.rgb[0]) * c.count
		g += int(c.rgb[1]) * c.count
		bl += int(c.rgb[2]) * c.count
	}
	half := b.total / 2
	return color.NRGBA{
		R: uint8((r + half) / b.total),
		G: uint8((g + half) / b.total),
		B: uint8((bl + half) / b.total),
		A: 0xff,
	}
}

// medianCutPalette builds an adaptive palette of at most maxColors entries.
// Fully transparent pixels are skipped and alpha is otherwise ignored. When
// the image holds no more than maxColors distinct colours the palette is
// exactly that set.
func medianCutPalette(img *image.NRGBA, maxColors int) color.Palette {
	counts := make(map[uint32]int)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if img.Pix[i+3] == 0 {
			continue
		}
		key := uint32(img.Pix[i])<<16 | uint32(img.Pix[i+1])<<8 | uint32(img.Pix[i+2])
		counts[key]++
	}

	colors := make([]colorCount, 0, len(counts))
	total := 0
	for key, n := range counts {
		colors = append(colors, colorCount{
			key:   key,
			rgb:   [3]uint8{uint8(key >> 16), uint8(key >> 8), uint8(key)},
			count: n,
		})
		total += n
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i].key < colors[j].key })

	boxes := []*colorBox{{colors: colors, total: total}}
	for len(boxes) < maxColors {
		idx, best := -1, 0
		for i, b := range boxes {
			if len(b.colors) < 2 {
				continue
			}
			if _, span := b.widestChannel(); span > best {
				idx, best = i, span
			}
		}
		if idx < 0 {
			break
		}
		lower, upper := boxes[idx].split()
		boxes[idx] = lower
		boxes = append(boxes, upper)
	}

	palette := make(color.Palette, 0, len(boxes))
	for _, b := range boxes {
		if b.total > 0 {
			palette = append(palette, b.average())
		}
	}
	return palette
}

// posterize maps every pixel to its nearest entry of an adaptive palette and
// expands the result back to full colour depth.
func posterize(img image.Image, colors int) *image.NRGBA {
	src := imaging.Clone(flatten(img))
	palette := medianCutPalette(src, colors)
	if len(palette) == 0 {
		return src
	}

	bounds := src.Bounds()
	paletted := image.NewPaletted(bounds, palette)
	draw.Draw(paletted, bounds, src, bounds.Min, draw.Src)
	return imaging.Clone(paletted)
}

// paletteQuantizer feeds the GIF encoder a median-cut palette instead of the
// fixed Plan 9 one, so images within the colour budget encode losslessly.
type paletteQuantizer struct{}

func (paletteQuantizer) Quantize(p color.Palette, m image.Image) color.Palette {
	src := imaging.Clone(m)

	size := cap(p) - len(p)
	if size <= 0 {
		size = 256
	}

	transparent := hasTransparentPixel(src)
	if transparent {
		size--
	}

	p = append(p, medianCutPalette(src, size)...)
	if transparent {
		p = append(p, color.NRGBA{})
	}
	return p
}

func hasTransparentPixel(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 0 {
			return true
		}
	}
	return false
}
