package imageproc

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/marcos-nsantos/photo-effects/internal/domain"
	"github.com/marcos-nsantos/photo-effects/internal/domain/entity"
	"github.com/marcos-nsantos/photo-effects/internal/domain/valueobject"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/config"
)

const (
	JPEGQuality     = 85
	CompressQuality = 20
	PosterizeColors = 64
	BlurSigma       = 2.0
)

// output describes how a transformed image is written back.
type output struct {
	img     image.Image
	format  valueobject.ImageFormat
	quality int
}

type operation func(img image.Image, source valueobject.ImageFormat, params valueobject.TransformParams) output

type Processor struct {
	jpegQuality     int
	compressQuality int
	posterizeColors int
	blurSigma       float64
	operations      map[valueobject.TransformKind]operation
}

func NewProcessor(cfg config.ImageConfig) *Processor {
	p := &Processor{
		jpegQuality:     orDefault(cfg.JPEGQuality, JPEGQuality),
		compressQuality: orDefault(cfg.CompressQuality, CompressQuality),
		posterizeColors: orDefault(cfg.PosterizeColors, PosterizeColors),
		blurSigma:       cfg.BlurSigma,
	}
	if p.blurSigma <= 0 {
		p.blurSigma = BlurSigma
	}

	p.operations = map[valueobject.TransformKind]operation{
		valueobject.TransformBlur:             p.blur,
		valueobject.TransformGrayscale:        p.grayscale,
		valueobject.TransformNegative:         p.negative,
		valueobject.TransformCompress:         p.compress,
		valueobject.TransformCartoon:          p.cartoon,
		valueobject.TransformRemoveBackground: p.removeBackground,
		valueobject.TransformEnhance:          p.enhance,
	}
	return p
}

// Inspect validates that data decodes as a supported image.
func (p *Processor) Inspect(data []byte) (*entity.EncodedImage, error) {
	img, format, err := decode(data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &entity.EncodedImage{
		Data:   data,
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

func (p *Processor) Transform(data []byte, kind valueobject.TransformKind, params valueobject.TransformParams) (*entity.EncodedImage, error) {
	op, ok := p.operations[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedTransform, kind)
	}
	if err := params.Validate(kind); err != nil {
		return nil, err
	}

	img, format, err := decode(data)
	if err != nil {
		return nil, err
	}

	out := op(img, format, params)
	return encode(out.img, out.format, out.quality)
}

// Convert re-encodes data into format, flattening alpha when the target
// cannot carry it.
func (p *Processor) Convert(data []byte, format valueobject.ImageFormat) (*entity.EncodedImage, error) {
	if !format.CanEncode() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}

	img, _, err := decode(data)
	if err != nil {
		return nil, err
	}

	return encode(img, format, p.jpegQuality)
}

func (p *Processor) same(img image.Image, source valueobject.ImageFormat) output {
	if !source.CanEncode() {
		source = valueobject.FormatPNG
	}
	return output{img: img, format: source, quality: p.jpegQuality}
}

func (p *Processor) blur(img image.Image, source valueobject.ImageFormat, _ valueobject.TransformParams) output {
	return p.same(imaging.Blur(img, p.blurSigma), source)
}

func (p *Processor) grayscale(img image.Image, source valueobject.ImageFormat, _ valueobject.TransformParams) output {
	return p.same(grayscale(img), source)
}

func (p *Processor) negative(img image.Image, source valueobject.ImageFormat, _ valueobject.TransformParams) output {
	return p.same(negative(img), source)
}

func (p *Processor) compress(img image.Image, _ valueobject.ImageFormat, _ valueobject.TransformParams) output {
	return output{img: flatten(img), format: valueobject.FormatJPEG, quality: p.compressQuality}
}

func (p *Processor) cartoon(img image.Image, _ valueobject.ImageFormat, _ valueobject.TransformParams) output {
	return output{img: posterize(img, p.posterizeColors), format: valueobject.FormatJPEG, quality: p.jpegQuality}
}

func (p *Processor) removeBackground(img image.Image, _ valueobject.ImageFormat, params valueobject.TransformParams) output {
	return output{img: removeBackground(img, params.BackgroundColor()), format: valueobject.FormatPNG}
}

func (p *Processor) enhance(img image.Image, source valueobject.ImageFormat, params valueobject.TransformParams) output {
	return p.same(enhance(img, params.Enhancement, params.Factor), source)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
