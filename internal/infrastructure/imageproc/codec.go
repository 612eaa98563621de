package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/marcos-nsantos/photo-effects/internal/domain"
	"github.com/marcos-nsantos/photo-effects/internal/domain/entity"
	"github.com/marcos-nsantos/photo-effects/internal/domain/valueobject"
)

// MaxPixels bounds decoded image area to keep a single request from
// allocating unbounded memory.
const MaxPixels = 50_000_000

func decode(data []byte) (image.Image, valueobject.ImageFormat, error) {
	if len(data) == 0 {
		return nil, valueobject.FormatUnknown, fmt.Errorf("%w: empty input", domain.ErrDecodeFailed)
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, valueobject.FormatUnknown, fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, valueobject.FormatUnknown, fmt.Errorf("%w: empty dimensions", domain.ErrDecodeFailed)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, valueobject.FormatUnknown, fmt.Errorf("%w: %dx%d", domain.ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	format := valueobject.FormatFromDecoder(name)
	if format == valueobject.FormatUnknown {
		return nil, format, fmt.Errorf("%w: unsupported format %q", domain.ErrDecodeFailed, name)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}

	return img, format, nil
}

func encode(img image.Image, format valueobject.ImageFormat, quality int) (*entity.EncodedImage, error) {
	if !format.SupportsAlpha() {
		img = flatten(img)
	}

	var buf bytes.Buffer
	var err error

	switch format {
	case valueobject.FormatPNG:
		err = png.Encode(&buf, img)
	case valueobject.FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	case valueobject.FormatBMP:
		err = bmp.Encode(&buf, img)
	case valueobject.FormatGIF:
		err = gif.Encode(&buf, img, &gif.Options{NumColors: 256, Quantizer: paletteQuantizer{}})
	case valueobject.FormatTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", format, err)
	}

	bounds := img.Bounds()
	return &entity.EncodedImage{
		Data:   buf.Bytes(),
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

type opaquer interface {
	Opaque() bool
}

// flatten drops the alpha channel and keeps the stored colour values.
func flatten(img image.Image) image.Image {
	if o, ok := img.(opaquer); ok && o.Opaque() {
		return img
	}

	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
