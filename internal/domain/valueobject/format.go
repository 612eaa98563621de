package valueobject

import (
	"fmt"
	"strings"

	"github.com/marcos-nsantos/photo-effects/internal/domain"
)

type ImageFormat int

const (
	FormatUnknown ImageFormat = iota
	FormatPNG
	FormatJPEG
	FormatBMP
	FormatGIF
	FormatTIFF
	FormatWebP
)

// ExportFormats is the download allow-list, in display order.
var ExportFormats = []ImageFormat{FormatPNG, FormatJPEG, FormatBMP, FormatGIF, FormatTIFF}

// ParseExportFormat resolves a user supplied format name case-insensitively.
// Only encodable formats are accepted.
func ParseExportFormat(name string) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "bmp":
		return FormatBMP, nil
	case "gif":
		return FormatGIF, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, name)
	}
}

// FormatFromDecoder maps the format name reported by image.Decode.
func FormatFromDecoder(name string) ImageFormat {
	switch name {
	case "png":
		return FormatPNG
	case "jpeg":
		return FormatJPEG
	case "bmp":
		return FormatBMP
	case "gif":
		return FormatGIF
	case "tiff":
		return FormatTIFF
	case "webp":
		return FormatWebP
	default:
		return FormatUnknown
	}
}

func (f ImageFormat) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatBMP:
		return "bmp"
	case FormatGIF:
		return "gif"
	case FormatTIFF:
		return "tiff"
	case FormatWebP:
		return "webp"
	default:
		return "unknown"
	}
}

func (f ImageFormat) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return f.String()
}

func (f ImageFormat) ContentType() string {
	switch f {
	case FormatUnknown:
		return "application/octet-stream"
	default:
		return "image/" + f.String()
	}
}

func (f ImageFormat) CanEncode() bool {
	switch f {
	case FormatPNG, FormatJPEG, FormatBMP, FormatGIF, FormatTIFF:
		return true
	default:
		return false
	}
}

func (f ImageFormat) SupportsAlpha() bool {
	return f != FormatJPEG && f != FormatUnknown
}

// FormatFromContentType maps a sniffed MIME type to a known format.
func FormatFromContentType(contentType string) ImageFormat {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])) {
	case "image/png":
		return FormatPNG
	case "image/jpeg":
		return FormatJPEG
	case "image/bmp", "image/x-ms-bmp":
		return FormatBMP
	case "image/gif":
		return FormatGIF
	case "image/tiff":
		return FormatTIFF
	case "image/webp":
		return FormatWebP
	default:
		return FormatUnknown
	}
}
