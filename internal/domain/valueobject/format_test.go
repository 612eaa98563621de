package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-nsantos/photo-effects/internal/domain"
	"github.com/marcos-nsantos/photo-effects/internal/domain/valueobject"
)

func TestParseExportFormat(t *testing.T) {
	tests := map[string]valueobject.ImageFormat{
		"png":  valueobject.FormatPNG,
		"PNG":  valueobject.FormatPNG,
		"jpg":  valueobject.FormatJPEG,
		"JPEG": valueobject.FormatJPEG,
		".bmp": valueobject.FormatBMP,
		"gif":  valueobject.FormatGIF,
		"tif":  valueobject.FormatTIFF,
		"tiff": valueobject.FormatTIFF,
	}
	for name, want := range tests {
		got, err := valueobject.ParseExportFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	for _, bad := range []string{"webp", "psd", "", "../png"} {
		_, err := valueobject.ParseExportFormat(bad)
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat, bad)
	}
}

func TestImageFormat_Properties(t *testing.T) {
	assert.Equal(t, "jpg", valueobject.FormatJPEG.Extension())
	assert.Equal(t, "image/jpeg", valueobject.FormatJPEG.ContentType())
	assert.Equal(t, "application/octet-stream", valueobject.FormatUnknown.ContentType())
	assert.False(t, valueobject.FormatJPEG.SupportsAlpha())
	assert.True(t, valueobject.FormatPNG.SupportsAlpha())
	assert.False(t, valueobject.FormatWebP.CanEncode())
	for _, f := range valueobject.ExportFormats {
		assert.True(t, f.CanEncode(), f.String())
	}
}

func TestFormatFromContentType(t *testing.T) {
	assert.Equal(t, valueobject.FormatPNG, valueobject.FormatFromContentType("image/png"))
	assert.Equal(t, valueobject.FormatTIFF, valueobject.FormatFromContentType("image/tiff; charset=binary"))
	assert.Equal(t, valueobject.FormatUnknown, valueobject.FormatFromContentType("text/plain"))
}
