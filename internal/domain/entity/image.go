package entity

import (
	"time"

	"github.com/marcos-nsantos/photo-effects/internal/domain/valueobject"
)

// StoredImage is an uploaded original or a transform output.
type StoredImage struct {
	ID          string
	Data        []byte
	Format      valueobject.ImageFormat
	ContentType string
	Width       int
	Height      int
	CreatedAt   time.Time
}

func NewStoredImage(id string, encoded *EncodedImage) *StoredImage {
	return &StoredImage{
		ID:          id,
		Data:        encoded.Data,
		Format:      encoded.Format,
		ContentType: encoded.Format.ContentType(),
		Width:       encoded.Width,
		Height:      encoded.Height,
		CreatedAt:   time.Now().UTC(),
	}
}

func (s *StoredImage) Size() int64 {
	return int64(len(s.Data))
}

// EncodedImage is the output of a codec operation.
type EncodedImage struct {
	Data   []byte
	Format valueobject.ImageFormat
	Width  int
	Height int
}

type TransformResult struct {
	Image *StoredImage
	Kind  valueobject.TransformKind
	Label string
}

// Export is a stored image re-encoded for download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}
