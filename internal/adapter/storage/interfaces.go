package storage

import (
	"context"

	"github.com/marcos-nsantos/photo-effects/internal/domain/entity"
	"github.com/marcos-nsantos/photo-effects/internal/domain/valueobject"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/storage_mocks.go -package=mocks

type ImageStorage interface {
	Put(ctx context.Context, id string, data []byte, contentType string) error
	Get(ctx context.Context, id string) ([]byte, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type ImageProcessor interface {
	Inspect(data []byte) (*entity.EncodedImage, error)
	Transform(data []byte, kind valueobject.TransformKind, params valueobject.TransformParams) (*entity.EncodedImage, error)
	Convert(data []byte, format valueobject.ImageFormat) (*entity.EncodedImage, error)
}
