package handler

import (
	"context"

	"github.com/marcos-nsantos/photo-effects/internal/domain/entity"
	"github.com/marcos-nsantos/photo-effects/internal/usecase/editor"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/handler_mocks.go -package=mocks

type ImageService interface {
	Upload(ctx context.Context, input editor.UploadInput) (*entity.StoredImage, error)
	Transform(ctx context.Context, input editor.TransformInput) (*entity.TransformResult, error)
	Export(ctx context.Context, id, format string) (*entity.Export, error)
	Retrieve(ctx context.Context, id string) (*entity.StoredImage, error)
}
