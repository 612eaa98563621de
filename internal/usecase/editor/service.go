package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/marcos-nsantos/photo-effects/internal/adapter/storage"
	"github.com/marcos-nsantos/photo-effects/internal/domain"
	"github.com/marcos-nsantos/photo-effects/internal/domain/entity"
	"github.com/marcos-nsantos/photo-effects/internal/domain/valueobject"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/metrics"
)

const maxIDAttempts = 3

type Service struct {
	storage   storage.ImageStorage
	processor storage.ImageProcessor
	metrics   metrics.ImageMetrics
}

func NewService(
	imageStorage storage.ImageStorage,
	imageProcessor storage.ImageProcessor,
	imageMetrics metrics.ImageMetrics,
) *Service {
	if imageMetrics == nil {
		imageMetrics = metrics.Noop{}
	}
	return &Service{
		storage:   imageStorage,
		processor: imageProcessor,
		metrics:   imageMetrics,
	}
}

type UploadInput struct {
	File     io.Reader
	Filename string
}

type TransformInput struct {
	SourceID string
	Kind     valueobject.TransformKind
	Params   valueobject.TransformParams
}

// Upload validates that the bytes decode as an image and stores them under a
// fresh identifier derived from the sanitized filename.
func (s *Service) Upload(ctx context.Context, input UploadInput) (_ *entity.StoredImage, err error) {
	defer func() { s.metrics.IncUploads(outcome(err)) }()

	if input.File == nil {
		return nil, fmt.Errorf("%w: no file part in the request", domain.ErrMissingInput)
	}
	if strings.TrimSpace(input.Filename) == "" {
		return nil, fmt.Errorf("%w: no selected file", domain.ErrMissingInput)
	}

	data, err := io.ReadAll(input.File)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrMissingInput)
	}

	encoded, err := s.processor.Inspect(data)
	if err != nil {
		return nil, err
	}

	id, err := s.newUploadID(ctx, input.Filename)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Put(ctx, id, data, encoded.Format.ContentType()); err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}
	s.metrics.AddStoredBytes("upload", len(data))

	return entity.NewStoredImage(id, encoded), nil
}

func (s *Service) newUploadID(ctx context.Context, filename string) (string, error) {
	for range maxIDAttempts {
		id := valueobject.NewUploadID(filename)
		exists, err := s.storage.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("checking identifier: %w", err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", errors.New("could not allocate a unique identifier")
}

// Transform applies exactly one operation to the stored source and stores
// the output under the identifier derived from the request.
func (s *Service) Transform(ctx context.Context, input TransformInput) (_ *entity.TransformResult, err error) {
	defer func() { s.metrics.IncTransforms(input.Kind.String(), outcome(err)) }()

	if err := input.Params.Validate(input.Kind); err != nil {
		return nil, err
	}

	outputID, err := valueobject.DeriveID(input.SourceID, input.Kind, input.Params)
	if err != nil {
		return nil, err
	}

	data, err := s.storage.Get(ctx, input.SourceID)
	if err != nil {
		return nil, err
	}

	encoded, err := s.processor.Transform(data, input.Kind, input.Params)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Put(ctx, outputID, encoded.Data, encoded.Format.ContentType()); err != nil {
		return nil, fmt.Errorf("storing %s: %w", outputID, err)
	}
	s.metrics.AddStoredBytes("transform", len(encoded.Data))

	return &entity.TransformResult{
		Image: entity.NewStoredImage(outputID, encoded),
		Kind:  input.Kind,
		Label: Label(input.Kind, input.Params),
	}, nil
}

// Export re-encodes a stored image into one of the allow-listed formats.
// Nothing is written to storage.
func (s *Service) Export(ctx context.Context, id, formatName string) (_ *entity.Export, err error) {
	format, err := valueobject.ParseExportFormat(formatName)
	defer func() { s.metrics.IncExports(format.String(), outcome(err)) }()
	if err != nil {
		return nil, err
	}
	if err := valueobject.ValidateID(id); err != nil {
		return nil, err
	}

	data, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	encoded, err := s.processor.Convert(data, format)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(formatName), "."))
	return &entity.Export{
		Filename:    strings.TrimSuffix(id, path.Ext(id)) + "." + ext,
		ContentType: encoded.Format.ContentType(),
		Data:        encoded.Data,
	}, nil
}

// Retrieve returns the stored bytes unchanged. The content type is sniffed
// from the bytes rather than trusted from the identifier.
func (s *Service) Retrieve(ctx context.Context, id string) (*entity.StoredImage, error) {
	if err := valueobject.ValidateID(id); err != nil {
		return nil, err
	}

	data, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	contentType := mimetype.Detect(data).String()
	return &entity.StoredImage{
		ID:          id,
		Data:        data,
		Format:      valueobject.FormatFromContentType(contentType),
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Label is the display label of a transform result.
func Label(kind valueobject.TransformKind, params valueobject.TransformParams) string {
	switch kind {
	case valueobject.TransformEnhance:
		return fmt.Sprintf("%s (%s x%.2f)", kind.Label(), params.Enhancement, params.Factor)
	case valueobject.TransformRemoveBackground:
		if params.Color != nil && *params.Color != valueobject.White {
			return fmt.Sprintf("%s (#%s)", kind.Label(), params.Color.Hex())
		}
		return kind.Label()
	default:
		return kind.Label()
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return domain.KindOf(err)
}
