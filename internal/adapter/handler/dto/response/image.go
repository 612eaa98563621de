package response

import (
	"time"

	"github.com/marcos-nsantos/photo-effects/internal/domain/entity"
	"github.com/marcos-nsantos/photo-effects/internal/domain/valueobject"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/session"
)

type ImageResponse struct {
	ID          string    `json:"id"`
	Format      string    `json:"format"`
	ContentType string    `json:"content_type"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

type TransformResponse struct {
	ImageResponse
	SourceID string `json:"source_id"`
	Kind     string `json:"kind"`
	Label    string `json:"label"`
}

type TransformKindResponse struct {
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

type CatalogResponse struct {
	Transforms    []TransformKindResponse `json:"transforms"`
	Enhancements  []string                `json:"enhancements"`
	ExportFormats []string                `json:"export_formats"`
}

func ImageURL(id string) string {
	return "/uploads/" + id
}

func ImageFromEntity(img *entity.StoredImage) ImageResponse {
	return ImageResponse{
		ID:          img.ID,
		Format:      img.Format.String(),
		ContentType: img.ContentType,
		Width:       img.Width,
		Height:      img.Height,
		Size:        img.Size(),
		URL:         ImageURL(img.ID),
		CreatedAt:   img.CreatedAt,
	}
}

func TransformFromEntity(sourceID string, result *entity.TransformResult) TransformResponse {
	return TransformResponse{
		ImageResponse: ImageFromEntity(result.Image),
		SourceID:      sourceID,
		Kind:          result.Kind.Slug(),
		Label:         result.Label,
	}
}

func Catalog() CatalogResponse {
	catalog := CatalogResponse{}
	for _, kind := range valueobject.TransformKinds() {
		catalog.Transforms = append(catalog.Transforms, TransformKindResponse{Slug: kind.Slug(), Label: kind.Label()})
	}
	for _, e := range valueobject.EnhancementKinds {
		catalog.Enhancements = append(catalog.Enhancements, e.String())
	}
	for _, f := range valueobject.ExportFormats {
		catalog.ExportFormats = append(catalog.ExportFormats, f.String())
	}
	return catalog
}

type Effect struct {
	ID    string
	Label string
}

// IndexPage is the view model of the single HTML page.
type IndexPage struct {
	Flashes       []session.Message
	SourceID      string
	Effects       []Effect
	Transforms    []TransformKindResponse
	Enhancements  []string
	ExportFormats []string
}

func NewIndexPage(flashes []session.Message) IndexPage {
	catalog := Catalog()
	return IndexPage{
		Flashes:       flashes,
		Transforms:    catalog.Transforms,
		Enhancements:  catalog.Enhancements,
		ExportFormats: catalog.ExportFormats,
	}
}
