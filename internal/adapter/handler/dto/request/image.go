package request

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/marcos-nsantos/photo-effects/internal/domain"
	"github.com/marcos-nsantos/photo-effects/internal/domain/valueobject"
)

// TransformRequest carries the optional parameters of a transform. It binds
// from both the HTML form and a JSON body. Factor stays textual so a blank
// form field reads as missing rather than zero.
type TransformRequest struct {
	Color  string      `form:"color" json:"color"`
	Type   string      `form:"type" json:"type"`
	Factor json.Number `form:"factor" json:"factor"`
}

// Params converts the request into domain parameters for kind. Fields the
// kind does not use are ignored.
func (r TransformRequest) Params(kind valueobject.TransformKind) (valueobject.TransformParams, error) {
	var params valueobject.TransformParams

	switch kind {
	case valueobject.TransformRemoveBackground:
		if strings.TrimSpace(r.Color) == "" {
			return params, nil
		}
		color, err := valueobject.ParseRGB(r.Color)
		if err != nil {
			return params, err
		}
		params.Color = &color
	case valueobject.TransformEnhance:
		enhancement, err := valueobject.ParseEnhancementKind(r.Type)
		if err != nil {
			return params, err
		}
		factor, err := parseFactor(r.Factor)
		if err != nil {
			return params, err
		}
		params.Enhancement = enhancement
		params.Factor = factor
	}

	return params, nil
}

func parseFactor(raw json.Number) (float64, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return 0, fmt.Errorf("%w: factor is required", domain.ErrInvalidFactor)
	}
	factor, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidFactor, text)
	}
	return factor, nil
}
