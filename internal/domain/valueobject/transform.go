package valueobject

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/marcos-nsantos/photo-effects/internal/domain"
)

type TransformKind int

const (
	TransformBlur TransformKind = iota + 1
	TransformGrayscale
	TransformNegative
	TransformCompress
	TransformCartoon
	TransformRemoveBackground
	TransformEnhance
)

type transformInfo struct {
	slug   string
	prefix string
	label  string
}

var transformTable = map[TransformKind]transformInfo{
	TransformBlur:             {slug: "blur", prefix: "blurred", label: "Blurred Image"},
	TransformGrayscale:        {slug: "black_and_white", prefix: "bw", label: "Black and White"},
	TransformNegative:         {slug: "negative", prefix: "negative", label: "Negative Image"},
	TransformCompress:         {slug: "compress", prefix: "compressed", label: "Compressed Image"},
	TransformCartoon:          {slug: "cartoon", prefix: "cartoon", label: "Cartoon Image"},
	TransformRemoveBackground: {slug: "remove_background", prefix: "bg_removed", label: "Background Removed"},
	TransformEnhance:          {slug: "enhance", prefix: "enhanced", label: "Enhanced Image"},
}

// TransformKinds lists every kind in route registration order.
func TransformKinds() []TransformKind {
	return []TransformKind{
		TransformBlur,
		TransformGrayscale,
		TransformNegative,
		TransformCompress,
		TransformCartoon,
		TransformRemoveBackground,
		TransformEnhance,
	}
}

func ParseTransformKind(slug string) (TransformKind, error) {
	for kind, info := range transformTable {
		if info.slug == slug {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrUnsupportedTransform, slug)
}

func (k TransformKind) Valid() bool {
	_, ok := transformTable[k]
	return ok
}

// Slug is the route segment naming the transform.
func (k TransformKind) Slug() string {
	return transformTable[k].slug
}

// Prefix is prepended to the source identifier to name the output.
func (k TransformKind) Prefix() string {
	return transformTable[k].prefix
}

func (k TransformKind) Label() string {
	return transformTable[k].label
}

func (k TransformKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("TransformKind(%d)", int(k))
	}
	return k.Slug()
}

type EnhancementKind int

const (
	EnhanceBrightness EnhancementKind = iota + 1
	EnhanceContrast
	EnhanceSharpness
)

var EnhancementKinds = []EnhancementKind{EnhanceBrightness, EnhanceContrast, EnhanceSharpness}

func ParseEnhancementKind(name string) (EnhancementKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "brightness":
		return EnhanceBrightness, nil
	case "contrast":
		return EnhanceContrast, nil
	case "sharpness":
		return EnhanceSharpness, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrUnsupportedEnhancement, name)
	}
}

func (e EnhancementKind) Valid() bool {
	return e >= EnhanceBrightness && e <= EnhanceSharpness
}

func (e EnhancementKind) String() string {
	switch e {
	case EnhanceBrightness:
		return "brightness"
	case EnhanceContrast:
		return "contrast"
	case EnhanceSharpness:
		return "sharpness"
	default:
		return fmt.Sprintf("EnhancementKind(%d)", int(e))
	}
}

type RGB struct {
	R, G, B uint8
}

var White = RGB{R: 255, G: 255, B: 255}

// ParseRGB accepts six hex digits with an optional leading '#'.
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", domain.ErrInvalidColor, s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", domain.ErrInvalidColor, s)
	}
	return RGB{R: b[0], G: b[1], B: b[2]}, nil
}

func (c RGB) Hex() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// TransformParams is the optional parameter bag of a transform request.
// Fields irrelevant to the requested kind are ignored.
type TransformParams struct {
	Enhancement EnhancementKind
	Factor      float64
	Color       *RGB
}

// BackgroundColor returns the target colour for background removal.
func (p TransformParams) BackgroundColor() RGB {
	if p.Color == nil {
		return White
	}
	return *p.Color
}

// Validate checks the parameters required by kind.
func (p TransformParams) Validate(kind TransformKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedTransform, kind)
	}
	if kind != TransformEnhance {
		return nil
	}
	if !p.Enhancement.Valid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedEnhancement, p.Enhancement)
	}
	if math.IsNaN(p.Factor) || math.IsInf(p.Factor, 0) || p.Factor < 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidFactor, p.Factor)
	}
	return nil
}
