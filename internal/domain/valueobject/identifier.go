package valueobject

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/photo-effects/internal/domain"
)

const (
	maxFilenameLength   = 100
	maxIdentifierLength = 200
	fallbackFilename    = "image"
)

var (
	identifierPattern  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	disallowedFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// SanitizeFilename reduces a client supplied filename to a flat, path-safe
// name: directory components are stripped, whitespace becomes '_', and any
// character outside [A-Za-z0-9._-] is removed.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = disallowedFilename.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._-")
	if len(name) > maxFilenameLength {
		name = name[len(name)-maxFilenameLength:]
		name = strings.TrimLeft(name, "._-")
	}
	if name == "" {
		return fallbackFilename
	}
	return name
}

// NewUploadID prefixes a random token to the sanitized filename.
func NewUploadID(filename string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return token + "_" + SanitizeFilename(filename)
}

// ValidateID rejects identifiers that could address anything outside the
// flat storage namespace.
func ValidateID(id string) error {
	if id == "" || len(id) > maxIdentifierLength || !identifierPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidIdentifier, id)
	}
	return nil
}

// DeriveID names the output of applying kind with params to sourceID. The
// result depends only on its arguments.
func DeriveID(sourceID string, kind TransformKind, params TransformParams) (string, error) {
	if err := ValidateID(sourceID); err != nil {
		return "", err
	}
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedTransform, kind)
	}

	var id string
	if kind == TransformEnhance {
		if !params.Enhancement.Valid() {
			return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedEnhancement, params.Enhancement)
		}
		id = kind.Prefix() + "_" + params.Enhancement.String() + "_" + sourceID
	} else {
		id = kind.Prefix() + "_" + sourceID
	}

	if err := ValidateID(id); err != nil {
		return "", err
	}
	return id, nil
}
