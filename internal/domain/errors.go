package domain

import "errors"

var (
	ErrMissingInput  = errors.New("missing input")
	ErrImageNotFound = errors.New("image not found")
	ErrDecodeFailed  = errors.New("image could not be decoded")

	// Validation errors.
	ErrInvalidIdentifier      = errors.New("invalid image identifier")
	ErrUnsupportedTransform   = errors.New("unsupported transform")
	ErrUnsupportedEnhancement = errors.New("unsupported enhancement type")
	ErrUnsupportedFormat      = errors.New("unsupported export format")
	ErrInvalidColor           = errors.New("invalid color, expected 6 hex digits")
	ErrInvalidFactor          = errors.New("invalid enhancement factor")
	ErrImageTooLarge          = errors.New("image exceeds upload size limit")
)

// IsValidation reports whether err belongs to the validation error kind.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidIdentifier,
		ErrUnsupportedTransform,
		ErrUnsupportedEnhancement,
		ErrUnsupportedFormat,
		ErrInvalidColor,
		ErrInvalidFactor,
		ErrImageTooLarge,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Error kinds.
const (
	KindMissingInput = "missing_input"
	KindNotFound     = "not_found"
	KindDecode       = "decode_error"
	KindValidation   = "validation_error"
	KindIO           = "io_error"
)

// KindOf classifies err into one of the error kinds. nil yields "".
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingInput):
		return KindMissingInput
	case errors.Is(err, ErrImageNotFound):
		return KindNotFound
	case errors.Is(err, ErrDecodeFailed):
		return KindDecode
	case IsValidation(err):
		return KindValidation
	default:
		return KindIO
	}
}
