package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/marcos-nsantos/photo-effects/internal/domain"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func MissingInput(message string) *AppError {
	return &AppError{
		Code:       "MISSING_INPUT",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func TooLarge(message string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusRequestEntityTooLarge,
	}
}

func Unprocessable(message string) *AppError {
	return &AppError{
		Code:       "DECODE_ERROR",
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func TooManyRequests(message string) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:       "IO_ERROR",
		Message:    "an internal error occurred",
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// FromError maps a domain error onto its transport representation. Errors
// that are already an *AppError pass through.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch domain.KindOf(err) {
	case domain.KindMissingInput:
		return &AppError{Code: "MISSING_INPUT", Message: err.Error(), StatusCode: http.StatusBadRequest, Err: err}
	case domain.KindNotFound:
		return &AppError{Code: "NOT_FOUND", Message: "image not found", StatusCode: http.StatusNotFound, Err: err}
	case domain.KindDecode:
		return &AppError{Code: "DECODE_ERROR", Message: "file is not a readable image", StatusCode: http.StatusUnprocessableEntity, Err: err}
	case domain.KindValidation:
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrImageTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		return &AppError{Code: "VALIDATION_ERROR", Message: err.Error(), StatusCode: status, Err: err}
	default:
		return Internal(err)
	}
}

func Is(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func StatusCode(err error) int {
	return FromError(err).StatusCode
}
