package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/photo-effects/internal/domain"
	"github.com/marcos-nsantos/photo-effects/internal/pkg/apperror"
	"github.com/marcos-nsantos/photo-effects/internal/usecase/editor"
)

const (
	uploadField = "image"

	// multipartOverhead leaves room for boundaries and part headers on top of
	// the configured file size limit.
	multipartOverhead = 64 << 10
)

// readUpload extracts the "image" part of a multipart request. Other fields
// are ignored. The returned closer must be called once the input is consumed.
func readUpload(c *gin.Context, maxUploadSize int64) (editor.UploadInput, io.Closer, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize+multipartOverhead)

	file, header, err := c.Request.FormFile(uploadField)
	if err != nil {
		return editor.UploadInput{}, nil, uploadError(c, err, maxUploadSize)
	}
	if header.Size > maxUploadSize {
		_ = file.Close()
		return editor.UploadInput{}, nil, fmt.Errorf("%w: limit is %d bytes", domain.ErrImageTooLarge, maxUploadSize)
	}

	return editor.UploadInput{File: file, Filename: header.Filename}, file, nil
}

func uploadError(c *gin.Context, err error, maxUploadSize int64) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return fmt.Errorf("%w: limit is %d bytes", domain.ErrImageTooLarge, maxUploadSize)
	case errors.Is(err, http.ErrMissingFile):
		// A file input submitted without a selection arrives as a plain value.
		if form := c.Request.MultipartForm; form != nil {
			if _, ok := form.Value[uploadField]; ok {
				return apperror.MissingInput("No selected file")
			}
		}
		return apperror.MissingInput("No file part in the request")
	default:
		return apperror.MissingInput("No file part in the request")
	}
}
