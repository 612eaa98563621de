package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/photo-effects/internal/adapter/handler/dto/request"
	"github.com/marcos-nsantos/photo-effects/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/photo-effects/internal/domain/valueobject"
	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/session"
	"github.com/marcos-nsantos/photo-effects/internal/pkg/apperror"
	"github.com/marcos-nsantos/photo-effects/internal/pkg/httputil"
	"github.com/marcos-nsantos/photo-effects/internal/usecase/editor"
	"github.com/marcos-nsantos/photo-effects/internal/web"
)

// ImageHandler serves the browser facing routes. Failures become a flash
// message and a redirect to the index page.
type ImageHandler struct {
	imageSvc      ImageService
	flash         *session.FlashStore
	maxUploadSize int64
}

func NewImageHandler(imageSvc ImageService, flash *session.FlashStore, maxUploadSize int64) *ImageHandler {
	return &ImageHandler{
		imageSvc:      imageSvc,
		flash:         flash,
		maxUploadSize: maxUploadSize,
	}
}

func (h *ImageHandler) Index(c *gin.Context) {
	h.render(c, response.NewIndexPage(h.flash.Pop(c)))
}

func (h *ImageHandler) Upload(c *gin.Context) {
	input, closer, err := readUpload(c, h.maxUploadSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer closer.Close()

	img, err := h.imageSvc.Upload(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	page := response.NewIndexPage(append(h.flash.Pop(c), session.Message{
		Category: session.CategorySuccess,
		Text:     "File uploaded successfully!",
	}))
	page.SourceID = img.ID
	h.render(c, page)
}

// Transform returns the handler applying kind to the image named by the
// ":id" path parameter.
func (h *ImageHandler) Transform(kind valueobject.TransformKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		sourceID := c.Param("id")

		var req request.TransformRequest
		if err := c.ShouldBind(&req); err != nil {
			h.fail(c, apperror.BadRequest("invalid transform parameters"))
			return
		}

		params, err := req.Params(kind)
		if err != nil {
			h.fail(c, err)
			return
		}

		result, err := h.imageSvc.Transform(c.Request.Context(), editor.TransformInput{
			SourceID: sourceID,
			Kind:     kind,
			Params:   params,
		})
		if err != nil {
			h.fail(c, err)
			return
		}

		page := response.NewIndexPage(h.flash.Pop(c))
		page.SourceID = sourceID
		page.Effects = []response.Effect{{ID: result.Image.ID, Label: result.Label}}
		h.render(c, page)
	}
}

func (h *ImageHandler) Download(c *gin.Context) {
	export, err := h.imageSvc.Export(c.Request.Context(), c.Param("id"), c.Param("format"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.flash.Add(c, session.CategorySuccess, "Download Successful!"); err != nil {
		_ = c.Error(err)
	}
	httputil.Attachment(c, export.Filename, export.ContentType, export.Data)
}

// Serve returns stored bytes inline. It is used as an image source, so
// failures answer with a status code instead of a redirect.
func (h *ImageHandler) Serve(c *gin.Context) {
	img, err := h.imageSvc.Retrieve(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.HandleError(c, err)
		return
	}

	httputil.Inline(c, img.ContentType, img.Data)
}

func (h *ImageHandler) render(c *gin.Context, page response.IndexPage) {
	c.HTML(http.StatusOK, web.IndexTemplate, page)
}

func (h *ImageHandler) fail(c *gin.Context, err error) {
	appErr := apperror.FromError(err)
	_ = c.Error(err)

	if ferr := h.flash.Add(c, session.CategoryError, appErr.Message); ferr != nil {
		_ = c.Error(ferr)
	}
	c.Redirect(http.StatusSeeOther, "/")
	c.Abort()
}
