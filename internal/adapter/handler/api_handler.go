package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/photo-effects/internal/adapter/handler/dto/request"
	"github.com/marcos-nsantos/photo-effects/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/photo-effects/internal/domain/valueobject"
	"github.com/marcos-nsantos/photo-effects/internal/pkg/apperror"
	"github.com/marcos-nsantos/photo-effects/internal/pkg/httputil"
	"github.com/marcos-nsantos/photo-effects/internal/usecase/editor"
)

type APIHandler struct {
	imageSvc      ImageService
	maxUploadSize int64
}

func NewAPIHandler(imageSvc ImageService, maxUploadSize int64) *APIHandler {
	return &APIHandler{
		imageSvc:      imageSvc,
		maxUploadSize: maxUploadSize,
	}
}

func (h *APIHandler) Catalog(c *gin.Context) {
	httputil.OK(c, response.Catalog())
}

func (h *APIHandler) Upload(c *gin.Context) {
	input, closer, err := readUpload(c, h.maxUploadSize)
	if err != nil {
		httputil.HandleError(c, err)
		return
	}
	defer closer.Close()

	img, err := h.imageSvc.Upload(c.Request.Context(), input)
	if err != nil {
		httputil.HandleError(c, err)
		return
	}

	httputil.Created(c, response.ImageFromEntity(img))
}

func (h *APIHandler) Transform(c *gin.Context) {
	kind, err := valueobject.ParseTransformKind(c.Param("kind"))
	if err != nil {
		httputil.HandleError(c, err)
		return
	}

	var req request.TransformRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			httputil.HandleError(c, apperror.BadRequest(err.Error()))
			return
		}
	}

	params, err := req.Params(kind)
	if err != nil {
		httputil.HandleError(c, err)
		return
	}

	sourceID := c.Param("id")
	result, err := h.imageSvc.Transform(c.Request.Context(), editor.TransformInput{
		SourceID: sourceID,
		Kind:     kind,
		Params:   params,
	})
	if err != nil {
		httputil.HandleError(c, err)
		return
	}

	httputil.Created(c, response.TransformFromEntity(sourceID, result))
}

func (h *APIHandler) Get(c *gin.Context) {
	img, err := h.imageSvc.Retrieve(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.HandleError(c, err)
		return
	}

	httputil.Inline(c, img.ContentType, img.Data)
}

func (h *APIHandler) Export(c *gin.Context) {
	export, err := h.imageSvc.Export(c.Request.Context(), c.Param("id"), c.Param("format"))
	if err != nil {
		httputil.HandleError(c, err)
		return
	}

	httputil.Attachment(c, export.Filename, export.ContentType, export.Data)
}
