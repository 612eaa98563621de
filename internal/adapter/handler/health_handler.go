package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/photo-effects/internal/pkg/httputil"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Check(c *gin.Context) {
	httputil.OK(c, gin.H{"status": "ok"})
}
