package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/photo-effects/internal/infrastructure/session"
	"github.com/marcos-nsantos/photo-effects/internal/pkg/httputil"
)

// Recovery turns a panic into a 500. Browser routes get a flash message and
// a redirect to the index page, API routes get a JSON error body.
func Recovery(logger *zap.Logger, flash *session.FlashStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("stack", string(debug.Stack())),
					zap.String("request_id", c.GetString(RequestIDKey)),
				)

				if wantsJSON(c, flash) {
					c.AbortWithStatusJSON(http.StatusInternalServerError, httputil.ErrorResponse{
						Error:     "internal server error",
						Code:      "IO_ERROR",
						RequestID: c.GetString(RequestIDKey),
					})
					return
				}

				flashAndRedirect(c, flash, "Something went wrong while processing the image")
			}
		}()
		c.Next()
	}
}

// wantsJSON reports whether failures on this request are answered with a
// JSON body. Browser routes get a flash message instead.
func wantsJSON(c *gin.Context, flash *session.FlashStore) bool {
	return flash == nil || strings.HasPrefix(c.Request.URL.Path, "/api/")
}

func flashAndRedirect(c *gin.Context, flash *session.FlashStore, text string) {
	if err := flash.Add(c, session.CategoryError, text); err != nil {
		_ = c.Error(err)
	}
	c.Redirect(http.StatusSeeOther, "/")
	c.Abort()
}
