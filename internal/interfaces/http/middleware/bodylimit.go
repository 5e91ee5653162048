package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopsync/backend/internal/interfaces/http/dto"
)

// BodyLimit caps the request body size. Webhook payloads are small;
// anything larger is rejected before it reaches a handler.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
