package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireJSON rejects mutating requests that do not declare a JSON body.
// ContentType() already strips parameters, so "application/json;
// charset=utf-8" passes.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		if c.ContentType() != "application/json" {
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
				"error": gin.H{
					"code":    "unsupported_media_type",
					"message": "Request body must be application/json",
				},
			})
			return
		}

		c.Next()
	}
}
