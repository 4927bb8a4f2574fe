package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireJSON guards the JSON API routes. The page routes post regular forms
// and are never behind this.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			ct := c.GetHeader("Content-Type")
			// allow "application/json; charset=utf-8"
			if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
				c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
					"success": false,
					"message": "Content-Type must be application/json",
				})
				return
			}
		}
		c.Next()
	}
}
