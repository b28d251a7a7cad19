package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// pathPolicy is safe for concurrent use, one instance serves all requests.
var pathPolicy = bluemonday.StrictPolicy()

// SanitizePath strips markup from the request path before routing. Upload
// filenames never reach the path, stored photos are addressed by their
// generated names.
func SanitizePath() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.URL.Path = pathPolicy.Sanitize(c.Request.URL.Path)
		c.Next()
	}
}
