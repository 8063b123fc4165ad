package middleware

import "github.com/gin-gonic/gin"

// UploadHeaders stops browsers from treating uploaded files as active content
// on the API origin.
func UploadHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Content-Security-Policy", "default-src 'none'; sandbox")
		c.Next()
	}
}
