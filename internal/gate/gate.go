package gate

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderName and QueryParam are the two places a caller may supply the
// shared secret.
const (
	HeaderName = "X-Angel-Secret"
	QueryParam = "secret"
)

// Middleware authorizes requests against an optional shared secret. With no
// secret configured every call passes (open mode). With one configured, the
// caller must supply the identical value via header or query parameter;
// anything else is rejected before any remote call happens.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		supplied := c.GetHeader(HeaderName)
		if supplied == "" {
			supplied = c.Query(QueryParam)
		}
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
