package middleware

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/internal/i18n"
)

const (
	// APIKeyHeader is the HTTP header name for API key authentication.
	APIKeyHeader = "X-API-Key"
	// apiKeySubjectPrefix marks subjects derived from an API key.
	apiKeySubjectPrefix = "api-key:"
)

// APIKeyAuth returns a middleware that validates the X-API-Key header.
// If validKeys is nil or empty, authentication is disabled.
//
// An accepted key becomes the request subject as a short fingerprint, so slips
// generated by integrations record which key created them without storing it.
func APIKeyAuth(validKeys map[string]bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(validKeys) == 0 {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		switch {
		case key == "":
			abortUnauthorized(c, i18n.ErrKeyAPIKeyRequired)
			return
		case !validKeys[key]:
			abortUnauthorized(c, i18n.ErrKeyInvalidAPIKey)
			return
		}

		c.Set(ContextKeySubject, APIKeySubject(key))
		c.Next()
	}
}

// APIKeySubject returns the subject recorded for requests made with key.
func APIKeySubject(key string) string {
	sum := sha256.Sum256([]byte(key))
	return apiKeySubjectPrefix + hex.EncodeToString(sum[:6])
}
