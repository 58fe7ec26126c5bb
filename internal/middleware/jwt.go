// Package middleware provides JWT authentication middleware.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/internal/domain/dto"
	"github.com/guttosm/packing-slip-service/internal/i18n"
)

const (
	// ContextKeySubject holds the authenticated subject in the gin context.
	ContextKeySubject = "subject"
	// ContextKeyClaims holds the verified *dto.Claims in the gin context.
	ContextKeyClaims = "user_claims"

	bearerScheme = "Bearer"
	bearerRealm  = "packing-slip-service"
)

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*dto.Claims, error)
}

// JWTAuth returns a middleware that validates JWT tokens.
func JWTAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			challenge(c, "")
			abortUnauthorized(c, i18n.ErrKeyTokenRequired)
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			challenge(c, "invalid_token")
			abortUnauthorized(c, i18n.ErrKeyInvalidToken)
			return
		}

		c.Set(ContextKeySubject, claims.Subject)
		c.Set(ContextKeyClaims, claims)

		c.Next()
	}
}

// GetSubject returns the authenticated subject, or "" for anonymous requests.
func GetSubject(c *gin.Context) string {
	return c.GetString(ContextKeySubject)
}

// GetClaims returns the verified claims set by JWTAuth.
func GetClaims(c *gin.Context) (*dto.Claims, bool) {
	v, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*dto.Claims)
	return claims, ok
}

// bearerToken extracts the credentials of an Authorization header using the
// Bearer scheme. The scheme name is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// challenge sets the RFC 6750 WWW-Authenticate header. errCode is empty when
// no credentials were sent.
func challenge(c *gin.Context, errCode string) {
	value := bearerScheme + ` realm="` + bearerRealm + `"`
	if errCode != "" {
		value += `, error="` + errCode + `"`
	}
	c.Header("WWW-Authenticate", value)
}

func abortUnauthorized(c *gin.Context, key string) {
	message := i18n.GetTranslator().Translate(key, i18n.GetLocale(c))
	errorResp := dto.NewError(dto.ErrCodeUnauthorized, message).
		WithRequestID(GetRequestID(c))
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorResp)
}
