// Package middleware provides role-based authorization middleware.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/internal/domain/dto"
	"github.com/guttosm/packing-slip-service/internal/i18n"
)

// RequireRoles returns a middleware that admits requests whose claims carry at
// least one of roles. It must run after JWTAuth. With no roles, any
// authenticated request passes.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			abortUnauthorized(c, i18n.ErrKeyUnauthorized)
			return
		}

		if !claims.HasAnyRole(roles...) {
			message := i18n.GetTranslator().Translate(i18n.ErrKeyForbidden, i18n.GetLocale(c))
			errorResp := dto.NewError(dto.ErrCodeForbidden, message).
				WithRequestID(GetRequestID(c))
			c.AbortWithStatusJSON(http.StatusForbidden, errorResp)
			return
		}

		c.Next()
	}
}
