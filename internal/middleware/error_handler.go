package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/internal/domain/dto"
	"github.com/guttosm/packing-slip-service/internal/i18n"
	"github.com/guttosm/packing-slip-service/internal/logger"
	"github.com/rs/zerolog"
)

// ErrorHandler logs errors attached to the gin context and answers 500 when a
// handler recorded an error without writing a response.
//
// Handlers attach the cause of every error response, so rejected generations
// (invalid_state, conflict) are logged at warn and only server side failures
// at error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		written := c.Writer.Written()
		status := c.Writer.Status()
		level := zerolog.ErrorLevel
		if written && status < http.StatusInternalServerError {
			level = zerolog.WarnLevel
		}

		logger.FromContext(c.Request.Context()).WithLevel(level).
			Strs("errors", c.Errors.Errors()).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Msg("Request error")

		if !written {
			message := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
			c.JSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, message).WithRequestID(GetRequestID(c)))
		}
	}
}
