package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-slip-service/internal/domain/dto"
	"github.com/guttosm/packing-slip-service/internal/i18n"
	"github.com/guttosm/packing-slip-service/internal/middleware"
)

// Envelopes are pooled. gin encodes synchronously inside c.JSON, so an
// envelope can go back to its pool as soon as the call returns.
var (
	successPool = sync.Pool{New: func() interface{} { return new(dto.SuccessResponse) }}
	errorPool   = sync.Pool{New: func() interface{} { return new(dto.ErrorResponse) }}
)

// ResponseBuilder writes the service's success and error envelopes.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a ResponseBuilder for c.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success writes data in a success envelope.
func (b *ResponseBuilder) Success(status int, data interface{}) {
	resp := successPool.Get().(*dto.SuccessResponse)
	*resp = dto.SuccessResponse{
		Data:      data,
		RequestID: middleware.GetRequestID(b.c),
		Timestamp: time.Now().UTC(),
	}

	b.c.JSON(status, resp)

	*resp = dto.SuccessResponse{}
	successPool.Put(resp)
}

// SuccessOK writes a 200 envelope.
func (b *ResponseBuilder) SuccessOK(data interface{}) {
	b.Success(http.StatusOK, data)
}

// SuccessCreated writes a 201 envelope.
func (b *ResponseBuilder) SuccessCreated(data interface{}) {
	b.Success(http.StatusCreated, data)
}

// Error aborts with the default code for status and the translated message
// for messageKey. err, when set, is attached to the context for ErrorHandler.
func (b *ResponseBuilder) Error(status int, messageKey string, err error) {
	b.abort(status, dto.ErrCodeFromStatus(status), b.translate(messageKey), nil, err)
}

// ErrorWithCode is Error with an explicit code, for statuses that several
// packing errors share.
func (b *ResponseBuilder) ErrorWithCode(status int, code, messageKey string, err error) {
	b.abort(status, code, b.translate(messageKey), nil, err)
}

// ValidationError aborts with 400 invalid_request naming the offending field.
func (b *ResponseBuilder) ValidationError(verr *dto.ValidationError, err error) {
	b.abort(http.StatusBadRequest, dto.ErrCodeInvalidRequest, verr.Error(),
		map[string]string{"field": verr.Field}, err)
}

func (b *ResponseBuilder) translate(key string) string {
	locale := i18n.GetLocale(b.c)
	b.c.Header("Content-Language", locale)
	return i18n.GetTranslator().Translate(key, locale)
}

func (b *ResponseBuilder) abort(status int, code, message string, details map[string]string, err error) {
	if err != nil {
		_ = b.c.Error(err)
	}

	resp := errorPool.Get().(*dto.ErrorResponse)
	*resp = dto.ErrorResponse{
		Error:     code,
		Message:   message,
		Details:   details,
		RequestID: middleware.GetRequestID(b.c),
		Timestamp: time.Now().UTC(),
	}

	b.c.AbortWithStatusJSON(status, resp)

	*resp = dto.ErrorResponse{}
	errorPool.Put(resp)
}
