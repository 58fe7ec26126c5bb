package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/guttosm/packing-slip-service/internal/domain/dto"
	"github.com/guttosm/packing-slip-service/internal/i18n"
	"github.com/guttosm/packing-slip-service/internal/service"
)

// serviceError is the HTTP rendering of a service error code.
type serviceError struct {
	status int
	code   string
	key    string
}

// serviceErrors keeps every packing error code distinct on the wire, even where
// two codes share a status.
var serviceErrors = map[string]serviceError{
	service.CodeInvalidCapacity:   {http.StatusBadRequest, dto.ErrCodeInvalidCapacity, i18n.ErrKeyInvalidCapacity},
	service.CodeInvalidAllocation: {http.StatusUnprocessableEntity, dto.ErrCodeInvalidAllocation, i18n.ErrKeyInvalidAllocation},
	service.CodeNotFound:          {http.StatusNotFound, dto.ErrCodeNotFound, i18n.ErrKeyPackingNotFound},
	service.CodeInvalidState:      {http.StatusConflict, dto.ErrCodeInvalidState, i18n.ErrKeyInvalidState},
	service.CodeConflict:          {http.StatusConflict, dto.ErrCodeConflict, i18n.ErrKeyGenerationBusy},
	service.CodeIntegrity:         {http.StatusUnprocessableEntity, dto.ErrCodeIntegrity, i18n.ErrKeyIntegrity},
	service.CodeStorageFailure:    {http.StatusServiceUnavailable, dto.ErrCodeStorageFailure, i18n.ErrKeyStorageFailure},
}

// writeServiceError renders err with its API error code.
func writeServiceError(builder *ResponseBuilder, err error) {
	if se, ok := serviceErrors[service.ErrorCode(err)]; ok {
		builder.ErrorWithCode(se.status, se.code, se.key, err)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		builder.Error(http.StatusGatewayTimeout, i18n.ErrKeyTimeout, err)
		return
	}
	builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
}
