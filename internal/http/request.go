package http

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

// Validator is implemented by request bodies that check their own shape
// after decoding.
type Validator interface {
	Validate() error
}

// BindJSON decodes the request body into a new T and validates it when T
// implements Validator. A missing body is an error.
func BindJSON[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	return validated(&req)
}

// BindOptionalJSON is BindJSON for endpoints whose body may be omitted, in
// which case the zero T is returned.
func BindOptionalJSON[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return validated(&req)
}

func validated[T any](req *T) (*T, error) {
	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return req, nil
}
