// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/packing-slip-service/internal/domain/dto"
	"github.com/stretchr/testify/mock"
)

// MockTokenValidator is a mock of middleware.TokenValidator.
type MockTokenValidator struct {
	mock.Mock
}

// NewMockTokenValidator returns a validator mock whose expectations are
// asserted when the test finishes.
func NewMockTokenValidator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTokenValidator {
	m := &MockTokenValidator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// ValidateToken returns the claims registered for token. A nil first return
// value is reported as (nil, err).
func (m *MockTokenValidator) ValidateToken(ctx context.Context, token string) (*dto.Claims, error) {
	ret := m.Called(ctx, token)

	claims, _ := ret.Get(0).(*dto.Claims)
	return claims, ret.Error(1)
}
