// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockPackingSlipService struct {
	mock.Mock
}

// NewMockPackingSlipService creates a MockPackingSlipService whose expectations
// are asserted when the test ends.
func NewMockPackingSlipService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPackingSlipService {
	m := &MockPackingSlipService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPackingSlipService) Generate(ctx context.Context, invoiceID string, boxCapacity int64, generatedBy string) (*model.PackingSlip, error) {
	args := m.Called(ctx, invoiceID, boxCapacity, generatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackingSlip), args.Error(1)
}

func (m *MockPackingSlipService) Preview(ctx context.Context, invoiceID string, boxCapacity int64) (*model.PackingSlip, error) {
	args := m.Called(ctx, invoiceID, boxCapacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackingSlip), args.Error(1)
}

func (m *MockPackingSlipService) Get(ctx context.Context, packingSlipNo string) (*model.PackingSlip, error) {
	args := m.Called(ctx, packingSlipNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackingSlip), args.Error(1)
}

func (m *MockPackingSlipService) GetByInvoice(ctx context.Context, invoiceID string) (*model.PackingSlip, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackingSlip), args.Error(1)
}

func (m *MockPackingSlipService) List(ctx context.Context, limit int) ([]model.PackingSlip, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PackingSlip), args.Error(1)
}

type MockBoxPacker struct {
	mock.Mock
}

// NewMockBoxPacker creates a MockBoxPacker whose expectations are asserted when
// the test ends.
func NewMockBoxPacker(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBoxPacker {
	m := &MockBoxPacker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBoxPacker) Pack(lines []model.LineAllocation, boxCapacity int64) ([]model.Box, error) {
	args := m.Called(lines, boxCapacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Box), args.Error(1)
}
