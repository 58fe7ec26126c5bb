// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"
	"time"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/guttosm/packing-slip-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

var (
	_ repository.InvoiceRepositoryInterface     = (*MockInvoiceRepositoryInterface)(nil)
	_ repository.AllocationRepositoryInterface  = (*MockAllocationRepositoryInterface)(nil)
	_ repository.PackingSlipRepositoryInterface = (*MockPackingSlipRepositoryInterface)(nil)
	_ repository.LogsRepositoryInterface        = (*MockLogsRepositoryInterface)(nil)
)

type MockInvoiceRepositoryInterface struct {
	mock.Mock
}

func (m *MockInvoiceRepositoryInterface) Get(ctx context.Context, id string) (*model.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepositoryInterface) UpdateStatus(ctx context.Context, id string, expected, next model.InvoiceStatus) (bool, error) {
	args := m.Called(ctx, id, expected, next)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepositoryInterface) FindStaleReservations(ctx context.Context, before time.Time, limit int) ([]model.Invoice, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepositoryInterface) ReleaseReservation(ctx context.Context, id string, reservedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, reservedAt)
	return args.Bool(0), args.Error(1)
}

type MockAllocationRepositoryInterface struct {
	mock.Mock
}

func (m *MockAllocationRepositoryInterface) GetLineAllocations(ctx context.Context, invoiceID string) ([]model.LineAllocation, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LineAllocation), args.Error(1)
}

type MockPackingSlipRepositoryInterface struct {
	mock.Mock
}

func (m *MockPackingSlipRepositoryInterface) Create(ctx context.Context, slip *model.PackingSlip) error {
	args := m.Called(ctx, slip)
	return args.Error(0)
}

func (m *MockPackingSlipRepositoryInterface) FindByNo(ctx context.Context, packingSlipNo string) (*model.PackingSlip, error) {
	args := m.Called(ctx, packingSlipNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackingSlip), args.Error(1)
}

func (m *MockPackingSlipRepositoryInterface) FindByInvoice(ctx context.Context, invoiceID string) (*model.PackingSlip, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PackingSlip), args.Error(1)
}

func (m *MockPackingSlipRepositoryInterface) List(ctx context.Context, limit int) ([]model.PackingSlip, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PackingSlip), args.Error(1)
}

type MockLogsRepositoryInterface struct {
	mock.Mock
}

func (m *MockLogsRepositoryInterface) Insert(ctx context.Context, entries ...*model.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLogsRepositoryInterface) Find(ctx context.Context, q model.LogQuery) ([]model.LogEntry, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LogEntry), args.Error(1)
}

func (m *MockLogsRepositoryInterface) Count(ctx context.Context, q model.LogQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}
