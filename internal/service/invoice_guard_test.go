package service

import (
	"context"
	"errors"
	"testing"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/guttosm/packing-slip-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestInvoiceGuard_Reserve(t *testing.T) {
	tests := []struct {
		name         string
		setupMock    func(*mocks.MockInvoiceRepositoryInterface)
		expectedErr  error
		expectedCode string
	}{
		{
			name: "confirmed invoice is reserved",
			setupMock: func(m *mocks.MockInvoiceRepositoryInterface) {
				m.On("UpdateStatus", mock.Anything, "INV-1", model.InvoiceStatusConfirmed, model.InvoiceStatusReserved).Return(true, nil)
			},
		},
		{
			name: "held by another generation",
			setupMock: func(m *mocks.MockInvoiceRepositoryInterface) {
				m.On("UpdateStatus", mock.Anything, "INV-1", model.InvoiceStatusConfirmed, model.InvoiceStatusReserved).Return(false, nil)
				m.On("Get", mock.Anything, "INV-1").Return(&model.Invoice{ID: "INV-1", Status: model.InvoiceStatusReserved}, nil)
			},
			expectedErr:  ErrConflict,
			expectedCode: CodeConflict,
		},
		{
			name: "packed by a concurrent generation",
			setupMock: func(m *mocks.MockInvoiceRepositoryInterface) {
				m.On("UpdateStatus", mock.Anything, "INV-1", model.InvoiceStatusConfirmed, model.InvoiceStatusReserved).Return(false, nil)
				m.On("Get", mock.Anything, "INV-1").Return(&model.Invoice{ID: "INV-1", Status: model.InvoiceStatusPacked}, nil)
			},
			expectedErr:  ErrConflict,
			expectedCode: CodeConflict,
		},
		{
			name: "reserved and released in between",
			setupMock: func(m *mocks.MockInvoiceRepositoryInterface) {
				m.On("UpdateStatus", mock.Anything, "INV-1", model.InvoiceStatusConfirmed, model.InvoiceStatusReserved).Return(false, nil)
				m.On("Get", mock.Anything, "INV-1").Return(&model.Invoice{ID: "INV-1", Status: model.InvoiceStatusConfirmed}, nil)
			},
			expectedErr:  ErrConflict,
			expectedCode: CodeConflict,
		},
		{
			name: "draft invoice",
			setupMock: func(m *mocks.MockInvoiceRepositoryInterface) {
				m.On("UpdateStatus", mock.Anything, "INV-1", model.InvoiceStatusConfirmed, model.InvoiceStatusReserved).Return(false, nil)
				m.On("Get", mock.Anything, "INV-1").Return(&model.Invoice{ID: "INV-1", Status: model.InvoiceStatusDraft}, nil)
			},
			expectedErr:  ErrInvalidState,
			expectedCode: CodeInvalidState,
		},
		{
			name: "invoice vanished",
			setupMock: func(m *mocks.MockInvoiceRepositoryInterface) {
				m.On("UpdateStatus", mock.Anything, "INV-1", model.InvoiceStatusConfirmed, model.InvoiceStatusReserved).Return(false, nil)
				m.On("Get", mock.Anything, "INV-1").Return(nil, nil)
			},
			expectedErr:  ErrNotFound,
			expectedCode: CodeNotFound,
		},
		{
			name: "update fails",
			setupMock: func(m *mocks.MockInvoiceRepositoryInterface) {
				m.On("UpdateStatus", mock.Anything, "INV-1", model.InvoiceStatusConfirmed, model.InvoiceStatusReserved).Return(false, errors.New("no primary"))
			},
			expectedErr:  ErrStorageFailure,
			expectedCode: CodeStorageFailure,
		},
		{
			name: "re-read fails",
			setupMock: func(m *mocks.MockInvoiceRepositoryInterface) {
				m.On("UpdateStatus", mock.Anything, "INV-1", model.InvoiceStatusConfirmed, model.InvoiceStatusReserved).Return(false, nil)
				m.On("Get", mock.Anything, "INV-1").Return(nil, errors.New("no primary"))
			},
			expectedErr:  ErrStorageFailure,
			expectedCode: CodeStorageFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockInvoiceRepositoryInterface)
			tt.setupMock(repo)
			guard := NewInvoiceGuard(repo)

			err := guard.Reserve(context.Background(), "INV-1")

			if tt.expectedErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Equal(t, tt.expectedCode, ErrorCode(err))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestInvoiceGuard_CommitAndRelease(t *testing.T) {
	tests := []struct {
		name        string
		call        func(*InvoiceGuard) error
		next        model.InvoiceStatus
		applied     bool
		updateErr   error
		expectedErr error
	}{
		{
			name:    "commit",
			call:    func(g *InvoiceGuard) error { return g.Commit(context.Background(), "INV-1") },
			next:    model.InvoiceStatusPacked,
			applied: true,
		},
		{
			name:        "commit without reservation",
			call:        func(g *InvoiceGuard) error { return g.Commit(context.Background(), "INV-1") },
			next:        model.InvoiceStatusPacked,
			expectedErr: ErrConflict,
		},
		{
			name:    "release",
			call:    func(g *InvoiceGuard) error { return g.Release(context.Background(), "INV-1") },
			next:    model.InvoiceStatusConfirmed,
			applied: true,
		},
		{
			name:        "release without reservation",
			call:        func(g *InvoiceGuard) error { return g.Release(context.Background(), "INV-1") },
			next:        model.InvoiceStatusConfirmed,
			expectedErr: ErrConflict,
		},
		{
			name:        "release storage failure",
			call:        func(g *InvoiceGuard) error { return g.Release(context.Background(), "INV-1") },
			next:        model.InvoiceStatusConfirmed,
			updateErr:   errors.New("socket closed"),
			expectedErr: ErrStorageFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockInvoiceRepositoryInterface)
			repo.On("UpdateStatus", mock.Anything, "INV-1", model.InvoiceStatusReserved, tt.next).Return(tt.applied, tt.updateErr)

			err := tt.call(NewInvoiceGuard(repo))

			if tt.expectedErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
			repo.AssertExpectations(t)
		})
	}
}
