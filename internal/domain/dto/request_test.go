package dto

import (
	"testing"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

func TestGeneratePackingSlipRequest_CapacityOr(t *testing.T) {
	zero := int64(0)
	five := int64(500)

	tests := []struct {
		name     string
		request  *GeneratePackingSlipRequest
		expected int64
	}{
		{name: "nil request", request: nil, expected: 1000},
		{name: "omitted capacity", request: &GeneratePackingSlipRequest{}, expected: 1000},
		{name: "explicit capacity", request: &GeneratePackingSlipRequest{BoxCapacity: &five}, expected: 500},
		{name: "explicit zero is kept", request: &GeneratePackingSlipRequest{BoxCapacity: &zero}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.request.CapacityOr(1000))
		})
	}
}

func TestCalculateBoxesRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		request     CalculateBoxesRequest
		expectedErr error
	}{
		{
			name: "valid request",
			request: CalculateBoxesRequest{BoxCapacity: 1000, Lines: []model.LineAllocation{
				{ItemID: "SKU-1", Qty: 700, Lots: []model.LotAllocation{{LotNumber: "A", Qty: 700}}},
			}},
		},
		{
			name:    "no lines",
			request: CalculateBoxesRequest{BoxCapacity: 1000},
		},
		{
			name: "quantities are not checked here",
			request: CalculateBoxesRequest{BoxCapacity: 0, Lines: []model.LineAllocation{
				{ItemID: "SKU-1", Lots: []model.LotAllocation{{LotNumber: "A", Qty: -1}}},
			}},
		},
		{
			name: "line without lots",
			request: CalculateBoxesRequest{BoxCapacity: 1000, Lines: []model.LineAllocation{
				{ItemID: "SKU-1", Qty: 700},
			}},
			expectedErr: ErrMissingLots,
		},
		{
			name: "lot without number",
			request: CalculateBoxesRequest{BoxCapacity: 1000, Lines: []model.LineAllocation{
				{ItemID: "SKU-1", Lots: []model.LotAllocation{{Qty: 700}}},
			}},
			expectedErr: ErrMissingLotNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.expectedErr != nil {
				assert.Equal(t, tt.expectedErr, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "lines.lots", Message: "every line needs at least one lot"}
	assert.Equal(t, "lines.lots: every line needs at least one lot", err.Error())
}
