package model

// LotAllocation is the quantity of one invoice line fulfilled from one inventory lot.
//
// @Description Quantity taken from a single traceable lot
type LotAllocation struct {
	LotNumber string `bson:"lot_number" json:"lot_number" example:"LOT-A"`
	SourceRef string `bson:"source_ref" json:"source_ref" example:"GRN-1001"`
	Qty       int64  `bson:"qty" json:"qty" example:"700"`
}

// LineAllocation is the lot-level breakdown of one invoice line.
// Lots are kept in the order the fulfillment records produced them.
//
// @Description Lot breakdown of one invoice line
type LineAllocation struct {
	ItemID   string          `bson:"item_id" json:"item_id" example:"SKU-1"`
	ItemName string          `bson:"item_name" json:"item_name" example:"Cotton yarn 40s"`
	Qty      int64           `bson:"qty" json:"qty" example:"1200"`
	Lots     []LotAllocation `bson:"lots" json:"lots"`
}

// AllocatedQty returns the sum of the line's lot quantities. ok is false when
// the sum does not fit in an int64.
func (l LineAllocation) AllocatedQty() (total int64, ok bool) {
	for _, lot := range l.Lots {
		if total, ok = AddQty(total, lot.Qty); !ok {
			return 0, false
		}
	}
	return total, true
}

// AddQty adds two quantities, reporting false instead of wrapping around.
func AddQty(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}
