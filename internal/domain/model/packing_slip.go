package model

import (
	"strconv"
	"time"
)

// BoxContent is one content line of a box: a quantity from a single lot.
//
// @Description Quantity of one lot placed in a box
type BoxContent struct {
	LotNumber string `bson:"lot_number" json:"lot_number" example:"LOT-A"`
	SourceRef string `bson:"source_ref" json:"source_ref" example:"GRN-1001"`
	ItemID    string `bson:"item_id,omitempty" json:"item_id,omitempty" example:"SKU-1"`
	Qty       int64  `bson:"qty" json:"qty" example:"700"`
}

// Box is one physical shipping container. It has no identity outside its slip.
//
// @Description Shipping box with its lot contents
type Box struct {
	BoxNumber  int          `bson:"box_number" json:"box_number" example:"1"`
	TotalBoxes int          `bson:"total_boxes" json:"total_boxes" example:"2"`
	TotalQty   int64        `bson:"total_qty" json:"total_qty" example:"1000"`
	Contents   []BoxContent `bson:"contents" json:"contents"`
}

// Label returns the "N / M" marking printed on the box.
func (b Box) Label() string {
	return strconv.Itoa(b.BoxNumber) + " / " + strconv.Itoa(b.TotalBoxes)
}

// PackingSlip is the immutable shipping manifest generated for one invoice.
//
// @Description Generated packing slip
type PackingSlip struct {
	PackingSlipNo string    `bson:"_id" json:"packing_slip_no" example:"PS-20261019-3f2a9c1b7d4e"`
	InvoiceID     string    `bson:"invoice_id" json:"invoice_id" example:"INV-1"`
	InvoiceNo     string    `bson:"invoice_no" json:"invoice_no" example:"SI/2026/0042"`
	BoxCapacity   int64     `bson:"box_capacity" json:"box_capacity" example:"1000"`
	Boxes         []Box     `bson:"boxes" json:"boxes"`
	TotalQty      int64     `bson:"total_qty" json:"total_qty" example:"1200"`
	TotalBoxes    int       `bson:"total_boxes" json:"total_boxes" example:"2"`
	GeneratedAt   time.Time `bson:"generated_at" json:"generated_at"`
	GeneratedBy   string    `bson:"generated_by,omitempty" json:"generated_by,omitempty"`
}

// LotTotals returns the quantity packed per lot number across all boxes.
func (p *PackingSlip) LotTotals() map[string]int64 {
	totals := make(map[string]int64)
	for _, b := range p.Boxes {
		for _, c := range b.Contents {
			totals[c.LotNumber] += c.Qty
		}
	}
	return totals
}
