package service

import (
	"fmt"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
)

const (
	// DefaultBoxCapacity is the capacity used when a caller does not choose one.
	DefaultBoxCapacity int64 = 1000
	// DefaultMaxBoxCapacity bounds the capacity accepted by the packer.
	DefaultMaxBoxCapacity int64 = 1_000_000
	// DefaultMaxBoxes bounds the number of boxes one slip may hold.
	DefaultMaxBoxes = 10_000
)

// BoxPacker maps ordered lot allocations onto shipping boxes.
type BoxPacker interface {
	Pack(lines []model.LineAllocation, boxCapacity int64) ([]model.Box, error)
}

// PackerOption configures a GreedyBoxPacker.
type PackerOption func(*GreedyBoxPacker)

// GreedyBoxPacker fills boxes sequentially in lot order. It holds no mutable state
// and is safe for concurrent use.
type GreedyBoxPacker struct {
	maxCapacity int64
	maxBoxes    int
}

// NewBoxPacker creates a GreedyBoxPacker with the given options.
func NewBoxPacker(opts ...PackerOption) *GreedyBoxPacker {
	p := &GreedyBoxPacker{maxCapacity: DefaultMaxBoxCapacity, maxBoxes: DefaultMaxBoxes}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithMaxCapacity sets the largest accepted box capacity. Values <= 0 are ignored.
func WithMaxCapacity(max int64) PackerOption {
	return func(p *GreedyBoxPacker) {
		if max > 0 {
			p.maxCapacity = max
		}
	}
}

// WithMaxBoxes sets the largest number of boxes a packing may produce. Values
// <= 0 are ignored.
func WithMaxBoxes(n int) PackerOption {
	return func(p *GreedyBoxPacker) {
		if n > 0 {
			p.maxBoxes = n
		}
	}
}

// Pack validates the capacity bound and packs with the configured box limit.
func (p *GreedyBoxPacker) Pack(lines []model.LineAllocation, boxCapacity int64) ([]model.Box, error) {
	if boxCapacity > p.maxCapacity {
		return nil, fmt.Errorf("%w: %d exceeds maximum %d", ErrInvalidCapacity, boxCapacity, p.maxCapacity)
	}
	return pack(lines, boxCapacity, p.maxBoxes)
}

// lotTuple is one flattened (line, lot) allocation.
type lotTuple struct {
	itemID    string
	lotNumber string
	sourceRef string
	qty       int64
}

// Pack places the lot allocations into boxes of boxCapacity units.
//
// Allocations are flattened in line order then lot order and never re-sorted. Each tuple
// fills the current box as far as it fits; a full box is closed and a new one opened.
// A tuple split across boxes yields one content line per box, and distinct tuples are
// never merged even when they share a lot number. Boxes are numbered 1..N once the
// sequence is final. At most DefaultMaxBoxes boxes are produced; a larger packing
// fails with ErrInvalidCapacity before any box is built.
func Pack(lines []model.LineAllocation, boxCapacity int64) ([]model.Box, error) {
	return pack(lines, boxCapacity, DefaultMaxBoxes)
}

func pack(lines []model.LineAllocation, boxCapacity int64, maxBoxes int) ([]model.Box, error) {
	if boxCapacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, boxCapacity)
	}

	tuples, total, err := flatten(lines)
	if err != nil {
		return nil, err
	}

	// Every box but the last is full, so the count is exact.
	needed := total / boxCapacity
	if total%boxCapacity != 0 {
		needed++
	}
	if needed > int64(maxBoxes) {
		return nil, fmt.Errorf("%w: %d units at %d per box need %d boxes, more than the maximum %d",
			ErrInvalidCapacity, total, boxCapacity, needed, maxBoxes)
	}

	boxes := make([]model.Box, 0, int(needed))
	current := model.Box{}
	remaining := boxCapacity

	for _, t := range tuples {
		left := t.qty
		for left > 0 {
			if remaining == 0 {
				current.TotalQty = boxCapacity
				boxes = append(boxes, current)
				current = model.Box{}
				remaining = boxCapacity
			}

			placed := min(left, remaining)
			current.Contents = append(current.Contents, model.BoxContent{
				LotNumber: t.lotNumber,
				SourceRef: t.sourceRef,
				ItemID:    t.itemID,
				Qty:       placed,
			})
			left -= placed
			remaining -= placed
		}
	}

	if len(current.Contents) > 0 {
		current.TotalQty = boxCapacity - remaining
		boxes = append(boxes, current)
	}

	for i := range boxes {
		boxes[i].BoxNumber = i + 1
		boxes[i].TotalBoxes = len(boxes)
	}

	return boxes, nil
}

// flatten turns line allocations into the authoritative tuple sequence and
// returns their total quantity.
func flatten(lines []model.LineAllocation) ([]lotTuple, int64, error) {
	n := 0
	for _, l := range lines {
		n += len(l.Lots)
	}

	tuples := make([]lotTuple, 0, n)
	var total int64
	for li, l := range lines {
		for lj, lot := range l.Lots {
			if lot.Qty <= 0 {
				return nil, 0, fmt.Errorf("%w: line %d (%s) lot %d (%s) has qty %d",
					ErrInvalidAllocation, li+1, l.ItemID, lj+1, lot.LotNumber, lot.Qty)
			}
			var ok bool
			if total, ok = model.AddQty(total, lot.Qty); !ok {
				return nil, 0, fmt.Errorf("%w: quantities overflow at line %d (%s) lot %d (%s)",
					ErrInvalidAllocation, li+1, l.ItemID, lj+1, lot.LotNumber)
			}
			tuples = append(tuples, lotTuple{
				itemID:    l.ItemID,
				lotNumber: lot.LotNumber,
				sourceRef: lot.SourceRef,
				qty:       lot.Qty,
			})
		}
	}
	return tuples, total, nil
}
