package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/guttosm/packing-slip-service/internal/metrics"
	"github.com/guttosm/packing-slip-service/internal/repository"
	"github.com/guttosm/packing-slip-service/internal/service/cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultListLimit is used when List is called without a positive limit.
	DefaultListLimit = 50
	// MaxListLimit caps the number of slips returned by List.
	MaxListLimit = 200
)

const (
	releaseTimeout     = 5 * time.Second
	slipNumberAttempts = 3
)

// PackingSlipService generates and serves packing slips.
type PackingSlipService interface {
	// Generate packs a confirmed invoice into boxes of boxCapacity units, persists
	// the slip and marks the invoice packed, all or nothing.
	Generate(ctx context.Context, invoiceID string, boxCapacity int64, generatedBy string) (*model.PackingSlip, error)
	// Preview computes the slip an invoice would get, without reserving, persisting
	// or numbering it.
	Preview(ctx context.Context, invoiceID string, boxCapacity int64) (*model.PackingSlip, error)
	// Get returns a slip by number.
	Get(ctx context.Context, packingSlipNo string) (*model.PackingSlip, error)
	// GetByInvoice returns the slip generated for an invoice.
	GetByInvoice(ctx context.Context, invoiceID string) (*model.PackingSlip, error)
	// List returns recently generated slips, newest first.
	List(ctx context.Context, limit int) ([]model.PackingSlip, error)
}

// EventPublisher announces committed packing slips.
type EventPublisher interface {
	PublishPackingSlipGenerated(ctx context.Context, slip *model.PackingSlip) error
}

// PackingSlipOption configures a PackingSlipServiceImpl.
type PackingSlipOption func(*PackingSlipServiceImpl)

// PackingSlipServiceImpl implements PackingSlipService.
type PackingSlipServiceImpl struct {
	invoices    repository.InvoiceRepositoryInterface
	allocations repository.AllocationRepositoryInterface
	slips       repository.PackingSlipRepositoryInterface
	tx          repository.TxRunner
	guard       *InvoiceGuard
	packer      BoxPacker
	publisher   EventPublisher
	cache       cache.Cache[model.PackingSlip]
	loads       singleflight.Group
	maxCapacity int64
	now         func() time.Time
	newSlipNo   SlipNumberGenerator
}

// NewPackingSlipService creates a packing slip service over the given stores.
func NewPackingSlipService(
	invoices repository.InvoiceRepositoryInterface,
	allocations repository.AllocationRepositoryInterface,
	slips repository.PackingSlipRepositoryInterface,
	opts ...PackingSlipOption,
) *PackingSlipServiceImpl {
	s := &PackingSlipServiceImpl{
		invoices:    invoices,
		allocations: allocations,
		slips:       slips,
		tx:          repository.NoopTxRunner{},
		guard:       NewInvoiceGuard(invoices),
		maxCapacity: DefaultMaxBoxCapacity,
		now:         time.Now,
		newSlipNo:   RandomSlipNumber,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.packer == nil {
		s.packer = NewBoxPacker(WithMaxCapacity(s.maxCapacity))
	}
	return s
}

// WithTxRunner makes slip persistence and the packed transition one transaction.
func WithTxRunner(tx repository.TxRunner) PackingSlipOption {
	return func(s *PackingSlipServiceImpl) {
		if tx != nil {
			s.tx = tx
		}
	}
}

// WithBoxPacker replaces the default greedy packer.
func WithBoxPacker(p BoxPacker) PackingSlipOption {
	return func(s *PackingSlipServiceImpl) {
		s.packer = p
	}
}

// WithEventPublisher enables packing_slip.generated events.
func WithEventPublisher(p EventPublisher) PackingSlipOption {
	return func(s *PackingSlipServiceImpl) {
		s.publisher = p
	}
}

// WithSlipCache enables read-through caching of slips by number.
func WithSlipCache(c cache.Cache[model.PackingSlip]) PackingSlipOption {
	return func(s *PackingSlipServiceImpl) {
		s.cache = c
	}
}

// WithMaxBoxCapacity sets the largest accepted box capacity.
func WithMaxBoxCapacity(max int64) PackingSlipOption {
	return func(s *PackingSlipServiceImpl) {
		if max > 0 {
			s.maxCapacity = max
		}
	}
}

// WithClock sets the time source for generated_at and slip numbers.
func WithClock(now func() time.Time) PackingSlipOption {
	return func(s *PackingSlipServiceImpl) {
		s.now = now
	}
}

// WithSlipNumberGenerator sets the slip number source.
func WithSlipNumberGenerator(gen SlipNumberGenerator) PackingSlipOption {
	return func(s *PackingSlipServiceImpl) {
		s.newSlipNo = gen
	}
}

// Generate implements PackingSlipService.
//
// The invoice is reserved before its allocations are read. From then on every
// exit path either commits (slip stored and invoice packed in one transaction)
// or releases the reservation.
func (s *PackingSlipServiceImpl) Generate(ctx context.Context, invoiceID string, boxCapacity int64, generatedBy string) (slip *model.PackingSlip, err error) {
	start := time.Now()
	defer func() {
		boxes := 0
		if slip != nil {
			boxes = slip.TotalBoxes
		}
		result := "success"
		if err != nil {
			result = ErrorCode(err)
		}
		metrics.RecordPackingSlipGeneration(time.Since(start), result, boxes)
	}()

	if err := s.validateCapacity(boxCapacity); err != nil {
		return nil, err
	}

	invoice, err := s.loadInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	switch invoice.Status {
	case model.InvoiceStatusConfirmed:
	case model.InvoiceStatusReserved:
		return nil, fmt.Errorf("%w: packing slip generation already in progress for invoice %s", ErrConflict, invoiceID)
	default:
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrInvalidState, invoiceID, invoice.Status)
	}

	if err := s.guard.Reserve(ctx, invoiceID); err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			s.release(ctx, invoiceID, err)
		}
	}()

	assembled, err := s.assemble(ctx, invoice, boxCapacity)
	if err != nil {
		return nil, err
	}
	assembled.GeneratedBy = generatedBy

	if err = s.persist(ctx, assembled); err != nil {
		return nil, err
	}
	committed = true

	if s.cache != nil {
		s.cache.Set(assembled.PackingSlipNo, *assembled)
	}
	s.publish(ctx, assembled)

	log.Info().
		Str("invoice_id", invoiceID).
		Str("packing_slip_no", assembled.PackingSlipNo).
		Int64("box_capacity", boxCapacity).
		Int("total_boxes", assembled.TotalBoxes).
		Int64("total_qty", assembled.TotalQty).
		Msg("Packing slip generated")

	return assembled, nil
}

// persist numbers the slip, stores it and marks the invoice packed in one
// transaction. A number already taken by another slip is replaced and the
// transaction retried, up to slipNumberAttempts times.
func (s *PackingSlipServiceImpl) persist(ctx context.Context, slip *model.PackingSlip) error {
	var err error
	for attempt := 1; attempt <= slipNumberAttempts; attempt++ {
		slip.PackingSlipNo = s.newSlipNo(slip.GeneratedAt)
		err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := s.slips.Create(txCtx, slip); err != nil {
				switch {
				case errors.Is(err, repository.ErrDuplicateSlipNumber):
					return err
				case errors.Is(err, repository.ErrDuplicatePackingSlip):
					return fmt.Errorf("%w: invoice %s already has a packing slip", ErrConflict, slip.InvoiceID)
				}
				return storageErr("persist packing slip", err)
			}
			return s.guard.Commit(txCtx, slip.InvoiceID)
		})
		if !errors.Is(err, repository.ErrDuplicateSlipNumber) {
			break
		}
		log.Warn().
			Str("invoice_id", slip.InvoiceID).
			Str("packing_slip_no", slip.PackingSlipNo).
			Int("attempt", attempt).
			Msg("Packing slip number taken, renumbering")
	}
	if err != nil && ErrorCode(err) == CodeInternal {
		return storageErr("commit packing slip", err)
	}
	return err
}

// Preview implements PackingSlipService. It accepts invoices in any status.
func (s *PackingSlipServiceImpl) Preview(ctx context.Context, invoiceID string, boxCapacity int64) (*model.PackingSlip, error) {
	if err := s.validateCapacity(boxCapacity); err != nil {
		return nil, err
	}

	invoice, err := s.loadInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	return s.assemble(ctx, invoice, boxCapacity)
}

// Get implements PackingSlipService. Concurrent misses for the same number
// share one repository read.
func (s *PackingSlipServiceImpl) Get(ctx context.Context, packingSlipNo string) (*model.PackingSlip, error) {
	if s.cache != nil {
		if slip, ok := s.cache.Get(packingSlipNo); ok {
			return &slip, nil
		}
	}

	v, err, _ := s.loads.Do(packingSlipNo, func() (interface{}, error) {
		slip, err := s.slips.FindByNo(ctx, packingSlipNo)
		if err != nil {
			return nil, storageErr("load packing slip", err)
		}
		if slip == nil {
			return nil, fmt.Errorf("%w: packing slip %s", ErrNotFound, packingSlipNo)
		}
		if s.cache != nil {
			s.cache.Set(packingSlipNo, *slip)
		}
		return *slip, nil
	})
	if err != nil {
		return nil, err
	}

	slip := v.(model.PackingSlip)
	return &slip, nil
}

// GetByInvoice implements PackingSlipService.
func (s *PackingSlipServiceImpl) GetByInvoice(ctx context.Context, invoiceID string) (*model.PackingSlip, error) {
	slip, err := s.slips.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, storageErr("load packing slip", err)
	}
	if slip == nil {
		return nil, fmt.Errorf("%w: no packing slip for invoice %s", ErrNotFound, invoiceID)
	}

	if s.cache != nil {
		s.cache.Set(slip.PackingSlipNo, *slip)
	}
	return slip, nil
}

// List implements PackingSlipService.
func (s *PackingSlipServiceImpl) List(ctx context.Context, limit int) ([]model.PackingSlip, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	slips, err := s.slips.List(ctx, limit)
	if err != nil {
		return nil, storageErr("list packing slips", err)
	}
	if slips == nil {
		slips = []model.PackingSlip{}
	}
	return slips, nil
}

func (s *PackingSlipServiceImpl) validateCapacity(boxCapacity int64) error {
	if boxCapacity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, boxCapacity)
	}
	if boxCapacity > s.maxCapacity {
		return fmt.Errorf("%w: %d exceeds maximum %d", ErrInvalidCapacity, boxCapacity, s.maxCapacity)
	}
	return nil
}

func (s *PackingSlipServiceImpl) loadInvoice(ctx context.Context, invoiceID string) (*model.Invoice, error) {
	invoice, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return nil, storageErr("load invoice", err)
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: invoice %s", ErrNotFound, invoiceID)
	}
	return invoice, nil
}

// assemble reads the allocations, checks them against the invoice and packs
// them into an unnumbered slip.
func (s *PackingSlipServiceImpl) assemble(ctx context.Context, invoice *model.Invoice, boxCapacity int64) (*model.PackingSlip, error) {
	lines, err := s.allocations.GetLineAllocations(ctx, invoice.ID)
	if err != nil {
		return nil, storageErr("load line allocations", err)
	}

	if err := checkIntegrity(invoice, lines); err != nil {
		return nil, err
	}

	boxes, err := s.packer.Pack(lines, boxCapacity)
	if err != nil {
		if errors.Is(err, ErrInvalidAllocation) {
			return nil, fmt.Errorf("%w: %v", ErrIntegrity, err)
		}
		return nil, err
	}

	var totalQty int64
	for _, b := range boxes {
		totalQty += b.TotalQty
	}

	return &model.PackingSlip{
		InvoiceID:   invoice.ID,
		InvoiceNo:   invoice.InvoiceNo,
		BoxCapacity: boxCapacity,
		Boxes:       boxes,
		TotalQty:    totalQty,
		TotalBoxes:  len(boxes),
		// Millisecond precision survives a round trip through the store unchanged.
		GeneratedAt: s.now().UTC().Truncate(time.Millisecond),
	}, nil
}

// checkIntegrity verifies that lot allocations account for every ordered unit.
func checkIntegrity(invoice *model.Invoice, lines []model.LineAllocation) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: invoice %s has no line allocations", ErrIntegrity, invoice.ID)
	}

	var allocated int64
	for i, l := range lines {
		if len(l.Lots) == 0 && l.Qty > 0 {
			return fmt.Errorf("%w: line %d (%s) has no lot allocations", ErrIntegrity, i+1, l.ItemID)
		}
		for j, lot := range l.Lots {
			if lot.Qty <= 0 {
				return fmt.Errorf("%w: line %d (%s) lot %d (%s) has qty %d",
					ErrIntegrity, i+1, l.ItemID, j+1, lot.LotNumber, lot.Qty)
			}
		}
		got, ok := l.AllocatedQty()
		if !ok {
			return fmt.Errorf("%w: line %d (%s) lot quantities overflow", ErrIntegrity, i+1, l.ItemID)
		}
		if got != l.Qty {
			return fmt.Errorf("%w: line %d (%s) allocates %d of %d ordered",
				ErrIntegrity, i+1, l.ItemID, got, l.Qty)
		}
		if allocated, ok = model.AddQty(allocated, l.Qty); !ok {
			return fmt.Errorf("%w: invoice %s allocations overflow", ErrIntegrity, invoice.ID)
		}
	}

	if len(invoice.Lines) > 0 {
		ordered, ok := invoice.TotalQty()
		if !ok {
			return fmt.Errorf("%w: invoice %s ordered quantities overflow", ErrIntegrity, invoice.ID)
		}
		if ordered != allocated {
			return fmt.Errorf("%w: invoice %s orders %d but allocations cover %d",
				ErrIntegrity, invoice.ID, ordered, allocated)
		}
	}
	return nil
}

// release returns a reservation after a failed generation. It runs detached from
// the request's cancellation so an aborted request still frees the invoice.
func (s *PackingSlipServiceImpl) release(ctx context.Context, invoiceID string, cause error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := s.guard.Release(ctx, invoiceID); err != nil {
		log.Error().
			Err(err).
			AnErr("cause", cause).
			Str("invoice_id", invoiceID).
			Msg("Failed to release invoice reservation")
		return
	}

	log.Warn().
		Err(cause).
		Str("invoice_id", invoiceID).
		Msg("Packing slip generation failed, reservation released")
}

func (s *PackingSlipServiceImpl) publish(ctx context.Context, slip *model.PackingSlip) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPackingSlipGenerated(ctx, slip); err != nil {
		log.Warn().
			Err(err).
			Str("packing_slip_no", slip.PackingSlipNo).
			Msg("Failed to publish packing slip event")
	}
}
