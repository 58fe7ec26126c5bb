//go:build !integration

package app

import (
	"testing"
	"time"

	"github.com/guttosm/packing-slip-service/config"
	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/guttosm/packing-slip-service/internal/events"
	"github.com/guttosm/packing-slip-service/internal/mocks"
	"github.com/guttosm/packing-slip-service/internal/repository"
	"github.com/guttosm/packing-slip-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockDatabaseComponents() *DatabaseComponents {
	return &DatabaseComponents{
		Invoices:     new(mocks.MockInvoiceRepositoryInterface),
		Allocations:  new(mocks.MockAllocationRepositoryInterface),
		PackingSlips: new(mocks.MockPackingSlipRepositoryInterface),
		TxRunner:     repository.NoopTxRunner{},
	}
}

func TestInitializeServices(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		db       *DatabaseComponents
		validate func(*testing.T, *ServiceComponents)
	}{
		{
			name: "packer only without database",
			cfg: config.Config{
				Packing: config.PackingConfig{MaxBoxCapacity: 5000},
			},
			validate: func(t *testing.T, components *ServiceComponents) {
				assert.NotNil(t, components.Packer)
				assert.Nil(t, components.PackingSlips)
				assert.Nil(t, components.SlipCache)
				assert.IsType(t, events.NoopPublisher{}, components.Publisher)
			},
		},
		{
			name: "packing slip service with cache",
			cfg: config.Config{
				Packing: config.PackingConfig{
					MaxBoxCapacity: 5000,
					SlipCacheSize:  100,
					SlipCacheTTL:   time.Minute,
				},
			},
			db: mockDatabaseComponents(),
			validate: func(t *testing.T, components *ServiceComponents) {
				assert.NotNil(t, components.PackingSlips)
				require.NotNil(t, components.SlipCache)
				components.SlipCache.Stop()
			},
		},
		{
			name: "packing slip service with cache disabled",
			cfg:  config.Config{},
			db:   mockDatabaseComponents(),
			validate: func(t *testing.T, components *ServiceComponents) {
				assert.NotNil(t, components.PackingSlips)
				assert.Nil(t, components.SlipCache)
			},
		},
		{
			name: "kafka publisher when events are enabled",
			cfg: config.Config{
				Events: config.EventsConfig{
					Enabled:      true,
					Brokers:      []string{"localhost:9092"},
					Topic:        "packing-slips",
					WriteTimeout: time.Second,
				},
			},
			validate: func(t *testing.T, components *ServiceComponents) {
				assert.IsType(t, &events.KafkaPublisher{}, components.Publisher)
				assert.NoError(t, components.Publisher.Close())
			},
		},
		{
			name: "events enabled without brokers falls back to noop",
			cfg: config.Config{
				Events: config.EventsConfig{Enabled: true},
			},
			validate: func(t *testing.T, components *ServiceComponents) {
				assert.IsType(t, events.NoopPublisher{}, components.Publisher)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			components := InitializeServices(tt.cfg, tt.db)
			require.NotNil(t, components)
			if tt.validate != nil {
				tt.validate(t, components)
			}
		})
	}
}

func TestServiceComponents_PackerHonoursMaxCapacity(t *testing.T) {
	components := InitializeServices(config.Config{
		Packing: config.PackingConfig{MaxBoxCapacity: 500},
	}, nil)

	lines := []model.LineAllocation{{
		ItemID: "A",
		Qty:    700,
		Lots:   []model.LotAllocation{{LotNumber: "L1", Qty: 700}},
	}}

	boxes, err := components.Packer.Pack(lines, 500)
	require.NoError(t, err)
	assert.Len(t, boxes, 2)

	_, err = components.Packer.Pack(lines, 501)
	assert.Error(t, err)
}

func TestServiceComponents_PackerHonoursMaxBoxes(t *testing.T) {
	components := InitializeServices(config.Config{
		Packing: config.PackingConfig{MaxBoxCapacity: 1000, MaxBoxes: 2},
	}, nil)

	lines := []model.LineAllocation{{
		ItemID: "A",
		Qty:    300,
		Lots:   []model.LotAllocation{{LotNumber: "L1", Qty: 300}},
	}}

	boxes, err := components.Packer.Pack(lines, 150)
	require.NoError(t, err)
	assert.Len(t, boxes, 2)

	_, err = components.Packer.Pack(lines, 149)
	assert.ErrorIs(t, err, service.ErrInvalidCapacity)
}
