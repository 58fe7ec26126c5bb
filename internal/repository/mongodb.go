// Package repository provides data access layer for MongoDB.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	InvoicesCollection        = "invoices"
	LineAllocationsCollection = "line_allocations"
	PackingSlipsCollection    = "packing_slips"
	LogsCollection            = "logs"
)

const (
	logsTTLIndex       = "timestamp_1"
	healthCheckTimeout = 2 * time.Second
)

// MongoConfig holds MongoDB connection pool configuration.
type MongoConfig struct {
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	// ConnectTimeout also bounds the initial ping and index creation.
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
	EnableCompression      bool
}

// DefaultMongoConfig returns the pool settings used in production.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		MaxPoolSize:            50,
		MinPoolSize:            10,
		MaxConnIdleTime:        10 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          30 * time.Second,
		EnableCompression:      true,
	}
}

func (cfg MongoConfig) clientOptions(uri string) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetSocketTimeout(cfg.SocketTimeout).
		SetRetryWrites(true).
		SetRetryReads(true)
	if cfg.EnableCompression {
		opts.SetCompressors([]string{"zstd", "snappy", "zlib"})
	}
	return opts
}

// MongoDB provides MongoDB client and database access.
type MongoDB struct {
	Client          *mongo.Client
	Database        *mongo.Database
	Invoices        *mongo.Collection
	LineAllocations *mongo.Collection
	PackingSlips    *mongo.Collection
	Logs            *mongo.Collection
}

// NewMongoDB creates a new MongoDB connection with default configuration.
func NewMongoDB(uri, databaseName string) (*MongoDB, error) {
	return NewMongoDBWithConfig(uri, databaseName, DefaultMongoConfig())
}

// NewMongoDBWithConfig connects, pings the deployment and ensures the indexes.
// The client is disconnected again when any of these steps fails.
func NewMongoDBWithConfig(uri, databaseName string, cfg MongoConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, cfg.clientOptions(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	m := bind(client, databaseName)
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

func bind(client *mongo.Client, databaseName string) *MongoDB {
	db := client.Database(databaseName)
	return &MongoDB{
		Client:          client,
		Database:        db,
		Invoices:        db.Collection(InvoicesCollection),
		LineAllocations: db.Collection(LineAllocationsCollection),
		PackingSlips:    db.Collection(PackingSlipsCollection),
		Logs:            db.Collection(LogsCollection),
	}
}

// indexSet is the index list of one collection. Required sets back an
// invariant and fail startup; the others only speed up reads.
type indexSet struct {
	collection string
	required   bool
	models     []mongo.IndexModel
}

func indexSets() []indexSet {
	return []indexSet{
		{
			// One slip per invoice, even if the status guard were bypassed.
			collection: PackingSlipsCollection,
			required:   true,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "invoice_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			},
		},
		{
			collection: LineAllocationsCollection,
			required:   true,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "invoice_id", Value: 1}, {Key: "line_no", Value: 1}}, Options: options.Index().SetUnique(true)},
			},
		},
		{
			collection: PackingSlipsCollection,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "generated_at", Value: -1}}},
			},
		},
		{
			// Stale reservation sweep.
			collection: InvoicesCollection,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "status", Value: 1}, {Key: "reserved_at", Value: 1}}},
			},
		},
		{
			// The TTL index is owned by SetLogsTTL.
			collection: LogsCollection,
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "request_id", Value: 1}}},
				{Keys: bson.D{{Key: "invoice_id", Value: 1}, {Key: "timestamp", Value: -1}}},
			},
		},
	}
}

func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	for _, set := range indexSets() {
		_, err := m.Database.Collection(set.collection).Indexes().CreateMany(ctx, set.models)
		switch {
		case err == nil:
		case set.required:
			return fmt.Errorf("create %s indexes: %w", set.collection, err)
		default:
			log.Warn().Err(err).Str("collection", set.collection).Msg("Optional index creation failed")
		}
	}
	return nil
}

// SetLogsTTL makes log entries expire ttl after their timestamp. The index is
// rebuilt because MongoDB cannot change expireAfterSeconds through createIndexes.
func (m *MongoDB) SetLogsTTL(ctx context.Context, ttl time.Duration) error {
	// Absent on first start.
	_, _ = m.Logs.Indexes().DropOne(ctx, logsTTLIndex)

	_, err := m.Logs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: 1}},
		Options: options.Index().SetName(logsTTLIndex).SetExpireAfterSeconds(int32(ttl / time.Second)),
	})
	if err != nil {
		return fmt.Errorf("set logs ttl: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck pings the primary within a short deadline.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}
