package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Database struct {
	Client   *mongo.Client
	Database *mongo.Database
}

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
	MinPoolSize    uint64
}

func NewConnection(cfg Config) (*Database, error) {
	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.URI)
	if cfg.MaxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		clientOptions.SetMinPoolSize(cfg.MinPoolSize)
	}
	clientOptions.SetMaxConnIdleTime(30 * time.Second)
	clientOptions.SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := &Database{
		Client:   client,
		Database: client.Database(cfg.Database),
	}

	if err := db.CreateIndexes(); err != nil {
		log.Printf("Warning: Failed to create indexes: %v", err)
	}

	return db, nil
}

func (d *Database) GetCollection(name string) *mongo.Collection {
	return d.Database.Collection(name)
}

func (d *Database) Ping(ctx context.Context) error {
	return d.Client.Ping(ctx, nil)
}

func (d *Database) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}

func (d *Database) CreateIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rates := d.Database.Collection("exchange_rates")
	rateIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "from_currency_code", Value: 1},
				{Key: "to_currency_code", Value: 1},
				{Key: "is_active", Value: 1},
				{Key: "effective_date", Value: -1},
			},
			Options: options.Index().SetName("pair_active_effective_idx"),
		},
	}
	if _, err := rates.Indexes().CreateMany(ctx, rateIndexes); err != nil {
		return err
	}

	productRates := d.Database.Collection("product_exchange_rates")
	productRateIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "product_id", Value: 1},
				{Key: "from_currency_code", Value: 1},
				{Key: "to_currency_code", Value: 1},
				{Key: "is_active", Value: 1},
				{Key: "effective_date", Value: -1},
			},
			Options: options.Index().SetName("product_pair_active_effective_idx"),
		},
	}
	if _, err := productRates.Indexes().CreateMany(ctx, productRateIndexes); err != nil {
		return err
	}

	currencies := d.Database.Collection("currencies")
	currencyIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}, {Key: "is_active", Value: 1}},
			Options: options.Index().SetName("code_active_idx"),
		},
	}
	if _, err := currencies.Indexes().CreateMany(ctx, currencyIndexes); err != nil {
		return err
	}

	transactions := d.Database.Collection("transactions")
	transactionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "correlation_id", Value: 1}},
			Options: options.Index().SetName("correlation_idx").SetSparse(true),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("status_created_idx"),
		},
	}
	if _, err := transactions.Indexes().CreateMany(ctx, transactionIndexes); err != nil {
		return err
	}

	return nil
}
