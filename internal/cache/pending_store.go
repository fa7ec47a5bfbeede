package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/claudemirLima/changeApp/internal/config"
	"github.com/claudemirLima/changeApp/internal/models"
	apperrors "github.com/claudemirLima/changeApp/pkg/errors"
)

const pendingKeyPrefix = "transaction:"

// PendingStore holds conversion outcomes awaiting confirmation. Every entry
// is written with a fixed TTL; expiry is enforced by Redis, so a read after
// expiry is indistinguishable from a read of a never-created key.
type PendingStore interface {
	Create(ctx context.Context, pending *models.PendingTransaction) error
	Get(ctx context.Context, transactionID string) (*models.PendingTransaction, error)
	Delete(ctx context.Context, transactionID string) error
	Exists(ctx context.Context, transactionID string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

type redisPendingStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewPendingStore(cfg config.RedisConfig) (PendingStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisPendingStore{
		client:    rdb,
		keyPrefix: cfg.KeyPrefix,
		ttl:       models.PendingTransactionTTL,
	}, nil
}

func (s *redisPendingStore) buildKey(transactionID string) string {
	key := pendingKeyPrefix + transactionID
	if s.keyPrefix != "" {
		return fmt.Sprintf("%s:%s", s.keyPrefix, key)
	}
	return key
}

func (s *redisPendingStore) Create(ctx context.Context, pending *models.PendingTransaction) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to marshal pending transaction: %w", err)
	}
	return s.client.Set(ctx, s.buildKey(pending.TransactionID), data, s.ttl).Err()
}

func (s *redisPendingStore) Get(ctx context.Context, transactionID string) (*models.PendingTransaction, error) {
	data, err := s.client.Get(ctx, s.buildKey(transactionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.ErrPendingTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get pending transaction: %w", err)
	}

	var pending models.PendingTransaction
	if err := json.Unmarshal([]byte(data), &pending); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending transaction: %w", err)
	}
	return &pending, nil
}

func (s *redisPendingStore) Delete(ctx context.Context, transactionID string) error {
	return s.client.Del(ctx, s.buildKey(transactionID)).Err()
}

func (s *redisPendingStore) Exists(ctx context.Context, transactionID string) (bool, error) {
	result, err := s.client.Exists(ctx, s.buildKey(transactionID)).Result()
	return result > 0, err
}

func (s *redisPendingStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *redisPendingStore) Close() error {
	return s.client.Close()
}
