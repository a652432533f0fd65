package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"qrbill/internal/billing"
	"qrbill/pkg/platform/sentinel"
)

const (
	billKeyPrefix      = "qrbill:bill:"
	referenceKeyPrefix = "qrbill:ref:"
)

// RedisStore keeps issued bills in Redis. Entries expire after the configured
// TTL; an expired bill is reported as not found.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a Redis-backed store. A non-positive ttl keeps
// entries forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Save writes the bill and its reference claim in one WATCH transaction. A
// bill ID or reference already present, or written concurrently, conflicts
// and leaves nothing behind.
func (s *RedisStore) Save(ctx context.Context, issued *billing.IssuedBill) error {
	if issued == nil || issued.Bill == nil {
		return fmt.Errorf("issued bill is required")
	}
	data, err := json.Marshal(issued)
	if err != nil {
		return fmt.Errorf("marshal bill: %w", err)
	}

	billKey := billKeyPrefix + issued.ID.String()
	keys := []string{billKey}
	refKey := ""
	if key := referenceKey(issued); key != "" {
		refKey = referenceKeyPrefix + key
		keys = append(keys, refKey)
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		if n, err := tx.Exists(ctx, billKey).Result(); err != nil {
			return fmt.Errorf("check bill: %w", err)
		} else if n > 0 {
			return fmt.Errorf("bill %s: %w", issued.ID, sentinel.ErrConflict)
		}
		if refKey != "" {
			if n, err := tx.Exists(ctx, refKey).Result(); err != nil {
				return fmt.Errorf("check reference: %w", err)
			} else if n > 0 {
				return fmt.Errorf("reference %s: %w", issued.Bill.Reference, sentinel.ErrConflict)
			}
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, billKey, data, s.ttl)
			if refKey != "" {
				pipe.Set(ctx, refKey, issued.ID.String(), s.ttl)
			}
			return nil
		})
		return err
	}, keys...)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("bill %s: %w", issued.ID, sentinel.ErrConflict)
	}
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return err
		}
		return fmt.Errorf("save bill: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, id uuid.UUID) (*billing.IssuedBill, error) {
	data, err := s.client.Get(ctx, billKeyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("bill %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find bill: %w", err)
	}

	var issued billing.IssuedBill
	if err := json.Unmarshal(data, &issued); err != nil {
		return nil, fmt.Errorf("unmarshal bill %s: %w", id, err)
	}
	return &issued, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
