package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/fundtrail/internal/application/settlement/idempotency"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

const (
	settlementIdempotencyPrefix = "fundtrail:settlement:idem:"
	defaultIdempotencyTTL       = 24 * time.Hour
)

// SettlementIdempotencyStore keeps settlement reservations in Redis. SETNX decides
// which caller owns a key, so the guarantee holds across process instances.
type SettlementIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewSettlementIdempotencyStore(client *redis.Client, ttl time.Duration, logger logger.Interface) *SettlementIdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &SettlementIdempotencyStore{client: client, ttl: ttl, logger: logger}
}

var _ idempotency.Store = (*SettlementIdempotencyStore)(nil)

func (s *SettlementIdempotencyStore) Begin(ctx context.Context, key string) (*idempotency.Record, bool, error) {
	fresh := &idempotency.Record{Status: idempotency.StatusInFlight}
	raw, err := json.Marshal(fresh)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal idempotency record: %w", err)
	}

	// The existing key can expire between SETNX and GET, so try twice.
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, s.key(key), raw, s.ttl).Result()
		if err != nil {
			return nil, false, fmt.Errorf("failed to reserve idempotency key: %w", err)
		}
		if ok {
			return fresh, true, nil
		}

		existing, err := s.get(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	return nil, false, fmt.Errorf("idempotency key %s kept changing during reservation", key)
}

func (s *SettlementIdempotencyStore) MarkSubmitted(ctx context.Context, key, reference string) error {
	return s.put(ctx, key, &idempotency.Record{Status: idempotency.StatusSubmitted, Reference: reference})
}

func (s *SettlementIdempotencyStore) Complete(ctx context.Context, key, reference string, confirmedRound uint64) error {
	return s.put(ctx, key, &idempotency.Record{
		Status:         idempotency.StatusCompleted,
		Reference:      reference,
		ConfirmedRound: confirmedRound,
	})
}

func (s *SettlementIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	s.logger.Debugw("idempotency key released", "key", key)
	return nil
}

func (s *SettlementIdempotencyStore) put(ctx context.Context, key string, record *idempotency.Record) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency record: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency record: %w", err)
	}
	return nil
}

func (s *SettlementIdempotencyStore) get(ctx context.Context, key string) (*idempotency.Record, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read idempotency key: %w", err)
	}

	var record idempotency.Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("corrupt idempotency record for %s: %w", key, err)
	}
	return &record, nil
}

func (s *SettlementIdempotencyStore) key(key string) string {
	return settlementIdempotencyPrefix + key
}
