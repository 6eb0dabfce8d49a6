package repository

import (
	"context"
	"time"

	"woki-api/core/cache"
	"woki-api/core/constants"
	"woki-api/core/logger"
	"woki-api/modules/booking/entity"
)

// IdempotencyRepository keeps booking results keyed by the caller-supplied
// idempotency key, in Redis with a TTL.
type IdempotencyRepository struct {
	cache cache.Cache
}

func NewIdempotencyRepository(c cache.Cache) *IdempotencyRepository {
	return &IdempotencyRepository{cache: c}
}

func (r *IdempotencyRepository) GetResult(ctx context.Context, key string) (*entity.Booking, error) {
	var booking entity.Booking
	found, err := r.cache.Get(ctx, constants.RedisKeyIdempotency+key, &booking)
	if err != nil {
		logger.Error("IdempotencyRepository:GetResult:Error", "error", err, "key", key)
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &booking, nil
}

func (r *IdempotencyRepository) StoreResult(ctx context.Context, key string, booking *entity.Booking, ttl time.Duration) error {
	if err := r.cache.Set(ctx, constants.RedisKeyIdempotency+key, booking, ttl); err != nil {
		logger.Error("IdempotencyRepository:StoreResult:Error", "error", err, "key", key)
		return err
	}
	return nil
}
