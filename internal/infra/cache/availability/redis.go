package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

// Redis кэш доступности в Redis, общий для всех инстансов сервиса
type Redis struct {
	client redis.UniversalClient
}

// NewRedis создает кэш поверх клиента go-redis
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// Get читает список слотов из Redis
func (r *Redis) Get(ctx context.Context, officeID int64, date time.Time) ([]domain.SlotAvailability, bool, error) {
	val, err := r.client.Get(ctx, Key(officeID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get: %v", ErrCacheUnavailable, err)
	}

	slots := make([]domain.SlotAvailability, 0)
	if err := json.Unmarshal(val, &slots); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return slots, true, nil
}

// Put сохраняет список слотов с TTL (SET ... EX)
func (r *Redis) Put(ctx context.Context, officeID int64, date time.Time, slots []domain.SlotAvailability, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if slots == nil {
		slots = []domain.SlotAvailability{}
	}

	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrCacheUnavailable, err)
	}

	if err := r.client.Set(ctx, Key(officeID, date), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set: %v", ErrCacheUnavailable, err)
	}

	return nil
}

// Invalidate удаляет ключ (DEL)
func (r *Redis) Invalidate(ctx context.Context, officeID int64, date time.Time) error {
	if err := r.client.Del(ctx, Key(officeID, date)).Err(); err != nil {
		return fmt.Errorf("%w: del: %v", ErrCacheUnavailable, err)
	}
	return nil
}
