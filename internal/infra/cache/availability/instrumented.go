package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/metrics"
)

// Store общий интерфейс реализаций кэша (Memory, Redis)
type Store interface {
	Get(ctx context.Context, officeID int64, date time.Time) ([]domain.SlotAvailability, bool, error)
	Put(ctx context.Context, officeID int64, date time.Time, slots []domain.SlotAvailability, ttl time.Duration) error
	Invalidate(ctx context.Context, officeID int64, date time.Time) error
}

// Instrumented считает попадания, промахи и инвалидации в prometheus
type Instrumented struct {
	next    Store
	metrics *metrics.Metrics
}

// NewInstrumented оборачивает кэш метриками
// При m == nil метрики не пишутся
func NewInstrumented(next Store, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (c *Instrumented) Get(ctx context.Context, officeID int64, date time.Time) ([]domain.SlotAvailability, bool, error) {
	slots, found, err := c.next.Get(ctx, officeID, date)
	switch {
	case err != nil:
		c.metrics.IncCacheRequest("error")
	case found:
		c.metrics.IncCacheRequest("hit")
	default:
		c.metrics.IncCacheRequest("miss")
	}
	return slots, found, err
}

func (c *Instrumented) Put(ctx context.Context, officeID int64, date time.Time, slots []domain.SlotAvailability, ttl time.Duration) error {
	return c.next.Put(ctx, officeID, date, slots, ttl)
}

func (c *Instrumented) Invalidate(ctx context.Context, officeID int64, date time.Time) error {
	err := c.next.Invalidate(ctx, officeID, date)
	if err != nil {
		c.metrics.IncCacheInvalidation("error")
	} else {
		c.metrics.IncCacheInvalidation("ok")
	}
	return err
}
