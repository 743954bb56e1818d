package availability

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/metrics"
)

var testDate = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func sampleSlots() []domain.SlotAvailability {
	return []domain.SlotAvailability{
		{SlotID: 1, Start: "09:00", End: "09:30", Capacity: 2, Used: 1, Free: 1, Available: true},
		{SlotID: 2, Start: "09:30", End: "10:00", Capacity: 1, Used: 0, Free: 1, Available: true},
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "availability:15:2024-06-10", Key(15, testDate))
}

func TestMemory_GetPutInvalidate(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory()

	_, found, err := cache.Get(ctx, 1, testDate)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Put(ctx, 1, testDate, sampleSlots(), time.Minute))

	slots, found, err := cache.Get(ctx, 1, testDate)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sampleSlots(), slots)

	// Другая дата того же офиса не затрагивается
	_, found, _ = cache.Get(ctx, 1, testDate.AddDate(0, 0, 1))
	assert.False(t, found)

	require.NoError(t, cache.Invalidate(ctx, 1, testDate))
	_, found, _ = cache.Get(ctx, 1, testDate)
	assert.False(t, found)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory()

	current := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	require.NoError(t, cache.Put(ctx, 1, testDate, sampleSlots(), 30*time.Second))

	current = current.Add(29 * time.Second)
	_, found, _ := cache.Get(ctx, 1, testDate)
	assert.True(t, found)

	current = current.Add(time.Second)
	_, found, _ = cache.Get(ctx, 1, testDate)
	assert.False(t, found)
	assert.Equal(t, 0, cache.Len())
}

func TestMemory_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory()

	slots := sampleSlots()
	require.NoError(t, cache.Put(ctx, 1, testDate, slots, time.Minute))
	slots[0].Free = 100

	cached, _, _ := cache.Get(ctx, 1, testDate)
	assert.Equal(t, 1, cached[0].Free)
}

func TestMemory_Concurrent(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			office := int64(i % 5)
			_ = cache.Put(ctx, office, testDate, sampleSlots(), time.Minute)
			_, _, _ = cache.Get(ctx, office, testDate)
			_ = cache.Invalidate(ctx, office, testDate)
		}(i)
	}
	wg.Wait()
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedis(client), mr
}

func TestRedis_GetPutInvalidate(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestRedis(t)

	_, found, err := cache.Get(ctx, 3, testDate)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Put(ctx, 3, testDate, sampleSlots(), 30*time.Second))
	assert.True(t, mr.Exists("availability:3:2024-06-10"))
	assert.Equal(t, 30*time.Second, mr.TTL("availability:3:2024-06-10"))

	slots, found, err := cache.Get(ctx, 3, testDate)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sampleSlots(), slots)

	require.NoError(t, cache.Invalidate(ctx, 3, testDate))
	assert.False(t, mr.Exists("availability:3:2024-06-10"))
}

func TestRedis_EmptyListIsHit(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestRedis(t)

	require.NoError(t, cache.Put(ctx, 3, testDate, nil, time.Minute))

	slots, found, err := cache.Get(ctx, 3, testDate)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, slots)
}

func TestRedis_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestRedis(t)

	require.NoError(t, cache.Put(ctx, 3, testDate, sampleSlots(), 10*time.Second))
	mr.FastForward(11 * time.Second)

	_, found, err := cache.Get(ctx, 3, testDate)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_Errors(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestRedis(t)

	require.NoError(t, mr.Set("availability:3:2024-06-10", "not json"))
	_, _, err := cache.Get(ctx, 3, testDate)
	assert.ErrorIs(t, err, ErrDecode)

	mr.Close()
	_, _, err = cache.Get(ctx, 3, testDate)
	assert.ErrorIs(t, err, ErrCacheUnavailable)
	assert.ErrorIs(t, cache.Invalidate(ctx, 3, testDate), ErrCacheUnavailable)
}

func TestInstrumented_CountsResults(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	cache := NewInstrumented(NewMemory(), m)

	_, _, _ = cache.Get(ctx, 1, testDate)
	require.NoError(t, cache.Put(ctx, 1, testDate, sampleSlots(), time.Minute))
	_, _, _ = cache.Get(ctx, 1, testDate)
	require.NoError(t, cache.Invalidate(ctx, 1, testDate))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheRequestsTotal.WithLabelValues("miss")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheRequestsTotal.WithLabelValues("hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheInvalidationsTotal.WithLabelValues("ok")))
}

func TestInstrumented_NilMetrics(t *testing.T) {
	cache := NewInstrumented(NewMemory(), nil)
	_, found, err := cache.Get(context.Background(), 1, testDate)
	require.NoError(t, err)
	assert.False(t, found)
}
