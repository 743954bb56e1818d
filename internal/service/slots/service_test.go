package slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
	officeRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/office"
	scheduleRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type stubOffices struct{}

func (stubOffices) GetByID(_ context.Context, id int64) (*domain.Office, error) {
	if id != 1 {
		return nil, officeRepo.ErrOfficeNotFound
	}
	return &domain.Office{ID: 1}, nil
}

// events общий журнал вызовов транзакции и кэша
type events []string

type stubTx struct {
	log *events
}

func (tx stubTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	*tx.log = append(*tx.log, "begin")
	if err := fn(ctx); err != nil {
		*tx.log = append(*tx.log, "rollback")
		return err
	}
	*tx.log = append(*tx.log, "commit")
	return nil
}

type stubCache struct {
	log  *events
	keys []string
}

func (c *stubCache) Invalidate(_ context.Context, officeID int64, date time.Time) error {
	*c.log = append(*c.log, "invalidate")
	c.keys = append(c.keys, domain.DateKey(date))
	return nil
}

// memSchedules хранилище расписаний в памяти
type memSchedules struct {
	schedules map[string]*domain.Schedule
	slots     map[int64]*domain.Slot
	nextID    int64
	failWith  error
}

func newMemSchedules() *memSchedules {
	return &memSchedules{
		schedules: make(map[string]*domain.Schedule),
		slots:     make(map[int64]*domain.Slot),
	}
}

func (m *memSchedules) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memSchedules) GetByOfficeAndDate(_ context.Context, officeID int64, date time.Time) (*domain.Schedule, error) {
	schedule, ok := m.schedules[domain.DateKey(date)]
	if !ok || schedule.OfficeID != officeID {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	copied := *schedule
	return &copied, nil
}

func (m *memSchedules) GetByID(_ context.Context, id int64) (*domain.Schedule, error) {
	for _, schedule := range m.schedules {
		if schedule.ID == id {
			copied := *schedule
			return &copied, nil
		}
	}
	return nil, scheduleRepo.ErrScheduleNotFound
}

func (m *memSchedules) GetOrCreate(ctx context.Context, officeID int64, date time.Time, isWorkingDay bool) (*domain.Schedule, error) {
	if existing, err := m.GetByOfficeAndDate(ctx, officeID, date); err == nil {
		return existing, nil
	}
	schedule := &domain.Schedule{ID: m.id(), OfficeID: officeID, Date: date, IsWorkingDay: isWorkingDay}
	m.schedules[domain.DateKey(date)] = schedule
	copied := *schedule
	return &copied, nil
}

func (m *memSchedules) UpdateState(_ context.Context, schedule *domain.Schedule) error {
	copied := *schedule
	m.schedules[domain.DateKey(schedule.Date)] = &copied
	return nil
}

func (m *memSchedules) GetSlotByID(_ context.Context, id int64) (*domain.Slot, error) {
	slot, ok := m.slots[id]
	if !ok {
		return nil, scheduleRepo.ErrSlotNotFound
	}
	copied := *slot
	return &copied, nil
}

func (m *memSchedules) CreateSlot(_ context.Context, slot *domain.Slot) (*domain.Slot, error) {
	created := *slot
	created.ID = m.id()
	m.slots[created.ID] = &created
	copied := created
	return &copied, nil
}

func (m *memSchedules) UpdateSlotCapacity(_ context.Context, id int64, capacity int) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.slots[id].Capacity = capacity
	return nil
}

func (m *memSchedules) UpdateSlotAvailability(_ context.Context, id int64, available bool) error {
	m.slots[id].Available = available
	return nil
}

func (m *memSchedules) deleteWhere(scheduleID int64, match func(*domain.Slot) bool) int64 {
	var deleted int64
	for id, slot := range m.slots {
		if slot.ScheduleID == scheduleID && match(slot) {
			delete(m.slots, id)
			deleted++
		}
	}
	return deleted
}

func (m *memSchedules) DeleteSlotsStartingFrom(_ context.Context, scheduleID int64, cutoff types.TimeString) (int64, error) {
	return m.deleteWhere(scheduleID, func(s *domain.Slot) bool { return !s.Start.IsBefore(cutoff) }), nil
}

func (m *memSchedules) DeleteSlotsEndingBy(_ context.Context, scheduleID int64, cutoff types.TimeString) (int64, error) {
	return m.deleteWhere(scheduleID, func(s *domain.Slot) bool { return !s.End.IsAfter(cutoff) }), nil
}

func (m *memSchedules) DeleteSlotsOverlapping(_ context.Context, scheduleID int64, from, to types.TimeString) (int64, error) {
	return m.deleteWhere(scheduleID, func(s *domain.Slot) bool { return s.OverlapsWith(from, to) }), nil
}

var (
	day = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	now = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
)

func newFixture() (*Service, *memSchedules, *stubCache, *events) {
	log := &events{}
	repo := newMemSchedules()
	cache := &stubCache{log: log}
	svc := NewService(stubOffices{}, repo, stubTx{log: log}, cache, nopLogger{}).
		WithTimeProvider(fixedTime{now: now})
	return svc, repo, cache, log
}

// seedDay создает рабочий день со слотами 09:00-12:00 по часу
func seedDay(t *testing.T, repo *memSchedules) *domain.Schedule {
	t.Helper()
	ctx := context.Background()

	schedule, err := repo.GetOrCreate(ctx, 1, day, true)
	require.NoError(t, err)

	for _, r := range [][2]string{{"09:00", "10:00"}, {"10:00", "11:00"}, {"11:00", "12:00"}} {
		_, err := repo.CreateSlot(ctx, &domain.Slot{
			ScheduleID: schedule.ID,
			Start:      types.MustTimeString(r[0]),
			End:        types.MustTimeString(r[1]),
			Capacity:   1,
			Available:  true,
		})
		require.NoError(t, err)
	}

	return schedule
}

func slotByStart(repo *memSchedules, start string) *domain.Slot {
	for _, slot := range repo.slots {
		if slot.Start.String() == start {
			return slot
		}
	}
	return nil
}

func TestSetCapacity(t *testing.T) {
	svc, repo, cache, log := newFixture()
	seedDay(t, repo)
	target := slotByStart(repo, "10:00")

	slot, err := svc.SetCapacity(context.Background(), target.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, slot.Capacity)
	assert.Equal(t, 3, repo.slots[target.ID].Capacity)

	schedule := repo.schedules[domain.DateKey(day)]
	assert.True(t, schedule.IsCustomized)
	require.NotNil(t, schedule.CustomizedAt)
	assert.Equal(t, now, *schedule.CustomizedAt)

	assert.Equal(t, events{"begin", "commit", "invalidate"}, *log)
	assert.Equal(t, []string{"2024-06-10"}, cache.keys)
}

func TestSetCapacity_Errors(t *testing.T) {
	svc, repo, _, log := newFixture()
	seedDay(t, repo)
	ctx := context.Background()

	_, err := svc.SetCapacity(ctx, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SetCapacity(ctx, 999, 2)
	assert.ErrorIs(t, err, ErrSlotNotFound)

	repo.failWith = errors.New("deadlock")
	_, err = svc.SetCapacity(ctx, slotByStart(repo, "09:00").ID, 2)
	assert.ErrorIs(t, err, ErrInternal)

	assert.NotContains(t, *log, "invalidate")
}

func TestSetAvailability(t *testing.T) {
	svc, repo, _, _ := newFixture()
	seedDay(t, repo)
	target := slotByStart(repo, "11:00")

	slot, err := svc.SetAvailability(context.Background(), target.ID, false)
	require.NoError(t, err)
	assert.False(t, slot.Available)
	assert.False(t, repo.slots[target.ID].Available)
}

func TestCloseAndOpenDay(t *testing.T) {
	svc, repo, cache, _ := newFixture()
	ctx := context.Background()

	schedule, err := svc.CloseDay(ctx, 1, day)
	require.NoError(t, err)
	assert.False(t, schedule.IsWorkingDay)
	assert.True(t, schedule.IsCustomized)
	assert.False(t, repo.schedules[domain.DateKey(day)].IsWorkingDay)

	// Повторное закрытие дает то же состояние
	_, err = svc.CloseDay(ctx, 1, day)
	require.NoError(t, err)
	assert.Len(t, repo.schedules, 1)

	schedule, err = svc.OpenDay(ctx, 1, day)
	require.NoError(t, err)
	assert.True(t, schedule.IsWorkingDay)
	assert.True(t, repo.schedules[domain.DateKey(day)].IsWorkingDay)

	assert.Len(t, cache.keys, 3)
}

func TestCloseDay_KeepsSlots(t *testing.T) {
	svc, repo, _, _ := newFixture()
	seedDay(t, repo)

	_, err := svc.CloseDay(context.Background(), 1, day)
	require.NoError(t, err)
	assert.Len(t, repo.slots, 3)
}

func TestCloseDay_UnknownOffice(t *testing.T) {
	svc, _, _, log := newFixture()

	_, err := svc.CloseDay(context.Background(), 42, day)
	assert.ErrorIs(t, err, ErrOfficeNotFound)
	assert.Empty(t, *log)
}

func TestTruncateAfter(t *testing.T) {
	svc, repo, _, _ := newFixture()
	seedDay(t, repo)
	ctx := context.Background()

	deleted, err := svc.TruncateAfter(ctx, 1, day, types.MustTimeString("10:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NotNil(t, slotByStart(repo, "09:00"))

	// Идемпотентность
	deleted, err = svc.TruncateAfter(ctx, 1, day, types.MustTimeString("10:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
	assert.Len(t, repo.slots, 1)
}

func TestTruncateBefore(t *testing.T) {
	svc, repo, _, _ := newFixture()
	seedDay(t, repo)

	deleted, err := svc.TruncateBefore(context.Background(), 1, day, types.MustTimeString("11:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NotNil(t, slotByStart(repo, "11:00"))
	assert.True(t, repo.schedules[domain.DateKey(day)].IsCustomized)
}

func TestClearInterval(t *testing.T) {
	svc, repo, _, _ := newFixture()
	seedDay(t, repo)
	ctx := context.Background()

	deleted, err := svc.ClearInterval(ctx, 1, day, types.MustTimeString("09:30"), types.MustTimeString("10:30"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NotNil(t, slotByStart(repo, "11:00"))

	_, err = svc.ClearInterval(ctx, 1, day, types.MustTimeString("11:00"), types.MustTimeString("11:00"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestClearInterval_NoSchedule(t *testing.T) {
	svc, _, cache, _ := newFixture()

	deleted, err := svc.ClearInterval(context.Background(), 1, day, types.MustTimeString("09:00"), types.MustTimeString("10:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
	assert.Empty(t, cache.keys)
}

func TestAddSlot(t *testing.T) {
	svc, repo, cache, _ := newFixture()
	ctx := context.Background()

	slot, err := svc.AddSlot(ctx, 1, day, types.MustTimeString("14:00"), types.MustTimeString("14:30"), 2)
	require.NoError(t, err)
	assert.Equal(t, "14:00-14:30", slot.Key())
	assert.True(t, slot.Available)

	schedule := repo.schedules[domain.DateKey(day)]
	require.NotNil(t, schedule)
	assert.True(t, schedule.IsWorkingDay)
	assert.True(t, schedule.IsCustomized)
	assert.Equal(t, []string{"2024-06-10"}, cache.keys)

	_, err = svc.AddSlot(ctx, 1, day, types.MustTimeString("15:00"), types.MustTimeString("14:00"), 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddSlot(ctx, 1, day, types.MustTimeString("15:00"), types.MustTimeString("16:00"), -2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
