package availability

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

type memoryEntry struct {
	slots     []domain.SlotAvailability
	expiresAt time.Time
}

// Memory кэш доступности в памяти процесса
// Подходит для одного инстанса и тестов; истекшие записи удаляются при чтении
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory создает кэш в памяти
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get возвращает закэшированный список, found = false при промахе или истекшем TTL
func (m *Memory) Get(_ context.Context, officeID int64, date time.Time) ([]domain.SlotAvailability, bool, error) {
	key := Key(officeID, date)

	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		// Запись могла быть перезаписана между блокировками
		if current, ok := m.entries[key]; ok && !m.now().Before(current.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}

	return cloneSlots(entry.slots), true, nil
}

// Put сохраняет список на ttl
func (m *Memory) Put(_ context.Context, officeID int64, date time.Time, slots []domain.SlotAvailability, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	m.entries[Key(officeID, date)] = memoryEntry{
		slots:     cloneSlots(slots),
		expiresAt: m.now().Add(ttl),
	}
	m.mu.Unlock()

	return nil
}

// Invalidate удаляет запись для пары (офис, дата)
func (m *Memory) Invalidate(_ context.Context, officeID int64, date time.Time) error {
	m.mu.Lock()
	delete(m.entries, Key(officeID, date))
	m.mu.Unlock()

	return nil
}

// Len количество записей, включая еще не удаленные истекшие
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func cloneSlots(slots []domain.SlotAvailability) []domain.SlotAvailability {
	if slots == nil {
		return []domain.SlotAvailability{}
	}
	return append([]domain.SlotAvailability(nil), slots...)
}
