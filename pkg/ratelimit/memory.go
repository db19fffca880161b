package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Defaults из правил онлайн-записи: 3 запроса в минуту с одного адреса
const (
	DefaultLimit  = 3
	DefaultWindow = time.Minute
)

// Memory фиксированное окно в памяти процесса.
// Счетчики живут до рестарта и не разделяются между инстансами.
type Memory struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

type visitor struct {
	count     int
	resetTime time.Time
}

// NewMemory создает лимитер в памяти
func NewMemory(limit int, window time.Duration) *Memory {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Memory{
		limit:    limit,
		window:   window,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// Allow засчитывает попытку и возвращает false, если лимит окна исчерпан.
// Истекшее окно сбрасывается лениво при первом обращении.
func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	v := m.visitors[key]
	if v == nil || now.After(v.resetTime) {
		m.visitors[key] = &visitor{count: 1, resetTime: now.Add(m.window)}
		m.evictExpired(now)
		return true, nil
	}

	if v.count >= m.limit {
		return false, nil
	}
	v.count++
	return true, nil
}

// evictExpired чистит истекшие окна, чтобы карта не росла бесконечно
func (m *Memory) evictExpired(now time.Time) {
	for key, v := range m.visitors {
		if now.After(v.resetTime) {
			delete(m.visitors, key)
		}
	}
}
