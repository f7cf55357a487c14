package guard

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type window struct {
	count int
	start time.Time
}

// MemoryLimiter keeps per-key counters in process. Increment and compare
// happen under one lock so concurrent requests from a client are never undercounted.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (m *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	m.now = now
	return m
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := m.now()

	m.mu.Lock()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.start.Add(m.period)) {
		w = &window{start: now}
		m.windows[key] = w
	}
	w.count++
	count, resetAt := w.count, w.start.Add(m.period)
	m.mu.Unlock()

	return decide(count, m.limit, resetAt, now), nil
}

// Sweep drops windows that have expired and returns how many were removed.
func (m *MemoryLimiter) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, w := range m.windows {
		if !now.Before(w.start.Add(m.period)) {
			delete(m.windows, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked client keys.
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}

// StartSweeper schedules Sweep on the given cron schedule (e.g. "@every 1m").
// The returned cron must be stopped on shutdown.
func (m *MemoryLimiter) StartSweeper(schedule string, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if n := m.Sweep(); n > 0 {
			logger.Debug("rate limit windows swept", zap.Int("removed", n))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
