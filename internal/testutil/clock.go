package testutil

import (
	"sync"
	"time"
)

// FixedClock is a clock that only moves when told to
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now.UTC()}
}

// NewFixedClockOn returns a clock set to noon UTC on the given YYYY-MM-DD
func NewFixedClockOn(date string) *FixedClock {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return NewFixedClock(t.Add(12 * time.Hour))
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now.UTC()
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
