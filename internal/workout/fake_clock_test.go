package workout

import (
	"io"
	"log"
	"sync"
	"time"
)

// FakeClock is a manually advanced Clock, exported for the external test package
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func NewDiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
