package game

import (
	"sync"
	"time"
)

// DefaultTick is the countdown resolution.
const DefaultTick = time.Second

// countdown fires expire once the remaining time reaches zero. Stop is
// idempotent and guarantees expire will not run afterwards unless it is
// already running.
type countdown struct {
	mu        sync.Mutex
	remaining time.Duration
	tick      time.Duration
	stopped   bool
	stop      chan struct{}
	once      sync.Once
}

func newCountdown(limit, tick time.Duration) *countdown {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &countdown{remaining: limit, tick: tick, stop: make(chan struct{})}
}

// start launches the ticking goroutine. The owner must publish c before
// calling start, since expire may run as soon as the first tick fires.
func (c *countdown) start(expire func()) { go c.run(expire) }

func (c *countdown) run(expire func()) {
	tick := c.tick
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-t.C:
			c.mu.Lock()
			if c.stopped {
				c.mu.Unlock()
				return
			}
			c.remaining -= tick
			done := c.remaining <= 0
			if done {
				c.remaining = 0
			}
			c.mu.Unlock()
			if done {
				expire()
				return
			}
		}
	}
}

// Stop cancels the countdown.
func (c *countdown) Stop() {
	c.once.Do(func() {
		c.mu.Lock()
		c.stopped = true
		c.mu.Unlock()
		close(c.stop)
	})
}

// Remaining returns the time left.
func (c *countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}
