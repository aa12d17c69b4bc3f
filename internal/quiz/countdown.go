package quiz

import (
	"sync"
	"time"
)

const defaultTickInterval = 100 * time.Millisecond

// countdown calls tick on every interval until stopped.
type countdown struct {
	stop chan struct{}
	once sync.Once
}

func startCountdown(interval time.Duration, tick func()) *countdown {
	c := &countdown{stop: make(chan struct{})}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				tick()
			}
		}
	}()
	return c
}

// Stop never blocks, so it is safe to call while holding the engine lock.
func (c *countdown) Stop() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.stop) })
}
