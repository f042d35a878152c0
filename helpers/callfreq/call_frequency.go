// Package callfreq measures how often (and for how long) a hot code
// path is invoked.
package callfreq

import (
	"fmt"
	"time"

	"go.uber.org/atomic"
)

// Counter brackets invocations of one code path and accumulates call
// count, busy time and the observation window. All methods are
// concurrency-safe and lock-free.
type Counter struct {
	name string

	count     atomic.Int64
	busyNanos atomic.Int64
	firstCall atomic.Int64 // unix nanoseconds; 0 = no call yet
	lastCall  atomic.Int64 // unix nanoseconds
}

func New(name string) *Counter {
	return &Counter{name: name}
}

func (c *Counter) Name() string {
	return c.name
}

// Measure marks the start of one invocation; the returned func marks
// its end. Use as:
//
//	defer c.Measure()()
func (c *Counter) Measure() func() {
	start := time.Now()
	c.firstCall.CompareAndSwap(0, start.UnixNano())
	return func() {
		end := time.Now()
		c.lastCall.Store(end.UnixNano())
		c.busyNanos.Add(int64(end.Sub(start)))
		c.count.Add(1)
	}
}

func (c *Counter) Count() int64 {
	return c.count.Load()
}

// Rate returns the observed calls per second; 0 until two calls finished.
func (c *Counter) Rate() float64 {
	count := c.count.Load()
	first := c.firstCall.Load()
	last := c.lastCall.Load()
	if count < 2 || last <= first {
		return 0
	}
	return float64(count-1) / (time.Duration(last - first)).Seconds()
}

// AverageBusy returns the mean duration of one invocation.
func (c *Counter) AverageBusy() time.Duration {
	count := c.count.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(c.busyNanos.Load() / count)
}

func (c *Counter) String() string {
	return fmt.Sprintf(
		"%s: %d calls, %.2f/s, avg %s",
		c.name, c.Count(), c.Rate(), c.AverageBusy(),
	)
}
