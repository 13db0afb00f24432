package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Ledger holds one counter per stock ledger operation kind.
type Ledger struct {
	Reserves   Counter
	Releases   Counter
	Deducts    Counter
	Rejections Counter
}

var ledger Ledger

// L returns the process-wide ledger counters.
func L() *Ledger {
	return &ledger
}

// Snapshot returns current counter values for the debug endpoint.
func (l *Ledger) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"reserves":   l.Reserves.Load(),
		"releases":   l.Releases.Load(),
		"deducts":    l.Deducts.Load(),
		"rejections": l.Rejections.Load(),
	}
}
