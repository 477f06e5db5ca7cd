package schedule

import (
	"sync"
	"time"
)

// Manual is a Scheduler driven by a virtual clock.
// Nothing fires until Advance is called; callbacks then run synchronously on
// the goroutine calling Advance, in due-time order (ties in scheduling order).
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	m       *Manual
	at      time.Duration
	seq     uint64
	fn      func()
	done    bool
	stopped bool
}

// NewManual creates a virtual clock at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// AfterFunc schedules fn at now+d on the virtual clock.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, at: m.now + d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Stop implements Timer.
func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()

	if t.done || t.stopped {
		return false
	}
	t.stopped = true
	t.m.remove(t)
	return true
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Advance moves the clock forward by d, running every callback that comes due.
// Callbacks scheduled by other callbacks also run if they fall within the window.
// Returns the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	fired := 0
	for {
		m.mu.Lock()
		next := m.earliest(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return fired
		}
		m.now = next.at
		next.done = true
		m.remove(next)
		m.mu.Unlock()

		next.fn()
		fired++
	}
}

// earliest returns the first timer due at or before target. Caller holds mu.
func (m *Manual) earliest(target time.Duration) *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if t.at > target {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

// remove drops t from the pending list. Caller holds mu.
func (m *Manual) remove(t *manualTimer) {
	for i, p := range m.timers {
		if p == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}
