package schedule

import "time"

// Slot holds at most one live timer.
//
// Every Arm bumps the slot generation, and the callback receives the
// generation it was armed with. A callback must call Claim before acting:
// a timer that was cancelled or superseded but had already been handed to
// the runtime fails the claim and is a no-op.
//
// Slot is not safe for concurrent use. Callers serialize Arm, Cancel and
// Claim, typically under the same lock the callback takes before claiming.
type Slot struct {
	sched Scheduler
	timer Timer
	gen   uint64
}

// NewSlot creates an empty slot using the given scheduler.
func NewSlot(sched Scheduler) *Slot {
	if sched == nil {
		sched = Real()
	}
	return &Slot{sched: sched}
}

// Arm cancels the live timer, if any, and schedules fire after d.
func (s *Slot) Arm(d time.Duration, fire func(gen uint64)) {
	s.Cancel()
	gen := s.gen
	s.timer = s.sched.AfterFunc(d, func() { fire(gen) })
}

// Cancel stops the live timer. Safe when nothing is armed.
func (s *Slot) Cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// Claim reports whether gen is the live arming and, if so, empties the slot.
func (s *Slot) Claim(gen uint64) bool {
	if s.timer == nil || gen != s.gen {
		return false
	}
	s.timer = nil
	return true
}

// Armed reports whether a timer is live.
func (s *Slot) Armed() bool {
	return s.timer != nil
}
