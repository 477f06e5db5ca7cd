// Package schedule provides cancellable one-shot timers.
//
// Scheduler abstracts time.AfterFunc so that code driven by timers can be
// tested against a virtual clock (Manual). Slot layers the "at most one live
// timer" rule on top of a Scheduler: arming a slot always cancels whatever
// the slot held before.
package schedule

import "time"

// Timer is a handle to a scheduled one-shot callback.
type Timer interface {
	// Stop cancels the callback. It returns false if the callback already
	// ran or was already stopped. Calling Stop more than once is safe.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	// AfterFunc schedules fn to run once after d.
	AfterFunc(d time.Duration, fn func()) Timer
}

// realScheduler schedules callbacks on the runtime timer heap.
type realScheduler struct{}

// Real returns a Scheduler backed by time.AfterFunc.
// Callbacks run on their own goroutine.
func Real() Scheduler {
	return realScheduler{}
}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
