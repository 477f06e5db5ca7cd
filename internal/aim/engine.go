package aim

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/flyout/internal/logging"
	"github.com/dshills/flyout/internal/schedule"
)

// Engine decides when hovering a row should open its submenu.
//
// All events and timer callbacks are serialized behind one mutex, so the
// engine is safe for concurrent use. Notifications produced while handling
// an event are delivered in order once the lock is released.
type Engine[R comparable] struct {
	mu sync.Mutex

	cfg     Config
	trigger Trigger
	host    Host[R]
	notify  Notifier[R]
	log     *logging.Logger

	history *History

	active    R
	hasActive bool

	lastDelayLoc    Point
	hasLastDelayLoc bool

	pendingOpen    R
	hasPendingOpen bool

	recheck   *schedule.Slot
	openDelay *schedule.Slot

	outbox []func()
	closed bool

	stats counters
}

type counters struct {
	decisions     atomic.Uint64
	delayed       atomic.Uint64
	activations   atomic.Uint64
	deactivations atomic.Uint64
	staleFires    atomic.Uint64
}

type options struct {
	sched schedule.Scheduler
	log   *logging.Logger
}

// Option configures an Engine.
type Option func(*options)

// WithScheduler sets the timer source. Defaults to schedule.Real().
func WithScheduler(s schedule.Scheduler) Option {
	return func(o *options) {
		o.sched = s
	}
}

// WithLogger sets the logger for decision traces. Defaults to a null logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// New creates an engine. A nil notifier discards notifications.
// Out-of-range config values are clamped; use Config.Validate to reject them instead.
func New[R comparable](cfg Config, host Host[R], notify Notifier[R], opts ...Option) *Engine[R] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sched == nil {
		o.sched = schedule.Real()
	}
	if o.log == nil {
		o.log = logging.Null()
	}
	if notify == nil {
		notify = NotifierFuncs[R]{}
	}
	if host == nil {
		host = HostFuncs[R]{}
	}

	if cfg.MouseLocsTracked < 1 {
		cfg.MouseLocsTracked = 1
	}
	if cfg.ActivationDelay < 0 {
		cfg.ActivationDelay = 0
	}
	if cfg.DefaultDelay < 0 {
		cfg.DefaultDelay = 0
	}
	if cfg.Trigger == 0 {
		cfg.Trigger = TriggerHover
	}

	return &Engine[R]{
		cfg:       cfg,
		trigger:   cfg.Trigger,
		host:      host,
		notify:    notify,
		log:       o.log.WithComponent("aim"),
		history:   NewHistory(cfg.MouseLocsTracked),
		recheck:   schedule.NewSlot(o.sched),
		openDelay: schedule.NewSlot(o.sched),
	}
}

// run executes fn under the lock and then flushes queued notifications.
func (e *Engine[R]) run(fn func()) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	fn()
	out := e.outbox
	e.outbox = nil
	e.mu.Unlock()

	for _, n := range out {
		n()
	}
}

func (e *Engine[R]) emit(n func()) {
	e.outbox = append(e.outbox, n)
}

// RecordPointer appends a pointer sample to the history.
func (e *Engine[R]) RecordPointer(p Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.history.Push(p)
}

// RowEnter handles the pointer entering row.
func (e *Engine[R]) RowEnter(row R) {
	e.run(func() {
		e.recheck.Cancel()
		e.emit(func() { e.notify.Enter(row) })
		if e.trigger.Has(TriggerHover) {
			e.possiblyActivate(row)
		}
	})
}

// RowLeave handles the pointer leaving row.
func (e *Engine[R]) RowLeave(row R) {
	e.run(func() {
		e.emit(func() { e.notify.Exit(row) })
	})
}

// MenuLeave handles the pointer leaving the whole menu. The active row is
// closed through the same intent check as activation, so a pointer leaving
// toward the submenu keeps it open while it travels.
func (e *Engine[R]) MenuLeave() {
	e.run(func() {
		e.recheck.Cancel()
		if e.trigger.Has(TriggerHover) {
			e.possiblyDeactivate()
		}
		e.emit(e.notify.ExitMenu)
	})
}

// Activate activates row, honoring the first-open activation delay.
// Activating the already active row does nothing.
func (e *Engine[R]) Activate(row R) {
	e.run(func() {
		e.activate(row)
	})
}

// ActivateImmediately activates row without any intent check or open delay.
// Pending re-checks and open delays are cancelled. Used for clicks.
func (e *Engine[R]) ActivateImmediately(row R) {
	e.run(func() {
		e.recheck.Cancel()
		if e.hasActive && e.active == row {
			e.openDelay.Cancel()
			e.hasPendingOpen = false
			return
		}
		e.swap(row)
	})
}

// Deactivate closes the active row and cancels a pending open delay.
func (e *Engine[R]) Deactivate() {
	e.run(e.deactivate)
}

// Decide runs the intent heuristic against the given geometry and returns
// zero to activate now or the delay to wait before checking again.
func (e *Engine[R]) Decide(bounds Rect, dir Direction) time.Duration {
	var d time.Duration
	e.run(func() {
		d = e.decide(bounds, dir)
	})
	return d
}

// ActiveRow returns the active row, if any.
func (e *Engine[R]) ActiveRow() (R, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active, e.hasActive
}

// SetTrigger switches between hover and click activation.
// Pending hover timers are cancelled when hover is turned off.
func (e *Engine[R]) SetTrigger(t Trigger) {
	e.run(func() {
		if t == 0 {
			t = TriggerHover
		}
		e.trigger = t
		if !t.Has(TriggerHover) {
			e.recheck.Cancel()
			e.openDelay.Cancel()
			e.hasPendingOpen = false
		}
	})
}

// Trigger returns the current trigger mode.
func (e *Engine[R]) Trigger() Trigger {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.trigger
}

// Config returns the engine configuration.
func (e *Engine[R]) Config() Config {
	return e.cfg
}

// History returns a copy of the retained pointer samples, oldest first.
func (e *Engine[R]) History() []Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Samples()
}

// Pending reports whether a re-check or open-delay timer is live.
func (e *Engine[R]) Pending() (recheck, openDelay bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recheck.Armed(), e.openDelay.Armed()
}

// Close cancels both timers. Every later call is a no-op.
func (e *Engine[R]) Close() {
	e.run(func() {
		e.recheck.Cancel()
		e.openDelay.Cancel()
		e.hasPendingOpen = false
		e.closed = true
	})
}

// possiblyActivate activates row now or arms a re-check.
func (e *Engine[R]) possiblyActivate(row R) {
	delay := e.decide(e.host.MenuBounds(), e.cfg.Direction)
	if delay > 0 {
		e.armRecheck(delay, func() { e.possiblyActivate(row) })
		return
	}
	e.activate(row)
}

// possiblyDeactivate deactivates now or arms a re-check.
func (e *Engine[R]) possiblyDeactivate() {
	delay := e.decide(e.host.MenuBounds(), e.cfg.Direction)
	if delay > 0 {
		e.armRecheck(delay, e.possiblyDeactivate)
		return
	}
	e.deactivate()
}

func (e *Engine[R]) armRecheck(delay time.Duration, retry func()) {
	e.recheck.Arm(delay, func(gen uint64) {
		e.run(func() {
			if !e.recheck.Claim(gen) {
				e.stats.staleFires.Add(1)
				return
			}
			retry()
		})
	})
}

func (e *Engine[R]) activate(row R) {
	if e.hasActive && e.active == row {
		return
	}

	if e.cfg.ActivationDelay > 0 && e.trigger.Has(TriggerHover) {
		if e.hasActive {
			e.swap(row)
			return
		}
		if e.hasPendingOpen && e.pendingOpen == row && e.openDelay.Armed() {
			return
		}
		e.pendingOpen = row
		e.hasPendingOpen = true
		e.openDelay.Arm(e.cfg.ActivationDelay, func(gen uint64) {
			e.run(func() {
				if !e.openDelay.Claim(gen) {
					e.stats.staleFires.Add(1)
					return
				}
				e.hasPendingOpen = false
				e.swap(row)
			})
		})
		return
	}

	e.swap(row)
}

// swap deactivates the old row and activates row.
func (e *Engine[R]) swap(row R) {
	e.openDelay.Cancel()
	e.hasPendingOpen = false

	if e.hasActive {
		old := e.active
		e.emit(func() { e.notify.Deactivate(old) })
		e.stats.deactivations.Add(1)
	}
	e.emit(func() { e.notify.Activate(row) })
	e.stats.activations.Add(1)
	e.active = row
	e.hasActive = true
}

func (e *Engine[R]) deactivate() {
	e.openDelay.Cancel()
	e.hasPendingOpen = false

	if !e.hasActive {
		return
	}
	old := e.active
	var zero R
	e.active = zero
	e.hasActive = false
	e.emit(func() { e.notify.Deactivate(old) })
	e.stats.deactivations.Add(1)
}

// decide is the intent heuristic. Caller holds mu.
func (e *Engine[R]) decide(bounds Rect, dir Direction) time.Duration {
	e.stats.decisions.Add(1)

	if !e.hasActive || !e.host.HasSubmenu(e.active) {
		return 0
	}

	loc, ok := e.history.Latest()
	if !ok {
		return 0
	}
	prevLoc, _ := e.history.Oldest()

	corners := PaddedCorners(bounds, e.cfg.Tolerance)

	// The pointer was off the menu a moment ago, so this hover is a fresh move.
	if !corners.Contains(prevLoc) {
		return 0
	}

	if e.hasLastDelayLoc && loc == e.lastDelayLoc {
		e.hasLastDelayLoc = false
		e.log.Debug("pointer stalled at (%.0f,%.0f)", loc.X, loc.Y)
		return 0
	}

	if Converging(corners, dir, prevLoc, loc) {
		e.lastDelayLoc = loc
		e.hasLastDelayLoc = true
		e.stats.delayed.Add(1)
		e.log.Debug("aiming %s from (%.0f,%.0f) to (%.0f,%.0f), delay %v",
			dir, prevLoc.X, prevLoc.Y, loc.X, loc.Y, e.cfg.DefaultDelay)
		return e.cfg.DefaultDelay
	}

	e.hasLastDelayLoc = false
	return 0
}
