// Package menu binds an intent engine to a host menu.
//
// A Menu owns one aim.Engine, attaches it to a pointer hub, and adds what the
// engine leaves to the host: click activation, switching between hover and
// click triggers, a typed command surface, and teardown.
package menu

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/flyout/internal/aim"
	"github.com/dshills/flyout/internal/logging"
	"github.com/dshills/flyout/internal/pointer"
	"github.com/dshills/flyout/internal/schedule"
)

// ErrTornDown is returned by Exec after Teardown.
var ErrTornDown = errors.New("menu torn down")

// Commander is the public command surface of a menu.
type Commander[R comparable] interface {
	Activate(row R)
	Deactivate()
	SwitchToHover()
	SwitchToClick()
	Teardown()
}

// Menu is one menu instance: an engine plus its host bindings.
type Menu[R comparable] struct {
	id     string
	engine *aim.Engine[R]
	log    *logging.Logger

	mu       sync.Mutex
	detach   func()
	tornDown bool
}

type options struct {
	id    string
	hub   *pointer.Hub
	log   *logging.Logger
	sched schedule.Scheduler
}

// Option configures a Menu.
type Option func(*options)

// WithID sets the menu ID. Defaults to a random UUID.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithHub attaches the menu's engine to hub for pointer samples.
func WithHub(hub *pointer.Hub) Option {
	return func(o *options) {
		o.hub = hub
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithScheduler sets the engine's timer source.
func WithScheduler(s schedule.Scheduler) Option {
	return func(o *options) {
		o.sched = s
	}
}

// New creates a menu. When a hub is given the engine receives its pointer
// samples until Teardown.
func New[R comparable](cfg aim.Config, host aim.Host[R], notify aim.Notifier[R], opts ...Option) *Menu[R] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	if o.log == nil {
		o.log = logging.Null()
	}
	log := o.log.WithField("menu", o.id)

	engineOpts := []aim.Option{aim.WithLogger(log)}
	if o.sched != nil {
		engineOpts = append(engineOpts, aim.WithScheduler(o.sched))
	}

	m := &Menu[R]{
		id:     o.id,
		engine: aim.New[R](cfg, host, notify, engineOpts...),
		log:    log.WithComponent("menu"),
		detach: func() {},
	}
	if o.hub != nil {
		m.detach = o.hub.Attach(m.engine)
	}
	return m
}

// ID returns the menu's identifier.
func (m *Menu[R]) ID() string {
	return m.id
}

// RecordPointer feeds a pointer sample directly, for hosts without a hub.
func (m *Menu[R]) RecordPointer(p aim.Point) {
	m.engine.RecordPointer(p)
}

// RowEnter reports the pointer entering row.
func (m *Menu[R]) RowEnter(row R) {
	m.engine.RowEnter(row)
}

// RowLeave reports the pointer leaving row.
func (m *Menu[R]) RowLeave(row R) {
	m.engine.RowLeave(row)
}

// MenuLeave reports the pointer leaving the whole menu.
func (m *Menu[R]) MenuLeave() {
	m.engine.MenuLeave()
}

// ClickRow handles a click on row. In click mode the row activates at once,
// bypassing the intent check; it reports whether the click was handled.
// It never closes an open row: call ClickHandle first to toggle.
func (m *Menu[R]) ClickRow(row R) bool {
	if !m.engine.Trigger().Has(aim.TriggerClick) {
		return false
	}
	m.engine.ActivateImmediately(row)
	return true
}

// ClickHandle handles a click on row's activation handle. If row is open it
// closes, and ClickHandle returns true to stop the click from propagating to
// the row.
func (m *Menu[R]) ClickHandle(row R) bool {
	if active, ok := m.engine.ActiveRow(); !ok || active != row {
		return false
	}
	m.engine.Deactivate()
	return true
}

// Activate opens row's submenu, honoring the first-open activation delay.
func (m *Menu[R]) Activate(row R) {
	m.engine.Activate(row)
}

// Deactivate closes the open submenu.
func (m *Menu[R]) Deactivate() {
	m.engine.Deactivate()
}

// SwitchToHover makes hovering open submenus.
func (m *Menu[R]) SwitchToHover() {
	m.engine.SetTrigger(aim.TriggerHover)
	m.log.Info("trigger switched to hover")
}

// SwitchToClick makes only clicks open submenus.
func (m *Menu[R]) SwitchToClick() {
	m.engine.SetTrigger(aim.TriggerClick)
	m.log.Info("trigger switched to click")
}

// Trigger returns the current trigger mode.
func (m *Menu[R]) Trigger() aim.Trigger {
	return m.engine.Trigger()
}

// ActiveRow returns the open row, if any.
func (m *Menu[R]) ActiveRow() (R, bool) {
	return m.engine.ActiveRow()
}

// Stats returns the engine counters.
func (m *Menu[R]) Stats() aim.Stats {
	return m.engine.Stats()
}

// Teardown cancels pending timers and detaches from the pointer hub.
// Every later event is ignored. Safe to call more than once.
func (m *Menu[R]) Teardown() {
	m.mu.Lock()
	if m.tornDown {
		m.mu.Unlock()
		return
	}
	m.tornDown = true
	detach := m.detach
	m.mu.Unlock()

	detach()
	m.engine.Close()
	m.log.Debug("torn down")
}

// TornDown reports whether Teardown has run.
func (m *Menu[R]) TornDown() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tornDown
}

var _ Commander[int] = (*Menu[int])(nil)
