// Package tui is a terminal host for flyout menus built on tcell.
//
// The root menu and each open flyout are separate panels, each with its own
// menu.Menu and intent engine. Mouse motion is fed to every engine through
// one pointer hub; hit testing turns it into row enter, row leave and menu
// leave events. Engine notifications may arrive on timer goroutines, so they
// are queued and applied on the UI goroutine.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/flyout/internal/action"
	"github.com/dshills/flyout/internal/aim"
	"github.com/dshills/flyout/internal/config"
	"github.com/dshills/flyout/internal/event"
	"github.com/dshills/flyout/internal/logging"
	"github.com/dshills/flyout/internal/menu"
	"github.com/dshills/flyout/internal/pointer"
	"github.com/dshills/flyout/internal/schedule"
)

// App is the terminal host. Only the goroutine running Run (or, in tests,
// calling handle and drain) touches UI state.
type App struct {
	screen tcell.Screen
	log    *logging.Logger
	sched  schedule.Scheduler
	bus    *event.Bus
	runner *action.Runner
	hub    *pointer.Hub

	settings config.Settings
	engine   aim.Config
	trigger  aim.Trigger

	panels    []*panel
	buttons   tcell.ButtonMask
	status    string
	lastEvent string

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending []func()
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *App) {
		a.log = l
	}
}

// WithScheduler sets the timer source for every menu engine.
func WithScheduler(s schedule.Scheduler) Option {
	return func(a *App) {
		a.sched = s
	}
}

// WithRunner sets the Lua action runner.
func WithRunner(r *action.Runner) Option {
	return func(a *App) {
		a.runner = r
	}
}

// New creates an app on an initialized screen.
func New(screen tcell.Screen, settings config.Settings, opts ...Option) (*App, error) {
	a := &App{
		screen: screen,
		log:    logging.Null(),
		hub:    pointer.NewHub(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.WithComponent("tui")
	if a.runner == nil {
		a.runner = action.NewRunner(action.WithLogger(a.log))
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	a.bus = event.NewBus(event.WithErrorHandler(func(sub event.Subscription, _ any, err error) {
		a.log.Warn("subscriber %s failed: %v", sub.ID(), err)
	}))
	if _, err := a.bus.SubscribeFunc("menu.**", a.onMenuEvent); err != nil {
		return nil, err
	}

	if err := a.rebuild(settings); err != nil {
		return nil, err
	}
	return a, nil
}

// Run processes terminal events until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	go func() {
		select {
		case <-ctx.Done():
			a.post(nil)
		case <-a.ctx.Done():
		}
	}()

	a.draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if a.handle(ev) {
			return nil
		}
		a.drain()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.draw()
	}
}

// Reload replaces the settings. Safe to call from any goroutine; open
// flyouts close and every panel gets a fresh engine.
func (a *App) Reload(settings config.Settings) {
	a.post(func() {
		if err := a.rebuild(settings); err != nil {
			a.status = "reload failed: " + err.Error()
			a.log.Error("reload failed: %v", err)
			return
		}
		a.status = "configuration reloaded"
		a.log.Info("configuration reloaded")
	})
}

// post queues fn for the UI goroutine and wakes it. A nil fn only wakes.
func (a *App) post(fn func()) {
	if fn != nil {
		a.mu.Lock()
		a.pending = append(a.pending, fn)
		a.mu.Unlock()
	}
	// A full event queue still wakes the loop, which drains everything.
	_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// drain runs queued work, including work queued by that work.
func (a *App) drain() {
	for {
		a.mu.Lock()
		work := a.pending
		a.pending = nil
		a.mu.Unlock()

		if len(work) == 0 {
			return
		}
		for _, fn := range work {
			fn()
		}
	}
}

func (a *App) close() {
	a.cancel()
	a.closeFrom(0)
}

// handle processes one terminal event and reports whether to quit.
func (a *App) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	}
	return false
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		if len(a.panels) > 0 {
			a.panels[0].menu.Deactivate()
		}
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	if ev.Rune() == 'q' {
		return true
	}
	if cmd, ok := keyCommands[ev.Rune()]; ok {
		a.setTrigger(cmd)
	}
	return false
}

// keyCommands binds keys to menu commands applied to every panel.
var keyCommands = map[rune]menu.Command{
	'h': menu.CommandSwitchToHover,
	'c': menu.CommandSwitchToClick,
}

func (a *App) setTrigger(cmd menu.Command) {
	switch cmd {
	case menu.CommandSwitchToHover:
		a.trigger = aim.TriggerHover
	case menu.CommandSwitchToClick:
		a.trigger = aim.TriggerClick
	}
	for _, p := range a.panels {
		if err := menu.Exec[int](p.menu, cmd, 0); err != nil {
			a.log.Warn("%s: %v", cmd, err)
		}
	}
	a.status = "trigger: " + a.trigger.String()
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	a.hub.Move(aim.Point{X: float64(x), Y: float64(y)})

	hit := -1
	for i := len(a.panels) - 1; i >= 0; i-- {
		if a.panels[i].contains(x, y) {
			hit = i
			break
		}
	}

	// Snapshot: notifications are queued, but a click below may close panels.
	panels := append([]*panel(nil), a.panels...)
	for i, p := range panels {
		row := -1
		if i == hit {
			row = p.rowAt(x, y)
		}
		if row != p.hover {
			if p.hover >= 0 {
				p.menu.RowLeave(p.hover)
			}
			if row >= 0 {
				p.menu.RowEnter(row)
			}
			p.hover = row
		}

		inside := hit >= i
		if p.inside && !inside {
			p.menu.MenuLeave()
		}
		p.inside = inside
	}

	pressed := ev.Buttons()&tcell.Button1 != 0 && a.buttons&tcell.Button1 == 0
	a.buttons = ev.Buttons()
	if pressed && hit >= 0 {
		p := panels[hit]
		a.click(p, p.rowAt(x, y))
	}
}

func (a *App) click(p *panel, row int) {
	if row < 0 {
		return
	}
	item := p.items[row]

	if item.HasSubmenu() {
		if p.menu.ClickHandle(row) {
			return
		}
		p.menu.ClickRow(row)
		return
	}

	if item.Action == "" {
		a.status = strings.Join(p.itemPath(row), " > ")
		return
	}
	a.runAction(action.Item{Label: item.Label, Path: p.itemPath(row)}, item.Action)
}

// runAction runs a Lua action off the UI goroutine and posts the result.
func (a *App) runAction(item action.Item, code string) {
	ctx := a.ctx
	go func() {
		msg, err := a.runner.Run(ctx, item, code)
		a.post(func() {
			if err != nil {
				a.status = err.Error()
				return
			}
			a.status = msg
		})
	}()
}

// onMenuEvent records the latest menu event for the status line.
func (a *App) onMenuEvent(_ context.Context, ev any) error {
	tp, ok := ev.(event.TopicProvider)
	if !ok {
		return nil
	}

	var desc string
	switch e := ev.(type) {
	case event.Event[menu.RowEvent[int]]:
		desc = fmt.Sprintf("%s %s row %d", tp.EventTopic().Base(), e.Payload.MenuID, e.Payload.Row)
	case event.Event[menu.ExitEvent]:
		desc = fmt.Sprintf("%s %s", tp.EventTopic().Base(), e.Payload.MenuID)
	default:
		return nil
	}
	if mp, ok := ev.(event.MetadataProvider); ok {
		desc = mp.EventMetadata().Timestamp.Format("15:04:05.000") + " " + desc
	}

	a.post(func() { a.lastEvent = desc })
	return nil
}

// rebuild tears down every panel and creates a fresh root menu.
func (a *App) rebuild(settings config.Settings) error {
	engine, err := settings.EngineConfig()
	if err != nil {
		return err
	}

	a.closeFrom(0)
	a.settings = settings
	a.engine = engine
	a.trigger = engine.Trigger

	root := newPanel(0, -1, nil, settings.Menu.Items, 1, 1)
	a.attach(root)
	return nil
}

// attach creates the panel's menu and pushes it on the stack.
func (a *App) attach(p *panel) {
	cfg := a.engine
	cfg.Trigger = a.trigger

	id := panelID(p)
	opts := []menu.Option{menu.WithID(id), menu.WithHub(a.hub), menu.WithLogger(a.log)}
	if a.sched != nil {
		opts = append(opts, menu.WithScheduler(a.sched))
	}

	notify := menu.Tee[int](panelNotifier{app: a, panel: p}, menu.NewBusNotifier[int](a.bus, id, a.log))
	p.menu = menu.New[int](cfg, p, notify, opts...)
	a.panels = append(a.panels, p)
}

// openChild shows the flyout for row of p.
func (a *App) openChild(p *panel, row int) {
	if p.closed || row < 0 || row >= len(p.items) {
		return
	}
	p.active = row
	a.closeFrom(p.depth + 1)

	item := p.items[row]
	if !item.HasSubmenu() {
		return
	}

	child := newPanel(p.depth+1, row, p.itemPath(row), item.Children, 0, 0)
	child.x, child.y = p.childOrigin(a.engine.Direction, row, child)
	a.attach(child)
	a.log.Debug("opened %s", strings.Join(child.path, " > "))
}

// closeChild hides the flyout for row of p, if it is the one open.
func (a *App) closeChild(p *panel, row int) {
	if p.closed {
		return
	}
	if p.active == row {
		p.active = -1
	}
	if len(a.panels) > p.depth+1 && a.panels[p.depth+1].parentRow == row {
		a.closeFrom(p.depth + 1)
	}
}

// closeFrom tears down panels at depth and deeper.
func (a *App) closeFrom(depth int) {
	if depth >= len(a.panels) {
		return
	}
	for _, p := range a.panels[depth:] {
		p.closed = true
		p.menu.Teardown()
	}
	clear(a.panels[depth:])
	a.panels = a.panels[:depth]
}

// panelID names a panel's menu by its item path.
func panelID(p *panel) string {
	if len(p.path) == 0 {
		return "root"
	}
	return "root/" + strings.Join(p.path, "/")
}
