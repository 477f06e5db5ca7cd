package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/flyout/internal/aim"
	"github.com/dshills/flyout/internal/config"
	"github.com/dshills/flyout/internal/schedule"
)

// Root panel: x=1, y=1, rows File, Edit, View, Help, width 8.
type fixture struct {
	t      *testing.T
	app    *App
	screen tcell.SimulationScreen
	clock  *schedule.Manual
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	clock := schedule.NewManual()
	app, err := New(screen, config.Default(), WithScheduler(clock))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(app.close)

	return &fixture{t: t, app: app, screen: screen, clock: clock}
}

func (f *fixture) mouse(x, y int, buttons tcell.ButtonMask) {
	f.app.handle(tcell.NewEventMouse(x, y, buttons, tcell.ModNone))
	f.app.drain()
}

func (f *fixture) click(x, y int) {
	f.mouse(x, y, tcell.Button1)
	f.mouse(x, y, tcell.ButtonNone)
}

func (f *fixture) key(r rune) bool {
	quit := f.app.handle(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	f.app.drain()
	return quit
}

func (f *fixture) advance(d time.Duration) {
	f.clock.Advance(d)
	f.app.drain()
}

// openPath returns the item path of the deepest open panel.
func (f *fixture) openPath() string {
	panels := f.app.panels
	return strings.Join(panels[len(panels)-1].path, " > ")
}

func (f *fixture) line(y int) string {
	w, _ := f.screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := f.screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestDrawRootMenu(t *testing.T) {
	f := newFixture(t)
	f.app.draw()

	for y, label := range []string{"File", "Edit", "View", "Help"} {
		if line := f.line(1 + y); !strings.Contains(line, label) {
			t.Errorf("row %d = %q, want it to contain %q", y, line, label)
		}
	}
	if status := f.line(23); !strings.Contains(status, "[hover]") {
		t.Errorf("status line = %q, want the trigger shown", status)
	}
}

func TestStatusShowsPointer(t *testing.T) {
	f := newFixture(t)
	f.mouse(5, 3, tcell.ButtonNone)
	f.app.draw()

	if status := f.line(23); !strings.Contains(status, "[hover] (5,3)") {
		t.Errorf("status line = %q, want the pointer position", status)
	}
}

func TestHoverOpensAfterActivationDelay(t *testing.T) {
	f := newFixture(t)

	f.mouse(2, 1, tcell.ButtonNone)
	if len(f.app.panels) != 1 {
		t.Fatalf("panels = %d before the activation delay, want 1", len(f.app.panels))
	}

	f.advance(300 * time.Millisecond)
	if len(f.app.panels) != 2 {
		t.Fatalf("panels = %d after the activation delay, want 2", len(f.app.panels))
	}
	if got := f.openPath(); got != "File" {
		t.Errorf("open flyout = %q, want File", got)
	}

	child := f.app.panels[1]
	if child.x != 9 || child.y != 1 {
		t.Errorf("flyout origin = (%d,%d), want (9,1)", child.x, child.y)
	}
	if f.app.panels[0].active != 0 {
		t.Errorf("root active = %d, want 0", f.app.panels[0].active)
	}
}

func TestAimingAtFlyoutDelaysSwitch(t *testing.T) {
	f := newFixture(t)
	f.mouse(2, 1, tcell.ButtonNone)
	f.advance(300 * time.Millisecond)

	// Down and right, toward the open flyout.
	f.mouse(6, 2, tcell.ButtonNone)
	if got := f.openPath(); got != "File" {
		t.Fatalf("open flyout = %q while aiming, want File", got)
	}

	f.advance(300 * time.Millisecond)
	if got := f.openPath(); got != "Edit" {
		t.Errorf("open flyout = %q after the pointer stalled, want Edit", got)
	}
	if len(f.app.panels) != 2 {
		t.Errorf("panels = %d, want 2", len(f.app.panels))
	}
}

func TestMovingAwaySwitchesImmediately(t *testing.T) {
	f := newFixture(t)
	f.mouse(2, 1, tcell.ButtonNone)
	f.advance(300 * time.Millisecond)

	// Straight down is not heading for the flyout.
	f.mouse(2, 2, tcell.ButtonNone)
	if got := f.openPath(); got != "Edit" {
		t.Errorf("open flyout = %q, want Edit", got)
	}
}

func TestClickMode(t *testing.T) {
	f := newFixture(t)
	f.key('c')

	f.mouse(2, 1, tcell.ButtonNone)
	f.advance(time.Second)
	if len(f.app.panels) != 1 {
		t.Fatalf("panels = %d after hovering in click mode, want 1", len(f.app.panels))
	}

	f.click(2, 1)
	if got := f.openPath(); got != "File" {
		t.Fatalf("open flyout = %q after click, want File", got)
	}

	f.click(2, 1)
	if len(f.app.panels) != 1 {
		t.Errorf("panels = %d after clicking the open row, want 1", len(f.app.panels))
	}
}

func TestSwitchBackToHover(t *testing.T) {
	f := newFixture(t)
	f.key('c')
	f.key('h')

	for _, p := range f.app.panels {
		if got := p.menu.Trigger().String(); got != "hover" {
			t.Errorf("menu %s trigger = %q, want hover", p.menu.ID(), got)
		}
	}
	if f.app.status != "trigger: hover" {
		t.Errorf("status = %q", f.app.status)
	}
}

func TestLeafActionSetsStatus(t *testing.T) {
	f := newFixture(t)
	f.mouse(2, 1, tcell.ButtonNone)
	f.advance(300 * time.Millisecond)

	// "New" is the first row of the File flyout.
	f.click(10, 1)

	deadline := time.Now().Add(2 * time.Second)
	for f.app.status == "" && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
		f.app.drain()
	}
	if f.app.status != "File > New" {
		t.Errorf("status = %q, want %q", f.app.status, "File > New")
	}
}

func TestEscapeClosesFlyouts(t *testing.T) {
	f := newFixture(t)
	f.mouse(2, 1, tcell.ButtonNone)
	f.advance(300 * time.Millisecond)

	f.app.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	f.app.drain()

	if len(f.app.panels) != 1 {
		t.Errorf("panels = %d after escape, want 1", len(f.app.panels))
	}
}

func TestMenuEventsReachStatus(t *testing.T) {
	f := newFixture(t)
	f.mouse(2, 1, tcell.ButtonNone)
	f.advance(300 * time.Millisecond)

	// Prefixed with the event timestamp.
	if !strings.HasSuffix(f.app.lastEvent, " activate root row 0") {
		t.Errorf("lastEvent = %q, want it to end with %q", f.app.lastEvent, "activate root row 0")
	}
	if _, err := time.Parse("15:04:05.000", strings.Fields(f.app.lastEvent)[0]); err != nil {
		t.Errorf("lastEvent timestamp: %v", err)
	}
}

func TestQuitKeys(t *testing.T) {
	f := newFixture(t)

	if f.key('x') {
		t.Error("x should not quit")
	}
	if !f.key('q') {
		t.Error("q should quit")
	}
	if !f.app.handle(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)) {
		t.Error("ctrl-c should quit")
	}
}

func TestReload(t *testing.T) {
	f := newFixture(t)
	f.mouse(2, 1, tcell.ButtonNone)
	f.advance(300 * time.Millisecond)
	old := append([]*panel(nil), f.app.panels...)

	settings := config.Default()
	settings.Menu.Items = []config.Item{{Label: "Only"}}
	f.app.Reload(settings)
	f.app.drain()

	if len(f.app.panels) != 1 || f.app.panels[0].items[0].Label != "Only" {
		t.Fatalf("panels after reload = %+v", f.app.panels)
	}
	for _, p := range old {
		if !p.menu.TornDown() {
			t.Errorf("menu %s not torn down by reload", p.menu.ID())
		}
	}
	if f.app.panels[0] == old[0] || f.app.panels[0].menu.TornDown() {
		t.Error("reload should install a fresh root menu")
	}
	if backing := f.app.panels[:cap(f.app.panels)]; len(backing) > 1 && backing[1] != nil {
		t.Error("closed flyout still referenced by the panel stack")
	}
	if f.app.status != "configuration reloaded" {
		t.Errorf("status = %q", f.app.status)
	}
}

func TestReloadRejectsInvalidSettings(t *testing.T) {
	f := newFixture(t)

	settings := config.Default()
	settings.Aim.Direction = "sideways"
	f.app.Reload(settings)
	f.app.drain()

	if !strings.HasPrefix(f.app.status, "reload failed") {
		t.Errorf("status = %q, want a reload failure", f.app.status)
	}
	if len(f.app.panels) != 1 || f.app.panels[0].menu.TornDown() {
		t.Error("invalid reload should keep the current menu")
	}
}

func TestDefaultToleranceFitsCells(t *testing.T) {
	// Approaching the root panel from far below, then aiming at the flyout.
	tests := []struct {
		name      string
		tolerance float64
		want      time.Duration
	}{
		{"cell tolerance sees a fresh move", config.DefaultTolerance, 0},
		{"pixel tolerance pads past the screen", 75, 300 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Default().EngineConfig()
			if err != nil {
				t.Fatalf("EngineConfig() error = %v", err)
			}
			cfg.Tolerance = tt.tolerance

			root := newPanel(0, -1, nil, config.Default().Menu.Items, 1, 1)
			e := aim.New[int](cfg, root, nil, aim.WithScheduler(schedule.NewManual()))
			defer e.Close()

			e.ActivateImmediately(0)
			e.RecordPointer(aim.Point{X: 2, Y: 20})
			e.RecordPointer(aim.Point{X: 6, Y: 2})

			if got := e.Decide(root.MenuBounds(), aim.DirectionRight); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}
