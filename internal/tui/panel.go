package tui

import (
	"github.com/dshills/flyout/internal/aim"
	"github.com/dshills/flyout/internal/config"
	"github.com/dshills/flyout/internal/menu"
)

// panel is one visible column of rows: the root menu or an open flyout.
type panel struct {
	depth int
	// parentRow is the row in the previous panel that opened this one.
	parentRow int
	path      []string
	items     []config.Item

	x, y, w, h int

	menu *menu.Menu[int]

	hover  int
	inside bool
	active int
	closed bool
}

func newPanel(depth, parentRow int, path []string, items []config.Item, x, y int) *panel {
	w := 0
	for _, item := range items {
		if n := len([]rune(item.Label)); n > w {
			w = n
		}
	}
	return &panel{
		depth:     depth,
		parentRow: parentRow,
		path:      path,
		items:     items,
		x:         x,
		y:         y,
		w:         w + 4,
		h:         len(items),
		hover:     -1,
		active:    -1,
	}
}

func (p *panel) contains(x, y int) bool {
	return x >= p.x && x < p.x+p.w && y >= p.y && y < p.y+p.h
}

// rowAt returns the row under (x, y), or -1.
func (p *panel) rowAt(x, y int) int {
	if !p.contains(x, y) {
		return -1
	}
	return y - p.y
}

// itemPath returns the labels from the root down to row.
func (p *panel) itemPath(row int) []string {
	out := make([]string, 0, len(p.path)+1)
	out = append(out, p.path...)
	return append(out, p.items[row].Label)
}

// MenuBounds implements aim.Host.
func (p *panel) MenuBounds() aim.Rect {
	return aim.Rect{Left: float64(p.x), Top: float64(p.y), Width: float64(p.w), Height: float64(p.h)}
}

// HasSubmenu implements aim.Host.
func (p *panel) HasSubmenu(row int) bool {
	return row >= 0 && row < len(p.items) && p.items[row].HasSubmenu()
}

// childOrigin places the flyout for row on the configured side of p.
func (p *panel) childOrigin(dir aim.Direction, row int, child *panel) (int, int) {
	switch dir {
	case aim.DirectionLeft:
		return p.x - child.w, p.y + row
	case aim.DirectionBelow:
		return p.x, p.y + p.h
	case aim.DirectionAbove:
		return p.x, p.y - child.h
	default:
		return p.x + p.w, p.y + row
	}
}

// panelNotifier forwards engine notifications to the UI goroutine.
type panelNotifier struct {
	app   *App
	panel *panel
}

func (n panelNotifier) Enter(int) {}

func (n panelNotifier) Exit(int) {}

func (n panelNotifier) Activate(row int) {
	n.app.post(func() { n.app.openChild(n.panel, row) })
}

func (n panelNotifier) Deactivate(row int) {
	n.app.post(func() { n.app.closeChild(n.panel, row) })
}

func (n panelNotifier) ExitMenu() {}
