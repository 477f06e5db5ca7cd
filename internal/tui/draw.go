package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

var (
	styleRow    = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	styleHover  = styleRow.Reverse(true)
	styleActive = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func (a *App) draw() {
	a.screen.Clear()

	for _, p := range a.panels {
		for row, item := range p.items {
			style := styleRow
			switch {
			case row == p.active:
				style = styleActive
			case row == p.hover:
				style = styleHover
			}

			label := " " + item.Label
			if item.HasSubmenu() {
				label = fmt.Sprintf("%-*s▸ ", p.w-2, label)
			}
			a.drawText(p.x, p.y+row, p.w, label, style)
		}
	}

	_, height := a.screen.Size()
	a.drawStatus(height - 1)
	a.screen.Show()
}

func (a *App) drawStatus(y int) {
	width, _ := a.screen.Size()
	line := fmt.Sprintf(" [%s]", a.trigger)
	if p, ok := a.hub.Last(); ok {
		line += fmt.Sprintf(" (%.0f,%.0f)", p.X, p.Y)
	}
	line += " " + a.status
	if a.lastEvent != "" {
		line += "  | " + a.lastEvent
	}
	if len(a.panels) > 0 {
		line += "  | " + a.panels[0].menu.Stats().String()
	}
	a.drawText(0, y, width, line, styleStatus)
}

// drawText writes s at (x, y), padding with spaces to width.
func (a *App) drawText(x, y, width int, s string, style tcell.Style) {
	col := 0
	for _, r := range s {
		if col >= width {
			return
		}
		a.screen.SetContent(x+col, y, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		a.screen.SetContent(x+col, y, ' ', nil, style)
	}
}
