package config

import "github.com/dshills/flyout/internal/aim"

// DefaultTolerance pads menu bounds in terminal cells. The engine's own
// default is in pixels, which would pad a panel by most of a screen.
const DefaultTolerance = 3

// Default returns the built-in settings: stock engine tuning with a
// cell-sized tolerance, info logging and a small demonstration menu.
func Default() Settings {
	cfg := aim.DefaultConfig()
	return Settings{
		Aim: AimSettings{
			Direction:        cfg.Direction.String(),
			Tolerance:        DefaultTolerance,
			ActivationDelay:  cfg.ActivationDelay,
			DefaultDelay:     cfg.DefaultDelay,
			MouseLocsTracked: cfg.MouseLocsTracked,
			Trigger:          cfg.Trigger.String(),
		},
		Log: LogSettings{
			Level: "info",
		},
		Menu: MenuSettings{
			Items: defaultItems(),
		},
	}
}

func leaf(label string) Item {
	return Item{Label: label, Action: `flyout.status(table.concat(item.path, " > "))`}
}

func defaultItems() []Item {
	return []Item{
		{Label: "File", Children: []Item{
			leaf("New"),
			leaf("Open"),
			{Label: "Open Recent", Children: []Item{
				leaf("notes.md"),
				leaf("todo.txt"),
				leaf("flyout.toml"),
			}},
			leaf("Save"),
			{Label: "Export", Children: []Item{
				leaf("PDF"),
				leaf("HTML"),
				leaf("Plain text"),
			}},
		}},
		{Label: "Edit", Children: []Item{
			leaf("Undo"),
			leaf("Redo"),
			{Label: "Find", Children: []Item{
				leaf("Find..."),
				leaf("Replace..."),
				leaf("Find in files"),
			}},
		}},
		{Label: "View", Children: []Item{
			{Label: "Zoom", Children: []Item{
				leaf("In"),
				leaf("Out"),
				leaf("Reset"),
			}},
			{Label: "Theme", Children: []Item{
				leaf("Light"),
				leaf("Dark"),
			}},
		}},
		{Label: "Help", Children: []Item{
			{Label: "About", Action: `flyout.status("flyout: menu intent detection demo")`},
		}},
	}
}
