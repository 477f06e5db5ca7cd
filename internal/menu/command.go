package menu

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCommand is returned for unrecognized command names.
var ErrUnknownCommand = errors.New("unknown menu command")

// Command names one operation of the Commander surface.
type Command uint8

const (
	CommandActivate Command = iota + 1
	CommandDeactivate
	CommandSwitchToHover
	CommandSwitchToClick
	CommandTeardown
)

var commandNames = map[Command]string{
	CommandActivate:      "activate",
	CommandDeactivate:    "deactivate",
	CommandSwitchToHover: "switchToHover",
	CommandSwitchToClick: "switchToClick",
	CommandTeardown:      "teardown",
}

// String returns the command name.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCommand parses a command name, case-insensitively.
func ParseCommand(s string) (Command, error) {
	for c, name := range commandNames {
		if strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// Exec runs cmd against c. row is used only by CommandActivate.
func Exec[R comparable](c Commander[R], cmd Command, row R) error {
	if m, ok := c.(*Menu[R]); ok && m.TornDown() {
		return fmt.Errorf("%s: %w", cmd, ErrTornDown)
	}

	switch cmd {
	case CommandActivate:
		c.Activate(row)
	case CommandDeactivate:
		c.Deactivate()
	case CommandSwitchToHover:
		c.SwitchToHover()
	case CommandSwitchToClick:
		c.SwitchToClick()
	case CommandTeardown:
		c.Teardown()
	default:
		return fmt.Errorf("%w: %d", ErrUnknownCommand, cmd)
	}
	return nil
}
