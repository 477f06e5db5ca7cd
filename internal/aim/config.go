package aim

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidConfig is wrapped by every configuration error in this package.
var ErrInvalidConfig = errors.New("invalid aim configuration")

// Trigger selects which pointer gestures open submenus.
type Trigger uint8

const (
	// TriggerHover opens submenus as the pointer rests on rows.
	TriggerHover Trigger = 1 << iota
	// TriggerClick opens submenus on click.
	TriggerClick

	// TriggerBoth enables hover and click.
	TriggerBoth = TriggerHover | TriggerClick
)

// Has reports whether t includes other.
func (t Trigger) Has(other Trigger) bool {
	return t&other != 0
}

// String returns "hover", "click" or "hover click".
func (t Trigger) String() string {
	var parts []string
	if t.Has(TriggerHover) {
		parts = append(parts, "hover")
	}
	if t.Has(TriggerClick) {
		parts = append(parts, "click")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// ParseTrigger parses a space or comma separated list of "hover" and "click".
// "both" is accepted as shorthand.
func ParseTrigger(s string) (Trigger, error) {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == ','
	})
	if len(fields) == 0 {
		return TriggerHover, nil
	}

	var t Trigger
	for _, f := range fields {
		switch f {
		case "hover":
			t |= TriggerHover
		case "click":
			t |= TriggerClick
		case "both":
			t |= TriggerBoth
		default:
			return TriggerHover, fmt.Errorf("%w: trigger %q", ErrInvalidConfig, s)
		}
	}
	return t, nil
}

// Config configures an Engine.
type Config struct {
	// Direction is the side on which submenus open.
	Direction Direction

	// Tolerance pads the menu's top and bottom when building the aim wedge.
	Tolerance float64

	// ActivationDelay postpones the first submenu opening of a session.
	// Switching between rows while a submenu is already open is not delayed.
	ActivationDelay time.Duration

	// DefaultDelay is how long to wait before re-checking intent when the
	// pointer appears to be heading for the open submenu.
	DefaultDelay time.Duration

	// MouseLocsTracked is the pointer history capacity.
	MouseLocsTracked int

	// Trigger selects hover and/or click activation.
	Trigger Trigger
}

// DefaultConfig returns the stock tuning for pixel coordinates.
func DefaultConfig() Config {
	return Config{
		Direction:        DirectionRight,
		Tolerance:        75,
		ActivationDelay:  300 * time.Millisecond,
		DefaultDelay:     300 * time.Millisecond,
		MouseLocsTracked: 3,
		Trigger:          TriggerHover,
	}
}

// Validate checks ranges.
func (c Config) Validate() error {
	if c.Direction > DirectionBelow {
		return fmt.Errorf("%w: direction %d", ErrInvalidConfig, c.Direction)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: negative tolerance %v", ErrInvalidConfig, c.Tolerance)
	}
	if c.ActivationDelay < 0 {
		return fmt.Errorf("%w: negative activation delay %v", ErrInvalidConfig, c.ActivationDelay)
	}
	if c.DefaultDelay < 0 {
		return fmt.Errorf("%w: negative default delay %v", ErrInvalidConfig, c.DefaultDelay)
	}
	if c.MouseLocsTracked < 1 {
		return fmt.Errorf("%w: mouseLocsTracked must be at least 1, got %d", ErrInvalidConfig, c.MouseLocsTracked)
	}
	if c.Trigger == 0 || c.Trigger&^TriggerBoth != 0 {
		return fmt.Errorf("%w: trigger %d", ErrInvalidConfig, c.Trigger)
	}
	return nil
}
