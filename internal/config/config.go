// Package config holds flyout's settings and loads them from defaults, a
// TOML or YAML file, and FLYOUT_ environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/flyout/internal/aim"
	"github.com/dshills/flyout/internal/config/loader"
	"github.com/dshills/flyout/internal/logging"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "FLYOUT_"

// Settings is the complete configuration.
type Settings struct {
	Aim  AimSettings
	Log  LogSettings
	Menu MenuSettings
}

// AimSettings tunes the intent engine.
type AimSettings struct {
	Direction        string
	Tolerance        float64
	ActivationDelay  time.Duration
	DefaultDelay     time.Duration
	MouseLocsTracked int
	Trigger          string
}

// LogSettings configures logging.
type LogSettings struct {
	Level string
	// Path is the log file. Empty discards logs.
	Path string
}

// MenuSettings is the menu tree.
type MenuSettings struct {
	Items []Item
}

// Item is a menu row. Rows with children open a submenu; leaves may carry
// a Lua action.
type Item struct {
	Label    string
	Action   string
	Children []Item
}

// HasSubmenu reports whether the item opens a submenu.
func (i Item) HasSubmenu() bool {
	return len(i.Children) > 0
}

// Options controls where Load looks.
type Options struct {
	// FS reads the config file. Defaults to the OS file system.
	FS loader.FileSystem
	// Env loads overrides. Defaults to the FLYOUT_ environment.
	Env loader.Loader
}

// Load builds settings from defaults, the file at path (skipped when path is
// empty or the file does not exist) and the environment, then validates them.
func Load(path string, opts Options) (Settings, error) {
	merged := map[string]any{}

	if path != "" {
		fl, err := loader.ForPath(opts.FS, path)
		if err != nil {
			return Settings{}, err
		}
		fileMap, err := fl.Load()
		if err != nil {
			return Settings{}, err
		}
		merged = loader.DeepMerge(merged, fileMap)
	}

	env := opts.Env
	if env == nil {
		env = loader.NewEnvLoader(EnvPrefix)
	}
	envMap, err := env.Load()
	if err != nil {
		return Settings{}, fmt.Errorf("loading environment: %w", err)
	}
	merged = loader.DeepMerge(merged, envMap)

	s := Default()
	if err := s.apply(merged); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks every setting and returns all problems joined.
func (s Settings) Validate() error {
	var errs []error

	if _, err := aim.ParseDirection(s.Aim.Direction); err != nil {
		errs = append(errs, &ValidationError{Path: "aim.direction", Message: "must be right, left, above or below", Value: s.Aim.Direction})
	}
	if _, err := aim.ParseTrigger(s.Aim.Trigger); err != nil {
		errs = append(errs, &ValidationError{Path: "aim.trigger", Message: "must be hover, click or both", Value: s.Aim.Trigger})
	}
	if s.Aim.Tolerance < 0 {
		errs = append(errs, &ValidationError{Path: "aim.tolerance", Message: "must not be negative", Value: s.Aim.Tolerance})
	}
	if s.Aim.ActivationDelay < 0 {
		errs = append(errs, &ValidationError{Path: "aim.activationDelay", Message: "must not be negative", Value: s.Aim.ActivationDelay})
	}
	if s.Aim.DefaultDelay < 0 {
		errs = append(errs, &ValidationError{Path: "aim.defaultDelay", Message: "must not be negative", Value: s.Aim.DefaultDelay})
	}
	if s.Aim.MouseLocsTracked < 1 {
		errs = append(errs, &ValidationError{Path: "aim.mouseLocsTracked", Message: "must be at least 1", Value: s.Aim.MouseLocsTracked})
	}
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		errs = append(errs, &ValidationError{Path: "log.level", Message: "must be debug, info, warn or error", Value: s.Log.Level})
	}
	errs = append(errs, validateItems("menu.items", s.Menu.Items)...)

	return errors.Join(errs...)
}

func validateItems(path string, items []Item) []error {
	var errs []error
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", path, i)
		if item.Label == "" {
			errs = append(errs, &ValidationError{Path: p + ".label", Message: "must not be empty"})
		}
		if item.HasSubmenu() && item.Action != "" {
			errs = append(errs, &ValidationError{Path: p + ".action", Message: "only leaf items may have an action"})
		}
		errs = append(errs, validateItems(p+".children", item.Children)...)
	}
	return errs
}

// EngineConfig converts the aim section. Settings must be valid.
func (s Settings) EngineConfig() (aim.Config, error) {
	dir, err := aim.ParseDirection(s.Aim.Direction)
	if err != nil {
		return aim.Config{}, err
	}
	trigger, err := aim.ParseTrigger(s.Aim.Trigger)
	if err != nil {
		return aim.Config{}, err
	}
	cfg := aim.Config{
		Direction:        dir,
		Tolerance:        s.Aim.Tolerance,
		ActivationDelay:  s.Aim.ActivationDelay,
		DefaultDelay:     s.Aim.DefaultDelay,
		MouseLocsTracked: s.Aim.MouseLocsTracked,
		Trigger:          trigger,
	}
	return cfg, cfg.Validate()
}

// LogLevel returns the parsed log level, or info when invalid.
func (s Settings) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(s.Log.Level)
	return level
}
