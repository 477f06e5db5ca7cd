// Package main is the entry point for the flyout terminal menu.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/flyout/internal/config"
	"github.com/dshills/flyout/internal/config/watcher"
	"github.com/dshills/flyout/internal/logging"
	"github.com/dshills/flyout/internal/tui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	logPath    string
	logLevel   string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	settings, err := config.Load(opts.configPath, config.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.logPath != "" {
		settings.Log.Path = opts.logPath
	}
	if opts.logLevel != "" {
		settings.Log.Level = opts.logLevel
	}

	log, closeLog, err := openLog(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	// Ensure the terminal is restored on all exit paths
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	app, err := tui.New(screen, settings, tui.WithLogger(log))
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	if opts.configPath != "" {
		w, err := watcher.New(opts.configPath, reloader(opts, app, log), watcher.WithLogger(log))
		if err != nil {
			log.Warn("config reload disabled: %v", err)
		} else {
			defer w.Close()
		}
	}

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("flyout %s started", version)
	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// reloader reloads settings when the config file changes. A removed file
// keeps the current settings.
func reloader(opts options, app *tui.App, log *logging.Logger) watcher.Handler {
	return func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove {
			log.Warn("config file %s removed, keeping current settings", ev.Path)
			return
		}
		settings, err := config.Load(opts.configPath, config.Options{})
		if err != nil {
			log.Error("reloading %s: %v", ev.Path, err)
			return
		}
		if opts.logLevel != "" {
			settings.Log.Level = opts.logLevel
		}
		log.SetLevel(settings.LogLevel())
		app.Reload(settings)
	}
}

// openLog returns a file logger, or a discarding one when no path is set.
// The terminal owns stderr while the menu runs.
func openLog(settings config.Settings) (*logging.Logger, func(), error) {
	if settings.Log.Path == "" {
		return logging.Null(), func() {}, nil
	}

	f, err := os.OpenFile(settings.Log.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	cfg := logging.DefaultConfig()
	cfg.Level = settings.LogLevel()
	cfg.Output = f
	return logging.New(cfg), func() { _ = f.Close() }, nil
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logPath, "log", "", "Write logs to this file")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "flyout - nested menus that follow where the pointer is heading\n\n")
		fmt.Fprintf(os.Stderr, "Usage: flyout [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys: h hover mode, c click mode, esc close, q quit\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("flyout %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.logLevel != "" {
		if _, err := logging.ParseLevel(opts.logLevel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	return opts
}
