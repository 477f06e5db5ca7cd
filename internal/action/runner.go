// Package action runs the Lua snippets attached to leaf menu items.
//
// Each run gets a fresh sandboxed gopher-lua state with only the base,
// table, string and math libraries. Scripts see the selected item as the
// global table "item" and report back through flyout.status(msg).
package action

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/flyout/internal/logging"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = time.Second

var (
	// ErrNoAction is returned when an item carries no script.
	ErrNoAction = errors.New("item has no action")

	// ErrScript wraps every Lua compile or runtime failure.
	ErrScript = errors.New("lua action failed")
)

// Item is the menu item a script runs for.
type Item struct {
	// Label is the item's own label.
	Label string
	// Path holds the labels from the root menu down to the item.
	Path []string
}

// Runner executes item actions.
type Runner struct {
	timeout time.Duration
	log     *logging.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets the per-run timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// NewRunner creates a runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		timeout: DefaultTimeout,
		log:     logging.Null(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("action")
	return r
}

// Run executes code for item and returns the status message it set.
// A script that never calls flyout.status but returns a string reports that
// string instead.
func (r *Runner) Run(ctx context.Context, item Item, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", ErrNoAction
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	L := newSandbox()
	defer L.Close()
	L.SetContext(ctx)

	var status string
	hasStatus := false
	flyout := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"status": func(L *lua.LState) int {
			status = L.CheckString(1)
			hasStatus = true
			return 0
		},
	})
	L.SetGlobal("flyout", flyout)
	L.SetGlobal("item", itemTable(L, item))

	top := L.GetTop()
	if err := doString(L, code); err != nil {
		r.log.Warn("action for %q failed: %v", item.Label, err)
		return "", fmt.Errorf("%w: %s: %v", ErrScript, item.Label, err)
	}

	if !hasStatus && L.GetTop() > top {
		if s, ok := L.Get(top + 1).(lua.LString); ok {
			status = string(s)
		}
	}
	r.log.Debug("action for %q: %s", item.Label, status)
	return status, nil
}

// newSandbox creates a state with only the safe standard libraries.
func newSandbox() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

func itemTable(L *lua.LState, item Item) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("label", lua.LString(item.Label))
	path := L.NewTable()
	for _, p := range item.Path {
		path.Append(lua.LString(p))
	}
	t.RawSetString("path", path)
	return t
}

// doString runs code, converting panics from the VM into errors.
func doString(L *lua.LState, code string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return L.DoString(code)
}
