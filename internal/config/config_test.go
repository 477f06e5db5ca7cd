package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/flyout/internal/aim"
	"github.com/dshills/flyout/internal/config/loader"
	"github.com/dshills/flyout/internal/logging"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

// staticEnv stands in for the process environment.
type staticEnv map[string]any

func (e staticEnv) Load() (map[string]any, error) {
	return loader.DeepMerge(nil, e), nil
}

var noEnv = staticEnv{}

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	if err := s.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}

	cfg, err := s.EngineConfig()
	if err != nil {
		t.Fatalf("EngineConfig() = %v", err)
	}
	want := aim.DefaultConfig()
	want.Tolerance = DefaultTolerance
	if cfg != want {
		t.Errorf("EngineConfig() = %+v, want %+v", cfg, want)
	}
	if len(s.Menu.Items) == 0 {
		t.Error("default menu is empty")
	}
}

func TestLoadTOML(t *testing.T) {
	fsys := memFS{"/flyout.toml": `
[aim]
direction = "left"
tolerance = 4
activationDelay = 150
defaultDelay = "250ms"
mouseLocsTracked = 5
trigger = "hover click"

[log]
level = "debug"
path = "/tmp/flyout.log"

[[menu.items]]
label = "Tools"

  [[menu.items.children]]
  label = "Build"
  action = 'flyout.status("built")'
`}

	s, err := Load("/flyout.toml", Options{FS: fsys, Env: noEnv})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := AimSettings{
		Direction:        "left",
		Tolerance:        4,
		ActivationDelay:  150 * time.Millisecond,
		DefaultDelay:     250 * time.Millisecond,
		MouseLocsTracked: 5,
		Trigger:          "hover click",
	}
	if s.Aim != want {
		t.Errorf("Aim = %+v, want %+v", s.Aim, want)
	}
	if s.LogLevel() != logging.LevelDebug || s.Log.Path != "/tmp/flyout.log" {
		t.Errorf("Log = %+v", s.Log)
	}
	if len(s.Menu.Items) != 1 || !s.Menu.Items[0].HasSubmenu() {
		t.Fatalf("Menu = %+v", s.Menu)
	}
	if got := s.Menu.Items[0].Children[0]; got.Label != "Build" || got.Action != `flyout.status("built")` {
		t.Errorf("child = %+v", got)
	}

	cfg, err := s.EngineConfig()
	if err != nil {
		t.Fatalf("EngineConfig failed: %v", err)
	}
	if cfg.Direction != aim.DirectionLeft || cfg.Trigger != aim.TriggerBoth {
		t.Errorf("EngineConfig() = %+v", cfg)
	}
}

func TestLoadYAMLKeepsUnsetDefaults(t *testing.T) {
	fsys := memFS{"/flyout.yaml": "aim:\n  tolerance: 2.5\n"}

	s, err := Load("/flyout.yaml", Options{FS: fsys, Env: noEnv})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Aim.Tolerance != 2.5 {
		t.Errorf("Tolerance = %v, want 2.5", s.Aim.Tolerance)
	}
	def := Default()
	if s.Aim.Direction != def.Aim.Direction || s.Aim.DefaultDelay != def.Aim.DefaultDelay {
		t.Errorf("unset values changed: %+v", s.Aim)
	}
	if len(s.Menu.Items) != len(def.Menu.Items) {
		t.Errorf("default menu replaced")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	fsys := memFS{"/flyout.toml": "[aim]\ntolerance = 4\ndirection = \"left\"\n"}
	env := staticEnv{"aim": map[string]any{
		"tolerance":    int64(9),
		"defaultDelay": 50 * time.Millisecond,
	}}

	s, err := Load("/flyout.toml", Options{FS: fsys, Env: env})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Aim.Tolerance != 9 || s.Aim.Direction != "left" || s.Aim.DefaultDelay != 50*time.Millisecond {
		t.Errorf("Aim = %+v", s.Aim)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load("/absent.toml", Options{FS: memFS{}, Env: noEnv})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Aim != Default().Aim {
		t.Errorf("Aim = %+v", s.Aim)
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flyout.toml")
	if err := os.WriteFile(path, []byte("[aim]\ntrigger = \"click\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path, Options{Env: noEnv})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Aim.Trigger != "click" {
		t.Errorf("Trigger = %q", s.Aim.Trigger)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		doc   string
		check func(error) bool
	}{
		{"bad extension", "/flyout.ini", "", func(err error) bool { return errors.Is(err, loader.ErrUnsupportedFormat) }},
		{"parse error", "/flyout.toml", "[aim\n", func(err error) bool {
			var perr *loader.ParseError
			return errors.As(err, &perr)
		}},
		{"wrong type", "/flyout.toml", "[aim]\ntolerance = \"wide\"\n", isInvalid},
		{"bad duration", "/flyout.toml", "[aim]\ndefaultDelay = \"soon\"\n", isInvalid},
		{"fractional history", "/flyout.toml", "[aim]\nmouseLocsTracked = 2.5\n", isInvalid},
		{"section not a table", "/flyout.toml", "aim = 3\n", isInvalid},
		{"items not a list", "/flyout.toml", "[menu]\nitems = \"File\"\n", isInvalid},
		{"bad direction", "/flyout.toml", "[aim]\ndirection = \"up\"\n", isInvalid},
		{"bad trigger", "/flyout.toml", "[aim]\ntrigger = \"tap\"\n", isInvalid},
		{"negative tolerance", "/flyout.toml", "[aim]\ntolerance = -1\n", isInvalid},
		{"zero history", "/flyout.toml", "[aim]\nmouseLocsTracked = 0\n", isInvalid},
		{"bad level", "/flyout.toml", "[log]\nlevel = \"loud\"\n", isInvalid},
		{"empty label", "/flyout.toml", "[[menu.items]]\nlabel = \"\"\n", isInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path, Options{FS: memFS{tt.path: tt.doc}, Env: noEnv})
			if err == nil {
				t.Fatal("Load succeeded")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func isInvalid(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	s := Default()
	s.Aim.Tolerance = -1
	s.Aim.DefaultDelay = -time.Second
	s.Menu.Items = []Item{{Label: "Parent", Action: "x", Children: []Item{{}}}}

	err := s.Validate()
	if err == nil {
		t.Fatal("Validate() = nil")
	}

	var paths []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var verr *ValidationError
		if errors.As(e, &verr) {
			paths = append(paths, verr.Path)
		}
	}
	want := []string{"aim.tolerance", "aim.defaultDelay", "menu.items[0].action", "menu.items[0].children[0].label"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}
