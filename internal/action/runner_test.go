package action

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunner_Status(t *testing.T) {
	r := NewRunner()
	item := Item{Label: "Save", Path: []string{"File", "Save"}}

	tests := []struct {
		name string
		code string
		want string
	}{
		{"status call", `flyout.status("saved " .. item.label)`, "saved Save"},
		{"path access", `flyout.status(table.concat(item.path, " > "))`, "File > Save"},
		{"return value", `return "returned"`, "returned"},
		{"status wins over return", `flyout.status("s") return "r"`, "s"},
		{"no status", `local x = 1`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Run(context.Background(), item, tt.code)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Run() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunner_EmptyCode(t *testing.T) {
	r := NewRunner()
	if _, err := r.Run(context.Background(), Item{Label: "x"}, "  \n"); !errors.Is(err, ErrNoAction) {
		t.Errorf("Run(empty) error = %v, want ErrNoAction", err)
	}
}

func TestRunner_Errors(t *testing.T) {
	r := NewRunner()

	tests := []struct {
		name string
		code string
	}{
		{"syntax", `flyout.status(`},
		{"runtime", `error("boom")`},
		{"no os library", `os.execute("true")`},
		{"no io library", `io.open("/etc/passwd")`},
		{"no loadstring", `loadstring("return 1")()`},
		{"status needs a string", `flyout.status()`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Run(context.Background(), Item{Label: "x"}, tt.code)
			if !errors.Is(err, ErrScript) {
				t.Errorf("Run() error = %v, want ErrScript", err)
			}
		})
	}
}

func TestRunner_Timeout(t *testing.T) {
	r := NewRunner(WithTimeout(50 * time.Millisecond))

	done := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background(), Item{Label: "spin"}, `while true do end`)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrScript) {
			t.Errorf("Run() error = %v, want ErrScript", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runaway script was not stopped")
	}
}

func TestRunner_StateIsolation(t *testing.T) {
	r := NewRunner()
	ctx := context.Background()

	if _, err := r.Run(ctx, Item{Label: "a"}, `leaked = "yes"`); err != nil {
		t.Fatalf("first run: %v", err)
	}
	got, err := r.Run(ctx, Item{Label: "b"}, `return tostring(leaked)`)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if got != "nil" {
		t.Errorf("global leaked between runs: %q", got)
	}
}
