package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// NewTOMLLoader creates a loader for a TOML file.
func NewTOMLLoader(fsys FileSystem, path string) *FileLoader {
	return &FileLoader{fs: fsys, path: path, parse: parseTOML}
}

func parseTOML(data []byte, out *map[string]any) error {
	if err := toml.Unmarshal(data, out); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, _ := derr.Position()
			return &lineError{line: row, err: err}
		}
		return err
	}
	return nil
}

// lineError carries a line number up to FileLoader so ParseError can report it.
type lineError struct {
	line int
	err  error
}

func (e *lineError) Error() string { return e.err.Error() }
func (e *lineError) Unwrap() error { return e.err }
