package loader

import "gopkg.in/yaml.v3"

// NewYAMLLoader creates a loader for a YAML file.
func NewYAMLLoader(fsys FileSystem, path string) *FileLoader {
	return &FileLoader{fs: fsys, path: path, parse: parseYAML}
}

func parseYAML(data []byte, out *map[string]any) error {
	return yaml.Unmarshal(data, out)
}
