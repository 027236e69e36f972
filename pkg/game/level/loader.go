package level

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed levels/*.yaml
var builtin embed.FS

// Parse decodes and validates a level from YAML. Unknown fields are errors.
func Parse(data []byte) (*Level, error) {
	var l Level
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	l.applyDefaults()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Load reads a level file.
func Load(filename string) (*Level, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return l, nil
}

// Marshal encodes a level as YAML.
func Marshal(l *Level) ([]byte, error) {
	return yaml.Marshal(l)
}

// Builtin returns the levels shipped with the game, ordered by file name.
func Builtin() ([]*Level, error) {
	return loadFS(builtin, "levels")
}

func loadFS(fsys fs.FS, dir string) ([]*Level, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read level pack: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".yaml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	levels := make([]*Level, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read level %s: %w", name, err)
		}
		l, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		levels = append(levels, l)
	}
	return levels, nil
}
