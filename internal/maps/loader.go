package maps

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Builtin returns the maps shipped with the binary, sorted by ID.
func Builtin() ([]Map, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, fmt.Errorf("reading builtin maps: %w", err)
	}
	out := make([]Map, 0, len(entries))
	for _, e := range entries {
		data, err := builtinFS.ReadFile("builtin/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("reading builtin map %s: %w", e.Name(), err)
		}
		m, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("parsing builtin map %s: %w", e.Name(), err)
		}
		out = append(out, m)
	}
	sortByID(out)
	return out, nil
}

// Loader finds maps in a directory tree, on top of the built-in set.
type Loader struct {
	Root string
}

// NewLoader creates a loader for root. An empty root only serves the
// built-in maps.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll returns the built-in maps plus every readable map file under
// Root, sorted by ID. A file whose ID matches a built-in map replaces it.
// Files that fail to parse are skipped.
func (l *Loader) LoadAll() ([]Map, error) {
	builtin, err := Builtin()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Map, len(builtin))
	for _, m := range builtin {
		byID[m.ID] = m
	}

	if l.Root != "" {
		err := filepath.WalkDir(l.Root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isSupportedExtension(strings.ToLower(filepath.Ext(path))) {
				return nil
			}
			m, err := l.LoadFile(path)
			if err != nil {
				return nil
			}
			byID[m.ID] = m
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
		}
	}

	out := make([]Map, 0, len(byID))
	for _, m := range byID {
		out = append(out, m)
	}
	sortByID(out)
	return out, nil
}

// LoadFile reads a single map file.
func (l *Loader) LoadFile(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Map{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	var m Map
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		m, err = ParseYAML(data)
		if err != nil {
			return Map{}, fmt.Errorf("parsing file %s: %w", path, err)
		}
	case ".txt", ".map":
		m = ParseText(data, path)
	default:
		return Map{}, fmt.Errorf("unsupported extension: %s", filepath.Ext(path))
	}
	m.FilePath = path
	return m, nil
}

// LoadByID finds a map by ID. A path to an existing file is also
// accepted and loaded directly.
func (l *Loader) LoadByID(id string) (Map, error) {
	if fi, err := os.Stat(id); err == nil && !fi.IsDir() {
		return l.LoadFile(id)
	}

	all, err := l.LoadAll()
	if err != nil {
		return Map{}, err
	}
	for _, m := range all {
		if m.ID == id {
			return m, nil
		}
	}
	return Map{}, fmt.Errorf("map not found: %s", id)
}

// ListIDs returns all map IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(all))
	for i, m := range all {
		ids[i] = m.ID
	}
	return ids, nil
}

func isSupportedExtension(ext string) bool {
	for _, supported := range FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

func sortByID(ms []Map) {
	sort.Slice(ms, func(i, j int) bool {
		return ms[i].ID < ms[j].ID
	})
}
