package maps

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-pursuit/internal/board"
	"github.com/vovakirdan/tui-pursuit/internal/state"
)

// Map is a level definition as read from disk or the built-in set.
type Map struct {
	ID          string
	Name        string
	Rows        []string
	PelletValue int      // zero means use the configured value
	Variants    []string // explicit pursuer variants in spawn order
	Tunnels     []Tunnel
	FilePath    string // empty for built-in maps
}

// Snapshot builds the initial snapshot. Values set on the map win over
// those in opts.
func (m Map) Snapshot(opts Options) (*state.Snapshot, error) {
	if m.PelletValue > 0 {
		opts.PelletValue = m.PelletValue
	}
	if len(m.Variants) > 0 {
		opts.Variants = m.Variants
	}
	opts.Tunnels = append(append([]Tunnel(nil), m.Tunnels...), opts.Tunnels...)

	s, err := Parse(m.Rows, opts)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", m.ID, err)
	}
	return s, nil
}

// YAMLMap is the on-disk YAML structure of a map file.
type YAMLMap struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	PelletValue int          `yaml:"pellet_value,omitempty"`
	Pursuers    []string     `yaml:"pursuers,omitempty"`
	Rows        []string     `yaml:"rows"`
	Tunnels     []YAMLTunnel `yaml:"tunnels,omitempty"`
}

// YAMLTunnel is a one-way link in YAML form.
type YAMLTunnel struct {
	From YAMLCoord `yaml:"from"`
	Dir  string    `yaml:"dir"`
	To   YAMLCoord `yaml:"to"`
}

// YAMLCoord is a cell position in YAML form.
type YAMLCoord struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// ParseYAML decodes a YAML map file. Board validation happens later, in
// Map.Snapshot.
func ParseYAML(data []byte) (Map, error) {
	var ym YAMLMap
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return Map{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if ym.ID == "" {
		return Map{}, fmt.Errorf("yaml map: missing id")
	}

	m := Map{
		ID:          ym.ID,
		Name:        ym.Name,
		Rows:        ym.Rows,
		PelletValue: ym.PelletValue,
		Variants:    ym.Pursuers,
	}
	if m.Name == "" {
		m.Name = m.ID
	}
	for i, t := range ym.Tunnels {
		d, ok := board.ParseDirection(strings.ToLower(t.Dir))
		if !ok {
			return Map{}, board.ConfigurationError{
				Code:    board.CodeBadLink,
				Message: fmt.Sprintf("tunnel %d: unknown direction %q", i, t.Dir),
			}
		}
		m.Tunnels = append(m.Tunnels, Tunnel{
			From: board.C(t.From.X, t.From.Y),
			Dir:  d,
			To:   board.C(t.To.X, t.To.Y),
		})
	}
	return m, nil
}

// ParseText reads a bare character grid. The ID is taken from the file
// name without its extension.
func ParseText(data []byte, path string) Map {
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Map{
		ID:   id,
		Name: id,
		Rows: SplitRows(string(data)),
	}
}

// FormatExtensions returns the supported map file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".txt", ".map"}
}
