package maps

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-pursuit/internal/board"
	"github.com/vovakirdan/tui-pursuit/internal/state"
	"github.com/vovakirdan/tui-pursuit/internal/strategy"
)

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var cfgErr board.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, code, cfgErr.Code)
}

func TestParsePlacesEntities(t *testing.T) {
	s, err := Parse([]string{
		"#######",
		"#P.G .#",
		"#G ...#",
		"#######",
	}, Options{
		PelletValue: 5,
		Timing: func(v string) state.Timing {
			return state.Timing{Base: 100 * time.Millisecond}
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 7, s.Board().Width())
	assert.Equal(t, 4, s.Board().Height())
	assert.Equal(t, board.Wall, s.Board().Terrain(board.C(0, 0)))
	assert.Equal(t, board.Ground, s.Board().Terrain(board.C(1, 1)))

	p := s.Player()
	assert.Equal(t, board.C(1, 1), p.Pos)
	assert.True(t, p.Alive)
	assert.Zero(t, p.Score)

	require.Equal(t, 2, s.PursuerCount())
	g0, _ := s.Pursuer(0)
	g1, _ := s.Pursuer(1)
	assert.Equal(t, board.C(3, 1), g0.Pos)
	assert.Equal(t, board.C(1, 2), g1.Pos)
	assert.Equal(t, strategy.Chaser, g0.Variant)
	assert.Equal(t, strategy.Ambusher, g1.Variant)
	assert.Equal(t, g0.Pos, g0.Home)
	assert.Equal(t, 100*time.Millisecond, g1.Timing.Base)

	assert.Equal(t, 5, s.Remaining())
	c, ok := s.Collectible(board.C(2, 1))
	require.True(t, ok)
	assert.Equal(t, 5, c.Value)
}

func TestParseVariantsCycle(t *testing.T) {
	s, err := Parse([]string{"PGGGGGG"}, Options{Variants: []string{strategy.Wanderer}})
	require.NoError(t, err)
	want := []string{
		strategy.Wanderer, strategy.Ambusher, strategy.Patroller, strategy.Wanderer,
		strategy.Chaser, strategy.Ambusher,
	}
	for i, v := range want {
		p, _ := s.Pursuer(i)
		assert.Equal(t, v, p.Variant, "pursuer %d", i)
	}
}

func TestParseRejectsBadMaps(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		opts Options
		code string
	}{
		{"empty", nil, Options{}, board.CodeEmptyGrid},
		{"empty row", []string{""}, Options{}, board.CodeEmptyRow},
		{"ragged", []string{"#P#", "##"}, Options{}, board.CodeRaggedRows},
		{"unknown symbol", []string{"#P?#"}, Options{}, board.CodeUnknownSymbol},
		{"no player", []string{"# . #"}, Options{}, board.CodeNoPlayer},
		{"two players", []string{"#PP#"}, Options{}, board.CodeMultiplePlayers},
		{"bad variant", []string{"#PG#"}, Options{Variants: []string{"inky"}}, board.CodeUnknownVariant},
		{"bad tunnel", []string{"#P #"}, Options{Tunnels: []Tunnel{{From: board.C(0, 0), Dir: board.West, To: board.C(9, 9)}}}, board.CodeBadLink},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.rows, tt.opts)
			requireCode(t, err, tt.code)
		})
	}
}

func TestParseYAMLWithTunnels(t *testing.T) {
	m, err := ParseYAML([]byte(`
id: loop
pellet_value: 20
pursuers: [patroller]
rows:
  - "P.  G"
tunnels:
  - {from: {x: 4, y: 0}, dir: East, to: {x: 0, y: 0}}
`))
	require.NoError(t, err)
	assert.Equal(t, "loop", m.ID)
	assert.Equal(t, "loop", m.Name)
	require.Len(t, m.Tunnels, 1)

	s, err := m.Snapshot(Options{PelletValue: 1})
	require.NoError(t, err)
	c, ok := s.Collectible(board.C(1, 0))
	require.True(t, ok)
	assert.Equal(t, 20, c.Value)

	g, _ := s.Pursuer(0)
	assert.Equal(t, strategy.Patroller, g.Variant)

	next, ok := s.Board().Neighbor(board.C(4, 0), board.East)
	require.True(t, ok)
	assert.Equal(t, board.C(0, 0), next)
}

func TestParseYAMLErrors(t *testing.T) {
	_, err := ParseYAML([]byte("rows: [P]"))
	assert.Error(t, err)

	_, err = ParseYAML([]byte("id: x\nrows: [P]\ntunnels:\n  - {dir: up-left}\n"))
	requireCode(t, err, board.CodeBadLink)

	_, err = ParseYAML([]byte("id: [unterminated"))
	assert.Error(t, err)
}

func TestSnapshotWrapsMapID(t *testing.T) {
	_, err := Map{ID: "broken", Rows: []string{"##"}}.Snapshot(Options{})
	requireCode(t, err, board.CodeNoPlayer)
	assert.Contains(t, err.Error(), "map broken")
}

func TestBuiltinMapsAreValid(t *testing.T) {
	all, err := Builtin()
	require.NoError(t, err)
	require.NotEmpty(t, all)

	for _, m := range all {
		t.Run(m.ID, func(t *testing.T) {
			s, err := m.Snapshot(Options{})
			require.NoError(t, err)
			assert.Positive(t, s.Remaining())
			assert.Positive(t, s.PursuerCount())
		})
	}
}

func TestLoaderMergesDirectoryWithBuiltin(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.txt"), []byte("#####\n#P.G#\n#####\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "classic.yaml"), []byte("id: classic\nname: Override\nrows: [\"P.\"]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("::"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignore me"), 0o644))

	l := NewLoader(dir)
	ids, err := l.ListIDs()
	require.NoError(t, err)
	assert.Contains(t, ids, "tiny")
	assert.Contains(t, ids, "tunnel")
	assert.NotContains(t, ids, "notes")

	m, err := l.LoadByID("classic")
	require.NoError(t, err)
	assert.Equal(t, "Override", m.Name)

	m, err = l.LoadByID("tiny")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tiny.txt"), m.FilePath)
	s, err := m.Snapshot(Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Remaining())

	m, err = l.LoadByID(filepath.Join(dir, "tiny.txt"))
	require.NoError(t, err)
	assert.Equal(t, "tiny", m.ID)

	_, err = l.LoadByID("missing")
	assert.Error(t, err)
}

func TestLoaderWithoutDirectory(t *testing.T) {
	ids, err := NewLoader(filepath.Join(t.TempDir(), "nope")).ListIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"classic", "corridor", "tunnel"}, ids)

	ids, err = NewLoader("").ListIDs()
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}

func TestSplitRows(t *testing.T) {
	assert.Equal(t, []string{"#P#", "# #"}, SplitRows("#P#\r\n# #\n"))
	assert.Nil(t, SplitRows(""))
}
