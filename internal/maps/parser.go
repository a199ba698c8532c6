// Package maps turns character-grid map definitions into a board and the
// initial snapshot of a level.
//
// Symbols: '#' wall, ' ' ground, '.' ground with a pellet, 'G' ground with
// a pursuer spawn, 'P' ground with the player spawn. Exactly one 'P'.
package maps

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-pursuit/internal/board"
	"github.com/vovakirdan/tui-pursuit/internal/state"
	"github.com/vovakirdan/tui-pursuit/internal/strategy"
)

// Map symbols.
const (
	SymWall    = '#'
	SymGround  = ' '
	SymPellet  = '.'
	SymPursuer = 'G'
	SymPlayer  = 'P'
)

// DefaultPelletValue is the score for one pellet when nothing else is set.
const DefaultPelletValue = 10

// Tunnel is a one-way link added on top of the grid neighbours.
type Tunnel struct {
	From board.Coord
	Dir  board.Direction
	To   board.Coord
}

// Options controls how spawns are turned into entities.
type Options struct {
	PelletValue int
	// Variants names the variant of each pursuer spawn in row-major order.
	// Spawns past the end of the list cycle through strategy.Rotation.
	Variants []string
	Tunnels  []Tunnel
	// Timing returns the move cadence for a variant. Nil leaves every
	// pursuer with a zero Timing.
	Timing func(variant string) state.Timing
}

// Parse validates the rows and builds the initial snapshot.
// Every failure is a board.ConfigurationError.
func Parse(rows []string, opts Options) (*state.Snapshot, error) {
	terrain := make([][]board.Terrain, len(rows))
	var (
		players  []board.Coord
		spawns   []board.Coord
		pellets  []board.Coord
		badSym   rune
		badAt    board.Coord
		foundBad bool
	)

	for y, row := range rows {
		runes := []rune(row)
		terrain[y] = make([]board.Terrain, len(runes))
		for x, ch := range runes {
			at := board.C(x, y)
			switch ch {
			case SymWall:
				terrain[y][x] = board.Wall
			case SymGround:
			case SymPellet:
				pellets = append(pellets, at)
			case SymPursuer:
				spawns = append(spawns, at)
			case SymPlayer:
				players = append(players, at)
			default:
				if !foundBad {
					badSym, badAt, foundBad = ch, at, true
				}
			}
		}
	}

	bld, err := board.NewBuilder(terrain)
	if err != nil {
		return nil, err
	}
	if foundBad {
		return nil, board.ConfigurationError{
			Code:    board.CodeUnknownSymbol,
			Message: fmt.Sprintf("unknown symbol %q at %v", badSym, badAt),
		}
	}
	switch {
	case len(players) == 0:
		return nil, board.ConfigurationError{Code: board.CodeNoPlayer, Message: "map has no player spawn"}
	case len(players) > 1:
		return nil, board.ConfigurationError{
			Code:    board.CodeMultiplePlayers,
			Message: fmt.Sprintf("map has %d player spawns, expected 1", len(players)),
		}
	}
	for _, t := range opts.Tunnels {
		if err := bld.Link(t.From, t.Dir, t.To); err != nil {
			return nil, err
		}
	}
	b := bld.Build()

	value := opts.PelletValue
	if value <= 0 {
		value = DefaultPelletValue
	}
	collectibles := make([]state.Collectible, len(pellets))
	for i, at := range pellets {
		collectibles[i] = state.Collectible{Pos: at, Value: value}
	}

	pursuers := make([]state.Pursuer, len(spawns))
	for i, at := range spawns {
		variant := strategy.Rotation[i%len(strategy.Rotation)]
		if i < len(opts.Variants) && opts.Variants[i] != "" {
			variant = opts.Variants[i]
		}
		if !strategy.Exists(variant) {
			return nil, board.ConfigurationError{
				Code:    board.CodeUnknownVariant,
				Message: fmt.Sprintf("pursuer %d at %v: unknown variant %q", i, at, variant),
			}
		}
		p := state.Pursuer{Pos: at, Facing: board.North, Variant: variant, Home: at}
		if opts.Timing != nil {
			p.Timing = opts.Timing(variant)
		}
		pursuers[i] = p
	}

	player := state.Player{Pos: players[0], Facing: board.West, Alive: true}
	return state.New(b, player, pursuers, collectibles), nil
}

// SplitRows splits map text into rows, dropping one trailing newline and
// any carriage returns.
func SplitRows(text string) []string {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
