// Package board provides the immutable cell graph a level is played on.
// Cells are linked per direction; links are one-way and need not be symmetric.
package board

import "fmt"

// Terrain is the kind of ground a cell is made of.
type Terrain uint8

const (
	Ground Terrain = iota
	Wall
)

// String returns the terrain name.
func (t Terrain) String() string {
	if t == Wall {
		return "wall"
	}
	return "ground"
}

// Kind identifies the type of entity asking for access to a cell.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindPursuer
)

// AccessRule decides whether an entity of the given kind may enter terrain.
type AccessRule func(t Terrain, k Kind) bool

// DefaultAccess admits every kind onto anything that is not a wall.
func DefaultAccess(t Terrain, _ Kind) bool {
	return t != Wall
}

// noLink marks a direction without a declared neighbour.
const noLink = -1

type cell struct {
	terrain Terrain
	links   [4]int // index into Board.cells per Direction, or noLink
}

// Board is an immutable directed-adjacency graph of cells.
// Cells are stored in row-major order: index = y*W + x.
type Board struct {
	w, h   int
	cells  []cell
	access AccessRule
	warped bool
}

// New builds a board from rows of terrain, linking each cell to its
// in-bounds grid neighbours.
func New(terrain [][]Terrain) (*Board, error) {
	b, err := NewBuilder(terrain)
	if err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// Width returns the board width in cells.
func (b *Board) Width() int {
	return b.w
}

// Height returns the board height in cells.
func (b *Board) Height() int {
	return b.h
}

// InBounds returns true if the coordinate lies on the board.
func (b *Board) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < b.w && c.Y >= 0 && c.Y < b.h
}

func (b *Board) index(c Coord) int {
	return c.Y*b.w + c.X
}

func (b *Board) coord(i int) Coord {
	return Coord{X: i % b.w, Y: i / b.w}
}

// Terrain returns the terrain at c. Out-of-bounds coordinates read as Wall.
func (b *Board) Terrain(c Coord) Terrain {
	if !b.InBounds(c) {
		return Wall
	}
	return b.cells[b.index(c)].terrain
}

// Neighbor returns the cell linked from c in direction d.
// The second result is false when no link was declared.
func (b *Board) Neighbor(c Coord, d Direction) (Coord, bool) {
	if !b.InBounds(c) || d > East {
		return Coord{}, false
	}
	next := b.cells[b.index(c)].links[d]
	if next == noLink {
		return Coord{}, false
	}
	return b.coord(next), true
}

// IsAccessible reports whether an entity of kind k may occupy c.
func (b *Board) IsAccessible(c Coord, k Kind) bool {
	if !b.InBounds(c) {
		return false
	}
	return b.access(b.cells[b.index(c)].terrain, k)
}

// CanMove reports whether an entity of kind k standing on c may step in
// direction d, returning the destination when it can.
func (b *Board) CanMove(c Coord, d Direction, k Kind) (Coord, bool) {
	next, ok := b.Neighbor(c, d)
	if !ok || !b.IsAccessible(next, k) {
		return Coord{}, false
	}
	return next, true
}

// Warped reports whether any link joins cells that are not grid
// neighbours, such as a tunnel from one edge to the other.
func (b *Board) Warped() bool {
	return b.warped
}

// Coords returns every coordinate on the board in row-major order.
func (b *Board) Coords() []Coord {
	coords := make([]Coord, 0, len(b.cells))
	for i := range b.cells {
		coords = append(coords, b.coord(i))
	}
	return coords
}

// Builder assembles a Board. It is discarded after Build.
type Builder struct {
	w, h   int
	cells  []cell
	access AccessRule
	warped bool
}

// NewBuilder validates the terrain rows and links grid neighbours.
func NewBuilder(terrain [][]Terrain) (*Builder, error) {
	if len(terrain) == 0 {
		return nil, ConfigurationError{Code: CodeEmptyGrid, Message: "grid must have at least one row"}
	}
	w := len(terrain[0])
	if w == 0 {
		return nil, ConfigurationError{Code: CodeEmptyRow, Message: "grid rows cannot be empty"}
	}
	for y, row := range terrain {
		if len(row) != w {
			return nil, ConfigurationError{
				Code:    CodeRaggedRows,
				Message: fmt.Sprintf("row %d has width %d, expected %d", y, len(row), w),
			}
		}
	}

	b := &Builder{
		w:      w,
		h:      len(terrain),
		cells:  make([]cell, w*len(terrain)),
		access: DefaultAccess,
	}
	for y, row := range terrain {
		for x, t := range row {
			c := &b.cells[y*w+x]
			c.terrain = t
			for _, d := range Directions {
				c.links[d] = noLink
				n := C(x, y).Step(d)
				if n.X >= 0 && n.X < w && n.Y >= 0 && n.Y < b.h {
					c.links[d] = n.Y*w + n.X
				}
			}
		}
	}
	return b, nil
}

// Link declares a one-way link from -> to in direction d, replacing any
// existing link.
func (b *Builder) Link(from Coord, d Direction, to Coord) error {
	if !b.inBounds(from) || !b.inBounds(to) || d > East {
		return ConfigurationError{
			Code:    CodeBadLink,
			Message: fmt.Sprintf("link %v %s -> %v is off the board", from, d, to),
		}
	}
	b.cells[from.Y*b.w+from.X].links[d] = to.Y*b.w + to.X
	if from.Step(d) != to {
		b.warped = true
	}
	return nil
}

// Unlink removes the link leaving from in direction d.
func (b *Builder) Unlink(from Coord, d Direction) {
	if b.inBounds(from) && d <= East {
		b.cells[from.Y*b.w+from.X].links[d] = noLink
	}
}

// WithAccess replaces the accessibility rule.
func (b *Builder) WithAccess(rule AccessRule) *Builder {
	if rule != nil {
		b.access = rule
	}
	return b
}

func (b *Builder) inBounds(c Coord) bool {
	return c.X >= 0 && c.X < b.w && c.Y >= 0 && c.Y < b.h
}

// Build returns the finished board. The builder must not be reused.
func (b *Builder) Build() *Board {
	cells := make([]cell, len(b.cells))
	copy(cells, b.cells)
	return &Board{
		w:      b.w,
		h:      b.h,
		cells:  cells,
		access: b.access,
		warped: b.warped,
	}
}
