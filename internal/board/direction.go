package board

import "fmt"

// Coord identifies a cell on the board.
// X increases to the right, Y increases downward (screen coordinates).
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Step returns the coordinate one unit away in the given direction.
func (c Coord) Step(d Direction) Coord {
	dx, dy := d.Delta()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Manhattan returns the Manhattan distance to another coordinate.
func (c Coord) Manhattan(other Coord) int {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Direction is one of the four compass directions.
type Direction uint8

const (
	North Direction = iota
	South
	West
	East
)

// Directions lists every direction in search order.
// BFS and random-move selection iterate in this order.
var Directions = [4]Direction{North, South, West, East}

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case West:
		return "west"
	case East:
		return "east"
	default:
		return "unknown"
	}
}

// Delta returns the (dx, dy) unit displacement for this direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case West:
		return -1, 0
	case East:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the inverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case West:
		return East
	case East:
		return West
	default:
		return d
	}
}

// ParseDirection converts a name ("north", "n", ...) to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "north", "n", "up":
		return North, true
	case "south", "s", "down":
		return South, true
	case "west", "w", "left":
		return West, true
	case "east", "e", "right":
		return East, true
	}
	return 0, false
}
