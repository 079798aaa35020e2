// internal/game/types.go
//
// Core type definitions for the battleship engine.
// Defines:
//   - CellState / Cell / Grid: the square board, indexed [x][y].
//   - ShipSpec / Ship: layout entries and placed ships with remaining life.
//   - Field: a grid plus the ships placed on it.
//   - Mode / GameState: the turn state machine snapshot.

package game

// CellState is the occupancy / fired-upon state of one cell.
type CellState string

const (
	CellEmpty CellState = "empty"
	CellShip  CellState = "ship"
	CellHit   CellState = "hit"
	CellMiss  CellState = "miss"
)

// NoShip is the ShipIndex of a cell that never held a ship.
const NoShip = -1

// Cell is one grid position.
// ShipIndex != NoShip exactly when State is CellShip or CellHit.
type Cell struct {
	X         int       `json:"x"`
	Y         int       `json:"y"`
	State     CellState `json:"state"`
	ShipIndex int       `json:"ship"`
}

// Fired reports whether the cell has already been shot at.
func (c Cell) Fired() bool { return c.State == CellHit || c.State == CellMiss }

// Point is a bare grid coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ShipSpec is one entry of the ship layout: a length and an opaque image id.
type ShipSpec struct {
	Size  int    `json:"size"`
	Image string `json:"image"`
}

// Ship is a placed ship. Index is its position in Field.Ships and the value
// stored in Cell.ShipIndex for every cell it covers.
type Ship struct {
	Index int    `json:"index"`
	Size  int    `json:"size"`
	Life  int    `json:"life"`
	Image string `json:"image"`
}

// Sunk reports whether every cell of the ship has been hit.
func (s Ship) Sunk() bool { return s.Life == 0 }

// Damage returns one flag per hitpoint, true for a lost one.
// Lost hitpoints fill from the front: hitpoint i is lost when Size-i > Life.
func (s Ship) Damage() []bool {
	out := make([]bool, s.Size)
	for i := range out {
		out[i] = s.Size-i > s.Life
	}
	return out
}

// Field is a grid together with the ships placed on it.
// A published Field is never mutated; turns build a new one.
type Field struct {
	Grid  Grid   `json:"grid"`
	Ships []Ship `json:"ships"`
}

// Size is the side length of the field's grid.
func (f *Field) Size() int { return f.Grid.Size() }

// Marks lists the cells that carry an overlay marker (hit or miss),
// in [x][y] order.
func (f *Field) Marks() []Cell {
	out := []Cell{}
	for _, col := range f.Grid {
		for _, c := range col {
			if c.Fired() {
				out = append(out, c)
			}
		}
	}
	return out
}

// Mode is the game's current phase.
type Mode string

const (
	ModePlayerTurn Mode = "player_turn"
	ModeGameOver   Mode = "game_over"
)

// GameState is an immutable snapshot of one game.
type GameState struct {
	Mode   Mode   `json:"mode"`
	Player *Field `json:"player"`
}

// Same reports whether two snapshots are the same value, i.e. a turn was a no-op.
func (s GameState) Same(o GameState) bool {
	return s.Mode == o.Mode && s.Player == o.Player
}
