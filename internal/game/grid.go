package game

// Grid is an N×N board indexed [x][y].
type Grid [][]Cell

// NewGrid returns a size×size grid of empty cells.
func NewGrid(size int) Grid {
	g := make(Grid, size)
	for x := range g {
		g[x] = make([]Cell, size)
		for y := range g[x] {
			g[x][y] = Cell{X: x, Y: y, State: CellEmpty, ShipIndex: NoShip}
		}
	}
	return g
}

// Size is the side length of the grid.
func (g Grid) Size() int { return len(g) }

// InBounds reports whether (x, y) addresses a cell of g.
func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && x < len(g) && y >= 0 && y < len(g[x])
}

// Cell returns the cell at (x, y) and whether it exists.
func (g Grid) Cell(x, y int) (Cell, bool) {
	if !g.InBounds(x, y) {
		return Cell{}, false
	}
	return g[x][y], true
}

// WithCell returns a grid equal to g except that patch has been applied to
// cell (x, y). Only the touched column is copied; the rest is shared with g.
// Out of bounds coordinates return g unchanged.
func (g Grid) WithCell(x, y int, patch func(*Cell)) Grid {
	if !g.InBounds(x, y) {
		return g
	}
	out := make(Grid, len(g))
	copy(out, g)
	col := make([]Cell, len(g[x]))
	copy(col, g[x])
	patch(&col[y])
	out[x] = col
	return out
}

// Neighbors returns the cell at (x, y) followed by its up/down/left/right
// neighbours, each clamped to the grid. At an edge the clamped neighbour is
// the cell itself. Diagonals are not included.
func (g Grid) Neighbors(x, y int) []Cell {
	n := len(g)
	minX, maxX := max(x-1, 0), min(x+1, n-1)
	minY, maxY := max(y-1, 0), min(y+1, n-1)
	return []Cell{g[x][y], g[minX][y], g[x][minY], g[maxX][y], g[x][maxY]}
}

// hasShipAround reports whether (x, y) or an orthogonal neighbour holds a ship.
func (g Grid) hasShipAround(x, y int) bool {
	for _, c := range g.Neighbors(x, y) {
		if c.ShipIndex != NoShip {
			return true
		}
	}
	return false
}
