package game

// Orientation of a ship run.
type Orientation int

const (
	Horizontal Orientation = iota // along x
	Vertical                      // along y
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Placement is a candidate anchor and orientation for a ship.
type Placement struct {
	X           int         `json:"x"`
	Y           int         `json:"y"`
	Orientation Orientation `json:"orientation"`
}

// Cells lists the coordinates a ship of the given length covers from p.
func (p Placement) Cells(length int) []Point {
	out := make([]Point, length)
	for i := range out {
		if p.Orientation == Horizontal {
			out[i] = Point{X: p.X + i, Y: p.Y}
		} else {
			out[i] = Point{X: p.X, Y: p.Y + i}
		}
	}
	return out
}

// FindPlacements enumerates every anchor/orientation where a ship of the
// given length fits on g without any of its cells, or any cell orthogonally
// touching them, already holding a ship. Anchors are visited x-major; for
// each anchor the horizontal candidate precedes the vertical one.
// An empty result is a normal outcome.
func FindPlacements(g Grid, length int) []Placement {
	var out []Placement
	size := g.Size()
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if x+length <= size && runIsClear(g, x, y, length, Horizontal) {
				out = append(out, Placement{X: x, Y: y, Orientation: Horizontal})
			}
			if y+length <= size && runIsClear(g, x, y, length, Vertical) {
				out = append(out, Placement{X: x, Y: y, Orientation: Vertical})
			}
		}
	}
	return out
}

// runIsClear walks the run and stops at the first cell with a ship around it.
func runIsClear(g Grid, x, y, length int, o Orientation) bool {
	for i := 0; i < length; i++ {
		cx, cy := x+i, y
		if o == Vertical {
			cx, cy = x, y+i
		}
		if g.hasShipAround(cx, cy) {
			return false
		}
	}
	return true
}
