package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPlacements_EmptyGridCounts(t *testing.T) {
	// On an n×n grid a ship of length L has (n-L+1)*n slots per orientation.
	g := NewGrid(4)
	got := FindPlacements(g, 2)
	assert.Len(t, got, 2*3*4)
	assert.Contains(t, got, Placement{X: 0, Y: 0, Orientation: Horizontal})
	assert.Contains(t, got, Placement{X: 2, Y: 3, Orientation: Horizontal})
	assert.Contains(t, got, Placement{X: 3, Y: 2, Orientation: Vertical})
}

func TestFindPlacements_FullLengthFits(t *testing.T) {
	g := NewGrid(3)
	got := FindPlacements(g, 3)
	assert.Equal(t, []Placement{
		{0, 0, Horizontal}, {0, 0, Vertical},
		{0, 1, Horizontal}, {0, 2, Horizontal},
		{1, 0, Vertical}, {2, 0, Vertical},
	}, got)
}

func TestFindPlacements_Order(t *testing.T) {
	got := FindPlacements(NewGrid(2), 1)
	assert.Equal(t, []Placement{
		{0, 0, Horizontal}, {0, 0, Vertical},
		{0, 1, Horizontal}, {0, 1, Vertical},
		{1, 0, Horizontal}, {1, 0, Vertical},
		{1, 1, Horizontal}, {1, 1, Vertical},
	}, got)
}

func TestFindPlacements_TooLong(t *testing.T) {
	assert.Empty(t, FindPlacements(NewGrid(3), 4))
}

func TestFindPlacements_AvoidsOrthogonalContact(t *testing.T) {
	// ship at (1,1) on a 3×3 grid
	g := place(NewGrid(3), Ship{Index: 0, Size: 1}, Placement{1, 1, Horizontal})
	got := FindPlacements(g, 1)

	// only the four corners are free: they touch (1,1) diagonally at most
	assert.ElementsMatch(t, []Placement{
		{0, 0, Horizontal}, {0, 0, Vertical},
		{0, 2, Horizontal}, {0, 2, Vertical},
		{2, 0, Horizontal}, {2, 0, Vertical},
		{2, 2, Horizontal}, {2, 2, Vertical},
	}, got)
}

func TestFindPlacements_NoRoomLeft(t *testing.T) {
	g := place(NewGrid(3), Ship{Index: 0, Size: 3}, Placement{0, 1, Horizontal})
	assert.Empty(t, FindPlacements(g, 2))
	assert.Empty(t, FindPlacements(g, 1))
}

func TestPlacement_Cells(t *testing.T) {
	assert.Equal(t, []Point{{2, 1}, {3, 1}, {4, 1}}, Placement{2, 1, Horizontal}.Cells(3))
	assert.Equal(t, []Point{{2, 1}, {2, 2}}, Placement{2, 1, Vertical}.Cells(2))
}

func TestFindPlacements_EveryResultIsClear(t *testing.T) {
	g := place(NewGrid(6), Ship{Index: 0, Size: 3}, Placement{1, 2, Vertical})
	places := FindPlacements(g, 2)
	require.NotEmpty(t, places)
	for _, p := range places {
		for _, pt := range p.Cells(2) {
			require.True(t, g.InBounds(pt.X, pt.Y))
			assert.False(t, g.hasShipAround(pt.X, pt.Y), "placement %+v touches a ship", p)
		}
	}
}
