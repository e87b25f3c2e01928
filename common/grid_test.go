package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollisionGridOutOfBoundsIsBlocked(t *testing.T) {
	g := EmptyGrid(4, 3)

	cases := []struct {
		name     string
		col, row int
	}{
		{"left", -1, 0},
		{"top", 0, -1},
		{"right", 4, 0},
		{"bottom", 0, 3},
		{"far_corner", 100, 100},
		{"negative_corner", -5, -5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.True(t, g.Blocked(c.col, c.row))
		})
	}

	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			assert.Falsef(t, g.Blocked(col, row), "interior cell (%d,%d)", col, row)
		}
	}
}

func TestCollisionGridSolidCells(t *testing.T) {
	g := NewCollisionGrid(3, 3, func(col, row int) bool {
		return col == 1 && row == 2
	})

	require.Equal(t, 1, g.SolidCount())
	assert.True(t, g.Blocked(1, 2))
	assert.False(t, g.Blocked(2, 1))
}

func TestCollisionGridPositionBlocked(t *testing.T) {
	g := NewCollisionGrid(2, 2, func(col, row int) bool {
		return col == 1 && row == 0
	})

	cases := []struct {
		name   string
		px, py int
		want   bool
	}{
		{"origin", 0, 0, false},
		{"inside_solid", 16, 0, true},
		{"last_pixel_of_solid", 31, 15, true},
		{"below_solid", 16, 16, false},
		{"negative_pixel", -1, 0, true},
		{"past_right_edge", 32, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, g.PositionBlocked(c.px, c.py))
		})
	}
}

func TestNilGridIsBlocked(t *testing.T) {
	var g *CollisionGrid
	assert.True(t, g.Blocked(0, 0))
	assert.Equal(t, 0, g.SolidCount())
}

func TestTileOf(t *testing.T) {
	cases := []struct {
		px, want int
	}{
		{0, 0},
		{15, 0},
		{16, 1},
		{-1, -1},
		{-16, -1},
		{-17, -2},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, TileOf(c.px), "TileOf(%d)", c.px)
	}
	assert.Equal(t, 32, Snap(47))
}

func TestRectIntersects(t *testing.T) {
	a := TileRect(16, 16)

	assert.True(t, a.Intersects(TileRect(16, 16)))
	assert.True(t, a.Intersects(TileRect(24, 20)))
	assert.False(t, a.Intersects(TileRect(32, 16)), "shared edge")
	assert.False(t, a.Intersects(TileRect(16, 0)), "shared edge above")
}

func TestFacing(t *testing.T) {
	assert.Equal(t, -1, FacingLeft.Sign())
	assert.Equal(t, FacingLeft, FacingRight.Flip())
	assert.Equal(t, "walk_left", FacingLeft.Suffixed("walk"))
	assert.Equal(t, "idle_right", FacingRight.Suffixed("idle"))
}
