package common

// CollisionGrid marks which tiles of a level are solid. It is built once per
// level load and never mutated afterwards.
type CollisionGrid struct {
	Width  int
	Height int

	blocked [][]bool
}

// NewCollisionGrid builds a grid of w*h cells, asking solid for each cell.
// A nil solid yields a fully open grid.
func NewCollisionGrid(w, h int, solid func(col, row int) bool) *CollisionGrid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	g := &CollisionGrid{Width: w, Height: h, blocked: make([][]bool, h)}
	for row := 0; row < h; row++ {
		g.blocked[row] = make([]bool, w)
		if solid == nil {
			continue
		}
		for col := 0; col < w; col++ {
			g.blocked[row][col] = solid(col, row)
		}
	}
	return g
}

// EmptyGrid returns a grid with no solid cells.
func EmptyGrid(w, h int) *CollisionGrid {
	return NewCollisionGrid(w, h, nil)
}

// Blocked reports whether the tile is solid. Anything outside the grid is
// solid so level edges need no extra bookkeeping.
func (g *CollisionGrid) Blocked(col, row int) bool {
	if g == nil {
		return true
	}
	if row < 0 || row >= g.Height || col < 0 || col >= g.Width {
		return true
	}
	return g.blocked[row][col]
}

// PositionBlocked reports whether the tile containing the pixel is solid.
func (g *CollisionGrid) PositionBlocked(px, py int) bool {
	return g.Blocked(TileOf(px), TileOf(py))
}

// SolidCount returns the number of solid cells inside the grid.
func (g *CollisionGrid) SolidCount() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, row := range g.blocked {
		for _, b := range row {
			if b {
				n++
			}
		}
	}
	return n
}
