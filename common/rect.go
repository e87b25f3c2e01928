package common

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	X, Y          int
	Width, Height int
}

// TileRect returns the rectangle covering one tile at the given pixel position.
func TileRect(x, y int) Rect {
	return Rect{X: x, Y: y, Width: TileSize, Height: TileSize}
}

// Intersects reports whether the rectangles overlap. Rectangles that only
// share an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}
