package common

const (
	// TileSize is the edge length of a grid cell in pixels.
	TileSize = 16
	// BaseWidth and BaseHeight are the logical screen size.
	BaseWidth  = 320
	BaseHeight = 240
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// TileOf converts a pixel coordinate to the tile containing it. Negative
// pixels floor toward negative tiles.
func TileOf(px int) int {
	if px >= 0 {
		return px / TileSize
	}
	return -((-px + TileSize - 1) / TileSize)
}

// PixelOf returns the top-left pixel of a tile.
func PixelOf(tile int) int {
	return tile * TileSize
}

// Snap aligns a pixel coordinate down to the tile grid.
func Snap(px int) int {
	return PixelOf(TileOf(px))
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
