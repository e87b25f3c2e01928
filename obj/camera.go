package obj

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeon/common"
)

// Camera tracks the world point shown at the center of the screen. Levels no
// larger than the screen keep a stationary view anchored at the origin.
type Camera struct {
	PosX float64
	PosY float64

	screenW int
	screenH int

	// smoothing factor (0..1). higher -> faster follow, 0 snaps.
	smooth float64
	// world bounds in pixels (0 means unbounded)
	worldW float64
	worldH float64
}

// NewCamera creates a camera for the given logical screen size, looking at
// the top-left screen of the world.
func NewCamera(screenW, screenH int) *Camera {
	c := &Camera{screenW: screenW, screenH: screenH}
	c.PosX = float64(screenW) / 2.0
	c.PosY = float64(screenH) / 2.0
	return c
}

// SetScreenSize updates the logical screen size used by the camera.
func (c *Camera) SetScreenSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.screenW = w
	c.screenH = h
	c.clampPos()
}

// SetWorldBounds sets the world pixel dimensions for clamping camera position.
func (c *Camera) SetWorldBounds(w, h int) {
	c.worldW = float64(w)
	c.worldH = float64(h)
	c.clampPos()
}

func (c *Camera) SetSmooth(f float64) {
	c.smooth = common.Clamp(f, 0, 1)
}

// ViewTopLeft returns the world-space top-left of the current view.
func (c *Camera) ViewTopLeft() (float64, float64) {
	return c.PosX - float64(c.screenW)/2.0, c.PosY - float64(c.screenH)/2.0
}

// Offset is ViewTopLeft in the form draw calls take.
func (c *Camera) Offset() Offset {
	x, y := c.ViewTopLeft()
	return Offset{X: x, Y: y}
}

// Update moves the camera toward the target world coordinate.
func (c *Camera) Update(targetX, targetY float64) {
	if c.smooth <= 0 || c.smooth >= 1 {
		c.PosX = targetX
		c.PosY = targetY
	} else {
		c.PosX = common.Lerp(c.PosX, targetX, c.smooth)
		c.PosY = common.Lerp(c.PosY, targetY, c.smooth)
	}
	c.clampPos()
}

// SnapTo immediately centers the camera on the given world coordinates,
// applying the same clamping as Update. Use it after a level load.
func (c *Camera) SnapTo(x, y float64) {
	c.PosX = x
	c.PosY = y
	c.clampPos()
}

// centerBounds is the box the camera center may occupy. An axis where the
// world fits on screen collapses to the position that shows the origin.
func (c *Camera) centerBounds() cp.BB {
	halfW := float64(c.screenW) / 2.0
	halfH := float64(c.screenH) / 2.0
	bb := cp.BB{L: math.Inf(-1), B: math.Inf(-1), R: math.Inf(1), T: math.Inf(1)}
	if c.worldW > 0 {
		bb.L, bb.R = halfW, math.Max(halfW, c.worldW-halfW)
	}
	if c.worldH > 0 {
		bb.B, bb.T = halfH, math.Max(halfH, c.worldH-halfH)
	}
	return bb
}

func (c *Camera) clampPos() {
	v := c.centerBounds().ClampVect(&cp.Vector{X: c.PosX, Y: c.PosY})
	// whole pixels keep tiles from shimmering
	c.PosX = math.Round(v.X)
	c.PosY = math.Round(v.Y)
}

// Viewport is the world-space box of positions whose tile is at least
// partly on screen.
func (c *Camera) Viewport() cp.BB {
	l, t := c.ViewTopLeft()
	return cp.BB{
		L: l - common.TileSize,
		B: t - common.TileSize,
		R: l + float64(c.screenW),
		T: t + float64(c.screenH),
	}
}

// Visible reports whether a tile whose top-left is at (x, y) should be drawn.
func (c *Camera) Visible(x, y int) bool {
	return c.Viewport().ContainsVect(cp.Vector{X: float64(x), Y: float64(y)})
}
