package obj

import (
	"time"

	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/component"
)

// AnimatedTile is one cell of the animated layer. It owns a single clip
// built from the tileset's animation metadata. A tile with no frames draws
// nothing.
type AnimatedTile struct {
	X   int
	Y   int
	GID uint32

	sprite *component.AnimatedSprite
}

func NewAnimatedTile(x, y int, gid uint32, sprite *component.AnimatedSprite) *AnimatedTile {
	return &AnimatedTile{X: x, Y: y, GID: gid, sprite: sprite}
}

func (t *AnimatedTile) Name() string { return "animated_tile" }

func (t *AnimatedTile) Position() (int, int) { return t.X, t.Y }

func (t *AnimatedTile) Bounds() common.Rect { return common.TileRect(t.X, t.Y) }

// Frames reports how many frames the tile cycles through.
func (t *AnimatedTile) Frames() int {
	if t.sprite == nil {
		return 0
	}
	return t.sprite.FrameCount()
}

func (t *AnimatedTile) Update(now time.Time, _ Blocker) {
	t.sprite.Update(now)
}

func (t *AnimatedTile) Draw(dst component.Canvas, cam Offset, _ time.Time) {
	t.sprite.Draw(dst, float64(t.X)-cam.X, float64(t.Y)-cam.Y)
}
