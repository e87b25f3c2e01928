package obj

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/component"
)

var (
	DefaultColliderColor = cp.FColor{R: 1, G: 0, B: 0, A: 0.5}
	DefaultAnimatedColor = cp.FColor{R: 0, G: 0, B: 1, A: 0.5}
)

// DebugOverlay shades solid cells and animated tiles with translucent
// squares. It only reads the level.
type DebugOverlay struct {
	collider *ebiten.Image
	animated *ebiten.Image
}

// NewDebugOverlay builds the overlay cells. Nil colors use the defaults.
func NewDebugOverlay(colliderColor, animatedColor color.Color) *DebugOverlay {
	if colliderColor == nil {
		colliderColor = fcolorToNRGBA(DefaultColliderColor)
	}
	if animatedColor == nil {
		animatedColor = fcolorToNRGBA(DefaultAnimatedColor)
	}
	d := &DebugOverlay{
		collider: ebiten.NewImage(common.TileSize, common.TileSize),
		animated: ebiten.NewImage(common.TileSize, common.TileSize),
	}
	d.collider.Fill(colliderColor)
	d.animated.Fill(animatedColor)
	return d
}

// Draw shades every visible solid cell, then every visible animated tile.
func (d *DebugOverlay) Draw(dst component.Canvas, l *Level, cam *Camera) {
	if d == nil || l == nil || dst == nil || cam == nil {
		return
	}
	off := cam.Offset()
	for row := 0; row < l.Grid.Height; row++ {
		for col := 0; col < l.Grid.Width; col++ {
			if !l.Grid.Blocked(col, row) {
				continue
			}
			x, y := common.PixelOf(col), common.PixelOf(row)
			if cam.Visible(x, y) {
				d.blit(dst, d.collider, float64(x)-off.X, float64(y)-off.Y)
			}
		}
	}
	for _, t := range l.AnimatedTiles {
		if cam.Visible(t.X, t.Y) {
			d.blit(dst, d.animated, float64(t.X)-off.X, float64(t.Y)-off.Y)
		}
	}
}

func (d *DebugOverlay) blit(dst component.Canvas, img *ebiten.Image, x, y float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	dst.DrawImage(img, op)
}

func fcolorToNRGBA(c cp.FColor) color.NRGBA {
	clamp := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return color.NRGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
