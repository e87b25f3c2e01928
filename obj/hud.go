package obj

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/component"
)

// HUD draws one heart per point of max health, full for remaining health
// and empty for lost health.
type HUD struct {
	X       int
	Y       int
	Spacing int

	full  *ebiten.Image
	empty *ebiten.Image
}

// NewHUD cuts the heart cells out of a sheet of TileSize cells. A cell
// outside the sheet leaves that heart undrawn.
func NewHUD(sheet *ebiten.Image, full, empty image.Point, x, y, spacing int) *HUD {
	if spacing <= 0 {
		spacing = common.TileSize
	}
	return &HUD{
		X:       x,
		Y:       y,
		Spacing: spacing,
		full:    cell(sheet, full),
		empty:   cell(sheet, empty),
	}
}

func cell(sheet *ebiten.Image, at image.Point) *ebiten.Image {
	if sheet == nil || at.X < 0 || at.Y < 0 {
		return nil
	}
	r := image.Rect(at.X*common.TileSize, at.Y*common.TileSize, (at.X+1)*common.TileSize, (at.Y+1)*common.TileSize).Add(sheet.Bounds().Min)
	if !r.In(sheet.Bounds()) {
		return nil
	}
	return sheet.SubImage(r).(*ebiten.Image)
}

// Draw renders the hearts in screen space.
func (h *HUD) Draw(dst component.Canvas, health *component.Health) {
	if h == nil || health == nil || dst == nil {
		return
	}
	for i := 0; i < health.Max; i++ {
		img := h.empty
		if i < health.Current {
			img = h.full
		}
		if img == nil {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(h.X+i*h.Spacing), float64(h.Y))
		dst.DrawImage(img, op)
	}
}
