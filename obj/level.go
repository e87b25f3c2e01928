package obj

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/component"
)

// Level is the runtime model of one loaded map. It owns every entity; the
// player is tracked by index into Entities rather than a second handle.
type Level struct {
	Name string

	// Background is the pre-rendered background and colliders layers.
	Background    *ebiten.Image
	Grid          *common.CollisionGrid
	AnimatedTiles []*AnimatedTile
	Entities      []Entity

	WidthPx  int
	HeightPx int

	// Music is the track named by the map's info object, if any.
	Music string

	playerIdx  int
	updatables []Updatable
	hazards    []Collidable
}

// NewLevel creates an empty level. A nil grid is replaced by an open grid
// covering the level.
func NewLevel(name string, widthPx, heightPx int, grid *common.CollisionGrid) *Level {
	if grid == nil {
		grid = common.EmptyGrid(common.TileOf(widthPx), common.TileOf(heightPx))
	}
	return &Level{
		Name:      name,
		Grid:      grid,
		WidthPx:   widthPx,
		HeightPx:  heightPx,
		playerIdx: -1,
	}
}

// AddEntity appends e and records which per-frame roles it plays. A second
// player replaces the tracked one.
func (l *Level) AddEntity(e Entity) {
	if e == nil {
		return
	}
	idx := len(l.Entities)
	l.Entities = append(l.Entities, e)

	if _, ok := e.(*Player); ok {
		if l.playerIdx >= 0 {
			log.Printf("level %s: duplicate player placement at entity %d replaces entity %d", l.Name, idx, l.playerIdx)
		}
		l.playerIdx = idx
	}
	if u, ok := e.(Updatable); ok {
		l.updatables = append(l.updatables, u)
	}
	if c, ok := e.(Collidable); ok {
		l.hazards = append(l.hazards, c)
	}
}

// Player returns the tracked player, or nil when the level has none.
func (l *Level) Player() *Player {
	if l == nil || l.playerIdx < 0 || l.playerIdx >= len(l.Entities) {
		return nil
	}
	p, _ := l.Entities[l.playerIdx].(*Player)
	return p
}

func (l *Level) Updatables() []Updatable { return l.updatables }

func (l *Level) Hazards() []Collidable { return l.hazards }

// Disable stops e from being updated or hurting the player. It stays in
// Entities and keeps drawing.
func (l *Level) Disable(e Updatable) {
	for i, u := range l.updatables {
		if u == e {
			l.updatables = append(l.updatables[:i:i], l.updatables[i+1:]...)
			break
		}
	}
	c, ok := e.(Collidable)
	if !ok {
		return
	}
	for i, h := range l.hazards {
		if h == c {
			l.hazards = append(l.hazards[:i:i], l.hazards[i+1:]...)
			break
		}
	}
}

// PositionBlocked reports whether the tile containing the pixel is solid.
func (l *Level) PositionBlocked(px, py int) bool {
	return l.Grid.PositionBlocked(px, py)
}

// Columns and Rows are the grid dimensions in tiles.
func (l *Level) Columns() int { return l.Grid.Width }

func (l *Level) Rows() int { return l.Grid.Height }

// DrawBackground blits the visible part of the pre-rendered background.
func (l *Level) DrawBackground(dst component.Canvas, cam Offset) {
	if l.Background == nil || dst == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-cam.X, -cam.Y)
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(l.Background, op)
}
