package obj

import (
	"time"

	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/component"
)

// Offset is the world-space top-left of the view. Draw calls subtract it
// from world positions.
type Offset struct {
	X float64
	Y float64
}

// Blocker answers pixel-space blocking queries. *common.CollisionGrid
// satisfies it.
type Blocker interface {
	PositionBlocked(px, py int) bool
}

// Entity is anything placed in a level that draws itself.
type Entity interface {
	Name() string
	Position() (int, int)
	Draw(dst component.Canvas, cam Offset, now time.Time)
}

// Updatable entities advance their own timers and state each frame.
type Updatable interface {
	Entity
	Update(now time.Time, grid Blocker)
}

// Collidable entities can hurt the player on contact.
type Collidable interface {
	Entity
	Bounds() common.Rect
	ContactDamage() int
}
