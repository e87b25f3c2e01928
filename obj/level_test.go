package obj

import (
	"image"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelWithoutPlayer(t *testing.T) {
	l := NewLevel("empty", 64, 48, nil)
	assert.Nil(t, l.Player())
	assert.Equal(t, 4, l.Columns())
	assert.Equal(t, 3, l.Rows())
	assert.False(t, l.PositionBlocked(16, 16), "nil grid means open interior")
	assert.True(t, l.PositionBlocked(-1, 16))
	assert.True(t, l.PositionBlocked(64, 16))
}

func TestLevelAddEntityRoles(t *testing.T) {
	l := NewLevel("roles", 320, 240, nil)
	p := newTestPlayer(1, 1, nil)
	e := newTestEnemy(4, 4, AxisHorizontal, 2)
	tile := NewAnimatedTile(0, 0, 9, nil)

	l.AddEntity(e)
	l.AddEntity(p)
	l.AddEntity(tile)
	l.AddEntity(nil)

	assert.Len(t, l.Entities, 3)
	assert.Same(t, p, l.Player())
	assert.Len(t, l.Updatables(), 3)
	require.Len(t, l.Hazards(), 1)
	assert.Same(t, e, l.Hazards()[0])
}

func TestLevelDuplicatePlayerReplacesTracked(t *testing.T) {
	l := NewLevel("dupes", 320, 240, nil)
	first := newTestPlayer(1, 1, nil)
	second := newTestPlayer(2, 2, nil)

	l.AddEntity(first)
	l.AddEntity(second)

	assert.Same(t, second, l.Player())
	assert.Len(t, l.Entities, 2, "no dedupe")
}

func TestLevelDisable(t *testing.T) {
	l := NewLevel("disable", 320, 240, nil)
	a := newTestEnemy(1, 1, AxisHorizontal, 2)
	b := newTestEnemy(3, 3, AxisHorizontal, 2)
	l.AddEntity(a)
	l.AddEntity(b)

	l.Disable(a)

	require.Len(t, l.Updatables(), 1)
	assert.Same(t, b, l.Updatables()[0])
	require.Len(t, l.Hazards(), 1)
	assert.Same(t, b, l.Hazards()[0])
	assert.Len(t, l.Entities, 2, "disabled entities still draw")
}

func TestAnimatedTile(t *testing.T) {
	frames := []*ebiten.Image{ebiten.NewImage(16, 16), ebiten.NewImage(16, 16)}
	tile := NewAnimatedTile(32, 16, 9, component.NewFrameSprite("9", frames, 150*time.Millisecond, true))
	assert.Equal(t, 2, tile.Frames())

	tile.Update(epoch, nil)
	tile.Update(epoch.Add(150*time.Millisecond), nil)

	c := &recordingCanvas{}
	tile.Draw(c, Offset{X: 16}, epoch)
	require.Len(t, c.draws, 1)
	x, y := c.at(0)
	assert.Equal(t, 16.0, x)
	assert.Equal(t, 16.0, y)

	empty := NewAnimatedTile(0, 0, 99, nil)
	assert.Zero(t, empty.Frames())
	empty.Update(epoch, nil)
	empty.Draw(c, Offset{}, epoch)
	assert.Len(t, c.draws, 1, "tiles without frames draw nothing")
}

func TestHUDHearts(t *testing.T) {
	sheet := ebiten.NewImage(32, 16)
	hud := NewHUD(sheet, image.Pt(0, 0), image.Pt(1, 0), 16, 16, common.TileSize)
	health := component.NewHealth(3)
	health.ApplyDamage(1)

	c := &recordingCanvas{}
	hud.Draw(c, health)
	require.Len(t, c.draws, 3)
	for i := range c.draws {
		x, y := c.at(i)
		assert.Equal(t, float64(16+i*16), x)
		assert.Equal(t, 16.0, y)
	}

	noEmpty := NewHUD(sheet, image.Pt(0, 0), image.Pt(5, 0), 16, 16, 0)
	c = &recordingCanvas{}
	noEmpty.Draw(c, health)
	assert.Len(t, c.draws, 2, "lost hearts are skipped without an empty cell")
}

func TestDirection(t *testing.T) {
	cases := []struct {
		name                  string
		left, right, up, down bool
		dx, dy                int
	}{
		{name: "none"},
		{name: "left", left: true, dx: -1},
		{name: "right", right: true, dx: 1},
		{name: "up", up: true, dy: -1},
		{name: "down", down: true, dy: 1},
		{name: "left and up", left: true, up: true},
		{name: "left and right", left: true, right: true},
		{name: "all", left: true, right: true, up: true, down: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dx, dy := Direction(tc.left, tc.right, tc.up, tc.down)
			assert.Equal(t, tc.dx, dx)
			assert.Equal(t, tc.dy, dy)
		})
	}
}
