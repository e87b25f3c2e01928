package obj

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/component"
	"github.com/milk9111/dungeon/levels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnemySprite() *component.AnimatedSprite {
	return component.NewAnimatedSprite(ebiten.NewImage(48, 64), 16, 16,
		component.RowClip("idle_right", 0, 0, 2, 600*time.Millisecond, true),
		component.RowClip("idle_left", 1, 0, 2, 600*time.Millisecond, true),
		component.RowClip("walk_right", 2, 0, 3, 400*time.Millisecond, true),
		component.RowClip("walk_left", 3, 0, 3, 400*time.Millisecond, true),
	)
}

func newTestEnemy(col, row int, axis Axis, blocks int) *Enemy {
	cfg := EnemyConfig{Type: "rat", Axis: axis, Blocks: blocks}
	return NewEnemy(common.PixelOf(col), common.PixelOf(row), cfg, DefaultEnemyTuning(), testEnemySprite())
}

func tileOf(e *Enemy) (int, int) {
	return common.TileOf(e.X), common.TileOf(e.Y)
}

func TestEnemyPatrolLeg(t *testing.T) {
	grid := common.EmptyGrid(20, 20)
	e := newTestEnemy(5, 5, AxisHorizontal, 2)
	tuning := DefaultEnemyTuning()

	now := epoch
	e.Update(now, grid)
	col, row := tileOf(e)
	assert.Equal(t, 6, col, "first step is immediate")
	assert.Equal(t, 5, row)
	assert.Equal(t, "moving", e.StateName())

	now = now.Add(tuning.MoveCooldown / 2)
	e.Update(now, grid)
	col, _ = tileOf(e)
	assert.Equal(t, 6, col, "cooldown holds the next step")

	now = epoch.Add(tuning.MoveCooldown)
	e.Update(now, grid)
	col, row = tileOf(e)
	assert.Equal(t, 7, col)
	assert.Equal(t, 5, row)
	assert.Equal(t, "idle", e.StateName())
	assert.Equal(t, 0, e.BlocksMoved())
	assert.Equal(t, common.FacingRight, e.Facing())

	idleStart := now
	e.Update(idleStart.Add(tuning.IdleDuration-time.Millisecond), grid)
	assert.Equal(t, "idle", e.StateName())

	now = idleStart.Add(tuning.IdleDuration)
	e.Update(now, grid)
	assert.Equal(t, "moving", e.StateName())
	assert.Equal(t, common.FacingLeft, e.Facing())
	col, _ = tileOf(e)
	assert.Equal(t, 7, col, "move clock restarts on resume")

	e.Update(now.Add(tuning.MoveCooldown), grid)
	col, _ = tileOf(e)
	assert.Equal(t, 6, col)
}

func TestEnemyBlockedStepGoesIdle(t *testing.T) {
	grid := common.NewCollisionGrid(20, 20, func(col, row int) bool {
		return col == 6 && row == 5
	})
	e := newTestEnemy(5, 5, AxisHorizontal, 4)

	e.Update(epoch, grid)
	col, _ := tileOf(e)
	assert.Equal(t, 5, col)
	assert.Equal(t, "idle", e.StateName())
	assert.Equal(t, 0, e.BlocksMoved())
}

func TestEnemyBlockedAtLevelEdge(t *testing.T) {
	grid := common.EmptyGrid(6, 6)
	e := newTestEnemy(5, 2, AxisHorizontal, 2)

	e.Update(epoch, grid)
	assert.Equal(t, "idle", e.StateName(), "out of bounds counts as blocked")
}

func TestEnemyVerticalAxis(t *testing.T) {
	grid := common.EmptyGrid(20, 20)
	e := newTestEnemy(3, 3, AxisVertical, 1)

	e.Update(epoch, grid)
	col, row := tileOf(e)
	assert.Equal(t, 3, col)
	assert.Equal(t, 4, row, "facing right moves down")
	require.Equal(t, "idle", e.StateName())
	assert.Equal(t, "idle_right", e.sprite.Clip())

	now := epoch.Add(DefaultEnemyTuning().IdleDuration)
	e.Update(now, grid)
	assert.Equal(t, "walk_left", e.sprite.Clip())
	e.Update(now.Add(DefaultEnemyTuning().MoveCooldown), grid)
	_, row = tileOf(e)
	assert.Equal(t, 3, row, "facing left moves up")
}

func TestEnemyWithoutGridMovesFreely(t *testing.T) {
	e := newTestEnemy(0, 0, AxisHorizontal, 3)
	e.Update(epoch, nil)
	assert.Equal(t, common.TileSize, e.X)
}

func TestEnemyBounds(t *testing.T) {
	e := newTestEnemy(2, 3, AxisHorizontal, 2)
	assert.Equal(t, common.Rect{X: 32, Y: 48, Width: 16, Height: 16}, e.Bounds())
	assert.Equal(t, 1, e.ContactDamage())
}

func TestResolveEnemyConfig(t *testing.T) {
	str := func(name, v string) levels.Property { return levels.Property{Name: name, Type: "string", Value: v} }
	num := func(name string, v float64) levels.Property { return levels.Property{Name: name, Type: "int", Value: v} }

	cases := []struct {
		name      string
		props     levels.Properties
		want      EnemyConfig
		defaulted []string
	}{
		{
			name:      "all defaults",
			want:      EnemyConfig{Type: "generic", Axis: AxisHorizontal, Blocks: 2},
			defaulted: []string{"enemy_type", "enemy_movement", "blocks"},
		},
		{
			name:  "all set",
			props: levels.Properties{str("enemy_type", "Rat"), str("enemy_movement", "vertical"), num("blocks", 4)},
			want:  EnemyConfig{Type: "rat", Axis: AxisVertical, Blocks: 4},
		},
		{
			name:      "blocks as string",
			props:     levels.Properties{str("enemy_type", "rat"), str("enemy_movement", "horizontal"), str("blocks", "3")},
			want:      EnemyConfig{Type: "rat", Axis: AxisHorizontal, Blocks: 3},
			defaulted: nil,
		},
		{
			name:      "zero blocks",
			props:     levels.Properties{str("enemy_type", "rat"), str("enemy_movement", "horizontal"), num("blocks", 0)},
			want:      EnemyConfig{Type: "rat", Axis: AxisHorizontal, Blocks: 2},
			defaulted: []string{"blocks"},
		},
		{
			name:      "unknown movement",
			props:     levels.Properties{str("enemy_type", "rat"), str("enemy_movement", "diagonal"), num("blocks", 2)},
			want:      EnemyConfig{Type: "rat", Axis: AxisHorizontal, Blocks: 2},
			defaulted: []string{"enemy_movement"},
		},
		{
			name:      "garbage blocks",
			props:     levels.Properties{str("blocks", "many")},
			want:      EnemyConfig{Type: "generic", Axis: AxisHorizontal, Blocks: 2},
			defaulted: []string{"enemy_type", "enemy_movement", "blocks"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, defaulted := ResolveEnemyConfig(tc.props)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.defaulted, defaulted)
		})
	}
}
