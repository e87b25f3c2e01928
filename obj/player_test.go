package obj

import (
	"errors"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/component"
	"github.com/milk9111/dungeon/sound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	levelW = 20 * common.TileSize
	levelH = 15 * common.TileSize
)

type recordingCanvas struct {
	draws []ebiten.GeoM
}

func (c *recordingCanvas) DrawImage(img *ebiten.Image, op *ebiten.DrawImageOptions) {
	c.draws = append(c.draws, op.GeoM)
}

func (c *recordingCanvas) at(i int) (float64, float64) {
	return c.draws[i].Element(0, 2), c.draws[i].Element(1, 2)
}

func testPlayerSprites() (*component.AnimatedSprite, *component.AnimatedSprite) {
	d := 600 * time.Millisecond
	body := component.NewAnimatedSprite(ebiten.NewImage(96, 96), 16, 16,
		component.RowClip("idle_right", 0, 0, 3, d, true),
		component.RowClip("idle_left", 1, 0, 3, d, true),
		component.RowClip("walk_right", 2, 0, 4, d, true),
		component.RowClip("walk_left", 3, 0, 4, d, true),
		component.RowClip("hurt_right", 4, 1, 5, d, false),
		component.RowClip("hurt_left", 5, 1, 5, d, false),
	)
	weapon := component.NewAnimatedSprite(ebiten.NewImage(240, 144), 48, 48,
		component.RowClip("attack_left", 0, 0, 5, 100*time.Millisecond, false),
		component.RowClip("attack_right", 2, 0, 5, 100*time.Millisecond, false),
	)
	return body, weapon
}

func newTestPlayer(col, row int, sfx sound.Sink) *Player {
	body, weapon := testPlayerSprites()
	return NewPlayer(common.PixelOf(col), common.PixelOf(row), DefaultPlayerConfig(), body, weapon, sfx)
}

func TestPlayerSnapsToGrid(t *testing.T) {
	p := NewPlayer(37, 50, PlayerConfig{}, nil, nil, nil)
	assert.Equal(t, 32, p.X)
	assert.Equal(t, 48, p.Y)
	assert.Equal(t, common.FacingRight, p.Facing())
	assert.Equal(t, 3, p.Health().Current)
}

func TestPlayerMoveCooldown(t *testing.T) {
	p := newTestPlayer(5, 5, nil)

	moves := 0
	now := epoch
	for i := 0; i < 5; i++ {
		if p.Move(1, 0, levelW, levelH, now) {
			moves++
		}
		now = now.Add(50 * time.Millisecond)
	}

	assert.LessOrEqual(t, moves, 2)
	assert.Equal(t, 2, moves)
	assert.Equal(t, common.PixelOf(7), p.X)
}

func TestPlayerMoveRejections(t *testing.T) {
	cases := []struct {
		name   string
		col    int
		row    int
		dx, dy int
	}{
		{name: "diagonal", col: 5, row: 5, dx: 1, dy: 1},
		{name: "no direction", col: 5, row: 5},
		{name: "left edge", col: 0, row: 5, dx: -1},
		{name: "top edge", col: 5, row: 0, dy: -1},
		{name: "right edge", col: 19, row: 5, dx: 1},
		{name: "bottom edge", col: 5, row: 14, dy: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestPlayer(tc.col, tc.row, nil)
			assert.False(t, p.Move(tc.dx, tc.dy, levelW, levelH, epoch))
			assert.Equal(t, common.PixelOf(tc.col), p.X)
			assert.Equal(t, common.PixelOf(tc.row), p.Y)
		})
	}
}

func TestPlayerMoveFacing(t *testing.T) {
	p := newTestPlayer(5, 5, nil)

	require.True(t, p.Move(-1, 0, levelW, levelH, epoch))
	assert.Equal(t, common.FacingLeft, p.Facing())

	require.True(t, p.Move(0, 1, levelW, levelH, epoch.Add(time.Second)))
	assert.Equal(t, common.FacingLeft, p.Facing(), "vertical moves keep facing")
	assert.Equal(t, common.PixelOf(4), p.X)
	assert.Equal(t, common.PixelOf(6), p.Y)
}

func TestPlayerCannotMoveWhileAttackingOrHurt(t *testing.T) {
	p := newTestPlayer(5, 5, nil)
	require.True(t, p.StartAttack(epoch))
	assert.False(t, p.Move(1, 0, levelW, levelH, epoch.Add(100*time.Millisecond)))
	assert.True(t, p.Move(1, 0, levelW, levelH, epoch.Add(500*time.Millisecond)), "attack window over")

	p = newTestPlayer(5, 5, nil)
	require.True(t, p.TakeDamage(1, epoch))
	assert.False(t, p.Move(1, 0, levelW, levelH, epoch.Add(900*time.Millisecond)))
	assert.True(t, p.Move(1, 0, levelW, levelH, epoch.Add(time.Second)))
}

func TestPlayerDamageUntilDead(t *testing.T) {
	p := newTestPlayer(5, 5, nil)
	step := DefaultPlayerConfig().InvincibleDuration

	now := epoch
	for i := 0; i < 3; i++ {
		require.Truef(t, p.TakeDamage(1, now), "hit %d", i+1)
		p.Update(now.Add(step/2), nil)
		now = now.Add(step)
	}
	assert.Equal(t, 0, p.Health().Current)
	assert.True(t, p.IsDead())

	p.TakeDamage(1, now)
	assert.Equal(t, 0, p.Health().Current, "health never goes negative")
}

func TestPlayerInvincibilityWindow(t *testing.T) {
	p := newTestPlayer(5, 5, nil)

	require.True(t, p.TakeDamage(1, epoch))
	p.Update(epoch.Add(1100*time.Millisecond), nil)
	assert.False(t, p.Hurt())
	assert.True(t, p.Invincible(), "invincibility outlasts hurt")
	assert.False(t, p.TakeDamage(1, epoch.Add(1200*time.Millisecond)))

	assert.Equal(t, 2, p.Health().Current)
}

func TestPlayerAttack(t *testing.T) {
	rec := &sound.Recorder{}
	p := newTestPlayer(5, 5, rec)

	require.True(t, p.StartAttack(epoch))
	assert.False(t, p.StartAttack(epoch.Add(100*time.Millisecond)), "already attacking")
	assert.Equal(t, PlayerAttacking, p.State())
	assert.Equal(t, []string{"sword_2"}, rec.Sounds)

	p.Update(epoch.Add(500*time.Millisecond), nil)
	assert.False(t, p.Attacking(), "attack ends after its duration")
	assert.True(t, p.StartAttack(epoch.Add(600*time.Millisecond)))
}

func TestPlayerSwingStartsAtFirstFrame(t *testing.T) {
	p := newTestPlayer(5, 5, nil)

	require.True(t, p.StartAttack(epoch))
	for i := 1; i <= 5; i++ {
		p.Update(epoch.Add(time.Duration(i)*100*time.Millisecond), nil)
	}
	require.False(t, p.Attacking())

	again := epoch.Add(10 * time.Second)
	require.True(t, p.StartAttack(again))
	p.Update(again.Add(16*time.Millisecond), nil)
	assert.Equal(t, "attack_right", p.weapon.Clip())
	assert.Equal(t, 0, p.weapon.Index())

	p.Update(again.Add(100*time.Millisecond), nil)
	assert.Equal(t, 1, p.weapon.Index())
}

func TestPlayerAttackSoundFailureIsNotFatal(t *testing.T) {
	rec := &sound.Recorder{SoundErr: errors.New("no device")}
	p := newTestPlayer(5, 5, rec)
	assert.True(t, p.StartAttack(epoch))
}

func TestPlayerDamageCancelsAttack(t *testing.T) {
	p := newTestPlayer(5, 5, nil)
	require.True(t, p.StartAttack(epoch))
	require.True(t, p.TakeDamage(1, epoch.Add(100*time.Millisecond)))

	assert.False(t, p.Attacking())
	assert.Equal(t, PlayerHurt, p.State())
	assert.False(t, p.StartAttack(epoch.Add(200*time.Millisecond)), "hurt rejects attacks")
}

func TestPlayerWalkWindow(t *testing.T) {
	p := newTestPlayer(5, 5, nil)
	p.Update(epoch, nil)
	assert.Equal(t, PlayerIdle, p.State())

	require.True(t, p.Move(1, 0, levelW, levelH, epoch.Add(10*time.Millisecond)))
	p.Update(epoch.Add(20*time.Millisecond), nil)
	assert.Equal(t, PlayerWalking, p.State())
	assert.Equal(t, "walk_right", p.body.Clip())

	p.Update(epoch.Add(200*time.Millisecond), nil)
	assert.Equal(t, PlayerWalking, p.State(), "still inside the walk window")

	p.Update(epoch.Add(400*time.Millisecond), nil)
	assert.Equal(t, PlayerIdle, p.State())
	assert.Equal(t, "idle_right", p.body.Clip())
}

func TestPlayerHurtFreezesOtherAnimation(t *testing.T) {
	p := newTestPlayer(5, 5, nil)
	p.Update(epoch, nil)
	require.True(t, p.TakeDamage(1, epoch))
	assert.Equal(t, "hurt_right", p.body.Clip())

	p.Update(epoch.Add(500*time.Millisecond), nil)
	assert.Equal(t, "hurt_right", p.body.Clip())

	p.Update(epoch.Add(time.Second), nil)
	assert.Equal(t, "idle_right", p.body.Clip())
}

func TestPlayerBlinksWhileInvincible(t *testing.T) {
	p := newTestPlayer(5, 5, nil)
	require.True(t, p.TakeDamage(1, epoch))
	assert.True(t, p.Visible(epoch.Add(150*time.Millisecond)), "no blinking while hurt")

	p.Update(epoch.Add(time.Second), nil)
	require.False(t, p.Hurt())
	assert.True(t, p.Visible(epoch.Add(1050*time.Millisecond)))
	assert.False(t, p.Visible(epoch.Add(1150*time.Millisecond)))
	assert.True(t, p.Visible(epoch.Add(1250*time.Millisecond)))
}

func TestPlayerDrawsWeaponOnTop(t *testing.T) {
	p := newTestPlayer(5, 5, nil)
	p.Update(epoch, nil)
	c := &recordingCanvas{}

	p.Draw(c, Offset{}, epoch)
	require.Len(t, c.draws, 1)

	require.True(t, p.StartAttack(epoch))
	c = &recordingCanvas{}
	p.Draw(c, Offset{X: 16}, epoch)
	require.Len(t, c.draws, 2)
	x, y := c.at(1)
	assert.Equal(t, float64(80-16-16), x)
	assert.Equal(t, float64(80-16), y)
}
