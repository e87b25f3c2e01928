package obj

import (
	"log"
	"strings"
	"time"

	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/component"
	"github.com/milk9111/dungeon/levels"
)

// Axis is the single axis an enemy patrols along.
type Axis int

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

func (a Axis) String() string {
	if a == AxisVertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseAxis reads "horizontal" or "vertical", case-insensitively.
func ParseAxis(s string) (Axis, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal":
		return AxisHorizontal, true
	case "vertical":
		return AxisVertical, true
	}
	return AxisHorizontal, false
}

const (
	DefaultEnemyType   = "generic"
	DefaultEnemyBlocks = 2
)

// EnemyConfig is the per-placement enemy setup read from map properties.
type EnemyConfig struct {
	Type   string
	Axis   Axis
	Blocks int
}

// ResolveEnemyConfig reads enemy_type, enemy_movement and blocks from a
// placement's properties. Missing or unusable values take the defaults; the
// names of the defaulted properties are returned so the caller can log them.
func ResolveEnemyConfig(props levels.Properties) (EnemyConfig, []string) {
	cfg := EnemyConfig{Type: DefaultEnemyType, Axis: AxisHorizontal, Blocks: DefaultEnemyBlocks}
	var defaulted []string

	if t, ok := props.String("enemy_type"); ok && strings.TrimSpace(t) != "" {
		cfg.Type = strings.ToLower(strings.TrimSpace(t))
	} else {
		defaulted = append(defaulted, "enemy_type")
	}

	if m, ok := props.String("enemy_movement"); ok {
		axis, valid := ParseAxis(m)
		if !valid {
			log.Printf("enemy: unknown enemy_movement %q", m)
			defaulted = append(defaulted, "enemy_movement")
		}
		cfg.Axis = axis
	} else {
		defaulted = append(defaulted, "enemy_movement")
	}

	n, found, err := props.Int("blocks")
	switch {
	case err != nil:
		log.Printf("enemy: %v", err)
		defaulted = append(defaulted, "blocks")
	case !found:
		defaulted = append(defaulted, "blocks")
	case n < 1:
		log.Printf("enemy: blocks %d below 1", n)
		defaulted = append(defaulted, "blocks")
	default:
		cfg.Blocks = n
	}

	return cfg, defaulted
}

// EnemyTuning is the per-type timing from the enemy prefab.
type EnemyTuning struct {
	MoveCooldown  time.Duration
	IdleDuration  time.Duration
	ContactDamage int
}

func DefaultEnemyTuning() EnemyTuning {
	return EnemyTuning{
		MoveCooldown:  300 * time.Millisecond,
		IdleDuration:  3 * time.Second,
		ContactDamage: 1,
	}
}

func (t EnemyTuning) withDefaults() EnemyTuning {
	d := DefaultEnemyTuning()
	if t.MoveCooldown <= 0 {
		t.MoveCooldown = d.MoveCooldown
	}
	if t.IdleDuration <= 0 {
		t.IdleDuration = d.IdleDuration
	}
	if t.ContactDamage <= 0 {
		t.ContactDamage = d.ContactDamage
	}
	return t
}

// enemyState is the interface each concrete enemy state implements.
type enemyState interface {
	Enter(e *Enemy, now time.Time)
	Update(e *Enemy, now time.Time, grid Blocker)
	Name() string
}

type enemyMovingState struct{}

func (enemyMovingState) Name() string { return "moving" }
func (enemyMovingState) Enter(e *Enemy, now time.Time) {
	e.moveCooldown.Mark(now)
	e.sprite.Play(e.facing.Suffixed("walk"), true, now)
}
func (enemyMovingState) Update(e *Enemy, now time.Time, grid Blocker) {
	if !e.moveCooldown.Ready(now) {
		e.sprite.Play(e.facing.Suffixed("walk"), false, now)
		return
	}

	dx, dy := e.step()
	nx := e.X + dx*common.TileSize
	ny := e.Y + dy*common.TileSize
	if grid != nil && grid.PositionBlocked(nx, ny) {
		// blocked steps end the leg right away
		e.setState(stateEnemyIdle, now)
		return
	}

	e.X, e.Y = nx, ny
	e.blocksMoved++
	e.moveCooldown.Mark(now)
	if e.blocksMoved >= e.cfg.Blocks {
		e.setState(stateEnemyIdle, now)
	}
}

type enemyIdleState struct{}

func (enemyIdleState) Name() string { return "idle" }
func (enemyIdleState) Enter(e *Enemy, now time.Time) {
	e.idle.Open(now)
	e.blocksMoved = 0
	e.sprite.Play(e.facing.Suffixed("idle"), true, now)
}
func (enemyIdleState) Update(e *Enemy, now time.Time, _ Blocker) {
	if !e.idle.Expired(now) {
		return
	}
	e.idle.Close()
	e.facing = e.facing.Flip()
	e.setState(stateEnemyMoving, now)
}

// singletons for each state to avoid allocating on every transition
var (
	stateEnemyIdle   enemyState = &enemyIdleState{}
	stateEnemyMoving enemyState = &enemyMovingState{}
)

// Enemy patrols back and forth along one axis, a fixed number of tiles per
// leg, resting between legs. It never deals damage itself; the world checks
// contact against the player.
type Enemy struct {
	X int
	Y int

	cfg    EnemyConfig
	tuning EnemyTuning
	facing common.Facing
	state  enemyState
	sprite *component.AnimatedSprite

	blocksMoved  int
	moveCooldown component.Cooldown
	idle         component.Window
}

// NewEnemy places an enemy at the tile containing (x, y), moving and facing
// right. Its first step is due on the first update.
func NewEnemy(x, y int, cfg EnemyConfig, tuning EnemyTuning, sprite *component.AnimatedSprite) *Enemy {
	if cfg.Blocks < 1 {
		cfg.Blocks = DefaultEnemyBlocks
	}
	if cfg.Type == "" {
		cfg.Type = DefaultEnemyType
	}
	tuning = tuning.withDefaults()
	e := &Enemy{
		X:            common.Snap(x),
		Y:            common.Snap(y),
		cfg:          cfg,
		tuning:       tuning,
		facing:       common.FacingRight,
		state:        stateEnemyMoving,
		sprite:       sprite,
		moveCooldown: component.NewCooldown(tuning.MoveCooldown),
		idle:         component.NewWindow(tuning.IdleDuration),
	}
	e.sprite.Play(e.facing.Suffixed("walk"), true, time.Time{})
	return e
}

func (e *Enemy) setState(s enemyState, now time.Time) {
	if s == nil || e.state == s {
		return
	}
	e.state = s
	e.state.Enter(e, now)
}

// step is the unit move for the current facing. On the vertical axis right
// means down and left means up.
func (e *Enemy) step() (int, int) {
	if e.cfg.Axis == AxisVertical {
		return 0, e.facing.Sign()
	}
	return e.facing.Sign(), 0
}

func (e *Enemy) Update(now time.Time, grid Blocker) {
	if e.state == nil {
		e.state = stateEnemyMoving
	}
	e.state.Update(e, now, grid)
	e.sprite.Update(now)
}

func (e *Enemy) Draw(dst component.Canvas, cam Offset, _ time.Time) {
	e.sprite.Draw(dst, float64(e.X)-cam.X, float64(e.Y)-cam.Y)
}

func (e *Enemy) Name() string { return "enemy" }

func (e *Enemy) Position() (int, int) { return e.X, e.Y }

func (e *Enemy) Bounds() common.Rect { return common.TileRect(e.X, e.Y) }

func (e *Enemy) ContactDamage() int { return e.tuning.ContactDamage }

func (e *Enemy) Config() EnemyConfig { return e.cfg }

func (e *Enemy) Facing() common.Facing { return e.facing }

// StateName is "moving" or "idle".
func (e *Enemy) StateName() string {
	if e.state == nil {
		return ""
	}
	return e.state.Name()
}

func (e *Enemy) BlocksMoved() int { return e.blocksMoved }
