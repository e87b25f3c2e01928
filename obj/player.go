package obj

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/component"
	"github.com/milk9111/dungeon/sound"
)

// PlayerState is the animation-facing state derived from the player's flags.
type PlayerState int

const (
	PlayerIdle PlayerState = iota
	PlayerWalking
	PlayerAttacking
	PlayerHurt
)

func (s PlayerState) String() string {
	switch s {
	case PlayerWalking:
		return "walking"
	case PlayerAttacking:
		return "attacking"
	case PlayerHurt:
		return "hurt"
	default:
		return "idle"
	}
}

// PlayerConfig holds the player's tuning. Zero fields fall back to
// DefaultPlayerConfig.
type PlayerConfig struct {
	MaxHealth          int
	MoveCooldown       time.Duration
	WalkWindow         time.Duration
	AttackDuration     time.Duration
	HurtDuration       time.Duration
	InvincibleDuration time.Duration
	BlinkInterval      time.Duration
	WeaponOffsetX      float64
	WeaponOffsetY      float64
	AttackSound        string
}

func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		MaxHealth:          3,
		MoveCooldown:       150 * time.Millisecond,
		WalkWindow:         300 * time.Millisecond,
		AttackDuration:     500 * time.Millisecond,
		HurtDuration:       time.Second,
		InvincibleDuration: 1500 * time.Millisecond,
		BlinkInterval:      100 * time.Millisecond,
		WeaponOffsetX:      -16,
		WeaponOffsetY:      -16,
		AttackSound:        "sword_2",
	}
}

func (c PlayerConfig) withDefaults() PlayerConfig {
	d := DefaultPlayerConfig()
	if c.MaxHealth <= 0 {
		c.MaxHealth = d.MaxHealth
	}
	if c.MoveCooldown <= 0 {
		c.MoveCooldown = d.MoveCooldown
	}
	if c.WalkWindow <= 0 {
		c.WalkWindow = d.WalkWindow
	}
	if c.AttackDuration <= 0 {
		c.AttackDuration = d.AttackDuration
	}
	if c.HurtDuration <= 0 {
		c.HurtDuration = d.HurtDuration
	}
	// invincibility must outlast the hurt window
	if c.InvincibleDuration <= c.HurtDuration {
		c.InvincibleDuration = c.HurtDuration + c.HurtDuration/2
	}
	if c.BlinkInterval <= 0 {
		c.BlinkInterval = d.BlinkInterval
	}
	return c
}

// Player is the grid-locked hero. Movement is one tile per accepted request;
// attack, hurt and invincibility are independent wall-clock windows.
type Player struct {
	X int
	Y int

	cfg    PlayerConfig
	facing common.Facing
	health *component.Health

	body   *component.AnimatedSprite
	weapon *component.AnimatedSprite
	sfx    sound.Sink

	moveCooldown component.Cooldown
	walkUntil    time.Time
	moving       bool
	walking      bool

	attack     component.Window
	hurt       component.Window
	invincible component.Window
}

// NewPlayer places a player at the tile containing (x, y). body must carry
// idle, walk and hurt clips for both facings; weapon carries attack_left and
// attack_right. Either sprite may be nil.
func NewPlayer(x, y int, cfg PlayerConfig, body, weapon *component.AnimatedSprite, sfx sound.Sink) *Player {
	cfg = cfg.withDefaults()
	if sfx == nil {
		sfx = sound.Nop{}
	}
	p := &Player{
		X:            common.Snap(x),
		Y:            common.Snap(y),
		cfg:          cfg,
		facing:       common.FacingRight,
		health:       component.NewHealth(cfg.MaxHealth),
		body:         body,
		weapon:       weapon,
		sfx:          sfx,
		moveCooldown: component.NewCooldown(cfg.MoveCooldown),
		attack:       component.NewWindow(cfg.AttackDuration),
		hurt:         component.NewWindow(cfg.HurtDuration),
		invincible:   component.NewWindow(cfg.InvincibleDuration),
	}
	p.body.Play(p.facing.Suffixed("idle"), true, time.Time{})
	return p
}

func (p *Player) Name() string { return "player" }

func (p *Player) Position() (int, int) { return p.X, p.Y }

// Bounds is the one-tile hitbox at the player's position.
func (p *Player) Bounds() common.Rect { return common.TileRect(p.X, p.Y) }

func (p *Player) Facing() common.Facing { return p.facing }

func (p *Player) Health() *component.Health { return p.health }

func (p *Player) Config() PlayerConfig { return p.cfg }

func (p *Player) IsDead() bool { return p.health.IsDead() }

func (p *Player) Attacking() bool { return p.attack.Active() }

func (p *Player) Hurt() bool { return p.hurt.Active() }

func (p *Player) Invincible() bool { return p.invincible.Active() }

// State reports the state the next Update will animate. Hurt wins over
// attacking, which wins over the walk window.
func (p *Player) State() PlayerState {
	switch {
	case p.hurt.Active():
		return PlayerHurt
	case p.attack.Active():
		return PlayerAttacking
	case p.walking:
		return PlayerWalking
	default:
		return PlayerIdle
	}
}

// CanMove reports whether a move request would pass the state and cooldown
// gates at now.
func (p *Player) CanMove(now time.Time) bool {
	if p.attack.Running(now) || p.hurt.Running(now) {
		return false
	}
	return p.moveCooldown.Ready(now)
}

// Move steps one tile along a single axis. levelW and levelH are the level
// extents in pixels; the destination must stay inside them.
func (p *Player) Move(dx, dy, levelW, levelH int, now time.Time) bool {
	if !p.CanMove(now) {
		return false
	}
	if (dx != 0) == (dy != 0) {
		return false
	}
	dx, dy = sign(dx), sign(dy)

	nx := p.X + dx*common.TileSize
	ny := p.Y + dy*common.TileSize
	if nx < 0 || nx > levelW-common.TileSize || ny < 0 || ny > levelH-common.TileSize {
		return false
	}

	switch {
	case dx > 0:
		p.facing = common.FacingRight
	case dx < 0:
		p.facing = common.FacingLeft
	}
	p.X, p.Y = nx, ny
	p.moveCooldown.Mark(now)
	p.moving = true
	return true
}

// StartAttack opens the attack window and plays the weapon swing. Rejected
// while attacking or hurt.
func (p *Player) StartAttack(now time.Time) bool {
	if p.attack.Running(now) || p.hurt.Running(now) {
		return false
	}
	p.attack.Open(now)
	if err := p.sfx.PlaySound(p.cfg.AttackSound); err != nil {
		log.Printf("player: attack sound: %v", err)
	}
	p.weapon.Play(p.facing.Suffixed("attack"), true, now)
	return true
}

// TakeDamage applies n damage and opens the hurt and invincibility windows.
// Rejected while hurt or invincible. Any attack in progress is cancelled.
func (p *Player) TakeDamage(n int, now time.Time) bool {
	if p.hurt.Running(now) || p.invincible.Running(now) {
		return false
	}
	if n > 0 {
		p.health.ApplyDamage(n)
	}
	p.hurt.Open(now)
	p.invincible.Open(now)
	p.attack.Close()
	p.body.Play(p.facing.Suffixed("hurt"), true, now)
	log.Printf("player: took %d damage, health %d/%d", n, p.health.Current, p.health.Max)
	return true
}

// Update expires windows and picks the body clip. While hurt only the hurt
// clip advances.
func (p *Player) Update(now time.Time, _ Blocker) {
	if p.hurt.Active() {
		if !p.hurt.Expired(now) {
			p.body.Update(now)
			return
		}
		p.hurt.Close()
	}

	if p.invincible.Expired(now) {
		p.invincible.Close()
	}

	if p.attack.Active() {
		if p.attack.Expired(now) {
			p.attack.Close()
		} else {
			p.weapon.Update(now)
		}
	}

	if p.moving {
		p.walkUntil = now.Add(p.cfg.WalkWindow)
	}

	p.walking = now.Before(p.walkUntil)
	if !p.attack.Active() {
		if p.walking {
			p.body.Play(p.facing.Suffixed("walk"), false, now)
		} else {
			p.body.Play(p.facing.Suffixed("idle"), false, now)
		}
	}

	p.body.Update(now)
	p.moving = false
}

// Visible reports whether the body is drawn at now. It blinks every
// BlinkInterval while invincible but no longer hurt.
func (p *Player) Visible(now time.Time) bool {
	if !p.invincible.Active() || p.hurt.Active() {
		return true
	}
	step := p.invincible.Elapsed(now) / p.cfg.BlinkInterval
	return step%2 == 0
}

// Draw blits the body, then the weapon swing on top while attacking.
func (p *Player) Draw(dst component.Canvas, cam Offset, now time.Time) {
	sx := float64(p.X) - cam.X
	sy := float64(p.Y) - cam.Y
	if p.Visible(now) {
		p.body.Draw(dst, sx, sy)
	}
	if p.attack.Active() {
		p.weapon.Draw(dst, sx+p.cfg.WeaponOffsetX, sy+p.cfg.WeaponOffsetY)
	}
}

// Frame returns the body's current frame image, mainly for tools.
func (p *Player) Frame() *ebiten.Image {
	return p.body.CurrentFrame()
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
