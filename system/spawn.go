package system

import (
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dungeon/assets"
	"github.com/milk9111/dungeon/component"
	"github.com/milk9111/dungeon/obj"
	"github.com/milk9111/dungeon/prefabs"
	"github.com/milk9111/dungeon/sound"
)

var (
	playerClips = []string{"idle_right", "idle_left", "walk_right", "walk_left", "hurt_right", "hurt_left"}
	weaponClips = []string{"attack_right", "attack_left"}
	enemyClips  = []string{"idle_right", "idle_left", "walk_right", "walk_left"}
)

// Factory builds players and enemies from their prefabs. Specs are read
// once and cached until Reset.
type Factory struct {
	Sfx sound.Sink
	// Images resolves a sprite sheet path. Defaults to the embedded assets.
	Images func(path string) (*ebiten.Image, error)

	player  *prefabs.PlayerSpec
	enemies map[string]*prefabs.EnemySpec
}

func NewFactory(sfx sound.Sink) *Factory {
	if sfx == nil {
		sfx = sound.Nop{}
	}
	return &Factory{
		Sfx:     sfx,
		Images:  assets.LoadImage,
		enemies: make(map[string]*prefabs.EnemySpec),
	}
}

// Reset drops cached specs so edited prefabs are picked up.
func (f *Factory) Reset() {
	f.player = nil
	f.enemies = make(map[string]*prefabs.EnemySpec)
}

func (f *Factory) playerSpec() (*prefabs.PlayerSpec, error) {
	if f.player != nil {
		return f.player, nil
	}
	spec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return nil, err
	}
	if err := spec.Sprite.Require(playerClips...); err != nil {
		return nil, err
	}
	if err := spec.Weapon.Require(weaponClips...); err != nil {
		return nil, err
	}
	f.player = spec
	return spec, nil
}

// enemySpec loads enemy_<type>.yaml, falling back to the generic enemy when
// the type has no prefab of its own.
func (f *Factory) enemySpec(enemyType string) (*prefabs.EnemySpec, error) {
	key := strings.ToLower(strings.TrimSpace(enemyType))
	if spec, ok := f.enemies[key]; ok {
		return spec, nil
	}
	spec, err := prefabs.LoadEnemySpec(key)
	if err != nil && key != obj.DefaultEnemyType {
		log.Printf("spawn: enemy type %q: %v; using %s", key, err, obj.DefaultEnemyType)
		spec, err = f.enemySpec(obj.DefaultEnemyType)
	}
	if err != nil {
		return nil, err
	}
	if err := spec.Sprite.Require(enemyClips...); err != nil {
		return nil, err
	}
	f.enemies[key] = spec
	return spec, nil
}

// PlayerConfig converts the player prefab into runtime tuning.
func PlayerConfig(spec *prefabs.PlayerSpec) obj.PlayerConfig {
	d := obj.DefaultPlayerConfig()
	if spec == nil {
		return d
	}
	cfg := obj.PlayerConfig{
		MaxHealth:          spec.Health,
		MoveCooldown:       spec.MoveCooldown.Or(d.MoveCooldown),
		WalkWindow:         spec.WalkWindow.Or(d.WalkWindow),
		AttackDuration:     spec.AttackDuration.Or(d.AttackDuration),
		HurtDuration:       spec.HurtDuration.Or(d.HurtDuration),
		InvincibleDuration: spec.InvincibleDuration.Or(d.InvincibleDuration),
		BlinkInterval:      spec.BlinkInterval.Or(d.BlinkInterval),
		WeaponOffsetX:      float64(spec.Weapon.OffsetX),
		WeaponOffsetY:      float64(spec.Weapon.OffsetY),
		AttackSound:        spec.AttackSound,
	}
	if cfg.AttackSound == "" {
		cfg.AttackSound = d.AttackSound
	}
	return cfg
}

// EnemyTuning converts an enemy prefab into runtime timing.
func EnemyTuning(spec *prefabs.EnemySpec) obj.EnemyTuning {
	d := obj.DefaultEnemyTuning()
	if spec == nil {
		return d
	}
	return obj.EnemyTuning{
		MoveCooldown:  spec.MoveCooldown.Or(d.MoveCooldown),
		IdleDuration:  spec.IdleDuration.Or(d.IdleDuration),
		ContactDamage: spec.ContactDamage,
	}
}

func (f *Factory) NewPlayer(x, y int) (*obj.Player, error) {
	spec, err := f.playerSpec()
	if err != nil {
		return nil, fmt.Errorf("spawn: player: %w", err)
	}
	body := f.sprite(spec.Sprite)
	weapon := f.sprite(spec.Weapon)
	return obj.NewPlayer(x, y, PlayerConfig(spec), body, weapon, f.Sfx), nil
}

func (f *Factory) NewEnemy(x, y int, cfg obj.EnemyConfig) (*obj.Enemy, error) {
	spec, err := f.enemySpec(cfg.Type)
	if err != nil {
		return nil, fmt.Errorf("spawn: enemy %s: %w", cfg.Type, err)
	}
	return obj.NewEnemy(x, y, cfg, EnemyTuning(spec), f.sprite(spec.Sprite)), nil
}

// sprite builds an animated sprite for a prefab. A missing sheet is replaced
// by a placeholder large enough for every clip so the entity stays visible.
func (f *Factory) sprite(spec prefabs.SpriteSpec) *component.AnimatedSprite {
	clips, err := spec.BuildClips()
	if err != nil {
		log.Printf("spawn: %v", err)
		clips = nil
	}
	sheet, err := f.Images(spec.Sheet)
	if err != nil {
		log.Printf("spawn: sheet %s: %v", spec.Sheet, err)
		ext := clipExtent(clips)
		sheet = assets.Placeholder(max(1, ext.X*spec.FrameW), max(1, ext.Y*spec.FrameH))
	}
	return component.NewAnimatedSprite(sheet, spec.FrameW, spec.FrameH, clips...)
}

// clipExtent is the number of columns and rows the clips reach into.
func clipExtent(clips []component.AnimationClip) image.Point {
	var p image.Point
	for _, c := range clips {
		for _, f := range c.Frames {
			p.X = max(p.X, f.Col+1)
			p.Y = max(p.Y, f.Row+1)
		}
	}
	return p
}
