package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSpec is wrapped when a spec parses but breaks a constraint.
var ErrInvalidSpec = errors.New("invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// GameSpec is the top-level game configuration in game.yaml.
type GameSpec struct {
	Title  string    `yaml:"title"`
	Scale  float64   `yaml:"scale"`
	Levels []string  `yaml:"levels"`
	HUD    HUDSpec   `yaml:"hud"`
	Debug  DebugSpec `yaml:"debug"`
	Camera struct {
		Smoothness float64 `yaml:"smoothness"`
	} `yaml:"camera"`
}

func LoadGameSpec() (*GameSpec, error) {
	spec, err := LoadSpec[GameSpec]("game.yaml")
	if err != nil {
		return nil, err
	}
	if len(spec.Levels) == 0 {
		return nil, fmt.Errorf("prefabs: game.yaml: %w: no levels", ErrInvalidSpec)
	}
	if spec.Scale <= 0 {
		spec.Scale = 3
	}
	if spec.Title == "" {
		spec.Title = "dungeon"
	}
	return &spec, nil
}

type HUDSpec struct {
	Sheet      string    `yaml:"sheet"`
	X          int       `yaml:"x"`
	Y          int       `yaml:"y"`
	Spacing    int       `yaml:"spacing"`
	FullHeart  FrameSpec `yaml:"full_heart"`
	EmptyHeart FrameSpec `yaml:"empty_heart"`
}

type DebugSpec struct {
	ColliderColor *YAMLColor `yaml:"collider_color"`
	AnimatedColor *YAMLColor `yaml:"animated_color"`
}

// FrameSpec addresses a sheet cell. A nil pointer field means "not set".
type FrameSpec struct {
	Col *int `yaml:"col"`
	Row *int `yaml:"row"`
}

func (f FrameSpec) Set() bool {
	return f.Col != nil && f.Row != nil
}

// PlayerSpec tunes the player in player.yaml.
type PlayerSpec struct {
	Name               string     `yaml:"name"`
	Health             int        `yaml:"health"`
	MoveCooldown       Duration   `yaml:"move_cooldown"`
	WalkWindow         Duration   `yaml:"walk_window"`
	AttackDuration     Duration   `yaml:"attack_duration"`
	HurtDuration       Duration   `yaml:"hurt_duration"`
	InvincibleDuration Duration   `yaml:"invincible_duration"`
	BlinkInterval      Duration   `yaml:"blink_interval"`
	AttackSound        string     `yaml:"attack_sound"`
	Sprite             SpriteSpec `yaml:"sprite"`
	Weapon             SpriteSpec `yaml:"weapon"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// EnemySpec tunes one enemy type in enemy_<type>.yaml.
type EnemySpec struct {
	Name          string     `yaml:"name"`
	MoveCooldown  Duration   `yaml:"move_cooldown"`
	IdleDuration  Duration   `yaml:"idle_duration"`
	ContactDamage int        `yaml:"contact_damage"`
	Sprite        SpriteSpec `yaml:"sprite"`
}

// EnemyFile returns the prefab file name for an enemy type.
func EnemyFile(enemyType string) string {
	t := strings.ToLower(strings.TrimSpace(enemyType))
	if t == "" {
		t = "generic"
	}
	return "enemy_" + t + ".yaml"
}

func LoadEnemySpec(enemyType string) (*EnemySpec, error) {
	spec, err := LoadSpec[EnemySpec](EnemyFile(enemyType))
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// SpriteSpec describes a sheet and the clips cut from it.
type SpriteSpec struct {
	Sheet   string              `yaml:"sheet"`
	FrameW  int                 `yaml:"frame_w"`
	FrameH  int                 `yaml:"frame_h"`
	OffsetX int                 `yaml:"offset_x"`
	OffsetY int                 `yaml:"offset_y"`
	Clips   map[string]ClipSpec `yaml:"clips"`
}

type ClipSpec struct {
	Row        int      `yaml:"row"`
	ColStart   int      `yaml:"col_start"`
	FrameCount int      `yaml:"frame_count"`
	Duration   Duration `yaml:"duration"`
	Loop       bool     `yaml:"loop"`
}

// Duration accepts Go duration strings ("150ms") or plain numbers of
// seconds ("0.15").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar")
	}
	s := strings.TrimSpace(value.Value)
	if s == "" {
		*d = 0
		return nil
	}
	if parsed, err := time.ParseDuration(s); err == nil {
		*d = Duration(parsed)
		return nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	*d = Duration(math.Round(secs * float64(time.Second)))
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Or returns d, or fallback when d is not positive.
func (d Duration) Or(fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return time.Duration(d)
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// ColorOr returns the parsed color, or fallback when unset.
func (c *YAMLColor) ColorOr(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
