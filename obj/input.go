package obj

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input holds the requests polled for one frame.
type Input struct {
	// MoveX and MoveY are -1, 0 or +1. At most one of them is non-zero.
	MoveX int
	MoveY int
	// AttackPressed is true on the frame the attack key is pressed.
	AttackPressed bool
	// DebugPressed toggles the debug overlay.
	DebugPressed bool
	// NextPressed asks for the next level (debug only).
	NextPressed bool
	// PausePressed opens or closes the pause panel.
	PausePressed bool
}

func NewInput() *Input {
	return &Input{}
}

// Update polls the keyboard and the first gamepad. Movement repeats while a
// direction is held; the world's move cooldown paces it.
func (i *Input) Update() {
	left := ebiten.IsKeyPressed(ebiten.KeyLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyRight)
	up := ebiten.IsKeyPressed(ebiten.KeyUp)
	down := ebiten.IsKeyPressed(ebiten.KeyDown)

	var gpAttack, gpPause bool
	if ids := ebiten.AppendGamepadIDs(nil); len(ids) > 0 {
		gid := ids[0]
		left = left || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonLeftLeft)
		right = right || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonLeftRight)
		up = up || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonLeftTop)
		down = down || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonLeftBottom)
		gpAttack = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
		gpPause = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight)
	}

	i.MoveX, i.MoveY = Direction(left, right, up, down)
	i.AttackPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace) || gpAttack
	i.DebugPressed = inpututil.IsKeyJustPressed(ebiten.KeyD)
	i.NextPressed = inpututil.IsKeyJustPressed(ebiten.KeyN)
	i.PausePressed = inpututil.IsKeyJustPressed(ebiten.KeyEscape) || gpPause
}

// Direction turns held directions into a single-axis step. Any combination
// of more than one direction yields no movement.
func Direction(left, right, up, down bool) (int, int) {
	n := 0
	for _, b := range []bool{left, right, up, down} {
		if b {
			n++
		}
	}
	if n != 1 {
		return 0, 0
	}
	switch {
	case left:
		return -1, 0
	case right:
		return 1, 0
	case up:
		return 0, -1
	default:
		return 0, 1
	}
}
