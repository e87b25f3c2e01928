package common

// Facing is the horizontal direction an entity looks toward. Vertically
// moving enemies reuse it: Right means down and Left means up.
type Facing int

const (
	FacingRight Facing = iota
	FacingLeft
)

func (f Facing) String() string {
	if f == FacingLeft {
		return "left"
	}
	return "right"
}

// Sign returns +1 for right and -1 for left.
func (f Facing) Sign() int {
	if f == FacingLeft {
		return -1
	}
	return 1
}

func (f Facing) Flip() Facing {
	if f == FacingLeft {
		return FacingRight
	}
	return FacingLeft
}

// Suffixed appends the facing to a clip base name, e.g. "walk" -> "walk_left".
func (f Facing) Suffixed(base string) string {
	return base + "_" + f.String()
}
