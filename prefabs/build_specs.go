package prefabs

import (
	"fmt"
	"sort"

	"github.com/milk9111/dungeon/component"
)

// BuildClips converts the clip table into animation clips sorted by name.
// Any clip failing validation fails the whole sprite.
func (s SpriteSpec) BuildClips() ([]component.AnimationClip, error) {
	names := make([]string, 0, len(s.Clips))
	for name := range s.Clips {
		names = append(names, name)
	}
	sort.Strings(names)

	clips := make([]component.AnimationClip, 0, len(names))
	for _, name := range names {
		c := s.Clips[name]
		clip := component.RowClip(name, c.Row, c.ColStart, c.FrameCount, c.Duration.Std(), c.Loop)
		if err := clip.Validate(); err != nil {
			return nil, fmt.Errorf("prefabs: sprite %s: %w", s.Sheet, err)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

// Require checks that every named clip is present.
func (s SpriteSpec) Require(names ...string) error {
	for _, n := range names {
		if _, ok := s.Clips[n]; !ok {
			return fmt.Errorf("prefabs: sprite %s: %w: missing clip %q", s.Sheet, ErrInvalidSpec, n)
		}
	}
	if s.FrameW <= 0 || s.FrameH <= 0 {
		return fmt.Errorf("prefabs: sprite %s: %w: frame size %dx%d", s.Sheet, ErrInvalidSpec, s.FrameW, s.FrameH)
	}
	return nil
}
