package component

import (
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

var ErrInvalidClip = errors.New("invalid animation clip")

// Canvas is the render sink sprites draw onto. *ebiten.Image satisfies it.
type Canvas interface {
	DrawImage(img *ebiten.Image, op *ebiten.DrawImageOptions)
}

// FrameRef addresses one cell of a uniformly gridded sheet.
type FrameRef struct {
	Col int
	Row int
}

// AnimationClip is a named run of frames shown for Duration each.
type AnimationClip struct {
	Name     string
	Frames   []FrameRef
	Duration time.Duration
	Loop     bool
}

// RowClip builds a clip that reads count frames left-to-right along one row,
// starting at colStart.
func RowClip(name string, row, colStart, count int, d time.Duration, loop bool) AnimationClip {
	frames := make([]FrameRef, 0, count)
	for i := 0; i < count; i++ {
		frames = append(frames, FrameRef{Col: colStart + i, Row: row})
	}
	return AnimationClip{Name: name, Frames: frames, Duration: d, Loop: loop}
}

// Validate checks the clip invariants: a name, at least one frame and a
// positive duration.
func (c AnimationClip) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("component: clip: %w: empty name", ErrInvalidClip)
	case len(c.Frames) == 0:
		return fmt.Errorf("component: clip %q: %w: no frames", c.Name, ErrInvalidClip)
	case c.Duration <= 0:
		return fmt.Errorf("component: clip %q: %w: duration %s", c.Name, ErrInvalidClip, c.Duration)
	}
	return nil
}

// Animator tracks which clip is playing and which frame is showing. It holds
// no images so it can be driven without a graphics context.
type Animator struct {
	clips    map[string]AnimationClip
	current  string
	index    int
	elapsed  time.Duration
	finished bool
	lastTick time.Time
}

// NewAnimator registers clips by name. Clips failing Validate are dropped
// with a warning.
func NewAnimator(clips ...AnimationClip) *Animator {
	a := &Animator{clips: make(map[string]AnimationClip, len(clips))}
	for _, c := range clips {
		if err := c.Validate(); err != nil {
			log.Printf("animation: skip clip: %v", err)
			continue
		}
		a.clips[c.Name] = c
	}
	return a
}

// Play switches to the named clip. The frame position restarts when reset is
// set or the clip changes, and the first frame is timed from now. A zero now
// leaves the time base to the next Update. Unknown names leave the animator
// untouched.
func (a *Animator) Play(name string, reset bool, now time.Time) bool {
	if a == nil {
		return false
	}
	if _, ok := a.clips[name]; !ok {
		log.Printf("animation: unknown clip %q", name)
		return false
	}
	if reset || name != a.current {
		a.index = 0
		a.elapsed = 0
		a.finished = false
		a.lastTick = now
	}
	a.current = name
	return true
}

// Update advances time by the wall-clock delta since the previous call or
// the last restart, and steps at most one frame. Without a time base the
// call only records one.
func (a *Animator) Update(now time.Time) {
	if a == nil {
		return
	}
	if a.lastTick.IsZero() {
		a.lastTick = now
		return
	}
	dt := now.Sub(a.lastTick)
	a.lastTick = now
	if dt < 0 {
		dt = 0
	}

	clip, ok := a.clips[a.current]
	if !ok || a.finished {
		return
	}
	a.elapsed += dt
	if a.elapsed < clip.Duration {
		return
	}
	a.elapsed = 0
	a.index++
	if a.index >= len(clip.Frames) {
		if clip.Loop {
			a.index = 0
		} else {
			a.index = len(clip.Frames) - 1
			a.finished = true
		}
	}
}

// Current returns the frame at the current index, or false when no clip is
// playing.
func (a *Animator) Current() (FrameRef, bool) {
	if a == nil {
		return FrameRef{}, false
	}
	clip, ok := a.clips[a.current]
	if !ok {
		return FrameRef{}, false
	}
	return clip.Frames[a.index], true
}

func (a *Animator) Clip() string {
	if a == nil {
		return ""
	}
	return a.current
}

func (a *Animator) Index() int {
	if a == nil {
		return 0
	}
	return a.index
}

// FrameCount is the number of frames in the playing clip.
func (a *Animator) FrameCount() int {
	if a == nil {
		return 0
	}
	return len(a.clips[a.current].Frames)
}

// Finished reports whether a non-looping clip has reached its last frame.
func (a *Animator) Finished() bool {
	return a != nil && a.finished
}

func (a *Animator) Has(name string) bool {
	if a == nil {
		return false
	}
	_, ok := a.clips[name]
	return ok
}

// AnimatedSprite binds an Animator to a sheet and caches each clip frame as
// a sub-image of it.
type AnimatedSprite struct {
	*Animator

	Sheet  *ebiten.Image
	FrameW int
	FrameH int

	frames map[string][]*ebiten.Image
	last   *ebiten.Image
}

// NewAnimatedSprite slices the sheet into frameW x frameH cells for every
// clip. Cells outside the sheet are cached as nil and logged.
func NewAnimatedSprite(sheet *ebiten.Image, frameW, frameH int, clips ...AnimationClip) *AnimatedSprite {
	s := &AnimatedSprite{
		Animator: NewAnimator(clips...),
		Sheet:    sheet,
		FrameW:   frameW,
		FrameH:   frameH,
		frames:   make(map[string][]*ebiten.Image, len(clips)),
	}
	s.cacheFrames()
	return s
}

// NewFrameSprite builds a sprite from already-extracted frames, played as a
// single clip. Nil frames are kept so the index math stays aligned.
func NewFrameSprite(name string, frames []*ebiten.Image, d time.Duration, loop bool) *AnimatedSprite {
	refs := make([]FrameRef, len(frames))
	for i := range frames {
		refs[i] = FrameRef{Col: i}
	}
	clip := AnimationClip{Name: name, Frames: refs, Duration: d, Loop: loop}
	s := &AnimatedSprite{
		Animator: NewAnimator(clip),
		frames:   make(map[string][]*ebiten.Image, 1),
	}
	if s.Has(name) {
		s.frames[name] = append([]*ebiten.Image(nil), frames...)
		s.Play(name, true, time.Time{})
	}
	return s
}

// Play and Update shadow the Animator's so a nil sprite is a no-op.
func (s *AnimatedSprite) Play(name string, reset bool, now time.Time) bool {
	if s == nil {
		return false
	}
	return s.Animator.Play(name, reset, now)
}

func (s *AnimatedSprite) Update(now time.Time) {
	if s == nil {
		return
	}
	s.Animator.Update(now)
}

func (s *AnimatedSprite) cacheFrames() {
	if s.Sheet == nil || s.FrameW <= 0 || s.FrameH <= 0 {
		if len(s.clips) > 0 {
			log.Printf("animation: no usable sheet for %d clips", len(s.clips))
		}
		return
	}
	bounds := s.Sheet.Bounds()
	for name, clip := range s.clips {
		imgs := make([]*ebiten.Image, len(clip.Frames))
		for i, f := range clip.Frames {
			r := image.Rect(f.Col*s.FrameW, f.Row*s.FrameH, (f.Col+1)*s.FrameW, (f.Row+1)*s.FrameH).Add(bounds.Min)
			if !r.In(bounds) {
				log.Printf("animation: clip %q frame %d (%d,%d) outside sheet %v", name, i, f.Col, f.Row, bounds)
				continue
			}
			imgs[i] = s.Sheet.SubImage(r).(*ebiten.Image)
		}
		s.frames[name] = imgs
	}
}

// CurrentFrame returns the image for the current frame. When the frame could
// not be resolved the last good frame is returned instead, which may be nil.
func (s *AnimatedSprite) CurrentFrame() *ebiten.Image {
	if s == nil {
		return nil
	}
	imgs := s.frames[s.current]
	if i := s.index; i >= 0 && i < len(imgs) && imgs[i] != nil {
		s.last = imgs[i]
	}
	return s.last
}

// Draw blits the current frame with its top-left corner at (x, y).
func (s *AnimatedSprite) Draw(dst Canvas, x, y float64) {
	img := s.CurrentFrame()
	if img == nil || dst == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(img, op)
}
