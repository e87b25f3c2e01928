package sound

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/milk9111/dungeon/assets"
)

const SampleRate = 44100

// ErrUnknownSound is wrapped when no asset matches a sound or track name.
var ErrUnknownSound = errors.New("unknown sound")

// Sink receives the audio requests the game makes. Implementations report
// failures; callers log them and carry on.
type Sink interface {
	PlaySound(name string) error
	PlayMusic(name string) error
	StopMusic()
}

// Nop discards every request.
type Nop struct{}

func (Nop) PlaySound(string) error { return nil }
func (Nop) PlayMusic(string) error { return nil }
func (Nop) StopMusic()             {}

var (
	audioContextOnce sync.Once
	audioContext     *audio.Context
)

// Context returns the process-wide audio context. Ebiten allows only one.
func Context() *audio.Context {
	audioContextOnce.Do(func() {
		audioContext = audio.NewContext(SampleRate)
	})
	return audioContext
}

// Mixer plays embedded sound effects and looping music tracks.
type Mixer struct {
	SoundVolume float64
	MusicVolume float64

	sounds map[string]*audio.Player
	music  *audio.Player
	track  string
}

func NewMixer() *Mixer {
	return &Mixer{
		SoundVolume: 1,
		MusicVolume: 0.6,
		sounds:      make(map[string]*audio.Player),
	}
}

// PlaySound plays sounds/<name> from the start, reusing the decoded player.
func (m *Mixer) PlaySound(name string) error {
	p, ok := m.sounds[name]
	if !ok {
		file, err := resolve("sounds", name)
		if err != nil {
			return err
		}
		s, err := decode(file)
		if err != nil {
			return err
		}
		p, err = Context().NewPlayer(s)
		if err != nil {
			return fmt.Errorf("sound: player %s: %w", file, err)
		}
		m.sounds[name] = p
	}
	if err := p.Rewind(); err != nil {
		return fmt.Errorf("sound: rewind %s: %w", name, err)
	}
	p.SetVolume(m.SoundVolume)
	p.Play()
	return nil
}

// PlayMusic stops the current track and loops music/<name>.
func (m *Mixer) PlayMusic(name string) error {
	m.StopMusic()
	file, err := resolve("music", name)
	if err != nil {
		return err
	}
	s, err := decode(file)
	if err != nil {
		return err
	}
	p, err := Context().NewPlayer(audio.NewInfiniteLoop(s, s.Length()))
	if err != nil {
		return fmt.Errorf("sound: player %s: %w", file, err)
	}
	p.SetVolume(m.MusicVolume)
	p.Play()
	m.music = p
	m.track = name
	return nil
}

func (m *Mixer) StopMusic() {
	if m.music == nil {
		return
	}
	m.music.Pause()
	_ = m.music.Close()
	m.music = nil
	m.track = ""
}

// Track returns the name of the looping track, if any.
func (m *Mixer) Track() string {
	return m.track
}

type stream interface {
	io.ReadSeeker
	Length() int64
}

// resolve maps a sound name to an embedded file. Names may carry an
// extension or not; .ogg is preferred over .wav.
func resolve(dir, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("sound: empty name: %w", ErrUnknownSound)
	}
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	candidates := []string{path.Join(dir, base)}
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	candidates = append(candidates, path.Join(dir, base+".ogg"), path.Join(dir, base+".wav"))
	if file, ok := assets.Find(candidates...); ok && path.Ext(file) != "" {
		return file, nil
	}
	return "", fmt.Errorf("sound: %s/%s: %w", dir, name, ErrUnknownSound)
}

func decode(file string) (stream, error) {
	b, err := assets.LoadFile(file)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(path.Ext(file)) {
	case ".wav":
		s, err := wav.DecodeWithSampleRate(SampleRate, bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("sound: decode wav %s: %w", file, err)
		}
		return s, nil
	case ".ogg":
		s, err := vorbis.DecodeWithSampleRate(SampleRate, bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("sound: decode ogg %s: %w", file, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("sound: %s: unsupported format: %w", file, ErrUnknownSound)
	}
}
