package sound

// Recorder is a Sink that remembers every request. Errs, when set, is
// returned from the matching call.
type Recorder struct {
	Sounds []string
	Tracks []string
	Stops  int

	SoundErr error
	MusicErr error
}

func (r *Recorder) PlaySound(name string) error {
	r.Sounds = append(r.Sounds, name)
	return r.SoundErr
}

func (r *Recorder) PlayMusic(name string) error {
	r.Tracks = append(r.Tracks, name)
	return r.MusicErr
}

func (r *Recorder) StopMusic() {
	r.Stops++
}
