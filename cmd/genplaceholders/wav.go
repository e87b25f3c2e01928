package main

import (
	"math"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
)

const sampleRate = beep.SampleRate(44100)

// 16-bit mono PCM
var wavFormat = beep.Format{SampleRate: sampleRate, NumChannels: 1, Precision: 2}

// writeWAV renders s until it ends. s must be finite.
func writeWAV(path string, s beep.Streamer) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := wav.Encode(f, s, wavFormat); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func volume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// fadeOut scales s down linearly to silence over n samples and ends there.
func fadeOut(s beep.Streamer, n int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		if rest := n - pos; len(samples) > rest {
			samples = samples[:rest]
		}
		got, ok := s.Stream(samples)
		for i := 0; i < got; i++ {
			g := 1 - float64(pos)/float64(n)
			samples[i][0] *= g
			samples[i][1] *= g
			pos++
		}
		return got, ok
	})
}

func tone(freq float64, d time.Duration, vol float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}
	return volume(fadeOut(sine, sampleRate.N(d)), vol), nil
}

// swordSwing is a short falling sweep.
func swordSwing() (beep.Streamer, error) {
	n := sampleRate.N(150 * time.Millisecond)
	phase, pos := 0.0, 0
	sweep := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			t := math.Min(float64(pos)/float64(n), 1)
			phase += 2 * math.Pi * (1400 - 1000*t) / float64(sampleRate)
			v := math.Sin(phase)
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	})
	return volume(fadeOut(sweep, n), 0.4), nil
}

// melody is a two second loop of eighth notes.
func melody() (beep.Streamer, error) {
	notes := []float64{220, 261.63, 329.63, 261.63, 196, 246.94, 293.66, 246.94}
	seq := make([]beep.Streamer, 0, len(notes))
	for _, f := range notes {
		s, err := tone(f, 250*time.Millisecond, 0.25)
		if err != nil {
			return nil, err
		}
		seq = append(seq, s)
	}
	return beep.Seq(seq...), nil
}
