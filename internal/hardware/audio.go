package hardware

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate = 44100
	toneHz     = 440
	toneVolume = 0.25
)

// Audio plays the buzzer tone: a continuous square wave gated by the
// core's sound timer. The player runs permanently and the generator emits
// silence while the tone is off, so gating is a single atomic store.
type Audio struct {
	ctx    *oto.Context
	player *oto.Player
	wave   *squareWave
}

// NewAudio opens the audio device and starts the gated tone player.
func NewAudio() (*Audio, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("initializing audio context: %w", err)
	}
	<-ready

	a := &Audio{
		ctx:  ctx,
		wave: &squareWave{},
	}
	a.player = ctx.NewPlayer(a.wave)
	a.player.Play()
	return a, nil
}

// SetActive gates the tone on or off.
func (a *Audio) SetActive(active bool) {
	a.wave.active.Store(active)
}

// Close stops playback and releases the player.
func (a *Audio) Close() error {
	return a.player.Close()
}

// squareWave generates mono float32 square wave samples, or silence while
// inactive. It is read from the audio backend's playback goroutine.
type squareWave struct {
	active atomic.Bool
	phase  float64
}

func (w *squareWave) Read(p []byte) (int, error) {
	const phaseStep = float64(toneHz) / float64(sampleRate)

	samples := len(p) / 4
	for i := 0; i < samples; i++ {
		var sample float32
		if w.active.Load() {
			if w.phase < 0.5 {
				sample = toneVolume
			} else {
				sample = -toneVolume
			}
		}
		w.phase += phaseStep
		if w.phase >= 1 {
			w.phase--
		}
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(sample))
	}
	return samples * 4, nil
}
