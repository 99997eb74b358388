// Package emulator drives the virtual machine core at 60Hz-aligned frames.
package emulator

import (
	"time"

	"github.com/retroenv/chipgoemu/internal/chip8"
	"github.com/retroenv/chipgoemu/internal/profile"
)

// cyclesPerFrame bounds the instruction slice executed per 60Hz frame,
// keeping input latency and display refresh timing plausible without
// cycle accurate hardware timing.
const cyclesPerFrame = 20

// frameBudget is the wall clock share of one 60Hz frame.
const frameBudget = time.Second / 60

// Tone is the audio backend contract: a continuous tone gated on and off,
// no pitch or volume parameters.
type Tone interface {
	SetActive(active bool)
}

// Emulator owns the cycle loop: it invokes a bounded number of cycles per
// frame, triggers the timer decrement exactly once between batches and
// gates the audio tone. The display backend calls Frame once per vsynced
// frame and presents the framebuffer afterwards.
type Emulator struct {
	prof profile.Profile
	vm   *chip8.Chip8
	tone Tone
}

// New creates an emulator driving the given virtual machine. tone may be
// nil when no audio backend is available.
func New(prof profile.Profile, vm *chip8.Chip8, tone Tone) *Emulator {
	return &Emulator{
		prof: prof,
		vm:   vm,
		tone: tone,
	}
}

// Frame executes one frame: up to cyclesPerFrame instruction cycles,
// stopping early when a low resolution frame must wait for the display
// refresh or the frame budget elapses, followed by one timer tick.
func (e *Emulator) Frame() error {
	start := time.Now()

	for cycle := 0; cycle < cyclesPerFrame; cycle++ {
		if err := e.vm.Cycle(); err != nil {
			return err
		}

		if e.prof.LoresDisplayWait() && !e.vm.HiresMode() && e.vm.GraphicsNeedsRefresh() {
			break
		}
		if time.Since(start) >= frameBudget {
			break
		}
	}

	e.vm.TickTimers()

	if e.tone != nil {
		e.tone.SetActive(e.vm.AudioSound())
	}
	return nil
}
