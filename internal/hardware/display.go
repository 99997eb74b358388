// Package hardware implements the presentation backends: an ebiten window
// rendering the framebuffer and delivering key events, and an oto buzzer.
// The virtual machine core has no knowledge of any of them.
package hardware

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/retroenv/chipgoemu/internal/chip8"
	"github.com/retroenv/chipgoemu/internal/emulator"
	"github.com/retroenv/chipgoemu/internal/profile"
)

var (
	pixelOn  = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	pixelOff = color.RGBA{R: 15, G: 15, B: 15, A: 255}
)

// Window is the display and input backend. Ebiten invokes Update once per
// vsynced 60Hz frame, which drives exactly one emulator frame: key events
// are delivered first, then the cycle batch runs, then Draw presents the
// framebuffer if it changed.
type Window struct {
	ctx   context.Context
	vm    *chip8.Chip8
	emu   *emulator.Emulator
	scale int

	width  int
	height int
	frame  *ebiten.Image
}

// Run opens the emulator window and blocks until the program exits, the
// window closes or a fatal VM fault occurs.
func Run(ctx context.Context, prof profile.Profile, vm *chip8.Chip8, emu *emulator.Emulator, scale uint8) error {
	w := &Window{
		ctx:    ctx,
		vm:     vm,
		emu:    emu,
		scale:  int(scale),
		width:  int(prof.ScreenWidth()),
		height: int(prof.ScreenHeight()),
	}
	w.frame = ebiten.NewImage(w.width, w.height)
	w.frame.Fill(pixelOff)

	ebiten.SetWindowSize(w.width*w.scale, w.height*w.scale)
	ebiten.SetWindowTitle("chipgoemu")

	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("running display: %w", err)
	}
	return nil
}

// Update delivers key events and runs one emulator frame.
func (w *Window) Update() error {
	if err := w.ctx.Err(); err != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for hostKey, key := range keymap {
		if inpututil.IsKeyJustPressed(hostKey) {
			w.vm.KeyDown(key)
		}
		if inpututil.IsKeyJustReleased(hostKey) {
			w.vm.KeyUp(key)
		}
	}

	if err := w.emu.Frame(); err != nil {
		if errors.Is(err, chip8.ErrExit) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

// Draw presents the framebuffer, repainting the offscreen image only when
// the core marked it dirty.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.vm.GraphicsNeedsRefresh() {
		gfx := w.vm.Gfx()
		for y := 0; y < w.height; y++ {
			for x := 0; x < w.width; x++ {
				if gfx[y*w.width+x] {
					w.frame.Set(x, y, pixelOn)
				} else {
					w.frame.Set(x, y, pixelOff)
				}
			}
		}
		w.vm.GraphicsClearRefresh()
	}

	// In low resolution mode only the top left quadrant of the frame is
	// drawn to, doubled here to fill the window.
	op := &ebiten.DrawImageOptions{}
	res := float64(w.vm.ResolutionScale())
	op.GeoM.Scale(float64(w.scale)*res, float64(w.scale)*res)
	screen.DrawImage(w.frame, op)
}

// Layout fixes the logical window size.
func (w *Window) Layout(_, _ int) (int, int) {
	return w.width * w.scale, w.height * w.scale
}
