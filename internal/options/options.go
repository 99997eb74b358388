// Package options contains the program options.
package options

// Program options of the emulator.
type Program struct {
	Input  string // ROM file to run
	Target string // instruction set variant: chip8, schip, xochip
	Scale  uint   // display scale override, 0 selects the profile default

	Debug bool
	Quiet bool
}
