// Package profile defines the hardware profiles of the supported target variants.
package profile

import (
	"fmt"
	"strings"
)

// Target identifies an instruction set variant. The target is fixed at
// construction time; every quirk branch in the interpreter keys off it.
type Target string

// Supported target variants.
const (
	Chip8     Target = "chip8"
	SuperChip Target = "schip"
	XOChip    Target = "xochip"
)

// ParseTarget converts a command line target name into a Target.
func ParseTarget(name string) (Target, error) {
	switch Target(strings.ToLower(name)) {
	case Chip8:
		return Chip8, nil
	case SuperChip:
		return SuperChip, nil
	case XOChip:
		return XOChip, nil
	}
	return "", fmt.Errorf("unsupported target '%s', valid targets: chip8, schip, xochip", name)
}

// Profile describes the immutable hardware characteristics of a target:
// screen geometry, memory capacity and the size of the persistent user
// register bank. Profiles carry no behavior beyond accessors.
type Profile struct {
	screenWidth        uint8
	screenHeight       uint8
	defaultScreenScale uint8
	memoryCapacity     int
	loresDisplayWait   bool
	userRegisterCount  uint8
}

// ScreenWidth returns the physical framebuffer width in pixels.
func (p Profile) ScreenWidth() uint8 {
	return p.screenWidth
}

// ScreenHeight returns the physical framebuffer height in pixels.
func (p Profile) ScreenHeight() uint8 {
	return p.screenHeight
}

// DefaultScreenScale returns the cosmetic pixel multiplier for the display
// backend when no scale override is given.
func (p Profile) DefaultScreenScale() uint8 {
	return p.defaultScreenScale
}

// MemoryCapacity returns the addressable memory size in bytes.
func (p Profile) MemoryCapacity() int {
	return p.memoryCapacity
}

// LoresDisplayWait returns true if a low resolution frame must synchronize
// with the display refresh before more instructions run in the same tick.
func (p Profile) LoresDisplayWait() bool {
	return p.loresDisplayWait
}

// UserRegisterCount returns the size of the persistent RPL user flag bank,
// 0 if the target has none.
func (p Profile) UserRegisterCount() uint8 {
	return p.userRegisterCount
}

var profiles = map[Target]Profile{
	Chip8: {
		screenWidth:        64,
		screenHeight:       32,
		defaultScreenScale: 12,
		memoryCapacity:     4096,
		loresDisplayWait:   true,
		userRegisterCount:  0,
	},
	SuperChip: {
		screenWidth:        128,
		screenHeight:       64,
		defaultScreenScale: 6,
		memoryCapacity:     4096,
		loresDisplayWait:   false,
		userRegisterCount:  8,
	},
	XOChip: {
		screenWidth:        128,
		screenHeight:       64,
		defaultScreenScale: 6,
		memoryCapacity:     65536,
		loresDisplayWait:   false,
		userRegisterCount:  16,
	},
}

// ByTarget returns the profile for the given target.
func ByTarget(target Target) (Profile, error) {
	p, ok := profiles[target]
	if !ok {
		return Profile{}, fmt.Errorf("unknown target architecture '%s'", target)
	}
	return p, nil
}
