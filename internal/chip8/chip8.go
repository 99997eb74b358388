// Package chip8 implements the CHIP-8 virtual machine core and the
// instruction set quirks of the SuperChip and XO-Chip target variants.
package chip8

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/retroenv/chipgoemu/internal/profile"
	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/log"
)

// programStart is the memory address where programs begin execution.
const programStart = 0x200

// stackDepth is the number of return addresses the call stack can hold.
const stackDepth = 16

// Fatal faults and control sentinels returned by Cycle.
var (
	// ErrStackOverflow is returned when a subroutine call exceeds the
	// stack depth. The run can not be recovered.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when a subroutine return executes
	// with an empty stack. The run can not be recovered.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrExit is returned when the program executes the exit opcode 00FD.
	// Drivers treat it as a clean quit, not a fault.
	ErrExit = errors.New("program exit")
	// ErrROMTooLarge is returned by LoadROM when the image does not fit
	// into the target's memory.
	ErrROMTooLarge = errors.New("ROM too large")
)

// UnknownOpcodeError is the fatal fault raised for an opcode bit pattern
// that matches no instruction of the configured target.
type UnknownOpcodeError struct {
	Opcode  uint16
	Address uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode %04X at address %04X", e.Opcode, e.Address)
}

// keyWaitState tracks an in-flight wait-for-keypress instruction.
type keyWaitState uint8

const (
	waitIdle     keyWaitState = iota // no FX0A pending
	waitArmed                        // FX0A issued, no key transition yet
	waitCaptured                     // key transition seen, result pending
)

// Chip8 holds the complete state of one virtual machine run. It performs
// no I/O and owns all of its state exclusively; exactly one cycle executes
// at a time.
type Chip8 struct {
	target profile.Target
	prof   profile.Profile

	v        [16]byte // general purpose registers, V15 is the flag register
	userRegs []byte   // persistent RPL user flags, nil if the target has none
	i        uint16   // address register
	pc       uint16
	memory   []byte
	stack    [stackDepth]uint16
	sp       uint8

	delayTimer byte
	soundTimer byte

	gfx   []bool // one boolean per pixel, row-major at full profile stride
	draw  bool
	hires bool

	keys    [16]bool
	keyWait keyWaitState
	waitReg uint8 // destination register of the pending FX0A
	waitKey uint8 // key captured while armed

	rng    *rand.Rand
	tracer *log.Logger
}

// New creates a virtual machine for the given target with the font tables
// loaded into low memory and the program counter at the program start.
func New(target profile.Target) (*Chip8, error) {
	prof, err := profile.ByTarget(target)
	if err != nil {
		return nil, err
	}

	c := &Chip8{
		target: target,
		prof:   prof,
		pc:     programStart,
		memory: make([]byte, prof.MemoryCapacity()),
		gfx:    make([]bool, int(prof.ScreenWidth())*int(prof.ScreenHeight())),
		draw:   true,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if count := prof.UserRegisterCount(); count > 0 {
		c.userRegs = make([]byte, count)
	}

	copy(c.memory[fontOffset:], fontSet[:])
	copy(c.memory[hiresFontOffset:], hiresFontSet[:])

	return c, nil
}

// SetRandSource replaces the random number source used by the CXNN opcode.
func (c *Chip8) SetRandSource(src rand.Source) {
	c.rng = rand.New(src)
}

// SetTracer enables per-cycle instruction tracing on the given logger.
func (c *Chip8) SetTracer(logger *log.Logger) {
	c.tracer = logger
}

// LoadROM copies a ROM image into memory at the program start address.
func (c *Chip8) LoadROM(rom []byte) error {
	if len(rom) > len(c.memory)-programStart {
		return fmt.Errorf("%w: %d bytes exceed the %d byte program space",
			ErrROMTooLarge, len(rom), len(c.memory)-programStart)
	}
	copy(c.memory[programStart:], rom)
	return nil
}

// Cycle executes one fetch-decode-execute step. The jump, call, return and
// jump-with-offset families rewrite the program counter directly; all other
// instructions advance it by the delta their handler returns. An opcode that
// matches no instruction of the configured target is a fatal fault.
func (c *Chip8) Cycle() error {
	if int(c.pc)+1 >= len(c.memory) {
		return fmt.Errorf("program counter %04X outside memory", c.pc)
	}
	opcode := uint16(c.memory[c.pc])<<8 | uint16(c.memory[c.pc+1])

	if c.tracer != nil {
		c.trace(opcode)
	}

	switch opcode & 0xF000 {
	case 0x1000: // 1NNN jump
		c.pc = opcode & 0x0FFF
		return nil

	case 0x2000: // 2NNN call subroutine
		if c.sp >= stackDepth {
			return fmt.Errorf("%w: call at address %04X", ErrStackOverflow, c.pc)
		}
		c.stack[c.sp] = c.pc
		c.sp++
		c.pc = opcode & 0x0FFF
		return nil

	case 0xB000: // BNNN / BXNN jump with offset
		reg := 0
		if c.target == profile.SuperChip {
			reg = int(opcode&0x0F00) >> 8
		}
		c.pc = (opcode & 0x0FFF) + uint16(c.v[reg])
		return nil
	}

	if opcode&0xFFFF == 0x00EE { // return from subroutine
		if c.sp == 0 {
			return fmt.Errorf("%w: return at address %04X", ErrStackUnderflow, c.pc)
		}
		c.sp--
		c.pc = c.stack[c.sp] + 2
		return nil
	}

	delta, err := c.exec(opcode)
	if err != nil {
		return err
	}
	c.pc += delta
	return nil
}

// TickTimers decrements both countdown timers by one, saturating at zero.
// Drivers call it exactly once per 60Hz frame, separate from Cycle.
func (c *Chip8) TickTimers() {
	if c.delayTimer > 0 {
		c.delayTimer--
	}
	if c.soundTimer > 0 {
		c.soundTimer--
	}
}

// AudioSound reports whether the tone should currently be audible.
func (c *Chip8) AudioSound() bool {
	return c.soundTimer > 0
}

// Gfx returns the framebuffer, one boolean per pixel in row-major order at
// the full profile stride. Callers must treat it as read-only.
func (c *Chip8) Gfx() []bool {
	return c.gfx
}

// GraphicsNeedsRefresh reports whether the framebuffer changed since the
// last call to GraphicsClearRefresh.
func (c *Chip8) GraphicsNeedsRefresh() bool {
	return c.draw
}

// GraphicsClearRefresh marks the framebuffer as presented.
func (c *Chip8) GraphicsClearRefresh() {
	c.draw = false
}

// HiresMode reports whether the high resolution drawing mode is active.
func (c *Chip8) HiresMode() bool {
	return c.hires
}

// ResolutionScale returns the pixel multiplier the display backend applies
// on top of the cosmetic screen scale: 2 while a high resolution capable
// target draws in low resolution mode, 1 otherwise.
func (c *Chip8) ResolutionScale() uint8 {
	if c.hiresCapable() && !c.hires {
		return 2
	}
	return 1
}

// hiresCapable reports whether the target supports the resolution toggle
// and super sprite opcodes.
func (c *Chip8) hiresCapable() bool {
	return c.target != profile.Chip8
}

// effSize returns the dimensions of the effective drawing surface: the full
// profile geometry in high resolution mode, half of it in low resolution
// mode on a high resolution capable target.
func (c *Chip8) effSize() (width, height int) {
	width = int(c.prof.ScreenWidth())
	height = int(c.prof.ScreenHeight())
	if c.hiresCapable() && !c.hires {
		width /= 2
		height /= 2
	}
	return width, height
}

// byteAt reads a memory byte, treating addresses outside the capacity as
// zero rather than faulting.
func (c *Chip8) byteAt(address int) byte {
	if address < 0 || address >= len(c.memory) {
		return 0
	}
	return c.memory[address]
}

// skipDelta returns the program counter delta for a conditional skip.
// On XO-Chip a taken skip steps over the 4-byte long address load.
func (c *Chip8) skipDelta(taken bool) uint16 {
	if !taken {
		return 2
	}
	if c.target == profile.XOChip {
		next := uint16(c.byteAt(int(c.pc)+2))<<8 | uint16(c.byteAt(int(c.pc)+3))
		if next&0xFFFF == 0xF000 {
			return 6
		}
	}
	return 4
}

// trace logs the instruction about to execute, naming the mnemonic when
// the opcode belongs to the base CHIP-8 instruction set.
func (c *Chip8) trace(opcode uint16) {
	name := "?"
	for _, op := range chip8cpu.Opcodes[int(opcode>>12)] {
		if op.Info.Mask&opcode == op.Info.Value && op.Instruction != nil {
			name = op.Instruction.Name
			break
		}
	}
	c.tracer.Debug("cycle",
		log.Hex("pc", c.pc),
		log.Hex("opcode", opcode),
		log.String("mnemonic", name),
	)
}
