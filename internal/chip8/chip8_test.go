package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/chipgoemu/internal/profile"
	"github.com/retroenv/retrogolib/assert"
)

// newTestVM creates a virtual machine with the given opcodes loaded at the
// program start address.
func newTestVM(t *testing.T, target profile.Target, opcodes ...uint16) *Chip8 {
	t.Helper()

	c, err := New(target)
	assert.NoError(t, err)

	rom := make([]byte, 0, len(opcodes)*2)
	for _, opcode := range opcodes {
		rom = append(rom, byte(opcode>>8), byte(opcode))
	}
	if len(rom) > 0 {
		assert.NoError(t, c.LoadROM(rom))
	}
	return c
}

func TestNew(t *testing.T) {
	tests := []struct {
		target   profile.Target
		gfxSize  int
		memSize  int
		userRegs int
	}{
		{profile.Chip8, 64 * 32, 4096, 0},
		{profile.SuperChip, 128 * 64, 4096, 8},
		{profile.XOChip, 128 * 64, 65536, 16},
	}

	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			c, err := New(tt.target)
			assert.NoError(t, err)

			assert.Equal(t, uint16(programStart), c.pc)
			assert.Len(t, c.gfx, tt.gfxSize)
			assert.Len(t, c.memory, tt.memSize)
			assert.Len(t, c.userRegs, tt.userRegs)

			// font tables are loaded into low memory
			assert.Equal(t, byte(0xF0), c.memory[fontOffset])
			assert.Equal(t, byte(0x3C), c.memory[hiresFontOffset])
		})
	}
}

func TestNewUnknownTarget(t *testing.T) {
	_, err := New(profile.Target("vip"))
	assert.Error(t, err)
}

func TestLoadROM(t *testing.T) {
	c, err := New(profile.Chip8)
	assert.NoError(t, err)

	rom := []byte{0x12, 0x00}
	assert.NoError(t, c.LoadROM(rom))
	assert.Equal(t, byte(0x12), c.memory[programStart])
	assert.Equal(t, byte(0x00), c.memory[programStart+1])
}

func TestLoadROMTooLarge(t *testing.T) {
	c, err := New(profile.Chip8)
	assert.NoError(t, err)

	assert.NoError(t, c.LoadROM(make([]byte, 4096-programStart)))

	err = c.LoadROM(make([]byte, 4096-programStart+1))
	assert.True(t, errors.Is(err, ErrROMTooLarge))
}

func TestCycleJump(t *testing.T) {
	c := newTestVM(t, profile.Chip8, 0x1321)

	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(0x321), c.pc)
}

func TestCycleCallAndReturn(t *testing.T) {
	c := newTestVM(t, profile.Chip8, 0x2400)
	c.memory[0x400] = 0x00
	c.memory[0x401] = 0xEE

	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(0x400), c.pc)
	assert.Equal(t, uint8(1), c.sp)
	assert.Equal(t, uint16(0x200), c.stack[0])

	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(0x202), c.pc)
	assert.Equal(t, uint8(0), c.sp)
}

func TestCycleReturnScenario(t *testing.T) {
	c := newTestVM(t, profile.Chip8)
	c.memory[0x400] = 0x00
	c.memory[0x401] = 0xEE
	c.stack[0] = 0x600
	c.sp = 1
	c.pc = 0x400

	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(0x602), c.pc)
	assert.Equal(t, uint8(0), c.sp)
}

func TestCycleAddImmediate(t *testing.T) {
	c := newTestVM(t, profile.Chip8, 0x7D02)
	c.v[0xD] = 0x65
	c.v[0xF] = 0xAA

	assert.NoError(t, c.Cycle())
	assert.Equal(t, byte(0x67), c.v[0xD])
	assert.Equal(t, byte(0xAA), c.v[0xF])
	assert.Equal(t, uint16(0x202), c.pc)
}

func TestCycleStackOverflow(t *testing.T) {
	c := newTestVM(t, profile.Chip8, 0x2400)
	c.sp = stackDepth

	err := c.Cycle()
	assert.True(t, errors.Is(err, ErrStackOverflow))
}

func TestCycleStackUnderflow(t *testing.T) {
	c := newTestVM(t, profile.Chip8, 0x00EE)

	err := c.Cycle()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestCycleUnknownOpcode(t *testing.T) {
	c := newTestVM(t, profile.Chip8, 0x8AB9)

	err := c.Cycle()
	var opErr *UnknownOpcodeError
	assert.True(t, errors.As(err, &opErr))
	assert.Equal(t, uint16(0x8AB9), opErr.Opcode)
	assert.Equal(t, uint16(0x200), opErr.Address)
	assert.Equal(t, uint16(0x200), c.pc)
}

func TestCycleLegacyMachineCallIsNoOp(t *testing.T) {
	c := newTestVM(t, profile.Chip8, 0x0123)

	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(0x202), c.pc)
}

func TestTickTimersSaturate(t *testing.T) {
	c := newTestVM(t, profile.Chip8)
	c.delayTimer = 2
	c.soundTimer = 1

	assert.True(t, c.AudioSound())
	c.TickTimers()
	assert.Equal(t, byte(1), c.delayTimer)
	assert.Equal(t, byte(0), c.soundTimer)
	assert.False(t, c.AudioSound())

	c.TickTimers()
	c.TickTimers()
	assert.Equal(t, byte(0), c.delayTimer)
	assert.Equal(t, byte(0), c.soundTimer)
}

func TestTimerOpcodes(t *testing.T) {
	c := newTestVM(t, profile.Chip8, 0x6030, 0xF015, 0xF018, 0x6100, 0xF107)
	// v0=0x30, delay=v0, sound=v0, v1=0, v1=delay
	for i := 0; i < 5; i++ {
		assert.NoError(t, c.Cycle())
	}
	assert.Equal(t, byte(0x30), c.delayTimer)
	assert.Equal(t, byte(0x30), c.soundTimer)
	assert.Equal(t, byte(0x30), c.v[1])
}
