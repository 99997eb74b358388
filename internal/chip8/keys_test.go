package chip8

import (
	"testing"

	"github.com/retroenv/chipgoemu/internal/profile"
	"github.com/retroenv/retrogolib/assert"
)

func TestKeySkipPressed(t *testing.T) {
	c := newTestVM(t, profile.Chip8, 0xE09E)
	c.v[0] = 0x05

	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(0x202), c.pc)

	c.KeyDown(0x05)
	c.pc = programStart
	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(0x204), c.pc)
}

func TestKeySkipNotPressed(t *testing.T) {
	c := newTestVM(t, profile.Chip8, 0xE0A1)
	c.v[0] = 0x05

	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(0x204), c.pc)

	c.KeyDown(0x05)
	c.pc = programStart
	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(0x202), c.pc)
}

func TestKeySkipUsesLowNibble(t *testing.T) {
	// only the low nibble of the register selects the key
	c := newTestVM(t, profile.Chip8, 0xE09E)
	c.v[0] = 0xF5
	c.KeyDown(0x05)

	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(0x204), c.pc)
}

func TestKeyStateIgnoresInvalidKeys(t *testing.T) {
	c := newTestVM(t, profile.Chip8)
	c.KeyDown(0x10)
	c.KeyUp(0xFF)

	for key := byte(0); key <= 0xF; key++ {
		assert.False(t, c.KeyPressed(key))
	}
}

func TestKeyWaitBlocks(t *testing.T) {
	// without a key event the wait opcode spins without advancing
	c := newTestVM(t, profile.Chip8, 0xF30A)
	for i := 0; i < 5; i++ {
		assert.NoError(t, c.Cycle())
		assert.Equal(t, uint16(programStart), c.pc)
	}
}

func TestKeyWaitHeldKeyDoesNotSatisfy(t *testing.T) {
	// a key already held when the wait starts must be released and
	// pressed again
	c := newTestVM(t, profile.Chip8, 0xF30A)
	c.KeyDown(0x07)

	for i := 0; i < 3; i++ {
		assert.NoError(t, c.Cycle())
		assert.Equal(t, uint16(programStart), c.pc)
	}

	c.KeyUp(0x07)
	c.KeyDown(0x07)
	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(0x202), c.pc)
	assert.Equal(t, byte(0x07), c.v[3])
}

func TestKeyWaitCapturesNewPress(t *testing.T) {
	c := newTestVM(t, profile.Chip8, 0xF00A)

	// arm the wait
	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(programStart), c.pc)

	c.KeyDown(0x0B)

	// the capturing cycle stores the key and advances
	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(0x202), c.pc)
	assert.Equal(t, byte(0x0B), c.v[0])
}

func TestKeyWaitRepeatedDownWhileHeld(t *testing.T) {
	// a repeated down event for a key that is already pressed is not a
	// new press and does not satisfy the wait
	c := newTestVM(t, profile.Chip8, 0xF00A)
	c.KeyDown(0x02)

	assert.NoError(t, c.Cycle())
	c.KeyDown(0x02)
	assert.NoError(t, c.Cycle())
	assert.Equal(t, uint16(programStart), c.pc)
}
