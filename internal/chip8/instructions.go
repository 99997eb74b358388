package chip8

import "github.com/retroenv/chipgoemu/internal/profile"

// exec runs one instruction body and returns the program counter delta.
// The program counter rewriting families are handled in Cycle; everything
// dispatched here advances by the returned delta.
func (c *Chip8) exec(opcode uint16) (uint16, error) {
	x := int(opcode&0x0F00) >> 8
	y := int(opcode&0x00F0) >> 4
	nn := byte(opcode & 0x00FF)

	switch opcode & 0xF000 {
	case 0x0000:
		return c.execSystem(opcode)

	case 0x3000: // 3XNN skip if VX == NN
		return c.skipDelta(c.v[x] == nn), nil

	case 0x4000: // 4XNN skip if VX != NN
		return c.skipDelta(c.v[x] != nn), nil

	case 0x5000: // 5XY0 skip if VX == VY
		if opcode&0x000F != 0 {
			return 0, &UnknownOpcodeError{Opcode: opcode, Address: c.pc}
		}
		return c.skipDelta(c.v[x] == c.v[y]), nil

	case 0x6000: // 6XNN set VX
		c.v[x] = nn
		return 2, nil

	case 0x7000: // 7XNN add immediate, carry flag untouched
		c.v[x] += nn
		return 2, nil

	case 0x8000:
		return c.execALU(opcode, x, y)

	case 0x9000: // 9XY0 skip if VX != VY
		if opcode&0x000F != 0 {
			return 0, &UnknownOpcodeError{Opcode: opcode, Address: c.pc}
		}
		return c.skipDelta(c.v[x] != c.v[y]), nil

	case 0xA000: // ANNN set address register
		c.i = opcode & 0x0FFF
		return 2, nil

	case 0xC000: // CXNN random byte masked with NN
		c.v[x] = byte(c.rng.Intn(256)) & nn
		return 2, nil

	case 0xD000: // DXYN draw sprite
		c.drawSprite(x, y, int(opcode&0x000F))
		return 2, nil

	case 0xE000:
		return c.execKeySkip(opcode, x)

	case 0xF000:
		return c.execMisc(opcode, x)
	}

	return 0, &UnknownOpcodeError{Opcode: opcode, Address: c.pc}
}

// execSystem handles the 0x0 opcode family: screen control on the high
// resolution capable targets, the legacy 0NNN machine call as a no-op.
// The 00EE return is handled in Cycle.
func (c *Chip8) execSystem(opcode uint16) (uint16, error) {
	if opcode == 0x00E0 { // clear screen
		c.clearScreen()
		return 2, nil
	}

	if c.hiresCapable() {
		switch {
		case opcode&0xFFF0 == 0x00C0: // 00CN scroll down N rows
			c.scrollDown(int(opcode & 0x000F))
			return 2, nil
		case opcode&0xFFF0 == 0x00D0: // 00DN scroll up N rows
			c.scrollUp(int(opcode & 0x000F))
			return 2, nil
		case opcode == 0x00FB: // scroll right 4 columns
			c.scrollRight(4)
			return 2, nil
		case opcode == 0x00FC: // scroll left 4 columns
			c.scrollLeft(4)
			return 2, nil
		case opcode == 0x00FD: // exit interpreter
			return 0, ErrExit
		case opcode == 0x00FE: // low resolution mode
			c.setHires(false)
			return 2, nil
		case opcode == 0x00FF: // high resolution mode
			c.setHires(true)
			return 2, nil
		}
	}

	// 0NNN legacy machine call, the only silently ignored opcode family.
	return 2, nil
}

// execALU handles the 8XY_ register arithmetic and logic family. All
// arithmetic wraps modulo 256 with the flag register recording carry,
// no-borrow or the shifted out bit.
func (c *Chip8) execALU(opcode uint16, x, y int) (uint16, error) {
	switch opcode & 0x000F {
	case 0x0: // 8XY0 assign
		c.v[x] = c.v[y]

	case 0x1: // 8XY1 or
		c.v[x] |= c.v[y]
		c.resetFlagQuirk()

	case 0x2: // 8XY2 and
		c.v[x] &= c.v[y]
		c.resetFlagQuirk()

	case 0x3: // 8XY3 xor
		c.v[x] ^= c.v[y]
		c.resetFlagQuirk()

	case 0x4: // 8XY4 add, VF = carry
		sum := uint16(c.v[x]) + uint16(c.v[y])
		c.v[x] = byte(sum)
		c.setFlag(sum > 0xFF)

	case 0x5: // 8XY5 sub, VF = 1 on no borrow
		noBorrow := c.v[x] >= c.v[y]
		c.v[x] -= c.v[y]
		c.setFlag(noBorrow)

	case 0x6: // 8XY6 shift right, VF = bit shifted out
		src := c.shiftSource(x, y)
		out := c.v[src] & 0x01
		c.v[x] = c.v[src] >> 1
		c.v[0xF] = out

	case 0x7: // 8XY7 reverse sub, VF = 1 on no borrow
		noBorrow := c.v[y] >= c.v[x]
		c.v[x] = c.v[y] - c.v[x]
		c.setFlag(noBorrow)

	case 0xE: // 8XYE shift left, VF = bit shifted out
		src := c.shiftSource(x, y)
		out := c.v[src] >> 7
		c.v[x] = c.v[src] << 1
		c.v[0xF] = out

	default:
		return 0, &UnknownOpcodeError{Opcode: opcode, Address: c.pc}
	}
	return 2, nil
}

// shiftSource selects the source register of the shift opcodes: VY on
// CHIP-8 and XO-Chip, VX itself on SuperChip.
func (c *Chip8) shiftSource(x, y int) int {
	if c.target == profile.SuperChip {
		return x
	}
	return y
}

// resetFlagQuirk clears the flag register after a logic opcode, an
// undocumented side effect of the original CHIP-8 interpreter only.
func (c *Chip8) resetFlagQuirk() {
	if c.target == profile.Chip8 {
		c.v[0xF] = 0
	}
}

func (c *Chip8) setFlag(set bool) {
	if set {
		c.v[0xF] = 1
	} else {
		c.v[0xF] = 0
	}
}

// execKeySkip handles the EX9E and EXA1 key state skips.
func (c *Chip8) execKeySkip(opcode uint16, x int) (uint16, error) {
	key := c.v[x] & 0x0F
	switch opcode & 0x00FF {
	case 0x9E: // skip if key pressed
		return c.skipDelta(c.keys[key]), nil
	case 0xA1: // skip if key not pressed
		return c.skipDelta(!c.keys[key]), nil
	}
	return 0, &UnknownOpcodeError{Opcode: opcode, Address: c.pc}
}

// execMisc handles the FX__ family: timers, key wait, address register,
// font addressing, BCD and the bulk register transfers.
func (c *Chip8) execMisc(opcode uint16, x int) (uint16, error) {
	switch opcode & 0x00FF {
	case 0x00: // F000 NNNN long address load, XO-Chip only
		if opcode == 0xF000 && c.target == profile.XOChip {
			c.i = uint16(c.byteAt(int(c.pc)+2))<<8 | uint16(c.byteAt(int(c.pc)+3))
			return 4, nil
		}

	case 0x07: // FX07 read delay timer
		c.v[x] = c.delayTimer
		return 2, nil

	case 0x0A: // FX0A wait for key press
		return c.execKeyWait(x), nil

	case 0x15: // FX15 set delay timer
		c.delayTimer = c.v[x]
		return 2, nil

	case 0x18: // FX18 set sound timer
		c.soundTimer = c.v[x]
		return 2, nil

	case 0x1E: // FX1E add to address register, wraps the 12-bit space
		c.i += uint16(c.v[x])
		if c.i > 0xFFF {
			c.i -= 0x1000
			c.v[0xF] = 1
		} else {
			c.v[0xF] = 0
		}
		return 2, nil

	case 0x29: // FX29 low resolution glyph address
		c.i = fontOffset + uint16(c.v[x]&0x0F)*fontGlyphSize
		return 2, nil

	case 0x30: // FX30 high resolution glyph address
		if c.hiresCapable() {
			c.i = hiresFontOffset + uint16(c.v[x]&0x0F)*hiresFontGlyphSize
			return 2, nil
		}

	case 0x33: // FX33 BCD decomposition
		value := c.v[x]
		c.writeMem(int(c.i), value/100)
		c.writeMem(int(c.i)+1, (value/10)%10)
		c.writeMem(int(c.i)+2, (value%100)%10)
		return 2, nil

	case 0x55: // FX55 store V0..VX to memory
		for idx := 0; idx <= x; idx++ {
			c.writeMem(int(c.i)+idx, c.v[idx])
		}
		c.bulkTransferQuirk(x)
		return 2, nil

	case 0x65: // FX65 load V0..VX from memory
		for idx := 0; idx <= x; idx++ {
			c.v[idx] = c.byteAt(int(c.i) + idx)
		}
		c.bulkTransferQuirk(x)
		return 2, nil

	case 0x75: // FX75 store V0..VX to the RPL user flags
		if c.hiresCapable() {
			for idx := 0; idx <= x && idx < len(c.userRegs); idx++ {
				c.userRegs[idx] = c.v[idx]
			}
			return 2, nil
		}

	case 0x85: // FX85 load V0..VX from the RPL user flags
		if c.hiresCapable() {
			for idx := 0; idx <= x && idx < len(c.userRegs); idx++ {
				c.v[idx] = c.userRegs[idx]
			}
			return 2, nil
		}
	}

	return 0, &UnknownOpcodeError{Opcode: opcode, Address: c.pc}
}

// bulkTransferQuirk advances the address register after a bulk register
// transfer on CHIP-8 and XO-Chip; SuperChip leaves it untouched.
func (c *Chip8) bulkTransferQuirk(x int) {
	if c.target != profile.SuperChip {
		c.i += uint16(x) + 1
	}
}

// writeMem stores a memory byte, silently dropping writes outside the
// capacity.
func (c *Chip8) writeMem(address int, value byte) {
	if address < 0 || address >= len(c.memory) {
		return
	}
	c.memory[address] = value
}
