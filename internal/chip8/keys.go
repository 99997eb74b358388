package chip8

// Key event handling and the FX0A wait-for-key state machine. The input
// backend delivers discrete press/release events already mapped to the
// canonical 0x0-0xF key space; the core has no concept of host key codes.

// KeyDown records a key press. A released-to-pressed transition satisfies
// a pending wait-for-key instruction.
func (c *Chip8) KeyDown(key byte) {
	if key > 0xF {
		return
	}
	if !c.keys[key] && c.keyWait == waitArmed {
		c.keyWait = waitCaptured
		c.waitKey = key
	}
	c.keys[key] = true
}

// KeyUp records a key release.
func (c *Chip8) KeyUp(key byte) {
	if key > 0xF {
		return
	}
	c.keys[key] = false
}

// KeyPressed reports the tracked state of a key.
func (c *Chip8) KeyPressed(key byte) bool {
	if key > 0xF {
		return false
	}
	return c.keys[key]
}

// execKeyWait runs the FX0A instruction. While no key transition has been
// captured it returns a zero program counter delta, so the cycle loop keeps
// re-issuing the same instruction until a key event arms the result.
func (c *Chip8) execKeyWait(x int) uint16 {
	switch c.keyWait {
	case waitArmed:
		return 0
	case waitCaptured:
		c.v[c.waitReg] = c.waitKey
		c.keyWait = waitIdle
		return 2
	default:
		c.keyWait = waitArmed
		c.waitReg = uint8(x)
		return 0
	}
}
