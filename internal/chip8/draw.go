package chip8

import "github.com/retroenv/chipgoemu/internal/profile"

// Framebuffer primitives. The framebuffer is stored at the full profile
// stride regardless of the active resolution mode; in low resolution mode
// on a high resolution capable target only the top left quadrant is used
// and the display backend doubles each pixel.

// clearScreen unsets every pixel and marks the framebuffer dirty.
func (c *Chip8) clearScreen() {
	for idx := range c.gfx {
		c.gfx[idx] = false
	}
	c.draw = true
}

// setHires switches the effective drawing resolution. XO-Chip additionally
// clears the screen when the mode changes.
func (c *Chip8) setHires(hires bool) {
	if c.target == profile.XOChip && c.hires != hires {
		c.clearScreen()
	}
	c.hires = hires
	c.draw = true
}

// drawSprite draws the N row sprite addressed by the address register at
// (VX, VY) and sets the flag register to 1 if any set pixel was unset.
// CHIP-8 and SuperChip clip rows and columns that run past the screen edge,
// XO-Chip wraps them. N=0 selects the 16 pixel wide super sprite on the
// high resolution capable targets.
func (c *Chip8) drawSprite(x, y, n int) {
	width, height := c.effSize()
	posX := int(c.v[x]) % width
	posY := int(c.v[y]) % height

	rows := n
	wide := false
	if n == 0 && c.hiresCapable() {
		rows = 16
		wide = c.hires
	}

	c.v[0xF] = 0
	for row := 0; row < rows; row++ {
		py := posY + row
		if c.target == profile.XOChip {
			py %= height
		} else if py >= height {
			break
		}

		var bits uint16
		var spriteWidth int
		if wide {
			addr := int(c.i) + row*2
			bits = uint16(c.byteAt(addr))<<8 | uint16(c.byteAt(addr+1))
			spriteWidth = 16
		} else {
			bits = uint16(c.byteAt(int(c.i)+row)) << 8
			spriteWidth = 8
		}

		for col := 0; col < spriteWidth; col++ {
			if bits&(0x8000>>col) == 0 {
				continue
			}
			px := posX + col
			if c.target == profile.XOChip {
				px %= width
			} else if px >= width {
				continue
			}

			idx := py*int(c.prof.ScreenWidth()) + px
			if c.gfx[idx] {
				c.v[0xF] = 1
			}
			c.gfx[idx] = !c.gfx[idx]
		}
	}

	c.draw = true
}

// scrollDown shifts the framebuffer down by n rows, filling the vacated
// top rows with unset pixels.
func (c *Chip8) scrollDown(n int) {
	width := int(c.prof.ScreenWidth())
	height := int(c.prof.ScreenHeight())
	for row := height - 1; row >= 0; row-- {
		for col := 0; col < width; col++ {
			if row >= n {
				c.gfx[row*width+col] = c.gfx[(row-n)*width+col]
			} else {
				c.gfx[row*width+col] = false
			}
		}
	}
	c.draw = true
}

// scrollUp shifts the framebuffer up by n rows, filling the vacated bottom
// rows with unset pixels.
func (c *Chip8) scrollUp(n int) {
	width := int(c.prof.ScreenWidth())
	height := int(c.prof.ScreenHeight())
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if row+n < height {
				c.gfx[row*width+col] = c.gfx[(row+n)*width+col]
			} else {
				c.gfx[row*width+col] = false
			}
		}
	}
	c.draw = true
}

// scrollRight shifts the framebuffer right by n columns, filling the
// vacated left columns with unset pixels.
func (c *Chip8) scrollRight(n int) {
	width := int(c.prof.ScreenWidth())
	height := int(c.prof.ScreenHeight())
	for row := 0; row < height; row++ {
		for col := width - 1; col >= 0; col-- {
			if col >= n {
				c.gfx[row*width+col] = c.gfx[row*width+col-n]
			} else {
				c.gfx[row*width+col] = false
			}
		}
	}
	c.draw = true
}

// scrollLeft shifts the framebuffer left by n columns, filling the vacated
// right columns with unset pixels.
func (c *Chip8) scrollLeft(n int) {
	width := int(c.prof.ScreenWidth())
	height := int(c.prof.ScreenHeight())
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if col+n < width {
				c.gfx[row*width+col] = c.gfx[row*width+col+n]
			} else {
				c.gfx[row*width+col] = false
			}
		}
	}
	c.draw = true
}
