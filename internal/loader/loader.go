// Package loader handles ROM file loading operations.
package loader

import (
	"fmt"
	"os"
)

// Load reads a raw ROM image from disk. CHIP-8 family ROM files carry no
// header; the whole file is the program image.
func Load(filename string) ([]byte, error) {
	rom, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading ROM file '%s': %w", filename, err)
	}
	if len(rom) == 0 {
		return nil, fmt.Errorf("ROM file '%s' is empty", filename)
	}
	return rom, nil
}
