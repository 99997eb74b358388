package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "game.ch8")
	rom := []byte{0x12, 0x00}
	assert.NoError(t, os.WriteFile(file, rom, 0o644))

	data, err := Load(file)
	assert.NoError(t, err)
	assert.Equal(t, rom, data)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.ErrorContains(t, err, "reading ROM file")
}

func TestLoadEmptyFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "empty.ch8")
	assert.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := Load(file)
	assert.Error(t, err)
}
