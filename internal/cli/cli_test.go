package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/chipgoemu/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "default flags",
			args: []string{"prog", "game.ch8"},
			want: options.Program{Input: "game.ch8", Target: "chip8"},
		},
		{
			name: "target flag",
			args: []string{"prog", "-t", "xochip", "game.ch8"},
			want: options.Program{Input: "game.ch8", Target: "xochip"},
		},
		{
			name: "scale and debug flags",
			args: []string{"prog", "-t", "schip", "-s", "10", "-debug", "game.ch8"},
			want: options.Program{Input: "game.ch8", Target: "schip", Scale: 10, Debug: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			got, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.want.Input, got.Input)
			assert.Equal(t, tt.want.Target, got.Target)
			assert.Equal(t, tt.want.Scale, got.Scale)
			assert.Equal(t, tt.want.Debug, got.Debug)
		})
	}
}

func TestParseFlagsMissingInput(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog"}

	_, err := ParseFlags()
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
}

func TestParseFlagsUnknownTarget(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog", "-t", "chip16", "game.ch8"}

	_, err := ParseFlags()
	assert.ErrorContains(t, err, "unsupported target")
}

func TestParseFlagsArgumentAfterInput(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog", "game.ch8", "-debug"}

	_, err := ParseFlags()
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
	assert.ErrorContains(t, err, "last argument")
}
