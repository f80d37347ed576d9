package output

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input   string
		want    ColorMode
		wantErr bool
	}{
		{"", ColorAuto, false},
		{"auto", ColorAuto, false},
		{"ALWAYS", ColorAlways, false},
		{"true", ColorAlways, false},
		{"never", ColorNever, false},
		{"off", ColorNever, false},
		{"sometimes", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
	assert.False(t, ColorMode("x").IsValid())
	assert.Equal(t, []string{"auto", "always", "never"}, ValidColorModes())
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, UseColor(ColorAlways, &buf))
	assert.False(t, UseColor(ColorNever, &buf))
	assert.False(t, UseColor(ColorAuto, &buf), "a buffer is never a terminal")
}

func TestIsTTY(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTTY(f))
	assert.False(t, IsTTY(&bytes.Buffer{}))
}
