package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDyff(t *testing.T) {
	left := []byte("nozzle:\n  max: 260\n  min: 190\nname: PLA\n")
	right := []byte("nozzle:\n  max: 280\n  min: 190\nname: PLA\n")

	t.Run("reports changed leaf", func(t *testing.T) {
		out, err := RenderDyff("a.yaml", left, "b.yaml", right, false)
		require.NoError(t, err)
		assert.Contains(t, out, "nozzle.max")
		assert.Contains(t, out, "260")
		assert.Contains(t, out, "280")
	})

	t.Run("identical documents render nothing", func(t *testing.T) {
		out, err := RenderDyff("a.yaml", left, "b.yaml", left, false)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("empty inputs render nothing", func(t *testing.T) {
		out, err := RenderDyff("a.yaml", nil, "b.yaml", []byte("  \n"), false)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("invalid YAML", func(t *testing.T) {
		_, err := RenderDyff("a.yaml", []byte("a: [1,"), "b.yaml", right, false)
		assert.Error(t, err)
	})
}
