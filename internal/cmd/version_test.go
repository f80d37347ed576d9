package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/testutil"
)

func TestVersionCmd(t *testing.T) {
	testutil.Isolate(t)

	out, code := runCLI(t, "version")
	assert.Equal(t, oerrors.ExitSuccess, code)
	assert.Contains(t, out, "op3d version")
	assert.Contains(t, out, "Schema:")
}

func TestVersionCmd_RejectsArgs(t *testing.T) {
	testutil.Isolate(t)

	_, code := runCLI(t, "version", "extra")
	assert.Equal(t, oerrors.ExitUsage, code)
}
