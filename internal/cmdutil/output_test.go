package cmdutil

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/mapping"
	"github.com/openprint3d/op3d/internal/profile"
	"github.com/openprint3d/op3d/internal/validate"
)

func TestDocumentWriter_Stdout(t *testing.T) {
	var buf bytes.Buffer
	w := &DocumentWriter{Out: &buf}

	path, err := w.Write("PLA_cura.json", "CURA - PLA.json", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "# CURA - PLA.json\n{\"a\":1}\n\n", buf.String())
}

func TestDocumentWriter_Dir(t *testing.T) {
	var buf bytes.Buffer
	dir := filepath.Join(t.TempDir(), "out", "nested")
	w := &DocumentWriter{OutDir: dir, Out: &buf}

	path, err := w.Write("PLA_cura.json", "ignored", []byte("{}\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "PLA_cura.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
	assert.Contains(t, buf.String(), "PLA_cura.json")
	assert.Contains(t, buf.String(), "written")
}

func TestStem(t *testing.T) {
	assert.Equal(t, "PLA", Stem("/a/b/PLA.json"))
	assert.Equal(t, "MK4.bundle", Stem("MK4.bundle.ini"))
	assert.Equal(t, "noext", Stem("noext"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing file", fmt.Errorf("open a.json: %w", fs.ErrNotExist), oerrors.ExitNotFound},
		{"validation", &validate.Error{Kind: profile.KindFilament}, oerrors.ExitValidation},
		{"conflict", fmt.Errorf("set: %w", profile.ErrStructuralConflict), oerrors.ExitInvalidFormat},
		{"unknown dialect", fmt.Errorf("%w: %q", profile.ErrUnknownDialect, "x"), oerrors.ExitUsage},
		{"not a profile", profile.ErrNotProfile, oerrors.ExitInvalidFormat},
		{"missing section", fmt.Errorf("%w: [printer]", mapping.ErrSectionMissing), oerrors.ExitInvalidFormat},
		{"already classified", oerrors.NewUsageError("x", ""), oerrors.ExitUsage},
		{"unknown", errors.New("disk full"), oerrors.ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.want, oerrors.ExitCodeFromError(got))
			assert.Equal(t, tt.err.Error(), got.Error())
			assert.ErrorIs(t, got, tt.err)
		})
	}
	assert.NoError(t, Classify(nil))
}

func TestLoadError(t *testing.T) {
	_, statErr := os.Stat(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, LoadError("nope.json", statErr), oerrors.ErrNotFound)

	assert.ErrorIs(t, LoadError("a.json", errors.New("unexpected EOF")), oerrors.ErrInvalidFormat)
	assert.ErrorIs(t, LoadError("a.json", profile.ErrNotProfile), profile.ErrNotProfile)
}

func TestBatchFailed(t *testing.T) {
	err := BatchFailed(errors.New("2 of 3 failed"), oerrors.ExitGeneralError)

	var exitErr *oerrors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.True(t, exitErr.Printed)
	assert.Equal(t, oerrors.ExitGeneralError, exitErr.Code)
}
