package cmd

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openprint3d/op3d/internal/config"
	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/profile"
	"github.com/openprint3d/op3d/internal/testutil"
)

func TestCompareCmd_Identical(t *testing.T) {
	testutil.Isolate(t)
	dir := t.TempDir()
	a := testutil.WriteProfile(t, filepath.Join(dir, "a.json"), profile.KindFilament, nil)
	b := testutil.WriteProfile(t, filepath.Join(dir, "b.json"), profile.KindFilament, nil)

	stdout, code := runCLI(t, "compare", a, b)
	assert.Equal(t, oerrors.ExitSuccess, code)
	assert.Contains(t, stdout, "Differences found:  0")
}

func TestCompareCmd_Differences(t *testing.T) {
	testutil.Isolate(t)
	dir := t.TempDir()
	a := testutil.WriteProfile(t, filepath.Join(dir, "a.json"), profile.KindFilament,
		map[string]profile.Node{"nozzle.recommended": profile.Int(200)})
	b := testutil.WriteProfile(t, filepath.Join(dir, "b.json"), profile.KindFilament,
		map[string]profile.Node{"nozzle.recommended": profile.Int(215)})

	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{"text", func(t *testing.T, out string) {
			assert.Contains(t, out, "nozzle.recommended")
			assert.Contains(t, out, "Differences found:  1")
		}},
		{"json", func(t *testing.T, out string) {
			var doc map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &doc))
			stats := doc["stats"].(map[string]any)
			assert.EqualValues(t, 1, stats["differences"])
			assert.EqualValues(t, 1, stats["modified"])
		}},
		{"dyff", func(t *testing.T, out string) {
			assert.Contains(t, out, "nozzle.recommended")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, code := runCLI(t, "compare", a, b, "--format", tt.format)
			assert.Equal(t, oerrors.ExitGeneralError, code)
			tt.check(t, out)
		})
	}
}

func TestCompareCmd_YAMLAgainstJSON(t *testing.T) {
	testutil.Isolate(t)
	dir := t.TempDir()
	a := testutil.WriteFile(t, filepath.Join(dir, "a.json"), `{"speed": {"print": 60}}`)
	b := testutil.WriteFile(t, filepath.Join(dir, "b.yaml"), "speed:\n  print: 60\n")

	_, code := runCLI(t, "compare", a, b)
	assert.Equal(t, oerrors.ExitSuccess, code)
}

func TestCompareCmd_Separator(t *testing.T) {
	testutil.Isolate(t)
	t.Setenv(config.EnvName(config.KeyCompareSeparator), "/")
	dir := t.TempDir()
	a := testutil.WriteFile(t, filepath.Join(dir, "a.json"), `{"speed": {"print": 60}}`)
	b := testutil.WriteFile(t, filepath.Join(dir, "b.json"), `{"speed": {"print": 80}}`)

	out, code := runCLI(t, "compare", a, b)
	assert.Equal(t, oerrors.ExitGeneralError, code)
	assert.Contains(t, out, "speed/print")
}

func TestCompareCmd_Errors(t *testing.T) {
	testutil.Isolate(t)
	dir := t.TempDir()
	a := testutil.WriteFile(t, filepath.Join(dir, "a.json"), `{"k": 1}`)
	list := testutil.WriteFile(t, filepath.Join(dir, "list.json"), `[1, 2]`)
	txt := testutil.WriteFile(t, filepath.Join(dir, "a.txt"), `k: 1`)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"bad format", []string{"compare", a, a, "--format", "xml"}, oerrors.ExitUsage},
		{"root not a map", []string{"compare", a, list}, oerrors.ExitInvalidFormat},
		{"unsupported extension", []string{"compare", a, txt}, oerrors.ExitInvalidFormat},
		{"too many args", []string{"compare", a, a, a}, oerrors.ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, code := runCLI(t, tt.args...)
			assert.Equal(t, tt.want, code)
		})
	}
}
