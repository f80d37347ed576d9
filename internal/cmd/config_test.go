package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openprint3d/op3d/internal/config"
	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/profile"
	"github.com/openprint3d/op3d/internal/testutil"
)

func TestNewConfigCmd(t *testing.T) {
	c := NewConfigCmd(&GlobalConfig{})

	assert.Equal(t, "config", c.Use)
	var names []string
	for _, sub := range c.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"init", "vet", "show"}, names)

	initCmd, _, err := c.Find([]string{"init"})
	require.NoError(t, err)
	assert.NotNil(t, initCmd.Flags().Lookup("force"))
}

func TestConfigInit_CreatesFile(t *testing.T) {
	home := testutil.Isolate(t)

	stdout, code := runCLI(t, "config", "init")
	require.Equal(t, oerrors.ExitSuccess, code)

	path := filepath.Join(home, ".op3d", "config.yaml")
	assert.Contains(t, stdout, path)

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

	fileInfo, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fileInfo.Mode().Perm())

	v, err := config.NewValidator()
	require.NoError(t, err)
	assert.NoError(t, v.ValidateFile(path))
}

func TestConfigInit_ExistingConfig(t *testing.T) {
	home := testutil.Isolate(t)
	path := testutil.WriteFile(t, filepath.Join(home, ".op3d", "config.yaml"), "output:\n  indent: 4\n")

	_, code := runCLI(t, "config", "init")
	assert.Equal(t, oerrors.ExitGeneralError, code)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "output:\n  indent: 4\n", string(data), "existing file untouched")

	_, code = runCLI(t, "config", "init", "--force")
	require.Equal(t, oerrors.ExitSuccess, code)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# op3d configuration")
}

func TestConfigInit_ConfigFlag(t *testing.T) {
	testutil.Isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "op3d.yaml")

	_, code := runCLI(t, "--config", path, "config", "init")
	require.Equal(t, oerrors.ExitSuccess, code)
	assert.FileExists(t, path)
}

func TestConfigInit_RepairsBrokenConfig(t *testing.T) {
	home := testutil.Isolate(t)
	testutil.WriteFile(t, filepath.Join(home, ".op3d", "config.yaml"), "output:\n  indent: 99\n")

	_, code := runCLI(t, "config", "init", "--force")
	assert.Equal(t, oerrors.ExitSuccess, code)
}

func TestConfigVet(t *testing.T) {
	home := testutil.Isolate(t)
	path := filepath.Join(home, ".op3d", "config.yaml")

	_, code := runCLI(t, "config", "vet")
	assert.Equal(t, oerrors.ExitNotFound, code)

	testutil.WriteFile(t, path, "output:\n  indent: 4\n  color: never\n")
	stdout, code := runCLI(t, "config", "vet")
	assert.Equal(t, oerrors.ExitSuccess, code)
	assert.Contains(t, stdout, "Config file is valid")

	testutil.WriteFile(t, path, "output:\n  indent: 99\n")
	_, code = runCLI(t, "config", "vet")
	assert.Equal(t, oerrors.ExitValidation, code)

	testutil.WriteFile(t, path, "output: [\n")
	_, code = runCLI(t, "config", "vet")
	assert.Equal(t, oerrors.ExitInvalidFormat, code)
}

func TestConfigShow(t *testing.T) {
	home := testutil.Isolate(t)
	testutil.WriteFile(t, filepath.Join(home, ".op3d", "config.yaml"), "output:\n  indent: 4\n")
	t.Setenv(config.EnvName(config.KeyCompareSeparator), "/")

	stdout, code := runCLI(t, "config", "show", "--color", "never")
	require.Equal(t, oerrors.ExitSuccess, code)

	assert.Contains(t, stdout, filepath.Join(home, ".op3d", "config.yaml"))
	for _, key := range config.Keys() {
		assert.Contains(t, stdout, key)
	}
	assert.Contains(t, stdout, "config")
	assert.Contains(t, stdout, "env")
	assert.Contains(t, stdout, "flag")
	assert.Contains(t, stdout, "default=auto")
}

func TestConfigShow_YAML(t *testing.T) {
	home := testutil.Isolate(t)
	testutil.WriteFile(t, filepath.Join(home, ".op3d", "config.yaml"), "output:\n  indent: 4\n")
	t.Setenv(config.EnvName(config.KeyCompareSeparator), "/")

	stdout, code := runCLI(t, "config", "show", "-f", "yaml", "--color", "never")
	require.Equal(t, oerrors.ExitSuccess, code)

	n, err := profile.DecodeYAML([]byte(stdout))
	require.NoError(t, err)
	doc, ok := n.(*profile.Map)
	require.True(t, ok)

	path, ok := profile.Get(doc, "config.value")
	require.True(t, ok)
	assert.True(t, profile.Equal(profile.String(filepath.Join(home, ".op3d", "config.yaml")), path))

	values, ok := doc.Get("values")
	require.True(t, ok)
	byKey := make(map[string]*profile.Map)
	for _, item := range values.(*profile.List).Items {
		m := item.(*profile.Map)
		key, _ := m.Get("key")
		byKey[key.(profile.Scalar).String()] = m
	}
	require.Len(t, byKey, len(config.Keys()))

	leaf := func(m *profile.Map, path string) profile.Node {
		t.Helper()
		v, ok := profile.Get(m, path)
		require.True(t, ok, path)
		return v
	}

	sep := byKey[config.KeyCompareSeparator]
	require.NotNil(t, sep)
	assert.True(t, profile.Equal(profile.String("/"), leaf(sep, "value")))
	assert.True(t, profile.Equal(profile.String("env"), leaf(sep, "source")))

	color := byKey[config.KeyOutputColor]
	require.NotNil(t, color)
	assert.True(t, profile.Equal(profile.String("never"), leaf(color, "value")))
	assert.True(t, profile.Equal(profile.String("flag"), leaf(color, "source")))
	assert.True(t, profile.Equal(profile.String("auto"), leaf(color, "shadowed.default")))

	indent := byKey[config.KeyOutputIndent]
	require.NotNil(t, indent)
	assert.True(t, profile.Equal(profile.String("4"), leaf(indent, "value")), "values stay text")
}

func TestConfigShow_InvalidFormat(t *testing.T) {
	testutil.Isolate(t)
	_, code := runCLI(t, "config", "show", "--format", "xml")
	assert.Equal(t, oerrors.ExitUsage, code)
}
