package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/output"
	"github.com/openprint3d/op3d/internal/testutil"
)

func TestResolveConfigPath(t *testing.T) {
	home := testutil.Isolate(t)
	defaultPath := filepath.Join(home, ".op3d", "config.yaml")

	t.Run("default", func(t *testing.T) {
		r, err := ResolveConfigPath(ResolveConfigPathOptions{})
		require.NoError(t, err)
		assert.Equal(t, defaultPath, r.ConfigPath)
		assert.Equal(t, SourceDefault, r.Source)
		assert.Empty(t, r.Shadowed)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv(EnvConfig, "/env/config.yaml")
		r, err := ResolveConfigPath(ResolveConfigPathOptions{})
		require.NoError(t, err)
		assert.Equal(t, "/env/config.yaml", r.ConfigPath)
		assert.Equal(t, SourceEnv, r.Source)
		assert.Equal(t, defaultPath, r.Shadowed[SourceDefault])
	})

	t.Run("flag", func(t *testing.T) {
		t.Setenv(EnvConfig, "/env/config.yaml")
		r, err := ResolveConfigPath(ResolveConfigPathOptions{FlagValue: "/flag/config.yaml"})
		require.NoError(t, err)
		assert.Equal(t, "/flag/config.yaml", r.ConfigPath)
		assert.Equal(t, SourceFlag, r.Source)
		assert.Equal(t, "/env/config.yaml", r.Shadowed[SourceEnv])
	})
}

func TestResolveAll_Defaults(t *testing.T) {
	testutil.Isolate(t)

	r, err := ResolveAll(ResolveAllOptions{})
	require.NoError(t, err)

	assert.True(t, r.Timestamps)
	assert.Equal(t, 2, r.Indent)
	assert.Equal(t, output.ColorAuto, r.Color)
	assert.Equal(t, ".", r.ProfilesDir)
	assert.Equal(t, ".", r.Separator)
	assert.Equal(t, SourceDefault, r.ConfigPath.Source)
	require.Len(t, r.Values, len(Keys()))
	for _, v := range r.Values {
		assert.Equal(t, SourceDefault, v.Source, v.Key)
	}
}

func TestResolveAll_Precedence(t *testing.T) {
	testutil.Isolate(t)
	path := writeConfig(t, "output:\n  indent: 4\n  color: never\ncompare:\n  separator: /\n")
	t.Setenv("OP3D_OUTPUT_INDENT", "6")

	r, err := ResolveAll(ResolveAllOptions{
		ConfigFlag: path,
		Flags:      map[string]string{KeyOutputIndent: "1"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, r.Indent)
	indent, ok := r.Value(KeyOutputIndent)
	require.True(t, ok)
	assert.Equal(t, SourceFlag, indent.Source)
	assert.Equal(t, "6", indent.Shadowed[SourceEnv])

	assert.Equal(t, output.ColorNever, r.Color)
	color, _ := r.Value(KeyOutputColor)
	assert.Equal(t, SourceConfig, color.Source)

	assert.Equal(t, "/", r.Separator)
	assert.Equal(t, SourceFlag, r.ConfigPath.Source)
}

func TestResolveAll_ExpandsProfilesDir(t *testing.T) {
	home := testutil.Isolate(t)
	t.Setenv("OP3D_PROFILES_DIR", "~/profiles")

	r, err := ResolveAll(ResolveAllOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "profiles"), r.ProfilesDir)
}

func TestResolveAll_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts func(t *testing.T) ResolveAllOptions
		is   error
	}{
		{
			name: "bad flag value",
			opts: func(t *testing.T) ResolveAllOptions {
				return ResolveAllOptions{Flags: map[string]string{KeyOutputIndent: "wide"}}
			},
			is: oerrors.ErrUsage,
		},
		{
			name: "schema violation",
			opts: func(t *testing.T) ResolveAllOptions {
				return ResolveAllOptions{ConfigFlag: writeConfig(t, "output:\n  indent: 40\n")}
			},
			is: oerrors.ErrUsage,
		},
		{
			name: "unparseable file",
			opts: func(t *testing.T) ResolveAllOptions {
				return ResolveAllOptions{ConfigFlag: writeConfig(t, "output: [\n")}
			},
			is: oerrors.ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.Isolate(t)
			_, err := ResolveAll(tt.opts(t))
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestResolvedConfig_Config(t *testing.T) {
	testutil.Isolate(t)
	r, err := ResolveAll(ResolveAllOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), r.Config())
}
