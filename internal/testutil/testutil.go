// Package testutil provides test helpers for op3d package and CLI tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openprint3d/op3d/internal/profile"
)

// Isolate points HOME at a fresh temp directory and unsets every OP3D_*
// variable for the duration of the test. It returns the new HOME.
func Isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "OP3D_") {
			// Setenv registers the restore; Unsetenv makes the variable absent.
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	return home
}

// WriteFile creates path and its parent directories with content.
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// WriteProfile stores a default profile of kind at path after applying
// sets, keyed by dotted path.
func WriteProfile(t *testing.T, path string, kind profile.Kind, sets map[string]profile.Node) string {
	t.Helper()
	p, err := profile.New(kind)
	if err != nil {
		t.Fatalf("failed to create %s profile: %v", kind, err)
	}
	for k, v := range sets {
		if err := p.Set(k, v); err != nil {
			t.Fatalf("failed to set %s: %v", k, err)
		}
	}
	var buf bytes.Buffer
	if err := profile.EncodeJSON(&buf, p.Root(), 2); err != nil {
		t.Fatalf("failed to encode profile: %v", err)
	}
	return WriteFile(t, path, buf.String())
}
