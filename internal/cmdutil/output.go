package cmdutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/openprint3d/op3d/internal/output"
)

// DocumentWriter sends converted documents either to a directory or, with
// a header line per document, to Out.
type DocumentWriter struct {
	// OutDir receives files; empty means Out.
	OutDir string

	// Out receives documents when OutDir is empty and status lines otherwise.
	Out io.Writer
}

// Write emits one document. name is the file name used under OutDir; header
// titles the document on stdout ("# CURA - PLA.json"). It returns the path
// written, or "" for stdout.
func (w *DocumentWriter) Write(name, header string, data []byte) (string, error) {
	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}

	if w.OutDir == "" {
		_, err := fmt.Fprintf(w.Out, "# %s\n%s\n", header, data)
		return "", err
	}

	if err := os.MkdirAll(w.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(w.OutDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	_, err := fmt.Fprintln(w.Out, output.FormatFileLine(path, output.StatusWritten, ""))
	return path, err
}

// Stem returns the file name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// PrintFailure logs one failed batch item on stderr.
func PrintFailure(path string, err error) {
	output.FileLogger(path).Error("failed", "err", firstLine(err.Error()))
	if rest := moreLines(err.Error()); rest != "" {
		output.Debug("details\n" + rest)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func moreLines(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return ""
}
