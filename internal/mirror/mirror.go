// Package mirror converts profile documents between JSON and YAML. Only
// files that already look like profiles are touched.
package mirror

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/openprint3d/op3d/internal/output"
	"github.com/openprint3d/op3d/internal/profile"
)

// ErrNotProfile is returned when a file is not a recognized profile.
var ErrNotProfile = errors.New("not a profile")

// Direction is a conversion direction.
type Direction string

const (
	JSONToYAML Direction = "json2yaml"
	YAMLToJSON Direction = "yaml2json"
)

// Directions returns the valid directions.
func Directions() []string {
	return []string{string(JSONToYAML), string(YAMLToJSON)}
}

// ParseDirection parses "json2yaml" or "yaml2json".
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case JSONToYAML, YAMLToJSON:
		return d, nil
	}
	return "", fmt.Errorf("unknown conversion %q (want one of %s)", s, strings.Join(Directions(), ", "))
}

// Source returns the format read by the direction.
func (d Direction) Source() profile.Format {
	if d == YAMLToJSON {
		return profile.FormatYAML
	}
	return profile.FormatJSON
}

// Target returns the format written by the direction.
func (d Direction) Target() profile.Format {
	if d == YAMLToJSON {
		return profile.FormatJSON
	}
	return profile.FormatYAML
}

// Detect reports whether path holds a profile: a JSON or YAML object whose
// discriminator names a known kind. Unreadable or unparseable files are not
// profiles.
func Detect(path string) bool {
	format, err := profile.FormatForPath(path)
	if err != nil {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	decode := profile.DecodeJSON
	if format == profile.FormatYAML {
		decode = profile.DecodeYAML
	}
	n, err := decode(data)
	if err != nil {
		return false
	}
	m, ok := n.(*profile.Map)
	if !ok {
		return false
	}
	_, ok = profile.DocumentKind(m)
	return ok
}

// TargetPath returns where ConvertFile writes path: beside it when outDir
// is empty, otherwise inside outDir, with the target extension.
func TargetPath(path string, d Direction, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + d.Target().Ext()
	if outDir == "" {
		return filepath.Join(filepath.Dir(path), base)
	}
	return filepath.Join(outDir, base)
}

// ConvertFile converts one profile file and returns the written path. The
// target is produced with a single write.
func ConvertFile(path string, d Direction, outDir string, indent int) (string, error) {
	format, err := profile.FormatForPath(path)
	if err != nil {
		return "", err
	}
	if format != d.Source() {
		return "", fmt.Errorf("%s expects a %s file, got %s", d, d.Source(), filepath.Base(path))
	}
	if !Detect(path) {
		return "", fmt.Errorf("%s: %w", path, ErrNotProfile)
	}

	n, err := profile.ReadFile(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := profile.Encode(&buf, n, d.Target(), indent); err != nil {
		return "", fmt.Errorf("encoding %s: %w", path, err)
	}

	target := TargetPath(path, d, outDir)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}
	if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", target, err)
	}
	return target, nil
}

// Options configures ConvertTree.
type Options struct {
	// OutDir mirrors the input layout under this directory. Empty writes
	// each output beside its input.
	OutDir string

	// Recursive descends into subdirectories.
	Recursive bool

	// Indent is the JSON indent width.
	Indent int
}

// Result is the outcome for one file.
type Result struct {
	Source string
	Target string
	Err    error
}

// Report collects the outcome of a tree conversion.
type Report struct {
	Converted []Result
	Failed    []Result
	Skipped   []string
}

// OK reports whether no file failed.
func (r *Report) OK() bool {
	return len(r.Failed) == 0
}

// ConvertTree converts root, a file or a directory. Directories are walked
// in lexical order and each file is handled on its own: a failure is
// recorded and the walk continues. Files that are not profiles are skipped.
func ConvertTree(root string, d Direction, opts Options) (*Report, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	if !info.IsDir() {
		convertOne(report, root, d, opts.OutDir, opts.Indent)
		return report, nil
	}

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			output.FileLogger(path).Warn("cannot read", "err", err)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			if path != root && !opts.Recursive {
				return fs.SkipDir
			}
			return nil
		}
		format, err := profile.FormatForPath(path)
		if err != nil || format != d.Source() {
			return nil
		}

		outDir := ""
		if opts.OutDir != "" {
			rel, err := filepath.Rel(root, filepath.Dir(path))
			if err != nil {
				return err
			}
			outDir = filepath.Join(opts.OutDir, rel)
		}
		convertOne(report, path, d, outDir, opts.Indent)
		return nil
	})
	return report, err
}

func convertOne(report *Report, path string, d Direction, outDir string, indent int) {
	log := output.FileLogger(path)
	if !Detect(path) {
		log.Debug("skipping, not a profile")
		report.Skipped = append(report.Skipped, path)
		return
	}
	target, err := ConvertFile(path, d, outDir, indent)
	if err != nil {
		log.Error("conversion failed", "err", err)
		report.Failed = append(report.Failed, Result{Source: path, Err: err})
		return
	}
	log.Debug("converted", "target", target)
	report.Converted = append(report.Converted, Result{Source: path, Target: target})
}
