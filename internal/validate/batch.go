package validate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/openprint3d/op3d/internal/output"
	"github.com/openprint3d/op3d/internal/profile"
)

// Result is the outcome for one file.
type Result struct {
	// Path is the file as found; Rel is relative to the batch base directory.
	Path string
	Rel  string
	Kind profile.Kind
	Err  error
}

// OK reports whether the file passed.
func (r Result) OK() bool {
	return r.Err == nil
}

// Report holds the per-file results of a batch in processing order.
type Report struct {
	Results []Result
}

// Passed counts passing files.
func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}

// Failed counts failing files.
func (r *Report) Failed() int {
	return len(r.Results) - r.Passed()
}

// Find lists the profile files of a tree laid out as <kind>/.../*.json, in
// printer, filament, process order. Missing kind directories are skipped.
func Find(baseDir string) ([]Result, error) {
	var out []Result
	for _, kind := range profile.Kinds() {
		dir := filepath.Join(baseDir, kind.String())
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".json" {
				return nil
			}
			rel, err := filepath.Rel(baseDir, path)
			if err != nil {
				rel = path
			}
			out = append(out, Result{Path: path, Rel: rel, Kind: kind})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", dir, err)
		}
	}
	return out, nil
}

// Batch validates every profile Find returns. Each file is checked on its
// own; a failure never stops the batch.
func Batch(v Validator, baseDir string) (*Report, error) {
	files, err := Find(baseDir)
	if err != nil {
		return nil, err
	}
	report := &Report{Results: make([]Result, 0, len(files))}
	for _, f := range files {
		f.Err = checkFile(v, f.Path, f.Kind)
		report.Results = append(report.Results, f)
	}
	return report, nil
}

// Files validates explicit paths. The kind comes from each document.
func Files(v Validator, paths []string) *Report {
	report := &Report{Results: make([]Result, 0, len(paths))}
	for _, path := range paths {
		res := Result{Path: path, Rel: path}
		res.Err = checkFile(v, path, "")
		report.Results = append(report.Results, res)
	}
	return report
}

// checkFile loads and validates one file. A non-empty want is the kind the
// file's location implies.
func checkFile(v Validator, path string, want profile.Kind) error {
	log := output.FileLogger(path)
	p, err := profile.Load(path)
	if err != nil {
		log.Debug("load failed", "err", err)
		return err
	}
	if want != "" && p.Kind() != want {
		return fmt.Errorf("%w: %s profile stored under %s/", ErrInvalid, p.Kind(), want)
	}
	if err := v.Validate(p); err != nil {
		log.Debug("validation failed", "err", err)
		return err
	}
	return nil
}
