// Package catalog lists the profiles of a tree laid out as
// <kind>/<brand>/*.json.
package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openprint3d/op3d/internal/output"
	"github.com/openprint3d/op3d/internal/profile"
)

// Entry summarizes one profile file.
type Entry struct {
	Kind  profile.Kind
	Brand string
	ID    string
	// Name is the model for printers and the profile name otherwise.
	Name string
	// Detail is kinematics for printers, material for filaments and
	// intent for processes.
	Detail string
	// Size is the build volume for printers, the diameter for filaments
	// and the default layer height for processes.
	Size string
	Path string
}

// Filter narrows Find. Zero values match everything.
type Filter struct {
	Kind  profile.Kind
	Brand string
}

// Find reads every <kind>/<brand>/*.json below baseDir. Unreadable files and
// documents that are not profiles are left out. Entries are ordered by kind,
// then brand, then path.
func Find(baseDir string, f Filter) ([]Entry, error) {
	var out []Entry
	for _, kind := range profile.Kinds() {
		if f.Kind != "" && f.Kind != kind {
			continue
		}
		brands, err := os.ReadDir(filepath.Join(baseDir, kind.String()))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, b := range brands {
			if !b.IsDir() {
				continue
			}
			if f.Brand != "" && !strings.EqualFold(f.Brand, b.Name()) {
				continue
			}
			files, err := filepath.Glob(filepath.Join(baseDir, kind.String(), b.Name(), "*.json"))
			if err != nil {
				return nil, err
			}
			sort.Strings(files)
			for _, file := range files {
				p, err := profile.Load(file)
				if err != nil {
					output.Debug("skipping", "path", file, "err", err)
					continue
				}
				rel, err := filepath.Rel(baseDir, file)
				if err != nil {
					rel = file
				}
				out = append(out, summarize(p, b.Name(), rel))
			}
		}
	}
	return out, nil
}

func summarize(p *profile.Profile, brand, rel string) Entry {
	e := Entry{Kind: p.Kind(), Brand: brand, ID: p.ID(), Path: rel}
	switch p.Kind() {
	case profile.KindPrinter:
		e.Name = p.GetString("model", "Unknown")
		e.Detail = p.GetString("kinematics", "?")
		e.Size = fmt.Sprintf("%sx%sx%s", text(p, "build_volume.x"), text(p, "build_volume.y"), text(p, "build_volume.z"))
	case profile.KindFilament:
		e.Name = p.GetString("name", "")
		e.Detail = p.GetString("material", "")
		e.Size = text(p, "diameter")
	case profile.KindProcess:
		e.Name = p.GetString("name", "")
		e.Detail = p.GetString("intent", "")
		e.Size = text(p, "layer_height.default")
	}
	return e
}

func text(p *profile.Profile, path string) string {
	n, ok := p.Get(path)
	if !ok {
		return "?"
	}
	if s, ok := n.(profile.Scalar); ok {
		return s.String()
	}
	return "?"
}

// Format selects a listing rendering.
type Format string

const (
	FormatTable  Format = "table"
	FormatJSON   Format = "json"
	FormatSimple Format = "simple"
)

// Formats returns the valid listing formats.
func Formats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatSimple)}
}

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatSimple:
		return true
	}
	return false
}

// Write renders entries in the given format.
func Write(w io.Writer, entries []Entry, format Format, indent int) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, entries, indent)
	case FormatSimple:
		for _, e := range entries {
			if _, err := fmt.Fprintln(w, e.Path); err != nil {
				return err
			}
		}
		return nil
	case FormatTable, "":
		return writeTable(w, entries)
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeTable(w io.Writer, entries []Entry) error {
	t := output.NewTable("KIND", "BRAND", "NAME", "DETAIL", "SIZE", "ID")
	for _, e := range entries {
		t.Row(e.Kind.String(), e.Brand, e.Name, e.Detail, e.Size, e.ID)
	}
	t.Footer(fmt.Sprintf("Total: %d profiles", len(entries)))
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func writeJSON(w io.Writer, entries []Entry, indent int) error {
	list := profile.NewList()
	for _, e := range entries {
		list.Items = append(list.Items, profile.NewMap().
			With("type", profile.String(e.Kind.String())).
			With("brand", profile.String(e.Brand)).
			With("id", profile.String(e.ID)).
			With("name", profile.String(e.Name)).
			With("detail", profile.String(e.Detail)).
			With("size", profile.String(e.Size)).
			With("path", profile.String(filepath.ToSlash(e.Path))))
	}
	return profile.EncodeJSON(w, list, indent)
}
