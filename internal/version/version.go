// Package version provides version information for the op3d CLI.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/openprint3d/op3d/internal/profile"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// cueModule is the module path of the CUE SDK used by the validator.
const cueModule = "cuelang.org/go"

// Info contains version information.
type Info struct {
	// Version is the CLI version (set via ldflags).
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`

	// CUESDKVersion is the CUE SDK version the validator was built with.
	CUESDKVersion string `json:"cueSDKVersion"`

	// SchemaVersion is the profile schema version.
	SchemaVersion string `json:"schemaVersion"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:       Version,
		GitCommit:     GitCommit,
		BuildDate:     BuildDate,
		GoVersion:     runtime.Version(),
		CUESDKVersion: depVersion(cueModule),
		SchemaVersion: profile.SchemaVersion,
	}
}

// depVersion reads a dependency version from the embedded build info.
func depVersion(path string) string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range bi.Deps {
		if dep.Path != path {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return "unknown"
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("op3d version %s\n  Commit:    %s\n  Built:     %s\n  Go:        %s\n  CUE SDK:   %s\n  Schema:    %s",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.CUESDKVersion, i.SchemaVersion)
}
