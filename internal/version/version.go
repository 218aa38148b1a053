// Package version provides centralized version management for EchoIDE.
// It supports semantic versioning and build-time injection via -ldflags.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Build information that can be set at compile time via -ldflags.
var (
	// Version is the semantic version of the application.
	Version = "0.1.0"

	// GitCommit is the git commit hash when the binary was built.
	GitCommit = "unknown"

	// BuildDate is the date when the binary was built.
	BuildDate = "unknown"
)

// Info represents comprehensive version information.
type Info struct {
	Version   string          `json:"version"`
	GitCommit string          `json:"gitCommit"`
	BuildDate string          `json:"buildDate"`
	GoVersion string          `json:"goVersion"`
	Platform  string          `json:"platform"`
	SemVer    *semver.Version `json:"-"`
}

// Get returns the full version information for the current build.
// An unparsable Version leaves SemVer nil rather than failing.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if v, err := semver.NewVersion(Version); err == nil {
		info.SemVer = v
	}
	return info
}

// String returns the short human-readable version line.
func (i Info) String() string {
	return fmt.Sprintf("EchoIDE v%s (%s, built %s)", i.Version, i.GitCommit, i.BuildDate)
}

// IsValid reports whether the configured Version parses as semantic versioning.
func IsValid() bool {
	_, err := semver.NewVersion(Version)
	return err == nil
}

// Compare compares the current version against other, returning -1, 0, or 1.
// Invalid input is reported as an error instead of a panic.
func Compare(other string) (int, error) {
	current, err := semver.NewVersion(Version)
	if err != nil {
		return 0, fmt.Errorf("invalid current version %q: %w", Version, err)
	}
	target, err := semver.NewVersion(other)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", other, err)
	}
	return current.Compare(target), nil
}
