package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/javabind/ir"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash        string `json:"commit_hash"`
	BuildTime         string `json:"build_time"`
	Version           string `json:"version"`
	DescriptionFormat string `json:"description_format"`
	GoVersion         string `json:"go_version"`
	Platform          string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash:        CommitHash,
		BuildTime:         BuildTime,
		Version:           Version,
		DescriptionFormat: ir.FormatConstraint,
		GoVersion:         runtime.Version(),
		Platform:          fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Tagged reports whether Version is a release version rather than a dev build
func (i Info) Tagged() bool {
	_, err := semver.NewVersion(i.Version)
	return err == nil
}

// String returns a human-readable version string
func (i Info) String() string {
	if i.Tagged() {
		return fmt.Sprintf("javabind %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
	}
	return fmt.Sprintf("javabind dev (commit %s, built %s)", i.Short(), i.BuildTime)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
