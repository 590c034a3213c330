package models

import (
	"fmt"
	"runtime"
)

// BuildInfo describes the running binary. It is constructed once in main
// from link-time variables and passed to whatever displays it.
type BuildInfo struct {
	Name      string
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	OS        string
	Arch      string
}

// NewBuildInfo fills in the runtime fields around the link-time values.
func NewBuildInfo(name, version, commit, buildDate string) BuildInfo {
	if version == "" {
		version = "dev"
	}
	if buildDate == "" {
		buildDate = "unknown"
	}
	return BuildInfo{
		Name:      name,
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Platform returns a short "os/arch" description.
func (b BuildInfo) Platform() string {
	return fmt.Sprintf("%s/%s", b.OS, b.Arch)
}

// String returns the one-line version banner.
func (b BuildInfo) String() string {
	s := fmt.Sprintf("%s %s, %s", b.Name, b.Version, b.Platform())
	if b.Commit != "" {
		s += fmt.Sprintf(" (%s)", b.Commit)
	}
	return s
}
