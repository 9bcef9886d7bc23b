// Package version reports the build of the running binary.
package version

import (
	"errors"
	"runtime/debug"
)

var (
	ErrNoBuildInfo    = errors.New("fetching build info failed")
	ErrEmptyBuildInfo = errors.New("build information is empty")
)

// BuildInfo returns the build information
func BuildInfo() (*debug.BuildInfo, error) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrNoBuildInfo
	}

	if bi == nil {
		return nil, ErrEmptyBuildInfo
	}

	return bi, nil
}

// Summary describes a build: the main module version, the VCS revision when
// it was stamped and the Go version.
type Summary struct {
	Module    string
	Version   string
	Revision  string
	Modified  bool
	GoVersion string
}

// Summarize extracts the Summary of bi.
func Summarize(bi *debug.BuildInfo) Summary {
	s := Summary{
		Module:    bi.Main.Path,
		Version:   bi.Main.Version,
		GoVersion: bi.GoVersion,
	}

	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			s.Revision = setting.Value
		case "vcs.modified":
			s.Modified = setting.Value == "true"
		}
	}

	if s.Version == "" {
		s.Version = "(devel)"
	}

	return s
}

func (s Summary) String() string {
	out := s.Module + " " + s.Version
	if s.Revision != "" {
		out += " " + s.Revision
		if s.Modified {
			out += "+dirty"
		}
	}

	return out + " " + s.GoVersion
}
