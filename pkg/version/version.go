// Package version reports build information for the imgembed binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time with -ldflags "-X github.com/lucas-albers-lz4/imgembed/pkg/version.Version=v0.3.0 ...".
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// readBuildInfo is swapped out in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info is the build information printed by the version command.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Date      string `json:"date,omitempty" yaml:"date,omitempty"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
}

// normalizeVersion strips a leading 'v' and any build metadata suffix
// starting with '+', so "v0.3.0+dirty" becomes "0.3.0".
func normalizeVersion(v string) string {
	parsed := strings.TrimSpace(v)
	parsed = strings.TrimPrefix(parsed, "v")
	parsed = strings.Split(parsed, "+")[0]
	return parsed
}

// Get returns the build information. Values not injected at link time are
// filled from the module build info when available.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
	}
	bi, ok := readBuildInfo()
	if !ok || bi == nil {
		info.Version = normalizeVersion(info.Version)
		return info
	}
	if (info.Version == "" || info.Version == "dev") && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		}
	}
	info.Version = normalizeVersion(info.Version)
	return info
}

// String renders the info on one line.
func (i Info) String() string {
	s := "imgembed " + i.Version
	if i.Commit != "" {
		commit := i.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		s += fmt.Sprintf(" (%s)", commit)
	}
	if i.Date != "" {
		s += " built " + i.Date
	}
	return s + " " + i.GoVersion
}
