// Package buildinfo reports which sysdesign build is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/sysdesign/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/sysdesign/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/sysdesign/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds fall back to what the toolchain recorded: the module
// version for `go install`, the VCS revision and time for a checkout.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Stamped by ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the resolved build stamp.
type Info struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
}

// Read resolves the build stamp. Stamped values win over recorded ones.
func Read() Info {
	bi, _ := debug.ReadBuildInfo()
	return resolve(bi)
}

func resolve(bi *debug.BuildInfo) Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	if bi == nil {
		return info
	}
	info.GoVersion = bi.GoVersion
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "none":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == "unknown":
			info.Date = s.Value
		}
	}
	return info
}

// Short returns the version with a seven character commit, like
// "v1.2.0 (3f2a9c1)".
func (i Info) Short() string {
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", i.Version, commit)
}

// Template returns the cobra version template.
func Template() string {
	i := Read()
	s := fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
	if i.GoVersion != "" {
		s += "go: " + i.GoVersion + "\n"
	}
	return s
}
