package version

import (
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info describes the running binary.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit"`
	BuildTime string    `json:"build_time"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"build_date"`
	IsRelease bool      `json:"is_release"`
	IsDirty   bool      `json:"is_dirty"`
}

// Get returns build information, filling gaps from the embedded VCS stamp.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}

	if bi, ok := readBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = s.Value
				}
			case "vcs.modified":
				info.IsDirty = s.Value == "true"
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			}
		}
	}

	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	if t, err := time.Parse(time.RFC3339, info.BuildTime); err == nil {
		info.BuildDate = t
	}
	info.IsRelease = info.Version != "dev" && !info.IsDirty && !strings.Contains(info.Version, "dirty")
	return info
}

// Short returns "<version>" or "<version>-<commit>[-dirty]".
func Short() string {
	info := Get()
	if info.GitCommit == "" {
		return info.Version
	}
	s := info.Version + "-" + info.GitCommit
	if info.IsDirty {
		s += "-dirty"
	}
	return s
}

// String returns Short plus the build date when known.
func String() string {
	info := Get()
	s := Short()
	if !info.BuildDate.IsZero() {
		s += " (built " + info.BuildDate.UTC().Format(time.RFC3339) + ")"
	}
	if info.GoVersion != "" {
		s += " " + info.GoVersion
	}
	return s
}

// UserAgent returns "<name>/<version>" for outbound requests.
func UserAgent(name string) string {
	return name + "/" + Version
}
