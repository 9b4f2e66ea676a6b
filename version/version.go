// package version exposes the build metadata stamped into the husk binary.
package version

import (
	"runtime/debug"
	"strings"
)

// Set via -ldflags at release time, e.g.
//
//	go build -ldflags "-X github.com/husklabs/husk/version.Version=v0.3.0"
//
// Unset values fall back to whatever debug.ReadBuildInfo can recover.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info is the resolved build metadata for this binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"goVersion,omitempty"`
}

// Get returns the build metadata, filling gaps from debug.ReadBuildInfo when
// the ldflags were not set (go install, local go build).
func Get() Info {
	ret := Info{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ret
	}
	ret.GoVersion = buildInfo.GoVersion
	if ret.Version == "dev" && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		ret.Version = buildInfo.Main.Version
	}

	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if ret.Commit == "" {
				ret.Commit = setting.Value
			}
		case "vcs.time":
			if ret.Date == "" {
				ret.Date = setting.Value
			}
		case "vcs.modified":
			ret.Modified = setting.Value == "true"
		}
	}
	return ret
}

// String renders the info the way `husk version` prints its first line.
func (v Info) String() string {
	var b strings.Builder
	b.WriteString(v.Version)
	if v.Commit != "" {
		short := v.Commit
		if len(short) > 12 {
			short = short[:12]
		}
		b.WriteString(" (")
		b.WriteString(short)
		if v.Modified {
			b.WriteString("+dirty")
		}
		b.WriteString(")")
	}
	if v.Date != "" {
		b.WriteString(" built ")
		b.WriteString(v.Date)
	}
	return b.String()
}
