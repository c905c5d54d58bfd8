// Package version reports build metadata. Release builds set Date, Commit and
// Branch with -ldflags "-X"; dev builds fall back to the VCS stamp the Go
// toolchain embeds.
package version

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

// Name is reported by /version and the startup log.
const Name = "dwarf-and-blade"

var (
	Date   string // YYYY-MM-DD, UTC
	Commit string
	Branch string
)

// Номер сборки = дни с первого коммита карты боя.
var epoch = time.Date(2019, time.November, 3, 0, 0, 0, 0, time.UTC)

var ErrNoDate = errors.New("build date unknown")

// BuildInfo is what /version returns.
type BuildInfo struct {
	Name      string `json:"name"`
	Number    int    `json:"number"`
	Date      string `json:"date,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Branch    string `json:"branch,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
	GoVersion string `json:"goVersion,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BuildNumber converts a YYYY-MM-DD date to days since the epoch.
func BuildNumber(date string) (int, error) {
	if date == "" {
		return 0, ErrNoDate
	}
	t, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("build date %q: %w", date, err)
	}
	if t.Before(epoch) {
		return 0, fmt.Errorf("build date %s precedes %s", date, epoch.Format(time.DateOnly))
	}
	return int(t.Sub(epoch) / (24 * time.Hour)), nil
}

// Current merges the ldflags values with the embedded VCS stamp.
func Current() BuildInfo {
	info := BuildInfo{Name: Name, Date: Date, Commit: Commit, Branch: Branch}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		fillFromVCS(&info, bi.Settings)
	}

	n, err := BuildNumber(info.Date)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Number = n
	return info
}

// fillFromVCS заполняет только пустые поля: ldflags важнее.
func fillFromVCS(info *BuildInfo, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" && len(s.Value) >= len(time.DateOnly) {
				info.Date = s.Value[:len(time.DateOnly)]
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
}

func (b BuildInfo) String() string {
	if b.Error != "" {
		return fmt.Sprintf("%s (unnumbered build: %s)", b.Name, b.Error)
	}
	commit := b.Commit
	if commit == "" {
		commit = "unknown"
	} else if len(commit) > 12 {
		commit = commit[:12]
	}
	if b.Dirty {
		commit += "+dirty"
	}
	s := fmt.Sprintf("%s #%d %s %s", b.Name, b.Number, b.Date, commit)
	if b.Branch != "" {
		s += " on " + b.Branch
	}
	return s
}
