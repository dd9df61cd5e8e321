package adbfs

import (
	"fmt"
	"runtime"
	"time"
)

var (
	version   = "dev"
	buildDate = ""
	gitCommit = ""
)

type VersionInfo struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
}

func GetVersionInfo() VersionInfo {
	bd := buildDate
	if bd == "" {
		bd = time.Now().Format("2006-01-02")
	}
	return VersionInfo{
		Version:   version,
		BuildDate: bd,
		GitCommit: gitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String formats the version for --version output.
func (v VersionInfo) String() string {
	commit := v.GitCommit
	if commit != "" && len(commit) > 8 {
		commit = commit[:8]
	}
	if commit != "" {
		commit = " (" + commit + ")"
	}
	return fmt.Sprintf("adbfs %s%s (%s, %s) %s",
		v.Version, commit, v.GoVersion, v.Platform, v.BuildDate)
}
