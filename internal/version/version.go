package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const unknown = "unknown"

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time.
	Commit = unknown
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = unknown
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit, build time and toolchain.
func Full() string {
	commit, builtAt := Commit, BuildTime

	if commit == unknown || builtAt == unknown {
		vcsCommit, vcsTime := fromBuildInfo()

		if commit == unknown && vcsCommit != "" {
			commit = vcsCommit
		}

		if builtAt == unknown && vcsTime != "" {
			builtAt = vcsTime
		}
	}

	return fmt.Sprintf("version: %s, commit: %s, built at: %s, go: %s",
		Version, commit, builtAt, runtime.Version())
}

// fromBuildInfo reads the VCS revision and time stamped by the go tool.
func fromBuildInfo() (string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}

	var revision, modified string

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.time":
			modified = setting.Value
		}
	}

	const shortSHA = 7
	if len(revision) > shortSHA {
		revision = revision[:shortSHA]
	}

	return revision, modified
}
