package updater

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/release-launcher/internal/logger"
)

// commLength is how many bytes of a process name Linux keeps in /proc/<pid>/stat.
const commLength = 15

// warnAboutOtherInstances logs a warning when another copy of the running
// executable is alive. Concurrent launchers on one root race on the merge.
func (a *Applier) warnAboutOtherInstances(ctx context.Context) {
	executable, err := os.Executable()
	if err != nil {
		return
	}

	name := filepath.Base(executable)

	count, err := countOtherInstances(name)
	if err != nil {
		logger.DebugKV(ctx, "Unable to list processes", "error", err)
		return
	}

	if count > 0 {
		logger.WarnKV(ctx, "Another launcher instance is running, concurrent updates are unsupported",
			"executable", name, "instances", count)
	}
}

// countOtherInstances returns the number of processes named like executable,
// excluding the current one.
func countOtherInstances(executable string) (int, error) {
	processList, err := ps.Processes()
	if err != nil {
		return 0, err
	}

	var (
		thisProcessID = os.Getpid()
		count         int
	)

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if sameExecutable(process.Executable(), executable) {
			count++
		}
	}

	return count, nil
}

// sameExecutable compares a process name with an executable base name,
// accounting for the truncation Linux applies to long names.
func sameExecutable(processName, executable string) bool {
	if processName == "" {
		return false
	}

	if processName == executable {
		return true
	}

	return len(processName) == commLength && strings.HasPrefix(executable, processName)
}
