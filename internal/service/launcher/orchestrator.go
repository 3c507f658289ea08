package launcher

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/oshokin/release-launcher/internal/domain/release"
	"github.com/oshokin/release-launcher/internal/logger"
)

type (
	// versionStore reads the installed version.
	versionStore interface {
		Load(ctx context.Context) (string, error)
	}

	// releaseFeed finds the latest published release.
	releaseFeed interface {
		Latest(ctx context.Context) release.Lookup
	}

	// updateApplier installs a release.
	updateApplier interface {
		Apply(ctx context.Context, r release.Release) error
	}

	// processLauncher runs the application.
	processLauncher interface {
		Launch(ctx context.Context) error
	}
)

// orchestrator drives a single run through its states.
type orchestrator struct {
	versions versionStore
	feed     releaseFeed
	applier  updateApplier
	process  processLauncher

	// visited records every state entered, for logging and tests.
	visited []State
}

// run executes CheckingLocalVersion → CheckingRemoteVersion →
// UpToDate|Updating → Launching → Done.
func (o *orchestrator) run(ctx context.Context) error {
	o.enter(ctx, StateCheckingLocalVersion)

	local, err := o.versions.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: read installed version: %w", ErrConfiguration, err)
	}

	logger.InfoKV(ctx, "Installed version", "version", local)

	o.enter(ctx, StateCheckingRemoteVersion)

	lookup := o.feed.Latest(ctx)

	if lookup.NeedsUpdate(local) {
		o.enter(ctx, StateUpdating)

		logger.InfoKV(ctx, "Update available",
			"installed", local,
			"latest", lookup.Release.Version,
			"direction", direction(local, lookup.Release.Version))

		if err = o.applier.Apply(ctx, lookup.Release); err != nil {
			return fmt.Errorf("%w: %w", ErrUpdateFailed, err)
		}
	} else {
		o.enter(ctx, StateUpToDate)

		if lookup.Found {
			logger.Info(ctx, "No updates available")
		} else {
			logger.InfoKV(ctx, "Latest release unknown, running the installed version", "cause", lookup.Cause)
		}
	}

	o.enter(ctx, StateLaunching)

	if err = o.process.Launch(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}

	o.enter(ctx, StateDone)

	return nil
}

func (o *orchestrator) enter(ctx context.Context, state State) {
	o.visited = append(o.visited, state)
	logger.DebugKV(ctx, "Entering state", "state", state)
}

// direction describes how the latest version relates to the installed one.
// It is informational only; any difference triggers an update.
func direction(installed, latest string) string {
	from, err := semver.NewVersion(installed)
	if err != nil {
		return "unknown"
	}

	to, err := semver.NewVersion(latest)
	if err != nil {
		return "unknown"
	}

	switch {
	case to.GreaterThan(from):
		return "upgrade"
	case to.LessThan(from):
		return "downgrade"
	default:
		return "equivalent"
	}
}
