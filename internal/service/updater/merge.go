package updater

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/release-launcher/internal/logger"
)

// merge replaces every direct child of the staging directory in the root.
// Only the first level is merged: a staged directory replaces its
// counterpart entirely.
func (a *Applier) merge(ctx context.Context, stagingPath string) error {
	entries, err := os.ReadDir(stagingPath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == StagingDirname || name == ArchiveFilename || name == ExtractionDirname {
			logger.WarnKV(ctx, "Skipping release entry that clashes with a staging artifact", "entry", name)
			continue
		}

		source := filepath.Join(stagingPath, name)
		target := a.root.Path(name)

		switch {
		case entry.IsDir():
			err = replaceDirectory(source, target)
		case entry.Type().IsRegular():
			err = replaceFile(source, target)
		default:
			logger.DebugKV(ctx, "Skipping irregular release entry", "entry", name)
			continue
		}

		if err != nil {
			return fmt.Errorf("replace %s: %w", name, err)
		}

		logger.InfoKV(ctx, "Replaced", "entry", name)
	}

	return nil
}

// replaceFile swaps target for source using go-update, keeping the staged mode.
func replaceFile(source, target string) error {
	info, err := os.Stat(source)
	if err != nil {
		return err
	}

	existing, err := os.Lstat(target)

	switch {
	case err == nil && existing.IsDir():
		if err = os.RemoveAll(target); err != nil {
			return err
		}

		fallthrough
	case errors.Is(err, os.ErrNotExist):
		// go-update moves the current target aside, so one has to exist.
		placeholder, createErr := os.OpenFile(target, os.O_CREATE|os.O_WRONLY, info.Mode().Perm())
		if createErr != nil {
			return createErr
		}

		if err = placeholder.Close(); err != nil {
			return err
		}
	case err != nil:
		return err
	}

	contents, err := os.Open(filepath.Clean(source))
	if err != nil {
		return err
	}

	defer func() {
		_ = contents.Close()
	}()

	options := goupdate.Options{
		TargetPath: target,
		TargetMode: info.Mode().Perm(),
	}

	if err = goupdate.Apply(contents, options); err != nil {
		return err
	}

	removeLeftover(oldPath(target))

	return nil
}

// replaceDirectory moves source into target's place as a single unit.
// The previous target is restored if the move fails.
func replaceDirectory(source, target string) error {
	backup := oldPath(target)
	if err := os.RemoveAll(backup); err != nil {
		return err
	}

	_, err := os.Lstat(target)
	hadTarget := err == nil

	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if hadTarget {
		if err = os.Rename(target, backup); err != nil {
			return err
		}
	}

	if err = os.Rename(source, target); err != nil {
		if hadTarget {
			_ = os.Rename(backup, target)
		}

		return err
	}

	removeLeftover(backup)

	return nil
}

// oldPath is where the previous version of target is parked during a swap.
// It matches the name go-update uses for replaced files.
func oldPath(target string) string {
	return filepath.Join(filepath.Dir(target), "."+filepath.Base(target)+".old")
}

// removeLeftover deletes a parked previous version if one is still there.
func removeLeftover(path string) {
	if _, err := os.Lstat(path); err == nil {
		_ = os.RemoveAll(path)
	}
}
