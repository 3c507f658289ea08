package updater

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/release-launcher/internal/logger"
)

const (
	extractedDirMode  os.FileMode = 0o755
	extractedFileMode os.FileMode = 0o644
)

var errUnsafeEntry = errors.New("archive entry escapes the destination")

// extractArchive unpacks every entry of the zip file at archivePath into
// destination. Symbolic links are skipped.
func extractArchive(archivePath, destination string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		// ErrInsecurePath comes with an open reader.
		if reader != nil {
			_ = reader.Close()
		}

		return err
	}

	defer func() {
		_ = reader.Close()
	}()

	for _, file := range reader.File {
		name, err := localName(file.Name)
		if err != nil {
			return err
		}

		target := filepath.Join(destination, name)
		mode := file.Mode()

		switch {
		case mode.IsDir():
			err = os.MkdirAll(target, extractedDirMode)
		case mode&os.ModeSymlink != 0:
			continue
		default:
			err = extractFile(file, target)
		}

		if err != nil {
			return fmt.Errorf("%s: %w", file.Name, err)
		}
	}

	return nil
}

// localName validates an archive entry name and converts it to a relative OS path.
func localName(entryName string) (string, error) {
	name := filepath.Clean(filepath.FromSlash(strings.TrimSuffix(entryName, "/")))
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%q: %w", entryName, errUnsafeEntry)
	}

	return name, nil
}

// extractFile writes a single regular archive entry to target.
func extractFile(file *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), extractedDirMode); err != nil {
		return err
	}

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = extractedFileMode
	}

	source, err := file.Open()
	if err != nil {
		return err
	}

	defer func() {
		_ = source.Close()
	}()

	output, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	//nolint:gosec // Release archives come from the tracked project; size is not limited.
	if _, err = io.Copy(output, source); err != nil {
		_ = output.Close()

		return err
	}

	return output.Close()
}

// stage moves the release directory found in extractionPath to the staging name.
func (a *Applier) stage(ctx context.Context, version, extractionPath string) error {
	name, err := a.locateExtracted(version, extractionPath)
	if err != nil {
		return err
	}

	stagingPath := a.root.Path(StagingDirname)
	if err = os.RemoveAll(stagingPath); err != nil {
		return fmt.Errorf("remove stale staging directory: %w", err)
	}

	logger.DebugKV(ctx, "Staging extracted release", "from", name, "to", StagingDirname)

	return os.Rename(filepath.Join(extractionPath, name), stagingPath)
}

// locateExtracted finds "<prefix>-<version>" in extractionPath, falling back
// to a case-insensitive match.
func (a *Applier) locateExtracted(version, extractionPath string) (string, error) {
	expected := a.cfg.ArchivePrefix + "-" + version

	if info, err := os.Stat(filepath.Join(extractionPath, expected)); err == nil && info.IsDir() {
		return expected, nil
	}

	entries, err := os.ReadDir(extractionPath)
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		if entry.IsDir() && strings.EqualFold(entry.Name(), expected) {
			return entry.Name(), nil
		}
	}

	return "", fmt.Errorf("%s: %w", expected, errNoExtractedDirectory)
}
