package installed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// VersionFilename is the marker file inside the installation root.
const VersionFilename = "version"

// versionFileMode is used when the marker is rewritten.
const versionFileMode = 0o644

// Repository defines access to the installed version marker.
type Repository interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, version string) error
}

// FileRepository reads and writes the version marker on disk.
type FileRepository struct {
	// path is the filesystem location of the marker.
	path string
}

// ErrNotFound is returned when the marker does not exist.
var ErrNotFound = errors.New("version file not found")

// NewFileRepository creates a repository for the marker at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the marker location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load returns the marker contents with surrounding whitespace trimmed.
func (r *FileRepository) Load(_ context.Context) (string, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", r.path, ErrNotFound)
		}

		return "", fmt.Errorf("read version file: %w", err)
	}

	return strings.TrimSpace(string(contents)), nil
}

// Save replaces the marker with version followed by a newline.
func (r *FileRepository) Save(_ context.Context, version string) error {
	data := []byte(strings.TrimSpace(version) + "\n")

	if err := os.WriteFile(r.path, data, versionFileMode); err != nil {
		return fmt.Errorf("write version file: %w", err)
	}

	return nil
}
