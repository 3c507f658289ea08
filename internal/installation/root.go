package installation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	errEmptyRoot    = errors.New("installation root is empty")
	errNotDirectory = errors.New("not a directory")
)

// Root is the absolute path of the installation directory.
// Relative names (version file, archive, staging directory) resolve against it.
type Root string

// FromExecutable returns the directory that contains the running executable.
func FromExecutable() (Root, error) {
	executable, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}

	if resolved, err := filepath.EvalSymlinks(executable); err == nil {
		executable = resolved
	}

	return New(filepath.Dir(executable))
}

// New validates dir and returns it as an absolute Root.
func New(dir string) (Root, error) {
	if dir == "" {
		return "", errEmptyRoot
	}

	absolute, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve installation root: %w", err)
	}

	info, err := os.Stat(absolute)
	if err != nil {
		return "", fmt.Errorf("stat installation root: %w", err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("installation root %s: %w", absolute, errNotDirectory)
	}

	return Root(absolute), nil
}

// Path joins name onto the root.
func (r Root) Path(name string) string {
	return filepath.Join(string(r), name)
}

// String returns the root as a plain path.
func (r Root) String() string {
	return string(r)
}
