// Package updater downloads a release archive and merges it into the
// installation root.
//
// The archive is saved as update.zip and extracted next to the installation.
// Its top-level directory is renamed to temp, and every direct child of temp
// then replaces the entry of the same name in the root. Files are swapped in
// with go-update. Directories are swapped as a whole by rename. The archive and
// the staging directory are removed when the attempt ends.
package updater
