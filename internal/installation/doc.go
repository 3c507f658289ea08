// Package installation resolves the installation root: the directory that
// holds the launcher executable and every file it manages.
package installation
