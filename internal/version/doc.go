// Package version exposes build metadata of the launcher binary.
//
// Version, Commit and BuildTime are injected with -ldflags; when they are left
// at their defaults, Commit and BuildTime are filled from the VCS stamp Go
// embeds in module builds. This is the launcher's own version, unrelated to
// the version file of the application it manages.
package version
