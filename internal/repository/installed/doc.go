// Package installed persists the version marker of the installed release.
//
// The marker is a plain-text file holding a single version string; it is
// compared verbatim against the latest published release.
package installed
