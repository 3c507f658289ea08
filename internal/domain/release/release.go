package release

import "strings"

// tagPrefix is the optional marker in front of release tags.
const tagPrefix = "v"

// Release is a published release of the tracked project.
type Release struct {
	// Tag is the raw tag name, as used in download URLs.
	Tag string
	// Version is Tag without its leading "v".
	Version string
}

// New builds a Release from a raw tag.
func New(tag string) Release {
	return Release{
		Tag:     tag,
		Version: StripPrefix(tag),
	}
}

// StripPrefix removes a single leading "v" from tag.
// Applying it to a tag without the prefix returns the tag unchanged.
func StripPrefix(tag string) string {
	return strings.TrimPrefix(tag, tagPrefix)
}

// Lookup is the result of asking the release feed for the latest release.
// It is either found or not; every failure collapses into the latter.
type Lookup struct {
	// Release is meaningful only when Found is true.
	Release Release
	// Found reports whether a release was obtained.
	Found bool
	// Cause explains a failed lookup. It is kept for diagnostics only.
	Cause error
}

// Found wraps a successfully obtained release.
func Found(r Release) Lookup {
	return Lookup{Release: r, Found: true}
}

// NotFound records that no release could be obtained and why.
func NotFound(cause error) Lookup {
	return Lookup{Cause: cause}
}

// NeedsUpdate reports whether the lookup names a version different from local.
// Versions are compared as plain strings, without any ordering.
func (l Lookup) NeedsUpdate(local string) bool {
	return l.Found && l.Release.Version != local
}
