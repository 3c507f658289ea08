package release

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestStripPrefix verifies single-prefix removal and idempotence.
func TestStripPrefix(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"v1.2.0":  "1.2.0",
		"1.2.0":   "1.2.0",
		"vv1.2.0": "v1.2.0",
		"v":       "",
		"":        "",
		"V1.2.0":  "V1.2.0",
	}
	for in, want := range cases {
		require.Equal(t, want, StripPrefix(in), in)
		require.Equal(t, StripPrefix(want), StripPrefix(StripPrefix(want)))
	}
}

// TestNew keeps the raw tag next to the stripped version.
func TestNew(t *testing.T) {
	t.Parallel()

	r := New("v1.1.0")
	require.Equal(t, "v1.1.0", r.Tag)
	require.Equal(t, "1.1.0", r.Version)
}

// TestLookup_NeedsUpdate covers the update decision table.
func TestLookup_NeedsUpdate(t *testing.T) {
	t.Parallel()

	require.False(t, Found(New("v1.0.0")).NeedsUpdate("1.0.0"))
	require.False(t, Found(New("1.0.0")).NeedsUpdate("1.0.0"))
	require.True(t, Found(New("v1.1.0")).NeedsUpdate("1.0.0"))
	// No ordering: an older remote still differs.
	require.True(t, Found(New("v0.9.0")).NeedsUpdate("1.0.0"))

	missing := NotFound(errors.New("offline"))
	require.False(t, missing.Found)
	require.False(t, missing.NeedsUpdate("1.0.0"))
	require.EqualError(t, missing.Cause, "offline")
}
