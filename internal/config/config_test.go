package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)

	// Missing project.
	settings := &Config{Organization: "Trenclik", Command: "python"}
	require.ErrorIs(t, Validate(settings), errProjectRequired)

	// Missing command.
	settings = &Config{Organization: "Trenclik", Project: "KOK"}
	require.ErrorIs(t, Validate(settings), errCommandRequired)

	// Negative timeout.
	settings = &Config{Organization: "Trenclik", Project: "KOK", Command: "python", Timeout: -time.Second}
	require.ErrorIs(t, Validate(settings), errNegativeTimeout)

	// Bad log level.
	settings = &Config{Organization: "Trenclik", Project: "KOK", Command: "python", LogLevel: "loud"}
	require.ErrorIs(t, Validate(settings), errUnknownLogLevel)

	// Bad base URL.
	settings = &Config{Organization: "Trenclik", Project: "KOK", Command: "python", APIBaseURL: "not a url"}
	require.Error(t, Validate(settings))

	// Derived defaults.
	settings = &Config{Organization: " Trenclik ", Project: "KOK", Command: "python"}
	require.NoError(t, Validate(settings))
	require.Equal(t, "Trenclik", settings.Organization)
	require.Equal(t, "kok", settings.ArchivePrefix)
	require.Equal(t, DefaultAPIBaseURL, settings.APIBaseURL)
	require.Equal(t, DefaultDownloadBaseURL, settings.DownloadBaseURL)
	require.Equal(t, "info", settings.LogLevel)
}

// TestURLs verifies the feed and archive endpoints built from the settings.
func TestURLs(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.Equal(t, "https://api.github.com/repos/Trenclik/KOK/releases", cfg.ReleasesURL())
	require.Equal(t, "https://github.com/Trenclik/KOK/archive/v1.1.0.zip", cfg.ArchiveURL("v1.1.0"))

	cfg.DownloadBaseURL = "http://127.0.0.1:8080/"
	require.Equal(t, "http://127.0.0.1:8080/Trenclik/KOK/archive/1.1.0.zip", cfg.ArchiveURL("1.1.0"))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultConfigFilename)

	settings := Default()
	settings.Project = "Other"
	settings.ArchivePrefix = "other"
	settings.Arguments = []string{"main.py", "--fast"}
	settings.Timeout = 30 * time.Second
	settings.WriteVersion = true

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoad_PartialFileKeepsDefaults checks that omitted keys keep their default values.
func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte("command: python3\ntimeout: 5s\n"), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "python3", loaded.Command)
	require.Equal(t, []string{DefaultScript}, loaded.Arguments)
	require.Equal(t, 5*time.Second, loaded.Timeout)
	require.Equal(t, DefaultProject, loaded.Project)
}

// TestLoadOptional verifies that only a missing file falls back to defaults.
func TestLoadOptional(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := LoadOptional(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("arguments: {"), 0o600))

	_, err = LoadOptional(broken)
	require.Error(t, err)
}
