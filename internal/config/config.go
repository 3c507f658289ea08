package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/release-launcher/internal/logger"
)

// Config holds the release source and the application command.
type Config struct {
	// Organization is the GitHub owner of the tracked project.
	Organization string `yaml:"organization"`
	// Project is the GitHub repository name of the tracked project.
	Project string `yaml:"project"`
	// ArchivePrefix names the top-level directory inside release archives
	// ("<prefix>-<version>"). Defaults to the lower-cased project name.
	ArchivePrefix string `yaml:"archive_prefix"`
	// APIBaseURL is the root of the release feed API.
	APIBaseURL string `yaml:"api_base_url"`
	// DownloadBaseURL is the root of the archive download host.
	DownloadBaseURL string `yaml:"download_base_url"`
	// Command is the application executable started after the update check.
	Command string `yaml:"command"`
	// Arguments are passed to Command as is.
	Arguments []string `yaml:"arguments"`
	// Timeout limits each HTTP exchange. Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`
	// WriteVersion stores the applied release version in the version file.
	WriteVersion bool `yaml:"write_version"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the settings file looked up in the installation root.
	DefaultConfigFilename = "release-launcher.yaml"

	// DefaultOrganization is the owner of the tracked project.
	DefaultOrganization = "Trenclik"

	// DefaultProject is the tracked project.
	DefaultProject = "KOK"

	// DefaultAPIBaseURL is the GitHub REST API root.
	DefaultAPIBaseURL = "https://api.github.com"

	// DefaultDownloadBaseURL serves source archives by tag.
	DefaultDownloadBaseURL = "https://github.com"

	// DefaultCommand is the interpreter that runs the application.
	DefaultCommand = "python"

	// DefaultScript is the single argument passed to DefaultCommand.
	DefaultScript = "submain_app.py"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errProjectRequired is returned when the organization or project is missing.
	errProjectRequired = errors.New("organization and project must be provided")
	// errCommandRequired is returned when no application command is set.
	errCommandRequired = errors.New("command must be provided")
	// errNegativeTimeout is returned for timeouts below zero.
	errNegativeTimeout = errors.New("timeout must not be negative")
	// errUnknownLogLevel is returned for unsupported log levels.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns the settings used when no settings file exists.
func Default() *Config {
	return &Config{
		Organization:    DefaultOrganization,
		Project:         DefaultProject,
		ArchivePrefix:   strings.ToLower(DefaultProject),
		APIBaseURL:      DefaultAPIBaseURL,
		DownloadBaseURL: DefaultDownloadBaseURL,
		Command:         DefaultCommand,
		Arguments:       []string{DefaultScript},
		LogLevel:        "info",
	}
}

// Load reads configuration from the provided path and validates it.
// Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOptional behaves like Load but returns the defaults when path does not exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills derived defaults.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	settings.Organization = strings.TrimSpace(settings.Organization)
	settings.Project = strings.TrimSpace(settings.Project)

	if settings.Organization == "" || settings.Project == "" {
		return errProjectRequired
	}

	if strings.TrimSpace(settings.Command) == "" {
		return errCommandRequired
	}

	if settings.Timeout < 0 {
		return errNegativeTimeout
	}

	if settings.ArchivePrefix == "" {
		settings.ArchivePrefix = strings.ToLower(settings.Project)
	}

	if settings.APIBaseURL == "" {
		settings.APIBaseURL = DefaultAPIBaseURL
	}

	if settings.DownloadBaseURL == "" {
		settings.DownloadBaseURL = DefaultDownloadBaseURL
	}

	for _, raw := range []string{settings.APIBaseURL, settings.DownloadBaseURL} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return fmt.Errorf("invalid base URL %q: %w", raw, err)
		}
	}

	if settings.LogLevel == "" {
		settings.LogLevel = "info"
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%q: %w", settings.LogLevel, errUnknownLogLevel)
	}

	return nil
}

// ReleasesURL is the release feed endpoint of the tracked project.
func (c *Config) ReleasesURL() string {
	return strings.TrimRight(c.APIBaseURL, "/") + "/repos/" + c.Organization + "/" + c.Project + "/releases"
}

// ArchiveURL is the source archive of the given tag.
func (c *Config) ArchiveURL(tag string) string {
	return strings.TrimRight(c.DownloadBaseURL, "/") + "/" + c.Organization + "/" + c.Project +
		"/archive/" + url.PathEscape(tag) + ".zip"
}
