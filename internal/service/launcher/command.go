package launcher

import (
	"context"
	"fmt"
	"net/http"

	"github.com/oshokin/release-launcher/internal/config"
	"github.com/oshokin/release-launcher/internal/installation"
	"github.com/oshokin/release-launcher/internal/logger"
	"github.com/oshokin/release-launcher/internal/repository/installed"
	"github.com/oshokin/release-launcher/internal/service/feed"
	"github.com/oshokin/release-launcher/internal/service/process"
	"github.com/oshokin/release-launcher/internal/service/updater"
	"github.com/oshokin/release-launcher/internal/version"
)

// Options are inputs accepted by the launcher entry point.
type Options struct {
	// ConfigPath is an optional settings file. When empty, the default file in
	// the installation root is used if it exists.
	ConfigPath string
	// Root overrides the installation root. When empty, the directory of the
	// running executable is used.
	Root string
}

// Run performs one launcher run and is the public entry point for the CLI.
// Every returned error has already been logged.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "release-launcher")

	if opts == nil {
		opts = new(Options)
	}

	if err := run(ctx, opts); err != nil {
		logger.ErrorKV(ctx, "Launcher run failed", "error", err)
		return err
	}

	return nil
}

// run resolves the installation and its settings, then drives the orchestrator.
func run(ctx context.Context, opts *Options) error {
	root, err := resolveRoot(opts.Root)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	ctx = logger.WithKV(ctx, "root", root.String())

	cfg, err := loadConfig(root, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	return newOrchestrator(root, cfg).run(ctx)
}

// resolveRoot picks the installation root.
func resolveRoot(override string) (installation.Root, error) {
	if override != "" {
		return installation.New(override)
	}

	return installation.FromExecutable()
}

// loadConfig reads an explicit settings file strictly and the default one optionally.
func loadConfig(root installation.Root, path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	return config.LoadOptional(root.Path(config.DefaultConfigFilename))
}

// newOrchestrator wires the production components for root.
func newOrchestrator(root installation.Root, cfg *config.Config) *orchestrator {
	var (
		httpClient = &http.Client{Timeout: cfg.Timeout}
		userAgent  = "release-launcher/" + version.Short()
		versions   = installed.NewFileRepository(root.Path(installed.VersionFilename))
	)

	applierOptions := []updater.Option{
		updater.WithHTTPClient(httpClient),
		updater.WithUserAgent(userAgent),
	}

	if cfg.WriteVersion {
		applierOptions = append(applierOptions, updater.WithVersionRepository(versions))
	}

	return &orchestrator{
		versions: versions,
		feed:     feed.NewClient(cfg.ReleasesURL(), httpClient, userAgent),
		applier:  updater.NewApplier(root, cfg, applierOptions...),
		process:  process.NewLauncher(cfg.Command, cfg.Arguments, root.String()),
	}
}
