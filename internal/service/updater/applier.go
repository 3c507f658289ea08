package updater

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/oshokin/release-launcher/internal/config"
	"github.com/oshokin/release-launcher/internal/domain/release"
	"github.com/oshokin/release-launcher/internal/installation"
	"github.com/oshokin/release-launcher/internal/logger"
	"github.com/oshokin/release-launcher/internal/repository/installed"
)

const (
	// ArchiveFilename is the downloaded release archive inside the root.
	ArchiveFilename = "update.zip"

	// StagingDirname holds the extracted release before the merge.
	StagingDirname = "temp"

	// ExtractionDirname receives the archive contents. It is recreated for
	// every attempt so leftovers of an interrupted run are never staged.
	ExtractionDirname = ".update-extract"

	extractionDirMode os.FileMode = 0o755

	// archiveFileMode is used for the downloaded archive.
	archiveFileMode os.FileMode = 0o644
)

var (
	errBadHTTPStatus        = errors.New("unexpected http status")
	errNoExtractedDirectory = errors.New("extracted release directory not found")
	errEmptyTag             = errors.New("release tag is empty")
)

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Applier replaces the installation with the contents of a release archive.
type Applier struct {
	// root is the installation directory being updated.
	root installation.Root
	// cfg supplies the archive URL and the extracted directory prefix.
	cfg *config.Config
	// httpClient downloads the archive.
	httpClient Doer
	// userAgent is sent with the download request.
	userAgent string
	// versions, when set, receives the applied version after the merge.
	versions installed.Repository
}

// Option configures the applier.
type Option func(*Applier)

// WithHTTPClient overrides http.DefaultClient.
func WithHTTPClient(client Doer) Option {
	return func(a *Applier) {
		if client != nil {
			a.httpClient = client
		}
	}
}

// WithUserAgent sets the User-Agent header of the download request.
func WithUserAgent(userAgent string) Option {
	return func(a *Applier) {
		a.userAgent = userAgent
	}
}

// WithVersionRepository makes the applier record the applied version.
func WithVersionRepository(versions installed.Repository) Option {
	return func(a *Applier) {
		a.versions = versions
	}
}

// NewApplier creates an applier for root.
func NewApplier(root installation.Root, cfg *config.Config, opts ...Option) *Applier {
	a := &Applier{
		root:       root,
		cfg:        cfg,
		httpClient: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Apply downloads the archive of r, extracts it, merges it into the root and
// removes the staging artifacts. The artifacts are removed on failure as well,
// but entries merged before the failure stay replaced.
func (a *Applier) Apply(ctx context.Context, r release.Release) error {
	if r.Tag == "" {
		return errEmptyTag
	}

	ctx = logger.WithKV(ctx, "tag", r.Tag)

	a.warnAboutOtherInstances(ctx)

	var (
		archivePath    = a.root.Path(ArchiveFilename)
		stagingPath    = a.root.Path(StagingDirname)
		extractionPath = a.root.Path(ExtractionDirname)
	)

	defer a.cleanup(ctx, archivePath, stagingPath, extractionPath)

	archiveURL := a.cfg.ArchiveURL(r.Tag)

	logger.InfoKV(ctx, "Downloading release archive", "url", archiveURL)

	if err := a.download(ctx, archiveURL, archivePath); err != nil {
		return fmt.Errorf("download release archive: %w", err)
	}

	logger.Info(ctx, "Extracting release archive")

	if err := os.RemoveAll(extractionPath); err != nil {
		return fmt.Errorf("remove stale extraction directory: %w", err)
	}

	if err := os.Mkdir(extractionPath, extractionDirMode); err != nil {
		return fmt.Errorf("create extraction directory: %w", err)
	}

	if err := extractArchive(archivePath, extractionPath); err != nil {
		return fmt.Errorf("extract release archive: %w", err)
	}

	if err := a.stage(ctx, r.Version, extractionPath); err != nil {
		return fmt.Errorf("stage release: %w", err)
	}

	logger.Info(ctx, "Replacing installation files")

	if err := a.merge(ctx, stagingPath); err != nil {
		return fmt.Errorf("merge release: %w", err)
	}

	if a.versions != nil {
		if err := a.versions.Save(ctx, r.Version); err != nil {
			return fmt.Errorf("record version: %w", err)
		}
	}

	logger.InfoKV(ctx, "Update applied", "version", r.Version)

	return nil
}

// download streams url into destination, truncating an existing file.
func (a *Applier) download(ctx context.Context, url, destination string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return err
	}

	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	response, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s, %s: %w", url, response.Status, errBadHTTPStatus)
	}

	output, err := os.OpenFile(destination, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, archiveFileMode)
	if err != nil {
		return err
	}

	written, err := io.Copy(output, response.Body)
	if err != nil {
		_ = output.Close()

		return err
	}

	if err = output.Close(); err != nil {
		return err
	}

	logger.DebugKV(ctx, "Downloaded release archive", "path", destination, "bytes", written)

	return nil
}

// cleanup removes the archive, the extraction directory and the staging directory.
func (a *Applier) cleanup(ctx context.Context, archivePath, stagingPath, extractionPath string) {
	if err := os.RemoveAll(extractionPath); err != nil {
		logger.WarnKV(ctx, "Unable to remove extraction directory", "path", extractionPath, "error", err)
	}

	if err := os.RemoveAll(stagingPath); err != nil {
		logger.WarnKV(ctx, "Unable to remove staging directory", "path", stagingPath, "error", err)
	}

	if err := os.Remove(archivePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.WarnKV(ctx, "Unable to remove release archive", "path", archivePath, "error", err)
	}
}
