package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/oshokin/release-launcher/internal/domain/release"
	"github.com/oshokin/release-launcher/internal/logger"
)

var (
	errBadHTTPStatus = errors.New("unexpected http status")
	errNoReleases    = errors.New("release feed is empty")
	errNoTag         = errors.New("latest release has no tag")
)

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client reads the release feed of a single project.
type Client struct {
	// url is the release feed endpoint.
	url string
	// httpClient performs the request.
	httpClient Doer
	// userAgent is sent with every request; GitHub rejects anonymous agents.
	userAgent string
}

// entry is the only part of a feed element the launcher reads.
type entry struct {
	TagName *string `json:"tag_name"`
}

// NewClient returns a feed client for url.
func NewClient(url string, httpClient Doer, userAgent string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		url:        url,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Latest returns the first release of the feed.
// It never fails; problems are reported through release.NotFound.
func (c *Client) Latest(ctx context.Context) release.Lookup {
	tag, err := c.fetchLatestTag(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Release feed unavailable, treating as no update",
			"url", c.url, "error", err)

		return release.NotFound(err)
	}

	latest := release.New(tag)
	logger.InfoKV(ctx, "Latest published release", "tag", latest.Tag, "version", latest.Version)

	return release.Found(latest)
}

// fetchLatestTag performs the request and extracts element [0].tag_name.
func (c *Client) fetchLatestTag(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return "", err
	}

	req.Header.Set("Accept", "application/vnd.github+json")

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%s, %s: %w", c.url, response.Status, errBadHTTPStatus)
	}

	var releases []entry
	if err = json.NewDecoder(response.Body).Decode(&releases); err != nil {
		return "", fmt.Errorf("decode release feed: %w", err)
	}

	if len(releases) == 0 {
		return "", errNoReleases
	}

	tag := releases[0].TagName
	if tag == nil || release.StripPrefix(*tag) == "" {
		return "", errNoTag
	}

	return *tag, nil
}
