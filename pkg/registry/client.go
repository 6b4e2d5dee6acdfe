// Package registry implements the npm registry client: package metadata
// lookups by name and tarball streaming by URL, with pass-through bearer
// credentials selected per URL prefix.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tressel-dev/tressel/pkg/errors"
)

const (
	userAgent = "tressel/1.0"

	// acceptMetadata asks for the abbreviated metadata document, which is
	// all the resolver needs and far smaller than the full one.
	acceptMetadata = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8, */*"
)

// Client is an HTTP registry client.
type Client struct {
	baseURL  string
	client   *http.Client
	tokenFor func(url string) string
}

// NewClient creates a registry client for the given endpoint. tokenFor
// selects the bearer token for a request URL and may be nil.
func NewClient(baseURL string, timeout time.Duration, tokenFor func(url string) string) *Client {
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		tokenFor: tokenFor,
	}
}

// FetchMetadata retrieves the published metadata for a package name.
func (c *Client) FetchMetadata(ctx context.Context, name string) (*PackageMetadata, error) {
	// Scoped names keep their leading @ but escape the inner slash.
	escaped := strings.ReplaceAll(url.PathEscape(name), "%40", "@")
	metadataURL := c.baseURL + "/" + escaped

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataURL, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptMetadata)
	c.applyAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch metadata for %s", name)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// Continue processing
	case http.StatusNotFound:
		return nil, errors.Wrapf(errors.ErrPackageNotFound, "%s", name)
	default:
		return nil, fmt.Errorf("unexpected status code %d for %s: %w", resp.StatusCode, name, errors.ErrRegistryRequest)
	}

	var metadata PackageMetadata
	if err := json.NewDecoder(resp.Body).Decode(&metadata); err != nil {
		return nil, errors.Wrapf(err, "failed to decode metadata for %s", name)
	}
	if metadata.Name == "" {
		metadata.Name = name
	}
	return &metadata, nil
}

// OpenTarball starts streaming a package tarball. The caller owns the
// returned reader.
func (c *Client) OpenTarball(ctx context.Context, tarballURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tarballURL, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", userAgent)
	c.applyAuth(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrTarballDownload, "%s: %v", tarballURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d for %s: %w", resp.StatusCode, tarballURL, errors.ErrTarballDownload)
	}
	return resp.Body, nil
}

func (c *Client) applyAuth(req *http.Request) {
	if c.tokenFor == nil {
		return
	}
	if token := c.tokenFor(req.URL.String()); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
