package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"
	"golang.org/x/time/rate"
)

// maxErrorBody caps how much of a failed response body ends up in an APIError
const maxErrorBody = 4096

// Client performs read-only Docker Registry HTTP API v2 requests.
// It holds no credentials; every call names its Endpoint.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// ClientConfig holds the configuration for the API client
type ClientConfig struct {
	// HTTPClient overrides the transport; nil uses a fresh http.Client
	HTTPClient *http.Client
	// Timeout applies to the default HTTP client only; zero means no timeout
	Timeout time.Duration
	// RequestsPerSecond paces outgoing requests; zero or negative means unlimited
	RequestsPerSecond float64
	Logger            *slog.Logger
}

// NewClient creates a new registry API client
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	limit := rate.Inf
	burst := 0
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = max(1, int(cfg.RequestsPerSecond))
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     cfg.Logger,
	}
}

// endpointURL joins the registry base URL with a /v2/ relative path
func endpointURL(ep Endpoint, path string) string {
	return strings.TrimSuffix(ep.Hostname, "/") + "/v2/" + path
}

// get builds and performs an authenticated GET. A non-2xx status is turned
// into an *APIError; on success the caller owns the response body.
func (c *Client) get(ctx context.Context, ep Endpoint, operation, path string, header http.Header) (*http.Response, error) {
	if err := ep.Validate(); err != nil {
		return nil, err
	}

	url := endpointURL(ep, path)
	c.logger.Debug("Registry request", "operation", operation, "method", http.MethodGet, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.doRequest(req, ep)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("Registry response", "operation", operation, "status_code", resp.StatusCode)
		return nil, NewAPIError(resp.StatusCode, url, strings.TrimSpace(string(bodyBytes)))
	}

	c.logger.Debug("Registry response", "operation", operation, "status_code", resp.StatusCode)
	return resp, nil
}

// doRequest paces and authenticates a single request. It never retries.
func (c *Client) doRequest(req *http.Request, ep Endpoint) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req.SetBasicAuth(ep.Username, ep.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNetworkError, err)
	}
	return resp, nil
}

// FetchRepositories lists the repository catalog of the registry.
// An absent repositories field yields an empty list; any failure is an error.
func (c *Client) FetchRepositories(ctx context.Context, ep Endpoint) ([]string, error) {
	resp, err := c.get(ctx, ep, "FetchRepositories", "_catalog", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var catalog CatalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, &MissingDataError{Field: "repositories", Reason: err.Error()}
	}
	if catalog.Repositories == nil {
		return []string{}, nil
	}
	return catalog.Repositories, nil
}

// FetchTags returns the raw response of /v2/{repo}/tags/list
func (c *Client) FetchTags(ctx context.Context, ep Endpoint, repo string) (*http.Response, error) {
	return c.get(ctx, ep, "FetchTags", repo+"/tags/list", nil)
}

// FetchBlob returns the raw response of /v2/{repo}/blobs/{digest}
func (c *Client) FetchBlob(ctx context.Context, ep Endpoint, repo, dgst string) (*http.Response, error) {
	return c.get(ctx, ep, "FetchBlob", repo+"/blobs/"+url.PathEscape(dgst), nil)
}

// FetchManifest returns the raw response of /v2/{repo}/manifests/{tag}.
// The Docker schema 2 media type is always requested.
func (c *Client) FetchManifest(ctx context.Context, ep Endpoint, repo, tag string) (*http.Response, error) {
	header := http.Header{}
	header.Set("Accept", MediaTypeDockerManifest)
	return c.get(ctx, ep, "FetchManifest", repo+"/manifests/"+url.PathEscape(tag), header)
}

// ListTags fetches and validates the tag list of a repository
func (c *Client) ListTags(ctx context.Context, ep Endpoint, repo string) ([]string, error) {
	resp, err := c.FetchTags(ctx, ep, repo)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var tags TagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, &MissingDataError{Field: "tags", Reason: err.Error()}
	}
	if tags.Tags == nil {
		return nil, missing("tags")
	}
	return tags.Tags, nil
}

// GetManifest fetches a manifest and validates the fields the tag detail needs
func (c *Client) GetManifest(ctx context.Context, ep Endpoint, repo, tag string) (*Manifest, error) {
	resp, err := c.FetchManifest(ctx, ep, repo, tag)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var manifest Manifest
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		return nil, &MissingDataError{Field: "manifest", Reason: err.Error()}
	}
	if err := ValidateManifest(&manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// ValidateManifest checks layers and config digest of a decoded manifest
func ValidateManifest(m *Manifest) error {
	if m.Layers == nil {
		return missing("layers")
	}
	for i, layer := range m.Layers {
		if layer.Size < 0 {
			return &MissingDataError{
				Field:  fmt.Sprintf("layers[%d].size", i),
				Reason: fmt.Sprintf("negative size %d", layer.Size),
			}
		}
	}
	if m.Config.Digest == "" {
		return missing("config.digest")
	}
	if err := m.Config.Digest.Validate(); err != nil {
		return &MissingDataError{Field: "config.digest", Reason: err.Error()}
	}
	return nil
}

// GetConfigBlob fetches the image configuration blob and validates it
func (c *Client) GetConfigBlob(ctx context.Context, ep Endpoint, repo, dgst string) (*ConfigBlob, error) {
	if _, err := digest.Parse(dgst); err != nil {
		return nil, fmt.Errorf("invalid digest %q: %w", dgst, err)
	}

	resp, err := c.FetchBlob(ctx, ep, repo, dgst)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var blob ConfigBlob
	if err := json.NewDecoder(resp.Body).Decode(&blob); err != nil {
		return nil, &MissingDataError{Field: "config blob", Reason: err.Error()}
	}
	if err := ValidateConfigBlob(&blob); err != nil {
		return nil, err
	}
	return &blob, nil
}

// ValidateConfigBlob requires the platform and creation time of an image config
func ValidateConfigBlob(b *ConfigBlob) error {
	switch {
	case b.Architecture == "":
		return missing("architecture")
	case b.OS == "":
		return missing("os")
	case b.Created == nil || b.Created.IsZero():
		return missing("created")
	}
	return nil
}
