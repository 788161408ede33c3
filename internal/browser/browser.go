package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ataraskov/pocket-registry/internal/api"
	"github.com/ataraskov/pocket-registry/internal/filter"
	"github.com/ataraskov/pocket-registry/internal/format"
	sortpkg "github.com/ataraskov/pocket-registry/internal/sort"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
)

// Registry is the part of the API client the browser needs
type Registry interface {
	FetchRepositories(ctx context.Context, ep api.Endpoint) ([]string, error)
	ListTags(ctx context.Context, ep api.Endpoint, repo string) ([]string, error)
	GetManifest(ctx context.Context, ep api.Endpoint, repo, tag string) (*api.Manifest, error)
	GetConfigBlob(ctx context.Context, ep api.Endpoint, repo, digest string) (*api.ConfigBlob, error)
}

var _ Registry = (*api.Client)(nil)

// Browser walks a registry from catalog to tag detail
type Browser struct {
	client Registry
	logger *slog.Logger
	now    func() time.Time
}

// Config holds the configuration for the browser
type Config struct {
	Client Registry
	Logger *slog.Logger
	// Now is the clock used for "days ago"; nil means time.Now
	Now func() time.Time
}

// NewBrowser creates a new browser instance
func NewBrowser(cfg Config) *Browser {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Browser{
		client: cfg.Client,
		logger: cfg.Logger,
		now:    cfg.Now,
	}
}

// Repositories returns the repository catalog of the registry
func (b *Browser) Repositories(ctx context.Context, ep api.Endpoint) ([]string, error) {
	b.logger.Debug("Fetching repositories", "registry", ep.Hostname)
	repos, err := b.client.FetchRepositories(ctx, ep)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories of %s: %w", ep.Hostname, err)
	}
	b.logger.Debug("Fetched repositories", "count", len(repos))
	return repos, nil
}

// TagQuery narrows and orders a tag list; zero value returns tags as listed
type TagQuery struct {
	Filter filter.TagFilter
	Sorter sortpkg.TagSorter
}

// Tags returns the tags of repo after applying q
func (b *Browser) Tags(ctx context.Context, ep api.Endpoint, repo string, q TagQuery) ([]string, error) {
	b.logger.Debug("Fetching tags", "registry", ep.Hostname, "repository", repo)
	tags, err := b.client.ListTags(ctx, ep, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags of %s: %w", repo, err)
	}

	total := len(tags)
	tags = filter.FilterTags(tags, q.Filter)
	if q.Sorter != nil {
		tags = q.Sorter.Sort(tags)
	}

	b.logger.Debug("Fetched tags", "total", total, "matched", len(tags))
	return tags, nil
}

// Inspect builds the detail view of repo:tag from its manifest and config blob
func (b *Browser) Inspect(ctx context.Context, ep api.Endpoint, repo, tag string) (*TagDetail, error) {
	b.logger.Debug("Fetching manifest", "repository", repo, "tag", tag)
	manifest, err := b.client.GetManifest(ctx, ep, repo, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest %s:%s: %w", repo, tag, err)
	}

	total := TotalSize(manifest.Layers)
	dgst := manifest.Config.Digest.String()

	b.logger.Debug("Fetching config blob", "repository", repo, "digest", dgst)
	blob, err := b.client.GetConfigBlob(ctx, ep, repo, dgst)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch config blob %s: %w", dgst, err)
	}

	created := blob.Created.UTC()
	when := format.DateAndDaysAgoFor(created, b.now())

	detail := &TagDetail{
		Registry:     ep.Host(),
		Repo:         repo,
		Tag:          tag,
		TotalBytes:   total,
		Size:         format.FormatBytes(total),
		Layers:       len(manifest.Layers),
		Version:      manifest.SchemaVersion,
		Digest:       dgst,
		Architecture: blob.Architecture,
		OS:           blob.OS,
		Author:       blob.Author,
		Created:      created,
		CreatedDate:  when.FormattedDate,
		DaysAgo:      when.DaysAgo,
		Env:          blob.Config.Env,
		Entrypoint:   blob.Config.Entrypoint,
	}

	b.logger.Debug("Inspected tag", "repository", repo, "tag", tag, "size", detail.Size)
	return detail, nil
}

// TotalSize sums the sizes of all layers
func TotalSize(layers []v1.Descriptor) int64 {
	var total int64
	for _, layer := range layers {
		total += layer.Size
	}
	return total
}
