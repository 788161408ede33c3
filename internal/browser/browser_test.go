package browser

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ataraskov/pocket-registry/internal/api"
	"github.com/ataraskov/pocket-registry/internal/filter"
	"github.com/ataraskov/pocket-registry/internal/format"
	sortpkg "github.com/ataraskov/pocket-registry/internal/sort"
	"github.com/opencontainers/go-digest"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configDigest = digest.FromString("config")

// fakeRegistry serves a minimal Docker Registry v2 API
type fakeRegistry struct {
	catalog  string
	tags     string
	manifest string
	blob     string
	blobCode int
}

func (f *fakeRegistry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if user, pass, ok := r.BasicAuth(); !ok || user != "user" || pass != "pass" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch r.URL.Path {
	case "/v2/_catalog":
		_, _ = io.WriteString(w, f.catalog)
	case "/v2/team/app/tags/list":
		_, _ = io.WriteString(w, f.tags)
	case "/v2/team/app/manifests/v1":
		if r.Header.Get("Accept") != api.MediaTypeDockerManifest {
			w.WriteHeader(http.StatusNotAcceptable)
			return
		}
		_, _ = io.WriteString(w, f.manifest)
	case "/v2/team/app/blobs/" + configDigest.String():
		if f.blobCode != 0 {
			w.WriteHeader(f.blobCode)
			return
		}
		_, _ = io.WriteString(w, f.blob)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		catalog: `{"repositories":["team/app","team/db"]}`,
		tags:    `{"name":"team/app","tags":["v1","1.2.0","1.10.0","dev-1"]}`,
		manifest: `{
			"schemaVersion": 2,
			"mediaType": "application/vnd.docker.distribution.manifest.v2+json",
			"config": {"mediaType": "application/vnd.docker.container.image.v1+json", "size": 7, "digest": "` + configDigest.String() + `"},
			"layers": [{"size": 100}, {"size": 200}]
		}`,
		blob: `{"architecture":"amd64","os":"linux","created":"2023-01-01T00:00:00Z","author":"","config":{"Env":["PATH=/bin"],"Entrypoint":["/app","serve"]}}`,
	}
}

func newTestBrowser(t *testing.T, reg *fakeRegistry, now time.Time) (*Browser, api.Endpoint) {
	t.Helper()
	server := httptest.NewServer(reg)
	t.Cleanup(server.Close)

	b := NewBrowser(Config{
		Client: api.NewClient(api.ClientConfig{}),
		Now:    func() time.Time { return now },
	})
	return b, api.Endpoint{Hostname: server.URL, Username: "user", Password: "pass"}
}

func TestBrowser_Inspect(t *testing.T) {
	now := time.Date(2023, 1, 11, 8, 0, 0, 0, time.UTC)
	b, ep := newTestBrowser(t, newFakeRegistry(), now)

	detail, err := b.Inspect(context.Background(), ep, "team/app", "v1")
	require.NoError(t, err)

	assert.Equal(t, int64(300), detail.TotalBytes)
	assert.Equal(t, format.FormatBytes(300), detail.Size)
	assert.Equal(t, "300.00 B", detail.Size)
	assert.Equal(t, 2, detail.Layers)
	assert.Equal(t, 2, detail.Version)
	assert.Equal(t, configDigest.String(), detail.Digest)
	assert.Equal(t, "amd64", detail.Architecture)
	assert.Equal(t, "linux", detail.OS)
	assert.Empty(t, detail.Author)
	assert.Equal(t, "2023-01-01", detail.CreatedDate)
	assert.Equal(t, "10 days ago", detail.DaysAgo)
	assert.Equal(t, []string{"PATH=/bin"}, detail.Env)
	assert.Equal(t, []string{"/app", "serve"}, detail.Entrypoint)
	assert.Equal(t, "team/app", detail.Repo)
	assert.Equal(t, "v1", detail.Tag)

	assert.Equal(t, ep.Host()+"/team/app:v1", detail.Reference())
	assert.Equal(t, "docker pull "+ep.Host()+"/team/app:v1", detail.PullCommand())
}

func TestBrowser_Inspect_BlobFailureYieldsNoDetail(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*fakeRegistry)
		wantErr error
	}{
		{name: "blob not found", mutate: func(r *fakeRegistry) { r.blobCode = http.StatusNotFound }, wantErr: api.ErrNotFound},
		{name: "blob server error", mutate: func(r *fakeRegistry) { r.blobCode = http.StatusInternalServerError }, wantErr: api.ErrNetworkError},
		{name: "blob without platform", mutate: func(r *fakeRegistry) { r.blob = `{"created":"2023-01-01T00:00:00Z"}` }, wantErr: api.ErrMissingData},
		{name: "manifest without config digest", mutate: func(r *fakeRegistry) { r.manifest = `{"schemaVersion":2,"layers":[]}` }, wantErr: api.ErrMissingData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newFakeRegistry()
			tt.mutate(reg)
			b, ep := newTestBrowser(t, reg, time.Now())

			detail, err := b.Inspect(context.Background(), ep, "team/app", "v1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, detail)
		})
	}
}

func TestBrowser_Repositories(t *testing.T) {
	b, ep := newTestBrowser(t, newFakeRegistry(), time.Now())

	repos, err := b.Repositories(context.Background(), ep)
	require.NoError(t, err)
	assert.Equal(t, []string{"team/app", "team/db"}, repos)

	ep.Password = "wrong"
	repos, err = b.Repositories(context.Background(), ep)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Nil(t, repos)
}

func TestBrowser_Tags(t *testing.T) {
	b, ep := newTestBrowser(t, newFakeRegistry(), time.Now())

	tags, err := b.Tags(context.Background(), ep, "team/app", TagQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "1.2.0", "1.10.0", "dev-1"}, tags)

	semver, err := sortpkg.NewSemverSorter("")
	require.NoError(t, err)
	tags, err = b.Tags(context.Background(), ep, "team/app", TagQuery{
		Filter: filter.NewSubstringFilter("1"),
		Sorter: semver,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1.10.0", "1.2.0", "v1", "dev-1"}, tags)
}

func TestTotalSize(t *testing.T) {
	assert.Equal(t, int64(0), TotalSize(nil))
	assert.Equal(t, int64(300), TotalSize([]v1.Descriptor{{Size: 100}, {Size: 200}}))
}
