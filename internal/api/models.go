package api

import (
	"fmt"
	"net/url"
	"strings"

	v1 "github.com/opencontainers/image-spec/specs-go/v1"
)

// MediaTypeDockerManifest is the manifest media type requested from the registry
const MediaTypeDockerManifest = "application/vnd.docker.distribution.manifest.v2+json"

// Endpoint identifies one registry and the credentials used against it
type Endpoint struct {
	Hostname string // base URL including scheme, e.g. https://registry.example.com:5000
	Username string
	Password string
}

// Validate checks that the hostname carries an explicit http or https scheme
func (e Endpoint) Validate() error {
	return ValidateHostname(e.Hostname)
}

// Host returns the hostname without its scheme, as used in image references
func (e Endpoint) Host() string {
	return StripScheme(e.Hostname)
}

// ValidateHostname checks that a registry base URL is absolute http(s)
func ValidateHostname(hostname string) error {
	u, err := url.Parse(hostname)
	if err != nil {
		return fmt.Errorf("%w: %q: %s", ErrInvalidHostname, hostname, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidHostname, hostname)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q: missing host", ErrInvalidHostname, hostname)
	}
	return nil
}

// StripScheme removes a leading http:// or https://
func StripScheme(hostname string) string {
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(hostname, prefix) {
			return strings.TrimSuffix(strings.TrimPrefix(hostname, prefix), "/")
		}
	}
	return strings.TrimSuffix(hostname, "/")
}

// CatalogResponse represents the body of /v2/_catalog
type CatalogResponse struct {
	Repositories []string `json:"repositories"`
}

// TagsResponse represents the body of /v2/{repo}/tags/list
type TagsResponse struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// Manifest is an image manifest; Docker schema 2 and OCI share the layout
type Manifest = v1.Manifest

// ConfigBlob is the image configuration referenced by a manifest
type ConfigBlob = v1.Image
