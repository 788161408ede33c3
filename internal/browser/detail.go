package browser

import (
	"fmt"
	"time"
)

// TagDetail is the merged manifest and config view of one tag
type TagDetail struct {
	Registry   string `json:"registry"` // host[:port], no scheme
	Repo       string `json:"repository"`
	Tag        string `json:"tag"`
	TotalBytes int64  `json:"totalBytes"`
	Size       string `json:"size"` // TotalBytes formatted
	Layers     int    `json:"layers"`
	Version    int    `json:"schemaVersion"`
	Digest     string `json:"digest"`

	Architecture string    `json:"architecture"`
	OS           string    `json:"os"`
	Author       string    `json:"author"`
	Created      time.Time `json:"created"`
	CreatedDate  string    `json:"createdDate"`
	DaysAgo      string    `json:"daysAgo"`
	Env          []string  `json:"env"`
	Entrypoint   []string  `json:"entrypoint"`
}

// Reference returns the image reference, registry/repo:tag
func (d *TagDetail) Reference() string {
	return fmt.Sprintf("%s/%s:%s", d.Registry, d.Repo, d.Tag)
}

// PullCommand returns the docker CLI command pulling this tag
func (d *TagDetail) PullCommand() string {
	return "docker pull " + d.Reference()
}
