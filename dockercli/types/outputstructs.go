// package types defines structs for unmarshaling the output of various docker/podman commands.
package types

import "time"

// ContainerSummary is one row of `ps` output. Fields are limited to the
// format verbs that docker and podman render identically; richer fields
// (labels, mounts) diverge between the two engines' template models.
type ContainerSummary struct {
	ID     string
	Names  string
	Image  string
	Status string
}

// Running reports whether the summary describes a running container.
func (c ContainerSummary) Running() bool {
	return len(c.Status) >= 2 && c.Status[:2] == "Up"
}

// ImageSummary is one row of `image ls` output.
type ImageSummary struct {
	Repository   string
	Tag          string
	ID           string
	CreatedSince string
	Size         string
}

// Reference returns the repository:tag form used to address the image.
func (i ImageSummary) Reference() string {
	if i.Tag == "" {
		return i.Repository
	}
	return i.Repository + ":" + i.Tag
}

// ImageInspect is one entry of the JSON array printed by `image inspect`.
// Only the fields common to docker and podman output are declared.
type ImageInspect struct {
	ID           string      `json:"Id"`
	RepoTags     []string    `json:"RepoTags"`
	RepoDigests  []string    `json:"RepoDigests"`
	Created      time.Time   `json:"Created"`
	Size         int64       `json:"Size"`
	Architecture string      `json:"Architecture"`
	Os           string      `json:"Os"`
	Config       ImageConfig `json:"Config"`
}

type ImageConfig struct {
	Env        []string          `json:"Env,omitempty"`
	Cmd        []string          `json:"Cmd,omitempty"`
	Entrypoint []string          `json:"Entrypoint,omitempty"`
	WorkingDir string            `json:"WorkingDir,omitempty"`
	Labels     map[string]string `json:"Labels,omitempty"`
}
