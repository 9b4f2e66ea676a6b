// package bundle packs payload directories into deterministic zip archives
// and publishes them to an OCI registry, keyed by content digest so an
// unchanged payload is never uploaded twice.
package bundle

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultManifestName is the manifest file `husk bundle` looks for in the
// working directory.
const DefaultManifestName = "husk-bundles.yaml"

// Manifest declares where bundles are published and what goes into each.
// Bundle paths resolve relative to the directory the command runs from.
type Manifest struct {
	// Registry is the repository prefix bundles publish under,
	// e.g. "ghcr.io/acme/payloads". A bundle named "api" with digest d
	// lands at ghcr.io/acme/payloads/api:d.
	Registry string `yaml:"registry,omitempty"`
	Bundles  []Spec `yaml:"bundles"`
}

// Spec selects the files for one named bundle. Empty Include means every
// regular file under Path; Exclude always wins over Include.
type Spec struct {
	Name    string   `yaml:"name"`
	Path    string   `yaml:"path"`
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.Bundles) == 0 {
		return fmt.Errorf("manifest declares no bundles")
	}
	seen := map[string]bool{}
	for i, b := range m.Bundles {
		if b.Name == "" {
			return fmt.Errorf("bundle %d has no name", i)
		}
		if b.Path == "" {
			return fmt.Errorf("bundle %q has no path", b.Name)
		}
		if seen[b.Name] {
			return fmt.Errorf("duplicate bundle name %q", b.Name)
		}
		seen[b.Name] = true
	}
	return nil
}
