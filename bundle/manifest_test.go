package bundle

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
registry: ghcr.io/acme/payloads
bundles:
  - name: api
    path: services/api
    exclude: ["*.pyc", "*.log"]
  - name: worker
    path: services/worker
    include: ["*.py"]
`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Registry != "ghcr.io/acme/payloads" {
		t.Errorf("registry: got %q", m.Registry)
	}
	if len(m.Bundles) != 2 {
		t.Fatalf("got %d bundles, want 2", len(m.Bundles))
	}
	if m.Bundles[0].Name != "api" || m.Bundles[0].Path != "services/api" {
		t.Errorf("first bundle: got %+v", m.Bundles[0])
	}
	if len(m.Bundles[0].Exclude) != 2 {
		t.Errorf("exclude patterns: got %v", m.Bundles[0].Exclude)
	}
	if len(m.Bundles[1].Include) != 1 || m.Bundles[1].Include[0] != "*.py" {
		t.Errorf("include patterns: got %v", m.Bundles[1].Include)
	}
}

func TestLoadManifestRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"no bundles":     `registry: ghcr.io/acme/payloads`,
		"unnamed bundle": "bundles:\n  - path: services/api\n",
		"missing path":   "bundles:\n  - name: api\n",
		"duplicate name": "bundles:\n  - name: api\n    path: a\n  - name: api\n    path: b\n",
		"not yaml":       `{{{`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadManifest(writeManifest(t, content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing manifest")
	}
}
