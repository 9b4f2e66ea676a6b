package bundle

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

// writeTree creates files under dir, making parent directories as needed.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		abs := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
}

func zipNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

func TestPackDeterministic(t *testing.T) {
	files := map[string]string{
		"app/main.py":       "print('hi')\n",
		"app/lib/helper.py": "def helper(): pass\n",
		"config.yaml":       "key: value\n",
	}

	dirA := t.TempDir()
	dirB := t.TempDir()
	writeTree(t, dirA, files)
	writeTree(t, dirB, files)

	// Skew every mtime in the second tree; packed bytes must not notice.
	old := time.Date(2001, time.March, 4, 5, 6, 7, 0, time.UTC)
	for rel := range files {
		if err := os.Chtimes(filepath.Join(dirB, filepath.FromSlash(rel)), old, old); err != nil {
			t.Fatalf("Chtimes: %v", err)
		}
	}

	spec := Spec{Name: "app", Path: "."}
	a, err := Pack(dirA, spec)
	if err != nil {
		t.Fatalf("Pack A: %v", err)
	}
	b, err := Pack(dirB, spec)
	if err != nil {
		t.Fatalf("Pack B: %v", err)
	}

	if a.Digest != b.Digest {
		t.Errorf("digests differ for identical content: %s vs %s", a.Digest, b.Digest)
	}
	if !bytes.Equal(a.Data, b.Data) {
		t.Error("archive bytes differ for identical content")
	}
	if a.Files != len(files) {
		t.Errorf("file count: got %d, want %d", a.Files, len(files))
	}

	// Any content change must change the digest.
	if err := os.WriteFile(filepath.Join(dirB, "config.yaml"), []byte("key: other\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	c, err := Pack(dirB, spec)
	if err != nil {
		t.Fatalf("Pack C: %v", err)
	}
	if c.Digest == a.Digest {
		t.Error("digest did not change with content")
	}
}

func TestPackNormalizesPermissions(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"run.sh":   "#!/bin/sh\n",
		"data.txt": "payload\n",
	})
	if err := os.Chmod(filepath.Join(dir, "run.sh"), 0o700); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	if err := os.Chmod(filepath.Join(dir, "data.txt"), 0o600); err != nil {
		t.Fatalf("Chmod: %v", err)
	}

	a, err := Pack(dir, Spec{Name: "perms", Path: "."})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(a.Data), int64(len(a.Data)))
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	for _, f := range zr.File {
		perm := f.Mode().Perm()
		if perm != permExecutable && perm != permRegular {
			t.Errorf("%s: mode %o, want %o or %o", f.Name, perm, permExecutable, permRegular)
		}
		switch f.Name {
		case "run.sh":
			if perm != permExecutable {
				t.Errorf("run.sh: mode %o, want %o", perm, permExecutable)
			}
		case "data.txt":
			if perm != permRegular {
				t.Errorf("data.txt: mode %o, want %o", perm, permRegular)
			}
		}
		if !f.Modified.Equal(zipEpoch) {
			t.Errorf("%s: modified %v, want fixed %v", f.Name, f.Modified, zipEpoch)
		}
	}
}

func TestPackIncludeExclude(t *testing.T) {
	tree := map[string]string{
		"f1.py":            "",
		"f1.pyc":           "",
		"__init__.py":      "",
		"test/__init__.py": "",
		"test/f1.py":       "",
		"test/f1.pyc":      "",
		"test2/test.txt":   "",
	}

	tests := map[string]struct {
		include []string
		exclude []string
		want    []string
	}{
		"no patterns selects everything": {
			want: []string{"__init__.py", "f1.py", "f1.pyc", "test/__init__.py", "test/f1.py", "test/f1.pyc", "test2/test.txt"},
		},
		"exclude matches basenames anywhere": {
			exclude: []string{"*.pyc"},
			want:    []string{"__init__.py", "f1.py", "test/__init__.py", "test/f1.py", "test2/test.txt"},
		},
		"include narrows selection": {
			include: []string{"*.py"},
			want:    []string{"__init__.py", "f1.py", "test/__init__.py", "test/f1.py"},
		},
		"exclude wins over include": {
			include: []string{"*.py"},
			exclude: []string{"__init__.py"},
			want:    []string{"f1.py", "test/f1.py"},
		},
		"path patterns match relative paths": {
			include: []string{"test/*"},
			want:    []string{"test/__init__.py", "test/f1.py", "test/f1.pyc"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeTree(t, dir, tree)
			a, err := Pack(dir, Spec{Name: "sel", Path: ".", Include: tc.include, Exclude: tc.exclude})
			if err != nil {
				t.Fatalf("Pack: %v", err)
			}
			got := zipNames(t, a.Data)
			if len(got) != len(tc.want) {
				t.Fatalf("selected %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("selected %v, want %v", got, tc.want)
					break
				}
			}
		})
	}
}

func TestPackEmptySelectionFails(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"only.txt": "x"})

	if _, err := Pack(dir, Spec{Name: "empty", Path: ".", Exclude: []string{"*"}}); err == nil {
		t.Error("expected an error for an empty selection")
	}
}

func TestPackSkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"real.txt": "x"})
	if err := os.Symlink(filepath.Join(dir, "real.txt"), filepath.Join(dir, "link.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	a, err := Pack(dir, Spec{Name: "links", Path: "."})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	got := zipNames(t, a.Data)
	if len(got) != 1 || got[0] != "real.txt" {
		t.Errorf("selected %v, want [real.txt]", got)
	}
}

func TestPackResolvesRelativePath(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"payload/app.js": "x"})

	a, err := Pack(root, Spec{Name: "api", Path: "payload"})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	got := zipNames(t, a.Data)
	if len(got) != 1 || got[0] != "app.js" {
		t.Errorf("archive paths %v, want [app.js] relative to the bundle path", got)
	}
}

func TestWriteArchive(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "x"})
	a, err := Pack(dir, Spec{Name: "api", Path: "."})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	out := t.TempDir()
	path, err := WriteArchive(out, a)
	if err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}
	if filepath.Base(path) != "api-"+a.Digest+".zip" {
		t.Errorf("filename: got %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(data, a.Data) {
		t.Error("written bytes differ from archive data")
	}
}
