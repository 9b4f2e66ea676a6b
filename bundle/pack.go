package bundle

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Archive member timestamps are pinned: zip cannot represent times before
// 1980, and real mtimes would break byte-for-byte determinism.
var zipEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Member permissions are normalized so the archive doesn't vary with the
// packing host's umask: owner-executable files become 0755, everything
// else 0644.
const (
	permExecutable = fs.FileMode(0o755)
	permRegular    = fs.FileMode(0o644)
)

// Archive is one packed bundle, ready to publish or write out.
type Archive struct {
	Name   string
	Digest string // hex sha256 of the selected (path, contents) stream
	Files  int
	Data   []byte // the deterministic zip
}

// Pack selects the files spec names under root and produces a deterministic
// zip: identical content yields identical bytes regardless of walk order,
// umask, or mtimes. The digest is computed over the selected paths and
// contents rather than the zip bytes, so it also survives encoder changes.
func Pack(root string, spec Spec) (*Archive, error) {
	dir := spec.Path
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}

	files, err := selectFiles(dir, spec.Include, spec.Exclude)
	if err != nil {
		return nil, fmt.Errorf("bundle %q: %w", spec.Name, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("bundle %q: no files selected under %s", spec.Name, dir)
	}

	digest, err := digestFiles(dir, files)
	if err != nil {
		return nil, fmt.Errorf("bundle %q: %w", spec.Name, err)
	}
	data, err := writeZip(dir, files)
	if err != nil {
		return nil, fmt.Errorf("bundle %q: %w", spec.Name, err)
	}

	return &Archive{
		Name:   spec.Name,
		Digest: digest,
		Files:  len(files),
		Data:   data,
	}, nil
}

// Filename returns the local file name for the archive: <name>-<digest>.zip.
func (a *Archive) Filename() string {
	return a.Name + "-" + a.Digest + ".zip"
}

// WriteArchive writes the archive into dir under its Filename and returns the
// full path.
func WriteArchive(dir string, a *Archive) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(dir, a.Filename())
	if err := os.WriteFile(out, a.Data, 0o644); err != nil {
		return "", err
	}
	return out, nil
}

// selectFiles walks dir and returns the sorted slash-separated relative paths
// of the regular files that pass the include/exclude patterns. Symlinks are
// skipped: a bundle is a self-contained payload and links out of it would
// dangle or leak host paths.
func selectFiles(dir string, include, exclude []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.Type()&fs.ModeSymlink != 0 {
			slog.Info("bundle: skipping symlink", "path", rel)
			return nil
		}
		if !d.Type().IsRegular() {
			slog.Info("bundle: skipping irregular file", "path", rel)
			return nil
		}
		if !selected(rel, include, exclude) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// selected applies include then exclude. Patterns match the relative path or
// its basename, so "*.pyc" drops nested files without needing ** syntax.
func selected(rel string, include, exclude []string) bool {
	if len(include) > 0 && !matchAny(include, rel) {
		return false
	}
	return !matchAny(exclude, rel)
}

func matchAny(patterns []string, rel string) bool {
	base := path.Base(rel)
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := path.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// digestFiles hashes each file as (relative path, NUL, contents, NUL) in
// sorted order. The NUL delimiters keep path/content boundaries unambiguous.
func digestFiles(dir string, files []string) (string, error) {
	h := sha256.New()
	for _, rel := range files {
		io.WriteString(h, rel)
		h.Write([]byte{0})
		f, err := os.Open(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return "", err
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", err
		}
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func writeZip(dir string, files []string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, rel := range files {
		abs := filepath.Join(dir, filepath.FromSlash(rel))
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}

		hdr := &zip.FileHeader{
			Name:     rel,
			Method:   zip.Deflate,
			Modified: zipEpoch,
		}
		hdr.SetMode(normalizeMode(info.Mode()))

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, err
		}
		f, err := os.Open(abs)
		if err != nil {
			return nil, err
		}
		_, err = io.Copy(w, f)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func normalizeMode(mode fs.FileMode) fs.FileMode {
	if mode&0o100 != 0 {
		return permExecutable
	}
	return permRegular
}

// Describe renders a short human summary, e.g. "api (3 files, 1.2 KiB)".
func (a *Archive) Describe() string {
	return fmt.Sprintf("%s (%d files, %s)", a.Name, a.Files, humanSize(int64(len(a.Data))))
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	units := strings.Split("KiB MiB GiB TiB", " ")
	return fmt.Sprintf("%.1f %s", float64(n)/float64(div), units[exp])
}
