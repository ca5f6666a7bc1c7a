package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"video-to-mp3/domain/audio"
)

// Finder implements audio.FileFinder by walking the local filesystem
type Finder struct {
	warnings io.Writer
}

// FinderOption is a functional option for configuring Finder
type FinderOption func(*Finder)

// WithWarnings reports directories skipped during a recursive walk to w
func WithWarnings(w io.Writer) FinderOption {
	return func(f *Finder) {
		f.warnings = w
	}
}

// NewFinder creates a new Finder
func NewFinder(opts ...FinderOption) *Finder {
	f := &Finder{warnings: io.Discard}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Find returns the qualifying files below root, sorted lexicographically.
// Without recursive only direct children of root are considered.
func (f *Finder) Find(root string, exts audio.Extensions, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("input directory %q does not exist or is not a directory", root)
	}

	var files []string
	if recursive {
		files, err = f.walk(root, exts)
	} else {
		files, err = list(root, exts)
	}
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func list(root string, exts audio.Extensions) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", root, err)
	}

	var files []string
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if exts.Matches(path) && isRegular(path, entry) {
			files = append(files, path)
		}
	}
	return files, nil
}

// walk descends into every subdirectory. Unreadable entries below root are
// reported and skipped; only an unreadable root fails the walk.
func (f *Finder) walk(root string, exts audio.Extensions) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root || !errors.Is(err, fs.ErrPermission) {
				return err
			}
			fmt.Fprintf(f.warnings, "Warning: skipping %s: %v\n", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if exts.Matches(path) && isRegular(path, d) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", root, err)
	}
	return files, nil
}

// isRegular reports whether the entry is a regular file, following symlinks
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Ensure Finder implements audio.FileFinder
var _ audio.FileFinder = (*Finder)(nil)
