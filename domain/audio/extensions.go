package audio

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the source extensions converted when none are configured
var DefaultExtensions = []string{".mp4", ".m4v", ".mov"}

// ErrNoExtensions is returned when the allow-list is empty after normalization
var ErrNoExtensions = errors.New("no source extensions configured")

// Extensions is a normalized, case-insensitive extension allow-list
type Extensions map[string]struct{}

// NewExtensions normalizes the given extensions.
// "MP4", ".mp4" and " .Mp4 " all become ".mp4"; blank entries are dropped.
func NewExtensions(exts []string) (Extensions, error) {
	set := make(Extensions, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}

	if len(set) == 0 {
		return nil, ErrNoExtensions
	}
	return set, nil
}

// Matches reports whether the file's extension is in the allow-list
func (e Extensions) Matches(path string) bool {
	_, ok := e[strings.ToLower(filepath.Ext(path))]
	return ok
}

// List returns the extensions sorted
func (e Extensions) List() []string {
	result := make([]string, 0, len(e))
	for ext := range e {
		result = append(result, ext)
	}
	sort.Strings(result)
	return result
}
