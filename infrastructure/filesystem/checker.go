package filesystem

import (
	"errors"
	"io/fs"
	"os"

	"video-to-mp3/domain/audio"
)

// Checker implements audio.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the file exists
func (c *Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Dirs implements audio.DirectoryCreator
type Dirs struct{}

// NewDirs creates a new directory creator
func NewDirs() *Dirs {
	return &Dirs{}
}

// MkdirAll creates path and any missing parents
func (d *Dirs) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

// Remove deletes path; a missing file is not an error
func (d *Dirs) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Ensure Checker implements audio.FileChecker
var _ audio.FileChecker = (*Checker)(nil)

// Ensure Dirs implements audio.DirectoryCreator
var _ audio.DirectoryCreator = (*Dirs)(nil)
var _ audio.FileRemover = (*Dirs)(nil)
