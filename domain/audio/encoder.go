package audio

import (
	"context"
	"errors"
)

// ErrEncoderNotFound is returned when the external encoder cannot be located
var ErrEncoderNotFound = errors.New("encoder not found")

// Encoder defines the interface for converting a video file to audio
// This is a port that can be implemented by different infrastructure adapters
type Encoder interface {
	// Encode converts req.SourcePath and writes the result to outputPath
	Encode(ctx context.Context, req *ConversionRequest, outputPath string) error

	// VerifyInstalled checks that the encoder can be run at all
	VerifyInstalled(ctx context.Context) error
}

// FileChecker defines the interface for checking file existence
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}

// FileFinder enumerates qualifying source files below a root directory
type FileFinder interface {
	Find(root string, exts Extensions, recursive bool) ([]string, error)
}

// DirectoryCreator creates output directories on demand
type DirectoryCreator interface {
	MkdirAll(path string) error
}

// FileRemover deletes a file. A DirectoryCreator that also implements it is
// used to discard outputs left behind by an interrupted encode.
type FileRemover interface {
	Remove(path string) error
}

// ErrRunInProgress is returned when another run already holds the output tree
var ErrRunInProgress = errors.New("another conversion is already writing to this output directory")

// RunLock guards an output tree against concurrent runs
type RunLock interface {
	// TryLock acquires the lock for outputDir without blocking
	TryLock(outputDir string) (release func() error, err error)
}
