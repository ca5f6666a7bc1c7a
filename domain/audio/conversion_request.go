package audio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultBitrate is the default MP3 bitrate passed to the encoder
const DefaultBitrate = "192k"

// TargetExtension is the extension of every converted file
const TargetExtension = ".mp3"

// ErrInvalidRequest is returned when a conversion request cannot be built
var ErrInvalidRequest = errors.New("invalid conversion request")

// ConversionRequest describes the conversion of a single source file.
// It is derived from the directory walk and never modified afterwards.
type ConversionRequest struct {
	SourcePath      string
	RelativePath    string // path of the source relative to the input root
	TargetExtension string
	Bitrate         string
	Overwrite       bool
}

// NewConversionRequest creates a new ConversionRequest with validation
func NewConversionRequest(sourcePath, relativePath, bitrate string, overwrite bool) (*ConversionRequest, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("%w: source path is required", ErrInvalidRequest)
	}
	if relativePath == "" {
		return nil, fmt.Errorf("%w: relative path is required", ErrInvalidRequest)
	}
	if filepath.IsAbs(relativePath) {
		return nil, fmt.Errorf("%w: relative path %q is absolute", ErrInvalidRequest, relativePath)
	}

	clean := filepath.Clean(relativePath)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: relative path %q escapes the input root", ErrInvalidRequest, relativePath)
	}

	if bitrate == "" {
		bitrate = DefaultBitrate
	}

	return &ConversionRequest{
		SourcePath:      sourcePath,
		RelativePath:    clean,
		TargetExtension: TargetExtension,
		Bitrate:         bitrate,
		Overwrite:       overwrite,
	}, nil
}

// OutputRelativePath returns the relative path with its extension replaced
func (r *ConversionRequest) OutputRelativePath() string {
	ext := r.TargetExtension
	if ext == "" {
		ext = TargetExtension
	}
	return strings.TrimSuffix(r.RelativePath, filepath.Ext(r.RelativePath)) + ext
}

// OutputPath returns the mirrored output path under outputRoot
func (r *ConversionRequest) OutputPath(outputRoot string) string {
	return filepath.Join(outputRoot, r.OutputRelativePath())
}
