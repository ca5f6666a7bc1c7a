package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"video-to-mp3/domain/audio"
)

// DefaultPath is the ffmpeg executable looked up on PATH
const DefaultPath = "ffmpeg"

// Encoder implements audio.Encoder using ffmpeg
type Encoder struct {
	ffmpegPath string
	runner     CommandRunner
	onCommand  func(name string, args []string)
}

// EncoderOption is a functional option for configuring Encoder
type EncoderOption func(*Encoder)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) EncoderOption {
	return func(e *Encoder) {
		if path != "" {
			e.ffmpegPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) EncoderOption {
	return func(e *Encoder) {
		e.runner = runner
	}
}

// WithCommandHook registers a callback invoked with every command before it runs
func WithCommandHook(hook func(name string, args []string)) EncoderOption {
	return func(e *Encoder) {
		e.onCommand = hook
	}
}

// NewEncoder creates a new FFmpeg-based MP3 encoder
func NewEncoder(opts ...EncoderOption) *Encoder {
	e := &Encoder{
		ffmpegPath: DefaultPath,
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Args builds the ffmpeg argument list for a conversion
func Args(req *audio.ConversionRequest, outputPath string) []string {
	overwriteFlag := "-n" // never overwrite
	if req.Overwrite {
		overwriteFlag = "-y"
	}

	return []string{
		"-hide_banner",
		"-loglevel", "error",
		overwriteFlag,
		"-i", req.SourcePath,
		"-vn",                   // No video
		"-acodec", "libmp3lame", // MP3 codec
		"-b:a", req.Bitrate, // Audio bitrate
		outputPath,
	}
}

// Encode implements audio.Encoder
func (e *Encoder) Encode(ctx context.Context, req *audio.ConversionRequest, outputPath string) error {
	args := Args(req, outputPath)
	if e.onCommand != nil {
		e.onCommand(e.ffmpegPath, args)
	}

	if err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w", err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg can be located
func (e *Encoder) VerifyInstalled(ctx context.Context) error {
	if _, err := e.runner.LookPath(e.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s is not installed or not found on PATH", audio.ErrEncoderNotFound, e.ffmpegPath)
	}
	return nil
}

// Version returns the first line of `ffmpeg -version`
func (e *Encoder) Version(ctx context.Context) (string, error) {
	out, err := e.runner.Output(ctx, e.ffmpegPath, "-version")
	if err != nil {
		return "", fmt.Errorf("ffmpeg found but -version failed: %w", err)
	}
	first, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(first), nil
}

// Path returns the configured ffmpeg executable
func (e *Encoder) Path() string {
	return e.ffmpegPath
}

// Ensure Encoder implements audio.Encoder
var _ audio.Encoder = (*Encoder)(nil)
