package convert

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"video-to-mp3/domain/audio"
)

// Service runs a batch conversion: find, plan, then encode one file at a time
type Service struct {
	encoder     audio.Encoder
	fileFinder  audio.FileFinder
	fileChecker audio.FileChecker
	dirs        audio.DirectoryCreator
	lock        audio.RunLock
	output      io.Writer
}

// NewService creates a new convert service
func NewService(
	encoder audio.Encoder,
	fileFinder audio.FileFinder,
	fileChecker audio.FileChecker,
	dirs audio.DirectoryCreator,
	output io.Writer,
) *Service {
	return &Service{
		encoder:     encoder,
		fileFinder:  fileFinder,
		fileChecker: fileChecker,
		dirs:        dirs,
		output:      output,
	}
}

// WithLock makes Run hold lock on the output directory while it writes
func (s *Service) WithLock(lock audio.RunLock) *Service {
	s.lock = lock
	return s
}

// Input contains all input parameters for a conversion run
type Input struct {
	InputDir   string
	OutputDir  string
	Extensions []string
	Bitrate    string
	Overwrite  bool
	Recursive  bool
	DryRun     bool // plan and report without encoding
}

// PreconditionError is returned when the run cannot start at all
type PreconditionError struct {
	Err error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%v\n\nInstall ffmpeg from https://ffmpeg.org/download.html and try again.", e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// Run converts every qualifying file below input.InputDir.
// Per-file failures are recorded in the summary and do not stop the run;
// only precondition and configuration problems are returned as errors.
func (s *Service) Run(ctx context.Context, input Input) (*Summary, error) {
	startTime := time.Now()

	// The encoder must be present before any file is touched
	if err := s.encoder.VerifyInstalled(ctx); err != nil {
		return nil, &PreconditionError{Err: err}
	}

	exts, err := audio.NewExtensions(input.Extensions)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(s.output, "Searching for video files in %s\n", input.InputDir)
	files, err := s.fileFinder.Find(input.InputDir, exts, input.Recursive)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	if len(files) == 0 {
		fmt.Fprintf(s.output, "Warning: no matching video files found in %s\n", input.InputDir)
		return summary, nil
	}
	fmt.Fprintf(s.output, "Found %d video file(s) to convert\n\n", len(files))

	planner := NewPlanner(s.fileChecker)
	plans, err := planner.Plan(files, PlanOptions{
		InputDir:  input.InputDir,
		OutputDir: input.OutputDir,
		Bitrate:   input.Bitrate,
		Overwrite: input.Overwrite,
	})
	if err != nil {
		return nil, err
	}

	// Only runs that will write take the lock; dry runs never contend for it
	if s.lock != nil && !input.DryRun && hasEncodes(plans) {
		release, err := s.lock.TryLock(input.OutputDir)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	for i, plan := range plans {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(s.output, "Interrupted, %d file(s) not processed\n", len(plans)-i)
			break
		}

		fmt.Fprintf(s.output, "[%d/%d] ", i+1, len(plans))
		summary.Add(s.execute(ctx, plan, input.DryRun))
	}

	summary.Elapsed = time.Since(startTime)
	fmt.Fprintf(s.output, "\nConversion complete in %s\n", formatDuration(summary.Elapsed))
	return summary, nil
}

// execute carries out a single planned conversion and reports its outcome
func (s *Service) execute(ctx context.Context, plan PlannedConversion, dryRun bool) audio.Outcome {
	src := filepath.Base(plan.Request.SourcePath)
	dst := filepath.Base(plan.OutputPath)

	if plan.Action == ActionSkip {
		fmt.Fprintf(s.output, "Skipping %s (%s)\n", dst, plan.SkipReason)
		return audio.Skipped(plan.Request, plan.OutputPath, plan.SkipReason)
	}

	if dryRun {
		fmt.Fprintf(s.output, "Would convert %s -> %s\n", src, plan.OutputPath)
		return audio.Skipped(plan.Request, plan.OutputPath, "dry run")
	}

	if err := s.dirs.MkdirAll(filepath.Dir(plan.OutputPath)); err != nil {
		fmt.Fprintf(s.output, "Failed to convert %s: %v\n", plan.Request.SourcePath, err)
		return audio.Failed(plan.Request, plan.OutputPath, err)
	}

	if err := s.encoder.Encode(ctx, plan.Request, plan.OutputPath); err != nil {
		if ctx.Err() != nil {
			// A partial file would be skipped as existing on the next run
			s.discard(plan.OutputPath)
			err = fmt.Errorf("interrupted: %w", err)
		}
		fmt.Fprintf(s.output, "Failed to convert %s: %v\n", plan.Request.SourcePath, err)
		return audio.Failed(plan.Request, plan.OutputPath, err)
	}

	fmt.Fprintf(s.output, "Converted %s -> %s\n", src, dst)
	return audio.Converted(plan.Request, plan.OutputPath)
}

// discard removes an incomplete output when the directory adapter can delete files
func (s *Service) discard(path string) {
	remover, ok := s.dirs.(audio.FileRemover)
	if !ok {
		return
	}
	if err := remover.Remove(path); err != nil {
		fmt.Fprintf(s.output, "Warning: could not remove incomplete %s: %v\n", path, err)
	}
}

func hasEncodes(plans []PlannedConversion) bool {
	for _, plan := range plans {
		if plan.Action == ActionEncode {
			return true
		}
	}
	return false
}

// formatDuration formats a duration as "Xm Ys"
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
