package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	appconvert "video-to-mp3/application/convert"
	"video-to-mp3/domain/audio"
	"video-to-mp3/infrastructure/config"
	"video-to-mp3/infrastructure/ffmpeg"
	"video-to-mp3/infrastructure/filesystem"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
)

var (
	convertInputDir   string
	convertOutputDir  string
	convertBitrate    string
	convertOverwrite  bool
	convertRecursive  bool
	convertExtensions []string
	convertFFmpeg     string
	convertDryRun     bool
	convertVerbose    bool
)

func init() {
	defaults := config.Default()

	flags := rootCmd.Flags()
	flags.StringVar(&convertInputDir, "input-dir", defaults.Paths.InputDirectory, "Folder containing video files to convert")
	flags.StringVar(&convertOutputDir, "output-dir", defaults.Paths.OutputDirectory, "Destination folder for converted .mp3 files")
	flags.StringVar(&convertBitrate, "bitrate", defaults.Audio.Bitrate, "Target audio bitrate for MP3 (e.g. 128k, 192k, 256k)")
	flags.BoolVar(&convertOverwrite, "overwrite", false, "Overwrite existing MP3 files instead of skipping them")
	flags.BoolVar(&convertRecursive, "recursive", false, "Search for video files recursively inside the input folder")
	flags.StringSliceVar(&convertExtensions, "extensions", defaults.Scan.Extensions, "Video file extensions to convert, comma separated or repeated (--extensions .mp4,.mkv or --extensions .mp4 --extensions .mkv)")
	flags.StringVar(&convertFFmpeg, "ffmpeg", defaults.FFmpeg.Path, "ffmpeg executable name or path")
	flags.BoolVar(&convertDryRun, "dry-run", false, "Show what would be converted without running ffmpeg")
	flags.BoolVarP(&convertVerbose, "verbose", "v", false, "Print every ffmpeg command before running it")
}

// convertArgs rejects positional arguments, pointing users of the
// space separated form (--extensions .mp4 .mkv) at the comma form
func convertArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if cmd.Flags().Changed("extensions") {
		return fmt.Errorf("unexpected argument %q: separate extensions with commas, e.g. --extensions %s",
			args[0], strings.Join(append(convertExtensions, args...), ","))
	}
	return cobra.NoArgs(cmd, args)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	// Explicit flags win over the config file
	flags := cmd.Flags()
	if flags.Changed("input-dir") {
		cfg.Paths.InputDirectory = convertInputDir
	}
	if flags.Changed("output-dir") {
		cfg.Paths.OutputDirectory = convertOutputDir
	}
	if flags.Changed("bitrate") {
		cfg.Audio.Bitrate = convertBitrate
	}
	if flags.Changed("overwrite") {
		cfg.Audio.Overwrite = convertOverwrite
	}
	if flags.Changed("recursive") {
		cfg.Scan.Recursive = convertRecursive
	}
	if flags.Changed("extensions") {
		cfg.Scan.Extensions = convertExtensions
	}
	if flags.Changed("ffmpeg") {
		cfg.FFmpeg.Path = convertFFmpeg
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	out := os.Stdout
	opts := []ffmpeg.EncoderOption{ffmpeg.WithFFmpegPath(cfg.FFmpeg.Path)}
	if convertVerbose {
		opts = append(opts, ffmpeg.WithCommandHook(func(name string, args []string) {
			fmt.Fprintf(out, "Running command: %s\n", shellquote.Join(append([]string{name}, args...)...))
		}))
	}

	return RunConvertWithDependencies(
		cmd.Context(),
		ffmpeg.NewEncoder(opts...),
		filesystem.NewFinder(filesystem.WithWarnings(out)),
		filesystem.NewChecker(),
		filesystem.NewDirs(),
		filesystem.NewLocker(),
		cfg,
		convertDryRun,
		out,
	)
}

// RunConvertWithDependencies runs a conversion with injected dependencies (for testing).
// It returns an error when the run could not start or when any file failed.
func RunConvertWithDependencies(
	ctx context.Context,
	encoder audio.Encoder,
	fileFinder audio.FileFinder,
	fileChecker audio.FileChecker,
	dirs audio.DirectoryCreator,
	lock audio.RunLock,
	cfg *config.Config,
	dryRun bool,
	output OutputWriter,
) error {
	service := appconvert.NewService(encoder, fileFinder, fileChecker, dirs, output)
	if lock != nil {
		service.WithLock(lock)
	}

	summary, err := service.Run(ctx, appconvert.Input{
		InputDir:   cfg.Paths.InputDirectory,
		OutputDir:  cfg.Paths.OutputDirectory,
		Extensions: cfg.Scan.Extensions,
		Bitrate:    cfg.Audio.Bitrate,
		Overwrite:  cfg.Audio.Overwrite,
		Recursive:  cfg.Scan.Recursive,
		DryRun:     dryRun,
	})
	if err != nil {
		return err
	}

	if summary.Total() > 0 {
		fmt.Fprintln(output)
		fmt.Fprintln(output, RenderSummary(summary, isTerminal(output)))
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed to convert", summary.Failed)
	}
	return nil
}
