package cmd

import (
	"context"
	"fmt"
	"os"

	"video-to-mp3/infrastructure/ffmpeg"

	"github.com/spf13/cobra"
)

var checkFFmpeg string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that ffmpeg is installed",
	Long: `Check that the ffmpeg executable can be found and report its version.

Exits with a non-zero status when ffmpeg is missing.

Example:
  video-to-mp3 check
  video-to-mp3 check --ffmpeg /opt/ffmpeg/bin/ffmpeg`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkFFmpeg, "ffmpeg", "", "ffmpeg executable name or path (default from config or ffmpeg)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	path := checkFFmpeg
	if path == "" {
		path = cfg.FFmpeg.Path
	}

	return RunCheckWithDependencies(cmd.Context(), ffmpeg.NewEncoder(ffmpeg.WithFFmpegPath(path)), os.Stdout)
}

// VersionedEncoder is an encoder that can report where it lives and its version
type VersionedEncoder interface {
	VerifyInstalled(ctx context.Context) error
	Version(ctx context.Context) (string, error)
	Path() string
}

// RunCheckWithDependencies runs the check command with injected dependencies (for testing)
func RunCheckWithDependencies(ctx context.Context, encoder VersionedEncoder, output OutputWriter) error {
	if err := encoder.VerifyInstalled(ctx); err != nil {
		fmt.Fprintf(output, "ffmpeg: not found (%s)\n", encoder.Path())
		return err
	}

	version, err := encoder.Version(ctx)
	if err != nil {
		fmt.Fprintf(output, "ffmpeg: found at %s but %v\n", encoder.Path(), err)
		return err
	}

	fmt.Fprintf(output, "ffmpeg: %s\n", version)
	return nil
}
