package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"video-to-mp3/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "video-to-mp3",
	Short: "Batch convert video files to compressed MP3 audio",
	Long: `video-to-mp3 converts every video in the input folder to an MP3 in the
output folder using ffmpeg. The folder structure below the input folder is
mirrored in the output folder.

Existing MP3 files are skipped unless --overwrite is given.

Example:
  video-to-mp3
  video-to-mp3 --input-dir "input mp4" --output-dir "output mp3" --bitrate 128k
  video-to-mp3 --recursive --extensions .mp4,.mkv --overwrite
  video-to-mp3 --extensions .mp4 --extensions .mkv`,
	Args:          convertArgs,
	SilenceErrors: true,
	RunE:          runConvert,
}

// Execute runs the root command. Ctrl-C interrupts the current ffmpeg, discards its
// partial output and stops the run before the next file.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, YAML or .toml (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		// The default config file is optional
		cfg, cfgErr = config.LoadOptional(config.DefaultPath)
		return
	}

	cfg, cfgErr = config.Load(cfgFile)
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}

// configPath returns the config file in use
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath
}
