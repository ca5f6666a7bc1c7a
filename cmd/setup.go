package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"video-to-mp3/domain/audio"
	"video-to-mp3/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

Every value can still be overridden on the command line; the file only
changes the defaults.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, configPath(), os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, output OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite?", filepath.Base(configPath)), false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(output, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(output, "Welcome to video-to-mp3 setup!")
	fmt.Fprintln(output)

	cfg := config.Default()

	if err := promptPaths(prompter, cfg); err != nil {
		return err
	}
	if err := promptAudio(prompter, cfg); err != nil {
		return err
	}
	if err := promptScan(prompter, cfg); err != nil {
		return err
	}
	if err := promptFFmpeg(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Configuration saved to %s\n", configPath)
	return nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	input, err := prompter.Input("Where are the videos to convert?", cfg.Paths.InputDirectory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if input = strings.TrimSpace(input); input == "" {
		return fmt.Errorf("input directory is required")
	}
	cfg.Paths.InputDirectory = input

	output, err := prompter.Input("Where should MP3 files go?", cfg.Paths.OutputDirectory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if output = strings.TrimSpace(output); output == "" {
		return fmt.Errorf("output directory is required")
	}
	cfg.Paths.OutputDirectory = output

	return nil
}

func promptAudio(prompter Prompter, cfg *config.Config) error {
	bitrate, err := prompter.Input("Audio bitrate for mp3 conversion?", audio.DefaultBitrate)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if bitrate = strings.TrimSpace(bitrate); bitrate == "" {
		bitrate = audio.DefaultBitrate
	}
	cfg.Audio.Bitrate = bitrate

	overwrite, err := prompter.Confirm("Overwrite existing MP3 files?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Audio.Overwrite = overwrite

	return nil
}

func promptScan(prompter Prompter, cfg *config.Config) error {
	recursive, err := prompter.Confirm("Search subfolders too?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Scan.Recursive = recursive

	exts, err := prompter.Input("Video extensions to convert (space or comma separated)?", strings.Join(cfg.Scan.Extensions, " "))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if fields := splitList(exts); len(fields) > 0 {
		normalized, err := audio.NewExtensions(fields)
		if err != nil {
			return err
		}
		cfg.Scan.Extensions = normalized.List()
	}

	return nil
}

func promptFFmpeg(prompter Prompter, cfg *config.Config) error {
	path, err := prompter.Input("ffmpeg executable?", cfg.FFmpeg.Path)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if path = strings.TrimSpace(path); path != "" {
		cfg.FFmpeg.Path = path
	}

	return nil
}

// splitList splits a space and/or comma separated list
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
