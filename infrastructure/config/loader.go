package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"video-to-mp3/domain/audio"
)

// DefaultPath is where the config file is looked up when --config is not given
const DefaultPath = "config/config.yaml"

// Config represents the complete application configuration
type Config struct {
	Paths  PathsConfig  `yaml:"paths" toml:"paths"`
	Audio  AudioConfig  `yaml:"audio" toml:"audio"`
	Scan   ScanConfig   `yaml:"scan" toml:"scan"`
	FFmpeg FFmpegConfig `yaml:"ffmpeg" toml:"ffmpeg"`
}

// PathsConfig contains the input and output roots
type PathsConfig struct {
	InputDirectory  string `yaml:"input_directory" toml:"input_directory"`
	OutputDirectory string `yaml:"output_directory" toml:"output_directory"`
}

// AudioConfig contains encoding settings
type AudioConfig struct {
	Bitrate   string `yaml:"bitrate" toml:"bitrate"`
	Overwrite bool   `yaml:"overwrite" toml:"overwrite"`
}

// ScanConfig controls which source files are selected
type ScanConfig struct {
	Recursive  bool     `yaml:"recursive" toml:"recursive"`
	Extensions []string `yaml:"extensions" toml:"extensions"`
}

// FFmpegConfig contains encoder executable settings
type FFmpegConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// Default returns the built-in configuration
func Default() *Config {
	exts := make([]string, len(audio.DefaultExtensions))
	copy(exts, audio.DefaultExtensions)

	return &Config{
		Paths: PathsConfig{
			InputDirectory:  "input mp4",
			OutputDirectory: "output mp3",
		},
		Audio: AudioConfig{
			Bitrate: audio.DefaultBitrate,
		},
		Scan: ScanConfig{
			Extensions: exts,
		},
		FFmpeg: FFmpegConfig{
			Path: "ffmpeg",
		},
	}
}

// Load reads and parses the configuration from the specified file.
// Files ending in .toml are read as TOML, anything else as YAML.
// Keys missing from the file keep their built-in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadOptional behaves like Load but returns the defaults when the file does not exist
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the configuration to the specified file, as TOML or YAML by extension
func Save(cfg *Config, path string) error {
	var data []byte
	var err error
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
		if err != nil {
			err = fmt.Errorf("failed to serialize config: %w", err)
		}
	} else {
		data, err = Marshal(cfg)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Marshal serializes the configuration as YAML
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}
	return data, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Validate checks that the configuration can drive a conversion run
func (c *Config) Validate() error {
	if c.Paths.InputDirectory == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.Paths.OutputDirectory == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Audio.Bitrate == "" {
		return fmt.Errorf("bitrate is required")
	}
	if _, err := audio.NewExtensions(c.Scan.Extensions); err != nil {
		return err
	}
	return nil
}
