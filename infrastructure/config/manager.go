package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"video-to-mp3/domain/audio"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// ConfigManager reads and updates single config entries and persists them
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

type entry struct {
	get func(*Config) string
	set func(*Config, string) error
}

var entries = map[string]entry{
	"input_directory": {
		get: func(c *Config) string { return c.Paths.InputDirectory },
		set: func(c *Config, v string) error { return setRequired(&c.Paths.InputDirectory, v) },
	},
	"output_directory": {
		get: func(c *Config) string { return c.Paths.OutputDirectory },
		set: func(c *Config, v string) error { return setRequired(&c.Paths.OutputDirectory, v) },
	},
	"bitrate": {
		get: func(c *Config) string { return c.Audio.Bitrate },
		set: func(c *Config, v string) error { return setRequired(&c.Audio.Bitrate, v) },
	},
	"overwrite": {
		get: func(c *Config) string { return strconv.FormatBool(c.Audio.Overwrite) },
		set: func(c *Config, v string) error { return setBool(&c.Audio.Overwrite, v) },
	},
	"recursive": {
		get: func(c *Config) string { return strconv.FormatBool(c.Scan.Recursive) },
		set: func(c *Config, v string) error { return setBool(&c.Scan.Recursive, v) },
	},
	"extensions": {
		get: func(c *Config) string { return strings.Join(c.Scan.Extensions, " ") },
		set: func(c *Config, v string) error {
			fields := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })
			exts, err := audio.NewExtensions(fields)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidValue, err)
			}
			c.Scan.Extensions = exts.List()
			return nil
		},
	},
	"ffmpeg_path": {
		get: func(c *Config) string { return c.FFmpeg.Path },
		set: func(c *Config, v string) error { return setRequired(&c.FFmpeg.Path, v) },
	},
}

// Keys returns every settable key, sorted
func Keys() []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key (case-insensitive)
func (m *ConfigManager) Get(key string) (string, error) {
	key = normalizeKey(key)
	e, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return e.get(m.config), nil
}

// Set updates key and saves the config file
func (m *ConfigManager) Set(key, value string) error {
	key = normalizeKey(key)
	e, ok := entries[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	if err := e.set(m.config, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return Save(m.config, m.configPath)
}

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.ReplaceAll(key, "-", "_")
}

func setRequired(dst *string, v string) error {
	if v == "" {
		return fmt.Errorf("%w: value is required", ErrInvalidValue)
	}
	*dst = v
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v)
	}
	*dst = b
	return nil
}
