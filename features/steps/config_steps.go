//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"video-to-mp3/cmd"
	"video-to-mp3/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	dir        string
	configPath string
	cfg        *config.Config
	loadErr    error
	cmdErr     error
	output     bytes.Buffer
}

// SharedConfigContext is reset before each scenario via Before hook
var SharedConfigContext = &configContext{}

func getConfigContext() *configContext {
	return SharedConfigContext
}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		SharedConfigContext = &configContext{dir: dir}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		os.RemoveAll(SharedConfigContext.dir)
		SharedConfigContext = &configContext{}
		return c, nil
	})

	ctx.Step(`^a configuration file "([^"]*)" containing:$`, aConfigurationFileContaining)
	ctx.Step(`^no configuration file exists at "([^"]*)"$`, noConfigurationFileExistsAt)
	ctx.Step(`^I load the configuration$`, iLoadTheConfiguration)
	ctx.Step(`^I load the optional configuration$`, iLoadTheOptionalConfiguration)
	ctx.Step(`^I attempt to load the configuration$`, iAttemptToLoadTheConfiguration)
	ctx.Step(`^the input directory should be "([^"]*)"$`, theInputDirectoryShouldBe)
	ctx.Step(`^the output directory should be "([^"]*)"$`, theOutputDirectoryShouldBe)
	ctx.Step(`^the configured bitrate should be "([^"]*)"$`, theConfiguredBitrateShouldBe)
	ctx.Step(`^overwrite should be (true|false)$`, overwriteShouldBe)
	ctx.Step(`^the configured extensions should be "([^"]*)"$`, theConfiguredExtensionsShouldBe)
	ctx.Step(`^I should receive an error about missing configuration$`, iShouldReceiveAnErrorAboutMissingConfiguration)
	ctx.Step(`^I should receive a configuration error containing "([^"]*)"$`, iShouldReceiveAConfigurationErrorContaining)
	ctx.Step(`^I set config "([^"]*)" to "([^"]*)"$`, iSetConfigTo)
	ctx.Step(`^I get config "([^"]*)"$`, iGetConfig)
	ctx.Step(`^the config output should be "([^"]*)"$`, theConfigOutputShouldBe)
}

func aConfigurationFileContaining(name string, body *godog.DocString) error {
	c := getConfigContext()
	c.configPath = filepath.Join(c.dir, name)
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.configPath, []byte(body.Content), 0o644)
}

func noConfigurationFileExistsAt(name string) error {
	c := getConfigContext()
	c.configPath = filepath.Join(c.dir, name)
	if _, err := os.Stat(c.configPath); err == nil {
		return fmt.Errorf("expected no config file at %s", c.configPath)
	}
	return nil
}

func iLoadTheConfiguration() error {
	c := getConfigContext()
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("unexpected error loading config: %w", err)
	}
	c.cfg = cfg
	return nil
}

func iLoadTheOptionalConfiguration() error {
	c := getConfigContext()
	cfg, err := config.LoadOptional(c.configPath)
	if err != nil {
		return fmt.Errorf("unexpected error loading config: %w", err)
	}
	c.cfg = cfg
	return nil
}

func iAttemptToLoadTheConfiguration() error {
	c := getConfigContext()
	cfg, err := config.Load(c.configPath)
	if err == nil {
		err = cfg.Validate()
	}
	c.cfg = cfg
	c.loadErr = err
	return nil
}

func loadedConfig() (*config.Config, error) {
	c := getConfigContext()
	if c.cfg == nil {
		return nil, fmt.Errorf("config was not loaded")
	}
	return c.cfg, nil
}

func theInputDirectoryShouldBe(expected string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	if cfg.Paths.InputDirectory != expected {
		return fmt.Errorf("expected input directory %q, got %q", expected, cfg.Paths.InputDirectory)
	}
	return nil
}

func theOutputDirectoryShouldBe(expected string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	if cfg.Paths.OutputDirectory != expected {
		return fmt.Errorf("expected output directory %q, got %q", expected, cfg.Paths.OutputDirectory)
	}
	return nil
}

func theConfiguredBitrateShouldBe(expected string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	if cfg.Audio.Bitrate != expected {
		return fmt.Errorf("expected bitrate %q, got %q", expected, cfg.Audio.Bitrate)
	}
	return nil
}

func overwriteShouldBe(expected string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	want, _ := strconv.ParseBool(expected)
	if cfg.Audio.Overwrite != want {
		return fmt.Errorf("expected overwrite %v, got %v", want, cfg.Audio.Overwrite)
	}
	return nil
}

func theConfiguredExtensionsShouldBe(expected string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	if got := strings.Join(cfg.Scan.Extensions, " "); got != expected {
		return fmt.Errorf("expected extensions %q, got %q", expected, got)
	}
	return nil
}

func iShouldReceiveAnErrorAboutMissingConfiguration() error {
	c := getConfigContext()
	if c.loadErr == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !errors.Is(c.loadErr, fs.ErrNotExist) {
		return fmt.Errorf("expected missing file error, got: %v", c.loadErr)
	}
	return nil
}

func iShouldReceiveAConfigurationErrorContaining(text string) error {
	c := getConfigContext()
	if c.loadErr == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(c.loadErr.Error(), text) {
		return fmt.Errorf("expected error containing %q, got: %v", text, c.loadErr)
	}
	return nil
}

func iSetConfigTo(key, value string) error {
	c := getConfigContext()
	cfg, err := config.LoadOptional(c.configPath)
	if err != nil {
		return err
	}
	c.output.Reset()
	c.cmdErr = cmd.RunConfigSetWithDependencies(cfg, c.configPath, key, value, &c.output)
	return c.cmdErr
}

func iGetConfig(key string) error {
	c := getConfigContext()
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.output.Reset()
	c.cmdErr = cmd.RunConfigGetWithDependencies(cfg, c.configPath, key, &c.output)
	return c.cmdErr
}

func theConfigOutputShouldBe(expected string) error {
	c := getConfigContext()
	if got := strings.TrimSpace(c.output.String()); got != expected {
		return fmt.Errorf("expected output %q, got %q", expected, got)
	}
	return nil
}
