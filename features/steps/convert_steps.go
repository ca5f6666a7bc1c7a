//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"video-to-mp3/cmd"
	"video-to-mp3/infrastructure/config"
	"video-to-mp3/infrastructure/ffmpeg"
	"video-to-mp3/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

// mockRunner stands in for ffmpeg: it records calls and writes the output file
type mockRunner struct {
	missing bool
	failFor map[string]bool // keyed by source path relative to the workspace
	root    string
	calls   [][]string
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	m.calls = append(m.calls, args)

	src := ""
	for i, a := range args {
		if a == "-i" && i+1 < len(args) {
			src = args[i+1]
		}
	}
	rel, _ := filepath.Rel(m.root, src)
	if m.failFor[filepath.ToSlash(rel)] {
		return &ffmpeg.RunError{Err: errors.New("exit status 1"), Stderr: "Invalid data found when processing input"}
	}

	return os.WriteFile(args[len(args)-1], []byte("mp3"), 0o644)
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return []byte("ffmpeg version test"), nil
}

func (m *mockRunner) LookPath(name string) (string, error) {
	if m.missing {
		return "", errors.New("executable file not found in $PATH")
	}
	return "/usr/bin/" + name, nil
}

// convertContext holds test state for conversion scenarios
type convertContext struct {
	root   string
	cfg    *config.Config
	runner *mockRunner
	output *bytes.Buffer
	err    error
}

// SharedConvertContext is reset before each scenario via Before hook
var SharedConvertContext *convertContext

func getConvertContext() *convertContext {
	return SharedConvertContext
}

func InitializeConvertScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		root, err := os.MkdirTemp("", "convert-test-*")
		if err != nil {
			return c, err
		}
		cfg := config.Default()
		cfg.Paths.InputDirectory = filepath.Join(root, "input mp4")
		cfg.Paths.OutputDirectory = filepath.Join(root, "output mp3")

		SharedConvertContext = &convertContext{
			root:   root,
			cfg:    cfg,
			runner: &mockRunner{root: root, failFor: make(map[string]bool)},
			output: &bytes.Buffer{},
		}
		return c, os.MkdirAll(cfg.Paths.InputDirectory, 0o755)
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedConvertContext != nil {
			os.RemoveAll(SharedConvertContext.root)
		}
		SharedConvertContext = nil
		return c, nil
	})

	ctx.Step(`^a video file "([^"]*)"$`, aVideoFile)
	ctx.Step(`^an existing output file "([^"]*)"$`, aVideoFile)
	ctx.Step(`^ffmpeg is not installed$`, ffmpegIsNotInstalled)
	ctx.Step(`^ffmpeg fails for "([^"]*)"$`, ffmpegFailsFor)
	ctx.Step(`^overwrite is enabled$`, overwriteIsEnabled)
	ctx.Step(`^recursive search is enabled$`, recursiveSearchIsEnabled)
	ctx.Step(`^the bitrate is "([^"]*)"$`, theBitrateIs)
	ctx.Step(`^the allowed extensions are "([^"]*)"$`, theAllowedExtensionsAre)
	ctx.Step(`^I convert the videos$`, iConvertTheVideos)
	ctx.Step(`^I attempt to convert the videos$`, iAttemptToConvertTheVideos)
	ctx.Step(`^the file "([^"]*)" should exist$`, theFileShouldExist)
	ctx.Step(`^the path "([^"]*)" should not exist$`, thePathShouldNotExist)
	ctx.Step(`^ffmpeg should have been called (\d+) times?$`, ffmpegShouldHaveBeenCalledTimes)
	ctx.Step(`^ffmpeg should not have been called$`, ffmpegShouldNotHaveBeenCalled)
	ctx.Step(`^ffmpeg should have been called with arguments:$`, ffmpegShouldHaveBeenCalledWithArguments)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
	ctx.Step(`^I should receive an error containing "([^"]*)"$`, iShouldReceiveAnErrorContaining)
}

func aVideoFile(path string) error {
	c := getConvertContext()
	full := filepath.Join(c.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, []byte("data"), 0o644)
}

func ffmpegIsNotInstalled() error {
	getConvertContext().runner.missing = true
	return nil
}

func ffmpegFailsFor(path string) error {
	getConvertContext().runner.failFor[path] = true
	return nil
}

func overwriteIsEnabled() error {
	getConvertContext().cfg.Audio.Overwrite = true
	return nil
}

func recursiveSearchIsEnabled() error {
	getConvertContext().cfg.Scan.Recursive = true
	return nil
}

func theBitrateIs(bitrate string) error {
	getConvertContext().cfg.Audio.Bitrate = bitrate
	return nil
}

func theAllowedExtensionsAre(exts string) error {
	getConvertContext().cfg.Scan.Extensions = strings.Fields(exts)
	return nil
}

func runConversion() error {
	c := getConvertContext()
	return cmd.RunConvertWithDependencies(
		context.Background(),
		ffmpeg.NewEncoder(ffmpeg.WithCommandRunner(c.runner)),
		filesystem.NewFinder(),
		filesystem.NewChecker(),
		filesystem.NewDirs(),
		filesystem.NewLockerIn(c.root),
		c.cfg,
		false,
		c.output,
	)
}

func iConvertTheVideos() error {
	c := getConvertContext()
	c.err = runConversion()
	if c.err != nil {
		return fmt.Errorf("unexpected error: %v\n%s", c.err, c.output.String())
	}
	return nil
}

func iAttemptToConvertTheVideos() error {
	c := getConvertContext()
	c.err = runConversion()
	return nil
}

func theFileShouldExist(path string) error {
	c := getConvertContext()
	if _, err := os.Stat(filepath.Join(c.root, filepath.FromSlash(path))); err != nil {
		return fmt.Errorf("expected %s to exist: %w", path, err)
	}
	return nil
}

func thePathShouldNotExist(path string) error {
	c := getConvertContext()
	if _, err := os.Stat(filepath.Join(c.root, filepath.FromSlash(path))); !os.IsNotExist(err) {
		return fmt.Errorf("expected %s not to exist", path)
	}
	return nil
}

func ffmpegShouldHaveBeenCalledTimes(n int) error {
	c := getConvertContext()
	if len(c.runner.calls) != n {
		return fmt.Errorf("expected %d ffmpeg calls, got %d", n, len(c.runner.calls))
	}
	return nil
}

func ffmpegShouldNotHaveBeenCalled() error {
	return ffmpegShouldHaveBeenCalledTimes(0)
}

func ffmpegShouldHaveBeenCalledWithArguments(table *godog.Table) error {
	c := getConvertContext()
	if len(c.runner.calls) == 0 {
		return fmt.Errorf("ffmpeg was not called")
	}

	call := c.runner.calls[0]
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		expectedArg := row.Cells[0].Value
		found := false
		for _, arg := range call {
			if arg == expectedArg {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("expected argument %q not found in ffmpeg call: %v", expectedArg, call)
		}
	}
	return nil
}

func theOutputShouldContain(text string) error {
	c := getConvertContext()
	if !strings.Contains(c.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, c.output.String())
	}
	return nil
}

func iShouldReceiveAnErrorContaining(text string) error {
	c := getConvertContext()
	if c.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(c.err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got: %v", text, c.err)
	}
	return nil
}
