package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	appconvert "video-to-mp3/application/convert"
	"video-to-mp3/domain/audio"
	"video-to-mp3/infrastructure/config"
	"video-to-mp3/infrastructure/filesystem"
)

// fakeEncoder writes a placeholder MP3 instead of running ffmpeg
type fakeEncoder struct {
	missing bool
	fail    map[string]bool // keyed by source base name
	encoded []string
}

func (f *fakeEncoder) Encode(ctx context.Context, req *audio.ConversionRequest, outputPath string) error {
	f.encoded = append(f.encoded, outputPath)
	if f.fail[filepath.Base(req.SourcePath)] {
		return errors.New("ffmpeg conversion failed: exit status 1")
	}
	// Like ffmpeg -n, refuse to replace an existing file
	if _, err := os.Stat(outputPath); err == nil && !req.Overwrite {
		return fmt.Errorf("ffmpeg conversion failed: exit status 1: File '%s' already exists. Exiting.", outputPath)
	}
	return os.WriteFile(outputPath, []byte(req.SourcePath), 0o644)
}

func (f *fakeEncoder) VerifyInstalled(ctx context.Context) error {
	if f.missing {
		return audio.ErrEncoderNotFound
	}
	return nil
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func testConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Paths.InputDirectory = filepath.Join(root, "input mp4")
	cfg.Paths.OutputDirectory = filepath.Join(root, "output mp3")
	return cfg
}

func convertFixture(t *testing.T, enc *fakeEncoder, cfg *config.Config) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := RunConvertWithDependencies(
		context.Background(),
		enc,
		filesystem.NewFinder(),
		filesystem.NewChecker(),
		filesystem.NewDirs(),
		filesystem.NewLockerIn(t.TempDir()),
		cfg,
		false,
		&out,
	)
	return out.String(), err
}

func TestRunConvert_MirrorsTree(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	cfg.Scan.Recursive = true
	writeFile(t, filepath.Join(cfg.Paths.InputDirectory, "a.mp4"))
	writeFile(t, filepath.Join(cfg.Paths.InputDirectory, "sub", "b.mov"))
	writeFile(t, filepath.Join(cfg.Paths.InputDirectory, "notes.txt"))

	enc := &fakeEncoder{}
	out, err := convertFixture(t, enc, cfg)
	if err != nil {
		t.Fatalf("RunConvertWithDependencies() unexpected error: %v\n%s", err, out)
	}

	for _, rel := range []string{"a.mp3", filepath.Join("sub", "b.mp3")} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDirectory, rel)); err != nil {
			t.Errorf("expected output %s: %v", rel, err)
		}
	}
	if len(enc.encoded) != 2 {
		t.Errorf("encoded %d files, want 2", len(enc.encoded))
	}
	if !strings.Contains(out, "Converted") {
		t.Errorf("summary missing from output:\n%s", out)
	}
}

func TestRunConvert_SecondRunSkipsEverything(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	writeFile(t, filepath.Join(cfg.Paths.InputDirectory, "a.mp4"))

	if _, err := convertFixture(t, &fakeEncoder{}, cfg); err != nil {
		t.Fatalf("first run: %v", err)
	}

	enc := &fakeEncoder{}
	out, err := convertFixture(t, enc, cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(enc.encoded) != 0 {
		t.Errorf("second run encoded %v, want nothing", enc.encoded)
	}
	if !strings.Contains(out, "Skipping a.mp3 (destination already exists)") {
		t.Errorf("expected skip line, got:\n%s", out)
	}
}

func TestRunConvert_FailuresReturnError(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	writeFile(t, filepath.Join(cfg.Paths.InputDirectory, "a.mp4"))
	writeFile(t, filepath.Join(cfg.Paths.InputDirectory, "broken.mp4"))

	out, err := convertFixture(t, &fakeEncoder{fail: map[string]bool{"broken.mp4": true}}, cfg)
	if err == nil || !strings.Contains(err.Error(), "1 file(s) failed to convert") {
		t.Fatalf("RunConvertWithDependencies() error = %v, want failure count", err)
	}
	if !strings.Contains(out, "Failed conversions") || !strings.Contains(out, "broken.mp4") {
		t.Errorf("failure table missing from output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDirectory, "a.mp3")); err != nil {
		t.Errorf("good file should still be converted: %v", err)
	}
}

func TestRunConvert_EncoderMissing(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	writeFile(t, filepath.Join(cfg.Paths.InputDirectory, "a.mp4"))

	_, err := convertFixture(t, &fakeEncoder{missing: true}, cfg)

	var precondition *appconvert.PreconditionError
	if !errors.As(err, &precondition) {
		t.Fatalf("RunConvertWithDependencies() error = %v, want *PreconditionError", err)
	}
	if _, err := os.Stat(cfg.Paths.OutputDirectory); !os.IsNotExist(err) {
		t.Error("output directory must not be created when ffmpeg is missing")
	}
}

func TestRunConvert_MissingInputDir(t *testing.T) {
	cfg := testConfig(t.TempDir())

	_, err := convertFixture(t, &fakeEncoder{}, cfg)
	if err == nil || !strings.Contains(err.Error(), "does not exist or is not a directory") {
		t.Fatalf("RunConvertWithDependencies() error = %v", err)
	}
}

func TestRenderSummary(t *testing.T) {
	req, _ := audio.NewConversionRequest("input mp4/bad.mp4", "bad.mp4", "", false)
	summary := &appconvert.Summary{}
	summary.Add(audio.Converted(req, "output mp3/ok.mp3"))
	summary.Add(audio.Skipped(req, "output mp3/old.mp3", audio.SkipReasonExists))
	summary.Add(audio.Failed(req, "output mp3/bad.mp3", errors.New("exit status 1")))

	got := RenderSummary(summary, false)

	for _, want := range []string{"Converted", "Skipped", "Failed", "Failed conversions", "input mp4/bad.mp4", "exit status 1"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderSummary() missing %q:\n%s", want, got)
		}
	}
}

func TestRenderSummary_NoFailures(t *testing.T) {
	summary := &appconvert.Summary{Converted: 2}
	if got := RenderSummary(summary, false); strings.Contains(got, "Failed conversions") {
		t.Errorf("RenderSummary() should omit failure table:\n%s", got)
	}
}

func TestIsTerminal_Buffer(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Error("isTerminal(buffer) = true, want false")
	}
}

func TestRunConvert_RefusesConcurrentRun(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	writeFile(t, filepath.Join(cfg.Paths.InputDirectory, "a.mp4"))

	locker := filesystem.NewLockerIn(t.TempDir())
	release, err := locker.TryLock(cfg.Paths.OutputDirectory)
	if err != nil {
		t.Fatalf("TryLock() unexpected error: %v", err)
	}
	defer release()

	enc := &fakeEncoder{}
	err = RunConvertWithDependencies(
		context.Background(),
		enc,
		filesystem.NewFinder(),
		filesystem.NewChecker(),
		filesystem.NewDirs(),
		locker,
		cfg,
		false,
		&bytes.Buffer{},
	)
	if !errors.Is(err, audio.ErrRunInProgress) {
		t.Fatalf("RunConvertWithDependencies() error = %v, want ErrRunInProgress", err)
	}
	if len(enc.encoded) != 0 {
		t.Errorf("encoded %v while another run held the lock", enc.encoded)
	}
}

func TestRunConvert_SourcesWithSameOutput(t *testing.T) {
	for _, overwrite := range []bool{false, true} {
		root := t.TempDir()
		cfg := testConfig(root)
		cfg.Audio.Overwrite = overwrite
		writeFile(t, filepath.Join(cfg.Paths.InputDirectory, "a.mov"))
		writeFile(t, filepath.Join(cfg.Paths.InputDirectory, "a.mp4"))

		enc := &fakeEncoder{}
		out, err := convertFixture(t, enc, cfg)
		if err != nil {
			t.Fatalf("overwrite=%v: RunConvertWithDependencies() unexpected error: %v\n%s", overwrite, err, out)
		}
		if len(enc.encoded) != 1 {
			t.Errorf("overwrite=%v: a.mp3 written %d times, want 1", overwrite, len(enc.encoded))
		}

		data, err := os.ReadFile(filepath.Join(cfg.Paths.OutputDirectory, "a.mp3"))
		if err != nil {
			t.Fatalf("overwrite=%v: read output: %v", overwrite, err)
		}
		if want := filepath.Join(cfg.Paths.InputDirectory, "a.mov"); string(data) != want {
			t.Errorf("overwrite=%v: a.mp3 produced from %q, want %q", overwrite, data, want)
		}
	}
}

func TestRunConvert_LeavesNoLockFile(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(root)
	writeFile(t, filepath.Join(cfg.Paths.InputDirectory, "a.mp4"))
	lockDir := t.TempDir()

	err := RunConvertWithDependencies(
		context.Background(),
		&fakeEncoder{},
		filesystem.NewFinder(),
		filesystem.NewChecker(),
		filesystem.NewDirs(),
		filesystem.NewLockerIn(lockDir),
		cfg,
		false,
		&bytes.Buffer{},
	)
	if err != nil {
		t.Fatalf("RunConvertWithDependencies() unexpected error: %v", err)
	}
	if entries, _ := os.ReadDir(lockDir); len(entries) != 0 {
		t.Errorf("lock files left behind: %d", len(entries))
	}
}
