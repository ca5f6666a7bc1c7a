package convert

import (
	"errors"
	"path/filepath"
	"testing"

	"video-to-mp3/domain/audio"
)

func TestPlanner_Plan(t *testing.T) {
	in := "input mp4"
	out := "output mp3"

	tests := []struct {
		name       string
		files      []string
		existing   []string
		overwrite  bool
		wantPaths  []string
		wantAction []Action
	}{
		{
			name:       "new file is encoded",
			files:      []string{filepath.Join(in, "a.mp4")},
			wantPaths:  []string{filepath.Join(out, "a.mp3")},
			wantAction: []Action{ActionEncode},
		},
		{
			name:       "existing output is skipped",
			files:      []string{filepath.Join(in, "a.mp4")},
			existing:   []string{filepath.Join(out, "a.mp3")},
			wantPaths:  []string{filepath.Join(out, "a.mp3")},
			wantAction: []Action{ActionSkip},
		},
		{
			name:       "overwrite ignores existing output",
			files:      []string{filepath.Join(in, "a.mp4")},
			existing:   []string{filepath.Join(out, "a.mp3")},
			overwrite:  true,
			wantPaths:  []string{filepath.Join(out, "a.mp3")},
			wantAction: []Action{ActionEncode},
		},
		{
			name:       "subdirectories are mirrored",
			files:      []string{filepath.Join(in, "sub", "b.mov"), filepath.Join(in, "x", "y", "c.m4v")},
			existing:   []string{filepath.Join(out, "x", "y", "c.mp3")},
			wantPaths:  []string{filepath.Join(out, "sub", "b.mp3"), filepath.Join(out, "x", "y", "c.mp3")},
			wantAction: []Action{ActionEncode, ActionSkip},
		},
		{
			name:       "existing file with the same stem elsewhere does not skip",
			files:      []string{filepath.Join(in, "sub", "a.mp4")},
			existing:   []string{filepath.Join(out, "a.mp3")},
			wantPaths:  []string{filepath.Join(out, "sub", "a.mp3")},
			wantAction: []Action{ActionEncode},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &mockFileChecker{existingFiles: make(map[string]bool)}
			for _, p := range tt.existing {
				checker.existingFiles[p] = true
			}

			plans, err := NewPlanner(checker).Plan(tt.files, PlanOptions{
				InputDir:  in,
				OutputDir: out,
				Bitrate:   "128k",
				Overwrite: tt.overwrite,
			})
			if err != nil {
				t.Fatalf("Plan() unexpected error: %v", err)
			}
			if len(plans) != len(tt.files) {
				t.Fatalf("Plan() returned %d plans, want %d", len(plans), len(tt.files))
			}

			for i, plan := range plans {
				if plan.OutputPath != tt.wantPaths[i] {
					t.Errorf("plan[%d].OutputPath = %q, want %q", i, plan.OutputPath, tt.wantPaths[i])
				}
				if plan.Action != tt.wantAction[i] {
					t.Errorf("plan[%d].Action = %v, want %v", i, plan.Action, tt.wantAction[i])
				}
				if plan.Action == ActionSkip && plan.SkipReason != audio.SkipReasonExists {
					t.Errorf("plan[%d].SkipReason = %q, want %q", i, plan.SkipReason, audio.SkipReasonExists)
				}
				if plan.Request.Bitrate != "128k" {
					t.Errorf("plan[%d].Request.Bitrate = %q, want 128k", i, plan.Request.Bitrate)
				}
				if plan.Request.SourcePath != tt.files[i] {
					t.Errorf("plan[%d].Request.SourcePath = %q, want %q", i, plan.Request.SourcePath, tt.files[i])
				}
			}
		})
	}
}

func TestPlanner_Plan_SameOutputClaimedOnce(t *testing.T) {
	in := "input mp4"
	files := []string{filepath.Join(in, "a.mov"), filepath.Join(in, "a.mp4"), filepath.Join(in, "b.mp4")}

	for _, overwrite := range []bool{false, true} {
		checker := &mockFileChecker{existingFiles: map[string]bool{}}
		plans, err := NewPlanner(checker).Plan(files, PlanOptions{
			InputDir:  in,
			OutputDir: "output mp3",
			Overwrite: overwrite,
		})
		if err != nil {
			t.Fatalf("Plan(overwrite=%v) unexpected error: %v", overwrite, err)
		}

		want := []Action{ActionEncode, ActionSkip, ActionEncode}
		for i, plan := range plans {
			if plan.Action != want[i] {
				t.Errorf("overwrite=%v: plan[%d].Action = %v, want %v", overwrite, i, plan.Action, want[i])
			}
		}
		if got, want := plans[1].SkipReason, audio.ClaimedBy(files[0]); got != want {
			t.Errorf("overwrite=%v: SkipReason = %q, want %q", overwrite, got, want)
		}
	}
}

func TestPlanner_Plan_SkippedFileDoesNotClaimOutput(t *testing.T) {
	in := "input mp4"
	checker := &mockFileChecker{existingFiles: map[string]bool{filepath.Join("output mp3", "a.mp3"): true}}

	plans, err := NewPlanner(checker).Plan(
		[]string{filepath.Join(in, "a.mov"), filepath.Join(in, "a.mp4")},
		PlanOptions{InputDir: in, OutputDir: "output mp3"},
	)
	if err != nil {
		t.Fatalf("Plan() unexpected error: %v", err)
	}
	for i, plan := range plans {
		if plan.Action != ActionSkip || plan.SkipReason != audio.SkipReasonExists {
			t.Errorf("plan[%d] = %v (%q), want skip because destination exists", i, plan.Action, plan.SkipReason)
		}
	}
}

func TestPlanner_Plan_FileOutsideRoot(t *testing.T) {
	checker := &mockFileChecker{existingFiles: map[string]bool{}}

	_, err := NewPlanner(checker).Plan([]string{filepath.Join("elsewhere", "a.mp4")}, PlanOptions{
		InputDir:  "input mp4",
		OutputDir: "output mp3",
	})
	if !errors.Is(err, audio.ErrInvalidRequest) {
		t.Fatalf("Plan() error = %v, want ErrInvalidRequest", err)
	}
}
