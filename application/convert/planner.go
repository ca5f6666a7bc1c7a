package convert

import (
	"fmt"
	"path/filepath"

	"video-to-mp3/domain/audio"
)

// Action is what the executor should do with a planned conversion
type Action int

const (
	ActionEncode Action = iota
	ActionSkip
)

func (a Action) String() string {
	if a == ActionSkip {
		return "skip"
	}
	return "encode"
}

// PlannedConversion pairs a request with its output path and the decided action
type PlannedConversion struct {
	Request    *audio.ConversionRequest
	OutputPath string
	Action     Action
	SkipReason string
}

// PlanOptions holds the settings that drive planning
type PlanOptions struct {
	InputDir  string
	OutputDir string
	Bitrate   string
	Overwrite bool
}

// Planner turns a list of source files into planned conversions.
// It only reads existence information through its FileChecker and never
// runs the encoder or touches the filesystem otherwise.
type Planner struct {
	fileChecker audio.FileChecker
}

// NewPlanner creates a new Planner
func NewPlanner(fileChecker audio.FileChecker) *Planner {
	return &Planner{fileChecker: fileChecker}
}

// Plan computes the output path and skip decision for every file.
// files must live below opts.InputDir. Each output path is claimed by the
// first file that maps to it; later files with the same output are skipped.
func (p *Planner) Plan(files []string, opts PlanOptions) ([]PlannedConversion, error) {
	plans := make([]PlannedConversion, 0, len(files))
	claimed := make(map[string]string, len(files))

	for _, file := range files {
		rel, err := filepath.Rel(opts.InputDir, file)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s relative to %s: %w", file, opts.InputDir, err)
		}

		req, err := audio.NewConversionRequest(file, rel, opts.Bitrate, opts.Overwrite)
		if err != nil {
			return nil, err
		}

		plan := PlannedConversion{
			Request:    req,
			OutputPath: req.OutputPath(opts.OutputDir),
			Action:     ActionEncode,
		}
		if first, ok := claimed[plan.OutputPath]; ok {
			plan.Action = ActionSkip
			plan.SkipReason = audio.ClaimedBy(first)
		} else if !opts.Overwrite && p.fileChecker.Exists(plan.OutputPath) {
			plan.Action = ActionSkip
			plan.SkipReason = audio.SkipReasonExists
		}
		if plan.Action == ActionEncode {
			claimed[plan.OutputPath] = file
		}

		plans = append(plans, plan)
	}

	return plans, nil
}
