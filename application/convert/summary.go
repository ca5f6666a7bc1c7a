package convert

import (
	"time"

	"video-to-mp3/domain/audio"
)

// Summary tracks per-status counters and every outcome of a run
type Summary struct {
	Converted int
	Skipped   int
	Failed    int
	Outcomes  []audio.Outcome
	Elapsed   time.Duration
}

// Add records an outcome
func (s *Summary) Add(o audio.Outcome) {
	switch o.Status {
	case audio.StatusConverted:
		s.Converted++
	case audio.StatusSkipped:
		s.Skipped++
	case audio.StatusFailed:
		s.Failed++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// Total returns the number of processed files
func (s *Summary) Total() int {
	return len(s.Outcomes)
}

// Failures returns the failed outcomes in processing order
func (s *Summary) Failures() []audio.Outcome {
	var result []audio.Outcome
	for _, o := range s.Outcomes {
		if o.Status == audio.StatusFailed {
			result = append(result, o)
		}
	}
	return result
}

// HasFailures reports whether any file failed to convert
func (s *Summary) HasFailures() bool {
	return s.Failed > 0
}
