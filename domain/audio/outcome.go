package audio

// Status is the result of processing one ConversionRequest
type Status int

const (
	StatusConverted Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusConverted:
		return "converted"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SkipReasonExists is reported when the destination is already present
const SkipReasonExists = "destination already exists"

// ClaimedBy is the skip reason for a file whose output another source in the same run already produces
func ClaimedBy(source string) string {
	return "same output as " + source
}

// Outcome records what happened to a single request. Produced exactly once per request.
type Outcome struct {
	Request    *ConversionRequest
	OutputPath string
	Status     Status
	Reason     string // set for skipped outcomes
	Err        error  // set for failed outcomes
}

// Converted creates a successful outcome
func Converted(req *ConversionRequest, outputPath string) Outcome {
	return Outcome{Request: req, OutputPath: outputPath, Status: StatusConverted}
}

// Skipped creates a skipped outcome with the given reason
func Skipped(req *ConversionRequest, outputPath, reason string) Outcome {
	return Outcome{Request: req, OutputPath: outputPath, Status: StatusSkipped, Reason: reason}
}

// Failed creates a failed outcome
func Failed(req *ConversionRequest, outputPath string, err error) Outcome {
	return Outcome{Request: req, OutputPath: outputPath, Status: StatusFailed, Err: err}
}
