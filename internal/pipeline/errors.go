package pipeline

import (
	"errors"
	"fmt"
)

// Step identifies one stage of a run.
type Step int

const (
	StepInput Step = iota
	StepMetadata
	StepCaptions
	StepTranscription
	StepPersist
	StepDiarize
)

func (s Step) String() string {
	switch s {
	case StepInput:
		return "input"
	case StepMetadata:
		return "metadata"
	case StepCaptions:
		return "captions"
	case StepTranscription:
		return "transcription"
	case StepPersist:
		return "persist"
	case StepDiarize:
		return "diarize"
	default:
		return "unknown"
	}
}

// Label is the human readable name shown next to results and errors.
func (s Step) Label() string {
	switch s {
	case StepInput:
		return "Input"
	case StepMetadata:
		return "Video info"
	case StepCaptions:
		return "Caption retrieval"
	case StepTranscription:
		return "Speech recognition"
	case StepPersist:
		return "Saving transcript"
	case StepDiarize:
		return "Speaker diarization"
	default:
		return "Unknown step"
	}
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StepError is the single error a failed run ends with.
type StepError struct {
	Step    Step
	Message string
	Cause   error
}

func NewStepError(step Step, cause error) *StepError {
	return &StepError{
		Step:    step,
		Message: step.Label() + " failed",
		Cause:   cause,
	}
}

func (e *StepError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}

// IsStep reports whether err is a StepError raised at step.
func IsStep(err error, step Step) bool {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step == step
	}
	return false
}
