package pipeline

import (
	"errors"
	"strings"

	"github.com/dasolkim7/speaker-diarization/internal/diarize"
	"github.com/dasolkim7/speaker-diarization/internal/transcript"
	"github.com/dasolkim7/speaker-diarization/internal/video"
)

// Input is what the user submits for one run.
type Input struct {
	URL      string            `json:"url"`
	Source   transcript.Source `json:"source"`
	Provider diarize.Provider  `json:"provider"`
}

// ParseInput builds an Input from raw form values.
func ParseInput(rawURL, source, provider string) (Input, error) {
	in := Input{URL: strings.TrimSpace(rawURL)}

	src, err := transcript.ParseSource(source)
	if err != nil {
		return in, NewStepError(StepInput, err)
	}
	in.Source = src

	p, err := diarize.ParseProvider(provider)
	if err != nil {
		return in, NewStepError(StepInput, err)
	}
	in.Provider = p

	return in, in.Validate()
}

func (in Input) Validate() error {
	if strings.TrimSpace(in.URL) == "" {
		return NewStepError(StepInput, errors.New("video url is required"))
	}
	if _, err := transcript.ParseSource(string(in.Source)); err != nil {
		return NewStepError(StepInput, err)
	}
	if _, err := diarize.ParseProvider(string(in.Provider)); err != nil {
		return NewStepError(StepInput, err)
	}
	return nil
}

// Report holds everything a run produced, up to the failing step.
type Report struct {
	Input          Input              `json:"input"`
	Video          *video.VideoRef    `json:"video,omitempty"`
	UploadDate     string             `json:"upload_date,omitempty"`
	Transcript     *transcript.Result `json:"transcript,omitempty"`
	TranscriptPath string             `json:"transcript_path,omitempty"`
	Model          string             `json:"model,omitempty"`
	Diarization    string             `json:"diarization,omitempty"`
}

type Status string

const (
	StatusStarted Status = "started"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Event reports progress of one step. Payload carries the step's output on
// StatusDone and the error text on StatusFailed.
type Event struct {
	Step    Step   `json:"step"`
	Label   string `json:"label"`
	Status  Status `json:"status"`
	Payload any    `json:"payload,omitempty"`
}

// Observer receives events synchronously, in order.
type Observer func(Event)
