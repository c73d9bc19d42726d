package transcript

import (
	"context"
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/dasolkim7/speaker-diarization/internal/captions"
	"github.com/dasolkim7/speaker-diarization/internal/video"
)

// Source selects how the transcript is obtained.
type Source string

const (
	SourceCaptions Source = "youtube"
	SourceLocal    Source = "whisper"
)

// Sources lists the supported sources in display order.
func Sources() []Source {
	return []Source{SourceCaptions, SourceLocal}
}

func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceCaptions:
		return SourceCaptions, nil
	case SourceLocal:
		return SourceLocal, nil
	default:
		return "", fmt.Errorf("unknown transcript source %q", s)
	}
}

// Request identifies the video to transcribe. Video.ID must be non-empty.
type Request struct {
	URL   string
	Video video.VideoRef
}

// Result is a transcript together with what was learned while producing it.
type Result struct {
	Source       Source             `json:"source"`
	Text         string             `json:"text"`
	Tracks       captions.TrackList `json:"tracks,omitempty"`
	TrackSummary string             `json:"track_summary,omitempty"`
	Track        *captions.Track    `json:"track,omitempty"`
	AudioPath    string             `json:"audio_path,omitempty"`
	Language     string             `json:"language,omitempty"` // detected, ISO 639-1
}

// Acquirer produces a transcript for one video.
type Acquirer interface {
	Acquire(ctx context.Context, req Request) (Result, error)
}

func detectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return whatlanggo.DetectLang(text).Iso6391()
}
