package transcript

import (
	"context"
	"errors"
	"fmt"

	"github.com/dasolkim7/speaker-diarization/internal/captions"
	"github.com/dasolkim7/speaker-diarization/pkg/log"
)

type trackSource interface {
	ListTracks(ctx context.Context, videoID string) (captions.TrackList, error)
	FetchTranscript(ctx context.Context, videoID string, languages []string) (string, error)
}

// CaptionStrategy reads the transcript from the platform's hosted captions.
type CaptionStrategy struct {
	client    trackSource
	languages []string
}

func NewCaptionStrategy(client trackSource, languages []string) *CaptionStrategy {
	return &CaptionStrategy{client: client, languages: languages}
}

// Acquire lists the available tracks, checks that one of the preferred
// languages is offered and downloads the transcript in preference order.
// The track list is returned even when selection fails so callers can show
// what was available.
func (s *CaptionStrategy) Acquire(ctx context.Context, req Request) (Result, error) {
	if req.Video.ID == "" {
		return Result{}, errors.New("video id is required")
	}
	res := Result{Source: SourceCaptions}

	tracks, err := s.client.ListTracks(ctx, req.Video.ID)
	if err != nil {
		return res, fmt.Errorf("list caption tracks: %w", err)
	}
	res.Tracks = tracks
	res.TrackSummary = tracks.Describe()

	track, err := captions.SelectTrack(tracks, s.languages)
	if err != nil {
		return res, err
	}
	res.Track = &track
	log.Info("Using %s caption track (%s) for %s", track.LanguageCode, track.Language, req.Video.ID)

	text, err := s.client.FetchTranscript(ctx, req.Video.ID, s.languages)
	if err != nil {
		return res, fmt.Errorf("fetch %s captions: %w", track.LanguageCode, err)
	}
	res.Text = text
	res.Language = detectLanguage(res.Text)
	return res, nil
}
