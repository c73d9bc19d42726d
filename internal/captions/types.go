package captions

import (
	"errors"
	"fmt"
	"strings"
)

// Track is one caption track offered by the platform for a video.
type Track struct {
	Language     string `json:"language"`      // display name, e.g. "Korean (auto-generated)"
	LanguageCode string `json:"language_code"` // e.g. "ko"
	Generated    bool   `json:"generated"`     // auto-generated (asr) track
}

// TrackList is the ordered list of tracks, as the platform reports them.
type TrackList []Track

// Describe renders the list for display, one track per line.
func (l TrackList) Describe() string {
	lines := make([]string, 0, len(l))
	for _, t := range l {
		lines = append(lines, fmt.Sprintf("- [language] %s, [language code] %s", t.Language, t.LanguageCode))
	}
	return strings.Join(lines, "\n")
}

// Codes returns the language codes in list order.
func (l TrackList) Codes() []string {
	codes := make([]string, 0, len(l))
	for _, t := range l {
		codes = append(codes, t.LanguageCode)
	}
	return codes
}

var (
	ErrNoCaptions    = errors.New("captions are not available for this video")
	ErrNoPlayerState = errors.New("player response not found in watch page")
)

// NoTrackError reports that none of the requested languages has a track.
type NoTrackError struct {
	Requested []string
	Available []string
}

func (e *NoTrackError) Error() string {
	return fmt.Sprintf("no caption track in languages %v (available: %v)", e.Requested, e.Available)
}

// UnplayableError carries the platform's reason for refusing the video.
type UnplayableError struct {
	Status string
	Reason string
}

func (e *UnplayableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("video is unplayable (%s)", e.Status)
	}
	return fmt.Sprintf("video is unplayable (%s): %s", e.Status, e.Reason)
}
