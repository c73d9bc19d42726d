// Package captions reads the hosted captions of a YouTube video. Track
// listing comes from the player state embedded in the watch page; transcript
// text comes from the youtube-transcript-api client.
package captions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript"
	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript_formatters"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/dasolkim7/speaker-diarization/pkg/log"
)

const (
	defaultBaseURL = "https://www.youtube.com"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	playerResponseMarker = "ytInitialPlayerResponse = "
	maxWatchPageBytes    = 6 * 1024 * 1024
)

// transcriptFetcher is the surface of yt_transcript.Client used here.
type transcriptFetcher interface {
	GetFormattedTranscripts(videoID string, languages []string, preserveFormatting bool) (string, error)
}

// Client lists caption tracks from the watch page and downloads transcripts
// through the youtube-transcript-api client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	fetcher    transcriptFetcher
}

type Option func(*Client)

// WithBaseURL points the client at another host, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTranscriptFetcher(f transcriptFetcher) Option {
	return func(c *Client) {
		c.fetcher = f
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		fetcher: yt_transcript.NewClient(
			yt_transcript.WithFormatter(yt_transcript_formatters.NewTextFormatter(
				yt_transcript_formatters.WithTimestamps(false),
				yt_transcript_formatters.WithLanguageCode(false),
			)),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListTracks returns every caption track offered for videoID, in the order
// the platform lists them. The transcript library only returns the text of
// the chosen track, so the list is read from the watch page here.
func (c *Client) ListTracks(ctx context.Context, videoID string) (TrackList, error) {
	watchURL := c.baseURL + "/watch?v=" + url.QueryEscape(videoID) + "&hl=en"
	body, err := c.get(ctx, watchURL, maxWatchPageBytes)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}

	player, err := parsePlayerResponse(body)
	if err != nil {
		return nil, err
	}
	if player.Captions == nil {
		if ps := player.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != "OK" {
			return nil, &UnplayableError{Status: ps.Status, Reason: ps.Reason}
		}
		return nil, ErrNoCaptions
	}

	raw := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(raw) == 0 {
		return nil, ErrNoCaptions
	}

	tracks := make(TrackList, 0, len(raw))
	for _, t := range raw {
		tracks = append(tracks, Track{
			Language:     t.displayName(),
			LanguageCode: t.LanguageCode,
			Generated:    t.Kind == "asr",
		})
	}
	log.Debug("Found %d caption tracks for %s: %v", len(tracks), videoID, tracks.Codes())
	return tracks, nil
}

// FetchTranscript downloads the transcript in the first of languages that
// has a track, one cue per line, markup stripped. The library call does not
// take a context, so cancellation is only checked before it starts.
func (c *Client) FetchTranscript(ctx context.Context, videoID string, languages []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := c.fetcher.GetFormattedTranscripts(videoID, languages, false)
	if err != nil {
		return "", fmt.Errorf("fetch transcript: %w", err)
	}
	return strings.TrimSuffix(text, "\n"), nil
}

func (c *Client) get(ctx context.Context, u string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	// skips the EU consent interstitial
	req.AddCookie(&http.Cookie{Name: "CONSENT", Value: "YES+cb"})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []rawTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type rawTrack struct {
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
	Name         struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"name"`
}

func (t rawTrack) displayName() string {
	if t.Name.SimpleText != "" {
		return t.Name.SimpleText
	}
	var sb strings.Builder
	for _, r := range t.Name.Runs {
		sb.WriteString(r.Text)
	}
	if sb.Len() > 0 {
		return sb.String()
	}
	if tag, err := language.Parse(t.LanguageCode); err == nil {
		if name := display.Self.Name(tag); name != "" {
			return name
		}
	}
	return t.LanguageCode
}

func parsePlayerResponse(page []byte) (playerResponse, error) {
	idx := strings.Index(string(page), playerResponseMarker)
	if idx < 0 {
		return playerResponse{}, ErrNoPlayerState
	}
	raw := extractJSON(page[idx+len(playerResponseMarker):])
	if raw == nil {
		return playerResponse{}, fmt.Errorf("%w: unterminated JSON", ErrNoPlayerState)
	}
	var pr playerResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return playerResponse{}, fmt.Errorf("decode player response: %w", err)
	}
	return pr, nil
}

// extractJSON returns the balanced JSON object at the start of data, or nil.
func extractJSON(data []byte) []byte {
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	depth := 0
	inString := false
	escaped := false
	for i, b := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return data[:i+1]
			}
		}
	}
	return nil
}
