package video

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dasolkim7/speaker-diarization/internal/runner"
	"github.com/dasolkim7/speaker-diarization/pkg/log"
)

// Resolver turns a URL into a VideoRef using yt-dlp without downloading
// anything.
type Resolver struct {
	ytdlpPath string
	runner    runner.Runner
}

func NewResolver(ytdlpPath string, r runner.Runner) *Resolver {
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	return &Resolver{ytdlpPath: ytdlpPath, runner: r}
}

// Resolve fails when the URL does not name a retrievable video (deleted,
// private, malformed, network failure) or when the extractor returns no id.
func (r *Resolver) Resolve(ctx context.Context, videoURL string) (VideoRef, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return VideoRef{}, fmt.Errorf("video url is required")
	}

	log.Debug("Resolving metadata for %s", videoURL)
	res, err := r.runner.Run(ctx, r.ytdlpPath, metadataArgs(videoURL)...)
	if err != nil {
		return VideoRef{}, fmt.Errorf("extract info: %w", err)
	}

	var info ytdlpInfo
	if err := json.Unmarshal([]byte(res.Stdout), &info); err != nil {
		return VideoRef{}, fmt.Errorf("parse extractor output: %w", err)
	}
	if strings.TrimSpace(info.ID) == "" {
		return VideoRef{}, fmt.Errorf("extractor returned no video id for %s", videoURL)
	}
	return info.toRef(), nil
}

func metadataArgs(videoURL string) []string {
	return []string{
		"--dump-single-json",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		videoURL,
	}
}
