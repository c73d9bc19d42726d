package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dasolkim7/speaker-diarization/internal/runner"
)

// AudioDownloader fetches the best available audio stream of a video.
type AudioDownloader struct {
	ytdlpPath string
	runner    runner.Runner
}

func NewAudioDownloader(ytdlpPath string, r runner.Runner) *AudioDownloader {
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	return &AudioDownloader{ytdlpPath: ytdlpPath, runner: r}
}

// Download stores the raw audio stream as <dir>/<id>.source.<ext> and returns
// its path. The directory must already exist.
func (d *AudioDownloader) Download(ctx context.Context, videoURL, dir, id string) (string, error) {
	template := filepath.Join(dir, id+".source.%(ext)s")
	res, err := d.runner.Run(ctx, d.ytdlpPath, downloadArgs(videoURL, template)...)
	if err != nil {
		return "", err
	}

	path := lastNonEmpty(res.Stdout)
	if path == "" {
		return "", fmt.Errorf("extractor did not report an output file")
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("downloaded file is missing: %w", err)
	}
	return path, nil
}

func downloadArgs(videoURL, template string) []string {
	return []string{
		"-f", "bestaudio/best",
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"--force-overwrites",
		"-o", template,
		"--print", "after_move:filepath",
		videoURL,
	}
}

func lastNonEmpty(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
