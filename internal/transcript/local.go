package transcript

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dasolkim7/speaker-diarization/internal/media"
	"github.com/dasolkim7/speaker-diarization/pkg/log"
)

type audioDownloader interface {
	Download(ctx context.Context, videoURL, dir, id string) (string, error)
}

type speechModel interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// LocalConfig holds where and how the extracted audio is stored.
type LocalConfig struct {
	AudioDir string
	Format   string // file extension, e.g. "mp3"
	Bitrate  string // e.g. "192k"
}

// LocalStrategy downloads the audio track and runs speech recognition on it.
type LocalStrategy struct {
	cfg        LocalConfig
	downloader audioDownloader
	transcoder media.Transcoder
	model      speechModel
}

func NewLocalStrategy(cfg LocalConfig, downloader audioDownloader, transcoder media.Transcoder, model speechModel) *LocalStrategy {
	if cfg.Format == "" {
		cfg.Format = "mp3"
	}
	return &LocalStrategy{
		cfg:        cfg,
		downloader: downloader,
		transcoder: transcoder,
		model:      model,
	}
}

// AudioPath is where the audio for id ends up.
func (s *LocalStrategy) AudioPath(id string) string {
	return filepath.Join(s.cfg.AudioDir, id+"."+s.cfg.Format)
}

// Acquire produces <audio_dir>/<id>.<format> and transcribes it. The audio
// file is left in place.
func (s *LocalStrategy) Acquire(ctx context.Context, req Request) (Result, error) {
	id := req.Video.ID
	if id == "" {
		return Result{}, errors.New("video id is required")
	}
	res := Result{Source: SourceLocal}

	if err := os.MkdirAll(s.cfg.AudioDir, 0o755); err != nil {
		return res, fmt.Errorf("create audio directory: %w", err)
	}

	downloaded, err := s.downloader.Download(ctx, req.URL, s.cfg.AudioDir, id)
	if err != nil {
		return res, fmt.Errorf("download audio: %w", err)
	}

	audioPath := s.AudioPath(id)
	err = s.transcoder.ToAudio(ctx, downloaded, audioPath, s.cfg.Bitrate)
	if downloaded != audioPath {
		if rmErr := os.Remove(downloaded); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn("Failed to remove intermediate download %s: %v", downloaded, rmErr)
		}
	}
	if err != nil {
		return res, fmt.Errorf("extract audio: %w", err)
	}
	res.AudioPath = audioPath
	log.Info("Audio saved to %s", audioPath)

	text, err := s.model.Transcribe(ctx, audioPath)
	if err != nil {
		return res, fmt.Errorf("speech recognition: %w", err)
	}
	res.Text = text
	res.Language = detectLanguage(text)
	return res, nil
}
