package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/dasolkim7/speaker-diarization/internal/captions"
	"github.com/dasolkim7/speaker-diarization/internal/cleanup"
	"github.com/dasolkim7/speaker-diarization/internal/config"
	"github.com/dasolkim7/speaker-diarization/internal/diarize"
	"github.com/dasolkim7/speaker-diarization/internal/httpapi"
	"github.com/dasolkim7/speaker-diarization/internal/llm"
	"github.com/dasolkim7/speaker-diarization/internal/media"
	"github.com/dasolkim7/speaker-diarization/internal/pipeline"
	"github.com/dasolkim7/speaker-diarization/internal/runner"
	"github.com/dasolkim7/speaker-diarization/internal/transcript"
	"github.com/dasolkim7/speaker-diarization/internal/video"
	"github.com/dasolkim7/speaker-diarization/internal/whisper"
	"github.com/dasolkim7/speaker-diarization/pkg/log"
)

type scheduler interface {
	Schedule(ctx context.Context) error
}

type cronEngine interface {
	Start()
	Stop() context.Context
}

type httpServer interface {
	ListenAndServe(addr string) error
	Shutdown(ctx context.Context) error
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("Failed to load .env: %v", err)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	log.GetLogger().SetLevel(log.ParseLevel(cfg.LogLevel))

	engine := cron.New()
	cleaner := cleanup.NewAudioCleaner(
		cfg.Storage.AudioDir,
		time.Duration(cfg.Storage.AudioRetentionHours)*time.Hour,
		cfg.Storage.CleanupCron,
		engine,
	)

	srv := httpapi.NewServer(
		newPipeline(cfg),
		httpapi.WithUI(cfg.HTTP.UIStaticDir, cfg.HTTP.UIEnabled),
		httpapi.WithCatalog(httpapi.Catalog{
			CaptionLanguages: cfg.Captions.Languages,
			Models: map[diarize.Provider]string{
				diarize.ProviderOpenAI: cfg.OpenAI.Model,
				diarize.ProviderGemini: cfg.Gemini.Model,
			},
		}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runWithComponents(ctx, cfg, cleaner, engine, srv); err != nil {
		log.Fatal("Server stopped: %v", err)
	}
}

func newPipeline(cfg *config.Config) *pipeline.Runner {
	exec := runner.NewExecRunner()

	local := transcript.NewLocalStrategy(
		transcript.LocalConfig{
			AudioDir: cfg.Storage.AudioDir,
			Format:   cfg.Storage.AudioFormat,
			Bitrate:  cfg.Storage.AudioBitrate,
		},
		video.NewAudioDownloader(cfg.Tools.YtDlpPath, exec),
		media.NewFfmpeg(cfg.Tools.FFmpegPath, exec),
		whisper.NewModel(cfg.Tools.WhisperPath, cfg.Tools.WhisperModel, exec),
	)

	return pipeline.NewRunner(
		video.NewResolver(cfg.Tools.YtDlpPath, exec),
		map[transcript.Source]transcript.Acquirer{
			transcript.SourceCaptions: transcript.NewCaptionStrategy(captions.NewClient(), cfg.Captions.Languages),
			transcript.SourceLocal:    local,
		},
		transcript.NewStore(cfg.Storage.SubtitleDir),
		diarize.New(
			llm.Config{
				APIKey:      cfg.OpenAI.APIKey,
				APIURL:      cfg.OpenAI.APIURL,
				Model:       cfg.OpenAI.Model,
				MaxTokens:   cfg.OpenAI.MaxTokens,
				Temperature: cfg.OpenAI.Temperature,
				Timeout:     cfg.OpenAI.Timeout,
			},
			llm.GeminiConfig{
				APIKey:  cfg.Gemini.APIKey,
				APIURL:  cfg.Gemini.APIURL,
				Model:   cfg.Gemini.Model,
				Timeout: cfg.Gemini.Timeout,
			},
		),
		pipeline.WithRunTimeout(time.Duration(cfg.RunTimeout)*time.Minute),
	)
}

// runWithComponents schedules background jobs, serves HTTP and blocks until
// ctx is cancelled or the server fails.
func runWithComponents(ctx context.Context, cfg *config.Config, sched scheduler, engine cronEngine, srv httpServer) error {
	if err := sched.Schedule(ctx); err != nil {
		return err
	}
	engine.Start()
	defer engine.Stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Listening on %s", cfg.HTTP.Addr)
		errCh <- srv.ListenAndServe(cfg.HTTP.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
