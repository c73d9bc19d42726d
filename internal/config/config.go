package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dasolkim7/speaker-diarization/pkg/log"
	"github.com/robfig/cron/v3"
	"golang.org/x/text/language"
)

// Config holds all application configuration, read from environment variables
// with sensible defaults. API keys are not validated here; a
// missing key only fails the run that selects that provider.
//
// Environment Variables:
// HTTP:
// - HTTP_ADDR: listen address (default: :8501)
// - UI_ENABLED: serve the single page UI (default: true)
// - UI_STATIC_DIR: serve the UI from this directory instead of the embedded page (optional)
//
// OpenAI (provider "chatgpt"):
// - OPENAI_API_KEY, OPENAI_API_URL, OPENAI_MODEL, OPENAI_MAX_TOKENS, OPENAI_TEMPERATURE, OPENAI_TIMEOUT
//
// Gemini (provider "gemini"):
// - GEMINI_API_KEY, GEMINI_API_URL, GEMINI_MODEL, GEMINI_TIMEOUT
//
// Workspace:
// - AUDIO_DIR (default: audio), SUBTITLE_DIR (default: subtitles)
// - AUDIO_FORMAT (default: mp3), AUDIO_BITRATE (default: 192k)
// - AUDIO_CLEANUP_CRON (default: disabled), AUDIO_RETENTION_HOURS (default: 168)
//
// Tools:
// - YTDLP_PATH, FFMPEG_PATH, WHISPER_PATH, WHISPER_MODEL (default: base)
//
// Captions:
// - CAPTION_LANGUAGES: comma separated preference order (default: ko,en)
//
// Runs:
// - RUN_TIMEOUT_MINUTES: upper bound for one pipeline run (default: 60)
//
// - LOG_LEVEL: debug|info|warn|error (default: info)
type Config struct {
	HTTP     HTTPConfig     `json:"http"`
	OpenAI   OpenAIConfig   `json:"openai"`
	Gemini   GeminiConfig   `json:"gemini"`
	Storage  StorageConfig  `json:"storage"`
	Tools    ToolsConfig    `json:"tools"`
	Captions CaptionsConfig `json:"captions"`
	// minutes
	RunTimeout int    `json:"run_timeout"`
	LogLevel   string `json:"log_level"`
}

type HTTPConfig struct {
	Addr        string `json:"addr"`
	UIEnabled   bool   `json:"ui_enabled"`
	UIStaticDir string `json:"ui_static_dir"`
}

// OpenAIConfig configures the OpenAI-compatible chat completion provider.
type OpenAIConfig struct {
	APIKey      string  `json:"-"`
	APIURL      string  `json:"api_url"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Timeout     int     `json:"timeout"`
}

type GeminiConfig struct {
	APIKey  string `json:"-"`
	APIURL  string `json:"api_url"`
	Model   string `json:"model"`
	Timeout int    `json:"timeout"`
}

// StorageConfig holds the two working directories, both relative to the
// process working directory unless configured otherwise.
type StorageConfig struct {
	AudioDir            string `json:"audio_dir"`
	SubtitleDir         string `json:"subtitle_dir"`
	AudioFormat         string `json:"audio_format"`
	AudioBitrate        string `json:"audio_bitrate"`
	CleanupCron         string `json:"cleanup_cron"`
	AudioRetentionHours int    `json:"audio_retention_hours"`
}

type ToolsConfig struct {
	YtDlpPath    string `json:"ytdlp_path"`
	FFmpegPath   string `json:"ffmpeg_path"`
	WhisperPath  string `json:"whisper_path"`
	WhisperModel string `json:"whisper_model"`
}

type CaptionsConfig struct {
	Languages []string `json:"languages"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		HTTP: HTTPConfig{
			Addr:        getEnvString("HTTP_ADDR", ":8501"),
			UIEnabled:   getEnvBool("UI_ENABLED", true),
			UIStaticDir: getEnvString("UI_STATIC_DIR", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnvString("OPENAI_API_KEY", ""),
			APIURL:      getEnvString("OPENAI_API_URL", "https://api.openai.com/v1"),
			Model:       getEnvString("OPENAI_MODEL", "gpt-4o"),
			MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 1024),
			Temperature: getEnvFloat("OPENAI_TEMPERATURE", 0.2),
			Timeout:     getEnvInt("OPENAI_TIMEOUT", 120),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnvString("GEMINI_API_KEY", ""),
			APIURL:  getEnvString("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Model:   getEnvString("GEMINI_MODEL", "gemini-1.5-pro"),
			Timeout: getEnvInt("GEMINI_TIMEOUT", 120),
		},
		Storage: StorageConfig{
			AudioDir:            getEnvString("AUDIO_DIR", "audio"),
			SubtitleDir:         getEnvString("SUBTITLE_DIR", "subtitles"),
			AudioFormat:         getEnvString("AUDIO_FORMAT", "mp3"),
			AudioBitrate:        getEnvString("AUDIO_BITRATE", "192k"),
			CleanupCron:         getEnvString("AUDIO_CLEANUP_CRON", ""),
			AudioRetentionHours: getEnvInt("AUDIO_RETENTION_HOURS", 168),
		},
		Tools: ToolsConfig{
			YtDlpPath:    getEnvString("YTDLP_PATH", "yt-dlp"),
			FFmpegPath:   getEnvString("FFMPEG_PATH", "ffmpeg"),
			WhisperPath:  getEnvString("WHISPER_PATH", "whisper"),
			WhisperModel: getEnvString("WHISPER_MODEL", "base"),
		},
		Captions: CaptionsConfig{
			Languages: getEnvList("CAPTION_LANGUAGES", []string{"ko", "en"}),
		},
		RunTimeout: getEnvInt("RUN_TIMEOUT_MINUTES", 60),
		LogLevel:   getEnvString("LOG_LEVEL", "info"),
	}

	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	log.Info("Config: http=%s audio_dir=%s subtitle_dir=%s captions=%v whisper_model=%s",
		config.HTTP.Addr, config.Storage.AudioDir, config.Storage.SubtitleDir,
		config.Captions.Languages, config.Tools.WhisperModel)

	return config, nil
}

// WithCaptionLanguages overrides the caption preference order.
func WithCaptionLanguages(langs ...string) Option {
	return func(c *Config) {
		c.Captions.Languages = langs
	}
}

// WithStorageRoot places both working directories under root.
func WithStorageRoot(root string) Option {
	return func(c *Config) {
		c.Storage.AudioDir = joinRoot(root, c.Storage.AudioDir)
		c.Storage.SubtitleDir = joinRoot(root, c.Storage.SubtitleDir)
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Storage.AudioDir) == "" {
		return fmt.Errorf("AUDIO_DIR is required")
	}
	if strings.TrimSpace(c.Storage.SubtitleDir) == "" {
		return fmt.Errorf("SUBTITLE_DIR is required")
	}
	if len(c.Captions.Languages) == 0 {
		return fmt.Errorf("CAPTION_LANGUAGES must name at least one language")
	}
	for _, code := range c.Captions.Languages {
		if _, err := language.Parse(code); err != nil {
			return fmt.Errorf("invalid caption language %q: %w", code, err)
		}
	}
	if c.OpenAI.Timeout < 1 || c.Gemini.Timeout < 1 {
		return fmt.Errorf("provider timeouts must be greater than 0")
	}
	if c.RunTimeout < 1 {
		return fmt.Errorf("RUN_TIMEOUT_MINUTES must be greater than 0")
	}
	if c.Storage.CleanupCron != "" {
		if _, err := cron.ParseStandard(c.Storage.CleanupCron); err != nil {
			return fmt.Errorf("invalid AUDIO_CLEANUP_CRON: %w", err)
		}
		if c.Storage.AudioRetentionHours < 1 {
			return fmt.Errorf("AUDIO_RETENTION_HOURS must be greater than 0")
		}
	}
	return nil
}

func joinRoot(root, dir string) string {
	if root == "" || strings.HasPrefix(dir, "/") {
		return dir
	}
	return strings.TrimSuffix(root, "/") + "/" + dir
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	ret := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ret = append(ret, part)
		}
	}
	return ret
}
