package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnv_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CAPTION_LANGUAGES", "")
	t.Setenv("AUDIO_CLEANUP_CRON", "")
	t.Setenv("RUN_TIMEOUT_MINUTES", "")

	cfg, err := NewFromEnv()
	require.NoError(t, err, "missing API keys must not fail startup")

	assert.Equal(t, ":8501", cfg.HTTP.Addr)
	assert.True(t, cfg.HTTP.UIEnabled)
	assert.Equal(t, "audio", cfg.Storage.AudioDir)
	assert.Equal(t, "subtitles", cfg.Storage.SubtitleDir)
	assert.Equal(t, "mp3", cfg.Storage.AudioFormat)
	assert.Equal(t, "192k", cfg.Storage.AudioBitrate)
	assert.Equal(t, []string{"ko", "en"}, cfg.Captions.Languages)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 1024, cfg.OpenAI.MaxTokens)
	assert.InDelta(t, 0.2, cfg.OpenAI.Temperature, 1e-9)
	assert.Equal(t, "gemini-1.5-pro", cfg.Gemini.Model)
	assert.Equal(t, "base", cfg.Tools.WhisperModel)
	assert.Equal(t, 60, cfg.RunTimeout)
}

func TestNewFromEnv_Overrides(t *testing.T) {
	t.Setenv("CAPTION_LANGUAGES", " ja , en ,,")
	t.Setenv("OPENAI_MAX_TOKENS", "2048")
	t.Setenv("UI_ENABLED", "false")
	t.Setenv("AUDIO_DIR", "/var/audio")

	cfg, err := NewFromEnv(WithStorageRoot("/srv/app"))
	require.NoError(t, err)

	assert.Equal(t, []string{"ja", "en"}, cfg.Captions.Languages)
	assert.Equal(t, 2048, cfg.OpenAI.MaxTokens)
	assert.False(t, cfg.HTTP.UIEnabled)
	assert.Equal(t, "/var/audio", cfg.Storage.AudioDir)
	assert.Equal(t, "/srv/app/subtitles", cfg.Storage.SubtitleDir)
}

func TestNewFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		opts []Option
		want string
	}{
		{
			name: "bad caption language",
			opts: []Option{WithCaptionLanguages("ko", "not a language!")},
			want: "invalid caption language",
		},
		{
			name: "bad cleanup cron",
			env:  map[string]string{"AUDIO_CLEANUP_CRON": "every day"},
			want: "AUDIO_CLEANUP_CRON",
		},
		{
			name: "no caption languages",
			opts: []Option{WithCaptionLanguages()},
			want: "CAPTION_LANGUAGES",
		},
		{
			name: "zero run timeout",
			env:  map[string]string{"RUN_TIMEOUT_MINUTES": "0"},
			want: "RUN_TIMEOUT_MINUTES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := NewFromEnv(tt.opts...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
