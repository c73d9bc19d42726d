// Package diarize asks a hosted language model to attribute transcript
// lines to speakers.
package diarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/dasolkim7/speaker-diarization/internal/llm"
	"github.com/dasolkim7/speaker-diarization/pkg/log"
)

type Provider string

const (
	ProviderOpenAI Provider = "chatgpt"
	ProviderGemini Provider = "gemini"
)

// Providers lists the supported providers in display order.
func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderGemini}
}

func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderGemini:
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown diarization provider %q", s)
	}
}

// Model returns the configured model name for p.
func (d *Diarizer) Model(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return d.openai.Model
	case ProviderGemini:
		return d.gemini.Model
	default:
		return ""
	}
}

// Diarizer sends one prompt to the chosen provider. Clients are built per
// call, so a missing credential only fails the run that needs it.
type Diarizer struct {
	openai llm.Config
	gemini llm.GeminiConfig
}

func New(openai llm.Config, gemini llm.GeminiConfig) *Diarizer {
	return &Diarizer{openai: openai, gemini: gemini}
}

// Diarize returns the provider's raw text. The output is not validated.
func (d *Diarizer) Diarize(ctx context.Context, provider Provider, title, transcript string) (string, error) {
	prompt := BuildPrompt(title, transcript)
	log.Info("Requesting diarization from %s (%s), prompt %d bytes", provider, d.Model(provider), len(prompt))

	switch provider {
	case ProviderOpenAI:
		cfg := d.openai
		client, err := llm.NewClient(&cfg)
		if err != nil {
			return "", fmt.Errorf("openai: %w", err)
		}
		return client.SimpleChat(ctx, prompt, SystemPrompt)
	case ProviderGemini:
		cfg := d.gemini
		client, err := llm.NewGeminiClient(&cfg)
		if err != nil {
			return "", fmt.Errorf("gemini: %w", err)
		}
		return client.GenerateContent(ctx, prompt)
	default:
		return "", fmt.Errorf("unknown diarization provider %q", provider)
	}
}
