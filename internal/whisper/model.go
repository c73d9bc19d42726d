// Package whisper runs a local speech recognition model over an audio file.
package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dasolkim7/speaker-diarization/internal/runner"
	"github.com/dasolkim7/speaker-diarization/pkg/file"
	"github.com/dasolkim7/speaker-diarization/pkg/log"
)

// Model transcribes a whole audio file in one pass with a fixed model size.
// No language hint is given; the model detects it.
type Model struct {
	whisperPath string
	modelName   string
	runner      runner.Runner
	mkdirTemp   func(dir, pattern string) (string, error)
	removeAll   func(path string) error
}

func NewModel(whisperPath, modelName string, r runner.Runner) *Model {
	if whisperPath == "" {
		whisperPath = "whisper"
	}
	if modelName == "" {
		modelName = "base"
	}
	return &Model{
		whisperPath: whisperPath,
		modelName:   modelName,
		runner:      r,
		mkdirTemp:   os.MkdirTemp,
		removeAll:   os.RemoveAll,
	}
}

// output is the JSON file whisper writes with --output_format json.
type output struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Transcribe returns the model's single aggregated text for audioPath.
func (m *Model) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("cannot access audio: %w", err)
	}

	outDir, err := m.mkdirTemp("", "whisper-*")
	if err != nil {
		return "", fmt.Errorf("create whisper workspace: %w", err)
	}
	defer func() { _ = m.removeAll(outDir) }()

	log.Info("Transcribing %s with whisper model %s", filepath.Base(audioPath), m.modelName)
	if _, err := m.runner.Run(ctx, m.whisperPath, m.args(audioPath, outDir)...); err != nil {
		return "", fmt.Errorf("whisper transcription failed: %w", err)
	}

	jsonPath := file.OutputPath(outDir, audioPath, ".json")
	content, err := os.ReadFile(jsonPath)
	if err != nil {
		return "", fmt.Errorf("whisper completed but output is missing: %w", err)
	}

	var out output
	if err := json.Unmarshal(content, &out); err != nil {
		return "", fmt.Errorf("parse whisper output: %w", err)
	}
	log.Debug("Whisper detected language %q", out.Language)
	return strings.TrimSpace(out.Text), nil
}

func (m *Model) args(audioPath, outDir string) []string {
	return []string{
		audioPath,
		"--model", m.modelName,
		"--output_format", "json",
		"--output_dir", outDir,
		"--verbose", "False",
	}
}
