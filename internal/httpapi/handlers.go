package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dasolkim7/speaker-diarization/internal/diarize"
	"github.com/dasolkim7/speaker-diarization/internal/pipeline"
	"github.com/dasolkim7/speaker-diarization/internal/transcript"
)

// Catalog is the static set of choices the page offers.
type Catalog struct {
	CaptionLanguages []string
	Models           map[diarize.Provider]string
}

type choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Model string `json:"model,omitempty"`
}

type optionsResponse struct {
	Sources          []choice `json:"sources"`
	Providers        []choice `json:"providers"`
	CaptionLanguages []string `json:"caption_languages"`
}

func sourceLabel(s transcript.Source) string {
	switch s {
	case transcript.SourceCaptions:
		return "YouTube captions"
	case transcript.SourceLocal:
		return "Whisper (local speech recognition)"
	default:
		return string(s)
	}
}

func providerLabel(p diarize.Provider) string {
	switch p {
	case diarize.ProviderOpenAI:
		return "ChatGPT"
	case diarize.ProviderGemini:
		return "Gemini"
	default:
		return string(p)
	}
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := optionsResponse{
		CaptionLanguages: s.catalog.CaptionLanguages,
	}
	if resp.CaptionLanguages == nil {
		resp.CaptionLanguages = []string{}
	}
	for _, src := range transcript.Sources() {
		resp.Sources = append(resp.Sources, choice{Value: string(src), Label: sourceLabel(src)})
	}
	for _, p := range diarize.Providers() {
		resp.Providers = append(resp.Providers, choice{Value: string(p), Label: providerLabel(p), Model: s.catalog.Models[p]})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
	})
}

type runRequest struct {
	URL      string `json:"url"`
	Source   string `json:"source"`
	Provider string `json:"provider"`
}

type runFailure struct {
	Error  string           `json:"error"`
	Step   string           `json:"step,omitempty"`
	Label  string           `json:"label,omitempty"`
	Report *pipeline.Report `json:"report,omitempty"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	in, err := pipeline.ParseInput(req.URL, req.Source, req.Provider)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failure(err, nil))
		return
	}

	report, err := s.runner.Run(r.Context(), in, nil)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if pipeline.IsStep(err, pipeline.StepInput) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, failure(err, report))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func failure(err error, report *pipeline.Report) runFailure {
	f := runFailure{Error: err.Error(), Report: report}
	var stepErr *pipeline.StepError
	if errors.As(err, &stepErr) {
		f.Step = stepErr.Step.String()
		f.Label = stepErr.Step.Label()
	}
	return f
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}
