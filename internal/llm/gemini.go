package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	config     *GeminiConfig
	httpClient *http.Client
}

func NewGeminiClient(config *GeminiConfig) (*GeminiClient, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &GeminiClient{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}, nil
}

// GenerateContent sends prompt as a single user turn and returns the text of
// the first candidate.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimSuffix(c.config.APIURL, "/"),
		url.PathEscape(c.config.Model),
		url.QueryEscape(c.config.APIKey),
	)
	request := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
	}

	var response geminiResponse
	err := postJSON(ctx, c.httpClient, endpoint, map[string]string{"Content-Type": "application/json"}, request, &response)
	if response.Error != nil && response.Error.Message != "" {
		return "", fmt.Errorf("generate content failed: %w", response.Error)
	}
	if err != nil {
		return "", fmt.Errorf("generate content failed: %w", redactKey(err, c.config.APIKey))
	}

	if len(response.Candidates) == 0 {
		if response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", response.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("no candidates in response")
	}

	var sb strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

// redactKey keeps the query-string key out of transport errors, which
// include the request URL.
func redactKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), key, "REDACTED"))
}
