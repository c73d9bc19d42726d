package llm

import (
	"fmt"
)

// Config holds the settings of an OpenAI-compatible chat completions
// endpoint.
//
// Environment Variables (read by internal/config):
// - OPENAI_API_KEY: API key, checked only when a request is made
// - OPENAI_API_URL: API endpoint URL (default: https://api.openai.com/v1)
// - OPENAI_MODEL: Model name to use (default: gpt-4o)
// - OPENAI_MAX_TOKENS: Maximum tokens for responses (default: 1024)
// - OPENAI_TEMPERATURE: Temperature for responses (default: 0.2)
// - OPENAI_TIMEOUT: Request timeout in seconds (default: 120)
type Config struct {
	APIKey      string  `json:"-"`
	APIURL      string  `json:"api_url"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Timeout     int     `json:"timeout"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	if c.APIURL == "" {
		return fmt.Errorf("API URL is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max tokens must be greater than 0")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.Timeout < 1 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	return nil
}

// GetHeaders returns the headers for the LLM API request
func (c *Config) GetHeaders() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.APIKey,
		"Content-Type":  "application/json",
	}
}

// GeminiConfig holds the settings of the Gemini generateContent endpoint.
type GeminiConfig struct {
	APIKey  string `json:"-"`
	APIURL  string `json:"api_url"`
	Model   string `json:"model"`
	Timeout int    `json:"timeout"`
}

func (c *GeminiConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	if c.APIURL == "" {
		return fmt.Errorf("API URL is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Timeout < 1 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	return nil
}
