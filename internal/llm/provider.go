package llm

import (
	"context"

	"github.com/varscout/varscout/internal/model"
)

// Provider defines the interface for LLM providers. varscout uses LLMs at
// the boundary only: extracting candidate variant notations from free text
// and summarizing finished reports. A provider never participates in
// notation resolution or annotation aggregation.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete generates a single text completion
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is one prompt sent to a provider
type CompletionRequest struct {
	// System sets the assistant behavior (provider-specific placement)
	System string

	// Prompt is the user-level input
	Prompt string

	// Model overrides the configured model for this request
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// CompletionResponse is the provider's output
type CompletionResponse struct {
	// Text is the generated completion
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider:   modelConfig.Provider,
		Model:      modelConfig.Model,
		APIKey:     modelConfig.APIKey,
		BaseURL:    modelConfig.BaseURL,
		Timeout:    modelConfig.Timeout,
		MaxTokens:  modelConfig.MaxTokens,
		HTTPProxy:  httpCfg.HTTPProxy,
		HTTPSProxy: httpCfg.HTTPSProxy,
		NoProxy:    httpCfg.NoProxy,
	}
}
