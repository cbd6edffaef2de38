// internal/llm/llm.go
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sante-assist/internal/common/config"
	httpclient "sante-assist/internal/common/http"
	"sante-assist/internal/common/logger"
	"sante-assist/internal/models"
)

// ToolDefinition describes one callable tool in provider-neutral form.
// Parameters is a JSON-schema object; each backend translates it to its
// own wire format.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// Request is a provider-neutral generation request.
type Request struct {
	System      string
	Messages    []models.Message
	Tools       []ToolDefinition
	MaxTokens   int
	Temperature float64
}

// Response is the provider-neutral result of one generation call.
type Response struct {
	Content      string
	ToolCalls    []models.ToolCall
	FinishReason string
	Usage        models.TokenUsage
}

// HasToolCalls reports whether the model requested tool execution.
func (r *Response) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}

// Provider generates chat completions. Implementations translate the
// neutral request into one vendor wire format.
type Provider interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
	Name() string
}

// NewProvider builds the backend selected by configuration.
func NewProvider(cfg *config.LLMConfig, log logger.Logger) (Provider, error) {
	client := httpclient.NewClient(time.Duration(cfg.Timeout) * time.Millisecond)
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg, client, log), nil
	case "anthropic":
		return NewAnthropicProvider(cfg, client, log), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
