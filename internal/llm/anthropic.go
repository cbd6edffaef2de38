// internal/llm/anthropic.go
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sante-assist/internal/common/config"
	"sante-assist/internal/common/errors"
	httpclient "sante-assist/internal/common/http"
	"sante-assist/internal/common/logger"
	"sante-assist/internal/common/metrics"
	"sante-assist/internal/models"
)

const anthropicVersion = "2023-06-01"

// AnthropicProvider speaks the messages wire format. It differs from
// chat-completions in three ways this adapter has to bridge: the system
// prompt is a top-level field rather than a message, tool calls travel as
// tool_use content blocks on assistant messages, and tool results travel
// as tool_result blocks on user messages.
type AnthropicProvider struct {
	config     *config.LLMConfig
	httpClient *httpclient.Client
	logger     logger.Logger
}

func NewAnthropicProvider(cfg *config.LLMConfig, client *httpclient.Client, log logger.Logger) *AnthropicProvider {
	return &AnthropicProvider{config: cfg, httpClient: client, logger: log}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	// tool_use fields
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
	// tool_result fields
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

type anthropicTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Tools       []anthropicTool    `json:"tools,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
}

type anthropicResponse struct {
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *AnthropicProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()
	response, err := p.execute(ctx, req)
	metrics.LLMCallDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMCalls.WithLabelValues(p.Name(), "error").Inc()
		return nil, err
	}
	metrics.LLMCalls.WithLabelValues(p.Name(), "success").Inc()
	metrics.LLMTokens.WithLabelValues(p.Name(), "prompt").Add(float64(response.Usage.PromptTokens))
	metrics.LLMTokens.WithLabelValues(p.Name(), "completion").Add(float64(response.Usage.CompletionTokens))
	return response, nil
}

func (p *AnthropicProvider) execute(ctx context.Context, req *Request) (*Response, error) {
	body := anthropicRequest{
		Model:       p.config.Model,
		System:      req.System,
		Messages:    buildAnthropicMessages(req.Messages),
		Tools:       buildAnthropicTools(req.Tools),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	p.logger.Debug("Calling LLM provider", map[string]interface{}{
		"provider": p.Name(),
		"model":    p.config.Model,
		"messages": len(body.Messages),
		"tools":    len(body.Tools),
	})

	resp, err := p.httpClient.PostJSON(ctx, p.config.BaseURL+"/v1/messages", body, map[string]string{
		"x-api-key":         p.config.APIKey,
		"anthropic-version": anthropicVersion,
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewLLMTimeoutError()
		}
		return nil, errors.NewLLMProviderError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewLLMProviderError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewLLMProviderError(fmt.Errorf("status %d: %s", resp.StatusCode, truncateForLog(raw)))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errors.NewLLMProviderError(fmt.Errorf("failed to decode response: %w", err))
	}
	if parsed.Error != nil {
		return nil, errors.NewLLMProviderError(fmt.Errorf("%s: %s", parsed.Error.Type, parsed.Error.Message))
	}

	response := &Response{
		FinishReason: parsed.StopReason,
		Usage: models.TokenUsage{
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
			TotalTokens:      parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		},
	}
	for _, block := range parsed.Content {
		switch block.Type {
		case "text":
			response.Content += block.Text
		case "tool_use":
			response.ToolCalls = append(response.ToolCalls, models.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}
	return response, nil
}

func buildAnthropicMessages(history []models.Message) []anthropicMessage {
	messages := make([]anthropicMessage, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case models.RoleTool:
			messages = append(messages, anthropicMessage{
				Role: "user",
				Content: []anthropicContentBlock{{
					Type:      "tool_result",
					ToolUseID: msg.ToolCallID,
					Content:   msg.Content,
				}},
			})
		case models.RoleAssistant:
			var blocks []anthropicContentBlock
			if msg.Content != "" {
				blocks = append(blocks, anthropicContentBlock{Type: "text", Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				blocks = append(blocks, anthropicContentBlock{
					Type:  "tool_use",
					ID:    tc.ID,
					Name:  tc.Name,
					Input: tc.Arguments,
				})
			}
			messages = append(messages, anthropicMessage{Role: "assistant", Content: blocks})
		default:
			messages = append(messages, anthropicMessage{
				Role:    "user",
				Content: []anthropicContentBlock{{Type: "text", Text: msg.Content}},
			})
		}
	}
	return messages
}

func buildAnthropicTools(tools []ToolDefinition) []anthropicTool {
	out := make([]anthropicTool, 0, len(tools))
	for _, tool := range tools {
		out = append(out, anthropicTool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.Parameters,
		})
	}
	return out
}
