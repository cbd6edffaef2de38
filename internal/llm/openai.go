// internal/llm/openai.go
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

// OpenAIProvider speaks the chat-completions wire format.
type OpenAIProvider struct {
	config     *config.LLMConfig
	httpClient *httpclient.Client
	logger     logger.Logger
}

func NewOpenAIProvider(cfg *config.LLMConfig, client *httpclient.Client, log logger.Logger) *OpenAIProvider {
	return &OpenAIProvider{config: cfg, httpClient: client, logger: log}
}

func (p *OpenAIProvider) Name() string { return "openai" }

type openAIMessage struct {
	Role       string           `json:"role"`
	Content    string           `json:"content"`
	ToolCalls  []openAIToolCall `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
}

type openAIToolCall struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Function openAIFunction `json:"function"`
}

type openAIFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type openAITool struct {
	Type     string        `json:"type"`
	Function openAIToolDef `json:"function"`
}

type openAIToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Tools       []openAITool    `json:"tools,omitempty"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message      openAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (p *OpenAIProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
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

func (p *OpenAIProvider) execute(ctx context.Context, req *Request) (*Response, error) {
	body := openAIRequest{
		Model:       p.config.Model,
		Messages:    p.buildMessages(req),
		Tools:       buildOpenAITools(req.Tools),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	p.logger.Debug("Calling LLM provider", map[string]interface{}{
		"provider": p.Name(),
		"model":    p.config.Model,
		"messages": len(body.Messages),
		"tools":    len(body.Tools),
	})

	resp, err := p.httpClient.PostJSON(ctx, p.config.BaseURL+"/v1/chat/completions", body, map[string]string{
		"Authorization": "Bearer " + p.config.APIKey,
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

	var parsed openAIResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errors.NewLLMProviderError(fmt.Errorf("failed to decode response: %w", err))
	}
	if parsed.Error != nil {
		return nil, errors.NewLLMProviderError(fmt.Errorf("%s: %s", parsed.Error.Type, parsed.Error.Message))
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.NewLLMProviderError(fmt.Errorf("response carried no choices"))
	}

	choice := parsed.Choices[0]
	response := &Response{
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
		Usage: models.TokenUsage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		},
	}
	for _, tc := range choice.Message.ToolCalls {
		response.ToolCalls = append(response.ToolCalls, models.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return response, nil
}

// buildMessages maps the neutral history onto chat-completions roles. The
// system prompt travels as the first message.
func (p *OpenAIProvider) buildMessages(req *Request) []openAIMessage {
	messages := make([]openAIMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: req.System})
	}
	for _, msg := range req.Messages {
		out := openAIMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		for _, tc := range msg.ToolCalls {
			out.ToolCalls = append(out.ToolCalls, openAIToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: openAIFunction{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}
		messages = append(messages, out)
	}
	return messages
}

func buildOpenAITools(tools []ToolDefinition) []openAITool {
	out := make([]openAITool, 0, len(tools))
	for _, tool := range tools {
		out = append(out, openAITool{
			Type: "function",
			Function: openAIToolDef{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}
	return out
}

func truncateForLog(raw []byte) string {
	if len(raw) > 300 {
		raw = raw[:300]
	}
	return string(raw)
}
