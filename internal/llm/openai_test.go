// internal/llm/openai_test.go
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sante-assist/internal/common/config"
	stderrors "sante-assist/internal/common/errors"
	httpclient "sante-assist/internal/common/http"
	"sante-assist/internal/common/logger"
	"sante-assist/internal/models"
)

func newOpenAITestProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := &config.LLMConfig{
		Provider: "openai",
		BaseURL:  server.URL,
		APIKey:   "test-key",
		Model:    "gpt-4o-mini",
	}
	return NewOpenAIProvider(cfg, httpclient.NewClient(5*time.Second), logger.NewNoOpLogger())
}

func sampleRequest() *Request {
	return &Request{
		System:      "Tu es un assistant de l'Assurance Maladie.",
		Messages:    []models.Message{{Role: models.RoleUser, Content: "Comment obtenir ma carte vitale ?"}},
		MaxTokens:   512,
		Temperature: 0.2,
		Tools: []ToolDefinition{{
			Name:        "search_topic",
			Description: "Search official pages for a topic",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"}},"required":["query"]}`),
		}},
	}
}

func TestOpenAIGenerateText(t *testing.T) {
	var captured map[string]interface{}
	provider := newOpenAITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{{
				"message":       map[string]interface{}{"role": "assistant", "content": "Connectez-vous à votre compte ameli."},
				"finish_reason": "stop",
			}},
			"usage": map[string]int{"prompt_tokens": 40, "completion_tokens": 12, "total_tokens": 52},
		})
	})

	response, err := provider.Generate(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "Connectez-vous à votre compte ameli.", response.Content)
	assert.False(t, response.HasToolCalls())
	assert.Equal(t, "stop", response.FinishReason)
	assert.Equal(t, 52, response.Usage.TotalTokens)

	// The system prompt travels as the first message.
	messages := captured["messages"].([]interface{})
	first := messages[0].(map[string]interface{})
	assert.Equal(t, "system", first["role"])

	// Tools use the nested function envelope.
	tools := captured["tools"].([]interface{})
	tool := tools[0].(map[string]interface{})
	assert.Equal(t, "function", tool["type"])
	assert.Equal(t, "search_topic", tool["function"].(map[string]interface{})["name"])
}

func TestOpenAIGenerateToolCalls(t *testing.T) {
	provider := newOpenAITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{{
				"message": map[string]interface{}{
					"role": "assistant",
					"tool_calls": []map[string]interface{}{{
						"id":   "call_1",
						"type": "function",
						"function": map[string]string{
							"name":      "search_topic",
							"arguments": `{"query":"carte vitale"}`,
						},
					}},
				},
				"finish_reason": "tool_calls",
			}},
			"usage": map[string]int{"prompt_tokens": 50, "completion_tokens": 20, "total_tokens": 70},
		})
	})

	response, err := provider.Generate(context.Background(), sampleRequest())
	require.NoError(t, err)

	require.True(t, response.HasToolCalls())
	assert.Equal(t, "call_1", response.ToolCalls[0].ID)
	assert.Equal(t, "search_topic", response.ToolCalls[0].Name)
	assert.JSONEq(t, `{"query":"carte vitale"}`, string(response.ToolCalls[0].Arguments))
}

func TestOpenAIToolResultRoundTrip(t *testing.T) {
	var captured map[string]interface{}
	provider := newOpenAITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{{
				"message":       map[string]interface{}{"role": "assistant", "content": "Voici la réponse."},
				"finish_reason": "stop",
			}},
		})
	})

	req := sampleRequest()
	req.Messages = append(req.Messages,
		models.Message{
			Role: models.RoleAssistant,
			ToolCalls: []models.ToolCall{{
				ID:        "call_1",
				Name:      "search_topic",
				Arguments: json.RawMessage(`{"query":"carte vitale"}`),
			}},
		},
		models.Message{Role: models.RoleTool, ToolCallID: "call_1", Content: `{"answer":"ok"}`},
	)

	_, err := provider.Generate(context.Background(), req)
	require.NoError(t, err)

	messages := captured["messages"].([]interface{})
	// system, user, assistant w/ tool_calls, tool result
	require.Len(t, messages, 4)

	assistant := messages[2].(map[string]interface{})
	calls := assistant["tool_calls"].([]interface{})
	call := calls[0].(map[string]interface{})
	assert.Equal(t, "call_1", call["id"])
	assert.Equal(t, `{"query":"carte vitale"}`, call["function"].(map[string]interface{})["arguments"])

	toolMsg := messages[3].(map[string]interface{})
	assert.Equal(t, "tool", toolMsg["role"])
	assert.Equal(t, "call_1", toolMsg["tool_call_id"])
}

func TestOpenAIErrorStatus(t *testing.T) {
	provider := newOpenAITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited","type":"rate_limit"}}`, http.StatusTooManyRequests)
	})

	_, err := provider.Generate(context.Background(), sampleRequest())
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeLLMProviderError, stdErr.Code)
}

func TestNewProviderSelection(t *testing.T) {
	log := logger.NewNoOpLogger()

	openai, err := NewProvider(&config.LLMConfig{Provider: "openai", Timeout: 1000}, log)
	require.NoError(t, err)
	assert.Equal(t, "openai", openai.Name())

	anthropic, err := NewProvider(&config.LLMConfig{Provider: "anthropic", Timeout: 1000}, log)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", anthropic.Name())

	_, err = NewProvider(&config.LLMConfig{Provider: "mistral"}, log)
	assert.Error(t, err)
}
