// internal/models/conversation.go
package models

import "encoding/json"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in a conversation history. Assistant messages may
// carry tool calls; tool messages carry the result for exactly one call.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"toolCalls,omitempty"`
	ToolCallID string     `json:"toolCallId,omitempty"`
}

// ToolCall is a structured request from the model to invoke a capability.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult pairs a tool call with its JSON payload and the sources it
// contributed to the final answer.
type ToolResult struct {
	CallID  string   `json:"callId"`
	Name    string   `json:"name"`
	Payload string   `json:"payload"`
	Sources []string `json:"sources,omitempty"`
}

// ConversationContext is owned by the caller; the orchestrator appends
// messages each turn but never creates or tears down sessions.
type ConversationContext struct {
	SessionID string      `json:"sessionId"`
	Profile   UserProfile `json:"profile"`
	History   []Message   `json:"history"`
}

// Append adds a message to the history.
func (c *ConversationContext) Append(msg Message) {
	c.History = append(c.History, msg)
}

// TokenUsage accumulates token accounting across LLM calls in a turn.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Add merges another usage record into this one.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}
