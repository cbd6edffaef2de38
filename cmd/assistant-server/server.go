// cmd/assistant-server/server.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"sante-assist/internal/cache"
	"sante-assist/internal/common/logger"
	"sante-assist/internal/models"
	"sante-assist/internal/orchestrate"
)

// turnProcessor is what the chat handler needs from the orchestrator.
type turnProcessor interface {
	ProcessTurn(ctx context.Context, userMessage string, conversation *models.ConversationContext) (*orchestrate.TurnResult, error)
}

// server owns the HTTP surface and the in-memory session table. Sessions
// hold conversation history only; nothing is persisted.
type server struct {
	processor turnProcessor
	store     cache.Store
	logger    logger.Logger
	version   string

	mu       sync.Mutex
	sessions map[string]*chatSession
}

// chatSession serializes turns on one conversation. The orchestrator
// appends to the history it is handed, so concurrent requests carrying
// the same session id must take turns.
type chatSession struct {
	mu           sync.Mutex
	conversation *models.ConversationContext
}

func newServer(processor turnProcessor, store cache.Store, version string, log logger.Logger) *server {
	return &server{
		processor: processor,
		store:     store,
		logger:    log,
		version:   version,
		sessions:  make(map[string]*chatSession),
	}
}

type chatRequest struct {
	SessionID string             `json:"sessionId,omitempty"`
	Message   string             `json:"message"`
	Profile   models.UserProfile `json:"profile,omitempty"`
}

type chatResponse struct {
	SessionID string                   `json:"sessionId"`
	Response  string                   `json:"response"`
	Sources   []string                 `json:"sources,omitempty"`
	Metadata  orchestrate.TurnMetadata `json:"metadata"`
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	sess := s.session(req.SessionID, req.Profile)

	sess.mu.Lock()
	conversation := sess.conversation
	result, err := s.processor.ProcessTurn(r.Context(), req.Message, conversation)
	sess.mu.Unlock()
	if err != nil {
		s.logger.Error("Turn failed", map[string]interface{}{
			"sessionId": conversation.SessionID,
			"error":     err.Error(),
		})
		http.Error(w, "assistant unavailable", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID: conversation.SessionID,
		Response:  result.Response,
		Sources:   result.Sources,
		Metadata:  result.Metadata,
	})
}

// session returns the existing session or creates one. A request
// without a session id starts a fresh conversation.
func (s *server) session(id string, profile models.UserProfile) *chatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if sess, ok := s.sessions[id]; ok {
			return sess
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	sess := &chatSession{conversation: &models.ConversationContext{SessionID: id, Profile: profile}}
	s.sessions[id] = sess
	return sess
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats(r.Context()))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
