// internal/orchestrate/orchestrator.go
package orchestrate

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"sante-assist/internal/cache"
	"sante-assist/internal/classify"
	"sante-assist/internal/common/logger"
	"sante-assist/internal/common/metrics"
	"sante-assist/internal/common/observability"
	"sante-assist/internal/llm"
	"sante-assist/internal/models"
	"sante-assist/internal/plan"
	"sante-assist/internal/suggest"
	"sante-assist/internal/synthesize"
)

// Retriever is the slice of the scraping client the orchestrator needs.
type Retriever interface {
	FetchPage(ctx context.Context, url string) models.ScrapeResult
	FetchBatch(ctx context.Context, urls []string) []models.ScrapeResult
	Search(ctx context.Context, query string) ([]string, error)
}

// Config holds per-turn generation settings.
type Config struct {
	MaxTokens          int
	Temperature        float64
	MinCacheConfidence float64
}

// TurnMetadata summarizes what one turn cost.
type TurnMetadata struct {
	ToolCallsMade int               `json:"toolCallsMade"`
	ToolsUsed     []string          `json:"toolsUsed,omitempty"`
	Usage         models.TokenUsage `json:"usage"`
}

// TurnResult is what one processed turn hands back to the caller.
type TurnResult struct {
	Response string                      `json:"response"`
	Context  *models.ConversationContext `json:"context"`
	Sources  []string                    `json:"sources,omitempty"`
	Metadata TurnMetadata                `json:"metadata"`
}

// Orchestrator runs the tool-calling loop: one model call, sequential
// tool execution, then exactly one follow-up model call. It appends to
// the caller-owned conversation context but never creates sessions.
type Orchestrator struct {
	config        *Config
	llmProvider   llm.Provider
	classifier    *classify.Classifier
	planner       *plan.Planner
	retriever     Retriever
	cache         cache.Store
	synthesizer   *synthesize.Synthesizer
	suggester     *suggest.Suggester
	observability *observability.Observability
	logger        logger.Logger
}

func NewOrchestrator(
	config *Config,
	provider llm.Provider,
	classifier *classify.Classifier,
	planner *plan.Planner,
	retriever Retriever,
	store cache.Store,
	synthesizer *synthesize.Synthesizer,
	suggester *suggest.Suggester,
	obs *observability.Observability,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		config:        config,
		llmProvider:   provider,
		classifier:    classifier,
		planner:       planner,
		retriever:     retriever,
		cache:         store,
		synthesizer:   synthesizer,
		suggester:     suggester,
		observability: obs,
		logger:        log,
	}
}

// ProcessTurn handles one user message. Model transport errors are fatal
// for the turn; tool errors are fed back to the model as JSON payloads.
func (o *Orchestrator) ProcessTurn(ctx context.Context, userMessage string, conversation *models.ConversationContext) (*TurnResult, error) {
	start := time.Now()
	result, err := o.processTurn(ctx, userMessage, conversation)

	status := "success"
	if err != nil {
		status = "error"
	}
	if o.observability != nil {
		o.observability.RecordTurnProcessed(ctx, status)
		o.observability.RecordTurnDuration(ctx, time.Since(start), status)
	}
	return result, err
}

func (o *Orchestrator) processTurn(ctx context.Context, userMessage string, conversation *models.ConversationContext) (*TurnResult, error) {
	conversation.Append(models.Message{Role: models.RoleUser, Content: userMessage})

	var usage models.TokenUsage

	first, err := o.llmProvider.Generate(ctx, &llm.Request{
		System:      systemPrompt,
		Messages:    conversation.History,
		Tools:       toolDefinitions(),
		MaxTokens:   o.config.MaxTokens,
		Temperature: o.config.Temperature,
	})
	if err != nil {
		return nil, err
	}
	usage.Add(first.Usage)

	if !first.HasToolCalls() {
		conversation.Append(models.Message{Role: models.RoleAssistant, Content: first.Content})
		return &TurnResult{
			Response: first.Content,
			Context:  conversation,
			Metadata: TurnMetadata{Usage: usage},
		}, nil
	}

	conversation.Append(models.Message{
		Role:      models.RoleAssistant,
		Content:   first.Content,
		ToolCalls: first.ToolCalls,
	})

	var sources []string
	var toolsUsed []string
	for _, call := range first.ToolCalls {
		result := o.executeTool(ctx, call, conversation.Profile)
		toolsUsed = append(toolsUsed, call.Name)
		sources = append(sources, result.Sources...)
		conversation.Append(models.Message{
			Role:       models.RoleTool,
			Content:    result.Payload,
			ToolCallID: call.ID,
		})
	}

	// Exactly one follow-up call; the model answers from the tool results
	// and never re-requests tools within the same turn.
	second, err := o.llmProvider.Generate(ctx, &llm.Request{
		System:      systemPrompt,
		Messages:    conversation.History,
		MaxTokens:   o.config.MaxTokens,
		Temperature: o.config.Temperature,
	})
	if err != nil {
		return nil, err
	}
	usage.Add(second.Usage)

	conversation.Append(models.Message{Role: models.RoleAssistant, Content: second.Content})

	o.logger.Info("Turn completed", map[string]interface{}{
		"sessionId": conversation.SessionID,
		"toolCalls": len(first.ToolCalls),
		"tools":     toolsUsed,
		"sources":   len(sources),
		"tokens":    usage.TotalTokens,
	})

	return &TurnResult{
		Response: second.Content,
		Context:  conversation,
		Sources:  dedupeSources(sources),
		Metadata: TurnMetadata{
			ToolCallsMade: len(first.ToolCalls),
			ToolsUsed:     toolsUsed,
			Usage:         usage,
		},
	}, nil
}

// executeTool dispatches one call. It never returns an error: failures
// become a JSON error payload the model can read and work around.
func (o *Orchestrator) executeTool(ctx context.Context, call models.ToolCall, profile models.UserProfile) models.ToolResult {
	payload, sources, err := o.dispatch(ctx, call, profile)
	if err != nil {
		metrics.ToolExecutions.WithLabelValues(call.Name, "error").Inc()
		o.logger.Warn("Tool execution failed", map[string]interface{}{
			"tool":  call.Name,
			"error": err.Error(),
		})
		payload = errorPayload(err)
		sources = nil
	} else {
		metrics.ToolExecutions.WithLabelValues(call.Name, "success").Inc()
	}

	return models.ToolResult{
		CallID:  call.ID,
		Name:    call.Name,
		Payload: payload,
		Sources: sources,
	}
}

func (o *Orchestrator) dispatch(ctx context.Context, call models.ToolCall, profile models.UserProfile) (string, []string, error) {
	if err := validateToolArgs(call.Name, call.Arguments); err != nil {
		return "", nil, err
	}

	switch call.Name {
	case toolSearchTopic:
		var args searchTopicArgs
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return "", nil, err
		}
		return o.searchTopic(ctx, args.Query, args.Context, profile)

	case toolGetSuggestions:
		suggestions := o.suggester.Suggest(profile)
		payload, err := json.Marshal(map[string]interface{}{"suggestions": suggestions})
		return string(payload), nil, err

	case toolScrapePage:
		var args scrapePageArgs
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return "", nil, err
		}
		return o.scrapePage(ctx, args.URL)

	case toolClassifyQuery:
		var args classifyQueryArgs
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return "", nil, err
		}
		classification := o.classifier.Classify(args.Query, profile)
		payload, err := json.Marshal(classification)
		return string(payload), nil, err
	}

	// validateToolArgs already rejected unknown names.
	return "", nil, nil
}

// searchTopic is the main retrieval pipeline: classify, consult the
// cache, plan, fetch, synthesize, and cache confident answers. A
// conversational context hint widens the question before classification
// so follow-ups like "and for my children?" resolve to the right topic.
func (o *Orchestrator) searchTopic(ctx context.Context, query, contextHint string, profile models.UserProfile) (string, []string, error) {
	if hint := strings.TrimSpace(contextHint); hint != "" {
		query = query + " " + hint
	}

	classification := o.classifier.Classify(query, profile)
	key := cache.Key(classify.Normalize(query), profile.Fingerprint())

	if cached := o.cache.Get(ctx, key); cached != nil {
		response := *cached
		response.Metadata.Cached = true
		payload, err := json.Marshal(&response)
		if err != nil {
			return "", nil, err
		}
		return string(payload), response.Sources, nil
	}

	scrapingPlan := o.buildPlan(ctx, query, classification, profile)
	results := o.retriever.FetchBatch(ctx, scrapingPlan.URLs)
	response := o.synthesizer.Process(results, classification, query)

	if response.Confidence >= o.config.MinCacheConfidence {
		if err := o.cache.Set(ctx, key, *response, classification.Category, 0); err != nil {
			o.logger.Warn("Failed to cache response", map[string]interface{}{"error": err.Error()})
		}
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return "", nil, err
	}
	return string(payload), response.Sources, nil
}

// buildPlan routes through the static catalog for confident category
// matches and through live search for GENERAL ones. A failed search
// degrades to the catalog's general pages rather than failing the tool.
func (o *Orchestrator) buildPlan(ctx context.Context, query string, classification models.Classification, profile models.UserProfile) models.ScrapingPlan {
	if classification.Category != models.CategoryGeneral {
		return o.planner.Plan(classification.Category, profile)
	}

	urls, err := o.retriever.Search(ctx, query)
	if err != nil || len(urls) == 0 {
		o.logger.Warn("Live search unavailable, using general catalog pages", map[string]interface{}{
			"query": query,
		})
		return o.planner.Plan(models.CategoryGeneral, profile)
	}
	return o.planner.PlanFromURLs(urls)
}

func (o *Orchestrator) scrapePage(ctx context.Context, url string) (string, []string, error) {
	result := o.retriever.FetchPage(ctx, url)
	payload, err := json.Marshal(result)
	if err != nil {
		return "", nil, err
	}

	var sources []string
	if result.Success {
		sources = []string{result.URL}
	}
	return string(payload), sources, nil
}

func errorPayload(err error) string {
	payload, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return `{"error":"tool execution failed"}`
	}
	return string(payload)
}

func dedupeSources(sources []string) []string {
	seen := make(map[string]bool, len(sources))
	var out []string
	for _, src := range sources {
		if !seen[src] {
			seen[src] = true
			out = append(out, src)
		}
	}
	return out
}
