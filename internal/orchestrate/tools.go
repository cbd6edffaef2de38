// internal/orchestrate/tools.go
package orchestrate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"sante-assist/internal/common/errors"
	"sante-assist/internal/llm"
)

const (
	toolSearchTopic    = "search_topic"
	toolGetSuggestions = "get_topic_suggestions"
	toolScrapePage     = "scrape_specific_page"
	toolClassifyQuery  = "classify_query"
)

const searchTopicSchema = `{
	"type": "object",
	"properties": {
		"query": {
			"type": "string",
			"description": "The user's question about French health insurance, in their own words"
		},
		"context": {
			"type": "string",
			"description": "Optional conversational context that narrows the question, e.g. an earlier topic"
		}
	},
	"required": ["query"],
	"additionalProperties": false
}`

const getSuggestionsSchema = `{
	"type": "object",
	"properties": {
		"profile": {
			"type": "object",
			"description": "Optional user situation hints; the server-side profile takes precedence"
		}
	},
	"additionalProperties": false
}`

const scrapePageSchema = `{
	"type": "object",
	"properties": {
		"url": {
			"type": "string",
			"description": "Full URL of the official page to retrieve"
		}
	},
	"required": ["url"],
	"additionalProperties": false
}`

const classifyQuerySchema = `{
	"type": "object",
	"properties": {
		"query": {
			"type": "string",
			"description": "The user's question to categorize"
		}
	},
	"required": ["query"],
	"additionalProperties": false
}`

var toolSchemas = map[string]string{
	toolSearchTopic:    searchTopicSchema,
	toolGetSuggestions: getSuggestionsSchema,
	toolScrapePage:     scrapePageSchema,
	toolClassifyQuery:  classifyQuerySchema,
}

// toolDefinitions is the fixed tool surface exposed to the model.
func toolDefinitions() []llm.ToolDefinition {
	return []llm.ToolDefinition{
		{
			Name:        toolSearchTopic,
			Description: "Search official French health-insurance pages for a topic and synthesize a sourced answer",
			Parameters:  json.RawMessage(searchTopicSchema),
		},
		{
			Name:        toolGetSuggestions,
			Description: "List topics the user can ask about, adapted to their situation",
			Parameters:  json.RawMessage(getSuggestionsSchema),
		},
		{
			Name:        toolScrapePage,
			Description: "Retrieve the content of one specific official page by URL",
			Parameters:  json.RawMessage(scrapePageSchema),
		},
		{
			Name:        toolClassifyQuery,
			Description: "Categorize a question by topic, intent and urgency without retrieving anything",
			Parameters:  json.RawMessage(classifyQuerySchema),
		},
	}
}

// validateToolArgs checks the raw arguments against the tool's JSON schema
// before anything is unmarshalled.
func validateToolArgs(tool string, args json.RawMessage) error {
	schema, ok := toolSchemas[tool]
	if !ok {
		return errors.NewToolExecutionFailedError(tool, fmt.Errorf("unknown tool"))
	}
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewBytesLoader(args))
	if err != nil {
		return errors.NewToolArgumentsInvalidError(tool, err.Error())
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return errors.NewToolArgumentsInvalidError(tool, strings.Join(details, "; "))
	}
	return nil
}

type searchTopicArgs struct {
	Query   string `json:"query"`
	Context string `json:"context"`
}

type scrapePageArgs struct {
	URL string `json:"url"`
}

type classifyQueryArgs struct {
	Query string `json:"query"`
}
