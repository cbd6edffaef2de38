// internal/orchestrate/tools_test.go
package orchestrate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "sante-assist/internal/common/errors"
)

func TestValidateToolArgs(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		args    string
		wantErr bool
	}{
		{"valid search", toolSearchTopic, `{"query":"carte vitale"}`, false},
		{"search with context", toolSearchTopic, `{"query":"et pour mes enfants ?","context":"carte vitale"}`, false},
		{"search context wrong type", toolSearchTopic, `{"query":"ok","context":7}`, true},
		{"search missing query", toolSearchTopic, `{}`, true},
		{"search wrong type", toolSearchTopic, `{"query":42}`, true},
		{"search extra property", toolSearchTopic, `{"query":"ok","extra":true}`, true},
		{"valid scrape", toolScrapePage, `{"url":"https://www.ameli.fr/assure"}`, false},
		{"scrape missing url", toolScrapePage, `{}`, true},
		{"valid classify", toolClassifyQuery, `{"query":"remboursement"}`, false},
		{"suggestions empty args", toolGetSuggestions, `{}`, false},
		{"suggestions nil args", toolGetSuggestions, ``, false},
		{"suggestions with profile", toolGetSuggestions, `{"profile":{"age":34,"situation":"salarié"}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateToolArgs(tt.tool, json.RawMessage(tt.args))
			if tt.wantErr {
				require.Error(t, err)
				var stdErr *stderrors.StandardError
				require.ErrorAs(t, err, &stdErr)
				assert.Equal(t, stderrors.ErrCodeToolArgumentsInvalid, stdErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateToolArgsUnknownTool(t *testing.T) {
	err := validateToolArgs("drop_tables", json.RawMessage(`{}`))
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeToolExecutionFailed, stdErr.Code)
}

func TestToolDefinitionsCoverAllTools(t *testing.T) {
	defs := toolDefinitions()
	require.Len(t, defs, 4)
	for _, def := range defs {
		assert.NotEmpty(t, def.Description)
		assert.Contains(t, toolSchemas, def.Name)
		assert.True(t, json.Valid(def.Parameters))
	}
}
