// Package errors provides the standardized error taxonomy shared across the
// retrieval-and-synthesis pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeClassificationAmbiguous ErrorCode = "CLASSIFICATION_AMBIGUOUS"
	ErrCodeRetrievalFailed         ErrorCode = "RETRIEVAL_FAILED"
	ErrCodeProviderUnavailable     ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrCodeLLMProviderError        ErrorCode = "LLM_PROVIDER_ERROR"
	ErrCodeLLMTimeout              ErrorCode = "LLM_TIMEOUT"
	ErrCodeToolExecutionFailed     ErrorCode = "TOOL_EXECUTION_FAILED"
	ErrCodeToolArgumentsInvalid    ErrorCode = "TOOL_ARGUMENTS_INVALID"
	ErrCodeCacheCapacityExceeded   ErrorCode = "CACHE_CAPACITY_EXCEEDED"
	ErrCodeCatalogNotFound         ErrorCode = "CATALOG_NOT_FOUND"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewClassificationAmbiguousError is non-fatal; processing continues with a
// low-confidence general classification.
func NewClassificationAmbiguousError(query string) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassificationAmbiguous,
		Message:   "Query could not be confidently classified",
		Details:   fmt.Sprintf("query: %s", query),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRetrievalFailedError creates a retryable per-URL retrieval error.
func NewRetrievalFailedError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRetrievalFailed,
		Message:   "Page retrieval failed",
		Details:   fmt.Sprintf("url: %s, error: %s", url, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderUnavailableError signals a transport-level provider failure
// that opens the fallback circuit.
func NewProviderUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderUnavailable,
		Message:   "Scraping provider unreachable, switching to fallback",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMProviderError is fatal for the current turn and propagates to the caller.
func NewLLMProviderError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMProviderError,
		Message:   "LLM provider request failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates an LLM timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "LLM provider request timed out",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewToolExecutionFailedError is caught per tool and fed back to the model
// as a structured payload.
func NewToolExecutionFailedError(tool string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeToolExecutionFailed,
		Message:   "Tool execution failed",
		Details:   fmt.Sprintf("tool: %s, error: %s", tool, err.Error()),
		Retryable: false,
		Metadata:  map[string]interface{}{"tool": tool},
		Timestamp: time.Now().UTC(),
	}
}

// NewToolArgumentsInvalidError reports schema validation failure at the
// tool dispatch boundary.
func NewToolArgumentsInvalidError(tool, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeToolArgumentsInvalid,
		Message:   "Tool arguments failed schema validation",
		Details:   fmt.Sprintf("tool: %s, %s", tool, details),
		Retryable: false,
		Metadata:  map[string]interface{}{"tool": tool},
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogNotFoundError reports a category without catalog coverage.
func NewCatalogNotFoundError(category string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogNotFound,
		Message:   "No catalog entries for category",
		Details:   fmt.Sprintf("category: %s", category),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryableErrorCode reports whether the code is safe to retry.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeRetrievalFailed, ErrCodeLLMTimeout:
		return true
	}
	return false
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeClassificationAmbiguous:
		return "classification"
	case ErrCodeRetrievalFailed, ErrCodeProviderUnavailable:
		return "retrieval"
	case ErrCodeLLMProviderError, ErrCodeLLMTimeout:
		return "llm"
	case ErrCodeToolExecutionFailed, ErrCodeToolArgumentsInvalid:
		return "tooling"
	case ErrCodeCacheCapacityExceeded:
		return "cache"
	}
	return "internal"
}
