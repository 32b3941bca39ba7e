// internal/common/errors/errors.go

// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Caller errors. Never retried.
	ErrCodeInvalidStage     ErrorCode = "INVALID_STAGE"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodeDocumentNotFound ErrorCode = "DOCUMENT_NOT_FOUND"

	// Generation service errors. Unavailable means misconfigured or
	// unreachable and is surfaced immediately; timeout and failure degrade
	// to the normalizer's fallback path.
	ErrCodeGenerationUnavailable ErrorCode = "GENERATION_UNAVAILABLE"
	ErrCodeGenerationTimeout     ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeGenerationFailed      ErrorCode = "GENERATION_FAILED"

	// Degraded-result conditions. Logged, never propagated as failures.
	ErrCodePartialParse           ErrorCode = "PARTIAL_PARSE"
	ErrCodePersonaFeedbackFailure ErrorCode = "PERSONA_FEEDBACK_FAILURE"
	ErrCodePersistenceFailure     ErrorCode = "PERSISTENCE_FAILURE"

	// Infrastructure errors.
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
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

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInvalidStageError creates a non-retryable caller error for an unknown
// stage name.
func NewInvalidStageError(stage string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStage,
		Message:   "Unknown validation stage",
		Details:   fmt.Sprintf("stage: %s", stage),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Request input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentNotFoundError creates a non-retryable missing-document error.
func NewDocumentNotFoundError(ideaID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentNotFound,
		Message:   "Business plan document not found",
		Details:   fmt.Sprintf("ideaId: %s", ideaID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationUnavailableError creates a non-retryable error for a
// misconfigured or unreachable generation service. This is the one
// generation failure that is fatal instead of degraded.
func NewGenerationUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationUnavailable,
		Message:   "Text-generation service unavailable",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationTimeoutError creates a retryable generation timeout error.
func NewGenerationTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationTimeout,
		Message:   "Text-generation call timed out",
		Details:   "generation call exceeded its context deadline",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError creates a retryable generation API error.
func NewGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Text-generation API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPartialParseError records that a response was normalized via the
// fallback path. Non-fatal: execution continues with defaults.
func NewPartialParseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePartialParse,
		Message:   "Generation response normalized with defaults",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersonaFeedbackFailureError records an isolated per-persona failure.
func NewPersonaFeedbackFailureError(personaID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersonaFeedbackFailure,
		Message:   "Persona feedback generation failed",
		Details:   fmt.Sprintf("personaId: %s, error: %s", personaID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceFailureError records a failed document merge after a
// successful improvement. The result is still returned to the caller.
func NewPersistenceFailureError(ideaID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePersistenceFailure,
		Message:   "Document merge failed",
		Details:   fmt.Sprintf("ideaId: %s, error: %s", ideaID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      "AUTHENTICATION_ERROR",
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeGenerationFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed:
		return 3 // Retryable technical errors

	case ErrCodeGenerationTimeout,
		ErrCodeQueryTimeout:
		return 1 // As per BPMN boundary event

	default:
		return 0 // Caller and degraded-result errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for the engine.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// IsFatal reports whether the code must propagate to the caller as a hard
// failure instead of degrading to a default-filled result.
func IsFatal(code ErrorCode) bool {
	switch code {
	case ErrCodeInvalidStage, ErrCodeInvalidInput, ErrCodeGenerationUnavailable:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "GENERATION"):
		return "GENERATION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "PERSISTENCE"):
		return "STORAGE"
	case strings.Contains(codeStr, "PARSE") || strings.Contains(codeStr, "PERSONA"):
		return "DEGRADED"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "NOT_FOUND"):
		return "CALLER"
	default:
		return "OTHER"
	}
}
