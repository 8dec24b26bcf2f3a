// Package errors defines stable error codes for HKB failure modes.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// KnowledgeSetUnreadable indicates a knowledge base file could not be read or parsed
	KnowledgeSetUnreadable ErrorCode = "KNOWLEDGE_SET_UNREADABLE"
	// KnowledgeBaseInvalid indicates the merged knowledge base failed validation
	KnowledgeBaseInvalid ErrorCode = "KNOWLEDGE_BASE_INVALID"
	// EmptyInput indicates recipe text was empty or whitespace-only
	EmptyInput ErrorCode = "EMPTY_INPUT"
	// PipelineFailure indicates an unexpected failure inside the conversion pipeline
	PipelineFailure ErrorCode = "PIPELINE_FAILURE"
	// CacheUnavailable indicates the conversion history database could not be opened
	CacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	// ConfigInvalid indicates the configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ExportFailed indicates a knowledge base snapshot could not be written
	ExportFailed ErrorCode = "EXPORT_FAILED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditConfig suggests editing the configuration file
	EditConfig FixActionType = "edit-config"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
}

// HkbError represents an HKB error with code, message, and suggestions
type HkbError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// NewHkbError creates a new HkbError
func NewHkbError(code ErrorCode, message string, cause error) *HkbError {
	return &HkbError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *HkbError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *HkbError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *HkbError) WithDetails(details interface{}) *HkbError {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	KnowledgeSetUnreadable: {
		{
			Type:        RunCommand,
			Command:     "hkb ingredients list",
			Safe:        true,
			Description: "List the record sets that loaded successfully",
		},
		{
			Type:        EditConfig,
			Description: "Check knowledgeBase.paths in .hkb/config.json",
		},
	},
	CacheUnavailable: {
		{
			Type:        RunCommand,
			Command:     "hkb convert --no-cache",
			Safe:        true,
			Description: "Run the conversion without the history cache",
		},
	},
	ConfigInvalid: {
		{
			Type:        EditConfig,
			Description: "Fix the reported field in .hkb/config.json",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
