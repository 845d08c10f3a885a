// Package clierr carries structured command errors: a stable
// machine-readable code, a message for humans, and an optional details
// map that the JSON error envelope passes through to scripts.
package clierr

import (
	"fmt"
	"strconv"
)

// Error codes, stable across minor versions.
const (
	// Input and validation.
	ValidationFailed = "VALIDATION_FAILED"
	InvalidInput     = "INVALID_INPUT"
	InvalidTaskID    = "INVALID_TASK_ID"
	InvalidGroupBy   = "INVALID_GROUP_BY"
	NoChanges        = "NO_CHANGES"
	ConfirmationReq  = "CONFIRMATION_REQUIRED"

	// Lookups and versioning.
	NotFound        = "NOT_FOUND"
	VersionConflict = "VERSION_CONFLICT"

	// Dependency graph.
	CycleDetected = "CYCLE_DETECTED"
	SelfReference = "SELF_REFERENCE"

	// Triggers.
	DuplicateTrigger      = "DUPLICATE_TRIGGER"
	TriggerNotCancellable = "TRIGGER_NOT_CANCELLABLE"
	InvalidTransition     = "INVALID_TRANSITION"

	// Workspace.
	WorkspaceNotFound = "WORKSPACE_NOT_FOUND"
	WorkspaceExists   = "WORKSPACE_EXISTS"
	InternalError     = "INTERNAL_ERROR"
)

// Error is a coded command error.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string { return e.Message }

// ExitCode maps the error to a process exit code: 2 for internal
// failures, 1 for everything the caller can act on.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// WithDetails attaches a details map and returns the error for
// chaining onto New or Newf.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// New builds an Error from a code and a fixed message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds an Error with a Sprintf-formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// SilentError carries an exit code with no output of its own, for
// paths that have already written their result (aborted prompts, TUI
// quits).
type SilentError struct {
	Code int
}

func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
