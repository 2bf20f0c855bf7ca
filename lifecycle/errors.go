package lifecycle

import (
	"errors"
	"fmt"
)

// Code identifies why the engine refused an operation
type Code string

// Error codes surfaced to callers
const (
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeLocked            Code = "LOCKED"
	CodeCaseClosed        Code = "CASE_CLOSED"
	CodeOpenDraftsExist   Code = "OPEN_DRAFTS_EXIST"
	CodeDuplicateSnapshot Code = "DUPLICATE_SNAPSHOT"
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeReportDeleted     Code = "REPORT_DELETED"
	CodeNotFound          Code = "NOT_FOUND"
	CodeBrokenChain       Code = "BROKEN_CHAIN"
)

// Error is a recoverable refusal. Two errors match under errors.Is when their codes match.
type Error struct {
	Code    Code
	Message string
	Details interface{}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error carrying the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// Sentinels for errors.Is comparisons
var (
	ErrInvalidTransition = &Error{Code: CodeInvalidTransition, Message: "transition not allowed"}
	ErrLocked            = &Error{Code: CodeLocked, Message: "report is locked"}
	ErrCaseClosed        = &Error{Code: CodeCaseClosed, Message: "case is closed"}
	ErrOpenDraftsExist   = &Error{Code: CodeOpenDraftsExist, Message: "case has unsent reports"}
	ErrInvalidInput      = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrReportDeleted     = &Error{Code: CodeReportDeleted, Message: "report is deleted"}
	ErrNotFound          = &Error{Code: CodeNotFound, Message: "not found"}
	ErrBrokenChain       = &Error{Code: CodeBrokenChain, Message: "supersession chain is inconsistent"}
)

// NewError builds an engine error
func NewError(code Code, message string, details interface{}) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// CodeOf returns the engine code carried by err, or "" for foreign errors
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// NotFound reports a missing report or case folder
func NotFound(kind, id string) *Error {
	return NewError(CodeNotFound, kind+" not found", map[string]string{"id": id})
}
