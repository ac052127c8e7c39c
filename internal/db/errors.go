package db

import (
	"errors"
	"fmt"
)

// Code categorizes facade errors.
type Code string

const (
	// CodeUnknownModel: an operation referenced a model with no
	// registered descriptor. Never retried.
	CodeUnknownModel Code = "UNKNOWN_MODEL"

	// CodeOpenFailure: the underlying store could not be opened or
	// upgraded. The caller may retry by reopening; nothing retries
	// automatically.
	CodeOpenFailure Code = "OPEN_FAILURE"

	// CodeOperationFailure: an individual read/write/query step failed.
	// Local to the triggering call; sibling operations already in flight
	// are unaffected.
	CodeOperationFailure Code = "OPERATION_FAILURE"
)

// Error is the structured error returned by every facade operation.
type Error struct {
	Code    Code
	Message string
	Model   string // affected model, when known
	Op      string // operation name ("insert", "findBy", ...)
	Err     error  // underlying cause, when any
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Model != "" {
		msg += fmt.Sprintf(" (model=%s)", e.Model)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnknownModel reports whether err is an unknown-model error.
// Uses errors.As to handle wrapped errors.
func IsUnknownModel(err error) bool {
	return hasCode(err, CodeUnknownModel)
}

// IsOpenFailure reports whether err is a store open/upgrade failure.
func IsOpenFailure(err error) bool {
	return hasCode(err, CodeOpenFailure)
}

// IsOperationFailure reports whether err is an individual operation
// failure.
func IsOperationFailure(err error) bool {
	return hasCode(err, CodeOperationFailure)
}

func hasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

func unknownModelError(op, model string) *Error {
	return &Error{
		Code:    CodeUnknownModel,
		Message: "no descriptor registered for model",
		Model:   model,
		Op:      op,
	}
}

func openFailure(msg string, err error) *Error {
	return &Error{Code: CodeOpenFailure, Message: msg, Op: "open", Err: err}
}

func operationFailure(op, model string, err error) *Error {
	return &Error{
		Code:    CodeOperationFailure,
		Message: op + " failed",
		Model:   model,
		Op:      op,
		Err:     err,
	}
}
