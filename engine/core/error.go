package core

import (
	"errors"
	"fmt"
)

// Error is a structured error carrying a stable code and optional details
// for logging. It wraps the underlying cause for errors.Is/As.
type Error struct {
	Err     error
	Code    string
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a stable code and structured details.
func NewError(err error, code string, details map[string]any) *Error {
	return &Error{Err: err, Code: code, Details: details}
}

// ErrorCode extracts the code from a structured error, or "" for plain errors.
func ErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
