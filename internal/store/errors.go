package store

import (
	"errors"
	"fmt"

	"github.com/five82/folio/internal/api"
)

// Kind classifies a failed store operation.
type Kind string

const (
	LoadFailed   Kind = "LoadFailed"
	AppendFailed Kind = "AppendFailed"
)

// ErrorInfo describes the last failed operation of a store.
type ErrorInfo struct {
	Kind    Kind
	Message string
	// Status is the HTTP status when the backend answered, 0 otherwise.
	Status int
	Err    error
}

func newErrorInfo(kind Kind, message string, err error) *ErrorInfo {
	return &ErrorInfo{
		Kind:    kind,
		Message: message,
		Status:  api.StatusCode(err),
		Err:     err,
	}
}

func (e *ErrorInfo) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ErrorInfo) Unwrap() error { return e.Err }

// Detail returns the underlying transport or status description.
func (e *ErrorInfo) Detail() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

var errNoFetcher = errors.New("store has no fetcher")

type panicError struct {
	value any
}

func (p panicError) Error() string {
	return fmt.Sprintf("transport panic: %v", p.value)
}
