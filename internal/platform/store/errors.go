package store

import (
	"errors"
	"fmt"
)

// Error kinds every store driver reports. Handlers map them to HTTP statuses.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrUpstream   = errors.New("upstream failure")
)

// NotFoundError reports a missing record, e.g. "Order not found".
type NotFoundError struct {
	Resource string
	Key      string
	Value    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError reports a record the store refused because of its shape or constraints.
type ValidationError struct {
	Resource string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Resource, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UpstreamError wraps any other failure talking to the store. Its message is the
// underlying error text.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func NewNotFound(resource, key string, value any) error {
	return &NotFoundError{Resource: resource, Key: key, Value: value}
}

func NewValidation(resource, reason string) error {
	return &ValidationError{Resource: resource, Reason: reason}
}

func NewUpstream(op string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Op: op, Err: err}
}
