package httputil

import (
	"context"
	"errors"
	"net/http"
)

// HTTPErrorInfo contains the HTTP status code and message for an error.
type HTTPErrorInfo struct {
	Status  int
	Message string
}

// ErrorMapping represents a single error to HTTP status/message mapping.
// An empty Message means the raw error text is surfaced to the caller.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string
}

// ErrorMapper maps domain errors to HTTP status codes and messages.
// It provides a centralized way to handle error mapping across handlers.
type ErrorMapper struct {
	mappings       []ErrorMapping
	defaultStatus  int
	defaultMessage string
}

// NewErrorMapper creates a new ErrorMapper that reports unmatched errors as 500
// with the raw error text.
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		mappings:      make([]ErrorMapping, 0),
		defaultStatus: http.StatusInternalServerError,
	}
}

// WithMapping adds an error mapping to the mapper.
func (m *ErrorMapper) WithMapping(err error, status int, message string) *ErrorMapper {
	m.mappings = append(m.mappings, ErrorMapping{
		Error:   err,
		Status:  status,
		Message: message,
	})
	return m
}

// WithMappings appends a batch of mappings, typically one of the predefined groups.
func (m *ErrorMapper) WithMappings(mappings ...ErrorMapping) *ErrorMapper {
	m.mappings = append(m.mappings, mappings...)
	return m
}

// WithDefault sets the default status and message for unmatched errors.
func (m *ErrorMapper) WithDefault(status int, message string) *ErrorMapper {
	m.defaultStatus = status
	m.defaultMessage = message
	return m
}

// Map converts an error to HTTP status and message.
func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK, Message: ""}
	}

	// Check for context errors first
	if errors.Is(err, context.DeadlineExceeded) {
		return HTTPErrorInfo{Status: http.StatusGatewayTimeout, Message: "request timeout"}
	}
	if errors.Is(err, context.Canceled) {
		return HTTPErrorInfo{Status: http.StatusServiceUnavailable, Message: "request cancelled"}
	}

	// Check registered mappings
	for _, mapping := range m.mappings {
		if errors.Is(err, mapping.Error) {
			return HTTPErrorInfo{Status: mapping.Status, Message: messageFor(err, mapping.Message)}
		}
	}

	return HTTPErrorInfo{Status: m.defaultStatus, Message: messageFor(err, m.defaultMessage)}
}

func messageFor(err error, configured string) string {
	if configured != "" {
		return configured
	}
	return err.Error()
}

// QuickMap is a convenience function for quick error mapping without creating a mapper.
func QuickMap(err error, mappings ...ErrorMapping) HTTPErrorInfo {
	return NewErrorMapper().WithMappings(mappings...).Map(err)
}
