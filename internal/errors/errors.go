// Package errors defines the render error types shared by the engine and
// the CLI, plus a thread safe collector used to report every failure of a
// batch render instead of stopping at the first.
package errors

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrorSeverity represents the severity of an error
type ErrorSeverity int

const (
	ErrorSeverityInfo ErrorSeverity = iota
	ErrorSeverityWarning
	ErrorSeverityError
	ErrorSeverityFatal
)

// String returns the string representation of the severity
func (s ErrorSeverity) String() string {
	switch s {
	case ErrorSeverityInfo:
		return "info"
	case ErrorSeverityWarning:
		return "warning"
	case ErrorSeverityError:
		return "error"
	case ErrorSeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// RenderError represents a failure to render one template to disk.
type RenderError struct {
	Template    string
	Destination string
	Message     string
	Severity    ErrorSeverity
	Timestamp   time.Time
	Err         error
}

// Error implements the error interface
func (re *RenderError) Error() string {
	dest := re.Destination
	if dest == "" {
		dest = "?"
	}
	return fmt.Sprintf("%s -> %s: %s: %s", re.Template, dest, re.Severity, re.Message)
}

func (re *RenderError) Unwrap() error { return re.Err }

// ConfigError reports a configuration problem with the key that caused it.
type ConfigError struct {
	Key     string
	Message string
}

func (ce *ConfigError) Error() string {
	if ce.Key == "" {
		return "configuration error: " + ce.Message
	}
	return fmt.Sprintf("configuration error at %q: %s", ce.Key, ce.Message)
}

// ErrorCollector collects render errors and general errors across a batch
type ErrorCollector struct {
	renderErrors []RenderError
	errors       []error
	mutex        sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		renderErrors: make([]RenderError, 0),
		errors:       make([]error, 0),
	}
}

// Add adds a render error to the collector
func (ec *ErrorCollector) Add(err RenderError) {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	err.Timestamp = time.Now()
	ec.renderErrors = append(ec.renderErrors, err)
}

// AddError adds a general error to the collector
func (ec *ErrorCollector) AddError(err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, err)
}

// GetErrors returns all collected render errors
func (ec *ErrorCollector) GetErrors() []RenderError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]RenderError, len(ec.renderErrors))
	copy(result, ec.renderErrors)
	return result
}

// GetAllErrors returns all collected errors (render and general)
func (ec *ErrorCollector) GetAllErrors() []error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()

	allErrors := make([]error, 0, len(ec.renderErrors)+len(ec.errors))
	for i := range ec.renderErrors {
		allErrors = append(allErrors, &ec.renderErrors[i])
	}
	allErrors = append(allErrors, ec.errors...)
	return allErrors
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.renderErrors) > 0 || len(ec.errors) > 0
}

// Clear clears all errors
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.renderErrors = ec.renderErrors[:0]
	ec.errors = ec.errors[:0]
}

// Summary formats every collected error, one per line.
func (ec *ErrorCollector) Summary() string {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()

	var sb strings.Builder
	for i := range ec.renderErrors {
		sb.WriteString(ec.renderErrors[i].Error())
		sb.WriteByte('\n')
	}
	for _, err := range ec.errors {
		sb.WriteString(err.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}
