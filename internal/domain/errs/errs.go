// Package errs holds the error kinds shared by the pipeline and the exporter.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingResource is returned when a prompt file or the store file does not exist.
	ErrMissingResource = errors.New("missing resource")
	// ErrTransport wraps HTTP-level failures talking to the LLM or search endpoints.
	ErrTransport = errors.New("transport error")
	// ErrInterrupted is returned when the user cancels a run.
	ErrInterrupted = errors.New("process interrupted by user")
)

// ParseError reports an LLM response that could not be recovered as JSON.
type ParseError struct {
	Step string
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s response as JSON: %v; response: %s", e.Step, e.Err, e.Raw)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports a JSON response whose shape does not match what the step expects.
type SchemaError struct {
	Step string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s response does not match schema: %v", e.Step, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
