// ABOUTME: Error type for failed calls to the language model oracle
// ABOUTME: Covers both unreachable providers and responses that do not fit the schema
package llm

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the provider answers with no text
var ErrEmptyResponse = errors.New("empty response from model")

// ExtractionError reports that an oracle call produced no usable result.
// It is fatal to the request that triggered it and is never retried.
type ExtractionError struct {
	Op  string // "features", "card" or "magnet"
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction failed: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// IsExtractionError reports whether err wraps an ExtractionError
func IsExtractionError(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}

func extractionErr(op string, err error) error {
	return &ExtractionError{Op: op, Err: err}
}
