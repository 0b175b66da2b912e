package httpfactory

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by *FactoryError.
var (
	ErrInvalidURI    = errors.New("invalid URI")
	ErrInvalidStatus = errors.New("invalid status code")
	ErrInvalidMethod = errors.New("invalid method")
	ErrNilResource   = errors.New("nil resource")
	ErrNotWritable   = errors.New("stream is not writable")
	ErrClosed        = errors.New("stream is closed")
)

// ErrFactory is a sentinel for use with errors.Is to check whether any error
// in a chain is a *FactoryError.
var ErrFactory = &FactoryError{}

// FactoryError reports a failed factory or message operation.
type FactoryError struct {
	Op  string // e.g. "create stream", "create uri"
	Err error
}

func (e *FactoryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("httpfactory: %s", e.Op)
	}
	return fmt.Sprintf("httpfactory: %s: %v", e.Op, e.Err)
}

func (e *FactoryError) Unwrap() error {
	return e.Err
}

// Is supports errors.Is by matching any *FactoryError target.
func (e *FactoryError) Is(target error) bool {
	_, ok := target.(*FactoryError)
	return ok
}
