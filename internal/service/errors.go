package service

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery matches every QueryError.
var ErrInvalidQuery = errors.New("invalid query")

// QueryError rejects malformed caller input. No partial result accompanies it.
type QueryError struct {
	Field  string
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *QueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

func invalid(field, format string, args ...any) error {
	return &QueryError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
