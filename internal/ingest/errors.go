package ingest

import (
	"errors"
	"fmt"
)

// Ops reported in IngestError.
const (
	OpFetch   = "fetch"
	OpParse   = "parse"
	OpReplace = "replace"
	OpState   = "state"
)

// ErrUnknownTable is returned for tables the synchronizer has no source for.
var ErrUnknownTable = errors.New("ingest: unknown table")

// IngestError scopes a failed synchronization to one table. The table keeps
// serving its previous contents.
type IngestError struct {
	Table string
	Op    string
	Err   error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

// RecordError describes one source record that was skipped.
type RecordError struct {
	Index int
	ID    string
	Err   error
}

func (e *RecordError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("record %d (%s): %v", e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
