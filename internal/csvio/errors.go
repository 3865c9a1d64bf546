// Package csvio implements the ingestion/emission boundary described in
// spec.md §6: reading order actions from an input CSV and writing the
// derived event log to an output CSV. Neither format carries any library
// support anywhere in the retrieval pack, so both sides are built on
// encoding/csv (see DESIGN.md).
package csvio

import (
	"errors"
	"fmt"
)

// Sentinel errors, following the same Unwrap convention as
// internal/matching/errors.go.
var (
	ErrCSVParsing = errors.New("csv parsing")
	ErrFileIO     = errors.New("file io")
)

// ParsingError reports a malformed input line. Line is 1-indexed against
// the input file, counting the discarded header as line 1.
type ParsingError struct {
	Line   int
	Reason string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *ParsingError) Unwrap() error { return ErrCSVParsing }

// FileIOError reports a failure to open, read, write, or close one of the
// two files. spec.md §7 marks this class as fatal — the ingestion loop
// does not try to recover from it.
type FileIOError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileIOError) Unwrap() error { return ErrFileIO }
