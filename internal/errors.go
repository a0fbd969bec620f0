package internal

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRow  = errors.New("malformed row")
	ErrEmptyDataset  = errors.New("no valid transactions")
	ErrMissingColumn = errors.New("missing required column")
)

// MalformedRowError describes a row that was skipped during loading
type MalformedRowError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

func (e *MalformedRowError) Is(target error) bool { return target == ErrMalformedRow }

// MissingColumnError reports a required column absent from the header
// (Row < 0) or from a single row
type MissingColumnError struct {
	Column string
	Row    int
}

func (e *MissingColumnError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("missing required column %q in header", e.Column)
	}
	return fmt.Sprintf("missing required column %q (row %d)", e.Column, e.Row)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

type WarningKind string

const (
	WarningMalformedRow          WarningKind = "malformed_row"
	WarningAmbiguousPendingMatch WarningKind = "ambiguous_pending_match"
)

// Warning is a non-fatal issue collected while building a report
type Warning struct {
	Kind    WarningKind
	Row     int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (row %d): %s", w.Kind, w.Row, w.Message)
}
