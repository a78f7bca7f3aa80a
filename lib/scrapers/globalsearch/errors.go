package globalsearch

import (
	"errors"
	"fmt"
)

var (
	// ErrLookup marks a caller supplied name that is not in a fixed table or
	// a number outside its accepted range.
	ErrLookup = errors.New("unknown name")
	// ErrTransport marks a failed request to the search tool.
	ErrTransport = errors.New("global search request failed")
	// ErrExtraction marks a page that does not have the expected layout.
	ErrExtraction = errors.New("unexpected page layout")
	// ErrMismatch marks a page for a different course than the one queried.
	ErrMismatch = errors.New("course number mismatch")
)

type LookupKind string

const (
	LookupSession      LookupKind = "session"
	LookupInstitution  LookupKind = "institution"
	LookupCourseNumber LookupKind = "course number"
	LookupYear         LookupKind = "year"
)

type LookupError struct {
	Kind LookupKind
	Name string
	// Suggestion is the closest known name, it may be empty.
	Suggestion string
}

func (e *LookupError) Error() string {
	switch e.Kind {
	case LookupCourseNumber:
		return fmt.Sprintf("course number %s must be between %d and %d", e.Name, MinCourseNumber, MaxCourseNumber)
	case LookupYear:
		return fmt.Sprintf("year %s must be between %d and %d", e.Name, MinYear, MaxYear)
	}
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown %s %q, did you mean %q?", e.Kind, e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

func (e *LookupError) Unwrap() error {
	return ErrLookup
}

type TransportError struct {
	Op string
	// StatusCode is set when the server answered with something other than 200.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("global search %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("global search %s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *TransportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTransport, e.Err}
	}
	return []error{ErrTransport}
}

type ExtractionError struct {
	Field  string
	Detail string
}

func (e *ExtractionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("could not find %s: %s", e.Field, e.Detail)
	}
	return fmt.Sprintf("could not find %s", e.Field)
}

func (e *ExtractionError) Unwrap() error {
	return ErrExtraction
}

type MismatchError struct {
	Expected string
	Got      string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("mismatched course number: expected %s, got %s", e.Expected, e.Got)
}

func (e *MismatchError) Unwrap() error {
	return ErrMismatch
}
