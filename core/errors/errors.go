// Package errors provides the typed errors shared by the capgen conversion pipeline.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrInvalidInput indicates malformed input content
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnreadable indicates an input path that cannot be resolved or read
	ErrUnreadable = errors.New("unreadable input")
	// ErrLimitExceeded indicates a value the output format cannot represent
	ErrLimitExceeded = errors.New("limit exceeded")
)

// Kind classifies a conversion failure.
type Kind int

const (
	// KindUnknown is any error not produced by this package.
	KindUnknown Kind = iota
	// KindMalformedPairField is a "made,opp" attribute that is not two integers.
	KindMalformedPairField
	// KindMalformedInnings is an innings value whose fraction is not 0, 1 or 2.
	KindMalformedInnings
	// KindUnreadableInput is a path that cannot be resolved or read.
	KindUnreadableInput
	// KindMalformedXML is a document that is not well-formed.
	KindMalformedXML
	// KindTooManyPlayers is a roster larger than the header count can hold.
	KindTooManyPlayers
	// KindWriteFailed is an output that could not be written.
	KindWriteFailed
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	KindMalformedPairField: "malformed_pair_field",
	KindMalformedInnings:   "malformed_innings",
	KindUnreadableInput:    "unreadable_input",
	KindMalformedXML:       "malformed_xml",
	KindTooManyPlayers:     "too_many_players",
	KindWriteFailed:        "write_failed",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a document that could not be parsed at all.
type ParseError struct {
	Format  string // Format being parsed (e.g., "XML")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// FieldError is a single stat attribute whose raw value cannot be encoded.
type FieldError struct {
	Kind  Kind   // KindMalformedPairField or KindMalformedInnings
	Group string // Stat group element (e.g., "hsitsummary")
	Attr  string // Attribute name
	Value string // Raw attribute value
}

func (e *FieldError) Error() string {
	var what string
	switch e.Kind {
	case KindMalformedPairField:
		what = "want two comma-separated integers"
	case KindMalformedInnings:
		what = "want whole innings with an optional .0, .1 or .2"
	default:
		what = "cannot encode"
	}
	return fmt.Sprintf("%s.%s=%q: %s", e.Group, e.Attr, e.Value, what)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

// LimitError reports a count that does not fit the output format.
type LimitError struct {
	What  string
	Count int
	Max   int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: %d exceeds maximum %d", e.What, e.Count, e.Max)
}

func (e *LimitError) Unwrap() error {
	return ErrLimitExceeded
}

// Helper functions for creating common errors

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewPairField creates a FieldError for a malformed "made,opp" attribute.
func NewPairField(group, attr, value string) *FieldError {
	return &FieldError{Kind: KindMalformedPairField, Group: group, Attr: attr, Value: value}
}

// NewInnings creates a FieldError for a malformed innings-pitched attribute.
func NewInnings(group, attr, value string) *FieldError {
	return &FieldError{Kind: KindMalformedInnings, Group: group, Attr: attr, Value: value}
}

// KindOf reports the conversion failure kind of err.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return KindMalformedXML
	}
	var le *LimitError
	if errors.As(err, &le) {
		return KindTooManyPlayers
	}
	var ioe *IOError
	if errors.As(err, &ioe) {
		if ioe.Operation == "write" || ioe.Operation == "rename" || ioe.Operation == "create" {
			return KindWriteFailed
		}
		return KindUnreadableInput
	}
	if errors.Is(err, ErrUnreadable) {
		return KindUnreadableInput
	}
	return KindUnknown
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
