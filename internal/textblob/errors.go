package textblob

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is matched by every error caused by malformed container bytes.
	ErrFormat = errors.New("invalid text container")

	// ErrContract is matched by errors caused by entries that violate the
	// data model invariants (a producer bug upstream of the codec).
	ErrContract = errors.New("entry contract violation")
)

// FormatError describes why a container could not be decoded.
type FormatError struct {
	Offset int // byte offset of the offending field, -1 if not applicable
	Line   int // line index, -1 for header-level problems
	Reason string
}

func (e *FormatError) Error() string {
	switch {
	case e.Line >= 0 && e.Offset >= 0:
		return fmt.Sprintf("%v: line %d at offset %d: %s", ErrFormat, e.Line, e.Offset, e.Reason)
	case e.Line >= 0:
		return fmt.Sprintf("%v: line %d: %s", ErrFormat, e.Line, e.Reason)
	case e.Offset >= 0:
		return fmt.Sprintf("%v: offset %d: %s", ErrFormat, e.Offset, e.Reason)
	default:
		return fmt.Sprintf("%v: %s", ErrFormat, e.Reason)
	}
}

// Unwrap allows errors.Is(err, ErrFormat).
func (e *FormatError) Unwrap() error {
	return ErrFormat
}

func formatErrorf(offset int, format string, args ...any) error {
	return &FormatError{Offset: offset, Line: -1, Reason: fmt.Sprintf(format, args...)}
}

func lineErrorf(line, offset int, format string, args ...any) error {
	return &FormatError{Offset: offset, Line: line, Reason: fmt.Sprintf(format, args...)}
}

// ContractError describes an entry the encoder refuses to encode.
type ContractError struct {
	Line    int // entry index, -1 if not applicable
	Segment int // segment index, -1 if not applicable
	Reason  string
}

func (e *ContractError) Error() string {
	switch {
	case e.Line >= 0 && e.Segment >= 0:
		return fmt.Sprintf("%v: line %d segment %d: %s", ErrContract, e.Line, e.Segment, e.Reason)
	case e.Line >= 0:
		return fmt.Sprintf("%v: line %d: %s", ErrContract, e.Line, e.Reason)
	default:
		return fmt.Sprintf("%v: %s", ErrContract, e.Reason)
	}
}

// Unwrap allows errors.Is(err, ErrContract).
func (e *ContractError) Unwrap() error {
	return ErrContract
}
