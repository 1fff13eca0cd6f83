package ir

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SegmentKind classifies a piece of a line.
type SegmentKind uint8

const (
	KindLiteral SegmentKind = iota
	KindCommand
	KindSpecial
)

// String returns the string representation of the kind.
func (k SegmentKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindCommand:
		return "command"
	case KindSpecial:
		return "special"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseSegmentKind is the inverse of SegmentKind.String.
func ParseSegmentKind(s string) (SegmentKind, error) {
	switch s {
	case "literal", "":
		return KindLiteral, nil
	case "command":
		return KindCommand, nil
	case "special":
		return KindSpecial, nil
	default:
		return KindLiteral, fmt.Errorf("unknown segment kind: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler (used by encoding/json).
func (k SegmentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SegmentKind) UnmarshalText(b []byte) error {
	v, err := ParseSegmentKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (k SegmentKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *SegmentKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return k.UnmarshalText([]byte(s))
}

// Segment is one contiguous chunk of a line: a literal run, a command
// invocation or a special character reference.
//
// For commands Value holds the command code followed by its raw arguments.
// For specials Value holds exactly one code point.
type Segment struct {
	Kind  SegmentKind `json:"kind" yaml:"kind"`
	Hint  string      `json:"hint" yaml:"hint"`
	Value []uint16    `json:"value,omitempty" yaml:"value,omitempty,flow"`
}

// Literal creates a literal segment.
func Literal(hint string) Segment {
	return Segment{Kind: KindLiteral, Hint: hint}
}

// Command creates a command segment with the given code and arguments.
func Command(hint string, code uint16, args ...uint16) Segment {
	value := make([]uint16, 0, len(args)+1)
	value = append(value, code)
	value = append(value, args...)
	return Segment{Kind: KindCommand, Hint: hint, Value: value}
}

// Special creates a special character segment.
func Special(hint string, code uint16) Segment {
	return Segment{Kind: KindSpecial, Hint: hint, Value: []uint16{code}}
}

// IsCommand reports whether the segment is a command invocation.
func (s Segment) IsCommand() bool {
	return s.Kind == KindCommand
}

// IsSpecial reports whether the segment is a special character reference.
func (s Segment) IsSpecial() bool {
	return s.Kind == KindSpecial
}

// Code returns the command code or special code point.
// It returns 0 for literals and for malformed segments.
func (s Segment) Code() uint16 {
	if s.Kind == KindLiteral || len(s.Value) == 0 {
		return 0
	}
	return s.Value[0]
}

// Args returns the command arguments following the code.
func (s Segment) Args() []uint16 {
	if s.Kind != KindCommand || len(s.Value) < 2 {
		return nil
	}
	return s.Value[1:]
}

// Validate checks the value invariants of command and special segments.
func (s Segment) Validate() error {
	switch s.Kind {
	case KindLiteral:
		return nil
	case KindCommand:
		if len(s.Value) == 0 {
			return fmt.Errorf("command segment %q has no value", s.Hint)
		}
		if len(s.Value) > 0xFFFF {
			return fmt.Errorf("command segment %q has %d values", s.Hint, len(s.Value))
		}
	case KindSpecial:
		if len(s.Value) != 1 {
			return fmt.Errorf("special segment %q has %d values, want 1", s.Hint, len(s.Value))
		}
	default:
		return fmt.Errorf("segment %q has unknown kind %d", s.Hint, s.Kind)
	}
	return nil
}
