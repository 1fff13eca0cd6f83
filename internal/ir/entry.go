package ir

import "strings"

// Entry is one string record of a container.
type Entry struct {
	// Text is the rendered form with tags inlined.
	Text string `json:"text" yaml:"text"`

	// SyntaxTree is nil for plain lines that contain no embedded codes.
	SyntaxTree []Segment `json:"syntax_tree,omitempty" yaml:"syntax-tree,omitempty"`

	ForceFullWidth bool   `json:"force_full_width,omitempty" yaml:"force-full-width,omitempty"`
	ExData         int16  `json:"ex_data" yaml:"ex-data"`
	MinLength      uint16 `json:"min_length,omitempty" yaml:"min-length,omitempty"` // in 16-bit units, 0 = no minimum
}

// NewEntry creates a plain entry with no syntax tree.
func NewEntry(text string) Entry {
	return Entry{Text: text}
}

// HasSyntax reports whether the entry carries a syntax tree.
func (e *Entry) HasSyntax() bool {
	return e.SyntaxTree != nil
}

// Segments returns the syntax tree, or a single literal wrapping Text when
// the entry is a plain line.
func (e *Entry) Segments() []Segment {
	if e.SyntaxTree == nil {
		return []Segment{Literal(e.Text)}
	}
	return e.SyntaxTree
}

// AddSegment appends a segment and its rendered hint to the entry.
func (e *Entry) AddSegment(s Segment) {
	if e.SyntaxTree == nil {
		e.SyntaxTree = make([]Segment, 0, 4)
	}
	e.SyntaxTree = append(e.SyntaxTree, s)
	e.Text += s.Hint
}

// SetText replaces the text and drops the syntax tree, turning the entry
// back into a plain line.
func (e *Entry) SetText(text string) {
	e.Text = text
	e.SyntaxTree = nil
}

// RenderedText concatenates the hints of the syntax tree.
func (e *Entry) RenderedText() string {
	if e.SyntaxTree == nil {
		return e.Text
	}
	var sb strings.Builder
	for _, s := range e.SyntaxTree {
		sb.WriteString(s.Hint)
	}
	return sb.String()
}
