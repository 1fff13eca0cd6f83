// Package ir defines the in-memory representation of decoded text containers.
// It is the output of container decode and the input of container encode.
package ir

// Document wraps the entry list of one container together with metadata
// that is useful when exporting it for external tools.
type Document struct {
	Version  string   `json:"version" yaml:"version"`
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	Entries  []Entry  `json:"entries" yaml:"entries"`
}

// Metadata describes where a document came from.
type Metadata struct {
	Source  string `json:"source,omitempty" yaml:"source,omitempty"`
	Dialect string `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	Crypt   bool   `json:"crypt" yaml:"crypt"`
}

// NewDocument creates a new IR document with the current version.
func NewDocument() *Document {
	return &Document{
		Version: "1.0",
		Entries: make([]Entry, 0),
	}
}

// AddEntry appends an entry to the document.
func (d *Document) AddEntry(e Entry) {
	d.Entries = append(d.Entries, e)
}

// Lines returns the number of entries in the document.
func (d *Document) Lines() int {
	return len(d.Entries)
}
