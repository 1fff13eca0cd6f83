package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roboco-io/textblob/internal/dialect"
	"github.com/roboco-io/textblob/internal/ir"
	"github.com/roboco-io/textblob/internal/textblob"
)

// Interchange formats of entry lists.
const (
	formatYAML = "yaml"
	formatJSON = "json"
	formatText = "text"
)

// formatExt maps interchange formats to file extensions.
var formatExt = map[string]string{
	formatYAML: ".yaml",
	formatJSON: ".json",
	formatText: ".txt",
}

// formatFromPath detects the interchange format of a file by extension.
func formatFromPath(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, true
	case ".json":
		return formatJSON, true
	case ".txt":
		return formatText, true
	default:
		return "", false
	}
}

// isContainerPath reports whether path has a container extension.
func isContainerPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin", ".dat":
		return true
	default:
		return false
	}
}

// marshalDocument renders a decoded container.
//
// YAML is a bare entry list with hyphenated keys, the layout existing
// translation tools exchange. JSON carries the document metadata. Text is
// one tagged line per entry.
func marshalDocument(doc *ir.Document, format string, d *dialect.Dialect) ([]byte, error) {
	switch format {
	case formatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc.Entries); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case formatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil

	case formatText:
		var sb strings.Builder
		for _, e := range doc.Entries {
			sb.WriteString(textblob.FormatTagged(e, d))
			sb.WriteByte('\n')
		}
		return []byte(sb.String()), nil

	default:
		return nil, fmt.Errorf("지원하지 않는 출력 형식: %s", format)
	}
}

// unmarshalEntries reads an entry list written by marshalDocument. YAML
// and JSON accept both the bare list and the document form. Entries whose
// text was edited are re-parsed so the edit wins over the stale tree.
func unmarshalEntries(data []byte, format string, d *dialect.Dialect) ([]ir.Entry, error) {
	var entries []ir.Entry

	switch format {
	case formatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		if len(node.Content) == 0 {
			return nil, nil
		}
		root := node.Content[0]
		if root.Kind == yaml.MappingNode {
			var doc ir.Document
			if err := root.Decode(&doc); err != nil {
				return nil, err
			}
			entries = doc.Entries
		} else if err := root.Decode(&entries); err != nil {
			return nil, err
		}

	case formatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &entries); err != nil {
				return nil, err
			}
		} else {
			var doc ir.Document
			if err := json.Unmarshal(trimmed, &doc); err != nil {
				return nil, err
			}
			entries = doc.Entries
		}

	case formatText:
		if len(data) == 0 {
			return nil, nil
		}
		// Every line ends with a newline, so "\n" alone is one empty entry.
		text := strings.ReplaceAll(string(data), "\r\n", "\n")
		text = strings.TrimSuffix(text, "\n")
		for _, line := range strings.Split(text, "\n") {
			entries = append(entries, textblob.ParseTaggedText(line, nil, d))
		}
		return entries, nil

	default:
		return nil, fmt.Errorf("지원하지 않는 입력 형식: %s", format)
	}

	for i := range entries {
		entries[i] = textblob.SyncText(entries[i], d)
	}
	return entries, nil
}

// newDocument wraps decoded entries with their provenance.
func newDocument(source string, entries []ir.Entry, s *settings) *ir.Document {
	doc := ir.NewDocument()
	doc.Metadata = ir.Metadata{
		Source:  filepath.Base(source),
		Dialect: s.dialect.Name(),
		Crypt:   s.opts.Crypt,
	}
	for _, e := range entries {
		doc.AddEntry(e)
	}
	return doc
}
