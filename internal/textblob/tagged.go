package textblob

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roboco-io/textblob/internal/dialect"
	"github.com/roboco-io/textblob/internal/ir"
)

// ParseTaggedText rebuilds an entry from its human-editable form.
//
// Recognised tags are [EXTDATA n], [MINLNTH n] (min-length dialects only),
// [COMMAND name-or-code args...] and [SPECIAL code]. The escape \n becomes
// a line feed and \\ a single backslash. Anything that does not parse as
// one of these tags stays literal text. When base is not nil its ExData,
// MinLength and ForceFullWidth are inherited unless a tag overrides them.
func ParseTaggedText(text string, base *ir.Entry, d *dialect.Dialect) ir.Entry {
	if d == nil {
		d = dialect.DefaultDialect()
	}

	p := &taggedParser{d: d}
	if base != nil {
		p.entry.ExData = base.ExData
		p.entry.MinLength = base.MinLength
		p.entry.ForceFullWidth = base.ForceFullWidth
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]

		if c == '\\' && i+1 < len(runes) {
			switch runes[i+1] {
			case 'n':
				p.literal = append(p.literal, '\n')
				i++
				continue
			case '\\':
				p.literal = append(p.literal, '\\')
				i++
				continue
			}
		}

		if c == '[' && len(runes)-i >= tagMinLen {
			if n := p.tag(runes[i:]); n > 0 {
				i += n - 1
				continue
			}
		}

		p.literal = append(p.literal, c)
	}
	p.flush()

	return p.entry
}

type taggedParser struct {
	d       *dialect.Dialect
	entry   ir.Entry
	literal []rune
}

func (p *taggedParser) flush() {
	if len(p.literal) > 0 {
		p.entry.AddSegment(ir.Literal(string(p.literal)))
		p.literal = p.literal[:0]
	}
}

// tag tries to consume a tag at the start of rs and returns the number of
// runes consumed, or 0 when rs does not start with a valid tag.
func (p *taggedParser) tag(rs []rune) int {
	end := -1
	for j := 1 + tagKeywordLen; j < len(rs); j++ {
		if rs[j] == ']' {
			end = j
			break
		}
	}
	if end < 0 {
		return 0
	}

	keyword := string(rs[1 : 1+tagKeywordLen])
	body := string(rs[1+tagKeywordLen : end])
	if !strings.HasPrefix(body, " ") {
		return 0
	}

	switch keyword {
	case TagExtData:
		fields := strings.Fields(body)
		if len(fields) != 1 {
			return 0
		}
		v, err := strconv.ParseInt(fields[0], 10, 16)
		if err != nil {
			return 0
		}
		p.entry.ExData = int16(v)

	case TagMinLength:
		if !p.d.SupportsMinLength() {
			return 0
		}
		fields := strings.Fields(body)
		if len(fields) != 1 {
			return 0
		}
		v, err := strconv.ParseUint(fields[0], 10, 16)
		if err != nil {
			return 0
		}
		p.entry.MinLength = uint16(v)

	case TagCommand:
		fields := strings.FieldsFunc(body, func(r rune) bool { return r == ' ' || r == ',' })
		if len(fields) == 0 {
			return 0
		}
		code, ok := p.d.CommandCode(fields[0])
		if !ok {
			c, err := parseHexWord(fields[0])
			if err != nil {
				return 0
			}
			code = c
		}
		args := make([]uint16, 0, len(fields)-1)
		for _, f := range fields[1:] {
			v, err := parseWord(f)
			if err != nil {
				return 0
			}
			args = append(args, v)
		}
		if len(args)+1 > MaxLineWords {
			return 0
		}

		seg := ir.Command("", code, args...)
		seg.Hint = renderCommand(p.d, seg.Value)
		p.flush()
		p.entry.AddSegment(seg)

	case TagSpecial:
		fields := strings.Fields(body)
		if len(fields) != 1 {
			return 0
		}
		var code uint16
		var err error
		if p.d.SpecialHex() {
			code, err = parseHexWord(fields[0])
		} else {
			code, err = parseWord(fields[0])
		}
		if err != nil {
			return 0
		}
		p.flush()
		p.entry.AddSegment(ir.Special(renderSpecial(p.d, code), code))

	default:
		return 0
	}

	return end + 1
}

// parseWord parses a decimal word, or hexadecimal with a 0x prefix.
func parseWord(s string) (uint16, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return parseHexWord(s)
	}
	v, err := strconv.ParseUint(s, 10, 16)
	return uint16(v), err
}

// parseHexWord parses a hexadecimal word with an optional 0x prefix.
func parseHexWord(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return 0, fmt.Errorf("empty hex value")
	}
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

var taggedEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`)

// FormatTagged renders an entry in the form ParseTaggedText accepts,
// prefixing the metadata that plain text cannot carry.
func FormatTagged(e ir.Entry, d *dialect.Dialect) string {
	if d == nil {
		d = dialect.DefaultDialect()
	}

	var sb strings.Builder
	if e.ExData != 0 {
		fmt.Fprintf(&sb, "[%s %d]", TagExtData, e.ExData)
	}
	if d.SupportsMinLength() && e.MinLength != 0 {
		fmt.Fprintf(&sb, "[%s %d]", TagMinLength, e.MinLength)
	}
	sb.WriteString(taggedEscaper.Replace(e.RenderedText()))
	return sb.String()
}

// SyncText re-parses an entry whose text no longer matches its syntax tree,
// so edits made to the rendered text take precedence over a stale tree.
// Plain lines are returned unchanged.
func SyncText(e ir.Entry, d *dialect.Dialect) ir.Entry {
	if !e.HasSyntax() || e.Text == e.RenderedText() {
		return e
	}
	return ParseTaggedText(e.Text, &e, d)
}
