package textblob

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/width"

	"github.com/roboco-io/textblob/internal/dialect"
	"github.com/roboco-io/textblob/internal/ir"
)

// DecodeLine converts a decrypted token stream into an entry's text and
// syntax tree. ExData and MinLength are left zero.
func DecodeLine(words []uint16, d *dialect.Dialect) (ir.Entry, error) {
	return decodeLine(words, d, -1)
}

func decodeLine(words []uint16, d *dialect.Dialect, line int) (ir.Entry, error) {
	var entry ir.Entry
	var pending []uint16

	flush := func() {
		if len(pending) > 0 {
			entry.AddSegment(ir.Literal(string(utf16.Decode(pending))))
			pending = pending[:0]
		}
	}

	for i := 0; i < len(words); {
		w := words[i]
		i++

		switch {
		case w == WordTerminator:
			i = len(words)

		case w == WordCommand:
			if i >= len(words) {
				return ir.Entry{}, lineErrorf(line, -1, "command escape at word %d has no argument count", i-1)
			}
			n := int(words[i])
			i++
			if n == 0 {
				return ir.Entry{}, lineErrorf(line, -1, "command at word %d has zero arguments", i-2)
			}
			if i+n > len(words) {
				return ir.Entry{}, lineErrorf(line, -1, "command at word %d needs %d arguments, %d words left", i-2, n, len(words)-i)
			}
			value := make([]uint16, n)
			copy(value, words[i:i+n])
			i += n

			flush()
			entry.AddSegment(ir.Segment{
				Kind:  ir.KindCommand,
				Hint:  renderCommand(d, value),
				Value: value,
			})

		case d.IsSpecial(w):
			if r, ok := d.FixedChar(w); ok {
				pending = utf16.AppendRune(pending, r)
				continue
			}
			flush()
			entry.AddSegment(ir.Special(renderSpecial(d, w), w))

		case utf16.IsSurrogate(rune(w)):
			if w < lowSurrogateMin && i < len(words) && isLowSurrogate(words[i]) {
				pending = append(pending, w, words[i])
				i++
				continue
			}
			// An unpaired half has no rune; keep the word as a tag.
			flush()
			entry.AddSegment(ir.Special(renderSpecial(d, w), w))

		case shadowsFixedChar(d, w):
			// Written as literal text this word would encode back as the
			// fixed char's special code.
			flush()
			entry.AddSegment(ir.Special(renderSpecial(d, w), w))

		default:
			pending = append(pending, w)
		}
	}

	// A line made of a single literal run stays a plain line.
	if len(pending) > 0 {
		if entry.HasSyntax() {
			flush()
		} else {
			entry.Text = string(utf16.Decode(pending))
		}
	}

	return entry, nil
}

const lowSurrogateMin = 0xDC00

func isLowSurrogate(w uint16) bool {
	return w >= lowSurrogateMin && w <= 0xDFFF
}

// shadowsFixedChar reports whether w is a plain character that the dialect
// also uses as the display form of a fixed char.
func shadowsFixedChar(d *dialect.Dialect, w uint16) bool {
	_, ok := d.FixedCode(rune(w))
	return ok
}

// renderCommand renders a command value as a [COMMAND ...] tag.
func renderCommand(d *dialect.Dialect, value []uint16) string {
	var sb strings.Builder
	sb.WriteString("[" + TagCommand + " ")
	sb.WriteString(commandName(d, value[0]))
	for i, arg := range value[1:] {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(d.ArgSeparator())
		}
		sb.WriteString(strconv.FormatUint(uint64(arg), 10))
	}
	sb.WriteByte(']')
	return sb.String()
}

func commandName(d *dialect.Dialect, code uint16) string {
	if name, ok := d.CommandName(code); ok {
		return name
	}
	return fmt.Sprintf("%04X", code)
}

// renderSpecial renders a special code as a [SPECIAL ...] tag.
func renderSpecial(d *dialect.Dialect, code uint16) string {
	if d.SpecialHex() {
		return fmt.Sprintf("[%s %08X]", TagSpecial, code)
	}
	return fmt.Sprintf("[%s %d]", TagSpecial, code)
}

// EncodeLine converts segments into a plaintext token stream ending with
// the terminator. No padding is applied.
func EncodeLine(segs []ir.Segment, fullWidth bool, d *dialect.Dialect) ([]uint16, error) {
	words, err := appendSegments(make([]uint16, 0, segmentsCap(segs)+1), segs, fullWidth, d, -1)
	if err != nil {
		return nil, err
	}
	return append(words, WordTerminator), nil
}

// segmentsCap returns an upper bound of the encoded size of segs in words.
func segmentsCap(segs []ir.Segment) int {
	n := 0
	for _, s := range segs {
		switch s.Kind {
		case ir.KindCommand:
			n += 2 + len(s.Value)
		case ir.KindSpecial:
			n++
		default:
			// UTF-8 is never shorter than UTF-16 in code units.
			n += len(s.Hint)
		}
	}
	return n
}

func appendSegments(words []uint16, segs []ir.Segment, fullWidth bool, d *dialect.Dialect, line int) ([]uint16, error) {
	for idx, s := range segs {
		if err := s.Validate(); err != nil {
			return nil, &ContractError{Line: line, Segment: idx, Reason: err.Error()}
		}

		switch s.Kind {
		case ir.KindLiteral:
			for _, r := range s.Hint {
				switch {
				case r == rune(WordTerminator):
					return nil, &ContractError{Line: line, Segment: idx, Reason: "literal contains a terminator character"}
				case r == rune(WordCommand):
					return nil, &ContractError{Line: line, Segment: idx, Reason: "literal contains a command escape character"}
				}
				if code, ok := d.FixedCode(r); ok {
					words = append(words, code)
					continue
				}
				if fullWidth {
					r = toFullWidth(r)
				}
				words = utf16.AppendRune(words, r)
			}

		case ir.KindSpecial:
			words = append(words, s.Value[0])

		case ir.KindCommand:
			words = append(words, WordCommand, uint16(len(s.Value)))
			words = append(words, s.Value...)
		}
	}
	return words, nil
}

// toFullWidth maps ASCII strictly between ':' and DEL to its full-width form.
func toFullWidth(r rune) rune {
	if r <= fullWidthLow || r >= fullWidthHigh {
		return r
	}
	if w := width.LookupRune(r).Wide(); w != 0 {
		return w
	}
	return r
}
