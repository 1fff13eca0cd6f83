package textblob

import (
	"encoding/binary"

	"github.com/roboco-io/textblob/internal/dialect"
	"github.com/roboco-io/textblob/internal/ir"
)

// Options contains codec configuration options.
type Options struct {
	Crypt   bool                // apply the line cipher; disable for raw dumps
	Padding dialect.PaddingMode // PaddingAuto uses the dialect's policy
	Dialect *dialect.Dialect    // nil selects the default dialect
}

// DefaultOptions returns default codec options.
func DefaultOptions() Options {
	return Options{
		Crypt:   true,
		Padding: dialect.PaddingAuto,
		Dialect: dialect.DefaultDialect(),
	}
}

func (o Options) dialect() *dialect.Dialect {
	if o.Dialect == nil {
		return dialect.DefaultDialect()
	}
	return o.Dialect
}

func (o Options) padding() dialect.PaddingMode {
	if o.Padding == dialect.PaddingAuto {
		return o.dialect().Padding()
	}
	return o.Padding
}

// Decode parses a text container into its entries. Any violation of the
// container layout aborts the whole decode with a *FormatError.
func Decode(data []byte, opts Options) ([]ir.Entry, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if err := h.Validate(len(data)); err != nil {
		return nil, err
	}

	section := int(h.SectionDataOffset)
	if got := binary.LittleEndian.Uint32(data[section:]); int64(got) != int64(h.TotalLength) {
		return nil, formatErrorf(section, "text section size %d does not match header size %d", got, h.TotalLength)
	}

	d := opts.dialect()
	keepLength := opts.padding() == dialect.PaddingMinLength

	entries := make([]ir.Entry, h.LineCount)
	for i := range entries {
		descOff := descriptorOffset(section, i)
		desc := ParseLineDescriptor(data[descOff : descOff+DescriptorSize])

		start := int64(section) + int64(desc.Offset)
		end := start + int64(desc.Length)*2
		if end > int64(len(data)) {
			return nil, lineErrorf(i, descOff, "line data %d+%d words exceeds file size %d",
				start, desc.Length, len(data))
		}

		words := readWords(data[start:end])
		if opts.Crypt {
			Crypt(words, LineSeed(i))
		}

		entry, err := decodeLine(words, d, i)
		if err != nil {
			return nil, err
		}
		entry.ExData = desc.ExData
		if keepLength {
			entry.MinLength = desc.Length
		}
		entries[i] = entry
	}

	return entries, nil
}

// Encode lays out entries as a text container.
func Encode(entries []ir.Entry, opts Options) ([]byte, error) {
	if len(entries) > MaxLines {
		return nil, &ContractError{Line: -1, Segment: -1, Reason: "too many lines for one container"}
	}

	d := opts.dialect()
	padding := opts.padding()

	section := HeaderSize
	tableEnd := descriptorOffset(section, len(entries))

	estimate := tableEnd
	for i := range entries {
		estimate += 2*len(entries[i].Text) + 8
	}
	buf := make([]byte, tableEnd, estimate)

	for i := range entries {
		words, err := encodeEntry(&entries[i], d, padding, i)
		if err != nil {
			return nil, err
		}
		if opts.Crypt {
			Crypt(words, LineSeed(i))
		}

		desc := LineDescriptor{
			Offset: uint32(len(buf) - section),
			Length: uint16(len(words)),
			ExData: entries[i].ExData,
		}
		desc.Put(buf[descriptorOffset(section, i):])

		for _, w := range words {
			buf = binary.LittleEndian.AppendUint16(buf, w)
		}
		if rem := len(buf) % payloadAlign; rem != 0 {
			buf = append(buf, make([]byte, payloadAlign-rem)...)
		}
	}

	// Sizes are only known once every line has been emitted.
	total := len(buf) - section
	h := Header{
		SectionCount:      SectionCount,
		LineCount:         uint16(len(entries)),
		TotalLength:       int32(total),
		SectionDataOffset: int32(section),
	}
	h.Put(buf)
	binary.LittleEndian.PutUint32(buf[section:], uint32(total))

	return buf, nil
}

// encodeEntry produces the padded plaintext token stream of one entry.
func encodeEntry(e *ir.Entry, d *dialect.Dialect, padding dialect.PaddingMode, line int) ([]uint16, error) {
	segs := e.SyntaxTree
	if len(segs) == 0 {
		if segs != nil && e.Text == "" {
			return nil, &ContractError{Line: line, Segment: -1, Reason: "line has no segments and no text"}
		}
		segs = []ir.Segment{ir.Literal(e.Text)}
	}

	size := segmentsCap(segs) + 1
	switch padding {
	case dialect.PaddingDouble:
		size *= 2
	case dialect.PaddingMinLength:
		if int(e.MinLength) > size {
			size = int(e.MinLength)
		}
	}

	words, err := appendSegments(make([]uint16, 0, size), segs, e.ForceFullWidth, d, line)
	if err != nil {
		return nil, err
	}

	if padding == dialect.PaddingDouble {
		words = append(words, make([]uint16, len(words))...)
	}
	words = append(words, WordTerminator)
	if padding == dialect.PaddingMinLength && int(e.MinLength) > len(words) {
		words = append(words, make([]uint16, int(e.MinLength)-len(words))...)
	}

	if len(words) > MaxLineWords {
		return nil, &ContractError{Line: line, Segment: -1, Reason: "line too long for a descriptor"}
	}
	return words, nil
}

// readWords copies little-endian words out of data.
func readWords(data []byte) []uint16 {
	words := make([]uint16, len(data)/2)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return words
}
