package textblob

import (
	"encoding/binary"
	"fmt"
)

// Header is the fixed 16-byte container header.
//
// Older tooling names the fields LanguageBlocks/MaxBlockSize/Reserved; the
// byte layout is identical.
type Header struct {
	SectionCount      uint16 // must be 1
	LineCount         uint16
	TotalLength       int32  // byte length of the text section
	Reserved          uint32 // must be 0
	SectionDataOffset int32  // byte offset of the text section from file start
}

// ParseHeader parses the header from raw bytes without validating it.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, formatErrorf(-1, "file too small for header: %d bytes", len(data))
	}

	return &Header{
		SectionCount:      binary.LittleEndian.Uint16(data[0:2]),
		LineCount:         binary.LittleEndian.Uint16(data[2:4]),
		TotalLength:       int32(binary.LittleEndian.Uint32(data[4:8])),
		Reserved:          binary.LittleEndian.Uint32(data[8:12]),
		SectionDataOffset: int32(binary.LittleEndian.Uint32(data[12:16])),
	}, nil
}

// Validate checks the header invariants against the file length.
func (h *Header) Validate(fileLen int) error {
	if h.Reserved != 0 {
		return formatErrorf(8, "reserved value is non-zero: 0x%08X", h.Reserved)
	}
	if h.SectionCount != SectionCount {
		return formatErrorf(0, "not a text file: %d sections", h.SectionCount)
	}
	if h.SectionDataOffset < HeaderSize || int64(h.SectionDataOffset) > int64(fileLen) {
		return formatErrorf(12, "section offset %d out of range", h.SectionDataOffset)
	}
	if h.TotalLength < 0 || int64(h.SectionDataOffset)+int64(h.TotalLength) != int64(fileLen) {
		return formatErrorf(4, "not a text file: section %d+%d does not end at file size %d",
			h.SectionDataOffset, h.TotalLength, fileLen)
	}

	// The descriptor table must fit inside the section.
	need := int64(sectionLengthSize) + int64(h.LineCount)*DescriptorSize
	if int64(h.TotalLength) < need {
		return formatErrorf(int(h.SectionDataOffset), "section too small for %d line descriptors: %d bytes",
			h.LineCount, h.TotalLength)
	}
	return nil
}

// Put writes the header into buf, which must hold at least HeaderSize bytes.
func (h *Header) Put(buf []byte) {
	binary.LittleEndian.PutUint16(buf[0:2], h.SectionCount)
	binary.LittleEndian.PutUint16(buf[2:4], h.LineCount)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.TotalLength))
	binary.LittleEndian.PutUint32(buf[8:12], h.Reserved)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(h.SectionDataOffset))
}

// String returns a short summary for diagnostics.
func (h *Header) String() string {
	return fmt.Sprintf("sections=%d lines=%d section=%d+%d", h.SectionCount, h.LineCount, h.SectionDataOffset, h.TotalLength)
}

// LineDescriptor locates one line inside the text section.
type LineDescriptor struct {
	Offset uint32 // relative to the section start
	Length uint16 // in 16-bit words, terminator and padding included
	ExData int16
}

// ParseLineDescriptor parses an 8-byte descriptor.
func ParseLineDescriptor(data []byte) LineDescriptor {
	return LineDescriptor{
		Offset: binary.LittleEndian.Uint32(data[0:4]),
		Length: binary.LittleEndian.Uint16(data[4:6]),
		ExData: int16(binary.LittleEndian.Uint16(data[6:8])),
	}
}

// Put writes the descriptor into buf, which must hold DescriptorSize bytes.
func (d LineDescriptor) Put(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], d.Offset)
	binary.LittleEndian.PutUint16(buf[4:6], d.Length)
	binary.LittleEndian.PutUint16(buf[6:8], uint16(d.ExData))
}

// descriptorOffset returns the absolute byte offset of line i's descriptor.
func descriptorOffset(sectionOffset, line int) int {
	return sectionOffset + sectionLengthSize + line*DescriptorSize
}
