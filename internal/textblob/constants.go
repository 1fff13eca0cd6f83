// Package textblob encodes and decodes the enciphered UTF-16 text
// container and converts between its embedded control codes and the
// human-editable tagged text form.
package textblob

// Container layout constants. All fields are little-endian.
const (
	// HeaderSize is the size of the fixed file header.
	HeaderSize = 16

	// SectionCount is the only supported number of text sections.
	SectionCount = 1

	// sectionLengthSize is the redundant length field at the start of the section.
	sectionLengthSize = 4

	// DescriptorSize is the size of one line descriptor.
	DescriptorSize = 8

	// payloadAlign is the byte alignment of each line in the payload.
	payloadAlign = 4

	// MaxLines is the largest line count the header can express.
	MaxLines = 0xFFFF

	// MaxLineWords is the largest line length a descriptor can express.
	MaxLineWords = 0xFFFF
)

// Stream cipher constants.
const (
	CipherIV         uint16 = 0x7C89
	CipherMultiplier uint16 = 0x2983
)

// Token stream words.
const (
	WordTerminator uint16 = 0x0000 // end of line
	WordCommand    uint16 = 0x0010 // introduces a command: count, code, args...
)

// Tag keywords of the tagged text form. Each is exactly tagKeywordLen long.
const (
	TagExtData   = "EXTDATA"
	TagMinLength = "MINLNTH"
	TagCommand   = "COMMAND"
	TagSpecial   = "SPECIAL"

	tagKeywordLen = 7

	// tagMinLen is the shortest span a tag may occupy, "[EXTDATA 0]".
	tagMinLen = 11
)

// Full-width transform bounds (exclusive) for literal runs.
const (
	fullWidthLow  = 0x3A
	fullWidthHigh = 0x7F
)
