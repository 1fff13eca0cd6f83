// Package dialect describes the format variants of the text container:
// command name tables, reserved special code points, padding policy and
// tag rendering choices. A Dialect is immutable once built by New.
package dialect

import (
	"fmt"
	"sort"
	"strings"
)

// PaddingMode selects how the encoder stretches a line.
type PaddingMode uint8

const (
	// PaddingAuto defers to the dialect's own policy. Only meaningful in
	// encoder options; a Dialect never carries it.
	PaddingAuto PaddingMode = iota
	PaddingNone
	PaddingMinLength // pad to Entry.MinLength words
	PaddingDouble    // double the pre-terminator length
)

// String returns the string representation of the padding mode.
func (m PaddingMode) String() string {
	switch m {
	case PaddingAuto:
		return "auto"
	case PaddingNone:
		return "none"
	case PaddingMinLength:
		return "min-length"
	case PaddingDouble:
		return "double"
	default:
		return fmt.Sprintf("padding(%d)", uint8(m))
	}
}

// ParsePaddingMode is the inverse of PaddingMode.String.
func ParsePaddingMode(s string) (PaddingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PaddingAuto, nil
	case "none":
		return PaddingNone, nil
	case "min-length", "minlength", "min":
		return PaddingMinLength, nil
	case "double", "double-size":
		return PaddingDouble, nil
	default:
		return PaddingAuto, fmt.Errorf("unknown padding mode: %q (supported: auto, none, min-length, double)", s)
	}
}

// Config is the mutable description a Dialect is built from.
type Config struct {
	Name         string
	Commands     map[uint16]string // command code -> mnemonic
	FixedChars   map[uint16]rune   // special code -> display character
	SpecialLow   uint16            // inclusive reserved band, disabled when SpecialHigh < SpecialLow
	SpecialHigh  uint16
	SpecialCodes []uint16 // individually reserved codes outside the band
	Padding      PaddingMode
	ArgSeparator string // between command arguments, " " or ","
	SpecialHex   bool   // render [SPECIAL %08X] instead of decimal
}

// Dialect is an immutable format variant.
type Dialect struct {
	name         string
	commands     map[uint16]string
	codes        map[string]uint16
	fixed        map[uint16]rune
	fixedRev     map[rune]uint16
	low, high    uint16
	specials     map[uint16]struct{}
	padding      PaddingMode
	argSeparator string
	specialHex   bool
}

// New builds a Dialect from cfg. The maps in cfg are copied.
func New(cfg Config) (*Dialect, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("dialect name cannot be empty")
	}

	padding := cfg.Padding
	if padding == PaddingAuto {
		padding = PaddingNone
	}

	sep := cfg.ArgSeparator
	if sep == "" {
		sep = " "
	}
	if sep != " " && sep != "," {
		return nil, fmt.Errorf("dialect %s: unsupported argument separator %q", cfg.Name, sep)
	}

	d := &Dialect{
		name:         cfg.Name,
		commands:     make(map[uint16]string, len(cfg.Commands)),
		codes:        make(map[string]uint16, len(cfg.Commands)),
		fixed:        make(map[uint16]rune, len(cfg.FixedChars)),
		fixedRev:     make(map[rune]uint16, len(cfg.FixedChars)),
		low:          cfg.SpecialLow,
		high:         cfg.SpecialHigh,
		specials:     make(map[uint16]struct{}, len(cfg.SpecialCodes)),
		padding:      padding,
		argSeparator: sep,
		specialHex:   cfg.SpecialHex,
	}

	for code, name := range cfg.Commands {
		if name == "" || strings.ContainsAny(name, " ,[]") {
			return nil, fmt.Errorf("dialect %s: invalid command name %q for code 0x%04X", cfg.Name, name, code)
		}
		if other, dup := d.codes[name]; dup {
			return nil, fmt.Errorf("dialect %s: command name %q used for 0x%04X and 0x%04X", cfg.Name, name, other, code)
		}
		d.commands[code] = name
		d.codes[name] = code
	}

	for code, r := range cfg.FixedChars {
		if other, dup := d.fixedRev[r]; dup {
			return nil, fmt.Errorf("dialect %s: character %q mapped from 0x%04X and 0x%04X", cfg.Name, r, other, code)
		}
		d.fixed[code] = r
		d.fixedRev[r] = code
	}

	for _, code := range cfg.SpecialCodes {
		d.specials[code] = struct{}{}
	}

	return d, nil
}

// MustNew is like New but panics on error. Intended for static tables.
func MustNew(cfg Config) *Dialect {
	d, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the dialect identifier.
func (d *Dialect) Name() string {
	return d.name
}

// Padding returns the dialect's encoder padding policy.
func (d *Dialect) Padding() PaddingMode {
	return d.padding
}

// SupportsMinLength reports whether min-length metadata is meaningful.
func (d *Dialect) SupportsMinLength() bool {
	return d.padding == PaddingMinLength
}

// ArgSeparator returns the separator used between command arguments.
func (d *Dialect) ArgSeparator() string {
	return d.argSeparator
}

// SpecialHex reports whether specials render as 8 hex digits.
func (d *Dialect) SpecialHex() bool {
	return d.specialHex
}

// CommandName returns the mnemonic for a command code.
func (d *Dialect) CommandName(code uint16) (string, bool) {
	name, ok := d.commands[code]
	return name, ok
}

// CommandCode returns the command code for a mnemonic.
func (d *Dialect) CommandCode(name string) (uint16, bool) {
	code, ok := d.codes[name]
	return code, ok
}

// IsSpecial reports whether w is a reserved special code point.
func (d *Dialect) IsSpecial(w uint16) bool {
	if d.low <= d.high && w >= d.low && w <= d.high {
		return true
	}
	_, ok := d.specials[w]
	return ok
}

// FixedChar returns the display character for a special code, if any.
func (d *Dialect) FixedChar(code uint16) (rune, bool) {
	r, ok := d.fixed[code]
	return r, ok
}

// FixedCode returns the special code that renders as r, if any.
func (d *Dialect) FixedCode(r rune) (uint16, bool) {
	code, ok := d.fixedRev[r]
	return code, ok
}

// Commands returns the command table sorted by code.
func (d *Dialect) Commands() []Command {
	cmds := make([]Command, 0, len(d.commands))
	for code, name := range d.commands {
		cmds = append(cmds, Command{Code: code, Name: name})
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Code < cmds[j].Code })
	return cmds
}

// Config returns a copy of the configuration the dialect was built from.
func (d *Dialect) Config() Config {
	cfg := Config{
		Name:         d.name,
		Commands:     make(map[uint16]string, len(d.commands)),
		FixedChars:   make(map[uint16]rune, len(d.fixed)),
		SpecialLow:   d.low,
		SpecialHigh:  d.high,
		Padding:      d.padding,
		ArgSeparator: d.argSeparator,
		SpecialHex:   d.specialHex,
	}
	for code, name := range d.commands {
		cfg.Commands[code] = name
	}
	for code, r := range d.fixed {
		cfg.FixedChars[code] = r
	}
	for code := range d.specials {
		cfg.SpecialCodes = append(cfg.SpecialCodes, code)
	}
	sort.Slice(cfg.SpecialCodes, func(i, j int) bool { return cfg.SpecialCodes[i] < cfg.SpecialCodes[j] })
	return cfg
}

// Command is one entry of a command name table.
type Command struct {
	Code uint16
	Name string
}
