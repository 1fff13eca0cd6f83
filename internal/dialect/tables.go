package dialect

// Names of the built-in dialects.
const (
	SwordShield       = "swsh"
	SwordShieldDouble = "swsh-double"
	SwordShieldRemap  = "swsh-remap"

	// Default is the dialect used when none is selected.
	Default = SwordShield
)

// Private Use Area band reserved for special characters.
const (
	PrivateUseLow  uint16 = 0xE000
	PrivateUseHigh uint16 = 0xF8FF
)

// swshCommands is the Sword/Shield command table.
var swshCommands = map[uint16]string{
	0xBDFF: "NULL",
	0xBE00: "SCROLL",
	0xBE01: "CLEAR",
	0xBE02: "WAIT",
	0xFF00: "COLOR",
	0x0100: "TRNAME",
	0x0101: "PKNAME",
	0x0102: "PKNICK",
	0x0103: "TYPE",
	0x0105: "LOCATION",
	0x0106: "ABILITY",
	0x0107: "MOVE",
	0x0108: "ITEM1",
	0x0109: "ITEM2",
	0x010A: "sTRBAG",
	0x010B: "BOX",
	0x010D: "EVSTAT",
	0x0110: "OPOWER",
	0x0127: "RIBBON",
	0x0134: "MIINAME",
	0x013E: "WEATHER",
	0x0189: "TRNICK",
	0x018A: "1stchrTR",
	0x018B: "SHOUTOUT",
	0x018E: "BERRY",
	0x018F: "REMFEEL",
	0x0190: "REMQUAL",
	0x0191: "WEBSITE",
	0x0192: "PRVIDSAY",
	0x0193: "BTLTEST",
	0x0195: "GENLOC",
	0x0199: "CHOICEFOOD",
	0x019A: "HOTELITEM",
	0x019B: "TAXISTOP",
	0x019C: "CHOICECOS",
	0x019F: "MAISTITLE",
	0x01A1: "GSYNCID",
	0x1000: "ITEMPLUR0",
	0x1001: "ITEMPLUR1",
	0x1100: "GENDBR",
	0x1101: "NUMBRNCH",
	0x1302: "iCOLOR2",
	0x1303: "iCOLOR3",
	0x0200: "NUM1",
	0x0201: "NUM2",
	0x0202: "NUM3",
	0x0203: "NUM4",
	0x0204: "NUM5",
	0x0205: "NUM6",
	0x0206: "NUM7",
	0x0207: "NUM8",
	0x0208: "NUM9",
}

// Display characters the remapping dialect substitutes for specials.
var remapChars = map[uint16]rune{
	0xE07F: '\u202F', // narrow no-break space
	0xE08D: '\u2026', // ellipsis
	0xE08E: '\u2642', // male sign
	0xE08F: '\u2640', // female sign
}

// Builtin returns freshly built instances of the built-in dialects.
func Builtin() []*Dialect {
	return []*Dialect{
		MustNew(Config{
			Name:        SwordShield,
			Commands:    swshCommands,
			SpecialLow:  PrivateUseLow,
			SpecialHigh: PrivateUseHigh,
			Padding:     PaddingNone,
		}),
		MustNew(Config{
			Name:        SwordShieldDouble,
			Commands:    swshCommands,
			SpecialLow:  PrivateUseLow,
			SpecialHigh: PrivateUseHigh,
			Padding:     PaddingDouble,
		}),
		MustNew(Config{
			Name:         SwordShieldRemap,
			Commands:     swshCommands,
			FixedChars:   remapChars,
			SpecialLow:   PrivateUseLow,
			SpecialHigh:  PrivateUseHigh,
			Padding:      PaddingMinLength,
			ArgSeparator: ",",
			SpecialHex:   true,
		}),
	}
}

var defaultDialect = Builtin()[0]

// DefaultDialect returns the shared default dialect. Dialects are
// immutable, so the value is safe for concurrent use.
func DefaultDialect() *Dialect {
	return defaultDialect
}
