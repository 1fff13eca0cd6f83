package dialect

import "testing"

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty name", Config{}},
		{"bad separator", Config{Name: "x", ArgSeparator: ";"}},
		{"name with space", Config{Name: "x", Commands: map[uint16]string{1: "A B"}}},
		{"name with bracket", Config{Name: "x", Commands: map[uint16]string{1: "A]"}}},
		{"duplicate name", Config{Name: "x", Commands: map[uint16]string{1: "A", 2: "A"}}},
		{"duplicate fixed char", Config{Name: "x", FixedChars: map[uint16]rune{1: 'a', 2: 'a'}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	d, err := New(Config{Name: "plain"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if d.Padding() != PaddingNone {
		t.Errorf("expected PaddingNone, got %s", d.Padding())
	}
	if d.ArgSeparator() != " " {
		t.Errorf("expected space separator, got %q", d.ArgSeparator())
	}
	if d.IsSpecial(0xE000) {
		t.Error("zero band must not reserve 0xE000")
	}
}

func TestDefaultDialect(t *testing.T) {
	d := DefaultDialect()

	if d.Name() != SwordShield {
		t.Errorf("expected %s, got %s", SwordShield, d.Name())
	}
	if code, ok := d.CommandCode("WAIT"); !ok || code != 0xBE02 {
		t.Errorf("expected WAIT=0xBE02, got 0x%04X", code)
	}
	if name, ok := d.CommandName(0xFF00); !ok || name != "COLOR" {
		t.Errorf("expected COLOR for 0xFF00, got %q", name)
	}
	if d.SupportsMinLength() {
		t.Error("default dialect has no min-length support")
	}
}

func TestDialect_IsSpecial(t *testing.T) {
	d := MustNew(Config{
		Name:         "t",
		SpecialLow:   PrivateUseLow,
		SpecialHigh:  PrivateUseHigh,
		SpecialCodes: []uint16{0x2460},
	})

	tests := []struct {
		code uint16
		want bool
	}{
		{0xDFFF, false},
		{0xE000, true},
		{0xE07F, true},
		{0xF8FF, true},
		{0xF900, false},
		{0x2460, true},
		{'A', false},
	}

	for _, tc := range tests {
		if got := d.IsSpecial(tc.code); got != tc.want {
			t.Errorf("IsSpecial(0x%04X) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestDialect_FixedChars(t *testing.T) {
	r := NewBuiltinRegistry()
	d, err := r.Get(SwordShieldRemap)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}

	if ch, ok := d.FixedChar(0xE08D); !ok || ch != '…' {
		t.Errorf("expected ellipsis for 0xE08D, got %q", ch)
	}
	if code, ok := d.FixedCode('♀'); !ok || code != 0xE08F {
		t.Errorf("expected 0xE08F for female sign, got 0x%04X", code)
	}
	if !d.SpecialHex() || d.ArgSeparator() != "," || !d.SupportsMinLength() {
		t.Error("unexpected remap dialect settings")
	}
}

func TestDialect_Commands(t *testing.T) {
	cmds := DefaultDialect().Commands()
	if len(cmds) != len(swshCommands) {
		t.Fatalf("expected %d commands, got %d", len(swshCommands), len(cmds))
	}
	for i := 1; i < len(cmds); i++ {
		if cmds[i-1].Code >= cmds[i].Code {
			t.Fatalf("commands not sorted at %d", i)
		}
	}
}

func TestParsePaddingMode(t *testing.T) {
	tests := []struct {
		in      string
		want    PaddingMode
		wantErr bool
	}{
		{"", PaddingAuto, false},
		{"auto", PaddingAuto, false},
		{"none", PaddingNone, false},
		{"min-length", PaddingMinLength, false},
		{"DOUBLE", PaddingDouble, false},
		{"triple", PaddingAuto, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePaddingMode(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
			if !tc.wantErr && tc.in != "" {
				back, _ := ParsePaddingMode(got.String())
				if back != got {
					t.Errorf("String() does not round-trip: %s", got)
				}
			}
		})
	}
}
