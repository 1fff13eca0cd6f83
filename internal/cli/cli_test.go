package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/roboco-io/textblob/internal/config"
	"github.com/roboco-io/textblob/internal/dialect"
	"github.com/roboco-io/textblob/internal/ir"
	"github.com/roboco-io/textblob/internal/textblob"
)

// resetFlags restores every flag of c and its subcommands to its default,
// since cobra keeps flag values between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with an isolated config file.
func execute(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	if configPath == "" {
		configPath = filepath.Join(t.TempDir(), "config.yaml")
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--config", configPath, "--quiet"))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeContainer(t *testing.T, path string, opts textblob.Options, texts ...string) {
	t.Helper()

	entries := make([]ir.Entry, 0, len(texts))
	for _, text := range texts {
		entries = append(entries, textblob.ParseTaggedText(text, nil, opts.Dialect))
	}
	data, err := textblob.Encode(entries, opts)
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
}

func TestSetVersion(t *testing.T) {
	oldVersion := version
	defer func() { version = oldVersion }()

	SetVersion("1.2.3")
	if version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got '%s'", version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "textblob" {
		t.Errorf("expected Use 'textblob', got '%s'", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	flags := []string{"config", "dialect", "no-crypt", "padding", "verbose", "quiet"}
	for _, flag := range flags {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent flag '%s' to exist", flag)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "textblob ") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{decodeCmd, "decode <file>", []string{"output", "format"}},
		{encodeCmd, "encode <file>", []string{"output", "format"}},
		{convertCmd, "convert <path>...", []string{"workers", "format"}},
		{dialectsCmd, "dialects [name]", []string{"commands"}},
	}

	for _, tc := range tests {
		t.Run(tc.use, func(t *testing.T) {
			if tc.cmd.Use != tc.use {
				t.Errorf("expected Use '%s', got '%s'", tc.use, tc.cmd.Use)
			}
			for _, flag := range tc.flags {
				if tc.cmd.Flags().Lookup(flag) == nil {
					t.Errorf("expected flag '%s' to exist", flag)
				}
			}
		})
	}
}

func TestConfigCommand(t *testing.T) {
	if configCmd.Use != "config" {
		t.Errorf("expected Use 'config', got '%s'", configCmd.Use)
	}

	subcommands := []string{"show", "init", "set", "path"}
	for _, name := range subcommands {
		found := false
		for _, cmd := range configCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand '%s' to exist", name)
		}
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "common.dat")
	writeContainer(t, src, textblob.DefaultOptions(),
		"Hello",
		"[EXTDATA 3]Hi [COMMAND TRNAME 0]![COMMAND WAIT 30]",
		`two\nlines[SPECIAL 57472]`,
	)

	for _, format := range []string{"yaml", "json", "text"} {
		t.Run(format, func(t *testing.T) {
			listPath := filepath.Join(dir, "common"+formatExt[format])
			if _, err := execute(t, "", "decode", src, "-o", listPath); err != nil {
				t.Fatalf("decode failed: %v", err)
			}

			again := filepath.Join(dir, "again-"+format+".dat")
			if _, err := execute(t, "", "encode", listPath, "-o", again); err != nil {
				t.Fatalf("encode failed: %v", err)
			}

			want, _ := os.ReadFile(src)
			got, err := os.ReadFile(again)
			if err != nil {
				t.Fatalf("failed to read output: %v", err)
			}
			if !bytes.Equal(want, got) {
				t.Error("decode then encode changed the container bytes")
			}
		})
	}
}

func TestDecode_Stdout(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.dat")
	writeContainer(t, src, textblob.DefaultOptions(), "Hi")

	out, err := execute(t, "", "decode", src)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out != "- text: Hi\n  ex-data: 0\n" {
		t.Errorf("unexpected YAML:\n%s", out)
	}

	out, err = execute(t, "", "decode", src, "--format", "json")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !strings.Contains(out, `"source": "a.dat"`) || !strings.Contains(out, `"dialect": "swsh"`) {
		t.Errorf("expected document metadata in JSON:\n%s", out)
	}
}

func TestDecode_NoCrypt(t *testing.T) {
	src := filepath.Join(t.TempDir(), "raw.dat")
	opts := textblob.DefaultOptions()
	opts.Crypt = false
	writeContainer(t, src, opts, "plain words")

	out, err := execute(t, "", "dump", src, "--no-crypt")
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	if out != "0\tplain words\n" {
		t.Errorf("unexpected dump: %q", out)
	}
}

func TestDecode_Malformed(t *testing.T) {
	src := filepath.Join(t.TempDir(), "bad.dat")
	if err := os.WriteFile(src, []byte("not a container"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "", "decode", src)
	if !errors.Is(err, textblob.ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}

func TestEncode_EditedText(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "edit.yaml")
	content := `- text: Bye[COMMAND WAIT 5]
  syntax-tree:
    - kind: literal
      hint: Hi
  ex-data: 2
`
	if err := os.WriteFile(src, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "", "encode", src); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "edit.dat"))
	if err != nil {
		t.Fatalf("expected default output path: %v", err)
	}
	entries, err := textblob.Decode(data, textblob.DefaultOptions())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if entries[0].Text != "Bye[COMMAND WAIT 5]" || entries[0].ExData != 2 {
		t.Errorf("edited text not encoded: %+v", entries[0])
	}
}

func TestEncode_UnknownExtension(t *testing.T) {
	src := filepath.Join(t.TempDir(), "x.csv")
	if err := os.WriteFile(src, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "", "encode", src); err == nil {
		t.Error("expected error for unknown extension")
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	writeContainer(t, filepath.Join(dir, "one.dat"), textblob.DefaultOptions(), "one")
	writeContainer(t, filepath.Join(sub, "two.bin"), textblob.DefaultOptions(), "two", "[COMMAND CLEAR]")
	if err := os.WriteFile(filepath.Join(dir, "broken.dat"), []byte{1, 2, 3}, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("skip"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "convert", dir, "--workers", "2")
	if err == nil {
		t.Fatal("expected error for the broken file")
	}
	if !strings.Contains(out, "실패 1개") {
		t.Errorf("unexpected summary: %q", out)
	}

	for _, name := range []string{"one.yaml", filepath.Join("sub", "two.yaml")} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.yaml")); err == nil {
		t.Error("unrelated files must be ignored")
	}
}

func TestConvert_MissingPath(t *testing.T) {
	_, err := execute(t, "", "convert", filepath.Join(t.TempDir(), "missing.dat"))
	if err == nil {
		t.Error("expected error for missing path")
	}
}

func TestNewJob(t *testing.T) {
	tests := []struct {
		path string
		want job
	}{
		{"a/b.dat", job{src: "a/b.dat", dst: "a/b.yaml", dir: directionDecode, format: "yaml"}},
		{"c.bin", job{src: "c.bin", dst: "c.yaml", dir: directionDecode, format: "yaml"}},
		{"d.yml", job{src: "d.yml", dst: "d.dat", dir: directionEncode, format: "yaml"}},
		{"e.json", job{src: "e.json", dst: "e.dat", dir: directionEncode, format: "json"}},
		{"f.txt", job{src: "f.txt", dst: "f.dat", dir: directionEncode, format: "text"}},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got := newJob(tc.path, "yaml")
			if got != tc.want {
				t.Errorf("newJob(%q) = %+v, want %+v", tc.path, got, tc.want)
			}
		})
	}
}

func TestRunBatch_Cancelled(t *testing.T) {
	resetFlags(rootCmd)
	s, err := resolveSettings(config.DefaultConfig(), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("resolveSettings failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []job{{src: "x.dat", dst: "x.yaml", dir: directionDecode, format: "yaml"}}
	results := runBatch(ctx, jobs, 1, s)
	if !errors.Is(results[0], context.Canceled) {
		t.Errorf("expected cancelled job, got %v", results[0])
	}
}

func TestUnmarshalEntries(t *testing.T) {
	d := dialect.DefaultDialect()
	want := []ir.Entry{
		{Text: "a"},
		{
			Text:       "[COMMAND WAIT]",
			SyntaxTree: []ir.Segment{ir.Command("[COMMAND WAIT]", 0xBE02)},
			ExData:     1,
		},
	}

	tests := []struct {
		name   string
		format string
		input  string
	}{
		{"yaml list", "yaml", `
- text: a
- text: '[COMMAND WAIT]'
  syntax-tree:
    - {kind: command, hint: '[COMMAND WAIT]', value: [48642]}
  ex-data: 1
`},
		{"yaml document", "yaml", `
version: "1.0"
entries:
  - text: a
  - text: '[COMMAND WAIT]'
    syntax-tree:
      - {kind: command, hint: '[COMMAND WAIT]', value: [0xBE02]}
    ex-data: 1
`},
		{"json list", "json", `[{"text":"a"},{"text":"[COMMAND WAIT]","syntax_tree":[{"kind":"command","hint":"[COMMAND WAIT]","value":[48642]}],"ex_data":1}]`},
		{"json document", "json", `{"version":"1.0","entries":[{"text":"a"},{"text":"[COMMAND WAIT]","syntax_tree":[{"kind":"command","hint":"[COMMAND WAIT]","value":[48642]}],"ex_data":1}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := unmarshalEntries([]byte(tc.input), tc.format, d)
			if err != nil {
				t.Fatalf("unmarshalEntries failed: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnmarshalEntries_Text(t *testing.T) {
	got, err := unmarshalEntries([]byte("first\r\n[EXTDATA 4]second\n\n"), formatText, dialect.DefaultDialect())
	if err != nil {
		t.Fatalf("unmarshalEntries failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Text != "first" || got[1].Text != "second" || got[1].ExData != 4 || got[2].Text != "" {
		t.Errorf("unexpected entries: %+v", got)
	}
}

func TestUnmarshalEntries_TextEmptyLine(t *testing.T) {
	d := dialect.DefaultDialect()
	doc := ir.NewDocument()
	doc.AddEntry(ir.Entry{})

	data, err := marshalDocument(doc, formatText, d)
	if err != nil {
		t.Fatalf("marshalDocument failed: %v", err)
	}
	if string(data) != "\n" {
		t.Fatalf("marshalDocument = %q, want %q", data, "\n")
	}

	got, err := unmarshalEntries(data, formatText, d)
	if err != nil {
		t.Fatalf("unmarshalEntries failed: %v", err)
	}
	if diff := cmp.Diff([]ir.Entry{{}}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	got, err = unmarshalEntries(nil, formatText, d)
	if err != nil || len(got) != 0 {
		t.Errorf("empty input: got %v, %v", got, err)
	}
}

func TestDecodeEncode_SingleEmptyLine(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "empty.bin")
	writeContainer(t, src, textblob.DefaultOptions(), "")
	orig, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}

	txt := filepath.Join(dir, "empty.txt")
	if _, err := execute(t, "", "decode", src, "-o", txt); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	out := filepath.Join(dir, "out.dat")
	if _, err := execute(t, "", "encode", txt, "-o", out); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(orig, got) {
		t.Errorf("re-encoded container differs:\n got %x\nwant %x", got, orig)
	}
}

func TestDialectsCommand(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.DefaultConfig()
	cfg.Dialects = map[string]config.DialectSpec{
		"mod": {Base: "swsh", Commands: map[string]string{"0x1400": "HELLO"}},
	}
	if err := config.NewLoaderWithPath(configPath).Save(cfg); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, configPath, "dialects")
	if err != nil {
		t.Fatalf("dialects failed: %v", err)
	}
	for _, name := range []string{"swsh", "swsh-double", "swsh-remap", "mod"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected %s in output:\n%s", name, out)
		}
	}

	out, err = execute(t, configPath, "dialects", "mod")
	if err != nil {
		t.Fatalf("dialects mod failed: %v", err)
	}
	if !strings.Contains(out, "0x1400  HELLO") {
		t.Errorf("expected custom command in output:\n%s", out)
	}

	if _, err := execute(t, configPath, "dialects", "nope"); err == nil {
		t.Error("expected error for unknown dialect")
	}
}

func TestParseCommand(t *testing.T) {
	out, err := execute(t, "", "parse", "Hello[COMMAND WAIT][SPECIAL 57471]")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	for _, want := range []string{"syntax-tree:", "kind: command", "value: [48642]", "value: [57471]"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestUnknownDialect(t *testing.T) {
	_, err := execute(t, "", "parse", "x", "--dialect", "nope")
	if err == nil {
		t.Error("expected error for unknown dialect")
	}
}

func TestConfigSetAndShow(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	if _, err := execute(t, configPath, "config", "set", "dialect", "swsh-remap"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	cfg, err := config.NewLoaderWithPath(configPath).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Dialect != "swsh-remap" {
		t.Errorf("expected dialect 'swsh-remap', got %s", cfg.Dialect)
	}

	if _, err := execute(t, configPath, "config", "set", "dialect", "nope"); err == nil {
		t.Error("expected error for unknown dialect")
	}
	if _, err := execute(t, configPath, "config", "set", "colour", "red"); err == nil {
		t.Error("expected error for unknown key")
	}

	out, err := execute(t, configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, configPath) || !strings.Contains(out, "dialect: swsh-remap") {
		t.Errorf("unexpected config show output:\n%s", out)
	}

	out, err = execute(t, configPath, "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if strings.TrimSpace(out) != configPath {
		t.Errorf("expected %s, got %q", configPath, out)
	}
}

func TestConfigInit(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if _, err := execute(t, configPath, "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := execute(t, configPath, "config", "init"); err == nil {
		t.Error("expected error when config already exists")
	}
	if _, err := execute(t, configPath, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force failed: %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		verbose, quiet bool
		enabled        slog.Level
		disabled       slog.Level
	}{
		{"default", false, false, slog.LevelInfo, slog.LevelDebug},
		{"verbose", true, false, slog.LevelDebug, slog.LevelDebug - 1},
		{"quiet", false, true, slog.LevelError, slog.LevelWarn},
		{"quiet wins", true, true, slog.LevelError, slog.LevelWarn},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger := newLogger(&bytes.Buffer{}, tc.verbose, tc.quiet)
			if !logger.Enabled(ctx, tc.enabled) {
				t.Errorf("expected level %s to be enabled", tc.enabled)
			}
			if logger.Enabled(ctx, tc.disabled) {
				t.Errorf("expected level %s to be disabled", tc.disabled)
			}
		})
	}
}
