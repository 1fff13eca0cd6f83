// Package config manages application configuration.
package config

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/roboco-io/textblob/internal/dialect"
)

// Config represents the application configuration.
type Config struct {
	Dialect  string                 `yaml:"dialect"`
	Crypt    bool                   `yaml:"crypt"`
	Padding  string                 `yaml:"padding"`
	Format   string                 `yaml:"format"`
	Workers  int                    `yaml:"workers"`
	Dialects map[string]DialectSpec `yaml:"dialects,omitempty"`
}

// DialectSpec declares a custom dialect derived from a registered one.
type DialectSpec struct {
	Base         string            `yaml:"base"`
	Commands     map[string]string `yaml:"commands,omitempty"` // hex code -> mnemonic
	Padding      string            `yaml:"padding,omitempty"`
	ArgSeparator string            `yaml:"arg_separator,omitempty"`
	SpecialHex   *bool             `yaml:"special_hex,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Dialect: dialect.Default,
		Crypt:   true,
		Padding: dialect.PaddingAuto.String(),
		Format:  "yaml",
		Workers: 4,
	}
}

// Output formats of decoded containers.
var Formats = []string{"yaml", "json", "text"}

// Validate checks the values that can be verified without a dialect registry.
func (c *Config) Validate() error {
	if c.Dialect == "" {
		return fmt.Errorf("dialect cannot be empty")
	}
	if _, err := dialect.ParsePaddingMode(c.Padding); err != nil {
		return err
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("unknown format: %q (supported: %s)", c.Format, strings.Join(Formats, ", "))
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative: %d", c.Workers)
	}
	for name, spec := range c.Dialects {
		if _, err := spec.Overrides(); err != nil {
			return fmt.Errorf("dialect %s: %w", name, err)
		}
	}
	return nil
}

// Keys lists the settings accepted by Set.
var Keys = []string{"dialect", "crypt", "padding", "format", "workers"}

// Set changes one setting from its string form.
func (c *Config) Set(key, value string) error {
	next := *c
	switch key {
	case "dialect":
		next.Dialect = value
	case "crypt":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for crypt: %q", value)
		}
		next.Crypt = v
	case "padding":
		mode, err := dialect.ParsePaddingMode(value)
		if err != nil {
			return err
		}
		next.Padding = mode.String()
	case "format":
		next.Format = value
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid number for workers: %q", value)
		}
		next.Workers = n
	default:
		return fmt.Errorf("unknown config key: %s (supported: %s)", key, strings.Join(Keys, ", "))
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// GetDialect returns the custom dialect declaration by name.
func (c *Config) GetDialect(name string) (*DialectSpec, bool) {
	s, ok := c.Dialects[name]
	if !ok {
		return nil, false
	}
	return &s, true
}

// Overrides parses the command table of the declaration.
func (s *DialectSpec) Overrides() (map[uint16]string, error) {
	out := make(map[uint16]string, len(s.Commands))
	for key, name := range s.Commands {
		hex := strings.TrimPrefix(strings.TrimPrefix(key, "0x"), "0X")
		code, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid command code %q: %w", key, err)
		}
		out[uint16(code)] = name
	}
	return out, nil
}

// Registry returns the built-in dialects plus the ones declared in the
// configuration. Declarations may derive from each other; each is
// registered once its base is available.
func (c *Config) Registry() (*dialect.Registry, error) {
	reg := dialect.NewBuiltinRegistry()

	pending := make([]string, 0, len(c.Dialects))
	for name := range c.Dialects {
		pending = append(pending, name)
	}
	sort.Strings(pending)

	for len(pending) > 0 {
		var next []string
		for _, name := range pending {
			spec := c.Dialects[name]
			if spec.Base != "" && !reg.Has(spec.Base) {
				next = append(next, name)
				continue
			}
			if err := register(reg, name, &spec); err != nil {
				return nil, err
			}
		}
		if len(next) == len(pending) {
			return nil, fmt.Errorf("dialect %s: unknown base dialect %q", next[0], c.Dialects[next[0]].Base)
		}
		pending = next
	}

	return reg, nil
}

func register(reg *dialect.Registry, name string, spec *DialectSpec) error {
	base := spec.Base
	if base == "" {
		base = dialect.Default
	}

	overrides, err := spec.Overrides()
	if err != nil {
		return fmt.Errorf("dialect %s: %w", name, err)
	}

	var padding dialect.PaddingMode
	if spec.Padding != "" {
		padding, err = dialect.ParsePaddingMode(spec.Padding)
		if err != nil {
			return fmt.Errorf("dialect %s: %w", name, err)
		}
	}

	_, err = reg.Derive(name, base, overrides, func(cfg *dialect.Config) {
		if padding != dialect.PaddingAuto {
			cfg.Padding = padding
		}
		if spec.ArgSeparator != "" {
			cfg.ArgSeparator = spec.ArgSeparator
		}
		if spec.SpecialHex != nil {
			cfg.SpecialHex = *spec.SpecialHex
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register dialect %s: %w", name, err)
	}
	return nil
}
