// Package config loads the optional residue.yaml that supplies defaults
// for the command line.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode"

	"gopkg.in/yaml.v3"

	goresidue "github.com/njchilds90/goresidue"
)

// DefaultFile is looked up in the working directory when no --config flag
// is given.
const DefaultFile = "residue.yaml"

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatPretty   = "pretty"
	FormatJSON     = "json"
)

type ErrorKind string

const (
	KindNotFound ErrorKind = "not_found"
	KindInvalid  ErrorKind = "invalid_config"
)

// OpError wraps a load failure with the file and its kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string
	Err  error
}

func (e *OpError) Error() string {
	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error { return e.Err }

// IsKind reports whether err is an *OpError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

type Contour struct {
	Kind       string `yaml:"kind"`
	Center     string `yaml:"center"`
	Radius     string `yaml:"radius"`
	LowerLeft  string `yaml:"lower_left"`
	UpperRight string `yaml:"upper_right"`
}

type Log struct {
	Path  string `yaml:"path"`
	Debug bool   `yaml:"debug"`
}

type Config struct {
	Variable string  `yaml:"variable"`
	Format   string  `yaml:"format"`
	Contour  Contour `yaml:"contour"`
	Log      Log     `yaml:"log"`
}

// Default mirrors the interactive form's initial values.
func Default() Config {
	return Config{
		Variable: goresidue.DefaultVariable,
		Format:   FormatMarkdown,
		Contour: Contour{
			Kind:       string(goresidue.KindCircle),
			Center:     "0+0j",
			Radius:     "3.0",
			LowerLeft:  "-1-1j",
			UpperRight: "1+1j",
		},
	}
}

// Request returns the contour part of a request for fn.
func (c Config) Request(fn string) goresidue.Request {
	return goresidue.Request{
		Function:   fn,
		Contour:    c.Contour.Kind,
		Center:     c.Contour.Center,
		Radius:     c.Contour.Radius,
		LowerLeft:  c.Contour.LowerLeft,
		UpperRight: c.Contour.UpperRight,
	}
}

// Validate checks the fields that do not wait for an analysis to fail.
func (c Config) Validate() error {
	switch c.Format {
	case FormatMarkdown, FormatPretty, FormatJSON:
	default:
		return fmt.Errorf("format: unknown value %q", c.Format)
	}
	if _, err := goresidue.ParseContourKind(c.Contour.Kind); err != nil {
		return fmt.Errorf("contour.kind: %w", err)
	}
	if !isIdent(c.Variable) {
		return fmt.Errorf("variable: %q is not an identifier", c.Variable)
	}
	return nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// Load reads path over the defaults. Keys missing from the file keep their
// default; unknown keys are rejected.
func Load(path string) (Config, error) {
	const op = "config.load"
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &OpError{Op: op, Kind: KindNotFound, Path: path, Err: err}
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Default(), &OpError{Op: op, Kind: KindInvalid, Path: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Default(), &OpError{Op: op, Kind: KindInvalid, Path: path, Err: err}
	}
	return cfg, nil
}

// LoadOptional loads path when set, else DefaultFile when it exists, else
// the defaults.
func LoadOptional(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return Load(DefaultFile)
	}
	return Default(), nil
}
