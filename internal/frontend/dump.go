// Package frontend loads the semantic tree dumps written by the external
// front end and turns them into syntax trees plus a semantic.Table.
package frontend

import (
	"io"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/cs2cpp/internal/errors"
)

// SupportedSchema is the dump schema this loader reads. Dumps with the same
// major version are accepted.
const SupportedSchema = "v1.2.0"

// ErrSchema marks a dump whose schema version is missing or incompatible.
var ErrSchema = errors.New("unsupported dump schema")

// Dump is one source file as exported by the front end.
type Dump struct {
	Schema      string       `yaml:"schema" json:"schema"`
	File        string       `yaml:"file" json:"file"`
	WellKnown   WellKnown    `yaml:"wellKnown,omitempty" json:"wellKnown,omitempty"`
	Diagnostics []Diagnostic `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
	Root        *Node        `yaml:"root" json:"root"`
}

// WellKnown holds identity tokens of runtime types.
type WellKnown struct {
	Lock   string `yaml:"lock,omitempty" json:"lock,omitempty"`
	Object string `yaml:"object,omitempty" json:"object,omitempty"`
	String string `yaml:"string,omitempty" json:"string,omitempty"`
}

// Diagnostic is a message the front end's compiler produced for the file.
type Diagnostic struct {
	ID       string `yaml:"id" json:"id"`
	Severity string `yaml:"severity" json:"severity"`
	Message  string `yaml:"message" json:"message"`
	Line     int    `yaml:"line,omitempty" json:"line,omitempty"`
}

// Node is one syntax node with the semantic facts known about it.
type Node struct {
	Kind string `yaml:"kind" json:"kind"`
	Line int    `yaml:"line,omitempty" json:"line,omitempty"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Op   string `yaml:"op,omitempty" json:"op,omitempty"`
	// Text is the node's source text, used by literals and print mode.
	Text   string   `yaml:"text,omitempty" json:"text,omitempty"`
	Tokens []string `yaml:"tokens,omitempty" json:"tokens,omitempty"`
	Args   []string `yaml:"args,omitempty" json:"args,omitempty"`

	Decl   *Symbol `yaml:"decl,omitempty" json:"decl,omitempty"`
	Symbol *Symbol `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	Type   *Type   `yaml:"type,omitempty" json:"type,omitempty"`
	Const  *string `yaml:"const,omitempty" json:"const,omitempty"`

	Slots map[string]*Node   `yaml:"slots,omitempty" json:"slots,omitempty"`
	Lists map[string][]*Node `yaml:"lists,omitempty" json:"lists,omitempty"`
	Attrs map[string]string  `yaml:"attrs,omitempty" json:"attrs,omitempty"`
}

// Symbol mirrors semantic.Symbol.
type Symbol struct {
	Name       string   `yaml:"name" json:"name"`
	Display    string   `yaml:"display,omitempty" json:"display,omitempty"`
	Kind       string   `yaml:"kind,omitempty" json:"kind,omitempty"`
	Access     string   `yaml:"access,omitempty" json:"access,omitempty"`
	Static     bool     `yaml:"static,omitempty" json:"static,omitempty"`
	Abstract   bool     `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	Virtual    bool     `yaml:"virtual,omitempty" json:"virtual,omitempty"`
	Override   bool     `yaml:"override,omitempty" json:"override,omitempty"`
	Extern     bool     `yaml:"extern,omitempty" json:"extern,omitempty"`
	Sealed     bool     `yaml:"sealed,omitempty" json:"sealed,omitempty"`
	Containing string   `yaml:"containing,omitempty" json:"containing,omitempty"`
	Inherited  []string `yaml:"inherited,omitempty" json:"inherited,omitempty"`
}

// Type mirrors semantic.Type.
type Type struct {
	Display string `yaml:"display" json:"display"`
	Kind    string `yaml:"kind,omitempty" json:"kind,omitempty"`
	ID      string `yaml:"id,omitempty" json:"id,omitempty"`
	Static  bool   `yaml:"static,omitempty" json:"static,omitempty"`
}

// Decode reads one dump. JSON dumps decode as well, being valid YAML.
func Decode(r io.Reader) (*Dump, error) {
	var d Dump
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty dump")
		}
		return nil, errors.Wrap(err, "decode dump")
	}
	if err := CheckSchema(d.Schema); err != nil {
		return nil, err
	}
	if d.Root == nil {
		return nil, errors.New("dump has no root node")
	}
	return &d, nil
}

// CheckSchema accepts versions sharing SupportedSchema's major version. The
// leading "v" is optional.
func CheckSchema(v string) error {
	if v == "" {
		return errors.Mark(errors.New("dump has no schema version"), ErrSchema)
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return errors.Mark(errors.Newf("invalid schema version %q", v), ErrSchema)
	}
	if semver.Major(v) != semver.Major(SupportedSchema) {
		err := errors.Newf("schema %s is not compatible with %s", v, SupportedSchema)
		return errors.WithHint(errors.Mark(err, ErrSchema), "re-export the sources with a matching front end")
	}
	return nil
}
