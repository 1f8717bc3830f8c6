// Package semantic defines the read-only semantic queries the generator asks
// about syntax nodes, and a table-backed implementation of them.
package semantic

import (
	"strings"

	"github.com/cmmoran/cs2cpp/internal/syntax"
)

type SymbolKind int

const (
	SymbolUnknown SymbolKind = iota
	SymbolNamespace
	SymbolNamedType
	SymbolMethod
	SymbolField
	SymbolProperty
	SymbolEvent
	SymbolLocal
	SymbolParameter
	SymbolTypeParameter
)

var symbolKindNames = map[string]SymbolKind{
	"namespace":     SymbolNamespace,
	"namedtype":     SymbolNamedType,
	"type":          SymbolNamedType,
	"method":        SymbolMethod,
	"field":         SymbolField,
	"property":      SymbolProperty,
	"event":         SymbolEvent,
	"local":         SymbolLocal,
	"parameter":     SymbolParameter,
	"typeparameter": SymbolTypeParameter,
}

// ParseSymbolKind maps a dump spelling ("NamedType", "parameter") to a kind.
func ParseSymbolKind(s string) SymbolKind {
	return symbolKindNames[strings.ToLower(s)]
}

func (k SymbolKind) String() string {
	for name, v := range symbolKindNames {
		if v == k && name != "type" {
			return name
		}
	}
	return "unknown"
}

type TypeKind int

const (
	TypeUnknown TypeKind = iota
	TypeClass
	TypeStruct
	TypeInterface
	TypeEnum
	TypeDelegate
	TypeTypeParameter
	TypeArray
	TypePointer
	TypeError
)

var typeKindNames = map[string]TypeKind{
	"class":         TypeClass,
	"struct":        TypeStruct,
	"interface":     TypeInterface,
	"enum":          TypeEnum,
	"delegate":      TypeDelegate,
	"typeparameter": TypeTypeParameter,
	"array":         TypeArray,
	"pointer":       TypePointer,
	"error":         TypeError,
}

// ParseTypeKind maps a dump spelling ("Class", "TypeParameter") to a kind.
func ParseTypeKind(s string) TypeKind {
	return typeKindNames[strings.ToLower(s)]
}

func (k TypeKind) String() string {
	for name, v := range typeKindNames {
		if v == k {
			return name
		}
	}
	return "unknown"
}

type Access int

const (
	AccessNone Access = iota
	AccessPrivate
	AccessProtected
	AccessInternal
	AccessPublic
)

// ParseAccess maps "public", "private", ... to an Access.
func ParseAccess(s string) Access {
	switch strings.ToLower(s) {
	case "public":
		return AccessPublic
	case "private":
		return AccessPrivate
	case "protected":
		return AccessProtected
	case "internal":
		return AccessInternal
	}
	return AccessNone
}

// Symbol is a declared or referenced entity.
type Symbol struct {
	// Name is the simple name ("List", "Main", "op_Addition").
	Name string
	// Display is the qualified display string ("System.Collections.List<T>").
	Display    string
	Kind       SymbolKind
	Access     Access
	Static     bool
	Abstract   bool
	Virtual    bool
	Override   bool
	Extern     bool
	Sealed     bool
	Containing string
	// Inherited lists member names declared anywhere up the base chain of a
	// named type. Used to detect members that hide a base member.
	Inherited []string
}

// TypeID is an opaque identity token for a type, stable across files.
type TypeID string

// Type is the static type of an expression or type syntax.
type Type struct {
	Display string
	Kind    TypeKind
	ID      TypeID
	Static  bool
}

// WellKnown names runtime types the generator checks by identity.
type WellKnown int

const (
	WellKnownLock WellKnown = iota
	WellKnownString
	WellKnownObject
)

// Provider answers semantic queries for syntax nodes. Every method returns
// the zero value when nothing is known about the node.
type Provider interface {
	Declared(n syntax.Node) *Symbol
	Resolved(n syntax.Node) *Symbol
	TypeOf(n syntax.Node) *Type
	Constant(n syntax.Node) (string, bool)
	WellKnown(w WellKnown) TypeID
}
