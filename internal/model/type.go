package model

import (
	"strings"

	"github.com/cmmoran/cs2cpp/internal/cppname"
	"github.com/cmmoran/cs2cpp/internal/semantic"
)

// MaxArrayRank is the deepest array nesting the runtime supports.
const MaxArrayRank = 3

// Flags are the declaration modifiers copied from a symbol.
type Flags struct {
	Public    bool
	Private   bool
	Protected bool
	Static    bool
	Abstract  bool
	Virtual   bool
	Extern    bool
	Override  bool
	Sealed    bool
}

// FlagsOf copies the modifiers of s.
func FlagsOf(s *semantic.Symbol) Flags {
	if s == nil {
		return Flags{}
	}
	return Flags{
		Public:    s.Access == semantic.AccessPublic,
		Private:   s.Access == semantic.AccessPrivate,
		Protected: s.Access == semantic.AccessProtected,
		Static:    s.Static,
		Abstract:  s.Abstract,
		Virtual:   s.Virtual,
		Extern:    s.Extern,
		Override:  s.Override,
		Sealed:    s.Sealed,
	}
}

// Render returns the storage specifiers written before a member declaration.
// Abstract members are made virtual. Nested class declarations take no
// storage class, so static is dropped for them.
func (f Flags) Render(class bool) string {
	var sb strings.Builder
	if f.Static && !class {
		sb.WriteString(" static")
	}
	if f.Abstract && !class && !f.Virtual {
		sb.WriteString(" virtual")
	}
	if f.Virtual {
		sb.WriteString(" virtual")
	}
	return sb.String()
}

// Type describes a type reference and how it is spelled in target code.
type Type struct {
	Flags

	// Spelling is the source-side name with "::" separators, before primitive
	// aliasing. Generic arguments are already in target form.
	Spelling   string
	Kind       semantic.TypeKind
	SymbolKind semantic.SymbolKind

	Generic   bool
	Primitive bool
	Numeric   bool
	Object    bool
	Delegate  bool

	Arrays int
	Ptrs   int

	// Invalid is set when the type could not be mapped; declarations using it
	// are still emitted but the run fails at the next phase boundary.
	Invalid bool
}

// NewType returns a classified descriptor for spelling.
func NewType(spelling string) *Type {
	t := &Type{}
	t.Set(spelling)
	t.Classify()
	return t
}

// Set replaces the spelling, dropping any parameter list and converting dots.
func (t *Type) Set(sym string) {
	if i := strings.Index(sym, "("); i != -1 {
		sym = sym[:i]
	}
	t.Spelling = cppname.Scoped(sym)
}

// Classify derives the primitive, numeric and object flags from the spelling
// and kind.
func (t *Type) Classify() {
	t.Delegate = t.Kind == semantic.TypeDelegate
	t.Primitive, t.Numeric = cppname.Classify(t.Spelling)
	if t.Primitive {
		t.Object = false
		return
	}
	switch t.Kind {
	case semantic.TypeDelegate, semantic.TypeEnum, semantic.TypeTypeParameter:
		t.Object = false
	default:
		t.Object = true
	}
}

// Clone returns a copy of t.
func (t *Type) Clone() *Type {
	c := *t
	return &c
}

func (t *Type) IsArray() bool { return t.Arrays > 0 }

// Target returns the aliased target spelling without generic adjustments.
func (t *Type) Target() string {
	return cppname.Type(t.Spelling)
}

// Symbol returns the target name without template arguments, with the
// generic suffix when generic: "System::Collections::List$T".
func (t *Type) Symbol() string {
	sym := cppname.StripTemplate(t.Target())
	if t.Generic {
		sym += cppname.GenericSuffix
	}
	return sym
}

// FlatSymbol is Symbol with scopes flattened to underscores.
func (t *Type) FlatSymbol() string {
	return strings.ReplaceAll(t.Symbol(), cppname.Scope, "_")
}

// ShortName is the last scope segment of Symbol.
func (t *Type) ShortName() string {
	sym := t.Symbol()
	if i := strings.LastIndex(sym, cppname.Scope); i != -1 {
		return sym[i+len(cppname.Scope):]
	}
	return sym
}

// CPPType keeps template arguments and adds the generic suffix:
// "List<int32>" -> "List$T<int32>".
func (t *Type) CPPType() string {
	id := t.Target()
	if t.Generic {
		if strings.Contains(id, "<") {
			id = strings.Replace(id, "<", cppname.GenericSuffix+"<", 1)
		} else {
			id += cppname.GenericSuffix
		}
	}
	return id
}

// CoreType is the expression yielding the runtime type object.
func (t *Type) CoreType() string {
	return "Core::GetType$T<" + t.CPPType() + ">()"
}

// Declaration spells t as used in a declaration, wrapping arrays in
// Core::FixedArray$T and adding reference and pointer stars.
func (t *Type) Declaration() string {
	return t.declaration(true)
}

// ElementDeclaration is Declaration without the array wrapping.
func (t *Type) ElementDeclaration() string {
	return t.declaration(false)
}

func (t *Type) declaration(arrays bool) string {
	var sb strings.Builder
	if arrays {
		sb.WriteString(strings.Repeat("Core::FixedArray$T<", t.Arrays))
	}
	sb.WriteString(t.CPPType())
	if t.Object {
		sb.WriteString("*")
	}
	sb.WriteString(strings.Repeat("*", t.Ptrs))
	if arrays && t.Arrays > 0 {
		for a := 0; a < t.Arrays; a++ {
			if a > 0 {
				sb.WriteString("*")
			}
			sb.WriteString(">")
		}
		sb.WriteString("*")
	}
	return sb.String()
}

// ArrayOf spells a FixedArray of dims levels around elem, e.g. for dims 2:
// "Core::FixedArray$T<Core::FixedArray$T<elem>*>".
func ArrayOf(elem string, dims int) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("Core::FixedArray$T<", dims))
	sb.WriteString(elem)
	for a := 0; a < dims; a++ {
		if a > 0 {
			sb.WriteString("*")
		}
		sb.WriteString(">")
	}
	return sb.String()
}
