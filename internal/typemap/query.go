package typemap

import (
	"strings"

	"github.com/cmmoran/cs2cpp/internal/cppname"
	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/semantic"
	"github.com/cmmoran/cs2cpp/internal/syntax"
)

var charEscapes = map[string]string{
	"\\":   `'\\'`,
	"\t":   `'\t'`,
	"\r":   `'\r'`,
	"\n":   `'\n'`,
	"'":    `'\''`,
	"\x00": `'\0'`,
}

var stringEscaper = strings.NewReplacer(
	"\\", `\\`,
	"\"", `\"`,
	"\x00", `\0`,
	"\r", `\r`,
	"\n", `\n`,
	"\t", `\t`,
)

// Constant formats the compile-time value of n as a target literal. Enum
// typed values are cast to their enum when castEnum is set.
func (m *Mapper) Constant(n syntax.Node, castEnum bool) (string, bool) {
	value, ok := m.sem.Constant(n)
	if !ok {
		return "", false
	}
	switch m.TypeName(n) {
	case "char":
		if e, ok := charEscapes[value]; ok {
			value = e
		} else {
			value = "'" + value + "'"
		}
	case "float":
		if !strings.Contains(value, ".") {
			value += ".0"
		}
		value += "f"
	case "double":
		if !strings.Contains(value, ".") {
			value += ".0"
		}
	case "long":
		value += "LL"
	case "ulong":
		value += "ULL"
	case "string", "System::String":
		value = `u"` + stringEscaper.Replace(value) + `"`
	}
	if castEnum {
		if typ := m.sem.TypeOf(n); typ != nil && typ.Kind == semantic.TypeEnum {
			value = "(" + cppname.Scoped(typ.Display) + ")" + value
		}
	}
	return value, true
}

// TypeName is the display name of the static type of n with "::" scopes, or
// "" when unknown.
func (m *Mapper) TypeName(n syntax.Node) string {
	typ := m.sem.TypeOf(n)
	if typ == nil {
		return ""
	}
	return cppname.Scoped(typ.Display)
}

func (m *Mapper) typeKind(n syntax.Node) semantic.TypeKind {
	if typ := m.sem.TypeOf(n); typ != nil {
		return typ.Kind
	}
	return semantic.TypeUnknown
}

func (m *Mapper) symbolKind(n syntax.Node) semantic.SymbolKind {
	if s := m.sem.Resolved(n); s != nil {
		return s.Kind
	}
	return semantic.SymbolUnknown
}

func (m *Mapper) IsClass(n syntax.Node) bool    { return m.typeKind(n) == semantic.TypeClass }
func (m *Mapper) IsEnum(n syntax.Node) bool     { return m.typeKind(n) == semantic.TypeEnum }
func (m *Mapper) IsDelegate(n syntax.Node) bool { return m.typeKind(n) == semantic.TypeDelegate }

func (m *Mapper) IsNamedType(n syntax.Node) bool { return m.symbolKind(n) == semantic.SymbolNamedType }
func (m *Mapper) IsNamespace(n syntax.Node) bool { return m.symbolKind(n) == semantic.SymbolNamespace }
func (m *Mapper) IsMethod(n syntax.Node) bool    { return m.symbolKind(n) == semantic.SymbolMethod }

// IsString reports whether n has the runtime string type.
func (m *Mapper) IsString(n syntax.Node) bool {
	typ := m.sem.TypeOf(n)
	if typ == nil {
		return false
	}
	return typ.Display == "string" || typ.Display == "System.String" ||
		typ.ID == m.sem.WellKnown(semantic.WellKnownString)
}

// IsStatic reports whether n refers to a static member or type. A node with
// no semantic information at all is an error and treated as static.
func (m *Mapper) IsStatic(n syntax.Node) bool {
	if s := m.sem.Resolved(n); s != nil {
		return s.Static
	}
	if s := m.sem.Declared(n); s != nil {
		return s.Static
	}
	if typ := m.sem.TypeOf(n); typ != nil {
		return typ.Static
	}
	m.rep.Errorf(n.Position(), diag.CodeUnresolved, "isStatic():Symbol not found for:%s", syntax.Text(n))
	return true
}

// TypeIs reports whether n has the type identified by w.
func (m *Mapper) TypeIs(n syntax.Node, w semantic.WellKnown) bool {
	typ := m.sem.TypeOf(n)
	if typ == nil {
		return false
	}
	return typ.ID == m.sem.WellKnown(w)
}
