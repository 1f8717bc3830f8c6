// Package cppname holds the naming tables that turn source identifiers into
// target identifiers.
package cppname

import (
	"strings"
)

// GenericSuffix is appended to every generic class and method name so a
// generic and a non-generic type of the same name can coexist.
const GenericSuffix = "$T"

// Scope separates namespace and nested type segments in target code.
const Scope = "::"

// primitiveAliases maps source primitive spellings to runtime typedefs.
var primitiveAliases = map[string]string{
	"byte":           "uint8",
	"sbyte":          "int8",
	"short":          "int16",
	"ushort":         "uint16",
	"int":            "int32",
	"uint":           "uint32",
	"long":           "int64",
	"ulong":          "uint64",
	"char":           "char16",
	"string":         "System::String",
	"System::string": "System::String",
	"object":         "System::Object",
	"System::object": "System::Object",
}

// reservedWords are source identifiers that collide with target keywords,
// macros or library names.
var reservedWords = map[string]string{
	"near":   "$near",
	"far":    "$far",
	"delete": "$delete",
	"slots":  "$slots",
	"BUFSIZ": "$BUFSIZ",
	"TRUE":   "$TRUE",
	"FALSE":  "$FALSE",
	"string": "String",
}

// numericPrimitives are the source spellings that map to arithmetic types.
var numericPrimitives = map[string]bool{
	"bool":   true,
	"byte":   true,
	"sbyte":  true,
	"short":  true,
	"ushort": true,
	"int":    true,
	"uint":   true,
	"long":   true,
	"ulong":  true,
	"char":   true,
	"float":  true,
	"double": true,
}

// Name renames reserved identifiers in every "::" segment of name.
func Name(name string) string {
	if strings.Contains(name, Scope) {
		parts := strings.Split(name, Scope)
		for i, p := range parts {
			parts[i] = Name(p)
		}
		return strings.Join(parts, Scope)
	}
	if r, ok := reservedWords[name]; ok {
		return r
	}
	return name
}

// Type maps a source spelling (with "::" separators) to its target spelling.
func Type(spelling string) string {
	if a, ok := primitiveAliases[spelling]; ok {
		return a
	}
	return Name(spelling)
}

// Classify reports whether spelling names a primitive and whether that
// primitive is numeric. The empty spelling and "void" are non-numeric
// primitives.
func Classify(spelling string) (primitive, numeric bool) {
	switch {
	case spelling == "" || spelling == "void":
		return true, false
	case numericPrimitives[spelling]:
		return true, true
	}
	return false, false
}

// Operator returns the target method name for a user-defined operator whose
// metadata name is name ("op_Addition").
func Operator(name string) string {
	return "$" + name
}

// Scoped converts a dotted source name to a "::" scoped one.
func Scoped(dotted string) string {
	return strings.ReplaceAll(dotted, ".", Scope)
}

// Dotted converts a "::" scoped name back to the source spelling.
func Dotted(scoped string) string {
	return strings.ReplaceAll(scoped, Scope, ".")
}

// Flat joins a namespace and a nested class path into a single identifier
// usable as a symbol suffix: ("System::IO", "File::Entry") -> "System_IO_File_Entry".
func Flat(namespace, name string) string {
	out := strings.ReplaceAll(namespace, Scope, "_")
	if out != "" {
		out += "_"
	}
	return out + strings.ReplaceAll(name, Scope, "_")
}

// OpenNamespace renders "namespace A{namespace B{" followed by a newline.
func OpenNamespace(ns string) string {
	var sb strings.Builder
	for _, p := range strings.Split(ns, Scope) {
		sb.WriteString("namespace ")
		sb.WriteString(p)
		sb.WriteString("{")
	}
	sb.WriteString("\n")
	return sb.String()
}

// CloseNamespace renders the matching closing braces for OpenNamespace.
func CloseNamespace(ns string) string {
	return strings.Repeat("}", len(strings.Split(ns, Scope))) + "\n"
}

// StripTemplate removes a template argument list: "List$T<int>" -> "List$T".
func StripTemplate(name string) string {
	if i := strings.Index(name, "<"); i != -1 {
		return name[:i]
	}
	return name
}
