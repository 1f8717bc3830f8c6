// Package model holds the generation-time view of the program: classes,
// their members and the lowered code attached to them.
package model

import (
	"path"
	"slices"
	"strings"

	"github.com/cmmoran/cs2cpp/internal/cppname"
	"github.com/cmmoran/cs2cpp/internal/syntax"
)

// Code is an append-only buffer of lowered target text.
type Code struct {
	sb strings.Builder
}

func (c *Code) Write(parts ...string) {
	for _, p := range parts {
		c.sb.WriteString(p)
	}
}

func (c *Code) Len() int       { return c.sb.Len() }
func (c *Code) String() string { return c.sb.String() }
func (c *Code) Reset()         { c.sb.Reset() }

// Program is everything the emitter needs.
type Program struct {
	Files []*File
	// Classless holds namespace-level delegates and enums.
	Classless *Class
	// Operators holds user-defined operators, emitted inline after all
	// classes.
	Operators *Class
}

func NewProgram() *Program {
	return &Program{Classless: &Class{}, Operators: &Class{}}
}

// Classes returns every top-level class in file order.
func (p *Program) Classes() []*Class {
	var out []*Class
	for _, f := range p.Files {
		out = append(out, f.Classes...)
	}
	return out
}

// File is one source file and the classes declared in it.
type File struct {
	// Source is the path of the source file relative to the input directory.
	Source string
	// Base is the flattened output stem: "Net/Http.Client.cs" -> "Net_Http_Client".
	Base string
	// Native is the optional hand-written companion: "Net/Http.Client.cpp".
	Native  string
	Classes []*Class
}

// NewFile derives output names from a slash-separated source path.
func NewFile(source string) *File {
	source = path.Clean(strings.ReplaceAll(source, "\\", "/"))
	stem := strings.TrimSuffix(source, path.Ext(source))
	base := strings.NewReplacer(".", "_", "/", "_").Replace(stem)
	return &File{
		Source: source,
		Base:   base,
		Native: stem + ".cpp",
	}
}

// Class is a class, struct or interface.
type Class struct {
	Flags
	Pos syntax.Pos

	// Name is the target name, with the generic suffix when generic.
	Name string
	// FullName includes enclosing classes: "Outer::Inner".
	FullName  string
	Namespace string
	// NSFullName is Namespace::FullName, the identity used by uses.
	NSFullName string

	Interface bool
	Generic   bool
	HasCtor   bool

	Bases       []*Type
	CPPBases    []string
	Ifaces      []*Type
	Fields      []*Field
	Methods     []*Method
	Enums       []*Enum
	Inners      []*Class
	Outer       *Class
	GenericArgs []*Type

	// Uses lists the NSFullName of classes that must be declared first, in
	// discovery order.
	Uses []string
	// Inherited lists member names declared up the base chain.
	Inherited []string

	lockCnt         int
	finallyCnt      int
	enumCnt         int
	switchStringCnt int
}

// AddUsage records a dependency on name. Template arguments are stripped,
// self references and duplicates ignored.
func (c *Class) AddUsage(name string) {
	name = cppname.StripTemplate(name)
	if name == c.NSFullName || name == "" {
		return
	}
	if !slices.Contains(c.Uses, name) {
		c.Uses = append(c.Uses, name)
	}
}

// HidesBase reports whether member has the name of a base-chain member.
func (c *Class) HidesBase(member string) bool {
	return slices.Contains(c.Inherited, member)
}

// FlatName is the identifier suffix used by reflection symbols.
func (c *Class) FlatName() string {
	return cppname.Flat(c.Namespace, c.FullName)
}

func (c *Class) NextLock() int         { return next(&c.lockCnt) }
func (c *Class) NextFinally() int      { return next(&c.finallyCnt) }
func (c *Class) NextEnumerator() int   { return next(&c.enumCnt) }
func (c *Class) NextStringSwitch() int { return next(&c.switchStringCnt) }

func next(n *int) int {
	v := *n
	*n++
	return v
}

// Walk calls f for c and every nested class, depth first.
func (c *Class) Walk(f func(*Class)) {
	f(c)
	for _, in := range c.Inners {
		in.Walk(f)
	}
}

// Init returns the implicit $init method.
func (c *Class) Init() *Method {
	for _, m := range c.Methods {
		if m.Name == "$init" {
			return m
		}
	}
	return nil
}

// DefaultCtor returns the parameterless constructor, if any.
func (c *Class) DefaultCtor() *Method {
	for _, m := range c.Methods {
		if m.Ctor && len(m.Args) == 0 {
			return m
		}
	}
	return nil
}

// Field is one field or property declaration.
type Field struct {
	Type      *Type
	Class     *Class
	Variables []*Variable

	Property bool
	Getter   bool
	Setter   bool
}

// Variable is one declarator. Init holds a complete assignment statement
// when the declarator had an initializer or registers a property.
type Variable struct {
	Name string
	Init Code
}

// Argument is a method parameter. Default holds the lowered default value.
type Argument struct {
	Type    *Type
	Name    string
	Default Code
}

// Method is a method, constructor, destructor, accessor, operator or
// delegate.
type Method struct {
	Pos syntax.Pos
	// Type is the return type; it also carries the modifiers.
	Type  *Type
	Class *Class
	Name  string
	Body  Code
	// BaseCtor is the lowered base or delegating constructor call.
	BaseCtor    string
	Args        []*Argument
	GenericArgs []*Type

	Ctor     bool
	Dtor     bool
	Delegate bool
	Operator bool
	Generic  bool
	// Namespace is set for namespace-level delegates only.
	Namespace string
}

// ArgNames renders "(a,b)".
func (m *Method) ArgNames() string {
	names := make([]string, 0, len(m.Args))
	for _, a := range m.Args {
		names = append(names, a.Name)
	}
	return "(" + strings.Join(names, ",") + ")"
}

// ArgList renders "(T a,U b)", with defaults when decl is true.
func (m *Method) ArgList(decl bool) string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, a := range m.Args {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(a.Type.Declaration())
		sb.WriteString(" ")
		sb.WriteString(a.Name)
		if decl && a.Default.Len() > 0 {
			sb.WriteString(" = ")
			sb.WriteString(a.Default.String())
		}
	}
	sb.WriteString(")")
	return sb.String()
}

// Enum is an enum rendered as a wrapper struct around an int.
type Enum struct {
	Name      string
	Namespace string
	// ConvertTo lists extra target types the wrapper converts to.
	ConvertTo []string
}
