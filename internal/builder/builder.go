// Package builder walks resolved compilation units and fills the entity
// model: classes, their members, synthesized accessors and constructors.
// Method bodies are lowered while the walk reaches them.
package builder

import (
	"strings"

	"go.uber.org/zap"

	"github.com/cmmoran/cs2cpp/internal/cppname"
	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/logger"
	"github.com/cmmoran/cs2cpp/internal/lower"
	"github.com/cmmoran/cs2cpp/internal/model"
	"github.com/cmmoran/cs2cpp/internal/semantic"
	"github.com/cmmoran/cs2cpp/internal/syntax"
	"github.com/cmmoran/cs2cpp/internal/typemap"
)

// RootObject is the universal base class every class derives from unless it
// names another base.
const RootObject = "System::Object"

// runtimeRoot is the native base of RootObject itself.
const runtimeRoot = "Core::Object"

// Builder constructs the model.Program for a set of compilation units.
type Builder struct {
	types *typemap.Mapper
	sem   semantic.Provider
	low   *lower.Lowerer
	rep   *diag.Reporter
	log   *zap.SugaredLogger

	prog *model.Program
}

// NewBuilder wires a Builder to the mapper and lowerer of one run.
func NewBuilder(types *typemap.Mapper, low *lower.Lowerer, rep *diag.Reporter) *Builder {
	return &Builder{
		types: types,
		sem:   types.Provider(),
		low:   low,
		rep:   rep,
		log:   logger.Named("builder"),
		prog:  model.NewProgram(),
	}
}

// Cursor is the builder's position in the tree. It is copied when the walk
// descends into a namespace or class, so callers never see the changes made
// below them.
type Cursor struct {
	File      *model.File
	Namespace string
	// Class is nil at namespace level.
	Class *model.Class
}

// BuildAll is the main entrypoint:
//  1. Walk every unit into a model.File, lowering bodies on the way.
//  2. Give every class without a constructor a default one.
//  3. Return the program.
//
// Counted problems are left on the reporter; the returned error is only set
// for constructs that cannot be generated at all.
func (b *Builder) BuildAll(units []*syntax.CompilationUnit) (*model.Program, error) {
	b.rep.SetStage(diag.StageBuild)

	// 1) Walk units in the order given.
	for _, u := range units {
		if u == nil {
			continue
		}
		file := model.NewFile(u.Path)
		b.log.Debugw("file", "source", file.Source, "base", file.Base)
		if err := b.members(Cursor{File: file}, u.Members); err != nil {
			return nil, err
		}
		b.prog.Files = append(b.prog.Files, file)
	}

	// 2) Default constructors, nested classes included.
	for _, cls := range b.prog.Classes() {
		b.createDefaultCtor(cls)
	}

	return b.prog, nil
}

// members visits namespace-level declarations.
func (b *Builder) members(cur Cursor, nodes []syntax.Node) error {
	for _, n := range nodes {
		switch x := n.(type) {
		case *syntax.UsingDirective:
			// names are already resolved
		case *syntax.NamespaceDecl:
			inner := cur
			inner.Namespace = joinScope(cur.Namespace, cppname.Scoped(x.Name))
			if err := b.members(inner, x.Members); err != nil {
				return err
			}
		case *syntax.ClassDecl:
			if _, err := b.class(cur, x); err != nil {
				return err
			}
		case *syntax.DelegateDecl:
			m, err := b.delegate(cur, b.prog.Classless, x)
			if err != nil {
				return err
			}
			b.prog.Classless.Methods = append(b.prog.Classless.Methods, m)
		case *syntax.EnumDecl:
			b.prog.Classless.Enums = append(b.prog.Classless.Enums, b.enum(cur, x))
		default:
			return diag.Unsupported(n, "declaration")
		}
	}
	return nil
}

// class creates the Class for x and visits its members. A nested class is
// attached to cur.Class before its members are visited; a top-level class is
// registered with the file.
func (b *Builder) class(cur Cursor, x *syntax.ClassDecl) (*model.Class, error) {
	sym := b.sem.Declared(x)
	name := x.Name
	if sym != nil && sym.Name != "" {
		name = sym.Name
	}

	cls := &model.Class{
		Flags:     model.FlagsOf(sym),
		Pos:       x.Position(),
		Name:      cppname.Name(name),
		Namespace: cur.Namespace,
		Interface: x.Kind == syntax.ClassKindInterface,
		Outer:     cur.Class,
	}
	if sym != nil {
		cls.Inherited = append(cls.Inherited, sym.Inherited...)
	}
	cls.FullName = cls.Name
	if cur.Class != nil {
		cls.FullName = cur.Class.FullName + cppname.Scope + cls.Name
	}
	if len(x.TypeParams) > 0 {
		cls.Generic = true
		cls.Name += cppname.GenericSuffix
		cls.FullName += cppname.GenericSuffix
		for _, tp := range x.TypeParams {
			cls.GenericArgs = append(cls.GenericArgs, b.types.FromTypeParameter(tp))
		}
	}
	cls.NSFullName = joinScope(cls.Namespace, cls.FullName)

	initm := &model.Method{Name: "$init", Class: cls, Type: model.NewType("void")}
	initm.Type.Public = true
	cls.Methods = append(cls.Methods, initm)

	if cur.Class != nil {
		cur.Class.Inners = append(cur.Class.Inners, cls)
	} else {
		cur.File.Classes = append(cur.File.Classes, cls)
	}
	b.log.Debugw("class", "name", cls.NSFullName, "at", cls.Pos.String())

	b.baseList(cls, x.BaseList)
	switch {
	case cls.NSFullName == RootObject:
		cls.CPPBases = append(cls.CPPBases, runtimeRoot)
	case len(cls.Bases) == 0 && !cls.Interface:
		root := model.NewType(RootObject)
		root.Kind = semantic.TypeClass
		cls.Bases = append(cls.Bases, root)
		cls.AddUsage(RootObject)
	}

	inner := cur
	inner.Class = cls
	for _, n := range x.Members {
		if err := b.member(inner, n); err != nil {
			return nil, err
		}
	}
	return cls, nil
}

// baseList sorts base types into the class base and interfaces. Every base
// must be declared before the class.
func (b *Builder) baseList(cls *model.Class, nodes []syntax.Node) {
	for _, n := range nodes {
		typ := b.types.FromSyntax(n, false)
		switch {
		case b.types.IsClass(n):
			cls.Bases = append(cls.Bases, typ)
		default:
			if typ.Kind != semantic.TypeInterface {
				b.rep.Warnf(n.Position(), diag.CodeBaseListKind,
					"base %s of %s is neither class nor interface, treated as interface", syntax.Text(n), cls.NSFullName)
			}
			cls.Ifaces = append(cls.Ifaces, typ)
		}
		cls.AddUsage(typ.Symbol())
	}
}

// member visits one class member.
func (b *Builder) member(cur Cursor, n syntax.Node) error {
	cls := cur.Class
	switch x := n.(type) {
	case *syntax.FieldDecl:
		return b.field(cls, x)
	case *syntax.PropertyDecl:
		return b.property(cls, x)
	case *syntax.ConstructorDecl:
		return b.ctor(cls, x)
	case *syntax.DestructorDecl:
		return b.dtor(cls, x)
	case *syntax.MethodDecl:
		return b.method(cls, x)
	case *syntax.OperatorDecl:
		return b.operator(cls, x)
	case *syntax.DelegateDecl:
		m, err := b.delegate(cur, cls, x)
		if err != nil {
			return err
		}
		cls.Methods = append(cls.Methods, m)
	case *syntax.EnumDecl:
		cls.Enums = append(cls.Enums, b.enum(cur, x))
	case *syntax.ClassDecl:
		_, err := b.class(cur, x)
		return err
	case *syntax.ConversionOperatorDecl, *syntax.ConstraintClause:
		// not generated
	default:
		return diag.Unsupported(n, "class member")
	}
	return nil
}

// enum records an enum declaration. A ConvertTo attribute lists extra target
// types the wrapper converts to.
func (b *Builder) enum(cur Cursor, x *syntax.EnumDecl) *model.Enum {
	name := x.Name
	if s := b.sem.Declared(x); s != nil && s.Name != "" {
		name = s.Name
	}
	e := &model.Enum{Name: cppname.Name(name), Namespace: cur.Namespace}
	for _, a := range x.Attributes {
		if strings.TrimSuffix(a.Name, "Attribute") != "ConvertTo" {
			continue
		}
		for _, arg := range a.Args {
			e.ConvertTo = append(e.ConvertTo, cppname.Scoped(strings.Trim(arg, `"`)))
		}
	}
	return e
}

// createDefaultCtor adds a parameterless constructor that only runs $init
// to every class, nested ones included, that declares no constructor.
func (b *Builder) createDefaultCtor(cls *model.Class) {
	cls.Walk(func(c *model.Class) {
		if c.HasCtor || c.Interface {
			return
		}
		m := b.newCtor(c, nil)
		m.Type.Public = true
		m.Body.Write("{$init();}\n")
	})
}

// usesByValue records the class a value-typed member type depends on.
// Object references are pointers and need only the forward declaration.
func (b *Builder) usesByValue(cls *model.Class, typ *model.Type) {
	if typ == nil || typ.Kind != semantic.TypeEnum || typ.IsArray() {
		return
	}
	sym := typ.Symbol()
	if i := strings.LastIndex(sym, cppname.Scope); i != -1 {
		// nested enums need their declaring class
		cls.AddUsage(sym[:i])
	}
}

func joinScope(outer, name string) string {
	if outer == "" {
		return name
	}
	return outer + cppname.Scope + name
}
