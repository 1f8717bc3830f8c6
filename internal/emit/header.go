package emit

import (
	"strings"

	"github.com/cmmoran/cs2cpp/internal/cppname"
	"github.com/cmmoran/cs2cpp/internal/model"
)

// header renders <target>.hpp: forward declarations for every class, then
// classless types, then class bodies in sorted order, then operators.
func (e *Emitter) header(prog *model.Program, sorted []*model.Class) (string, error) {
	var sb strings.Builder
	sb.WriteString(Marker)
	sb.WriteString("#ifndef __" + e.opts.Target + "__\n")
	sb.WriteString("#define __" + e.opts.Target + "__\n")
	sb.WriteString("#include <Core.hpp>\n")
	if e.opts.Library {
		lib, ok, err := e.fragment("library.hpp")
		if err != nil {
			return "", err
		}
		if ok {
			sb.WriteString(lib)
		}
	}
	for _, lib := range e.opts.Libs() {
		sb.WriteString("#include <" + lib + ".hpp>\n")
	}

	for _, c := range prog.Classes() {
		reflectionExtern(&sb, c)
		namespaced(&sb, c.Namespace, func() {
			sb.WriteString(templateHeader(c.GenericArgs, "template<"))
			if c.Generic {
				sb.WriteString("\n")
			}
			sb.WriteString("struct " + c.Name + ";\n")
		})
	}

	for _, m := range prog.Classless.Methods {
		namespaced(&sb, m.Namespace, func() {
			sb.WriteString(methodDecl(m))
			sb.WriteString(";\n")
		})
	}
	for _, en := range prog.Classless.Enums {
		namespaced(&sb, en.Namespace, func() {
			sb.WriteString(enumStruct(en) + en.Name + ";\n")
		})
	}

	for _, c := range sorted {
		namespaced(&sb, c.Namespace, func() {
			classDecl(&sb, c)
		})
		extra, ok, err := e.fragment("src/" + c.Name + ".hpp")
		if err != nil {
			return "", err
		}
		if ok {
			sb.WriteString(extra)
		}
	}

	for _, op := range prog.Operators.Methods {
		sb.WriteString(methodDecl(op))
		sb.WriteString(";\n")
	}
	sb.WriteString("#endif\n")
	return sb.String(), nil
}

// namespaced wraps whatever body writes in ns. The global namespace is not
// wrapped.
func namespaced(sb *strings.Builder, ns string, body func()) {
	if ns != "" {
		sb.WriteString(cppname.OpenNamespace(ns))
	}
	body()
	if ns != "" {
		sb.WriteString(cppname.CloseNamespace(ns))
	}
}

func reflectionExtern(sb *strings.Builder, c *model.Class) {
	c.Walk(func(c *model.Class) {
		flat := c.FlatName()
		sb.WriteString("namespace Core {\n")
		sb.WriteString("  extern Class Class_" + flat + ";\n")
		sb.WriteString("  extern System::Type Type_" + flat + ";\n")
		sb.WriteString("}\n")
	})
}

// templateHeader renders "<open>typename A,typename B>" for generic
// parameters, or nothing.
func templateHeader(args []*model.Type, open string) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, "typename "+a.Declaration())
	}
	return open + strings.Join(parts, ",") + ">"
}

// classDecl renders the body of c with nested classes inline.
func classDecl(sb *strings.Builder, c *model.Class) {
	if c.Generic {
		sb.WriteString(templateHeader(c.GenericArgs, "template< "))
	}
	if c.Outer != nil {
		sb.WriteString(c.Flags.Render(true))
	}
	sb.WriteString(" struct " + c.Name)
	var bases []string
	for _, b := range c.Bases {
		bases = append(bases, "public "+b.CPPType())
	}
	for _, b := range c.CPPBases {
		bases = append(bases, "public "+b)
	}
	for _, b := range c.Ifaces {
		bases = append(bases, "public "+b.CPPType())
	}
	if len(bases) > 0 {
		sb.WriteString(":" + strings.Join(bases, ","))
	}
	sb.WriteString("{\n")

	for _, in := range c.Inners {
		classDecl(sb, in)
	}
	for _, en := range c.Enums {
		sb.WriteString(enumStruct(en) + en.Name + ";\n")
	}
	inline := inTemplate(c)
	for _, m := range c.Methods {
		if !m.Delegate {
			continue
		}
		sb.WriteString(methodDecl(m))
		if inline || m.Generic {
			sb.WriteString(m.Body.String())
		}
		sb.WriteString(";\n")
	}
	for _, f := range c.Fields {
		if f.Type.Invalid {
			continue
		}
		sb.WriteString(fieldDecl(f))
	}

	usingDone := make(map[string]bool)
	for _, m := range c.Methods {
		if m.Delegate || m.Type.Invalid {
			continue
		}
		if len(c.Bases) > 0 && (m.Type.Override || c.HidesBase(m.Name)) && !usingDone[m.Name] {
			usingDone[m.Name] = true
			// keeps the base overloads visible
			sb.WriteString("using " + c.Bases[0].CPPType() + "::" + m.Name + ";\n")
		}
		sb.WriteString(methodDecl(m))
		if inline || m.Generic {
			switch {
			case m == c.Init():
				sb.WriteString(initBody(c))
			case !m.Type.Abstract:
				sb.WriteString(m.Body.String())
			}
		}
		sb.WriteString(";\n")
	}

	if !c.Interface {
		sb.WriteString("static System::Type* $GetType()")
		if c.Generic {
			sb.WriteString("{return &Core::Type_" + c.FlatName() + ";}\n")
		}
		sb.WriteString(";\n")
		if !isRoot(c) {
			sb.WriteString("virtual System::Type* GetType()")
			if c.Generic {
				sb.WriteString("{ return $GetType(); }")
			}
			sb.WriteString(";\n")
		}
	}
	sb.WriteString("};\n")
}

// initBody composes $init from the non-static field initializers in
// declaration order.
func initBody(c *model.Class) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, f := range c.Fields {
		if f.Type.Static {
			continue
		}
		for _, v := range f.Variables {
			sb.WriteString(v.Init.String())
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

func fieldDecl(f *model.Field) string {
	var sb strings.Builder
	t := f.Type
	for _, v := range f.Variables {
		sb.WriteString(t.Flags.Render(false))
		if f.Property {
			sb.WriteString(" Core::Property<")
		}
		sb.WriteString(" " + t.Declaration() + " ")
		if f.Property {
			sb.WriteString(">")
		}
		sb.WriteString(v.Name)
		if !t.Static && !f.Property && !t.Delegate {
			if t.Object || t.IsArray() {
				sb.WriteString(" = nullptr")
			} else {
				sb.WriteString(" = 0")
			}
		}
		sb.WriteString(";\n")
	}
	return sb.String()
}

// methodDecl renders a member declaration without the trailing semicolon.
// Delegates become std::function typedefs; operators carry their body.
func methodDecl(m *model.Method) string {
	var sb strings.Builder
	if m.Generic {
		sb.WriteString(templateHeader(m.GenericArgs, "template<") + "\n")
	}
	switch {
	case m.Operator:
		sb.WriteString("inline")
	case !m.Delegate:
		sb.WriteString(m.Type.Flags.Render(false))
	}
	sb.WriteString(" ")
	if m.Delegate {
		sb.WriteString("typedef std::function<")
	}
	sb.WriteString(m.Type.Declaration())
	sb.WriteString(" ")
	if !m.Delegate {
		sb.WriteString(m.Name)
	}
	sb.WriteString(m.ArgList(true))
	if m.Delegate {
		sb.WriteString(">" + m.Name)
	}
	if m.Type.Abstract {
		sb.WriteString("=0")
	}
	if m.Operator {
		sb.WriteString(m.Body.String())
	}
	return sb.String()
}

// enumStruct renders the int wrapper an enum becomes, up to the typedef
// name.
func enumStruct(en *model.Enum) string {
	var sb strings.Builder
	n := en.Name
	sb.WriteString("typedef struct " + n + "{\n")
	sb.WriteString("int value;\n")
	sb.WriteString(n + "() {value = 0;}\n")
	sb.WriteString(n + "(int initValue) {value = initValue;}\n")
	sb.WriteString("void operator=(int newValue) {value=newValue;}\n")
	sb.WriteString("operator int() {return value;}\n")
	for _, q := range en.ConvertTo {
		sb.WriteString("operator " + q + "() {return (" + q + ")value;}\n")
	}
	sb.WriteString("bool operator==(int other) {return value==other;}\n")
	sb.WriteString("bool operator!=(int other) {return value!=other;}\n")
	sb.WriteString("} ")
	return sb.String()
}
