package builder

import (
	"github.com/cmmoran/cs2cpp/internal/cppname"
	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/lower"
	"github.com/cmmoran/cs2cpp/internal/model"
	"github.com/cmmoran/cs2cpp/internal/syntax"
)

// field records a field declaration. Each initialized declarator gets an
// assignment statement; static ones are qualified with the class scope
// because they run from the library constructor.
func (b *Builder) field(cls *model.Class, x *syntax.FieldDecl) error {
	typ := b.types.FromSyntax(x.Decl.Type, false)
	f := &model.Field{Type: typ, Class: cls}
	cls.Fields = append(cls.Fields, f)
	b.usesByValue(cls, typ)

	for _, d := range x.Decl.Variables {
		name := d.Name
		if s := b.sem.Declared(d); s != nil {
			typ.Flags = model.FlagsOf(s)
			if s.Name != "" {
				name = s.Name
			}
		}
		v := &model.Variable{Name: cppname.Name(name)}
		f.Variables = append(f.Variables, v)
		if d.Init == nil {
			continue
		}

		cur := lower.NewCursor(cls, nil, &v.Init)
		value, err := b.low.Initializer(cur, typ, d.Init)
		if err != nil {
			return err
		}
		if typ.Static {
			cur.Out.Write(cls.NSFullName, cppname.Scope)
		}
		cur.Out.Write(v.Name, " = ", value, ";\n")
	}
	return nil
}

// property turns a property into a backing field plus $get_/$set_ accessor
// methods. Accessors missing in source are synthesized against the backing
// value, and the variable initializer binds both accessors.
func (b *Builder) property(cls *model.Class, x *syntax.PropertyDecl) error {
	sym := b.sem.Declared(x)
	name := x.Name
	if sym != nil && sym.Name != "" {
		name = sym.Name
	}
	typ := b.types.FromSyntax(x.Type, false)
	typ.Flags = model.FlagsOf(sym)
	typ.Public = true
	b.usesByValue(cls, typ)

	f := &model.Field{Type: typ, Class: cls, Property: true}
	v := &model.Variable{Name: name}
	f.Variables = append(f.Variables, v)
	cls.Fields = append(cls.Fields, f)

	for _, acc := range x.Accessors {
		switch acc.Kind {
		case syntax.AccessorGet:
			m := b.getter(cls, typ, name, acc.Position())
			if err := b.accessorBody(cls, m, acc.Body, "{return "+name+".Value;}\n"); err != nil {
				return err
			}
			f.Getter = true
		case syntax.AccessorSet:
			m := b.setter(cls, typ, name, acc.Position())
			if err := b.accessorBody(cls, m, acc.Body, "{"+name+".Value = value;}\n"); err != nil {
				return err
			}
			f.Setter = true
		}
	}
	if !f.Getter {
		b.getter(cls, typ, name, x.Position()).Body.Write("{return ", name, ".Value;}\n")
	}
	if !f.Setter {
		b.setter(cls, typ, name, x.Position()).Body.Write("{", name, ".Value = value;}\n")
	}

	v.Init.Write(name, ".Init(",
		"std::bind(&", cls.FullName, "::$get_", name, ", this),",
		"std::bind(&", cls.FullName, "::$set_", name, ", this, std::placeholders::_1)",
		");\n")
	return nil
}

func (b *Builder) getter(cls *model.Class, typ *model.Type, name string, pos syntax.Pos) *model.Method {
	rt := typ.Clone()
	rt.Virtual = true
	m := &model.Method{Pos: pos, Name: "$get_" + name, Class: cls, Type: rt}
	cls.Methods = append(cls.Methods, m)
	return m
}

func (b *Builder) setter(cls *model.Class, typ *model.Type, name string, pos syntax.Pos) *model.Method {
	rt := model.NewType("void")
	rt.Flags = typ.Flags
	rt.Virtual = true
	m := &model.Method{Pos: pos, Name: "$set_" + name, Class: cls, Type: rt}
	m.Args = append(m.Args, &model.Argument{Type: typ, Name: "value"})
	cls.Methods = append(cls.Methods, m)
	return m
}

// accessorBody lowers an accessor body, or writes fallback for auto
// accessors.
func (b *Builder) accessorBody(cls *model.Class, m *model.Method, body *syntax.Block, fallback string) error {
	if body == nil {
		m.Body.Write(fallback)
		return nil
	}
	return b.low.Body(cls, m, body)
}

// newCtor appends a constructor shell to cls.
func (b *Builder) newCtor(cls *model.Class, pos *syntax.Pos) *model.Method {
	m := &model.Method{Name: cls.Name, Class: cls, Type: model.NewType(""), Ctor: true}
	if pos != nil {
		m.Pos = *pos
	}
	cls.Methods = append(cls.Methods, m)
	cls.HasCtor = true
	return m
}

func (b *Builder) ctor(cls *model.Class, x *syntax.ConstructorDecl) error {
	pos := x.Position()
	m := b.newCtor(cls, &pos)
	m.Type.Flags = model.FlagsOf(b.sem.Declared(x))
	if err := b.params(cls, m, x.Params); err != nil {
		return err
	}

	if in := x.Initializer; in != nil {
		cur := lower.NewCursor(cls, m, &m.Body)
		args, err := b.low.Args(cur, in.Args)
		if err != nil {
			return err
		}
		switch in.Kind {
		case syntax.InitBase:
			if len(cls.Bases) == 0 {
				b.rep.Errorf(in.Position(), diag.CodeNoBaseClass, "base constructor call in %s without base class", cls.NSFullName)
			} else {
				m.BaseCtor = cls.Bases[0].CPPType() + "(" + args + ")\n"
			}
		case syntax.InitThis:
			m.BaseCtor = cls.Name + "(" + args + ")\n"
		}
	}
	return b.low.Body(cls, m, x.Body)
}

func (b *Builder) dtor(cls *model.Class, x *syntax.DestructorDecl) error {
	m := &model.Method{Pos: x.Position(), Name: "~" + cls.Name, Class: cls, Type: model.NewType(""), Dtor: true}
	m.Type.Flags = model.FlagsOf(b.sem.Declared(x))
	m.Type.Protected = false
	m.Type.Public = true
	m.Type.Virtual = true
	cls.Methods = append(cls.Methods, m)
	if x.Body == nil {
		return nil
	}
	return b.low.Body(cls, m, x.Body)
}

func (b *Builder) method(cls *model.Class, x *syntax.MethodDecl) error {
	sym := b.sem.Declared(x)
	name := x.Name
	if sym != nil && sym.Name != "" {
		name = sym.Name
	}
	m := &model.Method{Pos: x.Position(), Name: cppname.Name(name), Class: cls}
	if err := b.signature(cls, m, x.ReturnType, x.TypeParams, x.Params); err != nil {
		return err
	}
	m.Type.Flags = model.FlagsOf(sym)
	cls.Methods = append(cls.Methods, m)
	if x.Body == nil {
		return nil
	}
	return b.low.Body(cls, m, x.Body)
}

// operator records a user-defined operator on the program-wide operator
// list. Its body is still lowered in the context of the declaring class.
func (b *Builder) operator(cls *model.Class, x *syntax.OperatorDecl) error {
	sym := b.sem.Declared(x)
	if sym == nil || sym.Name == "" {
		b.rep.Errorf(x.Position(), diag.CodeUnresolved, "operator without symbol in %s", cls.NSFullName)
		return nil
	}
	m := &model.Method{Pos: x.Position(), Name: cppname.Operator(sym.Name), Class: cls, Operator: true}
	if err := b.signature(cls, m, x.ReturnType, nil, x.Params); err != nil {
		return err
	}
	m.Type.Flags = model.FlagsOf(sym)
	b.prog.Operators.Methods = append(b.prog.Operators.Methods, m)
	if x.Body == nil {
		return nil
	}
	return b.low.Body(cls, m, x.Body)
}

// delegate builds the typedef method for a delegate declared in owner.
func (b *Builder) delegate(cur Cursor, owner *model.Class, x *syntax.DelegateDecl) (*model.Method, error) {
	sym := b.sem.Declared(x)
	name := x.Name
	if sym != nil && sym.Name != "" {
		name = sym.Name
	}
	m := &model.Method{
		Pos:       x.Position(),
		Name:      cppname.Name(name),
		Class:     owner,
		Delegate:  true,
		Namespace: cur.Namespace,
	}
	if err := b.signature(owner, m, x.ReturnType, x.TypeParams, x.Params); err != nil {
		return nil, err
	}
	m.Type.Flags = model.FlagsOf(sym)
	return m, nil
}

// signature fills the return type, generic parameters and arguments of m.
func (b *Builder) signature(cls *model.Class, m *model.Method, ret syntax.Node, tps []*syntax.TypeParameter, ps []*syntax.Parameter) error {
	if ret == nil {
		m.Type = model.NewType("void")
	} else {
		m.Type = b.types.FromSyntax(ret, false)
		b.usesByValue(cls, m.Type)
	}
	if len(tps) > 0 {
		m.Generic = true
		m.Name += cppname.GenericSuffix
		for _, tp := range tps {
			m.GenericArgs = append(m.GenericArgs, b.types.FromTypeParameter(tp))
		}
	}
	return b.params(cls, m, ps)
}

// params appends the arguments of m. Untyped lambda-style parameters are
// declared auto. Default values are lowered in the method's context.
func (b *Builder) params(cls *model.Class, m *model.Method, ps []*syntax.Parameter) error {
	for _, p := range ps {
		var typ *model.Type
		if p.Type == nil {
			typ = &model.Type{Spelling: "auto", Primitive: true}
		} else {
			typ = b.types.FromSyntax(p.Type, false)
			b.usesByValue(cls, typ)
		}
		arg := &model.Argument{Type: typ, Name: b.low.ParamName(p)}
		m.Args = append(m.Args, arg)
		if p.Default == nil {
			continue
		}
		cur := lower.NewCursor(cls, m, &arg.Default)
		v, err := b.low.Expr(cur, p.Default, false)
		if err != nil {
			return err
		}
		arg.Default.Write(v)
	}
	return nil
}
