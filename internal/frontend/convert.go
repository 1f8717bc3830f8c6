package frontend

import (
	"github.com/cmmoran/cs2cpp/internal/errors"
	"github.com/cmmoran/cs2cpp/internal/semantic"
	"github.com/cmmoran/cs2cpp/internal/syntax"
)

// converter turns dump nodes of one file into syntax nodes and records their
// semantic facts in table.
type converter struct {
	file  string
	table *semantic.Table
}

func (c *converter) base(n *Node) syntax.Base {
	return syntax.Base{At: syntax.Pos{File: c.file, Line: n.Line}}
}

// shape reports a dump that does not fit the node set.
func (c *converter) shape(n *Node, format string, args ...any) error {
	err := errors.Newf(format, args...)
	return errors.Wrapf(err, "%s:%d", c.file, n.Line)
}

// slot converts the child stored under name. A missing child is the zero T.
func slot[T syntax.Node](c *converter, n *Node, name string) (T, error) {
	var zero T
	child := n.Slots[name]
	if child == nil {
		return zero, nil
	}
	out, err := c.node(child)
	if err != nil {
		return zero, err
	}
	t, ok := out.(T)
	if !ok {
		return zero, c.shape(child, "%s of %s can not be a %s", name, n.Kind, child.Kind)
	}
	return t, nil
}

// list converts the children stored under name.
func list[T syntax.Node](c *converter, n *Node, name string) ([]T, error) {
	children := n.Lists[name]
	if len(children) == 0 {
		return nil, nil
	}
	out := make([]T, 0, len(children))
	for _, child := range children {
		x, err := c.node(child)
		if err != nil {
			return nil, err
		}
		t, ok := x.(T)
		if !ok {
			return nil, c.shape(child, "%s of %s can not hold a %s", name, n.Kind, child.Kind)
		}
		out = append(out, t)
	}
	return out, nil
}

// node converts n and everything below it.
func (c *converter) node(n *Node) (syntax.Node, error) {
	out, err := c.variant(n)
	if err != nil {
		return nil, err
	}
	c.record(n, out)
	return out, nil
}

func (c *converter) record(n *Node, out syntax.Node) {
	if n.Decl != nil {
		c.table.Declare(out, n.Decl.symbol())
	}
	if n.Symbol != nil {
		c.table.Resolve(out, n.Symbol.symbol())
	}
	if n.Type != nil {
		c.table.SetType(out, n.Type.typ())
	}
	if n.Const != nil {
		c.table.SetConstant(out, *n.Const)
	}
}

func (s *Symbol) symbol() *semantic.Symbol {
	return &semantic.Symbol{
		Name:       s.Name,
		Display:    s.Display,
		Kind:       semantic.ParseSymbolKind(s.Kind),
		Access:     semantic.ParseAccess(s.Access),
		Static:     s.Static,
		Abstract:   s.Abstract,
		Virtual:    s.Virtual,
		Override:   s.Override,
		Extern:     s.Extern,
		Sealed:     s.Sealed,
		Containing: s.Containing,
		Inherited:  append([]string(nil), s.Inherited...),
	}
}

func (t *Type) typ() *semantic.Type {
	return &semantic.Type{
		Display: t.Display,
		Kind:    semantic.ParseTypeKind(t.Kind),
		ID:      semantic.TypeID(t.ID),
		Static:  t.Static,
	}
}

var (
	classKinds = map[string]syntax.ClassKind{
		"": syntax.ClassKindClass, "class": syntax.ClassKindClass,
		"struct": syntax.ClassKindStruct, "interface": syntax.ClassKindInterface,
	}
	accessorKinds = map[string]syntax.AccessorKind{
		"get": syntax.AccessorGet, "set": syntax.AccessorSet,
	}
	initializerKinds = map[string]syntax.InitializerKind{
		"base": syntax.InitBase, "this": syntax.InitThis,
	}
	literalKinds = map[string]syntax.LiteralKind{
		"null": syntax.LiteralNull, "true": syntax.LiteralTrue, "false": syntax.LiteralFalse,
		"numeric": syntax.LiteralNumeric, "string": syntax.LiteralString, "char": syntax.LiteralChar,
	}
)

func lookup[K comparable](c *converter, n *Node, table map[string]K) (K, error) {
	k, ok := table[n.Attrs["kind"]]
	if !ok {
		return k, c.shape(n, "%s has unknown kind %q", n.Kind, n.Attrs["kind"])
	}
	return k, nil
}

// variant builds the syntax node for n.Kind. Kinds outside the node set are
// fatal.
func (c *converter) variant(n *Node) (syntax.Node, error) {
	if n == nil {
		return nil, errors.New("nil node")
	}
	b := c.base(n)
	var err error
	// keep returns the first error seen while filling fields.
	keep := func(e error) {
		if err == nil {
			err = e
		}
	}
	node := func(name string) syntax.Node {
		x, e := slot[syntax.Node](c, n, name)
		keep(e)
		return x
	}
	nodes := func(name string) []syntax.Node {
		x, e := list[syntax.Node](c, n, name)
		keep(e)
		return x
	}
	block := func(name string) *syntax.Block {
		x, e := slot[*syntax.Block](c, n, name)
		keep(e)
		return x
	}
	vars := func() *syntax.VariableDecl {
		x, e := slot[*syntax.VariableDecl](c, n, "decl")
		keep(e)
		return x
	}
	params := func() []*syntax.Parameter {
		x, e := list[*syntax.Parameter](c, n, "params")
		keep(e)
		return x
	}
	typeParams := func() []*syntax.TypeParameter {
		x, e := list[*syntax.TypeParameter](c, n, "typeParams")
		keep(e)
		return x
	}
	attributes := func() []*syntax.Attribute {
		x, e := list[*syntax.Attribute](c, n, "attributes")
		keep(e)
		return x
	}

	var out syntax.Node
	switch n.Kind {
	// declarations
	case "CompilationUnit":
		out = &syntax.CompilationUnit{Base: b, Path: c.file, Members: nodes("members")}
	case "UsingDirective":
		out = &syntax.UsingDirective{Base: b, Name: n.Name}
	case "NamespaceDecl":
		out = &syntax.NamespaceDecl{Base: b, Name: n.Name, Members: nodes("members")}
	case "ClassDecl":
		kind, e := lookup(c, n, classKinds)
		keep(e)
		out = &syntax.ClassDecl{
			Base: b, Kind: kind, Name: n.Name,
			Attributes: attributes(), TypeParams: typeParams(),
			BaseList: nodes("baseList"), Members: nodes("members"),
		}
	case "TypeParameter":
		out = &syntax.TypeParameter{Base: b, Name: n.Name}
	case "Attribute":
		out = &syntax.Attribute{Base: b, Name: n.Name, Args: append([]string(nil), n.Args...)}
	case "EnumDecl":
		members, e := list[*syntax.EnumMember](c, n, "members")
		keep(e)
		out = &syntax.EnumDecl{Base: b, Name: n.Name, Attributes: attributes(), Members: members}
	case "EnumMember":
		out = &syntax.EnumMember{Base: b, Name: n.Name, Value: node("value")}
	case "DelegateDecl":
		out = &syntax.DelegateDecl{Base: b, ReturnType: node("returnType"), Name: n.Name, TypeParams: typeParams(), Params: params()}
	case "FieldDecl":
		out = &syntax.FieldDecl{Base: b, Attributes: attributes(), Decl: vars()}
	case "VariableDecl":
		declarators, e := list[*syntax.VariableDeclarator](c, n, "variables")
		keep(e)
		out = &syntax.VariableDecl{Base: b, Type: node("type"), Variables: declarators}
	case "VariableDeclarator":
		out = &syntax.VariableDeclarator{Base: b, Name: n.Name, Init: node("init")}
	case "PropertyDecl":
		accessors, e := list[*syntax.Accessor](c, n, "accessors")
		keep(e)
		out = &syntax.PropertyDecl{Base: b, Type: node("type"), Name: n.Name, Accessors: accessors}
	case "Accessor":
		kind, e := lookup(c, n, accessorKinds)
		keep(e)
		out = &syntax.Accessor{Base: b, Kind: kind, Body: block("body")}
	case "ConstructorInitializer":
		kind, e := lookup(c, n, initializerKinds)
		keep(e)
		out = &syntax.ConstructorInitializer{Base: b, Kind: kind, Args: nodes("args")}
	case "ConstructorDecl":
		ctorInit, e := slot[*syntax.ConstructorInitializer](c, n, "initializer")
		keep(e)
		out = &syntax.ConstructorDecl{Base: b, Params: params(), Initializer: ctorInit, Body: block("body")}
	case "DestructorDecl":
		out = &syntax.DestructorDecl{Base: b, Body: block("body")}
	case "MethodDecl":
		out = &syntax.MethodDecl{
			Base: b, ReturnType: node("returnType"), Name: n.Name,
			TypeParams: typeParams(), Params: params(), Body: block("body"),
		}
	case "OperatorDecl":
		out = &syntax.OperatorDecl{Base: b, ReturnType: node("returnType"), Params: params(), Body: block("body")}
	case "ConversionOperatorDecl":
		out = &syntax.ConversionOperatorDecl{Base: b}
	case "ConstraintClause":
		out = &syntax.ConstraintClause{Base: b}
	case "Parameter":
		out = &syntax.Parameter{Base: b, Name: n.Name, Type: node("type"), Default: node("default")}

	// type syntax
	case "PredefinedType":
		out = &syntax.PredefinedType{Base: b, Keyword: n.Name}
	case "IdentifierName":
		out = &syntax.IdentifierName{Base: b, Name: n.Name}
	case "QualifiedName":
		out = &syntax.QualifiedName{Base: b, Left: node("left"), Right: node("right")}
	case "GenericName":
		out = &syntax.GenericName{Base: b, Name: n.Name, TypeArgs: nodes("typeArgs")}
	case "ArrayType":
		ranks, e := list[*syntax.ArrayRank](c, n, "ranks")
		keep(e)
		out = &syntax.ArrayType{Base: b, Element: node("element"), Ranks: ranks}
	case "ArrayRank":
		out = &syntax.ArrayRank{Base: b, Size: node("size")}
	case "PointerType":
		out = &syntax.PointerType{Base: b, Element: node("element")}

	// statements
	case "Block":
		out = &syntax.Block{Base: b, Stmts: nodes("stmts")}
	case "UnsafeStmt":
		out = &syntax.UnsafeStmt{Base: b, Body: block("body")}
	case "ExprStmt":
		out = &syntax.ExprStmt{Base: b, X: node("x")}
	case "LocalDeclStmt":
		out = &syntax.LocalDeclStmt{Base: b, Decl: vars()}
	case "ReturnStmt":
		out = &syntax.ReturnStmt{Base: b, Value: node("value")}
	case "WhileStmt":
		out = &syntax.WhileStmt{Base: b, Cond: node("cond"), Body: node("body")}
	case "DoStmt":
		out = &syntax.DoStmt{Base: b, Body: node("body"), Cond: node("cond")}
	case "ForStmt":
		out = &syntax.ForStmt{Base: b, Decl: vars(), Init: nodes("init"), Cond: node("cond"), Post: nodes("post"), Body: node("body")}
	case "ForEachStmt":
		out = &syntax.ForEachStmt{Base: b, Type: node("type"), Name: n.Name, Collection: node("collection"), Body: node("body")}
	case "IfStmt":
		out = &syntax.IfStmt{Base: b, Cond: node("cond"), Then: node("then"), Else: node("else")}
	case "TryStmt":
		catches, e := list[*syntax.CatchClause](c, n, "catches")
		keep(e)
		out = &syntax.TryStmt{Base: b, Body: block("body"), Catches: catches, Finally: block("finally")}
	case "CatchClause":
		out = &syntax.CatchClause{Base: b, Type: node("type"), Name: n.Name, Body: block("body")}
	case "ThrowStmt":
		out = &syntax.ThrowStmt{Base: b, X: node("x")}
	case "FixedStmt":
		out = &syntax.FixedStmt{Base: b, Decl: vars(), Body: node("body")}
	case "LockStmt":
		out = &syntax.LockStmt{Base: b, X: node("x"), Body: node("body")}
	case "SwitchStmt":
		sections, e := list[*syntax.SwitchSection](c, n, "sections")
		keep(e)
		out = &syntax.SwitchStmt{Base: b, Tag: node("tag"), Sections: sections}
	case "SwitchSection":
		out = &syntax.SwitchSection{Base: b, Labels: nodes("labels"), Stmts: nodes("stmts")}
	case "CaseLabel":
		out = &syntax.CaseLabel{Base: b, Value: node("value")}
	case "DefaultLabel":
		out = &syntax.DefaultLabel{Base: b}
	case "BreakStmt":
		out = &syntax.BreakStmt{Base: b}
	case "ContinueStmt":
		out = &syntax.ContinueStmt{Base: b}
	case "GotoCaseStmt":
		out = &syntax.GotoCaseStmt{Base: b, Value: node("value")}
	case "GotoDefaultStmt":
		out = &syntax.GotoDefaultStmt{Base: b}

	// expressions
	case "MemberAccess":
		out = &syntax.MemberAccess{Base: b, X: node("x"), Name: node("name")}
	case "AssignExpr":
		out = &syntax.AssignExpr{Base: b, Op: n.Op, Left: node("left"), Right: node("right")}
	case "InvocationExpr":
		out = &syntax.InvocationExpr{Base: b, Fun: node("fun"), Args: nodes("args")}
	case "ObjectCreationExpr":
		out = &syntax.ObjectCreationExpr{Base: b, Type: node("type"), Args: nodes("args")}
	case "ArrayCreationExpr":
		typ, e := slot[*syntax.ArrayType](c, n, "type")
		keep(e)
		elems, e := slot[*syntax.ArrayInitializer](c, n, "init")
		keep(e)
		out = &syntax.ArrayCreationExpr{Base: b, Type: typ, Init: elems}
	case "ArrayInitializer":
		out = &syntax.ArrayInitializer{Base: b, Elems: nodes("elems")}
	case "LiteralExpr":
		kind, e := lookup(c, n, literalKinds)
		keep(e)
		out = &syntax.LiteralExpr{Base: b, Kind: kind, Text: n.Text}
	case "BaseExpr":
		out = &syntax.BaseExpr{Base: b}
	case "ThisExpr":
		out = &syntax.ThisExpr{Base: b}
	case "CastExpr":
		out = &syntax.CastExpr{Base: b, Type: node("type"), X: node("x")}
	case "ElementAccessExpr":
		out = &syntax.ElementAccessExpr{Base: b, X: node("x"), Index: nodes("index")}
	case "BinaryExpr":
		out = &syntax.BinaryExpr{Base: b, Op: n.Op, Left: node("left"), Right: node("right")}
	case "UnaryExpr":
		out = &syntax.UnaryExpr{Base: b, Op: n.Op, Postfix: n.Attrs["postfix"] == "true", X: node("x")}
	case "ParenExpr":
		out = &syntax.ParenExpr{Base: b, X: node("x")}
	case "PointerIndirectionExpr":
		out = &syntax.PointerIndirectionExpr{Base: b, X: node("x")}
	case "PointerMemberAccessExpr":
		out = &syntax.PointerMemberAccessExpr{Base: b, X: node("x"), Name: node("name")}
	case "LambdaExpr":
		out = &syntax.LambdaExpr{Base: b, Params: params(), Body: block("body")}
	case "DefaultExpr":
		out = &syntax.DefaultExpr{Base: b, Type: node("type")}
	case "TypeOfExpr":
		out = &syntax.TypeOfExpr{Base: b, Type: node("type")}
	case "IsExpr":
		out = &syntax.IsExpr{Base: b, X: node("x"), Type: node("type")}
	case "AsExpr":
		out = &syntax.AsExpr{Base: b, X: node("x"), Type: node("type")}
	case "ConditionalExpr":
		out = &syntax.ConditionalExpr{Base: b, Cond: node("cond"), Then: node("then"), Else: node("else")}
	default:
		e := errors.Newf("unknown node kind %q at %s", n.Kind, b.At)
		return nil, errors.Mark(e, errors.ErrUnsupported)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
