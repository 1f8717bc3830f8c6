package syntax

import (
	"strings"
)

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(ns ...Node) {
		for _, c := range ns {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	switch x := n.(type) {
	case *CompilationUnit:
		add(x.Members...)
	case *NamespaceDecl:
		add(x.Members...)
	case *ClassDecl:
		for _, a := range x.Attributes {
			add(a)
		}
		for _, tp := range x.TypeParams {
			add(tp)
		}
		add(x.BaseList...)
		add(x.Members...)
	case *EnumDecl:
		for _, a := range x.Attributes {
			add(a)
		}
		for _, m := range x.Members {
			add(m)
		}
	case *EnumMember:
		add(x.Value)
	case *DelegateDecl:
		add(x.ReturnType)
		for _, tp := range x.TypeParams {
			add(tp)
		}
		for _, p := range x.Params {
			add(p)
		}
	case *FieldDecl:
		for _, a := range x.Attributes {
			add(a)
		}
		if x.Decl != nil {
			add(x.Decl)
		}
	case *VariableDecl:
		add(x.Type)
		for _, v := range x.Variables {
			add(v)
		}
	case *VariableDeclarator:
		add(x.Init)
	case *PropertyDecl:
		add(x.Type)
		for _, a := range x.Accessors {
			add(a)
		}
	case *Accessor:
		if x.Body != nil {
			add(x.Body)
		}
	case *ConstructorInitializer:
		add(x.Args...)
	case *ConstructorDecl:
		for _, p := range x.Params {
			add(p)
		}
		if x.Initializer != nil {
			add(x.Initializer)
		}
		if x.Body != nil {
			add(x.Body)
		}
	case *DestructorDecl:
		if x.Body != nil {
			add(x.Body)
		}
	case *MethodDecl:
		add(x.ReturnType)
		for _, tp := range x.TypeParams {
			add(tp)
		}
		for _, p := range x.Params {
			add(p)
		}
		if x.Body != nil {
			add(x.Body)
		}
	case *OperatorDecl:
		add(x.ReturnType)
		for _, p := range x.Params {
			add(p)
		}
		if x.Body != nil {
			add(x.Body)
		}
	case *Parameter:
		add(x.Type, x.Default)
	case *QualifiedName:
		add(x.Left, x.Right)
	case *GenericName:
		add(x.TypeArgs...)
	case *ArrayType:
		add(x.Element)
		for _, r := range x.Ranks {
			add(r)
		}
	case *ArrayRank:
		add(x.Size)
	case *PointerType:
		add(x.Element)
	case *Block:
		add(x.Stmts...)
	case *UnsafeStmt:
		if x.Body != nil {
			add(x.Body)
		}
	case *ExprStmt:
		add(x.X)
	case *LocalDeclStmt:
		if x.Decl != nil {
			add(x.Decl)
		}
	case *ReturnStmt:
		add(x.Value)
	case *WhileStmt:
		add(x.Cond, x.Body)
	case *DoStmt:
		add(x.Body, x.Cond)
	case *ForStmt:
		if x.Decl != nil {
			add(x.Decl)
		}
		add(x.Init...)
		add(x.Cond)
		add(x.Post...)
		add(x.Body)
	case *ForEachStmt:
		add(x.Type, x.Collection, x.Body)
	case *IfStmt:
		add(x.Cond, x.Then, x.Else)
	case *TryStmt:
		if x.Body != nil {
			add(x.Body)
		}
		for _, c := range x.Catches {
			add(c)
		}
		if x.Finally != nil {
			add(x.Finally)
		}
	case *CatchClause:
		add(x.Type)
		if x.Body != nil {
			add(x.Body)
		}
	case *ThrowStmt:
		add(x.X)
	case *FixedStmt:
		if x.Decl != nil {
			add(x.Decl)
		}
		add(x.Body)
	case *LockStmt:
		add(x.X, x.Body)
	case *SwitchStmt:
		add(x.Tag)
		for _, s := range x.Sections {
			add(s)
		}
	case *SwitchSection:
		add(x.Labels...)
		add(x.Stmts...)
	case *CaseLabel:
		add(x.Value)
	case *GotoCaseStmt:
		add(x.Value)
	case *MemberAccess:
		add(x.X, x.Name)
	case *AssignExpr:
		add(x.Left, x.Right)
	case *InvocationExpr:
		add(x.Fun)
		add(x.Args...)
	case *ObjectCreationExpr:
		add(x.Type)
		add(x.Args...)
	case *ArrayCreationExpr:
		if x.Type != nil {
			add(x.Type)
		}
		if x.Init != nil {
			add(x.Init)
		}
	case *ArrayInitializer:
		add(x.Elems...)
	case *CastExpr:
		add(x.Type, x.X)
	case *ElementAccessExpr:
		add(x.X)
		add(x.Index...)
	case *BinaryExpr:
		add(x.Left, x.Right)
	case *UnaryExpr:
		add(x.X)
	case *ParenExpr:
		add(x.X)
	case *PointerIndirectionExpr:
		add(x.X)
	case *PointerMemberAccessExpr:
		add(x.X, x.Name)
	case *LambdaExpr:
		for _, p := range x.Params {
			add(p)
		}
		if x.Body != nil {
			add(x.Body)
		}
	case *DefaultExpr:
		add(x.Type)
	case *TypeOfExpr:
		add(x.Type)
	case *IsExpr:
		add(x.X, x.Type)
	case *AsExpr:
		add(x.X, x.Type)
	case *ConditionalExpr:
		add(x.Cond, x.Then, x.Else)
	}
	return out
}

// Inspect calls f for n and, while f returns true, for its descendants in
// depth-first order.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Text renders name and type syntax the way it was written, e.g.
// "System.Collections.List<int>". Other nodes render as their kind.
func Text(n Node) string {
	switch x := n.(type) {
	case *PredefinedType:
		return x.Keyword
	case *IdentifierName:
		return x.Name
	case *QualifiedName:
		return Text(x.Left) + "." + Text(x.Right)
	case *GenericName:
		args := make([]string, 0, len(x.TypeArgs))
		for _, a := range x.TypeArgs {
			args = append(args, Text(a))
		}
		return x.Name + "<" + strings.Join(args, ",") + ">"
	case *ArrayType:
		return Text(x.Element) + strings.Repeat("[]", len(x.Ranks))
	case *PointerType:
		return Text(x.Element) + "*"
	case *MemberAccess:
		return Text(x.X) + "." + Text(x.Name)
	case *ThisExpr:
		return "this"
	case *BaseExpr:
		return "base"
	case *LiteralExpr:
		return x.Text
	}
	return KindOf(n)
}
