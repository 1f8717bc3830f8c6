package lower

import (
	"strconv"
	"strings"

	"github.com/cmmoran/cs2cpp/internal/cppname"
	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/logger"
	"github.com/cmmoran/cs2cpp/internal/semantic"
	"github.com/cmmoran/cs2cpp/internal/syntax"
)

// Stmt lowers one statement into cur.Out. Counted problems are reported and
// lowering continues; an unsupported statement aborts with an error.
func (l *Lowerer) Stmt(cur *Cursor, n syntax.Node) error {
	if n == nil {
		return diag.Unsupported(n, "statement")
	}
	l.log.Logw(logger.TraceLevel, "statement", "kind", syntax.KindOf(n), "at", n.Position().String())

	switch x := n.(type) {
	case *syntax.Block:
		return l.Block(cur, x, BlockOptions{})
	case *syntax.UnsafeStmt:
		return l.Block(cur, x.Body, BlockOptions{})
	case *syntax.ExprStmt:
		return l.exprStmt(cur, x.X)
	case *syntax.LocalDeclStmt:
		s, err := l.localDecl(cur, x.Decl)
		if err != nil {
			return err
		}
		cur.Out.Write(s, ";\n")
	case *syntax.ReturnStmt:
		return l.returnStmt(cur, x)
	case *syntax.WhileStmt:
		cond, err := l.Expr(cur, x.Cond, false)
		if err != nil {
			return err
		}
		cur.Out.Write("while (", cond, ")")
		return l.loopBody(cur, x.Body)
	case *syntax.DoStmt:
		cur.Out.Write("do ")
		if err := l.loopBody(cur, x.Body); err != nil {
			return err
		}
		cond, err := l.Expr(cur, x.Cond, false)
		if err != nil {
			return err
		}
		cur.Out.Write(" while (", cond, ");\n")
	case *syntax.ForStmt:
		return l.forStmt(cur, x)
	case *syntax.ForEachStmt:
		return l.forEachStmt(cur, x)
	case *syntax.IfStmt:
		cond, err := l.Expr(cur, x.Cond, false)
		if err != nil {
			return err
		}
		cur.Out.Write("if (", cond, ")")
		if err := l.Stmt(cur, x.Then); err != nil {
			return err
		}
		if x.Else != nil {
			cur.Out.Write(" else ")
			return l.Stmt(cur, x.Else)
		}
	case *syntax.TryStmt:
		return l.tryStmt(cur, x)
	case *syntax.ThrowStmt:
		if x.X == nil {
			cur.Out.Write("std::rethrow_exception(std::current_exception());")
			return nil
		}
		v, err := l.Expr(cur, x.X, false)
		if err != nil {
			return err
		}
		cur.Out.Write("throw ", v, ";")
	case *syntax.FixedStmt:
		return l.fixedStmt(cur, x)
	case *syntax.LockStmt:
		return l.lockStmt(cur, x)
	case *syntax.SwitchStmt:
		if l.types.IsString(x.Tag) {
			return l.stringSwitch(cur, x)
		}
		return l.intSwitch(cur, x)
	case *syntax.BreakStmt:
		cur.Out.Write("break;\n")
	case *syntax.ContinueStmt:
		l.continueStmt(cur)
	case *syntax.GotoCaseStmt:
		l.gotoCase(cur, x)
	case *syntax.GotoDefaultStmt:
		l.gotoDefault(cur, x)
	default:
		return diag.Unsupported(n, "statement")
	}
	return nil
}

// loopBody lowers the body of a loop with the loop pushed as the target of
// continue.
func (l *Lowerer) loopBody(cur *Cursor, body syntax.Node) error {
	cur.scopes = append(cur.scopes, &jumpScope{loop: true})
	defer func() { cur.scopes = cur.scopes[:len(cur.scopes)-1] }()
	return l.Stmt(cur, body)
}

func (l *Lowerer) continueStmt(cur *Cursor) {
	if n := len(cur.scopes); n > 0 && !cur.scopes[n-1].loop {
		s := cur.scopes[n-1]
		s.used = true
		cur.Out.Write(s.cont, " = true;\nbreak;\n")
		return
	}
	cur.Out.Write("continue;\n")
}

func (l *Lowerer) exprStmt(cur *Cursor, n syntax.Node) error {
	v, err := l.Expr(cur, n, false)
	if err != nil {
		return err
	}
	cur.Out.Write(v, ";\n")
	return nil
}

func (l *Lowerer) returnStmt(cur *Cursor, x *syntax.ReturnStmt) error {
	if x.Value == nil {
		cur.Out.Write("return ;\n")
		return nil
	}
	v, err := l.Expr(cur, x.Value, false)
	if err != nil {
		return err
	}
	if cur.returnsObject() {
		cur.Out.Write("$ret = ", v, ";\nreturn $ret;\n")
		return nil
	}
	cur.Out.Write("return ", v, ";\n")
	return nil
}

// forStmt lowers a for loop. Several declarators do not fit the init slot
// when their types carry pointer markers, so they are hoisted into a block
// around the loop.
func (l *Lowerer) forStmt(cur *Cursor, x *syntax.ForStmt) error {
	var inits []string
	hoisted := x.Decl != nil && len(x.Decl.Variables) > 1
	if x.Decl != nil {
		d, err := l.localDecl(cur, x.Decl)
		if err != nil {
			return err
		}
		if hoisted {
			cur.Out.Write("{", d, ";\n")
		} else {
			inits = append(inits, d)
		}
	}
	for _, in := range x.Init {
		v, err := l.Expr(cur, in, false)
		if err != nil {
			return err
		}
		inits = append(inits, v)
	}
	cond := ""
	if x.Cond != nil {
		var err error
		if cond, err = l.Expr(cur, x.Cond, false); err != nil {
			return err
		}
	}
	post, err := l.list(cur, x.Post, ",")
	if err != nil {
		return err
	}
	cur.Out.Write("for(", strings.Join(inits, ","), ";", cond, ";", post, ")")
	if err := l.loopBody(cur, x.Body); err != nil {
		return err
	}
	if hoisted {
		cur.Out.Write("}\n")
	}
	return nil
}

func (l *Lowerer) forEachStmt(cur *Cursor, x *syntax.ForEachStmt) error {
	name := x.Name
	if s := l.sem.Declared(x); s != nil && s.Name != "" {
		name = s.Name
	}
	name = cppname.Name(name)
	decl := l.types.FromSyntax(x.Type, false).Declaration()
	coll, err := l.Expr(cur, x.Collection, false)
	if err != nil {
		return err
	}
	enum := "$enum_" + strconv.Itoa(cur.Class.NextEnumerator())

	cur.Out.Write("{", decl, " ", name, ";\n")
	cur.Out.Write("System::Collections::IEnumerator$T<", decl, ">* ", enum, " = ", coll, "->GetEnumerator();\n")
	cur.Out.Write("while (", enum, "->MoveNext()) {\n")
	cur.Out.Write(name, " = ", enum, "->$get_Current();\n")
	if err := l.loopBody(cur, x.Body); err != nil {
		return err
	}
	cur.Out.Write("}}\n")
	return nil
}

func (l *Lowerer) fixedStmt(cur *Cursor, x *syntax.FixedStmt) error {
	cur.Out.Write("{\n")
	if x.Decl != nil {
		typ := l.types.FromSyntax(x.Decl.Type, false)
		for _, v := range x.Decl.Variables {
			cur.Out.Write(typ.Declaration(), " ", l.declaratorName(v))
			if v.Init != nil {
				init, err := l.Initializer(cur, typ, v.Init)
				if err != nil {
					return err
				}
				cur.Out.Write(" = ", init)
			}
			cur.Out.Write(".get()->data();\n")
		}
	}
	if err := l.Stmt(cur, x.Body); err != nil {
		return err
	}
	cur.Out.Write("}\n")
	return nil
}

func (l *Lowerer) lockStmt(cur *Cursor, x *syntax.LockStmt) error {
	if !l.types.TypeIs(x.X, semantic.WellKnownLock) {
		want := l.sem.WellKnown(semantic.WellKnownLock)
		l.rep.Errorf(x.X.Position(), diag.CodeLockType, "lock {} must use %s (Type=%s)", want, l.types.TypeName(x.X))
		return nil
	}
	v, err := l.Expr(cur, x.X, false)
	if err != nil {
		return err
	}
	cur.Out.Write("{$LockHolder $lock", strconv.Itoa(cur.Class.NextLock()), "(", v, ");")
	if b, ok := x.Body.(*syntax.Block); ok {
		if err := l.Block(cur, b, BlockOptions{}); err != nil {
			return err
		}
	} else if err := l.Stmt(cur, x.Body); err != nil {
		return err
	}
	cur.Out.Write("}\n")
	return nil
}

// localDecl renders a local variable declaration without the trailing
// semicolon. Several declarators become separate declarations joined by ";".
func (l *Lowerer) localDecl(cur *Cursor, d *syntax.VariableDecl) (string, error) {
	typ := l.types.FromSyntax(d.Type, false)
	var sb strings.Builder
	for i, v := range d.Variables {
		if i > 0 {
			sb.WriteString(";")
		}
		sb.WriteString(typ.Declaration())
		sb.WriteString(" ")
		sb.WriteString(l.declaratorName(v))
		if v.Init != nil {
			init, err := l.Initializer(cur, typ, v.Init)
			if err != nil {
				return "", err
			}
			sb.WriteString(" = ")
			sb.WriteString(init)
		}
	}
	return sb.String(), nil
}

func (l *Lowerer) declaratorName(v *syntax.VariableDeclarator) string {
	if s := l.sem.Declared(v); s != nil && s.Name != "" {
		return cppname.Name(cppname.Scoped(s.Name))
	}
	return cppname.Name(v.Name)
}
