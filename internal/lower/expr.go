package lower

import (
	"strings"

	"github.com/cmmoran/cs2cpp/internal/cppname"
	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/semantic"
	"github.com/cmmoran/cs2cpp/internal/syntax"
)

// widening casts applied to the right operand of string and numeric
// concatenation so narrow integers are not appended as characters.
var addWidening = map[string]string{
	"char":   "(char16)",
	"short":  "(int32)",
	"sbyte":  "(int32)",
	"ushort": "(uint32)",
	"byte":   "(uint32)",
}

// Expr lowers an expression. With useName, symbols are spelled with their
// simple name rather than the qualified one.
func (l *Lowerer) Expr(cur *Cursor, n syntax.Node, useName bool) (string, error) {
	switch x := n.(type) {
	case *syntax.IdentifierName, *syntax.PredefinedType, *syntax.QualifiedName, *syntax.GenericName:
		return l.name(cur, n, useName), nil
	case *syntax.MemberAccess:
		return l.memberAccess(cur, x)
	case *syntax.AssignExpr:
		return l.assign(cur, x)
	case *syntax.InvocationExpr:
		fun, err := l.Expr(cur, x.Fun, true)
		if err != nil {
			return "", err
		}
		args, err := l.Args(cur, x.Args)
		if err != nil {
			return "", err
		}
		return fun + "(" + args + ")", nil
	case *syntax.ObjectCreationExpr:
		typ, err := l.Expr(cur, x.Type, false)
		if err != nil {
			return "", err
		}
		args, err := l.Args(cur, x.Args)
		if err != nil {
			return "", err
		}
		return "(new " + typ + "(" + args + "))", nil
	case *syntax.ArrayCreationExpr:
		return l.arrayCreation(cur, x)
	case *syntax.LiteralExpr:
		return l.literal(x), nil
	case *syntax.BaseExpr:
		if len(cur.Class.Bases) == 0 {
			l.rep.Errorf(x.Position(), diag.CodeNoBaseClass, "base used in %s which has no base class", cur.Class.FullName)
			return "", nil
		}
		return cur.Class.Bases[0].CPPType(), nil
	case *syntax.ThisExpr:
		return "this", nil
	case *syntax.CastExpr:
		typ := l.types.FromSyntax(x.Type, false)
		v, err := l.Expr(cur, x.X, false)
		if err != nil {
			return "", err
		}
		if typ.Object {
			return "dynamic_cast<" + typ.Declaration() + ">(" + v + ")", nil
		}
		return "static_cast<" + typ.Declaration() + ">(" + v + ")", nil
	case *syntax.ElementAccessExpr:
		arr, err := l.Expr(cur, x.X, false)
		if err != nil {
			return "", err
		}
		idx, err := l.list(cur, x.Index, ",")
		if err != nil {
			return "", err
		}
		return arr + "->at(" + idx + ")", nil
	case *syntax.BinaryExpr:
		return l.binary(cur, x)
	case *syntax.UnaryExpr:
		v, err := l.Expr(cur, x.X, false)
		if err != nil {
			return "", err
		}
		if x.Postfix {
			return v + x.Op, nil
		}
		return x.Op + v, nil
	case *syntax.ParenExpr:
		v, err := l.Expr(cur, x.X, false)
		if err != nil {
			return "", err
		}
		return "(" + v + ")", nil
	case *syntax.PointerIndirectionExpr:
		v, err := l.Expr(cur, x.X, false)
		if err != nil {
			return "", err
		}
		return "*" + v, nil
	case *syntax.PointerMemberAccessExpr:
		left, err := l.Expr(cur, x.X, false)
		if err != nil {
			return "", err
		}
		right, err := l.Expr(cur, x.Name, true)
		if err != nil {
			return "", err
		}
		return left + "->" + right, nil
	case *syntax.LambdaExpr:
		return l.lambda(cur, x)
	case *syntax.DefaultExpr:
		return l.types.FromSyntax(x.Type, false).CPPType() + "()", nil
	case *syntax.TypeOfExpr:
		return l.types.FromSyntax(x.Type, false).CoreType(), nil
	case *syntax.IsExpr:
		typ := l.types.FromSyntax(x.Type, false)
		v, err := l.Expr(cur, x.X, false)
		if err != nil {
			return "", err
		}
		return v + "->GetType()->IsDerivedFrom(" + typ.CoreType() + ")", nil
	case *syntax.AsExpr:
		typ := l.types.FromSyntax(x.Type, false)
		v, err := l.Expr(cur, x.X, false)
		if err != nil {
			return "", err
		}
		return "(" + typ.CoreType() + "->IsDerivedFrom(" + v + "->GetType()) ? dynamic_cast<" +
			typ.Declaration() + ">(" + v + ") : nullptr)", nil
	case *syntax.ConditionalExpr:
		parts, err := l.each(cur, x.Cond, x.Then, x.Else)
		if err != nil {
			return "", err
		}
		return "(" + parts[0] + "?" + parts[1] + ":" + parts[2] + ")", nil
	case *syntax.VariableDecl:
		return l.localDecl(cur, x)
	default:
		return "", diag.Unsupported(n, "expression")
	}
}

// name spells a simple or qualified name. Inside a property's own accessor
// the property refers to its backing storage.
func (l *Lowerer) name(cur *Cursor, n syntax.Node, useName bool) string {
	if v, ok := l.types.Constant(n, true); ok {
		return v
	}
	out := l.types.FromSyntax(n, useName).CPPType()
	if l.ownProperty(cur, n) {
		out += ".Value"
	}
	return out
}

func (l *Lowerer) ownProperty(cur *Cursor, n syntax.Node) bool {
	if cur.Method == nil {
		return false
	}
	s := l.sem.Resolved(n)
	if s == nil || s.Kind != semantic.SymbolProperty || s.Containing == "" {
		return false
	}
	owner := cppname.StripTemplate(s.Containing)
	if i := strings.LastIndex(owner, "."); i != -1 {
		owner = owner[i+1:]
	}
	if cppname.Name(owner) != strings.TrimSuffix(cur.Class.Name, cppname.GenericSuffix) {
		return false
	}
	return cur.Method.Name == "$get_"+s.Name || cur.Method.Name == "$set_"+s.Name
}

// memberAccess uses the scope operator for static members, base calls, enum
// values, namespaces and nested types. Instance members go through $check,
// the runtime null-pointer guard.
func (l *Lowerer) memberAccess(cur *Cursor, x *syntax.MemberAccess) (string, error) {
	if v, ok := l.types.Constant(x, true); ok {
		return v, nil
	}
	_, isBase := x.X.(*syntax.BaseExpr)
	if l.types.IsStatic(x.Name) || isBase || l.types.IsEnum(x.X) || l.types.IsNamespace(x.X) ||
		(l.types.IsNamedType(x.X) && l.types.IsNamedType(x.Name)) {
		left, err := l.Expr(cur, x.X, false)
		if err != nil {
			return "", err
		}
		right, err := l.Expr(cur, x.Name, true)
		if err != nil {
			return "", err
		}
		return left + "::" + right, nil
	}
	left, err := l.Expr(cur, x.X, true)
	if err != nil {
		return "", err
	}
	right, err := l.Expr(cur, x.Name, true)
	if err != nil {
		return "", err
	}
	return "$check(" + left + ")->" + right, nil
}

func (l *Lowerer) assign(cur *Cursor, x *syntax.AssignExpr) (string, error) {
	if x.Op == "=" {
		parts, err := l.each(cur, x.Left, x.Right)
		if err != nil {
			return "", err
		}
		return parts[0] + " = " + parts[1], nil
	}
	target, err := l.Expr(cur, x.Left, true)
	if err != nil {
		return "", err
	}
	parts, err := l.each(cur, x.Left, x.Right)
	if err != nil {
		return "", err
	}
	left, right := parts[0], parts[1]
	switch op := strings.TrimSuffix(x.Op, "="); op {
	case "+":
		return target + "= " + l.addCall(x.Left, x.Right) + left + "," + addWidening[l.types.TypeName(x.Right)] + right + ")", nil
	case "%":
		return target + "= Core::mod" + l.modSuffix(x.Left, x.Right) + "(" + left + "," + right + ")", nil
	case "-", "*", "/", "|", "&", "^", "<<", ">>":
		return target + " = " + left + op + "(" + right + ")", nil
	default:
		return "", diag.Unsupported(x, "assignment operator "+x.Op)
	}
}

func (l *Lowerer) binary(cur *Cursor, x *syntax.BinaryExpr) (string, error) {
	parts, err := l.each(cur, x.Left, x.Right)
	if err != nil {
		return "", err
	}
	left, right := parts[0], parts[1]
	switch x.Op {
	case "+":
		return l.addCall(x.Left, x.Right) + left + "," + addWidening[l.types.TypeName(x.Right)] + right + ")", nil
	case "%":
		return "Core::mod" + l.modSuffix(x.Left, x.Right) + "(" + left + "," + right + ")", nil
	case "==", "!=":
		if l.useEquals(x.Left, x.Right) {
			not := ""
			if x.Op == "!=" {
				not = "!"
			}
			return not + "$check(" + left + ")->Equals(" + right + ")", nil
		}
		return left + x.Op + right, nil
	case "|":
		cast := ""
		if l.types.IsEnum(x.Left) {
			// enum operands decay to int
			cast = "(" + l.types.TypeName(x.Left) + ")"
		}
		return cast + "(" + left + "|" + right + ")", nil
	case "-", "*", "/", "<", "<=", ">", ">=", "<<", ">>", "^", "&", "&&", "||":
		return left + x.Op + right, nil
	default:
		return "", diag.Unsupported(x, "binary operator "+x.Op)
	}
}

func (l *Lowerer) addCall(left, right syntax.Node) string {
	if l.types.IsString(left) || l.types.IsString(right) {
		return "Core::addstr("
	}
	return "Core::addnum("
}

// modSuffix picks the runtime modulo helper: d, f, l or i.
func (l *Lowerer) modSuffix(left, right syntax.Node) string {
	lt, rt := l.types.TypeName(left), l.types.TypeName(right)
	switch {
	case lt == "double" || rt == "double":
		return "d"
	case lt == "float" || rt == "float":
		return "f"
	case lt == "long" || rt == "long":
		return "l"
	}
	return "i"
}

func (l *Lowerer) useEquals(left, right syntax.Node) bool {
	if l.types.IsString(left) && l.types.IsString(right) {
		return true
	}
	return l.types.TypeName(left) == "System::Type" && l.types.TypeName(right) == "System::Type"
}

func (l *Lowerer) literal(x *syntax.LiteralExpr) string {
	switch x.Kind {
	case syntax.LiteralNull:
		return "nullptr"
	case syntax.LiteralTrue:
		return "true"
	case syntax.LiteralFalse:
		return "false"
	}
	v, ok := l.types.Constant(x, true)
	if !ok {
		l.rep.Errorf(x.Position(), diag.CodeUnresolved, "literal without constant value: %s", x.Text)
		v = x.Text
	}
	switch x.Kind {
	case syntax.LiteralString:
		return "Core::utf16ToString(" + v + ")"
	case syntax.LiteralChar:
		return "(char16)" + v
	}
	return v
}

func (l *Lowerer) lambda(cur *Cursor, x *syntax.LambdaExpr) (string, error) {
	params := make([]string, 0, len(x.Params))
	for _, p := range x.Params {
		decl := "auto"
		if p.Type != nil {
			decl = l.types.FromSyntax(p.Type, false).Declaration()
		}
		params = append(params, decl+" "+l.paramName(p))
	}
	cur.lambda++
	scopes := cur.scopes
	cur.scopes = nil
	body, err := cur.capture(func() error {
		return l.Block(cur, x.Body, BlockOptions{})
	})
	cur.scopes = scopes
	cur.lambda--
	if err != nil {
		return "", err
	}
	return "[&](" + strings.Join(params, ",") + ")" + body, nil
}

func (l *Lowerer) paramName(p *syntax.Parameter) string {
	if s := l.sem.Declared(p); s != nil && s.Name != "" {
		return cppname.Name(cppname.Scoped(s.Name))
	}
	return cppname.Name(p.Name)
}

// ParamName is the target spelling of a declared parameter.
func (l *Lowerer) ParamName(p *syntax.Parameter) string { return l.paramName(p) }

// list lowers ns and joins the results with sep.
func (l *Lowerer) list(cur *Cursor, ns []syntax.Node, sep string) (string, error) {
	parts, err := l.each(cur, ns...)
	if err != nil {
		return "", err
	}
	return strings.Join(parts, sep), nil
}

func (l *Lowerer) each(cur *Cursor, ns ...syntax.Node) ([]string, error) {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		v, err := l.Expr(cur, n, false)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
