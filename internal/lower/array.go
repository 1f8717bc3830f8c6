package lower

import (
	"strconv"
	"strings"

	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/model"
	"github.com/cmmoran/cs2cpp/internal/syntax"
)

// arrayCreation lowers new T[n][]... into a sized FixedArray allocation. Only
// the outermost rank may carry a size; inner ranks are filled in later.
func (l *Lowerer) arrayCreation(cur *Cursor, x *syntax.ArrayCreationExpr) (string, error) {
	if x.Type == nil {
		l.rep.Errorf(x.Position(), diag.CodeArrayCreation, "Invalid ArrayCreationExpression : no type")
		return "", nil
	}
	dims := len(x.Type.Ranks)
	var size syntax.Node
	for _, r := range x.Type.Ranks {
		if r.Size == nil {
			continue
		}
		if size != nil {
			l.rep.Errorf(x.Position(), diag.CodeArrayCreation, "multiple sizes for ArrayCreationExpression")
			continue
		}
		size = r.Size
	}
	elem := l.types.FromSyntax(x.Type.Element, false)
	if x.Init != nil {
		return l.arrayInit(cur, elem, dims, x.Init)
	}
	if size == nil || dims == 0 {
		l.rep.Errorf(x.Position(), diag.CodeArrayCreation, "Invalid ArrayCreationExpression : %s : %s",
			syntax.Text(x.Type.Element), syntax.Text(size))
		return "", nil
	}
	n, err := l.Expr(cur, size, false)
	if err != nil {
		return "", err
	}
	return " new(" + n + ")" + model.ArrayOf(elem.Declaration(), dims) + "(" + elem.CoreType() + ")", nil
}

// arrayInit lowers an initializer list for an array of dims ranks whose
// element type is typ:
//
//	new(2) Core::FixedArray$T<int32>(Core::GetType$T<int32>(),std::initializer_list<int32>{1,2})
func (l *Lowerer) arrayInit(cur *Cursor, typ *model.Type, dims int, init *syntax.ArrayInitializer) (string, error) {
	if dims == 0 {
		l.rep.Errorf(init.Position(), diag.CodeArrayCreation, "array initializer for non array type %s", typ.CPPType())
		return "", nil
	}
	elemDecl := typ.ElementDeclaration()
	elems, err := l.list(cur, init.Elems, ",")
	if err != nil {
		return "", err
	}
	inner := model.ArrayOf(elemDecl, dims-1)
	if dims > 1 {
		inner += "*"
	}
	var sb strings.Builder
	sb.WriteString(" new(")
	sb.WriteString(strconv.Itoa(len(init.Elems)))
	sb.WriteString(") ")
	sb.WriteString(model.ArrayOf(elemDecl, dims))
	sb.WriteString("(")
	sb.WriteString(typ.CoreType())
	sb.WriteString(",std::initializer_list<")
	sb.WriteString(inner)
	sb.WriteString(">{")
	sb.WriteString(elems)
	sb.WriteString("})")
	return sb.String(), nil
}
