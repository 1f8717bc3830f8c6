package lower

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/model"
	"github.com/cmmoran/cs2cpp/internal/semantic"
	"github.com/cmmoran/cs2cpp/internal/syntax"
	"github.com/cmmoran/cs2cpp/internal/typemap"
)

type fixture struct {
	tab *semantic.Table
	rep *diag.Reporter
	l   *Lowerer
	cls *model.Class
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tab := semantic.NewTable()
	rep := diag.NewReporter(zaptest.NewLogger(t).Sugar())
	return &fixture{
		tab: tab,
		rep: rep,
		l:   New(typemap.New(tab, rep), rep),
		cls: &model.Class{
			Name:       "Widget",
			FullName:   "Widget",
			Namespace:  "App",
			NSFullName: "App::Widget",
			Bases:      []*model.Type{model.NewType("System.Object")},
		},
	}
}

func (f *fixture) cursor(m *model.Method) *Cursor {
	return NewCursor(f.cls, m, &model.Code{})
}

func (f *fixture) local(name, typ string, kind semantic.TypeKind) *syntax.IdentifierName {
	n := &syntax.IdentifierName{Name: name}
	f.tab.Resolve(n, &semantic.Symbol{Name: name, Display: name, Kind: semantic.SymbolLocal})
	f.tab.SetType(n, &semantic.Type{Display: typ, Kind: kind})
	return n
}

func (f *fixture) typeRef(name, display string) *syntax.IdentifierName {
	n := &syntax.IdentifierName{Name: name}
	f.tab.Resolve(n, &semantic.Symbol{Name: name, Display: display, Kind: semantic.SymbolNamedType})
	f.tab.SetType(n, &semantic.Type{Display: display, Kind: semantic.TypeClass})
	return n
}

func (f *fixture) member(name, display string, static bool) *syntax.IdentifierName {
	n := &syntax.IdentifierName{Name: name}
	f.tab.Resolve(n, &semantic.Symbol{Name: name, Display: display, Kind: semantic.SymbolField, Static: static})
	return n
}

func (f *fixture) lit(kind syntax.LiteralKind, value, typ string) *syntax.LiteralExpr {
	n := &syntax.LiteralExpr{Kind: kind, Text: value}
	f.tab.SetType(n, &semantic.Type{Display: typ, Kind: semantic.TypeStruct})
	f.tab.SetConstant(n, value)
	return n
}

func (f *fixture) call(name string, args ...syntax.Node) *syntax.ExprStmt {
	fun := &syntax.IdentifierName{Name: name}
	f.tab.Resolve(fun, &semantic.Symbol{Name: name, Display: "App.Widget." + name + "()", Kind: semantic.SymbolMethod})
	return &syntax.ExprStmt{X: &syntax.InvocationExpr{Fun: fun, Args: args}}
}

func TestBodyPrologue(ttt *testing.T) {
	tests := []struct {
		name   string
		method *model.Method
		body   func(f *fixture) *syntax.Block
		want   string
	}{
		{
			name:   "object return goes through $ret",
			method: &model.Method{Name: "Find", Type: model.NewType("App.Node")},
			body: func(f *fixture) *syntax.Block {
				return &syntax.Block{Stmts: []syntax.Node{&syntax.ReturnStmt{Value: &syntax.LiteralExpr{Kind: syntax.LiteralNull}}}}
			},
			want: "{\nApp::Node* $ret;\n$ret = nullptr;\nreturn $ret;\n}\n",
		},
		{
			name:   "numeric return",
			method: &model.Method{Name: "Count", Type: model.NewType("int")},
			body: func(f *fixture) *syntax.Block {
				return &syntax.Block{Stmts: []syntax.Node{&syntax.ReturnStmt{Value: f.lit(syntax.LiteralNumeric, "3", "int")}}}
			},
			want: "{\nreturn 3;\n}\n",
		},
		{
			name:   "constructor calls $init",
			method: &model.Method{Name: "Widget", Type: model.NewType(""), Ctor: true},
			body: func(f *fixture) *syntax.Block {
				return &syntax.Block{Stmts: []syntax.Node{&syntax.ReturnStmt{}}}
			},
			want: "{\n$init();\nreturn ;\n}\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			require.NoError(t, f.l.Body(f.cls, tt.method, tt.body(f)))
			assert.Equal(t, tt.want, tt.method.Body.String())
			assert.Zero(t, f.rep.Count())
		})
	}
}

func TestForEach(t *testing.T) {
	f := newFixture(t)
	v := &syntax.IdentifierName{Name: "v"}
	f.tab.Resolve(v, &semantic.Symbol{Name: "v", Display: "v", Kind: semantic.SymbolLocal})
	stmt := &syntax.ForEachStmt{
		Type:       &syntax.PredefinedType{Keyword: "int"},
		Name:       "v",
		Collection: f.local("items", "System.Collections.List<int>", semantic.TypeClass),
		Body:       &syntax.Block{Stmts: []syntax.Node{f.call("Print", v)}},
	}
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
	require.NoError(t, f.l.Stmt(cur, stmt))
	assert.Equal(t, "{int32 v;\n"+
		"System::Collections::IEnumerator$T<int32>* $enum_0 = items->GetEnumerator();\n"+
		"while ($enum_0->MoveNext()) {\n"+
		"v = $enum_0->$get_Current();\n"+
		"{\nPrint(v);\n}\n"+
		"}}\n", cur.Out.String())
}

func TestIntSwitch(t *testing.T) {
	f := newFixture(t)
	sw := &syntax.SwitchStmt{
		Tag: f.local("n", "int", semantic.TypeStruct),
		Sections: []*syntax.SwitchSection{
			{
				Labels: []syntax.Node{&syntax.CaseLabel{Value: f.lit(syntax.LiteralNumeric, "1", "int")}},
				Stmts:  []syntax.Node{&syntax.GotoCaseStmt{Value: f.lit(syntax.LiteralNumeric, "2", "int")}},
			},
			{
				Labels: []syntax.Node{
					&syntax.CaseLabel{Value: f.lit(syntax.LiteralNumeric, "2", "int")},
					&syntax.DefaultLabel{},
				},
				Stmts: []syntax.Node{&syntax.BreakStmt{}},
			},
		},
	}
	second := &syntax.SwitchStmt{
		Tag: f.local("m", "int", semantic.TypeStruct),
		Sections: []*syntax.SwitchSection{
			{Labels: []syntax.Node{&syntax.DefaultLabel{}}, Stmts: []syntax.Node{&syntax.GotoDefaultStmt{}}},
		},
	}
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
	require.NoError(t, f.l.Stmt(cur, sw))
	require.NoError(t, f.l.Stmt(cur, second))
	assert.Zero(t, f.rep.Count())
	assert.Equal(t, "switch (n) {\n"+
		"case 1:\n$case_0_0:\n{\ngoto $case_0_1;\n}\n"+
		"case 2:\n$case_0_1:\ndefault:\n$default_0:\n{\nbreak;\n}\n"+
		"}\n"+
		"switch (m) {\n"+
		"default:\n$default_1:\n{\ngoto $default_1;\n}\n"+
		"}\n", cur.Out.String())
}

func TestGotoCaseErrors(ttt *testing.T) {
	tests := []struct {
		name string
		stmt func(f *fixture) syntax.Node
	}{
		{
			name: "missing target",
			stmt: func(f *fixture) syntax.Node {
				return &syntax.SwitchStmt{
					Tag: f.local("n", "int", semantic.TypeStruct),
					Sections: []*syntax.SwitchSection{{
						Labels: []syntax.Node{&syntax.CaseLabel{Value: f.lit(syntax.LiteralNumeric, "1", "int")}},
						Stmts:  []syntax.Node{&syntax.GotoCaseStmt{Value: f.lit(syntax.LiteralNumeric, "9", "int")}},
					}},
				}
			},
		},
		{
			name: "outside switch",
			stmt: func(f *fixture) syntax.Node {
				return &syntax.GotoDefaultStmt{}
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
			require.NoError(t, f.l.Stmt(cur, tt.stmt(f)))
			require.Equal(t, 1, f.rep.Count())
			assert.Equal(t, diag.CodeGotoCase, f.rep.Diagnostics()[0].Code)
		})
	}
}

func TestStringSwitch(t *testing.T) {
	f := newFixture(t)
	sw := &syntax.SwitchStmt{
		Tag: f.local("s", "string", semantic.TypeClass),
		Sections: []*syntax.SwitchSection{
			{Labels: []syntax.Node{&syntax.DefaultLabel{}}, Stmts: []syntax.Node{f.call("Other"), &syntax.BreakStmt{}}},
			{
				Labels: []syntax.Node{
					&syntax.CaseLabel{Value: f.lit(syntax.LiteralString, "a", "string")},
					&syntax.CaseLabel{Value: f.lit(syntax.LiteralString, "b", "string")},
				},
				Stmts: []syntax.Node{&syntax.BreakStmt{}},
			},
		},
	}
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
	require.NoError(t, f.l.Stmt(cur, sw))
	assert.Equal(t, "bool $ss_0 = false;\n"+
		"while (true) {\n"+
		`if ((s != nullptr && s->Equals(Core::utf16ToString(u"a")))||(s != nullptr && s->Equals(Core::utf16ToString(u"b")))) {`+"\n"+
		"$ss_0 = true;\nbreak;\n}\n"+
		"if ((!$ss_0)) {\n$ss_0 = true;\nOther();\nbreak;\n}\n"+
		"break;\n}\n", cur.Out.String())
}

func TestStringSwitchContinueTargetsEnclosingLoop(t *testing.T) {
	f := newFixture(t)
	sw := &syntax.SwitchStmt{
		Tag: f.local("s", "string", semantic.TypeClass),
		Sections: []*syntax.SwitchSection{
			{
				Labels: []syntax.Node{&syntax.CaseLabel{Value: f.lit(syntax.LiteralString, "a", "string")}},
				Stmts:  []syntax.Node{&syntax.ContinueStmt{}},
			},
			{
				Labels: []syntax.Node{&syntax.CaseLabel{Value: f.lit(syntax.LiteralString, "b", "string")}},
				Stmts: []syntax.Node{&syntax.ForStmt{
					Body: &syntax.Block{Stmts: []syntax.Node{&syntax.ContinueStmt{}}},
				}},
			},
		},
	}
	loop := &syntax.WhileStmt{
		Cond: f.local("more", "bool", semantic.TypeStruct),
		Body: &syntax.Block{Stmts: []syntax.Node{sw}},
	}
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
	require.NoError(t, f.l.Stmt(cur, loop))
	assert.Zero(t, f.rep.Count())
	assert.Equal(t, "while (more){\n"+
		"bool $ss_0 = false;\nbool $ss_0_cont = false;\n"+
		"while (true) {\n"+
		`if ((s != nullptr && s->Equals(Core::utf16ToString(u"a")))) {`+"\n"+
		"$ss_0 = true;\n$ss_0_cont = true;\nbreak;\n}\n"+
		`if ((s != nullptr && s->Equals(Core::utf16ToString(u"b")))) {`+"\n"+
		"$ss_0 = true;\nfor(;;){\ncontinue;\n}\n}\n"+
		"break;\n}\n"+
		"if ($ss_0_cont) {\ncontinue;\n}\n"+
		"}\n", cur.Out.String())
}

func TestNestedStringSwitchContinue(t *testing.T) {
	f := newFixture(t)
	inner := &syntax.SwitchStmt{
		Tag: f.local("t", "string", semantic.TypeClass),
		Sections: []*syntax.SwitchSection{{
			Labels: []syntax.Node{&syntax.DefaultLabel{}},
			Stmts:  []syntax.Node{&syntax.ContinueStmt{}},
		}},
	}
	outer := &syntax.SwitchStmt{
		Tag: f.local("s", "string", semantic.TypeClass),
		Sections: []*syntax.SwitchSection{{
			Labels: []syntax.Node{&syntax.DefaultLabel{}},
			Stmts:  []syntax.Node{inner, &syntax.BreakStmt{}},
		}},
	}
	loop := &syntax.DoStmt{Body: &syntax.Block{Stmts: []syntax.Node{outer}}, Cond: &syntax.LiteralExpr{Kind: syntax.LiteralTrue}}
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
	require.NoError(t, f.l.Stmt(cur, loop))
	got := cur.Out.String()
	assert.Contains(t, got, "$ss_1_cont = true;\nbreak;\n")
	assert.Contains(t, got, "if ($ss_1_cont) {\n$ss_0_cont = true;\nbreak;\n}\n")
	assert.Contains(t, got, "if ($ss_0_cont) {\ncontinue;\n}\n")
	assert.Equal(t, 1, strings.Count(got, "continue;"))
}

func TestIntSwitchInsideStringSwitchForwardsContinue(t *testing.T) {
	f := newFixture(t)
	inner := &syntax.SwitchStmt{
		Tag: f.local("n", "int", semantic.TypeStruct),
		Sections: []*syntax.SwitchSection{{
			Labels: []syntax.Node{&syntax.CaseLabel{Value: f.lit(syntax.LiteralNumeric, "1", "int")}},
			Stmts:  []syntax.Node{&syntax.ContinueStmt{}},
		}},
	}
	outer := &syntax.SwitchStmt{
		Tag: f.local("s", "string", semantic.TypeClass),
		Sections: []*syntax.SwitchSection{{
			Labels: []syntax.Node{&syntax.CaseLabel{Value: f.lit(syntax.LiteralString, "a", "string")}},
			Stmts:  []syntax.Node{inner, &syntax.BreakStmt{}},
		}},
	}
	loop := &syntax.WhileStmt{Cond: f.local("more", "bool", semantic.TypeStruct), Body: &syntax.Block{Stmts: []syntax.Node{outer}}}
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
	require.NoError(t, f.l.Stmt(cur, loop))
	assert.Zero(t, f.rep.Count())
	got := cur.Out.String()
	assert.Contains(t, got, "bool $sw_0_cont = false;\n"+
		"switch (n) {\ncase 1:\n$case_0_0:\n{\n$sw_0_cont = true;\nbreak;\n}\n}\n"+
		"if ($sw_0_cont) {\n$ss_0_cont = true;\nbreak;\n}\n")
	assert.Contains(t, got, "if ($ss_0_cont) {\ncontinue;\n}\n")
	assert.Equal(t, 1, strings.Count(got, "continue;"))
}

func TestContinueInsideLambdaIsLocal(t *testing.T) {
	f := newFixture(t)
	lambda := &syntax.LambdaExpr{Body: &syntax.Block{Stmts: []syntax.Node{
		&syntax.WhileStmt{Cond: &syntax.LiteralExpr{Kind: syntax.LiteralTrue}, Body: &syntax.ContinueStmt{}},
	}}}
	sw := &syntax.SwitchStmt{
		Tag: f.local("s", "string", semantic.TypeClass),
		Sections: []*syntax.SwitchSection{{
			Labels: []syntax.Node{&syntax.DefaultLabel{}},
			Stmts:  []syntax.Node{&syntax.ExprStmt{X: lambda}},
		}},
	}
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
	require.NoError(t, f.l.Stmt(cur, sw))
	assert.Contains(t, cur.Out.String(), "while (true)continue;\n")
	assert.NotContains(t, cur.Out.String(), "_cont")
}

func TestTryFinally(t *testing.T) {
	f := newFixture(t)
	catch := &syntax.CatchClause{Type: f.typeRef("Exception", "System.Exception"), Name: "e", Body: &syntax.Block{}}
	stmt := &syntax.TryStmt{
		Body:    &syntax.Block{},
		Catches: []*syntax.CatchClause{catch},
		Finally: &syntax.Block{Stmts: []syntax.Node{f.call("Close")}},
	}
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
	require.NoError(t, f.l.Stmt(cur, stmt))
	assert.Equal(t, "try {try {\nthrow new System::FinallyException();}\n"+
		" catch(System::FinallyException*){throw;}"+
		" catch(System::Exception *e){\nthrow new System::FinallyException();}\n"+
		"} catch(System::FinallyException *$finally0) {\nClose();\n}\n"+
		" catch (...) {Close();\nthrow;}\n", cur.Out.String())
}

func TestTryFinallyEarlyReturn(t *testing.T) {
	f := newFixture(t)
	stmt := &syntax.TryStmt{
		Body:    &syntax.Block{Stmts: []syntax.Node{&syntax.ReturnStmt{}}},
		Finally: &syntax.Block{Stmts: []syntax.Node{f.call("Close")}},
	}
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
	require.NoError(t, f.l.Stmt(cur, stmt))
	assert.Equal(t, "try {try {\nreturn ;\nthrow new System::FinallyException();}\n"+
		"} catch(System::FinallyException *$finally0) {\nClose();\n}\n"+
		" catch (...) {Close();\nthrow;}\n", cur.Out.String())
}

func TestTryCatchAll(t *testing.T) {
	f := newFixture(t)
	stmt := &syntax.TryStmt{
		Body:    &syntax.Block{Stmts: []syntax.Node{f.call("Open")}},
		Catches: []*syntax.CatchClause{{Body: &syntax.Block{Stmts: []syntax.Node{&syntax.ThrowStmt{}}}}},
	}
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
	require.NoError(t, f.l.Stmt(cur, stmt))
	assert.Equal(t, "try {\nOpen();\n}\n catch (...){\nstd::rethrow_exception(std::current_exception());}\n", cur.Out.String())
}

func TestLock(t *testing.T) {
	f := newFixture(t)
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})

	ok := &syntax.LockStmt{X: f.local("mu", "Core.ThreadLock", semantic.TypeClass), Body: &syntax.Block{}}
	require.NoError(t, f.l.Stmt(cur, ok))
	assert.Equal(t, "{$LockHolder $lock0(mu);{\n}\n}\n", cur.Out.String())

	bad := &syntax.LockStmt{X: f.local("o", "System.Object", semantic.TypeClass), Body: &syntax.Block{}}
	require.NoError(t, f.l.Stmt(cur, bad))
	require.Equal(t, 1, f.rep.Count())
	d := f.rep.Diagnostics()[0]
	assert.Equal(t, diag.CodeLockType, d.Code)
	assert.Equal(t, "lock {} must use Core.ThreadLock (Type=System::Object)", d.Message)
}

func TestLockCustomType(t *testing.T) {
	f := newFixture(t)
	f.tab.SetWellKnown(semantic.WellKnownLock, "System.Threading.Monitor")
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
	stmt := &syntax.LockStmt{X: f.local("m", "System.Threading.Monitor", semantic.TypeClass), Body: &syntax.Block{}}
	require.NoError(t, f.l.Stmt(cur, stmt))
	assert.Zero(t, f.rep.Count())
	assert.Contains(t, cur.Out.String(), "$LockHolder $lock0(m)")
}

func TestLoops(t *testing.T) {
	f := newFixture(t)
	i := f.local("i", "int", semantic.TypeStruct)
	decl := &syntax.VariableDecl{
		Type:      &syntax.PredefinedType{Keyword: "int"},
		Variables: []*syntax.VariableDeclarator{{Name: "i", Init: f.lit(syntax.LiteralNumeric, "0", "int")}},
	}
	stmts := []syntax.Node{
		&syntax.ForStmt{
			Decl: decl,
			Cond: &syntax.BinaryExpr{Op: "<", Left: i, Right: f.lit(syntax.LiteralNumeric, "10", "int")},
			Post: []syntax.Node{&syntax.UnaryExpr{Op: "++", Postfix: true, X: i}},
			Body: &syntax.Block{Stmts: []syntax.Node{&syntax.ContinueStmt{}}},
		},
		&syntax.WhileStmt{Cond: &syntax.LiteralExpr{Kind: syntax.LiteralTrue}, Body: &syntax.BreakStmt{}},
		&syntax.DoStmt{Body: &syntax.Block{}, Cond: &syntax.LiteralExpr{Kind: syntax.LiteralFalse}},
		&syntax.IfStmt{
			Cond: &syntax.UnaryExpr{Op: "!", X: f.local("ok", "bool", semantic.TypeStruct)},
			Then: f.call("A"),
			Else: f.call("B"),
		},
	}
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
	for _, s := range stmts {
		require.NoError(t, f.l.Stmt(cur, s))
	}
	assert.Equal(t, "for(int32 i = 0;i<10;i++){\ncontinue;\n}\n"+
		"while (true)break;\n"+
		"do {\n}\n while (false);\n"+
		"if (!ok)A();\n else B();\n", cur.Out.String())
}

func TestForWithSeveralDeclarators(ttt *testing.T) {
	tests := []struct {
		name string
		decl func(f *fixture) *syntax.VariableDecl
		want string
	}{
		{
			name: "integers",
			decl: func(f *fixture) *syntax.VariableDecl {
				return &syntax.VariableDecl{
					Type: &syntax.PredefinedType{Keyword: "int"},
					Variables: []*syntax.VariableDeclarator{
						{Name: "i", Init: f.lit(syntax.LiteralNumeric, "0", "int")},
						{Name: "j", Init: f.lit(syntax.LiteralNumeric, "9", "int")},
					},
				}
			},
			want: "{int32 i = 0;int32 j = 9;\nfor(;true;){\n}\n}\n",
		},
		{
			name: "pointers",
			decl: func(f *fixture) *syntax.VariableDecl {
				return &syntax.VariableDecl{
					Type: &syntax.PointerType{Element: &syntax.PredefinedType{Keyword: "byte"}},
					Variables: []*syntax.VariableDeclarator{
						{Name: "p", Init: &syntax.LiteralExpr{Kind: syntax.LiteralNull}},
						{Name: "q"},
					},
				}
			},
			want: "{uint8* p = nullptr;uint8* q;\nfor(;true;){\n}\n}\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			stmt := &syntax.ForStmt{Decl: tt.decl(f), Cond: &syntax.LiteralExpr{Kind: syntax.LiteralTrue}, Body: &syntax.Block{}}
			cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
			require.NoError(t, f.l.Stmt(cur, stmt))
			assert.Equal(t, tt.want, cur.Out.String())
		})
	}
}

func TestLocalDeclSeveralDeclarators(t *testing.T) {
	f := newFixture(t)
	stmt := &syntax.LocalDeclStmt{Decl: &syntax.VariableDecl{
		Type: &syntax.PredefinedType{Keyword: "int"},
		Variables: []*syntax.VariableDeclarator{
			{Name: "a", Init: f.lit(syntax.LiteralNumeric, "1", "int")},
			{Name: "b"},
		},
	}}
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
	require.NoError(t, f.l.Stmt(cur, stmt))
	assert.Equal(t, "int32 a = 1;int32 b;\n", cur.Out.String())
}

func TestFixed(t *testing.T) {
	f := newFixture(t)
	stmt := &syntax.FixedStmt{
		Decl: &syntax.VariableDecl{
			Type:      &syntax.PointerType{Element: &syntax.PredefinedType{Keyword: "byte"}},
			Variables: []*syntax.VariableDeclarator{{Name: "p", Init: f.local("buf", "byte[]", semantic.TypeArray)}},
		},
		Body: &syntax.Block{},
	}
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
	require.NoError(t, f.l.Stmt(cur, stmt))
	assert.Equal(t, "{\nuint8* p = buf.get()->data();\n{\n}\n}\n", cur.Out.String())
}

func TestExpressions(ttt *testing.T) {
	tests := []struct {
		name  string
		build func(f *fixture) syntax.Node
		want  string
	}{
		{
			name: "string concat widens short",
			build: func(f *fixture) syntax.Node {
				return &syntax.BinaryExpr{Op: "+", Left: f.local("s", "string", semantic.TypeClass), Right: f.local("n", "short", semantic.TypeStruct)}
			},
			want: "Core::addstr(s,(int32)n)",
		},
		{
			name: "numeric add",
			build: func(f *fixture) syntax.Node {
				return &syntax.BinaryExpr{Op: "+", Left: f.local("a", "int", semantic.TypeStruct), Right: f.local("b", "int", semantic.TypeStruct)}
			},
			want: "Core::addnum(a,b)",
		},
		{
			name: "float modulo",
			build: func(f *fixture) syntax.Node {
				return &syntax.BinaryExpr{Op: "%", Left: f.local("x", "float", semantic.TypeStruct), Right: f.local("a", "int", semantic.TypeStruct)}
			},
			want: "Core::modf(x,a)",
		},
		{
			name: "string inequality",
			build: func(f *fixture) syntax.Node {
				return &syntax.BinaryExpr{Op: "!=", Left: f.local("s", "string", semantic.TypeClass), Right: f.local("t", "System.String", semantic.TypeClass)}
			},
			want: "!$check(s)->Equals(t)",
		},
		{
			name: "numeric equality",
			build: func(f *fixture) syntax.Node {
				return &syntax.BinaryExpr{Op: "==", Left: f.local("a", "int", semantic.TypeStruct), Right: f.local("b", "int", semantic.TypeStruct)}
			},
			want: "a==b",
		},
		{
			name: "enum or",
			build: func(f *fixture) syntax.Node {
				return &syntax.BinaryExpr{Op: "|", Left: f.local("c", "Game.Color", semantic.TypeEnum), Right: f.local("d", "Game.Color", semantic.TypeEnum)}
			},
			want: "(Game::Color)(c|d)",
		},
		{
			name: "bitwise not",
			build: func(f *fixture) syntax.Node {
				return &syntax.UnaryExpr{Op: "~", X: f.local("a", "int", semantic.TypeStruct)}
			},
			want: "~a",
		},
		{
			name: "is",
			build: func(f *fixture) syntax.Node {
				return &syntax.IsExpr{X: f.local("o", "System.Object", semantic.TypeClass), Type: f.typeRef("Node", "App.Node")}
			},
			want: "o->GetType()->IsDerivedFrom(Core::GetType$T<App::Node>())",
		},
		{
			name: "as",
			build: func(f *fixture) syntax.Node {
				return &syntax.AsExpr{X: f.local("o", "System.Object", semantic.TypeClass), Type: f.typeRef("Node", "App.Node")}
			},
			want: "(Core::GetType$T<App::Node>()->IsDerivedFrom(o->GetType()) ? dynamic_cast<App::Node*>(o) : nullptr)",
		},
		{
			name: "value cast",
			build: func(f *fixture) syntax.Node {
				return &syntax.CastExpr{Type: &syntax.PredefinedType{Keyword: "int"}, X: f.local("x", "float", semantic.TypeStruct)}
			},
			want: "static_cast<int32>(x)",
		},
		{
			name: "object cast",
			build: func(f *fixture) syntax.Node {
				return &syntax.CastExpr{Type: f.typeRef("Node", "App.Node"), X: f.local("o", "System.Object", semantic.TypeClass)}
			},
			want: "dynamic_cast<App::Node*>(o)",
		},
		{
			name: "string append assign",
			build: func(f *fixture) syntax.Node {
				return &syntax.AssignExpr{Op: "+=", Left: f.local("s", "string", semantic.TypeClass), Right: f.local("c", "char", semantic.TypeStruct)}
			},
			want: "s= Core::addstr(s,(char16)c)",
		},
		{
			name: "modulo assign",
			build: func(f *fixture) syntax.Node {
				return &syntax.AssignExpr{Op: "%=", Left: f.local("a", "int", semantic.TypeStruct), Right: f.local("b", "long", semantic.TypeStruct)}
			},
			want: "a= Core::modl(a,b)",
		},
		{
			name: "compound assign",
			build: func(f *fixture) syntax.Node {
				return &syntax.AssignExpr{Op: "-=", Left: f.local("a", "int", semantic.TypeStruct), Right: f.local("b", "int", semantic.TypeStruct)}
			},
			want: "a = a-(b)",
		},
		{
			name: "subtract assign keeps right operand grouped",
			build: func(f *fixture) syntax.Node {
				return &syntax.AssignExpr{Op: "-=", Left: f.local("x", "int", semantic.TypeStruct), Right: &syntax.BinaryExpr{
					Op: "-", Left: f.local("a", "int", semantic.TypeStruct), Right: f.local("b", "int", semantic.TypeStruct),
				}}
			},
			want: "x = x-(a-b)",
		},
		{
			name: "multiply assign keeps right operand grouped",
			build: func(f *fixture) syntax.Node {
				return &syntax.AssignExpr{Op: "*=", Left: f.local("x", "int", semantic.TypeStruct), Right: &syntax.BinaryExpr{
					Op: "-", Left: f.local("a", "int", semantic.TypeStruct), Right: f.local("b", "int", semantic.TypeStruct),
				}}
			},
			want: "x = x*(a-b)",
		},
		{
			name: "divide assign keeps right operand grouped",
			build: func(f *fixture) syntax.Node {
				return &syntax.AssignExpr{Op: "/=", Left: f.local("x", "int", semantic.TypeStruct), Right: &syntax.BinaryExpr{
					Op: "*", Left: f.local("a", "int", semantic.TypeStruct), Right: f.local("b", "int", semantic.TypeStruct),
				}}
			},
			want: "x = x/(a*b)",
		},
		{
			name: "and assign keeps right operand grouped",
			build: func(f *fixture) syntax.Node {
				return &syntax.AssignExpr{Op: "&=", Left: f.local("x", "int", semantic.TypeStruct), Right: &syntax.BinaryExpr{
					Op: "^", Left: f.local("a", "int", semantic.TypeStruct), Right: f.local("b", "int", semantic.TypeStruct),
				}}
			},
			want: "x = x&(a^b)",
		},
		{
			name: "string equality checks the left operand",
			build: func(f *fixture) syntax.Node {
				return &syntax.BinaryExpr{Op: "==", Left: f.local("s", "string", semantic.TypeClass), Right: f.lit(syntax.LiteralString, "x", "string")}
			},
			want: `$check(s)->Equals(Core::utf16ToString(u"x"))`,
		},
		{
			name: "conditional",
			build: func(f *fixture) syntax.Node {
				return &syntax.ConditionalExpr{
					Cond: f.local("ok", "bool", semantic.TypeStruct),
					Then: f.lit(syntax.LiteralChar, "x", "char"),
					Else: f.lit(syntax.LiteralChar, "\n", "char"),
				}
			},
			want: `(ok?(char16)'x':(char16)'\n')`,
		},
		{
			name: "instance member",
			build: func(f *fixture) syntax.Node {
				return &syntax.MemberAccess{X: f.local("o", "App.Node", semantic.TypeClass), Name: f.member("Next", "App.Node.Next", false)}
			},
			want: "$check(o)->Next",
		},
		{
			name: "static member",
			build: func(f *fixture) syntax.Node {
				return &syntax.MemberAccess{X: f.typeRef("Node", "App.Node"), Name: f.member("Count", "App.Node.Count", true)}
			},
			want: "App::Node::Count",
		},
		{
			name: "element access",
			build: func(f *fixture) syntax.Node {
				return &syntax.ElementAccessExpr{X: f.local("arr", "int[]", semantic.TypeArray), Index: []syntax.Node{f.local("i", "int", semantic.TypeStruct)}}
			},
			want: "arr->at(i)",
		},
		{
			name: "object creation",
			build: func(f *fixture) syntax.Node {
				return &syntax.ObjectCreationExpr{Type: f.typeRef("Node", "App.Node"), Args: []syntax.Node{f.lit(syntax.LiteralString, "root", "string")}}
			},
			want: `(new App::Node(Core::utf16ToString(u"root")))`,
		},
		{
			name: "base",
			build: func(f *fixture) syntax.Node {
				return &syntax.BaseExpr{}
			},
			want: "System::Object",
		},
		{
			name: "typeof and default",
			build: func(f *fixture) syntax.Node {
				return &syntax.BinaryExpr{
					Op:    "==",
					Left:  &syntax.TypeOfExpr{Type: f.typeRef("Node", "App.Node")},
					Right: &syntax.DefaultExpr{Type: &syntax.PredefinedType{Keyword: "int"}},
				}
			},
			want: "Core::GetType$T<App::Node>()==int32()",
		},
		{
			name: "lambda returns directly",
			build: func(f *fixture) syntax.Node {
				x := &syntax.IdentifierName{Name: "x"}
				f.tab.Resolve(x, &semantic.Symbol{Name: "x", Display: "x", Kind: semantic.SymbolParameter})
				return &syntax.LambdaExpr{
					Params: []*syntax.Parameter{{Name: "x"}, {Name: "y", Type: &syntax.PredefinedType{Keyword: "int"}}},
					Body:   &syntax.Block{Stmts: []syntax.Node{&syntax.ReturnStmt{Value: x}}},
				}
			},
			want: "[&](auto x,int32 y){\nreturn x;\n}\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("App.Node")})
			got, err := f.l.Expr(cur, tt.build(f), false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Zero(t, f.rep.Count())
		})
	}
}

func TestOwnPropertyUsesBackingValue(t *testing.T) {
	f := newFixture(t)
	size := &syntax.IdentifierName{Name: "Size"}
	f.tab.Resolve(size, &semantic.Symbol{Name: "Size", Display: "App.Widget.Size", Kind: semantic.SymbolProperty, Containing: "App.Widget"})

	got, err := f.l.Expr(f.cursor(&model.Method{Name: "$get_Size", Type: model.NewType("int")}), size, false)
	require.NoError(t, err)
	assert.Equal(t, "App::Widget::Size.Value", got)

	got, err = f.l.Expr(f.cursor(&model.Method{Name: "Resize", Type: model.NewType("void")}), size, false)
	require.NoError(t, err)
	assert.Equal(t, "App::Widget::Size", got)
}

func TestArrays(ttt *testing.T) {
	intType := func() *syntax.PredefinedType { return &syntax.PredefinedType{Keyword: "int"} }
	tests := []struct {
		name    string
		build   func(f *fixture) syntax.Node
		want    string
		wantErr diag.Code
	}{
		{
			name: "sized",
			build: func(f *fixture) syntax.Node {
				return &syntax.ArrayCreationExpr{Type: &syntax.ArrayType{
					Element: intType(),
					Ranks:   []*syntax.ArrayRank{{Size: f.lit(syntax.LiteralNumeric, "5", "int")}},
				}}
			},
			want: " new(5)Core::FixedArray$T<int32>(Core::GetType$T<int32>())",
		},
		{
			name: "jagged",
			build: func(f *fixture) syntax.Node {
				return &syntax.ArrayCreationExpr{Type: &syntax.ArrayType{
					Element: f.typeRef("Node", "App.Node"),
					Ranks:   []*syntax.ArrayRank{{Size: f.lit(syntax.LiteralNumeric, "2", "int")}, {}},
				}}
			},
			want: " new(2)Core::FixedArray$T<Core::FixedArray$T<App::Node*>*>(Core::GetType$T<App::Node>())",
		},
		{
			name: "initializer",
			build: func(f *fixture) syntax.Node {
				return &syntax.ArrayCreationExpr{
					Type: &syntax.ArrayType{Element: intType(), Ranks: []*syntax.ArrayRank{{}}},
					Init: &syntax.ArrayInitializer{Elems: []syntax.Node{
						f.lit(syntax.LiteralNumeric, "1", "int"),
						f.lit(syntax.LiteralNumeric, "2", "int"),
					}},
				}
			},
			want: " new(2) Core::FixedArray$T<int32>(Core::GetType$T<int32>(),std::initializer_list<int32>{1,2})",
		},
		{
			name: "missing size",
			build: func(f *fixture) syntax.Node {
				return &syntax.ArrayCreationExpr{Type: &syntax.ArrayType{Element: intType(), Ranks: []*syntax.ArrayRank{{}}}}
			},
			wantErr: diag.CodeArrayCreation,
		},
		{
			name: "two sizes",
			build: func(f *fixture) syntax.Node {
				return &syntax.ArrayCreationExpr{Type: &syntax.ArrayType{
					Element: intType(),
					Ranks: []*syntax.ArrayRank{
						{Size: f.lit(syntax.LiteralNumeric, "2", "int")},
						{Size: f.lit(syntax.LiteralNumeric, "3", "int")},
					},
				}}
			},
			want:    " new(2)Core::FixedArray$T<Core::FixedArray$T<int32>*>(Core::GetType$T<int32>())",
			wantErr: diag.CodeArrayCreation,
		},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			got, err := f.l.Expr(f.cursor(nil), tt.build(f), false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.wantErr != "" {
				require.Equal(t, 1, f.rep.Count())
				assert.Equal(t, tt.wantErr, f.rep.Diagnostics()[0].Code)
				return
			}
			assert.Zero(t, f.rep.Count())
		})
	}
}

func TestLocalArrayInitializer(t *testing.T) {
	f := newFixture(t)
	stmt := &syntax.LocalDeclStmt{Decl: &syntax.VariableDecl{
		Type: &syntax.ArrayType{Element: &syntax.PredefinedType{Keyword: "int"}, Ranks: []*syntax.ArrayRank{{}}},
		Variables: []*syntax.VariableDeclarator{{
			Name: "a",
			Init: &syntax.ArrayInitializer{Elems: []syntax.Node{f.lit(syntax.LiteralNumeric, "1", "int")}},
		}},
	}}
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})
	require.NoError(t, f.l.Stmt(cur, stmt))
	assert.Equal(t, "Core::FixedArray$T<int32>* a =  new(1) Core::FixedArray$T<int32>(Core::GetType$T<int32>(),std::initializer_list<int32>{1});\n", cur.Out.String())
}

func TestUnsupported(t *testing.T) {
	f := newFixture(t)
	cur := f.cursor(&model.Method{Name: "Run", Type: model.NewType("void")})

	err := f.l.Stmt(cur, &syntax.Block{Stmts: []syntax.Node{&syntax.CaseLabel{}}})
	require.Error(t, err)
	assert.True(t, diag.IsUnsupported(err))

	_, err = f.l.Expr(cur, &syntax.ExprStmt{}, false)
	require.Error(t, err)
	assert.True(t, diag.IsUnsupported(err))
	assert.Contains(t, err.Error(), "ExprStmt")
}
