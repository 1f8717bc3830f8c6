package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/semantic"
	"github.com/cmmoran/cs2cpp/internal/syntax"
)

func newMapper(t *testing.T) (*Mapper, *semantic.Table, *diag.Reporter) {
	t.Helper()
	tab := semantic.NewTable()
	rep := diag.NewReporter(zaptest.NewLogger(t).Sugar())
	return New(tab, rep), tab, rep
}

func named(tab *semantic.Table, name, display string, kind semantic.TypeKind) *syntax.IdentifierName {
	n := &syntax.IdentifierName{Name: name}
	tab.Resolve(n, &semantic.Symbol{Name: name, Display: display, Kind: semantic.SymbolNamedType})
	tab.SetType(n, &semantic.Type{Display: display, Kind: kind})
	return n
}

func TestFromSyntaxArrays(ttt *testing.T) {
	tests := []struct {
		name      string
		ranks     int
		wantDecl  string
		wantError bool
	}{
		{name: "one", ranks: 1, wantDecl: "Core::FixedArray$T<int32>*"},
		{name: "three", ranks: 3, wantDecl: "Core::FixedArray$T<Core::FixedArray$T<Core::FixedArray$T<int32>*>*>*"},
		{name: "four", ranks: 4, wantError: true},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, _, rep := newMapper(t)
			arr := &syntax.ArrayType{
				Base:    syntax.Base{At: syntax.Pos{File: "Grid.cs", Line: 7}},
				Element: &syntax.PredefinedType{Keyword: "int"},
			}
			for i := 0; i < tt.ranks; i++ {
				arr.Ranks = append(arr.Ranks, &syntax.ArrayRank{})
			}
			typ := m.FromSyntax(arr, false)
			if tt.wantError {
				assert.True(t, typ.Invalid)
				require.Equal(t, 1, rep.Count())
				d := rep.Diagnostics()[0]
				assert.Equal(t, diag.CodeArrayRank, d.Code)
				assert.Equal(t, "Grid.cs", d.Pos.File)
				assert.Equal(t, 7, d.Pos.Line)
				return
			}
			assert.Zero(t, rep.Count())
			assert.Equal(t, tt.wantDecl, typ.Declaration())
		})
	}
}

func TestFromSyntaxGeneric(t *testing.T) {
	m, tab, rep := newMapper(t)
	arg := named(tab, "Node", "App.Node", semantic.TypeClass)
	g := &syntax.GenericName{Name: "List", TypeArgs: []syntax.Node{arg}}
	tab.Resolve(g, &semantic.Symbol{Name: "List", Display: "Coll.List<App.Node>", Kind: semantic.SymbolNamedType})
	tab.SetType(g, &semantic.Type{Display: "Coll.List<App.Node>", Kind: semantic.TypeClass})

	typ := m.FromSyntax(g, false)
	require.Zero(t, rep.Count())
	assert.True(t, typ.Generic)
	assert.Equal(t, "Coll::List$T<App::Node*>*", typ.Declaration())
	assert.Equal(t, "Coll::List$T", typ.Symbol())
}

func TestFromSyntaxPointerAndParameter(t *testing.T) {
	m, tab, _ := newMapper(t)
	ptr := &syntax.PointerType{Element: &syntax.PredefinedType{Keyword: "byte"}}
	assert.Equal(t, "uint8*", m.FromSyntax(ptr, false).Declaration())

	p := &syntax.IdentifierName{Name: "count"}
	tab.Resolve(p, &semantic.Symbol{Name: "count", Display: "App.Widget.Resize(int).count", Kind: semantic.SymbolParameter})
	tab.SetType(p, &semantic.Type{Display: "int", Kind: semantic.TypeStruct})
	assert.Equal(t, "count", m.FromSyntax(p, false).CPPType())
}

func TestFromSyntaxUnresolved(t *testing.T) {
	m, _, rep := newMapper(t)

	typ := m.FromSyntax(&syntax.IdentifierName{Name: "Length"}, true)
	assert.Equal(t, "Length", typ.CPPType())
	assert.Zero(t, rep.Count())

	typ = m.FromSyntax(&syntax.IdentifierName{Name: "Missing", Base: syntax.Base{At: syntax.Pos{Line: 2}}}, false)
	assert.True(t, typ.Invalid)
	require.Equal(t, 1, rep.Count())
	assert.Equal(t, diag.CodeUnresolved, rep.Diagnostics()[0].Code)
}

func TestDependentName(ttt *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "List<int32>", want: "List<int32>"},
		{in: "A::B<X>::C<Y>", want: "typename A::B<X>::template C<Y>"},
		{in: "A::B<X>::C<Y>::D<Z>", want: "typename A::B<X>::typename C<Y>::template D<Z>"},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DependentName(tt.in))
		})
	}
}

func TestConstant(ttt *testing.T) {
	tests := []struct {
		name     string
		value    string
		typ      semantic.Type
		castEnum bool
		want     string
	}{
		{name: "char", value: "a", typ: semantic.Type{Display: "char"}, want: "'a'"},
		{name: "char newline", value: "\n", typ: semantic.Type{Display: "char"}, want: `'\n'`},
		{name: "char backslash", value: "\\", typ: semantic.Type{Display: "char"}, want: `'\\'`},
		{name: "float", value: "2", typ: semantic.Type{Display: "float"}, want: "2.0f"},
		{name: "float with dot", value: "2.5", typ: semantic.Type{Display: "float"}, want: "2.5f"},
		{name: "double", value: "3", typ: semantic.Type{Display: "double"}, want: "3.0"},
		{name: "long", value: "7", typ: semantic.Type{Display: "long"}, want: "7LL"},
		{name: "string", value: "a\tb\n", typ: semantic.Type{Display: "string"}, want: `u"a\tb\n"`},
		{name: "int", value: "42", typ: semantic.Type{Display: "int"}, want: "42"},
		{name: "enum cast", value: "2", typ: semantic.Type{Display: "Game.Color", Kind: semantic.TypeEnum}, castEnum: true, want: "(Game::Color)2"},
		{name: "enum no cast", value: "2", typ: semantic.Type{Display: "Game.Color", Kind: semantic.TypeEnum}, want: "2"},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, tab, _ := newMapper(t)
			n := &syntax.LiteralExpr{Kind: syntax.LiteralNumeric}
			typ := tt.typ
			tab.SetType(n, &typ)
			tab.SetConstant(n, tt.value)
			got, ok := m.Constant(n, tt.castEnum)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueries(t *testing.T) {
	m, tab, rep := newMapper(t)
	s := &syntax.IdentifierName{Name: "s"}
	tab.SetType(s, &semantic.Type{Display: "System.String", Kind: semantic.TypeClass})
	assert.True(t, m.IsString(s))
	assert.Equal(t, "System::String", m.TypeName(s))

	lock := &syntax.IdentifierName{Name: "mutex"}
	tab.SetType(lock, &semantic.Type{Display: "Core.ThreadLock", Kind: semantic.TypeClass})
	assert.True(t, m.TypeIs(lock, semantic.WellKnownLock))
	assert.False(t, m.TypeIs(s, semantic.WellKnownLock))

	e := named(tab, "Color", "Game.Color", semantic.TypeEnum)
	assert.True(t, m.IsEnum(e))
	assert.True(t, m.IsNamedType(e))

	assert.True(t, m.IsStatic(&syntax.IdentifierName{Name: "ghost"}))
	assert.Equal(t, 1, rep.Count())
}
