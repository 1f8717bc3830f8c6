package treeprint

import (
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/cs2cpp/internal/frontend"
	"github.com/cmmoran/cs2cpp/internal/syntax"
	"github.com/cmmoran/cs2cpp/pkg/options"
)

const dump = `schema: 1.0.0
diagnostics:
  - {id: CS0626, severity: warning, message: hidden, line: 2}
  - {id: CS0219, severity: warning, message: assigned but never used, line: 4}
root:
  kind: CompilationUnit
  lists:
    members:
      - kind: ClassDecl
        line: 1
        name: A
        text: "class A { int x = 1; }"
        tokens: [class, A, "{", int, x, "=", "1", ;, "}"]
        attrs: {kind: class}
        decl: {name: A, display: App.A, kind: NamedType}
        lists:
          members:
            - kind: FieldDecl
              line: 2
              slots:
                decl:
                  kind: VariableDecl
                  slots:
                    type: {kind: PredefinedType, name: int, type: {display: int, kind: Struct}}
`

func file(t *testing.T) *frontend.File {
	t.Helper()
	d, err := frontend.Decode(strings.NewReader(dump))
	require.NoError(t, err)
	return &frontend.File{Path: "A.csast.yaml", Dump: d, Unit: &syntax.CompilationUnit{Path: "A.cs"}}
}

func plain(n pterm.TreeNode) string {
	return pterm.RemoveColorFromString(n.Text)
}

func TestTree(ttt *testing.T) {
	tests := []struct {
		mode      string
		want      string
		wantNot   []string
	}{
		{
			mode:    options.PrintTree,
			want:    "members[0]: ClassDecl A @1 [decl App.A (namedtype)] [kind=class]",
			wantNot: []string{"text", "tokens"},
		},
		{
			mode:      options.PrintToString,
			want:      "members[0]: ClassDecl A @1 [decl App.A (namedtype)] [kind=class] [text class A { int x = 1; }]",
			wantNot:   []string{"tokens"},
		},
		{
			mode:      options.PrintTokens,
			want:      "members[0]: ClassDecl A @1 [decl App.A (namedtype)] [kind=class] [tokens class A { int x = 1 ; }]",
			wantNot:   []string{"[text"},
		},
		{
			mode:      options.PrintAll,
			want:      "members[0]: ClassDecl A @1 [decl App.A (namedtype)] [kind=class] [text class A { int x = 1; }] [tokens class A { int x = 1 ; }]",
		},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run("mode "+tt.mode, func(t *testing.T) {
			t.Parallel()
			root := Tree(file(t), tt.mode)
			assert.Equal(t, "A.cs", plain(root))
			require.Len(t, root.Children, 1)

			unit := root.Children[0]
			assert.Equal(t, "CompilationUnit", plain(unit))
			require.Len(t, unit.Children, 1)
			cls := unit.Children[0]
			assert.Equal(t, tt.want, plain(cls))
			for _, s := range tt.wantNot {
				assert.NotContains(t, plain(cls), s)
			}

			field := cls.Children[0]
			assert.Equal(t, "members[0]: FieldDecl @2", plain(field))
			decl := field.Children[0]
			assert.Equal(t, "decl: VariableDecl", plain(decl))
			assert.Equal(t, "type: PredefinedType int [type int (struct)]", plain(decl.Children[0]))
		})
	}
}

func TestDiagnostics(t *testing.T) {
	got := Diagnostics(file(t))
	require.Len(t, got, 1)
	assert.Equal(t, "A.cs:4: warning CS0219: assigned but never used", pterm.RemoveColorFromString(got[0]))
}

func TestRender(t *testing.T) {
	out, err := Render([]*frontend.File{file(t)}, options.PrintTree)
	require.NoError(t, err)
	out = pterm.RemoveColorFromString(out)
	assert.Contains(t, out, "ClassDecl A")
	assert.Contains(t, out, "PredefinedType int")
	assert.True(t, strings.HasSuffix(out, "A.cs:4: warning CS0219: assigned but never used\n"))
}
