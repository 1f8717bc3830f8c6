// Package lower turns method bodies and initializer expressions into target
// source text.
//
// Lowering state lives on an explicit Cursor passed to every call; nothing is
// kept on the Lowerer between methods.
package lower

import (
	"go.uber.org/zap"

	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/logger"
	"github.com/cmmoran/cs2cpp/internal/model"
	"github.com/cmmoran/cs2cpp/internal/semantic"
	"github.com/cmmoran/cs2cpp/internal/syntax"
	"github.com/cmmoran/cs2cpp/internal/typemap"
)

// Lowerer lowers statements and expressions. It is stateless between calls
// apart from the diagnostics it reports.
type Lowerer struct {
	types *typemap.Mapper
	sem   semantic.Provider
	rep   *diag.Reporter
	log   *zap.SugaredLogger
}

func New(types *typemap.Mapper, rep *diag.Reporter) *Lowerer {
	return &Lowerer{
		types: types,
		sem:   types.Provider(),
		rep:   rep,
		log:   logger.Named("lower"),
	}
}

// Cursor is the position of the lowerer in the program: the class and
// method being generated and the buffer receiving statements.
type Cursor struct {
	Class *model.Class
	// Method is nil while lowering field initializers.
	Method *model.Method
	Out    *model.Code

	switches   []switchFrame
	nextSwitch int
	lambda     int
	// scopes holds the enclosing loops and string switches, innermost last.
	scopes []*jumpScope
}

type switchFrame struct {
	id   int
	stmt *syntax.SwitchStmt
	// str is set for string switches, which have no labels to jump to.
	str bool
}

// jumpScope is a loop, or the carrier loop of a string switch. A continue
// inside a carrier targets the enclosing loop, so it sets cont and leaves the
// carrier instead.
type jumpScope struct {
	loop bool
	cont string
	used bool
}

// NewCursor starts lowering into out. Switch ids restart at zero for every
// cursor, so one cursor is used per method.
func NewCursor(cls *model.Class, method *model.Method, out *model.Code) *Cursor {
	return &Cursor{Class: cls, Method: method, Out: out}
}

// capture runs f with Out redirected to a fresh buffer and returns what f
// wrote.
func (c *Cursor) capture(f func() error) (string, error) {
	saved := c.Out
	buf := &model.Code{}
	c.Out = buf
	err := f()
	c.Out = saved
	return buf.String(), err
}

// returnsObject reports whether returns go through the $ret local.
func (c *Cursor) returnsObject() bool {
	return c.lambda == 0 && c.Method != nil && c.Method.Type != nil && c.Method.Type.Object
}

// BlockOptions control the prologue and epilogue of a block.
type BlockOptions struct {
	// Top marks the outermost block of a method body.
	Top bool
	// Ctor calls $init before the first statement.
	Ctor bool
	// ThrowFinally ends the block by throwing the finally sentinel.
	ThrowFinally bool
}

// Body lowers a method body into the method's own buffer.
func (l *Lowerer) Body(cls *model.Class, m *model.Method, b *syntax.Block) error {
	cur := NewCursor(cls, m, &m.Body)
	return l.Block(cur, b, BlockOptions{Top: true, Ctor: m.Ctor})
}

// Block lowers b into cur.Out.
func (l *Lowerer) Block(cur *Cursor, b *syntax.Block, opts BlockOptions) error {
	cur.Out.Write("{\n")
	if opts.Ctor {
		cur.Out.Write("$init();\n")
	}
	if opts.Top && cur.returnsObject() {
		cur.Out.Write(cur.Method.Type.Declaration(), " $ret;\n")
	}
	if b != nil {
		for _, s := range b.Stmts {
			if err := l.Stmt(cur, s); err != nil {
				return err
			}
		}
	}
	if opts.ThrowFinally {
		cur.Out.Write("throw new System::FinallyException();")
	}
	cur.Out.Write("}\n")
	return nil
}

// Initializer lowers the value assigned to a declarator of type typ. Array
// initializer lists are expanded against the declared rank.
func (l *Lowerer) Initializer(cur *Cursor, typ *model.Type, init syntax.Node) (string, error) {
	if ai, ok := init.(*syntax.ArrayInitializer); ok {
		return l.arrayInit(cur, typ, typ.Arrays, ai)
	}
	return l.Expr(cur, init, false)
}

// Args lowers an argument list without the parentheses.
func (l *Lowerer) Args(cur *Cursor, args []syntax.Node) (string, error) {
	return l.list(cur, args, ",")
}
