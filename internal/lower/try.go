package lower

import (
	"strconv"

	"github.com/cmmoran/cs2cpp/internal/cppname"
	"github.com/cmmoran/cs2cpp/internal/syntax"
)

// tryStmt lowers try/catch/finally. The target language has no finally, so
// a try with a finally block is nested in an outer try. Normal completion of
// the body or a handler throws System::FinallyException, which the outer
// handler catches to run the finally block. Any other exception escaping
// the inner try runs the finally block and is rethrown. A return, break or
// continue leaves before the sentinel is thrown and skips the finally block.
func (l *Lowerer) tryStmt(cur *Cursor, x *syntax.TryStmt) error {
	hasFinally := x.Finally != nil
	if hasFinally {
		cur.Out.Write("try {")
	}
	cur.Out.Write("try ")
	if err := l.Block(cur, x.Body, BlockOptions{ThrowFinally: hasFinally}); err != nil {
		return err
	}
	if hasFinally && len(x.Catches) > 0 {
		// keep the sentinel away from the handlers below
		cur.Out.Write(" catch(System::FinallyException*){throw;}")
	}
	for _, c := range x.Catches {
		if c.Type != nil {
			typ, err := l.Expr(cur, c.Type, false)
			if err != nil {
				return err
			}
			cur.Out.Write(" catch(", typ, " *", l.catchName(c), ")")
		} else {
			cur.Out.Write(" catch (...)")
		}
		if err := l.Block(cur, c.Body, BlockOptions{ThrowFinally: hasFinally}); err != nil {
			return err
		}
	}
	if !hasFinally {
		return nil
	}
	cur.Out.Write("} catch(System::FinallyException *$finally", strconv.Itoa(cur.Class.NextFinally()), ") ")
	if err := l.Block(cur, x.Finally, BlockOptions{}); err != nil {
		return err
	}
	cur.Out.Write(" catch (...) {")
	for _, s := range x.Finally.Stmts {
		if err := l.Stmt(cur, s); err != nil {
			return err
		}
	}
	cur.Out.Write("throw;}\n")
	return nil
}

func (l *Lowerer) catchName(c *syntax.CatchClause) string {
	if s := l.sem.Declared(c); s != nil && s.Name != "" {
		return cppname.Name(s.Name)
	}
	return cppname.Name(c.Name)
}
