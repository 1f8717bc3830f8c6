package lower

import (
	"strconv"

	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/syntax"
)

// intSwitch lowers a switch over integral or enum values. Every label gets a
// jump target so goto case and goto default can reach it:
//
//	case 3:
//	$case_0_1:
func (l *Lowerer) intSwitch(cur *Cursor, x *syntax.SwitchStmt) error {
	tag, err := l.Expr(cur, x.Tag, false)
	if err != nil {
		return err
	}
	frame := switchFrame{id: cur.nextSwitch, stmt: x}
	cur.nextSwitch++
	cur.switches = append(cur.switches, frame)
	defer func() { cur.switches = cur.switches[:len(cur.switches)-1] }()

	sid := strconv.Itoa(frame.id)
	// A continue passes through a native switch, which is wrong when the
	// switch sits directly in a string switch carrier; forward it instead.
	var scope *jumpScope
	if n := len(cur.scopes); n > 0 && !cur.scopes[n-1].loop {
		scope = &jumpScope{cont: "$sw_" + sid + "_cont"}
		cur.scopes = append(cur.scopes, scope)
	}
	body, err := cur.capture(func() error { return l.switchSections(cur, x, sid) })
	if scope != nil {
		cur.scopes = cur.scopes[:len(cur.scopes)-1]
	}
	if err != nil {
		return err
	}
	if scope != nil && scope.used {
		cur.Out.Write("bool ", scope.cont, " = false;\n")
	}
	cur.Out.Write("switch (", tag, ") {\n", body, "}\n")
	if scope != nil && scope.used {
		cur.Out.Write("if (", scope.cont, ") {\n")
		l.continueStmt(cur)
		cur.Out.Write("}\n")
	}
	return nil
}

func (l *Lowerer) switchSections(cur *Cursor, x *syntax.SwitchStmt, sid string) error {
	caseIdx := 0
	for _, sec := range x.Sections {
		for _, lbl := range sec.Labels {
			switch lb := lbl.(type) {
			case *syntax.CaseLabel:
				v, err := l.caseValue(cur, lb.Value)
				if err != nil {
					return err
				}
				cur.Out.Write("case ", v, ":\n")
				cur.Out.Write("$case_", sid, "_", strconv.Itoa(caseIdx), ":\n")
				caseIdx++
			case *syntax.DefaultLabel:
				cur.Out.Write("default:\n")
				cur.Out.Write("$default_", sid, ":\n")
			default:
				return diag.Unsupported(lbl, "switch label")
			}
		}
		cur.Out.Write("{\n")
		for _, s := range sec.Stmts {
			if err := l.Stmt(cur, s); err != nil {
				return err
			}
		}
		cur.Out.Write("}\n")
	}
	return nil
}

// caseValue renders a case label constant without the enum cast a plain
// expression would get.
func (l *Lowerer) caseValue(cur *Cursor, n syntax.Node) (string, error) {
	if v, ok := l.types.Constant(n, false); ok {
		return v, nil
	}
	return l.Expr(cur, n, false)
}

// stringSwitch lowers a switch over strings into a run-once loop of Equals
// tests. The default section is tested last and fires when no other section
// matched. A continue inside a section sets the $ss_N_cont flag and leaves
// the carrier loop; the enclosing loop is continued after it.
func (l *Lowerer) stringSwitch(cur *Cursor, x *syntax.SwitchStmt) error {
	tag, err := l.Expr(cur, x.Tag, false)
	if err != nil {
		return err
	}
	ssid := "$ss_" + strconv.Itoa(cur.Class.NextStringSwitch())
	scope := &jumpScope{cont: ssid + "_cont"}

	cur.switches = append(cur.switches, switchFrame{stmt: x, str: true})
	cur.scopes = append(cur.scopes, scope)
	carrier, err := cur.capture(func() error {
		var def *syntax.SwitchSection
		for _, sec := range x.Sections {
			if hasDefault(sec) {
				def = sec
				continue
			}
			if err := l.stringSection(cur, tag, ssid, sec); err != nil {
				return err
			}
		}
		if def != nil {
			return l.stringSection(cur, tag, ssid, def)
		}
		return nil
	})
	cur.scopes = cur.scopes[:len(cur.scopes)-1]
	cur.switches = cur.switches[:len(cur.switches)-1]
	if err != nil {
		return err
	}

	cur.Out.Write("bool ", ssid, " = false;\n")
	if scope.used {
		cur.Out.Write("bool ", scope.cont, " = false;\n")
	}
	cur.Out.Write("while (true) {\n", carrier, "break;\n}\n")
	if scope.used {
		cur.Out.Write("if (", scope.cont, ") {\n")
		l.continueStmt(cur)
		cur.Out.Write("}\n")
	}
	return nil
}

func (l *Lowerer) stringSection(cur *Cursor, tag, ssid string, sec *syntax.SwitchSection) error {
	cur.Out.Write("if (")
	for i, lbl := range sec.Labels {
		if i > 0 {
			cur.Out.Write("||")
		}
		switch lb := lbl.(type) {
		case *syntax.CaseLabel:
			v, err := l.Expr(cur, lb.Value, false)
			if err != nil {
				return err
			}
			cur.Out.Write("(", tag, " != nullptr && ", tag, "->Equals(", v, "))")
		case *syntax.DefaultLabel:
			cur.Out.Write("(!", ssid, ")")
		default:
			return diag.Unsupported(lbl, "switch label")
		}
	}
	cur.Out.Write(") {\n", ssid, " = true;\n")
	for _, s := range sec.Stmts {
		if err := l.Stmt(cur, s); err != nil {
			return err
		}
	}
	cur.Out.Write("}\n")
	return nil
}

func hasDefault(sec *syntax.SwitchSection) bool {
	for _, lbl := range sec.Labels {
		if _, ok := lbl.(*syntax.DefaultLabel); ok {
			return true
		}
	}
	return false
}

// gotoCase jumps to the first case label, in source order, whose constant
// equals the target value.
func (l *Lowerer) gotoCase(cur *Cursor, x *syntax.GotoCaseStmt) {
	frame, ok := l.jumpFrame(cur, x)
	if !ok {
		return
	}
	want, ok := l.sem.Constant(x.Value)
	if !ok {
		l.rep.Errorf(x.Position(), diag.CodeGotoCase, "goto case value is not constant: %s", syntax.Text(x.Value))
		return
	}
	idx := 0
	for _, sec := range frame.stmt.Sections {
		for _, lbl := range sec.Labels {
			cl, ok := lbl.(*syntax.CaseLabel)
			if !ok {
				continue
			}
			if v, ok := l.sem.Constant(cl.Value); ok && v == want {
				cur.Out.Write("goto $case_", strconv.Itoa(frame.id), "_", strconv.Itoa(idx), ";\n")
				return
			}
			idx++
		}
	}
	l.rep.Errorf(x.Position(), diag.CodeGotoCase, "Failed to find goto case target: %s", want)
}

func (l *Lowerer) gotoDefault(cur *Cursor, x *syntax.GotoDefaultStmt) {
	frame, ok := l.jumpFrame(cur, x)
	if !ok {
		return
	}
	if !hasDefaultLabel(frame.stmt) {
		l.rep.Errorf(x.Position(), diag.CodeGotoCase, "goto default without a default label")
		return
	}
	cur.Out.Write("goto $default_", strconv.Itoa(frame.id), ";\n")
}

func hasDefaultLabel(s *syntax.SwitchStmt) bool {
	for _, sec := range s.Sections {
		if hasDefault(sec) {
			return true
		}
	}
	return false
}

// jumpFrame returns the innermost switch, which must be an integral one.
func (l *Lowerer) jumpFrame(cur *Cursor, n syntax.Node) (switchFrame, bool) {
	if len(cur.switches) == 0 {
		l.rep.Errorf(n.Position(), diag.CodeGotoCase, "%s outside of a switch", syntax.KindOf(n))
		return switchFrame{}, false
	}
	frame := cur.switches[len(cur.switches)-1]
	if frame.str {
		l.rep.Errorf(n.Position(), diag.CodeGotoCase, "%s is not supported in a string switch", syntax.KindOf(n))
		return switchFrame{}, false
	}
	return frame, true
}
