// Package typemap turns type syntax and resolved symbols into model type
// descriptors and formats compile-time constants.
package typemap

import (
	"strings"

	"github.com/cmmoran/cs2cpp/internal/cppname"
	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/model"
	"github.com/cmmoran/cs2cpp/internal/semantic"
	"github.com/cmmoran/cs2cpp/internal/syntax"
)

// Mapper resolves types through a semantic provider and reports mapping
// errors to a diag.Reporter.
type Mapper struct {
	sem semantic.Provider
	rep *diag.Reporter
}

func New(sem semantic.Provider, rep *diag.Reporter) *Mapper {
	return &Mapper{sem: sem, rep: rep}
}

// Provider exposes the provider the mapper was built with.
func (m *Mapper) Provider() semantic.Provider { return m.sem }

// FromSyntax builds a descriptor for type syntax or for any expression whose
// symbol names a type or member. With useName the simple symbol name is used
// instead of the qualified display string.
func (m *Mapper) FromSyntax(n syntax.Node, useName bool) *model.Type {
	t := &model.Type{}
	m.fill(t, n, useName)
	t.Classify()
	return t
}

// FromTypeParameter builds the descriptor of a declared generic parameter.
func (m *Mapper) FromTypeParameter(tp *syntax.TypeParameter) *model.Type {
	name := tp.Name
	if s := m.sem.Declared(tp); s != nil && s.Name != "" {
		name = s.Name
	}
	t := &model.Type{Kind: semantic.TypeTypeParameter, SymbolKind: semantic.SymbolTypeParameter}
	t.Set(name)
	t.Classify()
	return t
}

func (m *Mapper) fill(t *model.Type, n syntax.Node, useName bool) {
	for {
		switch x := n.(type) {
		case *syntax.ArrayType:
			t.Arrays += len(x.Ranks)
			if t.Arrays > model.MaxArrayRank {
				m.rep.Errorf(x.Position(), diag.CodeArrayRank, "Array Dimensions not supported:%d", t.Arrays)
				t.Invalid = true
			}
			n = x.Element
			continue
		case *syntax.PointerType:
			t.Ptrs++
			n = x.Element
			continue
		}
		break
	}
	m.resolveName(t, n, useName)
}

func (m *Mapper) resolveName(t *model.Type, n syntax.Node, useName bool) {
	sym := m.sem.Resolved(n)
	if sym == nil {
		if pt, ok := n.(*syntax.PredefinedType); ok {
			t.Set(pt.Keyword)
			return
		}
		if syntax.Text(n) == "Length" {
			// length of a template array; spelled literally
			t.Set("Length")
			return
		}
		pos := syntax.Pos{}
		if n != nil {
			pos = n.Position()
		}
		m.rep.Errorf(pos, diag.CodeUnresolved, "symbol==null:%s:%s", syntax.KindOf(n), syntax.Text(n))
		t.Invalid = true
		return
	}
	if sym.Kind == semantic.SymbolParameter {
		useName = true
	}
	t.SymbolKind = sym.Kind
	if typ := m.sem.TypeOf(n); typ != nil {
		t.Kind = typ.Kind
	}
	switch v, ok := m.Constant(n, true); {
	case ok:
		t.Spelling = v
	case useName:
		t.Set(sym.Name)
	default:
		t.Set(sym.Display)
	}

	if g, ok := n.(*syntax.GenericName); ok {
		t.Generic = true
		open, end := strings.LastIndex(t.Spelling, "<"), strings.LastIndex(t.Spelling, ">")
		if open != -1 && end != -1 && end > open {
			args := make([]string, 0, len(g.TypeArgs))
			for _, a := range g.TypeArgs {
				args = append(args, m.FromSyntax(a, false).Declaration())
			}
			t.Spelling = t.Spelling[:open+1] + strings.Join(args, ",") + t.Spelling[end:]
		}
	} else if strings.Contains(t.Spelling, "<") {
		t.Generic = true
	}
	if t.Generic {
		t.Spelling = DependentName(t.Spelling)
	}
}

// DependentName inserts the typename and template disambiguators required
// when more than one scope segment carries template arguments:
// "A::B<X>::C<Y>" -> "typename A::B<X>::template C<Y>".
func DependentName(spelling string) string {
	parts := strings.Split(spelling, cppname.Scope)
	cnt := 0
	for _, p := range parts {
		if strings.Contains(p, "<") {
			cnt++
		}
	}
	if cnt <= 1 {
		return spelling
	}
	pos := 0
	for i, p := range parts {
		if !strings.Contains(p, "<") {
			continue
		}
		if cnt > 1 {
			parts[pos] = "typename " + parts[pos]
		} else {
			parts[pos] = "template " + parts[pos]
		}
		pos = i + 1
		cnt--
	}
	return strings.Join(parts, cppname.Scope)
}
