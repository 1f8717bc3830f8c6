package semantic

import (
	"github.com/cmmoran/cs2cpp/internal/syntax"
)

// DefaultLockType is the identity of the runtime lock type when the front end
// does not name one.
const DefaultLockType TypeID = "Core.ThreadLock"

// Table is a map-backed Provider. The front end fills one Table for the whole
// program; tests build small ones by hand.
type Table struct {
	declared  map[syntax.Node]*Symbol
	resolved  map[syntax.Node]*Symbol
	types     map[syntax.Node]*Type
	constants map[syntax.Node]string
	wellKnown map[WellKnown]TypeID
}

var _ Provider = (*Table)(nil)

func NewTable() *Table {
	return &Table{
		declared:  make(map[syntax.Node]*Symbol),
		resolved:  make(map[syntax.Node]*Symbol),
		types:     make(map[syntax.Node]*Type),
		constants: make(map[syntax.Node]string),
		wellKnown: map[WellKnown]TypeID{
			WellKnownLock:   DefaultLockType,
			WellKnownString: "System.String",
			WellKnownObject: "System.Object",
		},
	}
}

func (t *Table) Declared(n syntax.Node) *Symbol { return t.declared[n] }
func (t *Table) Resolved(n syntax.Node) *Symbol { return t.resolved[n] }
func (t *Table) TypeOf(n syntax.Node) *Type     { return t.types[n] }

func (t *Table) Constant(n syntax.Node) (string, bool) {
	v, ok := t.constants[n]
	return v, ok
}

func (t *Table) WellKnown(w WellKnown) TypeID { return t.wellKnown[w] }

// Declare records the symbol declared by n.
func (t *Table) Declare(n syntax.Node, s *Symbol) *Table {
	t.declared[n] = s
	return t
}

// Resolve records the symbol n refers to.
func (t *Table) Resolve(n syntax.Node, s *Symbol) *Table {
	t.resolved[n] = s
	return t
}

// SetType records the static type of n. An empty ID defaults to the display
// string.
func (t *Table) SetType(n syntax.Node, typ *Type) *Table {
	if typ != nil && typ.ID == "" {
		typ.ID = TypeID(typ.Display)
	}
	t.types[n] = typ
	return t
}

// SetConstant records the compile-time value of n.
func (t *Table) SetConstant(n syntax.Node, v string) *Table {
	t.constants[n] = v
	return t
}

// SetWellKnown overrides the identity of a runtime type.
func (t *Table) SetWellKnown(w WellKnown, id TypeID) *Table {
	if id != "" {
		t.wellKnown[w] = id
	}
	return t
}
