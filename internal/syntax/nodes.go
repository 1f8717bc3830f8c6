// Package syntax holds the resolved syntax tree handed over by the front end.
//
// The node set is closed: every consumer dispatches with a type switch and
// treats an unknown variant as fatal.
package syntax

import (
	"fmt"
	"strings"
)

// Pos is a source location.
type Pos struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"`
	Line int    `json:"line,omitempty" yaml:"line,omitempty"`
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Node is implemented by every variant in this package.
type Node interface {
	Position() Pos
	isNode()
}

// Base carries the location shared by all nodes.
type Base struct {
	At Pos
}

func (b Base) Position() Pos { return b.At }
func (Base) isNode()         {}

// KindOf names the variant of n, e.g. "ForEachStmt".
func KindOf(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*syntax.")
}

// -----------------------------------------------------------------------------
// Declarations

type ClassKind int

const (
	ClassKindClass ClassKind = iota
	ClassKindStruct
	ClassKindInterface
)

// CompilationUnit is the root of one source file.
type CompilationUnit struct {
	Base
	Path    string
	Members []Node
}

type UsingDirective struct {
	Base
	Name string
}

type NamespaceDecl struct {
	Base
	Name    string
	Members []Node
}

type ClassDecl struct {
	Base
	Kind       ClassKind
	Name       string
	Attributes []*Attribute
	TypeParams []*TypeParameter
	BaseList   []Node
	Members    []Node
}

type TypeParameter struct {
	Base
	Name string
}

type Attribute struct {
	Base
	Name string
	Args []string
}

type EnumDecl struct {
	Base
	Name       string
	Attributes []*Attribute
	Members    []*EnumMember
}

type EnumMember struct {
	Base
	Name  string
	Value Node
}

type DelegateDecl struct {
	Base
	ReturnType Node
	Name       string
	TypeParams []*TypeParameter
	Params     []*Parameter
}

type FieldDecl struct {
	Base
	Attributes []*Attribute
	Decl       *VariableDecl
}

// VariableDecl is shared by fields, locals, for initializers and fixed
// statements.
type VariableDecl struct {
	Base
	Type      Node
	Variables []*VariableDeclarator
}

type VariableDeclarator struct {
	Base
	Name string
	// Init is an expression or an *ArrayInitializer.
	Init Node
}

type AccessorKind int

const (
	AccessorGet AccessorKind = iota
	AccessorSet
)

type PropertyDecl struct {
	Base
	Type      Node
	Name      string
	Accessors []*Accessor
}

type Accessor struct {
	Base
	Kind AccessorKind
	Body *Block
}

type InitializerKind int

const (
	InitBase InitializerKind = iota
	InitThis
)

type ConstructorInitializer struct {
	Base
	Kind InitializerKind
	Args []Node
}

type ConstructorDecl struct {
	Base
	Params      []*Parameter
	Initializer *ConstructorInitializer
	Body        *Block
}

type DestructorDecl struct {
	Base
	Body *Block
}

type MethodDecl struct {
	Base
	ReturnType Node
	Name       string
	TypeParams []*TypeParameter
	Params     []*Parameter
	Body       *Block
}

type OperatorDecl struct {
	Base
	ReturnType Node
	Params     []*Parameter
	Body       *Block
}

// ConversionOperatorDecl is accepted and skipped.
type ConversionOperatorDecl struct {
	Base
}

// ConstraintClause (where T : ...) is accepted and skipped.
type ConstraintClause struct {
	Base
}

type Parameter struct {
	Base
	Name string
	// Type is nil for implicitly typed lambda parameters.
	Type    Node
	Default Node
}

// -----------------------------------------------------------------------------
// Type syntax

type PredefinedType struct {
	Base
	Keyword string
}

type IdentifierName struct {
	Base
	Name string
}

type QualifiedName struct {
	Base
	Left  Node
	Right Node
}

type GenericName struct {
	Base
	Name     string
	TypeArgs []Node
}

type ArrayType struct {
	Base
	Element Node
	Ranks   []*ArrayRank
}

// ArrayRank is one [] specifier. Size is nil when omitted.
type ArrayRank struct {
	Base
	Size Node
}

type PointerType struct {
	Base
	Element Node
}

// -----------------------------------------------------------------------------
// Statements

type Block struct {
	Base
	Stmts []Node
}

type UnsafeStmt struct {
	Base
	Body *Block
}

type ExprStmt struct {
	Base
	X Node
}

type LocalDeclStmt struct {
	Base
	Decl *VariableDecl
}

type ReturnStmt struct {
	Base
	Value Node
}

type WhileStmt struct {
	Base
	Cond Node
	Body Node
}

type DoStmt struct {
	Base
	Body Node
	Cond Node
}

type ForStmt struct {
	Base
	Decl *VariableDecl
	Init []Node
	Cond Node
	Post []Node
	Body Node
}

type ForEachStmt struct {
	Base
	Type       Node
	Name       string
	Collection Node
	Body       Node
}

type IfStmt struct {
	Base
	Cond Node
	Then Node
	Else Node
}

type TryStmt struct {
	Base
	Body    *Block
	Catches []*CatchClause
	Finally *Block
}

// CatchClause with a nil Type is a catch-all.
type CatchClause struct {
	Base
	Type Node
	Name string
	Body *Block
}

// ThrowStmt with a nil X rethrows.
type ThrowStmt struct {
	Base
	X Node
}

type FixedStmt struct {
	Base
	Decl *VariableDecl
	Body Node
}

type LockStmt struct {
	Base
	X    Node
	Body Node
}

type SwitchStmt struct {
	Base
	Tag      Node
	Sections []*SwitchSection
}

type SwitchSection struct {
	Base
	Labels []Node
	Stmts  []Node
}

type CaseLabel struct {
	Base
	Value Node
}

type DefaultLabel struct {
	Base
}

type BreakStmt struct {
	Base
}

type ContinueStmt struct {
	Base
}

type GotoCaseStmt struct {
	Base
	Value Node
}

type GotoDefaultStmt struct {
	Base
}

// -----------------------------------------------------------------------------
// Expressions

type MemberAccess struct {
	Base
	X    Node
	Name Node
}

// AssignExpr covers = and the compound forms; Op is "=", "+=", "%=", ...
type AssignExpr struct {
	Base
	Op    string
	Left  Node
	Right Node
}

type InvocationExpr struct {
	Base
	Fun  Node
	Args []Node
}

type ObjectCreationExpr struct {
	Base
	Type Node
	Args []Node
}

type ArrayCreationExpr struct {
	Base
	Type *ArrayType
	Init *ArrayInitializer
}

type ArrayInitializer struct {
	Base
	Elems []Node
}

type LiteralKind int

const (
	LiteralNull LiteralKind = iota
	LiteralTrue
	LiteralFalse
	LiteralNumeric
	LiteralString
	LiteralChar
)

type LiteralExpr struct {
	Base
	Kind LiteralKind
	Text string
}

type BaseExpr struct {
	Base
}

type ThisExpr struct {
	Base
}

type CastExpr struct {
	Base
	Type Node
	X    Node
}

type ElementAccessExpr struct {
	Base
	X     Node
	Index []Node
}

// BinaryExpr Op is the source operator: "+", "%", "==", "&&", "<<", ...
type BinaryExpr struct {
	Base
	Op    string
	Left  Node
	Right Node
}

// UnaryExpr Op is one of "+", "-", "!", "~", "++", "--".
type UnaryExpr struct {
	Base
	Op      string
	Postfix bool
	X       Node
}

type ParenExpr struct {
	Base
	X Node
}

type PointerIndirectionExpr struct {
	Base
	X Node
}

type PointerMemberAccessExpr struct {
	Base
	X    Node
	Name Node
}

type LambdaExpr struct {
	Base
	Params []*Parameter
	Body   *Block
}

type DefaultExpr struct {
	Base
	Type Node
}

type TypeOfExpr struct {
	Base
	Type Node
}

type IsExpr struct {
	Base
	X    Node
	Type Node
}

type AsExpr struct {
	Base
	X    Node
	Type Node
}

type ConditionalExpr struct {
	Base
	Cond Node
	Then Node
	Else Node
}
