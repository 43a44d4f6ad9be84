// Package ast defines the surface AST the middle end consumes. It is the
// contract produced by the (out of scope) STS parser and semantic analyzer:
// a tree of typed nodes with span information, already scope-resolved via
// the companion internal/scope package.
package ast

// Node is the base interface implemented by every AST node.
type Node interface {
	Position() Pos
}

// Pos is a single source location.
type Pos struct {
	File   string
	Line   int
	Column int
	Offset int
}

// Span is a source range, start inclusive, end exclusive.
type Span struct {
	Start Pos
	End   Pos
}

// Decl, Stmt, Expr, TypeAnn and Pattern are marker interfaces distinguishing
// the AST's four syntactic categories plus destructuring patterns.
type Decl interface {
	Node
	declNode()
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

// TypeAnn is a type annotation as written in source, prior to resolution.
type TypeAnn interface {
	Node
	typeNode()
}

// Pattern is a destructuring target: an identifier, or a nested object/array shape.
type Pattern interface {
	Node
	patternNode()
}

// File is one source file's worth of top-level declarations.
type File struct {
	Path    string
	Imports []*ImportDecl
	Decls   []Decl
	Pos     Pos
}

func (f *File) Position() Pos { return f.Pos }

// ImportDecl brings symbols from another file into scope. Resolution into a
// concrete source file is the module resolver's job (internal/importgraph
// records the already-resolved result).
type ImportDecl struct {
	Path    string
	Symbols []string
	Alias   string
	Pos     Pos
	Span    Span
}

func (i *ImportDecl) Position() Pos { return i.Pos }

// ExportDecl marks a wrapped declaration as part of the file's public surface.
type ExportDecl struct {
	Decl Decl
	Pos  Pos
}

func (e *ExportDecl) Position() Pos { return e.Pos }
func (e *ExportDecl) declNode()     {}

// --- Declarations -----------------------------------------------------

// TypeParam is one generic type parameter, with optional `extends` constraint
// and default.
type TypeParam struct {
	Name       string
	Constraint TypeAnn
	Default    TypeAnn
	Pos        Pos
}

// Param is one function parameter. Type is required by the Validator's
// rejected-constructs rule (no untyped parameters).
type Param struct {
	Name    string
	Type    TypeAnn
	Default Expr
	Pos     Pos
}

// FuncDecl is a top-level or method function declaration.
type FuncDecl struct {
	Name       string
	TypeParams []*TypeParam
	Params     []*Param
	ReturnType TypeAnn // nil is rejected by the Validator
	Body       *Block
	IsExport   bool
	Pos        Pos
	Span       Span
}

func (f *FuncDecl) Position() Pos { return f.Pos }
func (f *FuncDecl) declNode()     {}

// FieldDecl is one class instance field.
type FieldDecl struct {
	Name string
	Type TypeAnn
	Pos  Pos
}

// MethodKind distinguishes a plain method from a property accessor.
type MethodKind int

const (
	MethodPlain MethodKind = iota
	MethodGetter
	MethodSetter
)

// MethodDecl is one class method, getter, or setter.
type MethodDecl struct {
	Kind       MethodKind
	Name       string
	TypeParams []*TypeParam
	Params     []*Param
	ReturnType TypeAnn
	Body       *Block
	Pos        Pos
}

// ClassDecl is a class declaration. Classes have no inheritance or dynamic
// dispatch in this language: they are struct + free-function sugar, lowered
// by the Desugarer.
type ClassDecl struct {
	Name       string
	TypeParams []*TypeParam
	Fields     []*FieldDecl
	Methods    []*MethodDecl
	IsExport   bool
	Pos        Pos
}

func (c *ClassDecl) Position() Pos { return c.Pos }
func (c *ClassDecl) declNode()     {}

// InterfaceDecl declares a structural interface. Interfaces are erased by
// the Type Resolver; structural identity is what matters, not the name.
type InterfaceDecl struct {
	Name       string
	TypeParams []*TypeParam
	Methods    []*MethodSig
	Pos        Pos
}

func (i *InterfaceDecl) Position() Pos { return i.Pos }
func (i *InterfaceDecl) declNode()     {}

// MethodSig is one interface method signature (no body).
type MethodSig struct {
	Name       string
	Params     []*Param
	ReturnType TypeAnn
	Pos        Pos
}

// TypeAliasDecl binds a name to a type expression.
type TypeAliasDecl struct {
	Name       string
	TypeParams []*TypeParam
	Type       TypeAnn
	IsExport   bool
	Pos        Pos
}

func (t *TypeAliasDecl) Position() Pos { return t.Pos }
func (t *TypeAliasDecl) declNode()     {}

// EnumMember is one enum member. Init is nil for an auto-incremented numeric
// member, a *Literal(IntLit) for an explicit numeric initializer, or a
// *Literal(StringLit) for a string-initializer member.
type EnumMember struct {
	Name string
	Init Expr
	Pos  Pos
}

// EnumDecl declares a numeric or string enum.
type EnumDecl struct {
	Name     string
	Members  []*EnumMember
	IsConst  bool
	IsExport bool
	Pos      Pos
}

func (e *EnumDecl) Position() Pos { return e.Pos }
func (e *EnumDecl) declNode()     {}

// --- Statements ---------------------------------------------------------

// Block is a brace-delimited statement sequence.
type Block struct {
	Stmts []Stmt
	Pos   Pos
}

func (b *Block) Position() Pos { return b.Pos }
func (b *Block) stmtNode()     {}

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	X   Expr
	Pos Pos
}

func (e *ExprStmt) Position() Pos { return e.Pos }
func (e *ExprStmt) stmtNode()     {}

// VarDecl is a `let`/`const` binding, optionally destructuring via Pattern.
type VarDecl struct {
	Kind    string // "let" or "const"
	Name    string // empty when Pattern is set
	Pattern Pattern
	Type    TypeAnn
	Value   Expr
	Pos     Pos
}

func (v *VarDecl) Position() Pos { return v.Pos }
func (v *VarDecl) stmtNode()     {}

// IfStmt is a conditional. Else is nil, a *Block, or a nested *IfStmt
// (else-if chains).
type IfStmt struct {
	Cond Expr
	Then *Block
	Else Stmt
	Pos  Pos
}

func (i *IfStmt) Position() Pos { return i.Pos }
func (i *IfStmt) stmtNode()     {}

// WhileStmt is a `while` loop.
type WhileStmt struct {
	Cond Expr
	Body *Block
	Pos  Pos
}

func (w *WhileStmt) Position() Pos { return w.Pos }
func (w *WhileStmt) stmtNode()     {}

// ForOfStmt is a `for (const x of arr)` loop.
type ForOfStmt struct {
	VarName  string
	Iterable Expr
	Body     *Block
	Pos      Pos
}

func (f *ForOfStmt) Position() Pos { return f.Pos }
func (f *ForOfStmt) stmtNode()     {}

// SwitchCase is one `case`/`default` arm.
type SwitchCase struct {
	Test      Expr // nil for default
	Body      []Stmt
	IsDefault bool
	Pos       Pos
}

// SwitchStmt is a `switch` statement.
type SwitchStmt struct {
	Disc  Expr
	Cases []*SwitchCase
	Pos   Pos
}

func (s *SwitchStmt) Position() Pos { return s.Pos }
func (s *SwitchStmt) stmtNode()     {}

// ReturnStmt returns from the enclosing function. Value is nil for `return;`.
type ReturnStmt struct {
	Value Expr
	Pos   Pos
}

func (r *ReturnStmt) Position() Pos { return r.Pos }
func (r *ReturnStmt) stmtNode()     {}

// ThrowStmt raises a value; the Desugarer turns the enclosing function into
// a Result-returning function.
type ThrowStmt struct {
	Value Expr
	Pos   Pos
}

func (t *ThrowStmt) Position() Pos { return t.Pos }
func (t *ThrowStmt) stmtNode()     {}

// TryStmt is a `try`/`catch`/`finally` statement.
type TryStmt struct {
	Body        *Block
	CatchParam  string // empty if no catch clause
	CatchBody   *Block
	FinallyBody *Block // nil if no finally clause
	Pos         Pos
}

func (t *TryStmt) Position() Pos { return t.Pos }
func (t *TryStmt) stmtNode()     {}

// BreakStmt exits the innermost loop or switch.
type BreakStmt struct{ Pos Pos }

func (b *BreakStmt) Position() Pos { return b.Pos }
func (b *BreakStmt) stmtNode()     {}

// ContinueStmt advances the innermost loop.
type ContinueStmt struct{ Pos Pos }

func (c *ContinueStmt) Position() Pos { return c.Pos }
func (c *ContinueStmt) stmtNode()     {}

// --- Expressions ---------------------------------------------------------

// LiteralKind distinguishes the primitive literal forms.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	BoolLit
	NullLit
	UndefinedLit
)

// Literal is a primitive literal value.
type Literal struct {
	Kind  LiteralKind
	Value interface{}
	Pos   Pos
}

func (l *Literal) Position() Pos { return l.Pos }
func (l *Literal) exprNode()     {}

// Identifier is a bare name reference, resolved via internal/scope.
type Identifier struct {
	Name string
	Pos  Pos
}

func (i *Identifier) Position() Pos { return i.Pos }
func (i *Identifier) exprNode()     {}

// Member is `object.property`.
type Member struct {
	Object   Expr
	Property string
	Pos      Pos
}

func (m *Member) Position() Pos { return m.Pos }
func (m *Member) exprNode()     {}

// OptionalMember is `object?.property`.
type OptionalMember struct {
	Object   Expr
	Property string
	Pos      Pos
}

func (o *OptionalMember) Position() Pos { return o.Pos }
func (o *OptionalMember) exprNode()     {}

// Index is `object[indexExpr]`.
type Index struct {
	Object Expr
	Index  Expr
	Pos    Pos
}

func (x *Index) Position() Pos { return x.Pos }
func (x *Index) exprNode()     {}

// Call is a function or method invocation, with optional explicit type
// arguments (`f<T=Int32>(...)`).
type Call struct {
	Callee   Expr
	TypeArgs []TypeAnn
	Args     []Expr
	Pos      Pos
}

func (c *Call) Position() Pos { return c.Pos }
func (c *Call) exprNode()     {}

// New is `new C(args)`.
type New struct {
	Callee Expr
	Args   []Expr
	Pos    Pos
}

func (n *New) Position() Pos { return n.Pos }
func (n *New) exprNode()     {}

// Unary is a prefix operator (`!`, `-`, `typeof`, etc).
type Unary struct {
	Op  string
	X   Expr
	Pos Pos
}

func (u *Unary) Position() Pos { return u.Pos }
func (u *Unary) exprNode()     {}

// Binary is an infix operator, including `instanceof`.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   Pos
}

func (b *Binary) Position() Pos { return b.Pos }
func (b *Binary) exprNode()     {}

// Assign is `target op= value`; Op is "=" for plain assignment or a compound
// operator ("+=", "-=", ...)
type Assign struct {
	Target Expr
	Op     string
	Value  Expr
	Pos    Pos
}

func (a *Assign) Position() Pos { return a.Pos }
func (a *Assign) exprNode()     {}

// Conditional is the ternary `cond ? then : else`.
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
	Pos  Pos
}

func (c *Conditional) Position() Pos { return c.Pos }
func (c *Conditional) exprNode()     {}

// Arrow is an arrow-function literal. Body is either an Expr (expression
// body) or a *Block (block body).
type Arrow struct {
	Params     []*Param
	ReturnType TypeAnn
	Body       Node
	Pos        Pos
}

func (a *Arrow) Position() Pos { return a.Pos }
func (a *Arrow) exprNode()     {}

// Template is a template literal: Quasis has len(Exprs)+1 string fragments
// interleaved with interpolated expressions.
type Template struct {
	Quasis []string
	Exprs  []Expr
	Pos    Pos
}

func (t *Template) Position() Pos { return t.Pos }
func (t *Template) exprNode()     {}

// ObjectField is one key:value entry of an object literal.
type ObjectField struct {
	Key   string
	Value Expr
	Pos   Pos
}

// ObjectLiteral is a `{ key: value, ... }` literal.
type ObjectLiteral struct {
	Fields []*ObjectField
	Pos    Pos
}

func (o *ObjectLiteral) Position() Pos { return o.Pos }
func (o *ObjectLiteral) exprNode()     {}

// ArrayLiteral is a `[e1, e2, ...]` literal; elements may include *Spread.
type ArrayLiteral struct {
	Elements []Expr
	Pos      Pos
}

func (a *ArrayLiteral) Position() Pos { return a.Pos }
func (a *ArrayLiteral) exprNode()     {}

// Spread is `...expr` inside an array literal or call argument list.
type Spread struct {
	X   Expr
	Pos Pos
}

func (s *Spread) Position() Pos { return s.Pos }
func (s *Spread) exprNode()     {}

// NullishCoalesce is `a ?? b`.
type NullishCoalesce struct {
	Left  Expr
	Right Expr
	Pos   Pos
}

func (n *NullishCoalesce) Position() Pos { return n.Pos }
func (n *NullishCoalesce) exprNode()     {}

// InstanceOf is `x instanceof C` narrowed against a union variant.
type InstanceOf struct {
	X        Expr
	TypeName string
	Pos      Pos
}

func (i *InstanceOf) Position() Pos { return i.Pos }
func (i *InstanceOf) exprNode()     {}

// TypeOf is `typeof x`, compared against a string literal to narrow a union.
type TypeOf struct {
	X   Expr
	Pos Pos
}

func (t *TypeOf) Position() Pos { return t.Pos }
func (t *TypeOf) exprNode()     {}

// --- Destructuring patterns ----------------------------------------------

// IdentPattern binds a single name.
type IdentPattern struct {
	Name string
	Pos  Pos
}

func (i *IdentPattern) Position() Pos { return i.Pos }
func (i *IdentPattern) patternNode()  {}

// ObjectPatternField is one `key: subpattern` entry of an object pattern.
type ObjectPatternField struct {
	Key     string
	Value   Pattern
	Default Expr
	Pos     Pos
}

// ObjectPattern destructures an object/struct value by field name.
// Rest, if non-empty, names a binding collecting the remaining fields; the
// Validator does not inspect it and the Desugarer binds nothing for it.
type ObjectPattern struct {
	Fields []*ObjectPatternField
	Rest   string
	Pos    Pos
}

func (o *ObjectPattern) Position() Pos { return o.Pos }
func (o *ObjectPattern) patternNode()  {}

// ArrayPattern destructures an array value positionally.
type ArrayPattern struct {
	Elements []Pattern
	Rest     string
	Pos      Pos
}

func (a *ArrayPattern) Position() Pos { return a.Pos }
func (a *ArrayPattern) patternNode()  {}

// --- Type annotations ------------------------------------------------------

// NamedType references a primitive, or a declared struct/class/interface/enum
// name, with optional generic arguments.
type NamedType struct {
	Name string
	Args []TypeAnn
	Pos  Pos
}

func (n *NamedType) Position() Pos { return n.Pos }
func (n *NamedType) typeNode()     {}

// UnionType is `T1 | T2 | ...`.
type UnionType struct {
	Variants []TypeAnn
	Pos      Pos
}

func (u *UnionType) Position() Pos { return u.Pos }
func (u *UnionType) typeNode()     {}

// ArrayType is `T[]`.
type ArrayType struct {
	Element TypeAnn
	Pos     Pos
}

func (a *ArrayType) Position() Pos { return a.Pos }
func (a *ArrayType) typeNode()     {}

// TupleType is `[T1, T2, ...]`.
type TupleType struct {
	Elements []TypeAnn
	Pos      Pos
}

func (t *TupleType) Position() Pos { return t.Pos }
func (t *TupleType) typeNode()     {}

// FuncType is a function type annotation `(T1, T2) => R`.
type FuncType struct {
	Params []TypeAnn
	Return TypeAnn
	Pos    Pos
}

func (f *FuncType) Position() Pos { return f.Pos }
func (f *FuncType) typeNode()     {}

// GenericRef references an in-scope type parameter by name.
type GenericRef struct {
	Name string
	Pos  Pos
}

func (g *GenericRef) Position() Pos { return g.Pos }
func (g *GenericRef) typeNode()     {}

// WeakType is `Weak<T>`, a cycle-breaking non-owning reference marker
//.
type WeakType struct {
	Inner TypeAnn
	Pos   Pos
}

func (w *WeakType) Position() Pos { return w.Pos }
func (w *WeakType) typeNode()     {}

// TypeField is one field of an anonymous object type literal.
type TypeField struct {
	Name string
	Type TypeAnn
	Pos  Pos
}

// ObjectTypeLit is an inline `{ field: T, ... }` type annotation.
type ObjectTypeLit struct {
	Fields []*TypeField
	Pos    Pos
}

func (o *ObjectTypeLit) Position() Pos { return o.Pos }
func (o *ObjectTypeLit) typeNode()     {}

// LiteralType is a string- or numeric-literal type, used as a discriminant
// (e.g. `"circle"` in `{kind: "circle"; r: f64}`).
type LiteralType struct {
	Kind  LiteralKind
	Value interface{}
	Pos   Pos
}

func (l *LiteralType) Position() Pos { return l.Pos }
func (l *LiteralType) typeNode()     {}
