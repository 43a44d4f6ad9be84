// Package scope is the input contract carrying the result of the (out of
// scope) semantic analyzer's name resolution: for every identifier
// reference, the declaration it resolves to, and for every declaration its
// export status. Grounded on ailang's module/loader.go symbol
// bookkeeping, generalized from module-level exports to the STS scope model.
package scope

import (
	"github.com/stslang/stsc/internal/ast"
	"github.com/stslang/stsc/internal/identnorm"
)

// Kind distinguishes what a declaration binds.
type Kind int

const (
	KindFunc Kind = iota
	KindClass
	KindInterface
	KindTypeAlias
	KindEnum
	KindVar
	KindParam
	KindTypeParam
)

// Decl records where a name is introduced and whether it is exported.
type Decl struct {
	Name     string
	Kind     Kind
	Node     ast.Node
	File     string
	Exported bool
}

// Table maps every identifier reference in a compilation unit to the
// declaration it resolves to. References are identity-keyed on the AST
// node that names them (an *ast.Identifier, or the name-carrying field of a
// Member/TypeAnn), since the same short name may resolve differently in
// different scopes.
type Table struct {
	refs  map[ast.Node]*Decl
	decls map[ast.Node]*Decl
}

// NewTable constructs an empty scope table.
func NewTable() *Table {
	return &Table{
		refs:  make(map[ast.Node]*Decl),
		decls: make(map[ast.Node]*Decl),
	}
}

// Bind records that declNode introduces decl. decl.Name is normalized to
// NFC so two source files spelling the same identifier with different
// Unicode decompositions still bind the same name (internal/identnorm).
func (t *Table) Bind(declNode ast.Node, decl *Decl) {
	decl.Name = identnorm.NFC(decl.Name)
	t.decls[declNode] = decl
}

// Resolve records that refNode (typically an *ast.Identifier or a type
// reference node) resolves to decl.
func (t *Table) Resolve(refNode ast.Node, decl *Decl) {
	t.refs[refNode] = decl
}

// Lookup returns the declaration a reference node resolves to.
func (t *Table) Lookup(refNode ast.Node) (*Decl, bool) {
	d, ok := t.refs[refNode]
	return d, ok
}

// DeclOf returns the Decl registered for a declaration node.
func (t *Table) DeclOf(declNode ast.Node) (*Decl, bool) {
	d, ok := t.decls[declNode]
	return d, ok
}

// IsExported reports whether the declaration introduced by declNode is part
// of its file's public surface.
func (t *Table) IsExported(declNode ast.Node) bool {
	d, ok := t.decls[declNode]
	return ok && d.Exported
}
