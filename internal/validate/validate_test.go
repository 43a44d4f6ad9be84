package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stslang/stsc/internal/ast"
	"github.com/stslang/stsc/internal/ctx"
	"github.com/stslang/stsc/internal/errors"
	"github.com/stslang/stsc/internal/importgraph"
	"github.com/stslang/stsc/internal/scope"
)

func newCtx() *ctx.Context {
	return ctx.New(scope.NewTable(), importgraph.NewGraph(nil))
}

func TestRejectsBannedType(t *testing.T) {
	c := newCtx()
	fn := &ast.FuncDecl{
		Name: "f",
		Params: []*ast.Param{
			{Name: "x", Type: &ast.NamedType{Name: "any"}},
		},
		ReturnType: &ast.NamedType{Name: "void"},
		Body:       &ast.Block{},
	}
	Run([]*ast.File{{Decls: []ast.Decl{fn}}}, c)

	require.Len(t, c.Diagnostics, 1)
	require.Equal(t, errors.UnsupportedConstruct, c.Diagnostics[0].Code)
}

func TestRejectsMissingParamType(t *testing.T) {
	c := newCtx()
	fn := &ast.FuncDecl{
		Name:       "f",
		Params:     []*ast.Param{{Name: "x"}},
		ReturnType: &ast.NamedType{Name: "void"},
		Body:       &ast.Block{},
	}
	Run([]*ast.File{{Decls: []ast.Decl{fn}}}, c)
	require.NotEmpty(t, c.Diagnostics)
}

func TestRejectsMissingReturnType(t *testing.T) {
	c := newCtx()
	fn := &ast.FuncDecl{Name: "f", Body: &ast.Block{}}
	Run([]*ast.File{{Decls: []ast.Decl{fn}}}, c)
	require.NotEmpty(t, c.Diagnostics)
}

func TestRejectsEvalCall(t *testing.T) {
	c := newCtx()
	fn := &ast.FuncDecl{
		Name:       "f",
		ReturnType: &ast.NamedType{Name: "void"},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.ExprStmt{X: &ast.Call{Callee: &ast.Identifier{Name: "eval"}}},
		}},
	}
	Run([]*ast.File{{Decls: []ast.Decl{fn}}}, c)
	require.NotEmpty(t, c.Diagnostics)
	require.Equal(t, errors.UnsupportedConstruct, c.Diagnostics[0].Code)
}

func TestRejectsMixedEnum(t *testing.T) {
	c := newCtx()
	e := &ast.EnumDecl{
		Name: "Mixed",
		Members: []*ast.EnumMember{
			{Name: "A", Init: &ast.Literal{Kind: ast.IntLit, Value: 1}},
			{Name: "B", Init: &ast.Literal{Kind: ast.StringLit, Value: "b"}},
		},
	}
	Run([]*ast.File{{Decls: []ast.Decl{e}}}, c)
	require.NotEmpty(t, c.Diagnostics)
}

func TestAcceptsWellTypedFunc(t *testing.T) {
	c := newCtx()
	fn := &ast.FuncDecl{
		Name: "add",
		Params: []*ast.Param{
			{Name: "a", Type: &ast.NamedType{Name: "f64"}},
			{Name: "b", Type: &ast.NamedType{Name: "f64"}},
		},
		ReturnType: &ast.NamedType{Name: "f64"},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.Binary{Op: "+", Left: &ast.Identifier{Name: "a"}, Right: &ast.Identifier{Name: "b"}}},
		}},
	}
	Run([]*ast.File{{Decls: []ast.Decl{fn}}}, c)
	require.Empty(t, c.Diagnostics)
}

func TestContinuesPastOneBadDecl(t *testing.T) {
	c := newCtx()
	bad := &ast.FuncDecl{Name: "bad", Params: []*ast.Param{{Name: "x"}}, ReturnType: &ast.NamedType{Name: "void"}, Body: &ast.Block{}}
	good := &ast.FuncDecl{Name: "good", ReturnType: &ast.NamedType{Name: "void"}, Body: &ast.Block{}}
	Run([]*ast.File{{Decls: []ast.Decl{bad, good}}}, c)
	require.Len(t, c.Diagnostics, 1)
}
