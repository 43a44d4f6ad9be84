package main

import (
	"github.com/stslang/stsc/internal/ast"
	"github.com/stslang/stsc/internal/importgraph"
	"github.com/stslang/stsc/internal/middleend"
	"github.com/stslang/stsc/internal/scope"
)

// sampleUnit builds a small, self-contained compilation unit demonstrating
// a generic function instantiation, standing in for the real
// parser/semantic-analyzer front end until one is wired to produce an
// on-disk fixture.
func sampleUnit() middleend.Unit {
	identity := &ast.FuncDecl{
		Name:       "identity",
		TypeParams: []*ast.TypeParam{{Name: "T"}},
		Params:     []*ast.Param{{Name: "x", Type: &ast.GenericRef{Name: "T"}}},
		ReturnType: &ast.GenericRef{Name: "T"},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.Identifier{Name: "x"}},
		}},
	}
	main := &ast.FuncDecl{
		Name:       "main",
		ReturnType: &ast.NamedType{Name: "void"},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.ExprStmt{X: &ast.Call{
				Callee:   &ast.Identifier{Name: "identity"},
				TypeArgs: []ast.TypeAnn{&ast.NamedType{Name: "i32"}},
				Args:     []ast.Expr{&ast.Literal{Kind: ast.IntLit, Value: 1}},
			}},
		}},
	}

	return middleend.Unit{
		Files:   []*ast.File{{Path: "sample.sts", Decls: []ast.Decl{identity, main}}},
		Scope:   scope.NewTable(),
		Imports: importgraph.NewGraph([]string{"sample.sts"}),
	}
}
