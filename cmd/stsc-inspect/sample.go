package main

import (
	"github.com/stslang/stsc/internal/ast"
	"github.com/stslang/stsc/internal/importgraph"
	"github.com/stslang/stsc/internal/middleend"
	"github.com/stslang/stsc/internal/scope"
)

// sampleUnit loads a small built-in unit so the shell has something to
// inspect out of the box, standing in for the real parser/semantic-analyzer
// front end until this command takes a file path.
func sampleUnit() middleend.Unit {
	box := &ast.ClassDecl{
		Name: "Box",
		TypeParams: []*ast.TypeParam{{Name: "T"}},
		Fields: []*ast.FieldDecl{
			{Name: "value", Type: &ast.GenericRef{Name: "T"}},
		},
	}
	length := &ast.FuncDecl{
		Name:       "length",
		Params:     []*ast.Param{{Name: "s", Type: &ast.NamedType{Name: "string"}}},
		ReturnType: &ast.NamedType{Name: "i32"},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.IntLit, Value: 0}},
		}},
	}
	main := &ast.FuncDecl{
		Name:       "main",
		ReturnType: &ast.NamedType{Name: "void"},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.ExprStmt{X: &ast.New{
				Callee: &ast.Identifier{Name: "Box"},
				Args:   []ast.Expr{&ast.Literal{Kind: ast.IntLit, Value: 5}},
			}},
		}},
	}

	return middleend.Unit{
		Files:   []*ast.File{{Path: "sample.sts", Decls: []ast.Decl{box, length, main}}},
		Scope:   scope.NewTable(),
		Imports: importgraph.NewGraph([]string{"sample.sts"}),
	}
}
