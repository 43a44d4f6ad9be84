package middleend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stslang/stsc/internal/ast"
	"github.com/stslang/stsc/internal/coreir"
	"github.com/stslang/stsc/internal/importgraph"
	"github.com/stslang/stsc/internal/scope"
)

func unit(decls ...ast.Decl) Unit {
	return Unit{
		Files:   []*ast.File{{Decls: decls}},
		Scope:   scope.NewTable(),
		Imports: importgraph.NewGraph(nil),
	}
}

// S1: a generic identity function instantiated at a concrete type produces
// a mangled Core IR function entry.
func TestScenarioGenericMonomorphization(t *testing.T) {
	identity := &ast.FuncDecl{
		Name:       "identity",
		TypeParams: []*ast.TypeParam{{Name: "T"}},
		Params:     []*ast.Param{{Name: "x", Type: &ast.GenericRef{Name: "T"}}},
		ReturnType: &ast.GenericRef{Name: "T"},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.Identifier{Name: "x"}},
		}},
	}
	caller := &ast.FuncDecl{
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

	res, diags := Run(Config{}, unit(identity, caller))
	require.Empty(t, diags)
	require.Contains(t, res.Program.Funcs, "identity$Int32")

	mainFn := res.Program.Funcs["main"]
	exprStmt, ok := mainFn.Body[0].(*coreir.ExprStmt)
	require.True(t, ok)
	call, ok := exprStmt.X.(*coreir.Call)
	require.True(t, ok)
	ref, ok := call.Callee.(*coreir.FuncRef)
	require.True(t, ok, "call site should reference the mangled instance, not the bare generic name")
	require.Equal(t, "identity$Int32", ref.MangledName)
}

// S7: a generic call nested inside another generic's body is discovered and
// instantiated too, and the inner call site is itself rewritten to the
// mangled instance — exercising the monomorphizer's work-queue draining at
// depth > 0, not just a depth-0 trigger found directly in a non-generic
// caller.
func TestScenarioNestedGenericInstantiation(t *testing.T) {
	identity := &ast.FuncDecl{
		Name:       "identity",
		TypeParams: []*ast.TypeParam{{Name: "T"}},
		Params:     []*ast.Param{{Name: "x", Type: &ast.GenericRef{Name: "T"}}},
		ReturnType: &ast.GenericRef{Name: "T"},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.Identifier{Name: "x"}},
		}},
	}
	wrap := &ast.FuncDecl{
		Name:       "wrap",
		TypeParams: []*ast.TypeParam{{Name: "T"}},
		Params:     []*ast.Param{{Name: "x", Type: &ast.GenericRef{Name: "T"}}},
		ReturnType: &ast.GenericRef{Name: "T"},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.Call{
				Callee: &ast.Identifier{Name: "identity"},
				Args:   []ast.Expr{&ast.Identifier{Name: "x"}},
			}},
		}},
	}
	caller := &ast.FuncDecl{
		Name:       "main",
		ReturnType: &ast.NamedType{Name: "void"},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.ExprStmt{X: &ast.Call{
				Callee:   &ast.Identifier{Name: "wrap"},
				TypeArgs: []ast.TypeAnn{&ast.NamedType{Name: "i32"}},
				Args:     []ast.Expr{&ast.Literal{Kind: ast.IntLit, Value: 1}},
			}},
		}},
	}

	res, diags := Run(Config{}, unit(identity, wrap, caller))
	require.Empty(t, diags)
	require.Contains(t, res.Program.Funcs, "wrap$Int32")
	require.Contains(t, res.Program.Funcs, "identity$Int32")

	wrapFn := res.Program.Funcs["wrap$Int32"]
	ret, ok := wrapFn.Body[0].(*coreir.Return)
	require.True(t, ok)
	call, ok := ret.Value.(*coreir.Call)
	require.True(t, ok)
	ref, ok := call.Callee.(*coreir.FuncRef)
	require.True(t, ok, "nested call site should reference the mangled instance too")
	require.Equal(t, "identity$Int32", ref.MangledName)
}

// S2: a discriminated union switch lowers to MatchTag.
func TestScenarioDiscriminatedUnionSwitch(t *testing.T) {
	shapeAlias := &ast.TypeAliasDecl{
		Name: "Shape",
		Type: &ast.UnionType{Variants: []ast.TypeAnn{
			&ast.ObjectTypeLit{Fields: []*ast.TypeField{
				{Name: "kind", Type: &ast.LiteralType{Kind: ast.StringLit, Value: "circle"}},
				{Name: "r", Type: &ast.NamedType{Name: "f64"}},
			}},
			&ast.ObjectTypeLit{Fields: []*ast.TypeField{
				{Name: "kind", Type: &ast.LiteralType{Kind: ast.StringLit, Value: "square"}},
				{Name: "side", Type: &ast.NamedType{Name: "f64"}},
			}},
		}},
	}
	area := &ast.FuncDecl{
		Name: "area",
		Params: []*ast.Param{
			{Name: "s", Type: &ast.NamedType{Name: "Shape"}},
		},
		ReturnType: &ast.NamedType{Name: "f64"},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.SwitchStmt{
				Disc: &ast.Identifier{Name: "s"},
				Cases: []*ast.SwitchCase{
					{Test: &ast.Literal{Kind: ast.StringLit, Value: "circle"}, Body: []ast.Stmt{
						&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.FloatLit, Value: 0.0}},
					}},
					{IsDefault: true, Body: []ast.Stmt{
						&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.FloatLit, Value: 1.0}},
					}},
				},
			},
		}},
	}

	res, diags := Run(Config{}, unit(shapeAlias, area))
	require.Empty(t, diags)
	fn, ok := res.Program.Funcs["area"]
	require.True(t, ok)
	require.Len(t, fn.Body, 1)
	_, isMatch := fn.Body[0].(*coreir.MatchTag)
	require.True(t, isMatch)
}

// S4: a parameter never stored or returned is inferred Borrowed.
func TestScenarioBorrowedParam(t *testing.T) {
	length := &ast.FuncDecl{
		Name: "length",
		Params: []*ast.Param{
			{Name: "s", Type: &ast.NamedType{Name: "string"}},
		},
		ReturnType: &ast.NamedType{Name: "i32"},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.IntLit, Value: 0}},
		}},
	}
	res, diags := Run(Config{}, unit(length))
	require.Empty(t, diags)
	fn := res.Program.Funcs["length"]
	require.Equal(t, coreir.ModeBorrowed, fn.ParamModes[0])
}

// S3: a `T | null` parameter resolves to Option<T>, and a null-check
// narrowing it lowers to a plain equality comparison against the nil
// Option literal.
func TestScenarioOptionNarrowing(t *testing.T) {
	orZero := &ast.FuncDecl{
		Name: "orZero",
		Params: []*ast.Param{
			{Name: "x", Type: &ast.UnionType{Variants: []ast.TypeAnn{
				&ast.NamedType{Name: "i32"},
				&ast.NamedType{Name: "null"},
			}}},
		},
		ReturnType: &ast.NamedType{Name: "i32"},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.IfStmt{
				Cond: &ast.Binary{Op: "!=", Left: &ast.Identifier{Name: "x"}, Right: &ast.Literal{Kind: ast.NullLit}},
				Then: &ast.Block{Stmts: []ast.Stmt{
					&ast.ReturnStmt{Value: &ast.Identifier{Name: "x"}},
				}},
			},
			&ast.ReturnStmt{Value: &ast.Literal{Kind: ast.IntLit, Value: 0}},
		}},
	}

	res, diags := Run(Config{}, unit(orZero))
	require.Empty(t, diags)
	fn, ok := res.Program.Funcs["orZero"]
	require.True(t, ok)

	_, isOption := fn.Params[0].Ty.(coreir.Option)
	require.True(t, isOption, "param type %v should collapse to Option", fn.Params[0].Ty)

	ifStmt, ok := fn.Body[0].(*coreir.If)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Cond)
}

// S5: an arrow function referencing an outer parameter lifts to a top-level
// function whose capture box holds that parameter's name.
func TestScenarioClosureCaptureEscape(t *testing.T) {
	makeAdder := &ast.FuncDecl{
		Name: "makeAdder",
		Params: []*ast.Param{
			{Name: "base", Type: &ast.NamedType{Name: "i32"}},
		},
		ReturnType: &ast.FuncType{
			Params: []ast.TypeAnn{&ast.NamedType{Name: "i32"}},
			Return: &ast.NamedType{Name: "i32"},
		},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.Arrow{
				Params: []*ast.Param{{Name: "n", Type: &ast.NamedType{Name: "i32"}}},
				Body:   &ast.Identifier{Name: "base"},
			}},
		}},
	}

	res, diags := Run(Config{}, unit(makeAdder))
	require.Empty(t, diags)

	var lambda *coreir.Function
	for name, fn := range res.Program.Funcs {
		if name != "makeAdder" {
			lambda = fn
		}
	}
	require.NotNil(t, lambda, "expected a lifted lambda function")
	require.NotNil(t, lambda.Captures)
	require.Len(t, lambda.Captures.Fields, 1)
	require.Equal(t, "base", lambda.Captures.Fields[0].Name)
}

// S6: throw inside a function lowers it to a Result-returning, Throwing
// function whose throw site returns Result$Err.
func TestScenarioThrowLowersToResult(t *testing.T) {
	risky := &ast.FuncDecl{
		Name:       "risky",
		ReturnType: &ast.NamedType{Name: "i32"},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.ThrowStmt{Value: &ast.Literal{Kind: ast.StringLit, Value: "boom"}},
		}},
	}
	res, diags := Run(Config{}, unit(risky))
	require.Empty(t, diags)
	fn := res.Program.Funcs["risky"]
	require.True(t, fn.Throwing)
	ret, ok := fn.Body[0].(*coreir.Return)
	require.True(t, ok)
	call, ok := ret.Value.(*coreir.Call)
	require.True(t, ok)
	ref, ok := call.Callee.(*coreir.FuncRef)
	require.True(t, ok)
	require.Equal(t, "Result$Err", ref.MangledName)
}
