// Package validate implements the Validator: it rejects
// input outside the compilable subset before Type Resolution runs. Grounded
// on ailang's internal/elaborate/exhaustiveness.go (error-coded
// rejection of non-exhaustive matches) and internal/module/loader.go (the
// per-declaration continue-on-error loop, so one bad declaration doesn't
// stop validation of the rest).
package validate

import (
	"fmt"

	"github.com/stslang/stsc/internal/ast"
	"github.com/stslang/stsc/internal/ctx"
	"github.com/stslang/stsc/internal/errors"
	"github.com/stslang/stsc/internal/scope"
)

// bannedTypeNames are surface type names the compilable subset rejects
// outright.
var bannedTypeNames = map[string]bool{
	"any": true, "unknown": true, "object": true, "symbol": true, "bigint": true,
}

// bannedCallNames name APIs whose invocation is rejected regardless of
// their resolved type: dynamic reflection and prototype
// manipulation have no compilable lowering.
var bannedCallNames = map[string]bool{
	"eval": true, "with": true, "Proxy": true, "Reflect": true,
}

// Run validates every declaration of every file, accumulating diagnostics
// in c.Diagnostics. A rejection on one declaration does not stop validation
// of the others; it is the caller's responsibility to stop the
// pipeline if c.HasErrors() afterward.
//
// Cyclic named-type definitions lacking a Weak edge are part of this
// component's rejected-constructs list but are detected once,
// during Type Resolution's dependency walk (internal/resolve), since both
// phases would otherwise duplicate the same graph traversal.
func Run(files []*ast.File, c *ctx.Context) {
	for _, f := range files {
		for _, d := range f.Decls {
			validateDecl(d, c)
		}
	}
}

func validateDecl(d ast.Decl, c *ctx.Context) {
	switch decl := d.(type) {
	case *ast.ExportDecl:
		validateDecl(decl.Decl, c)
	case *ast.FuncDecl:
		validateFunc(decl, c)
	case *ast.ClassDecl:
		for _, f := range decl.Fields {
			validateType(f.Type, f.Pos, c)
		}
		for _, m := range decl.Methods {
			validateParams(m.Params, m.Pos, c)
			if m.ReturnType == nil {
				reject(c, m.Pos, errors.UnsupportedConstruct,
					fmt.Sprintf("method %s.%s has no explicit return type", decl.Name, m.Name))
			} else {
				validateType(m.ReturnType, m.Pos, c)
			}
			if m.Body != nil {
				validateBlock(m.Body, c)
			}
		}
	case *ast.InterfaceDecl:
		for _, m := range decl.Methods {
			validateParams(m.Params, m.Pos, c)
		}
	case *ast.TypeAliasDecl:
		validateType(decl.Type, decl.Pos, c)
	case *ast.EnumDecl:
		validateEnum(decl, c)
	}
}

func validateFunc(fn *ast.FuncDecl, c *ctx.Context) {
	validateParams(fn.Params, fn.Pos, c)
	if fn.ReturnType == nil {
		reject(c, fn.Pos, errors.UnsupportedConstruct,
			fmt.Sprintf("function %s has no explicit return type", fn.Name))
	} else {
		validateType(fn.ReturnType, fn.Pos, c)
	}
	if fn.Body != nil {
		validateBlock(fn.Body, c)
	}
}

func validateParams(params []*ast.Param, pos ast.Pos, c *ctx.Context) {
	for _, p := range params {
		if p.Type == nil {
			reject(c, p.Pos, errors.UnsupportedConstruct,
				fmt.Sprintf("parameter %s has no type annotation", p.Name))
			continue
		}
		validateType(p.Type, p.Pos, c)
	}
}

func validateType(t ast.TypeAnn, pos ast.Pos, c *ctx.Context) {
	switch tt := t.(type) {
	case *ast.NamedType:
		if bannedTypeNames[tt.Name] {
			reject(c, tt.Pos, errors.UnsupportedConstruct,
				fmt.Sprintf("type %q is outside the compilable subset", tt.Name))
		}
		for _, a := range tt.Args {
			validateType(a, tt.Pos, c)
		}
	case *ast.UnionType:
		for _, v := range tt.Variants {
			validateType(v, tt.Pos, c)
		}
	case *ast.ArrayType:
		validateType(tt.Element, tt.Pos, c)
	case *ast.TupleType:
		for _, e := range tt.Elements {
			validateType(e, tt.Pos, c)
		}
	case *ast.FuncType:
		for _, p := range tt.Params {
			validateType(p, tt.Pos, c)
		}
		validateType(tt.Return, tt.Pos, c)
	case *ast.WeakType:
		validateType(tt.Inner, tt.Pos, c)
	case *ast.ObjectTypeLit:
		for _, f := range tt.Fields {
			validateType(f.Type, f.Pos, c)
		}
	}
}

func validateEnum(e *ast.EnumDecl, c *ctx.Context) {
	sawString, sawNumeric := false, false
	for _, m := range e.Members {
		switch lit := m.Init.(type) {
		case nil:
			sawNumeric = true
		case *ast.Literal:
			switch lit.Kind {
			case ast.IntLit, ast.FloatLit:
				sawNumeric = true
			case ast.StringLit:
				sawString = true
			default:
				reject(c, m.Pos, errors.UnsupportedConstruct,
					fmt.Sprintf("enum member %s.%s has a non-literal initializer", e.Name, m.Name))
			}
		default:
			reject(c, m.Pos, errors.UnsupportedConstruct,
				fmt.Sprintf("enum member %s.%s has a computed initializer", e.Name, m.Name))
		}
	}
	if sawString && sawNumeric {
		reject(c, e.Pos, errors.UnsupportedConstruct,
			fmt.Sprintf("enum %s mixes string and numeric members", e.Name))
	}
}

func validateBlock(b *ast.Block, c *ctx.Context) {
	for _, s := range b.Stmts {
		validateStmt(s, c)
	}
}

func validateStmt(s ast.Stmt, c *ctx.Context) {
	switch st := s.(type) {
	case *ast.Block:
		validateBlock(st, c)
	case *ast.ExprStmt:
		validateExpr(st.X, c)
	case *ast.VarDecl:
		if st.Type != nil {
			validateType(st.Type, st.Pos, c)
		}
		if st.Value != nil {
			validateExpr(st.Value, c)
		}
	case *ast.IfStmt:
		validateExpr(st.Cond, c)
		validateBlock(st.Then, c)
		if st.Else != nil {
			validateStmt(st.Else, c)
		}
	case *ast.WhileStmt:
		validateExpr(st.Cond, c)
		validateBlock(st.Body, c)
	case *ast.ForOfStmt:
		validateExpr(st.Iterable, c)
		validateBlock(st.Body, c)
	case *ast.SwitchStmt:
		validateExpr(st.Disc, c)
		for _, cs := range st.Cases {
			if cs.Test != nil {
				validateExpr(cs.Test, c)
			}
			for _, bs := range cs.Body {
				validateStmt(bs, c)
			}
		}
	case *ast.ReturnStmt:
		if st.Value != nil {
			validateExpr(st.Value, c)
		}
	case *ast.ThrowStmt:
		validateExpr(st.Value, c)
	case *ast.TryStmt:
		validateBlock(st.Body, c)
		if st.CatchBody != nil {
			validateBlock(st.CatchBody, c)
		}
		if st.FinallyBody != nil {
			validateBlock(st.FinallyBody, c)
		}
	}
}

func validateExpr(e ast.Expr, c *ctx.Context) {
	switch ex := e.(type) {
	case *ast.Call:
		if id, ok := ex.Callee.(*ast.Identifier); ok && bannedCallNames[id.Name] {
			reject(c, ex.Pos, errors.UnsupportedConstruct,
				fmt.Sprintf("invocation of %q is outside the compilable subset", id.Name))
		}
		if m, ok := ex.Callee.(*ast.Member); ok && m.Property == "defineProperty" {
			if id, ok := m.Object.(*ast.Identifier); ok && id.Name == "Object" {
				reject(c, ex.Pos, errors.UnsupportedConstruct,
					"Object.defineProperty is outside the compilable subset")
			}
		}
		validateExpr(ex.Callee, c)
		for _, a := range ex.Args {
			validateExpr(a, c)
		}
	case *ast.Member:
		validateExpr(ex.Object, c)
	case *ast.OptionalMember:
		validateExpr(ex.Object, c)
	case *ast.Index:
		validateExpr(ex.Object, c)
		validateExpr(ex.Index, c)
		// Dynamic member access with a non-literal key on a value of unknown
		// shape cannot be fully checked without resolved
		// types; the residual check (object must not itself be a bare
		// enum reference used as a reverse-map lookup) runs here
		// using scope information, note that the
		// Validator "uses scope information to identify identifier
		// references".
		if id, ok := ex.Object.(*ast.Identifier); ok {
			if decl, ok := c.Scope.DeclOf(id); ok && decl.Kind == scope.KindEnum {
				reject(c, ex.Pos, errors.UnsupportedConstruct,
					fmt.Sprintf("reverse-map lookup on enum %s is outside the compilable subset", id.Name))
			}
		}
	case *ast.New:
		validateExpr(ex.Callee, c)
		for _, a := range ex.Args {
			validateExpr(a, c)
		}
	case *ast.Unary:
		validateExpr(ex.X, c)
	case *ast.Binary:
		validateExpr(ex.Left, c)
		validateExpr(ex.Right, c)
	case *ast.Assign:
		validateExpr(ex.Target, c)
		validateExpr(ex.Value, c)
	case *ast.Conditional:
		validateExpr(ex.Cond, c)
		validateExpr(ex.Then, c)
		validateExpr(ex.Else, c)
	case *ast.Arrow:
		validateParams(ex.Params, ex.Pos, c)
		switch body := ex.Body.(type) {
		case ast.Expr:
			validateExpr(body, c)
		case *ast.Block:
			validateBlock(body, c)
		}
	case *ast.Template:
		for _, sub := range ex.Exprs {
			validateExpr(sub, c)
		}
	case *ast.ObjectLiteral:
		for _, fld := range ex.Fields {
			validateExpr(fld.Value, c)
		}
	case *ast.ArrayLiteral:
		for _, el := range ex.Elements {
			validateExpr(el, c)
		}
	case *ast.Spread:
		validateExpr(ex.X, c)
	case *ast.NullishCoalesce:
		validateExpr(ex.Left, c)
		validateExpr(ex.Right, c)
	case *ast.InstanceOf:
		validateExpr(ex.X, c)
	case *ast.TypeOf:
		validateExpr(ex.X, c)
	}
}

func reject(c *ctx.Context, pos ast.Pos, code errors.Code, msg string) {
	c.Report(errors.New(code, &ast.Span{Start: pos, End: pos}, msg, nil))
}
