// Package mono implements the Monomorphizer: it finds every
// generic function/class instantiation reachable from a program's
// non-generic entry points, computes each instance's mangled name, and
// drains a FIFO work queue so an instantiation discovered while lowering
// another instantiation is itself processed before the pass ends. Grounded
// on ailang's internal/pipeline/pipeline.go work-queue draining
// pattern (`for i := 0; i < len(queue); i++` over a slice appended to
// inside the loop) and internal/elaborate/dictionaries.go (constraint
// checking against a structural bound).
package mono

import (
	"fmt"
	"sort"

	"github.com/stslang/stsc/internal/ast"
	"github.com/stslang/stsc/internal/coreir"
	"github.com/stslang/stsc/internal/ctx"
	"github.com/stslang/stsc/internal/desugar"
	"github.com/stslang/stsc/internal/errors"
	"github.com/stslang/stsc/internal/mangle"
	"github.com/stslang/stsc/internal/resolve"
)

// maxDepth is the recursive-instantiation depth limit for generic
// functions: exceeding it raises RecursiveGenericDepth rather than looping
// forever on a definition like `f<T>(x) = f<Array<T>>(...)`. Generic class
// instantiation (internal/resolve) does not go through this limit.
const maxDepth = 64

// request is one work-queue entry: a generic function to instantiate with
// concrete type arguments, at a known instantiation depth. patch is the
// Core IR call site that triggered this request, if any — process rewrites
// patch.Callee to the mangled instance once the name is known, so the
// caller's Core IR never ends up referencing a name absent from the
// function table. patch is nil for a class instantiation triggered by a
// `new` expression, which lowers straight to a bare, unmangled `C$new`
// FuncRef with no Var to patch (internal/desugar.lowerNew).
type request struct {
	genericName string
	args        []coreir.Type
	depth       int
	patch       *coreir.Call
}

// Monomorphizer drains the work queue, deduplicating against c.MonoCache.
type Monomorphizer struct {
	c    *ctx.Context
	r    *resolve.Resolver
	res  *resolve.Result
	seen map[string]bool
}

// New constructs a Monomorphizer bound to the context populated by
// internal/resolve.
func New(c *ctx.Context, r *resolve.Resolver, res *resolve.Result) *Monomorphizer {
	return &Monomorphizer{c: c, r: r, res: res, seen: make(map[string]bool)}
}

// Run scans every already-lowered function body's Core IR for Call sites
// naming a generic function, plus every `new` expression in the surface
// syntax naming a generic class, instantiates each one reachable from an
// entry point (dead-code elimination: only reachable instantiations are
// emitted), lowers their bodies via internal/desugar, and rewrites each
// triggering call site to reference the mangled instance.
func Run(c *ctx.Context, r *resolve.Resolver, res *resolve.Result, files []*ast.File) {
	m := New(c, r, res)
	queue := m.collectCallTriggers()
	queue = append(queue, m.collectNewTriggers(files)...)
	for i := 0; i < len(queue); i++ {
		m.process(queue[i], &queue)
	}
}

// sortedFuncNames returns c.FuncTable's keys in a deterministic order, so
// the trigger-collection order (and hence the order ties are broken in
// diagnostics) never depends on Go's map iteration order.
func sortedFuncNames(c *ctx.Context) []string {
	names := make([]string, 0, len(c.FuncTable))
	for n := range c.FuncTable {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// collectCallTriggers walks every already-lowered function's Core IR body
// for a Call whose Callee is a bare Var naming a generic function, building
// the initial work queue at depth 0. internal/desugar has already run by
// this point (Desugar precedes Monomorphization in
// internal/middleend.Run), so every non-generic function and lifted
// lambda is already present in c.FuncTable. Walking Core IR instead of the
// surface syntax means a switch arm, a for-of body, a try/catch, an object
// or array literal element and an arrow body are covered for free: the
// Desugarer has already flattened them into Core IR statements, Calls and
// lifted functions. walkExpr descends only into Call, Field, Index, Retain
// and Release, so a generic call nested inside one of internal/desugar's
// operator nodes (a binary, unary, conditional, assignment or nullish
// operand) is not found.
func (m *Monomorphizer) collectCallTriggers() []request {
	var queue []request
	for _, name := range sortedFuncNames(m.c) {
		m.walkStmts(m.c.FuncTable[name].Body, 0, &queue)
	}
	return queue
}

// walkStmts recurses through a Core IR statement list looking for generic
// call sites at depth (the instantiation depth of the function body being
// walked: 0 for an already-lowered ordinary function, parentDepth+1 for a
// freshly monomorphized body reached while draining the queue in process).
func (m *Monomorphizer) walkStmts(stmts []coreir.Stmt, depth int, queue *[]request) {
	for _, s := range stmts {
		m.walkStmt(s, depth, queue)
	}
}

func (m *Monomorphizer) walkStmt(s coreir.Stmt, depth int, queue *[]request) {
	switch st := s.(type) {
	case *coreir.Seq:
		m.walkStmts(st.Stmts, depth, queue)
	case *coreir.If:
		m.walkExpr(st.Cond, depth, queue)
		m.walkStmts(st.Then, depth, queue)
		m.walkStmts(st.Else, depth, queue)
	case *coreir.Loop:
		m.walkStmts(st.Body, depth, queue)
	case *coreir.Return:
		if st.Value != nil {
			m.walkExpr(st.Value, depth, queue)
		}
	case *coreir.Let:
		if st.Value != nil {
			m.walkExpr(st.Value, depth, queue)
		}
	case *coreir.Assign:
		m.walkExpr(st.Target, depth, queue)
		m.walkExpr(st.Value, depth, queue)
	case *coreir.MatchTag:
		m.walkExpr(st.Scrutinee, depth, queue)
		for _, arm := range st.Arms {
			m.walkStmts(arm.Body, depth, queue)
		}
		m.walkStmts(st.Default, depth, queue)
	case *coreir.ExprStmt:
		m.walkExpr(st.X, depth, queue)
	}
}

func (m *Monomorphizer) walkExpr(e coreir.Expr, depth int, queue *[]request) {
	if e == nil {
		return
	}
	switch ex := e.(type) {
	case *coreir.Call:
		if v, ok := ex.Callee.(*coreir.Var); ok {
			if gd, ok := m.c.Generics[v.Name]; ok {
				args := m.inferArgsFromCall(gd, ex)
				*queue = append(*queue, request{genericName: v.Name, args: args, depth: depth, patch: ex})
			}
		}
		m.walkExpr(ex.Callee, depth, queue)
		for _, a := range ex.Args {
			m.walkExpr(a, depth, queue)
		}
	case *coreir.Field:
		m.walkExpr(ex.Base, depth, queue)
	case *coreir.Index:
		m.walkExpr(ex.Base, depth, queue)
		m.walkExpr(ex.Idx, depth, queue)
	case *coreir.Retain:
		m.walkExpr(ex.Value, depth, queue)
	case *coreir.Release:
		m.walkExpr(ex.Value, depth, queue)
	}
}

// inferArgsFromCall resolves a generic call's concrete type arguments from
// the already-resolved Core IR type of each argument expression (ordinal
// type parameter i takes its type from argument i), falling back to a type
// parameter's default annotation, and finally reporting
// UnresolvedTypeParameter when neither is available. Operating on already-
// lowered Core IR rather than surface syntax means this sees straight
// through locals, field reads, and nested calls rather than only literal
// shapes.
func (m *Monomorphizer) inferArgsFromCall(gd *ctx.GenericDef, call *coreir.Call) []coreir.Type {
	out := make([]coreir.Type, len(gd.TypeParams))
	for i, tp := range gd.TypeParams {
		if i < len(call.Args) {
			if ty := call.Args[i].Type(); ty != nil {
				out[i] = ty
				continue
			}
		}
		if tp.Default != nil {
			out[i] = m.r.ResolveType(tp.Default, resolve.Env{}, resolve.Hint{})
			continue
		}
		m.c.Report(errors.New(errors.UnresolvedTypeParameter, nil,
			fmt.Sprintf("cannot infer type parameter %s of %s", tp.Name, gd.Name), nil))
		out[i] = coreir.Void{}
	}
	return out
}

// collectNewTriggers walks the surface syntax for `new C(...)` naming a
// generic class: internal/desugar.lowerNew already lowers the callee
// straight to a bare `C$new` FuncRef with no type arguments applied, so
// there is no Core IR Var left to discover the trigger from the way a
// generic function call site has one. The walk recurses into blocks,
// if/while/for-of bodies, switch arms, try/catch/finally, throw, return and
// variable initializers, call callees and arguments, `new` arguments,
// binary and conditional operands, assignment targets and values,
// object/array literal elements, member bases and arrow bodies. A `new`
// nested only inside a unary, index, optional-member, template, spread or
// nullish-coalescing expression is not found.
func (m *Monomorphizer) collectNewTriggers(files []*ast.File) []request {
	var queue []request
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if n == nil {
			return
		}
		switch e := n.(type) {
		case *ast.New:
			if id, ok := e.Callee.(*ast.Identifier); ok {
				if gd, ok := m.c.Generics[id.Name]; ok {
					args := m.inferArgsFromValues(gd, e.Args)
					queue = append(queue, request{genericName: id.Name, args: args, depth: 0})
				}
			}
			for _, a := range e.Args {
				walk(a)
			}
		case *ast.Call:
			walk(e.Callee)
			for _, a := range e.Args {
				walk(a)
			}
		case *ast.Block:
			for _, s := range e.Stmts {
				walk(s)
			}
		case *ast.ExprStmt:
			walk(e.X)
		case *ast.IfStmt:
			walk(e.Cond)
			walk(e.Then)
			walk(e.Else)
		case *ast.WhileStmt:
			walk(e.Cond)
			walk(e.Body)
		case *ast.ForOfStmt:
			walk(e.Iterable)
			walk(e.Body)
		case *ast.SwitchStmt:
			walk(e.Disc)
			for _, c := range e.Cases {
				for _, s := range c.Body {
					walk(s)
				}
			}
		case *ast.TryStmt:
			walk(e.Body)
			if e.CatchBody != nil {
				walk(e.CatchBody)
			}
			if e.FinallyBody != nil {
				walk(e.FinallyBody)
			}
		case *ast.ThrowStmt:
			walk(e.Value)
		case *ast.ReturnStmt:
			if e.Value != nil {
				walk(e.Value)
			}
		case *ast.VarDecl:
			if e.Value != nil {
				walk(e.Value)
			}
		case *ast.Binary:
			walk(e.Left)
			walk(e.Right)
		case *ast.Conditional:
			walk(e.Cond)
			walk(e.Then)
			walk(e.Else)
		case *ast.Assign:
			walk(e.Target)
			walk(e.Value)
		case *ast.ObjectLiteral:
			for _, f := range e.Fields {
				walk(f.Value)
			}
		case *ast.ArrayLiteral:
			for _, el := range e.Elements {
				walk(el)
			}
		case *ast.Arrow:
			walk(e.Body)
		case *ast.Member:
			walk(e.Object)
		}
	}
	for _, f := range files {
		for _, d := range f.Decls {
			switch decl := d.(type) {
			case *ast.FuncDecl:
				if decl.Body != nil {
					walk(decl.Body)
				}
			case *ast.ClassDecl:
				for _, meth := range decl.Methods {
					if meth.Body != nil {
						walk(meth.Body)
					}
				}
			}
		}
	}
	return queue
}

func (m *Monomorphizer) inferArgsFromValues(gd *ctx.GenericDef, args []ast.Expr) []coreir.Type {
	out := make([]coreir.Type, len(gd.TypeParams))
	for i := range gd.TypeParams {
		if i < len(args) {
			out[i] = m.inferFromArgExpr(args[i])
		} else {
			out[i] = coreir.Void{}
		}
	}
	return out
}

// inferFromArgExpr performs shallow literal-shape inference for a `new`
// call site: numeric/string/bool literals map to their primitive,
// everything else defers to UnresolvedTypeParameter (a fuller inference
// would need the value's already-resolved type, which for a constructor
// call is never computed independent of the class instantiation itself).
func (m *Monomorphizer) inferFromArgExpr(e ast.Expr) coreir.Type {
	lit, ok := e.(*ast.Literal)
	if ok {
		switch lit.Kind {
		case ast.IntLit:
			return coreir.Integer{Width: coreir.W32, Signed: true}
		case ast.FloatLit:
			return coreir.Float{Width: coreir.W64}
		case ast.StringLit:
			return coreir.StringT{}
		case ast.BoolLit:
			return coreir.Bool{}
		}
	}
	m.c.Report(errors.New(errors.UnresolvedTypeParameter, nil,
		"cannot infer a type argument from a non-literal constructor argument", nil))
	return coreir.Void{}
}

// process resolves and lowers one instantiation request. On success (or
// when the same instance was already produced by an earlier request) it
// rewrites the triggering call site's Callee to the mangled instance, so
// the caller's Core IR never keeps referencing a name absent from the
// function table. A freshly lowered function body is itself walked for
// further generic call sites, appended to queue at depth+1 — this is what
// makes a nested or recursive instantiation
// (`f<T>(x) = f<Array<T>>(...)`) discoverable and, past maxDepth,
// reportable as RecursiveGenericDepth instead of looping forever.
func (m *Monomorphizer) process(req request, queue *[]request) {
	mangled := mangle.Mangle(req.genericName, req.args)
	key := ctx.MonoKey{Name: req.genericName, Args: mangled}
	if _, ok := m.c.MonoCache[key]; ok {
		m.patchCallSite(req, mangled)
		return
	}
	if req.depth > maxDepth {
		m.c.Report(errors.New(errors.RecursiveGenericDepth, nil,
			fmt.Sprintf("instantiation of %s exceeds the recursion depth limit", req.genericName), nil))
		return
	}
	m.c.MonoCache[key] = mangled

	gd, ok := m.c.Generics[req.genericName]
	if !ok {
		return
	}
	if !m.checkConstraints(gd, req.args) {
		return
	}

	env := resolve.Env{TypeParams: make(map[string]coreir.Type, len(gd.TypeParams))}
	for i, tp := range gd.TypeParams {
		if i < len(req.args) {
			env.TypeParams[tp.Name] = req.args[i]
		}
	}

	switch decl := gd.Decl.(type) {
	case *ast.FuncDecl:
		sig := m.r.ResolveFunc(decl, env)
		fn := lowerGenericBody(m.c, m.res, decl, sig.Params, sig.Ret, mangled)
		fn.TypeArgs = req.args
		m.c.RegisterFunc(fn)
		m.walkStmts(fn.Body, req.depth+1, queue)
	case *ast.ClassDecl:
		m.r.InstantiateClassWithArgs(decl, req.args)
	}

	m.patchCallSite(req, mangled)
}

// patchCallSite rewrites req.patch's Callee (a bare Var naming the generic
// definition) to a FuncRef naming the mangled instance, once mangled is
// known to be registered; a no-op for a request with no Core IR call site
// to patch (the class-instantiation path).
func (m *Monomorphizer) patchCallSite(req request, mangled string) {
	if req.patch == nil {
		return
	}
	req.patch.Callee = &coreir.FuncRef{MangledName: mangled}
}

// lowerGenericBody lowers one monomorphized function's body under the
// substitution already baked into sig's resolved param/return types. It
// reuses internal/desugar's statement/expression lowering by constructing
// a throwaway Desugarer bound to the shared context, mirroring
// Desugarer.lowerFunc but writing under the mangled instance name instead
// of the generic definition's bare name.
func lowerGenericBody(c *ctx.Context, res *resolve.Result, decl *ast.FuncDecl, params []coreir.ParamDecl, ret coreir.Type, mangled string) *coreir.Function {
	d := desugar.New(c, res)
	desugar.SeedParamsExported(d, params)
	var body []coreir.Stmt
	if decl.Body != nil {
		body = desugar.LowerBlockExported(d, decl.Body)
	}
	return &coreir.Function{
		MangledName: mangled,
		Params:      params,
		ParamModes:  make([]coreir.ParamMode, len(params)),
		Ret:         ret,
		Body:        body,
	}
}

// checkConstraints verifies every `extends C` bound on gd's type
// parameters against the concrete args: an inline object-type constraint
// requires the argument to be a struct carrying at least the constraint's
// field names; an inline union constraint requires the argument to equal
// one of the union's resolved variants. A constraint written as a named
// type (an interface, alias, class or enum name) is not checked and always
// passes.
func (m *Monomorphizer) checkConstraints(gd *ctx.GenericDef, args []coreir.Type) bool {
	ok := true
	for i, tp := range gd.TypeParams {
		if tp.Constraint == nil || i >= len(args) {
			continue
		}
		if !m.satisfies(args[i], tp.Constraint) {
			m.c.Report(errors.New(errors.ConstraintViolation, nil,
				fmt.Sprintf("type argument for %s does not satisfy its constraint", tp.Name), nil))
			ok = false
		}
	}
	return ok
}

func (m *Monomorphizer) satisfies(arg coreir.Type, constraint ast.TypeAnn) bool {
	switch c := constraint.(type) {
	case *ast.ObjectTypeLit:
		st, ok := arg.(*coreir.Struct)
		if !ok {
			return false
		}
		fieldSet := make(map[string]bool, len(st.Fields))
		for _, f := range st.Fields {
			fieldSet[f.Name] = true
		}
		for _, f := range c.Fields {
			if !fieldSet[f.Name] {
				return false
			}
		}
		return true
	case *ast.UnionType:
		for _, v := range c.Variants {
			candidate := m.r.ResolveType(v, resolve.Env{}, resolve.Hint{})
			if candidate.Key() == arg.Key() {
				return true
			}
		}
		return false
	default:
		return true
	}
}
