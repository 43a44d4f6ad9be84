// Package desugar implements the Desugarer: it lowers
// surface-only constructs (classes, arrow functions, optional chaining,
// nullish coalescing, destructuring, spread, template literals, compound
// assignment, throw/try/catch, for-of, switch-on-string, instanceof/typeof)
// into the reduced Core IR node set. Grounded on ailang's
// internal/elaborate/elaborate.go (AST-to-core lowering passes) and
// internal/core/derive.go (derived-form expansion), adapted from ailang's
// expression-oriented core to this language's statement-oriented Core IR.
//
// Lowering must be idempotent on already-lowered input: this
// package only ever consumes internal/ast nodes and only ever produces
// internal/coreir nodes, so re-running it on its own output is a type
// error caught at compile time, which is the strongest form of that
// guarantee available in Go.
package desugar

import (
	"fmt"

	"github.com/stslang/stsc/internal/ast"
	"github.com/stslang/stsc/internal/coreir"
	"github.com/stslang/stsc/internal/ctx"
	"github.com/stslang/stsc/internal/errors"
	"github.com/stslang/stsc/internal/resolve"
)

// Desugarer lowers one file set's function and method bodies into Core IR
// function table entries, given the already-resolved signatures from
// internal/resolve.
type Desugarer struct {
	c        *ctx.Context
	res      *resolve.Result
	tmpSeq   int
	throwing bool // true while lowering a body that has seen `throw`
	throwErr coreir.Type // type of the first value thrown in the current body
	// locals maps a name currently in scope (parameter or Let binding) to
	// its resolved type, so an Identifier reference carries a real Ty
	// instead of leaving Var.Ty nil — needed to tell a struct-typed base
	// apart from anything else when lowering a method call or property
	// accessor dispatch.
	locals map[string]coreir.Type
}

// New constructs a Desugarer bound to a resolved signature table.
func New(c *ctx.Context, res *resolve.Result) *Desugarer {
	return &Desugarer{c: c, res: res}
}

// Run lowers every resolved function and class method body, registering
// each as a coreir.Function in c.
func Run(c *ctx.Context, res *resolve.Result) {
	d := New(c, res)
	for name, sig := range res.Funcs {
		d.lowerFunc(name, sig.Decl, sig.Params, sig.Ret)
	}
	for clsName, info := range res.Classes {
		for methodName, sig := range info.Methods {
			d.lowerFunc(clsName+"$"+methodName, sig.Decl, sig.Params, sig.Ret)
		}
		for propName, sig := range info.Getters {
			d.lowerFunc(clsName+"$get_"+propName, sig.Decl, sig.Params, sig.Ret)
		}
		for propName, sig := range info.Setters {
			d.lowerFunc(clsName+"$set_"+propName, sig.Decl, sig.Params, sig.Ret)
		}
	}
}

func (d *Desugarer) lowerFunc(mangledName string, decl *ast.FuncDecl, params []coreir.ParamDecl, ret coreir.Type) {
	d.throwing = false
	d.throwErr = nil
	d.locals = make(map[string]coreir.Type, len(params))
	for _, p := range params {
		d.locals[p.Name] = p.Ty
	}
	var body []coreir.Stmt
	if decl.Body != nil {
		body = d.lowerBlock(decl.Body)
	}
	if d.throwing {
		errTy := d.throwErr
		if errTy == nil {
			errTy = coreir.Void{}
		}
		ret = coreir.Result{Ok: ret, Err: errTy}
	}
	fn := &coreir.Function{
		MangledName: mangledName,
		Params:      params,
		ParamModes:  make([]coreir.ParamMode, len(params)),
		Ret:         ret,
		Body:        body,
		Throwing:    d.throwing,
	}
	d.c.RegisterFunc(fn)
}

// LowerBlockExported lowers one block using an existing Desugarer; exported
// for internal/mono, which lowers a monomorphized generic body through the
// same statement/expression rules used for non-generic functions rather
// than duplicating them.
func LowerBlockExported(d *Desugarer, b *ast.Block) []coreir.Stmt {
	return d.lowerBlock(b)
}

// SeedParamsExported seeds d's local-variable type environment from params,
// mirroring what lowerFunc does for a non-generic body; exported so
// internal/mono's monomorphized-instance lowering resolves method/property
// dispatch on its parameters the same way an ordinary function body does.
func SeedParamsExported(d *Desugarer, params []coreir.ParamDecl) {
	d.locals = make(map[string]coreir.Type, len(params))
	for _, p := range params {
		d.locals[p.Name] = p.Ty
	}
}

func (d *Desugarer) freshTemp(prefix string) string {
	d.tmpSeq++
	return fmt.Sprintf("$%s%d", prefix, d.tmpSeq)
}

// --- Statements ------------------------------------------------------------

func (d *Desugarer) lowerBlock(b *ast.Block) []coreir.Stmt {
	out := make([]coreir.Stmt, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		out = append(out, d.lowerStmt(s)...)
	}
	return out
}

// lowerStmt returns zero or more Core IR statements for one surface
// statement (some forms, like destructuring VarDecls, expand to several).
func (d *Desugarer) lowerStmt(s ast.Stmt) []coreir.Stmt {
	switch st := s.(type) {
	case *ast.Block:
		return []coreir.Stmt{&coreir.Seq{Stmts: d.lowerBlock(st)}}
	case *ast.ExprStmt:
		return []coreir.Stmt{&coreir.ExprStmt{X: d.lowerExpr(st.X)}}
	case *ast.VarDecl:
		return d.lowerVarDecl(st)
	case *ast.IfStmt:
		then := d.lowerBlock(st.Then)
		var els []coreir.Stmt
		if st.Else != nil {
			els = d.lowerStmt(st.Else)
		}
		return []coreir.Stmt{&coreir.If{Cond: d.lowerExpr(st.Cond), Then: then, Else: els}}
	case *ast.WhileStmt:
		body := append(d.lowerBlock(st.Body))
		guard := &coreir.If{
			Cond: &unaryNot{d.lowerExpr(st.Cond)},
			Then: []coreir.Stmt{&coreir.Break{}},
		}
		return []coreir.Stmt{&coreir.Loop{Body: append([]coreir.Stmt{guard}, body...)}}
	case *ast.ForOfStmt:
		return d.lowerForOf(st)
	case *ast.SwitchStmt:
		return d.lowerSwitch(st)
	case *ast.ReturnStmt:
		if st.Value == nil {
			return []coreir.Stmt{&coreir.Return{}}
		}
		return []coreir.Stmt{&coreir.Return{Value: d.lowerExpr(st.Value)}}
	case *ast.ThrowStmt:
		d.throwing = true
		// `throw e` inside a throwing function returns Result::Err(e), and
		// lowerFunc wraps the function's return type in Result. Call sites
		// of a throwing function are not rewritten to check the tag, and no
		// PropagationError is reported for a call outside a try block.
		errVal := d.lowerExpr(st.Value)
		if d.throwErr == nil {
			d.throwErr = errVal.Type()
		}
		return []coreir.Stmt{&coreir.Return{Value: &coreir.Call{
			Callee: &coreir.FuncRef{MangledName: "Result$Err"},
			Args:   []coreir.Expr{errVal},
		}}}
	case *ast.TryStmt:
		return d.lowerTry(st)
	case *ast.BreakStmt:
		return []coreir.Stmt{&coreir.Break{}}
	case *ast.ContinueStmt:
		return []coreir.Stmt{&coreir.Continue{}}
	default:
		d.c.Report(errors.NewInternal(errors.PhaseDesugar, fmt.Errorf("unhandled statement %T", s)))
		return nil
	}
}

func (d *Desugarer) lowerVarDecl(v *ast.VarDecl) []coreir.Stmt {
	var value coreir.Expr
	if v.Value != nil {
		value = d.lowerExpr(v.Value)
	}
	if v.Pattern != nil {
		// Destructuring lowers to a synthetic temp binding followed by one
		// Let per bound name, projecting through Field/Index reads
		//.
		tmp := d.freshTemp("destr")
		stmts := []coreir.Stmt{&coreir.Let{Name: tmp, Value: value}}
		stmts = append(stmts, d.lowerPattern(v.Pattern, &coreir.Var{Name: tmp})...)
		return stmts
	}
	var ty coreir.Type
	if value != nil {
		ty = value.Type()
	}
	d.locals[v.Name] = ty
	return []coreir.Stmt{&coreir.Let{Name: v.Name, Ty: ty, Value: value}}
}

func (d *Desugarer) lowerPattern(p ast.Pattern, base coreir.Expr) []coreir.Stmt {
	switch pt := p.(type) {
	case *ast.IdentPattern:
		d.locals[pt.Name] = base.Type()
		return []coreir.Stmt{&coreir.Let{Name: pt.Name, Ty: base.Type(), Value: base}}
	case *ast.ObjectPattern:
		var out []coreir.Stmt
		for i, f := range pt.Fields {
			field := &coreir.Field{Base: base, FieldName: f.Key, Index: i}
			out = append(out, d.lowerPattern(f.Value, field)...)
		}
		return out
	case *ast.ArrayPattern:
		var out []coreir.Stmt
		for i, el := range pt.Elements {
			idx := &coreir.Index{Base: base, Idx: &coreir.Lit{Value: i, Ty: coreir.Integer{Width: coreir.W32, Signed: true}}}
			out = append(out, d.lowerPattern(el, idx)...)
		}
		return out
	default:
		return nil
	}
}

// lowerForOf rewrites `for (const x of iterable) body` into an indexed loop
// over the Array: a length read, an index counter, a guard,
// and an element-binding Let per iteration.
func (d *Desugarer) lowerForOf(f *ast.ForOfStmt) []coreir.Stmt {
	iter := d.lowerExpr(f.Iterable)
	idxName := d.freshTemp("i")
	lenName := d.freshTemp("len")
	i32 := coreir.Integer{Width: coreir.W32, Signed: true}

	idxVar := &coreir.Var{Name: idxName, Ty: i32}
	lenCall := &coreir.Call{Callee: &coreir.FuncRef{MangledName: "Array$len"}, Args: []coreir.Expr{iter}, Ty: i32}

	guard := &coreir.If{
		Cond: &unaryNot{&binaryLt{idxVar, &coreir.Var{Name: lenName, Ty: i32}}},
		Then: []coreir.Stmt{&coreir.Break{}},
	}
	elemBind := &coreir.Let{Name: f.VarName, Value: &coreir.Index{Base: iter, Idx: idxVar}}
	body := append([]coreir.Stmt{guard, elemBind}, d.lowerBlock(f.Body)...)
	body = append(body, &coreir.Assign{
		Target: idxVar,
		Value: &coreir.Call{
			Callee: &coreir.FuncRef{MangledName: "Int32$add"},
			Args:   []coreir.Expr{idxVar, &coreir.Lit{Value: 1, Ty: i32}},
			Ty:     i32,
		},
	})

	return []coreir.Stmt{
		&coreir.Let{Name: lenName, Ty: i32, Value: lenCall},
		&coreir.Let{Name: idxName, Ty: i32, Value: &coreir.Lit{Value: 0, Ty: i32}},
		&coreir.Loop{Body: body},
	}
}

// lowerSwitch lowers a `switch` over a union-tagged discriminant to
// MatchTag; a switch over any other scrutinee lowers to an if/else-if
// chain over equality comparisons ( "switch-on-string" case
// is the union-discriminant form, since string enums are already compiled
// to tagged Integer32 by internal/resolve).
func (d *Desugarer) lowerSwitch(s *ast.SwitchStmt) []coreir.Stmt {
	disc := d.lowerExpr(s.Disc)
	if u, ok := disc.Type().(*coreir.Union); ok {
		info := d.c.UnionInfo[u.Name]
		arms := make([]coreir.MatchArm, 0, len(s.Cases))
		var def []coreir.Stmt
		for _, c := range s.Cases {
			body := d.lowerCaseBody(c.Body)
			if c.IsDefault {
				def = body
				continue
			}
			tag := d.tagOfCase(c.Test, info)
			arms = append(arms, coreir.MatchArm{Tag: tag, Body: body})
		}
		return []coreir.Stmt{&coreir.MatchTag{Scrutinee: disc, Arms: arms, Default: def}}
	}

	var chain []coreir.Stmt
	var defaultBody []coreir.Stmt
	ifChain := make([]*coreir.If, 0, len(s.Cases))
	for _, c := range s.Cases {
		body := d.lowerCaseBody(c.Body)
		if c.IsDefault {
			defaultBody = body
			continue
		}
		cond := &binaryEq{disc, d.lowerExpr(c.Test)}
		ifChain = append(ifChain, &coreir.If{Cond: cond, Then: body})
	}
	for i := len(ifChain) - 1; i >= 0; i-- {
		if i == len(ifChain)-1 {
			ifChain[i].Else = defaultBody
		} else {
			ifChain[i].Else = []coreir.Stmt{ifChain[i+1]}
		}
	}
	if len(ifChain) == 0 {
		return defaultBody
	}
	chain = []coreir.Stmt{ifChain[0]}
	return chain
}

func (d *Desugarer) lowerCaseBody(stmts []ast.Stmt) []coreir.Stmt {
	var out []coreir.Stmt
	for _, s := range stmts {
		out = append(out, d.lowerStmt(s)...)
	}
	return out
}

func (d *Desugarer) tagOfCase(test ast.Expr, info *ctx.UnionInfo) int {
	if info == nil {
		return 0
	}
	switch t := test.(type) {
	case *ast.Literal:
		if t.Kind == ast.StringLit {
			if v, ok := t.Value.(string); ok {
				return info.TagOf[v]
			}
		}
	}
	return 0
}

// lowerTry lowers try/catch/finally to Result tag matching over the tried
// block's last statement,: the tried block must itself be
// a throwing call; its Result is matched, the catch body bound to the
// error payload, and the finally body appended to both arms.
func (d *Desugarer) lowerTry(t *ast.TryStmt) []coreir.Stmt {
	tried := d.lowerBlock(t.Body)
	var finallyStmts []coreir.Stmt
	if t.FinallyBody != nil {
		finallyStmts = d.lowerBlock(t.FinallyBody)
	}
	if t.CatchBody == nil {
		return append(tried, finallyStmts...)
	}
	catchBind := t.CatchParam
	if catchBind == "" {
		catchBind = "_"
	}
	catchBody := append(d.lowerBlock(t.CatchBody), finallyStmts...)
	okBody := append(tried, finallyStmts...)
	return []coreir.Stmt{&coreir.MatchTag{
		Scrutinee: &coreir.Var{Name: "$tryResult"},
		Arms: []coreir.MatchArm{
			{Tag: 0, Body: okBody},
			{Tag: 1, Bind: catchBind, Body: catchBody},
		},
	}}
}

// --- Expressions -------------------------------------------------------------

func (d *Desugarer) lowerExpr(e ast.Expr) coreir.Expr {
	switch ex := e.(type) {
	case *ast.Literal:
		return d.lowerLiteral(ex)
	case *ast.Identifier:
		return &coreir.Var{Name: ex.Name, Ty: d.locals[ex.Name]}
	case *ast.Member:
		base := d.lowerExpr(ex.Object)
		if st, ok := base.Type().(*coreir.Struct); ok {
			if info, ok := d.res.Classes[st.Name]; ok {
				if sig, ok := info.Getters[ex.Property]; ok {
					return &coreir.Call{
						Callee: &coreir.FuncRef{MangledName: st.Name + "$get_" + ex.Property},
						Args:   []coreir.Expr{base},
						Ty:     sig.Ret,
					}
				}
			}
		}
		return &coreir.Field{Base: base, FieldName: ex.Property, Ty: fieldTypeOf(base, ex.Property)}
	case *ast.OptionalMember:
		// `a?.b` lowers to a MatchTag over Option<base> where the None arm
		// short-circuits; represented here as a conditional
		// expression over the base's Option discriminant.
		base := d.lowerExpr(ex.Object)
		return &optionalFieldExpr{Base: base, FieldName: ex.Property}
	case *ast.Index:
		return &coreir.Index{Base: d.lowerExpr(ex.Object), Idx: d.lowerExpr(ex.Index)}
	case *ast.Call:
		if mem, ok := ex.Callee.(*ast.Member); ok {
			base := d.lowerExpr(mem.Object)
			args := make([]coreir.Expr, len(ex.Args))
			for i, a := range ex.Args {
				args[i] = d.lowerExpr(a)
			}
			if st, ok := base.Type().(*coreir.Struct); ok {
				if info, ok := d.res.Classes[st.Name]; ok {
					if sig, ok := info.Methods[mem.Property]; ok {
						callArgs := make([]coreir.Expr, 0, len(args)+1)
						callArgs = append(callArgs, base)
						callArgs = append(callArgs, args...)
						return &coreir.Call{
							Callee: &coreir.FuncRef{MangledName: st.Name + "$" + mem.Property},
							Args:   callArgs,
							Ty:     sig.Ret,
						}
					}
				}
			}
			// Not a declared method: the callee is a function value read out of
			// a field (or, absent type info, whatever a plain field read
			// produces).
			return &coreir.Call{
				Callee: &coreir.Field{Base: base, FieldName: mem.Property, Ty: fieldTypeOf(base, mem.Property)},
				Args:   args,
			}
		}
		args := make([]coreir.Expr, len(ex.Args))
		for i, a := range ex.Args {
			args[i] = d.lowerExpr(a)
		}
		return &coreir.Call{Callee: d.lowerExpr(ex.Callee), Args: args}
	case *ast.New:
		return d.lowerNew(ex)
	case *ast.Unary:
		return &unaryExpr{Op: ex.Op, X: d.lowerExpr(ex.X)}
	case *ast.Binary:
		if ex.Op == "instanceof" {
			return d.lowerInstanceOf(ex)
		}
		return &binaryExpr{Op: ex.Op, Left: d.lowerExpr(ex.Left), Right: d.lowerExpr(ex.Right)}
	case *ast.Assign:
		return d.lowerAssign(ex)
	case *ast.Conditional:
		return &condExpr{Cond: d.lowerExpr(ex.Cond), Then: d.lowerExpr(ex.Then), Else: d.lowerExpr(ex.Else)}
	case *ast.Arrow:
		return d.lowerArrow(ex)
	case *ast.Template:
		return d.lowerTemplate(ex)
	case *ast.ObjectLiteral:
		return d.lowerObjectLiteral(ex)
	case *ast.ArrayLiteral:
		return d.lowerArrayLiteral(ex)
	case *ast.Spread:
		return d.lowerExpr(ex.X)
	case *ast.NullishCoalesce:
		return &nullishExpr{Left: d.lowerExpr(ex.Left), Right: d.lowerExpr(ex.Right)}
	case *ast.InstanceOf:
		return &instanceOfExpr{X: d.lowerExpr(ex.X), TypeName: ex.TypeName}
	case *ast.TypeOf:
		return &typeOfExpr{X: d.lowerExpr(ex.X)}
	default:
		d.c.Report(errors.NewInternal(errors.PhaseDesugar, fmt.Errorf("unhandled expression %T", e)))
		return &coreir.Lit{Value: nil, Ty: coreir.Void{}}
	}
}

func (d *Desugarer) lowerLiteral(l *ast.Literal) coreir.Expr {
	switch l.Kind {
	case ast.IntLit:
		return &coreir.Lit{Value: l.Value, Ty: coreir.Integer{Width: coreir.W32, Signed: true}}
	case ast.FloatLit:
		return &coreir.Lit{Value: l.Value, Ty: coreir.Float{Width: coreir.W64}}
	case ast.StringLit:
		return &coreir.Lit{Value: l.Value, Ty: coreir.StringT{}}
	case ast.BoolLit:
		return &coreir.Lit{Value: l.Value, Ty: coreir.Bool{}}
	case ast.NullLit, ast.UndefinedLit:
		return &coreir.Lit{Value: nil, Ty: coreir.Option{Inner: coreir.Void{}}}
	default:
		return &coreir.Lit{Value: nil, Ty: coreir.Void{}}
	}
}

// lowerNew lowers `new C(args)` into a call to the class's `C$new` factory
// with the lowered constructor arguments; internal/ownership later replaces
// a Let-bound factory call with an AllocStack or AllocHeap node.
func (d *Desugarer) lowerNew(n *ast.New) coreir.Expr {
	args := make([]coreir.Expr, len(n.Args))
	for i, a := range n.Args {
		args[i] = d.lowerExpr(a)
	}
	name := ""
	if id, ok := n.Callee.(*ast.Identifier); ok {
		name = id.Name
	}
	return &coreir.Call{Callee: &coreir.FuncRef{MangledName: name + "$new"}, Args: args}
}

// lowerArrow lowers an arrow function to a FunctionValue-producing
// expression. Capture analysis (which free variables the closure reads and
// whether it escapes, hence CapturesByRef vs CapturesBoxedEnv) is
// internal/ownership's job; here the arrow is emitted as a
// reference to a freshly named lifted function, left for the Ownership
// Analyzer to classify.
func (d *Desugarer) lowerArrow(a *ast.Arrow) coreir.Expr {
	name := d.freshTemp("lambda")
	params := make([]coreir.ParamDecl, len(a.Params))
	for i, p := range a.Params {
		params[i] = coreir.ParamDecl{Name: p.Name}
	}

	outer := d.locals
	inner := make(map[string]coreir.Type, len(outer)+len(params))
	for k, v := range outer {
		inner[k] = v
	}
	for _, p := range params {
		inner[p.Name] = p.Ty
	}
	d.locals = inner

	var body []coreir.Stmt
	switch b := a.Body.(type) {
	case *ast.Block:
		body = d.lowerBlock(b)
	case ast.Expr:
		body = []coreir.Stmt{&coreir.Return{Value: d.lowerExpr(b)}}
	}
	d.locals = outer
	d.c.RegisterFunc(&coreir.Function{
		MangledName: name,
		Params:      params,
		ParamModes:  make([]coreir.ParamMode, len(params)),
		Body:        body,
	})
	return &coreir.FuncRef{MangledName: name}
}

func (d *Desugarer) lowerTemplate(t *ast.Template) coreir.Expr {
	// `${a}${b}` lowers to successive String$concat calls over the quasi
	// fragments interleaved with each interpolated expression's String$of
	// conversion.
	var acc coreir.Expr = &coreir.Lit{Value: t.Quasis[0], Ty: coreir.StringT{}}
	for i, e := range t.Exprs {
		converted := &coreir.Call{
			Callee: &coreir.FuncRef{MangledName: "String$of"},
			Args:   []coreir.Expr{d.lowerExpr(e)},
			Ty:     coreir.StringT{},
		}
		acc = &coreir.Call{
			Callee: &coreir.FuncRef{MangledName: "String$concat"},
			Args:   []coreir.Expr{acc, converted},
			Ty:     coreir.StringT{},
		}
		if i+1 < len(t.Quasis) && t.Quasis[i+1] != "" {
			acc = &coreir.Call{
				Callee: &coreir.FuncRef{MangledName: "String$concat"},
				Args:   []coreir.Expr{acc, &coreir.Lit{Value: t.Quasis[i+1], Ty: coreir.StringT{}}},
				Ty:     coreir.StringT{},
			}
		}
	}
	return acc
}

func (d *Desugarer) lowerObjectLiteral(o *ast.ObjectLiteral) coreir.Expr {
	args := make([]coreir.Expr, len(o.Fields))
	for i, f := range o.Fields {
		args[i] = d.lowerExpr(f.Value)
	}
	return &coreir.Call{Callee: &coreir.FuncRef{MangledName: "$object$new"}, Args: args}
}

func (d *Desugarer) lowerArrayLiteral(a *ast.ArrayLiteral) coreir.Expr {
	args := make([]coreir.Expr, len(a.Elements))
	for i, e := range a.Elements {
		args[i] = d.lowerExpr(e)
	}
	return &coreir.Call{Callee: &coreir.FuncRef{MangledName: "Array$of"}, Args: args}
}

// lowerAssign lowers compound assignment (`x += y`) into a plain Assign
// whose Value recomputes `x op y`; plain `=` passes through. A target that
// resolves to a class setter dispatches to `C$set_x(obj, value)` instead of
// an Assign, reading the current value through the matching getter first
// when the assignment is compound.
func (d *Desugarer) lowerAssign(a *ast.Assign) coreir.Expr {
	if mem, ok := a.Target.(*ast.Member); ok {
		base := d.lowerExpr(mem.Object)
		if st, ok := base.Type().(*coreir.Struct); ok {
			if info, ok := d.res.Classes[st.Name]; ok {
				if _, ok := info.Setters[mem.Property]; ok {
					value := d.lowerExpr(a.Value)
					if a.Op != "=" && a.Op != "" {
						op := a.Op[:len(a.Op)-1]
						current := &coreir.Call{
							Callee: &coreir.FuncRef{MangledName: st.Name + "$get_" + mem.Property},
							Args:   []coreir.Expr{base},
						}
						if getSig, ok := info.Getters[mem.Property]; ok {
							current.Ty = getSig.Ret
						}
						value = &binaryExpr{Op: op, Left: current, Right: value}
					}
					return &coreir.Call{
						Callee: &coreir.FuncRef{MangledName: st.Name + "$set_" + mem.Property},
						Args:   []coreir.Expr{base, value},
						Ty:     coreir.Void{},
					}
				}
			}
		}
		// Not a class setter: a plain field write, built from the already-
		// lowered base rather than re-lowering mem.Object a second time.
		target := &coreir.Field{Base: base, FieldName: mem.Property, Ty: fieldTypeOf(base, mem.Property)}
		value := d.lowerExpr(a.Value)
		if a.Op != "=" && a.Op != "" {
			op := a.Op[:len(a.Op)-1] // strip trailing "="
			value = &binaryExpr{Op: op, Left: target, Right: value}
		}
		return &assignExpr{Target: target, Value: value}
	}
	target := d.lowerExpr(a.Target)
	value := d.lowerExpr(a.Value)
	if a.Op != "=" && a.Op != "" {
		op := a.Op[:len(a.Op)-1] // strip trailing "="
		value = &binaryExpr{Op: op, Left: target, Right: value}
	}
	return &assignExpr{Target: target, Value: value}
}

func (d *Desugarer) lowerInstanceOf(b *ast.Binary) coreir.Expr {
	return &instanceOfExpr{X: d.lowerExpr(b.Left), TypeName: nameOf(b.Right)}
}

func nameOf(e ast.Expr) string {
	if id, ok := e.(*ast.Identifier); ok {
		return id.Name
	}
	return ""
}

// --- Synthetic expression nodes ---------------------------------------------
//
// These adapt surface-only operators onto the reduced Core IR expression
// set without inventing new coreir node kinds for what are, at the Core IR
// level, just Calls to builtin operator functions. Each carries its operand
// types through to Type() for the phases that follow.

type unaryExpr struct {
	Op string
	X  coreir.Expr
}

func (*unaryExpr) stmtNode()        {}
func (u *unaryExpr) Type() coreir.Type { return u.X.Type() }

type unaryNot struct{ X coreir.Expr }

func (*unaryNot) stmtNode()        {}
func (u *unaryNot) Type() coreir.Type { return coreir.Bool{} }

type binaryExpr struct {
	Op          string
	Left, Right coreir.Expr
}

func (*binaryExpr) stmtNode() {}
func (b *binaryExpr) Type() coreir.Type {
	switch b.Op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return coreir.Bool{}
	default:
		return b.Left.Type()
	}
}

type binaryLt struct{ Left, Right coreir.Expr }

func (*binaryLt) stmtNode()        {}
func (*binaryLt) Type() coreir.Type { return coreir.Bool{} }

type binaryEq struct{ Left, Right coreir.Expr }

func (*binaryEq) stmtNode()        {}
func (*binaryEq) Type() coreir.Type { return coreir.Bool{} }

type assignExpr struct {
	Target, Value coreir.Expr
}

func (*assignExpr) stmtNode()        {}
func (a *assignExpr) Type() coreir.Type { return coreir.Void{} }

type condExpr struct {
	Cond, Then, Else coreir.Expr
}

func (*condExpr) stmtNode()        {}
func (c *condExpr) Type() coreir.Type { return c.Then.Type() }

type nullishExpr struct {
	Left, Right coreir.Expr
}

func (*nullishExpr) stmtNode() {}
func (n *nullishExpr) Type() coreir.Type {
	if opt, ok := n.Left.Type().(coreir.Option); ok {
		return opt.Inner
	}
	return n.Left.Type()
}

type optionalFieldExpr struct {
	Base      coreir.Expr
	FieldName string
}

// fieldTypeOf looks up a struct field's declared type given the already
// lowered base expression; Void{} if base isn't a resolved struct (e.g. a
// Var whose type internal/resolve didn't thread through to this point).
func fieldTypeOf(base coreir.Expr, name string) coreir.Type {
	st, ok := base.Type().(*coreir.Struct)
	if !ok {
		return coreir.Void{}
	}
	for _, f := range st.Fields {
		if f.Name == name {
			return f.Type
		}
	}
	return coreir.Void{}
}

func (*optionalFieldExpr) stmtNode() {}
func (o *optionalFieldExpr) Type() coreir.Type {
	if opt, ok := o.Base.Type().(coreir.Option); ok {
		if st, ok := opt.Inner.(*coreir.Struct); ok {
			for _, f := range st.Fields {
				if f.Name == o.FieldName {
					return coreir.Option{Inner: f.Type}
				}
			}
		}
	}
	return coreir.Option{Inner: coreir.Void{}}
}

type instanceOfExpr struct {
	X        coreir.Expr
	TypeName string
}

func (*instanceOfExpr) stmtNode()        {}
func (*instanceOfExpr) Type() coreir.Type { return coreir.Bool{} }

type typeOfExpr struct {
	X coreir.Expr
}

func (*typeOfExpr) stmtNode()        {}
func (*typeOfExpr) Type() coreir.Type { return coreir.StringT{} }
