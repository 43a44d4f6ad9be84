// Package ownership implements the Ownership Analyzer: per
// parameter calling-convention inference (Owned/Borrowed/BorrowedMut),
// escape analysis deciding AllocStack vs AllocHeap placement plus
// needs_refcount tagging, and capture-box boxing for lifted closures (every
// lifted closure with a free variable gets a capture box, whether or not it
// escapes its defining function). Grounded on ailang's internal/elaborate/scc.go
// (Tarjan strongly-connected-components over the call graph, reused here
// for the same fixed-point-over-recursive-groups shape) and
// internal/types/effects.go (a per-function summary table threaded
// through a call graph walk, the same structure this analysis reuses for
// parameter modes instead of effect rows).
package ownership

import (
	"sort"

	"github.com/stslang/stsc/internal/coreir"
	"github.com/stslang/stsc/internal/ctx"
)

// Run infers parameter modes and allocation placement for every function in
// c.FuncTable. It is a pure function of the Core IR function table: two
// runs over the same input produce identical output (
// determinism requirement), since every map it walks is flattened to a
// sorted key slice before iteration.
func Run(c *ctx.Context) {
	a := &analyzer{c: c, escapes: make(map[string]bool), aliasCount: make(map[string]int)}
	names := sortedFuncNames(c)
	groups := a.sccGroups(names)
	for _, group := range groups {
		a.analyzeGroup(group)
	}
	for _, name := range names {
		a.rewriteAllocations(c.FuncTable[name])
	}
	for _, name := range names {
		a.boxCaptures(c.FuncTable[name])
	}
}

type analyzer struct {
	c *ctx.Context
	// escapes marks a parameter (qualified by its owning function,
	// "func#var") that the function returns directly. It is recorded by
	// analyzeGroup only; rewriteAllocations does not read it and decides
	// placement from its own per-function returned set.
	escapes map[string]bool
	// aliasCount counts, per name, how many times a Var of that name is
	// passed as a call argument. rewriteAllocations counts afresh for each
	// function; >1 marks a heap-placed binding needs_refcount.
	aliasCount map[string]int
}

func sortedFuncNames(c *ctx.Context) []string {
	names := make([]string, 0, len(c.FuncTable))
	for n := range c.FuncTable {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// sccGroups computes strongly-connected components of the call graph
// restricted to names, via Tarjan's algorithm, so a mutually recursive
// group is analyzed together in one fixed-point pass: parameter modes are
// inferred by a fixed-point iteration over the call graph, with each
// recursive group analyzed as a unit.
func (a *analyzer) sccGroups(names []string) [][]string {
	index := 0
	indices := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var groups [][]string

	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	var strongconnect func(v string)
	strongconnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range calleesOf(a.c.FuncTable[v]) {
			if !present[w] {
				continue
			}
			if _, ok := indices[w]; !ok {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var group []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				group = append(group, w)
				if w == v {
					break
				}
			}
			sort.Strings(group)
			groups = append(groups, group)
		}
	}

	for _, n := range names {
		if _, ok := indices[n]; !ok {
			strongconnect(n)
		}
	}
	return groups
}

func calleesOf(fn *coreir.Function) []string {
	if fn == nil {
		return nil
	}
	var out []string
	var walkExpr func(coreir.Expr)
	var walkStmts func([]coreir.Stmt)
	walkExpr = func(e coreir.Expr) {
		switch v := e.(type) {
		case *coreir.Call:
			if ref, ok := v.Callee.(*coreir.FuncRef); ok {
				out = append(out, ref.MangledName)
			}
			walkExpr(v.Callee)
			for _, arg := range v.Args {
				walkExpr(arg)
			}
		case *coreir.Field:
			walkExpr(v.Base)
		case *coreir.Index:
			walkExpr(v.Base)
			walkExpr(v.Idx)
		}
	}
	walkStmts = func(stmts []coreir.Stmt) {
		for _, s := range stmts {
			switch v := s.(type) {
			case *coreir.ExprStmt:
				walkExpr(v.X)
			case *coreir.Let:
				if v.Value != nil {
					walkExpr(v.Value)
				}
			case *coreir.Assign:
				walkExpr(v.Target)
				walkExpr(v.Value)
			case *coreir.Return:
				if v.Value != nil {
					walkExpr(v.Value)
				}
			case *coreir.If:
				walkExpr(v.Cond)
				walkStmts(v.Then)
				walkStmts(v.Else)
			case *coreir.Loop:
				walkStmts(v.Body)
			case *coreir.MatchTag:
				walkExpr(v.Scrutinee)
				for _, arm := range v.Arms {
					walkStmts(arm.Body)
				}
				walkStmts(v.Default)
			case *coreir.Seq:
				walkStmts(v.Stmts)
			}
		}
	}
	walkStmts(fn.Body)
	return out
}

// analyzeGroup infers each parameter's mode for every function in one SCC
// group. A parameter is Owned if the function returns it directly
// (`return p`); BorrowedMut if it is the target of a Core IR Assign;
// otherwise Borrowed. Storing a parameter into a field or capturing it in a
// closure is not detected and does not make it Owned. This is a
// single pass per group rather than a literal fixed-point loop because
// Core IR parameter usage is already fully visible to a function's own
// body — no group member's inferred mode changes a sibling's parameter
// usage, so one pass per member converges immediately.
func (a *analyzer) analyzeGroup(group []string) {
	for _, name := range group {
		fn := a.c.FuncTable[name]
		if fn == nil {
			continue
		}
		written := make(map[string]bool)
		returned := make(map[string]bool)
		a.scanUsage(fn.Body, written, returned)
		for i, p := range fn.Params {
			switch {
			case returned[p.Name]:
				fn.ParamModes[i] = coreir.ModeOwned
				a.markEscapes(name, p.Name)
			case written[p.Name]:
				fn.ParamModes[i] = coreir.ModeBorrowedMut
			default:
				fn.ParamModes[i] = coreir.ModeBorrowed
			}
		}
	}
}

func (a *analyzer) markEscapes(fn, varName string) {
	a.escapes[fn+"#"+varName] = true
}

func (a *analyzer) scanUsage(stmts []coreir.Stmt, written, returned map[string]bool) {
	var walkExpr func(coreir.Expr)
	walkExpr = func(e coreir.Expr) {
		switch v := e.(type) {
		case *coreir.Call:
			for _, arg := range v.Args {
				if name, ok := varName(arg); ok {
					a.aliasCount[name]++
				}
				walkExpr(arg)
			}
			walkExpr(v.Callee)
		case *coreir.Field:
			walkExpr(v.Base)
		case *coreir.Index:
			walkExpr(v.Base)
			walkExpr(v.Idx)
		}
	}
	var walk func([]coreir.Stmt)
	walk = func(stmts []coreir.Stmt) {
		for _, s := range stmts {
			switch v := s.(type) {
			case *coreir.Return:
				if v.Value != nil {
					if name, ok := varName(v.Value); ok {
						returned[name] = true
					}
					walkExpr(v.Value)
				}
			case *coreir.Assign:
				if name, ok := varName(v.Target); ok {
					written[name] = true
				}
				walkExpr(v.Value)
			case *coreir.Let:
				if v.Value != nil {
					walkExpr(v.Value)
				}
			case *coreir.ExprStmt:
				walkExpr(v.X)
			case *coreir.If:
				walk(v.Then)
				walk(v.Else)
			case *coreir.Loop:
				walk(v.Body)
			case *coreir.MatchTag:
				for _, arm := range v.Arms {
					walk(arm.Body)
				}
				walk(v.Default)
			case *coreir.Seq:
				walk(v.Stmts)
			}
		}
	}
	walk(stmts)
}

func varName(e coreir.Expr) (string, bool) {
	if v, ok := e.(*coreir.Var); ok {
		return v.Name, true
	}
	return "", false
}

// rewriteAllocations walks a function's already-lowered `new`/object-
// literal call sites (the Desugarer lowered them to Call expressions naming
// a `$new`/`$object$new` factory) and replaces each factory call bound
// directly by a Let with an AllocStack or AllocHeap node; a factory call
// not bound by a Let is left as it is. A value placed on the stack must not
// outlive the activation that created it, so an allocation bound directly
// to a name the same function later returns is Stack-ineligible; the
// decision is driven by whether that Let's bound name is in the function's
// returned set: Heap if so (NeedsRefcount when the name is passed as a call
// argument more than once in this function), Stack otherwise.
func (a *analyzer) rewriteAllocations(fn *coreir.Function) {
	if fn == nil {
		return
	}
	returned := make(map[string]bool)
	written := make(map[string]bool)
	shared := a.aliasCount
	a.aliasCount = make(map[string]int)
	a.scanUsage(fn.Body, written, returned)
	localAliases := a.aliasCount
	a.aliasCount = shared

	rewriteLet := func(v *coreir.Let) {
		call, ok := v.Value.(*coreir.Call)
		if !ok {
			return
		}
		ref, ok := call.Callee.(*coreir.FuncRef)
		if !ok || !isAllocatingFactory(ref.MangledName) {
			return
		}
		if returned[v.Name] {
			v.Value = &coreir.AllocHeap{NeedsRefcount: localAliases[v.Name] > 1}
		} else {
			v.Value = &coreir.AllocStack{}
		}
	}
	var rewriteStmts func([]coreir.Stmt)
	rewriteStmts = func(stmts []coreir.Stmt) {
		for _, s := range stmts {
			switch v := s.(type) {
			case *coreir.Let:
				rewriteLet(v)
			case *coreir.If:
				rewriteStmts(v.Then)
				rewriteStmts(v.Else)
			case *coreir.Loop:
				rewriteStmts(v.Body)
			case *coreir.MatchTag:
				for i := range v.Arms {
					rewriteStmts(v.Arms[i].Body)
				}
				rewriteStmts(v.Default)
			case *coreir.Seq:
				rewriteStmts(v.Stmts)
			}
		}
	}
	rewriteStmts(fn.Body)
}

// boxCaptures builds the capture-box layout for a lifted closure (the
// Desugarer names these "$lambdaN"): any Var it references that is neither
// one of its own parameters nor bound by a Let/match-arm inside its own
// body is a free variable from the enclosing scope, promoted to a field of
// a heap-allocated capture box. A closure with no free variables needs no
// box at all (it compiles down to a bare top-level function reference).
func (a *analyzer) boxCaptures(fn *coreir.Function) {
	if fn == nil || !hasPrefix(fn.MangledName, "$lambda") {
		return
	}
	bound := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		bound[p.Name] = true
	}
	free := make(map[string]bool)
	collectBoundAndFree(fn.Body, bound, free)
	if len(free) == 0 {
		return
	}
	names := make([]string, 0, len(free))
	for n := range free {
		names = append(names, n)
	}
	sort.Strings(names)
	fields := make([]coreir.FieldDef, len(names))
	for i, n := range names {
		fields[i] = coreir.FieldDef{Name: n, Type: coreir.Void{}}
	}
	fn.Captures = &coreir.CaptureLayout{Fields: fields}
}

// collectBoundAndFree walks stmts accumulating local bindings into bound
// (Let names, match-arm binders) and any Var reference not in bound into
// free.
func collectBoundAndFree(stmts []coreir.Stmt, bound, free map[string]bool) {
	var walkExpr func(coreir.Expr)
	walkExpr = func(e coreir.Expr) {
		switch v := e.(type) {
		case *coreir.Var:
			if !bound[v.Name] {
				free[v.Name] = true
			}
		case *coreir.Call:
			walkExpr(v.Callee)
			for _, arg := range v.Args {
				walkExpr(arg)
			}
		case *coreir.Field:
			walkExpr(v.Base)
		case *coreir.Index:
			walkExpr(v.Base)
			walkExpr(v.Idx)
		}
	}
	var walk func([]coreir.Stmt)
	walk = func(stmts []coreir.Stmt) {
		for _, s := range stmts {
			switch v := s.(type) {
			case *coreir.Let:
				if v.Value != nil {
					walkExpr(v.Value)
				}
				bound[v.Name] = true
			case *coreir.Assign:
				walkExpr(v.Target)
				walkExpr(v.Value)
			case *coreir.Return:
				if v.Value != nil {
					walkExpr(v.Value)
				}
			case *coreir.ExprStmt:
				walkExpr(v.X)
			case *coreir.If:
				walkExpr(v.Cond)
				walk(v.Then)
				walk(v.Else)
			case *coreir.Loop:
				walk(v.Body)
			case *coreir.MatchTag:
				walkExpr(v.Scrutinee)
				for _, arm := range v.Arms {
					if arm.Bind != "" {
						bound[arm.Bind] = true
					}
					walk(arm.Body)
				}
				walk(v.Default)
			case *coreir.Seq:
				walk(v.Stmts)
			}
		}
	}
	walk(stmts)
}

func hasPrefix(s, pfx string) bool {
	return len(s) >= len(pfx) && s[:len(pfx)] == pfx
}

func isAllocatingFactory(name string) bool {
	return hasSuffix(name, "$new") || name == "$object$new"
}

func hasSuffix(s, suf string) bool {
	return len(s) >= len(suf) && s[len(s)-len(suf):] == suf
}
