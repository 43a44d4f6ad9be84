// Package resolve implements the Type Resolver: it walks
// every type annotation, maps it to a Core IR type, and registers structs,
// unions, and enums into the Lowering Context's shared tables. Grounded on
// ailang's internal/types/builder.go (type-annotation walking) and
// internal/types/normalize.go (canonical signature construction), adapted
// from ailang's unification-based HM inference to STS's direct syntactic
// mapping — STS has no type inference beyond generic-argument defaulting
// (that belongs to internal/mono), so no separate unification engine is
// needed here (see DESIGN.md).
package resolve

import (
	"fmt"
	"sort"

	"github.com/stslang/stsc/internal/ast"
	"github.com/stslang/stsc/internal/coreir"
	"github.com/stslang/stsc/internal/ctx"
	"github.com/stslang/stsc/internal/errors"
	"github.com/stslang/stsc/internal/mangle"
)

// Env carries the substitution in effect while resolving one declaration:
// TypeParams maps a generic definition's type-parameter names to concrete
// Core IR types. It is empty for non-generic declarations and for a
// generic definition's first (deferred) pass. Monomorphization re-invokes
// resolution with a populated Env for each concrete instantiation —
// implemented here as substitution-threaded resolution rather than literal
// AST cloning, which is more idiomatic Go and avoids a deep-copy pass (see
// DESIGN.md).
type Env struct {
	TypeParams map[string]coreir.Type
}

// HintKind selects which anonymous-struct naming rule applies, in priority
// order.
type HintKind int

const (
	HintNone HintKind = iota
	HintUnionVariant
	HintFuncParam
	HintVarInit
)

// Hint carries the naming context for an anonymous struct or union
// encountered while resolving a type annotation.
type Hint struct {
	Kind      HintKind
	UnionName string
	Index     int
	FuncName  string
	ParamName string
	VarName   string
}

func (h Hint) name(fields []coreir.FieldDef) string {
	switch h.Kind {
	case HintUnionVariant:
		return fmt.Sprintf("%s$%d", h.UnionName, h.Index)
	case HintFuncParam:
		return fmt.Sprintf("%s$%s", h.FuncName, h.ParamName)
	case HintVarInit:
		return fmt.Sprintf("%s$type", h.VarName)
	default:
		parts := ""
		for _, f := range fields {
			parts += fmt.Sprintf("$%s_%s", f.Name, f.Type.Key())
		}
		return "__anon" + parts
	}
}

// Resolver holds the in-progress struct-dependency stack used for cycle
// detection.
type Resolver struct {
	c          *ctx.Context
	inProgress map[string]bool
	classes    map[string]*ast.ClassDecl
	anonSeq    int
}

// New constructs a Resolver bound to a Lowering Context. files' class,
// interface, alias, and enum declarations are indexed up front so forward
// references (A referring to B declared later in the same file) resolve.
func New(c *ctx.Context, files []*ast.File) *Resolver {
	r := &Resolver{c: c, inProgress: make(map[string]bool), classes: make(map[string]*ast.ClassDecl)}
	for _, f := range files {
		for _, d := range f.Decls {
			d = unwrapExport(d)
			switch decl := d.(type) {
			case *ast.ClassDecl:
				r.classes[decl.Name] = decl
			case *ast.TypeAliasDecl:
				c.Aliases[decl.Name] = decl
			case *ast.EnumDecl:
				r.resolveEnum(decl)
			}
		}
	}
	return r
}

func unwrapExport(d ast.Decl) ast.Decl {
	if ex, ok := d.(*ast.ExportDecl); ok {
		return ex.Decl
	}
	return d
}

// FuncSig is a resolved, non-generic function signature. Generic functions
// are not resolved here; their raw declarations live in c.Generics and are
// resolved on demand by internal/mono via ResolveFunc with a populated Env.
type FuncSig struct {
	Decl   *ast.FuncDecl
	Params []coreir.ParamDecl
	Ret    coreir.Type
}

// ClassInfo is a resolved, non-generic class: its Struct entry plus each
// method's resolved signature (with an implicit leading `self` parameter,
// class-to-struct-and-functions lowering). Plain methods are call-dispatched
// (`obj.m(args)` -> `C$m(obj, args)`) and keyed by method name in Methods;
// getters and setters are dispatched from a property read/write
// (`obj.x` -> `C$get_x(obj)`, `obj.x = v` -> `C$set_x(obj, v)`) and keyed by
// property name in Getters/Setters.
type ClassInfo struct {
	Decl    *ast.ClassDecl
	Struct  *coreir.Struct
	Methods map[string]*FuncSig
	Getters map[string]*FuncSig
	Setters map[string]*FuncSig
}

// Result collects every top-level declaration's resolved signature.
// Generic declarations are recorded into c.Generics instead, and are
// resolved per-instantiation by internal/mono.
type Result struct {
	Funcs   map[string]*FuncSig
	Classes map[string]*ClassInfo
}

// Run resolves every non-generic declaration in files, registering structs,
// unions, and enums into c, and returns the resolved function/class
// signature table the Desugarer consumes.
func Run(files []*ast.File, c *ctx.Context) *Result {
	r := New(c, files)
	return r.ResolveAll(files)
}

// ResolveAll resolves every non-generic declaration using an already
// constructed Resolver (its classes/aliases/enums index already built by
// New), so a caller that needs the Resolver itself afterward — internal/mono,
// to resolve further instantiations discovered during monomorphization —
// does not pay for indexing the declaration set twice.
func (r *Resolver) ResolveAll(files []*ast.File) *Result {
	c := r.c
	res := &Result{Funcs: make(map[string]*FuncSig), Classes: make(map[string]*ClassInfo)}

	for _, f := range files {
		for _, d := range f.Decls {
			d = unwrapExport(d)
			switch decl := d.(type) {
			case *ast.FuncDecl:
				if len(decl.TypeParams) > 0 {
					c.Generics[decl.Name] = &ctx.GenericDef{Name: decl.Name, TypeParams: decl.TypeParams, Decl: decl}
					continue
				}
				res.Funcs[decl.Name] = r.ResolveFunc(decl, Env{})
			case *ast.ClassDecl:
				if len(decl.TypeParams) > 0 {
					c.Generics[decl.Name] = &ctx.GenericDef{Name: decl.Name, TypeParams: decl.TypeParams, Decl: decl}
					continue
				}
				res.Classes[decl.Name] = r.ResolveClass(decl, Env{})
			}
		}
	}
	return res
}

// ResolveFunc resolves one function's parameter and return types under env.
func (r *Resolver) ResolveFunc(fn *ast.FuncDecl, env Env) *FuncSig {
	params := make([]coreir.ParamDecl, len(fn.Params))
	for i, p := range fn.Params {
		hint := Hint{Kind: HintFuncParam, FuncName: fn.Name, ParamName: p.Name}
		params[i] = coreir.ParamDecl{Name: p.Name, Ty: r.ResolveType(p.Type, env, hint)}
	}
	var ret coreir.Type = coreir.Void{}
	if fn.ReturnType != nil {
		ret = r.ResolveType(fn.ReturnType, env, Hint{})
	}
	return &FuncSig{Decl: fn, Params: params, Ret: ret}
}

// ResolveClass resolves a class's fields into a Struct entry and its
// methods into free-function signatures with a synthesized leading `self`
// parameter: `class C {...}` lowers plain methods to `C$m(self, ...)`,
// getters to `C$get_x(self)`, and setters to `C$set_x(self, value)`.
func (r *Resolver) ResolveClass(cls *ast.ClassDecl, env Env) *ClassInfo {
	st := r.resolveClassStruct(cls, env)
	methods := make(map[string]*FuncSig)
	getters := make(map[string]*FuncSig)
	setters := make(map[string]*FuncSig)
	selfType := coreir.Type(st)
	for _, m := range cls.Methods {
		var suffix string
		var target map[string]*FuncSig
		switch m.Kind {
		case ast.MethodGetter:
			suffix = "get_" + m.Name
			target = getters
		case ast.MethodSetter:
			suffix = "set_" + m.Name
			target = setters
		default:
			suffix = m.Name
			target = methods
		}
		params := make([]coreir.ParamDecl, 0, len(m.Params)+1)
		params = append(params, coreir.ParamDecl{Name: "self", Ty: selfType})
		for _, p := range m.Params {
			hint := Hint{Kind: HintFuncParam, FuncName: cls.Name + "$" + suffix, ParamName: p.Name}
			params = append(params, coreir.ParamDecl{Name: p.Name, Ty: r.ResolveType(p.Type, env, hint)})
		}
		var ret coreir.Type = coreir.Void{}
		if m.ReturnType != nil {
			ret = r.ResolveType(m.ReturnType, env, Hint{})
		}
		target[m.Name] = &FuncSig{
			Decl:   &ast.FuncDecl{Name: cls.Name + "$" + suffix, Params: m.Params, ReturnType: m.ReturnType, Body: m.Body, Pos: m.Pos},
			Params: params,
			Ret:    ret,
		}
	}
	return &ClassInfo{Decl: cls, Struct: st, Methods: methods, Getters: getters, Setters: setters}
}

func (r *Resolver) resolveClassStruct(cls *ast.ClassDecl, env Env) *coreir.Struct {
	if r.inProgress[cls.Name] {
		r.c.Report(errors.New(errors.CycleError, &ast.Span{Start: cls.Pos, End: cls.Pos},
			fmt.Sprintf("type %s is part of a cycle with no Weak edge", cls.Name), nil))
		// Return a placeholder so the rest of resolution can proceed; the
		// diagnostic already aborts compilation at the pipeline level for
		// cyclic programs.
		return &coreir.Struct{Name: cls.Name}
	}
	if existing, ok := r.c.Structs[cls.Name]; ok {
		return existing
	}
	r.inProgress[cls.Name] = true
	fields := make([]coreir.FieldDef, len(cls.Fields))
	for i, f := range cls.Fields {
		weak := isWeak(f.Type)
		fields[i] = coreir.FieldDef{Name: f.Name, Type: r.resolveFieldType(f.Type, env, weak)}
	}
	delete(r.inProgress, cls.Name)
	return r.c.InternStruct(cls.Name, fields)
}

func isWeak(t ast.TypeAnn) bool {
	_, ok := t.(*ast.WeakType)
	return ok
}

// resolveFieldType resolves a struct field's type. When weak, a referenced
// class currently in progress is allowed to form a back-edge instead of
// raising CycleError.
func (r *Resolver) resolveFieldType(t ast.TypeAnn, env Env, weak bool) coreir.Type {
	if wt, ok := t.(*ast.WeakType); ok {
		return r.resolveFieldType(wt.Inner, env, true)
	}
	if weak {
		if nt, ok := t.(*ast.NamedType); ok {
			if cls, ok := r.classes[nt.Name]; ok {
				if r.inProgress[nt.Name] {
					// Back-edge: the struct table entry may not exist yet;
					// callers dereference it after the full pass completes.
					return &coreir.Struct{Name: nt.Name}
				}
				return r.resolveClassStruct(cls, env)
			}
		}
	}
	return r.ResolveType(t, env, Hint{})
}

// ResolveType maps one surface type annotation to a Core IR type.
func (r *Resolver) ResolveType(t ast.TypeAnn, env Env, hint Hint) coreir.Type {
	switch tt := t.(type) {
	case *ast.NamedType:
		return r.resolveNamed(tt, env, hint)
	case *ast.GenericRef:
		if ty, ok := env.TypeParams[tt.Name]; ok {
			return ty
		}
		// Unsubstituted type parameter outside monomorphization context:
		// only reachable while indexing a generic definition's signature
		// before substitution, which callers must not do directly.
		return coreir.Void{}
	case *ast.UnionType:
		return r.resolveUnion(tt, env, hint)
	case *ast.ArrayType:
		return coreir.Array{Element: r.ResolveType(tt.Element, env, Hint{})}
	case *ast.TupleType:
		elems := make([]coreir.Type, len(tt.Elements))
		for i, e := range tt.Elements {
			elems[i] = r.ResolveType(e, env, Hint{})
		}
		return coreir.Tuple{Elements: elems}
	case *ast.FuncType:
		params := make([]coreir.Type, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = r.ResolveType(p, env, Hint{})
		}
		return coreir.FunctionValue{Params: params, Ret: r.ResolveType(tt.Return, env, Hint{}), Captures: coreir.CapturesNone}
	case *ast.WeakType:
		return r.ResolveType(tt.Inner, env, hint)
	case *ast.ObjectTypeLit:
		fields := make([]coreir.FieldDef, len(tt.Fields))
		for i, f := range tt.Fields {
			fields[i] = coreir.FieldDef{Name: f.Name, Type: r.ResolveType(f.Type, env, Hint{})}
		}
		name := hint.name(fields)
		if hint.Kind == HintNone {
			r.anonSeq++
		}
		return r.c.InternStruct(name, fields)
	case *ast.LiteralType:
		return r.literalTypeOf(tt)
	default:
		r.c.Report(errors.New(errors.InternalError, nil, fmt.Sprintf("unresolvable type annotation %T", t), nil))
		return coreir.Void{}
	}
}

func (r *Resolver) literalTypeOf(lt *ast.LiteralType) coreir.Type {
	switch lt.Kind {
	case ast.StringLit:
		return coreir.StringT{}
	case ast.IntLit:
		return coreir.Integer{Width: coreir.W32, Signed: true}
	case ast.FloatLit:
		return coreir.Float{Width: coreir.W64}
	default:
		return coreir.Void{}
	}
}

// primitiveTypes implements primitive mapping table.
var primitiveTypes = map[string]coreir.Type{
	"number": coreir.Float{Width: coreir.W64},
	"f64":    coreir.Float{Width: coreir.W64},
	"f32":    coreir.Float{Width: coreir.W32},
	"i8":     coreir.Integer{Width: coreir.W8, Signed: true},
	"i16":    coreir.Integer{Width: coreir.W16, Signed: true},
	"i32":    coreir.Integer{Width: coreir.W32, Signed: true},
	"i64":    coreir.Integer{Width: coreir.W64, Signed: true},
	"u8":     coreir.Integer{Width: coreir.W8, Signed: false},
	"u16":    coreir.Integer{Width: coreir.W16, Signed: false},
	"u32":    coreir.Integer{Width: coreir.W32, Signed: false},
	"u64":    coreir.Integer{Width: coreir.W64, Signed: false},
	"boolean": coreir.Bool{},
	"string":  coreir.StringT{},
	"void":    coreir.Void{},
}

func (r *Resolver) resolveNamed(nt *ast.NamedType, env Env, hint Hint) coreir.Type {
	if nt.Name == "null" || nt.Name == "undefined" {
		// Bare null/undefined outside a union collapses to Option<Void>;
		// the common `T | null` case is handled by resolveUnion instead.
		return coreir.Option{Inner: coreir.Void{}}
	}
	if prim, ok := primitiveTypes[nt.Name]; ok {
		return prim
	}
	if alias, ok := r.c.Aliases[nt.Name]; ok {
		// A union declared through an alias is registered under the alias name.
		aliasHint := hint
		aliasHint.UnionName = alias.Name
		return r.ResolveType(alias.Type, env, aliasHint)
	}
	if cls, ok := r.classes[nt.Name]; ok {
		if len(cls.TypeParams) > 0 {
			return r.instantiateClass(cls, nt.Args, env)
		}
		return r.resolveClassStruct(cls, env)
	}
	if _, ok := r.c.Enums[nt.Name]; ok {
		return coreir.Integer{Width: coreir.W32, Signed: true}
	}
	if ty, ok := env.TypeParams[nt.Name]; ok {
		return ty
	}
	r.c.Report(errors.New(errors.UnknownSymbol, &ast.Span{Start: nt.Pos, End: nt.Pos},
		fmt.Sprintf("unknown type %q", nt.Name), nil))
	return coreir.Void{}
}

// InstantiateClassWithArgs is instantiateClass's entry point for callers
// (internal/mono) that already hold resolved coreir.Type arguments rather
// than surface ast.TypeAnn nodes, e.g. a `new Box(5)` call site whose type
// argument was inferred from the constructor argument's literal shape
// rather than written explicitly as `new Box<i32>(5)`.
func (r *Resolver) InstantiateClassWithArgs(cls *ast.ClassDecl, args []coreir.Type) coreir.Type {
	mangled := mangle.Mangle(cls.Name, args)
	key := ctx.MonoKey{Name: cls.Name, Args: mangled}
	if name, ok := r.c.MonoCache[key]; ok {
		if st, ok := r.c.Structs[name]; ok {
			return st
		}
	}
	r.c.MonoCache[key] = mangled

	env := Env{TypeParams: make(map[string]coreir.Type, len(cls.TypeParams))}
	for i, tp := range cls.TypeParams {
		if i < len(args) {
			env.TypeParams[tp.Name] = args[i]
		}
	}
	fields := make([]coreir.FieldDef, len(cls.Fields))
	for i, f := range cls.Fields {
		fields[i] = coreir.FieldDef{Name: f.Name, Type: r.resolveFieldType(f.Type, env, isWeak(f.Type))}
	}
	return r.c.InternStruct(mangled, fields)
}

// instantiateClass resolves a generic class applied to concrete type
// arguments (e.g. a field typed `Box<i32>`), one of the Monomorphizer's
// trigger sites. The cache is keyed the same way
// internal/mono keys its own work queue, so a class instantiated both from
// a field annotation and from a later `new Box<i32>()` call collapses to
// one struct entry.
func (r *Resolver) instantiateClass(cls *ast.ClassDecl, argAnns []ast.TypeAnn, env Env) coreir.Type {
	args := make([]coreir.Type, len(argAnns))
	for i, a := range argAnns {
		args[i] = r.ResolveType(a, env, Hint{})
	}
	mangled := mangle.Mangle(cls.Name, args)
	key := ctx.MonoKey{Name: cls.Name, Args: mangled}
	if name, ok := r.c.MonoCache[key]; ok {
		if st, ok := r.c.Structs[name]; ok {
			return st
		}
	}
	r.c.MonoCache[key] = mangled

	childEnv := Env{TypeParams: make(map[string]coreir.Type, len(cls.TypeParams))}
	for name, ty := range env.TypeParams {
		childEnv.TypeParams[name] = ty
	}
	for i, tp := range cls.TypeParams {
		if i < len(args) {
			childEnv.TypeParams[tp.Name] = args[i]
		} else if tp.Default != nil {
			childEnv.TypeParams[tp.Name] = r.ResolveType(tp.Default, env, Hint{})
		}
	}

	fields := make([]coreir.FieldDef, len(cls.Fields))
	for i, f := range cls.Fields {
		fields[i] = coreir.FieldDef{Name: f.Name, Type: r.resolveFieldType(f.Type, childEnv, isWeak(f.Type))}
	}
	return r.c.InternStruct(mangled, fields)
}

// resolveEnum compiles an enum to Integer(32) with a tag table.
func (r *Resolver) resolveEnum(e *ast.EnumDecl) {
	tagOf := make(map[string]int)
	next := 0
	for _, m := range e.Members {
		switch lit := m.Init.(type) {
		case *ast.Literal:
			switch lit.Kind {
			case ast.IntLit:
				if v, ok := lit.Value.(int); ok {
					next = v
				}
			case ast.StringLit:
				// string value retained only in source form; tag is purely
				// sequential by declaration order.
			}
		}
		tagOf[m.Name] = next
		next++
	}
	r.c.Enums[e.Name] = &ctx.EnumInfo{Name: e.Name, TagOf: tagOf, IsConst: e.IsConst}
}

// resolveUnion classifies a `T1 | T2 | ...` annotation
// five rules, in order.
func (r *Resolver) resolveUnion(ut *ast.UnionType, env Env, hint Hint) coreir.Type {
	variants := ut.Variants

	// Rule 1: exactly one null/undefined variant, rest collapse to one type.
	if opt, ok := r.tryOption(variants, env); ok {
		return opt
	}

	// Rule 2: all variants are string literal types -> string-literal enum.
	if r.allStringLiteralTypes(variants) {
		return coreir.Integer{Width: coreir.W32, Signed: true}
	}

	// Rule 3: all variants numeric -> widen.
	if w, ok := r.tryNumericWiden(variants, env); ok {
		return w
	}

	// Rule 4: discriminated union — all struct-shaped variants share exactly
	// one field with identical name and a unique string-literal type.
	if u, ok := r.tryDiscriminated(variants, env, hint); ok {
		return u
	}

	// Rule 5: auto-tagged union.
	return r.autoTagged(variants, env, hint)
}

func isNullish(t ast.TypeAnn) bool {
	if nt, ok := t.(*ast.NamedType); ok {
		return nt.Name == "null" || nt.Name == "undefined"
	}
	return false
}

func (r *Resolver) tryOption(variants []ast.TypeAnn, env Env) (coreir.Type, bool) {
	var rest []ast.TypeAnn
	nullish := 0
	for _, v := range variants {
		if isNullish(v) {
			nullish++
			continue
		}
		rest = append(rest, v)
	}
	if nullish == 0 || len(rest) == 0 {
		return nil, false
	}
	if len(rest) == 1 {
		return coreir.Option{Inner: r.ResolveType(rest[0], env, Hint{})}, true
	}
	// More than one non-null variant: only an Option if they all collapse
	// to a single resolved type (e.g. two spellings of the same primitive).
	first := r.ResolveType(rest[0], env, Hint{})
	for _, v := range rest[1:] {
		if r.ResolveType(v, env, Hint{}).Key() != first.Key() {
			return nil, false
		}
	}
	return coreir.Option{Inner: first}, true
}

func (r *Resolver) allStringLiteralTypes(variants []ast.TypeAnn) bool {
	for _, v := range variants {
		lt, ok := v.(*ast.LiteralType)
		if !ok || lt.Kind != ast.StringLit {
			return false
		}
	}
	return true
}

func (r *Resolver) tryNumericWiden(variants []ast.TypeAnn, env Env) (coreir.Type, bool) {
	resolved := make([]coreir.Type, len(variants))
	for i, v := range variants {
		resolved[i] = r.ResolveType(v, env, Hint{})
		switch resolved[i].(type) {
		case coreir.Integer, coreir.Float:
		default:
			return nil, false
		}
	}
	return widen(resolved), true
}

// widen implements the numeric-union widening lattice: any float mixed with
// int widens to the widest float; all-int widens to the widest int; equal
// width signed+unsigned widens to signed.
func widen(types []coreir.Type) coreir.Type {
	hasFloat := false
	maxFloatW := coreir.W32
	maxIntW := coreir.W8
	anySigned, anyUnsigned := false, false
	for _, t := range types {
		switch v := t.(type) {
		case coreir.Float:
			hasFloat = true
			if v.Width > maxFloatW {
				maxFloatW = v.Width
			}
		case coreir.Integer:
			if v.Width > maxIntW {
				maxIntW = v.Width
			}
			if v.Signed {
				anySigned = true
			} else {
				anyUnsigned = true
			}
		}
	}
	if hasFloat {
		w := maxFloatW
		for _, t := range types {
			if it, ok := t.(coreir.Integer); ok && it.Width > w {
				w = it.Width
			}
		}
		return coreir.Float{Width: w}
	}
	signed := anySigned || (anySigned == anyUnsigned)
	return coreir.Integer{Width: maxIntW, Signed: signed}
}

// tryDiscriminated implements rule 4: variants are struct shapes sharing
// exactly one field, same name, whose type is a unique string literal per
// variant.
func (r *Resolver) tryDiscriminated(variants []ast.TypeAnn, env Env, hint Hint) (coreir.Type, bool) {
	lits, ok := r.objectLiterals(variants)
	if !ok {
		return nil, false
	}
	field, ok := sharedLiteralField(lits)
	if field == "" || !ok {
		return nil, false
	}

	seen := make(map[string]bool)
	unionName := hint.UnionName
	if unionName == "" {
		unionName = "__anon$union"
	}
	varDefs := make([]coreir.VariantDef, len(lits))
	tagOf := make(map[string]int)
	for i, obj := range lits {
		tagVal, discVal := discriminantValue(obj, field)
		if discVal == "" || seen[discVal] {
			r.c.Report(errors.New(errors.DiscriminantAmbiguous, nil,
				fmt.Sprintf("union %s has an ambiguous or duplicate discriminant on field %q", unionName, field), nil))
			return nil, true
		}
		seen[discVal] = true
		payloadFields := stripField(obj.Fields, field)
		fields := make([]coreir.FieldDef, len(payloadFields))
		for j, f := range payloadFields {
			fields[j] = coreir.FieldDef{Name: f.Name, Type: r.ResolveType(f.Type, env, Hint{Kind: HintUnionVariant, UnionName: unionName, Index: i})}
		}
		name := fmt.Sprintf("%s$%d", unionName, i)
		st := r.c.InternStruct(name, fields)
		varDefs[i] = coreir.VariantDef{Tag: i, Name: discVal, Payload: st}
		tagOf[discVal] = i
		_ = tagVal
	}
	u := &coreir.Union{Name: unionName, TagWidth: coreir.W32, Variants: varDefs}
	r.c.RegisterUnion(unionName, u, &ctx.UnionInfo{Kind: ctx.UnionDiscriminated, DiscriminantField: field, TagOf: tagOf})
	return u, true
}

func (r *Resolver) objectLiterals(variants []ast.TypeAnn) ([]*ast.ObjectTypeLit, bool) {
	out := make([]*ast.ObjectTypeLit, len(variants))
	for i, v := range variants {
		lit, ok := v.(*ast.ObjectTypeLit)
		if !ok {
			return nil, false
		}
		out[i] = lit
	}
	return out, true
}

// sharedLiteralField finds the field that qualifies as rule 4's
// discriminant: present in every variant, with a string-literal type in
// every variant's occurrence, not just some. A field that is a literal
// type in one variant but a plain `string` (or anything else) in another
// cannot discriminate by value alone, so it must fall through to rule 5
// (auto-tagged) instead of being reported as an ambiguous rule-4 candidate.
func sharedLiteralField(lits []*ast.ObjectTypeLit) (string, bool) {
	counts := make(map[string]int)
	allLiteral := make(map[string]bool)
	seen := make(map[string]bool)
	for _, lit := range lits {
		for _, f := range lit.Fields {
			counts[f.Name]++
			lt, ok := f.Type.(*ast.LiteralType)
			isLit := ok && lt.Kind == ast.StringLit
			if !seen[f.Name] {
				allLiteral[f.Name] = isLit
				seen[f.Name] = true
			} else if !isLit {
				allLiteral[f.Name] = false
			}
		}
	}
	candidate := ""
	for name, count := range counts {
		if count == len(lits) && allLiteral[name] {
			if candidate != "" {
				return "", false // more than one shared literal field: ambiguous, not rule 4
			}
			candidate = name
		}
	}
	return candidate, candidate != ""
}

func discriminantValue(obj *ast.ObjectTypeLit, field string) (ast.TypeAnn, string) {
	for _, f := range obj.Fields {
		if f.Name == field {
			if lt, ok := f.Type.(*ast.LiteralType); ok {
				return f.Type, fmt.Sprintf("%v", lt.Value)
			}
		}
	}
	return nil, ""
}

func stripField(fields []*ast.TypeField, name string) []*ast.TypeField {
	out := make([]*ast.TypeField, 0, len(fields))
	for _, f := range fields {
		if f.Name != name {
			out = append(out, f)
		}
	}
	return out
}

// autoTagged implements rule 5: a fresh tag per variant in declaration
// order, shared payload sized to the maximum variant.
func (r *Resolver) autoTagged(variants []ast.TypeAnn, env Env, hint Hint) coreir.Type {
	unionName := hint.UnionName
	if unionName == "" {
		unionName = "__anon$union"
	}
	varDefs := make([]coreir.VariantDef, len(variants))
	tagOf := make(map[string]int)
	for i, v := range variants {
		payload := r.ResolveType(v, env, Hint{Kind: HintUnionVariant, UnionName: unionName, Index: i})
		name := variantName(v, i)
		varDefs[i] = coreir.VariantDef{Tag: i, Name: name, Payload: payload}
		tagOf[name] = i
	}
	u := &coreir.Union{Name: unionName, TagWidth: coreir.W32, Variants: varDefs}
	r.c.RegisterUnion(unionName, u, &ctx.UnionInfo{Kind: ctx.UnionAutoTagged, TagOf: tagOf})
	return u
}

func variantName(t ast.TypeAnn, i int) string {
	if nt, ok := t.(*ast.NamedType); ok {
		return nt.Name
	}
	return fmt.Sprintf("variant%d", i)
}

// sortedKeys is a small determinism helper that returns a map's keys in
// sorted order; nothing in this package calls it at present.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
