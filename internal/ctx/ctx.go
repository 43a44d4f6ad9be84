// Package ctx is the Lowering Context shared by the five pipeline phases:
// the resolved type table, generic definition table, monomorphization
// cache, union registry, and function table, plus the diagnostics
// accumulator. Grounded on ailang's internal/pipeline
// Config/env threading and internal/loader module context: a single struct
// passed by unique reference through V→T→D→M→O, never aliased long-term
// across phase boundaries.
package ctx

import (
	"github.com/stslang/stsc/internal/ast"
	"github.com/stslang/stsc/internal/coreir"
	"github.com/stslang/stsc/internal/errors"
	"github.com/stslang/stsc/internal/importgraph"
	"github.com/stslang/stsc/internal/scope"
)

// GenericDef is one Generic-definition-table entry: the raw
// AST of a generic function/struct/union plus its type parameters.
type GenericDef struct {
	Name       string
	TypeParams []*ast.TypeParam
	Decl       ast.Decl
}

// MonoKey is the Monomorphization cache key: a generic name plus its
// ordered concrete type arguments.
type MonoKey struct {
	Name string
	Args string // the instance's mangled name, computed by internal/mangle
}

// UnionKind records whether a union was classified as discriminated or
// auto-tagged, for the Desugarer's switch and instanceof/typeof
// lowering.
type UnionKind int

const (
	UnionDiscriminated UnionKind = iota
	UnionAutoTagged
	UnionStringEnum // all-string-literal variants collapsed to a tagged Integer(32)
	UnionNumeric    // all-numeric variants widened, no tag
)

// UnionInfo is the Union registry entry: classification plus the mapping
// from source variant name to tag, needed by instanceof/typeof lowering.
type UnionInfo struct {
	Kind          UnionKind
	DiscriminantField string // non-empty only for UnionDiscriminated
	TagOf         map[string]int
}

// EnumInfo is an Enum's compiled tag table: enums compile
// to Integer(32), and TagOf maps each member name to its tag. The members'
// string/numeric source values are not kept.
type EnumInfo struct {
	Name    string
	TagOf   map[string]int
	IsConst bool
}

// TransientData is AST-adjacent scratch state with the lifetime of one
// compilation: dropped once the middle end returns. Modeled as an explicit
// struct (rather than a real arena, which no example repo in this corpus
// wires a library for) arena/long-lived split.
type TransientData struct {
	Files []*ast.File
}

// RetainedData is the long-lived state handed to the backend: the Core IR
// tables themselves, allocated from a region that outlives Transient.
type RetainedData struct {
	Program *coreir.Program
}

// Context is the Lowering Context threaded through every phase.
type Context struct {
	Scope   *scope.Table
	Imports *importgraph.Graph

	// TypeTable mirrors coreir.Program.Structs/Unions during lowering; it is
	// the same maps, exposed here for the phases that mutate them before the
	// Program is finalized.
	Structs map[string]*coreir.Struct
	// structKeys maps a canonical field signature to the struct name already
	// registered for it, enforcing structural identity.
	structKeys map[string]string

	Unions     map[string]*coreir.Union
	UnionInfo  map[string]*UnionInfo

	Enums map[string]*EnumInfo

	// Aliases resolves a type-alias name to its (possibly generic) AST
	// definition, consulted by internal/resolve whenever a NamedType names
	// an alias rather than a primitive or class.
	Aliases map[string]*ast.TypeAliasDecl

	FuncTable map[string]*coreir.Function

	Generics map[string]*GenericDef

	MonoCache map[MonoKey]string // -> mangled instance name

	Diagnostics []*errors.Report

	Transient TransientData
	Retained  RetainedData
}

// New constructs an empty Lowering Context for the given scope table and
// import graph (both produced by the out-of-scope semantic analyzer and
// module resolver).
func New(sc *scope.Table, imports *importgraph.Graph) *Context {
	return &Context{
		Scope:   sc,
		Imports: imports,
		Structs:    make(map[string]*coreir.Struct),
		structKeys: make(map[string]string),
		Unions:     make(map[string]*coreir.Union),
		UnionInfo:  make(map[string]*UnionInfo),
		Enums:      make(map[string]*EnumInfo),
		Aliases:    make(map[string]*ast.TypeAliasDecl),
		FuncTable:  make(map[string]*coreir.Function),
		Generics:   make(map[string]*GenericDef),
		MonoCache:  make(map[MonoKey]string),
		Retained:   RetainedData{Program: coreir.NewProgram()},
	}
}

// InternStruct registers a struct under name, or returns the existing
// *coreir.Struct already registered for the same canonical field signature
//. name is used only the first
// time a given signature is seen; later callers get the first name back.
func (c *Context) InternStruct(name string, fields []coreir.FieldDef) *coreir.Struct {
	probe := &coreir.Struct{Name: name, Fields: fields}
	key := probe.Key()
	if existing, ok := c.structKeys[key]; ok {
		return c.Structs[existing]
	}
	c.structKeys[key] = name
	c.Structs[name] = probe
	c.Retained.Program.Structs[name] = probe
	return probe
}

// RegisterUnion registers a union under name with its classification info.
func (c *Context) RegisterUnion(name string, u *coreir.Union, info *UnionInfo) {
	c.Unions[name] = u
	c.UnionInfo[name] = info
	c.Retained.Program.Unions[name] = u
}

// RegisterFunc registers a function-table entry under its mangled name.
func (c *Context) RegisterFunc(fn *coreir.Function) {
	c.FuncTable[fn.MangledName] = fn
	c.Retained.Program.Funcs[fn.MangledName] = fn
	c.Retained.Program.Signatures[fn.MangledName] = signatureOf(fn)
}

func signatureOf(fn *coreir.Function) coreir.FunctionValue {
	params := make([]coreir.Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Ty
	}
	captures := coreir.CapturesNone
	if fn.Captures != nil {
		captures = coreir.CapturesBoxedEnv
	}
	return coreir.FunctionValue{Params: params, Ret: fn.Ret, Captures: captures}
}

// Report accumulates a diagnostic without aborting the pass; whether later
// phases run is decided by internal/middleend.Run.
func (c *Context) Report(r *errors.Report) {
	c.Diagnostics = append(c.Diagnostics, r)
}

// HasErrors reports whether any diagnostic has been accumulated.
func (c *Context) HasErrors() bool {
	return len(c.Diagnostics) > 0
}
