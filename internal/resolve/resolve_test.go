package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stslang/stsc/internal/ast"
	"github.com/stslang/stsc/internal/coreir"
	"github.com/stslang/stsc/internal/ctx"
	"github.com/stslang/stsc/internal/errors"
	"github.com/stslang/stsc/internal/importgraph"
	"github.com/stslang/stsc/internal/scope"
)

func newCtx() *ctx.Context {
	return ctx.New(scope.NewTable(), importgraph.NewGraph(nil))
}

func TestResolvePrimitives(t *testing.T) {
	c := newCtx()
	r := New(c, nil)

	require.Equal(t, coreir.Float{Width: coreir.W64}, r.ResolveType(&ast.NamedType{Name: "number"}, Env{}, Hint{}))
	require.Equal(t, coreir.Integer{Width: coreir.W32, Signed: true}, r.ResolveType(&ast.NamedType{Name: "i32"}, Env{}, Hint{}))
	require.Equal(t, coreir.Integer{Width: coreir.W8, Signed: false}, r.ResolveType(&ast.NamedType{Name: "u8"}, Env{}, Hint{}))
	require.Equal(t, coreir.Bool{}, r.ResolveType(&ast.NamedType{Name: "boolean"}, Env{}, Hint{}))
	require.Equal(t, coreir.StringT{}, r.ResolveType(&ast.NamedType{Name: "string"}, Env{}, Hint{}))
}

func TestStructuralIdentityDedup(t *testing.T) {
	c := newCtx()
	r := New(c, nil)

	shape := &ast.ObjectTypeLit{Fields: []*ast.TypeField{
		{Name: "x", Type: &ast.NamedType{Name: "i32"}},
		{Name: "y", Type: &ast.NamedType{Name: "i32"}},
	}}
	a := r.ResolveType(shape, Env{}, Hint{Kind: HintVarInit, VarName: "p1"})
	b := r.ResolveType(shape, Env{}, Hint{Kind: HintVarInit, VarName: "p2"})

	sa, ok := a.(*coreir.Struct)
	require.True(t, ok)
	sb, ok := b.(*coreir.Struct)
	require.True(t, ok)
	require.Same(t, sa, sb, "two identical shapes must alias the same Struct entry")
	require.Equal(t, "p1$type", sa.Name)
}

func TestAnonNameSynthesisPriority(t *testing.T) {
	c := newCtx()
	r := New(c, nil)
	shape := &ast.ObjectTypeLit{Fields: []*ast.TypeField{{Name: "x", Type: &ast.NamedType{Name: "i32"}}}}

	union := r.ResolveType(shape, Env{}, Hint{Kind: HintUnionVariant, UnionName: "Shape", Index: 0}).(*coreir.Struct)
	require.Equal(t, "Shape$0", union.Name)

	// A fresh context: in c the same shape is already interned as Shape$0.
	r2 := New(newCtx(), nil)
	param := r2.ResolveType(shape, Env{}, Hint{Kind: HintFuncParam, FuncName: "make", ParamName: "opts"}).(*coreir.Struct)
	require.Equal(t, "make$opts", param.Name)
}

func TestOptionCollapse(t *testing.T) {
	c := newCtx()
	r := New(c, nil)
	ut := &ast.UnionType{Variants: []ast.TypeAnn{
		&ast.NamedType{Name: "i32"},
		&ast.NamedType{Name: "null"},
	}}
	got := r.ResolveType(ut, Env{}, Hint{})
	require.Equal(t, coreir.Option{Inner: coreir.Integer{Width: coreir.W32, Signed: true}}, got)
}

func TestStringLiteralEnumUnion(t *testing.T) {
	c := newCtx()
	r := New(c, nil)
	ut := &ast.UnionType{Variants: []ast.TypeAnn{
		&ast.LiteralType{Kind: ast.StringLit, Value: "north"},
		&ast.LiteralType{Kind: ast.StringLit, Value: "south"},
	}}
	got := r.ResolveType(ut, Env{}, Hint{})
	require.Equal(t, coreir.Integer{Width: coreir.W32, Signed: true}, got)
}

func TestNumericWidening(t *testing.T) {
	c := newCtx()
	r := New(c, nil)
	ut := &ast.UnionType{Variants: []ast.TypeAnn{
		&ast.NamedType{Name: "i32"},
		&ast.NamedType{Name: "f64"},
	}}
	got := r.ResolveType(ut, Env{}, Hint{})
	require.Equal(t, coreir.Float{Width: coreir.W64}, got)
}

func TestDiscriminatedUnion(t *testing.T) {
	c := newCtx()
	r := New(c, nil)
	circle := &ast.ObjectTypeLit{Fields: []*ast.TypeField{
		{Name: "kind", Type: &ast.LiteralType{Kind: ast.StringLit, Value: "circle"}},
		{Name: "r", Type: &ast.NamedType{Name: "f64"}},
	}}
	square := &ast.ObjectTypeLit{Fields: []*ast.TypeField{
		{Name: "kind", Type: &ast.LiteralType{Kind: ast.StringLit, Value: "square"}},
		{Name: "side", Type: &ast.NamedType{Name: "f64"}},
	}}
	ut := &ast.UnionType{Variants: []ast.TypeAnn{circle, square}}
	got := r.ResolveType(ut, Env{}, Hint{Kind: HintVarInit, VarName: "_"})

	u, ok := got.(*coreir.Union)
	require.True(t, ok)
	require.Len(t, u.Variants, 2)
	require.Equal(t, "circle", u.Variants[0].Name)
	require.Equal(t, "square", u.Variants[1].Name)

	info := c.UnionInfo[u.Name]
	require.NotNil(t, info)
	require.Equal(t, ctx.UnionDiscriminated, info.Kind)
	require.Equal(t, "kind", info.DiscriminantField)
}

// A field that is a string-literal type in one variant but a plain string
// in another cannot discriminate by value alone: it must fall through to
// rule 5 (auto-tagged) rather than being reported as an ambiguous rule-4
// candidate.
func TestDiscriminatedUnionRequiresLiteralInEveryVariant(t *testing.T) {
	c := newCtx()
	r := New(c, nil)
	circle := &ast.ObjectTypeLit{Fields: []*ast.TypeField{
		{Name: "kind", Type: &ast.LiteralType{Kind: ast.StringLit, Value: "circle"}},
		{Name: "r", Type: &ast.NamedType{Name: "f64"}},
	}}
	other := &ast.ObjectTypeLit{Fields: []*ast.TypeField{
		{Name: "kind", Type: &ast.NamedType{Name: "string"}},
		{Name: "side", Type: &ast.NamedType{Name: "f64"}},
	}}
	ut := &ast.UnionType{Variants: []ast.TypeAnn{circle, other}}
	got := r.ResolveType(ut, Env{}, Hint{Kind: HintVarInit, VarName: "_"})

	require.Empty(t, c.Diagnostics, "a varying field type must not report DiscriminantAmbiguous")
	u, ok := got.(*coreir.Union)
	require.True(t, ok)
	info := c.UnionInfo[u.Name]
	require.NotNil(t, info)
	require.Equal(t, ctx.UnionAutoTagged, info.Kind)
}

func TestEnumTagTable(t *testing.T) {
	c := newCtx()
	e := &ast.EnumDecl{Name: "Color", Members: []*ast.EnumMember{
		{Name: "Red"},
		{Name: "Green"},
		{Name: "Blue"},
	}}
	New(c, []*ast.File{{Decls: []ast.Decl{e}}})

	info := c.Enums["Color"]
	require.NotNil(t, info)
	require.Equal(t, 0, info.TagOf["Red"])
	require.Equal(t, 1, info.TagOf["Green"])
	require.Equal(t, 2, info.TagOf["Blue"])
}

func TestCyclicClassWithoutWeakIsRejected(t *testing.T) {
	c := newCtx()
	node := &ast.ClassDecl{
		Name: "Node",
		Fields: []*ast.FieldDecl{
			{Name: "next", Type: &ast.NamedType{Name: "Node"}},
		},
	}
	files := []*ast.File{{Decls: []ast.Decl{node}}}
	r := New(c, files)
	r.resolveClassStruct(node, Env{})

	require.NotEmpty(t, c.Diagnostics)
	require.Equal(t, errors.CycleError, c.Diagnostics[0].Code)
}

func TestCyclicClassWithWeakIsAccepted(t *testing.T) {
	c := newCtx()
	node := &ast.ClassDecl{
		Name: "Node",
		Fields: []*ast.FieldDecl{
			{Name: "next", Type: &ast.WeakType{Inner: &ast.NamedType{Name: "Node"}}},
		},
	}
	files := []*ast.File{{Decls: []ast.Decl{node}}}
	r := New(c, files)
	r.resolveClassStruct(node, Env{})

	require.Empty(t, c.Diagnostics)
}

func TestResolveFuncSignature(t *testing.T) {
	c := newCtx()
	fn := &ast.FuncDecl{
		Name: "add",
		Params: []*ast.Param{
			{Name: "a", Type: &ast.NamedType{Name: "i32"}},
			{Name: "b", Type: &ast.NamedType{Name: "i32"}},
		},
		ReturnType: &ast.NamedType{Name: "i32"},
	}
	res := Run([]*ast.File{{Decls: []ast.Decl{fn}}}, c)

	sig, ok := res.Funcs["add"]
	require.True(t, ok)
	require.Len(t, sig.Params, 2)
	require.Equal(t, coreir.Integer{Width: coreir.W32, Signed: true}, sig.Ret)
}

func TestGenericClassDeferred(t *testing.T) {
	c := newCtx()
	box := &ast.ClassDecl{
		Name:       "Box",
		TypeParams: []*ast.TypeParam{{Name: "T"}},
		Fields:     []*ast.FieldDecl{{Name: "value", Type: &ast.GenericRef{Name: "T"}}},
	}
	res := Run([]*ast.File{{Decls: []ast.Decl{box}}}, c)

	require.NotContains(t, res.Classes, "Box")
	require.Contains(t, c.Generics, "Box")
}

func TestInstantiateGenericClassFromFieldAnnotation(t *testing.T) {
	c := newCtx()
	box := &ast.ClassDecl{
		Name:       "Box",
		TypeParams: []*ast.TypeParam{{Name: "T"}},
		Fields:     []*ast.FieldDecl{{Name: "value", Type: &ast.GenericRef{Name: "T"}}},
	}
	files := []*ast.File{{Decls: []ast.Decl{box}}}
	r := New(c, files)

	got := r.ResolveType(&ast.NamedType{Name: "Box", Args: []ast.TypeAnn{&ast.NamedType{Name: "i32"}}}, Env{}, Hint{})
	st, ok := got.(*coreir.Struct)
	require.True(t, ok)
	require.Equal(t, "Box$Int32", st.Name)
	require.Equal(t, coreir.Integer{Width: coreir.W32, Signed: true}, st.Fields[0].Type)
}
