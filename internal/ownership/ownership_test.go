package ownership

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stslang/stsc/internal/coreir"
	"github.com/stslang/stsc/internal/ctx"
	"github.com/stslang/stsc/internal/importgraph"
	"github.com/stslang/stsc/internal/scope"
)

func newCtx() *ctx.Context {
	return ctx.New(scope.NewTable(), importgraph.NewGraph(nil))
}

func TestBorrowedWhenParamNeverStoredOrReturned(t *testing.T) {
	c := newCtx()
	i32 := coreir.Integer{Width: coreir.W32, Signed: true}
	fn := &coreir.Function{
		MangledName: "len",
		Params:      []coreir.ParamDecl{{Name: "s", Ty: coreir.StringT{}}},
		ParamModes:  make([]coreir.ParamMode, 1),
		Ret:         i32,
		Body: []coreir.Stmt{
			&coreir.Return{Value: &coreir.Lit{Value: 0, Ty: i32}},
		},
	}
	c.RegisterFunc(fn)
	Run(c)
	require.Equal(t, coreir.ModeBorrowed, c.FuncTable["len"].ParamModes[0])
}

func TestOwnedWhenParamReturned(t *testing.T) {
	c := newCtx()
	st := &coreir.Struct{Name: "Box", Fields: []coreir.FieldDef{{Name: "v", Type: coreir.Integer{Width: coreir.W32, Signed: true}}}}
	fn := &coreir.Function{
		MangledName: "identity",
		Params:      []coreir.ParamDecl{{Name: "x", Ty: st}},
		ParamModes:  make([]coreir.ParamMode, 1),
		Ret:         st,
		Body: []coreir.Stmt{
			&coreir.Return{Value: &coreir.Var{Name: "x", Ty: st}},
		},
	}
	c.RegisterFunc(fn)
	Run(c)
	require.Equal(t, coreir.ModeOwned, c.FuncTable["identity"].ParamModes[0])
}

func TestBorrowedMutWhenParamAssignedThrough(t *testing.T) {
	c := newCtx()
	i32 := coreir.Integer{Width: coreir.W32, Signed: true}
	fn := &coreir.Function{
		MangledName: "bump",
		Params:      []coreir.ParamDecl{{Name: "x", Ty: i32}},
		ParamModes:  make([]coreir.ParamMode, 1),
		Ret:         coreir.Void{},
		Body: []coreir.Stmt{
			&coreir.Assign{Target: &coreir.Var{Name: "x", Ty: i32}, Value: &coreir.Lit{Value: 1, Ty: i32}},
			&coreir.Return{},
		},
	}
	c.RegisterFunc(fn)
	Run(c)
	require.Equal(t, coreir.ModeBorrowedMut, c.FuncTable["bump"].ParamModes[0])
}

func TestAllocationPlacement(t *testing.T) {
	c := newCtx()
	st := &coreir.Struct{Name: "Box", Fields: []coreir.FieldDef{{Name: "v", Type: coreir.Integer{Width: coreir.W32, Signed: true}}}}
	makeFn := &coreir.Function{
		MangledName: "make",
		ParamModes:  nil,
		Ret:         st,
		Body: []coreir.Stmt{
			&coreir.Let{Name: "b", Ty: st, Value: &coreir.Call{Callee: &coreir.FuncRef{MangledName: "Box$new"}, Ty: st}},
			&coreir.Return{Value: &coreir.Var{Name: "b", Ty: st}},
		},
	}
	c.RegisterFunc(makeFn)
	Run(c)

	let := c.FuncTable["make"].Body[0].(*coreir.Let)
	_, isHeap := let.Value.(*coreir.AllocHeap)
	require.True(t, isHeap, "an allocation bound to a returned name must be heap-placed")
}
