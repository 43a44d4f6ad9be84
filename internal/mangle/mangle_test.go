package mangle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stslang/stsc/internal/coreir"
)

func TestMangleNoArgs(t *testing.T) {
	require.Equal(t, "identity", Mangle("identity", nil))
}

func TestMangleSimple(t *testing.T) {
	require.Equal(t, "identity$Int32", Mangle("identity", []coreir.Type{
		coreir.Integer{Width: coreir.W32, Signed: true},
	}))
	require.Equal(t, "identity$Float64", Mangle("identity", []coreir.Type{
		coreir.Float{Width: coreir.W64},
	}))
}

func TestMangleNestedGeneric(t *testing.T) {
	got := Mangle("Map", []coreir.Type{
		coreir.StringT{},
		coreir.Array{Element: coreir.Integer{Width: coreir.W32, Signed: true}},
	})
	require.Equal(t, "Map$String$Array$Int32", got)
}

func TestMangleDeterministic(t *testing.T) {
	args := []coreir.Type{coreir.Integer{Width: coreir.W32, Signed: true}}
	a := Mangle("identity", args)
	b := Mangle("identity", args)
	require.Equal(t, a, b)
}

func TestDemangle(t *testing.T) {
	base, segs := Demangle("Map$String$Array$Int32")
	require.Equal(t, "Map", base)
	require.Equal(t, []string{"String", "Array", "Int32"}, segs)
}
