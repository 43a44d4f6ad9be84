package ast

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPrintFuncDecl(t *testing.T) {
	decl := &FuncDecl{
		Name: "identity",
		Params: []*Param{
			{Name: "x", Type: &GenericRef{Name: "T"}},
		},
		ReturnType: &GenericRef{Name: "T"},
		Body: &Block{
			Stmts: []Stmt{
				&ReturnStmt{Value: &Identifier{Name: "x"}},
			},
		},
	}

	out := Print(decl)
	for _, want := range []string{`"type": "FuncDecl"`, `"name": "identity"`, `"type": "ReturnStmt"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("Print output missing %q:\n%s", want, out)
		}
	}
}

func TestCompactIsSingleLine(t *testing.T) {
	out := Compact(&Identifier{Name: "x"})
	if strings.Contains(out, "\n") {
		t.Fatalf("Compact output should not contain newlines: %q", out)
	}
	if !strings.Contains(out, `"name":"x"`) {
		t.Fatalf("Compact output missing field: %q", out)
	}
}

// TestCompactStable pins Compact's field order across two structurally
// identical literals; a cmp.Diff mismatch here means field ordering drifted
// between runs rather than just failing an Equal check.
func TestCompactStable(t *testing.T) {
	a := Compact(&Identifier{Name: "x"})
	b := Compact(&Identifier{Name: "x"})
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("Compact output unstable for identical input (-first +second):\n%s", diff)
	}
}

func TestPrintNilBlock(t *testing.T) {
	var b *Block
	if got := Print(b); got != "null" {
		t.Fatalf("Print(nil *Block) = %q, want null", got)
	}
}
