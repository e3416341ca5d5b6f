package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"
)

func parseFunc(t *testing.T, src string) *ast.FuncDecl {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "x.go", "package q32\n"+src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parsing snippet: %v", err)
	}
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			return fn
		}
	}
	t.Fatal("no func decl found in snippet")
	return nil
}

func TestParseDirectiveExtractsSymbolAndResults(t *testing.T) {
	fn := parseFunc(t, `
// Add does addition.
//
//lpfx:impl symbol=__lp_q32_add results=1
func Add(a, b int32) int32 { return a + b }
`)
	dir, ok := parseDirective(fn.Doc)
	if !ok {
		t.Fatal("expected a directive to be found")
	}
	if dir.symbol != "__lp_q32_add" {
		t.Errorf("symbol = %q, want __lp_q32_add", dir.symbol)
	}
	if dir.results != 1 {
		t.Errorf("results = %d, want 1", dir.results)
	}
}

func TestParseDirectiveAbsentReturnsFalse(t *testing.T) {
	fn := parseFunc(t, `
// Helper has no directive.
func Helper(a int32) int32 { return a }
`)
	if _, ok := parseDirective(fn.Doc); ok {
		t.Fatal("expected no directive to be found")
	}
}

func TestInt32ArityAcceptsUniformSignature(t *testing.T) {
	fn := parseFunc(t, `func Add(a, b int32) int32 { return a + b }`)
	arity, ok := int32Arity(fn)
	if !ok {
		t.Fatal("expected a uniform int32 signature to be accepted")
	}
	if arity != 2 {
		t.Errorf("arity = %d, want 2", arity)
	}
}

func TestInt32ArityRejectsNonInt32Param(t *testing.T) {
	fn := parseFunc(t, `func Scale(a int32, b float32) int32 { return a }`)
	if _, ok := int32Arity(fn); ok {
		t.Fatal("expected a mixed-type signature to be rejected")
	}
}

func TestInt32ArityRejectsMultiResult(t *testing.T) {
	fn := parseFunc(t, `func DivMod(a, b int32) (int32, int32) { return a / b, a % b }`)
	if _, ok := int32Arity(fn); ok {
		t.Fatal("expected a multi-result signature to be rejected")
	}
}

func TestIdNameConvertsSymbol(t *testing.T) {
	got := idName("__lp_q32_add")
	want := "IDLpQ32Add"
	if got != want {
		t.Errorf("idName(__lp_q32_add) = %q, want %q", got, want)
	}
}
