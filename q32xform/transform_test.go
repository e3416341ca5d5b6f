package q32xform

import (
	"testing"

	"github.com/ledfx/lpglsl/glsl"
	"github.com/ledfx/lpglsl/glsl/semantic"
	"github.com/ledfx/lpglsl/ir"
	"github.com/ledfx/lpglsl/lower"
	"github.com/ledfx/lpglsl/q32"
)

func lowerSource(t *testing.T, source string) *ir.Module {
	t.Helper()
	lexer := glsl.NewLexer(source)
	tokens, err := lexer.Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	parser := glsl.NewParser(tokens, source)
	mod, err := parser.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	shader, diags := semantic.Analyze(mod, source, 0)
	if diags != nil && diags.HasErrors() {
		t.Fatalf("unexpected analysis errors: %s", diags.Error())
	}
	target := ir.TargetDesc{ISA: ir.ISARV32, PointerWidth: 4, DefaultCC: ir.SystemV}
	irMod, err := lower.Lower(shader, "test", target)
	if err != nil {
		t.Fatalf("lower error: %v", err)
	}
	if errs := ir.Validate(irMod); len(errs) > 0 {
		t.Fatalf("invalid IR: %v", errs)
	}
	return irMod
}

func TestTransformEliminatesFloatArithmetic(t *testing.T) {
	src := `
float square(float x) {
    return x * x;
}
`
	mod := lowerSource(t, src)
	out, err := Transform(mod)
	if err != nil {
		t.Fatalf("transform error: %v", err)
	}
	fn, ok := out.FunctionByName("square")
	if !ok {
		t.Fatalf("expected a transformed function named %q", "square")
	}
	if fn.Signature.Params[0].Type != ir.I32 || fn.Signature.Returns[0].Type != ir.I32 {
		t.Fatalf("signature not retyped to i32: %+v", fn.Signature)
	}
	if errs := ir.NoFloatValues(fn); len(errs) > 0 {
		t.Fatalf("float value survived transform: %v", errs[0].Message)
	}
	if _, ok := out.FunctionByName("__lp_q32_mul"); ok {
		t.Fatalf("__lp_q32_mul must be an import, not a defined function")
	}
	if !out.IsImported("__lp_q32_mul") {
		t.Fatalf("expected transform to declare __lp_q32_mul as an import")
	}
}

func TestTransformRewritesMathBuiltinCall(t *testing.T) {
	src := `
float wave(float x) {
    return sin(x);
}
`
	mod := lowerSource(t, src)
	out, err := Transform(mod)
	if err != nil {
		t.Fatalf("transform error: %v", err)
	}
	if !out.IsImported("__lp_q32_sin") {
		t.Fatalf("expected sin(x) to resolve to the __lp_q32_sin builtin import")
	}
}

func TestTransformRejectsUnresolvableExternalCall(t *testing.T) {
	mod := ir.NewModule("test", ir.TargetDesc{ISA: ir.ISARV32, PointerWidth: 4, DefaultCC: ir.SystemV})
	sig := &ir.Signature{Params: []ir.AbiParam{{Type: ir.F32}}, Returns: []ir.AbiParam{{Type: ir.F32}}}
	_, fn := mod.DeclareFunction("mystery", sig)
	entry := fn.CreateBlock()
	fn.AppendToLayout(entry)
	fn.EntryBlock = entry
	p := fn.AppendBlockParam(entry, ir.F32)
	mod.DeclareImport("__glsl_not_a_real_builtin", sig)
	call := fn.PushInst(entry, ir.Instruction{Op: ir.OpCall, Callee: "__glsl_not_a_real_builtin", Args: []ir.Value{p}}, ir.F32)
	fn.PushInst(entry, ir.Instruction{Op: ir.OpReturn, Args: []ir.Value{call.Result}}, ir.TypeInvalid)
	fn.Seal(entry)

	if _, err := Transform(mod); err == nil {
		t.Fatalf("expected an E0301 error for an unresolvable external call")
	}
}

func TestTransformFoldsConstantViaQ32Encoding(t *testing.T) {
	src := `
float half() {
    return 0.5;
}
`
	mod := lowerSource(t, src)
	out, err := Transform(mod)
	if err != nil {
		t.Fatalf("transform error: %v", err)
	}
	fn, _ := out.FunctionByName("half")
	entry := fn.Layout[0]
	var foundConst bool
	for _, inst := range fn.Insts(entry) {
		if inst.Op == ir.OpIconst {
			foundConst = true
			if inst.Imm != int64(q32.FromFloat32(0.5)) {
				t.Errorf("f32const 0.5 encoded as %d, want %d", inst.Imm, q32.FromFloat32(0.5))
			}
		}
	}
	if !foundConst {
		t.Fatalf("expected an iconst in the transformed entry block")
	}
}
