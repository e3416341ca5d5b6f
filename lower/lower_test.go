package lower

import (
	"testing"

	"github.com/ledfx/lpglsl/glsl"
	"github.com/ledfx/lpglsl/glsl/semantic"
	"github.com/ledfx/lpglsl/ir"
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

	target := ir.TargetDesc{ISA: ir.ISAHost, PointerWidth: 8, DefaultCC: ir.SystemV}
	irMod, err := Lower(shader, "test", target)
	if err != nil {
		t.Fatalf("lower error: %v", err)
	}
	if errs := ir.Validate(irMod); len(errs) > 0 {
		t.Fatalf("invalid IR: %v", errs)
	}
	return irMod
}

func TestLowerSimpleFunction(t *testing.T) {
	src := `
float square(float x) {
    return x * x;
}
`
	mod := lowerSource(t, src)
	fn, ok := mod.FunctionByName("square")
	if !ok {
		t.Fatalf("expected an IR function named %q", "square")
	}
	if len(fn.Signature.Params) != 1 || fn.Signature.Params[0].Type != ir.F32 {
		t.Fatalf("unexpected params: %+v", fn.Signature.Params)
	}
	if len(fn.Signature.Returns) != 1 || fn.Signature.Returns[0].Type != ir.F32 {
		t.Fatalf("unexpected returns: %+v", fn.Signature.Returns)
	}
}

func TestLowerIfElseMerge(t *testing.T) {
	src := `
float pick(float a, float b, bool c) {
    float r;
    if (c) {
        r = a;
    } else {
        r = b;
    }
    return r;
}
`
	mod := lowerSource(t, src)
	fn, _ := mod.FunctionByName("pick")
	// Layout order is entry, then, else, merge for a two-armed if.
	if len(fn.Layout) != 4 {
		t.Fatalf("expected 4 blocks in layout, got %d", len(fn.Layout))
	}
	mergeBlock := fn.Layout[3]
	if len(fn.BlockParams(mergeBlock)) != 1 {
		t.Fatalf("merge block should carry the phi for r, got %d params", len(fn.BlockParams(mergeBlock)))
	}
}

func TestLowerIfBothArmsReturn(t *testing.T) {
	src := `
float pick(bool c) {
    if (c) {
        return 1.0;
    } else {
        return 2.0;
    }
}
`
	mod := lowerSource(t, src)
	fn, _ := mod.FunctionByName("pick")
	mergeBlock := fn.Layout[3]
	if insts := fn.Insts(mergeBlock); len(insts) != 0 {
		t.Fatalf("merge block following two always-returning arms should stay empty, got %d insts", len(insts))
	}
}

func TestLowerForLoop(t *testing.T) {
	src := `
float sumTo(int n) {
    float total = 0.0;
    for (int i = 0; i < n; i = i + 1) {
        total = total + float(i);
    }
    return total;
}
`
	mod := lowerSource(t, src)
	fn, ok := mod.FunctionByName("sumTo")
	if !ok {
		t.Fatalf("expected an IR function named %q", "sumTo")
	}
	// entry, header, body, cont, exit.
	if len(fn.Layout) != 5 {
		t.Fatalf("expected 5 blocks in layout, got %d", len(fn.Layout))
	}
	for _, b := range fn.Layout {
		if !fn.IsSealed(b) {
			t.Errorf("block %d left unsealed after lowering", b)
		}
	}
}

func TestLowerWhileLoopBreakContinue(t *testing.T) {
	src := `
float firstEven(int n) {
    int i = 0;
    while (i < n) {
        if (i == 3) {
            i = i + 1;
            continue;
        }
        if (i == 7) {
            break;
        }
        i = i + 1;
    }
    return float(i);
}
`
	mod := lowerSource(t, src)
	fn, ok := mod.FunctionByName("firstEven")
	if !ok {
		t.Fatalf("expected an IR function named %q", "firstEven")
	}
	for _, b := range fn.Layout {
		if !fn.IsSealed(b) {
			t.Errorf("block %d left unsealed after lowering", b)
		}
	}
}

func TestLowerDoWhileLoop(t *testing.T) {
	src := `
float countDown(float x) {
    do {
        x = x - 1.0;
    } while (x > 0.0);
    return x;
}
`
	mod := lowerSource(t, src)
	fn, ok := mod.FunctionByName("countDown")
	if !ok {
		t.Fatalf("expected an IR function named %q", "countDown")
	}
	for _, b := range fn.Layout {
		if !fn.IsSealed(b) {
			t.Errorf("block %d left unsealed after lowering", b)
		}
	}
}

func TestLowerVectorConstructAndSwizzle(t *testing.T) {
	src := `
vec3 scale(vec3 v, float s) {
    vec3 scaled = v * s;
    return scaled.xyz;
}
`
	mod := lowerSource(t, src)
	fn, ok := mod.FunctionByName("scale")
	if !ok {
		t.Fatalf("expected an IR function named %q", "scale")
	}
	// vec3 + float flatten to 4 scalar params, and a vec3 return needs a
	// hidden output pointer since it carries more than one component.
	if len(fn.Signature.Params) != 5 {
		t.Fatalf("expected 5 flattened params (3 + 1 + hidden out ptr), got %d: %+v", len(fn.Signature.Params), fn.Signature.Params)
	}
	if len(fn.Signature.Returns) != 0 {
		t.Fatalf("multi-component return should carry no direct Returns entry, got %+v", fn.Signature.Returns)
	}
	if fn.Signature.Params[4].Type != ir.Ptr {
		t.Fatalf("expected trailing hidden Ptr param, got %+v", fn.Signature.Params[4])
	}
}

func TestLowerArrayIndexing(t *testing.T) {
	src := `
float sumFirstTwo(float arr[4]) {
    return arr[0] + arr[1];
}
`
	mod := lowerSource(t, src)
	fn, ok := mod.FunctionByName("sumFirstTwo")
	if !ok {
		t.Fatalf("expected an IR function named %q", "sumFirstTwo")
	}
	if len(fn.Signature.Params) != 1 || fn.Signature.Params[0].Type != ir.Ptr {
		t.Fatalf("array parameter should lower to a single Ptr, got %+v", fn.Signature.Params)
	}
}

func TestLowerStructFieldAccess(t *testing.T) {
	src := `
struct Light {
    vec3 color;
    float intensity;
};

float brightness(Light l) {
    return l.color.x * l.intensity;
}
`
	mod := lowerSource(t, src)
	fn, ok := mod.FunctionByName("brightness")
	if !ok {
		t.Fatalf("expected an IR function named %q", "brightness")
	}
	if len(fn.Signature.Params) != 1 || fn.Signature.Params[0].Type != ir.Ptr {
		t.Fatalf("struct parameter should lower to a single Ptr, got %+v", fn.Signature.Params)
	}
}

func TestLowerOutInoutParams(t *testing.T) {
	src := `
void split(float v, out float whole, out float frac) {
    whole = v;
    frac = v - whole;
}
`
	mod := lowerSource(t, src)
	fn, ok := mod.FunctionByName("split")
	if !ok {
		t.Fatalf("expected an IR function named %q", "split")
	}
	for i, p := range fn.Signature.Params {
		if i == 0 {
			continue
		}
		if p.Type != ir.Ptr {
			t.Errorf("out param %d should lower to Ptr, got %v", i, p.Type)
		}
	}
}

func TestLowerFunctionOverloads(t *testing.T) {
	src := `
float add(float a, float b) { return a + b; }
vec3 add(vec3 a, vec3 b) { return a + b; }

float useAdd() {
    return add(1.0, 2.0);
}
`
	mod := lowerSource(t, src)
	if _, ok := mod.FunctionByName("add"); !ok {
		t.Fatalf("expected the first add overload under its bare name")
	}
	if _, ok := mod.FunctionByName("add$1"); !ok {
		t.Fatalf("expected the second add overload disambiguated as add$1")
	}
}

func TestLowerBuiltinMathCall(t *testing.T) {
	src := `
float wave(float x) {
    return sin(x) * cos(x);
}
`
	mod := lowerSource(t, src)
	found := false
	for _, imp := range mod.Imports() {
		if imp.Name == "__glsl_sin" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an imported __glsl_sin, got %+v", mod.Imports())
	}
}

func TestLowerLpfxMultiResultBuiltinCall(t *testing.T) {
	src := `
vec3 tint(float h, float s, float v) {
    return lpfx_hsv2rgb(vec3(h, s, v));
}
`
	mod := lowerSource(t, src)
	var sig *ir.Signature
	for _, imp := range mod.Imports() {
		if imp.Name == "__lpfx_hsv2rgb" {
			sig = imp.Signature
		}
	}
	if sig == nil {
		t.Fatalf("expected an imported __lpfx_hsv2rgb, got %+v", mod.Imports())
	}
	if len(sig.Returns) != 0 {
		t.Fatalf("a 3-component lpfx result should use the hidden output pointer, got Returns=%+v", sig.Returns)
	}
	if len(sig.Params) == 0 || sig.Params[len(sig.Params)-1].Type != ir.Ptr {
		t.Fatalf("expected a trailing hidden Ptr param, got %+v", sig.Params)
	}
}

func TestLowerTernary(t *testing.T) {
	src := `
float clampPositive(float x) {
    return x > 0.0 ? x : 0.0;
}
`
	mod := lowerSource(t, src)
	if _, ok := mod.FunctionByName("clampPositive"); !ok {
		t.Fatalf("expected an IR function named %q", "clampPositive")
	}
}
