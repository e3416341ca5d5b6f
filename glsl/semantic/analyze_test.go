package semantic

import (
	"testing"

	"github.com/ledfx/lpglsl/glsl"
	"github.com/ledfx/lpglsl/typed"
)

func analyzeSource(t *testing.T, source string) (*typed.Shader, *GlslDiagnostics) {
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
	return Analyze(mod, source, 0)
}

func TestAnalyzeSimpleFunction(t *testing.T) {
	src := `
float square(float x) {
    return x * x;
}

void main() {
    float y = square(2.0);
}
`
	_, diags := analyzeSource(t, src)
	if diags != nil && diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.Error())
	}
}

func TestAnalyzeUndefinedFunction(t *testing.T) {
	src := `
void main() {
    float y = doesNotExist(1.0);
}
`
	_, diags := analyzeSource(t, src)
	if diags == nil || !diags.HasErrors() {
		t.Fatalf("expected an undefined-function error")
	}
	if diags.Errors[0].Code != ErrUndefinedFunction {
		t.Errorf("expected %s, got %s", ErrUndefinedFunction, diags.Errors[0].Code)
	}
}

func TestAnalyzeAssignTypeMismatch(t *testing.T) {
	src := `
void main() {
    bool b = 1.0 + 2.0;
}
`
	_, diags := analyzeSource(t, src)
	if diags == nil || !diags.HasErrors() {
		t.Fatalf("expected a type mismatch error")
	}
}

func TestAnalyzeNonBoolCondition(t *testing.T) {
	src := `
void main() {
    if (1.0) {
        float x = 1.0;
    }
}
`
	_, diags := analyzeSource(t, src)
	if diags == nil || !diags.HasErrors() {
		t.Fatalf("expected a non-bool-condition error")
	}
	found := false
	for _, d := range diags.Errors {
		if d.Code == ErrNonBoolCondition {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s among diagnostics, got %v", ErrNonBoolCondition, diags.Errors)
	}
}

func TestAnalyzeSwizzle(t *testing.T) {
	src := `
void main() {
    vec3 v = vec3(1.0, 2.0, 3.0);
    vec3 w = v.xyz;
    float f = v.x;
}
`
	_, diags := analyzeSource(t, src)
	if diags != nil && diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.Error())
	}
}

func TestAnalyzeSwizzleMixedSet(t *testing.T) {
	src := `
void main() {
    vec3 v = vec3(1.0, 2.0, 3.0);
    float f = v.xr;
}
`
	_, diags := analyzeSource(t, src)
	if diags == nil || !diags.HasErrors() {
		t.Fatalf("expected a mixed-swizzle-set error")
	}
}

func TestAnalyzeSwizzleOutOfBounds(t *testing.T) {
	src := `
void main() {
    vec2 v = vec2(1.0, 2.0);
    float f = v.z;
}
`
	_, diags := analyzeSource(t, src)
	if diags == nil || !diags.HasErrors() {
		t.Fatalf("expected a swizzle-component-out-of-bounds error")
	}
}

func TestAnalyzeArrayIndexOutOfBounds(t *testing.T) {
	src := `
void main() {
    float arr[4];
    float x = arr[5];
}
`
	_, diags := analyzeSource(t, src)
	if diags == nil || !diags.HasErrors() {
		t.Fatalf("expected an index-out-of-bounds error")
	}
}

func TestAnalyzeNonIntegerIndex(t *testing.T) {
	src := `
void main() {
    float arr[4];
    float x = arr[1.5];
}
`
	_, diags := analyzeSource(t, src)
	if diags == nil || !diags.HasErrors() {
		t.Fatalf("expected a non-integer-index error")
	}
}

func TestAnalyzeReturnTypeMismatch(t *testing.T) {
	src := `
float f() {
    return true;
}

void main() {
    float x = f();
}
`
	_, diags := analyzeSource(t, src)
	if diags == nil || !diags.HasErrors() {
		t.Fatalf("expected a return-type-mismatch error")
	}
}

func TestAnalyzeGlobalConstChain(t *testing.T) {
	src := `
const float kHalf = 0.5;
const float kOne = kHalf + kHalf;

void main() {
    float x = kOne;
}
`
	_, diags := analyzeSource(t, src)
	if diags != nil && diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.Error())
	}
}

func TestAnalyzeStructFieldAccess(t *testing.T) {
	src := `
struct Light {
    vec3 color;
    float intensity;
};

void main() {
    Light l;
    float i = l.intensity;
}
`
	_, diags := analyzeSource(t, src)
	if diags != nil && diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.Error())
	}
}

func TestAnalyzeOverloadResolution(t *testing.T) {
	src := `
float add(float a, float b) { return a + b; }
vec3 add(vec3 a, vec3 b) { return a + b; }

void main() {
    float x = add(1.0, 2.0);
    vec3 v = add(vec3(1.0, 1.0, 1.0), vec3(2.0, 2.0, 2.0));
}
`
	_, diags := analyzeSource(t, src)
	if diags != nil && diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.Error())
	}
}

func TestAnalyzeLpfxCallArity(t *testing.T) {
	src := `
void main() {
    float h = lpfx_saturate(1.0, 2.0);
}
`
	_, diags := analyzeSource(t, src)
	if diags == nil || !diags.HasErrors() {
		t.Fatalf("expected an lpfx argument-shape error")
	}
}
