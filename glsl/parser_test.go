package glsl

import "testing"

func parseSource(t *testing.T, source string) *Module {
	t.Helper()
	lexer := NewLexer(source)
	tokens, lexErr := lexer.Tokenize()
	if lexErr != nil {
		t.Fatalf("lexer error: %v", lexErr)
	}
	parser := NewParser(tokens, source)
	module, err := parser.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return module
}

func tryParseSource(t *testing.T, source string) (*Module, error) {
	t.Helper()
	lexer := NewLexer(source)
	tokens, lexErr := lexer.Tokenize()
	if lexErr != nil {
		return nil, lexErr
	}
	parser := NewParser(tokens, source)
	return parser.Parse()
}

func TestParseSimpleFunction(t *testing.T) {
	source := `
vec4 main(vec3 pos) {
    return vec4(pos, 1.0);
}`
	module := parseSource(t, source)
	if len(module.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(module.Functions))
	}
	fn := module.Functions[0]
	if fn.Name != "main" {
		t.Errorf("expected function name 'main', got %q", fn.Name)
	}
	if fn.ReturnType.Name != "vec4" {
		t.Errorf("expected return type vec4, got %q", fn.ReturnType.Name)
	}
	if len(fn.Params) != 1 || fn.Params[0].Name != "pos" || fn.Params[0].Type.Name != "vec3" {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fn.Body.Statements))
	}
	ret, ok := fn.Body.Statements[0].(*ReturnStmt)
	if !ok {
		t.Fatalf("expected ReturnStmt, got %T", fn.Body.Statements[0])
	}
	call, ok := ret.Value.(*ConstructExpr)
	if !ok || call.Type.Name != "vec4" || len(call.Args) != 2 {
		t.Fatalf("expected vec4 construct with 2 args, got %+v", ret.Value)
	}
}

func TestParseParamQualifiers(t *testing.T) {
	source := `
void scale(inout vec3 v, in float k, out float result) {
    v = v * k;
    result = k;
}`
	module := parseSource(t, source)
	fn := module.Functions[0]
	if len(fn.Params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(fn.Params))
	}
	if fn.Params[0].Qualifier != QualifierInout {
		t.Errorf("param 0: expected inout, got %v", fn.Params[0].Qualifier)
	}
	if fn.Params[1].Qualifier != QualifierIn {
		t.Errorf("param 1: expected in, got %v", fn.Params[1].Qualifier)
	}
	if fn.Params[2].Qualifier != QualifierOut {
		t.Errorf("param 2: expected out, got %v", fn.Params[2].Qualifier)
	}
}

func TestParseIfElse(t *testing.T) {
	source := `
float pick(bool c, float a, float b) {
    if (c) {
        return a;
    } else {
        return b;
    }
}`
	module := parseSource(t, source)
	fn := module.Functions[0]
	ifStmt, ok := fn.Body.Statements[0].(*IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", fn.Body.Statements[0])
	}
	if ifStmt.Else == nil {
		t.Fatal("expected else branch")
	}
	if _, ok := ifStmt.Else.(*BlockStmt); !ok {
		t.Fatalf("expected else block, got %T", ifStmt.Else)
	}
}

func TestParseForLoop(t *testing.T) {
	source := `
float sum(float n) {
    float total = 0.0;
    for (int i = 0; i < 10; i++) {
        total += float(i);
    }
    return total;
}`
	module := parseSource(t, source)
	fn := module.Functions[0]
	forStmt, ok := fn.Body.Statements[1].(*ForStmt)
	if !ok {
		t.Fatalf("expected ForStmt, got %T", fn.Body.Statements[1])
	}
	if forStmt.Init == nil || forStmt.Condition == nil || forStmt.Update == nil {
		t.Fatal("expected init, condition, and update to all be present")
	}
	if _, ok := forStmt.Update.(*ExprStmt); !ok {
		t.Fatalf("expected update to be an ExprStmt wrapping i++, got %T", forStmt.Update)
	}
}

func TestParseWhileAndDoWhile(t *testing.T) {
	source := `
void loops() {
    int i = 0;
    while (i < 5) {
        i++;
    }
    do {
        i--;
    } while (i > 0);
}`
	module := parseSource(t, source)
	fn := module.Functions[0]
	if _, ok := fn.Body.Statements[1].(*WhileStmt); !ok {
		t.Fatalf("expected WhileStmt, got %T", fn.Body.Statements[1])
	}
	if _, ok := fn.Body.Statements[2].(*DoWhileStmt); !ok {
		t.Fatalf("expected DoWhileStmt, got %T", fn.Body.Statements[2])
	}
}

func TestParseSwizzleAndIndex(t *testing.T) {
	source := `
float firstRed(vec4 c, float arr[4]) {
    return c.rgb.r + arr[0];
}`
	module := parseSource(t, source)
	fn := module.Functions[0]
	if len(fn.Params) != 2 || fn.Params[1].Type.ArrayLen == nil {
		t.Fatalf("expected second param to be a sized array, got %+v", fn.Params)
	}
	ret := fn.Body.Statements[0].(*ReturnStmt)
	bin, ok := ret.Value.(*BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", ret.Value)
	}
	swizzle, ok := bin.Left.(*MemberExpr)
	if !ok || swizzle.Member != "r" {
		t.Fatalf("expected .r swizzle, got %+v", bin.Left)
	}
	inner, ok := swizzle.Expr.(*MemberExpr)
	if !ok || inner.Member != "rgb" {
		t.Fatalf("expected inner .rgb swizzle, got %+v", swizzle.Expr)
	}
	if _, ok := bin.Right.(*IndexExpr); !ok {
		t.Fatalf("expected IndexExpr, got %T", bin.Right)
	}
}

func TestParseTernary(t *testing.T) {
	source := `
float clampish(float x) {
    return x > 1.0 ? 1.0 : x;
}`
	module := parseSource(t, source)
	ret := module.Functions[0].Body.Statements[0].(*ReturnStmt)
	if _, ok := ret.Value.(*TernaryExpr); !ok {
		t.Fatalf("expected TernaryExpr, got %T", ret.Value)
	}
}

func TestParseStructDecl(t *testing.T) {
	source := `
struct Light {
    vec3 position;
    float intensity;
};`
	module := parseSource(t, source)
	if len(module.Structs) != 1 {
		t.Fatalf("expected 1 struct, got %d", len(module.Structs))
	}
	s := module.Structs[0]
	if s.Name != "Light" || len(s.Members) != 2 {
		t.Fatalf("unexpected struct: %+v", s)
	}
	if s.Members[0].Name != "position" || s.Members[0].Type.Name != "vec3" {
		t.Errorf("unexpected member 0: %+v", s.Members[0])
	}
}

func TestParseStructTypedLocal(t *testing.T) {
	source := `
struct Light {
    vec3 position;
    float intensity;
};

void main() {
    Light l;
    float i = l.intensity;
}`
	module := parseSource(t, source)
	if len(module.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(module.Functions))
	}
	body := module.Functions[0].Body.Statements
	if len(body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(body))
	}
	decl, ok := body[0].(*VarDecl)
	if !ok {
		t.Fatalf("expected first statement to be a VarDecl, got %T", body[0])
	}
	if decl.Name != "l" || decl.Type.Name != "Light" {
		t.Errorf("unexpected local decl: %+v", decl)
	}
}

func TestParseGlobalConst(t *testing.T) {
	source := `const float PI = 3.14159;`
	module := parseSource(t, source)
	if len(module.Globals) != 1 || module.Globals[0].Name != "PI" {
		t.Fatalf("unexpected globals: %+v", module.Globals)
	}
}

func TestParseErrorRecovery(t *testing.T) {
	source := `
void broken( {
}
const float PI = 3.0;`
	_, err := tryParseSource(t, source)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if _, ok := err.(SourceErrors); !ok {
		t.Fatalf("expected SourceErrors, got %T", err)
	}
}
