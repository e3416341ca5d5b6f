package semantic

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ledfx/lpglsl/glsl"
	"github.com/ledfx/lpglsl/gtype"
	"github.com/ledfx/lpglsl/typed"
)

// Analyze runs the front-end's four passes in order (spec.md §4.1) and
// returns a Typed Shader, or the accumulated diagnostics if any pass
// reported an error. errorLimit caps how many diagnostics are collected
// before later ones are silently dropped (0 disables the cap).
func Analyze(mod *glsl.Module, source string, errorLimit int) (*typed.Shader, *GlslDiagnostics) {
	diags := NewDiagnostics(errorLimit)
	shader := typed.NewShader()

	structNames := make(map[string]bool, len(mod.Structs))
	for _, s := range mod.Structs {
		structNames[s.Name] = true
	}
	for _, s := range mod.Structs {
		st := &typed.StructType{Name: s.Name}
		for _, m := range s.Members {
			ft, ok := resolveType(m.Type, structNames, literalInt)
			if !ok {
				diags.Add(ErrUndefinedIdent, m.Span, "unknown type %q for field %q", m.Type.Name, m.Name)
				continue
			}
			st.Fields = append(st.Fields, typed.StructField{Name: m.Name, Type: ft})
		}
		shader.Structs[s.Name] = st
	}

	functionRegistryPass(mod, shader, structNames, diags)
	functionExtractionPass(mod, shader)
	globalConstPass(mod, shader, structNames, diags)

	v := &validator{shader: shader, source: source, diags: diags}
	v.run(mod)

	if diags.HasErrors() {
		return nil, diags
	}
	return shader, nil
}

// functionRegistryPass walks every function declaration, resolves its
// signature, and registers it as an overload (spec.md §4.1 pass 1).
func functionRegistryPass(mod *glsl.Module, shader *typed.Shader, structNames map[string]bool, diags *GlslDiagnostics) {
	for _, fn := range mod.Functions {
		retType, ok := resolveType(fn.ReturnType, structNames, literalInt)
		if !ok {
			diags.Add(ErrUndefinedIdent, fn.Span, "unknown return type %q on function %q", fn.ReturnType.Name, fn.Name)
			continue
		}
		params := make([]typed.Param, 0, len(fn.Params))
		ok = true
		for _, p := range fn.Params {
			pt, resolved := resolveType(p.Type, structNames, literalInt)
			if !resolved {
				diags.Add(ErrUndefinedIdent, p.Span, "unknown parameter type %q", p.Type.Name)
				ok = false
				continue
			}
			params = append(params, typed.Param{Name: p.Name, Type: pt, Qualifier: convertQualifier(p.Qualifier)})
		}
		if !ok {
			continue
		}
		shader.AddFunction(&typed.Function{
			Name:       fn.Name,
			Params:     params,
			ReturnType: retType,
			Body:       fn.Body,
			Span:       fn.Span,
		})
	}
}

func convertQualifier(q glsl.ParamQualifier) typed.Qualifier {
	switch q {
	case glsl.QualifierOut:
		return typed.Out
	case glsl.QualifierInout:
		return typed.Inout
	default:
		return typed.In
	}
}

// functionExtractionPass is a no-op beyond what functionRegistryPass
// already did: the registry pass both resolves signatures and records the
// body, so extraction (spec.md §4.1 pass 2: "collect bodies, yield an
// optional main plus user functions") falls out of Shader.AddFunction's
// bookkeeping. Kept as a named step so the pass order stays explicit and
// callable independently if a future front-end splits the two concerns.
func functionExtractionPass(mod *glsl.Module, shader *typed.Shader) {}

// globalConstPass evaluates every file-scope const in declaration order,
// threading each into the environment before evaluating the next so later
// consts may reference earlier ones (spec.md §4.1 pass 3).
func globalConstPass(mod *glsl.Module, shader *typed.Shader, structNames map[string]bool, diags *GlslDiagnostics) {
	for _, c := range mod.Globals {
		if c.Init == nil {
			diags.Add(ErrConstMissingInit, c.Span, "const %q has no initializer", c.Name)
			continue
		}
		t, ok := resolveType(c.Type, structNames, func(e glsl.Expr) (int, bool) {
			return evalConstInt(e, shader.Consts)
		})
		if !ok {
			diags.Add(ErrUndefinedIdent, c.Span, "unknown type %q for const %q", c.Type.Name, c.Name)
			continue
		}
		val, err := evalConstExpr(c.Init, t, shader.Consts)
		if err != nil {
			diags.Add(ErrAssignTypeMismatch, c.Span, "cannot evaluate const %q: %v", c.Name, err)
			continue
		}
		shader.Consts[c.Name] = val
	}
}

// evalConstInt evaluates a const-integer-valued expression (used for array
// lengths), consulting the already-evaluated const environment.
func evalConstInt(e glsl.Expr, env map[string]typed.ConstValue) (int, bool) {
	val, err := evalConstExpr(e, gtype.Int, env)
	if err != nil || len(val.Components) == 0 {
		return 0, false
	}
	return int(val.Components[0]), true
}

// evalConstExpr evaluates a compile-time constant expression: literals,
// named const references, and scalar arithmetic over them. This is
// intentionally narrow — GLSL constant folding in full generality belongs
// to the lowering pass, not the const-environment bootstrap.
func evalConstExpr(e glsl.Expr, want gtype.Type, env map[string]typed.ConstValue) (typed.ConstValue, error) {
	switch n := e.(type) {
	case *glsl.Literal:
		switch n.Kind {
		case glsl.TokenIntLiteral:
			v, err := strconv.ParseFloat(trimIntSuffix(n.Value), 64)
			if err != nil {
				return typed.ConstValue{}, errors.Wrapf(err, "parsing int literal %q", n.Value)
			}
			return typed.ConstValue{Type: gtype.Int, Components: []float64{v}}, nil
		case glsl.TokenFloatLiteral:
			v, err := strconv.ParseFloat(strings.TrimRight(n.Value, "fF"), 64)
			if err != nil {
				return typed.ConstValue{}, errors.Wrapf(err, "parsing float literal %q", n.Value)
			}
			return typed.ConstValue{Type: gtype.Float, Components: []float64{v}}, nil
		case glsl.TokenTrue, glsl.TokenFalse:
			v := 0.0
			if n.Kind == glsl.TokenTrue {
				v = 1.0
			}
			return typed.ConstValue{Type: gtype.Bool, Components: []float64{v}}, nil
		}
	case *glsl.Ident:
		if v, ok := env[n.Name]; ok {
			return v, nil
		}
		return typed.ConstValue{}, errors.Errorf("undefined const %q", n.Name)
	case *glsl.UnaryExpr:
		v, err := evalConstExpr(n.Operand, want, env)
		if err != nil {
			return typed.ConstValue{}, err
		}
		if n.Op == glsl.TokenMinus {
			out := make([]float64, len(v.Components))
			for i, c := range v.Components {
				out[i] = -c
			}
			return typed.ConstValue{Type: v.Type, Components: out}, nil
		}
		return v, nil
	case *glsl.BinaryExpr:
		left, err := evalConstExpr(n.Left, want, env)
		if err != nil {
			return typed.ConstValue{}, err
		}
		right, err := evalConstExpr(n.Right, want, env)
		if err != nil {
			return typed.ConstValue{}, err
		}
		if len(left.Components) != 1 || len(right.Components) != 1 {
			return typed.ConstValue{}, errors.New("const folding only supports scalar arithmetic")
		}
		a, b := left.Components[0], right.Components[0]
		var r float64
		switch n.Op {
		case glsl.TokenPlus:
			r = a + b
		case glsl.TokenMinus:
			r = a - b
		case glsl.TokenStar:
			r = a * b
		case glsl.TokenSlash:
			if b == 0 {
				return typed.ConstValue{}, errors.New("division by zero in const expression")
			}
			r = a / b
		default:
			return typed.ConstValue{}, errors.Errorf("unsupported const operator %v", n.Op)
		}
		return typed.ConstValue{Type: left.Type, Components: []float64{r}}, nil
	}
	return typed.ConstValue{}, errors.Errorf("expression is not a compile-time constant: %T", e)
}
