package semantic

import (
	"strconv"

	"github.com/ledfx/lpglsl/glsl"
	"github.com/ledfx/lpglsl/gtype"
	"github.com/ledfx/lpglsl/typed"
)

// scope is one nested block's variable-name -> type map, chained to its
// parent so inner blocks shadow outer declarations.
type scope struct {
	parent *scope
	vars   map[string]gtype.Type
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]gtype.Type)}
}

func (s *scope) declare(name string, t gtype.Type) { s.vars[name] = t }

func (s *scope) lookup(name string) (gtype.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return gtype.Type{}, false
}

// validator walks the typed shader's bodies, resolving identifiers and
// checking every expression, statement, and call against GLSL's operator
// and conversion rules (spec.md §4.1 pass 4).
type validator struct {
	shader    *typed.Shader
	source    string
	diags     *GlslDiagnostics
	curFn     *typed.Function
	loopDepth int
}

func (v *validator) run(mod *glsl.Module) {
	for _, fn := range v.shader.Functions {
		v.curFn = fn
		top := newScope(nil)
		for _, p := range fn.Params {
			top.declare(p.Name, p.Type)
		}
		v.block(fn.Body, top)
	}
}

func (v *validator) block(b *glsl.BlockStmt, parent *scope) {
	s := newScope(parent)
	for _, stmt := range b.Statements {
		v.stmt(stmt, s)
	}
}

func (v *validator) stmt(stmt glsl.Stmt, s *scope) {
	switch n := stmt.(type) {
	case *glsl.VarDecl:
		declType, ok := v.resolveLocalType(n.Type)
		if !ok {
			v.diags.Add(ErrUndefinedIdent, n.Span, "unknown type %q", n.Type.Name)
			return
		}
		if n.Init != nil {
			initType, ok := v.expr(n.Init, s)
			if ok && !assignConvertible(initType, declType) {
				v.diags.Add(ErrAssignTypeMismatch, n.Span, "cannot initialize %q of type %s with %s", n.Name, declType, initType)
			}
		}
		s.declare(n.Name, declType)
	case *glsl.BlockStmt:
		v.block(n, s)
	case *glsl.IfStmt:
		condType, ok := v.expr(n.Condition, s)
		if ok && !condType.Equal(gtype.Bool) {
			v.diags.Add(ErrNonBoolCondition, n.Span, "if condition must be bool, got %s", condType)
		}
		v.block(n.Body, s)
		if n.Else != nil {
			v.stmt(n.Else, s)
		}
	case *glsl.ForStmt:
		inner := newScope(s)
		if n.Init != nil {
			v.stmt(n.Init, inner)
		}
		if n.Condition != nil {
			condType, ok := v.expr(n.Condition, inner)
			if ok && !condType.Equal(gtype.Bool) {
				v.diags.Add(ErrNonBoolCondition, n.Span, "for condition must be bool, got %s", condType)
			}
		}
		if n.Update != nil {
			v.stmt(n.Update, inner)
		}
		v.loopDepth++
		v.block(n.Body, inner)
		v.loopDepth--
	case *glsl.WhileStmt:
		condType, ok := v.expr(n.Condition, s)
		if ok && !condType.Equal(gtype.Bool) {
			v.diags.Add(ErrNonBoolCondition, n.Span, "while condition must be bool, got %s", condType)
		}
		v.loopDepth++
		v.block(n.Body, s)
		v.loopDepth--
	case *glsl.DoWhileStmt:
		v.loopDepth++
		v.block(n.Body, s)
		v.loopDepth--
		condType, ok := v.expr(n.Condition, s)
		if ok && !condType.Equal(gtype.Bool) {
			v.diags.Add(ErrNonBoolCondition, n.Span, "do-while condition must be bool, got %s", condType)
		}
	case *glsl.ReturnStmt:
		if n.Value == nil {
			if !v.curFn.ReturnType.IsVoid() {
				v.diags.Add(ErrReturnTypeMismatch, n.Span, "missing return value for function returning %s", v.curFn.ReturnType)
			}
			return
		}
		valType, ok := v.expr(n.Value, s)
		if ok && !assignConvertible(valType, v.curFn.ReturnType) {
			v.diags.Add(ErrReturnTypeMismatch, n.Span, "cannot return %s from function returning %s", valType, v.curFn.ReturnType)
		}
	case *glsl.BreakStmt, *glsl.ContinueStmt:
		// loopDepth is not consulted: a break or continue outside any
		// loop is accepted here, and the parser does not reject one
		// either.
	case *glsl.AssignStmt:
		lhsType, lhsOK := v.expr(n.Left, s)
		rhsType, rhsOK := v.expr(n.Right, s)
		if lhsOK && rhsOK && !assignConvertible(rhsType, lhsType) {
			v.diags.Add(ErrAssignTypeMismatch, n.Span, "cannot assign %s to %s", rhsType, lhsType)
		}
	case *glsl.ExprStmt:
		v.expr(n.Expr, s)
	}
}

// assignConvertible is ConvertibleTo without the bool<->numeric
// conversions, which GLSL only performs through a constructor.
func assignConvertible(from, to gtype.Type) bool {
	fb := from.Kind() == gtype.KindBool || from.Kind() == gtype.KindBVec
	tb := to.Kind() == gtype.KindBool || to.Kind() == gtype.KindBVec
	if fb != tb {
		return false
	}
	return from.ConvertibleTo(to)
}

func (v *validator) resolveLocalType(t *glsl.Type) (gtype.Type, bool) {
	structNames := make(map[string]bool, len(v.shader.Structs))
	for name := range v.shader.Structs {
		structNames[name] = true
	}
	return resolveType(t, structNames, func(e glsl.Expr) (int, bool) {
		return evalConstInt(e, v.shader.Consts)
	})
}

// expr type-checks e and returns its resolved type; ok is false when an
// error was already reported and the type can't be trusted by the caller.
func (v *validator) expr(e glsl.Expr, s *scope) (gtype.Type, bool) {
	switch n := e.(type) {
	case *glsl.Literal:
		switch n.Kind {
		case glsl.TokenIntLiteral:
			return gtype.Int, true
		case glsl.TokenFloatLiteral:
			return gtype.Float, true
		case glsl.TokenTrue, glsl.TokenFalse:
			return gtype.Bool, true
		}
	case *glsl.Ident:
		if t, ok := s.lookup(n.Name); ok {
			return t, true
		}
		if cv, ok := v.shader.Consts[n.Name]; ok {
			return cv.Type, true
		}
		v.diags.Add(ErrUndefinedIdent, n.Span, "undefined identifier %q", n.Name)
		return gtype.Type{}, false
	case *glsl.UnaryExpr:
		return v.expr(n.Operand, s)
	case *glsl.PostfixExpr:
		return v.expr(n.Operand, s)
	case *glsl.BinaryExpr:
		lt, lok := v.expr(n.Left, s)
		rt, rok := v.expr(n.Right, s)
		if !lok || !rok {
			return gtype.Type{}, false
		}
		return v.binaryResultType(n, lt, rt)
	case *glsl.TernaryExpr:
		condType, ok := v.expr(n.Condition, s)
		if ok && !condType.Equal(gtype.Bool) {
			v.diags.Add(ErrNonBoolCondition, n.Span, "ternary condition must be bool, got %s", condType)
		}
		thenType, tok := v.expr(n.Then, s)
		_, eok := v.expr(n.Else, s)
		if tok && eok {
			return thenType, true
		}
		return gtype.Type{}, false
	case *glsl.IndexExpr:
		baseType, ok := v.expr(n.Expr, s)
		if !ok {
			return gtype.Type{}, false
		}
		idxType, idxOK := v.expr(n.Index, s)
		if idxOK && !idxType.IsIntegral() {
			v.diags.Add(ErrNonIntegerIndex, n.Span, "array index must be an integer, got %s", idxType)
		}
		if lit, ok := n.Index.(*glsl.Literal); ok && lit.Kind == glsl.TokenIntLiteral && baseType.IsArray() {
			if idx, err := parseIntLiteral(lit.Value); err == nil {
				if idx < 0 || idx >= baseType.ArrayDimensions() {
					v.diags.Add(ErrIndexOutOfBounds, n.Span, "index %d out of bounds for array of length %d", idx, baseType.ArrayDimensions())
				}
			}
		}
		switch {
		case baseType.IsArray():
			return baseType.ArrayElementType(), true
		case baseType.IsVector():
			return baseType.VectorBaseType(), true
		case baseType.IsMatrix():
			return baseType.MatrixColumnType(), true
		default:
			v.diags.Add(ErrNonIntegerIndex, n.Span, "cannot index type %s", baseType)
			return gtype.Type{}, false
		}
	case *glsl.MemberExpr:
		return v.memberExpr(n, s)
	case *glsl.ConstructExpr:
		for _, a := range n.Args {
			v.expr(a, s)
		}
		return v.resolveLocalType(n.Type)
	case *glsl.CallExpr:
		return v.callExpr(n, s)
	}
	return gtype.Type{}, false
}

func (v *validator) binaryResultType(n *glsl.BinaryExpr, lt, rt gtype.Type) (gtype.Type, bool) {
	switch n.Op {
	case glsl.TokenAmpAmp, glsl.TokenPipePipe:
		return gtype.Bool, true
	case glsl.TokenEqualEqual, glsl.TokenNotEqual, glsl.TokenLess, glsl.TokenLessEqual, glsl.TokenGreater, glsl.TokenGreaterEqual:
		if !lt.ConvertibleTo(rt) && !rt.ConvertibleTo(lt) {
			v.diags.Add(ErrAssignTypeMismatch, n.Span, "cannot compare %s with %s", lt, rt)
		}
		return gtype.Bool, true
	default:
		if lt.Equal(rt) {
			return lt, true
		}
		if lt.ConvertibleTo(rt) {
			return rt, true
		}
		if rt.ConvertibleTo(lt) {
			return lt, true
		}
		if lt.IsVector() && rt.IsScalar() && rt.ConvertibleTo(lt.VectorBaseType()) {
			return lt, true
		}
		if rt.IsVector() && lt.IsScalar() && lt.ConvertibleTo(rt.VectorBaseType()) {
			return rt, true
		}
		v.diags.Add(ErrAssignTypeMismatch, n.Span, "incompatible operand types %s and %s", lt, rt)
		return gtype.Type{}, false
	}
}

var swizzleSets = [][]byte{[]byte("xyzw"), []byte("rgba"), []byte("stpq")}

func (v *validator) memberExpr(n *glsl.MemberExpr, s *scope) (gtype.Type, bool) {
	baseType, ok := v.expr(n.Expr, s)
	if !ok {
		return gtype.Type{}, false
	}
	if baseType.Kind() == gtype.KindStruct {
		st, ok := v.shader.Structs[baseType.StructName()]
		if !ok {
			v.diags.Add(ErrUndefinedIdent, n.Span, "unknown struct type %s", baseType)
			return gtype.Type{}, false
		}
		ft, ok := st.FieldType(n.Member)
		if !ok {
			v.diags.Add(ErrUndefinedIdent, n.Span, "struct %s has no field %q", baseType, n.Member)
			return gtype.Type{}, false
		}
		return ft, true
	}
	if !baseType.IsVector() {
		v.diags.Add(ErrSwizzleOnNonVector, n.Span, "cannot swizzle non-vector type %s", baseType)
		return gtype.Type{}, false
	}
	if len(n.Member) == 0 || len(n.Member) > 4 {
		v.diags.Add(ErrSwizzleTooLong, n.Span, "swizzle %q must be 1-4 components", n.Member)
		return gtype.Type{}, false
	}
	var set []byte
	for _, candidate := range swizzleSets {
		if indexOf(candidate, n.Member[0]) >= 0 {
			set = candidate
			break
		}
	}
	if set == nil {
		v.diags.Add(ErrSwizzleComponentOOB, n.Span, "invalid swizzle component in %q", n.Member)
		return gtype.Type{}, false
	}
	size := baseType.ComponentCount()
	for i := 0; i < len(n.Member); i++ {
		idx := indexOf(set, n.Member[i])
		if idx < 0 {
			v.diags.Add(ErrSwizzleMixedSet, n.Span, "swizzle %q mixes component naming sets", n.Member)
			return gtype.Type{}, false
		}
		if idx >= size {
			v.diags.Add(ErrSwizzleComponentOOB, n.Span, "swizzle component %q out of range for %s", string(n.Member[i]), baseType)
			return gtype.Type{}, false
		}
	}
	if len(n.Member) == 1 {
		return baseType.VectorBaseType(), true
	}
	return buildVectorOfKind(baseType, len(n.Member)), true
}

func buildVectorOfKind(base gtype.Type, size int) gtype.Type {
	switch base.Kind() {
	case gtype.KindIVec:
		return gtype.IVec(size)
	case gtype.KindUVec:
		return gtype.UVec(size)
	case gtype.KindBVec:
		return gtype.BVec(size)
	default:
		return gtype.Vec(size)
	}
}

func indexOf(set []byte, c byte) int {
	for i, b := range set {
		if b == c {
			return i
		}
	}
	return -1
}

func (v *validator) callExpr(n *glsl.CallExpr, s *scope) (gtype.Type, bool) {
	argTypes := make([]gtype.Type, 0, len(n.Args))
	allOK := true
	for _, a := range n.Args {
		t, ok := v.expr(a, s)
		if !ok {
			allOK = false
			continue
		}
		argTypes = append(argTypes, t)
	}
	if !allOK {
		return gtype.Type{}, false
	}

	if isInlineBuiltin(n.Func.Name) || isExternMathBuiltin(n.Func.Name) {
		b := mathBuiltins[n.Func.Name]
		if len(argTypes) != b.argc {
			v.diags.Add(ErrArgumentShapeMismatch, n.Span, "builtin %q expects %d argument(s), got %d", n.Func.Name, b.argc, len(argTypes))
			return gtype.Type{}, false
		}
		if !builtinArgsShapeOK(argTypes) {
			v.diags.Add(ErrArgumentShapeMismatch, n.Span, "builtin %q: argument shapes don't agree", n.Func.Name)
			return gtype.Type{}, false
		}
		return builtinResultType(n.Func.Name, argTypes), true
	}

	if len(n.Func.Name) > 5 && n.Func.Name[:5] == "lpfx_" {
		sig, ok := lookupLpfxSignature(n.Func.Name)
		if !ok {
			v.diags.Add(ErrUndefinedFunction, n.Span, "unknown lpfx builtin %q", n.Func.Name)
			return gtype.Type{}, false
		}
		if !shapeCompatible(sig.Params, argTypes) {
			v.diags.Add(ErrArgumentShapeMismatch, n.Span, "lpfx call %q: argument shapes do not match %s", n.Func.Name, sig)
			return gtype.Type{}, false
		}
		return sig.Return, true
	}

	fn, ok := v.shader.Registry.Lookup(n.Func.Name, argTypes)
	if !ok {
		if len(v.shader.Registry.Overloads(n.Func.Name)) > 0 {
			v.diags.Add(ErrArgumentShapeMismatch, n.Span, "no overload of %q matches argument types", n.Func.Name)
		} else {
			v.diags.Add(ErrUndefinedFunction, n.Span, "undefined function %q", n.Func.Name)
		}
		return gtype.Type{}, false
	}
	return fn.ReturnType, true
}

// shapeCompatible reports whether each argument type is convertible to
// the corresponding formal parameter type (used for lpfx arity/shape
// checks, which don't go through full overload resolution).
func shapeCompatible(params, args []gtype.Type) bool {
	if len(params) != len(args) {
		return false
	}
	for i, p := range params {
		if !args[i].ConvertibleTo(p) {
			return false
		}
	}
	return true
}

func parseIntLiteral(s string) (int, error) {
	return strconv.Atoi(trimIntSuffix(s))
}
