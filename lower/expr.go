package lower

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ledfx/lpglsl/glsl"
	"github.com/ledfx/lpglsl/gtype"
	"github.com/ledfx/lpglsl/ir"
	"github.com/ledfx/lpglsl/typed"
)

var swizzleIndex = map[byte]int{
	'x': 0, 'y': 1, 'z': 2, 'w': 3,
	'r': 0, 'g': 1, 'b': 2, 'a': 3,
	's': 0, 't': 1, 'p': 2, 'q': 3,
}

// lowerExpr evaluates e and returns its flattened component values plus
// its GLSL type. Arrays and structs flatten to a single Ptr value (the
// address of their storage) rather than their contents — see
// lower/types.go's isAggregate — so passing one as a call argument or
// binding it to a new name never copies the whole aggregate.
func (c *Context) lowerExpr(e glsl.Expr) ([]ir.Value, gtype.Type) {
	switch n := e.(type) {
	case *glsl.Literal:
		return c.lowerLiteral(n)
	case *glsl.Ident:
		return c.lowerIdent(n)
	case *glsl.UnaryExpr:
		return c.lowerUnary(n)
	case *glsl.PostfixExpr:
		return c.lowerPostfix(n)
	case *glsl.BinaryExpr:
		return c.lowerBinary(n)
	case *glsl.TernaryExpr:
		return c.lowerTernary(n)
	case *glsl.IndexExpr:
		return c.lowerIndex(n)
	case *glsl.MemberExpr:
		return c.lowerMember(n)
	case *glsl.ConstructExpr:
		return c.lowerConstruct(n)
	case *glsl.CallExpr:
		return c.lowerCall(n)
	}
	panic(errors.Errorf("lower: unhandled expression type %T", e))
}

func (c *Context) lowerLiteral(n *glsl.Literal) ([]ir.Value, gtype.Type) {
	switch n.Kind {
	case glsl.TokenIntLiteral:
		v, err := strconv.ParseInt(trimTrailingU(n.Value), 0, 64)
		if err != nil {
			panic(errors.Wrapf(err, "lower: parsing int literal %q", n.Value))
		}
		if strings.HasSuffix(n.Value, "u") || strings.HasSuffix(n.Value, "U") {
			return []ir.Value{c.constI32(v)}, gtype.UInt
		}
		return []ir.Value{c.constI32(v)}, gtype.Int
	case glsl.TokenFloatLiteral:
		v, err := strconv.ParseFloat(strings.TrimRight(n.Value, "fF"), 32)
		if err != nil {
			panic(errors.Wrapf(err, "lower: parsing float literal %q", n.Value))
		}
		return []ir.Value{c.constF32(float32(v))}, gtype.Float
	case glsl.TokenTrue, glsl.TokenFalse:
		v := int64(0)
		if n.Kind == glsl.TokenTrue {
			v = 1
		}
		return []ir.Value{c.emit(ir.Instruction{Op: ir.OpIconst, Imm: v}, ir.I8)}, gtype.Bool
	}
	panic(errors.Errorf("lower: unhandled literal kind %v", n.Kind))
}

func trimTrailingU(s string) string {
	if len(s) > 0 && (s[len(s)-1] == 'u' || s[len(s)-1] == 'U') {
		return s[:len(s)-1]
	}
	return s
}

func (c *Context) lowerIdent(n *glsl.Ident) ([]ir.Value, gtype.Type) {
	b, ok := c.scope.lookup(n.Name)
	if !ok {
		if cv, ok := c.Shader.Consts[n.Name]; ok {
			return c.lowerConstValue(cv), cv.Type
		}
		panic(errors.Errorf("lower: undefined identifier %q reached lowering", n.Name))
	}
	if b.isPtr {
		return []ir.Value{c.fb.UseVar(c.cur, b.ptr)}, b.gt
	}
	vals := make([]ir.Value, len(b.vars))
	for i, v := range b.vars {
		vals[i] = c.fb.UseVar(c.cur, v)
	}
	return vals, b.gt
}

func (c *Context) lowerConstValue(cv typed.ConstValue) []ir.Value {
	ct := componentType(cv.Type)
	vals := make([]ir.Value, len(cv.Components))
	for i, f := range cv.Components {
		if ct == ir.I32 || ct == ir.I8 {
			vals[i] = c.constI32(int64(f))
		} else {
			vals[i] = c.constF32(float32(f))
		}
	}
	return vals
}

func (c *Context) lowerUnary(n *glsl.UnaryExpr) ([]ir.Value, gtype.Type) {
	switch n.Op {
	case glsl.TokenPlusPlus, glsl.TokenMinusMinus:
		lv := c.lowerLValueExpr(n.Operand)
		cur := c.readLValue(lv)
		next := c.addOne(cur, lv.gt, n.Op == glsl.TokenPlusPlus)
		c.writeLValue(lv, next)
		return next, lv.gt
	}

	operand, gt := c.lowerExpr(n.Operand)
	ct := componentType(gt)
	out := make([]ir.Value, len(operand))
	for i, v := range operand {
		switch n.Op {
		case glsl.TokenMinus:
			if ct == ir.F32 {
				out[i] = c.emit(ir.Instruction{Op: ir.OpFneg, Args: []ir.Value{v}}, ir.F32)
			} else {
				out[i] = c.emit(ir.Instruction{Op: ir.OpIneg, Args: []ir.Value{v}}, ct)
			}
		case glsl.TokenBang:
			out[i] = c.emit(ir.Instruction{Op: ir.OpIcmp, IntCond: ir.IntEqual, Args: []ir.Value{v, c.constI32(0)}}, ir.I8)
		case glsl.TokenTilde:
			out[i] = c.emit(ir.Instruction{Op: ir.OpBnot, Args: []ir.Value{v}}, ct)
		default:
			out[i] = v
		}
	}
	return out, gt
}

func (c *Context) lowerPostfix(n *glsl.PostfixExpr) ([]ir.Value, gtype.Type) {
	lv := c.lowerLValueExpr(n.Operand)
	cur := c.readLValue(lv)
	next := c.addOne(cur, lv.gt, n.Op == glsl.TokenPlusPlus)
	c.writeLValue(lv, next)
	return cur, lv.gt
}

func (c *Context) addOne(vals []ir.Value, gt gtype.Type, inc bool) []ir.Value {
	ct := componentType(gt)
	out := make([]ir.Value, len(vals))
	for i, v := range vals {
		if ct == ir.F32 {
			one := c.constF32(1)
			op := ir.OpFadd
			if !inc {
				op = ir.OpFsub
			}
			out[i] = c.emit(ir.Instruction{Op: op, Args: []ir.Value{v, one}}, ir.F32)
		} else {
			one := c.constI32(1)
			op := ir.OpIadd
			if !inc {
				op = ir.OpIsub
			}
			out[i] = c.emit(ir.Instruction{Op: op, Args: []ir.Value{v, one}}, ct)
		}
	}
	return out
}

func (c *Context) lowerBinary(n *glsl.BinaryExpr) ([]ir.Value, gtype.Type) {
	left, lt := c.lowerExpr(n.Left)
	right, rt := c.lowerExpr(n.Right)

	switch n.Op {
	case glsl.TokenAmpAmp, glsl.TokenPipePipe:
		// GLSL does not guarantee short-circuit evaluation of && / ||
		// (unlike C), so both sides are evaluated eagerly and combined
		// bitwise over their i8 bool representation.
		op := ir.OpBand
		if n.Op == glsl.TokenPipePipe {
			op = ir.OpBor
		}
		return []ir.Value{c.emit(ir.Instruction{Op: op, Args: []ir.Value{left[0], right[0]}}, ir.I8)}, gtype.Bool
	}

	if isComparisonOp(n.Op) {
		return c.lowerComparison(n.Op, left[0], right[0], lt), gtype.Bool
	}

	resultType := lt
	if lt.ComponentCount() < rt.ComponentCount() {
		resultType = rt
	}
	return c.lowerArith(n.Op, left, lt, right, rt), resultType
}

func isComparisonOp(op glsl.TokenKind) bool {
	switch op {
	case glsl.TokenEqualEqual, glsl.TokenNotEqual, glsl.TokenLess, glsl.TokenLessEqual,
		glsl.TokenGreater, glsl.TokenGreaterEqual:
		return true
	}
	return false
}

func (c *Context) lowerComparison(op glsl.TokenKind, l, r ir.Value, t gtype.Type) []ir.Value {
	if componentType(t) == ir.F32 {
		return []ir.Value{c.emit(ir.Instruction{Op: ir.OpFcmp, FloatCond: floatCC(op), Args: []ir.Value{l, r}}, ir.I8)}
	}
	return []ir.Value{c.emit(ir.Instruction{Op: ir.OpIcmp, IntCond: intCC(op, t.Kind() == gtype.KindUInt), Args: []ir.Value{l, r}}, ir.I8)}
}

func floatCC(op glsl.TokenKind) ir.FloatCC {
	switch op {
	case glsl.TokenEqualEqual:
		return ir.FloatEqual
	case glsl.TokenNotEqual:
		return ir.FloatNotEqual
	case glsl.TokenLess:
		return ir.FloatLessThan
	case glsl.TokenLessEqual:
		return ir.FloatLessOrEqual
	case glsl.TokenGreater:
		return ir.FloatGreaterThan
	default:
		return ir.FloatGreaterOrEqual
	}
}

func intCC(op glsl.TokenKind, unsigned bool) ir.IntCC {
	switch op {
	case glsl.TokenEqualEqual:
		return ir.IntEqual
	case glsl.TokenNotEqual:
		return ir.IntNotEqual
	case glsl.TokenLess:
		if unsigned {
			return ir.IntUnsignedLessThan
		}
		return ir.IntSignedLessThan
	case glsl.TokenLessEqual:
		if unsigned {
			return ir.IntUnsignedLessOrEqual
		}
		return ir.IntSignedLessOrEqual
	case glsl.TokenGreater:
		if unsigned {
			return ir.IntUnsignedGreaterThan
		}
		return ir.IntSignedGreaterThan
	default:
		if unsigned {
			return ir.IntUnsignedGreaterOrEqual
		}
		return ir.IntSignedGreaterOrEqual
	}
}

// lowerArith emits a component-wise binary op, broadcasting a scalar
// operand across the other side's component count the way GLSL's
// vector-scalar arithmetic rules require.
func (c *Context) lowerArith(op glsl.TokenKind, left []ir.Value, lt gtype.Type, right []ir.Value, rt gtype.Type) []ir.Value {
	n := len(left)
	if len(right) > n {
		n = len(right)
	}
	ct := componentType(lt)
	if componentType(rt) == ir.F32 {
		ct = ir.F32
	}
	out := make([]ir.Value, n)
	for i := 0; i < n; i++ {
		l := left[i%len(left)]
		r := right[i%len(right)]
		out[i] = c.emit(ir.Instruction{Op: arithOpcode(op, ct), Args: []ir.Value{l, r}}, ct)
	}
	return out
}

func arithOpcode(op glsl.TokenKind, ct ir.Type) ir.Opcode {
	isFloat := ct == ir.F32
	switch op {
	case glsl.TokenPlus:
		if isFloat {
			return ir.OpFadd
		}
		return ir.OpIadd
	case glsl.TokenMinus:
		if isFloat {
			return ir.OpFsub
		}
		return ir.OpIsub
	case glsl.TokenStar:
		if isFloat {
			return ir.OpFmul
		}
		return ir.OpImul
	case glsl.TokenSlash:
		if isFloat {
			return ir.OpFdiv
		}
		return ir.OpSdiv
	case glsl.TokenPercent:
		return ir.OpSrem
	case glsl.TokenAmp:
		return ir.OpBand
	case glsl.TokenPipe:
		return ir.OpBor
	case glsl.TokenCaret:
		return ir.OpBxor
	case glsl.TokenShiftLeft:
		return ir.OpIshl
	case glsl.TokenShiftRight:
		return ir.OpSshr
	default:
		panic(errors.Errorf("lower: unhandled binary operator %v", op))
	}
}

// lowerTernary evaluates cond ? then : els as a proper branch into two
// blocks merging through per-component block parameters, following the
// same Cranelift-canonical if-shape stmt.go's if/else lowering uses,
// since a ternary is an if that must also produce a value.
func (c *Context) lowerTernary(n *glsl.TernaryExpr) ([]ir.Value, gtype.Type) {
	cond, _ := c.lowerExpr(n.Condition)
	condBool := c.emit(ir.Instruction{Op: ir.OpIcmp, IntCond: ir.IntNotEqual, Args: []ir.Value{cond[0], c.constI32(0)}}, ir.I8)

	thenBlock := c.newBlock()
	elseBlock := c.newBlock()
	mergeBlock := c.newBlock()

	c.fb.Brif(c.cur, condBool, thenBlock, nil, elseBlock, nil)
	c.fb.SealBlock(thenBlock)
	c.fb.SealBlock(elseBlock)

	c.cur = thenBlock
	thenVals, gt := c.lowerExpr(n.Then)
	ct := componentType(gt)
	params := make([]ir.Value, len(thenVals))
	for i, ctype := range repeatType(ct, len(thenVals)) {
		params[i] = c.fn.AppendBlockParam(mergeBlock, ctype)
	}
	c.fb.Jump(c.cur, mergeBlock, thenVals)

	c.cur = elseBlock
	elseVals, _ := c.lowerExpr(n.Else)
	c.fb.Jump(c.cur, mergeBlock, elseVals)

	c.fb.SealBlock(mergeBlock)
	c.cur = mergeBlock
	return params, gt
}

func repeatType(t ir.Type, n int) []ir.Type {
	out := make([]ir.Type, n)
	for i := range out {
		out[i] = t
	}
	return out
}

func (c *Context) lowerIndex(n *glsl.IndexExpr) ([]ir.Value, gtype.Type) {
	lv := c.lowerIndexLValue(n)
	return c.readLValue(lv), lv.gt
}

func (c *Context) lowerMember(n *glsl.MemberExpr) ([]ir.Value, gtype.Type) {
	baseVals, baseType := c.lowerExpr(n.Expr)

	if baseType.Kind() == gtype.KindStruct {
		st := c.Shader.Structs[baseType.StructName()]
		ft, _ := st.FieldType(n.Member)
		off := structFieldOffset(st, n.Member)
		return c.loadAt(baseVals[0], off, ft), ft
	}

	// Swizzle: select flattened components directly from the base vector's
	// already-evaluated SSA values, no memory access needed.
	out := make([]ir.Value, len(n.Member))
	for i := 0; i < len(n.Member); i++ {
		idx := swizzleIndex[n.Member[i]]
		out[i] = baseVals[idx]
	}
	if len(out) == 1 {
		return out, baseType.VectorBaseType()
	}
	return out, buildVectorOfKind(baseType, len(out))
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

// structFieldOffset returns a field's word offset within its struct's
// flattened, in-declaration-order layout.
func structFieldOffset(st *typed.StructType, name string) int {
	off := 0
	for _, f := range st.Fields {
		if f.Name == name {
			return off
		}
		off += f.Type.ComponentCount()
	}
	return off
}

func (c *Context) lowerConstruct(n *glsl.ConstructExpr) ([]ir.Value, gtype.Type) {
	gt, ok := resolveLowerType(n.Type, c.Shader)
	if !ok {
		panic(errors.Errorf("lower: unresolvable constructor type %q", n.Type.Name))
	}
	want := gt.ComponentCount()
	ct := componentType(gt)

	var flat []ir.Value
	for _, a := range n.Args {
		vals, at := c.lowerExpr(a)
		flat = append(flat, c.convertComponents(vals, componentType(at), ct)...)
	}

	if len(flat) == 1 && want > 1 {
		// Single-scalar constructor: broadcast (vecN(x)) or build a
		// diagonal matrix (matN(x)).
		if gt.IsMatrix() {
			return c.buildDiagonalMatrix(flat[0], gt), gt
		}
		out := make([]ir.Value, want)
		for i := range out {
			out[i] = flat[0]
		}
		return out, gt
	}

	if len(flat) > want {
		flat = flat[:want]
	}
	return flat, gt
}

func (c *Context) buildDiagonalMatrix(diag ir.Value, gt gtype.Type) []ir.Value {
	cols, rows := gt.MatrixDims()
	zero := c.constF32(0)
	out := make([]ir.Value, cols*rows)
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			if col == row {
				out[col*rows+row] = diag
			} else {
				out[col*rows+row] = zero
			}
		}
	}
	return out
}

// convertComponents inserts widen/narrow/numeric-convert instructions so
// args with a different component type than the target (e.g. passing an
// int into a vec3(...) constructor, or a GLSL int()/float() constructor)
// land on the right IR type and value. int<->float goes through
// OpFcvtFromSint/OpFcvtToSint, which change the represented number;
// OpBitcast is reserved for same-bits reinterpretation, which GLSL's
// constructors never need.
func (c *Context) convertComponents(vals []ir.Value, from, to ir.Type) []ir.Value {
	if from == to {
		return vals
	}
	out := make([]ir.Value, len(vals))
	for i, v := range vals {
		switch {
		case from == ir.I32 && to == ir.F32:
			out[i] = c.emit(ir.Instruction{Op: ir.OpFcvtFromSint, Args: []ir.Value{v}}, ir.F32)
		case from == ir.F32 && to == ir.I32:
			out[i] = c.emit(ir.Instruction{Op: ir.OpFcvtToSint, Args: []ir.Value{v}}, ir.I32)
		case from == ir.I8 && to == ir.I32:
			out[i] = c.emit(ir.Instruction{Op: ir.OpUextend, Args: []ir.Value{v}}, ir.I32)
		case from == ir.I32 && to == ir.I8:
			out[i] = c.emit(ir.Instruction{Op: ir.OpIreduce, Args: []ir.Value{v}}, ir.I8)
		case from == ir.I8 && to == ir.F32:
			wide := c.emit(ir.Instruction{Op: ir.OpUextend, Args: []ir.Value{v}}, ir.I32)
			out[i] = c.emit(ir.Instruction{Op: ir.OpFcvtFromSint, Args: []ir.Value{wide}}, ir.F32)
		case from == ir.F32 && to == ir.I8:
			narrow := c.emit(ir.Instruction{Op: ir.OpFcvtToSint, Args: []ir.Value{v}}, ir.I32)
			out[i] = c.emit(ir.Instruction{Op: ir.OpIreduce, Args: []ir.Value{narrow}}, ir.I8)
		default:
			out[i] = v
		}
	}
	return out
}

func (c *Context) lowerCall(n *glsl.CallExpr) ([]ir.Value, gtype.Type) {
	var argVals []ir.Value
	var argTypes []gtype.Type
	for _, a := range n.Args {
		vals, t := c.lowerExpr(a)
		argVals = append(argVals, vals...)
		argTypes = append(argTypes, t)
	}

	name := n.Func.Name
	if isBuiltinCallName(name) {
		firstComponents := 1
		if len(argTypes) > 0 {
			firstComponents = argTypes[0].ComponentCount()
			if firstComponents == 0 {
				firstComponents = 1
			}
		}
		resultN := builtinResultShape(name, firstComponents)
		resultType := argTypes[0]
		if rt, ok := lpfxReturnType[name]; ok {
			resultType = rt
		} else if resultN == 1 {
			resultType = gtype.Float
		}
		sig := c.builtinSignature(len(argVals), resultN)
		c.Module.DeclareImport(builtinCallee(name), sig)
		return c.emitCallWithResults(builtinCallee(name), argVals, resultN, ir.F32), resultType
	}

	fn, ok := c.Shader.Registry.Lookup(name, argTypes)
	if !ok {
		panic(errors.Errorf("lower: call to undeclared function %q reached lowering", name))
	}
	irName := c.names.irName[fn]
	resultN := fn.ReturnType.ComponentCount()
	if resultN == 0 && !fn.ReturnType.IsVoid() {
		resultN = 1
	}
	return c.emitCallWithResults(irName, argVals, resultN, componentType(fn.ReturnType)), fn.ReturnType
}

// builtinSignature declares a flat-F32-args, hidden-output-pointer-when-
// multi-result signature for an imported builtin, matching the convention
// declareFunctionSignature uses for user functions (lower.go) so both
// kinds of callee share one calling convention.
func (c *Context) builtinSignature(argc, resultN int) *ir.Signature {
	sig := &ir.Signature{CallConv: ir.SystemV}
	for i := 0; i < argc; i++ {
		sig.Params = append(sig.Params, ir.AbiParam{Type: ir.F32})
	}
	switch {
	case resultN <= 1:
		if resultN == 1 {
			sig.Returns = append(sig.Returns, ir.AbiParam{Type: ir.F32})
		}
	default:
		sig.Params = append(sig.Params, ir.AbiParam{Type: ir.Ptr})
	}
	return sig
}

// emitCallWithResults calls callee and returns its flattened result. A
// single-component result comes back directly as the call instruction's
// Result; a multi-component result is written by the callee through a
// hidden output-pointer argument this function appends, since ir.Instruction
// has only one Result field and can't carry several SSA values itself
// (spec.md §4.2's struct/vector-return convention).
func (c *Context) emitCallWithResults(callee string, args []ir.Value, resultN int, ct ir.Type) []ir.Value {
	switch {
	case resultN == 0:
		c.fn.PushInst(c.cur, ir.Instruction{Op: ir.OpCall, Callee: callee, Args: args}, ir.TypeInvalid)
		return nil
	case resultN == 1:
		inst := c.fn.PushInst(c.cur, ir.Instruction{Op: ir.OpCall, Callee: callee, Args: args}, ct)
		return []ir.Value{inst.Result}
	default:
		outAddr := c.tempSlot(resultN)
		fullArgs := append(append([]ir.Value(nil), args...), outAddr)
		c.fn.PushInst(c.cur, ir.Instruction{Op: ir.OpCall, Callee: callee, Args: fullArgs}, ir.TypeInvalid)
		out := make([]ir.Value, resultN)
		for i := range out {
			out[i] = c.load(outAddr, int32(i*wordSize), ct)
		}
		return out
	}
}
