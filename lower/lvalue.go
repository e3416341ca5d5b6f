package lower

import (
	"github.com/pkg/errors"

	"github.com/ledfx/lpglsl/glsl"
	"github.com/ledfx/lpglsl/gtype"
	"github.com/ledfx/lpglsl/ir"
)

// lvalue is an assignable expression target. A plain variable write goes
// through varBase/varOffset directly into its SSA variables; everything
// else (array elements, struct fields, matrix columns reached through a
// pointer-backed binding) goes through addr, a byte address.
type lvalue struct {
	gt gtype.Type

	varBase *binding
	swizzle []int // component indices into varBase.vars, nil for a whole-variable target

	addr ir.Value // Ptr-typed; valid when varBase == nil
}

func (c *Context) lowerLValueExpr(e glsl.Expr) *lvalue {
	switch n := e.(type) {
	case *glsl.Ident:
		b, ok := c.scope.lookup(n.Name)
		if !ok {
			panic(errors.Errorf("lower: assignment to undeclared identifier %q", n.Name))
		}
		if b.isPtr {
			return &lvalue{gt: b.gt, addr: c.fb.UseVar(c.cur, b.ptr)}
		}
		return &lvalue{gt: b.gt, varBase: b}

	case *glsl.MemberExpr:
		return c.lowerMemberLValue(n)

	case *glsl.IndexExpr:
		return c.lowerIndexLValue(n)
	}
	panic(errors.Errorf("lower: expression %T is not assignable", e))
}

func (c *Context) lowerMemberLValue(n *glsl.MemberExpr) *lvalue {
	base := c.lowerLValueExpr(n.Expr)

	if base.gt.Kind() == gtype.KindStruct {
		st := c.Shader.Structs[base.gt.StructName()]
		ft, _ := st.FieldType(n.Member)
		off := structFieldOffset(st, n.Member)
		return &lvalue{gt: ft, addr: c.addrAdd(base.addr, int32(off*wordSize))}
	}

	// Swizzle write: the base is a plain vector variable, so the target is
	// a subset of its SSA variable slots, not an address.
	if base.varBase == nil {
		panic(errors.New("lower: swizzle write onto a non-variable vector"))
	}
	out := make([]int, len(n.Member))
	for i := 0; i < len(n.Member); i++ {
		out[i] = swizzleIndex[n.Member[i]]
	}
	return &lvalue{gt: base.gt, varBase: base.varBase, swizzle: out}
}

func (c *Context) lowerIndexLValue(n *glsl.IndexExpr) *lvalue {
	base := c.lowerLValueExpr(n.Expr)
	elemType := base.gt.ArrayElementType()
	elemWords := elemType.ComponentCount()
	if elemWords == 0 {
		elemWords = 1
	}

	if lit, ok := constIndexOf(n.Index); ok {
		return &lvalue{gt: elemType, addr: c.addrAdd(base.addr, int32(lit*elemWords*wordSize))}
	}

	idxVals, _ := c.lowerExpr(n.Index)
	byteOff := c.emit(ir.Instruction{Op: ir.OpImul, Args: []ir.Value{idxVals[0], c.constI32(int64(elemWords * wordSize))}}, ir.I32)
	return &lvalue{gt: elemType, addr: c.addrAddDynamic(base.addr, byteOff)}
}

func constIndexOf(e glsl.Expr) (int, bool) {
	lit, ok := e.(*glsl.Literal)
	if !ok || lit.Kind != glsl.TokenIntLiteral {
		return 0, false
	}
	n := 0
	for _, ch := range lit.Value {
		if ch < '0' || ch > '9' {
			break
		}
		n = n*10 + int(ch-'0')
	}
	return n, true
}

// addrAdd offsets a Ptr value by a compile-time-known byte count.
func (c *Context) addrAdd(base ir.Value, byteOff int32) ir.Value {
	if byteOff == 0 {
		return base
	}
	asInt := c.emit(ir.Instruction{Op: ir.OpBitcast, Args: []ir.Value{base}}, ir.I32)
	added := c.emit(ir.Instruction{Op: ir.OpIadd, Args: []ir.Value{asInt, c.constI32(int64(byteOff))}}, ir.I32)
	return c.emit(ir.Instruction{Op: ir.OpBitcast, Args: []ir.Value{added}}, ir.Ptr)
}

// addrAddDynamic offsets a Ptr value by a runtime-computed byte count,
// round-tripping through I32 since the IR has no dedicated pointer-
// arithmetic opcode (spec.md §4.2's dynamic array-indexing scheme).
func (c *Context) addrAddDynamic(base, byteOff ir.Value) ir.Value {
	asInt := c.emit(ir.Instruction{Op: ir.OpBitcast, Args: []ir.Value{base}}, ir.I32)
	added := c.emit(ir.Instruction{Op: ir.OpIadd, Args: []ir.Value{asInt, byteOff}}, ir.I32)
	return c.emit(ir.Instruction{Op: ir.OpBitcast, Args: []ir.Value{added}}, ir.Ptr)
}

func (c *Context) load(addr ir.Value, byteOff int32, ct ir.Type) ir.Value {
	return c.emit(ir.Instruction{Op: ir.OpLoad, Args: []ir.Value{addr}, Offset: byteOff, LoadStoreType: ct}, ct)
}

func (c *Context) loadAt(addr ir.Value, wordOff int, t gtype.Type) []ir.Value {
	ct := componentType(t)
	n := t.ComponentCount()
	if n == 0 {
		n = 1
	}
	out := make([]ir.Value, n)
	for i := 0; i < n; i++ {
		out[i] = c.load(addr, int32((wordOff+i)*wordSize), ct)
	}
	return out
}

func (c *Context) store(addr ir.Value, byteOff int32, ct ir.Type, v ir.Value) {
	c.fn.PushInst(c.cur, ir.Instruction{Op: ir.OpStore, Args: []ir.Value{v, addr}, Offset: byteOff, LoadStoreType: ct}, ir.TypeInvalid)
}

// readLValue loads an lvalue's current flattened value.
func (c *Context) readLValue(lv *lvalue) []ir.Value {
	if lv.varBase != nil {
		if lv.swizzle != nil {
			out := make([]ir.Value, len(lv.swizzle))
			for i, idx := range lv.swizzle {
				out[i] = c.fb.UseVar(c.cur, lv.varBase.vars[idx])
			}
			return out
		}
		out := make([]ir.Value, len(lv.varBase.vars))
		for i, v := range lv.varBase.vars {
			out[i] = c.fb.UseVar(c.cur, v)
		}
		return out
	}
	return c.loadAt(lv.addr, 0, lv.gt)
}

// writeLValue stores vals into lvalue, overwriting only the selected
// components for a swizzle target.
func (c *Context) writeLValue(lv *lvalue, vals []ir.Value) {
	if lv.varBase != nil {
		if lv.swizzle != nil {
			for i, idx := range lv.swizzle {
				c.fb.DefVar(c.cur, lv.varBase.vars[idx], vals[i])
			}
			return
		}
		for i, v := range lv.varBase.vars {
			if i < len(vals) {
				c.fb.DefVar(c.cur, v, vals[i])
			}
		}
		return
	}
	ct := componentType(lv.gt)
	for i, v := range vals {
		c.store(lv.addr, int32(i*wordSize), ct, v)
	}
}

func isBuiltinCallName(name string) bool {
	if isInlineMathBuiltin(name) {
		return true
	}
	return len(name) > 5 && name[:5] == "lpfx_"
}
