// Package q32xform implements the Q32 transform (spec.md §4.3): an
// IR-to-IR pass that eliminates every f32 value and float opcode from a
// module by duplicating each function with a retyped (f32->i32) signature
// and rewriting its body onto Q16.16 fixed-point arithmetic, so the result
// satisfies ir.NoFloatValues and can target RV32 hardware with no FPU.
//
// Grounded in the teacher's validator/lower pipeline shape (ir/validate.go,
// lower/lower.go) generalized from "build a function" to "build a second,
// retyped function from a first one"; the rewrite table itself is
// spec.md §4.3's.
package q32xform

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/ledfx/lpglsl/builtin"
	"github.com/ledfx/lpglsl/ir"
	"github.com/ledfx/lpglsl/q32"
)

// Transform returns a new module with every function's float arithmetic
// rewritten to Q16.16 fixed-point; m itself is left untouched. Every
// external math/lpfx call is resolved against the builtin registry; an
// unresolvable call is reported as an E0301 invariant violation (spec.md
// §4.3: "the transform must not emit a call to a name the builtin
// registry does not recognize").
func Transform(m *ir.Module) (*ir.Module, error) {
	out := ir.NewModule(m.Name, m.Target)
	out.SourceLocs = m.SourceLocs

	for _, f := range m.Functions() {
		if err := transformFunction(m, out, f); err != nil {
			return nil, errors.Wrapf(err, "q32 transform: function %q", f.Name)
		}
	}
	for _, f := range out.Functions() {
		if errs := ir.NoFloatValues(f); len(errs) > 0 {
			return nil, errors.Errorf("q32 transform: %s: %s", f.Name, errs[0].Message)
		}
	}
	return out, nil
}

func retypeType(t ir.Type) ir.Type {
	if t == ir.F32 {
		return ir.I32
	}
	return t
}

func retypeSignature(sig *ir.Signature) *ir.Signature {
	out := &ir.Signature{CallConv: sig.CallConv}
	for _, p := range sig.Params {
		out.Params = append(out.Params, ir.AbiParam{Type: retypeType(p.Type)})
	}
	for _, r := range sig.Returns {
		out.Returns = append(out.Returns, ir.AbiParam{Type: retypeType(r.Type)})
	}
	return out
}

// txState carries the per-function old->new remapping state the second
// (instruction-rewriting) pass reads.
type txState struct {
	oldMod, newMod   *ir.Module
	oldFn            *ir.Function
	newFn            *ir.Function
	values           []ir.Value
	blocks           []ir.Block
	slots            []ir.StackSlot
}

func transformFunction(oldMod, newMod *ir.Module, f *ir.Function) error {
	newSig := retypeSignature(f.Signature)
	_, nf := newMod.DeclareFunction(f.Name, newSig)

	st := &txState{
		oldMod: oldMod, newMod: newMod, oldFn: f, newFn: nf,
		values: make([]ir.Value, f.NumValues()),
		blocks: make([]ir.Block, f.NumBlocks()),
	}

	// Stack slots keep their byte size: f32 and i32 are both one word wide,
	// so no slot needs resizing even though its contents' meaning changes.
	oldSlots := f.StackSlots()
	st.slots = make([]ir.StackSlot, len(oldSlots)+1)
	for i, sd := range oldSlots {
		oldID := ir.StackSlot(i + 1)
		st.slots[oldID] = nf.CreateStackSlot(sd.Name, sd.Size)
	}

	// Duplicate blocks and their parameters, in layout order, before
	// rewriting any instruction, since a jump may target a block that
	// hasn't had its instructions rewritten yet.
	for _, b := range f.Layout {
		nb := nf.CreateBlock()
		nf.AppendToLayout(nb)
		st.blocks[b] = nb
		for _, p := range f.BlockParams(b) {
			nv := nf.AppendBlockParam(nb, retypeType(p.Type))
			st.values[p.Value] = nv
		}
	}
	nf.EntryBlock = st.blocks[f.EntryBlock]

	for _, b := range f.Layout {
		nb := st.blocks[b]
		for _, inst := range f.Insts(b) {
			if err := st.rewriteInst(nb, inst); err != nil {
				return err
			}
		}
		nf.Seal(nb)
	}
	return nil
}

func (st *txState) resolve(v ir.Value) ir.Value {
	if v == ir.ValueInvalid {
		return ir.ValueInvalid
	}
	return st.values[st.oldFn.ResolveAlias(v)]
}

func (st *txState) resolveArgs(args []ir.Value) []ir.Value {
	out := make([]ir.Value, len(args))
	for i, a := range args {
		out[i] = st.resolve(a)
	}
	return out
}

func (st *txState) retarget(t ir.BlockCall) ir.BlockCall {
	return ir.BlockCall{Block: st.blocks[t.Block], Args: st.resolveArgs(t.Args)}
}

// rewriteInst emits inst's Q32-transformed equivalent into nb, following
// spec.md §4.3's per-opcode rewrite table.
func (st *txState) rewriteInst(nb ir.Block, inst ir.Instruction) error {
	nf := st.newFn
	args := st.resolveArgs(inst.Args)

	switch inst.Op {
	case ir.OpF32const:
		out := nf.PushInst(nb, ir.Instruction{Op: ir.OpIconst, Imm: int64(q32.FromFloat32(inst.ImmF32))}, ir.I32)
		st.values[inst.Result] = out.Result

	case ir.OpFadd:
		return st.rewriteBinaryCall(nb, inst, "__lp_q32_add", args)
	case ir.OpFsub:
		return st.rewriteBinaryCall(nb, inst, "__lp_q32_sub", args)
	case ir.OpFmul:
		return st.rewriteBinaryCall(nb, inst, "__lp_q32_mul", args)
	case ir.OpFdiv:
		return st.rewriteBinaryCall(nb, inst, "__lp_q32_div", args)

	case ir.OpFneg:
		zero := nf.PushInst(nb, ir.Instruction{Op: ir.OpIconst, Imm: 0}, ir.I32)
		out := nf.PushInst(nb, ir.Instruction{Op: ir.OpIsub, Args: []ir.Value{zero.Result, args[0]}}, ir.I32)
		st.values[inst.Result] = out.Result

	case ir.OpFcmp:
		out := nf.PushInst(nb, ir.Instruction{Op: ir.OpIcmp, IntCond: inst.FloatCond.ToSignedIntCC(), Args: args}, ir.I8)
		st.values[inst.Result] = out.Result

	case ir.OpLoad:
		lt := retypeType(inst.LoadStoreType)
		out := nf.PushInst(nb, ir.Instruction{Op: ir.OpLoad, Args: args, LoadStoreType: lt, Offset: inst.Offset}, lt)
		st.values[inst.Result] = out.Result
	case ir.OpStore:
		lt := retypeType(inst.LoadStoreType)
		nf.PushInst(nb, ir.Instruction{Op: ir.OpStore, Args: args, LoadStoreType: lt, Offset: inst.Offset}, ir.TypeInvalid)

	case ir.OpStackAddr:
		out := nf.PushInst(nb, ir.Instruction{Op: ir.OpStackAddr, Slot: st.slots[inst.Slot], Offset: inst.Offset}, ir.Ptr)
		st.values[inst.Result] = out.Result

	case ir.OpFcvtFromSint, ir.OpFcvtFromUint:
		// int n -> float n.0 becomes int n -> Q16.16 n: scale up by 2^16.
		sixteen := nf.PushInst(nb, ir.Instruction{Op: ir.OpIconst, Imm: 16}, ir.I32)
		out := nf.PushInst(nb, ir.Instruction{Op: ir.OpIshl, Args: []ir.Value{args[0], sixteen.Result}}, ir.I32)
		st.values[inst.Result] = out.Result
	case ir.OpFcvtToSint:
		// Q16.16 -> int truncates toward zero; this generalizes it to an
		// arithmetic shift (rounds toward -inf), a documented
		// simplification for negative fractional operands (see DESIGN.md).
		sixteen := nf.PushInst(nb, ir.Instruction{Op: ir.OpIconst, Imm: 16}, ir.I32)
		out := nf.PushInst(nb, ir.Instruction{Op: ir.OpSshr, Args: []ir.Value{args[0], sixteen.Result}}, ir.I32)
		st.values[inst.Result] = out.Result

	case ir.OpCall:
		return st.rewriteCall(nb, inst, args)

	case ir.OpJump:
		nf.PushInst(nb, ir.Instruction{Op: ir.OpJump, Targets: []ir.BlockCall{st.retarget(inst.Targets[0])}}, ir.TypeInvalid)
	case ir.OpBrif:
		nf.PushInst(nb, ir.Instruction{Op: ir.OpBrif, Args: args, Targets: []ir.BlockCall{
			st.retarget(inst.Targets[0]), st.retarget(inst.Targets[1]),
		}}, ir.TypeInvalid)
	case ir.OpReturn:
		nf.PushInst(nb, ir.Instruction{Op: ir.OpReturn, Args: args}, ir.TypeInvalid)

	default:
		// Integer/bitwise/comparison/conversion ops that don't touch
		// float values at all: copied structurally with args resolved.
		resultType := ir.TypeInvalid
		if inst.Result != ir.ValueInvalid {
			resultType = retypeType(st.oldFn.ValueType(inst.Result))
		}
		out := nf.PushInst(nb, ir.Instruction{
			Op: inst.Op, Args: args, Imm: inst.Imm,
			IntCond: inst.IntCond, Offset: inst.Offset,
		}, resultType)
		if inst.Result != ir.ValueInvalid {
			st.values[inst.Result] = out.Result
		}
	}
	return nil
}

func (st *txState) rewriteBinaryCall(nb ir.Block, inst ir.Instruction, symbol string, args []ir.Value) error {
	sig := &ir.Signature{CallConv: ir.SystemV,
		Params:  []ir.AbiParam{{Type: ir.I32}, {Type: ir.I32}},
		Returns: []ir.AbiParam{{Type: ir.I32}},
	}
	st.newMod.DeclareImport(symbol, sig)
	out := st.newFn.PushInst(nb, ir.Instruction{Op: ir.OpCall, Callee: symbol, Args: args}, ir.I32)
	st.values[inst.Result] = out.Result
	return nil
}

// rewriteCall resolves inst's callee — a user function, a recognized
// external math/lpfx builtin, or an opaque host import — to its Q32-
// transformed callee name, re-declaring whatever import is needed in the
// new module.
func (st *txState) rewriteCall(nb ir.Block, inst ir.Instruction, args []ir.Value) error {
	callee, sig, err := st.resolveCallee(inst.Callee)
	if err != nil {
		return err
	}
	resultType := ir.TypeInvalid
	if len(sig.Returns) == 1 {
		resultType = sig.Returns[0].Type
	}
	out := st.newFn.PushInst(nb, ir.Instruction{Op: ir.OpCall, Callee: callee, Args: args}, resultType)
	if inst.Result != ir.ValueInvalid {
		st.values[inst.Result] = out.Result
	}
	return nil
}

func (st *txState) resolveCallee(callee string) (string, *ir.Signature, error) {
	if _, ok := st.oldMod.FunctionByName(callee); ok {
		newFn, _ := st.newMod.FunctionByName(callee)
		if newFn != nil {
			return callee, newFn.Signature, nil
		}
		// Forward reference to a function not yet transformed: its final
		// signature is deterministic from the old one, so compute it
		// without waiting for that function's transformFunction call.
		oldFn, _ := st.oldMod.FunctionByName(callee)
		return callee, retypeSignature(oldFn.Signature), nil
	}

	if glslName, ok := externalBuiltinName(callee); ok {
		id, ok := builtin.ResolveGLSLName(builtin.DecimalFormatQ32, glslName)
		if !ok {
			return "", nil, errors.Errorf("E0301: no Q32 builtin registered for %q", callee)
		}
		sym, _ := builtin.Symbol(id)
		origSig := st.findImportSignature(callee)
		newSig := retypeSignature(origSig)
		st.newMod.DeclareImport(sym, newSig)
		return sym, newSig, nil
	}

	if st.oldMod.IsImported(callee) {
		origSig := st.findImportSignature(callee)
		newSig := retypeSignature(origSig)
		st.newMod.DeclareImport(callee, newSig)
		return callee, newSig, nil
	}

	return "", nil, errors.Errorf("E0301: q32 transform cannot resolve call target %q", callee)
}

func (st *txState) findImportSignature(name string) *ir.Signature {
	for _, imp := range st.oldMod.Imports() {
		if imp.Name == name {
			return imp.Signature
		}
	}
	return &ir.Signature{CallConv: ir.SystemV}
}

// externalBuiltinName recovers the GLSL-level builtin name from an
// ir.Instruction's Callee, inverting lower/builtins.go's builtinCallee
// ("__glsl_"+name for math intrinsics, "__"+name for lpfx_ helpers whose
// own name already carries the "lpfx_" prefix).
func externalBuiltinName(callee string) (string, bool) {
	if strings.HasPrefix(callee, "__glsl_") {
		return callee[len("__glsl_"):], true
	}
	if strings.HasPrefix(callee, "__lpfx_") {
		return callee[len("__"):], true
	}
	return "", false
}
