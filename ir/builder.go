package ir

// Variable is a source-level scalar variable slot used only during SSA
// construction — it never appears in the finished IR, which only has
// Values. Each GLSL scalar component (see spec.md §4.2's variable mapping:
// one SSA variable per vector/matrix component) gets its own Variable.
type Variable uint32

// FunctionBuilder drives one function's SSA construction: it resolves
// variable reads through block parameters (phi nodes) exactly as
// Cranelift's frontend does, including the block-sealing discipline
// spec.md §4.2 and §9 call out as load-bearing (seal a block only once
// every predecessor edge into it is known, or phi construction is wrong).
type FunctionBuilder struct {
	F *Function

	varTypes map[Variable]Type
	nextVar  Variable

	// defs[block][variable] is that variable's current definition at the
	// end of block, once known.
	defs map[Block]map[Variable]Value

	// incomplete[block][variable] records a block parameter created to
	// stand in for variable before block was sealed; SealBlock resolves
	// these by threading the right value across every predecessor edge.
	incomplete map[Block]map[Variable]Value
}

// NewFunctionBuilder wraps f for SSA construction.
func NewFunctionBuilder(f *Function) *FunctionBuilder {
	return &FunctionBuilder{
		F:          f,
		varTypes:   make(map[Variable]Type),
		defs:       make(map[Block]map[Variable]Value),
		incomplete: make(map[Block]map[Variable]Value),
	}
}

// DeclareVar allocates a fresh Variable of the given type.
func (b *FunctionBuilder) DeclareVar(t Type) Variable {
	v := b.nextVar
	b.nextVar++
	b.varTypes[v] = t
	return v
}

// DefVar records value as variable's current definition at the end of
// block (spec.md §4.2: writing through an LValue stores back to the same
// set of variables).
func (b *FunctionBuilder) DefVar(block Block, variable Variable, value Value) {
	m, ok := b.defs[block]
	if !ok {
		m = make(map[Variable]Value)
		b.defs[block] = m
	}
	m[variable] = value
}

// UseVar reads variable's live value as seen from block, creating block
// parameters (phis) on demand when the definition must flow in from one
// or more predecessors.
func (b *FunctionBuilder) UseVar(block Block, variable Variable) Value {
	if m, ok := b.defs[block]; ok {
		if v, ok := m[variable]; ok {
			return v
		}
	}
	return b.readVarRecursive(block, variable)
}

func (b *FunctionBuilder) readVarRecursive(block Block, variable Variable) Value {
	if !b.F.IsSealed(block) {
		val := b.F.AppendBlockParam(block, b.varTypes[variable])
		im, ok := b.incomplete[block]
		if !ok {
			im = make(map[Variable]Value)
			b.incomplete[block] = im
		}
		im[variable] = val
		b.DefVar(block, variable, val)
		return val
	}

	preds := b.F.Preds(block)
	switch len(preds) {
	case 0:
		// No predecessor defines this variable (e.g. a read of a local
		// before any write reaches this point along any path). GLSL
		// permits reading an uninitialized local; produce a zero value
		// rather than treating it as an IR invariant violation.
		val := b.zeroValue(block, b.varTypes[variable])
		b.DefVar(block, variable, val)
		return val
	case 1:
		val := b.UseVar(preds[0], variable)
		b.DefVar(block, variable, val)
		return val
	default:
		val := b.F.AppendBlockParam(block, b.varTypes[variable])
		b.DefVar(block, variable, val) // break cycles through loop back-edges
		for _, pred := range preds {
			predVal := b.UseVar(pred, variable)
			b.addBlockArg(pred, block, predVal)
		}
		return val
	}
}

func (b *FunctionBuilder) zeroValue(block Block, t Type) Value {
	var inst Instruction
	inst.Op = OpIconst
	if t == F32 {
		inst.Op = OpF32const
		inst.ImmF32 = 0
	} else {
		inst.Imm = 0
	}
	out := b.F.PushInst(block, inst, t)
	return out.Result
}

// addBlockArg appends value to the BlockCall in pred's terminator that
// targets "to", in step with every other predecessor's append for the
// same block parameter (see the package doc for why this keeps Args lists
// positionally aligned with Params across all predecessors).
func (b *FunctionBuilder) addBlockArg(pred, to Block, value Value) {
	insts := b.F.Insts(pred)
	if len(insts) == 0 {
		return
	}
	last := &insts[len(insts)-1]
	for i := range last.Targets {
		if last.Targets[i].Block == to {
			last.Targets[i].Args = append(last.Targets[i].Args, value)
			return
		}
	}
}

// SealBlock marks block as sealed and resolves every phi placeholder that
// was created while it was open, by threading the right value in from
// every predecessor edge now known. Call this only once every predecessor
// of block has had its branch/jump to it emitted (spec.md §4.2's
// per-construct sealing rules; §9's "Block sealing timing in loops").
func (b *FunctionBuilder) SealBlock(block Block) {
	b.F.Seal(block)
	pending := b.incomplete[block]
	delete(b.incomplete, block)
	for variable, phiVal := range pending {
		for _, pred := range b.F.Preds(block) {
			predVal := b.UseVar(pred, variable)
			b.addBlockArg(pred, block, predVal)
		}
		_ = phiVal
	}
}

// Jump emits an unconditional jump from the current block to target,
// recording the predecessor edge so target's eventual sealing can resolve
// phis along it. args are the explicit (non-variable) block arguments the
// caller already has in hand; phi-driven arguments are appended later by
// SealBlock/readVarRecursive.
func (b *FunctionBuilder) Jump(from, target Block, args []Value) {
	b.F.AddPred(target, from)
	b.F.PushInst(from, Instruction{
		Op:      OpJump,
		Targets: []BlockCall{{Block: target, Args: append([]Value(nil), args...)}},
	}, TypeInvalid)
}

// Brif emits a conditional branch from the current block to thenBlock (if
// cond is non-zero) or elseBlock (otherwise), recording both predecessor
// edges.
func (b *FunctionBuilder) Brif(from Block, cond Value, thenBlock Block, thenArgs []Value, elseBlock Block, elseArgs []Value) {
	b.F.AddPred(thenBlock, from)
	b.F.AddPred(elseBlock, from)
	b.F.PushInst(from, Instruction{
		Op:   OpBrif,
		Args: []Value{cond},
		Targets: []BlockCall{
			{Block: thenBlock, Args: append([]Value(nil), thenArgs...)},
			{Block: elseBlock, Args: append([]Value(nil), elseArgs...)},
		},
	}, TypeInvalid)
}
