package ir

// Value and Block are arena indices into a Function's per-function pools,
// not pointers: the function's IR is trivially copyable and traversals
// never need to reason about ownership, per the teacher's TypeHandle idiom
// (generalized here from a type-dedup table to a whole SSA function body).
type Value uint32
type Block uint32
type StackSlot uint32
type FuncRef uint32

// Invalid is returned by lookups that found nothing; zero is never a valid
// handle because every arena's slot 0 is reserved.
const ValueInvalid Value = 0
const BlockInvalid Block = 0

// ValueData records a value's type and, for aliases, the value it stands
// in for (spec.md §3: "a value may be aliased to another value").
type ValueData struct {
	Type    Type
	AliasOf Value // ValueInvalid if this value is not an alias
}

// BlockParam is one SSA block parameter (phi node stand-in).
type BlockParam struct {
	Value Value
	Type  Type
}

// BlockCall names a jump/branch target block together with the argument
// values passed to its block parameters.
type BlockCall struct {
	Block Block
	Args  []Value
}

// Instruction is one IR instruction. Not every field is meaningful for
// every opcode; which fields apply is determined by Op.
type Instruction struct {
	Op Opcode

	// Result, for opcodes that produce a value (ValueInvalid otherwise).
	Result Value

	// Args holds the instruction's SSA operands, in operand order.
	Args []Value

	// Imm holds an iconst's immediate value, sign-extended into int64.
	Imm int64
	// ImmF32 holds an f32const's immediate.
	ImmF32 float32

	IntCond   IntCC
	FloatCond FloatCC

	// StackSlot, for stack_addr.
	Slot StackSlot
	// Offset, for stack_addr/load/store addressing within a slot-relative
	// or raw-pointer access.
	Offset int32

	// LoadStoreType is the memory access width/type for load/store
	// (kept separate from Result.Type since store has no result).
	LoadStoreType Type

	// Callee identifies a direct call's target function, by name, within
	// the owning module (covers both module-local functions and imported
	// declarations such as __lp_q32_add or __host_log).
	Callee string

	// Targets holds jump's single target or brif's [then, else] targets.
	Targets []BlockCall

	// Loc is the source-location token for error symbolication; zero means
	// "no location" (e.g. a value materialized purely by a transform pass).
	Loc SourceLocID
}

// BlockData holds one basic block's parameters and its ordered
// instruction list (its "layout", per spec.md §3).
type BlockData struct {
	Params []BlockParam
	Insts  []Instruction
	Sealed bool
	// Preds lists predecessor blocks that currently jump/branch here,
	// tracked so the SSA builder can resolve phis when the block seals.
	Preds []Block
}

// StackSlotData describes one local-storage slot used to model arrays and
// out/inout parameters that must survive SSA renaming (spec.md §3, §4.2).
type StackSlotData struct {
	Name string
	Size uint32 // bytes
}

// Function is one GL-function record's IR body: a target-independent
// signature plus a set of basic blocks in layout order (spec.md §3).
type Function struct {
	Name      string
	Signature *Signature

	values []ValueData
	blocks []BlockData
	slots  []StackSlotData

	// Layout is the emission order of blocks; BlockData itself doesn't
	// order blocks relative to one another.
	Layout []Block

	// EntryBlock is the function's first block. NewFunction does not
	// create it; the caller creates the block and sets this field.
	EntryBlock Block
}

// NewFunction creates an empty function with the given name and signature,
// reserving arena slot 0 in each pool so the zero Value/Block/StackSlot
// value is recognizably invalid.
func NewFunction(name string, sig *Signature) *Function {
	f := &Function{
		Name:      name,
		Signature: sig,
		values:    make([]ValueData, 1),
		blocks:    make([]BlockData, 1),
		slots:     make([]StackSlotData, 1),
	}
	return f
}

// CreateBlock allocates a new, initially unsealed, empty block.
func (f *Function) CreateBlock() Block {
	id := Block(len(f.blocks))
	f.blocks = append(f.blocks, BlockData{})
	return id
}

// AppendBlockParam adds a parameter of the given type to block, returning
// its fresh SSA value.
func (f *Function) AppendBlockParam(b Block, t Type) Value {
	v := f.newValue(t)
	f.blocks[b].Params = append(f.blocks[b].Params, BlockParam{Value: v, Type: t})
	return v
}

// BlockParams returns block's parameter list.
func (f *Function) BlockParams(b Block) []BlockParam { return f.blocks[b].Params }

func (f *Function) newValue(t Type) Value {
	id := Value(len(f.values))
	f.values = append(f.values, ValueData{Type: t, AliasOf: ValueInvalid})
	return id
}

// ValueType returns a value's declared type, resolving through any alias
// chain (spec.md §9: "resolve aliases" before using a value).
func (f *Function) ValueType(v Value) Type {
	return f.values[f.ResolveAlias(v)].Type
}

// ResolveAlias follows AliasOf links until it reaches a non-aliased value.
func (f *Function) ResolveAlias(v Value) Value {
	for {
		if f.values[v].AliasOf == ValueInvalid {
			return v
		}
		v = f.values[v].AliasOf
	}
}

// SetAlias marks v as an alias of target; future ResolveAlias(v) calls
// return target (or whatever target itself resolves to).
func (f *Function) SetAlias(v, target Value) {
	f.values[v].AliasOf = target
}

// CreateStackSlot allocates a named stack slot of the given byte size.
func (f *Function) CreateStackSlot(name string, size uint32) StackSlot {
	id := StackSlot(len(f.slots))
	f.slots = append(f.slots, StackSlotData{Name: name, Size: size})
	return id
}

func (f *Function) StackSlotData(s StackSlot) StackSlotData { return f.slots[s] }
func (f *Function) StackSlots() []StackSlotData             { return f.slots[1:] }

// PushInst appends inst to the end of block's instruction list, allocating
// a fresh result value if inst's opcode produces one. The caller supplies
// the result type via resultType (TypeInvalid for opcodes with no result).
func (f *Function) PushInst(b Block, inst Instruction, resultType Type) Instruction {
	if resultType != TypeInvalid {
		inst.Result = f.newValue(resultType)
	} else {
		inst.Result = ValueInvalid
	}
	f.blocks[b].Insts = append(f.blocks[b].Insts, inst)
	return f.blocks[b].Insts[len(f.blocks[b].Insts)-1]
}

// Insts returns block's instructions.
func (f *Function) Insts(b Block) []Instruction { return f.blocks[b].Insts }

// SetInsts replaces block's instruction list wholesale; used by passes
// (e.g. the Q32 transform is allowed to build the new function's blocks
// this way since it constructs every instruction fresh).
func (f *Function) SetInsts(b Block, insts []Instruction) { f.blocks[b].Insts = insts }

// AddPred records that from now branches/jumps to b.
func (f *Function) AddPred(b, from Block) {
	f.blocks[b].Preds = append(f.blocks[b].Preds, from)
}

func (f *Function) Preds(b Block) []Block { return f.blocks[b].Preds }

// Seal marks a block as sealed: all of its predecessors are now known, so
// the SSA builder may finish resolving any phi placeholders that were
// created while the block was open (spec.md §4.2, §9).
func (f *Function) Seal(b Block) { f.blocks[b].Sealed = true }

func (f *Function) IsSealed(b Block) bool { return f.blocks[b].Sealed }

// AppendToLayout appends b to the function's block emission order.
func (f *Function) AppendToLayout(b Block) { f.Layout = append(f.Layout, b) }

// NumValues and NumBlocks expose arena sizes for validators/transforms
// that need to size parallel side tables.
func (f *Function) NumValues() int { return len(f.values) }
func (f *Function) NumBlocks() int { return len(f.blocks) }
