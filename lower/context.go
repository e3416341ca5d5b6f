package lower

import (
	"fmt"

	"github.com/ledfx/lpglsl/gtype"
	"github.com/ledfx/lpglsl/ir"
	"github.com/ledfx/lpglsl/typed"
)

// binding is how a local name resolves to storage. Scalars, vectors and
// matrices live as a flat list of SSA variables, one per component
// (spec.md §4.2). Arrays, structs, and out/inout parameters of any shape
// are pointer-backed instead, since they need an address a runtime index
// or a callee write-back can target.
type binding struct {
	gt   gtype.Type
	vars []ir.Variable // valid when ptr == false
	ptr  ir.Variable   // valid when ptr == true: a Ptr-typed SSA variable
	isPtr bool
}

// loopFrame records a loop's continue/break targets so nested break/continue
// statements can jump there without threading the targets through every
// statement-lowering call.
type loopFrame struct {
	continueBlock ir.Block
	breakBlock    ir.Block
}

// scope is one nested block's name -> binding map, chained to its parent.
type scope struct {
	parent *scope
	names  map[string]*binding
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: make(map[string]*binding)}
}

func (s *scope) declare(name string, b *binding) { s.names[name] = b }

func (s *scope) lookup(name string) (*binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.names[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Context drives one function's lowering: it owns the FunctionBuilder, the
// current insertion block, the active scope chain, and the loop stack for
// break/continue, mirroring the single-threaded-context shape
// wgsl/lower.go's Lowerer uses, generalized from an expression-tree target
// to this module's block-based SSA IR.
type Context struct {
	Module *ir.Module
	Shader *typed.Shader

	fn *ir.Function
	fb *ir.FunctionBuilder

	cur        ir.Block
	terminated bool

	scope *scope
	loops []loopFrame

	names *nameTable

	retType gtype.Type
	retPtr  ir.Value // valid when retType.ComponentCount() > 1
}

// nameTable maps each resolved user function to the name its IR function
// was declared under, resolving GLSL overloads (same name, different
// signature) to distinct IR function names since ir.Module looks functions
// up by a single flat name (spec.md §4.2's overload-to-IR-function rule).
type nameTable struct {
	irName map[*typed.Function]string
}

func newContext(mod *ir.Module, shader *typed.Shader, fn *ir.Function, names *nameTable) *Context {
	return &Context{
		Module: mod,
		Shader: shader,
		fn:     fn,
		fb:     ir.NewFunctionBuilder(fn),
		scope:  newScope(nil),
		names:  names,
	}
}

// tempSlot allocates a scratch stack slot sized for words F32/I32 words and
// returns its address, used for the hidden-output-pointer convention a
// multi-component return value or builtin call result is written through.
func (c *Context) tempSlot(words int) ir.Value {
	slot := c.fn.CreateStackSlot("ret", uint32(words)*wordSize)
	return c.emit(ir.Instruction{Op: ir.OpStackAddr, Slot: slot}, ir.Ptr)
}

// newBlock allocates a block and appends it to the function's layout in
// creation order, which is also control-flow order for every construct
// stmt.go builds (if/for/while/do-while all create blocks in the order
// execution can reach them).
func (c *Context) newBlock() ir.Block {
	b := c.fn.CreateBlock()
	c.fn.AppendToLayout(b)
	return b
}

func (c *Context) pushScope() { c.scope = newScope(c.scope) }
func (c *Context) popScope()  { c.scope = c.scope.parent }

// declareValue allocates one SSA variable per component of gt, seeds each
// with init (or a zero value when init is nil), and binds name in the
// current scope.
func (c *Context) declareValue(name string, gt gtype.Type, init []ir.Value) {
	n := gt.ComponentCount()
	if n == 0 {
		n = 1
	}
	ct := componentType(gt)
	vars := make([]ir.Variable, n)
	for i := 0; i < n; i++ {
		vars[i] = c.fb.DeclareVar(ct)
		var val ir.Value
		if init != nil && i < len(init) {
			val = init[i]
		} else {
			val = c.zero(ct)
		}
		c.fb.DefVar(c.cur, vars[i], val)
	}
	c.scope.declare(name, &binding{gt: gt, vars: vars})
}

// declarePointer allocates a stack slot for an aggregate local (array or
// struct) and binds name to a pointer variable addressing it.
func (c *Context) declarePointer(name string, gt gtype.Type) {
	size := uint32(flattenedSize(gt)) * wordSize
	slot := c.fn.CreateStackSlot(name, size)
	ptrVar := c.fb.DeclareVar(ir.Ptr)
	addr := c.fn.PushInst(c.cur, ir.Instruction{Op: ir.OpStackAddr, Slot: slot}, ir.Ptr).Result
	c.fb.DefVar(c.cur, ptrVar, addr)
	c.scope.declare(name, &binding{gt: gt, ptr: ptrVar, isPtr: true})
}

// bindPointerParam binds name directly to an incoming Ptr SSA value (an
// out/inout parameter, or an array/struct parameter — both reference the
// caller's storage rather than a fresh local slot).
func (c *Context) bindPointerParam(name string, gt gtype.Type, addr ir.Value) {
	ptrVar := c.fb.DeclareVar(ir.Ptr)
	c.fb.DefVar(c.cur, ptrVar, addr)
	c.scope.declare(name, &binding{gt: gt, ptr: ptrVar, isPtr: true})
}

func (c *Context) zero(t ir.Type) ir.Value {
	switch t {
	case ir.F32:
		return c.fn.PushInst(c.cur, ir.Instruction{Op: ir.OpF32const, ImmF32: 0}, ir.F32).Result
	default:
		return c.fn.PushInst(c.cur, ir.Instruction{Op: ir.OpIconst, Imm: 0}, t).Result
	}
}

func (c *Context) constI32(v int64) ir.Value {
	return c.fn.PushInst(c.cur, ir.Instruction{Op: ir.OpIconst, Imm: v}, ir.I32).Result
}

func (c *Context) constF32(v float32) ir.Value {
	return c.fn.PushInst(c.cur, ir.Instruction{Op: ir.OpF32const, ImmF32: v}, ir.F32).Result
}

// emit appends inst to the current block, failing loudly if the block was
// already terminated — a lowering bug, not a user error, so it panics
// rather than threading another error return through every call site.
func (c *Context) emit(inst ir.Instruction, resultType ir.Type) ir.Value {
	if c.terminated {
		panic(fmt.Sprintf("lower: emit into terminated block %d", c.cur))
	}
	return c.fn.PushInst(c.cur, inst, resultType).Result
}

func (c *Context) pushLoop(continueBlock, breakBlock ir.Block) {
	c.loops = append(c.loops, loopFrame{continueBlock: continueBlock, breakBlock: breakBlock})
}

func (c *Context) popLoop() { c.loops = c.loops[:len(c.loops)-1] }

func (c *Context) currentLoop() (loopFrame, bool) {
	if len(c.loops) == 0 {
		return loopFrame{}, false
	}
	return c.loops[len(c.loops)-1], true
}
