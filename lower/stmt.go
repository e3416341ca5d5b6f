package lower

import (
	"github.com/pkg/errors"

	"github.com/ledfx/lpglsl/glsl"
	"github.com/ledfx/lpglsl/ir"
)

func (c *Context) lowerBlock(b *glsl.BlockStmt) {
	c.pushScope()
	for _, s := range b.Statements {
		if c.terminated {
			break
		}
		c.lowerStmt(s)
	}
	c.popScope()
}

func (c *Context) lowerStmt(stmt glsl.Stmt) {
	switch n := stmt.(type) {
	case *glsl.VarDecl:
		c.lowerVarDecl(n)
	case *glsl.BlockStmt:
		c.lowerBlock(n)
	case *glsl.IfStmt:
		c.lowerIf(n)
	case *glsl.ForStmt:
		c.lowerFor(n)
	case *glsl.WhileStmt:
		c.lowerWhile(n)
	case *glsl.DoWhileStmt:
		c.lowerDoWhile(n)
	case *glsl.ReturnStmt:
		c.lowerReturn(n)
	case *glsl.BreakStmt:
		c.lowerBreak()
	case *glsl.ContinueStmt:
		c.lowerContinue()
	case *glsl.AssignStmt:
		c.lowerAssign(n)
	case *glsl.ExprStmt:
		c.lowerExpr(n.Expr)
	default:
		panic(errors.Errorf("lower: unhandled statement type %T", stmt))
	}
}

func (c *Context) lowerVarDecl(n *glsl.VarDecl) {
	gt, ok := resolveLowerType(n.Type, c.Shader)
	if !ok {
		panic(errors.Errorf("lower: unresolvable local type %q", n.Type.Name))
	}

	if isAggregate(gt) {
		c.declarePointer(n.Name, gt)
		if n.Init != nil {
			srcVals, _ := c.lowerExpr(n.Init)
			b, _ := c.scope.lookup(n.Name)
			c.copyAggregate(c.fb.UseVar(c.cur, b.ptr), srcVals[0], flattenedSize(gt), componentType(gt))
		}
		return
	}

	var init []ir.Value
	if n.Init != nil {
		vals, vt := c.lowerExpr(n.Init)
		init = c.convertComponents(vals, componentType(vt), componentType(gt))
	}
	c.declareValue(n.Name, gt, init)
}

// copyAggregate copies n words from src to dst, one load/store pair per
// word — arrays and structs are never large enough in shader code to
// warrant a bulk-memcpy instruction the IR doesn't have anyway.
func (c *Context) copyAggregate(dst, src ir.Value, n int, ct ir.Type) {
	for i := 0; i < n; i++ {
		v := c.load(src, int32(i*wordSize), ct)
		c.store(dst, int32(i*wordSize), ct, v)
	}
}

func (c *Context) lowerAssign(n *glsl.AssignStmt) {
	lv := c.lowerLValueExpr(n.Left)
	rhsVals, rhsType := c.lowerExpr(n.Right)

	if n.Op == glsl.TokenAssign {
		conv := c.convertComponents(rhsVals, componentType(rhsType), componentType(lv.gt))
		c.writeLValue(lv, conv)
		return
	}

	cur := c.readLValue(lv)
	result := c.lowerArith(compoundBaseOp(n.Op), cur, lv.gt, rhsVals, rhsType)
	c.writeLValue(lv, result)
}

func compoundBaseOp(op glsl.TokenKind) glsl.TokenKind {
	switch op {
	case glsl.TokenPlusEqual:
		return glsl.TokenPlus
	case glsl.TokenMinusEqual:
		return glsl.TokenMinus
	case glsl.TokenStarEqual:
		return glsl.TokenStar
	case glsl.TokenSlashEqual:
		return glsl.TokenSlash
	case glsl.TokenPercentEqual:
		return glsl.TokenPercent
	default:
		panic(errors.Errorf("lower: unhandled compound assignment operator %v", op))
	}
}

func (c *Context) lowerReturn(n *glsl.ReturnStmt) {
	if n.Value == nil {
		c.fn.PushInst(c.cur, ir.Instruction{Op: ir.OpReturn}, ir.TypeInvalid)
		c.terminated = true
		return
	}

	vals, vt := c.lowerExpr(n.Value)
	conv := c.convertComponents(vals, componentType(vt), componentType(c.retType))

	if len(conv) > 1 {
		for i, v := range conv {
			c.store(c.retPtr, int32(i*wordSize), componentType(c.retType), v)
		}
		c.fn.PushInst(c.cur, ir.Instruction{Op: ir.OpReturn}, ir.TypeInvalid)
	} else {
		c.fn.PushInst(c.cur, ir.Instruction{Op: ir.OpReturn, Args: conv}, ir.TypeInvalid)
	}
	c.terminated = true
}

func (c *Context) lowerBreak() {
	frame, ok := c.currentLoop()
	if !ok {
		panic(errors.New("lower: break outside a loop reached lowering"))
	}
	c.fb.Jump(c.cur, frame.breakBlock, nil)
	c.terminated = true
}

func (c *Context) lowerContinue() {
	frame, ok := c.currentLoop()
	if !ok {
		panic(errors.New("lower: continue outside a loop reached lowering"))
	}
	c.fb.Jump(c.cur, frame.continueBlock, nil)
	c.terminated = true
}

// lowerIf follows Cranelift's canonical if/else recipe: both arms are
// sealed immediately (their only predecessor, the branch, is already
// known), and the merge block is sealed only after both arms have emitted
// their trailing jump, since a break/return inside either arm means that
// arm never reaches the merge at all (spec.md §4.2, §9 sealing order).
func (c *Context) lowerIf(n *glsl.IfStmt) {
	condVals, _ := c.lowerExpr(n.Condition)
	thenBlock := c.newBlock()
	var elseBlock ir.Block
	if n.Else != nil {
		elseBlock = c.newBlock()
	}
	mergeBlock := c.newBlock()
	if n.Else == nil {
		elseBlock = mergeBlock
	}

	c.fb.Brif(c.cur, condVals[0], thenBlock, nil, elseBlock, nil)
	c.fb.SealBlock(thenBlock)
	if n.Else != nil {
		c.fb.SealBlock(elseBlock)
	}

	c.cur = thenBlock
	c.terminated = false
	c.lowerBlock(n.Body)
	if !c.terminated {
		c.fb.Jump(c.cur, mergeBlock, nil)
	}
	thenTerminated := c.terminated

	elseTerminated := false
	if n.Else != nil {
		c.cur = elseBlock
		c.terminated = false
		switch e := n.Else.(type) {
		case *glsl.BlockStmt:
			c.lowerBlock(e)
		case *glsl.IfStmt:
			c.lowerIf(e)
		default:
			panic(errors.Errorf("lower: unhandled else arm type %T", n.Else))
		}
		if !c.terminated {
			c.fb.Jump(c.cur, mergeBlock, nil)
		}
		elseTerminated = c.terminated
	}

	c.fb.SealBlock(mergeBlock)
	c.cur = mergeBlock
	c.terminated = thenTerminated && elseTerminated
}

// lowerFor threads a dedicated continuation block between the body and the
// loop header so `continue` runs the update expression before re-testing
// the condition, then seals the header only once both its predecessor
// edges (the initial entry and the bottom-of-loop jump) are known.
func (c *Context) lowerFor(n *glsl.ForStmt) {
	c.pushScope()
	defer c.popScope()

	if n.Init != nil {
		c.lowerStmt(n.Init)
	}

	headerBlock := c.newBlock()
	bodyBlock := c.newBlock()
	contBlock := c.newBlock()
	exitBlock := c.newBlock()

	c.fb.Jump(c.cur, headerBlock, nil)
	c.cur = headerBlock
	if n.Condition != nil {
		condVals, _ := c.lowerExpr(n.Condition)
		c.fb.Brif(c.cur, condVals[0], bodyBlock, nil, exitBlock, nil)
	} else {
		c.fb.Jump(c.cur, bodyBlock, nil)
	}
	c.fb.SealBlock(bodyBlock)

	c.pushLoop(contBlock, exitBlock)
	c.cur = bodyBlock
	c.terminated = false
	c.lowerBlock(n.Body)
	if !c.terminated {
		c.fb.Jump(c.cur, contBlock, nil)
	}
	c.popLoop()

	c.fb.SealBlock(contBlock)
	c.cur = contBlock
	c.terminated = false
	if n.Update != nil {
		c.lowerStmt(n.Update)
	}
	c.fb.Jump(c.cur, headerBlock, nil)

	c.fb.SealBlock(headerBlock)
	c.fb.SealBlock(exitBlock)
	c.cur = exitBlock
	c.terminated = false
}

func (c *Context) lowerWhile(n *glsl.WhileStmt) {
	headerBlock := c.newBlock()
	bodyBlock := c.newBlock()
	exitBlock := c.newBlock()

	c.fb.Jump(c.cur, headerBlock, nil)
	c.cur = headerBlock
	condVals, _ := c.lowerExpr(n.Condition)
	c.fb.Brif(c.cur, condVals[0], bodyBlock, nil, exitBlock, nil)
	c.fb.SealBlock(bodyBlock)

	c.pushLoop(headerBlock, exitBlock)
	c.cur = bodyBlock
	c.terminated = false
	c.lowerBlock(n.Body)
	if !c.terminated {
		c.fb.Jump(c.cur, headerBlock, nil)
	}
	c.popLoop()

	c.fb.SealBlock(headerBlock)
	c.fb.SealBlock(exitBlock)
	c.cur = exitBlock
	c.terminated = false
}

// lowerDoWhile defers sealing both the body and the condition block until
// the bottom-of-loop branch is emitted: the body's back-edge from the
// condition block, and the condition block's own predecessors (the body's
// fallthrough plus any continue), aren't all known until that point
// (spec.md §9's do-while sealing-timing note).
func (c *Context) lowerDoWhile(n *glsl.DoWhileStmt) {
	bodyBlock := c.newBlock()
	condBlock := c.newBlock()
	exitBlock := c.newBlock()

	c.fb.Jump(c.cur, bodyBlock, nil)

	c.pushLoop(condBlock, exitBlock)
	c.cur = bodyBlock
	c.terminated = false
	c.lowerBlock(n.Body)
	if !c.terminated {
		c.fb.Jump(c.cur, condBlock, nil)
	}
	c.popLoop()

	c.fb.SealBlock(condBlock)
	c.cur = condBlock
	c.terminated = false
	condVals, _ := c.lowerExpr(n.Condition)
	c.fb.Brif(c.cur, condVals[0], bodyBlock, nil, exitBlock, nil)

	c.fb.SealBlock(bodyBlock)
	c.fb.SealBlock(exitBlock)
	c.cur = exitBlock
	c.terminated = false
}
