package lower

import (
	"github.com/pkg/errors"

	"github.com/ledfx/lpglsl/ir"
	"github.com/ledfx/lpglsl/typed"
)

// Lower turns a typed.Shader into an ir.Module targeting target, one
// ir.Function per user function, SSA-built through ir.FunctionBuilder
// (spec.md §4.2).
func Lower(shader *typed.Shader, moduleName string, target ir.TargetDesc) (*ir.Module, error) {
	mod := ir.NewModule(moduleName, target)
	names := buildNameTable(shader)

	for _, fn := range shader.Functions {
		if err := lowerFunction(mod, shader, fn, names); err != nil {
			return nil, errors.Wrapf(err, "lowering function %q", fn.Name)
		}
	}
	return mod, nil
}

// buildNameTable assigns each resolved function a distinct IR function
// name, disambiguating GLSL overloads (same source name, different
// signature) since ir.Module's function table is keyed by a single flat
// name.
func buildNameTable(shader *typed.Shader) *nameTable {
	names := &nameTable{irName: make(map[*typed.Function]string)}
	seen := make(map[string]int)
	for _, fn := range shader.Functions {
		n := seen[fn.Name]
		seen[fn.Name] = n + 1
		if n == 0 {
			names.irName[fn] = fn.Name
		} else {
			names.irName[fn] = fn.Name + "$" + itoa(n)
		}
	}
	return names
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// lowerFunction declares fn's IR signature and lowers its body. Out/inout
// parameters and any aggregate (array/struct) parameter are passed as a
// single Ptr referencing the caller's storage; a multi-component return
// value is written through a hidden output pointer appended after the
// ordinary parameters (spec.md §4.2's parameter/return lowering rule).
func lowerFunction(mod *ir.Module, shader *typed.Shader, fn *typed.Function, names *nameTable) error {
	sig := &ir.Signature{CallConv: ir.SystemV}
	retWords := fn.ReturnType.ComponentCount()
	multiReturn := retWords > 1
	if !fn.ReturnType.IsVoid() && !multiReturn {
		sig.Returns = append(sig.Returns, ir.AbiParam{Type: componentType(fn.ReturnType)})
	}

	paramWords := make([]int, len(fn.Params))
	for i, p := range fn.Params {
		if p.Qualifier != typed.In || isAggregate(p.Type) {
			sig.Params = append(sig.Params, ir.AbiParam{Type: ir.Ptr})
			paramWords[i] = 1
			continue
		}
		n := p.Type.ComponentCount()
		if n == 0 {
			n = 1
		}
		paramWords[i] = n
		ct := componentType(p.Type)
		for j := 0; j < n; j++ {
			sig.Params = append(sig.Params, ir.AbiParam{Type: ct})
		}
	}
	if multiReturn {
		sig.Params = append(sig.Params, ir.AbiParam{Type: ir.Ptr})
	}

	_, irFn := mod.DeclareFunction(names.irName[fn], sig)
	c := newContext(mod, shader, irFn, names)
	c.retType = fn.ReturnType

	entry := c.newBlock()
	irFn.EntryBlock = entry
	c.cur = entry

	for i, p := range fn.Params {
		byRef := p.Qualifier != typed.In || isAggregate(p.Type)
		if byRef {
			addr := irFn.AppendBlockParam(entry, ir.Ptr)
			c.bindPointerParam(p.Name, p.Type, addr)
			continue
		}
		ct := componentType(p.Type)
		init := make([]ir.Value, paramWords[i])
		for j := range init {
			init[j] = irFn.AppendBlockParam(entry, ct)
		}
		c.declareValue(p.Name, p.Type, init)
	}
	if multiReturn {
		c.retPtr = irFn.AppendBlockParam(entry, ir.Ptr)
	}

	c.fb.SealBlock(entry)
	c.lowerBlock(fn.Body)
	if !c.terminated {
		emitFallthroughReturn(c)
	}
	return nil
}

// emitFallthroughReturn closes off a function body whose statements don't
// cover every path with an explicit return (e.g. a void function with no
// trailing return), keeping the IR well-formed with a final terminator.
func emitFallthroughReturn(c *Context) {
	if c.retType.IsVoid() {
		c.fn.PushInst(c.cur, ir.Instruction{Op: ir.OpReturn}, ir.TypeInvalid)
		return
	}
	n := c.retType.ComponentCount()
	if n == 0 {
		n = 1
	}
	ct := componentType(c.retType)
	if n > 1 {
		for i := 0; i < n; i++ {
			c.store(c.retPtr, int32(i*wordSize), ct, c.zero(ct))
		}
		c.fn.PushInst(c.cur, ir.Instruction{Op: ir.OpReturn}, ir.TypeInvalid)
		return
	}
	c.fn.PushInst(c.cur, ir.Instruction{Op: ir.OpReturn, Args: []ir.Value{c.zero(ct)}}, ir.TypeInvalid)
}
